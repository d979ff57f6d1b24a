// FILE: internal/entity/user_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string
type UserStatus string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"

	UserStatusPending   UserStatus = "pending"
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

type User struct {
	Id              uuid.UUID
	Email           string
	PasswordHash    *string
	FullName        string
	Bio             string
	Role            UserRole
	Status          UserStatus
	EmailVerified   bool
	EmailVerifiedAt *time.Time
	AvatarURL       *string
	Stats           UserStats
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// UserStats holds the denormalized aggregates the lifecycle orchestrator
// maintains via atomic increments. Never mutated read-modify-write.
type UserStats struct {
	SessionsHosted    int
	SessionsCompleted int
	TotalPoints       int
	HoursTaught       float64
	HoursLearned      float64
	RatingCount       int
	RatingTotal       int
}

// AverageRating is derived, never stored.
func (s UserStats) AverageRating() float64 {
	if s.RatingCount == 0 {
		return 0
	}
	return float64(s.RatingTotal) / float64(s.RatingCount)
}

type SkillKind string

const (
	SkillKindTeach SkillKind = "teach"
	SkillKindLearn SkillKind = "learn"
)

// UserSkill is a skill a user offers to teach or wants to learn.
type UserSkill struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Name      string
	Category  SkillCategory
	Kind      SkillKind
	Level     string
	CreatedAt time.Time
}

type PasswordResetToken struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Token     string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

type EmailVerificationToken struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

type UserRefreshToken struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
	IpAddress string
	UserAgent string
}
