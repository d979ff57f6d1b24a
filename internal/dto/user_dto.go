// FILE: internal/dto/user_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
)

type UserProfileResponse struct {
	Id            uuid.UUID       `json:"id"`
	Email         string          `json:"email,omitempty"`
	FullName      string          `json:"full_name"`
	Bio           string          `json:"bio,omitempty"`
	Role          string          `json:"role"`
	Status        string          `json:"status"`
	AvatarURL     string          `json:"avatar_url,omitempty"`
	Stats         UserStatsDTO    `json:"stats"`
	Skills        []UserSkillDTO  `json:"skills"`
	Achievements  []AchievementDTO `json:"achievements,omitempty"`
	MemberSince   time.Time       `json:"member_since"`
}

type UserStatsDTO struct {
	SessionsHosted    int     `json:"sessions_hosted"`
	SessionsCompleted int     `json:"sessions_completed"`
	TotalPoints       int     `json:"total_points"`
	HoursTaught       float64 `json:"hours_taught"`
	HoursLearned      float64 `json:"hours_learned"`
	AverageRating     float64 `json:"average_rating"`
	RatingCount       int     `json:"rating_count"`
}

type UpdateProfileRequest struct {
	FullName  string `json:"full_name" validate:"required,min=2,max=100"`
	Bio       string `json:"bio" validate:"max=2000"`
	AvatarURL string `json:"avatar_url" validate:"omitempty,url"`
}

type UserSkillDTO struct {
	Id       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
	Kind     string    `json:"kind"`
	Level    string    `json:"level,omitempty"`
}

type AddSkillRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Category string `json:"category" validate:"required"`
	Kind     string `json:"kind" validate:"required,oneof=teach learn"`
	Level    string `json:"level" validate:"omitempty,max=50"`
}

type AchievementDTO struct {
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Points      int       `json:"points"`
	GrantedAt   time.Time `json:"granted_at"`
}
