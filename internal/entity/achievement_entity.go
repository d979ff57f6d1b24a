package entity

import (
	"time"

	"github.com/google/uuid"
)

// Achievement codes. The catalog rows are seeded at migration time; grants
// reference these codes.
const (
	AchievementFirstSessionTutor   = "first_session_tutor"
	AchievementFirstSessionStudent = "first_session_student"
	AchievementSessions10          = "sessions_10"
	AchievementSessions25          = "sessions_25"
	AchievementHours10             = "hours_10"
	AchievementFirstReview         = "first_review"
	AchievementTopRated            = "top_rated"
)

// Achievement is a catalog entry describing a grantable badge.
type Achievement struct {
	Id          uuid.UUID
	Code        string
	Name        string
	Description string
	Points      int
	CreatedAt   time.Time
}

// AchievementGrant records that a user earned an achievement. Unique on
// (user, code) so re-granting is a database no-op.
type AchievementGrant struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Code      string
	GrantedAt time.Time
}
