package dto

import (
	"time"

	"github.com/google/uuid"
)

type AdminUserListResponse struct {
	Users  []*UserProfileResponse `json:"users"`
	Total  int64                  `json:"total"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
}

type AdminModerateUserRequest struct {
	Action string `json:"action" validate:"required,oneof=suspend reactivate"`
	Reason string `json:"reason" validate:"required,min=3,max=1000"`
}

type AdminModerateReviewRequest struct {
	Hidden bool   `json:"hidden"`
	Reason string `json:"reason" validate:"required,min=3,max=1000"`
}

// AdminDashboardResponse is the cached platform analytics snapshot.
type AdminDashboardResponse struct {
	TotalUsers         int64            `json:"total_users"`
	ActiveUsers        int64            `json:"active_users"`
	TotalSessions      int64            `json:"total_sessions"`
	SessionsByStatus   map[string]int64 `json:"sessions_by_status"`
	SessionsByCategory map[string]int64 `json:"sessions_by_category"`
	TotalReviews       int64            `json:"total_reviews"`
	TopTutors          []TopTutorDTO    `json:"top_tutors"`
	GeneratedAt        time.Time        `json:"generated_at"`
}

type TopTutorDTO struct {
	UserId         uuid.UUID `json:"user_id"`
	FullName       string    `json:"full_name"`
	SessionsHosted int       `json:"sessions_hosted"`
	AverageRating  float64   `json:"average_rating"`
}

type AuditEventDTO struct {
	Id          uuid.UUID              `json:"id"`
	ActorId     *uuid.UUID             `json:"actor_id,omitempty"`
	Action      string                 `json:"action"`
	Category    string                 `json:"category"`
	Description string                 `json:"description,omitempty"`
	TargetType  string                 `json:"target_type,omitempty"`
	TargetId    *uuid.UUID             `json:"target_id,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

type AuditLogResponse struct {
	Events []*AuditEventDTO `json:"events"`
	Total  int64            `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}
