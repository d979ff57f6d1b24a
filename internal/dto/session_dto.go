// FILE: internal/dto/session_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
)

type RequestSessionRequest struct {
	TutorId         uuid.UUID `json:"tutor_id" validate:"required"`
	Title           string    `json:"title" validate:"required,min=3,max=255"`
	Description     string    `json:"description" validate:"max=5000"`
	SkillName       string    `json:"skill_name" validate:"required,min=2,max=100"`
	SkillCategory   string    `json:"skill_category" validate:"required"`
	ScheduledDate   time.Time `json:"scheduled_date" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" validate:"required,min=15,max=180"`
	Format          string    `json:"format" validate:"required,oneof=in-person virtual hybrid"`
	Location        string    `json:"location" validate:"max=255"`
	MeetingLink     string    `json:"meeting_link" validate:"omitempty,url"`
}

type CompleteSessionRequest struct {
	TutorPoints   int `json:"tutor_points" validate:"omitempty,min=1,max=100"`
	StudentPoints int `json:"student_points" validate:"omitempty,min=1,max=100"`
}

type CancelSessionRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=1000"`
}

type StatusChangeDTO struct {
	Status    string    `json:"status"`
	ChangedAt time.Time `json:"changed_at"`
	ChangedBy uuid.UUID `json:"changed_by"`
	Reason    string    `json:"reason,omitempty"`
}

type CancellationDTO struct {
	CancelledBy uuid.UUID `json:"cancelled_by"`
	Reason      string    `json:"reason"`
	CancelledAt time.Time `json:"cancelled_at"`
}

type PointsAwardDTO struct {
	Tutor   int `json:"tutor"`
	Student int `json:"student"`
}

// SessionResponse is the full session view. Warnings reports best-effort side
// effects that failed after the status change itself succeeded.
type SessionResponse struct {
	Id              uuid.UUID         `json:"id"`
	TutorId         uuid.UUID         `json:"tutor_id"`
	StudentId       uuid.UUID         `json:"student_id"`
	Title           string            `json:"title"`
	Description     string            `json:"description,omitempty"`
	SkillName       string            `json:"skill_name"`
	SkillCategory   string            `json:"skill_category"`
	ScheduledDate   time.Time         `json:"scheduled_date"`
	DurationMinutes int               `json:"duration_minutes"`
	Format          string            `json:"format"`
	Location        string            `json:"location,omitempty"`
	MeetingLink     string            `json:"meeting_link,omitempty"`
	Status          string            `json:"status"`
	StatusHistory   []StatusChangeDTO `json:"status_history"`
	ActualStartTime *time.Time        `json:"actual_start_time,omitempty"`
	ActualEndTime   *time.Time        `json:"actual_end_time,omitempty"`
	Cancellation    *CancellationDTO  `json:"cancellation,omitempty"`
	PointsAwarded   *PointsAwardDTO   `json:"points_awarded,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	Warnings        []string          `json:"warnings,omitempty"`
}

type SessionListResponse struct {
	Sessions []*SessionResponse `json:"sessions"`
	Total    int64              `json:"total"`
	Limit    int                `json:"limit"`
	Offset   int                `json:"offset"`
}
