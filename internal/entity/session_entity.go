// FILE: internal/entity/session_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	SessionStatusPending    SessionStatus = "pending"
	SessionStatusConfirmed  SessionStatus = "confirmed"
	SessionStatusInProgress SessionStatus = "in-progress"
	SessionStatusCompleted  SessionStatus = "completed"
	SessionStatusCancelled  SessionStatus = "cancelled"
	SessionStatusNoShow     SessionStatus = "no-show"
)

// IsTerminal reports whether no further transitions may leave the status.
func (s SessionStatus) IsTerminal() bool {
	return s == SessionStatusCompleted || s == SessionStatusCancelled || s == SessionStatusNoShow
}

type SessionFormat string

const (
	SessionFormatInPerson SessionFormat = "in-person"
	SessionFormatVirtual  SessionFormat = "virtual"
	SessionFormatHybrid   SessionFormat = "hybrid"
)

type SkillCategory string

const (
	SkillCategoryAcademics  SkillCategory = "academics"
	SkillCategoryLanguages  SkillCategory = "languages"
	SkillCategoryTechnology SkillCategory = "technology"
	SkillCategoryArts       SkillCategory = "arts"
	SkillCategoryMusic      SkillCategory = "music"
	SkillCategorySports     SkillCategory = "sports"
	SkillCategoryOther      SkillCategory = "other"
)

// ValidSkillCategory reports membership in the closed category enumeration.
func ValidSkillCategory(c SkillCategory) bool {
	switch c {
	case SkillCategoryAcademics, SkillCategoryLanguages, SkillCategoryTechnology,
		SkillCategoryArts, SkillCategoryMusic, SkillCategorySports, SkillCategoryOther:
		return true
	}
	return false
}

const (
	SessionDurationMin = 15
	SessionDurationMax = 180

	DefaultTutorPoints   = 20
	DefaultStudentPoints = 10
)

// StatusChange is one entry of the append-only status history.
type StatusChange struct {
	Status    SessionStatus `json:"status"`
	ChangedAt time.Time     `json:"changed_at"`
	ChangedBy uuid.UUID     `json:"changed_by"`
	Reason    string        `json:"reason,omitempty"`
}

// SessionCancellation records who cancelled and why. Populated only when
// status is cancelled.
type SessionCancellation struct {
	CancelledBy uuid.UUID `json:"cancelled_by"`
	Reason      string    `json:"reason"`
	CancelledAt time.Time `json:"cancelled_at"`
}

// PointsAward is the per-participant point split applied on completion.
type PointsAward struct {
	Tutor   int `json:"tutor"`
	Student int `json:"student"`
}

// Session is one tutoring engagement between two users.
type Session struct {
	Id              uuid.UUID
	TutorId         uuid.UUID
	StudentId       uuid.UUID
	Title           string
	Description     string
	SkillName       string
	SkillCategory   SkillCategory
	ScheduledDate   time.Time
	DurationMinutes int
	Format          SessionFormat
	Location        string
	MeetingLink     string
	Status          SessionStatus
	StatusHistory   []StatusChange
	ActualStartTime *time.Time
	ActualEndTime   *time.Time
	Cancellation    *SessionCancellation
	PointsAwarded   *PointsAward
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsParticipant reports whether the user is either side of the engagement.
func (s *Session) IsParticipant(userId uuid.UUID) bool {
	return s.TutorId == userId || s.StudentId == userId
}

// OtherParticipant returns the counterpart of the given participant.
func (s *Session) OtherParticipant(userId uuid.UUID) uuid.UUID {
	if s.TutorId == userId {
		return s.StudentId
	}
	return s.TutorId
}

// DurationHours converts the booked duration for the hour counters.
func (s *Session) DurationHours() float64 {
	return float64(s.DurationMinutes) / 60.0
}
