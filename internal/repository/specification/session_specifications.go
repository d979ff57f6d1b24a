package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByParticipant matches sessions where the user is tutor or student.
type ByParticipant struct {
	UserID uuid.UUID
}

func (s ByParticipant) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("tutor_id = ? OR student_id = ?", s.UserID, s.UserID)
}

type ByTutor struct {
	UserID uuid.UUID
}

func (s ByTutor) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("tutor_id = ?", s.UserID)
}

type ByStudent struct {
	UserID uuid.UUID
}

func (s ByStudent) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("student_id = ?", s.UserID)
}

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

type ByCategory struct {
	Category string
}

func (s ByCategory) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("skill_category = ?", s.Category)
}

// ScheduledAfter filters sessions on or after the given instant.
type ScheduledAfter struct {
	At time.Time
}

func (s ScheduledAfter) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("scheduled_date >= ?", s.At)
}

// ByConversation matches messages of one conversation.
type ByConversation struct {
	ConversationID uuid.UUID
}

func (s ByConversation) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("conversation_id = ?", s.ConversationID)
}
