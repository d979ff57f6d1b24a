package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Session GORM model. StatusHistory is a JSONB array appended in the same
// UPDATE as the status column, so readers never see one without the other.
// Rows are never hard-deleted; cancellation is terminal-but-retained.
type Session struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TutorId         uuid.UUID `gorm:"type:uuid;not null;index"`
	StudentId       uuid.UUID `gorm:"type:uuid;not null;index"`
	Title           string    `gorm:"type:varchar(255);not null"`
	Description     string    `gorm:"type:text"`
	SkillName       string    `gorm:"type:varchar(100);not null"`
	SkillCategory   string    `gorm:"type:varchar(50);not null;index"`
	ScheduledDate   time.Time `gorm:"not null;index"`
	DurationMinutes int       `gorm:"not null"`
	Format          string    `gorm:"type:varchar(20);not null"`
	Location        string    `gorm:"type:varchar(255)"`
	MeetingLink     string    `gorm:"type:text"`
	Status          string    `gorm:"type:varchar(20);not null;default:'pending';index"`
	StatusHistory   datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'"`
	ActualStartTime *time.Time
	ActualEndTime   *time.Time
	CancelledBy     *uuid.UUID `gorm:"type:uuid"`
	CancelReason    string     `gorm:"type:text"`
	CancelledAt     *time.Time
	PointsTutor     *int
	PointsStudent   *int
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`

	Tutor   User `gorm:"foreignKey:TutorId"`
	Student User `gorm:"foreignKey:StudentId"`
}

func (Session) TableName() string {
	return "sessions"
}
