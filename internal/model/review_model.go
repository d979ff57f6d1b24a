package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review GORM model. One review per reviewer per session.
type Review struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_session_reviewer"`
	ReviewerId uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_session_reviewer"`
	RevieweeId uuid.UUID `gorm:"type:uuid;not null;index"`
	Rating     int       `gorm:"not null"`
	Comment    string    `gorm:"type:text"`
	Hidden     bool      `gorm:"not null;default:false"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime"`
	DeletedAt  gorm.DeletedAt `gorm:"index"`

	Session  Session `gorm:"foreignKey:SessionId"`
	Reviewer User    `gorm:"foreignKey:ReviewerId"`
	Reviewee User    `gorm:"foreignKey:RevieweeId"`
}

func (Review) TableName() string {
	return "reviews"
}
