package model

import (
	"time"

	"github.com/google/uuid"
)

// Conversation GORM model. One row per user pair; participants are stored in
// sorted order so the pair index is unique regardless of who messaged first.
type Conversation struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ParticipantA  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_conversations_pair"`
	ParticipantB  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_conversations_pair"`
	LastMessageAt *time.Time `gorm:"index"`
	UnreadCountA  int        `gorm:"not null;default:0"`
	UnreadCountB  int        `gorm:"not null;default:0"`
	CreatedAt     time.Time  `gorm:"autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime"`
}

func (Conversation) TableName() string {
	return "conversations"
}

// Message GORM model. System messages have a NULL sender.
type Message struct {
	Id               uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ConversationId   uuid.UUID  `gorm:"type:uuid;not null;index"`
	SenderId         *uuid.UUID `gorm:"type:uuid"`
	Kind             string     `gorm:"type:varchar(10);not null;default:'user'"`
	Body             string     `gorm:"type:text;not null"`
	RelatedSessionId *uuid.UUID `gorm:"type:uuid;index"`
	ReadAt           *time.Time
	CreatedAt        time.Time `gorm:"autoCreateTime;index"`

	Conversation Conversation `gorm:"foreignKey:ConversationId"`
}

func (Message) TableName() string {
	return "messages"
}
