package entity

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is the single message thread between a pair of users.
// Unread counters are denormalized per participant and maintained on
// send/mark-read.
type Conversation struct {
	Id             uuid.UUID
	ParticipantA   uuid.UUID
	ParticipantB   uuid.UUID
	LastMessageAt  *time.Time
	UnreadCountA   int
	UnreadCountB   int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// UnreadFor returns the unread counter for the given participant.
func (c *Conversation) UnreadFor(userId uuid.UUID) int {
	if c.ParticipantA == userId {
		return c.UnreadCountA
	}
	if c.ParticipantB == userId {
		return c.UnreadCountB
	}
	return 0
}

// HasParticipant reports whether the user belongs to this conversation.
func (c *Conversation) HasParticipant(userId uuid.UUID) bool {
	return c.ParticipantA == userId || c.ParticipantB == userId
}

type MessageKind string

const (
	MessageKindUser   MessageKind = "user"
	MessageKindSystem MessageKind = "system"
)

// Message is one entry in a conversation. System messages (lifecycle status
// notifications) carry a nil SenderId and an optional related session.
type Message struct {
	Id               uuid.UUID
	ConversationId   uuid.UUID
	SenderId         *uuid.UUID
	Kind             MessageKind
	Body             string
	RelatedSessionId *uuid.UUID
	ReadAt           *time.Time
	CreatedAt        time.Time
}
