package dto

import (
	"time"

	"github.com/google/uuid"
)

type SendMessageRequest struct {
	RecipientId uuid.UUID `json:"recipient_id" validate:"required"`
	Body        string    `json:"body" validate:"required,min=1,max=5000"`
}

type MessageResponse struct {
	Id               uuid.UUID  `json:"id"`
	ConversationId   uuid.UUID  `json:"conversation_id"`
	SenderId         *uuid.UUID `json:"sender_id,omitempty"`
	Kind             string     `json:"kind"`
	Body             string     `json:"body"`
	RelatedSessionId *uuid.UUID `json:"related_session_id,omitempty"`
	ReadAt           *time.Time `json:"read_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

type ConversationResponse struct {
	Id            uuid.UUID  `json:"id"`
	CounterpartId uuid.UUID  `json:"counterpart_id"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	UnreadCount   int        `json:"unread_count"`
}

type ConversationListResponse struct {
	Conversations []*ConversationResponse `json:"conversations"`
	TotalUnread   int64                   `json:"total_unread"`
}

type MessageListResponse struct {
	Messages []*MessageResponse `json:"messages"`
	Limit    int                `json:"limit"`
	Offset   int                `json:"offset"`
}
