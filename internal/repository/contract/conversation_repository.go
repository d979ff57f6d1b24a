package contract

import (
	"context"

	"peerlearn-be/internal/entity"
	"peerlearn-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ConversationRepository interface {
	// FindOrCreateByPair resolves the conversation between two users,
	// creating it when absent. Participant order is normalized so the pair is
	// unique either way around.
	FindOrCreateByPair(ctx context.Context, a, b uuid.UUID) (*entity.Conversation, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error)
	FindAllByUser(ctx context.Context, userId uuid.UUID) ([]*entity.Conversation, error)

	// AppendMessage inserts the message, bumps the recipient's unread counter
	// atomically and advances last_message_at.
	AppendMessage(ctx context.Context, msg *entity.Message) error
	FindMessages(ctx context.Context, conversationId uuid.UUID, limit, offset int) ([]*entity.Message, error)
	MarkRead(ctx context.Context, conversationId, readerId uuid.UUID) error
	TotalUnread(ctx context.Context, userId uuid.UUID) (int64, error)
}
