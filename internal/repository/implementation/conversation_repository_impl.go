package implementation

import (
	"bytes"
	"context"

	"peerlearn-be/internal/entity"
	"peerlearn-be/internal/model"
	"peerlearn-be/internal/repository/contract"
	"peerlearn-be/internal/repository/scope"
	"peerlearn-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type conversationRepositoryImpl struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) contract.ConversationRepository {
	return &conversationRepositoryImpl{db: db}
}

// orderPair normalizes participant order so (a,b) and (b,a) hit the same row.
func orderPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if bytes.Compare(a[:], b[:]) > 0 {
		return b, a
	}
	return a, b
}

func (r *conversationRepositoryImpl) FindOrCreateByPair(ctx context.Context, a, b uuid.UUID) (*entity.Conversation, error) {
	pa, pb := orderPair(a, b)

	m := model.Conversation{ParticipantA: pa, ParticipantB: pb}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "participant_a"}, {Name: "participant_b"}},
			DoNothing: true,
		}).
		Create(&m).Error
	if err != nil {
		return nil, err
	}

	// Re-read covers both the freshly-created and the conflicting row.
	var found model.Conversation
	err = r.db.WithContext(ctx).
		Where("participant_a = ? AND participant_b = ?", pa, pb).
		First(&found).Error
	if err != nil {
		return nil, err
	}
	return r.mapToEntity(&found), nil
}

func (r *conversationRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error) {
	var m model.Conversation
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.First(&m).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return r.mapToEntity(&m), nil
}

func (r *conversationRepositoryImpl) FindAllByUser(ctx context.Context, userId uuid.UUID) ([]*entity.Conversation, error) {
	var ms []*model.Conversation
	err := r.db.WithContext(ctx).
		Where("participant_a = ? OR participant_b = ?", userId, userId).
		Order("last_message_at DESC NULLS LAST").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	conversations := make([]*entity.Conversation, 0, len(ms))
	for _, m := range ms {
		conversations = append(conversations, r.mapToEntity(m))
	}
	return conversations, nil
}

// AppendMessage inserts and bumps the recipient's unread counter in one
// transaction. The counter update is an atomic SET n = n + 1.
func (r *conversationRepositoryImpl) AppendMessage(ctx context.Context, msg *entity.Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m := &model.Message{
			Id:               msg.Id,
			ConversationId:   msg.ConversationId,
			SenderId:         msg.SenderId,
			Kind:             string(msg.Kind),
			Body:             msg.Body,
			RelatedSessionId: msg.RelatedSessionId,
		}
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		msg.Id = m.Id
		msg.CreatedAt = m.CreatedAt

		updates := map[string]interface{}{
			"last_message_at": m.CreatedAt,
		}
		if msg.SenderId == nil {
			// System message: both participants get an unread bump.
			updates["unread_count_a"] = gorm.Expr("unread_count_a + 1")
			updates["unread_count_b"] = gorm.Expr("unread_count_b + 1")
			return tx.Model(&model.Conversation{}).
				Where("id = ?", msg.ConversationId).
				Updates(updates).Error
		}

		// User message: only the counterpart's counter moves.
		if err := tx.Model(&model.Conversation{}).
			Where("id = ? AND participant_a <> ?", msg.ConversationId, *msg.SenderId).
			Updates(map[string]interface{}{
				"unread_count_a":  gorm.Expr("unread_count_a + 1"),
				"last_message_at": m.CreatedAt,
			}).Error; err != nil {
			return err
		}
		return tx.Model(&model.Conversation{}).
			Where("id = ? AND participant_b <> ?", msg.ConversationId, *msg.SenderId).
			Updates(map[string]interface{}{
				"unread_count_b":  gorm.Expr("unread_count_b + 1"),
				"last_message_at": m.CreatedAt,
			}).Error
	})
}

func (r *conversationRepositoryImpl) FindMessages(ctx context.Context, conversationId uuid.UUID, limit, offset int) ([]*entity.Message, error) {
	var ms []*model.Message
	err := r.db.WithContext(ctx).
		Scopes(specification.ByConversation{ConversationID: conversationId}.Apply,
			scope.OrderByCreatedDesc, scope.Paginate(limit, offset)).
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	messages := make([]*entity.Message, 0, len(ms))
	for _, m := range ms {
		messages = append(messages, &entity.Message{
			Id:               m.Id,
			ConversationId:   m.ConversationId,
			SenderId:         m.SenderId,
			Kind:             entity.MessageKind(m.Kind),
			Body:             m.Body,
			RelatedSessionId: m.RelatedSessionId,
			ReadAt:           m.ReadAt,
			CreatedAt:        m.CreatedAt,
		})
	}
	return messages, nil
}

func (r *conversationRepositoryImpl) MarkRead(ctx context.Context, conversationId, readerId uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Message{}).
			Where("conversation_id = ? AND (sender_id IS NULL OR sender_id <> ?) AND read_at IS NULL", conversationId, readerId).
			Update("read_at", gorm.Expr("now()")).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Conversation{}).
			Where("id = ? AND participant_a = ?", conversationId, readerId).
			Update("unread_count_a", 0).Error; err != nil {
			return err
		}
		return tx.Model(&model.Conversation{}).
			Where("id = ? AND participant_b = ?", conversationId, readerId).
			Update("unread_count_b", 0).Error
	})
}

func (r *conversationRepositoryImpl) TotalUnread(ctx context.Context, userId uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Conversation{}).
		Select("COALESCE(SUM(CASE WHEN participant_a = ? THEN unread_count_a ELSE unread_count_b END), 0)", userId).
		Where("participant_a = ? OR participant_b = ?", userId, userId).
		Scan(&total).Error
	return total, err
}

func (r *conversationRepositoryImpl) mapToEntity(m *model.Conversation) *entity.Conversation {
	return &entity.Conversation{
		Id:            m.Id,
		ParticipantA:  m.ParticipantA,
		ParticipantB:  m.ParticipantB,
		LastMessageAt: m.LastMessageAt,
		UnreadCountA:  m.UnreadCountA,
		UnreadCountB:  m.UnreadCountB,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
