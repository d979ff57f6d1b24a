package service

import (
	"context"
	"fmt"

	"peerlearn-be/internal/dto"
	"peerlearn-be/internal/entity"
	"peerlearn-be/internal/pkg/logger"
	"peerlearn-be/internal/repository/specification"
	"peerlearn-be/internal/repository/unitofwork"
	"peerlearn-be/pkg/events"

	"github.com/google/uuid"
)

type IMessageService interface {
	SendMessage(ctx context.Context, senderId uuid.UUID, req *dto.SendMessageRequest) (*dto.MessageResponse, error)
	// PostSystemMessage injects a lifecycle status notification into the
	// participants' conversation. Used by the session orchestrator.
	PostSystemMessage(ctx context.Context, a, b uuid.UUID, text string, relatedSessionId uuid.UUID) error
	GetConversations(ctx context.Context, userId uuid.UUID) (*dto.ConversationListResponse, error)
	GetMessages(ctx context.Context, userId, conversationId uuid.UUID, limit, offset int) (*dto.MessageListResponse, error)
	MarkRead(ctx context.Context, userId, conversationId uuid.UUID) error
}

type messageService struct {
	uowFactory unitofwork.RepositoryFactory
	bus        *events.BusPublisher
	logger     logger.ILogger
}

func NewMessageService(uowFactory unitofwork.RepositoryFactory, bus *events.BusPublisher, log logger.ILogger) IMessageService {
	return &messageService{
		uowFactory: uowFactory,
		bus:        bus,
		logger:     log,
	}
}

func (s *messageService) SendMessage(ctx context.Context, senderId uuid.UUID, req *dto.SendMessageRequest) (*dto.MessageResponse, error) {
	if senderId == req.RecipientId {
		return nil, fmt.Errorf("cannot message yourself")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	recipient, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: req.RecipientId})
	if err != nil {
		return nil, err
	}
	if recipient == nil {
		return nil, fmt.Errorf("recipient not found")
	}

	conv, err := uow.ConversationRepository().FindOrCreateByPair(ctx, senderId, req.RecipientId)
	if err != nil {
		return nil, err
	}

	msg := &entity.Message{
		Id:             uuid.New(),
		ConversationId: conv.Id,
		SenderId:       &senderId,
		Kind:           entity.MessageKindUser,
		Body:           req.Body,
	}
	if err := uow.ConversationRepository().AppendMessage(ctx, msg); err != nil {
		return nil, err
	}

	s.notifyRecipient(req.RecipientId, senderId, conv.Id, msg)

	return mapMessage(msg), nil
}

func (s *messageService) PostSystemMessage(ctx context.Context, a, b uuid.UUID, text string, relatedSessionId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conv, err := uow.ConversationRepository().FindOrCreateByPair(ctx, a, b)
	if err != nil {
		return err
	}

	sessionRef := relatedSessionId
	msg := &entity.Message{
		Id:               uuid.New(),
		ConversationId:   conv.Id,
		SenderId:         nil,
		Kind:             entity.MessageKindSystem,
		Body:             text,
		RelatedSessionId: &sessionRef,
	}
	if err := uow.ConversationRepository().AppendMessage(ctx, msg); err != nil {
		return err
	}

	for _, userId := range []uuid.UUID{a, b} {
		s.publish(events.Notification{
			Id:         uuid.New(),
			UserId:     userId,
			Type:       "SESSION_UPDATE",
			Title:      "Session update",
			Message:    text,
			EntityType: "session",
			EntityId:   &sessionRef,
		})
	}
	return nil
}

func (s *messageService) notifyRecipient(recipientId, senderId, conversationId uuid.UUID, msg *entity.Message) {
	convRef := conversationId
	s.publish(events.Notification{
		Id:         uuid.New(),
		UserId:     recipientId,
		Type:       "NEW_MESSAGE",
		Title:      "New message",
		Message:    msg.Body,
		EntityType: "conversation",
		EntityId:   &convRef,
		Metadata: map[string]interface{}{
			"sender_id": senderId.String(),
		},
	})
}

func (s *messageService) publish(n events.Notification) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(events.TopicMessage, n); err != nil {
		s.logger.Warn("Message", "Failed to publish message notification", map[string]interface{}{
			"user_id": n.UserId,
			"error":   err.Error(),
		})
	}
}

func (s *messageService) GetConversations(ctx context.Context, userId uuid.UUID) (*dto.ConversationListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	convs, err := uow.ConversationRepository().FindAllByUser(ctx, userId)
	if err != nil {
		return nil, err
	}
	totalUnread, err := uow.ConversationRepository().TotalUnread(ctx, userId)
	if err != nil {
		return nil, err
	}

	dtos := make([]*dto.ConversationResponse, 0, len(convs))
	for _, c := range convs {
		counterpart := c.ParticipantA
		if counterpart == userId {
			counterpart = c.ParticipantB
		}
		dtos = append(dtos, &dto.ConversationResponse{
			Id:            c.Id,
			CounterpartId: counterpart,
			LastMessageAt: c.LastMessageAt,
			UnreadCount:   c.UnreadFor(userId),
		})
	}

	return &dto.ConversationListResponse{
		Conversations: dtos,
		TotalUnread:   totalUnread,
	}, nil
}

func (s *messageService) GetMessages(ctx context.Context, userId, conversationId uuid.UUID, limit, offset int) (*dto.MessageListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conv, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: conversationId})
	if err != nil {
		return nil, err
	}
	if conv == nil || !conv.HasParticipant(userId) {
		return nil, fmt.Errorf("conversation not found")
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}
	msgs, err := uow.ConversationRepository().FindMessages(ctx, conversationId, limit, offset)
	if err != nil {
		return nil, err
	}

	dtos := make([]*dto.MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		dtos = append(dtos, mapMessage(m))
	}
	return &dto.MessageListResponse{
		Messages: dtos,
		Limit:    limit,
		Offset:   offset,
	}, nil
}

func (s *messageService) MarkRead(ctx context.Context, userId, conversationId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conv, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: conversationId})
	if err != nil {
		return err
	}
	if conv == nil || !conv.HasParticipant(userId) {
		return fmt.Errorf("conversation not found")
	}
	return uow.ConversationRepository().MarkRead(ctx, conversationId, userId)
}

func mapMessage(m *entity.Message) *dto.MessageResponse {
	return &dto.MessageResponse{
		Id:               m.Id,
		ConversationId:   m.ConversationId,
		SenderId:         m.SenderId,
		Kind:             string(m.Kind),
		Body:             m.Body,
		RelatedSessionId: m.RelatedSessionId,
		ReadAt:           m.ReadAt,
		CreatedAt:        m.CreatedAt,
	}
}
