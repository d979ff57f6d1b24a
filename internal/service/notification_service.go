package service

import (
	"context"
	"encoding/json"

	"peerlearn-be/internal/pkg/logger"
	"peerlearn-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// NotificationDelivery defines how to push real-time updates.
// Typically implemented by the WebSocket Hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, notification events.Notification)
	Broadcast(notification events.Notification)
}

// NotificationService bridges the in-process event bus to connected
// websocket clients. Notifications are push-only here; the durable record
// lives in the conversation system messages and the audit log.
type NotificationService struct {
	pubSub   *gochannel.GoChannel
	delivery NotificationDelivery
	logger   logger.ILogger
}

func NewNotificationService(pubSub *gochannel.GoChannel, delivery NotificationDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		pubSub:   pubSub,
		delivery: delivery,
		logger:   log,
	}
}

// Start subscribes to every bus topic. Each topic gets its own consumer
// goroutine; all of them exit when ctx is cancelled.
func (s *NotificationService) Start(ctx context.Context) error {
	topics := []string{
		events.TopicSessionStatus,
		events.TopicMessage,
		events.TopicAchievement,
	}
	for _, topic := range topics {
		messages, err := s.pubSub.Subscribe(ctx, topic)
		if err != nil {
			return err
		}
		go s.consume(topic, messages)
	}
	s.logger.Info("NotificationService", "Realtime notifier started", map[string]interface{}{
		"topics": topics,
	})
	return nil
}

func (s *NotificationService) consume(topic string, messages <-chan *message.Message) {
	for msg := range messages {
		s.process(topic, msg)
	}
}

func (s *NotificationService) process(topic string, msg *message.Message) {
	var notification events.Notification
	if err := json.Unmarshal(msg.Payload, &notification); err != nil {
		s.logger.Warn("NotificationService", "Dropping malformed bus message", map[string]interface{}{
			"topic": topic,
			"error": err.Error(),
		})
		msg.Ack()
		return
	}

	if s.delivery != nil {
		if notification.UserId == uuid.Nil {
			s.delivery.Broadcast(notification)
		} else {
			s.delivery.Send(notification.UserId, notification)
		}
	}
	msg.Ack()
}
