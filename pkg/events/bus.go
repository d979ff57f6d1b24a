package events

import (
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// Topics on the in-process bus. The realtime notifier subscribes and fans
// messages out to connected websocket clients.
const (
	TopicSessionStatus = "session.status_changed"
	TopicMessage       = "message.created"
	TopicAchievement   = "achievement.granted"
)

// Notification is the realtime payload pushed to a user's devices.
type Notification struct {
	Id         uuid.UUID              `json:"id"`
	UserId     uuid.UUID              `json:"user_id"`
	Type       string                 `json:"type"`
	Title      string                 `json:"title"`
	Message    string                 `json:"message"`
	EntityType string                 `json:"entity_type,omitempty"`
	EntityId   *uuid.UUID             `json:"entity_id,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

// BusPublisher wraps the watermill publisher with JSON serialization.
type BusPublisher struct {
	pub message.Publisher
}

func NewBusPublisher(pub message.Publisher) *BusPublisher {
	return &BusPublisher{pub: pub}
}

// Publish serializes the notification onto the given topic. Errors bubble up
// so callers can decide whether delivery failure is worth a warning.
func (p *BusPublisher) Publish(topic string, n Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	return p.pub.Publish(topic, msg)
}
