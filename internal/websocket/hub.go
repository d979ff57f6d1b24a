package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"peerlearn-be/internal/pkg/logger"
	"peerlearn-be/pkg/events"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// redisChannel carries {target_user_id, message} envelopes between instances.
// target_user_id "*" means broadcast.
const redisChannel = "cluster_events"

type Hub struct {
	// Registered clients map: UserID -> List of Clients (multi-device)
	clients map[uuid.UUID][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance fan-out
	rdb *redis.Client

	// Dedicated Logger
	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": client.UserID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.UserID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.UserID]) == 0 {
					delete(h.clients, client.UserID)
					h.logger.Info("Hub", "Last device disconnected", map[string]interface{}{"user_id": client.UserID})
				}
			}
			h.mu.Unlock()
		}
	}
}

func envelope(notification events.Notification) []byte {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "notification",
		"data": notification,
	})
	return data
}

// deliverLocal pushes a frame to every connection of one user on this
// instance. Slow consumers are dropped rather than blocking the hub; the
// unregister path in Run is the only place that closes Send.
func (h *Hub) deliverLocal(clients []*Client, data []byte) {
	for _, client := range clients {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Hub", "Send buffer full, dropping connection", map[string]interface{}{"user_id": client.UserID})
			h.unregister <- client
		}
	}
}

func (h *Hub) deliverLocalAll(data []byte) {
	h.mu.RLock()
	snapshot := make([][]*Client, 0, len(h.clients))
	for _, clients := range h.clients {
		snapshot = append(snapshot, clients)
	}
	h.mu.RUnlock()

	for _, clients := range snapshot {
		h.deliverLocal(clients, data)
	}
}

func (h *Hub) publishToCluster(targetUserId string, data []byte) {
	if h.rdb == nil {
		return
	}
	payload := map[string]interface{}{
		"target_user_id": targetUserId,
		"message":        data,
	}
	jsonPayload, _ := json.Marshal(payload)
	h.rdb.Publish(context.Background(), redisChannel, jsonPayload)
}

// Broadcast sends a notification to ALL connected clients on all instances.
func (h *Hub) Broadcast(notification events.Notification) {
	data := envelope(notification)
	h.deliverLocalAll(data)
	h.publishToCluster("*", data)
}

// Send (NotificationDelivery interface implementation)
func (h *Hub) Send(userID uuid.UUID, notification events.Notification) {
	data := envelope(notification)

	h.mu.RLock()
	clients := h.clients[userID]
	h.mu.RUnlock()

	h.deliverLocal(clients, data)

	// Always publish even when delivered locally: the user may have other
	// devices connected to other instances.
	h.publishToCluster(userID.String(), data)
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, redisChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload struct {
			TargetUserID string          `json:"target_user_id"`
			Message      json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}

		if payload.TargetUserID == "*" {
			h.deliverLocalAll(payload.Message)
			continue
		}

		uid, err := uuid.Parse(payload.TargetUserID)
		if err != nil {
			continue
		}

		h.mu.RLock()
		clients, ok := h.clients[uid]
		h.mu.RUnlock()

		if ok {
			h.deliverLocal(clients, payload.Message)
		}
	}
}
