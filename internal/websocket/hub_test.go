package websocket

import (
	"testing"
	"time"

	"peerlearn-be/internal/pkg/logger"
	"peerlearn-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }
func (nopLogger) GetLogs(level string, limit, offset int) ([]logger.LogEntry, error) {
	return nil, nil
}
func (nopLogger) GetLogById(id string) (*logger.LogEntry, error) { return nil, nil }

func registeredConnections(h *Hub, userId uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userId])
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestHubSendDeliversToConnectedClient(t *testing.T) {
	hub := NewHub(nil, nopLogger{})
	go hub.Run()

	userId := uuid.New()
	client := &Client{Hub: hub, UserID: userId, Send: make(chan []byte, 4)}
	hub.register <- client
	waitFor(t, func() bool { return registeredConnections(hub, userId) == 1 })

	hub.Send(userId, events.Notification{
		Id:      uuid.New(),
		UserId:  userId,
		Type:    "SESSION_UPDATE",
		Title:   "Session update",
		Message: "Session confirmed",
	})

	select {
	case frame := <-client.Send:
		assert.Contains(t, string(frame), "SESSION_UPDATE")
		assert.Contains(t, string(frame), "Session confirmed")
	case <-time.After(2 * time.Second):
		t.Fatal("no frame delivered")
	}
}

// A connection whose Send buffer is full gets dropped. The unregister path
// in Run owns closing the channel, so delivery to a slow consumer must not
// panic the hub goroutine.
func TestHubDropsSlowConsumerWithoutPanic(t *testing.T) {
	hub := NewHub(nil, nopLogger{})
	go hub.Run()

	userId := uuid.New()
	// Unbuffered with no reader: every delivery attempt hits the full-buffer
	// branch immediately.
	slow := &Client{Hub: hub, UserID: userId, Send: make(chan []byte)}
	hub.register <- slow
	waitFor(t, func() bool { return registeredConnections(hub, userId) == 1 })

	hub.Send(userId, events.Notification{
		Id:      uuid.New(),
		UserId:  userId,
		Type:    "NEW_MESSAGE",
		Title:   "New message",
		Message: "hello",
	})

	waitFor(t, func() bool { return registeredConnections(hub, userId) == 0 })

	// The channel was closed exactly once, by the unregister path.
	_, open := <-slow.Send
	assert.False(t, open)

	// The hub goroutine is still alive and serving other users.
	otherId := uuid.New()
	healthy := &Client{Hub: hub, UserID: otherId, Send: make(chan []byte, 4)}
	hub.register <- healthy
	waitFor(t, func() bool { return registeredConnections(hub, otherId) == 1 })

	hub.Send(otherId, events.Notification{
		Id:      uuid.New(),
		UserId:  otherId,
		Type:    "NEW_MESSAGE",
		Title:   "New message",
		Message: "still here",
	})

	select {
	case frame := <-healthy.Send:
		require.Contains(t, string(frame), "still here")
	case <-time.After(2 * time.Second):
		t.Fatal("hub stopped delivering after dropping a slow consumer")
	}
}

func TestHubBroadcastReachesAllLocalClients(t *testing.T) {
	hub := NewHub(nil, nopLogger{})
	go hub.Run()

	a := &Client{Hub: hub, UserID: uuid.New(), Send: make(chan []byte, 4)}
	b := &Client{Hub: hub, UserID: uuid.New(), Send: make(chan []byte, 4)}
	hub.register <- a
	hub.register <- b
	waitFor(t, func() bool {
		return registeredConnections(hub, a.UserID) == 1 && registeredConnections(hub, b.UserID) == 1
	})

	hub.Broadcast(events.Notification{
		Id:      uuid.New(),
		Type:    "SYSTEM_BROADCAST",
		Title:   "Maintenance",
		Message: "Scheduled downtime",
	})

	for _, client := range []*Client{a, b} {
		select {
		case frame := <-client.Send:
			assert.Contains(t, string(frame), "SYSTEM_BROADCAST")
		case <-time.After(2 * time.Second):
			t.Fatal("broadcast frame not delivered")
		}
	}
}
