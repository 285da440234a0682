package websocket

import (
	"testing"
	"time"

	"ai-research-chat-be/pkg/chat"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

func TestDeliverDropsSlowClientWithoutPanic(t *testing.T) {
	h := NewHub(nil, noopLogger{})
	go h.Run()

	channel := "chat.legal." + uuid.NewString()
	// Unbuffered Send with no reader: the first delivery cannot be queued,
	// so the hub must drop the client. Dropping used to close Send in the
	// delivery path and again on unregister, panicking the hub goroutine.
	client := &Client{Hub: h, Channel: channel, Send: make(chan []byte)}
	h.register <- client

	require.Eventually(t, func() bool {
		h.mu.RLock()
		defer h.mu.RUnlock()
		return len(h.clients[channel]) == 1
	}, time.Second, 5*time.Millisecond)

	h.Deliver(channel, chat.Message{Id: uuid.New()})

	require.Eventually(t, func() bool {
		h.mu.RLock()
		defer h.mu.RUnlock()
		_, ok := h.clients[channel]
		return !ok
	}, time.Second, 5*time.Millisecond)

	// The channel is gone; a further delivery must be a silent no-op.
	h.Deliver(channel, chat.Message{Id: uuid.New()})
}

func TestDeliverReachesBufferedClient(t *testing.T) {
	h := NewHub(nil, noopLogger{})
	go h.Run()

	channel := "chat.notebook." + uuid.NewString()
	client := &Client{Hub: h, Channel: channel, Send: make(chan []byte, 4)}
	h.register <- client

	require.Eventually(t, func() bool {
		h.mu.RLock()
		defer h.mu.RUnlock()
		return len(h.clients[channel]) == 1
	}, time.Second, 5*time.Millisecond)

	h.Deliver(channel, chat.Message{Id: uuid.New(), Chat: "hello"})

	select {
	case data := <-client.Send:
		require.Contains(t, string(data), "chat_message")
	case <-time.After(time.Second):
		t.Fatal("delivery never reached the client")
	}
}
