package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"ai-research-chat-be/internal/pkg/logger"
	"ai-research-chat-be/pkg/chat"

	"github.com/redis/go-redis/v9"
)

// Hub fans live chat messages out to websocket clients. Clients are keyed by
// the conversation channel (domain live prefix + session key), so every
// device watching a conversation gets each turn as it lands.
type Hub struct {
	// Registered clients map: channel -> list of clients (multi-device)
	clients map[string][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance communication
	rdb *redis.Client

	// Dedicated Logger
	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	// Start Redis Subscriber if Redis is available
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.Channel] = append(h.clients[client.Channel], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"channel": client.Channel})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.Channel]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.Channel] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.Channel]) == 0 {
					delete(h.clients, client.Channel)
					h.logger.Info("Hub", "Channel drained", map[string]interface{}{"channel": client.Channel})
				}
			}
			h.mu.Unlock()
		}
	}
}

// Deliver pushes one chat turn to every client watching the conversation,
// locally and on other instances via Redis.
func (h *Hub) Deliver(channel string, message chat.Message) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "chat_message",
		"data": message,
	})

	h.deliverLocal(channel, data)

	if h.rdb != nil {
		payload := map[string]interface{}{
			"channel": channel,
			"message": json.RawMessage(data),
		}
		jsonPayload, _ := json.Marshal(payload)
		h.rdb.Publish(context.Background(), "chat_events", jsonPayload)
	}
}

func (h *Hub) deliverLocal(channel string, data []byte) {
	h.mu.RLock()
	clients, ok := h.clients[channel]
	h.mu.RUnlock()
	if !ok {
		return
	}

	for _, client := range clients {
		select {
		case client.Send <- data:
		default:
			// The unregister branch owns closing Send; closing here as well
			// would close the channel twice and panic the hub goroutine.
			h.logger.Warn("Hub", "Client Send buffer full, dropping connection", map[string]interface{}{"channel": channel})
			h.unregister <- client
		}
	}
}

func (h *Hub) subscribeToRedis() {
	// All instances subscribe to "chat_events". When a message arrives we
	// check whether the conversation has local watchers and fan out if so.
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, "chat_events")
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		var payload struct {
			Channel string          `json:"channel"`
			Message json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}

		h.deliverLocal(payload.Channel, payload.Message)
	}
}
