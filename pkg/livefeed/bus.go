package livefeed

import (
	"context"
	"encoding/json"
	"fmt"

	"ai-research-chat-be/pkg/chat"
	"ai-research-chat-be/pkg/chatdomain"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/google/uuid"
)

// Bus is the in-process live-update transport. Newly inserted messages are
// published per (domain, sessionKey) topic and fan out to every open session
// subscribed to that conversation. Cross-instance delivery is bridged in via
// NATS (see pkg/nats); this bus is the hop the orchestrator consumes.
type Bus struct {
	pubSub *gochannel.GoChannel
}

var _ chat.LiveFeed = &Bus{}

func NewBus(logger watermill.LoggerAdapter) *Bus {
	return &Bus{
		pubSub: gochannel.NewGoChannel(gochannel.Config{}, logger),
	}
}

func topicFor(domain chatdomain.Domain, sessionKey uuid.UUID) string {
	return chatdomain.ConfigFor(domain).LiveChannelPrefix + sessionKey.String()
}

// Publish announces one inserted message to the session's topic.
func (b *Bus) Publish(msg chat.Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal live message: %w", err)
	}

	wm := message.NewMessage(watermill.NewUUID(), payload)
	return b.pubSub.Publish(topicFor(msg.Domain, msg.SessionKey), wm)
}

// Subscribe attaches to a session's topic. The returned unsubscribe func
// releases the subscription and closes the channel; callers must invoke it
// when the session is torn down so handlers never leak across sessions.
func (b *Bus) Subscribe(domain chatdomain.Domain, sessionKey uuid.UUID) (<-chan chat.Message, chat.UnsubscribeFunc, error) {
	ctx, cancel := context.WithCancel(context.Background())

	wmMessages, err := b.pubSub.Subscribe(ctx, topicFor(domain, sessionKey))
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("subscribe topic: %w", err)
	}

	out := make(chan chat.Message, 16)
	go func() {
		defer close(out)
		for wm := range wmMessages {
			var msg chat.Message
			if err := json.Unmarshal(wm.Payload, &msg); err != nil {
				wm.Ack() // poison payload, drop it
				continue
			}
			wm.Ack()
			out <- msg
		}
	}()

	return out, chat.UnsubscribeFunc(cancel), nil
}

// Close shuts the underlying pub/sub down, ending all subscriptions.
func (b *Bus) Close() error {
	return b.pubSub.Close()
}
