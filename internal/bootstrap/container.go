package bootstrap

import (
	"context"
	"log"

	"ai-research-chat-be/internal/config"
	"ai-research-chat-be/internal/controller"
	"ai-research-chat-be/internal/handler"
	"ai-research-chat-be/internal/pkg/logger"
	"ai-research-chat-be/internal/repository/memory"
	"ai-research-chat-be/internal/repository/unitofwork"
	"ai-research-chat-be/internal/service"
	"ai-research-chat-be/internal/websocket"
	"ai-research-chat-be/pkg/assistant"
	"ai-research-chat-be/pkg/chat"
	"ai-research-chat-be/pkg/livefeed"

	pktNats "ai-research-chat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController   controller.IChatController
	SourceController controller.ISourceController

	// WebSockets & Live Delivery
	LiveChatHandler *handler.LiveChatHandler
	WebSocketHub    *websocket.Hub

	// Infrastructure handles (exposed for shutdown)
	LiveFeed      *livefeed.Bus
	NatsPublisher *pktNats.Publisher
	NatsSub       *pktNats.Subscriber
	Logger        logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Live feed bus (in-process, watermill gochannel)
	watermillLogger := watermill.NewStdLogger(false, false)
	feed := livefeed.NewBus(watermillLogger)

	// 3. Session registry
	sessionRepo := memory.NewSessionRepository()

	// 4. Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/live_chat.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 5. Assistant endpoint
	endpoint := assistant.NewClient(cfg.Assistant.BaseURL, cfg.Assistant.APIKey)

	// 6. Services
	chatService := service.NewChatService(uowFactory, sessionRepo, endpoint, feed, wsHub, natsPub, sysLogger)
	sourceService := service.NewSourceService(uowFactory)

	// 7. Bridge the event stream into the live feed, so inserts published by
	// other instances reach sessions open here. Sessions dedupe by id, so a
	// turn that already arrived through the local send path merges as a no-op.
	if natsSub != nil {
		if err := natsSub.Subscribe("chat.>", "chat-live-bridge", func(ctx context.Context, msg chat.Message) error {
			return feed.Publish(msg)
		}); err != nil {
			log.Printf("[WARN] Failed to subscribe to chat events: %v", err)
		}
	}

	return &Container{
		ChatController:   controller.NewChatController(chatService),
		SourceController: controller.NewSourceController(sourceService),
		LiveChatHandler:  handler.NewLiveChatHandler(chatService, wsHub, wsLogger),
		WebSocketHub:     wsHub,
		LiveFeed:         feed,
		NatsPublisher:    natsPub,
		NatsSub:          natsSub,
		Logger:           sysLogger,
	}
}
