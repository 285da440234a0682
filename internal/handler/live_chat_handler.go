package handler

import (
	"os"

	"ai-research-chat-be/internal/pkg/logger"
	"ai-research-chat-be/internal/service"
	internalWS "ai-research-chat-be/internal/websocket"
	"ai-research-chat-be/pkg/chatdomain"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// LiveChatHandler upgrades websocket connections for live chat delivery.
// Each connection watches a single conversation channel.
type LiveChatHandler struct {
	service service.IChatService
	hub     *internalWS.Hub
	logger  logger.ILogger
}

func NewLiveChatHandler(service service.IChatService, hub *internalWS.Hub, log logger.ILogger) *LiveChatHandler {
	return &LiveChatHandler{
		service: service,
		hub:     hub,
		logger:  log,
	}
}

// ServeWs handles websocket requests from the peer.
func (h *LiveChatHandler) ServeWs(c *fiber.Ctx) error {
	// 1. Get Token source
	// Priority 1: Query Param (Browser standard)
	tokenStr := c.Query("token")

	// Priority 2: Authorization Header (Tooling/Non-browser standard)
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}

	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token (Query 'token' or Header 'Authorization')"})
	}

	// 2. Parse JWT with the same secret the REST middleware uses
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})

	if err != nil || !token.Valid {
		h.logger.Warn("LiveChatHandler", "Invalid Token in WS Handshake", map[string]interface{}{"error": err})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Token missing user_id"})
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID format in token"})
	}

	// 3. Resolve the conversation channel
	domain, err := chatdomain.Parse(c.Params("domain"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown chat domain"})
	}
	sessionKey, err := uuid.Parse(c.Params("sessionKey"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid session key"})
	}

	// 4. Live delivery carries the same content as history, so the domain's
	// ownership check gates the watch path too.
	if err := h.service.VerifyAccess(c.Context(), domain, sessionKey, userID); err != nil {
		h.logger.Warn("LiveChatHandler", "Ownership check failed in WS Handshake", map[string]interface{}{
			"session_key": sessionKey,
			"user_id":     userID,
		})
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "you do not have access to this conversation"})
	}

	channel := h.service.LiveChannel(domain, sessionKey)

	// Upgrade via Fiber WebSocket Middleware
	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("LiveChatHandler", "Starting WebSocket session", map[string]interface{}{"channel": channel})
			internalWS.ServeWs(h.hub, conn, channel)
			h.logger.Info("LiveChatHandler", "WebSocket session ended", map[string]interface{}{"channel": channel})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

// RegisterRoutes registers the live chat websocket route.
func (h *LiveChatHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws/chat/:domain/:sessionKey", h.ServeWs)
}
