package controller

import (
	"ai-research-chat-be/internal/dto"
	"ai-research-chat-be/internal/pkg/serverutils"
	"ai-research-chat-be/internal/service"
	"ai-research-chat-be/pkg/chatdomain"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	GetHistory(ctx *fiber.Ctx) error
	SendChat(ctx *fiber.Ctx) error
	DeleteHistory(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get(":domain/:sessionKey/history", c.GetHistory)
	h.Post(":domain/:sessionKey/send", c.SendChat)
	h.Delete(":domain/:sessionKey/history", c.DeleteHistory)
}

// parseConversation pulls the domain tag, session key and acting user out of
// the request. Unknown domains and malformed keys are client errors.
func parseConversation(ctx *fiber.Ctx) (chatdomain.Domain, uuid.UUID, uuid.UUID, error) {
	domain, err := chatdomain.Parse(ctx.Params("domain"))
	if err != nil {
		return "", uuid.Nil, uuid.Nil, fiber.NewError(fiber.StatusNotFound, "unknown chat domain")
	}

	sessionKey, err := uuid.Parse(ctx.Params("sessionKey"))
	if err != nil {
		return "", uuid.Nil, uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid session key")
	}

	userIdStr, ok := ctx.Locals("user_id").(string)
	if !ok {
		return "", uuid.Nil, uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "missing user identity")
	}
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return "", uuid.Nil, uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "invalid user identity")
	}

	return domain, sessionKey, userId, nil
}

func (c *chatController) GetHistory(ctx *fiber.Ctx) error {
	domain, sessionKey, userId, err := parseConversation(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetHistory(ctx.Context(), domain, sessionKey, userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get chat history", res))
}

func (c *chatController) SendChat(ctx *fiber.Ctx) error {
	domain, sessionKey, userId, err := parseConversation(ctx)
	if err != nil {
		return err
	}

	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SendChat(ctx.Context(), domain, sessionKey, userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send chat", res))
}

func (c *chatController) DeleteHistory(ctx *fiber.Ctx) error {
	domain, sessionKey, userId, err := parseConversation(ctx)
	if err != nil {
		return err
	}

	if err := c.service.DeleteHistory(ctx.Context(), domain, sessionKey, userId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete chat history", nil))
}
