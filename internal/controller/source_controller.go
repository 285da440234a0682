package controller

import (
	"ai-research-chat-be/internal/pkg/serverutils"
	"ai-research-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISourceController interface {
	RegisterRoutes(r fiber.Router)
	GetSources(ctx *fiber.Ctx) error
}

type sourceController struct {
	service service.ISourceService
}

func NewSourceController(service service.ISourceService) ISourceController {
	return &sourceController{service: service}
}

func (c *sourceController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/source/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get(":domain/:sessionKey", c.GetSources)
}

func (c *sourceController) GetSources(ctx *fiber.Ctx) error {
	domain, sessionKey, userId, err := parseConversation(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetSources(ctx.Context(), domain, sessionKey, userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get sources", res))
}
