package serverutils

import (
	"errors"

	"ai-research-chat-be/pkg/chat"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps domain errors onto HTTP statuses. Anything
// unmapped falls through as a 500 without leaking internals.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return ctx.Status(fe.Code).JSON(fiber.Map{
				"success": false,
				"message": fe.Message,
			})
		}

		status := fiber.StatusInternalServerError
		message := "internal server error"

		switch {
		case errors.Is(err, chat.ErrUnauthorized):
			status = fiber.StatusForbidden
			message = "you do not have access to this conversation"
		case errors.Is(err, chat.ErrEmptyMessage):
			status = fiber.StatusBadRequest
			message = "message must not be empty"
		case errors.Is(err, chat.ErrHistoryUnavailable):
			status = fiber.StatusBadGateway
			message = "chat history is temporarily unavailable"
		case errors.Is(err, chat.ErrSendFailed):
			status = fiber.StatusBadGateway
			message = "message could not be sent"
		case errors.Is(err, chat.ErrDeleteFailed):
			status = fiber.StatusInternalServerError
			message = "chat history could not be deleted"
		case errors.Is(err, chat.ErrSessionClosed):
			status = fiber.StatusConflict
			message = "conversation is closed"
		}

		return ctx.Status(status).JSON(fiber.Map{
			"success": false,
			"message": message,
		})
	}
}
