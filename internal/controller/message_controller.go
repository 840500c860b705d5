package controller

import (
	"realtime-chat-be/internal/pkg/serverutils"
	"realtime-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IMessageController interface {
	RegisterRoutes(r fiber.Router)
	Delete(ctx *fiber.Ctx) error
}

type messageController struct {
	service service.IMessageService
}

func NewMessageController(service service.IMessageService) IMessageController {
	return &messageController{service: service}
}

func (c *messageController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/messages")
	h.Use(serverutils.JwtMiddleware)
	h.Delete("/:id", c.Delete)
}

// Delete removes a message. Only its sender may do so; live viewers are
// notified through the hub so they can drop it from their view.
func (c *messageController) Delete(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"code":    400,
			"message": "Invalid message ID format",
		})
	}

	requester, ok := ctx.Locals("name").(string)
	if !ok || requester == "" {
		return fiber.ErrUnauthorized
	}

	// NotFound/Forbidden map to 404/403 in the error handler middleware.
	if err := c.service.Delete(ctx.Context(), id, requester); err != nil {
		return err
	}

	return ctx.JSON(fiber.Map{
		"success":   true,
		"code":      200,
		"message":   "Message deleted successfully",
		"messageId": id.String(),
	})
}
