package serverutils

import (
	"errors"

	"realtime-chat-be/internal/apperror"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps service errors to the JSON envelope used by all
// REST responses.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := fiber.StatusInternalServerError
		switch {
		case errors.Is(err, apperror.ErrNotFound):
			code = fiber.StatusNotFound
		case errors.Is(err, apperror.ErrForbidden):
			code = fiber.StatusForbidden
		case errors.Is(err, apperror.ErrInvalidCredentials), errors.Is(err, apperror.ErrAuthenticationFailed):
			code = fiber.StatusUnauthorized
		case errors.Is(err, apperror.ErrStorageUnavailable):
			code = fiber.StatusServiceUnavailable
		default:
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
			}
		}

		return ctx.Status(code).JSON(fiber.Map{
			"success": false,
			"code":    code,
			"message": err.Error(),
		})
	}
}
