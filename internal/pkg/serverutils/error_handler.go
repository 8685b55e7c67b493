package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"notifhub-be/internal/pkg/apperror"
)

// HandleError translates a service error into the HTTP response for its
// kind. Controllers call this for every non-nil service error.
func HandleError(ctx *fiber.Ctx, err error) error {
	appErr := apperror.FromError(err)
	status := apperror.HTTPStatus(appErr)
	return ctx.Status(status).JSON(ErrorResponse(status, appErr.Message))
}

// ErrorHandlerMiddleware is the outermost safety net: it converts errors
// escaping a handler (and panics) into the standard error envelope.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		defer func() {
			if r := recover(); r != nil {
				_ = ctx.Status(fiber.StatusInternalServerError).
					JSON(ErrorResponse(fiber.StatusInternalServerError, "Internal server error"))
			}
		}()

		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		return HandleError(ctx, err)
	}
}
