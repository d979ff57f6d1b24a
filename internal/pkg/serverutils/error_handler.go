package serverutils

import (
	"errors"

	"peerlearn-be/internal/lifecycle"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts service errors into the JSON envelope.
// Lifecycle errors carry their own HTTP semantics: illegal transitions are
// conflicts, not bad requests, because the request was well-formed and lost
// to the current state.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		status := fiber.StatusInternalServerError

		var fiberErr *fiber.Error
		var transitionErr *lifecycle.InvalidTransitionError
		var unauthorizedErr *lifecycle.UnauthorizedError
		var completedErr *lifecycle.AlreadyCompletedError

		switch {
		case errors.Is(err, lifecycle.ErrNotFound):
			status = fiber.StatusNotFound
		case errors.As(err, &transitionErr):
			status = fiber.StatusConflict
		case errors.As(err, &completedErr):
			status = fiber.StatusConflict
		case errors.As(err, &unauthorizedErr):
			status = fiber.StatusForbidden
		case errors.As(err, &fiberErr):
			status = fiberErr.Code
		}

		return ctx.Status(status).JSON(ErrorResponse(status, err.Error()))
	}
}
