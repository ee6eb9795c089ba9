package server

import (
	"errors"
	"log/slog"
	"strconv"

	"picstream/internal/middleware"
	"picstream/internal/models"

	"github.com/gofiber/fiber/v2"
)

// parseID parses a positive integer route parameter.
func parseID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, models.NewFieldValidationError(name, "Invalid "+name)
	}
	return uint(id), nil
}

// currentUserID returns the authenticated user ID set by AuthRequired.
func currentUserID(c *fiber.Ctx) uint {
	if uid, ok := c.Locals("userID").(uint); ok {
		return uid
	}
	return 0
}

// respondServiceError maps an application error to its HTTP status and writes
// the standard error body. Unknown errors are logged and masked as 500s.
func respondServiceError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case "VALIDATION_ERROR":
			return models.RespondWithError(c, fiber.StatusBadRequest, appErr)
		case "NOT_FOUND":
			return models.RespondWithError(c, fiber.StatusNotFound, appErr)
		case "FORBIDDEN":
			return models.RespondWithError(c, fiber.StatusForbidden, appErr)
		case "UNAUTHORIZED":
			return models.RespondWithError(c, fiber.StatusUnauthorized, appErr)
		case "STORAGE_ERROR":
			middleware.Logger.ErrorContext(c.UserContext(), "storage operation failed",
				slog.String("error", appErr.Error()),
			)
			return models.RespondWithError(c, fiber.StatusInternalServerError, appErr)
		}
	}

	middleware.Logger.ErrorContext(c.UserContext(), "unhandled service error",
		slog.String("error", err.Error()),
	)
	return models.RespondWithError(c, fiber.StatusInternalServerError,
		models.NewInternalError(err))
}
