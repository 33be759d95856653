package handler

import (
	"errors"
	"time"

	"chai-adda-pos/internal/middleware"
	"chai-adda-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// actor is what gets written into CreatedBy/UpdatedBy: the acting role.
func actor(c *fiber.Ctx) string {
	if role := middleware.Role(c); role != "" {
		return string(role)
	}
	return "system"
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(name))
}

// statusFor maps service errors onto HTTP statuses. Anything unknown is a 500.
func statusFor(err error) int {
	switch {
	case service.IsValidationError(err):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrDuplicatePins),
		errors.Is(err, service.ErrPinInUse),
		errors.Is(err, service.ErrRoleNotResettable),
		errors.Is(err, service.ErrInvalidStockStatus),
		errors.Is(err, service.ErrEmptyOrder),
		errors.Is(err, service.ErrProductInactive),
		errors.Is(err, service.ErrInsufficientStock):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, service.ErrStoreNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrRawMaterialNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrAccountNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrOrderNotCompleted):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes {"error": message}. Server errors are logged and their
// details kept out of the response.
func respondError(c *fiber.Ctx, log *zap.Logger, err error) error {
	status := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("store_id", middleware.StoreID(c).String()),
			zap.Error(err),
		)
		return c.Status(status).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// ErrorHandler renders errors that escape the handlers, including fiber's own
// 404/405, as {"error": {"message": ...}}.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal Server Error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		}
		if code >= fiber.StatusInternalServerError {
			log.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
		}
		return c.Status(code).JSON(fiber.Map{"error": fiber.Map{"message": message}})
	}
}

// optionalWindow parses the optional from/to query parameters of listings.
func optionalWindow(c *fiber.Ctx) (from, to *time.Time, err error) {
	if v := c.Query("from"); v != "" {
		t, perr := service.ParseTime(v, false)
		if perr != nil {
			return nil, nil, errors.New("invalid from: use RFC3339 or YYYY-MM-DD")
		}
		from = &t
	}
	if v := c.Query("to"); v != "" {
		t, perr := service.ParseTime(v, true)
		if perr != nil {
			return nil, nil, errors.New("invalid to: use RFC3339 or YYYY-MM-DD")
		}
		to = &t
	}
	return from, to, nil
}
