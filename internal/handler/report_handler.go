package handler

import (
	"context"
	"errors"
	"time"

	"chai-adda-pos/internal/middleware"
	"chai-adda-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReportHandler struct {
	service      service.ReportService
	log          *zap.Logger
	queryTimeout time.Duration
	defaultDays  int
	now          func() time.Time
}

func NewReportHandler(s service.ReportService, log *zap.Logger, queryTimeout time.Duration, defaultDays int) *ReportHandler {
	if defaultDays <= 0 {
		defaultDays = 7
	}
	return &ReportHandler{
		service:      s,
		log:          log,
		queryTimeout: queryTimeout,
		defaultDays:  defaultDays,
		now:          time.Now,
	}
}

var errForeignStore = errors.New("storeId does not match the authenticated store")

// resolveStore returns the store a report is for. storeId defaults to the
// caller's own store and may not name another one.
func (h *ReportHandler) resolveStore(c *fiber.Ctx) (uuid.UUID, error) {
	own := middleware.StoreID(c)
	raw := c.Query("storeId")
	if raw == "" {
		if own == uuid.Nil {
			return uuid.Nil, service.ErrStoreRequired
		}
		return own, nil
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &service.ValidationError{Message: "storeId must be a UUID"}
	}
	if own != uuid.Nil && id != own {
		return uuid.Nil, errForeignStore
	}
	return id, nil
}

// window resolves the report window from from/to, falling back to a "range"
// preset (7d, 1m, 3m, 6m, 12m) and finally to the last defaultDays days.
// Defaulted bounds snap to the current minute so repeated requests share a
// cache key; to is the last instant of that minute.
func (h *ReportHandler) window(c *fiber.Ctx) (time.Time, time.Time, error) {
	now := h.now().UTC().Truncate(time.Minute)
	to := now.Add(time.Minute - time.Nanosecond)
	from := now.AddDate(0, 0, -h.defaultDays)

	switch c.Query("range") {
	case "":
	case "7d":
		from = now.AddDate(0, 0, -7)
	case "1m":
		from = now.AddDate(0, -1, 0)
	case "3m":
		from = now.AddDate(0, -3, 0)
	case "6m":
		from = now.AddDate(0, -6, 0)
	case "12m":
		from = now.AddDate(0, -12, 0)
	default:
		return time.Time{}, time.Time{}, &service.ValidationError{Message: "range must be one of 7d, 1m, 3m, 6m, 12m"}
	}

	f, t, err := optionalWindow(c)
	if err != nil {
		return time.Time{}, time.Time{}, &service.ValidationError{Message: err.Error()}
	}
	if f != nil {
		from = *f
	}
	if t != nil {
		to = *t
	}
	return from, to, nil
}

func (h *ReportHandler) withTimeout(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	if h.queryTimeout <= 0 {
		return context.WithCancel(c.UserContext())
	}
	return context.WithTimeout(c.UserContext(), h.queryTimeout)
}

func (h *ReportHandler) fail(c *fiber.Ctx, err error) error {
	if errors.Is(err, errForeignStore) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	}
	if errors.Is(err, context.DeadlineExceeded) {
		h.log.Warn("report timed out", zap.String("path", c.Path()), zap.Duration("timeout", h.queryTimeout))
		return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{"error": "report timed out"})
	}
	return respondError(c, h.log, err)
}

func (h *ReportHandler) GetRevenueReport(c *fiber.Ctx) error {
	storeID, err := h.resolveStore(c)
	if err != nil {
		return h.fail(c, err)
	}
	from, to, err := h.window(c)
	if err != nil {
		return h.fail(c, err)
	}

	ctx, cancel := h.withTimeout(c)
	defer cancel()

	summary, err := h.service.BuildRevenueReport(ctx, storeID, from, to)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(summary)
}

func (h *ReportHandler) GetOrderReport(c *fiber.Ctx) error {
	storeID, err := h.resolveStore(c)
	if err != nil {
		return h.fail(c, err)
	}
	from, to, err := h.window(c)
	if err != nil {
		return h.fail(c, err)
	}

	ctx, cancel := h.withTimeout(c)
	defer cancel()

	summary, err := h.service.BuildOrderReport(ctx, storeID, from, to)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(summary)
}

func (h *ReportHandler) GetStockReport(c *fiber.Ctx) error {
	storeID, err := h.resolveStore(c)
	if err != nil {
		return h.fail(c, err)
	}

	ctx, cancel := h.withTimeout(c)
	defer cancel()

	summary, err := h.service.BuildStockReport(ctx, storeID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(summary)
}
