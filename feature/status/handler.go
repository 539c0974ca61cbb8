package status

import (
	"context"
	"errors"

	"sheet-sync/core/logger"
	"sheet-sync/feature/sync"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Runs is the part of the sync service the API needs.
type Runs interface {
	Trigger(ctx context.Context) error
	Running() bool
	LastReport() *sync.RunReport
}

// Handler handles HTTP requests for run status.
type Handler struct {
	runs   Runs
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(runs Runs, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{runs: runs, logger: logger}
}

// RegisterRoutes registers the status routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/health", h.HandleHealth)
	group := app.Group("/runs")
	group.Get("/latest", h.HandleLatest)
	group.Post("/", h.HandleTrigger)
}

// HandleHealth reports that the process is up.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "running": h.runs.Running()})
}

// HandleLatest returns the last finished run report.
func (h *Handler) HandleLatest(c *fiber.Ctx) error {
	report := h.runs.LastReport()
	if report == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no run has finished yet"})
	}
	return c.JSON(fiber.Map{
		"report": report,
		"failed": report.FailedCount(),
		"ok":     report.OK(),
	})
}

// HandleTrigger starts a run in the background.
func (h *Handler) HandleTrigger(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	// The run outlives the request.
	if err := h.runs.Trigger(context.Background()); err != nil {
		if errors.Is(err, sync.ErrBusy) {
			l.Warn("Run requested while busy")
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Failed to start run", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("Run triggered")
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "started"})
}
