package handlers

import (
	"github.com/gofiber/fiber/v3"

	"pokesearch/internal/storage"
)

const readinessKey = "readyz"

// ProbeHandler handles Kubernetes health probe endpoints.
type ProbeHandler struct {
	store storage.Storage
}

// NewProbeHandler creates a new probe handler.
func NewProbeHandler(store storage.Storage) *ProbeHandler {
	return &ProbeHandler{store: store}
}

// Liveness handles the /healthz endpoint for Kubernetes liveness probes.
// Returns 200 OK if the application is running.
func (h *ProbeHandler) Liveness(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}

// Readiness handles the /readyz endpoint for Kubernetes readiness probes.
// Returns 200 OK if the storage backend answers.
func (h *ProbeHandler) Readiness(c fiber.Ctx) error {
	if _, err := h.store.Get(readinessKey); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "error",
			"error":  "storage unavailable",
		})
	}

	return c.JSON(fiber.Map{
		"status": "ok",
	})
}
