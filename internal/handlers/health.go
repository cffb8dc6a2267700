package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"contentos/internal/health"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	health *health.Service
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(healthService *health.Service) *HealthHandler {
	return &HealthHandler{health: healthService}
}

// Handle responds with the aggregate capability health. Always 200: a
// degraded system is still serving.
func (h *HealthHandler) Handle(c *fiber.Ctx) error {
	snap := h.health.Snapshot()
	return c.JSON(fiber.Map{
		"healthy":   snap.Healthy,
		"services":  snap.Services,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// Refresh forces a re-probe of every capability.
func (h *HealthHandler) Refresh(c *fiber.Ctx) error {
	snap := h.health.Refresh()
	return c.JSON(fiber.Map{
		"healthy":   snap.Healthy,
		"services":  snap.Services,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
