package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/demand-service/internal/observability"
)

// MetricsHandler exposes request and domain counters.
type MetricsHandler struct {
	metrics *observability.Metrics
}

// NewMetricsHandler constructs handler.
func NewMetricsHandler(metrics *observability.Metrics) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// Prometheus GET /metrics.
func (h *MetricsHandler) Prometheus() fiber.Handler {
	return adaptor.HTTPHandler(h.metrics.Handler())
}

// Snapshot GET /metrics/snapshot.
func (h *MetricsHandler) Snapshot(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.metrics.Snapshot()})
}
