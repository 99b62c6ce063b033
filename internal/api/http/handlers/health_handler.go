package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/demand-service/internal/persistence"
)

const readinessTimeout = 2 * time.Second

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	startedAt   time.Time
	postgres    *persistence.Postgres
	redis       *persistence.Redis
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string, postgres *persistence.Postgres, redis *persistence.Redis) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		startedAt:   time.Now(),
		postgres:    postgres,
		redis:       redis,
	}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":         "alive",
		"service":        h.serviceName,
		"version":        h.version,
		"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
	})
}

// Ready reports readiness. Storage is "memory" without Postgres and the
// dashboard cache is "disabled" without Redis; neither fails the probe.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), readinessTimeout)
	defer cancel()

	storage := fiber.Map{"backend": "memory"}
	cache := fiber.Map{"backend": "disabled"}
	ready := true

	if h.postgres.Enabled() {
		storage["backend"] = "postgres"
		storage["pool"] = h.postgres.Stats()
		storage["status"] = probe(ctx, h.postgres.Ping, &ready)
	}
	if h.redis.Enabled() {
		cache["backend"] = "redis"
		cache["status"] = probe(ctx, h.redis.Ping, &ready)
	}

	deps := fiber.Map{"storage": storage, "dashboard_cache": cache}
	if ready {
		return c.JSON(fiber.Map{"status": "ready", "dependencies": deps})
	}
	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "DEPENDENCY_UNAVAILABLE",
			"message": "one or more dependencies unavailable",
			"details": deps,
		},
	})
}

func probe(ctx context.Context, ping func(context.Context) error, ready *bool) string {
	if err := ping(ctx); err != nil {
		*ready = false
		return err.Error()
	}
	return "ok"
}
