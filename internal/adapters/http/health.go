package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler is the liveness probe.
func HealthHandler() fiber.Handler {
	startedAt := time.Now()

	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"uptime": time.Since(startedAt).Round(time.Second).String(),
		})
	}
}

// ReadyHandler reports ready once buildings load and every configured
// backing service answers. Unconfigured optional services are skipped.
func ReadyHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		checks := make(map[string]string)
		ready := true
		check := func(name string, p Pinger) {
			if p == nil {
				checks[name] = "not configured"
				return
			}
			if err := p.Ping(ctx); err != nil {
				checks[name] = "error: " + err.Error()
				ready = false
				return
			}
			checks[name] = "ok"
		}

		buildings, err := deps.Buildings.List(ctx)
		switch {
		case err != nil:
			checks["buildings"] = "error: " + err.Error()
			ready = false
		case len(buildings) == 0:
			checks["buildings"] = "empty"
			ready = false
		default:
			checks["buildings"] = "ok"
		}

		check("database", deps.DB)
		check("cache", deps.Cache)

		switch {
		case deps.NATS == nil:
			checks["nats"] = "not configured"
		case deps.NATS.IsConnected():
			checks["nats"] = "ok"
		default:
			checks["nats"] = "disconnected"
			ready = false
		}

		if !ready {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "not ready", "checks": checks})
		}
		return c.JSON(fiber.Map{"status": "ready", "checks": checks})
	}
}
