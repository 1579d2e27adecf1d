package routes

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"creditrating_backend/internals/metrics"
)

// PingFunc reports whether the backing store is reachable. Nil means there is
// nothing to ping (memory store).
type PingFunc func(ctx context.Context) error

func BaseRoutes(app *fiber.App, opts Options) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("credit rating service is running")
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		dbStatus := "connected"
		serverStatus := "OK"
		httpStatus := fiber.StatusOK

		switch {
		case opts.Ping == nil:
			dbStatus = "in-memory"
		default:
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := opts.Ping(ctx); err != nil {
				dbStatus = "database connection error"
				serverStatus = "DOWN"
				httpStatus = fiber.StatusServiceUnavailable
			}
		}

		return c.Status(httpStatus).JSON(fiber.Map{
			"status":         serverStatus,
			"database":       dbStatus,
			"server_time":    time.Now().Format(time.RFC3339),
			"uptime_seconds": int64(time.Since(startTime).Seconds()),
			"environment":    opts.Environment,
			"audit_events": fiber.Map{
				"published": metrics.AuditEventCount("published"),
				"dropped":   metrics.AuditEventCount("dropped"),
				"failed":    metrics.AuditEventCount("failed"),
			},
		})
	})

	if opts.MetricsEnabled {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}
}
