// Package handlers contains the HTTP route handlers for the club API.
// Each exported function is a handler factory: it takes the service it needs and
// returns a fiber.Handler, so dependencies are injected without global variables.
//
// Handlers only translate between HTTP and the services. They parse path and body
// input, call one service method, and write {"ok": true, ...}. Failures are returned
// as errors and rendered by middleware.ErrorHandler.
package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Health handles GET /health.
// It is used by container health checks and load balancers, so it needs no
// authentication. It pings the database with a short timeout and reports 503 when
// the database is unreachable, so an instance that lost its connection is taken
// out of rotation.
func Health(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sqlDB, err := db.DB()
		if err == nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"ok": false, "status": "database unavailable"})
		}
		return c.JSON(fiber.Map{"ok": true, "status": "ok"})
	}
}
