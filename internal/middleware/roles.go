package middleware

// roles.go holds the route-level capability guard.
// The rules themselves live in the access package; this file only connects them
// to Fiber so a route can declare which operation it performs.

import (
	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/volleyball-club/internal/access"
	"github.com/trentd187/volleyball-club/internal/apperr"
)

// Require returns a middleware handler that lets the request through only when the
// caller may perform op. Ownership rules (a coach assigning themselves, an author
// editing their notice) need the resource and are checked again in the handler or
// the service; at route level the check runs without one.
//
//	api.Post("/events", middleware.Require(access.OpManageEvents), handlers.CreateEvent(events))
//
// Require must be used AFTER Auth, because Auth is what stores the actor.
func Require(op access.Operation) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := ActorFrom(c)
		if !ok {
			return apperr.Unauthorized("authentication required")
		}
		if err := access.Check(actor, op, access.Resource{}); err != nil {
			return err
		}
		return c.Next()
	}
}
