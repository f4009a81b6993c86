package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/trentd187/volleyball-club/internal/access"
	"github.com/trentd187/volleyball-club/internal/apperr"
	"github.com/trentd187/volleyball-club/internal/middleware"
	"github.com/trentd187/volleyball-club/internal/services"
)

// pathID parses the named path parameter as a UUID.
func pathID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperr.BadRequest("%s must be a valid id", name)
	}
	return id, nil
}

// parseBody decodes the JSON request body into out.
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	return nil
}

// queryDay parses an optional YYYY-MM-DD query parameter. An absent parameter is nil.
func queryDay(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	d, err := services.ParseDay(raw)
	if err != nil {
		return nil, apperr.BadRequest("%s must be in YYYY-MM-DD format", key)
	}
	return &d, nil
}

// actor returns the authenticated caller. Every route using it sits behind
// middleware.Auth, so a missing actor means the route was wired wrong.
func actor(c *fiber.Ctx) (access.Actor, error) {
	a, ok := middleware.ActorFrom(c)
	if !ok {
		return access.Actor{}, apperr.Unauthorized("authentication required")
	}
	return a, nil
}
