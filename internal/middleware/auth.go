// Package middleware contains HTTP middleware for the club API.
// Middleware sits between the HTTP server and the route handlers and runs on every
// request routed through it, so it is where authentication, capability checks and
// error rendering live.
package middleware

import (
	"context"
	"errors"
	"strings"

	// fiber is the HTTP framework; fiber.Handler is the function signature for middleware
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/trentd187/volleyball-club/internal/access"
	"github.com/trentd187/volleyball-club/internal/apperr"
	"github.com/trentd187/volleyball-club/internal/auth"
	"github.com/trentd187/volleyball-club/internal/models"
)

// actorKey is the c.Locals key the authenticated caller is stored under.
const actorKey = "actor"

// UserLoader is the part of the user service Auth needs.
type UserLoader interface {
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Auth returns a Fiber middleware handler that:
//  1. Reads the token from the "Authorization: Bearer <token>" header
//  2. Verifies its signature and expiry
//  3. Loads the user it names, so a deleted account stops working immediately
//     and the role always comes from the database rather than the token
//  4. Stores the caller as an access.Actor in c.Locals for the handlers
//
// Every failure is an Unauthorized error; the error handler renders it.
func Auth(tokens *auth.Tokens, users UserLoader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			return apperr.Unauthorized("missing or invalid authorization header")
		}

		userID, _, err := tokens.Verify(strings.TrimSpace(raw))
		if err != nil {
			return apperr.Unauthorized("invalid or expired token")
		}

		user, err := users.Get(c.UserContext(), userID)
		if err != nil {
			// A valid token for an account that no longer exists is still unauthenticated
			if errors.Is(err, apperr.ErrNotFound) {
				return apperr.Unauthorized("account no longer exists")
			}
			return err
		}

		c.Locals(actorKey, access.Actor{UserID: user.ID, Role: user.Role})
		return c.Next()
	}
}

// ActorFrom returns the caller stored by Auth. The second result is false on
// routes that are not behind Auth.
func ActorFrom(c *fiber.Ctx) (access.Actor, bool) {
	actor, ok := c.Locals(actorKey).(access.Actor)
	return actor, ok
}
