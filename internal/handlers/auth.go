package handlers

// auth.go handles accounts: public registration and login, the current user,
// and admin-created accounts with any role.

import (
	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/volleyball-club/internal/services"
)

// Register handles POST /auth/register. Self-registered accounts are always PLAYER.
func Register(users *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req services.Credentials
		if err := parseBody(c, &req); err != nil {
			return err
		}
		user, err := users.Register(c.UserContext(), req)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "user": user})
	}
}

// Login handles POST /auth/login and returns a bearer token.
func Login(users *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req services.Credentials
		if err := parseBody(c, &req); err != nil {
			return err
		}
		session, err := users.Login(c.UserContext(), req)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"ok":         true,
			"token":      session.Token,
			"expires_at": session.ExpiresAt,
			"user":       session.User,
		})
	}
}

// Me handles GET /api/v1/me.
func Me(users *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return err
		}
		user, err := users.Get(c.UserContext(), a.UserID)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"ok": true, "user": user})
	}
}

// CreateUser handles POST /api/v1/users (ADMIN). Unlike Register, the role in the
// body is honoured.
func CreateUser(users *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req services.Credentials
		if err := parseBody(c, &req); err != nil {
			return err
		}
		user, err := users.CreateUser(c.UserContext(), req)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "user": user})
	}
}
