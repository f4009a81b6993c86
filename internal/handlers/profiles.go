package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/volleyball-club/internal/services"
)

// CreatePlayer handles POST /api/v1/players.
func CreatePlayer(profiles *services.ProfileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req services.PlayerInput
		if err := parseBody(c, &req); err != nil {
			return err
		}
		player, err := profiles.CreatePlayer(c.UserContext(), req)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "player": player})
	}
}

// GetPlayer handles GET /api/v1/players/:id.
func GetPlayer(profiles *services.ProfileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		player, err := profiles.GetPlayer(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"ok": true, "player": player})
	}
}

// CreateCoach handles POST /api/v1/coaches.
func CreateCoach(profiles *services.ProfileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req services.CoachInput
		if err := parseBody(c, &req); err != nil {
			return err
		}
		coach, err := profiles.CreateCoach(c.UserContext(), req)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "coach": coach})
	}
}
