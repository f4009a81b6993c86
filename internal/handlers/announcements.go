package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/volleyball-club/internal/services"
)

// ListAnnouncements handles GET /api/v1/announcements. Players only see notices
// that are currently valid; staff see all of them.
func ListAnnouncements(notices *services.AnnouncementService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return err
		}
		list, err := notices.List(c.UserContext(), a)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"ok": true, "announcements": list})
	}
}

// CreateAnnouncement handles POST /api/v1/announcements.
func CreateAnnouncement(notices *services.AnnouncementService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return err
		}
		var req services.AnnouncementInput
		if err := parseBody(c, &req); err != nil {
			return err
		}
		notice, err := notices.Create(c.UserContext(), a, req)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "announcement": notice})
	}
}

// UpdateAnnouncement handles PUT /api/v1/announcements/:id. The service enforces
// that only the author or an ADMIN may edit.
func UpdateAnnouncement(notices *services.AnnouncementService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return err
		}
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		var req services.AnnouncementInput
		if err := parseBody(c, &req); err != nil {
			return err
		}
		notice, err := notices.Update(c.UserContext(), a, id, req)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"ok": true, "announcement": notice})
	}
}

// DeleteAnnouncement handles DELETE /api/v1/announcements/:id.
func DeleteAnnouncement(notices *services.AnnouncementService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return err
		}
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		if err := notices.Delete(c.UserContext(), a, id); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"ok": true})
	}
}
