package handlers

// events.go handles the /api/v1/events routes.
//
// An event is anything on the club calendar. Its type decides what can hang off it:
//   - PRACTICE   is a training session; it only collects attendance
//   - MATCH      is a fixture between at least two teams; matches and results attach to it
//   - TOURNAMENT works like MATCH but usually holds several matches
//
// Every handler is a factory taking the EventService, so the database is injected
// rather than global.

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/trentd187/volleyball-club/internal/apperr"
	"github.com/trentd187/volleyball-club/internal/models"
	"github.com/trentd187/volleyball-club/internal/services"
)

// ListEvents handles GET /api/v1/events.
// Optional query params: ?type=MATCH and ?category_id=<uuid>. Results are ordered
// by date.
func ListEvents(events *services.EventService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var f services.EventFilter
		if t := c.Query("type"); t != "" {
			f.Type = models.EventType(t)
			if !f.Type.Valid() {
				return apperr.BadRequest("type must be MATCH, PRACTICE or TOURNAMENT")
			}
		}
		if raw := c.Query("category_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				return apperr.BadRequest("category_id must be a valid id")
			}
			f.CategoryID = id
		}

		list, err := events.List(c.UserContext(), f)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"ok": true, "events": list})
	}
}

// CreateEvent handles POST /api/v1/events.
func CreateEvent(events *services.EventService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req services.EventInput
		if err := parseBody(c, &req); err != nil {
			return err
		}
		event, err := events.Create(c.UserContext(), req)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "event": event})
	}
}

// GetEvent handles GET /api/v1/events/:id.
func GetEvent(events *services.EventService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		event, err := events.Get(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"ok": true, "event": event})
	}
}

// UpdateEvent handles PUT /api/v1/events/:id. The body replaces every editable
// field, including the team list.
func UpdateEvent(events *services.EventService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		var req services.EventInput
		if err := parseBody(c, &req); err != nil {
			return err
		}
		event, err := events.Update(c.UserContext(), id, req)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"ok": true, "event": event})
	}
}

// DeleteEvent handles DELETE /api/v1/events/:id.
func DeleteEvent(events *services.EventService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		if err := events.Delete(c.UserContext(), id); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"ok": true})
	}
}
