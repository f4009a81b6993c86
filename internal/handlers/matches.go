package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/trentd187/volleyball-club/internal/services"
)

// MatchBroadcaster pushes an updated match to live viewers. *websocket.Hub
// implements it.
type MatchBroadcaster interface {
	BroadcastToMatch(matchID string, data []byte)
}

// ListMatches handles GET /api/v1/events/:id/matches.
func ListMatches(matches *services.MatchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		eventID, err := pathID(c, "id")
		if err != nil {
			return err
		}
		list, err := matches.ListByEvent(c.UserContext(), eventID)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"ok": true, "matches": list})
	}
}

// CreateMatch handles POST /api/v1/events/:id/matches.
func CreateMatch(matches *services.MatchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		eventID, err := pathID(c, "id")
		if err != nil {
			return err
		}
		var req services.CreateMatchInput
		if err := parseBody(c, &req); err != nil {
			return err
		}
		match, err := matches.Create(c.UserContext(), eventID, req)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "match": match})
	}
}

// GetMatch handles GET /api/v1/matches/:id.
func GetMatch(matches *services.MatchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		match, err := matches.Get(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"ok": true, "match": match})
	}
}

type recordResultsRequest struct {
	Sets []services.SetInput `json:"sets"`
}

// RecordResults handles PUT /api/v1/matches/:id/results.
// The body's sets replace whatever was recorded before. On success the updated
// match is pushed to everyone following it on the live feed.
func RecordResults(matches *services.MatchService, live MatchBroadcaster) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		var req recordResultsRequest
		if err := parseBody(c, &req); err != nil {
			return err
		}
		if err := services.ValidateSets(req.Sets); err != nil {
			return err
		}

		match, err := matches.RecordResults(c.UserContext(), id, req.Sets)
		if err != nil {
			return err
		}

		// Results are already committed here, so a failed push is logged and not returned.
		if data, err := json.Marshal(match); err != nil {
			log.Warn().Err(err).Str("match_id", id.String()).Msg("encode live update")
		} else {
			live.BroadcastToMatch(id.String(), data)
		}
		return c.JSON(fiber.Map{"ok": true, "match": match})
	}
}

// DeleteMatch handles DELETE /api/v1/matches/:id.
func DeleteMatch(matches *services.MatchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		if err := matches.Delete(c.UserContext(), id); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"ok": true})
	}
}
