package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/volleyball-club/internal/services"
)

type upsertStatisticsRequest struct {
	Statistics []services.StatisticInput `json:"statistics"`
}

// UpsertStatistics handles PUT /api/v1/statistics/match/:matchId.
func UpsertStatistics(stats *services.StatisticService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return err
		}
		matchID, err := pathID(c, "matchId")
		if err != nil {
			return err
		}
		var req upsertStatisticsRequest
		if err := parseBody(c, &req); err != nil {
			return err
		}
		list, err := stats.Upsert(c.UserContext(), matchID, req.Statistics, a.UserID)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"ok": true, "statistics": list})
	}
}

// MatchStatistics handles GET /api/v1/statistics/match/:matchId.
func MatchStatistics(stats *services.StatisticService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		matchID, err := pathID(c, "matchId")
		if err != nil {
			return err
		}
		list, err := stats.ForMatch(c.UserContext(), matchID)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"ok": true, "statistics": list})
	}
}

// PlayerStatisticsSummary handles GET /api/v1/statistics/player/:playerId/summary.
func PlayerStatisticsSummary(stats *services.StatisticService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		playerID, err := pathID(c, "playerId")
		if err != nil {
			return err
		}
		summary, err := stats.SummaryForPlayer(c.UserContext(), playerID)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"ok": true, "summary": summary})
	}
}
