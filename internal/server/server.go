// Package server builds the Fiber application: global middleware, the error
// boundary, and every route with its capability guard. main wires the
// dependencies and calls New; tests call New with an SQLite-backed set.
package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"

	"github.com/trentd187/volleyball-club/internal/access"
	"github.com/trentd187/volleyball-club/internal/auth"
	"github.com/trentd187/volleyball-club/internal/handlers"
	"github.com/trentd187/volleyball-club/internal/middleware"
	"github.com/trentd187/volleyball-club/internal/services"
	live "github.com/trentd187/volleyball-club/internal/websocket"
)

// Deps is everything the routes need.
type Deps struct {
	DB     *gorm.DB
	Tokens *auth.Tokens
	Clock  clockwork.Clock
	Hub    *live.Hub

	// RequestLog enables Fiber's per-request log line. Tests leave it off.
	RequestLog bool
}

// New creates the Fiber app with all routes registered.
func New(d Deps) *fiber.App {
	users := services.NewUserService(d.DB, d.Tokens)
	profiles := services.NewProfileService(d.DB)
	cats := services.NewCategoryService(d.DB)
	events := services.NewEventService(d.DB)
	matches := services.NewMatchService(d.DB)
	att := services.NewAttendanceService(d.DB)
	stats := services.NewStatisticService(d.DB)
	notices := services.NewAnnouncementService(d.DB, d.Clock)

	app := fiber.New(fiber.Config{
		AppName:      "Volleyball Club API",
		ErrorHandler: middleware.ErrorHandler,
	})

	// --- Global middleware ---
	// recover turns a panic in any handler into a 500 through the error handler
	// instead of killing the process.
	app.Use(recover.New())
	if d.RequestLog {
		app.Use(logger.New())
	}
	app.Use(cors.New())

	// --- Public routes (no auth required) ---
	app.Get("/health", handlers.Health(d.DB))
	app.Post("/auth/register", handlers.Register(users))
	app.Post("/auth/login", handlers.Login(users))
	// Browsers cannot set headers on a WebSocket handshake, so the live feed is public.
	app.Get("/live/matches/:id", handlers.RequireUpgrade(), handlers.LiveMatch(d.Hub, matches))

	// --- Authenticated API routes ---
	// Every route below needs a valid bearer token. Require(op) then checks the
	// caller's role against the operation; routes without it are open to any role.
	api := app.Group("/api/v1", middleware.Auth(d.Tokens, users))
	req := middleware.Require

	api.Get("/me", handlers.Me(users))
	api.Post("/users", req(access.OpManageUsers), handlers.CreateUser(users))

	api.Post("/players", req(access.OpManageProfiles), handlers.CreatePlayer(profiles))
	api.Get("/players/:id", handlers.GetPlayer(profiles))
	api.Post("/coaches", req(access.OpManageProfiles), handlers.CreateCoach(profiles))

	api.Get("/categories", handlers.ListCategories(cats))
	api.Post("/categories", req(access.OpCreateCategory), handlers.CreateCategory(cats))
	api.Get("/categories/:id", handlers.GetCategory(cats))
	api.Put("/categories/:id", req(access.OpUpdateCategory), handlers.UpdateCategory(cats))
	api.Delete("/categories/:id", req(access.OpDeleteCategory), handlers.DeleteCategory(cats))
	api.Post("/categories/:id/players/:playerId", req(access.OpManageRoster), handlers.AddCategoryPlayer(cats))
	api.Delete("/categories/:id/players/:playerId", req(access.OpManageRoster), handlers.RemoveCategoryPlayer(cats))
	api.Post("/categories/:id/coaches/:coachId", req(access.OpAssignCoach), handlers.AssignCoach(cats))
	api.Delete("/categories/:id/coaches/:coachId", req(access.OpAssignCoach), handlers.RemoveCoach(cats))

	api.Get("/events", handlers.ListEvents(events))
	api.Post("/events", req(access.OpManageEvents), handlers.CreateEvent(events))
	api.Get("/events/:id", handlers.GetEvent(events))
	api.Put("/events/:id", req(access.OpManageEvents), handlers.UpdateEvent(events))
	api.Delete("/events/:id", req(access.OpManageEvents), handlers.DeleteEvent(events))
	api.Get("/events/:id/matches", handlers.ListMatches(matches))
	api.Post("/events/:id/matches", req(access.OpManageMatches), handlers.CreateMatch(matches))

	api.Get("/matches/:id", handlers.GetMatch(matches))
	api.Put("/matches/:id/results", req(access.OpRecordResults), handlers.RecordResults(matches, d.Hub))
	api.Delete("/matches/:id", req(access.OpManageMatches), handlers.DeleteMatch(matches))

	api.Post("/attendance/event/:eventId", req(access.OpRecordAttendance), handlers.RecordAttendance(att))
	api.Get("/attendance/event/:eventId", handlers.GetAttendance(att))
	api.Delete("/attendance/:id", req(access.OpDeleteAttendance), handlers.DeleteAttendance(att))
	api.Get("/attendance/category/:id/summary", req(access.OpAttendanceReport), handlers.AttendanceSummary(att))

	api.Put("/statistics/match/:matchId", req(access.OpRecordStatistics), handlers.UpsertStatistics(stats))
	api.Get("/statistics/match/:matchId", handlers.MatchStatistics(stats))
	api.Get("/statistics/player/:playerId/summary", handlers.PlayerStatisticsSummary(stats))

	api.Get("/announcements", handlers.ListAnnouncements(notices))
	api.Post("/announcements", req(access.OpCreateAnnouncement), handlers.CreateAnnouncement(notices))
	api.Put("/announcements/:id", req(access.OpEditAnnouncement), handlers.UpdateAnnouncement(notices))
	api.Delete("/announcements/:id", req(access.OpEditAnnouncement), handlers.DeleteAnnouncement(notices))

	return app
}
