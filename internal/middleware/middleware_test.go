package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trentd187/volleyball-club/internal/access"
	"github.com/trentd187/volleyball-club/internal/apperr"
	"github.com/trentd187/volleyball-club/internal/auth"
	"github.com/trentd187/volleyball-club/internal/models"
)

type fakeUsers map[uuid.UUID]models.User

func (f fakeUsers) Get(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := f[id]
	if !ok {
		return nil, apperr.NotFound("user %s not found", id)
	}
	return &u, nil
}

type envelope struct {
	OK   bool   `json:"ok"`
	Msg  string `json:"msg"`
	Role string `json:"role"`
}

func newApp(tokens *auth.Tokens, users fakeUsers) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	api := app.Group("/api", Auth(tokens, users))
	api.Get("/whoami", func(c *fiber.Ctx) error {
		actor, _ := ActorFrom(c)
		return c.JSON(fiber.Map{"ok": true, "role": actor.Role})
	})
	api.Post("/events", Require(access.OpManageEvents), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("pq: relation \"secret_table\" does not exist")
	})
	return app
}

func do(t *testing.T, app *fiber.App, method, path, token string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal(body, &env), string(body))
	return resp.StatusCode, env
}

func TestAuthAndRequire(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	tokens := auth.NewTokens("secret", time.Hour, clock)
	coach := models.User{Email: "coach@club.test", Role: models.UserRoleCoach}
	coach.ID = uuid.New()
	player := models.User{Email: "player@club.test", Role: models.UserRolePlayer}
	player.ID = uuid.New()
	gone := models.User{Email: "gone@club.test", Role: models.UserRoleAdmin}
	gone.ID = uuid.New()
	app := newApp(tokens, fakeUsers{coach.ID: coach, player.ID: player})

	coachToken, _, err := tokens.Issue(coach)
	require.NoError(t, err)
	playerToken, _, err := tokens.Issue(player)
	require.NoError(t, err)
	goneToken, _, err := tokens.Issue(gone)
	require.NoError(t, err)

	status, env := do(t, app, "GET", "/api/whoami", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.False(t, env.OK)

	status, _ = do(t, app, "GET", "/api/whoami", "not-a-jwt")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = do(t, app, "GET", "/api/whoami", goneToken)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, env = do(t, app, "GET", "/api/whoami", coachToken)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, string(models.UserRoleCoach), env.Role)

	status, _ = do(t, app, "POST", "/api/events", coachToken)
	assert.Equal(t, fiber.StatusOK, status)

	status, env = do(t, app, "POST", "/api/events", playerToken)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "insufficient permissions", env.Msg)

	clock.Advance(2 * time.Hour)
	status, _ = do(t, app, "GET", "/api/whoami", coachToken)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestErrorHandler(t *testing.T) {
	app := newApp(auth.NewTokens("secret", time.Hour, clockwork.NewFakeClock()), fakeUsers{})

	status, env := do(t, app, "GET", "/boom", "")
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.False(t, env.OK)
	assert.NotContains(t, env.Msg, "secret_table")

	status, env = do(t, app, "GET", "/nowhere", "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.False(t, env.OK)
}
