package handlers

// live.go serves the live match feed: GET /live/matches/:id upgrades to a
// WebSocket, sends the current match straight away, then every snapshot the Hub
// broadcasts after results are recorded.

import (
	"context"
	"encoding/json"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/trentd187/volleyball-club/internal/apperr"
	"github.com/trentd187/volleyball-club/internal/services"
	live "github.com/trentd187/volleyball-club/internal/websocket"
)

// RequireUpgrade rejects plain HTTP requests on WebSocket routes with 426.
func RequireUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	}
}

// LiveMatch handles GET /live/matches/:id after the upgrade.
func LiveMatch(hub *live.Hub, matches *services.MatchService) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		defer conn.Close()

		id, err := uuid.Parse(conn.Params("id"))
		if err != nil {
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseUnsupportedData, "invalid match id"))
			return
		}
		// The handler runs outside the request, so there is no request context to use.
		match, err := matches.Get(context.Background(), id)
		if err != nil {
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, apperr.Message(err)))
			return
		}
		first, err := json.Marshal(match)
		if err != nil {
			log.Error().Err(err).Str("match_id", id.String()).Msg("encode live snapshot")
			return
		}

		client := live.NewClient(id.String())
		hub.Register(client)

		// Writer: forwards snapshots until the Hub closes Send or a write fails.
		// Closing the connection on failure ends the reader loop below.
		written := make(chan struct{})
		go func() {
			defer close(written)
			if err := conn.WriteMessage(websocket.TextMessage, first); err != nil {
				_ = conn.Close()
				return
			}
			for data := range client.Send {
				if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
					_ = conn.Close()
					return
				}
			}
		}()

		// Reader: viewers send nothing, so this only notices the close.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
		hub.Unregister(client)
		<-written
	})
}
