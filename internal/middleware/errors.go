package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/trentd187/volleyball-club/internal/apperr"
)

// ErrorHandler is the app's single error boundary, installed through
// fiber.Config{ErrorHandler: ...}. Every handler and middleware just returns its
// error and this renders it as {"ok": false, "msg": "..."}.
//
//   - *apperr.Error uses its Kind for the status and its message for the body.
//   - *fiber.Error (unknown route, body too large, ...) keeps Fiber's code and message.
//   - Anything else is an unexpected failure: logged with the request path and
//     rendered as a generic 500 so database text never reaches the client.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	msg := apperr.Message(err)

	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		status = fe.Code
		msg = fe.Message
	case apperr.KindOf(err) != apperr.KindInternal:
		status = apperr.KindOf(err).Status()
	}

	if status >= fiber.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("request failed")
	}

	return c.Status(status).JSON(fiber.Map{"ok": false, "msg": msg})
}
