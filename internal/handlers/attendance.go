package handlers

// attendance.go handles the /api/v1/attendance routes.
// A submission covers one event on one day for a batch of players, and the whole
// batch is accepted or rejected together.

import (
	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/volleyball-club/internal/services"
)

type recordAttendanceRequest struct {
	Date        string                     `json:"date"` // YYYY-MM-DD
	Attendances []services.AttendanceInput `json:"attendances"`
}

// RecordAttendance handles POST /api/v1/attendance/event/:eventId.
func RecordAttendance(att *services.AttendanceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := actor(c)
		if err != nil {
			return err
		}
		eventID, err := pathID(c, "eventId")
		if err != nil {
			return err
		}
		var req recordAttendanceRequest
		if err := parseBody(c, &req); err != nil {
			return err
		}
		day, err := services.ParseDay(req.Date)
		if err != nil {
			return err
		}
		if err := services.ValidateAttendance(req.Attendances); err != nil {
			return err
		}

		rows, err := att.Record(c.UserContext(), eventID, day, req.Attendances, a.UserID)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "results": rows})
	}
}

// GetAttendance handles GET /api/v1/attendance/event/:eventId with an optional
// ?date=YYYY-MM-DD filter.
func GetAttendance(att *services.AttendanceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		eventID, err := pathID(c, "eventId")
		if err != nil {
			return err
		}
		day, err := queryDay(c, "date")
		if err != nil {
			return err
		}
		rows, err := att.ListForEvent(c.UserContext(), eventID, day)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"ok": true, "attendances": rows})
	}
}

// DeleteAttendance handles DELETE /api/v1/attendance/:id.
func DeleteAttendance(att *services.AttendanceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		if err := att.Delete(c.UserContext(), id); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"ok": true})
	}
}

// AttendanceSummary handles GET /api/v1/attendance/category/:id/summary with
// optional ?from= and ?to= days.
func AttendanceSummary(att *services.AttendanceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		from, err := queryDay(c, "from")
		if err != nil {
			return err
		}
		to, err := queryDay(c, "to")
		if err != nil {
			return err
		}
		summary, err := att.CategorySummary(c.UserContext(), id, from, to)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"ok": true, "summary": summary})
	}
}
