// Package access decides who may perform which operation.
//
// Every guarded operation has an Operation constant. Check takes the acting user,
// the operation, and (for ownership rules) the resource being touched, and returns
// nil or a Forbidden error. It knows nothing about HTTP, so the same rules apply to
// route guards and to service-level ownership checks.
//
// Rules:
//   - ADMIN may do everything.
//   - COACH may manage rosters, events, matches, results, attendance, statistics,
//     and announcements, but may only assign or remove themselves as a team coach and
//     may only edit or delete announcements they wrote.
//   - PLAYER may only read.
package access

import (
	"github.com/google/uuid"

	"github.com/trentd187/volleyball-club/internal/apperr"
	"github.com/trentd187/volleyball-club/internal/models"
)

// Actor is the authenticated caller.
type Actor struct {
	UserID uuid.UUID
	Role   models.UserRole
}

// Operation names a guarded action.
type Operation string

const (
	OpManageUsers          Operation = "users.manage"
	OpManageProfiles       Operation = "profiles.manage"
	OpCreateCategory       Operation = "categories.create"
	OpUpdateCategory       Operation = "categories.update"
	OpDeleteCategory       Operation = "categories.delete"
	OpManageRoster         Operation = "categories.roster"
	OpAssignCoach          Operation = "categories.coach"
	OpManageEvents         Operation = "events.manage"
	OpManageMatches        Operation = "matches.manage"
	OpRecordResults        Operation = "matches.results"
	OpRecordAttendance     Operation = "attendance.record"
	OpDeleteAttendance     Operation = "attendance.delete"
	OpAttendanceReport     Operation = "attendance.report"
	OpRecordStatistics     Operation = "statistics.record"
	OpCreateAnnouncement   Operation = "announcements.create"
	OpEditAnnouncement     Operation = "announcements.edit"
	OpViewAllAnnouncements Operation = "announcements.view_all"
)

// Resource carries the ownership facts a rule may need. The zero value means
// "no specific resource" and is what route guards pass.
type Resource struct {
	// OwnerID is the user who owns the resource (e.g. an announcement's author).
	OwnerID uuid.UUID
	// SubjectUserID is the user the operation acts on (e.g. the coach being assigned).
	SubjectUserID uuid.UUID
}

// coachOps are the operations a COACH may perform without ownership checks.
var coachOps = map[Operation]bool{
	OpManageProfiles:       true,
	OpCreateCategory:       true,
	OpUpdateCategory:       true,
	OpManageRoster:         true,
	OpManageEvents:         true,
	OpManageMatches:        true,
	OpRecordResults:        true,
	OpRecordAttendance:     true,
	OpDeleteAttendance:     true,
	OpAttendanceReport:     true,
	OpRecordStatistics:     true,
	OpCreateAnnouncement:   true,
	OpViewAllAnnouncements: true,
}

// Allowed reports whether actor may perform op on res.
func Allowed(actor Actor, op Operation, res Resource) bool {
	switch actor.Role {
	case models.UserRoleAdmin:
		return true
	case models.UserRoleCoach:
		switch op {
		case OpAssignCoach:
			// Route guards pass no subject; the handler re-checks with the target coach.
			return res.SubjectUserID == uuid.Nil || res.SubjectUserID == actor.UserID
		case OpEditAnnouncement:
			return res.OwnerID == uuid.Nil || res.OwnerID == actor.UserID
		}
		return coachOps[op]
	default:
		return false
	}
}

// Check is Allowed as an error: nil when permitted, Forbidden otherwise.
func Check(actor Actor, op Operation, res Resource) error {
	if Allowed(actor, op, res) {
		return nil
	}
	if op == OpAssignCoach && actor.Role == models.UserRoleCoach {
		return apperr.Forbidden("coaches may only assign themselves")
	}
	if op == OpEditAnnouncement && actor.Role == models.UserRoleCoach {
		return apperr.Forbidden("only the author may change this announcement")
	}
	return apperr.Forbidden("insufficient permissions")
}
