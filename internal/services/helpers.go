// Package services holds the club's business rules. Each service receives the
// *gorm.DB handle built in main; none of them keeps global state.
//
// Expected failures are returned as *apperr.Error so the HTTP boundary can map
// them to a status code. Every multi-step write runs inside db.Transaction.
package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trentd187/volleyball-club/internal/apperr"
)

// DateLayout is the wire format for calendar days ("2024-05-01").
const DateLayout = "2006-01-02"

// ParseDay parses a "YYYY-MM-DD" string as midnight UTC.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, apperr.BadRequest("date must be in YYYY-MM-DD format")
	}
	return t.UTC(), nil
}

// DayUTC truncates t to midnight of its UTC calendar day.
func DayUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// lookupErr converts gorm.ErrRecordNotFound into a NotFound error and wraps anything else.
func lookupErr(err error, what string, id uuid.UUID) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("%s %s not found", what, id)
	}
	return apperr.Internal("load "+what, err)
}

// isDuplicate reports whether err is a unique-constraint violation.
func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// uniqueIDs returns ids without duplicates, keeping first-seen order.
func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// joinIDs renders ids as a comma separated list for error messages.
func joinIDs(ids []uuid.UUID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ", ")
}

// joinNames renders names sorted, so error messages are deterministic.
func joinNames(names []string) string {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	return strings.Join(sorted, ", ")
}

func wrapf(err error, format string, args ...any) error {
	return apperr.Internal(fmt.Sprintf(format, args...), err)
}
