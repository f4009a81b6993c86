package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnumsValid(t *testing.T) {
	assert.True(t, UserRoleCoach.Valid())
	assert.False(t, UserRole("OWNER").Valid())
	assert.True(t, EventTypeTournament.Valid())
	assert.False(t, EventType("").Valid())
	assert.True(t, AttendanceExcused.Valid())
	assert.False(t, AttendanceStatus("LATE").Valid())

	assert.True(t, EventTypeMatch.Competitive())
	assert.True(t, EventTypeTournament.Competitive())
	assert.False(t, EventTypePractice.Competitive())
}

func TestAnnouncementVisibleAt(t *testing.T) {
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	until := from.Add(48 * time.Hour)

	open := Announcement{ValidFrom: from}
	assert.False(t, open.VisibleAt(from.Add(-time.Second)))
	assert.True(t, open.VisibleAt(from))
	assert.True(t, open.VisibleAt(from.AddDate(1, 0, 0)))

	bounded := Announcement{ValidFrom: from, ValidUntil: &until}
	assert.True(t, bounded.VisibleAt(until))
	assert.False(t, bounded.VisibleAt(until.Add(time.Second)))
}
