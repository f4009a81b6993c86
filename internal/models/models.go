// Package models defines the data structures (models) that map to database tables.
// GORM uses these structs to generate SQL queries and map database rows back to Go values.
//
// The data model represents a volleyball club where:
//   - Users log in with a role (admin, coach, player)
//   - Players and coaches are grouped into Categories (teams)
//   - Events (practices, matches, tournaments) are scheduled for one or more Categories
//   - Matches inside an Event record per-set scores and a derived winner
//   - Attendance and Statistics are recorded per player
package models

import (
	"time"

	// uuid provides universally unique identifiers for primary keys.
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- Enums ---
// Named string types plus constants give type safety while keeping the values
// human-readable in the database and in JSON.

// UserRole represents a user's global permission level.
type UserRole string

const (
	UserRoleAdmin  UserRole = "ADMIN"  // Full access: users, teams, everything
	UserRoleCoach  UserRole = "COACH"  // Manages teams, events, results, attendance
	UserRolePlayer UserRole = "PLAYER" // Read-only member
)

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case UserRoleAdmin, UserRoleCoach, UserRolePlayer:
		return true
	}
	return false
}

// EventType describes what kind of activity is scheduled.
type EventType string

const (
	EventTypeMatch      EventType = "MATCH"
	EventTypePractice   EventType = "PRACTICE"
	EventTypeTournament EventType = "TOURNAMENT"
)

// Valid reports whether t is one of the known event types.
func (t EventType) Valid() bool {
	switch t {
	case EventTypeMatch, EventTypePractice, EventTypeTournament:
		return true
	}
	return false
}

// Competitive reports whether matches can be played under this event type.
// Competitive events also need at least two categories.
func (t EventType) Competitive() bool {
	return t == EventTypeMatch || t == EventTypeTournament
}

// AttendanceStatus is the presence state of a player at an event on a given day.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceAbsent  AttendanceStatus = "ABSENT"
	AttendanceExcused AttendanceStatus = "EXCUSED"
)

// Valid reports whether s is one of the known attendance statuses.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceExcused:
		return true
	}
	return false
}

// --- Models ---

// Base carries the UUID primary key shared by every table. The key is generated
// in Go (not by a database default) so the same models work on PostgreSQL and on
// the SQLite database used by tests.
type Base struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a fresh UUID when the caller did not set one.
func (b *Base) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// User is an account that can log in.
type User struct {
	Base
	Email        string   `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"not null" json:"-"` // bcrypt hash; never serialised
	Role         UserRole `gorm:"type:varchar(16);not null;default:'PLAYER'" json:"role"`
}

// PlayerProfile is the sporting identity of a user who plays.
// A player belongs to at most one Category at a time (see CategoryPlayer).
type PlayerProfile struct {
	Base
	UserID       *uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"user_id"` // Optional link to a login account
	User         *User      `gorm:"foreignKey:UserID" json:"-"`
	FullName     string     `gorm:"not null" json:"full_name"`
	Position     string     `gorm:"not null;default:''" json:"position"` // e.g. "setter", "libero"
	JerseyNumber *int       `json:"jersey_number"`
	Categories   []Category `gorm:"many2many:category_players;" json:"categories,omitempty"`
}

// CategoryPlayer is the join row between a Category and a PlayerProfile.
// The unique index on PlayerProfileID is what keeps a player on at most one team,
// even when two roster changes for the same player race each other.
type CategoryPlayer struct {
	CategoryID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	PlayerProfileID uuid.UUID `gorm:"type:uuid;primaryKey;uniqueIndex"`
}

// CoachProfile is the coaching identity of a user.
type CoachProfile struct {
	Base
	UserID     uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	User       *User      `gorm:"foreignKey:UserID" json:"-"`
	FullName   string     `gorm:"not null" json:"full_name"`
	Categories []Category `gorm:"many2many:category_coaches;" json:"categories,omitempty"`
}

// Category is a team: a roster of players and coaches competing as a unit.
type Category struct {
	Base
	Name        string          `gorm:"uniqueIndex;not null" json:"name"`
	Description string          `gorm:"not null;default:''" json:"description"`
	Players     []PlayerProfile `gorm:"many2many:category_players;" json:"players,omitempty"`
	Coaches     []CoachProfile  `gorm:"many2many:category_coaches;" json:"coaches,omitempty"`
}

// Event is a scheduled activity tied to one or more Categories.
type Event struct {
	Base
	Name        string     `gorm:"uniqueIndex;not null" json:"name"`
	Type        EventType  `gorm:"type:varchar(16);not null" json:"type"`
	DateTime    time.Time  `gorm:"not null" json:"date_time"`
	Location    string     `gorm:"not null;default:''" json:"location"`
	Description string     `gorm:"not null;default:''" json:"description"`
	Categories  []Category `gorm:"many2many:event_categories;" json:"categories,omitempty"`
	Matches     []Match    `gorm:"foreignKey:EventID" json:"matches,omitempty"`
}

// Match is a head-to-head contest between two Categories within an Event.
// HomeSetsWon, AwaySetsWon and WinnerTeamID are derived from the Sets and are only
// ever written by result recording.
type Match struct {
	Base
	EventID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"event_id"`
	HomeTeamID   uuid.UUID  `gorm:"type:uuid;not null" json:"home_team_id"`
	HomeTeam     *Category  `gorm:"foreignKey:HomeTeamID" json:"home_team,omitempty"`
	AwayTeamID   uuid.UUID  `gorm:"type:uuid;not null" json:"away_team_id"`
	AwayTeam     *Category  `gorm:"foreignKey:AwayTeamID" json:"away_team,omitempty"`
	HomeSetsWon  int        `gorm:"not null;default:0" json:"home_sets_won"`
	AwaySetsWon  int        `gorm:"not null;default:0" json:"away_sets_won"`
	WinnerTeamID *uuid.UUID `gorm:"type:uuid" json:"winner_team_id"` // Nil until results are recorded
	WinnerTeam   *Category  `gorm:"foreignKey:WinnerTeamID" json:"winner_team,omitempty"`
	Sets         []Set      `gorm:"foreignKey:MatchID" json:"sets"`
}

// Set is one scoring unit within a Match. Sets are replaced wholesale every time
// results are recorded, never patched.
type Set struct {
	Base
	MatchID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"match_id"`
	SetNumber    int        `gorm:"not null" json:"set_number"`
	HomeScore    int        `gorm:"not null" json:"home_score"`
	AwayScore    int        `gorm:"not null" json:"away_score"`
	WinnerTeamID *uuid.UUID `gorm:"type:uuid" json:"winner_team_id"` // Nil on a tied set
	Seq          int        `gorm:"not null;default:0" json:"-"`     // Submission order; orders sets sharing a number
}

// TableName keeps "set" (an SQL keyword) out of the schema.
func (Set) TableName() string { return "match_sets" }

// Attendance is a per-player, per-event, per-date presence status.
// The composite unique index idx_attendance_key makes (player, event, date) the natural key.
type Attendance struct {
	Base
	PlayerProfileID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_key" json:"player_profile_id"`
	Player          *PlayerProfile   `gorm:"foreignKey:PlayerProfileID" json:"player,omitempty"`
	EventID         uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_key" json:"event_id"`
	Date            time.Time        `gorm:"not null;uniqueIndex:idx_attendance_key" json:"date"` // Always midnight UTC
	Status          AttendanceStatus `gorm:"type:varchar(16);not null" json:"status"`
	Notes           *string          `json:"notes"`
	RecordedBy      uuid.UUID        `gorm:"type:uuid;not null" json:"recorded_by"`
	Recorder        *User            `gorm:"foreignKey:RecordedBy" json:"-"`
}

// Statistic holds per-player per-match counters. (player, match) is unique and
// writes overwrite freely.
type Statistic struct {
	Base
	PlayerProfileID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_statistic_key" json:"player_profile_id"`
	Player          *PlayerProfile `gorm:"foreignKey:PlayerProfileID" json:"player,omitempty"`
	MatchID         uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_statistic_key" json:"match_id"`
	Points          int            `gorm:"not null;default:0" json:"points"`
	Aces            int            `gorm:"not null;default:0" json:"aces"`
	Blocks          int            `gorm:"not null;default:0" json:"blocks"`
	Digs            int            `gorm:"not null;default:0" json:"digs"`
	Assists         int            `gorm:"not null;default:0" json:"assists"`
	Errors          int            `gorm:"not null;default:0" json:"errors"`
	RecordedBy      uuid.UUID      `gorm:"type:uuid;not null" json:"recorded_by"`
}

// Announcement is a club notice visible to players while "now" is inside
// [ValidFrom, ValidUntil]. A nil ValidUntil means open-ended.
type Announcement struct {
	Base
	Title      string     `gorm:"not null" json:"title"`
	Content    string     `gorm:"not null" json:"content"`
	ValidFrom  time.Time  `gorm:"not null" json:"valid_from"`
	ValidUntil *time.Time `json:"valid_until"`
	AuthorID   uuid.UUID  `gorm:"type:uuid;not null" json:"author_id"`
	Author     *User      `gorm:"foreignKey:AuthorID" json:"-"`
}

// VisibleAt reports whether the announcement is inside its validity window at t.
func (a Announcement) VisibleAt(t time.Time) bool {
	if t.Before(a.ValidFrom) {
		return false
	}
	return a.ValidUntil == nil || !t.After(*a.ValidUntil)
}

// All lists every model in dependency order, for AutoMigrate.
func All() []any {
	return []any{
		&User{},
		&Category{},
		&PlayerProfile{},
		&CoachProfile{},
		&Event{},
		&Match{},
		&Set{},
		&Attendance{},
		&Statistic{},
		&Announcement{},
	}
}
