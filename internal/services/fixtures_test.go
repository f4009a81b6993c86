package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/trentd187/volleyball-club/internal/database"
	"github.com/trentd187/volleyball-club/internal/models"
)

// newTestDB opens a private in-memory SQLite database with every table migrated.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func mustUser(t *testing.T, db *gorm.DB, email string, role models.UserRole) models.User {
	t.Helper()
	u := models.User{Email: email, PasswordHash: "x", Role: role}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func mustCategory(t *testing.T, db *gorm.DB, name string) models.Category {
	t.Helper()
	c := models.Category{Name: name}
	require.NoError(t, db.Create(&c).Error)
	return c
}

// mustPlayer creates a player and, when team is non-nil, puts them on it.
func mustPlayer(t *testing.T, db *gorm.DB, name string, team *models.Category) models.PlayerProfile {
	t.Helper()
	p := models.PlayerProfile{FullName: name, Position: "outside hitter"}
	require.NoError(t, db.Create(&p).Error)
	if team != nil {
		require.NoError(t, db.Model(team).Association("Players").Append(&p))
	}
	return p
}

func mustEvent(t *testing.T, db *gorm.DB, name string, typ models.EventType, at time.Time, teams ...models.Category) models.Event {
	t.Helper()
	e := models.Event{Name: name, Type: typ, DateTime: at.UTC(), Categories: teams}
	require.NoError(t, db.Omit("Categories.*").Create(&e).Error)
	return e
}

func mustMatch(t *testing.T, db *gorm.DB, event models.Event, home, away models.Category) models.Match {
	t.Helper()
	m := models.Match{EventID: event.ID, HomeTeamID: home.ID, AwayTeamID: away.ID}
	require.NoError(t, db.Create(&m).Error)
	return m
}

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
