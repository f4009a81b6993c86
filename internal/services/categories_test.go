package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trentd187/volleyball-club/internal/apperr"
	"github.com/trentd187/volleyball-club/internal/models"
)

func TestCategoryCRUD(t *testing.T) {
	db := newTestDB(t)
	svc := NewCategoryService(db)
	ctx := context.Background()

	u18, err := svc.Create(ctx, CategoryInput{Name: "  U18 Women ", Description: "youth"})
	require.NoError(t, err)
	assert.Equal(t, "U18 Women", u18.Name)

	_, err = svc.Create(ctx, CategoryInput{Name: "U18 Women"})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	_, err = svc.Create(ctx, CategoryInput{Name: "   "})
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))

	seniors, err := svc.Create(ctx, CategoryInput{Name: "Senior Men"})
	require.NoError(t, err)

	// Renaming onto another team's name is refused; keeping your own is fine.
	_, err = svc.Update(ctx, seniors.ID, CategoryInput{Name: "U18 Women"})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	updated, err := svc.Update(ctx, seniors.ID, CategoryInput{Name: "Senior Men", Description: "first team"})
	require.NoError(t, err)
	assert.Equal(t, "first team", updated.Description)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Senior Men", list[0].Name)
	assert.Equal(t, "U18 Women", list[1].Name)
}

func TestAddPlayerAllowsOneTeam(t *testing.T) {
	db := newTestDB(t)
	svc := NewCategoryService(db)
	ctx := context.Background()
	a := mustCategory(t, db, "Team A")
	b := mustCategory(t, db, "Team B")
	p := mustPlayer(t, db, "Ana Lopez", nil)

	cat, err := svc.AddPlayer(ctx, a.ID, p.ID)
	require.NoError(t, err)
	require.Len(t, cat.Players, 1)
	assert.Equal(t, "Ana Lopez", cat.Players[0].FullName)

	_, err = svc.AddPlayer(ctx, b.ID, p.ID)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	_, err = svc.AddPlayer(ctx, a.ID, p.ID)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	require.NoError(t, svc.RemovePlayer(ctx, a.ID, p.ID))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(svc.RemovePlayer(ctx, a.ID, p.ID)))

	_, err = svc.AddPlayer(ctx, b.ID, p.ID)
	assert.NoError(t, err)
}

func TestPlayerTeamLinkIsUniquePerPlayer(t *testing.T) {
	db := newTestDB(t)
	a := mustCategory(t, db, "Team A")
	b := mustCategory(t, db, "Team B")
	p := mustPlayer(t, db, "Ana Lopez", &a)

	// Two roster changes that both got past the membership check would each
	// insert a link row; the second one must fail.
	err := db.Create(&models.CategoryPlayer{CategoryID: b.ID, PlayerProfileID: p.ID}).Error
	require.Error(t, err)
	assert.True(t, isDuplicate(err))

	var links int64
	require.NoError(t, db.Model(&models.CategoryPlayer{}).Where("player_profile_id = ?", p.ID).Count(&links).Error)
	assert.Equal(t, int64(1), links)

	cat, err := NewCategoryService(db).Get(context.Background(), a.ID)
	require.NoError(t, err)
	require.Len(t, cat.Players, 1)
	assert.Equal(t, p.ID, cat.Players[0].ID)
}

func TestAssignCoach(t *testing.T) {
	db := newTestDB(t)
	svc := NewCategoryService(db)
	ctx := context.Background()
	team := mustCategory(t, db, "Team A")
	user := mustUser(t, db, "coach@club.test", models.UserRoleCoach)
	coach, err := NewProfileService(db).CreateCoach(ctx, CoachInput{UserID: user.ID, FullName: "Kim Diaz"})
	require.NoError(t, err)

	a, err := svc.LoadCoachAssignment(ctx, team.ID, coach.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, a.Coach.UserID)

	cat, err := svc.AssignCoach(ctx, a)
	require.NoError(t, err)
	require.Len(t, cat.Coaches, 1)

	_, err = svc.AssignCoach(ctx, a)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	require.NoError(t, svc.RemoveCoach(ctx, a))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(svc.RemoveCoach(ctx, a)))
}

func TestDeleteCategory(t *testing.T) {
	db := newTestDB(t)
	svc := NewCategoryService(db)
	ctx := context.Background()
	a := mustCategory(t, db, "Team A")
	b := mustCategory(t, db, "Team B")
	c := mustCategory(t, db, "Team C")
	mustPlayer(t, db, "Ana Lopez", &c)
	at := time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)
	ev := mustEvent(t, db, "League day", models.EventTypeMatch, at, a, b, c)
	mustMatch(t, db, ev, a, b)

	err := svc.Delete(ctx, a.ID)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	require.NoError(t, svc.Delete(ctx, c.ID))
	assert.Equal(t, int64(2), countRows(t, db, &models.Category{}))
	assert.Equal(t, int64(1), countRows(t, db, &models.PlayerProfile{}), "players outlive their team")

	var links int64
	require.NoError(t, db.Table("event_categories").Where("category_id = ?", c.ID).Count(&links).Error)
	assert.Zero(t, links)

	_, err = svc.Get(ctx, c.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
