package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trentd187/volleyball-club/internal/apperr"
	"github.com/trentd187/volleyball-club/internal/models"
)

func TestCreatePlayer(t *testing.T) {
	db := newTestDB(t)
	svc := NewProfileService(db)
	ctx := context.Background()
	user := mustUser(t, db, "ana@club.test", models.UserRolePlayer)
	seven := 7

	p, err := svc.CreatePlayer(ctx, PlayerInput{UserID: &user.ID, FullName: " Ana Lopez ", Position: "setter", JerseyNumber: &seven})
	require.NoError(t, err)
	assert.Equal(t, "Ana Lopez", p.FullName)

	_, err = svc.CreatePlayer(ctx, PlayerInput{UserID: &user.ID, FullName: "Ana again"})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	ghost := uuid.New()
	_, err = svc.CreatePlayer(ctx, PlayerInput{UserID: &ghost, FullName: "Ghost"})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = svc.CreatePlayer(ctx, PlayerInput{FullName: ""})
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))

	// Guest players have no login account.
	guest, err := svc.CreatePlayer(ctx, PlayerInput{FullName: "Guest"})
	require.NoError(t, err)
	assert.Nil(t, guest.UserID)

	got, err := svc.GetPlayer(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.JerseyNumber)
	assert.Equal(t, 7, *got.JerseyNumber)
}

func TestCreateCoachNeedsStaffAccount(t *testing.T) {
	db := newTestDB(t)
	svc := NewProfileService(db)
	ctx := context.Background()
	player := mustUser(t, db, "p@club.test", models.UserRolePlayer)
	coach := mustUser(t, db, "c@club.test", models.UserRoleCoach)

	_, err := svc.CreateCoach(ctx, CoachInput{UserID: player.ID, FullName: "Pat"})
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))

	_, err = svc.CreateCoach(ctx, CoachInput{UserID: coach.ID, FullName: "Kim Diaz"})
	require.NoError(t, err)
	_, err = svc.CreateCoach(ctx, CoachInput{UserID: coach.ID, FullName: "Kim Diaz"})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}
