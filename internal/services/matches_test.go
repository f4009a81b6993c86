package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trentd187/volleyball-club/internal/apperr"
	"github.com/trentd187/volleyball-club/internal/models"
)

func TestCreateMatch(t *testing.T) {
	db := newTestDB(t)
	svc := NewMatchService(db)
	ctx := context.Background()
	a := mustCategory(t, db, "Team A")
	b := mustCategory(t, db, "Team B")
	c := mustCategory(t, db, "Team C")
	at := time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)
	tournament := mustEvent(t, db, "Spring cup", models.EventTypeTournament, at, a, b)
	practice := mustEvent(t, db, "Tuesday practice", models.EventTypePractice, at, a)

	m, err := svc.Create(ctx, tournament.ID, CreateMatchInput{HomeTeamID: a.ID, AwayTeamID: b.ID})
	require.NoError(t, err)
	assert.Equal(t, "Team A", m.HomeTeam.Name)
	assert.Equal(t, "Team B", m.AwayTeam.Name)
	assert.Nil(t, m.WinnerTeamID)

	_, err = svc.Create(ctx, tournament.ID, CreateMatchInput{HomeTeamID: a.ID, AwayTeamID: a.ID})
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))

	_, err = svc.Create(ctx, tournament.ID, CreateMatchInput{HomeTeamID: a.ID, AwayTeamID: c.ID})
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))

	_, err = svc.Create(ctx, practice.ID, CreateMatchInput{HomeTeamID: a.ID, AwayTeamID: b.ID})
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))

	_, err = svc.Create(ctx, uuid.New(), CreateMatchInput{HomeTeamID: a.ID, AwayTeamID: b.ID})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	list, err := svc.ListByEvent(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestDeleteMatchRemovesSetsAndStatistics(t *testing.T) {
	svc, m, a, _ := matchFixture(t)
	ctx := context.Background()
	coach := mustUser(t, svc.db, "coach@club.test", models.UserRoleCoach)
	p := mustPlayer(t, svc.db, "Ana", &a)

	_, err := svc.RecordResults(ctx, m.ID, []SetInput{{SetNumber: 1, HomeScore: 25, AwayScore: 20}})
	require.NoError(t, err)
	_, err = NewStatisticService(svc.db).Upsert(ctx, m.ID, []StatisticInput{{PlayerProfileID: p.ID, Points: 12}}, coach.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, m.ID))
	assert.Equal(t, int64(0), countRows(t, svc.db, &models.Match{}))
	assert.Equal(t, int64(0), countRows(t, svc.db, &models.Set{}))
	assert.Equal(t, int64(0), countRows(t, svc.db, &models.Statistic{}))

	err = svc.Delete(ctx, m.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
