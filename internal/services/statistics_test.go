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

func TestUpsertStatisticsLastWriteWins(t *testing.T) {
	matches, m, a, b := matchFixture(t)
	db := matches.db
	svc := NewStatisticService(db)
	ctx := context.Background()
	coach := mustUser(t, db, "coach@club.test", models.UserRoleCoach)
	zoe := mustPlayer(t, db, "Zoe Hart", &a)
	ana := mustPlayer(t, db, "Ana Lopez", &b)

	stats, err := svc.Upsert(ctx, m.ID, []StatisticInput{
		{PlayerProfileID: zoe.ID, Points: 10, Aces: 2},
		{PlayerProfileID: ana.ID, Points: 7, Digs: 9},
	}, coach.ID)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "Ana Lopez", stats[0].Player.FullName)

	stats, err = svc.Upsert(ctx, m.ID, []StatisticInput{{PlayerProfileID: zoe.ID, Points: 14}}, coach.ID)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, 14, stats[1].Points)
	assert.Equal(t, 0, stats[1].Aces)
	assert.Equal(t, int64(2), countRows(t, db, &models.Statistic{}))
}

func TestUpsertStatisticsValidation(t *testing.T) {
	matches, m, _, _ := matchFixture(t)
	svc := NewStatisticService(matches.db)
	ctx := context.Background()
	recorder := uuid.New()

	_, err := svc.Upsert(ctx, m.ID, nil, recorder)
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))

	_, err = svc.Upsert(ctx, m.ID, []StatisticInput{{PlayerProfileID: uuid.New(), Points: -1}}, recorder)
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))

	ghost := uuid.New()
	_, err = svc.Upsert(ctx, m.ID, []StatisticInput{{PlayerProfileID: ghost}}, recorder)
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
	assert.Contains(t, apperr.Message(err), ghost.String())

	_, err = svc.Upsert(ctx, uuid.New(), []StatisticInput{{PlayerProfileID: ghost}}, recorder)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestSummaryForPlayer(t *testing.T) {
	matches, m, a, b := matchFixture(t)
	db := matches.db
	svc := NewStatisticService(db)
	ctx := context.Background()
	coach := mustUser(t, db, "coach@club.test", models.UserRoleCoach)
	zoe := mustPlayer(t, db, "Zoe Hart", &a)

	var ev models.Event
	require.NoError(t, db.First(&ev, "id = ?", m.EventID).Error)
	rematch := mustMatch(t, db, ev, b, a)

	empty, err := svc.SummaryForPlayer(ctx, zoe.ID)
	require.NoError(t, err)
	assert.Zero(t, empty.MatchesPlayed)

	_, err = svc.Upsert(ctx, m.ID, []StatisticInput{{PlayerProfileID: zoe.ID, Points: 10, Blocks: 3, Errors: 2}}, coach.ID)
	require.NoError(t, err)
	_, err = svc.Upsert(ctx, rematch.ID, []StatisticInput{{PlayerProfileID: zoe.ID, Points: 5, Blocks: 1}}, coach.ID)
	require.NoError(t, err)

	sum, err := svc.SummaryForPlayer(ctx, zoe.ID)
	require.NoError(t, err)
	assert.Equal(t, PlayerSummary{
		PlayerProfileID: zoe.ID,
		FullName:        "Zoe Hart",
		MatchesPlayed:   2,
		Points:          15,
		Blocks:          4,
		Errors:          2,
	}, *sum)

	_, err = svc.SummaryForPlayer(ctx, uuid.New())
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
