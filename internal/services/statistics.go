package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/trentd187/volleyball-club/internal/apperr"
	"github.com/trentd187/volleyball-club/internal/models"
)

// StatisticService stores per-player match counters. Unlike attendance, a second
// submission for the same (player, match) simply overwrites the first.
type StatisticService struct {
	db *gorm.DB
}

func NewStatisticService(db *gorm.DB) *StatisticService {
	return &StatisticService{db: db}
}

// StatisticInput is one player's counters for a match.
type StatisticInput struct {
	PlayerProfileID uuid.UUID `json:"player_profile_id"`
	Points          int       `json:"points"`
	Aces            int       `json:"aces"`
	Blocks          int       `json:"blocks"`
	Digs            int       `json:"digs"`
	Assists         int       `json:"assists"`
	Errors          int       `json:"errors"`
}

func (in StatisticInput) validate(i int) error {
	if in.PlayerProfileID == uuid.Nil {
		return apperr.BadRequest("statistics[%d]: player_profile_id is required", i)
	}
	for _, v := range []int{in.Points, in.Aces, in.Blocks, in.Digs, in.Assists, in.Errors} {
		if v < 0 {
			return apperr.BadRequest("statistics[%d]: counters must not be negative", i)
		}
	}
	return nil
}

// Upsert writes counters for each player of the match, last write wins.
func (s *StatisticService) Upsert(ctx context.Context, matchID uuid.UUID, items []StatisticInput, recorderID uuid.UUID) ([]models.Statistic, error) {
	if len(items) == 0 {
		return nil, apperr.BadRequest("statistics must not be empty")
	}
	ids := make([]uuid.UUID, len(items))
	for i, in := range items {
		if err := in.validate(i); err != nil {
			return nil, err
		}
		ids[i] = in.PlayerProfileID
	}
	ids = uniqueIDs(ids)

	rows := make([]models.Statistic, len(items))
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var match models.Match
		if err := tx.Select("id").First(&match, "id = ?", matchID).Error; err != nil {
			return lookupErr(err, "match", matchID)
		}

		// Unknown players are reported by id, all at once
		var known []uuid.UUID
		if err := tx.Model(&models.PlayerProfile{}).Where("id IN ?", ids).Pluck("id", &known).Error; err != nil {
			return wrapf(err, "load players")
		}
		if len(known) != len(ids) {
			seen := make(map[uuid.UUID]bool, len(known))
			for _, id := range known {
				seen[id] = true
			}
			var missing []uuid.UUID
			for _, id := range ids {
				if !seen[id] {
					missing = append(missing, id)
				}
			}
			return apperr.BadRequest("player profiles not found: %s", joinIDs(missing))
		}

		for i, in := range items {
			rows[i] = models.Statistic{
				PlayerProfileID: in.PlayerProfileID,
				MatchID:         match.ID,
				Points:          in.Points,
				Aces:            in.Aces,
				Blocks:          in.Blocks,
				Digs:            in.Digs,
				Assists:         in.Assists,
				Errors:          in.Errors,
				RecordedBy:      recorderID,
			}
			// (player, match) is unique: a repeat submission replaces the counters in place
			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "player_profile_id"}, {Name: "match_id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"points", "aces", "blocks", "digs", "assists", "errors", "recorded_by", "updated_at",
				}),
			}).Create(&rows[i]).Error
			if err != nil {
				return wrapf(err, "upsert statistic")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.ForMatch(ctx, matchID)
}

// ForMatch lists a match's statistics ordered by player name.
func (s *StatisticService) ForMatch(ctx context.Context, matchID uuid.UUID) ([]models.Statistic, error) {
	db := s.db.WithContext(ctx)

	var match models.Match
	if err := db.Select("id").First(&match, "id = ?", matchID).Error; err != nil {
		return nil, lookupErr(err, "match", matchID)
	}

	var stats []models.Statistic
	err := db.Select("statistics.*").
		Joins("JOIN player_profiles ON player_profiles.id = statistics.player_profile_id").
		Preload("Player").
		Where("statistics.match_id = ?", matchID).
		Order("player_profiles.full_name ASC").
		Find(&stats).Error
	if err != nil {
		return nil, wrapf(err, "list statistics")
	}
	return stats, nil
}

// PlayerSummary is the sum of a player's counters over every recorded match.
type PlayerSummary struct {
	PlayerProfileID uuid.UUID `json:"player_profile_id"`
	FullName        string    `json:"full_name"`
	MatchesPlayed   int64     `json:"matches_played"`
	Points          int64     `json:"points"`
	Aces            int64     `json:"aces"`
	Blocks          int64     `json:"blocks"`
	Digs            int64     `json:"digs"`
	Assists         int64     `json:"assists"`
	Errors          int64     `json:"errors"`
}

// SummaryForPlayer aggregates a player's statistics.
func (s *StatisticService) SummaryForPlayer(ctx context.Context, playerID uuid.UUID) (*PlayerSummary, error) {
	db := s.db.WithContext(ctx)

	var player models.PlayerProfile
	if err := db.First(&player, "id = ?", playerID).Error; err != nil {
		return nil, lookupErr(err, "player", playerID)
	}

	var totals struct {
		MatchesPlayed int64
		Points        int64
		Aces          int64
		Blocks        int64
		Digs          int64
		Assists       int64
		Errors        int64
	}
	err := db.Model(&models.Statistic{}).
		Select(`COUNT(*) AS matches_played,
			COALESCE(SUM(points), 0) AS points,
			COALESCE(SUM(aces), 0) AS aces,
			COALESCE(SUM(blocks), 0) AS blocks,
			COALESCE(SUM(digs), 0) AS digs,
			COALESCE(SUM(assists), 0) AS assists,
			COALESCE(SUM(errors), 0) AS errors`).
		Where("player_profile_id = ?", player.ID).
		Scan(&totals).Error
	if err != nil {
		return nil, wrapf(err, "sum statistics")
	}

	summary := PlayerSummary{
		PlayerProfileID: player.ID,
		FullName:        player.FullName,
		MatchesPlayed:   totals.MatchesPlayed,
		Points:          totals.Points,
		Aces:            totals.Aces,
		Blocks:          totals.Blocks,
		Digs:            totals.Digs,
		Assists:         totals.Assists,
		Errors:          totals.Errors,
	}
	return &summary, nil
}
