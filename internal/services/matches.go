package services

import (
	"context"
	"slices"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/trentd187/volleyball-club/internal/apperr"
	"github.com/trentd187/volleyball-club/internal/models"
)

// MatchService creates matches and records their results.
type MatchService struct {
	db *gorm.DB
}

func NewMatchService(db *gorm.DB) *MatchService {
	return &MatchService{db: db}
}

// CreateMatchInput is the data needed to schedule a match.
type CreateMatchInput struct {
	HomeTeamID uuid.UUID `json:"home_team_id"`
	AwayTeamID uuid.UUID `json:"away_team_id"`
}

// Create schedules a match between two of the event's teams. The event must be
// a MATCH or TOURNAMENT and the two teams must differ.
func (s *MatchService) Create(ctx context.Context, eventID uuid.UUID, in CreateMatchInput) (*models.Match, error) {
	if in.HomeTeamID == uuid.Nil || in.AwayTeamID == uuid.Nil {
		return nil, apperr.BadRequest("home_team_id and away_team_id are required")
	}
	if in.HomeTeamID == in.AwayTeamID {
		return nil, apperr.BadRequest("home and away teams must differ")
	}

	db := s.db.WithContext(ctx)

	var event models.Event
	if err := db.Preload("Categories").First(&event, "id = ?", eventID).Error; err != nil {
		return nil, lookupErr(err, "event", eventID)
	}
	// Practices have no opponents, so only MATCH and TOURNAMENT events hold matches
	if !event.Type.Competitive() {
		return nil, apperr.BadRequest("matches can only be created for MATCH or TOURNAMENT events")
	}

	// Both sides must already be linked to the event (EventService.Update keeps it that way)
	teamIDs := make([]uuid.UUID, 0, len(event.Categories))
	for _, c := range event.Categories {
		teamIDs = append(teamIDs, c.ID)
	}
	if !slices.Contains(teamIDs, in.HomeTeamID) || !slices.Contains(teamIDs, in.AwayTeamID) {
		return nil, apperr.BadRequest("both teams must be associated with the event")
	}

	match := models.Match{
		EventID:    event.ID,
		HomeTeamID: in.HomeTeamID,
		AwayTeamID: in.AwayTeamID,
	}
	if err := db.Create(&match).Error; err != nil {
		return nil, wrapf(err, "create match")
	}
	return s.Get(ctx, match.ID)
}

// Get loads a match with its teams, winner, and sets ordered by set number
// (submission order among sets that share a number).
func (s *MatchService) Get(ctx context.Context, id uuid.UUID) (*models.Match, error) {
	var match models.Match
	err := withMatchDetail(s.db.WithContext(ctx)).First(&match, "id = ?", id).Error
	if err != nil {
		return nil, lookupErr(err, "match", id)
	}
	return &match, nil
}

// ListByEvent returns every match of an event.
func (s *MatchService) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Match, error) {
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.Event{}).Where("id = ?", eventID).Count(&count).Error; err != nil {
		return nil, wrapf(err, "check event")
	}
	if count == 0 {
		return nil, apperr.NotFound("event %s not found", eventID)
	}

	var matches []models.Match
	if err := withMatchDetail(db).Where("event_id = ?", eventID).Order("created_at ASC").Find(&matches).Error; err != nil {
		return nil, wrapf(err, "list matches")
	}
	return matches, nil
}

// Delete removes a match together with its sets and player statistics.
func (s *MatchService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var match models.Match
		if err := tx.Select("id").First(&match, "id = ?", id).Error; err != nil {
			return lookupErr(err, "match", id)
		}
		return deleteMatches(tx, []uuid.UUID{match.ID})
	})
}

// RecordResults replaces the match's sets with the submitted ones and recomputes
// the aggregate counters and the winner. Everything happens in one transaction:
// a reader never sees new sets next to stale counters. Submitting the same sets
// twice leaves the same rows behind, since old sets are deleted rather than merged.
//
// Callers validate the submission with ValidateSets first.
func (s *MatchService) RecordResults(ctx context.Context, matchID uuid.UUID, sets []SetInput) (*models.Match, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Row lock serialises concurrent submissions for the same match.
		var match models.Match
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "home_team_id", "away_team_id").
			First(&match, "id = ?", matchID).Error
		if err != nil {
			return lookupErr(err, "match", matchID)
		}

		// Replace, don't merge: the submission is the complete list of sets
		if err := tx.Where("match_id = ?", match.ID).Delete(&models.Set{}).Error; err != nil {
			return wrapf(err, "clear sets")
		}

		tally := ScoreSets(match.ID, match.HomeTeamID, match.AwayTeamID, sets)
		if len(tally.Sets) > 0 {
			if err := tx.Create(&tally.Sets).Error; err != nil {
				return wrapf(err, "insert sets")
			}
		}

		// Counters and winner are rewritten together with the sets above
		winner := MatchWinner(match.HomeTeamID, match.AwayTeamID, tally.HomeSetsWon, tally.AwaySetsWon)
		err = tx.Model(&models.Match{}).Where("id = ?", match.ID).Updates(map[string]any{
			"home_sets_won":  tally.HomeSetsWon,
			"away_sets_won":  tally.AwaySetsWon,
			"winner_team_id": winner,
		}).Error
		if err != nil {
			return wrapf(err, "update match totals")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	match, err := s.Get(ctx, matchID)
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("match_id", matchID.String()).
		Int("home_sets_won", match.HomeSetsWon).
		Int("away_sets_won", match.AwaySetsWon).
		Msg("match results recorded")
	return match, nil
}

func withMatchDetail(db *gorm.DB) *gorm.DB {
	return db.
		Preload("HomeTeam").
		Preload("AwayTeam").
		Preload("WinnerTeam").
		Preload("Sets", func(db *gorm.DB) *gorm.DB {
			// Set numbers are not unique, so fall back to submission order.
			return db.Order("set_number ASC").Order("seq ASC")
		})
}

// deleteMatches removes matches and everything hanging off them. tx must be a transaction.
func deleteMatches(tx *gorm.DB, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("match_id IN ?", ids).Delete(&models.Set{}).Error; err != nil {
		return wrapf(err, "delete sets")
	}
	if err := tx.Where("match_id IN ?", ids).Delete(&models.Statistic{}).Error; err != nil {
		return wrapf(err, "delete statistics")
	}
	if err := tx.Where("id IN ?", ids).Delete(&models.Match{}).Error; err != nil {
		return wrapf(err, "delete matches")
	}
	return nil
}
