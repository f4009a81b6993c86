package services

import (
	"github.com/google/uuid"

	"github.com/trentd187/volleyball-club/internal/apperr"
	"github.com/trentd187/volleyball-club/internal/models"
)

// SetInput is one submitted set score.
type SetInput struct {
	SetNumber int `json:"set_number"`
	HomeScore int `json:"home_score"`
	AwayScore int `json:"away_score"`
}

// ValidateSets checks a result submission before it reaches RecordResults:
// at least one set, positive set numbers, and non-negative scores.
func ValidateSets(sets []SetInput) error {
	if len(sets) == 0 {
		return apperr.BadRequest("at least one set is required")
	}
	// Report the first bad set by its index in the request
	for i, s := range sets {
		if s.SetNumber <= 0 {
			return apperr.BadRequest("sets[%d]: set_number must be a positive integer", i)
		}
		if s.HomeScore < 0 || s.AwayScore < 0 {
			return apperr.BadRequest("sets[%d]: scores must not be negative", i)
		}
	}
	return nil
}

// Tally is the outcome of scoring a list of sets.
type Tally struct {
	Sets        []models.Set
	HomeSetsWon int
	AwaySetsWon int
}

// ScoreSets builds Set rows for matchID in input order and counts sets won.
// The higher score wins a set. An equal score leaves the set without a winner and
// counts for neither side.
func ScoreSets(matchID, homeTeamID, awayTeamID uuid.UUID, sets []SetInput) Tally {
	t := Tally{Sets: make([]models.Set, 0, len(sets))}
	for i, in := range sets {
		row := models.Set{
			Seq:       i,
			MatchID:   matchID,
			SetNumber: in.SetNumber,
			HomeScore: in.HomeScore,
			AwayScore: in.AwayScore,
		}
		// No deuce or 25-point rules here: whoever scored more took the set
		switch {
		case in.HomeScore > in.AwayScore:
			winner := homeTeamID
			row.WinnerTeamID = &winner
			t.HomeSetsWon++
		case in.AwayScore > in.HomeScore:
			winner := awayTeamID
			row.WinnerTeamID = &winner
			t.AwaySetsWon++
		}
		t.Sets = append(t.Sets, row)
	}
	return t
}

// MatchWinner picks the match winner from the set counts. Home wins only with
// strictly more sets; every other outcome, including a level count such as 0-0
// from all-tied sets, goes to the away team.
// TODO: decide with the club whether a level count should leave the winner empty.
func MatchWinner(homeTeamID, awayTeamID uuid.UUID, homeSetsWon, awaySetsWon int) uuid.UUID {
	if homeSetsWon > awaySetsWon {
		return homeTeamID
	}
	return awayTeamID
}
