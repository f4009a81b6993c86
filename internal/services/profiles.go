package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trentd187/volleyball-club/internal/apperr"
	"github.com/trentd187/volleyball-club/internal/models"
)

// ProfileService manages player and coach profiles.
type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

type PlayerInput struct {
	UserID       *uuid.UUID `json:"user_id"`
	FullName     string     `json:"full_name"`
	Position     string     `json:"position"`
	JerseyNumber *int       `json:"jersey_number"`
}

type CoachInput struct {
	UserID   uuid.UUID `json:"user_id"`
	FullName string    `json:"full_name"`
}

// CreatePlayer adds a player profile, optionally linked to a login account.
func (s *ProfileService) CreatePlayer(ctx context.Context, in PlayerInput) (*models.PlayerProfile, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	if in.FullName == "" {
		return nil, apperr.BadRequest("full_name is required")
	}
	if in.JerseyNumber != nil && *in.JerseyNumber < 0 {
		return nil, apperr.BadRequest("jersey_number must not be negative")
	}
	db := s.db.WithContext(ctx)
	if in.UserID != nil {
		if _, err := s.loadUser(db, *in.UserID); err != nil {
			return nil, err
		}
	}

	p := models.PlayerProfile{
		UserID:       in.UserID,
		FullName:     in.FullName,
		Position:     strings.TrimSpace(in.Position),
		JerseyNumber: in.JerseyNumber,
	}
	if err := db.Create(&p).Error; err != nil {
		if isDuplicate(err) {
			return nil, apperr.Conflict("user already has a player profile")
		}
		return nil, wrapf(err, "create player")
	}
	return &p, nil
}

// GetPlayer returns a player with their team.
func (s *ProfileService) GetPlayer(ctx context.Context, id uuid.UUID) (*models.PlayerProfile, error) {
	var p models.PlayerProfile
	if err := s.db.WithContext(ctx).Preload("Categories").First(&p, "id = ?", id).Error; err != nil {
		return nil, lookupErr(err, "player", id)
	}
	return &p, nil
}

// CreateCoach adds a coach profile for a COACH or ADMIN account.
func (s *ProfileService) CreateCoach(ctx context.Context, in CoachInput) (*models.CoachProfile, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	if in.FullName == "" {
		return nil, apperr.BadRequest("full_name is required")
	}
	db := s.db.WithContext(ctx)
	user, err := s.loadUser(db, in.UserID)
	if err != nil {
		return nil, err
	}
	if user.Role == models.UserRolePlayer {
		return nil, apperr.BadRequest("coach profiles require a COACH or ADMIN account")
	}

	c := models.CoachProfile{UserID: user.ID, FullName: in.FullName}
	if err := db.Create(&c).Error; err != nil {
		if isDuplicate(err) {
			return nil, apperr.Conflict("user already has a coach profile")
		}
		return nil, wrapf(err, "create coach")
	}
	return &c, nil
}

func (s *ProfileService) loadUser(db *gorm.DB, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		return nil, lookupErr(err, "user", id)
	}
	return &user, nil
}
