package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/trentd187/volleyball-club/internal/apperr"
	"github.com/trentd187/volleyball-club/internal/models"
)

// CategoryService manages teams and their rosters.
type CategoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

// CategoryInput is the editable part of a team.
type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (in *CategoryInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return apperr.BadRequest("name is required")
	}
	return nil
}

// Create adds a team. Team names are unique.
func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*models.Category, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	if err := s.ensureNameFree(db, in.Name, uuid.Nil); err != nil {
		return nil, err
	}

	cat := models.Category{Name: in.Name, Description: in.Description}
	if err := db.Create(&cat).Error; err != nil {
		if isDuplicate(err) {
			return nil, apperr.Conflict("category %q already exists", in.Name)
		}
		return nil, wrapf(err, "create category")
	}
	return &cat, nil
}

// List returns every team ordered by name, without rosters.
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&cats).Error; err != nil {
		return nil, wrapf(err, "list categories")
	}
	return cats, nil
}

// Get returns a team with its players and coaches.
func (s *CategoryService) Get(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var cat models.Category
	err := s.db.WithContext(ctx).
		Preload("Players", func(db *gorm.DB) *gorm.DB { return db.Order("full_name ASC") }).
		Preload("Coaches", func(db *gorm.DB) *gorm.DB { return db.Order("full_name ASC") }).
		First(&cat, "id = ?", id).Error
	if err != nil {
		return nil, lookupErr(err, "category", id)
	}
	return &cat, nil
}

// Update renames or re-describes a team.
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, in CategoryInput) (*models.Category, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)

	var cat models.Category
	if err := db.First(&cat, "id = ?", id).Error; err != nil {
		return nil, lookupErr(err, "category", id)
	}
	if err := s.ensureNameFree(db, in.Name, cat.ID); err != nil {
		return nil, err
	}

	err := db.Model(&cat).Updates(map[string]any{"name": in.Name, "description": in.Description}).Error
	if err != nil {
		if isDuplicate(err) {
			return nil, apperr.Conflict("category %q already exists", in.Name)
		}
		return nil, wrapf(err, "update category")
	}
	return s.Get(ctx, id)
}

// Delete removes a team. Teams that still play in a match cannot be deleted.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cat models.Category
		if err := tx.First(&cat, "id = ?", id).Error; err != nil {
			return lookupErr(err, "category", id)
		}

		// Deleting a team would orphan match history, so that case is refused outright
		var matches int64
		err := tx.Model(&models.Match{}).Where("home_team_id = ? OR away_team_id = ?", id, id).Count(&matches).Error
		if err != nil {
			return wrapf(err, "count matches")
		}
		if matches > 0 {
			return apperr.Conflict("category %q has recorded matches and cannot be deleted", cat.Name)
		}

		// Clearing only removes join rows; the player and coach profiles stay
		for _, assoc := range []string{"Players", "Coaches"} {
			if err := tx.Model(&cat).Association(assoc).Clear(); err != nil {
				return wrapf(err, "clear %s", strings.ToLower(assoc))
			}
		}
		if err := tx.Exec("DELETE FROM event_categories WHERE category_id = ?", id).Error; err != nil {
			return wrapf(err, "unlink events")
		}
		if err := tx.Delete(&cat).Error; err != nil {
			return wrapf(err, "delete category")
		}
		return nil
	})
}

// AddPlayer puts a player on a team. A player belongs to at most one team, so a
// player already on any team (including this one) is a Conflict.
func (s *CategoryService) AddPlayer(ctx context.Context, categoryID, playerID uuid.UUID) (*models.Category, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cat models.Category
		if err := tx.First(&cat, "id = ?", categoryID).Error; err != nil {
			return lookupErr(err, "category", categoryID)
		}
		// Lock the player row so two roster changes for the same player run one
		// after the other; the second then sees the first one's team below.
		var player models.PlayerProfile
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&player, "id = ?", playerID).Error
		if err != nil {
			return lookupErr(err, "player", playerID)
		}
		if err := tx.Model(&player).Association("Categories").Find(&player.Categories); err != nil {
			return wrapf(err, "load player categories")
		}
		if len(player.Categories) > 0 {
			return apperr.Conflict("%s already belongs to %s", player.FullName, player.Categories[0].Name)
		}

		// Insert the join row directly: Association.Append adds ON CONFLICT DO NOTHING,
		// which would hide a unique violation. The unique index catches anything the
		// lock does not, such as SQLite where locking clauses are ignored.
		link := models.CategoryPlayer{CategoryID: cat.ID, PlayerProfileID: player.ID}
		if err := tx.Create(&link).Error; err != nil {
			if isDuplicate(err) {
				return apperr.Conflict("%s already belongs to a category", player.FullName)
			}
			return wrapf(err, "add player")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, categoryID)
}

// RemovePlayer takes a player off a team.
func (s *CategoryService) RemovePlayer(ctx context.Context, categoryID, playerID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Exec("DELETE FROM category_players WHERE category_id = ? AND player_profile_id = ?", categoryID, playerID)
	if res.Error != nil {
		return wrapf(res.Error, "remove player")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("player %s is not on category %s", playerID, categoryID)
	}
	return nil
}

// CoachAssignment carries what the caller needs to authorize a coach change.
type CoachAssignment struct {
	Category models.Category
	Coach    models.CoachProfile
}

// LoadCoachAssignment resolves the team and coach of an assignment request so the
// caller can check ownership (a coach may only assign themselves) before writing.
func (s *CategoryService) LoadCoachAssignment(ctx context.Context, categoryID, coachID uuid.UUID) (*CoachAssignment, error) {
	db := s.db.WithContext(ctx)
	var a CoachAssignment
	if err := db.First(&a.Category, "id = ?", categoryID).Error; err != nil {
		return nil, lookupErr(err, "category", categoryID)
	}
	if err := db.First(&a.Coach, "id = ?", coachID).Error; err != nil {
		return nil, lookupErr(err, "coach", coachID)
	}
	return &a, nil
}

// AssignCoach links a coach to a team. Assigning twice is a Conflict.
func (s *CategoryService) AssignCoach(ctx context.Context, a *CoachAssignment) (*models.Category, error) {
	db := s.db.WithContext(ctx)

	var count int64
	err := db.Table("category_coaches").
		Where("category_id = ? AND coach_profile_id = ?", a.Category.ID, a.Coach.ID).
		Count(&count).Error
	if err != nil {
		return nil, wrapf(err, "check coach")
	}
	if count > 0 {
		return nil, apperr.Conflict("%s already coaches %s", a.Coach.FullName, a.Category.Name)
	}
	if err := db.Model(&a.Category).Association("Coaches").Append(&a.Coach); err != nil {
		return nil, wrapf(err, "assign coach")
	}
	return s.Get(ctx, a.Category.ID)
}

// RemoveCoach unlinks a coach from a team.
func (s *CategoryService) RemoveCoach(ctx context.Context, a *CoachAssignment) error {
	res := s.db.WithContext(ctx).
		Exec("DELETE FROM category_coaches WHERE category_id = ? AND coach_profile_id = ?", a.Category.ID, a.Coach.ID)
	if res.Error != nil {
		return wrapf(res.Error, "remove coach")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("%s does not coach %s", a.Coach.FullName, a.Category.Name)
	}
	return nil
}

func (s *CategoryService) ensureNameFree(db *gorm.DB, name string, self uuid.UUID) error {
	var count int64
	q := db.Model(&models.Category{}).Where("name = ?", name)
	if self != uuid.Nil {
		q = q.Where("id <> ?", self)
	}
	if err := q.Count(&count).Error; err != nil {
		return wrapf(err, "check category name")
	}
	if count > 0 {
		return apperr.Conflict("category %q already exists", name)
	}
	return nil
}
