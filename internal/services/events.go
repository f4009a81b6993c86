package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trentd187/volleyball-club/internal/apperr"
	"github.com/trentd187/volleyball-club/internal/models"
)

// EventService schedules practices, matches and tournaments.
type EventService struct {
	db *gorm.DB
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{db: db}
}

// EventInput is the editable part of an event.
type EventInput struct {
	Name        string           `json:"name"`
	Type        models.EventType `json:"type"`
	DateTime    time.Time        `json:"date_time"`
	Location    string           `json:"location"`
	Description string           `json:"description"`
	CategoryIDs []uuid.UUID      `json:"category_ids"`
}

func (in *EventInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return apperr.BadRequest("name is required")
	}
	if !in.Type.Valid() {
		return apperr.BadRequest("type must be MATCH, PRACTICE or TOURNAMENT")
	}
	if in.DateTime.IsZero() {
		return apperr.BadRequest("date_time is required")
	}
	in.DateTime = in.DateTime.UTC()
	in.CategoryIDs = uniqueIDs(in.CategoryIDs)
	if len(in.CategoryIDs) == 0 {
		return apperr.BadRequest("at least one category is required")
	}
	if in.Type.Competitive() && len(in.CategoryIDs) < 2 {
		return apperr.BadRequest("%s events need at least two categories", in.Type)
	}
	return nil
}

// EventFilter narrows List.
type EventFilter struct {
	Type       models.EventType
	CategoryID uuid.UUID
}

// Create schedules an event for the given teams.
func (s *EventService) Create(ctx context.Context, in EventInput) (*models.Event, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	var event models.Event
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureEventNameFree(tx, in.Name, uuid.Nil); err != nil {
			return err
		}
		cats, err := loadCategories(tx, in.CategoryIDs)
		if err != nil {
			return err
		}
		event = models.Event{
			Name:        in.Name,
			Type:        in.Type,
			DateTime:    in.DateTime,
			Location:    in.Location,
			Description: in.Description,
			Categories:  cats,
		}
		if err := tx.Omit("Categories.*").Create(&event).Error; err != nil {
			if isDuplicate(err) {
				return apperr.Conflict("event %q already exists", in.Name)
			}
			return wrapf(err, "create event")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, event.ID)
}

// List returns events ordered by date.
func (s *EventService) List(ctx context.Context, f EventFilter) ([]models.Event, error) {
	q := s.db.WithContext(ctx).Preload("Categories")
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.CategoryID != uuid.Nil {
		q = q.Where("id IN (?)", s.db.Table("event_categories").Select("event_id").Where("category_id = ?", f.CategoryID))
	}

	var events []models.Event
	if err := q.Order("date_time ASC").Find(&events).Error; err != nil {
		return nil, wrapf(err, "list events")
	}
	return events, nil
}

// Get returns an event with its teams and matches.
func (s *EventService) Get(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	var event models.Event
	err := s.db.WithContext(ctx).
		Preload("Categories").
		Preload("Matches").
		First(&event, "id = ?", id).Error
	if err != nil {
		return nil, lookupErr(err, "event", id)
	}
	return &event, nil
}

// Update replaces an event's editable fields and its team list.
func (s *EventService) Update(ctx context.Context, id uuid.UUID, in EventInput) (*models.Event, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.First(&event, "id = ?", id).Error; err != nil {
			return lookupErr(err, "event", id)
		}
		if err := ensureEventNameFree(tx, in.Name, event.ID); err != nil {
			return err
		}
		cats, err := loadCategories(tx, in.CategoryIDs)
		if err != nil {
			return err
		}
		// Matches already scheduled under the event must stay valid after the edit.
		if err := ensureMatchesFit(tx, event.ID, in); err != nil {
			return err
		}
		err = tx.Model(&event).Updates(map[string]any{
			"name":        in.Name,
			"type":        in.Type,
			"date_time":   in.DateTime,
			"location":    in.Location,
			"description": in.Description,
		}).Error
		if err != nil {
			if isDuplicate(err) {
				return apperr.Conflict("event %q already exists", in.Name)
			}
			return wrapf(err, "update event")
		}
		if err := tx.Model(&event).Omit("Categories.*").Association("Categories").Replace(cats); err != nil {
			return wrapf(err, "replace event categories")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes an event with its matches (and their sets and statistics),
// its attendance and its team links.
func (s *EventService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.First(&event, "id = ?", id).Error; err != nil {
			return lookupErr(err, "event", id)
		}

		var matchIDs []uuid.UUID
		if err := tx.Model(&models.Match{}).Where("event_id = ?", id).Pluck("id", &matchIDs).Error; err != nil {
			return wrapf(err, "load event matches")
		}
		if err := deleteMatches(tx, matchIDs); err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&models.Attendance{}).Error; err != nil {
			return wrapf(err, "delete attendance")
		}
		if err := tx.Exec("DELETE FROM event_categories WHERE event_id = ?", id).Error; err != nil {
			return wrapf(err, "unlink categories")
		}
		if err := tx.Delete(&event).Error; err != nil {
			return wrapf(err, "delete event")
		}
		return nil
	})
}

// ensureMatchesFit rejects an edit that would leave an existing match under a
// non-competitive event or with a team that is no longer linked to it.
func ensureMatchesFit(tx *gorm.DB, eventID uuid.UUID, in EventInput) error {
	var matches []models.Match
	if err := tx.Where("event_id = ?", eventID).Find(&matches).Error; err != nil {
		return wrapf(err, "load event matches")
	}
	if len(matches) == 0 {
		return nil
	}
	if !in.Type.Competitive() {
		return apperr.BadRequest("event has %d match(es); type cannot become %s", len(matches), in.Type)
	}

	linked := make(map[uuid.UUID]bool, len(in.CategoryIDs))
	for _, id := range in.CategoryIDs {
		linked[id] = true
	}
	for _, m := range matches {
		for _, team := range []uuid.UUID{m.HomeTeamID, m.AwayTeamID} {
			if !linked[team] {
				return apperr.BadRequest("category %s still plays match %s in this event", team, m.ID)
			}
		}
	}
	return nil
}

func ensureEventNameFree(tx *gorm.DB, name string, self uuid.UUID) error {
	var count int64
	q := tx.Model(&models.Event{}).Where("name = ?", name)
	if self != uuid.Nil {
		q = q.Where("id <> ?", self)
	}
	if err := q.Count(&count).Error; err != nil {
		return wrapf(err, "check event name")
	}
	if count > 0 {
		return apperr.Conflict("event %q already exists", name)
	}
	return nil
}

// loadCategories fetches the categories named by ids; any unknown id is a BadRequest.
func loadCategories(tx *gorm.DB, ids []uuid.UUID) ([]models.Category, error) {
	var cats []models.Category
	if err := tx.Where("id IN ?", ids).Find(&cats).Error; err != nil {
		return nil, wrapf(err, "load categories")
	}
	if len(cats) == len(ids) {
		return cats, nil
	}
	known := make(map[uuid.UUID]bool, len(cats))
	for _, c := range cats {
		known[c.ID] = true
	}
	var missing []uuid.UUID
	for _, id := range ids {
		if !known[id] {
			missing = append(missing, id)
		}
	}
	return nil, apperr.BadRequest("categories not found: %s", joinIDs(missing))
}
