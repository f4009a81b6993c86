package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"

	"github.com/trentd187/volleyball-club/internal/access"
	"github.com/trentd187/volleyball-club/internal/apperr"
	"github.com/trentd187/volleyball-club/internal/models"
)

// AnnouncementService publishes club notices.
type AnnouncementService struct {
	db    *gorm.DB
	clock clockwork.Clock
}

func NewAnnouncementService(db *gorm.DB, clock clockwork.Clock) *AnnouncementService {
	return &AnnouncementService{db: db, clock: clock}
}

type AnnouncementInput struct {
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	ValidFrom  *time.Time `json:"valid_from"` // Defaults to now
	ValidUntil *time.Time `json:"valid_until"`
}

func (s *AnnouncementService) normalize(in *AnnouncementInput) error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return apperr.BadRequest("title is required")
	}
	if strings.TrimSpace(in.Content) == "" {
		return apperr.BadRequest("content is required")
	}
	if in.ValidFrom == nil {
		now := s.clock.Now().UTC()
		in.ValidFrom = &now
	}
	if in.ValidUntil != nil && in.ValidUntil.Before(*in.ValidFrom) {
		return apperr.BadRequest("valid_until must not be before valid_from")
	}
	return nil
}

// Create publishes a notice authored by actor.
func (s *AnnouncementService) Create(ctx context.Context, actor access.Actor, in AnnouncementInput) (*models.Announcement, error) {
	if err := s.normalize(&in); err != nil {
		return nil, err
	}
	a := models.Announcement{
		Title:      in.Title,
		Content:    in.Content,
		ValidFrom:  in.ValidFrom.UTC(),
		ValidUntil: utcPtr(in.ValidUntil),
		AuthorID:   actor.UserID,
	}
	if err := s.db.WithContext(ctx).Create(&a).Error; err != nil {
		return nil, wrapf(err, "create announcement")
	}
	return &a, nil
}

// List returns notices newest first. Actors allowed to view everything get every
// notice; everyone else only sees notices whose window contains now.
func (s *AnnouncementService) List(ctx context.Context, actor access.Actor) ([]models.Announcement, error) {
	var all []models.Announcement
	if err := s.db.WithContext(ctx).Order("valid_from DESC").Find(&all).Error; err != nil {
		return nil, wrapf(err, "list announcements")
	}
	if access.Allowed(actor, access.OpViewAllAnnouncements, access.Resource{}) {
		return all, nil
	}

	now := s.clock.Now()
	visible := make([]models.Announcement, 0, len(all))
	for _, a := range all {
		if a.VisibleAt(now) {
			visible = append(visible, a)
		}
	}
	return visible, nil
}

// Update edits a notice. Only its author or an ADMIN may do so.
func (s *AnnouncementService) Update(ctx context.Context, actor access.Actor, id uuid.UUID, in AnnouncementInput) (*models.Announcement, error) {
	if err := s.normalize(&in); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	a, err := s.loadForEdit(db, actor, id)
	if err != nil {
		return nil, err
	}
	err = db.Model(a).Updates(map[string]any{
		"title":       in.Title,
		"content":     in.Content,
		"valid_from":  in.ValidFrom.UTC(),
		"valid_until": utcPtr(in.ValidUntil),
	}).Error
	if err != nil {
		return nil, wrapf(err, "update announcement")
	}
	if err := db.First(a, "id = ?", id).Error; err != nil {
		return nil, lookupErr(err, "announcement", id)
	}
	return a, nil
}

// Delete removes a notice. Only its author or an ADMIN may do so.
func (s *AnnouncementService) Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	db := s.db.WithContext(ctx)
	a, err := s.loadForEdit(db, actor, id)
	if err != nil {
		return err
	}
	if err := db.Delete(a).Error; err != nil {
		return wrapf(err, "delete announcement")
	}
	return nil
}

func (s *AnnouncementService) loadForEdit(db *gorm.DB, actor access.Actor, id uuid.UUID) (*models.Announcement, error) {
	var a models.Announcement
	if err := db.First(&a, "id = ?", id).Error; err != nil {
		return nil, lookupErr(err, "announcement", id)
	}
	if err := access.Check(actor, access.OpEditAnnouncement, access.Resource{OwnerID: a.AuthorID}); err != nil {
		return nil, err
	}
	return &a, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
