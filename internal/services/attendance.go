package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/trentd187/volleyball-club/internal/apperr"
	"github.com/trentd187/volleyball-club/internal/models"
)

// AttendanceService records who attended which event on which day.
type AttendanceService struct {
	db *gorm.DB
}

func NewAttendanceService(db *gorm.DB) *AttendanceService {
	return &AttendanceService{db: db}
}

// AttendanceInput is one line of an attendance submission.
type AttendanceInput struct {
	PlayerProfileID uuid.UUID               `json:"player_profile_id"`
	Status          models.AttendanceStatus `json:"status"`
	Notes           *string                 `json:"notes"`
}

// ValidateAttendance checks the shape of a submission: a non-empty list, known
// statuses, and no player listed twice.
func ValidateAttendance(items []AttendanceInput) error {
	if len(items) == 0 {
		return apperr.BadRequest("attendances must not be empty")
	}
	seen := make(map[uuid.UUID]bool, len(items))
	for i, it := range items {
		if it.PlayerProfileID == uuid.Nil {
			return apperr.BadRequest("attendances[%d]: player_profile_id is required", i)
		}
		if !it.Status.Valid() {
			return apperr.BadRequest("attendances[%d]: status must be PRESENT, ABSENT or EXCUSED", i)
		}
		if seen[it.PlayerProfileID] {
			return apperr.BadRequest("attendances[%d]: player %s is listed more than once", i, it.PlayerProfileID)
		}
		seen[it.PlayerProfileID] = true
	}
	return nil
}

// Record stores attendance for a whole batch of players at one event on one day.
//
// Checks run in this order and the first failure rejects the entire batch:
//  1. the event exists (NotFound)
//  2. date is not before the event's day (BadRequest)
//  3. every player exists (BadRequest, lists missing ids)
//  4. every player is on a team of the event (BadRequest, lists names)
//  5. nobody in the batch already has a record for this event and day (Conflict, lists names)
//
// The checks are reads; nothing is written until all of them pass. The write then
// upserts every row in one transaction, so a record that appeared after the checks
// is overwritten rather than failing half the batch.
func (s *AttendanceService) Record(ctx context.Context, eventID uuid.UUID, date time.Time, items []AttendanceInput, recorderID uuid.UUID) ([]models.Attendance, error) {
	db := s.db.WithContext(ctx)
	// Attendance is per calendar day, so any time of day on the date is dropped.
	day := DayUTC(date)

	// 1. The event, with its teams for the membership check further down
	var event models.Event
	if err := db.Preload("Categories").First(&event, "id = ?", eventID).Error; err != nil {
		return nil, lookupErr(err, "event", eventID)
	}

	// 2. Compare days, not instants: a practice at 18:30 accepts attendance dated that morning
	if day.Before(DayUTC(event.DateTime)) {
		return nil, apperr.BadRequest("attendance date %s is before the event date %s",
			day.Format(DateLayout), DayUTC(event.DateTime).Format(DateLayout))
	}

	// 3. Load every submitted player in one query, then diff against the request
	ids := make([]uuid.UUID, len(items))
	for i, it := range items {
		ids[i] = it.PlayerProfileID
	}
	ids = uniqueIDs(ids)

	var players []models.PlayerProfile
	if err := db.Preload("Categories").Where("id IN ?", ids).Find(&players).Error; err != nil {
		return nil, wrapf(err, "load players")
	}
	found := make(map[uuid.UUID]models.PlayerProfile, len(players))
	for _, p := range players {
		found[p.ID] = p
	}
	var missing []uuid.UUID
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, apperr.BadRequest("player profiles not found: %s", joinIDs(missing))
	}

	// 4. A player counts as a member when any one of their teams is linked to the event
	eventTeams := make(map[uuid.UUID]bool, len(event.Categories))
	for _, c := range event.Categories {
		eventTeams[c.ID] = true
	}
	var outsiders []string
	for _, id := range ids {
		p := found[id]
		member := false
		for _, c := range p.Categories {
			if eventTeams[c.ID] {
				member = true
				break
			}
		}
		if !member {
			outsiders = append(outsiders, p.FullName)
		}
	}
	if len(outsiders) > 0 {
		return nil, apperr.BadRequest("players are not members of this event's teams: %s", joinNames(outsiders))
	}

	// 5. Any earlier record for (player, event, day) rejects the batch as a whole
	var existing []models.Attendance
	err := db.Preload("Player").
		Where("event_id = ? AND date = ? AND player_profile_id IN ?", event.ID, day, ids).
		Find(&existing).Error
	if err != nil {
		return nil, wrapf(err, "check existing attendance")
	}
	if len(existing) > 0 {
		names := make([]string, 0, len(existing))
		for _, a := range existing {
			if a.Player != nil {
				names = append(names, a.Player.FullName)
			}
		}
		return nil, apperr.Conflict("attendance already recorded for %s on %s: %s",
			event.Name, day.Format(DateLayout), joinNames(names))
	}

	rows := make([]models.Attendance, len(items))
	for i, it := range items {
		rows[i] = models.Attendance{
			PlayerProfileID: it.PlayerProfileID,
			EventID:         event.ID,
			Date:            day,
			Status:          it.Status,
			Notes:           it.Notes,
			RecordedBy:      recorderID,
		}
	}

	// All checks passed; write every row or none of them
	err = db.Transaction(func(tx *gorm.DB) error {
		for i := range rows {
			if err := upsertAttendance(tx, &rows[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("event_id", event.ID.String()).
		Str("date", day.Format(DateLayout)).
		Int("players", len(rows)).
		Msg("attendance recorded")
	return rows, nil
}

// upsertAttendance writes one record keyed by (player, event, date). A row that
// already exists for the key keeps its id and gets the new status, notes and recorder.
func upsertAttendance(tx *gorm.DB, row *models.Attendance) error {
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "player_profile_id"}, {Name: "event_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "notes", "recorded_by", "updated_at"}),
	}).Create(row).Error
	if err != nil {
		return wrapf(err, "upsert attendance")
	}
	// On conflict the insert's fresh id was discarded; read back the stored one.
	var stored models.Attendance
	err = tx.Select("id", "created_at").
		Where("player_profile_id = ? AND event_id = ? AND date = ?", row.PlayerProfileID, row.EventID, row.Date).
		First(&stored).Error
	if err != nil {
		return wrapf(err, "reload attendance")
	}
	row.ID = stored.ID
	row.CreatedAt = stored.CreatedAt
	return nil
}

// AttendanceRow is an attendance record annotated for display.
type AttendanceRow struct {
	models.Attendance
	PlayerName     string `json:"player_name"`
	PlayerPosition string `json:"player_position"`
	RecorderEmail  string `json:"recorder_email"`
}

// ListForEvent returns the event's attendance, optionally limited to one day,
// ordered by player name.
func (s *AttendanceService) ListForEvent(ctx context.Context, eventID uuid.UUID, date *time.Time) ([]AttendanceRow, error) {
	db := s.db.WithContext(ctx)

	// An unknown event is a 404, not an empty list
	var count int64
	if err := db.Model(&models.Event{}).Where("id = ?", eventID).Count(&count).Error; err != nil {
		return nil, wrapf(err, "check event")
	}
	if count == 0 {
		return nil, apperr.NotFound("event %s not found", eventID)
	}

	// Join player_profiles only to sort by name; the display fields come from the preloads
	q := db.Select("attendances.*").
		Joins("JOIN player_profiles ON player_profiles.id = attendances.player_profile_id").
		Preload("Player").
		Preload("Recorder").
		Where("attendances.event_id = ?", eventID)
	if date != nil {
		q = q.Where("attendances.date = ?", DayUTC(*date))
	}

	var records []models.Attendance
	if err := q.Order("player_profiles.full_name ASC").Order("attendances.date ASC").Find(&records).Error; err != nil {
		return nil, wrapf(err, "list attendance")
	}

	out := make([]AttendanceRow, len(records))
	for i, a := range records {
		row := AttendanceRow{Attendance: a}
		if a.Player != nil {
			row.PlayerName = a.Player.FullName
			row.PlayerPosition = a.Player.Position
		}
		if a.Recorder != nil {
			row.RecorderEmail = a.Recorder.Email
		}
		out[i] = row
	}
	return out, nil
}

// Delete hard-deletes one attendance record.
func (s *AttendanceService) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Attendance{})
	if res.Error != nil {
		return wrapf(res.Error, "delete attendance")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("attendance %s not found", id)
	}
	return nil
}

// PlayerAttendance counts one player's statuses.
type PlayerAttendance struct {
	PlayerProfileID uuid.UUID `json:"player_profile_id"`
	FullName        string    `json:"full_name"`
	Present         int       `json:"present"`
	Absent          int       `json:"absent"`
	Excused         int       `json:"excused"`
	Total           int       `json:"total"`
}

// CategoryAttendanceSummary is the pre-aggregated object the attendance report is built from.
type CategoryAttendanceSummary struct {
	CategoryID   uuid.UUID          `json:"category_id"`
	CategoryName string             `json:"category_name"`
	From         *time.Time         `json:"from,omitempty"`
	To           *time.Time         `json:"to,omitempty"`
	Events       int                `json:"events"`
	Players      []PlayerAttendance `json:"players"`
}

// CategorySummary aggregates attendance of a team's current players over the
// team's events, optionally bounded by attendance date (inclusive days).
func (s *AttendanceService) CategorySummary(ctx context.Context, categoryID uuid.UUID, from, to *time.Time) (*CategoryAttendanceSummary, error) {
	db := s.db.WithContext(ctx)

	var cat models.Category
	err := db.Preload("Players", func(db *gorm.DB) *gorm.DB {
		return db.Order("full_name ASC")
	}).First(&cat, "id = ?", categoryID).Error
	if err != nil {
		return nil, lookupErr(err, "category", categoryID)
	}

	var eventIDs []uuid.UUID
	err = db.Table("event_categories").Where("category_id = ?", cat.ID).Pluck("event_id", &eventIDs).Error
	if err != nil {
		return nil, wrapf(err, "load category events")
	}

	summary := &CategoryAttendanceSummary{
		CategoryID:   cat.ID,
		CategoryName: cat.Name,
		Events:       len(eventIDs),
		Players:      make([]PlayerAttendance, 0, len(cat.Players)),
	}
	if from != nil {
		d := DayUTC(*from)
		summary.From = &d
	}
	if to != nil {
		d := DayUTC(*to)
		summary.To = &d
	}

	// Every current player gets a line, even with no records yet.
	// counts points into summary.Players so the loop below fills it in place.
	counts := make(map[uuid.UUID]*PlayerAttendance, len(cat.Players))
	playerIDs := make([]uuid.UUID, len(cat.Players))
	for i, p := range cat.Players {
		summary.Players = append(summary.Players, PlayerAttendance{PlayerProfileID: p.ID, FullName: p.FullName})
		playerIDs[i] = p.ID
	}
	for i := range summary.Players {
		counts[summary.Players[i].PlayerProfileID] = &summary.Players[i]
	}
	if len(eventIDs) == 0 || len(playerIDs) == 0 {
		return summary, nil
	}

	q := db.Model(&models.Attendance{}).
		Where("event_id IN ? AND player_profile_id IN ?", eventIDs, playerIDs)
	if summary.From != nil {
		q = q.Where("date >= ?", *summary.From)
	}
	if summary.To != nil {
		q = q.Where("date <= ?", *summary.To)
	}
	var records []models.Attendance
	if err := q.Select("player_profile_id", "status").Find(&records).Error; err != nil {
		return nil, wrapf(err, "load attendance")
	}

	// The query is limited to playerIDs, so every record has an entry in counts
	for _, a := range records {
		pa := counts[a.PlayerProfileID]
		switch a.Status {
		case models.AttendancePresent:
			pa.Present++
		case models.AttendanceAbsent:
			pa.Absent++
		case models.AttendanceExcused:
			pa.Excused++
		}
		pa.Total++
	}
	return summary, nil
}
