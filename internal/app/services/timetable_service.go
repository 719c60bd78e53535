package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/emre/termplan/internal/app/models"
	"github.com/emre/termplan/internal/config"
	"github.com/emre/termplan/internal/pkg/apperrors"
	"github.com/emre/termplan/internal/pkg/helpers"
	"github.com/emre/termplan/internal/pkg/logger"
)

// TimetableService owns the weekly teaching grid: timetable lifecycle, slot
// placement and removal, load queries and calendar resolution. It is the
// single source of truth for who teaches what, when; the swap workflow and
// the exam scheduler mutate slots only through its atomic operations.
type TimetableService struct {
	timetables TimetableStore
	slots      SlotStore
	overrides  OverrideStore
	roster     FacultyRoster
	cfg        *config.Config
}

// NewTimetableService creates a new timetable service instance
func NewTimetableService(timetables TimetableStore, slots SlotStore, overrides OverrideStore, roster FacultyRoster, cfg *config.Config) *TimetableService {
	return &TimetableService{
		timetables: timetables,
		slots:      slots,
		overrides:  overrides,
		roster:     roster,
		cfg:        cfg,
	}
}

// CreateTimetable creates a draft timetable for one term
func (s *TimetableService) CreateTimetable(ctx context.Context, academicYear string, term models.Term) (*models.Timetable, error) {
	if strings.TrimSpace(academicYear) == "" {
		return nil, apperrors.NewValidationError("academicYear", "cannot be empty")
	}
	switch term {
	case models.TermFall, models.TermSpring, models.TermSummer:
	default:
		return nil, apperrors.NewValidationError("term", "must be one of FALL, SPRING, SUMMER")
	}

	timetable := &models.Timetable{
		AcademicYear: academicYear,
		Term:         term,
	}
	if err := s.timetables.Create(ctx, timetable); err != nil {
		return nil, fmt.Errorf("error creating timetable: %w", err)
	}
	return timetable, nil
}

// GetTimetable retrieves a timetable by ID
func (s *TimetableService) GetTimetable(ctx context.Context, id uuid.UUID) (*models.Timetable, error) {
	return s.timetables.GetByID(ctx, id)
}

// PublishTimetable transitions a timetable to published. One-way; later
// edits are discouraged by policy but not blocked by the store.
func (s *TimetableService) PublishTimetable(ctx context.Context, id uuid.UUID) (*models.Timetable, error) {
	if err := s.timetables.Publish(ctx, id); err != nil {
		return nil, err
	}
	return s.timetables.GetByID(ctx, id)
}

// PlaceSlot validates and inserts one teaching slot. The conflict guard runs
// atomically with the insert; on any violation no slot is created and the
// returned error carries the full conflict list.
func (s *TimetableService) PlaceSlot(ctx context.Context, slot *models.TimetableSlot) (*models.TimetableSlot, error) {
	if err := s.validateSlot(ctx, slot); err != nil {
		return nil, err
	}

	timetable, err := s.timetables.GetByID(ctx, slot.TimetableID)
	if err != nil {
		return nil, err
	}
	if timetable.Status == models.TimetableStatusPublished {
		logger.Warn().
			Str("timetableId", timetable.ID.String()).
			Msg("Placing slot into a published timetable")
	}

	if err := s.slots.Place(ctx, slot); err != nil {
		return nil, err
	}
	return slot, nil
}

func (s *TimetableService) validateSlot(ctx context.Context, slot *models.TimetableSlot) error {
	if slot.DayOfWeek < models.MinDayOfWeek || slot.DayOfWeek > models.MaxDayOfWeek {
		return apperrors.NewValidationError("dayOfWeek", fmt.Sprintf("must be between %d and %d", models.MinDayOfWeek, models.MaxDayOfWeek))
	}
	if slot.PeriodNumber < models.MinPeriodNumber || slot.PeriodNumber > s.cfg.Scheduling.PeriodsPerDay {
		return apperrors.NewValidationError("periodNumber", fmt.Sprintf("must be between %d and %d", models.MinPeriodNumber, s.cfg.Scheduling.PeriodsPerDay))
	}
	if strings.TrimSpace(slot.SubjectName) == "" {
		return apperrors.NewValidationError("subjectName", "cannot be empty")
	}
	if strings.TrimSpace(slot.RoomNumber) == "" {
		return apperrors.NewValidationError("roomNumber", "cannot be empty")
	}
	start, err := helpers.ParseClock(slot.StartTime)
	if err != nil {
		return apperrors.NewValidationError("startTime", "must be a valid HH:MM time")
	}
	end, err := helpers.ParseClock(slot.EndTime)
	if err != nil {
		return apperrors.NewValidationError("endTime", "must be a valid HH:MM time")
	}
	if start >= end {
		return apperrors.NewValidationError("endTime", "must be after startTime")
	}

	exists, err := s.roster.Exists(ctx, slot.FacultyID)
	if err != nil {
		return fmt.Errorf("error checking faculty roster: %w", err)
	}
	if !exists {
		return apperrors.NewValidationError("facultyId", "faculty is not on the roster")
	}
	return nil
}

// RemoveSlot deletes a slot unconditionally
func (s *TimetableService) RemoveSlot(ctx context.Context, id uuid.UUID) error {
	return s.slots.Delete(ctx, id)
}

// ListSlots retrieves all slots of one timetable
func (s *TimetableService) ListSlots(ctx context.Context, timetableID uuid.UUID) ([]*models.TimetableSlot, error) {
	return s.slots.ListByTimetable(ctx, timetableID)
}

// FacultySlots retrieves one faculty member's slots in a timetable
func (s *TimetableService) FacultySlots(ctx context.Context, timetableID, facultyID uuid.UUID) ([]*models.TimetableSlot, error) {
	return s.slots.ListByFaculty(ctx, timetableID, facultyID)
}

// LoadOf returns the weekly load (count of slots) of a faculty member.
// Consumers use it for load-balancing decisions; it is not conflict-checked.
func (s *TimetableService) LoadOf(ctx context.Context, timetableID, facultyID uuid.UUID) (int, error) {
	return s.slots.CountByFaculty(ctx, timetableID, facultyID)
}

// ResolveCalendar renders a timetable for one calendar date: the recurring
// slots of that weekday, with one-time swap overrides for the date
// substituted in. The underlying slots are never touched by overrides.
func (s *TimetableService) ResolveCalendar(ctx context.Context, timetableID uuid.UUID, date time.Time) ([]*models.CalendarSlot, error) {
	if _, err := s.timetables.GetByID(ctx, timetableID); err != nil {
		return nil, err
	}

	slots, err := s.slots.ListByTimetable(ctx, timetableID)
	if err != nil {
		return nil, err
	}

	day := helpers.WeekdayNumber(date)
	overrides, err := s.overrides.ListByDate(ctx, timetableID, helpers.TruncateToDate(date))
	if err != nil {
		return nil, err
	}

	covering := make(map[uuid.UUID]uuid.UUID, len(overrides))
	for _, override := range overrides {
		covering[override.SlotID] = override.FacultyID
	}

	var calendar []*models.CalendarSlot
	for _, slot := range slots {
		if slot.DayOfWeek != day {
			continue
		}
		entry := &models.CalendarSlot{
			Slot:               *slot,
			EffectiveFacultyID: slot.FacultyID,
		}
		if facultyID, ok := covering[slot.ID]; ok {
			entry.EffectiveFacultyID = facultyID
			entry.Overridden = true
		}
		calendar = append(calendar, entry)
	}

	return calendar, nil
}
