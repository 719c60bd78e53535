package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emre/termplan/internal/app/models"
	"github.com/emre/termplan/internal/app/scheduling"
	"github.com/emre/termplan/internal/db"
	"github.com/emre/termplan/internal/pkg/apperrors"
	"github.com/emre/termplan/internal/pkg/dberrors"
)

const slotColumns = `id, timetable_id, faculty_id, class_id, day_of_week, period_number, start_time, end_time, subject_name, room_number`

// SlotRepository owns the timetable_slots table. Mutations that the conflict
// guard must protect run in a transaction holding an advisory lock on the
// placement key, so two concurrent placements for the same cell serialize;
// the unique indexes on (timetable, day, period) x faculty/room/class back
// the invariant at the database level.
type SlotRepository struct {
	db *pgxpool.Pool
}

// NewSlotRepository creates a new slot repository
func NewSlotRepository(db *pgxpool.Pool) *SlotRepository {
	return &SlotRepository{
		db: db,
	}
}

func placementLockKey(timetableID uuid.UUID, dayOfWeek, periodNumber int) string {
	return fmt.Sprintf("slot:%s:%d:%d", timetableID, dayOfWeek, periodNumber)
}

// Place inserts a slot after running the conflict guard against the current
// slot set for its placement key. On any violation nothing is written and
// the full conflict list is returned.
func (r *SlotRepository) Place(ctx context.Context, slot *models.TimetableSlot) error {
	if slot.ID == uuid.Nil {
		slot.ID = uuid.New()
	}

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		lockKey := placementLockKey(slot.TimetableID, slot.DayOfWeek, slot.PeriodNumber)
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, lockKey); err != nil {
			return fmt.Errorf("error acquiring placement lock: %w", err)
		}

		existing, err := scanSlots(tx.Query(ctx, `
			SELECT `+slotColumns+`
			FROM timetable_slots
			WHERE timetable_id = $1 AND day_of_week = $2 AND period_number = $3
		`, slot.TimetableID, slot.DayOfWeek, slot.PeriodNumber))
		if err != nil {
			return fmt.Errorf("error reading placement key: %w", err)
		}

		if conflicts := scheduling.CheckPlacement(slot, existing); len(conflicts) > 0 {
			return apperrors.NewConflictError(conflicts)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO timetable_slots (`+slotColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, slot.ID, slot.TimetableID, slot.FacultyID, slot.ClassID, slot.DayOfWeek,
			slot.PeriodNumber, slot.StartTime, slot.EndTime, slot.SubjectName, slot.RoomNumber)
		if err != nil {
			return fmt.Errorf("error inserting slot: %w", err)
		}
		return nil
	})
	if err != nil && dberrors.IsUniqueViolation(err) {
		// Lost a race the advisory lock did not cover; report it as the
		// business conflict it is.
		kind := apperrors.ConflictFaculty
		switch {
		case dberrors.IsDuplicateConstraintError(err, "uq_slot_room_placement"):
			kind = apperrors.ConflictRoom
		case dberrors.IsDuplicateConstraintError(err, "uq_slot_class_placement"):
			kind = apperrors.ConflictClass
		}
		return apperrors.NewConflictError([]apperrors.Conflict{{
			Kind:    kind,
			Message: "placement collides with a concurrently created slot",
		}})
	}
	return err
}

// GetByID retrieves a slot by ID
func (r *SlotRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.TimetableSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM timetable_slots WHERE id = $1`

	var slot models.TimetableSlot
	err := r.db.QueryRow(ctx, query, id).Scan(
		&slot.ID, &slot.TimetableID, &slot.FacultyID, &slot.ClassID, &slot.DayOfWeek,
		&slot.PeriodNumber, &slot.StartTime, &slot.EndTime, &slot.SubjectName, &slot.RoomNumber,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("slot")
		}
		return nil, fmt.Errorf("error retrieving slot: %w", err)
	}

	return &slot, nil
}

// Delete removes a slot unconditionally
func (r *SlotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM timetable_slots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting slot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("slot")
	}
	return nil
}

// ListByTimetable retrieves all slots of one timetable ordered by grid position
func (r *SlotRepository) ListByTimetable(ctx context.Context, timetableID uuid.UUID) ([]*models.TimetableSlot, error) {
	return scanSlots(r.db.Query(ctx, `
		SELECT `+slotColumns+`
		FROM timetable_slots
		WHERE timetable_id = $1
		ORDER BY day_of_week, period_number
	`, timetableID))
}

// ListByFaculty retrieves a faculty member's slots across one timetable
func (r *SlotRepository) ListByFaculty(ctx context.Context, timetableID, facultyID uuid.UUID) ([]*models.TimetableSlot, error) {
	return scanSlots(r.db.Query(ctx, `
		SELECT `+slotColumns+`
		FROM timetable_slots
		WHERE timetable_id = $1 AND faculty_id = $2
		ORDER BY day_of_week, period_number
	`, timetableID, facultyID))
}

// ListTeaching retrieves every teaching slot of a faculty member regardless
// of timetable; used by the invigilation cross-grid check.
func (r *SlotRepository) ListTeaching(ctx context.Context, facultyID uuid.UUID) ([]*models.TimetableSlot, error) {
	return scanSlots(r.db.Query(ctx, `
		SELECT `+slotColumns+`
		FROM timetable_slots
		WHERE faculty_id = $1
	`, facultyID))
}

// CountByFaculty returns the weekly load of a faculty member
func (r *SlotRepository) CountByFaculty(ctx context.Context, timetableID, facultyID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM timetable_slots
		WHERE timetable_id = $1 AND faculty_id = $2
	`, timetableID, facultyID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting slots: %w", err)
	}
	return count, nil
}

// ExchangeFaculty swaps only the faculty of two slots as a single
// transaction. Both rows are locked in id order for the duration of the
// swap; if either slot is gone the whole operation fails and neither slot
// is modified.
func (r *SlotRepository) ExchangeFaculty(ctx context.Context, slotIDA, slotIDB uuid.UUID) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
			SELECT id, faculty_id
			FROM timetable_slots
			WHERE id = ANY($1)
			ORDER BY id
			FOR UPDATE
		`, []uuid.UUID{slotIDA, slotIDB})
		if err != nil {
			return fmt.Errorf("error locking slots: %w", err)
		}

		faculty := make(map[uuid.UUID]uuid.UUID, 2)
		for rows.Next() {
			var slotID, facultyID uuid.UUID
			if err := rows.Scan(&slotID, &facultyID); err != nil {
				rows.Close()
				return fmt.Errorf("error scanning slot: %w", err)
			}
			faculty[slotID] = facultyID
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		if len(faculty) != 2 {
			return apperrors.NewNotFoundError("slot")
		}

		if _, err := tx.Exec(ctx, `UPDATE timetable_slots SET faculty_id = $2 WHERE id = $1`, slotIDA, faculty[slotIDB]); err != nil {
			return fmt.Errorf("error updating slot: %w", err)
		}
		if _, err := tx.Exec(ctx, `UPDATE timetable_slots SET faculty_id = $2 WHERE id = $1`, slotIDB, faculty[slotIDA]); err != nil {
			return fmt.Errorf("error updating slot: %w", err)
		}
		return nil
	})
}

func scanSlots(rows pgx.Rows, err error) ([]*models.TimetableSlot, error) {
	if err != nil {
		return nil, fmt.Errorf("error querying slots: %w", err)
	}
	defer rows.Close()

	var slots []*models.TimetableSlot
	for rows.Next() {
		var slot models.TimetableSlot
		if err := rows.Scan(
			&slot.ID, &slot.TimetableID, &slot.FacultyID, &slot.ClassID, &slot.DayOfWeek,
			&slot.PeriodNumber, &slot.StartTime, &slot.EndTime, &slot.SubjectName, &slot.RoomNumber,
		); err != nil {
			return nil, fmt.Errorf("error scanning slot: %w", err)
		}
		slots = append(slots, &slot)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return slots, nil
}
