package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emre/termplan/internal/app/models"
	"github.com/emre/termplan/internal/db"
)

// OverrideRepository handles database operations for one-time swap overrides
type OverrideRepository struct {
	db *pgxpool.Pool
}

// NewOverrideRepository creates a new override repository
func NewOverrideRepository(db *pgxpool.Pool) *OverrideRepository {
	return &OverrideRepository{
		db: db,
	}
}

// InsertPair writes the two date-scoped overrides of a one-time swap in a
// single transaction, so a failure leaves the calendar untouched in both
// directions. The (slot, date) pair is unique; a repeated write for the same
// pair replaces the covering faculty.
func (r *OverrideRepository) InsertPair(ctx context.Context, first, second *models.SwapOverride) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		for _, override := range []*models.SwapOverride{first, second} {
			if err := insertOverride(ctx, tx, override); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertOverride(ctx context.Context, tx pgx.Tx, override *models.SwapOverride) error {
	if override.ID == uuid.Nil {
		override.ID = uuid.New()
	}

	query := `
		INSERT INTO swap_overrides (id, swap_request_id, slot_id, override_date, faculty_id)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (slot_id, override_date)
		DO UPDATE SET swap_request_id = EXCLUDED.swap_request_id, faculty_id = EXCLUDED.faculty_id
		RETURNING created_at
	`

	err := tx.QueryRow(ctx, query,
		override.ID, override.SwapRequestID, override.SlotID, override.Date, override.FacultyID,
	).Scan(&override.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting swap override: %w", err)
	}

	return nil
}

// ListByDate retrieves the overrides applying to one timetable on one date
func (r *OverrideRepository) ListByDate(ctx context.Context, timetableID uuid.UUID, date time.Time) ([]*models.SwapOverride, error) {
	query := `
		SELECT o.id, o.swap_request_id, o.slot_id, o.override_date, o.faculty_id, o.created_at
		FROM swap_overrides o
		JOIN timetable_slots s ON s.id = o.slot_id
		WHERE s.timetable_id = $1 AND o.override_date = $2
	`

	rows, err := r.db.Query(ctx, query, timetableID, date)
	if err != nil {
		return nil, fmt.Errorf("error querying swap overrides: %w", err)
	}
	defer rows.Close()

	var overrides []*models.SwapOverride
	for rows.Next() {
		var override models.SwapOverride
		if err := rows.Scan(
			&override.ID, &override.SwapRequestID, &override.SlotID,
			&override.Date, &override.FacultyID, &override.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning swap override: %w", err)
		}
		overrides = append(overrides, &override)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return overrides, nil
}
