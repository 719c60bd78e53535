package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emre/termplan/internal/app/models"
	"github.com/emre/termplan/internal/pkg/apperrors"
)

// TimetableRepository handles database operations for timetables
type TimetableRepository struct {
	db *pgxpool.Pool
}

// NewTimetableRepository creates a new timetable repository
func NewTimetableRepository(db *pgxpool.Pool) *TimetableRepository {
	return &TimetableRepository{
		db: db,
	}
}

// Create creates a new timetable in draft status
func (r *TimetableRepository) Create(ctx context.Context, timetable *models.Timetable) error {
	query := `
		INSERT INTO timetables (id, academic_year, term, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	if timetable.ID == uuid.Nil {
		timetable.ID = uuid.New()
	}
	timetable.Status = models.TimetableStatusDraft

	err := r.db.QueryRow(ctx, query,
		timetable.ID, timetable.AcademicYear, timetable.Term, timetable.Status,
	).Scan(&timetable.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating timetable: %w", err)
	}

	return nil
}

// GetByID retrieves a timetable by ID
func (r *TimetableRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Timetable, error) {
	query := `
		SELECT id, academic_year, term, status, created_at
		FROM timetables
		WHERE id = $1
	`

	var timetable models.Timetable
	err := r.db.QueryRow(ctx, query, id).Scan(
		&timetable.ID,
		&timetable.AcademicYear,
		&timetable.Term,
		&timetable.Status,
		&timetable.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("timetable")
		}
		return nil, fmt.Errorf("error retrieving timetable: %w", err)
	}

	return &timetable, nil
}

// Publish transitions a timetable to published. The transition is one-way;
// publishing an already published timetable is a no-op.
func (r *TimetableRepository) Publish(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE timetables
		SET status = $2
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, id, models.TimetableStatusPublished)
	if err != nil {
		return fmt.Errorf("error publishing timetable: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("timetable")
	}

	return nil
}
