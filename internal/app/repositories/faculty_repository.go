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

// FacultyRepository reads the faculty roster. The roster is owned by
// institutional HR data and only consumed here.
type FacultyRepository struct {
	db *pgxpool.Pool
}

// NewFacultyRepository creates a new faculty repository
func NewFacultyRepository(db *pgxpool.Pool) *FacultyRepository {
	return &FacultyRepository{
		db: db,
	}
}

// GetByID retrieves one faculty member
func (r *FacultyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Faculty, error) {
	query := `
		SELECT id, first_name, last_name, email, department
		FROM faculty
		WHERE id = $1
	`

	var faculty models.Faculty
	err := r.db.QueryRow(ctx, query, id).Scan(
		&faculty.ID,
		&faculty.FirstName,
		&faculty.LastName,
		&faculty.Email,
		&faculty.Department,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("faculty")
		}
		return nil, fmt.Errorf("error retrieving faculty: %w", err)
	}

	return &faculty, nil
}

// Exists reports whether a faculty member is on the roster
func (r *FacultyRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM faculty WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking faculty: %w", err)
	}
	return exists, nil
}
