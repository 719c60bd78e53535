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
)

const examColumns = `id, assessment_id, exam_date, start_time, end_time, room, batch_section`

// ExamRepository handles database operations for exam slots and
// invigilator assignments
type ExamRepository struct {
	db *pgxpool.Pool
}

// NewExamRepository creates a new exam repository
func NewExamRepository(db *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{
		db: db,
	}
}

// ScheduleBatch inserts a batch of exam slots all-or-nothing. Every slot is
// guarded against the existing grid and against the rest of the batch; any
// conflict rejects the whole batch with the complete conflict list so an
// administrator sees all problems in one pass.
func (r *ExamRepository) ScheduleBatch(ctx context.Context, slots []*models.ExamSlot) error {
	for _, slot := range slots {
		if slot.ID == uuid.Nil {
			slot.ID = uuid.New()
		}
	}

	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		// Serialize exam scheduling; batches are rare and admin-driven.
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended('exam_schedule', 0))`); err != nil {
			return fmt.Errorf("error acquiring exam schedule lock: %w", err)
		}

		existing, err := scanExamSlots(tx.Query(ctx, `SELECT `+examColumns+` FROM exam_slots`))
		if err != nil {
			return fmt.Errorf("error reading exam slots: %w", err)
		}

		var conflicts []apperrors.Conflict
		accepted := existing
		for _, slot := range slots {
			conflicts = append(conflicts, scheduling.CheckExamSlot(slot, accepted)...)
			accepted = append(accepted, slot)
		}
		if len(conflicts) > 0 {
			return apperrors.NewConflictError(conflicts)
		}

		for _, slot := range slots {
			_, err := tx.Exec(ctx, `
				INSERT INTO exam_slots (`+examColumns+`)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`, slot.ID, slot.AssessmentID, slot.ExamDate, slot.StartTime, slot.EndTime, slot.Room, slot.BatchSection)
			if err != nil {
				return fmt.Errorf("error inserting exam slot: %w", err)
			}
		}
		return nil
	})
}

// GetByID retrieves an exam slot with its invigilator set
func (r *ExamRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ExamSlot, error) {
	var slot models.ExamSlot
	err := r.db.QueryRow(ctx, `SELECT `+examColumns+` FROM exam_slots WHERE id = $1`, id).Scan(
		&slot.ID, &slot.AssessmentID, &slot.ExamDate, &slot.StartTime, &slot.EndTime, &slot.Room, &slot.BatchSection,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("exam slot")
		}
		return nil, fmt.Errorf("error retrieving exam slot: %w", err)
	}

	invigilators, err := r.listInvigilators(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	slot.Invigilators = invigilators

	return &slot, nil
}

// ListByAssessment retrieves the exam slots of one assessment ordered by date
func (r *ExamRepository) ListByAssessment(ctx context.Context, assessmentID uuid.UUID) ([]*models.ExamSlot, error) {
	slots, err := scanExamSlots(r.db.Query(ctx, `
		SELECT `+examColumns+`
		FROM exam_slots
		WHERE assessment_id = $1
		ORDER BY exam_date, start_time
	`, assessmentID))
	if err != nil {
		return nil, err
	}

	for _, slot := range slots {
		invigilators, err := r.listInvigilators(ctx, r.db, slot.ID)
		if err != nil {
			return nil, err
		}
		slot.Invigilators = invigilators
	}

	return slots, nil
}

// DeleteByAssessment removes all exam slots of a cancelled assessment along
// with their invigilator assignments.
func (r *ExamRepository) DeleteByAssessment(ctx context.Context, assessmentID uuid.UUID) (int, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM exam_slots WHERE assessment_id = $1`, assessmentID)
	if err != nil {
		return 0, fmt.Errorf("error deleting exam slots: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// AssignInvigilator adds a faculty member to an exam slot's invigilator set
// after the cross-grid conflict check. Adding an already assigned faculty
// member is a no-op. The conflict check and the insert share one
// transaction with the exam slot row locked.
func (r *ExamRepository) AssignInvigilator(ctx context.Context, examSlotID, facultyID uuid.UUID) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var slot models.ExamSlot
		err := tx.QueryRow(ctx, `SELECT `+examColumns+` FROM exam_slots WHERE id = $1 FOR UPDATE`, examSlotID).Scan(
			&slot.ID, &slot.AssessmentID, &slot.ExamDate, &slot.StartTime, &slot.EndTime, &slot.Room, &slot.BatchSection,
		)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFoundError("exam slot")
			}
			return fmt.Errorf("error locking exam slot: %w", err)
		}

		// Idempotence: nothing to check if the duty already exists.
		var exists bool
		err = tx.QueryRow(ctx, `
			SELECT EXISTS(SELECT 1 FROM invigilator_assignments WHERE exam_slot_id = $1 AND faculty_id = $2)
		`, examSlotID, facultyID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("error checking invigilator assignment: %w", err)
		}
		if exists {
			return nil
		}

		teaching, err := scanSlots(tx.Query(ctx, `
			SELECT `+slotColumns+` FROM timetable_slots WHERE faculty_id = $1
		`, facultyID))
		if err != nil {
			return fmt.Errorf("error reading teaching slots: %w", err)
		}

		invigilated, err := scanExamSlots(tx.Query(ctx, `
			SELECT `+examColumns+`
			FROM exam_slots e
			JOIN invigilator_assignments a ON a.exam_slot_id = e.id
			WHERE a.faculty_id = $1
		`, facultyID))
		if err != nil {
			return fmt.Errorf("error reading invigilation duties: %w", err)
		}

		if conflicts := scheduling.CheckInvigilator(facultyID, &slot, teaching, invigilated); len(conflicts) > 0 {
			return apperrors.NewConflictError(conflicts)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO invigilator_assignments (id, exam_slot_id, faculty_id)
			VALUES ($1, $2, $3)
			ON CONFLICT (exam_slot_id, faculty_id) DO NOTHING
		`, uuid.New(), examSlotID, facultyID)
		if err != nil {
			return fmt.Errorf("error inserting invigilator assignment: %w", err)
		}
		return nil
	})
}

// RemoveInvigilator removes a faculty member from an exam slot's invigilator
// set; removing an absent assignment is a no-op.
func (r *ExamRepository) RemoveInvigilator(ctx context.Context, examSlotID, facultyID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM invigilator_assignments WHERE exam_slot_id = $1 AND faculty_id = $2
	`, examSlotID, facultyID)
	if err != nil {
		return fmt.Errorf("error removing invigilator assignment: %w", err)
	}
	return nil
}

type pgQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *ExamRepository) listInvigilators(ctx context.Context, q pgQuerier, examSlotID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := q.Query(ctx, `
		SELECT faculty_id FROM invigilator_assignments WHERE exam_slot_id = $1 ORDER BY assigned_at
	`, examSlotID)
	if err != nil {
		return nil, fmt.Errorf("error querying invigilators: %w", err)
	}
	defer rows.Close()

	var invigilators []uuid.UUID
	for rows.Next() {
		var facultyID uuid.UUID
		if err := rows.Scan(&facultyID); err != nil {
			return nil, fmt.Errorf("error scanning invigilator: %w", err)
		}
		invigilators = append(invigilators, facultyID)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return invigilators, nil
}

func scanExamSlots(rows pgx.Rows, err error) ([]*models.ExamSlot, error) {
	if err != nil {
		return nil, fmt.Errorf("error querying exam slots: %w", err)
	}
	defer rows.Close()

	var slots []*models.ExamSlot
	for rows.Next() {
		var slot models.ExamSlot
		if err := rows.Scan(
			&slot.ID, &slot.AssessmentID, &slot.ExamDate, &slot.StartTime, &slot.EndTime, &slot.Room, &slot.BatchSection,
		); err != nil {
			return nil, fmt.Errorf("error scanning exam slot: %w", err)
		}
		slots = append(slots, &slot)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return slots, nil
}
