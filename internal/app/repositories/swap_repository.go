package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emre/termplan/internal/app/models"
	"github.com/emre/termplan/internal/db"
	"github.com/emre/termplan/internal/pkg/apperrors"
	"github.com/emre/termplan/internal/pkg/dberrors"
)

const swapColumns = `id, requester_faculty_id, requester_slot_id, target_faculty_id, target_slot_id,
	request_type, swap_date, reason, status, requires_admin_approval,
	target_response, target_responded_at, admin_approval_status, admin_id, admin_response,
	admin_responded_at, completed_at, created_at`

// SwapRepository handles database operations for swap requests
type SwapRepository struct {
	db *pgxpool.Pool
}

// NewSwapRepository creates a new swap repository
func NewSwapRepository(db *pgxpool.Pool) *SwapRepository {
	return &SwapRepository{
		db: db,
	}
}

// Create persists a new swap request
func (r *SwapRepository) Create(ctx context.Context, req *models.SwapRequest) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}

	query := `
		INSERT INTO swap_requests (
			id, requester_faculty_id, requester_slot_id, target_faculty_id, target_slot_id,
			request_type, swap_date, reason, status, requires_admin_approval, admin_approval_status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query,
		req.ID, req.RequesterFacultyID, req.RequesterSlotID, req.TargetFacultyID, req.TargetSlotID,
		req.RequestType, req.SwapDate, req.Reason, req.Status, req.RequiresApproval, req.AdminApproval,
	).Scan(&req.CreatedAt)
	if err != nil {
		// A referenced slot can disappear between validation and insert.
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NewNotFoundError("timetable slot")
		}
		return fmt.Errorf("error creating swap request: %w", err)
	}

	return nil
}

// GetByID retrieves a swap request by ID
func (r *SwapRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.SwapRequest, error) {
	row := r.db.QueryRow(ctx, `SELECT `+swapColumns+` FROM swap_requests WHERE id = $1`, id)
	req, err := scanSwapRequest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("swap request")
		}
		return nil, fmt.Errorf("error retrieving swap request: %w", err)
	}
	return req, nil
}

// Transition loads a swap request with its row locked, applies fn to it and
// writes the mutated state back, all in one transaction. Workflow steps go
// through here so two concurrent transitions on the same request serialize
// on the row lock.
func (r *SwapRepository) Transition(ctx context.Context, id uuid.UUID, fn func(req *models.SwapRequest) error) (*models.SwapRequest, error) {
	var result *models.SwapRequest

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `SELECT `+swapColumns+` FROM swap_requests WHERE id = $1 FOR UPDATE`, id)
		req, err := scanSwapRequest(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFoundError("swap request")
			}
			return fmt.Errorf("error locking swap request: %w", err)
		}

		if err := fn(req); err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			UPDATE swap_requests
			SET status = $2, target_response = $3, target_responded_at = $4,
			    admin_approval_status = $5, admin_id = $6, admin_response = $7,
			    admin_responded_at = $8, completed_at = $9
			WHERE id = $1
		`, req.ID, req.Status, req.TargetResponse, req.TargetRespondedAt,
			req.AdminApproval, req.AdminID, req.AdminResponse,
			req.AdminRespondedAt, req.CompletedAt)
		if err != nil {
			return fmt.Errorf("error updating swap request: %w", err)
		}

		result = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// List retrieves swap requests matching the filter, newest first
func (r *SwapRepository) List(ctx context.Context, filter models.SwapRequestFilter) ([]*models.SwapRequest, error) {
	var conditions []string
	var args []interface{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.FacultyID != nil {
		p := arg(*filter.FacultyID)
		conditions = append(conditions, fmt.Sprintf("(requester_faculty_id = %s OR target_faculty_id = %s)", p, p))
	}
	if filter.Status != nil {
		conditions = append(conditions, "status = "+arg(*filter.Status))
	}
	if filter.RequestType != nil {
		conditions = append(conditions, "request_type = "+arg(*filter.RequestType))
	}
	if filter.From != nil {
		conditions = append(conditions, "created_at >= "+arg(*filter.From))
	}
	if filter.To != nil {
		conditions = append(conditions, "created_at <= "+arg(*filter.To))
	}

	query := `SELECT ` + swapColumns + ` FROM swap_requests`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying swap requests: %w", err)
	}
	defer rows.Close()

	var requests []*models.SwapRequest
	for rows.Next() {
		req, err := scanSwapRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning swap request: %w", err)
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}

// Statistics summarizes the swap activity a faculty member participates in
func (r *SwapRepository) Statistics(ctx context.Context, facultyID uuid.UUID) (*models.SwapStatistics, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'accepted'),
			COUNT(*) FILTER (WHERE status = 'rejected'),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE admin_approval_status = 'pending')
		FROM swap_requests
		WHERE requester_faculty_id = $1 OR target_faculty_id = $1
	`

	var stats models.SwapStatistics
	err := r.db.QueryRow(ctx, query, facultyID).Scan(
		&stats.TotalRequests,
		&stats.PendingRequests,
		&stats.AcceptedRequests,
		&stats.RejectedRequests,
		&stats.CompletedSwaps,
		&stats.PendingAdminApproval,
	)
	if err != nil {
		return nil, fmt.Errorf("error computing swap statistics: %w", err)
	}

	return &stats, nil
}

func scanSwapRequest(row pgx.Row) (*models.SwapRequest, error) {
	var req models.SwapRequest
	err := row.Scan(
		&req.ID, &req.RequesterFacultyID, &req.RequesterSlotID, &req.TargetFacultyID, &req.TargetSlotID,
		&req.RequestType, &req.SwapDate, &req.Reason, &req.Status, &req.RequiresApproval,
		&req.TargetResponse, &req.TargetRespondedAt, &req.AdminApproval, &req.AdminID, &req.AdminResponse,
		&req.AdminRespondedAt, &req.CompletedAt, &req.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}
