package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/emre/termplan/internal/app/models"
	"github.com/emre/termplan/internal/config"
	"github.com/emre/termplan/internal/pkg/apperrors"
	"github.com/emre/termplan/internal/pkg/helpers"
	"github.com/emre/termplan/internal/pkg/logger"
)

// CreateSwapInput carries the fields of a new swap request.
type CreateSwapInput struct {
	RequesterFacultyID uuid.UUID
	RequesterSlotID    uuid.UUID
	TargetFacultyID    uuid.UUID
	TargetSlotID       uuid.UUID
	RequestType        models.SwapRequestType
	SwapDate           *time.Time
	Reason             string
}

// SwapService runs the two-party-plus-admin negotiation over exchanging two
// teaching slots. It mutates slots only through the slot store's atomic
// ExchangeFaculty; one-time swaps write a date-scoped override instead of
// touching the recurring slots.
type SwapService struct {
	swaps     SwapStore
	slots     SlotStore
	overrides OverrideStore
	roster    FacultyRoster
	cfg       *config.Config
	clock     func() time.Time
}

// NewSwapService creates a new swap service instance
func NewSwapService(swaps SwapStore, slots SlotStore, overrides OverrideStore, roster FacultyRoster, cfg *config.Config) *SwapService {
	return &SwapService{
		swaps:     swaps,
		slots:     slots,
		overrides: overrides,
		roster:    roster,
		cfg:       cfg,
		clock:     time.Now,
	}
}

// Create validates and persists a new swap request in pending status.
func (s *SwapService) Create(ctx context.Context, input CreateSwapInput) (*models.SwapRequest, error) {
	if input.RequesterFacultyID == input.TargetFacultyID {
		return nil, apperrors.NewValidationError("targetFacultyId", "cannot request a swap with yourself")
	}
	if input.RequesterSlotID == input.TargetSlotID {
		return nil, apperrors.NewValidationError("targetSlotId", "must differ from requesterSlotId")
	}

	switch input.RequestType {
	case models.SwapTypePermanent:
		if input.SwapDate != nil {
			return nil, apperrors.NewValidationError("swapDate", "must not be set for permanent swaps")
		}
	case models.SwapTypeOneTime:
		if input.SwapDate == nil {
			return nil, apperrors.NewValidationError("swapDate", "is required for one-time swaps")
		}
	default:
		return nil, apperrors.NewValidationError("requestType", "must be one_time or permanent")
	}

	requesterSlot, err := s.slots.GetByID(ctx, input.RequesterSlotID)
	if err != nil {
		return nil, err
	}
	targetSlot, err := s.slots.GetByID(ctx, input.TargetSlotID)
	if err != nil {
		return nil, err
	}

	if requesterSlot.FacultyID != input.RequesterFacultyID {
		return nil, apperrors.NewValidationError("requesterSlotId", "slot does not belong to the requester")
	}
	if targetSlot.FacultyID != input.TargetFacultyID {
		return nil, apperrors.NewValidationError("targetSlotId", "slot does not belong to the target faculty")
	}
	if requesterSlot.TimetableID != targetSlot.TimetableID {
		return nil, apperrors.NewValidationError("targetSlotId", "both slots must belong to the same timetable")
	}

	if input.RequestType == models.SwapTypeOneTime {
		day := helpers.WeekdayNumber(*input.SwapDate)
		if day != requesterSlot.DayOfWeek || day != targetSlot.DayOfWeek {
			return nil, apperrors.NewValidationError("swapDate", "must fall on the weekday of both slots")
		}
	}

	requiresApproval := input.RequestType == models.SwapTypePermanent ||
		s.cfg.Scheduling.OneTimeSwapsNeedApproval

	req := &models.SwapRequest{
		RequesterFacultyID: input.RequesterFacultyID,
		RequesterSlotID:    input.RequesterSlotID,
		TargetFacultyID:    input.TargetFacultyID,
		TargetSlotID:       input.TargetSlotID,
		RequestType:        input.RequestType,
		SwapDate:           input.SwapDate,
		Reason:             input.Reason,
		Status:             models.SwapStatusPending,
		RequiresApproval:   requiresApproval,
		AdminApproval:      models.ApprovalNotRequired,
	}
	if input.RequestType == models.SwapTypeOneTime && input.SwapDate != nil {
		truncated := helpers.TruncateToDate(*input.SwapDate)
		req.SwapDate = &truncated
	}

	if err := s.swaps.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// Respond records the target faculty's accept or reject decision. Acceptance
// of a request needing no admin approval executes the swap immediately.
func (s *SwapService) Respond(ctx context.Context, requestID, actorFacultyID uuid.UUID, accept bool, message string) (*models.SwapRequest, error) {
	req, err := s.swaps.Transition(ctx, requestID, func(req *models.SwapRequest) error {
		if req.TargetFacultyID != actorFacultyID {
			return fmt.Errorf("%w: only the target faculty may respond", apperrors.ErrPermissionDenied)
		}
		return req.Respond(accept, message, s.clock())
	})
	if err != nil {
		return nil, err
	}

	if req.ReadyToExecute() {
		return s.execute(ctx, req)
	}
	return req, nil
}

// Cancel withdraws a pending request on behalf of its requester.
func (s *SwapService) Cancel(ctx context.Context, requestID, actorFacultyID uuid.UUID) (*models.SwapRequest, error) {
	return s.swaps.Transition(ctx, requestID, func(req *models.SwapRequest) error {
		if req.RequesterFacultyID != actorFacultyID {
			return fmt.Errorf("%w: only the requester may cancel", apperrors.ErrPermissionDenied)
		}
		return req.Cancel()
	})
}

// Decide records the administrator's decision on an accepted request that
// awaits approval; approval triggers execution.
func (s *SwapService) Decide(ctx context.Context, requestID, adminID uuid.UUID, approve bool, message string) (*models.SwapRequest, error) {
	req, err := s.swaps.Transition(ctx, requestID, func(req *models.SwapRequest) error {
		return req.Decide(adminID, approve, message, s.clock())
	})
	if err != nil {
		return nil, err
	}

	if req.ReadyToExecute() {
		return s.execute(ctx, req)
	}
	return req, nil
}

// execute applies the negotiated swap. Permanent requests exchange the
// faculty of the two slots atomically; one-time requests write date-scoped
// overrides in both directions. A failed exchange moves the request to the
// failed state so approval and slot data never disagree silently.
func (s *SwapService) execute(ctx context.Context, req *models.SwapRequest) (*models.SwapRequest, error) {
	var execErr error
	if req.RequestType == models.SwapTypePermanent {
		execErr = s.slots.ExchangeFaculty(ctx, req.RequesterSlotID, req.TargetSlotID)
	} else {
		execErr = s.writeOverrides(ctx, req)
	}

	if execErr != nil {
		logger.Error().Err(execErr).
			Str("requestId", req.ID.String()).
			Msg("Swap execution failed")
		failed, ferr := s.swaps.Transition(ctx, req.ID, func(r *models.SwapRequest) error {
			return r.MarkFailed()
		})
		if ferr != nil {
			return nil, errors.Join(execErr, ferr)
		}
		return failed, execErr
	}

	return s.swaps.Transition(ctx, req.ID, func(r *models.SwapRequest) error {
		return r.MarkCompleted(s.clock())
	})
}

func (s *SwapService) writeOverrides(ctx context.Context, req *models.SwapRequest) error {
	if req.SwapDate == nil {
		return apperrors.NewValidationError("swapDate", "is required for one-time swaps")
	}

	// Both slots must still exist; a one-time swap over a deleted slot
	// fails like a permanent one.
	if _, err := s.slots.GetByID(ctx, req.RequesterSlotID); err != nil {
		return err
	}
	if _, err := s.slots.GetByID(ctx, req.TargetSlotID); err != nil {
		return err
	}

	// Both directions land in one atomic write; a half-applied swap must
	// never reach the calendar.
	date := helpers.TruncateToDate(*req.SwapDate)
	return s.overrides.InsertPair(ctx,
		&models.SwapOverride{
			SwapRequestID: req.ID,
			SlotID:        req.RequesterSlotID,
			Date:          date,
			FacultyID:     req.TargetFacultyID,
		},
		&models.SwapOverride{
			SwapRequestID: req.ID,
			SlotID:        req.TargetSlotID,
			Date:          date,
			FacultyID:     req.RequesterFacultyID,
		},
	)
}

// Get retrieves one swap request with its slot and faculty details attached.
func (s *SwapService) Get(ctx context.Context, requestID uuid.UUID) (*models.SwapRequest, error) {
	req, err := s.swaps.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	s.attachDetails(ctx, req)
	return req, nil
}

// List retrieves swap requests matching the filter.
func (s *SwapService) List(ctx context.Context, filter models.SwapRequestFilter) ([]*models.SwapRequest, error) {
	return s.swaps.List(ctx, filter)
}

// Statistics summarizes a faculty member's swap activity.
func (s *SwapService) Statistics(ctx context.Context, facultyID uuid.UUID) (*models.SwapStatistics, error) {
	return s.swaps.Statistics(ctx, facultyID)
}

// attachDetails enriches a request with live slot and roster data. Lookups
// are best-effort; a request referencing a deleted slot still renders.
func (s *SwapService) attachDetails(ctx context.Context, req *models.SwapRequest) {
	if slot, err := s.slots.GetByID(ctx, req.RequesterSlotID); err == nil {
		req.RequesterSlot = slot
	}
	if slot, err := s.slots.GetByID(ctx, req.TargetSlotID); err == nil {
		req.TargetSlot = slot
	}
	if faculty, err := s.roster.GetByID(ctx, req.RequesterFacultyID); err == nil {
		req.Requester = faculty
	}
	if faculty, err := s.roster.GetByID(ctx, req.TargetFacultyID); err == nil {
		req.Target = faculty
	}
}
