package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/emre/termplan/internal/pkg/apperrors"
)

// SwapRequestType distinguishes permanent exchanges from single-date covers
type SwapRequestType string

const (
	SwapTypeOneTime   SwapRequestType = "one_time"
	SwapTypePermanent SwapRequestType = "permanent"
)

// SwapStatus is the negotiation state of a swap request
type SwapStatus string

const (
	SwapStatusPending   SwapStatus = "pending"
	SwapStatusAccepted  SwapStatus = "accepted"
	SwapStatusRejected  SwapStatus = "rejected"
	SwapStatusCancelled SwapStatus = "cancelled"
	SwapStatusCompleted SwapStatus = "completed"
	SwapStatusFailed    SwapStatus = "failed"
)

// AdminApprovalStatus tracks the administrator's decision on an accepted request
type AdminApprovalStatus string

const (
	ApprovalNotRequired AdminApprovalStatus = "not_required"
	ApprovalPending     AdminApprovalStatus = "pending"
	ApprovalApproved    AdminApprovalStatus = "approved"
	ApprovalRejected    AdminApprovalStatus = "rejected"
)

// SwapRequest is a negotiation between two faculty members to exchange the
// teaching duty of two timetable slots. It references the live slots by id
// and never copies their contents. Legal transitions:
//
//	pending -> accepted | rejected | cancelled
//	accepted (approval pending) -> approved | rejected by admin
//	accepted/approved -> completed | failed on execution
//
// rejected, cancelled, completed and failed are terminal.
type SwapRequest struct {
	ID                 uuid.UUID           `json:"id" db:"id"`
	RequesterFacultyID uuid.UUID           `json:"requesterFacultyId" db:"requester_faculty_id"`
	RequesterSlotID    uuid.UUID           `json:"requesterSlotId" db:"requester_slot_id"`
	TargetFacultyID    uuid.UUID           `json:"targetFacultyId" db:"target_faculty_id"`
	TargetSlotID       uuid.UUID           `json:"targetSlotId" db:"target_slot_id"`
	RequestType        SwapRequestType     `json:"requestType" db:"request_type"`
	SwapDate           *time.Time          `json:"swapDate,omitempty" db:"swap_date"` // required iff one_time
	Reason             string              `json:"reason" db:"reason"`
	Status             SwapStatus          `json:"status" db:"status"`
	RequiresApproval   bool                `json:"requiresAdminApproval" db:"requires_admin_approval"`
	TargetResponse     *string             `json:"targetResponse,omitempty" db:"target_response"`
	TargetRespondedAt  *time.Time          `json:"targetRespondedAt,omitempty" db:"target_responded_at"`
	AdminApproval      AdminApprovalStatus `json:"adminApprovalStatus" db:"admin_approval_status"`
	AdminID            *uuid.UUID          `json:"adminId,omitempty" db:"admin_id"`
	AdminResponse      *string             `json:"adminResponse,omitempty" db:"admin_response"`
	AdminRespondedAt   *time.Time          `json:"adminRespondedAt,omitempty" db:"admin_responded_at"`
	CompletedAt        *time.Time          `json:"completedAt,omitempty" db:"completed_at"`
	CreatedAt          time.Time           `json:"createdAt" db:"created_at"`

	// Relations (populated when needed)
	RequesterSlot *TimetableSlot `json:"requesterSlot,omitempty"`
	TargetSlot    *TimetableSlot `json:"targetSlot,omitempty"`
	Requester     *Faculty       `json:"requesterFaculty,omitempty"`
	Target        *Faculty       `json:"targetFaculty,omitempty"`
}

// Terminal reports whether no further transition is permitted.
func (r *SwapRequest) Terminal() bool {
	switch r.Status {
	case SwapStatusRejected, SwapStatusCancelled, SwapStatusCompleted, SwapStatusFailed:
		return true
	}
	return false
}

// Respond records the target faculty's decision. Only a pending request may
// be answered; acceptance of a request that needs administrative sign-off
// parks it under ApprovalPending.
func (r *SwapRequest) Respond(accept bool, message string, now time.Time) error {
	if r.Status != SwapStatusPending {
		return fmt.Errorf("%w: cannot respond to a %s request", apperrors.ErrInvalidTransition, r.Status)
	}
	r.TargetResponse = &message
	r.TargetRespondedAt = &now
	if !accept {
		r.Status = SwapStatusRejected
		return nil
	}
	r.Status = SwapStatusAccepted
	if r.RequiresApproval {
		r.AdminApproval = ApprovalPending
	}
	return nil
}

// Cancel withdraws the request. Only the requester may cancel, and only
// while the target has not responded.
func (r *SwapRequest) Cancel() error {
	if r.Status != SwapStatusPending {
		return fmt.Errorf("%w: cannot cancel a %s request", apperrors.ErrInvalidTransition, r.Status)
	}
	r.Status = SwapStatusCancelled
	return nil
}

// Decide records the administrator's approval decision. It is only reachable
// after the target accepted and while the approval is still pending; an admin
// rejection is terminal for the whole request.
func (r *SwapRequest) Decide(adminID uuid.UUID, approve bool, message string, now time.Time) error {
	if r.Status != SwapStatusAccepted || r.AdminApproval != ApprovalPending {
		return fmt.Errorf("%w: request is not awaiting admin approval", apperrors.ErrInvalidTransition)
	}
	r.AdminID = &adminID
	r.AdminResponse = &message
	r.AdminRespondedAt = &now
	if !approve {
		r.AdminApproval = ApprovalRejected
		r.Status = SwapStatusRejected
		return nil
	}
	r.AdminApproval = ApprovalApproved
	return nil
}

// ReadyToExecute reports whether the negotiated exchange may be applied.
func (r *SwapRequest) ReadyToExecute() bool {
	if r.Status != SwapStatusAccepted {
		return false
	}
	return r.AdminApproval == ApprovalNotRequired || r.AdminApproval == ApprovalApproved
}

// MarkCompleted finalizes the request after the exchange has been applied.
func (r *SwapRequest) MarkCompleted(now time.Time) error {
	if !r.ReadyToExecute() {
		return fmt.Errorf("%w: request is not ready for execution", apperrors.ErrInvalidTransition)
	}
	r.Status = SwapStatusCompleted
	r.CompletedAt = &now
	return nil
}

// MarkFailed records that executing the exchange failed. The request must
// never read completed when the slot data was not actually mutated.
func (r *SwapRequest) MarkFailed() error {
	if !r.ReadyToExecute() {
		return fmt.Errorf("%w: request is not ready for execution", apperrors.ErrInvalidTransition)
	}
	r.Status = SwapStatusFailed
	return nil
}

// SwapRequestFilter narrows swap request listings.
type SwapRequestFilter struct {
	FacultyID   *uuid.UUID
	Status      *SwapStatus
	RequestType *SwapRequestType
	From        *time.Time
	To          *time.Time
}

// SwapStatistics summarizes a faculty member's swap activity.
type SwapStatistics struct {
	TotalRequests        int `json:"totalRequests"`
	PendingRequests      int `json:"pendingRequests"`
	AcceptedRequests     int `json:"acceptedRequests"`
	RejectedRequests     int `json:"rejectedRequests"`
	CompletedSwaps       int `json:"completedSwaps"`
	PendingAdminApproval int `json:"pendingAdminApproval"`
}
