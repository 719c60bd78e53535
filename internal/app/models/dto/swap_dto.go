package dto

import (
	"github.com/google/uuid"
)

// CreateSwapRequest represents a request to open a swap negotiation
type CreateSwapRequest struct {
	RequesterSlotID uuid.UUID `json:"requesterSlotId" binding:"required"`
	TargetFacultyID uuid.UUID `json:"targetFacultyId" binding:"required"`
	TargetSlotID    uuid.UUID `json:"targetSlotId" binding:"required"`
	RequestType     string    `json:"requestType" binding:"required" example:"permanent" enums:"one_time,permanent"`
	SwapDate        *string   `json:"swapDate,omitempty" example:"2026-03-02"` // required iff requestType is one_time
	Reason          string    `json:"reason" binding:"required" example:"Conference attendance"`
}

// SwapResponseRequest represents the target faculty's answer
type SwapResponseRequest struct {
	Accept  bool   `json:"accept"`
	Message string `json:"message" example:"Fine by me"`
}

// SwapDecisionRequest represents the administrator's approval decision
type SwapDecisionRequest struct {
	Approve bool   `json:"approve"`
	Message string `json:"message" example:"Approved for the rest of the term"`
}

// SwapListQuery narrows swap request listings
type SwapListQuery struct {
	Status      string `form:"status" example:"pending"`
	RequestType string `form:"requestType" example:"one_time"`
	FacultyID   string `form:"facultyId"`
	From        string `form:"from" example:"2026-01-01"`
	To          string `form:"to" example:"2026-06-30"`
}
