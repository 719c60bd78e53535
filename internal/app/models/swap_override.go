package models

import (
	"time"

	"github.com/google/uuid"
)

// SwapOverride is the date-scoped record written by a completed one-time
// swap. The underlying recurring slot is untouched; calendar rendering for
// the override date substitutes the covering faculty member.
type SwapOverride struct {
	ID            uuid.UUID `json:"id" db:"id"`
	SwapRequestID uuid.UUID `json:"swapRequestId" db:"swap_request_id"`
	SlotID        uuid.UUID `json:"slotId" db:"slot_id"`
	Date          time.Time `json:"date" db:"override_date"`
	FacultyID     uuid.UUID `json:"facultyId" db:"faculty_id"` // faculty covering the slot on Date
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}
