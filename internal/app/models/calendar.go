package models

import (
	"github.com/google/uuid"
)

// CalendarSlot is one resolved entry of a timetable's calendar for a single
// date: the recurring slot plus the faculty member actually covering it,
// which differs from the slot's owner when a one-time swap override applies.
type CalendarSlot struct {
	Slot               TimetableSlot `json:"slot"`
	EffectiveFacultyID uuid.UUID     `json:"effectiveFacultyId"`
	Overridden         bool          `json:"overridden"`
}
