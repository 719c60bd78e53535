package models

import (
	"time"

	"github.com/google/uuid"
)

// Timetable represents the weekly teaching grid for one academic term.
// Publishing is a one-way transition; the store records the status but does
// not hard-lock a published timetable against edits.
type Timetable struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	AcademicYear string          `json:"academicYear" db:"academic_year"`
	Term         Term            `json:"term" db:"term"`
	Status       TimetableStatus `json:"status" db:"status"`
	CreatedAt    time.Time       `json:"createdAt" db:"created_at"`
}
