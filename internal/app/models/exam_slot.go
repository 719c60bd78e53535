package models

import (
	"time"

	"github.com/google/uuid"
)

// ExamSlot is one examination sitting scheduled for an assessment. Exam
// slots live on calendar dates rather than the recurring weekly grid.
type ExamSlot struct {
	ID           uuid.UUID `json:"id" db:"id"`
	AssessmentID uuid.UUID `json:"assessmentId" db:"assessment_id"`
	ExamDate     time.Time `json:"examDate" db:"exam_date"`
	StartTime    string    `json:"startTime" db:"start_time"` // HH:MM, 24h
	EndTime      string    `json:"endTime" db:"end_time"`     // HH:MM, 24h
	Room         string    `json:"room" db:"room"`
	BatchSection string    `json:"batchSection" db:"batch_section"`

	// Invigilators assigned to this sitting (populated when needed)
	Invigilators []uuid.UUID `json:"invigilators,omitempty"`
}

// InvigilatorAssignment links one faculty member to one exam slot.
type InvigilatorAssignment struct {
	ID         uuid.UUID `json:"id" db:"id"`
	ExamSlotID uuid.UUID `json:"examSlotId" db:"exam_slot_id"`
	FacultyID  uuid.UUID `json:"facultyId" db:"faculty_id"`
	AssignedAt time.Time `json:"assignedAt" db:"assigned_at"`
}
