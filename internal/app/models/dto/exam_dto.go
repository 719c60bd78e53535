package dto

import (
	"github.com/google/uuid"
)

// ExamSlotRequest represents one proposed exam sitting
type ExamSlotRequest struct {
	ExamDate     string `json:"examDate" binding:"required" example:"2026-05-18"`
	StartTime    string `json:"startTime" binding:"required,clock" example:"10:00"`
	EndTime      string `json:"endTime" binding:"required,clock" example:"12:00"`
	Room         string `json:"room" binding:"required" example:"Hall A"`
	BatchSection string `json:"batchSection" binding:"required" example:"10-B"`
}

// ScheduleExamSlotsRequest represents a batch of proposed exam sittings.
// The batch is applied all-or-nothing.
type ScheduleExamSlotsRequest struct {
	Slots []ExamSlotRequest `json:"slots" binding:"required,min=1,dive"`
}

// AssignInvigilatorRequest names the faculty member to put on duty
type AssignInvigilatorRequest struct {
	FacultyID uuid.UUID `json:"facultyId" binding:"required"`
}
