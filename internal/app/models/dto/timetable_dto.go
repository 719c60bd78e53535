package dto

import (
	"github.com/google/uuid"
)

// CreateTimetableRequest represents a request to create a draft timetable
type CreateTimetableRequest struct {
	AcademicYear string `json:"academicYear" binding:"required" example:"2026-2027"`
	Term         string `json:"term" binding:"required" example:"FALL" enums:"FALL,SPRING,SUMMER"`
}

// PlaceSlotRequest represents a request to place one teaching slot
type PlaceSlotRequest struct {
	FacultyID    uuid.UUID `json:"facultyId" binding:"required"`
	ClassID      uuid.UUID `json:"classId" binding:"required"`
	DayOfWeek    int       `json:"dayOfWeek" binding:"required,min=1,max=6" example:"1"`
	PeriodNumber int       `json:"periodNumber" binding:"required,min=1" example:"3"`
	StartTime    string    `json:"startTime" binding:"required,clock" example:"09:00"`
	EndTime      string    `json:"endTime" binding:"required,clock" example:"09:45"`
	SubjectName  string    `json:"subjectName" binding:"required" example:"Mathematics"`
	RoomNumber   string    `json:"roomNumber" binding:"required" example:"R101"`
}

// FacultyLoadResponse reports the weekly load of one faculty member
type FacultyLoadResponse struct {
	FacultyID   uuid.UUID `json:"facultyId"`
	TimetableID uuid.UUID `json:"timetableId"`
	SlotCount   int       `json:"slotCount"`
}
