package models

import (
	"github.com/google/uuid"
)

// TimetableSlot is one scheduled teaching period inside a timetable's weekly
// grid. The placement key (timetableId, dayOfWeek, periodNumber) scopes all
// conflict checks: within one key at most one slot may hold a given faculty,
// a given room, and a given class section.
type TimetableSlot struct {
	ID           uuid.UUID `json:"id" db:"id"`
	TimetableID  uuid.UUID `json:"timetableId" db:"timetable_id"`
	FacultyID    uuid.UUID `json:"facultyId" db:"faculty_id"`
	ClassID      uuid.UUID `json:"classId" db:"class_id"`
	DayOfWeek    int       `json:"dayOfWeek" db:"day_of_week"`
	PeriodNumber int       `json:"periodNumber" db:"period_number"`
	StartTime    string    `json:"startTime" db:"start_time"` // HH:MM, 24h
	EndTime      string    `json:"endTime" db:"end_time"`     // HH:MM, 24h
	SubjectName  string    `json:"subjectName" db:"subject_name"`
	RoomNumber   string    `json:"roomNumber" db:"room_number"`
}

// SamePlacement reports whether two slots occupy the same placement key.
func (s *TimetableSlot) SamePlacement(other *TimetableSlot) bool {
	return s.TimetableID == other.TimetableID &&
		s.DayOfWeek == other.DayOfWeek &&
		s.PeriodNumber == other.PeriodNumber
}
