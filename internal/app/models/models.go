package models

// TimetableStatus defines the lifecycle state of a timetable
type TimetableStatus string

const (
	TimetableStatusDraft     TimetableStatus = "draft"
	TimetableStatusPublished TimetableStatus = "published"
)

// Term represents an academic term
type Term string

const (
	TermFall   Term = "FALL"
	TermSpring Term = "SPRING"
	TermSummer Term = "SUMMER"
)

// Weekly grid bounds. Day 1 is Monday; the grid runs a six-day teaching week.
const (
	MinDayOfWeek = 1
	MaxDayOfWeek = 6

	MinPeriodNumber = 1
	MaxPeriodNumber = 12
)
