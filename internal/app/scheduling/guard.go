// Package scheduling holds the conflict guard: pure decision logic that
// evaluates a proposed placement or assignment against the current slot set.
// It keeps no state of its own; callers run it inside whatever transaction
// protects the slots it was given.
package scheduling

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/emre/termplan/internal/app/models"
	"github.com/emre/termplan/internal/pkg/apperrors"
	"github.com/emre/termplan/internal/pkg/helpers"
)

// CheckPlacement evaluates the three placement predicates for a proposed
// teaching slot against all existing slots sharing its placement key. Each
// violated predicate yields one conflict carrying every colliding slot id,
// so a placement clashing on both room and faculty reports both.
func CheckPlacement(proposed *models.TimetableSlot, existing []*models.TimetableSlot) []apperrors.Conflict {
	var facultyHits, roomHits, classHits []string

	for _, slot := range existing {
		if slot.ID == proposed.ID || !slot.SamePlacement(proposed) {
			continue
		}
		if slot.FacultyID == proposed.FacultyID {
			facultyHits = append(facultyHits, slot.ID.String())
		}
		if slot.RoomNumber == proposed.RoomNumber {
			roomHits = append(roomHits, slot.ID.String())
		}
		if slot.ClassID == proposed.ClassID {
			classHits = append(classHits, slot.ID.String())
		}
	}

	var conflicts []apperrors.Conflict
	if len(facultyHits) > 0 {
		conflicts = append(conflicts, apperrors.Conflict{
			Kind:            apperrors.ConflictFaculty,
			Message:         fmt.Sprintf("faculty is already teaching on day %d period %d", proposed.DayOfWeek, proposed.PeriodNumber),
			InvolvedSlotIDs: facultyHits,
		})
	}
	if len(roomHits) > 0 {
		conflicts = append(conflicts, apperrors.Conflict{
			Kind:            apperrors.ConflictRoom,
			Message:         fmt.Sprintf("room %s is already occupied on day %d period %d", proposed.RoomNumber, proposed.DayOfWeek, proposed.PeriodNumber),
			InvolvedSlotIDs: roomHits,
		})
	}
	if len(classHits) > 0 {
		conflicts = append(conflicts, apperrors.Conflict{
			Kind:            apperrors.ConflictClass,
			Message:         fmt.Sprintf("class is already scheduled on day %d period %d", proposed.DayOfWeek, proposed.PeriodNumber),
			InvolvedSlotIDs: classHits,
		})
	}
	return conflicts
}

// Overlaps reports whether two half-open [start, end) time-of-day windows
// intersect. Inputs are HH:MM strings already validated at write time; a
// malformed window never overlaps anything.
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
	as, err := helpers.ParseClock(aStart)
	if err != nil {
		return false
	}
	ae, err := helpers.ParseClock(aEnd)
	if err != nil {
		return false
	}
	bs, err := helpers.ParseClock(bStart)
	if err != nil {
		return false
	}
	be, err := helpers.ParseClock(bEnd)
	if err != nil {
		return false
	}
	return as < be && bs < ae
}

// CheckExamSlot forbids two exam sittings with overlapping windows in the
// same room on the same date.
func CheckExamSlot(proposed *models.ExamSlot, existing []*models.ExamSlot) []apperrors.Conflict {
	var roomHits []string
	for _, slot := range existing {
		if slot.ID == proposed.ID {
			continue
		}
		if slot.Room != proposed.Room || !helpers.SameDate(slot.ExamDate, proposed.ExamDate) {
			continue
		}
		if Overlaps(proposed.StartTime, proposed.EndTime, slot.StartTime, slot.EndTime) {
			roomHits = append(roomHits, slot.ID.String())
		}
	}

	if len(roomHits) == 0 {
		return nil
	}
	return []apperrors.Conflict{{
		Kind:            apperrors.ConflictExamRoom,
		Message:         fmt.Sprintf("room %s already hosts an exam overlapping %s-%s on %s", proposed.Room, proposed.StartTime, proposed.EndTime, proposed.ExamDate.Format(helpers.DateLayout)),
		InvolvedSlotIDs: roomHits,
	}}
}

// CheckInvigilator rejects an invigilation duty that overlaps the faculty
// member's teaching slots on the exam's weekday or another exam sitting they
// already cover on the same date. This is the one cross-grid check the
// engine performs.
func CheckInvigilator(facultyID uuid.UUID, examSlot *models.ExamSlot, teaching []*models.TimetableSlot, invigilated []*models.ExamSlot) []apperrors.Conflict {
	var conflicts []apperrors.Conflict

	weekday := helpers.WeekdayNumber(examSlot.ExamDate)
	var teachingHits []string
	for _, slot := range teaching {
		if slot.FacultyID != facultyID || slot.DayOfWeek != weekday {
			continue
		}
		if Overlaps(examSlot.StartTime, examSlot.EndTime, slot.StartTime, slot.EndTime) {
			teachingHits = append(teachingHits, slot.ID.String())
		}
	}
	if len(teachingHits) > 0 {
		conflicts = append(conflicts, apperrors.Conflict{
			Kind:            apperrors.ConflictInvigilation,
			Message:         "faculty has a teaching duty overlapping this exam window",
			InvolvedSlotIDs: teachingHits,
		})
	}

	var examHits []string
	for _, other := range invigilated {
		if other.ID == examSlot.ID || !helpers.SameDate(other.ExamDate, examSlot.ExamDate) {
			continue
		}
		if Overlaps(examSlot.StartTime, examSlot.EndTime, other.StartTime, other.EndTime) {
			examHits = append(examHits, other.ID.String())
		}
	}
	if len(examHits) > 0 {
		conflicts = append(conflicts, apperrors.Conflict{
			Kind:            apperrors.ConflictInvigilation,
			Message:         "faculty already invigilates an overlapping exam sitting",
			InvolvedSlotIDs: examHits,
		})
	}

	return conflicts
}
