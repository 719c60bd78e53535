package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/emre/termplan/internal/app/models"
	"github.com/emre/termplan/internal/pkg/apperrors"
	"github.com/emre/termplan/internal/pkg/helpers"
)

// ExamService schedules examination sittings and manages the many-to-many
// assignment of faculty invigilators, checking each duty against both the
// exam grid and the teaching grid.
type ExamService struct {
	exams  ExamStore
	roster FacultyRoster
}

// NewExamService creates a new exam service instance
func NewExamService(exams ExamStore, roster FacultyRoster) *ExamService {
	return &ExamService{
		exams:  exams,
		roster: roster,
	}
}

// ScheduleExamSlots validates and inserts a batch of exam slots for one
// assessment. Partial application is disallowed: any validation failure or
// conflict rejects the whole batch.
func (s *ExamService) ScheduleExamSlots(ctx context.Context, assessmentID uuid.UUID, proposed []*models.ExamSlot) ([]*models.ExamSlot, error) {
	if len(proposed) == 0 {
		return nil, apperrors.NewValidationError("slots", "at least one exam slot is required")
	}

	for i, slot := range proposed {
		slot.AssessmentID = assessmentID
		if err := validateExamSlot(i, slot); err != nil {
			return nil, err
		}
		slot.ExamDate = helpers.TruncateToDate(slot.ExamDate)
	}

	if err := s.exams.ScheduleBatch(ctx, proposed); err != nil {
		return nil, err
	}
	return proposed, nil
}

func validateExamSlot(index int, slot *models.ExamSlot) error {
	field := func(name string) string {
		return fmt.Sprintf("slots[%d].%s", index, name)
	}

	if slot.ExamDate.IsZero() {
		return apperrors.NewValidationError(field("examDate"), "is required")
	}
	if strings.TrimSpace(slot.Room) == "" {
		return apperrors.NewValidationError(field("room"), "cannot be empty")
	}
	if strings.TrimSpace(slot.BatchSection) == "" {
		return apperrors.NewValidationError(field("batchSection"), "cannot be empty")
	}
	start, err := helpers.ParseClock(slot.StartTime)
	if err != nil {
		return apperrors.NewValidationError(field("startTime"), "must be a valid HH:MM time")
	}
	end, err := helpers.ParseClock(slot.EndTime)
	if err != nil {
		return apperrors.NewValidationError(field("endTime"), "must be a valid HH:MM time")
	}
	if start >= end {
		return apperrors.NewValidationError(field("endTime"), "must be after startTime")
	}
	return nil
}

// ListExamSlots retrieves the exam slots of one assessment
func (s *ExamService) ListExamSlots(ctx context.Context, assessmentID uuid.UUID) ([]*models.ExamSlot, error) {
	return s.exams.ListByAssessment(ctx, assessmentID)
}

// CancelAssessment removes all exam slots of a cancelled assessment
func (s *ExamService) CancelAssessment(ctx context.Context, assessmentID uuid.UUID) (int, error) {
	return s.exams.DeleteByAssessment(ctx, assessmentID)
}

// AssignInvigilator adds a faculty member to an exam slot's invigilator set.
// The duty is rejected if it overlaps the faculty member's teaching slots or
// another sitting they already invigilate; re-adding an assigned faculty
// member is a no-op.
func (s *ExamService) AssignInvigilator(ctx context.Context, examSlotID, facultyID uuid.UUID) (*models.ExamSlot, error) {
	exists, err := s.roster.Exists(ctx, facultyID)
	if err != nil {
		return nil, fmt.Errorf("error checking faculty roster: %w", err)
	}
	if !exists {
		return nil, apperrors.NewValidationError("facultyId", "faculty is not on the roster")
	}

	if err := s.exams.AssignInvigilator(ctx, examSlotID, facultyID); err != nil {
		return nil, err
	}
	return s.exams.GetByID(ctx, examSlotID)
}

// RemoveInvigilator removes a faculty member from an exam slot's invigilator
// set; absent assignments are ignored.
func (s *ExamService) RemoveInvigilator(ctx context.Context, examSlotID, facultyID uuid.UUID) (*models.ExamSlot, error) {
	// Verify the slot exists so callers get a 404 rather than a silent no-op
	// on a bad id.
	if _, err := s.exams.GetByID(ctx, examSlotID); err != nil {
		return nil, err
	}
	if err := s.exams.RemoveInvigilator(ctx, examSlotID, facultyID); err != nil {
		return nil, err
	}
	return s.exams.GetByID(ctx, examSlotID)
}
