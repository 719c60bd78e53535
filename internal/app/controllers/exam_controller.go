package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emre/termplan/internal/app/models"
	"github.com/emre/termplan/internal/app/models/dto"
	"github.com/emre/termplan/internal/app/services"
	"github.com/emre/termplan/internal/middleware"
	"github.com/emre/termplan/internal/pkg/helpers"
)

// ExamController handles exam scheduling and invigilator assignment
type ExamController struct {
	examService *services.ExamService
}

// NewExamController creates a new ExamController
func NewExamController(examService *services.ExamService) *ExamController {
	return &ExamController{examService: examService}
}

// ScheduleExamSlots handles scheduling a batch of exam sittings
// @Summary Schedule exam slots
// @Description Schedules a batch of exam sittings for an assessment. The batch is applied all-or-nothing: any room clash, against existing sittings or within the batch, rejects the whole batch with the full conflict list. Administrators only.
// @Tags exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param assessmentId path string true "Assessment ID" format(uuid)
// @Param request body dto.ScheduleExamSlotsRequest true "Proposed sittings"
// @Success 201 {object} dto.APIResponse{data=[]models.ExamSlot} "Exam slots scheduled"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters"
// @Failure 409 {object} dto.ErrorResponse "Batch conflicts with existing sittings"
// @Router /assessments/{assessmentId}/exam-slots [post]
func (c *ExamController) ScheduleExamSlots(ctx *gin.Context) {
	assessmentID, ok := parseUUIDParam(ctx, "assessmentId")
	if !ok {
		return
	}

	var req dto.ScheduleExamSlotsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	proposed := make([]*models.ExamSlot, 0, len(req.Slots))
	for i, slotReq := range req.Slots {
		examDate, err := helpers.ParseDate(slotReq.ExamDate)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid exam date")
			errorDetail = errorDetail.WithField(sliceField(i, "examDate")).WithDetails("examDate must be provided as YYYY-MM-DD")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		proposed = append(proposed, &models.ExamSlot{
			AssessmentID: assessmentID,
			ExamDate:     examDate,
			StartTime:    slotReq.StartTime,
			EndTime:      slotReq.EndTime,
			Room:         slotReq.Room,
			BatchSection: slotReq.BatchSection,
		})
	}

	scheduled, err := c.examService.ScheduleExamSlots(ctx, assessmentID, proposed)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(scheduled))
}

// ListExamSlots handles listing an assessment's sittings
// @Summary List exam slots
// @Description Lists every scheduled sitting of an assessment with assigned invigilators
// @Tags exams
// @Produce json
// @Security BearerAuth
// @Param assessmentId path string true "Assessment ID" format(uuid)
// @Success 200 {object} dto.APIResponse{data=[]models.ExamSlot} "Exam slots retrieved"
// @Router /assessments/{assessmentId}/exam-slots [get]
func (c *ExamController) ListExamSlots(ctx *gin.Context) {
	assessmentID, ok := parseUUIDParam(ctx, "assessmentId")
	if !ok {
		return
	}

	slots, err := c.examService.ListExamSlots(ctx, assessmentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(slots))
}

// CancelAssessment handles removing every sitting of an assessment
// @Summary Cancel assessment schedule
// @Description Deletes every scheduled sitting of an assessment along with invigilator assignments. Administrators only.
// @Tags exams
// @Produce json
// @Security BearerAuth
// @Param assessmentId path string true "Assessment ID" format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Assessment schedule cancelled"
// @Router /assessments/{assessmentId}/exam-slots [delete]
func (c *ExamController) CancelAssessment(ctx *gin.Context) {
	assessmentID, ok := parseUUIDParam(ctx, "assessmentId")
	if !ok {
		return
	}

	removed, err := c.examService.CancelAssessment(ctx, assessmentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{
		Message: "Removed " + pluralize(removed, "exam slot"),
	}))
}

// AssignInvigilator handles putting a faculty member on exam duty
// @Summary Assign invigilator
// @Description Assigns a faculty member to invigilate an exam sitting. Rejected when the member teaches or invigilates elsewhere at an overlapping time. Assigning the same member twice is a no-op. Administrators only.
// @Tags exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param examSlotId path string true "Exam slot ID" format(uuid)
// @Param request body dto.AssignInvigilatorRequest true "Faculty member"
// @Success 200 {object} dto.APIResponse{data=models.ExamSlot} "Invigilator assigned"
// @Failure 404 {object} dto.ErrorResponse "Exam slot or faculty member not found"
// @Failure 409 {object} dto.ErrorResponse "Faculty member is busy at that time"
// @Router /exam-slots/{examSlotId}/invigilators [post]
func (c *ExamController) AssignInvigilator(ctx *gin.Context) {
	examSlotID, ok := parseUUIDParam(ctx, "examSlotId")
	if !ok {
		return
	}

	var req dto.AssignInvigilatorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	slot, err := c.examService.AssignInvigilator(ctx, examSlotID, req.FacultyID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(slot))
}

// sliceField names one field of one element of a request slice.
func sliceField(index int, name string) string {
	return fmt.Sprintf("slots[%d].%s", index, name)
}

func pluralize(count int, noun string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, noun)
	}
	return fmt.Sprintf("%d %ss", count, noun)
}

// RemoveInvigilator handles taking a faculty member off exam duty
// @Summary Remove invigilator
// @Description Removes a faculty member's invigilation assignment from an exam sitting. Administrators only.
// @Tags exams
// @Produce json
// @Security BearerAuth
// @Param examSlotId path string true "Exam slot ID" format(uuid)
// @Param facultyId path string true "Faculty ID" format(uuid)
// @Success 200 {object} dto.APIResponse{data=models.ExamSlot} "Invigilator removed"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Router /exam-slots/{examSlotId}/invigilators/{facultyId} [delete]
func (c *ExamController) RemoveInvigilator(ctx *gin.Context) {
	examSlotID, ok := parseUUIDParam(ctx, "examSlotId")
	if !ok {
		return
	}
	facultyID, ok := parseUUIDParam(ctx, "facultyId")
	if !ok {
		return
	}

	slot, err := c.examService.RemoveInvigilator(ctx, examSlotID, facultyID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(slot))
}
