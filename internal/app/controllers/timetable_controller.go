package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/emre/termplan/internal/app/models"
	"github.com/emre/termplan/internal/app/models/dto"
	"github.com/emre/termplan/internal/app/services"
	"github.com/emre/termplan/internal/middleware"
	"github.com/emre/termplan/internal/pkg/helpers"
)

// TimetableController handles timetable and slot placement operations
type TimetableController struct {
	timetableService *services.TimetableService
}

// NewTimetableController creates a new TimetableController
func NewTimetableController(timetableService *services.TimetableService) *TimetableController {
	return &TimetableController{timetableService: timetableService}
}

// CreateTimetable handles creating a new draft timetable
// @Summary Create timetable
// @Description Creates a new draft timetable for an academic term. Administrators only.
// @Tags timetables
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTimetableRequest true "Timetable details"
// @Success 201 {object} dto.APIResponse{data=models.Timetable} "Timetable created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Forbidden: administrator role required"
// @Router /timetables [post]
func (c *TimetableController) CreateTimetable(ctx *gin.Context) {
	var req dto.CreateTimetableRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	timetable, err := c.timetableService.CreateTimetable(ctx, req.AcademicYear, models.Term(req.Term))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(timetable))
}

// GetTimetable handles retrieving one timetable by ID
// @Summary Get timetable
// @Description Retrieves a timetable by its ID
// @Tags timetables
// @Produce json
// @Security BearerAuth
// @Param id path string true "Timetable ID" format(uuid)
// @Success 200 {object} dto.APIResponse{data=models.Timetable} "Timetable retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Timetable not found"
// @Router /timetables/{id} [get]
func (c *TimetableController) GetTimetable(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	timetable, err := c.timetableService.GetTimetable(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(timetable))
}

// PublishTimetable handles publishing a draft timetable
// @Summary Publish timetable
// @Description Moves a timetable from draft to published. Publishing is one-way and idempotent. Administrators only.
// @Tags timetables
// @Produce json
// @Security BearerAuth
// @Param id path string true "Timetable ID" format(uuid)
// @Success 200 {object} dto.APIResponse{data=models.Timetable} "Timetable published successfully"
// @Failure 404 {object} dto.ErrorResponse "Timetable not found"
// @Router /timetables/{id}/publish [post]
func (c *TimetableController) PublishTimetable(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	timetable, err := c.timetableService.PublishTimetable(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(timetable))
}

// PlaceSlot handles placing one teaching slot into a timetable
// @Summary Place teaching slot
// @Description Places a teaching slot into the timetable's weekly grid. Rejected with the full conflict list when the placement would double-book a faculty member, room or class section. Administrators only.
// @Tags timetables
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Timetable ID" format(uuid)
// @Param request body dto.PlaceSlotRequest true "Slot details"
// @Success 201 {object} dto.APIResponse{data=models.TimetableSlot} "Slot placed successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters"
// @Failure 409 {object} dto.ErrorResponse "Placement conflicts with existing slots"
// @Router /timetables/{id}/slots [post]
func (c *TimetableController) PlaceSlot(ctx *gin.Context) {
	timetableID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.PlaceSlotRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	slot := &models.TimetableSlot{
		TimetableID:  timetableID,
		FacultyID:    req.FacultyID,
		ClassID:      req.ClassID,
		DayOfWeek:    req.DayOfWeek,
		PeriodNumber: req.PeriodNumber,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		SubjectName:  req.SubjectName,
		RoomNumber:   req.RoomNumber,
	}

	placed, err := c.timetableService.PlaceSlot(ctx, slot)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(placed))
}

// ListSlots handles listing every slot of a timetable
// @Summary List timetable slots
// @Description Retrieves every teaching slot of a timetable
// @Tags timetables
// @Produce json
// @Security BearerAuth
// @Param id path string true "Timetable ID" format(uuid)
// @Success 200 {object} dto.APIResponse{data=[]models.TimetableSlot} "Slots retrieved successfully"
// @Router /timetables/{id}/slots [get]
func (c *TimetableController) ListSlots(ctx *gin.Context) {
	timetableID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	slots, err := c.timetableService.ListSlots(ctx, timetableID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(slots))
}

// RemoveSlot handles deleting one teaching slot
// @Summary Remove teaching slot
// @Description Deletes a teaching slot from the grid. Administrators only.
// @Tags timetables
// @Produce json
// @Security BearerAuth
// @Param id path string true "Timetable ID" format(uuid)
// @Param slotId path string true "Slot ID" format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Slot removed successfully"
// @Failure 404 {object} dto.ErrorResponse "Slot not found"
// @Router /timetables/{id}/slots/{slotId} [delete]
func (c *TimetableController) RemoveSlot(ctx *gin.Context) {
	slotID, ok := parseUUIDParam(ctx, "slotId")
	if !ok {
		return
	}

	if err := c.timetableService.RemoveSlot(ctx, slotID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Slot removed"}))
}

// GetFacultyLoad handles reporting a faculty member's weekly load
// @Summary Get faculty load
// @Description Reports how many slots a faculty member teaches in a timetable
// @Tags timetables
// @Produce json
// @Security BearerAuth
// @Param id path string true "Timetable ID" format(uuid)
// @Param facultyId path string true "Faculty ID" format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.FacultyLoadResponse} "Load retrieved successfully"
// @Router /timetables/{id}/faculty/{facultyId}/load [get]
func (c *TimetableController) GetFacultyLoad(ctx *gin.Context) {
	timetableID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}
	facultyID, ok := parseUUIDParam(ctx, "facultyId")
	if !ok {
		return
	}

	count, err := c.timetableService.LoadOf(ctx, timetableID, facultyID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FacultyLoadResponse{
		FacultyID:   facultyID,
		TimetableID: timetableID,
		SlotCount:   count,
	}))
}

// GetCalendar handles resolving the effective schedule for one date
// @Summary Resolve calendar for a date
// @Description Resolves the timetable's slots for a calendar date, substituting covering faculty where one-time swap overrides apply
// @Tags timetables
// @Produce json
// @Security BearerAuth
// @Param id path string true "Timetable ID" format(uuid)
// @Param date query string true "Calendar date" format(date) example(2026-03-02)
// @Success 200 {object} dto.APIResponse{data=[]models.CalendarSlot} "Calendar resolved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid or missing date"
// @Router /timetables/{id}/calendar [get]
func (c *TimetableController) GetCalendar(ctx *gin.Context) {
	timetableID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	date, err := helpers.ParseDate(ctx.Query("date"))
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid date")
		errorDetail = errorDetail.WithField("date").WithDetails("date must be provided as YYYY-MM-DD")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	calendar, err := c.timetableService.ResolveCalendar(ctx, timetableID, date)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(calendar))
}

// parseUUIDParam parses a UUID path parameter, writing a 400 response itself
// when the value is malformed.
func parseUUIDParam(ctx *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid identifier")
		errorDetail = errorDetail.WithField(name).WithDetails(name + " must be a valid UUID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return uuid.Nil, false
	}
	return id, true
}
