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

// SwapController handles the slot swap negotiation workflow
type SwapController struct {
	swapService *services.SwapService
}

// NewSwapController creates a new SwapController
func NewSwapController(swapService *services.SwapService) *SwapController {
	return &SwapController{swapService: swapService}
}

// CreateSwap handles opening a new swap request
// @Summary Create swap request
// @Description Opens a swap negotiation between the caller's teaching slot and another faculty member's slot. One-time swaps require a swapDate matching both slots' weekday.
// @Tags swaps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSwapRequest true "Swap request details"
// @Success 201 {object} dto.APIResponse{data=models.SwapRequest} "Swap request created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters"
// @Failure 403 {object} dto.ErrorResponse "Caller does not own the requester slot"
// @Failure 404 {object} dto.ErrorResponse "Slot or faculty not found"
// @Router /swaps [post]
func (c *SwapController) CreateSwap(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	var req dto.CreateSwapRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	input := services.CreateSwapInput{
		RequesterFacultyID: actor.FacultyID,
		RequesterSlotID:    req.RequesterSlotID,
		TargetFacultyID:    req.TargetFacultyID,
		TargetSlotID:       req.TargetSlotID,
		RequestType:        models.SwapRequestType(req.RequestType),
		Reason:             req.Reason,
	}
	if req.SwapDate != nil {
		date, err := helpers.ParseDate(*req.SwapDate)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid swap date")
			errorDetail = errorDetail.WithField("swapDate").WithDetails("swapDate must be provided as YYYY-MM-DD")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		input.SwapDate = &date
	}

	request, err := c.swapService.Create(ctx, input)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(request))
}

// GetSwap handles retrieving one swap request
// @Summary Get swap request
// @Description Retrieves a swap request with its slot and faculty details
// @Tags swaps
// @Produce json
// @Security BearerAuth
// @Param id path string true "Swap request ID" format(uuid)
// @Success 200 {object} dto.APIResponse{data=models.SwapRequest} "Swap request retrieved"
// @Failure 404 {object} dto.ErrorResponse "Swap request not found"
// @Router /swaps/{id} [get]
func (c *SwapController) GetSwap(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	request, err := c.swapService.Get(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(request))
}

// ListSwaps handles listing swap requests with filters
// @Summary List swap requests
// @Description Lists swap requests, optionally filtered by status, type, faculty involvement and creation window
// @Tags swaps
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status" Enums(pending,accepted,rejected,cancelled,completed,failed)
// @Param requestType query string false "Filter by type" Enums(one_time,permanent)
// @Param facultyId query string false "Filter by involved faculty" format(uuid)
// @Param from query string false "Created on or after" format(date)
// @Param to query string false "Created on or before" format(date)
// @Success 200 {object} dto.APIResponse{data=[]models.SwapRequest} "Swap requests retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter values"
// @Router /swaps [get]
func (c *SwapController) ListSwaps(ctx *gin.Context) {
	var query dto.SwapListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	filter, err := buildSwapFilter(query)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid filter values")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	requests, err := c.swapService.List(ctx, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(requests))
}

// RespondToSwap handles the target faculty's accept or reject answer
// @Summary Respond to swap request
// @Description Accepts or rejects a pending swap request. Only the target faculty member may respond. Accepting a swap that needs no admin approval executes it immediately.
// @Tags swaps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Swap request ID" format(uuid)
// @Param request body dto.SwapResponseRequest true "Response"
// @Success 200 {object} dto.APIResponse{data=models.SwapRequest} "Response recorded"
// @Failure 403 {object} dto.ErrorResponse "Caller is not the target faculty member"
// @Failure 409 {object} dto.ErrorResponse "Swap request is not pending"
// @Router /swaps/{id}/respond [post]
func (c *SwapController) RespondToSwap(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.SwapResponseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	request, err := c.swapService.Respond(ctx, id, actor.FacultyID, req.Accept, req.Message)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(request))
}

// CancelSwap handles the requester withdrawing a pending swap
// @Summary Cancel swap request
// @Description Cancels a pending swap request. Only the requester may cancel.
// @Tags swaps
// @Produce json
// @Security BearerAuth
// @Param id path string true "Swap request ID" format(uuid)
// @Success 200 {object} dto.APIResponse{data=models.SwapRequest} "Swap request cancelled"
// @Failure 403 {object} dto.ErrorResponse "Caller is not the requester"
// @Failure 409 {object} dto.ErrorResponse "Swap request is not pending"
// @Router /swaps/{id}/cancel [post]
func (c *SwapController) CancelSwap(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	request, err := c.swapService.Cancel(ctx, id, actor.FacultyID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(request))
}

// DecideSwap handles the administrator's approval decision
// @Summary Decide on swap request
// @Description Approves or rejects an accepted swap request that awaits admin approval. Approval executes the swap. Administrators only.
// @Tags swaps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Swap request ID" format(uuid)
// @Param request body dto.SwapDecisionRequest true "Decision"
// @Success 200 {object} dto.APIResponse{data=models.SwapRequest} "Decision recorded"
// @Failure 403 {object} dto.ErrorResponse "Forbidden: administrator role required"
// @Failure 409 {object} dto.ErrorResponse "Swap request is not awaiting approval"
// @Router /swaps/{id}/decision [post]
func (c *SwapController) DecideSwap(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.SwapDecisionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	request, err := c.swapService.Decide(ctx, id, actor.FacultyID, req.Approve, req.Message)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(request))
}

// GetSwapStatistics handles summarizing a faculty member's swap activity
// @Summary Get swap statistics
// @Description Summarizes the caller's swap request activity
// @Tags swaps
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.SwapStatistics} "Statistics retrieved"
// @Router /swaps/statistics [get]
func (c *SwapController) GetSwapStatistics(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	stats, err := c.swapService.Statistics(ctx, actor.FacultyID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(stats))
}

// buildSwapFilter converts query parameters into a typed listing filter.
func buildSwapFilter(query dto.SwapListQuery) (models.SwapRequestFilter, error) {
	var filter models.SwapRequestFilter

	if query.Status != "" {
		status := models.SwapStatus(query.Status)
		filter.Status = &status
	}
	if query.RequestType != "" {
		requestType := models.SwapRequestType(query.RequestType)
		filter.RequestType = &requestType
	}
	if query.FacultyID != "" {
		facultyID, err := uuid.Parse(query.FacultyID)
		if err != nil {
			return filter, err
		}
		filter.FacultyID = &facultyID
	}
	if query.From != "" {
		from, err := helpers.ParseDate(query.From)
		if err != nil {
			return filter, err
		}
		filter.From = &from
	}
	if query.To != "" {
		to, err := helpers.ParseDate(query.To)
		if err != nil {
			return filter, err
		}
		filter.To = &to
	}

	return filter, nil
}

// unauthorized writes the response for a request that reached a handler
// without an authenticated actor on the context.
func unauthorized(ctx *gin.Context) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
	ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
}
