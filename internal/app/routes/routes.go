package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/emre/termplan/internal/app/controllers"
	"github.com/emre/termplan/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	timetableController *controllers.TimetableController,
	swapController *controllers.SwapController,
	examController *controllers.ExamController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// All scheduling routes require an authenticated actor.
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.ActorAuth())

	// Grid mutations and exam scheduling additionally require the admin role.
	adminOnly := authenticated.Group("")
	adminOnly.Use(authMiddleware.AdminRequired())

	// Timetable routes
	timetables := authenticated.Group("/timetables")
	{
		timetables.GET("/:id", timetableController.GetTimetable)
		timetables.GET("/:id/slots", timetableController.ListSlots)
		timetables.GET("/:id/calendar", timetableController.GetCalendar)
		timetables.GET("/:id/faculty/:facultyId/load", timetableController.GetFacultyLoad)
	}
	timetablesAdmin := adminOnly.Group("/timetables")
	{
		timetablesAdmin.POST("", timetableController.CreateTimetable)
		timetablesAdmin.POST("/:id/publish", timetableController.PublishTimetable)
		timetablesAdmin.POST("/:id/slots", timetableController.PlaceSlot)
		timetablesAdmin.DELETE("/:id/slots/:slotId", timetableController.RemoveSlot)
	}

	// Swap workflow routes
	swaps := authenticated.Group("/swaps")
	{
		swaps.POST("", swapController.CreateSwap)
		swaps.GET("", swapController.ListSwaps)
		swaps.GET("/statistics", swapController.GetSwapStatistics)
		swaps.GET("/:id", swapController.GetSwap)
		swaps.POST("/:id/respond", swapController.RespondToSwap)
		swaps.POST("/:id/cancel", swapController.CancelSwap)
	}
	swapsAdmin := adminOnly.Group("/swaps")
	{
		swapsAdmin.POST("/:id/decision", swapController.DecideSwap)
	}

	// Exam scheduling routes
	assessments := authenticated.Group("/assessments")
	{
		assessments.GET("/:assessmentId/exam-slots", examController.ListExamSlots)
	}
	assessmentsAdmin := adminOnly.Group("/assessments")
	{
		assessmentsAdmin.POST("/:assessmentId/exam-slots", examController.ScheduleExamSlots)
		assessmentsAdmin.DELETE("/:assessmentId/exam-slots", examController.CancelAssessment)
	}
	examSlotsAdmin := adminOnly.Group("/exam-slots")
	{
		examSlotsAdmin.POST("/:examSlotId/invigilators", examController.AssignInvigilator)
		examSlotsAdmin.DELETE("/:examSlotId/invigilators/:facultyId", examController.RemoveInvigilator)
	}
}
