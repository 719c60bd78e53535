// Package services implements the scheduling engine's operations on top of
// the storage layer. Services depend on narrow store interfaces satisfied by
// the pgx repositories; the stores own transactional locking, the services
// own validation and workflow semantics.
package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/emre/termplan/internal/app/models"
	"github.com/emre/termplan/internal/app/repositories"
	"github.com/emre/termplan/internal/config"
)

// TimetableStore persists timetables.
type TimetableStore interface {
	Create(ctx context.Context, timetable *models.Timetable) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Timetable, error)
	Publish(ctx context.Context, id uuid.UUID) error
}

// SlotStore persists teaching slots. Place and ExchangeFaculty are atomic:
// Place runs the conflict guard and the insert under one placement-key lock,
// ExchangeFaculty locks both rows for the duration of the swap.
type SlotStore interface {
	Place(ctx context.Context, slot *models.TimetableSlot) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.TimetableSlot, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByTimetable(ctx context.Context, timetableID uuid.UUID) ([]*models.TimetableSlot, error)
	ListByFaculty(ctx context.Context, timetableID, facultyID uuid.UUID) ([]*models.TimetableSlot, error)
	CountByFaculty(ctx context.Context, timetableID, facultyID uuid.UUID) (int, error)
	ExchangeFaculty(ctx context.Context, slotIDA, slotIDB uuid.UUID) error
}

// SwapStore persists swap requests. Transition applies fn to the request
// with its row locked and writes the result back atomically.
type SwapStore interface {
	Create(ctx context.Context, req *models.SwapRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.SwapRequest, error)
	Transition(ctx context.Context, id uuid.UUID, fn func(req *models.SwapRequest) error) (*models.SwapRequest, error)
	List(ctx context.Context, filter models.SwapRequestFilter) ([]*models.SwapRequest, error)
	Statistics(ctx context.Context, facultyID uuid.UUID) (*models.SwapStatistics, error)
}

// OverrideStore persists the date-scoped records written by one-time swaps.
// InsertPair writes both directions of a swap atomically: either both
// overrides land or neither does.
type OverrideStore interface {
	InsertPair(ctx context.Context, first, second *models.SwapOverride) error
	ListByDate(ctx context.Context, timetableID uuid.UUID, date time.Time) ([]*models.SwapOverride, error)
}

// ExamStore persists exam slots and invigilator assignments.
type ExamStore interface {
	ScheduleBatch(ctx context.Context, slots []*models.ExamSlot) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ExamSlot, error)
	ListByAssessment(ctx context.Context, assessmentID uuid.UUID) ([]*models.ExamSlot, error)
	DeleteByAssessment(ctx context.Context, assessmentID uuid.UUID) (int, error)
	AssignInvigilator(ctx context.Context, examSlotID, facultyID uuid.UUID) error
	RemoveInvigilator(ctx context.Context, examSlotID, facultyID uuid.UUID) error
}

// FacultyRoster reads the externally owned faculty roster.
type FacultyRoster interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Faculty, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Services holds all service instances
type Services struct {
	TimetableService *TimetableService
	SwapService      *SwapService
	ExamService      *ExamService
}

// NewServices initializes all services from the repository container
func NewServices(repos *repositories.Repositories, cfg *config.Config) *Services {
	timetableService := NewTimetableService(
		repos.TimetableRepository,
		repos.SlotRepository,
		repos.OverrideRepository,
		repos.FacultyRepository,
		cfg,
	)
	return &Services{
		TimetableService: timetableService,
		SwapService: NewSwapService(
			repos.SwapRepository,
			repos.SlotRepository,
			repos.OverrideRepository,
			repos.FacultyRepository,
			cfg,
		),
		ExamService: NewExamService(
			repos.ExamRepository,
			repos.FacultyRepository,
		),
	}
}
