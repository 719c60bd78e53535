package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	TimetableRepository *TimetableRepository
	SlotRepository      *SlotRepository
	SwapRepository      *SwapRepository
	OverrideRepository  *OverrideRepository
	ExamRepository      *ExamRepository
	FacultyRepository   *FacultyRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		TimetableRepository: NewTimetableRepository(db),
		SlotRepository:      NewSlotRepository(db),
		SwapRepository:      NewSwapRepository(db),
		OverrideRepository:  NewOverrideRepository(db),
		ExamRepository:      NewExamRepository(db),
		FacultyRepository:   NewFacultyRepository(db),
	}
}
