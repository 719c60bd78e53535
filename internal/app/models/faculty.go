package models

import (
	"github.com/google/uuid"
)

// Faculty is institutional HR data referenced by the engine. The roster is
// consumed read-only; creation and updates happen upstream.
type Faculty struct {
	ID         uuid.UUID `json:"id" db:"id"`
	FirstName  string    `json:"firstName" db:"first_name"`
	LastName   string    `json:"lastName" db:"last_name"`
	Email      string    `json:"email" db:"email"`
	Department string    `json:"department" db:"department"`
}

// ClassSection is a taught group of students, referenced by slots only.
type ClassSection struct {
	ID      uuid.UUID `json:"id" db:"id"`
	Name    string    `json:"name" db:"name"`
	Grade   string    `json:"grade" db:"grade"`
	Section string    `json:"section" db:"section"`
}
