package apperrors

import "errors"

// Engine error taxonomy. Conflicts are a normal business outcome, reported
// in full for a human decision; nothing here is retried automatically.
var (
	ErrValidation        = errors.New("validation failed")
	ErrConflict          = errors.New("scheduling conflict")
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrPermissionDenied  = errors.New("permission denied")

	// Actor token errors
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// ConflictError reports one or more conflict guard violations. It always
// carries the complete list, never just the first.
type ConflictError struct {
	Conflicts []Conflict
}

// Conflict is a detected violation of a scheduling constraint. It is a value
// object returned synchronously and never persisted.
type Conflict struct {
	Kind            ConflictKind `json:"kind"`
	Message         string       `json:"message"`
	InvolvedSlotIDs []string     `json:"involvedSlotIds"`
}

// ConflictKind tags the constraint a conflict violates.
type ConflictKind string

const (
	ConflictFaculty      ConflictKind = "faculty_conflict"
	ConflictRoom         ConflictKind = "room_conflict"
	ConflictClass        ConflictKind = "class_conflict"
	ConflictExamRoom     ConflictKind = "exam_room_conflict"
	ConflictInvigilation ConflictKind = "invigilation_conflict"
)

// Error implements the error interface.
func (e *ConflictError) Error() string {
	if len(e.Conflicts) == 0 {
		return ErrConflict.Error()
	}
	msg := e.Conflicts[0].Message
	if len(e.Conflicts) > 1 {
		return msg + " (and more)"
	}
	return msg
}

// Unwrap lets errors.Is match ErrConflict.
func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// NewConflictError wraps a non-empty conflict list.
func NewConflictError(conflicts []Conflict) *ConflictError {
	return &ConflictError{Conflicts: conflicts}
}

// ValidationError carries the offending field alongside the message.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a field-scoped validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError names the missing resource.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewNotFoundError creates a resource-scoped not found error.
func NewNotFoundError(resource string) *NotFoundError {
	return &NotFoundError{Resource: resource}
}
