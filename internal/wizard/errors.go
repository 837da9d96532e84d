package wizard

import (
	"errors"
	"fmt"
)

var (
	ErrValidation     = errors.New("validation error")
	ErrAccessDenied   = errors.New("question not reachable yet")
	ErrWrongStage     = errors.New("operation not allowed in current stage")
	ErrSaveInProgress = errors.New("follow-up is still being generated")
	ErrSessionClosed  = errors.New("session closed")
)

// ValidationError is a blank or missing user input. It never mutates state.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is lets errors.Is(err, ErrValidation) match any ValidationError
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// AccessDeniedError is returned when selecting a question past the current one
type AccessDeniedError struct {
	QuestionID int
	CurrentID  int
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("question %d is not reachable from question %d", e.QuestionID, e.CurrentID)
}

func (e *AccessDeniedError) Is(target error) bool {
	return target == ErrAccessDenied
}
