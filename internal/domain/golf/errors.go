package golf

import (
	"errors"
	"fmt"
)

// Error kinds matched with errors.Is by the transport layer.
var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrPreconditionFailed = errors.New("precondition failed")
)

// ValidationError reports malformed or out-of-range input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message == "" {
		return ErrValidation.Error()
	}
	return e.Message
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	entity := e.Entity
	if entity == "" {
		entity = "entity"
	}
	return entity + " not found"
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// PreconditionError reports a state prerequisite that is not met, such as scoring
// a player who was never enrolled.
type PreconditionError struct {
	Message string
}

func (e *PreconditionError) Error() string {
	if e.Message == "" {
		return ErrPreconditionFailed.Error()
	}
	return e.Message
}

func (e *PreconditionError) Is(target error) bool { return target == ErrPreconditionFailed }

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func MatchNotFound(id int64) error {
	return &NotFoundError{Entity: "match", ID: id}
}

func PlayerNotFound(id int64) error {
	return &NotFoundError{Entity: "player", ID: id}
}

// NotEnrolled is returned when a score is recorded for a player outside the match.
func NotEnrolled() error {
	return &PreconditionError{Message: "player not in this match"}
}

// IsDomainError reports whether err belongs to the domain taxonomy rather than
// an infrastructure failure.
func IsDomainError(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrPreconditionFailed)
}
