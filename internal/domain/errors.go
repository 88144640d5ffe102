package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error taxonomy. Business-rule failures map 1:1 onto HTTP problem
// responses; ErrUnavailable covers store/notification infrastructure.
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrValidation      = errors.New("validation failed")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrUnavailable     = errors.New("infrastructure unavailable")
)

// ValidationError lists the offending fields. errors.Is(err, ErrValidation)
// holds for every instance.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	return "validation failed: " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func Invalid(fields ...string) error { return &ValidationError{Fields: fields} }

// Conflictf wraps ErrConflict with a reason.
func Conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrConflict}, args...)...)
}

// Unavailable tags an infrastructure failure while keeping the cause.
func Unavailable(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}
