package view

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-jsonapi/pkg/schema"
)

var (
	// ErrMissingVariable matches MissingVariableError through errors.Is.
	ErrMissingVariable = errors.New("view: missing required variable")
	// ErrInvalidVariable matches InvalidVariableError through errors.Is.
	ErrInvalidVariable = errors.New("view: invalid variable")
	// ErrUnknownEntityType matches schema.UnknownEntityTypeError.
	ErrUnknownEntityType = schema.ErrUnknownEntityType
)

// UnknownEntityTypeError is returned when an _entities name is not registered.
type UnknownEntityTypeError = schema.UnknownEntityTypeError

// MissingVariableError reports a required variable that is absent or empty.
type MissingVariableError struct {
	Name string
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("view: missing required variable %q", e.Name)
}

// Is reports whether target is ErrMissingVariable.
func (e *MissingVariableError) Is(target error) bool {
	return target == ErrMissingVariable
}

// InvalidVariableError reports a reserved variable holding a value of the
// wrong shape.
type InvalidVariableError struct {
	Name   string
	Reason string
}

func (e *InvalidVariableError) Error() string {
	return fmt.Sprintf("view: invalid %s: %s", e.Name, e.Reason)
}

// Is reports whether target is ErrInvalidVariable.
func (e *InvalidVariableError) Is(target error) bool {
	return target == ErrInvalidVariable
}

func invalid(name, format string, args ...any) error {
	return &InvalidVariableError{Name: name, Reason: fmt.Sprintf(format, args...)}
}
