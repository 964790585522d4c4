package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidRequest signals a malformed grid request or entity. Caller's fault.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnknownField signals a filter, sort or aggregate naming a field the catalog lacks.
	ErrUnknownField = errors.New("unknown field")
	// ErrInvalidOperand signals an operator applied to a value or field it cannot handle.
	ErrInvalidOperand = errors.New("invalid operand")
	// ErrIdentityExhausted signals that identity assignment kept colliding.
	ErrIdentityExhausted = errors.New("identity assignment exhausted")
)

// FieldError wraps ErrUnknownField with the offending field name.
// It also matches ErrInvalidRequest so transports map it to a 400.
type FieldError struct {
	Field string
	Where string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %q in %s", ErrUnknownField.Error(), e.Field, e.Where)
}

// Is reports whether target is ErrUnknownField or ErrInvalidRequest.
func (e *FieldError) Is(target error) bool {
	return target == ErrUnknownField || target == ErrInvalidRequest
}

// NewUnknownField creates an unknown field error for the given request section.
func NewUnknownField(field, where string) error {
	return &FieldError{Field: field, Where: where}
}

// InvalidRequestf formats a request validation error wrapping ErrInvalidRequest.
func InvalidRequestf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}
