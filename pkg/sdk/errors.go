package esgrid

import "github.com/kailas-cloud/esgrid/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound          = domain.ErrNotFound
	ErrAlreadyExists     = domain.ErrAlreadyExists
	ErrInvalidRequest    = domain.ErrInvalidRequest
	ErrUnknownField      = domain.ErrUnknownField
	ErrInvalidOperand    = domain.ErrInvalidOperand
	ErrIdentityExhausted = domain.ErrIdentityExhausted
)
