package db

import "errors"

// Sentinel errors for engine operations.
var (
	ErrDocumentNotFound = errors.New("db: document not found")
	ErrConflict         = errors.New("db: version conflict")
	ErrIndexNotFound    = errors.New("db: index not found")
	ErrIndexExists      = errors.New("db: index already exists")
	ErrKeyNotFound      = errors.New("db: key not found")
)

// Op constants name the engine or Redis operation for error context.
const (
	OpPing        = "PING"
	OpCreateIndex = "INDICES.CREATE"
	OpIndexExists = "INDICES.EXISTS"
	OpRefresh     = "INDICES.REFRESH"
	OpSearch      = "SEARCH"
	OpIndex       = "INDEX"
	OpDelete      = "DELETE"
	OpBulk        = "BULK"
	OpEval        = "EVAL"
	OpGet         = "GET"
	OpSet         = "SET"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
