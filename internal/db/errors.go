package db

import "errors"

// Sentinel errors for index operations.
var (
	ErrIndexNotFound = errors.New("db: index not found")
	ErrIndexExists   = errors.New("db: index already exists")
	ErrInvalidID     = errors.New("db: invalid document id")
	ErrClosed        = errors.New("db: index closed")
)

// Op constants name the storage operation for error context.
const (
	OpCreate      = "CREATE"
	OpOpen        = "OPEN"
	OpClose       = "CLOSE"
	OpGetInternal = "GET_INTERNAL"
	OpSetInternal = "SET_INTERNAL"
	OpIndex       = "INDEX"
	OpBatch       = "BATCH"
	OpDelete      = "DELETE"
	OpSearch      = "SEARCH"
	OpFetch       = "FETCH"
	OpCount       = "COUNT"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
