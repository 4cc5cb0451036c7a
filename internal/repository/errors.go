package repository

import "errors"

// Persistence error taxonomy. Services wrap these with context; handlers map
// them to HTTP status codes (409 / 404).
var (
	// ErrConflict is returned when an insert or update collides with the
	// unique (branch_id, closure_date, closure_number) triple, or any other
	// unique constraint. Not retryable without changing the conflicting field.
	ErrConflict = errors.New("duplicate record")

	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")
)
