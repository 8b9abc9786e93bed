package storage

import "errors"

// Storage errors shared by all backends.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when attempting to insert a record with a
	// key that already exists. Recorded sales points are immutable, so
	// duplicate (date, category) inserts are rejected rather than updated.
	ErrDuplicateKey = errors.New("duplicate key: recorded points are immutable")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)
