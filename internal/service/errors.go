package service

import (
	"errors"
	"fmt"

	"server-deck/internal/validation"
)

// ErrNotFound marks a lookup for an id with no active record.
var ErrNotFound = errors.New("server not found")

// ValidationError carries field-keyed messages for a rejected request.
type ValidationError struct {
	Fields validation.Errors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

// StorageError marks a blob store failure. It is surfaced to clients as a
// generic failure, never with internal detail.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string { return "storage failure: " + e.Err.Error() }
func (e *StorageError) Unwrap() error { return e.Err }

// PersistenceError marks a datastore failure.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string { return "persistence failure: " + e.Err.Error() }
func (e *PersistenceError) Unwrap() error { return e.Err }
