package storage

import "errors"

// Error taxonomy for the persistence layer. Callers match with errors.Is;
// detail is carried in the wrapped message.
var (
	// ErrSchema covers DDL and connectivity failures. Fatal at startup.
	ErrSchema = errors.New("schema error")

	// ErrStorage covers query and transaction failures at runtime.
	ErrStorage = errors.New("storage error")

	// ErrNotFound is returned when a referenced entity is absent.
	ErrNotFound = errors.New("not found")

	// ErrValidation is returned for malformed or conflicting input.
	ErrValidation = errors.New("invalid input")
)
