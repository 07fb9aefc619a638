package engine

import "errors"

var (
	// ErrNotFound is returned when a collection, alias or point does not exist.
	ErrNotFound = errors.New("not found")

	// ErrBadInput is returned for malformed requests (unknown vector name,
	// dimension mismatch, empty selector, invalid config).
	ErrBadInput = errors.New("bad input")

	// ErrAlreadyExists is returned when creating a collection or alias whose
	// name is already taken.
	ErrAlreadyExists = errors.New("already exists")

	// ErrClosed is returned when the engine has been closed.
	ErrClosed = errors.New("engine closed")

	// ErrCorrupt is returned when a persisted snapshot cannot be decoded.
	ErrCorrupt = errors.New("corrupt snapshot")
)
