package repository

import "errors"

// Sentinel errors returned by ProjectStore implementations. Callers match
// them with errors.Is; implementations may wrap them with context.
var (
	// ErrValidation marks malformed create/update input. Nothing is persisted.
	ErrValidation = errors.New("invalid project")

	// ErrDuplicateName is returned when a create or rename would violate
	// name uniqueness.
	ErrDuplicateName = errors.New("project name already exists")

	// ErrNotFound is returned when an operation references a project id
	// that does not exist, regardless of enabled state.
	ErrNotFound = errors.New("project not found")

	// ErrStoreBusy surfaces storage-engine contention (an overlapping
	// invocation holding the database lock).
	ErrStoreBusy = errors.New("project store is busy")
)
