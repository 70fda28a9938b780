package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when a conditional insert finds the
	// slot already occupied
	ErrAlreadyExists = errors.New("already exists")

	// ErrConflict is returned when the store reports contention; retrying
	// the operation may succeed
	ErrConflict = errors.New("conflict: store contention")

	// ErrPreconditionFailed is returned when a conditional write's guard
	// no longer holds
	ErrPreconditionFailed = errors.New("precondition failed")

	// ErrForeignKeyViolation is returned when a foreign key constraint fails
	ErrForeignKeyViolation = errors.New("foreign key violation")
)
