package repository

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrConflict indicates an insert collided with a uniqueness constraint.
	ErrConflict = errors.New("repository: conflict")
)
