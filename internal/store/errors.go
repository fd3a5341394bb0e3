package store

import "errors"

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyCompleted is returned when completing a review schedule
	// entry that was completed before. Completion is one-shot.
	ErrAlreadyCompleted = errors.New("review already completed")
)
