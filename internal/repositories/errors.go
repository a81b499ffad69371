package repositories

import "errors"

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicatePhone is returned when a customer insert hits the unique
	// phone index.
	ErrDuplicatePhone = errors.New("phone already registered")
)
