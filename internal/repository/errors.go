package repository

import "errors"

var (
	// ErrNotFound is returned when a referenced entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when an operation would violate an
	// occupancy or lifecycle invariant (resource busy, session settled,
	// invoice cancelled, insufficient stock)
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput is returned when input validation fails before
	// any statement is issued
	ErrInvalidInput = errors.New("invalid input")
)
