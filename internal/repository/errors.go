// Package repository defines the sentinel errors every store implementation
// maps its driver-level failures onto. The store contract itself is the
// domain-owned bar.Repository interface; implementations live under
// internal/sqlite and test doubles under repository/mocks.
package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when an insert collides with an existing id
	ErrDuplicate = errors.New("duplicate id")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)
