// Package repository defines persistence contracts for board entities.
// Postgres implementations live here; in-memory implementations for tests
// and local runs live under memory/.
package repository

import "errors"

var (
	// ErrNotFound signals that the referenced row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail signals a uniqueness violation on users.email.
	ErrDuplicateEmail = errors.New("email already registered")
)
