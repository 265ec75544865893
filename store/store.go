// Copyright (c) 2025 Ezras Nashim.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when a chain, reading, or name does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNoPsalmsAvailable is returned when every unit in the current lap
	// is either completed or being read.
	ErrNoPsalmsAvailable = errors.New("no psalms available")

	// ErrPsalmTaken is returned when another device holds the active
	// claim on the requested psalm.
	ErrPsalmTaken = errors.New("psalm is already being read")

	// ErrContention is returned when an optimistic update lost too many
	// races in a row.
	ErrContention = errors.New("too much write contention")
)

// Store wraps the shared database handle with the persistence
// operations for names, the global rotation, chains, and readings.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for callers that need it (analytics).
func (s *Store) DB() *sql.DB {
	return s.db
}

// isUniqueViolation reports whether err is a unique-constraint error
// from either supported driver (lib/pq or modernc sqlite).
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
