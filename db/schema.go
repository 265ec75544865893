// Copyright (c) 2025 Ezras Nashim.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
//
// The DDL is restricted to the dialect both supported drivers share:
// TEXT primary keys, explicit timestamps bound from Go (no NOW()
// defaults), and partial indexes.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Dedication names, purged lazily once expired
CREATE TABLE IF NOT EXISTS tehillim_name (
    id TEXT PRIMARY KEY,
    hebrew_name TEXT NOT NULL,
    reason TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    expires_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tehillim_name_expires ON tehillim_name(expires_at);

-- Global rotation cursor (single row)
CREATE TABLE IF NOT EXISTS global_progress (
    id TEXT PRIMARY KEY,
    current_perek INTEGER NOT NULL DEFAULT 1 CHECK (current_perek >= 1 AND current_perek <= 150),
    current_name_id TEXT,
    last_updated TIMESTAMP NOT NULL,
    completed_by TEXT,
    version INTEGER NOT NULL DEFAULT 1
);

-- Chains
CREATE TABLE IF NOT EXISTS chain (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    reason TEXT NOT NULL,
    slug TEXT NOT NULL UNIQUE,
    creator_device_id TEXT,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    current_lap INTEGER NOT NULL DEFAULT 1,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_chain_slug ON chain(slug);
CREATE INDEX IF NOT EXISTS idx_chain_active ON chain(is_active);

-- Chain readings: append-only claim/complete log
CREATE TABLE IF NOT EXISTS chain_reading (
    id TEXT PRIMARY KEY,
    chain_id TEXT NOT NULL REFERENCES chain(id) ON DELETE CASCADE,
    psalm_number INTEGER NOT NULL CHECK (psalm_number >= 1 AND psalm_number <= 171),
    device_id TEXT NOT NULL,
    status TEXT NOT NULL CHECK (status IN ('reading', 'completed')),
    lap INTEGER NOT NULL,
    started_at TIMESTAMP NOT NULL,
    completed_at TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_chain_reading_chain ON chain_reading(chain_id, status);
CREATE INDEX IF NOT EXISTS idx_chain_reading_device ON chain_reading(chain_id, device_id, status);
CREATE INDEX IF NOT EXISTS idx_chain_reading_lap ON chain_reading(chain_id, lap, status);

-- At most one active claim per psalm per chain
CREATE UNIQUE INDEX IF NOT EXISTS idx_chain_reading_exclusive
    ON chain_reading(chain_id, psalm_number) WHERE status = 'reading';

-- Analytics events (book completions, per-psalm completions)
CREATE TABLE IF NOT EXISTS analytics_event (
    id TEXT PRIMARY KEY,
    event_type TEXT NOT NULL,
    details TEXT,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analytics_event_type ON analytics_event(event_type, created_at);
`
