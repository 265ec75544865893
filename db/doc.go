// Copyright (c) 2025 Ezras Nashim.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and
indexes. The DDL sticks to the dialect shared by lib/pq and modernc
sqlite: TEXT primary keys, timestamps bound from Go, partial indexes.

# Tables

The schema includes:

  - tehillim_name: Dedication names with expiry timestamps
  - global_progress: The single global rotation cursor row
  - chain: Named chains with slug and lap counter
  - chain_reading: Append-only claim/complete log per chain
  - analytics_event: Completion events

# Invariants enforced in the schema

  - global_progress.current_perek stays within [1, 150] (CHECK)
  - chain_reading.psalm_number stays within [1, 171] (CHECK)
  - chain.slug is unique
  - at most one 'reading' row per (chain_id, psalm_number), via the
    partial unique index idx_chain_reading_exclusive

The chain_reading log is never deleted from; statistics and lap
availability are derived views over it.
*/
package db
