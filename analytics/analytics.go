// Copyright (c) 2025 Ezras Nashim.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package analytics

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/ezrasnashim/tehillim-chain/ident"
)

// Event types emitted by the coordination core.
const (
	EventBookComplete  = "book_complete"
	EventPsalmComplete = "psalm_complete"
)

// Sink receives completion events. Recording is fire-and-forget:
// implementations log failures and never surface them to callers.
type Sink interface {
	Record(eventType string, details map[string]string)
}

// DBSink appends events to the analytics_event table.
type DBSink struct {
	db *sql.DB
}

func NewDBSink(db *sql.DB) *DBSink {
	return &DBSink{db: db}
}

func (s *DBSink) Record(eventType string, details map[string]string) {
	payload, err := json.Marshal(details)
	if err != nil {
		slog.Error("failed to encode analytics event", "type", eventType, "error", err)
		return
	}

	_, err = s.db.Exec(`
		INSERT INTO analytics_event (id, event_type, details, created_at)
		VALUES ($1, $2, $3, $4)
	`, ident.NewID(), eventType, string(payload), time.Now())
	if err != nil {
		slog.Error("failed to record analytics event", "type", eventType, "error", err)
	}
}

// Discard ignores all events. Used in tests.
type Discard struct{}

func (Discard) Record(string, map[string]string) {}
