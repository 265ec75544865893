// Copyright (c) 2025 Ezras Nashim.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ezrasnashim/tehillim-chain/cliparse"
	"github.com/ezrasnashim/tehillim-chain/db"
	"github.com/ezrasnashim/tehillim-chain/ident"
	"github.com/ezrasnashim/tehillim-chain/models"
	"github.com/ezrasnashim/tehillim-chain/store"
)

var dbSeq atomic.Int64

// SetupTestDB opens a fresh in-memory sqlite database with the full
// schema. Each call gets its own database, so tests are isolated and
// the suite needs no running Postgres.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := fmt.Sprintf(
		"file:testdb%d?mode=memory&cache=shared&_time_format=sqlite&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)",
		dbSeq.Add(1),
	)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// A single connection keeps the shared in-memory database alive and
	// sidesteps sqlite writer contention in concurrent tests.
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3446,
		DatabaseURL:  "file:unused?mode=memory",
		DatabaseType: "sqlite",
	}
}

// CreateTestChain creates a chain through the store and returns it.
func CreateTestChain(t *testing.T, conn *sql.DB, name string) models.Chain {
	t.Helper()

	chain, err := store.New(conn).CreateChain(name, "test reason", "creator-device")
	if err != nil {
		t.Fatalf("Failed to create test chain: %v", err)
	}
	return chain
}

// InsertTestName inserts a dedication name with a caller-chosen expiry,
// bypassing the store so tests can create already-expired rows.
func InsertTestName(t *testing.T, conn *sql.DB, hebrewName string, expiresAt time.Time) string {
	t.Helper()

	id := ident.NewID()
	_, err := conn.Exec(`
		INSERT INTO tehillim_name (id, hebrew_name, reason, created_at, expires_at)
		VALUES ($1, $2, 'refuah', $3, $4)
	`, id, hebrewName, time.Now().Add(-time.Hour), expiresAt)
	if err != nil {
		t.Fatalf("Failed to insert test name: %v", err)
	}
	return id
}

// CompletePsalm claims and immediately completes one unit for a device.
func CompletePsalm(t *testing.T, conn *sql.DB, chainID string, psalm int, deviceID string) {
	t.Helper()

	st := store.New(conn)
	if _, err := st.StartReading(chainID, psalm, deviceID); err != nil {
		t.Fatalf("Failed to start reading psalm %d: %v", psalm, err)
	}
	if _, _, err := st.CompleteReading(chainID, psalm, deviceID); err != nil {
		t.Fatalf("Failed to complete psalm %d: %v", psalm, err)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
