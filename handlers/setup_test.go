// Copyright (c) 2025 Ezras Nashim.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers_test

import (
	"database/sql"
	"net/http"
	"testing"

	"github.com/ezrasnashim/tehillim-chain/router"
	"github.com/ezrasnashim/tehillim-chain/testutil"
)

// setupRouter wires a full API router over a fresh in-memory database.
func setupRouter(t *testing.T) (*sql.DB, *http.ServeMux) {
	t.Helper()
	conn := testutil.SetupTestDB(t)
	return conn, router.NewRouter(conn, testutil.GetTestConfig())
}
