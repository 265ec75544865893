// Copyright (c) 2025 Ezras Nashim.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router_test

import (
	"net/http/httptest"
	"testing"

	"github.com/ezrasnashim/tehillim-chain/router"
	"github.com/ezrasnashim/tehillim-chain/testutil"
)

func TestHealthEndpoint(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	mux := router.NewRouter(conn, testutil.GetTestConfig())

	req := testutil.MakeRequest("GET", "/health", nil, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, 200)
	if w.Body.String() != "OK" {
		t.Errorf("Expected OK, got %q", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	mux := router.NewRouter(conn, testutil.GetTestConfig())

	req := testutil.MakeRequest("GET", "/", nil, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, 200)
	if w.Body.String() != "tehillim-chain API v1" {
		t.Errorf("Unexpected root body: %q", w.Body.String())
	}
}

func TestMethodRouting(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	mux := router.NewRouter(conn, testutil.GetTestConfig())

	// GET on a POST-only route is rejected by the mux.
	req := testutil.MakeRequest("GET", "/api/tehillim/complete", nil, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, 405)
}

func TestUnknownPath(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	mux := router.NewRouter(conn, testutil.GetTestConfig())

	// The root route matches only "/" exactly.
	req := testutil.MakeRequest("GET", "/no/such/path", nil, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, 404)
}
