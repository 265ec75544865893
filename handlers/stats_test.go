// Copyright (c) 2025 Ezras Nashim.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers_test

import (
	"net/http/httptest"
	"testing"

	"github.com/ezrasnashim/tehillim-chain/models"
	"github.com/ezrasnashim/tehillim-chain/testutil"
)

func TestStatsTotal(t *testing.T) {
	conn, mux := setupRouter(t)

	req := testutil.MakeRequest("GET", "/api/tehillim-chains/stats/total", nil, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, 200)

	var resp models.TotalResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Total != 0 {
		t.Errorf("Expected 0 completions, got %d", resp.Total)
	}

	chain := testutil.CreateTestChain(t, conn, "Counted chain")
	testutil.CompletePsalm(t, conn, chain.ID, 1, "device-1")
	testutil.CompletePsalm(t, conn, chain.ID, 2, "device-1")

	req = testutil.MakeRequest("GET", "/api/tehillim-chains/stats/total", nil, nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, 200)
	testutil.AssertJSON(t, w, &resp)
	if resp.Total != 2 {
		t.Errorf("Expected 2 completions, got %d", resp.Total)
	}
}

func TestStatsGlobalCached(t *testing.T) {
	conn, mux := setupRouter(t)

	chain := testutil.CreateTestChain(t, conn, "Cached chain")
	testutil.CompletePsalm(t, conn, chain.ID, 1, "device-1")

	req := testutil.MakeRequest("GET", "/api/tehillim-chains/stats/global", nil, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, 200)

	var first models.GlobalChainStats
	testutil.AssertJSON(t, w, &first)
	if first.TotalRead != 1 {
		t.Errorf("Expected 1 total read, got %d", first.TotalRead)
	}

	// A write outside the completion endpoint does not invalidate the
	// cache, so the stale value is served.
	testutil.CompletePsalm(t, conn, chain.ID, 2, "device-2")

	req = testutil.MakeRequest("GET", "/api/tehillim-chains/stats/global", nil, nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	var second models.GlobalChainStats
	testutil.AssertJSON(t, w, &second)
	if second.TotalRead != 1 {
		t.Errorf("Expected cached value 1, got %d", second.TotalRead)
	}
}

func TestStatsGlobalInvalidatedByCompletion(t *testing.T) {
	conn, mux := setupRouter(t)

	chain := testutil.CreateTestChain(t, conn, "Fresh stats chain")
	testutil.CompletePsalm(t, conn, chain.ID, 1, "device-1")

	// Prime the cache.
	req := testutil.MakeRequest("GET", "/api/tehillim-chains/stats/global", nil, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	testutil.AssertStatus(t, w, 200)

	// Completing through the API drops the cached value.
	start := models.StartReadingRequest{DeviceID: "device-2", PsalmNumber: 2}
	req = testutil.MakeRequest("POST", "/api/tehillim-chains/"+chain.Slug+"/start-reading", start, nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	testutil.AssertStatus(t, w, 200)

	complete := models.CompleteReadingRequest{DeviceID: "device-2", PsalmNumber: 2}
	req = testutil.MakeRequest("POST", "/api/tehillim-chains/"+chain.Slug+"/complete", complete, nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	testutil.AssertStatus(t, w, 200)

	req = testutil.MakeRequest("GET", "/api/tehillim-chains/stats/global", nil, nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	var stats models.GlobalChainStats
	testutil.AssertJSON(t, w, &stats)
	if stats.TotalRead != 2 {
		t.Errorf("Expected fresh value 2 after invalidation, got %d", stats.TotalRead)
	}
	if stats.UniqueReaders != 2 {
		t.Errorf("Expected 2 unique readers, got %d", stats.UniqueReaders)
	}
}

func TestStatsActiveCount(t *testing.T) {
	conn, mux := setupRouter(t)

	testutil.CreateTestChain(t, conn, "One")
	testutil.CreateTestChain(t, conn, "Two")

	req := testutil.MakeRequest("GET", "/api/tehillim-chains/stats/active-count", nil, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, 200)

	var resp models.CountResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Count != 2 {
		t.Errorf("Expected 2 active chains, got %d", resp.Count)
	}
}
