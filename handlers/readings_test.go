// Copyright (c) 2025 Ezras Nashim.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers_test

import (
	"net/http/httptest"
	"testing"

	"github.com/ezrasnashim/tehillim-chain/models"
	"github.com/ezrasnashim/tehillim-chain/store"
	"github.com/ezrasnashim/tehillim-chain/tehillim"
	"github.com/ezrasnashim/tehillim-chain/testutil"
)

func TestStartAndCompleteReading(t *testing.T) {
	conn, mux := setupRouter(t)
	chain := testutil.CreateTestChain(t, conn, "Sarah bat Miriam")

	// Join with no psalm preference; the chain assigns one.
	body := models.StartReadingRequest{DeviceID: "device-1"}
	req := testutil.MakeRequest("POST", "/api/tehillim-chains/"+chain.Slug+"/start-reading", body, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, 200)

	var reading models.ChainReading
	testutil.AssertJSON(t, w, &reading)
	if reading.PsalmNumber < 1 || reading.PsalmNumber > tehillim.UnitCount {
		t.Fatalf("Expected assigned unit in [1, %d], got %d", tehillim.UnitCount, reading.PsalmNumber)
	}
	if reading.Status != "reading" {
		t.Errorf("Expected status reading, got %q", reading.Status)
	}

	completeBody := models.CompleteReadingRequest{DeviceID: "device-1", PsalmNumber: reading.PsalmNumber}
	req = testutil.MakeRequest("POST", "/api/tehillim-chains/"+chain.Slug+"/complete", completeBody, nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, 200)

	var resp models.CompleteReadingResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Reading.Status != "completed" {
		t.Errorf("Expected completed status, got %q", resp.Reading.Status)
	}
	if resp.Reading.CompletedAt == nil {
		t.Error("Expected completedAt to be set")
	}
	if resp.Stats.TotalCompleted != 1 {
		t.Errorf("Expected 1 total completed, got %d", resp.Stats.TotalCompleted)
	}
}

func TestStartReadingSpecificPsalm(t *testing.T) {
	conn, mux := setupRouter(t)
	chain := testutil.CreateTestChain(t, conn, "Specific chain")

	body := models.StartReadingRequest{DeviceID: "device-1", PsalmNumber: 23}
	req := testutil.MakeRequest("POST", "/api/tehillim-chains/"+chain.Slug+"/start-reading", body, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, 200)

	var reading models.ChainReading
	testutil.AssertJSON(t, w, &reading)
	if reading.PsalmNumber != 23 {
		t.Errorf("Expected psalm 23, got %d", reading.PsalmNumber)
	}
}

func TestStartReadingConflict(t *testing.T) {
	conn, mux := setupRouter(t)
	chain := testutil.CreateTestChain(t, conn, "Contended chain")

	body := models.StartReadingRequest{DeviceID: "device-1", PsalmNumber: 23}
	req := testutil.MakeRequest("POST", "/api/tehillim-chains/"+chain.Slug+"/start-reading", body, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	testutil.AssertStatus(t, w, 200)

	body.DeviceID = "device-2"
	req = testutil.MakeRequest("POST", "/api/tehillim-chains/"+chain.Slug+"/start-reading", body, nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	testutil.AssertStatus(t, w, 409)
}

func TestStartReadingValidation(t *testing.T) {
	conn, mux := setupRouter(t)
	chain := testutil.CreateTestChain(t, conn, "Validation chain")

	// Missing device.
	req := testutil.MakeRequest("POST", "/api/tehillim-chains/"+chain.Slug+"/start-reading",
		models.StartReadingRequest{PsalmNumber: 23}, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	testutil.AssertStatus(t, w, 400)

	// Out-of-range unit.
	req = testutil.MakeRequest("POST", "/api/tehillim-chains/"+chain.Slug+"/start-reading",
		models.StartReadingRequest{DeviceID: "d1", PsalmNumber: 172}, nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	testutil.AssertStatus(t, w, 400)

	// Unknown chain.
	req = testutil.MakeRequest("POST", "/api/tehillim-chains/no-such-slug/start-reading",
		models.StartReadingRequest{DeviceID: "d1"}, nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	testutil.AssertStatus(t, w, 404)
}

func TestStartReadingExhausted(t *testing.T) {
	conn, mux := setupRouter(t)
	chain := testutil.CreateTestChain(t, conn, "Full chain")

	st := store.New(conn)
	for n := 1; n <= tehillim.UnitCount; n++ {
		if _, err := st.StartReading(chain.ID, n, "holder"); err != nil {
			t.Fatalf("StartReading %d failed: %v", n, err)
		}
	}

	req := testutil.MakeRequest("POST", "/api/tehillim-chains/"+chain.Slug+"/start-reading",
		models.StartReadingRequest{DeviceID: "late"}, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, 404)

	var errResp models.ErrorResponse
	testutil.AssertJSON(t, w, &errResp)
	if errResp.Error != "No psalms available - all have been completed or are being read" {
		t.Errorf("Unexpected error message: %q", errResp.Error)
	}
}

func TestCompleteReadingWithoutClaim(t *testing.T) {
	conn, mux := setupRouter(t)
	chain := testutil.CreateTestChain(t, conn, "Strict chain")

	body := models.CompleteReadingRequest{DeviceID: "device-1", PsalmNumber: 23}
	req := testutil.MakeRequest("POST", "/api/tehillim-chains/"+chain.Slug+"/complete", body, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, 404)

	var errResp models.ErrorResponse
	testutil.AssertJSON(t, w, &errResp)
	if errResp.Error != "No active reading found for this psalm" {
		t.Errorf("Unexpected error message: %q", errResp.Error)
	}
}

func TestNextAvailable(t *testing.T) {
	conn, mux := setupRouter(t)
	chain := testutil.CreateTestChain(t, conn, "Next chain")

	req := testutil.MakeRequest("GET", "/api/tehillim-chains/"+chain.Slug+"/next-available", nil, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, 200)

	var resp models.PsalmNumberResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.PsalmNumber < 1 || resp.PsalmNumber > tehillim.UnitCount {
		t.Errorf("Expected unit in [1, %d], got %d", tehillim.UnitCount, resp.PsalmNumber)
	}
}

func TestRandomAvailableExcludesPsalm(t *testing.T) {
	conn, mux := setupRouter(t)
	chain := testutil.CreateTestChain(t, conn, "Exclusion chain")

	// Leave only psalm 5 available, then exclude it.
	st := store.New(conn)
	for n := 1; n <= tehillim.UnitCount; n++ {
		if n == 5 {
			continue
		}
		if _, err := st.StartReading(chain.ID, n, "holder"); err != nil {
			t.Fatalf("StartReading %d failed: %v", n, err)
		}
	}

	req := testutil.MakeRequest("GET", "/api/tehillim-chains/"+chain.Slug+"/random-available", nil, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	testutil.AssertStatus(t, w, 200)

	var resp models.PsalmNumberResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.PsalmNumber != 5 {
		t.Errorf("Expected the only available psalm 5, got %d", resp.PsalmNumber)
	}

	req = testutil.MakeRequest("GET", "/api/tehillim-chains/"+chain.Slug+"/random-available?excludePsalm=5", nil, nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	testutil.AssertStatus(t, w, 404)

	var errResp models.ErrorResponse
	testutil.AssertJSON(t, w, &errResp)
	if errResp.Error != "No psalms available" {
		t.Errorf("Unexpected error message: %q", errResp.Error)
	}
}
