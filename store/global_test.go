// Copyright (c) 2025 Ezras Nashim.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store_test

import (
	"testing"
	"time"

	"github.com/ezrasnashim/tehillim-chain/store"
	"github.com/ezrasnashim/tehillim-chain/testutil"
)

func TestGetProgressInitializesAtOne(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	st := store.New(conn)

	p, err := st.GetProgress()
	if err != nil {
		t.Fatalf("GetProgress failed: %v", err)
	}
	if p.CurrentPerek != 1 {
		t.Errorf("Expected fresh progress at perek 1, got %d", p.CurrentPerek)
	}
	if p.CurrentNameID != nil {
		t.Errorf("Expected no assigned name with an empty name pool, got %v", *p.CurrentNameID)
	}
}

func TestGetProgressAssignsNameOnInit(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	st := store.New(conn)

	created, err := st.CreateName("שרה", "refuah")
	if err != nil {
		t.Fatalf("CreateName failed: %v", err)
	}

	p, err := st.GetProgress()
	if err != nil {
		t.Fatalf("GetProgress failed: %v", err)
	}
	if p.CurrentNameID == nil || *p.CurrentNameID != created.ID {
		t.Errorf("Expected the only name to be assigned, got %v", p.CurrentNameID)
	}
}

func TestAdvanceProgress(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	st := store.New(conn)

	if _, err := st.GetProgress(); err != nil {
		t.Fatalf("GetProgress failed: %v", err)
	}

	p, err := st.AdvanceProgress(1, "Rivka")
	if err != nil {
		t.Fatalf("AdvanceProgress failed: %v", err)
	}
	if p.CurrentPerek != 2 {
		t.Errorf("Expected perek 2 after completing 1, got %d", p.CurrentPerek)
	}
	if p.CompletedBy == nil || *p.CompletedBy != "Rivka" {
		t.Errorf("Expected completedBy to be recorded, got %v", p.CompletedBy)
	}

	// The advance persists.
	p, err = st.GetProgress()
	if err != nil {
		t.Fatalf("GetProgress failed: %v", err)
	}
	if p.CurrentPerek != 2 {
		t.Errorf("Expected persisted perek 2, got %d", p.CurrentPerek)
	}
}

func TestAdvanceProgressWrapsAt150(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	st := store.New(conn)

	if _, err := st.GetProgress(); err != nil {
		t.Fatalf("GetProgress failed: %v", err)
	}

	p, err := st.AdvanceProgress(150, "")
	if err != nil {
		t.Fatalf("AdvanceProgress failed: %v", err)
	}
	if p.CurrentPerek != 1 {
		t.Errorf("Expected wrap back to perek 1, got %d", p.CurrentPerek)
	}
	if p.CompletedBy != nil {
		t.Errorf("Expected anonymous completion to leave completedBy nil, got %v", *p.CompletedBy)
	}
}

func TestAdvanceProgressBumpsVersion(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	st := store.New(conn)

	first, err := st.GetProgress()
	if err != nil {
		t.Fatalf("GetProgress failed: %v", err)
	}

	advanced, err := st.AdvanceProgress(first.CurrentPerek, "")
	if err != nil {
		t.Fatalf("AdvanceProgress failed: %v", err)
	}
	if advanced.Version != first.Version+1 {
		t.Errorf("Expected version %d, got %d", first.Version+1, advanced.Version)
	}
}

func TestGetProgressWithAssignedNameReplacesExpired(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	st := store.New(conn)

	expiredID := testutil.InsertTestName(t, conn, "expired", time.Now().Add(time.Minute))
	if _, err := st.GetProgress(); err != nil {
		t.Fatalf("GetProgress failed: %v", err)
	}

	// Expire the assigned name, then add a replacement.
	if _, err := conn.Exec(`UPDATE tehillim_name SET expires_at = $1 WHERE id = $2`,
		time.Now().Add(-time.Minute), expiredID); err != nil {
		t.Fatalf("Failed to expire name: %v", err)
	}
	fresh, err := st.CreateName("חנה", "refuah")
	if err != nil {
		t.Fatalf("CreateName failed: %v", err)
	}

	pw, err := st.GetProgressWithAssignedName()
	if err != nil {
		t.Fatalf("GetProgressWithAssignedName failed: %v", err)
	}
	if pw.AssignedName == nil || pw.AssignedName.ID != fresh.ID {
		t.Fatalf("Expected the expired name to be replaced with the fresh one, got %+v", pw.AssignedName)
	}
	if pw.CurrentNameID == nil || *pw.CurrentNameID != fresh.ID {
		t.Errorf("Expected the reassignment to persist on the progress row")
	}
}

func TestGetProgressWithAssignedNameEmptyPool(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	st := store.New(conn)

	pw, err := st.GetProgressWithAssignedName()
	if err != nil {
		t.Fatalf("GetProgressWithAssignedName failed: %v", err)
	}
	if pw.AssignedName != nil {
		t.Errorf("Expected nil assigned name with empty pool, got %+v", pw.AssignedName)
	}
	if pw.CurrentPerek != 1 {
		t.Errorf("Expected perek 1, got %d", pw.CurrentPerek)
	}
}
