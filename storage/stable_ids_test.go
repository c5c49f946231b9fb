package storage

import "testing"

func TestNextStableIDSequence(t *testing.T) {
	store := newTestStore(t)

	first, err := store.NextStableID()
	if err != nil {
		t.Fatalf("first reservation failed: %v", err)
	}
	if first.StableID != "G2P00001" {
		t.Fatalf("expected G2P00001, got %q", first.StableID)
	}
	if first.IsLive {
		t.Fatal("freshly reserved stable ID must not be live")
	}

	second, err := store.NextStableID()
	if err != nil {
		t.Fatalf("second reservation failed: %v", err)
	}
	if second.StableID != "G2P00002" {
		t.Fatalf("expected G2P00002, got %q", second.StableID)
	}
}

func TestNextStableIDSkipsNothingAfterRetirement(t *testing.T) {
	store := newTestStore(t)

	first, err := store.NextStableID()
	if err != nil {
		t.Fatalf("reservation failed: %v", err)
	}
	// Zurückgezogene Bezeichner werden nie neu vergeben
	if err := store.SetStableIDStatus(first.ID, false, true, "Draft deleted before publication"); err != nil {
		t.Fatalf("retirement failed: %v", err)
	}

	next, err := store.NextStableID()
	if err != nil {
		t.Fatalf("reservation after retirement failed: %v", err)
	}
	if next.StableID != "G2P00002" {
		t.Fatalf("retired IDs must not be reused, got %q", next.StableID)
	}

	retired, err := store.StableIDByValue("G2P00001")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if retired.IsLive || !retired.IsDeleted {
		t.Fatalf("unexpected status: %+v", retired)
	}
	if retired.Comment != "Draft deleted before publication" {
		t.Fatalf("unexpected comment: %q", retired.Comment)
	}
}

func TestSetStableIDStatusGoesLive(t *testing.T) {
	store := newTestStore(t)

	sid, err := store.NextStableID()
	if err != nil {
		t.Fatalf("reservation failed: %v", err)
	}
	if err := store.SetStableIDStatus(sid.ID, true, false, ""); err != nil {
		t.Fatalf("going live failed: %v", err)
	}
	live, err := store.StableIDByValue(sid.StableID)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if !live.IsLive || live.IsDeleted {
		t.Fatalf("unexpected status: %+v", live)
	}
}
