package services

import (
	"testing"

	"go.uber.org/zap"
)

func TestDraftSaveReservesStableID(t *testing.T) {
	store := newTestStore(t)
	curator := newTestCurator(t, store, "alice", "DD")
	log := zap.NewNop()
	drafts := NewDraftService(store, NewValidator(store, NewVocabService(store, log), log), log)

	draft, err := drafts.Save(curator, "my-session", cep290Payload())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if draft.SessionName != "my-session" {
		t.Fatalf("unexpected session name %q", draft.SessionName)
	}
	if draft.StableID.StableID != "G2P00001" {
		t.Fatalf("unexpected stable ID %q", draft.StableID.StableID)
	}
	if draft.StableID.IsLive {
		t.Fatal("reserved stable ID must not be live")
	}
	if draft.GeneSymbol != "CEP290" {
		t.Fatalf("gene symbol not derived from payload: %q", draft.GeneSymbol)
	}
}

func TestDraftSaveRejectsDuplicateSessionName(t *testing.T) {
	store := newTestStore(t)
	curator := newTestCurator(t, store, "alice", "DD")
	log := zap.NewNop()
	drafts := NewDraftService(store, NewValidator(store, NewVocabService(store, log), log), log)

	if _, err := drafts.Save(curator, "my-session", cep290Payload()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	other := cep290Payload()
	other.PrivateComment = "different content"
	_, err := drafts.Save(curator, "my-session", other)
	de, ok := AsDomainError(err)
	if !ok || de.Kind != KindConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if de.Message != "A session named 'my-session' already exists" {
		t.Fatalf("unexpected message: %q", de.Message)
	}
}

func TestDraftsArePrivatePerCurator(t *testing.T) {
	store := newTestStore(t)
	alice := newTestCurator(t, store, "alice", "DD")
	bob := newTestCurator(t, store, "bob", "DD")
	log := zap.NewNop()
	drafts := NewDraftService(store, NewValidator(store, NewVocabService(store, log), log), log)

	if _, err := drafts.Save(alice, "alice-session", cep290Payload()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	_, err := drafts.Get(bob, "alice-session")
	de, ok := AsDomainError(err)
	if !ok || de.Kind != KindPermission {
		t.Fatalf("expected permission error, got %v", err)
	}
	if de.Message != "This curation session belongs to another curator" {
		t.Fatalf("unexpected message: %q", de.Message)
	}

	list, err := drafts.List(bob)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("bob should not see alice's drafts: %#v", list)
	}
}

func TestDraftUpdateReplacesPayload(t *testing.T) {
	store := newTestStore(t)
	curator := newTestCurator(t, store, "alice", "DD")
	log := zap.NewNop()
	drafts := NewDraftService(store, NewValidator(store, NewVocabService(store, log), log), log)

	if _, err := drafts.Save(curator, "my-session", cep290Payload()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	changed := cep290Payload()
	changed.Confidence.Level = "strong"
	updated, err := drafts.Update(curator, "my-session", changed)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	payload, err := updated.DecodePayload()
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if payload.Confidence.Level != "strong" {
		t.Fatalf("payload not replaced, confidence is %q", payload.Confidence.Level)
	}
}

func TestDraftDeleteRetiresStableID(t *testing.T) {
	store := newTestStore(t)
	curator := newTestCurator(t, store, "alice", "DD")
	log := zap.NewNop()
	drafts := NewDraftService(store, NewValidator(store, NewVocabService(store, log), log), log)

	draft, err := drafts.Save(curator, "my-session", cep290Payload())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := drafts.Delete(curator, "my-session"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := drafts.Get(curator, "my-session"); err == nil {
		t.Fatal("deleted draft should be gone")
	}
	sid, err := store.StableIDByValue(draft.StableID.StableID)
	if err != nil {
		t.Fatalf("stable ID lookup failed: %v", err)
	}
	if sid.IsLive || !sid.IsDeleted {
		t.Fatalf("stable ID should be retired: %+v", sid)
	}
	if sid.Comment != "Draft deleted before publication" {
		t.Fatalf("unexpected comment %q", sid.Comment)
	}

	// Der Bezeichner wird nicht neu vergeben
	next, err := store.NextStableID()
	if err != nil {
		t.Fatalf("reservation failed: %v", err)
	}
	if next.StableID != "G2P00002" {
		t.Fatalf("retired ID reused: %q", next.StableID)
	}
}
