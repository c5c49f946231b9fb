package storage

import (
	"testing"

	"g2p-curate/models"
)

func TestFindOrInsertDiseaseByNormalizedForm(t *testing.T) {
	store := newTestStore(t)

	first, created, err := store.FindOrInsertDisease("Joubert syndrome type 5", "5 joubert syndrome")
	if err != nil || !created {
		t.Fatalf("first insert failed: created=%v err=%v", created, err)
	}

	// Andere Schreibweise, gleiche normalisierte Form
	second, created, err := store.FindOrInsertDisease("JOUBERT SYNDROME, TYPE V", "5 joubert syndrome")
	if err != nil {
		t.Fatalf("second lookup failed: %v", err)
	}
	if created || second.ID != first.ID {
		t.Fatalf("expected deduplication, got created=%v id=%d", created, second.ID)
	}
	// Der ursprünglich gespeicherte Anzeigename bleibt
	if second.Name != "Joubert syndrome type 5" {
		t.Fatalf("display name changed: %q", second.Name)
	}
}

func TestFindOrInsertDiseaseFallsBackToSynonyms(t *testing.T) {
	store := newTestStore(t)

	disease, _, err := store.FindOrInsertDisease("Joubert syndrome 5", "5 joubert syndrome")
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	syn := models.DiseaseSynonym{DiseaseID: disease.ID, Synonym: "5 cerebelloparenchymal disorder"}
	if err := store.DB.Create(&syn).Error; err != nil {
		t.Fatalf("synonym insert failed: %v", err)
	}

	found, created, err := store.FindOrInsertDisease("Cerebelloparenchymal disorder 5", "5 cerebelloparenchymal disorder")
	if err != nil {
		t.Fatalf("synonym lookup failed: %v", err)
	}
	if created || found.ID != disease.ID {
		t.Fatalf("expected synonym match, got created=%v id=%d", created, found.ID)
	}
}

func TestFindOrInsertPublicationDeduplicatesByPMID(t *testing.T) {
	store := newTestStore(t)

	first, created, err := store.FindOrInsertPublication(&models.Publication{PMID: "25533962", Title: "Original title"})
	if err != nil || !created {
		t.Fatalf("first insert failed: created=%v err=%v", created, err)
	}
	second, created, err := store.FindOrInsertPublication(&models.Publication{PMID: "25533962", Title: "Different title"})
	if err != nil {
		t.Fatalf("second lookup failed: %v", err)
	}
	if created || second.ID != first.ID {
		t.Fatalf("expected existing row, got created=%v", created)
	}
	if second.Title != "Original title" {
		t.Fatalf("stored metadata must not be overwritten on lookup: %q", second.Title)
	}
}
