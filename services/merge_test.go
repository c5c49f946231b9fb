package services

import (
	"context"
	"testing"

	"g2p-curate/models"

	"go.uber.org/zap"
)

// publishVariant publiziert eine Abwandlung des CEP290-Drafts.
func publishVariant(t *testing.T, pub *Publisher, curator *models.Curator, session string, mutate func(*models.DraftPayload)) *models.LocusGenotypeDisease {
	t.Helper()
	payload := cep290Payload()
	if mutate != nil {
		mutate(payload)
	}
	if _, err := pub.Drafts.Save(curator, session, payload); err != nil {
		t.Fatalf("failed to save draft %q: %v", session, err)
	}
	result, err := pub.Publish(context.Background(), curator, session)
	if err != nil {
		t.Fatalf("failed to publish %q: %v", session, err)
	}
	return result.Record
}

func TestMergeMovesChildrenAndTombstonesSource(t *testing.T) {
	store := newTestStore(t)
	curator := newTestCurator(t, store, "alice", "DD")
	newTestLocus(t, store, "CEP290", "12")
	pub := newTestPublisher(store, testLiterature(), testOntology())

	target := publishVariant(t, pub, curator, "target", nil)
	source := publishVariant(t, pub, curator, "source", func(p *models.DraftPayload) {
		p.Disease.Name = "CEP290-related Leber congenital amaurosis"
		p.Disease.CrossReferences = nil
		p.Publications = []models.DraftPublication{{PMID: "30797979", Families: 1}}
		p.Publications = append(p.Publications, models.DraftPublication{PMID: "25533962"})
		p.Phenotypes = []models.DraftPhenotype{{Accession: "HP:0001263", PMIDs: []string{"30797979"}}}
		p.MechanismEvidence = []models.DraftMechanismWitness{
			{PMID: "30797979", Types: []models.DraftEvidenceType{
				{PrimaryType: "rescue", SecondaryType: []string{"patient cells"}},
			}},
		}
	})

	svc := NewMergeService(store, zap.NewNop())
	report, err := svc.Merge(curator, []MergePair{
		{Target: target.StableID.StableID, Sources: []string{source.StableID.StableID}},
	})
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if len(report.Errors) != 0 {
		t.Fatalf("unexpected merge errors: %#v", report.Errors)
	}
	if len(report.Merged) != 1 || len(report.Merged[0].Merged) != 1 {
		t.Fatalf("unexpected merge report: %#v", report.Merged)
	}

	merged, err := store.RecordByStableID(target.StableID.StableID)
	if err != nil {
		t.Fatalf("target reload failed: %v", err)
	}
	// 25533962 und 16682970 vom Ziel, 30797979 aus der Quelle; die
	// geteilte PMID wird nicht dupliziert
	activePubs := 0
	for _, link := range merged.Publications {
		if !link.IsDeleted {
			activePubs++
		}
	}
	if activePubs != 3 {
		t.Fatalf("expected 3 active publication links after merge, got %d", activePubs)
	}
	activePhenos := 0
	for _, ph := range merged.Phenotypes {
		if !ph.IsDeleted {
			activePhenos++
		}
	}
	if activePhenos != 2 {
		t.Fatalf("expected 2 active phenotypes after merge, got %d", activePhenos)
	}

	// Quelle ist tot, ihr StableID trägt den Verweis
	gone, err := store.RecordByStableID(source.StableID.StableID)
	if err != nil {
		t.Fatalf("source reload failed: %v", err)
	}
	if !gone.IsDeleted {
		t.Fatal("source record should be tombstoned")
	}
	sid, err := store.StableIDByValue(source.StableID.StableID)
	if err != nil {
		t.Fatalf("stable ID reload failed: %v", err)
	}
	if sid.IsLive || !sid.IsDeleted {
		t.Fatalf("source stable ID should be retired: %+v", sid)
	}
	if sid.Comment != "Merged into "+target.StableID.StableID {
		t.Fatalf("unexpected stable ID comment %q", sid.Comment)
	}
}

func TestMergeRejectsDifferentGenes(t *testing.T) {
	store := newTestStore(t)
	curator := newTestCurator(t, store, "alice", "DD")
	newTestLocus(t, store, "CEP290", "12")
	newTestLocus(t, store, "TMEM67", "8")
	pub := newTestPublisher(store, testLiterature(), testOntology())

	publishVariant(t, pub, curator, "target", nil)
	publishVariant(t, pub, curator, "other-gene", func(p *models.DraftPayload) {
		p.Locus = "TMEM67"
		p.Disease.Name = "TMEM67-related Meckel syndrome"
		p.Disease.CrossReferences = nil
	})

	svc := NewMergeService(store, zap.NewNop())
	report, err := svc.Merge(curator, []MergePair{
		{Target: "G2P00001", Sources: []string{"G2P00002"}},
	})
	if err != nil {
		t.Fatalf("merge batch failed: %v", err)
	}
	if len(report.Merged) != 0 {
		t.Fatalf("nothing should have merged: %#v", report.Merged)
	}
	if len(report.Errors) != 1 {
		t.Fatalf("expected one error, got %#v", report.Errors)
	}
	want := "Cannot merge records G2P00001 and G2P00002 with different genes"
	if report.Errors[0].Message != want {
		t.Fatalf("unexpected message: %q", report.Errors[0].Message)
	}

	// Die abgelehnte Quelle bleibt unangetastet
	rec, err := store.RecordByStableID("G2P00002")
	if err != nil {
		t.Fatalf("source reload failed: %v", err)
	}
	if rec.IsDeleted {
		t.Fatal("rejected source must stay active")
	}
}

func TestMergeRejectsDifferentGenotypes(t *testing.T) {
	store := newTestStore(t)
	curator := newTestCurator(t, store, "alice", "DD")
	newTestLocus(t, store, "CEP290", "12")
	pub := newTestPublisher(store, testLiterature(), testOntology())

	publishVariant(t, pub, curator, "target", nil)
	publishVariant(t, pub, curator, "monoallelic", func(p *models.DraftPayload) {
		p.Genotype = "monoallelic_autosomal"
		p.Disease.Name = "CEP290-related Leber congenital amaurosis"
		p.Disease.CrossReferences = nil
	})

	svc := NewMergeService(store, zap.NewNop())
	report, err := svc.Merge(curator, []MergePair{
		{Target: "G2P00001", Sources: []string{"G2P00002"}},
	})
	if err != nil {
		t.Fatalf("merge batch failed: %v", err)
	}
	if len(report.Errors) != 1 {
		t.Fatalf("expected one error, got %#v", report.Errors)
	}
	want := "Cannot merge records G2P00001 and G2P00002 with different genotypes"
	if report.Errors[0].Message != want {
		t.Fatalf("unexpected message: %q", report.Errors[0].Message)
	}
}

func TestMergeIgnoresSelfReference(t *testing.T) {
	store := newTestStore(t)
	curator := newTestCurator(t, store, "alice", "DD")
	newTestLocus(t, store, "CEP290", "12")
	pub := newTestPublisher(store, testLiterature(), testOntology())

	publishVariant(t, pub, curator, "target", nil)
	publishVariant(t, pub, curator, "mergeable", func(p *models.DraftPayload) {
		p.Disease.Name = "CEP290-related Leber congenital amaurosis"
		p.Disease.CrossReferences = nil
	})

	svc := NewMergeService(store, zap.NewNop())
	report, err := svc.Merge(curator, []MergePair{
		{Target: "G2P00001", Sources: []string{"G2P00001", "G2P00002"}},
	})
	if err != nil {
		t.Fatalf("merge batch failed: %v", err)
	}
	if len(report.Errors) != 0 {
		t.Fatalf("self-reference must not produce an error: %#v", report.Errors)
	}
	if len(report.Merged) != 1 || len(report.Merged[0].Merged) != 1 || report.Merged[0].Merged[0] != "G2P00002" {
		t.Fatalf("only the real source should have merged: %#v", report.Merged)
	}

	// Das Ziel lebt weiter, sein StableID bleibt live
	target, err := store.RecordByStableID("G2P00001")
	if err != nil {
		t.Fatalf("target reload failed: %v", err)
	}
	if target.IsDeleted {
		t.Fatal("target record must survive a self-merge")
	}
	sid, err := store.StableIDByValue("G2P00001")
	if err != nil {
		t.Fatalf("stable ID reload failed: %v", err)
	}
	if !sid.IsLive || sid.IsDeleted {
		t.Fatalf("target stable ID must stay live: %+v", sid)
	}
}

func TestMergeDeduplicatesComments(t *testing.T) {
	store := newTestStore(t)
	curator := newTestCurator(t, store, "alice", "DD")
	newTestLocus(t, store, "CEP290", "12")
	pub := newTestPublisher(store, testLiterature(), testOntology())

	// Beide Records tragen denselben öffentlichen Kommentar desselben Autors
	target := publishVariant(t, pub, curator, "target", nil)
	source := publishVariant(t, pub, curator, "source", func(p *models.DraftPayload) {
		p.Disease.Name = "CEP290-related Leber congenital amaurosis"
		p.Disease.CrossReferences = nil
	})

	svc := NewMergeService(store, zap.NewNop())
	report, err := svc.Merge(curator, []MergePair{
		{Target: target.StableID.StableID, Sources: []string{source.StableID.StableID}},
	})
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if len(report.Errors) != 0 {
		t.Fatalf("unexpected merge errors: %#v", report.Errors)
	}

	merged, err := store.RecordByStableID(target.StableID.StableID)
	if err != nil {
		t.Fatalf("target reload failed: %v", err)
	}
	active := 0
	for _, c := range merged.Comments {
		if !c.IsDeleted && c.Comment == "Well established gene-disease association" {
			active++
		}
	}
	if active != 1 {
		t.Fatalf("expected exactly one active copy of the shared comment, got %d", active)
	}
}

func TestMergeContinuesAfterFailedPair(t *testing.T) {
	store := newTestStore(t)
	curator := newTestCurator(t, store, "alice", "DD")
	newTestLocus(t, store, "CEP290", "12")
	pub := newTestPublisher(store, testLiterature(), testOntology())

	publishVariant(t, pub, curator, "target", nil)
	publishVariant(t, pub, curator, "mergeable", func(p *models.DraftPayload) {
		p.Disease.Name = "CEP290-related Leber congenital amaurosis"
		p.Disease.CrossReferences = nil
	})

	svc := NewMergeService(store, zap.NewNop())
	report, err := svc.Merge(curator, []MergePair{
		{Target: "G2P00001", Sources: []string{"G2P99999", "G2P00002"}},
	})
	if err != nil {
		t.Fatalf("merge batch failed: %v", err)
	}
	if len(report.Errors) != 1 {
		t.Fatalf("expected one error, got %#v", report.Errors)
	}
	if report.Errors[0].Message != "G2P ID not found 'G2P99999'" {
		t.Fatalf("unexpected message: %q", report.Errors[0].Message)
	}
	if len(report.Merged) != 1 || len(report.Merged[0].Merged) != 1 || report.Merged[0].Merged[0] != "G2P00002" {
		t.Fatalf("valid source should still have merged: %#v", report.Merged)
	}
}
