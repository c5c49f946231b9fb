package services

import (
	"context"
	"fmt"
	"testing"

	"g2p-curate/config"
	"g2p-curate/models"
	"g2p-curate/providers"
	"g2p-curate/storage"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access sql.DB: %v", err)
	}
	// Eine In-Memory-Datenbank pro Verbindung; alles über eine Verbindung
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.Attrib{}, &models.MolecularMechanism{}, &models.StableID{},
		&models.Locus{}, &models.Disease{}, &models.DiseaseSynonym{},
		&models.DiseaseOntologyTerm{}, &models.Publication{},
		&models.Curator{}, &models.Panel{}, &models.CuratorPanel{},
		&models.CurationData{}, &models.LocusGenotypeDisease{},
		&models.LGDPanel{}, &models.LGDPublication{}, &models.LGDPhenotype{},
		&models.LGDPhenotypeSummary{}, &models.LGDVariantType{},
		&models.LGDVariantDescription{}, &models.LGDVariantConsequence{},
		&models.LGDCrossCuttingModifier{}, &models.LGDMechanismSynopsis{},
		&models.LGDMechanismEvidence{}, &models.LGDComment{}, &models.AuditLog{},
	)
	if err != nil {
		t.Fatalf("auto-migration failed: %v", err)
	}

	log := zap.NewNop()
	SeedVocabulary(db, log)
	SeedDefaultPanels(db, log)
	return storage.NewStore(db, log)
}

func newTestCurator(t *testing.T, store *storage.Store, username string, panels ...string) *models.Curator {
	t.Helper()
	curator := &models.Curator{Username: username, Email: username + "@example.org", IsActive: true}
	if err := store.DB.Create(curator).Error; err != nil {
		t.Fatalf("failed to create curator: %v", err)
	}
	for _, name := range panels {
		panel, err := store.PanelByName(name)
		if err != nil {
			t.Fatalf("panel %q not seeded: %v", name, err)
		}
		link := models.CuratorPanel{CuratorID: curator.ID, PanelID: panel.ID}
		if err := store.DB.Create(&link).Error; err != nil {
			t.Fatalf("failed to assign panel: %v", err)
		}
	}
	return curator
}

func newTestLocus(t *testing.T, store *storage.Store, name, chromosome string) *models.Locus {
	t.Helper()
	locus := &models.Locus{Name: name, Chromosome: chromosome}
	if err := store.DB.Create(locus).Error; err != nil {
		t.Fatalf("failed to create locus: %v", err)
	}
	return locus
}

// fakeLiterature beantwortet Metadaten-Anfragen aus einer festen Map.
// failures lässt die ersten n Aufrufe mit einem transienten Fehler
// scheitern.
type fakeLiterature struct {
	pubs     map[string]*providers.PublicationData
	failures int
	calls    int
}

func (f *fakeLiterature) Metadata(ctx context.Context, pmid string) (*providers.PublicationData, error) {
	f.calls++
	if f.failures > 0 {
		f.failures--
		return nil, fmt.Errorf("transient upstream error")
	}
	meta, ok := f.pubs[pmid]
	if !ok {
		return nil, providers.ErrNotFound
	}
	return meta, nil
}

func (f *fakeLiterature) Name() string { return "fake-literature" }

type fakeOntology struct {
	terms map[string]*providers.OntologyTerm
}

func (f *fakeOntology) DiseaseTerm(ctx context.Context, accession, source string) (*providers.OntologyTerm, error) {
	term, ok := f.terms[accession]
	if !ok {
		return nil, providers.ErrNotFound
	}
	return term, nil
}

func (f *fakeOntology) PhenotypeTerm(ctx context.Context, accession string) (*providers.OntologyTerm, error) {
	term, ok := f.terms[accession]
	if !ok {
		return nil, providers.ErrNotFound
	}
	return term, nil
}

func (f *fakeOntology) Name() string { return "fake-ontology" }

func newTestPublisher(store *storage.Store, lit providers.Literature, ont providers.Ontology) *Publisher {
	log := zap.NewNop()
	vocab := NewVocabService(store, log)
	validator := NewValidator(store, vocab, log)
	drafts := NewDraftService(store, validator, log)
	cfg := &config.Config{LiteratureMaxAttempts: 3, LiteratureBackoffMilli: 1}
	return &Publisher{
		Config:     cfg,
		Store:      store,
		Vocab:      vocab,
		Validator:  validator,
		Drafts:     drafts,
		Literature: lit,
		Ontology:   ont,
		Logger:     log,
	}
}

func testLiterature() *fakeLiterature {
	return &fakeLiterature{pubs: map[string]*providers.PublicationData{
		"25533962": {PMID: "25533962", Title: "Joubert syndrome in the CEP290 cohort", Authors: "A Smith, B Jones", Year: 2014, Source: "pubmed"},
		"16682970": {PMID: "16682970", Title: "CEP290 mutations in ciliopathy", Authors: "C Miller", Year: 2006, Source: "pubmed"},
		"30797979": {PMID: "30797979", Title: "Functional analysis of CEP290 variants", Authors: "D Nguyen", Year: 2019, Source: "pubmed"},
	}}
}

func testOntology() *fakeOntology {
	return &fakeOntology{terms: map[string]*providers.OntologyTerm{
		"HP:0000510":    {Accession: "HP:0000510", Term: "Rod-cone dystrophy", Source: "HPO"},
		"HP:0001263":    {Accession: "HP:0001263", Term: "Global developmental delay", Source: "HPO"},
		"MONDO:0008944": {Accession: "MONDO:0008944", Term: "Joubert syndrome 5", Source: "Mondo"},
	}}
}

// cep290Payload ist ein vollständiger, publizierbarer Draft.
func cep290Payload() *models.DraftPayload {
	return &models.DraftPayload{
		Locus:    "CEP290",
		Genotype: "biallelic_autosomal",
		Disease: models.DraftDisease{
			Name: "CEP290-related Joubert syndrome",
			CrossReferences: []models.DraftDiseaseXRef{
				{Accession: "MONDO:0008944", Source: "Mondo"},
			},
		},
		Confidence: models.DraftConfidence{Level: "definitive", Justification: "Multiple unrelated families"},
		Panels:     []string{"DD"},
		Publications: []models.DraftPublication{
			{PMID: "25533962", Families: 3, AffectedIndividuals: 5, Consanguinity: "unknown", Ancestries: []string{"European"}},
			{PMID: "16682970", Families: 2, AffectedIndividuals: 2},
		},
		Phenotypes: []models.DraftPhenotype{
			{Accession: "HP:0000510", PMIDs: []string{"25533962"}},
		},
		VariantTypes: []models.DraftVariantType{
			{Term: "frameshift_variant", DeNovo: true, PMIDs: []string{"25533962"}},
		},
		VariantConsequences: []models.DraftVariantConsequence{
			{Term: "absent gene product", Support: "inferred"},
		},
		Mechanism: models.DraftMechanism{Value: "loss of function", Support: "evidence"},
		MechanismSynopses: []models.DraftSynopsis{
			{Value: "destabilising LOF", Support: "inferred"},
		},
		MechanismEvidence: []models.DraftMechanismWitness{
			{PMID: "25533962", Types: []models.DraftEvidenceType{
				{PrimaryType: "Function", SecondaryType: []string{"Biochemical"}},
			}},
		},
		PublicComment: "Well established gene-disease association",
	}
}
