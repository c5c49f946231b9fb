package services

import (
	"fmt"
	"reflect"

	"g2p-curate/models"
	"g2p-curate/storage"

	"go.uber.org/zap"
)

// Validator prüft Drafts in zwei Phasen: beim Speichern nur das
// Nötigste (Phase 1), beim Publizieren die volle Strenge (Phase 2).
// Beide Phasen sind frei von Seiteneffekten.
type Validator struct {
	Store  *storage.Store
	Vocab  *VocabService
	Logger *zap.Logger
}

// NewValidator erstellt einen neuen Validator.
func NewValidator(store *storage.Store, vocab *VocabService, logger *zap.Logger) *Validator {
	return &Validator{Store: store, Vocab: vocab, Logger: logger}
}

// ValidateDraft ist Phase 1: Locus gesetzt, keine inhaltsgleiche
// Session desselben Curators, Schreibrechte auf allen genannten Panels.
func (v *Validator) ValidateDraft(curator *models.Curator, sessionName string, payload *models.DraftPayload) error {
	if payload.Locus == "" {
		return validationErr("The locus is mandatory to save a draft",
			map[string]any{"field": "locus"})
	}

	for _, panelName := range payload.Panels {
		panel, err := v.Store.PanelByName(panelName)
		if err != nil {
			return validationErr(fmt.Sprintf("Invalid panel '%s'", panelName), nil)
		}
		ok, err := v.Store.CuratorHasPanel(curator.ID, panel.ID)
		if err != nil {
			return err
		}
		if !ok {
			return permissionErr(fmt.Sprintf("No permission to curate on panel '%s'", panelName))
		}
	}

	drafts, err := v.Store.DraftsByCurator(curator.ID)
	if err != nil {
		return err
	}
	for i := range drafts {
		if drafts[i].SessionName == sessionName {
			continue
		}
		other, err := drafts[i].DecodePayload()
		if err != nil {
			continue
		}
		if reflect.DeepEqual(other, payload) {
			return conflictErr(
				fmt.Sprintf("Found an existing draft with the same data under session '%s'", drafts[i].SessionName),
				map[string]any{"session_name": drafts[i].SessionName})
		}
	}
	return nil
}

// ResolvedDraft sind die beim Publizieren aufgelösten Kernreferenzen
// eines Drafts.
type ResolvedDraft struct {
	Locus      *models.Locus
	Genotype   *models.Attrib
	Confidence *models.Attrib
	Mechanism  *models.MolecularMechanism
	Support    *models.MolecularMechanism
}

// ValidateForPublication ist Phase 2: alle Pflichtfelder vorhanden,
// Locus existiert, Genotyp passt zum Chromosom, und es gibt noch
// keinen aktiven Record mit demselben Schlüssel. Ein Record unter dem
// für diesen Draft reservierten StableID (stableIDID) zählt nicht als
// Kollision, damit ein wiederholtes Publizieren ihn wiederfinden kann.
// Gibt die aufgelösten Referenzen zurück, damit der Materializer sie
// nicht erneut laden muss.
func (v *Validator) ValidateForPublication(payload *models.DraftPayload, stableIDID uint) (*ResolvedDraft, error) {
	var missing []string
	if payload.Locus == "" {
		missing = append(missing, "locus")
	}
	if payload.Disease.Name == "" {
		missing = append(missing, "disease")
	}
	if payload.Confidence.Level == "" {
		missing = append(missing, "confidence")
	}
	if payload.Genotype == "" {
		missing = append(missing, "allelic_requirement")
	}
	if payload.Mechanism.Value == "" {
		missing = append(missing, "molecular_mechanism")
	}
	if len(payload.Publications) == 0 {
		missing = append(missing, "publications")
	}
	if len(payload.Panels) == 0 {
		missing = append(missing, "panels")
	}
	if len(missing) > 0 {
		return nil, validationErr("Missing data to publish the record",
			map[string]any{"missing": missing})
	}

	locus, err := v.Store.LocusByName(payload.Locus)
	if err != nil {
		return nil, validationErr(fmt.Sprintf("Invalid locus '%s'", payload.Locus), nil)
	}

	genotype, err := v.Vocab.Genotype(payload.Genotype)
	if err != nil {
		return nil, err
	}
	if err := CheckGenotypeChromosome(genotype.Value, locus.Chromosome); err != nil {
		return nil, err
	}

	confidence, err := v.Vocab.Confidence(payload.Confidence.Level)
	if err != nil {
		return nil, err
	}
	// definitive und strong verlangen mindestens zwei Publikationen
	if (confidence.Value == "definitive" || confidence.Value == "strong") && len(payload.Publications) < 2 {
		return nil, validationErr(fmt.Sprintf(
			"Confidence '%s' requires at least two publications", confidence.Value), nil)
	}

	mechanism, err := v.Vocab.Mechanism(payload.Mechanism.Value)
	if err != nil {
		return nil, err
	}
	supportValue := payload.Mechanism.Support
	if supportValue == "" {
		supportValue = models.MechanismSupportInferred
	}
	support, err := v.Vocab.MechanismSupport(supportValue)
	if err != nil {
		return nil, err
	}
	// Gezählt werden die konkreten Evidenz-Werte, nicht die Einträge:
	// ein Eintrag ohne secondary_type belegt nichts.
	if support.Value == models.MechanismSupportEvidence && evidenceValueCount(payload.MechanismEvidence) == 0 {
		return nil, validationErr(
			"Mechanism support 'evidence' requires at least one evidence entry", nil)
	}

	// Kollision mit einem bestehenden aktiven Record
	disease, err := v.Store.DiseaseByNormalized(CleanDiseaseName(payload.Disease.Name))
	if err != nil {
		return nil, err
	}
	if disease != nil {
		existing, err := v.Store.ActiveRecordByKey(locus.ID, genotype.ID, disease.ID, mechanism.ID, 0)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.StableIDID != stableIDID {
			return nil, conflictErr(fmt.Sprintf(
				"Found another record with same locus, genotype, disease and molecular mechanism. Please check G2P ID '%s'",
				existing.StableID.StableID),
				map[string]any{"stable_id": existing.StableID.StableID})
		}
	}

	return &ResolvedDraft{
		Locus:      locus,
		Genotype:   genotype,
		Confidence: confidence,
		Mechanism:  mechanism,
		Support:    support,
	}, nil
}

// evidenceValueCount zählt die konkreten Evidenz-Werte eines Drafts.
func evidenceValueCount(entries []models.DraftMechanismWitness) int {
	n := 0
	for _, ev := range entries {
		for _, t := range ev.Types {
			n += len(t.SecondaryType)
		}
	}
	return n
}
