package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"g2p-curate/config"
	"g2p-curate/models"
	"g2p-curate/providers"
	"g2p-curate/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Publisher materialisiert einen Draft in einen publizierten Record.
// Alle Schreibzugriffe laufen in einer Transaktion und in fester
// Reihenfolge: Publikationen, Disease, Mechanismus, Record, Kinder,
// StableID, Draft-Löschung. Externe Lookups (Literatur, Ontologien)
// passieren vor der Transaktion.
type Publisher struct {
	Config     *config.Config
	Store      *storage.Store
	Vocab      *VocabService
	Validator  *Validator
	Drafts     *DraftService
	Literature providers.Literature
	Ontology   providers.Ontology
	Logger     *zap.Logger
}

// PublishResult ist das Ergebnis einer Veröffentlichung. Warning ist
// gesetzt, wenn für dasselbe Gen jetzt ein monoallelischer und ein
// biallelischer Loss-of-function-Record nebeneinander existieren;
// das blockiert nicht, wird aber gemeldet.
type PublishResult struct {
	Record  *models.LocusGenotypeDisease `json:"record"`
	Warning string                       `json:"warning,omitempty"`
}

// Publish validiert den Draft (Phase 1 und 2), materialisiert ihn und
// schaltet den stabilen Bezeichner live. Ein erneuter Aufruf für einen
// bereits teilweise publizierten Bezeichner legt keine Dubletten an.
func (p *Publisher) Publish(ctx context.Context, curator *models.Curator, sessionName string) (*PublishResult, error) {
	draft, err := p.Drafts.Get(curator, sessionName)
	if err != nil {
		return nil, err
	}
	payload, err := draft.DecodePayload()
	if err != nil {
		return nil, validationErr("Draft payload is not readable", map[string]any{"cause": err.Error()})
	}

	if err := p.Validator.ValidateDraft(curator, sessionName, payload); err != nil {
		return nil, err
	}
	resolved, err := p.Validator.ValidateForPublication(payload, draft.StableIDID)
	if err != nil {
		return nil, err
	}

	// Externe Quellen vor der Transaktion abfragen
	pubMeta := make(map[string]*providers.PublicationData, len(payload.Publications))
	for _, dp := range payload.Publications {
		meta, err := p.fetchPublication(ctx, dp.PMID)
		if err != nil {
			return nil, err
		}
		pubMeta[dp.PMID] = meta
	}
	phenoTerms := make(map[string]*providers.OntologyTerm, len(payload.Phenotypes))
	for _, ph := range payload.Phenotypes {
		term, err := p.Ontology.PhenotypeTerm(ctx, ph.Accession)
		if errors.Is(err, providers.ErrNotFound) {
			return nil, validationErr(fmt.Sprintf("Invalid phenotype accession '%s'", ph.Accession), nil)
		}
		if err != nil {
			return nil, externalErr(fmt.Sprintf("Phenotype lookup failed for '%s'", ph.Accession), err)
		}
		phenoTerms[ph.Accession] = term
	}
	xrefTerms := make(map[string]*providers.OntologyTerm, len(payload.Disease.CrossReferences))
	for _, xref := range payload.Disease.CrossReferences {
		term, err := p.Ontology.DiseaseTerm(ctx, xref.Accession, xref.Source)
		if errors.Is(err, providers.ErrNotFound) {
			return nil, validationErr(fmt.Sprintf("Invalid disease accession '%s'", xref.Accession), nil)
		}
		if err != nil {
			return nil, externalErr(fmt.Sprintf("Disease lookup failed for '%s'", xref.Accession), err)
		}
		xrefTerms[xref.Accession] = term
	}

	var record *models.LocusGenotypeDisease
	err = p.Store.Transaction(func(tx *storage.Store) error {
		// 1. Publikationen
		pubIDs := make(map[string]uint, len(payload.Publications))
		for _, dp := range payload.Publications {
			meta := pubMeta[dp.PMID]
			pub, _, err := tx.FindOrInsertPublication(&models.Publication{
				PMID:    meta.PMID,
				Title:   meta.Title,
				Authors: meta.Authors,
				Year:    meta.Year,
				DOI:     meta.DOI,
				Source:  meta.Source,
			})
			if err != nil {
				return err
			}
			pubIDs[dp.PMID] = pub.ID
		}

		// 2. Disease samt Ontologie-Querverweisen
		disease, created, err := tx.FindOrInsertDisease(payload.Disease.Name, CleanDiseaseName(payload.Disease.Name))
		if err != nil {
			return err
		}
		if created {
			p.Logger.Info("New disease created", zap.String("name", disease.Name))
		}
		for _, xref := range payload.Disease.CrossReferences {
			term := xrefTerms[xref.Accession]
			if _, _, err := tx.FindOrInsertDiseaseOntologyTerm(&models.DiseaseOntologyTerm{
				DiseaseID:   disease.ID,
				Accession:   xref.Accession,
				Source:      xref.Source,
				Term:        term.Term,
				Description: term.Description,
			}); err != nil {
				return err
			}
		}

		// 3. Record-Wurzel: über den reservierten StableID wiederauffindbar,
		// ein erneutes Publizieren findet den bestehenden Record
		var existing models.LocusGenotypeDisease
		err = tx.DB.Where("stable_id_id = ?", draft.StableIDID).First(&existing).Error
		switch {
		case err == nil:
			record = &existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			// Kollisions-Check noch einmal innerhalb der Transaktion
			dup, err := tx.ActiveRecordByKey(resolved.Locus.ID, resolved.Genotype.ID, disease.ID, resolved.Mechanism.ID, 0)
			if err != nil {
				return err
			}
			if dup != nil {
				return conflictErr(fmt.Sprintf(
					"Found another record with same locus, genotype, disease and molecular mechanism. Please check G2P ID '%s'",
					dup.StableID.StableID),
					map[string]any{"stable_id": dup.StableID.StableID})
			}
			now := time.Now().UTC()
			record = &models.LocusGenotypeDisease{
				StableIDID:              draft.StableIDID,
				LocusID:                 resolved.Locus.ID,
				GenotypeID:              resolved.Genotype.ID,
				DiseaseID:               disease.ID,
				MechanismID:             resolved.Mechanism.ID,
				MechanismSupportID:      resolved.Support.ID,
				ConfidenceID:            resolved.Confidence.ID,
				ConfidenceJustification: payload.Confidence.Justification,
				DateReview:              &now,
			}
			if err := tx.CreateRecord(record); err != nil {
				return err
			}
		default:
			return err
		}

		// 4. Kinder, jeweils get-or-create
		if err := p.materializeChildren(tx, curator, record, payload, pubIDs, phenoTerms, resolved); err != nil {
			return err
		}

		// 5. StableID live schalten, Draft entfernen
		if err := tx.SetStableIDStatus(draft.StableIDID, true, false, ""); err != nil {
			return err
		}
		if err := tx.DeleteDraft(draft.ID); err != nil {
			return err
		}
		tx.Audit("locus_genotype_disease", record.ID, "publish", curator.Username, nil, payload)
		return nil
	})
	if err != nil {
		return nil, err
	}

	full, err := p.Store.RecordByStableID(draft.StableID.StableID)
	if err != nil {
		return nil, err
	}
	result := &PublishResult{Record: full}
	if warning, err := p.genotypeConflictWarning(full); err == nil && warning != "" {
		result.Warning = warning
	}

	p.Logger.Info("Record published",
		zap.String("stable_id", draft.StableID.StableID),
		zap.String("gene", payload.Locus),
		zap.String("curator", curator.Username))
	return result, nil
}

// materializeChildren legt die Kind-Zeilen des Records an bzw. findet
// sie wieder. Die Reihenfolge entspricht der Draft-Struktur.
func (p *Publisher) materializeChildren(tx *storage.Store, curator *models.Curator,
	record *models.LocusGenotypeDisease, payload *models.DraftPayload, pubIDs map[string]uint,
	phenoTerms map[string]*providers.OntologyTerm, resolved *ResolvedDraft) error {

	txVocab := &VocabService{Store: tx, Logger: p.Logger}

	// Kind-Zeilen dürfen nur PMIDs aus der Publikationsliste des Drafts
	// referenzieren. Eine leere PMID heißt "ohne Publikation".
	pubFor := func(kind, pmid string) (uint, error) {
		if pmid == "" {
			return 0, nil
		}
		id, ok := pubIDs[pmid]
		if !ok {
			return 0, validationErr(fmt.Sprintf(
				"%s references PMID '%s' which is not linked to the record", kind, pmid),
				map[string]any{"pmid": pmid})
		}
		return id, nil
	}

	for _, panelName := range payload.Panels {
		panel, err := tx.PanelByName(panelName)
		if err != nil {
			return validationErr(fmt.Sprintf("Invalid panel '%s'", panelName), nil)
		}
		if _, _, err := tx.FindOrInsertLGDPanel(record.ID, panel.ID); err != nil {
			return err
		}
	}

	for _, dp := range payload.Publications {
		if _, _, err := tx.FindOrInsertLGDPublication(&models.LGDPublication{
			LGDID:               record.ID,
			PublicationID:       pubIDs[dp.PMID],
			Families:            dp.Families,
			AffectedIndividuals: dp.AffectedIndividuals,
			Consanguinity:       dp.Consanguinity,
			Ancestries:          strings.Join(dp.Ancestries, ", "),
			Comment:             dp.Comment,
		}); err != nil {
			return err
		}
	}

	for _, ph := range payload.Phenotypes {
		term := phenoTerms[ph.Accession]
		pmids := ph.PMIDs
		if len(pmids) == 0 {
			pmids = []string{""}
		}
		for _, pmid := range pmids {
			pubID, err := pubFor("Phenotype", pmid)
			if err != nil {
				return err
			}
			if _, _, err := tx.FindOrInsertLGDPhenotype(&models.LGDPhenotype{
				LGDID:         record.ID,
				Accession:     ph.Accession,
				Term:          term.Term,
				PublicationID: pubID,
			}); err != nil {
				return err
			}
		}
	}

	for _, sum := range payload.PhenotypeSummaries {
		pubID, err := pubFor("Phenotype summary", sum.PMID)
		if err != nil {
			return err
		}
		if _, _, err := tx.FindOrInsertLGDPhenotypeSummary(&models.LGDPhenotypeSummary{
			LGDID:         record.ID,
			Summary:       sum.Summary,
			PublicationID: pubID,
		}); err != nil {
			return err
		}
	}

	for _, vt := range payload.VariantTypes {
		pmids := vt.PMIDs
		if len(pmids) == 0 {
			pmids = []string{""}
		}
		for _, pmid := range pmids {
			pubID, err := pubFor("Variant type", pmid)
			if err != nil {
				return err
			}
			if _, _, err := tx.FindOrInsertLGDVariantType(&models.LGDVariantType{
				LGDID:         record.ID,
				Term:          vt.Term,
				PublicationID: pubID,
				DeNovo:        vt.DeNovo,
				Inherited:     vt.Inherited,
				Unknown:       vt.Unknown,
				Comment:       vt.Comment,
			}); err != nil {
				return err
			}
		}
	}

	for _, vd := range payload.VariantDescriptions {
		pmids := vd.PMIDs
		if len(pmids) == 0 {
			pmids = []string{""}
		}
		for _, pmid := range pmids {
			pubID, err := pubFor("Variant description", pmid)
			if err != nil {
				return err
			}
			if _, _, err := tx.FindOrInsertLGDVariantDescription(&models.LGDVariantDescription{
				LGDID:         record.ID,
				Description:   vd.Description,
				PublicationID: pubID,
			}); err != nil {
				return err
			}
		}
	}

	for _, vc := range payload.VariantConsequences {
		cons, err := txVocab.VariantConsequence(vc.Term)
		if err != nil {
			return err
		}
		link := &models.LGDVariantConsequence{LGDID: record.ID, ConsequenceID: cons.ID}
		if vc.Support != "" {
			support, err := txVocab.ConsequenceSupport(vc.Support)
			if err != nil {
				return err
			}
			link.SupportID = support.ID
		}
		if _, _, err := tx.FindOrInsertLGDVariantConsequence(link); err != nil {
			return err
		}
	}

	for _, ccm := range payload.CrossCuttingModifiers {
		mod, err := txVocab.CrossCuttingModifier(ccm)
		if err != nil {
			return err
		}
		if _, _, err := tx.FindOrInsertLGDCrossCuttingModifier(record.ID, mod.ID); err != nil {
			return err
		}
	}

	for _, syn := range payload.MechanismSynopses {
		term, err := txVocab.Synopsis(syn.Value)
		if err != nil {
			return err
		}
		if err := txVocab.CheckSynopsisCompatible(term, resolved.Mechanism); err != nil {
			return err
		}
		link := &models.LGDMechanismSynopsis{LGDID: record.ID, SynopsisID: term.ID}
		if syn.Support != "" {
			support, err := txVocab.MechanismSupport(syn.Support)
			if err != nil {
				return err
			}
			link.SupportID = support.ID
		}
		if _, _, err := tx.FindOrInsertLGDMechanismSynopsis(link); err != nil {
			return err
		}
	}

	for _, ev := range payload.MechanismEvidence {
		pubID, ok := pubIDs[ev.PMID]
		if !ok {
			return validationErr(fmt.Sprintf(
				"Mechanism evidence references PMID '%s' which is not linked to the record", ev.PMID),
				map[string]any{"pmid": ev.PMID})
		}
		for _, et := range ev.Types {
			for _, value := range et.SecondaryType {
				term, err := txVocab.EvidenceTerm(et.PrimaryType, value)
				if err != nil {
					return err
				}
				if _, _, err := tx.FindOrInsertLGDMechanismEvidence(&models.LGDMechanismEvidence{
					LGDID:         record.ID,
					EvidenceID:    term.ID,
					PublicationID: pubID,
					Description:   ev.Description,
				}); err != nil {
					return err
				}
			}
		}
	}

	if payload.PublicComment != "" {
		if _, _, err := tx.FindOrInsertLGDComment(&models.LGDComment{
			LGDID: record.ID, CuratorID: curator.ID, Comment: payload.PublicComment, IsPublic: true,
		}); err != nil {
			return err
		}
	}
	if payload.PrivateComment != "" {
		if _, _, err := tx.FindOrInsertLGDComment(&models.LGDComment{
			LGDID: record.ID, CuratorID: curator.ID, Comment: payload.PrivateComment, IsPublic: false,
		}); err != nil {
			return err
		}
	}
	return nil
}

// fetchPublication holt Publikations-Metadaten mit begrenzten
// Wiederholungen und wachsendem Abstand. Eine unbekannte PMID ist ein
// Validierungsfehler, ein dauerhaft nicht erreichbarer Dienst ein
// externer Fehler.
func (p *Publisher) fetchPublication(ctx context.Context, pmid string) (*providers.PublicationData, error) {
	backoff := time.Duration(p.Config.LiteratureBackoffMilli) * time.Millisecond
	var lastErr error
	for attempt := 1; attempt <= p.Config.LiteratureMaxAttempts; attempt++ {
		meta, err := p.Literature.Metadata(ctx, pmid)
		if err == nil {
			return meta, nil
		}
		if errors.Is(err, providers.ErrNotFound) {
			return nil, validationErr(fmt.Sprintf("Invalid PMID '%s'", pmid),
				map[string]any{"pmid": pmid})
		}
		lastErr = err
		p.Logger.Warn("Literature lookup failed, retrying",
			zap.String("pmid", pmid), zap.Int("attempt", attempt), zap.Error(err))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return nil, externalErr(fmt.Sprintf("Literature lookup failed for PMID '%s'", pmid), lastErr)
}

// genotypeConflictWarning prüft, ob für das Gen jetzt monoallelische
// und biallelische Loss-of-function-Records nebeneinander existieren.
func (p *Publisher) genotypeConflictWarning(record *models.LocusGenotypeDisease) (string, error) {
	return GenotypeConflictWarning(p.Store, record)
}

// GenotypeConflictWarning meldet das gleichzeitige Bestehen eines
// monoallelischen und eines biallelischen Loss-of-function-Records
// für dasselbe Gen und dieselbe Krankheit. Kein Blocker, nur ein
// Hinweis.
func GenotypeConflictWarning(store *storage.Store, record *models.LocusGenotypeDisease) (string, error) {
	if record.Mechanism.Value != models.MechanismLossOfFunction {
		return "", nil
	}
	mine := record.Genotype.Value
	var wanted string
	switch {
	case strings.HasPrefix(mine, "monoallelic"):
		wanted = "biallelic"
	case strings.HasPrefix(mine, "biallelic"):
		wanted = "monoallelic"
	default:
		return "", nil
	}

	others, err := store.ActiveRecordsByLocus(record.LocusID)
	if err != nil {
		return "", err
	}
	for i := range others {
		if others[i].ID == record.ID || others[i].DiseaseID != record.DiseaseID {
			continue
		}
		if others[i].Mechanism.Value == models.MechanismLossOfFunction &&
			strings.HasPrefix(others[i].Genotype.Value, wanted) {
			return fmt.Sprintf(
				"Both monoallelic and biallelic loss of function records exist for gene '%s' (see G2P ID '%s')",
				record.Locus.Name, others[i].StableID.StableID), nil
		}
	}
	return "", nil
}
