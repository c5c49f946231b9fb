package services

import (
	"errors"
	"fmt"
	"time"

	"g2p-curate/models"
	"g2p-curate/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MechanismService ändert den molekularen Mechanismus eines bereits
// publizierten Records. Der Mechanismus selbst darf nur gesetzt
// werden, solange er "undetermined" ist; Support, Kategorisierungen
// und Evidenz sind jederzeit änderbar.
type MechanismService struct {
	Store  *storage.Store
	Vocab  *VocabService
	Logger *zap.Logger
}

// NewMechanismService erstellt einen neuen MechanismService.
func NewMechanismService(store *storage.Store, vocab *VocabService, logger *zap.Logger) *MechanismService {
	return &MechanismService{Store: store, Vocab: vocab, Logger: logger}
}

// MechanismUpdate ist die Änderungsanfrage. Leere Felder bleiben
// unangetastet.
type MechanismUpdate struct {
	Mechanism string                         `json:"molecular_mechanism,omitempty"`
	Support   string                         `json:"mechanism_support,omitempty"`
	Synopses  []models.DraftSynopsis         `json:"mechanism_synopsis,omitempty"`
	Evidence  []models.DraftMechanismWitness `json:"mechanism_evidence,omitempty"`
}

func (u *MechanismUpdate) empty() bool {
	return u.Mechanism == "" && u.Support == "" && len(u.Synopses) == 0 && len(u.Evidence) == 0
}

// Update führt die Änderung in einer Transaktion aus. Eine logische
// Änderung setzt den Review-Zeitstempel genau einmal neu, egal wie
// viele Teilfelder sie berührt.
func (m *MechanismService) Update(curator *models.Curator, stableID string, req *MechanismUpdate) (*models.LocusGenotypeDisease, error) {
	if req.empty() {
		return nil, validationErr("No mechanism fields to update", nil)
	}

	err := m.Store.Transaction(func(tx *storage.Store) error {
		rec, err := tx.RecordByStableID(stableID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundErr(fmt.Sprintf("G2P ID not found '%s'", stableID))
		}
		if err != nil {
			return err
		}
		if rec.IsDeleted {
			return notFoundErr(fmt.Sprintf("G2P ID not found '%s'", stableID))
		}

		txVocab := &VocabService{Store: tx, Logger: m.Logger}
		before := fmt.Sprintf("%s/%s", rec.Mechanism.Value, rec.MechanismSupport.Value)
		changed := false
		mechanism := &rec.Mechanism

		if req.Mechanism != "" && req.Mechanism != rec.Mechanism.Value {
			if rec.Mechanism.Value != models.MechanismUndetermined {
				return permissionErr(fmt.Sprintf(
					"Cannot update the molecular mechanism for record '%s': the mechanism is already set",
					stableID))
			}
			newMech, err := txVocab.Mechanism(req.Mechanism)
			if err != nil {
				return err
			}
			// Eindeutigkeit des vollen Schlüssels bleibt gewahrt
			dup, err := tx.ActiveRecordByKey(rec.LocusID, rec.GenotypeID, rec.DiseaseID, newMech.ID, rec.ID)
			if err != nil {
				return err
			}
			if dup != nil {
				return conflictErr(fmt.Sprintf(
					"Found another record with same locus, genotype, disease and molecular mechanism. Please check G2P ID '%s'",
					dup.StableID.StableID),
					map[string]any{"stable_id": dup.StableID.StableID})
			}
			rec.MechanismID = newMech.ID
			mechanism = newMech
			changed = true
		}

		if req.Support != "" && req.Support != rec.MechanismSupport.Value {
			support, err := txVocab.MechanismSupport(req.Support)
			if err != nil {
				return err
			}
			rec.MechanismSupportID = support.ID
			rec.MechanismSupport = *support
			changed = true
		}

		for _, syn := range req.Synopses {
			term, err := txVocab.Synopsis(syn.Value)
			if err != nil {
				return err
			}
			if err := txVocab.CheckSynopsisCompatible(term, mechanism); err != nil {
				return err
			}
			link := &models.LGDMechanismSynopsis{LGDID: rec.ID, SynopsisID: term.ID}
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
			changed = true
		}

		for _, ev := range req.Evidence {
			pub, err := tx.PublicationByPMID(ev.PMID)
			if err != nil {
				return err
			}
			linked := false
			if pub != nil {
				linked, err = tx.HasActivePublication(rec.ID, pub.ID)
				if err != nil {
					return err
				}
			}
			if !linked {
				return validationErr(fmt.Sprintf(
					"Please link the publication '%s' to the record before adding evidence", ev.PMID),
					map[string]any{"pmid": ev.PMID})
			}
			for _, et := range ev.Types {
				for _, value := range et.SecondaryType {
					term, err := txVocab.EvidenceTerm(et.PrimaryType, value)
					if err != nil {
						return err
					}
					if _, _, err := tx.FindOrInsertLGDMechanismEvidence(&models.LGDMechanismEvidence{
						LGDID:         rec.ID,
						EvidenceID:    term.ID,
						PublicationID: pub.ID,
						Description:   ev.Description,
					}); err != nil {
						return err
					}
				}
			}
			changed = true
		}

		// Support "evidence" verlangt mindestens eine aktive Evidenz-Zeile
		if rec.MechanismSupport.Value == models.MechanismSupportEvidence {
			count, err := tx.ActiveEvidenceCount(rec.ID)
			if err != nil {
				return err
			}
			if count == 0 {
				return validationErr(
					"Mechanism support 'evidence' requires at least one evidence entry", nil)
			}
		}

		if changed {
			now := time.Now().UTC()
			rec.DateReview = &now
			if err := tx.SaveRecord(rec); err != nil {
				return err
			}
			after := fmt.Sprintf("%s/%s", mechanism.Value, rec.MechanismSupport.Value)
			tx.Audit("locus_genotype_disease", rec.ID, "update", curator.Username,
				map[string]any{"mechanism": before}, map[string]any{"mechanism": after})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.Logger.Info("Mechanism updated",
		zap.String("stable_id", stableID),
		zap.String("curator", curator.Username))
	return m.Store.RecordByStableID(stableID)
}
