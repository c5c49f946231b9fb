package services

import (
	"errors"
	"fmt"

	"g2p-curate/models"
	"g2p-curate/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MergeService fasst Records zusammen, die dieselbe Assoziation aus
// verschiedenen Quellen beschreiben. Kuratoren benennen Ziel und
// Quellen explizit; automatisch wird nichts zusammengeführt.
type MergeService struct {
	Store  *storage.Store
	Logger *zap.Logger
}

// NewMergeService erstellt einen neuen MergeService.
func NewMergeService(store *storage.Store, logger *zap.Logger) *MergeService {
	return &MergeService{Store: store, Logger: logger}
}

// MergePair benennt einen Ziel-Record und die Quellen, die in ihn
// aufgehen sollen.
type MergePair struct {
	Target  string   `json:"target" binding:"required"`
	Sources []string `json:"sources" binding:"required"`
}

// MergeOutcome ist das Ergebnis eines gelungenen Merges.
type MergeOutcome struct {
	Target  string   `json:"target"`
	Merged  []string `json:"merged"`
	Warning string   `json:"warning,omitempty"`
}

// MergeError beschreibt ein abgelehntes Paar. Die übrigen Paare des
// Batches laufen trotzdem durch.
type MergeError struct {
	Target  string `json:"target"`
	Source  string `json:"source,omitempty"`
	Message string `json:"message"`
}

// MergeReport fasst einen Batch zusammen.
type MergeReport struct {
	Merged []MergeOutcome `json:"merged"`
	Errors []MergeError   `json:"errors,omitempty"`
}

// Merge arbeitet den Batch ab. Jedes akzeptierte (Ziel, Quelle)-Paar
// läuft in einer eigenen Transaktion; ein abgelehntes Paar hinterlässt
// keine Spuren.
func (m *MergeService) Merge(curator *models.Curator, pairs []MergePair) (*MergeReport, error) {
	report := &MergeReport{}
	for _, pair := range pairs {
		outcome := MergeOutcome{Target: pair.Target}
		for _, source := range pair.Sources {
			// Selbstreferenzen werden übergangen, nicht gemeldet
			if source == pair.Target {
				continue
			}
			if err := m.mergeOne(curator, pair.Target, source); err != nil {
				msg := err.Error()
				if de, ok := AsDomainError(err); ok {
					msg = de.Message
				}
				report.Errors = append(report.Errors, MergeError{
					Target: pair.Target, Source: source, Message: msg,
				})
				continue
			}
			outcome.Merged = append(outcome.Merged, source)
		}
		if len(outcome.Merged) > 0 {
			if target, err := m.Store.RecordByStableID(pair.Target); err == nil {
				if warning, err := GenotypeConflictWarning(m.Store, target); err == nil {
					outcome.Warning = warning
				}
			}
			report.Merged = append(report.Merged, outcome)
		}
	}
	return report, nil
}

// mergeOne führt eine einzelne Quelle in das Ziel über.
func (m *MergeService) mergeOne(curator *models.Curator, targetID, sourceID string) error {
	return m.Store.Transaction(func(tx *storage.Store) error {
		target, err := loadActiveRecord(tx, targetID)
		if err != nil {
			return err
		}
		source, err := loadActiveRecord(tx, sourceID)
		if err != nil {
			return err
		}
		if source.ID == target.ID {
			return nil
		}

		if target.LocusID != source.LocusID {
			return validationErr(fmt.Sprintf(
				"Cannot merge records %s and %s with different genes", targetID, sourceID), nil)
		}
		if target.GenotypeID != source.GenotypeID {
			return validationErr(fmt.Sprintf(
				"Cannot merge records %s and %s with different genotypes", targetID, sourceID), nil)
		}

		if err := moveChildren(tx, source, target); err != nil {
			return err
		}

		if err := tx.TombstoneRecord(source.ID); err != nil {
			return err
		}
		if err := tx.SetStableIDStatus(source.StableIDID, false, true,
			fmt.Sprintf("Merged into %s", targetID)); err != nil {
			return err
		}

		tx.Audit("locus_genotype_disease", source.ID, "merge", curator.Username,
			map[string]any{"stable_id": sourceID},
			map[string]any{"merged_into": targetID})
		tx.Audit("locus_genotype_disease", target.ID, "merge", curator.Username,
			nil, map[string]any{"absorbed": sourceID})

		m.Logger.Info("Record merged",
			zap.String("source", sourceID),
			zap.String("target", targetID),
			zap.String("curator", curator.Username))
		return nil
	})
}

// loadActiveRecord holt einen aktiven Record über seinen StableID.
func loadActiveRecord(tx *storage.Store, stableID string) (*models.LocusGenotypeDisease, error) {
	rec, err := tx.RecordByStableID(stableID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundErr(fmt.Sprintf("G2P ID not found '%s'", stableID))
	}
	if err != nil {
		return nil, err
	}
	if rec.IsDeleted {
		return nil, notFoundErr(fmt.Sprintf("G2P ID not found '%s'", stableID))
	}
	return rec, nil
}

// moveChildren überführt alle aktiven Kind-Zeilen der Quelle in das
// Ziel. Bereits vorhandene Zeilen im Ziel werden wiederverwendet statt
// dupliziert; die Quell-Zeilen bekommen anschließend über den
// Tombstone der Quelle ihren Löschvermerk.
func moveChildren(tx *storage.Store, source, target *models.LocusGenotypeDisease) error {
	for _, row := range source.Panels {
		if row.IsDeleted {
			continue
		}
		if _, _, err := tx.FindOrInsertLGDPanel(target.ID, row.PanelID); err != nil {
			return err
		}
	}
	for _, row := range source.Publications {
		if row.IsDeleted {
			continue
		}
		if _, _, err := tx.FindOrInsertLGDPublication(&models.LGDPublication{
			LGDID:               target.ID,
			PublicationID:       row.PublicationID,
			Families:            row.Families,
			AffectedIndividuals: row.AffectedIndividuals,
			Consanguinity:       row.Consanguinity,
			Ancestries:          row.Ancestries,
			Comment:             row.Comment,
		}); err != nil {
			return err
		}
	}
	for _, row := range source.Phenotypes {
		if row.IsDeleted {
			continue
		}
		if _, _, err := tx.FindOrInsertLGDPhenotype(&models.LGDPhenotype{
			LGDID:         target.ID,
			Accession:     row.Accession,
			Term:          row.Term,
			PublicationID: row.PublicationID,
		}); err != nil {
			return err
		}
	}
	for _, row := range source.PhenotypeSummaries {
		if row.IsDeleted {
			continue
		}
		if _, _, err := tx.FindOrInsertLGDPhenotypeSummary(&models.LGDPhenotypeSummary{
			LGDID:         target.ID,
			Summary:       row.Summary,
			PublicationID: row.PublicationID,
		}); err != nil {
			return err
		}
	}
	for _, row := range source.VariantTypes {
		if row.IsDeleted {
			continue
		}
		if _, _, err := tx.FindOrInsertLGDVariantType(&models.LGDVariantType{
			LGDID:         target.ID,
			Term:          row.Term,
			PublicationID: row.PublicationID,
			DeNovo:        row.DeNovo,
			Inherited:     row.Inherited,
			Unknown:       row.Unknown,
			Comment:       row.Comment,
		}); err != nil {
			return err
		}
	}
	for _, row := range source.VariantDescriptions {
		if row.IsDeleted {
			continue
		}
		if _, _, err := tx.FindOrInsertLGDVariantDescription(&models.LGDVariantDescription{
			LGDID:         target.ID,
			Description:   row.Description,
			PublicationID: row.PublicationID,
		}); err != nil {
			return err
		}
	}
	for _, row := range source.VariantConsequences {
		if row.IsDeleted {
			continue
		}
		if _, _, err := tx.FindOrInsertLGDVariantConsequence(&models.LGDVariantConsequence{
			LGDID:         target.ID,
			ConsequenceID: row.ConsequenceID,
			SupportID:     row.SupportID,
		}); err != nil {
			return err
		}
	}
	for _, row := range source.CrossCuttingMods {
		if row.IsDeleted {
			continue
		}
		if _, _, err := tx.FindOrInsertLGDCrossCuttingModifier(target.ID, row.ModifierID); err != nil {
			return err
		}
	}
	for _, row := range source.MechanismSynopses {
		if row.IsDeleted {
			continue
		}
		if _, _, err := tx.FindOrInsertLGDMechanismSynopsis(&models.LGDMechanismSynopsis{
			LGDID:      target.ID,
			SynopsisID: row.SynopsisID,
			SupportID:  row.SupportID,
		}); err != nil {
			return err
		}
	}
	for _, row := range source.MechanismEvidence {
		if row.IsDeleted {
			continue
		}
		if _, _, err := tx.FindOrInsertLGDMechanismEvidence(&models.LGDMechanismEvidence{
			LGDID:         target.ID,
			EvidenceID:    row.EvidenceID,
			PublicationID: row.PublicationID,
			Description:   row.Description,
		}); err != nil {
			return err
		}
	}
	for _, row := range source.Comments {
		if row.IsDeleted {
			continue
		}
		if _, _, err := tx.FindOrInsertLGDComment(&models.LGDComment{
			LGDID:     target.ID,
			CuratorID: row.CuratorID,
			Comment:   row.Comment,
			IsPublic:  row.IsPublic,
		}); err != nil {
			return err
		}
	}
	return nil
}
