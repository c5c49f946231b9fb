package services

import (
	"errors"
	"fmt"

	"g2p-curate/models"
	"g2p-curate/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RecordService bündelt die Operationen auf publizierten Records, die
// keinen eigenen Service haben.
type RecordService struct {
	Store  *storage.Store
	Logger *zap.Logger
}

// NewRecordService erstellt einen neuen RecordService.
func NewRecordService(store *storage.Store, logger *zap.Logger) *RecordService {
	return &RecordService{Store: store, Logger: logger}
}

// Get liefert einen aktiven Record samt aller Verknüpfungen.
func (r *RecordService) Get(stableID string) (*models.LocusGenotypeDisease, error) {
	rec, err := r.Store.RecordByStableID(stableID)
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

// Delete markiert einen Record samt Kind-Zeilen als gelöscht. Die
// Zeilen bleiben erhalten und der Schlüssel wird für spätere Records
// wieder frei; der StableID wird nie neu vergeben.
func (r *RecordService) Delete(curator *models.Curator, stableID, reason string) error {
	err := r.Store.Transaction(func(tx *storage.Store) error {
		rec, err := loadActiveRecord(tx, stableID)
		if err != nil {
			return err
		}
		if err := tx.TombstoneRecord(rec.ID); err != nil {
			return err
		}
		comment := reason
		if comment == "" {
			comment = "Record deleted"
		}
		if err := tx.SetStableIDStatus(rec.StableIDID, false, true, comment); err != nil {
			return err
		}
		tx.Audit("locus_genotype_disease", rec.ID, "delete", curator.Username,
			map[string]any{"stable_id": stableID}, map[string]any{"reason": comment})
		return nil
	})
	if err != nil {
		return err
	}
	r.Logger.Info("Record deleted",
		zap.String("stable_id", stableID),
		zap.String("curator", curator.Username))
	return nil
}
