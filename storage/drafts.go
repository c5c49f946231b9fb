package storage

import (
	"g2p-curate/models"

	"gorm.io/datatypes"
)

// CreateDraft legt einen neuen Draft an.
func (s *Store) CreateDraft(d *models.CurationData) error {
	return s.DB.Create(d).Error
}

// DraftBySession holt einen Draft über seinen Session-Namen, samt
// reserviertem StableID.
func (s *Store) DraftBySession(sessionName string) (*models.CurationData, error) {
	var d models.CurationData
	err := s.DB.Preload("StableID").Where("session_name = ?", sessionName).First(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// DraftsByCurator listet alle Drafts eines Curators.
func (s *Store) DraftsByCurator(curatorID uint) ([]models.CurationData, error) {
	var drafts []models.CurationData
	err := s.DB.Preload("StableID").
		Where("curator_id = ?", curatorID).
		Order("updated_at desc").
		Find(&drafts).Error
	return drafts, err
}

// UpdateDraftPayload ersetzt den Inhalt eines Drafts vollständig
// (last-write-wins).
func (s *Store) UpdateDraftPayload(id uint, geneSymbol string, payload datatypes.JSON) error {
	return s.DB.Model(&models.CurationData{}).Where("id = ?", id).
		Updates(map[string]any{"gene_symbol": geneSymbol, "payload": payload}).Error
}

// DeleteDraft entfernt einen Draft endgültig. Drafts sind private
// Arbeitsstände, sie bekommen keinen Tombstone.
func (s *Store) DeleteDraft(id uint) error {
	return s.DB.Delete(&models.CurationData{}, id).Error
}
