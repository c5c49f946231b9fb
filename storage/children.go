package storage

import (
	"errors"

	"g2p-curate/models"

	"gorm.io/gorm"
)

// Die FindOrInsert-Methoden dieses Files folgen alle demselben Muster:
// Zeile über den fachlichen Schlüssel suchen (auch gelöschte!), bei
// Treffer den Tombstone zurücksetzen statt eine zweite Zeile anzulegen,
// sonst neu anlegen. Rückgabe ist die Zeile plus ob sie neu ist.

// revive setzt den Tombstone einer bestehenden Zeile zurück.
func (s *Store) revive(row any) error {
	return s.DB.Model(row).Update("is_deleted", false).Error
}

// FindOrInsertLGDPanel verknüpft einen Record mit einem Panel.
func (s *Store) FindOrInsertLGDPanel(lgdID, panelID uint) (*models.LGDPanel, bool, error) {
	var row models.LGDPanel
	err := s.DB.Where("lgd_id = ? AND panel_id = ?", lgdID, panelID).First(&row).Error
	if err == nil {
		if row.IsDeleted {
			if err := s.revive(&row); err != nil {
				return nil, false, err
			}
			row.IsDeleted = false
		}
		return &row, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	row = models.LGDPanel{LGDID: lgdID, PanelID: panelID}
	if err := s.DB.Create(&row).Error; err != nil {
		return nil, false, err
	}
	return &row, true, nil
}

// FindOrInsertLGDPublication verknüpft einen Record mit einer
// Publikation. Bestehende Familien-Daten bleiben unangetastet.
func (s *Store) FindOrInsertLGDPublication(link *models.LGDPublication) (*models.LGDPublication, bool, error) {
	var row models.LGDPublication
	err := s.DB.Where("lgd_id = ? AND publication_id = ?", link.LGDID, link.PublicationID).
		First(&row).Error
	if err == nil {
		if row.IsDeleted {
			if err := s.revive(&row); err != nil {
				return nil, false, err
			}
			row.IsDeleted = false
		}
		return &row, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	if err := s.DB.Create(link).Error; err != nil {
		return nil, false, err
	}
	return link, true, nil
}

// FindOrInsertLGDPhenotype verknüpft einen Record mit einem HPO-Term.
func (s *Store) FindOrInsertLGDPhenotype(ph *models.LGDPhenotype) (*models.LGDPhenotype, bool, error) {
	var row models.LGDPhenotype
	err := s.DB.Where("lgd_id = ? AND accession = ? AND publication_id = ?",
		ph.LGDID, ph.Accession, ph.PublicationID).First(&row).Error
	if err == nil {
		if row.IsDeleted {
			if err := s.revive(&row); err != nil {
				return nil, false, err
			}
			row.IsDeleted = false
		}
		return &row, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	if err := s.DB.Create(ph).Error; err != nil {
		return nil, false, err
	}
	return ph, true, nil
}

// FindOrInsertLGDPhenotypeSummary speichert ein Phänotyp-Summary.
func (s *Store) FindOrInsertLGDPhenotypeSummary(sum *models.LGDPhenotypeSummary) (*models.LGDPhenotypeSummary, bool, error) {
	var row models.LGDPhenotypeSummary
	err := s.DB.Where("lgd_id = ? AND summary = ? AND publication_id = ?",
		sum.LGDID, sum.Summary, sum.PublicationID).First(&row).Error
	if err == nil {
		if row.IsDeleted {
			if err := s.revive(&row); err != nil {
				return nil, false, err
			}
			row.IsDeleted = false
		}
		return &row, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	if err := s.DB.Create(sum).Error; err != nil {
		return nil, false, err
	}
	return sum, true, nil
}

// FindOrInsertLGDVariantType speichert einen beobachteten Variantentyp.
func (s *Store) FindOrInsertLGDVariantType(vt *models.LGDVariantType) (*models.LGDVariantType, bool, error) {
	var row models.LGDVariantType
	err := s.DB.Where("lgd_id = ? AND term = ? AND publication_id = ?",
		vt.LGDID, vt.Term, vt.PublicationID).First(&row).Error
	if err == nil {
		if row.IsDeleted {
			if err := s.revive(&row); err != nil {
				return nil, false, err
			}
			row.IsDeleted = false
		}
		return &row, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	if err := s.DB.Create(vt).Error; err != nil {
		return nil, false, err
	}
	return vt, true, nil
}

// FindOrInsertLGDVariantDescription speichert eine HGVS-Beschreibung.
func (s *Store) FindOrInsertLGDVariantDescription(vd *models.LGDVariantDescription) (*models.LGDVariantDescription, bool, error) {
	var row models.LGDVariantDescription
	err := s.DB.Where("lgd_id = ? AND description = ? AND publication_id = ?",
		vd.LGDID, vd.Description, vd.PublicationID).First(&row).Error
	if err == nil {
		if row.IsDeleted {
			if err := s.revive(&row); err != nil {
				return nil, false, err
			}
			row.IsDeleted = false
		}
		return &row, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	if err := s.DB.Create(vd).Error; err != nil {
		return nil, false, err
	}
	return vd, true, nil
}

// FindOrInsertLGDVariantConsequence speichert eine Konsequenz auf
// Proteinebene.
func (s *Store) FindOrInsertLGDVariantConsequence(vc *models.LGDVariantConsequence) (*models.LGDVariantConsequence, bool, error) {
	var row models.LGDVariantConsequence
	err := s.DB.Where("lgd_id = ? AND consequence_id = ?", vc.LGDID, vc.ConsequenceID).
		First(&row).Error
	if err == nil {
		if row.IsDeleted {
			if err := s.revive(&row); err != nil {
				return nil, false, err
			}
			row.IsDeleted = false
		}
		return &row, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	if err := s.DB.Create(vc).Error; err != nil {
		return nil, false, err
	}
	return vc, true, nil
}

// FindOrInsertLGDCrossCuttingModifier speichert einen Modifier.
func (s *Store) FindOrInsertLGDCrossCuttingModifier(lgdID, modifierID uint) (*models.LGDCrossCuttingModifier, bool, error) {
	var row models.LGDCrossCuttingModifier
	err := s.DB.Where("lgd_id = ? AND modifier_id = ?", lgdID, modifierID).First(&row).Error
	if err == nil {
		if row.IsDeleted {
			if err := s.revive(&row); err != nil {
				return nil, false, err
			}
			row.IsDeleted = false
		}
		return &row, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	row = models.LGDCrossCuttingModifier{LGDID: lgdID, ModifierID: modifierID}
	if err := s.DB.Create(&row).Error; err != nil {
		return nil, false, err
	}
	return &row, true, nil
}

// FindOrInsertLGDMechanismSynopsis speichert eine Kategorisierung.
// Bei bestehender (auch gelöschter) Zeile wird der Support aktualisiert.
func (s *Store) FindOrInsertLGDMechanismSynopsis(syn *models.LGDMechanismSynopsis) (*models.LGDMechanismSynopsis, bool, error) {
	var row models.LGDMechanismSynopsis
	err := s.DB.Where("lgd_id = ? AND synopsis_id = ?", syn.LGDID, syn.SynopsisID).
		First(&row).Error
	if err == nil {
		updates := map[string]any{"is_deleted": false}
		if syn.SupportID != 0 {
			updates["support_id"] = syn.SupportID
		}
		if err := s.DB.Model(&row).Updates(updates).Error; err != nil {
			return nil, false, err
		}
		row.IsDeleted = false
		if syn.SupportID != 0 {
			row.SupportID = syn.SupportID
		}
		return &row, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	if err := s.DB.Create(syn).Error; err != nil {
		return nil, false, err
	}
	return syn, true, nil
}

// FindOrInsertLGDMechanismEvidence speichert funktionale Evidenz.
func (s *Store) FindOrInsertLGDMechanismEvidence(ev *models.LGDMechanismEvidence) (*models.LGDMechanismEvidence, bool, error) {
	var row models.LGDMechanismEvidence
	err := s.DB.Where("lgd_id = ? AND evidence_id = ? AND publication_id = ?",
		ev.LGDID, ev.EvidenceID, ev.PublicationID).First(&row).Error
	if err == nil {
		if row.IsDeleted {
			if err := s.revive(&row); err != nil {
				return nil, false, err
			}
			row.IsDeleted = false
		}
		return &row, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	if err := s.DB.Create(ev).Error; err != nil {
		return nil, false, err
	}
	return ev, true, nil
}

// FindOrInsertLGDComment speichert einen Kuratoren-Kommentar. Der
// fachliche Schlüssel ist (Record, Text, Autor); ein schon vorhandener
// Kommentar wird reaktiviert statt dupliziert.
func (s *Store) FindOrInsertLGDComment(c *models.LGDComment) (*models.LGDComment, bool, error) {
	var row models.LGDComment
	err := s.DB.Where("lgd_id = ? AND comment = ? AND curator_id = ?",
		c.LGDID, c.Comment, c.CuratorID).First(&row).Error
	if err == nil {
		if row.IsDeleted {
			if err := s.revive(&row); err != nil {
				return nil, false, err
			}
			row.IsDeleted = false
		}
		return &row, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	if err := s.DB.Create(c).Error; err != nil {
		return nil, false, err
	}
	return c, true, nil
}

// ActiveEvidenceCount zählt die aktiven Evidenz-Zeilen eines Records.
func (s *Store) ActiveEvidenceCount(lgdID uint) (int64, error) {
	var count int64
	err := s.DB.Model(&models.LGDMechanismEvidence{}).
		Where("lgd_id = ? AND is_deleted = ?", lgdID, false).
		Count(&count).Error
	return count, err
}

// HasActivePublication prüft, ob eine Publikation aktiv mit dem Record
// verknüpft ist.
func (s *Store) HasActivePublication(lgdID, publicationID uint) (bool, error) {
	var count int64
	err := s.DB.Model(&models.LGDPublication{}).
		Where("lgd_id = ? AND publication_id = ? AND is_deleted = ?", lgdID, publicationID, false).
		Count(&count).Error
	return count > 0, err
}

// TombstoneRecord markiert einen Record und alle Kind-Zeilen als
// gelöscht. Der StableID-Status wird vom Aufrufer gesetzt.
func (s *Store) TombstoneRecord(lgdID uint) error {
	children := []any{
		&models.LGDPanel{}, &models.LGDPublication{}, &models.LGDPhenotype{},
		&models.LGDPhenotypeSummary{}, &models.LGDVariantType{},
		&models.LGDVariantDescription{}, &models.LGDVariantConsequence{},
		&models.LGDCrossCuttingModifier{}, &models.LGDMechanismSynopsis{},
		&models.LGDMechanismEvidence{}, &models.LGDComment{},
	}
	for _, child := range children {
		if err := s.DB.Model(child).Where("lgd_id = ?", lgdID).
			Update("is_deleted", true).Error; err != nil {
			return err
		}
	}
	return s.DB.Model(&models.LocusGenotypeDisease{}).Where("id = ?", lgdID).
		Update("is_deleted", true).Error
}
