package storage

import (
	"g2p-curate/models"
)

// AttribByValue holt einen Vokabular-Eintrag über Wert und Typ.
func (s *Store) AttribByValue(value, attribType string) (*models.Attrib, error) {
	var a models.Attrib
	err := s.DB.Where("value = ? AND attrib_type = ? AND is_deleted = ?", value, attribType, false).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// MechanismTerm holt einen Eintrag aus dem Mechanismus-Vokabular über
// Typ und Wert.
func (s *Store) MechanismTerm(mtype, value string) (*models.MolecularMechanism, error) {
	var m models.MolecularMechanism
	err := s.DB.Where("type = ? AND value = ?", mtype, value).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// MechanismEvidenceTerm holt eine Evidenz-Klasse über Hauptkategorie
// (Subtype) und Wert.
func (s *Store) MechanismEvidenceTerm(subtype, value string) (*models.MolecularMechanism, error) {
	var m models.MolecularMechanism
	err := s.DB.Where("type = ? AND subtype = ? AND value = ?",
		models.MechanismTypeEvidence, subtype, value).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// PanelByName holt ein Panel über seinen Namen.
func (s *Store) PanelByName(name string) (*models.Panel, error) {
	var p models.Panel
	if err := s.DB.Where("name = ?", name).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// CuratorByUsername holt einen aktiven Curator über seinen Usernamen.
func (s *Store) CuratorByUsername(username string) (*models.Curator, error) {
	var c models.Curator
	err := s.DB.Where("username = ? AND is_active = ?", username, true).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CuratorHasPanel prüft, ob ein Curator Schreibrechte auf einem Panel hat.
func (s *Store) CuratorHasPanel(curatorID, panelID uint) (bool, error) {
	var count int64
	err := s.DB.Model(&models.CuratorPanel{}).
		Where("curator_id = ? AND panel_id = ?", curatorID, panelID).
		Count(&count).Error
	return count > 0, err
}

// LocusByName holt ein Gen über sein Symbol.
func (s *Store) LocusByName(name string) (*models.Locus, error) {
	var l models.Locus
	if err := s.DB.Where("name = ?", name).First(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}
