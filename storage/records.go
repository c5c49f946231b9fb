package storage

import (
	"errors"

	"g2p-curate/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// recordPreloads sind die Assoziationen, die ein vollständig geladener
// Record mitbringt.
var recordPreloads = []string{
	"StableID", "Locus", "Genotype", "Disease", "Mechanism", "MechanismSupport",
	"Confidence", "Panels.Panel", "Publications.Publication", "Phenotypes",
	"PhenotypeSummaries", "VariantTypes", "VariantDescriptions",
	"VariantConsequences.Consequence", "CrossCuttingMods.Modifier",
	"MechanismSynopses.Synopsis", "MechanismSynopses.Support",
	"MechanismEvidence.Evidence", "MechanismEvidence.Publication", "Comments",
}

// RecordByStableID holt einen Record über seinen öffentlichen
// Bezeichner, samt aller Assoziationen.
func (s *Store) RecordByStableID(value string) (*models.LocusGenotypeDisease, error) {
	sid, err := s.StableIDByValue(value)
	if err != nil {
		return nil, err
	}
	q := s.DB
	for _, p := range recordPreloads {
		q = q.Preload(p)
	}
	var rec models.LocusGenotypeDisease
	if err := q.Where("stable_id_id = ?", sid.ID).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// CreateRecord legt einen neuen Record an.
func (s *Store) CreateRecord(rec *models.LocusGenotypeDisease) error {
	return s.DB.Create(rec).Error
}

// SaveRecord persistiert Änderungen an einem Record. Geladene
// Assoziationen werden dabei nicht mitgeschrieben.
func (s *Store) SaveRecord(rec *models.LocusGenotypeDisease) error {
	return s.DB.Omit(clause.Associations).Save(rec).Error
}

// ActiveRecordByKey sucht den aktiven Record zum vollen Schlüssel
// (Locus, Genotyp, Disease, Mechanismus), optional unter Ausschluss
// eines Records. nil ohne Fehler, wenn keiner existiert.
func (s *Store) ActiveRecordByKey(locusID, genotypeID, diseaseID, mechanismID, excludeID uint) (*models.LocusGenotypeDisease, error) {
	q := s.DB.Preload("StableID").
		Where("locus_id = ? AND genotype_id = ? AND disease_id = ? AND mechanism_id = ? AND is_deleted = ?",
			locusID, genotypeID, diseaseID, mechanismID, false)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var rec models.LocusGenotypeDisease
	err := q.First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ActiveRecordsByLocus listet alle aktiven Records eines Gens.
func (s *Store) ActiveRecordsByLocus(locusID uint) ([]models.LocusGenotypeDisease, error) {
	var recs []models.LocusGenotypeDisease
	err := s.DB.Preload("StableID").Preload("Genotype").Preload("Mechanism").
		Where("locus_id = ? AND is_deleted = ?", locusID, false).
		Find(&recs).Error
	return recs, err
}

// DiseaseByNormalized sucht eine Krankheit über ihre normalisierte
// Form, ohne sie anzulegen. nil ohne Fehler, wenn keine existiert.
func (s *Store) DiseaseByNormalized(normalized string) (*models.Disease, error) {
	var d models.Disease
	err := s.DB.Where("normalized_name = ?", normalized).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// FindOrInsertDisease sucht eine Krankheit über ihre normalisierte
// Form (auch in den Synonymen) und legt sie an, wenn sie fehlt.
func (s *Store) FindOrInsertDisease(name, normalized string) (*models.Disease, bool, error) {
	var d models.Disease
	err := s.DB.Where("normalized_name = ?", normalized).First(&d).Error
	if err == nil {
		return &d, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	// Zweiter Versuch über die Synonym-Tabelle
	err = s.DB.Joins("JOIN disease_synonyms ON disease_synonyms.disease_id = diseases.id").
		Where("disease_synonyms.synonym = ?", normalized).
		First(&d).Error
	if err == nil {
		return &d, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	d = models.Disease{Name: name, NormalizedName: normalized}
	if err := s.DB.Create(&d).Error; err != nil {
		return nil, false, err
	}
	return &d, true, nil
}

// FindOrInsertDiseaseOntologyTerm verknüpft eine Krankheit mit einem
// Ontologie-Eintrag, falls noch nicht vorhanden.
func (s *Store) FindOrInsertDiseaseOntologyTerm(term *models.DiseaseOntologyTerm) (*models.DiseaseOntologyTerm, bool, error) {
	var existing models.DiseaseOntologyTerm
	err := s.DB.Where("disease_id = ? AND accession = ?", term.DiseaseID, term.Accession).
		First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	if err := s.DB.Create(term).Error; err != nil {
		return nil, false, err
	}
	return term, true, nil
}

// FindOrInsertPublication legt eine Publikation an oder liefert die
// bestehende Zeile zur PMID.
func (s *Store) FindOrInsertPublication(pub *models.Publication) (*models.Publication, bool, error) {
	var existing models.Publication
	err := s.DB.Where("pmid = ?", pub.PMID).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	if err := s.DB.Create(pub).Error; err != nil {
		return nil, false, err
	}
	return pub, true, nil
}

// PublicationByPMID holt eine Publikation über ihre PMID. nil ohne
// Fehler, wenn sie nicht existiert.
func (s *Store) PublicationByPMID(pmid string) (*models.Publication, error) {
	var pub models.Publication
	err := s.DB.Where("pmid = ?", pmid).First(&pub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pub, nil
}

// SavePublication persistiert aktualisierte Publikations-Metadaten.
func (s *Store) SavePublication(pub *models.Publication) error {
	return s.DB.Save(pub).Error
}

// AllPublications listet alle Publikationen (für den Metadaten-Refresh).
func (s *Store) AllPublications() ([]models.Publication, error) {
	var pubs []models.Publication
	err := s.DB.Find(&pubs).Error
	return pubs, err
}
