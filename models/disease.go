package models

import "time"

// Disease ist eine kuratierte Krankheit. Name ist der Anzeigename,
// die Deduplizierung läuft über die normalisierte Form (siehe
// services.CleanDiseaseName) und die Synonyme.
type Disease struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name string `json:"name" gorm:"uniqueIndex;not null"`
	// Normalisierte Form des Namens (siehe services.CleanDiseaseName),
	// über die Duplikate erkannt werden
	NormalizedName string `json:"-" gorm:"index;not null"`

	Synonyms      []DiseaseSynonym      `json:"synonyms,omitempty" gorm:"foreignKey:DiseaseID"`
	OntologyTerms []DiseaseOntologyTerm `json:"ontology_terms,omitempty" gorm:"foreignKey:DiseaseID"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Disease) TableName() string {
	return "diseases"
}

// DiseaseSynonym ist ein alternativer Name derselben Krankheit.
type DiseaseSynonym struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	DiseaseID uint   `json:"disease_id" gorm:"uniqueIndex:idx_disease_synonym;not null"`
	Synonym   string `json:"synonym" gorm:"uniqueIndex:idx_disease_synonym;not null"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (DiseaseSynonym) TableName() string {
	return "disease_synonyms"
}

// DiseaseOntologyTerm verknüpft eine Krankheit mit einem externen
// Ontologie-Eintrag (Mondo, OMIM).
type DiseaseOntologyTerm struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	DiseaseID   uint   `json:"disease_id" gorm:"uniqueIndex:idx_disease_ontology;not null"`
	Accession   string `json:"accession" gorm:"uniqueIndex:idx_disease_ontology;not null"` // z.B. "MONDO:0018770"
	Source      string `json:"source" gorm:"index"`                                        // "Mondo" | "OMIM"
	Term        string `json:"term,omitempty"`
	Description string `json:"description,omitempty" gorm:"type:text"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (DiseaseOntologyTerm) TableName() string {
	return "disease_ontology_terms"
}
