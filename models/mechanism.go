package models

// Typen im Mechanismus-Vokabular.
const (
	MechanismTypeMechanism = "mechanism"
	MechanismTypeSupport   = "support"
	MechanismTypeSynopsis  = "mechanism_synopsis"
	MechanismTypeEvidence  = "evidence"
)

// Feste Werte, auf die sich Zustandslogik stützt.
const (
	MechanismUndetermined    = "undetermined"
	MechanismLossOfFunction  = "loss of function"
	MechanismSupportInferred = "inferred"
	MechanismSupportEvidence = "evidence"
)

// MolecularMechanism ist das kontrollierte Vokabular für molekulare
// Mechanismen, deren Support-Stufen, Synopsis-Kategorien und
// Evidenz-Klassen. Subtype trägt je nach Typ die Zusatzdimension:
// bei Synopsis-Einträgen den zugehörigen Mechanismus, bei
// Evidenz-Einträgen die Evidenz-Hauptkategorie (z.B. "rescue").
type MolecularMechanism struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	Type    string `json:"type" gorm:"uniqueIndex:idx_mechanism_term;index;not null"`
	Subtype string `json:"subtype,omitempty" gorm:"uniqueIndex:idx_mechanism_term"`
	Value   string `json:"value" gorm:"uniqueIndex:idx_mechanism_term;not null"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (MolecularMechanism) TableName() string {
	return "cv_molecular_mechanisms"
}
