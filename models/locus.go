package models

// Locus ist ein Gen, auf das sich ein Record bezieht. Loci werden aus
// einem externen Genimport befüllt und hier nur referenziert.
type Locus struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null"` // Gensymbol, z.B. "CEP290"

	// Chromosom (Sequenzname), für die Plausibilitätsprüfung
	// Genotyp vs. Chromosom (z.B. kein biallelic auf Y)
	Chromosome string `json:"chromosome,omitempty" gorm:"index"`
	Start      int64  `json:"start,omitempty"`
	End        int64  `json:"end,omitempty"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Locus) TableName() string {
	return "loci"
}
