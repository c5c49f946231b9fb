package models

// Attrib-Typen, wie sie in der Spalte attrib_type abgelegt werden.
const (
	AttribTypeGenotype             = "genotype"
	AttribTypeConfidence           = "confidence_category"
	AttribTypeCrossCuttingModifier = "cross_cutting_modifier"
	AttribTypeVariantConsequence   = "variant_consequence"
	AttribTypeConsequenceSupport   = "consequence_support"
)

// Attrib ist ein Eintrag im kontrollierten Vokabular (Genotypen,
// Confidence-Stufen, Cross-Cutting-Modifier usw.).
type Attrib struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	Value      string `json:"value" gorm:"uniqueIndex:idx_attrib_value_type;not null"` // z.B. "monoallelic_autosomal"
	AttribType string `json:"attrib_type" gorm:"uniqueIndex:idx_attrib_value_type;index;not null"`
	IsDeleted  bool   `json:"is_deleted" gorm:"default:false"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Attrib) TableName() string {
	return "attribs"
}
