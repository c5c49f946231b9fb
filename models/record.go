package models

import "time"

// LocusGenotypeDisease ist der publizierte Record: die Assoziation
// aus Gen, Genotyp (allelic requirement), Krankheit und molekularem
// Mechanismus samt Confidence. Unter den aktiven Records ist die
// Kombination (locus, genotype, disease, mechanism) eindeutig; die
// Prüfung läuft beim Publizieren und Mergen, weil gelöschte Records
// denselben Schlüssel behalten dürfen.
type LocusGenotypeDisease struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	StableIDID  uint `json:"-" gorm:"column:stable_id_id;uniqueIndex;not null"`
	LocusID     uint `json:"-" gorm:"index:idx_lgd_key;not null"`
	GenotypeID  uint `json:"-" gorm:"index:idx_lgd_key;not null"`
	DiseaseID   uint `json:"-" gorm:"index:idx_lgd_key;not null"`
	MechanismID uint `json:"-" gorm:"index:idx_lgd_key;not null"`
	// Support-Stufe des Mechanismus ("inferred" | "evidence")
	MechanismSupportID uint `json:"-" gorm:"not null"`

	ConfidenceID            uint   `json:"-" gorm:"not null"`
	ConfidenceJustification string `json:"confidence_justification,omitempty" gorm:"type:text"`

	// Zeitpunkt des letzten fachlichen Reviews; wird pro logischer
	// Änderung genau einmal gesetzt
	DateReview *time.Time `json:"date_review,omitempty"`

	IsReviewed bool `json:"is_reviewed" gorm:"default:true"`
	IsDeleted  bool `json:"is_deleted" gorm:"index;default:false"`

	StableID         StableID           `json:"stable_id" gorm:"foreignKey:StableIDID"`
	Locus            Locus              `json:"locus" gorm:"foreignKey:LocusID"`
	Genotype         Attrib             `json:"genotype" gorm:"foreignKey:GenotypeID"`
	Disease          Disease            `json:"disease" gorm:"foreignKey:DiseaseID"`
	Mechanism        MolecularMechanism `json:"molecular_mechanism" gorm:"foreignKey:MechanismID"`
	MechanismSupport MolecularMechanism `json:"mechanism_support" gorm:"foreignKey:MechanismSupportID"`
	Confidence       Attrib             `json:"confidence" gorm:"foreignKey:ConfidenceID"`

	Panels              []LGDPanel                `json:"panels,omitempty" gorm:"foreignKey:LGDID"`
	Publications        []LGDPublication          `json:"publications,omitempty" gorm:"foreignKey:LGDID"`
	Phenotypes          []LGDPhenotype            `json:"phenotypes,omitempty" gorm:"foreignKey:LGDID"`
	PhenotypeSummaries  []LGDPhenotypeSummary     `json:"phenotype_summaries,omitempty" gorm:"foreignKey:LGDID"`
	VariantTypes        []LGDVariantType          `json:"variant_types,omitempty" gorm:"foreignKey:LGDID"`
	VariantDescriptions []LGDVariantDescription   `json:"variant_descriptions,omitempty" gorm:"foreignKey:LGDID"`
	VariantConsequences []LGDVariantConsequence   `json:"variant_consequences,omitempty" gorm:"foreignKey:LGDID"`
	CrossCuttingMods    []LGDCrossCuttingModifier `json:"cross_cutting_modifiers,omitempty" gorm:"foreignKey:LGDID"`
	MechanismSynopses   []LGDMechanismSynopsis    `json:"mechanism_synopses,omitempty" gorm:"foreignKey:LGDID"`
	MechanismEvidence   []LGDMechanismEvidence    `json:"mechanism_evidence,omitempty" gorm:"foreignKey:LGDID"`
	Comments            []LGDComment              `json:"comments,omitempty" gorm:"foreignKey:LGDID"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (LocusGenotypeDisease) TableName() string {
	return "locus_genotype_disease"
}
