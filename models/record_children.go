package models

import "time"

// Die Kind-Tabellen eines Records. Jede trägt einen Tombstone
// (is_deleted) statt harter Löschung und einen zusammengesetzten
// Unique-Index auf ihrem fachlichen Schlüssel: pro Schlüssel existiert
// höchstens eine Zeile, Wiederanlegen reaktiviert die Zeile.

// LGDPanel ordnet einen Record einem Review-Panel zu.
type LGDPanel struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	LGDID     uint `json:"-" gorm:"column:lgd_id;uniqueIndex:idx_lgd_panel;not null"`
	PanelID   uint `json:"-" gorm:"uniqueIndex:idx_lgd_panel;not null"`
	IsDeleted bool `json:"is_deleted" gorm:"default:false"`

	Panel Panel `json:"panel" gorm:"foreignKey:PanelID"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (LGDPanel) TableName() string {
	return "lgd_panels"
}

// LGDPublication verknüpft einen Record mit einer Publikation und
// trägt die Familien-Daten aus dieser Publikation.
type LGDPublication struct {
	ID            uint `json:"id" gorm:"primaryKey"`
	LGDID         uint `json:"-" gorm:"column:lgd_id;uniqueIndex:idx_lgd_publication;not null"`
	PublicationID uint `json:"-" gorm:"uniqueIndex:idx_lgd_publication;not null"`

	Families            int    `json:"families,omitempty"`
	AffectedIndividuals int    `json:"affected_individuals,omitempty"`
	Consanguinity       string `json:"consanguinity,omitempty"`
	Ancestries          string `json:"ancestries,omitempty"`
	Comment             string `json:"comment,omitempty" gorm:"type:text"`

	IsDeleted bool `json:"is_deleted" gorm:"default:false"`

	Publication Publication `json:"publication" gorm:"foreignKey:PublicationID"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (LGDPublication) TableName() string {
	return "lgd_publications"
}

// LGDPhenotype ist ein beobachteter HPO-Phänotyp, gestützt durch eine
// Publikation.
type LGDPhenotype struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	LGDID         uint   `json:"-" gorm:"column:lgd_id;uniqueIndex:idx_lgd_phenotype;not null"`
	Accession     string `json:"accession" gorm:"uniqueIndex:idx_lgd_phenotype;not null"`
	Term          string `json:"term,omitempty"`
	PublicationID uint   `json:"-" gorm:"uniqueIndex:idx_lgd_phenotype"`
	IsDeleted     bool   `json:"is_deleted" gorm:"default:false"`

	Publication Publication `json:"publication,omitempty" gorm:"foreignKey:PublicationID"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (LGDPhenotype) TableName() string {
	return "lgd_phenotypes"
}

// LGDPhenotypeSummary ist ein Freitext-Summary der Phänotypen einer
// Publikation.
type LGDPhenotypeSummary struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	LGDID         uint   `json:"-" gorm:"column:lgd_id;uniqueIndex:idx_lgd_pheno_summary;not null"`
	Summary       string `json:"summary" gorm:"type:text;uniqueIndex:idx_lgd_pheno_summary;not null"`
	PublicationID uint   `json:"-" gorm:"uniqueIndex:idx_lgd_pheno_summary"`
	IsDeleted     bool   `json:"is_deleted" gorm:"default:false"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (LGDPhenotypeSummary) TableName() string {
	return "lgd_phenotype_summaries"
}

// LGDVariantType ist ein beobachteter Variantentyp (Sequence Ontology)
// mit Vererbungs-Flags.
type LGDVariantType struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	LGDID         uint   `json:"-" gorm:"column:lgd_id;uniqueIndex:idx_lgd_variant_type;not null"`
	Term          string `json:"term" gorm:"uniqueIndex:idx_lgd_variant_type;not null"`
	PublicationID uint   `json:"-" gorm:"uniqueIndex:idx_lgd_variant_type"`

	DeNovo    bool `json:"de_novo"`
	Inherited bool `json:"inherited"`
	Unknown   bool `json:"unknown_inheritance"`

	// Kuratoren-Kommentar, nicht öffentlich
	Comment   string `json:"comment,omitempty" gorm:"type:text"`
	IsDeleted bool   `json:"is_deleted" gorm:"default:false"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (LGDVariantType) TableName() string {
	return "lgd_variant_types"
}

// LGDVariantDescription ist eine HGVS-Beschreibung aus einer Publikation.
type LGDVariantDescription struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	LGDID         uint   `json:"-" gorm:"column:lgd_id;uniqueIndex:idx_lgd_variant_desc;not null"`
	Description   string `json:"description" gorm:"uniqueIndex:idx_lgd_variant_desc;not null"`
	PublicationID uint   `json:"-" gorm:"uniqueIndex:idx_lgd_variant_desc"`
	IsDeleted     bool   `json:"is_deleted" gorm:"default:false"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (LGDVariantDescription) TableName() string {
	return "lgd_variant_descriptions"
}

// LGDVariantConsequence ist eine Konsequenz auf Proteinebene samt
// Support-Stufe.
type LGDVariantConsequence struct {
	ID            uint `json:"id" gorm:"primaryKey"`
	LGDID         uint `json:"-" gorm:"column:lgd_id;uniqueIndex:idx_lgd_variant_cons;not null"`
	ConsequenceID uint `json:"-" gorm:"uniqueIndex:idx_lgd_variant_cons;not null"`
	SupportID     uint `json:"-"`
	IsDeleted     bool `json:"is_deleted" gorm:"default:false"`

	Consequence Attrib `json:"variant_consequence" gorm:"foreignKey:ConsequenceID"`
	Support     Attrib `json:"support,omitempty" gorm:"foreignKey:SupportID"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (LGDVariantConsequence) TableName() string {
	return "lgd_variant_consequences"
}

// LGDCrossCuttingModifier ist ein Cross-Cutting-Modifier des Records.
type LGDCrossCuttingModifier struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	LGDID      uint `json:"-" gorm:"column:lgd_id;uniqueIndex:idx_lgd_ccm;not null"`
	ModifierID uint `json:"-" gorm:"uniqueIndex:idx_lgd_ccm;not null"`
	IsDeleted  bool `json:"is_deleted" gorm:"default:false"`

	Modifier Attrib `json:"modifier" gorm:"foreignKey:ModifierID"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (LGDCrossCuttingModifier) TableName() string {
	return "lgd_cross_cutting_modifiers"
}

// LGDMechanismSynopsis ist eine Kategorisierung des Mechanismus.
type LGDMechanismSynopsis struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	LGDID      uint `json:"-" gorm:"column:lgd_id;uniqueIndex:idx_lgd_synopsis;not null"`
	SynopsisID uint `json:"-" gorm:"uniqueIndex:idx_lgd_synopsis;not null"`
	SupportID  uint `json:"-"`
	IsDeleted  bool `json:"is_deleted" gorm:"default:false"`

	Synopsis MolecularMechanism `json:"synopsis" gorm:"foreignKey:SynopsisID"`
	Support  MolecularMechanism `json:"support,omitempty" gorm:"foreignKey:SupportID"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (LGDMechanismSynopsis) TableName() string {
	return "lgd_mechanism_synopses"
}

// LGDMechanismEvidence ist funktionale Evidenz für den Mechanismus aus
// einer bereits verknüpften Publikation.
type LGDMechanismEvidence struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	LGDID         uint   `json:"-" gorm:"column:lgd_id;uniqueIndex:idx_lgd_evidence;not null"`
	EvidenceID    uint   `json:"-" gorm:"uniqueIndex:idx_lgd_evidence;not null"`
	PublicationID uint   `json:"-" gorm:"uniqueIndex:idx_lgd_evidence;not null"`
	Description   string `json:"description,omitempty" gorm:"type:text"`
	IsDeleted     bool   `json:"is_deleted" gorm:"default:false"`

	Evidence    MolecularMechanism `json:"evidence" gorm:"foreignKey:EvidenceID"`
	Publication Publication        `json:"publication" gorm:"foreignKey:PublicationID"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (LGDMechanismEvidence) TableName() string {
	return "lgd_mechanism_evidence"
}

// LGDComment ist ein Kuratoren-Kommentar am Record.
type LGDComment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	LGDID     uint   `json:"-" gorm:"column:lgd_id;index;not null"`
	CuratorID uint   `json:"-" gorm:"index"`
	Comment   string `json:"comment" gorm:"type:text;not null"`
	IsPublic  bool   `json:"is_public" gorm:"default:false"`
	IsDeleted bool   `json:"is_deleted" gorm:"default:false"`

	Curator Curator `json:"-" gorm:"foreignKey:CuratorID"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (LGDComment) TableName() string {
	return "lgd_comments"
}
