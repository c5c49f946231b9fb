package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// CurationData ist ein gespeicherter Draft. Der eigentliche Inhalt
// liegt als JSON-Dokument in Payload; SessionName identifiziert die
// Session des Curators und ist eindeutig.
type CurationData struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	SessionName string `json:"session_name" gorm:"uniqueIndex;not null"`
	GeneSymbol  string `json:"gene_symbol" gorm:"index"`
	CuratorID   uint   `json:"curator_id" gorm:"index;not null"`
	// Beim Anlegen reservierter, noch nicht live geschalteter StableID
	StableIDID uint `json:"-" gorm:"column:stable_id_id;index;not null"`

	Payload datatypes.JSON `json:"payload" gorm:"type:jsonb"`

	Curator  Curator  `json:"-" gorm:"foreignKey:CuratorID"`
	StableID StableID `json:"stable_id" gorm:"foreignKey:StableIDID"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (CurationData) TableName() string {
	return "curation_data"
}

// DecodePayload entpackt das JSON-Dokument in das typisierte Draft-Objekt.
func (c *CurationData) DecodePayload() (*DraftPayload, error) {
	var p DraftPayload
	if err := json.Unmarshal(c.Payload, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DraftPayload ist der typisierte Inhalt eines Drafts. Die Felder
// spiegeln die spätere Record-Struktur, sind aber bis zum Publizieren
// unvalidiert bzw. nur teilvalidiert.
type DraftPayload struct {
	Locus      string          `json:"locus"`
	Genotype   string          `json:"allelic_requirement,omitempty"`
	Disease    DraftDisease    `json:"disease,omitempty"`
	Confidence DraftConfidence `json:"confidence,omitempty"`
	Panels     []string        `json:"panels,omitempty"`

	CrossCuttingModifiers []string `json:"cross_cutting_modifier,omitempty"`

	Publications       []DraftPublication      `json:"publications,omitempty"`
	Phenotypes         []DraftPhenotype        `json:"phenotypes,omitempty"`
	PhenotypeSummaries []DraftPhenotypeSummary `json:"phenotype_summaries,omitempty"`

	VariantTypes        []DraftVariantType        `json:"variant_types,omitempty"`
	VariantDescriptions []DraftVariantDescription `json:"variant_descriptions,omitempty"`
	VariantConsequences []DraftVariantConsequence `json:"variant_consequences,omitempty"`

	Mechanism         DraftMechanism          `json:"molecular_mechanism,omitempty"`
	MechanismSynopses []DraftSynopsis         `json:"mechanism_synopsis,omitempty"`
	MechanismEvidence []DraftMechanismWitness `json:"mechanism_evidence,omitempty"`

	PublicComment  string `json:"public_comment,omitempty"`
	PrivateComment string `json:"private_comment,omitempty"`
}

// DraftDisease benennt die Krankheit und optionale Ontologie-Querverweise.
type DraftDisease struct {
	Name            string             `json:"disease_name"`
	CrossReferences []DraftDiseaseXRef `json:"cross_references,omitempty"`
}

// DraftDiseaseXRef ist ein Querverweis auf Mondo oder OMIM.
type DraftDiseaseXRef struct {
	Accession string `json:"identifier"`
	Source    string `json:"source"`
}

// DraftConfidence trägt Stufe und Begründung.
type DraftConfidence struct {
	Level         string `json:"level"`
	Justification string `json:"justification,omitempty"`
}

// DraftPublication trägt die PMID und die Familien-Daten.
type DraftPublication struct {
	PMID                string   `json:"pmid"`
	Families            int      `json:"families,omitempty"`
	AffectedIndividuals int      `json:"affected_individuals,omitempty"`
	Consanguinity       string   `json:"consanguinity,omitempty"`
	Ancestries          []string `json:"ancestries,omitempty"`
	Comment             string   `json:"comment,omitempty"`
}

// DraftPhenotype ist ein HPO-Term mit den stützenden Publikationen.
type DraftPhenotype struct {
	Accession string   `json:"accession"` // z.B. "HP:0000510"
	PMIDs     []string `json:"pmids,omitempty"`
}

// DraftPhenotypeSummary ist ein Freitext-Summary je Publikation.
type DraftPhenotypeSummary struct {
	Summary string `json:"summary"`
	PMID    string `json:"pmid,omitempty"`
}

// DraftVariantType ist ein Variantentyp (Sequence Ontology) mit
// Vererbungs-Flags und stützenden Publikationen.
type DraftVariantType struct {
	Term      string   `json:"term"` // z.B. "frameshift_variant"
	DeNovo    bool     `json:"de_novo,omitempty"`
	Inherited bool     `json:"inherited,omitempty"`
	Unknown   bool     `json:"unknown_inheritance,omitempty"`
	Comment   string   `json:"comment,omitempty"`
	PMIDs     []string `json:"pmids,omitempty"`
}

// DraftVariantDescription ist eine HGVS-Beschreibung je Publikation.
type DraftVariantDescription struct {
	Description string   `json:"description"`
	PMIDs       []string `json:"pmids,omitempty"`
}

// DraftVariantConsequence ist eine Konsequenz auf Proteinebene.
type DraftVariantConsequence struct {
	Term    string `json:"variant_consequence"`
	Support string `json:"support,omitempty"` // "inferred" | "evidence"
}

// DraftMechanism trägt den molekularen Mechanismus und seine Support-Stufe.
type DraftMechanism struct {
	Value   string `json:"name,omitempty"`
	Support string `json:"support,omitempty"`
}

// DraftSynopsis ist eine Mechanismus-Kategorisierung.
type DraftSynopsis struct {
	Value   string `json:"name"`
	Support string `json:"support,omitempty"`
}

// DraftMechanismWitness ist funktionale Evidenz aus einer Publikation.
// Die Evidenz-Klassen sind nach Hauptkategorie gruppiert.
type DraftMechanismWitness struct {
	PMID        string              `json:"pmid"`
	Description string              `json:"description,omitempty"`
	Types       []DraftEvidenceType `json:"evidence_types"`
}

// DraftEvidenceType ist eine Evidenz-Hauptkategorie mit den
// beobachteten Werten.
type DraftEvidenceType struct {
	PrimaryType   string   `json:"primary_type"`   // z.B. "Function", "Rescue"
	SecondaryType []string `json:"secondary_type"` // z.B. ["Patient Cells"]
}
