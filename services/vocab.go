package services

import (
	"errors"
	"fmt"
	"strings"

	"g2p-curate/models"
	"g2p-curate/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// VocabService löst Werte aus Requests gegen das kontrollierte
// Vokabular auf und prüft die Verträglichkeit von Mechanismus und
// Kategorisierung.
type VocabService struct {
	Store  *storage.Store
	Logger *zap.Logger
}

// NewVocabService erstellt einen neuen VocabService.
func NewVocabService(store *storage.Store, logger *zap.Logger) *VocabService {
	return &VocabService{Store: store, Logger: logger}
}

// attrib löst einen Attrib-Wert auf; unbekannte Werte sind
// Validierungsfehler mit Nennung des Feldes.
func (v *VocabService) attrib(value, attribType, field string) (*models.Attrib, error) {
	a, err := v.Store.AttribByValue(value, attribType)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, validationErr(fmt.Sprintf("Invalid %s value '%s'", field, value),
			map[string]any{"field": field, "value": value})
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Genotype löst ein allelic requirement auf.
func (v *VocabService) Genotype(value string) (*models.Attrib, error) {
	return v.attrib(value, models.AttribTypeGenotype, "allelic requirement")
}

// Confidence löst eine Confidence-Stufe auf.
func (v *VocabService) Confidence(value string) (*models.Attrib, error) {
	return v.attrib(value, models.AttribTypeConfidence, "confidence")
}

// CrossCuttingModifier löst einen Modifier auf.
func (v *VocabService) CrossCuttingModifier(value string) (*models.Attrib, error) {
	return v.attrib(value, models.AttribTypeCrossCuttingModifier, "cross cutting modifier")
}

// VariantConsequence löst eine Konsequenz auf Proteinebene auf.
func (v *VocabService) VariantConsequence(value string) (*models.Attrib, error) {
	return v.attrib(value, models.AttribTypeVariantConsequence, "variant consequence")
}

// ConsequenceSupport löst die Support-Stufe einer Konsequenz auf.
func (v *VocabService) ConsequenceSupport(value string) (*models.Attrib, error) {
	return v.attrib(value, models.AttribTypeConsequenceSupport, "support")
}

// Mechanism löst einen molekularen Mechanismus auf.
func (v *VocabService) Mechanism(value string) (*models.MolecularMechanism, error) {
	m, err := v.Store.MechanismTerm(models.MechanismTypeMechanism, value)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, validationErr(fmt.Sprintf("Invalid molecular mechanism value '%s'", value), nil)
	}
	return m, err
}

// MechanismSupport löst eine Support-Stufe auf.
func (v *VocabService) MechanismSupport(value string) (*models.MolecularMechanism, error) {
	m, err := v.Store.MechanismTerm(models.MechanismTypeSupport, value)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, validationErr(fmt.Sprintf("Invalid mechanism support value '%s'", value), nil)
	}
	return m, err
}

// Synopsis löst eine Mechanismus-Kategorisierung auf.
func (v *VocabService) Synopsis(value string) (*models.MolecularMechanism, error) {
	m, err := v.Store.MechanismTerm(models.MechanismTypeSynopsis, value)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, validationErr(fmt.Sprintf("Invalid mechanism synopsis value '%s'", value), nil)
	}
	return m, err
}

// EvidenceTerm löst eine Evidenz-Klasse über Hauptkategorie und Wert
// auf. Beide Teile werden kleingeschrieben verglichen, die
// Hauptkategorie mit Unterstrichen statt Leerzeichen.
func (v *VocabService) EvidenceTerm(primaryType, value string) (*models.MolecularMechanism, error) {
	subtype := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(primaryType)), " ", "_")
	val := strings.ToLower(strings.TrimSpace(value))
	m, err := v.Store.MechanismEvidenceTerm(subtype, val)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, validationErr(
			fmt.Sprintf("Invalid mechanism evidence value '%s' for type '%s'", value, primaryType), nil)
	}
	return m, err
}

// CheckSynopsisCompatible prüft, ob eine Kategorisierung zum
// Mechanismus des Records passt. Die Zuordnung steckt im Subtype des
// Synopsis-Eintrags.
func (v *VocabService) CheckSynopsisCompatible(synopsis, mechanism *models.MolecularMechanism) error {
	if synopsis.Subtype == mechanism.Value {
		return nil
	}
	return validationErr(fmt.Sprintf(
		"The categorisation '%s' is not compatible with the mechanism '%s'. Please choose a categorisation relevant to the selected mechanism.",
		synopsis.Value, mechanism.Value), nil)
}

// CheckGenotypeChromosome prüft die Plausibilität von allelic
// requirement und Chromosom des Gens. Leeres Chromosom wird nicht
// geprüft (Locus ohne Koordinaten).
func CheckGenotypeChromosome(genotype, chromosome string) error {
	if chromosome == "" {
		return nil
	}
	fail := func() error {
		return validationErr(fmt.Sprintf(
			"The allelic requirement '%s' is not compatible with a gene on chromosome %s",
			genotype, chromosome), nil)
	}
	switch {
	case strings.Contains(genotype, "_X_"):
		if chromosome != "X" {
			return fail()
		}
	case strings.Contains(genotype, "_Y_"):
		if chromosome != "Y" {
			return fail()
		}
	case strings.HasSuffix(genotype, "_PAR"):
		if chromosome != "X" && chromosome != "Y" {
			return fail()
		}
	case genotype == "mitochondrial":
		if chromosome != "MT" {
			return fail()
		}
	case strings.HasSuffix(genotype, "_autosomal"):
		if chromosome == "X" || chromosome == "Y" || chromosome == "MT" {
			return fail()
		}
	}
	return nil
}

// seedAttribs sind die festen Einträge des Attrib-Vokabulars.
var seedAttribs = []models.Attrib{
	{Value: "monoallelic_autosomal", AttribType: models.AttribTypeGenotype},
	{Value: "biallelic_autosomal", AttribType: models.AttribTypeGenotype},
	{Value: "monoallelic_X_hemizygous", AttribType: models.AttribTypeGenotype},
	{Value: "monoallelic_X_heterozygous", AttribType: models.AttribTypeGenotype},
	{Value: "monoallelic_Y_hemizygous", AttribType: models.AttribTypeGenotype},
	{Value: "monoallelic_PAR", AttribType: models.AttribTypeGenotype},
	{Value: "biallelic_PAR", AttribType: models.AttribTypeGenotype},
	{Value: "mitochondrial", AttribType: models.AttribTypeGenotype},

	{Value: "definitive", AttribType: models.AttribTypeConfidence},
	{Value: "strong", AttribType: models.AttribTypeConfidence},
	{Value: "moderate", AttribType: models.AttribTypeConfidence},
	{Value: "limited", AttribType: models.AttribTypeConfidence},
	{Value: "disputed", AttribType: models.AttribTypeConfidence},
	{Value: "refuted", AttribType: models.AttribTypeConfidence},

	{Value: "typically de novo", AttribType: models.AttribTypeCrossCuttingModifier},
	{Value: "typically mosaic", AttribType: models.AttribTypeCrossCuttingModifier},
	{Value: "typified by incomplete penetrance", AttribType: models.AttribTypeCrossCuttingModifier},
	{Value: "typified by age related penetrance", AttribType: models.AttribTypeCrossCuttingModifier},
	{Value: "imprinted region", AttribType: models.AttribTypeCrossCuttingModifier},
	{Value: "potential secondary finding", AttribType: models.AttribTypeCrossCuttingModifier},
	{Value: "requires heterozygosity", AttribType: models.AttribTypeCrossCuttingModifier},

	{Value: "absent gene product", AttribType: models.AttribTypeVariantConsequence},
	{Value: "altered gene product level", AttribType: models.AttribTypeVariantConsequence},
	{Value: "altered gene product structure", AttribType: models.AttribTypeVariantConsequence},
	{Value: "uncertain", AttribType: models.AttribTypeVariantConsequence},

	{Value: "inferred", AttribType: models.AttribTypeConsequenceSupport},
	{Value: "evidence", AttribType: models.AttribTypeConsequenceSupport},
}

// seedMechanisms ist das feste Mechanismus-Vokabular. Bei
// Synopsis-Einträgen benennt Subtype den zugehörigen Mechanismus, bei
// Evidenz-Einträgen die Hauptkategorie.
var seedMechanisms = []models.MolecularMechanism{
	{Type: models.MechanismTypeMechanism, Value: models.MechanismUndetermined},
	{Type: models.MechanismTypeMechanism, Value: models.MechanismLossOfFunction},
	{Type: models.MechanismTypeMechanism, Value: "dominant negative"},
	{Type: models.MechanismTypeMechanism, Value: "gain of function"},
	{Type: models.MechanismTypeMechanism, Value: "undetermined non-loss-of-function"},

	{Type: models.MechanismTypeSupport, Value: models.MechanismSupportInferred},
	{Type: models.MechanismTypeSupport, Value: models.MechanismSupportEvidence},

	{Type: models.MechanismTypeSynopsis, Subtype: models.MechanismLossOfFunction, Value: "destabilising LOF"},
	{Type: models.MechanismTypeSynopsis, Subtype: models.MechanismLossOfFunction, Value: "interaction-disrupting LOF"},
	{Type: models.MechanismTypeSynopsis, Subtype: models.MechanismLossOfFunction, Value: "loss of activity LOF"},
	{Type: models.MechanismTypeSynopsis, Subtype: models.MechanismLossOfFunction, Value: "LOF due to protein mislocalisation"},
	{Type: models.MechanismTypeSynopsis, Subtype: models.MechanismLossOfFunction, Value: "other LOF"},
	{Type: models.MechanismTypeSynopsis, Subtype: "gain of function", Value: "assembly-mediated GOF"},
	{Type: models.MechanismTypeSynopsis, Subtype: "gain of function", Value: "aggregation"},
	{Type: models.MechanismTypeSynopsis, Subtype: "gain of function", Value: "increased gene dosage"},
	{Type: models.MechanismTypeSynopsis, Subtype: "gain of function", Value: "local LOF leading to overall GOF"},
	{Type: models.MechanismTypeSynopsis, Subtype: "gain of function", Value: "other GOF"},
	{Type: models.MechanismTypeSynopsis, Subtype: "dominant negative", Value: "assembly-mediated dominant negative"},
	{Type: models.MechanismTypeSynopsis, Subtype: "dominant negative", Value: "competitive dominant-negative"},
	{Type: models.MechanismTypeSynopsis, Subtype: "dominant negative", Value: "other dominant negative"},

	{Type: models.MechanismTypeEvidence, Subtype: "function", Value: "biochemical"},
	{Type: models.MechanismTypeEvidence, Subtype: "function", Value: "protein expression"},
	{Type: models.MechanismTypeEvidence, Subtype: "function", Value: "protein interaction"},
	{Type: models.MechanismTypeEvidence, Subtype: "functional_alteration", Value: "patient cells"},
	{Type: models.MechanismTypeEvidence, Subtype: "functional_alteration", Value: "non patient cells"},
	{Type: models.MechanismTypeEvidence, Subtype: "models", Value: "non-human model organism"},
	{Type: models.MechanismTypeEvidence, Subtype: "models", Value: "cell culture model"},
	{Type: models.MechanismTypeEvidence, Subtype: "rescue", Value: "human"},
	{Type: models.MechanismTypeEvidence, Subtype: "rescue", Value: "patient cells"},
	{Type: models.MechanismTypeEvidence, Subtype: "rescue", Value: "non-human model organism"},
	{Type: models.MechanismTypeEvidence, Subtype: "rescue", Value: "cell culture model"},
}

// SeedVocabulary legt das kontrollierte Vokabular an, falls die
// Tabellen leer sind.
func SeedVocabulary(db *gorm.DB, logger *zap.Logger) {
	var count int64
	db.Model(&models.Attrib{}).Count(&count)
	if count == 0 {
		if err := db.Create(&seedAttribs).Error; err != nil {
			logger.Warn("Failed to seed attribs", zap.Error(err))
		} else {
			logger.Info("Attrib vocabulary seeded.")
		}
	}

	db.Model(&models.MolecularMechanism{}).Count(&count)
	if count == 0 {
		if err := db.Create(&seedMechanisms).Error; err != nil {
			logger.Warn("Failed to seed mechanism vocabulary", zap.Error(err))
		} else {
			logger.Info("Mechanism vocabulary seeded.")
		}
	}
}

// SeedDefaultPanels legt die Standard-Panels an, falls noch keine
// existieren.
func SeedDefaultPanels(db *gorm.DB, logger *zap.Logger) {
	var count int64
	db.Model(&models.Panel{}).Count(&count)
	if count > 0 {
		return
	}
	panels := []models.Panel{
		{Name: "DD", Description: "Developmental disorders"},
		{Name: "Eye", Description: "Eye disorders"},
		{Name: "Skin", Description: "Skin disorders"},
		{Name: "Cancer", Description: "Cancer predisposition"},
		{Name: "Cardiac", Description: "Cardiac disorders"},
		{Name: "Ear", Description: "Hearing loss"},
		{Name: "Skeletal", Description: "Skeletal disorders"},
	}
	if err := db.Create(&panels).Error; err != nil {
		logger.Warn("Failed to seed default panels", zap.Error(err))
	} else {
		logger.Info("Default panels seeded.")
	}
}
