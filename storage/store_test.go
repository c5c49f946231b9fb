package storage

import (
	"testing"

	"g2p-curate/models"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.Attrib{}, &models.MolecularMechanism{}, &models.StableID{},
		&models.Locus{}, &models.Disease{}, &models.DiseaseSynonym{},
		&models.DiseaseOntologyTerm{}, &models.Publication{},
		&models.Curator{}, &models.Panel{}, &models.CuratorPanel{},
		&models.CurationData{}, &models.LocusGenotypeDisease{},
		&models.LGDPanel{}, &models.LGDPublication{}, &models.LGDPhenotype{},
		&models.LGDPhenotypeSummary{}, &models.LGDVariantType{},
		&models.LGDVariantDescription{}, &models.LGDVariantConsequence{},
		&models.LGDCrossCuttingModifier{}, &models.LGDMechanismSynopsis{},
		&models.LGDMechanismEvidence{}, &models.LGDComment{}, &models.AuditLog{},
	)
	if err != nil {
		t.Fatalf("auto-migration failed: %v", err)
	}
	return NewStore(db, zap.NewNop())
}
