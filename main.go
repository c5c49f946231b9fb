package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"g2p-curate/config"
	"g2p-curate/models"
	"g2p-curate/providers"
	"g2p-curate/providers/europepmc"
	"g2p-curate/providers/ols"
	"g2p-curate/providers/pubmed"
	"g2p-curate/services"
	"g2p-curate/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	recordsPublishedCounter prometheus.Counter
	recordsMergedCounter    prometheus.Counter
)

func init() {
	recordsPublishedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "g2p_records_published_total",
			Help: "Total number of curation drafts published as live records.",
		},
	)
	recordsMergedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "g2p_records_merged_total",
			Help: "Total number of records merged into another record.",
		},
	)
	prometheus.MustRegister(recordsPublishedCounter, recordsMergedCounter)
}

func apiKeyAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.APISecretKey == "" {
			c.Next()
			return
		}
		apiKey := c.GetHeader("X-API-KEY")
		if apiKey != cfg.APISecretKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid API Key"})
			return
		}
		c.Next()
	}
}

// curatorAuthMiddleware löst den X-Curator-Header gegen die
// Kuratoren-Tabelle auf. Die eigentliche Authentifizierung passiert
// davor (API-Key bzw. Gateway); hier geht es nur um die Identität.
func curatorAuthMiddleware(store *storage.Store, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.GetHeader("X-Curator")
		if username == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing X-Curator header"})
			return
		}
		curator, err := store.CuratorByUsername(username)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unknown curator"})
				return
			}
			log.Error("Curator lookup failed", zap.String("username", username), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.Set("curator", curator)
		c.Next()
	}
}

func currentCurator(c *gin.Context) *models.Curator {
	return c.MustGet("curator").(*models.Curator)
}

// respondDomainError übersetzt Service-Fehler in HTTP-Antworten.
func respondDomainError(c *gin.Context, log *zap.Logger, err error) {
	if de, ok := services.AsDomainError(err); ok {
		body := gin.H{"error": de.Message}
		if de.Details != nil {
			body["details"] = de.Details
		}
		c.JSON(de.HTTPStatus(), body)
		return
	}
	log.Error("Unexpected service error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	db, err := gorm.Open(postgres.New(postgres.Config{DSN: cfg.DSN()}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		logging.Fatal("Failed to connect to database", zap.Error(err))
	}
	logging.Info("Successfully connected to curation database.")

	logging.Info("Running database auto-migration...")
	db.AutoMigrate(
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

	services.SeedVocabulary(db, logging)
	services.SeedDefaultPanels(db, logging)

	var literature providers.Literature
	switch cfg.LiteratureProvider {
	case "pubmed":
		literature = pubmed.NewFetcher(cfg, logging)
	case "europepmc":
		literature = europepmc.NewFetcher(cfg, logging)
	default:
		logging.Fatal("Unknown literature provider in config",
			zap.String("provider_name", cfg.LiteratureProvider))
	}
	logging.Info("Literature provider loaded", zap.String("provider", literature.Name()))
	ontology := ols.NewFetcher(cfg, logging)

	store := storage.NewStore(db, logging)
	vocab := services.NewVocabService(store, logging)
	validator := services.NewValidator(store, vocab, logging)
	drafts := services.NewDraftService(store, validator, logging)
	publisher := &services.Publisher{
		Config:     cfg,
		Store:      store,
		Vocab:      vocab,
		Validator:  validator,
		Drafts:     drafts,
		Literature: literature,
		Ontology:   ontology,
		Logger:     logging,
	}
	mechanisms := services.NewMechanismService(store, vocab, logging)
	merges := services.NewMergeService(store, logging)
	records := services.NewRecordService(store, logging)
	refresh := services.NewRefreshService(cfg, store, literature, logging)

	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(apiKeyAuthMiddleware(cfg))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	setupDraftRoutes(router, store, drafts, publisher, logging)
	setupRecordRoutes(router, store, records, mechanisms, merges, logging)
	setupCuratorRoutes(router, db, logging)
	setupPanelRoutes(router, db, logging)
	setupLocusRoutes(router, db, store, logging)

	cronScheduler := cron.New()
	cronScheduler.AddFunc(cfg.CronSchedule, func() {
		logging.Info("Running scheduled publication refresh...")
		count, err := refresh.RefreshAll(context.Background())
		if err != nil {
			logging.Error("Cron job failed", zap.Error(err))
		} else {
			logging.Info("Cron job completed", zap.Int("updated_publications", count))
		}
	})
	cronScheduler.Start()

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}

func setupDraftRoutes(router *gin.Engine, store *storage.Store, drafts *services.DraftService, publisher *services.Publisher, log *zap.Logger) {
	rg := router.Group("/drafts")
	rg.Use(curatorAuthMiddleware(store, log))

	type draftRequest struct {
		SessionName string               `json:"session_name"`
		Payload     *models.DraftPayload `json:"payload" binding:"required"`
	}

	rg.POST("/", func(c *gin.Context) {
		var req draftRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		draft, err := drafts.Save(currentCurator(c), req.SessionName, req.Payload)
		if err != nil {
			respondDomainError(c, log, err)
			return
		}
		c.JSON(http.StatusCreated, draft)
	})

	rg.GET("/", func(c *gin.Context) {
		list, err := drafts.List(currentCurator(c))
		if err != nil {
			respondDomainError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	rg.GET("/:session", func(c *gin.Context) {
		draft, err := drafts.Get(currentCurator(c), c.Param("session"))
		if err != nil {
			respondDomainError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, draft)
	})

	rg.PUT("/:session", func(c *gin.Context) {
		var req draftRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		draft, err := drafts.Update(currentCurator(c), c.Param("session"), req.Payload)
		if err != nil {
			respondDomainError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, draft)
	})

	rg.DELETE("/:session", func(c *gin.Context) {
		if err := drafts.Delete(currentCurator(c), c.Param("session")); err != nil {
			respondDomainError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Draft deleted"})
	})

	rg.POST("/:session/publish", func(c *gin.Context) {
		result, err := publisher.Publish(c.Request.Context(), currentCurator(c), c.Param("session"))
		if err != nil {
			respondDomainError(c, log, err)
			return
		}
		recordsPublishedCounter.Inc()
		c.JSON(http.StatusCreated, result)
	})
}

func setupRecordRoutes(router *gin.Engine, store *storage.Store, records *services.RecordService, mechanisms *services.MechanismService, merges *services.MergeService, log *zap.Logger) {
	rg := router.Group("/records")
	rg.Use(curatorAuthMiddleware(store, log))

	rg.GET("/:id", func(c *gin.Context) {
		rec, err := records.Get(c.Param("id"))
		if err != nil {
			respondDomainError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, rec)
	})

	rg.DELETE("/:id", func(c *gin.Context) {
		if err := records.Delete(currentCurator(c), c.Param("id"), c.Query("reason")); err != nil {
			respondDomainError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Record deleted"})
	})

	rg.PATCH("/:id/mechanism", func(c *gin.Context) {
		var req services.MechanismUpdate
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		rec, err := mechanisms.Update(currentCurator(c), c.Param("id"), &req)
		if err != nil {
			respondDomainError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, rec)
	})

	rg.POST("/merge", func(c *gin.Context) {
		var req struct {
			Pairs []services.MergePair `json:"pairs" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		report, err := merges.Merge(currentCurator(c), req.Pairs)
		if err != nil {
			respondDomainError(c, log, err)
			return
		}
		for _, outcome := range report.Merged {
			recordsMergedCounter.Add(float64(len(outcome.Merged)))
		}
		c.JSON(http.StatusOK, report)
	})
}

func setupCuratorRoutes(router *gin.Engine, db *gorm.DB, log *zap.Logger) {
	rg := router.Group("/curators")

	rg.POST("/", func(c *gin.Context) {
		var curator models.Curator
		if err := c.ShouldBindJSON(&curator); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		curator.IsActive = true
		if err := db.Create(&curator).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusConflict, gin.H{"error": "curator already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create curator"})
			return
		}
		c.JSON(http.StatusCreated, curator)
	})

	rg.GET("/", func(c *gin.Context) {
		var curators []models.Curator
		if err := db.Find(&curators).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, curators)
	})

	// Panel-Zuordnung; steuert, wer auf welchem Panel kuratieren darf
	rg.POST("/:username/panels", func(c *gin.Context) {
		var req struct {
			Panel string `json:"panel" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		var curator models.Curator
		if err := db.Where("username = ?", c.Param("username")).First(&curator).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "curator not found"})
			return
		}
		var panel models.Panel
		if err := db.Where("name = ?", req.Panel).First(&panel).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "panel not found"})
			return
		}
		link := models.CuratorPanel{CuratorID: curator.ID, PanelID: panel.ID}
		if err := db.Create(&link).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusOK, gin.H{"message": "already assigned"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to assign panel"})
			return
		}
		log.Info("Panel assigned",
			zap.String("curator", curator.Username), zap.String("panel", panel.Name))
		c.JSON(http.StatusCreated, link)
	})
}

func setupPanelRoutes(router *gin.Engine, db *gorm.DB, log *zap.Logger) {
	rg := router.Group("/panels")

	rg.POST("/", func(c *gin.Context) {
		var panel models.Panel
		if err := c.ShouldBindJSON(&panel); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		if err := db.Create(&panel).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create panel"})
			return
		}
		c.JSON(http.StatusCreated, panel)
	})

	rg.GET("/", func(c *gin.Context) {
		var panels []models.Panel
		if err := db.Find(&panels).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, panels)
	})
}

func setupLocusRoutes(router *gin.Engine, db *gorm.DB, store *storage.Store, log *zap.Logger) {
	rg := router.Group("/loci")

	rg.POST("/", func(c *gin.Context) {
		var locus models.Locus
		if err := c.ShouldBindJSON(&locus); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		if err := db.Create(&locus).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusConflict, gin.H{"error": "locus already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create locus"})
			return
		}
		c.JSON(http.StatusCreated, locus)
	})

	rg.GET("/", func(c *gin.Context) {
		var loci []models.Locus
		if err := db.Find(&loci).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, loci)
	})

	// Aktive Records eines Gens, für die Übersicht pro Locus
	rg.GET("/:name/records", func(c *gin.Context) {
		locus, err := store.LocusByName(c.Param("name"))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "locus not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		recs, err := store.ActiveRecordsByLocus(locus.ID)
		if err != nil {
			log.Error("Database query for locus records failed",
				zap.String("locus", locus.Name), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, recs)
	})
}
