package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
type Config struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`

	HTTPPort     string `envconfig:"HTTP_PORT" default:"4242"`
	APISecretKey string `envconfig:"API_SECRET_KEY"`

	PubMedBaseURL string `envconfig:"PUBMED_BASE_URL" default:"https://eutils.ncbi.nlm.nih.gov/entrez/eutils"`
	PubMedAPIKey  string `envconfig:"PUBMED_API_KEY"`
	PubMedTool    string `envconfig:"PUBMED_TOOL" default:"g2p-curate"`

	// Europe PMC als alternative Literatur-Quelle
	EuropePMCBaseURL string `envconfig:"EUROPEPMC_BASE_URL" default:"https://www.ebi.ac.uk/europepmc/webservices/rest"`

	// OLS-API für Disease- und Phänotyp-Ontologien (Mondo, OMIM, HPO)
	OLSBaseURL string `envconfig:"OLS_BASE_URL" default:"https://www.ebi.ac.uk/ols4/api"`

	// Retry-Verhalten für Literatur-Abfragen beim Publizieren
	LiteratureMaxAttempts  int `envconfig:"LITERATURE_MAX_ATTEMPTS" default:"3"`
	LiteratureBackoffMilli int `envconfig:"LITERATURE_BACKOFF_MS" default:"500"`

	// Nächtlicher Refresh der Publikations-Metadaten
	CronSchedule string `envconfig:"CRON_SCHEDULE" default:"0 2 * * *"`

	// Provider-Konfiguration
	LiteratureProvider string `envconfig:"LITERATURE_PROVIDER" default:"pubmed"`
}

// DSN gibt den Data Source Name für die PostgreSQL-Verbindung zurück.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}
