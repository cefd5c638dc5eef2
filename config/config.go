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

	// Metadaten-Provider für die Anreicherung von Referenzen und Studien
	PubMedBaseURL   string `envconfig:"PUBMED_BASE_URL" default:"https://eutils.ncbi.nlm.nih.gov/entrez/eutils"`
	PubMedAPIKey    string `envconfig:"PUBMED_API_KEY"`
	PubMedTool      string `envconfig:"PUBMED_TOOL" default:"study-hand"`
	CrossrefBaseURL string `envconfig:"CROSSREF_BASE_URL" default:"https://api.crossref.org"`
	CrossrefEmail   string `envconfig:"CROSSREF_EMAIL"`
	CTGovBaseURL    string `envconfig:"CTGOV_BASE_URL" default:"https://clinicaltrials.gov/api/v2"`

	// Zeitplan für den Link-Audit-Job
	AuditCronSchedule string `envconfig:"AUDIT_CRON_SCHEDULE" default:"0 2 * * *"`

	// S3-Ziel für Registry-Exporte
	ExportS3Key    string `envconfig:"EXPORT_S3_KEY"`
	ExportS3Secret string `envconfig:"EXPORT_S3_SECRET"`
	ExportS3URL    string `envconfig:"EXPORT_S3_URL"`
	ExportS3Region string `envconfig:"EXPORT_S3_REGION"`
	ExportS3Bucket string `envconfig:"EXPORT_S3_BUCKET"`
	KeepExports    int    `envconfig:"KEEP_EXPORTS" default:"4"`
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
