package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/SscSPs/ledger_invoicing_app/internal/core/domain"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	StorageDriverPostgres = "postgres"
	StorageDriverSQLite   = "sqlite"
)

// Config holds application configuration.
type Config struct {
	StorageDriver  string
	DatabaseURL    string
	SQLitePath     string
	MigrationsPath string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool

	OrgPrefix               string
	FinancialYearStartMonth time.Month
	StatementPageSize       int
	DisplayLocale           string
	BillFrom                domain.Address

	RateLimit          string
	CORSAllowedOrigins []string
	PosthogAPIKey      string

	BackupS3Bucket string
	BackupS3Region string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("STORAGE_DRIVER", StorageDriverPostgres)
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("SQLITE_PATH", "ledger.db")
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("ORG_PREFIX", "DS")
	v.SetDefault("FINANCIAL_YEAR_START_MONTH", int(domain.DefaultFinancialYearStartMonth))
	v.SetDefault("STATEMENT_PAGE_SIZE", 20)
	v.SetDefault("DISPLAY_LOCALE", "en")
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("BILL_FROM_NAME", "")
	v.SetDefault("BILL_FROM_EMAIL", "")
	v.SetDefault("BILL_FROM_STREET_ADDRESS", "")
	v.SetDefault("BILL_FROM_CITY", "")
	v.SetDefault("BILL_FROM_POST_CODE", "")
	v.SetDefault("BILL_FROM_COUNTRY", "")
	v.SetDefault("BILL_FROM_GSTIN", "")
	v.SetDefault("BACKUP_S3_BUCKET", "")
	v.SetDefault("BACKUP_S3_REGION", "ap-south-1")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		StorageDriver:  strings.ToLower(strings.TrimSpace(v.GetString("STORAGE_DRIVER"))),
		DatabaseURL:    v.GetString("PGSQL_URL"),
		SQLitePath:     v.GetString("SQLITE_PATH"),
		MigrationsPath: v.GetString("MIGRATIONS_PATH"),
		Port:           v.GetString("PORT"),
		IsProduction:   v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:  v.GetBool("ENABLE_DB_CHECK"),
		OrgPrefix:      strings.TrimSpace(v.GetString("ORG_PREFIX")),
		DisplayLocale:  v.GetString("DISPLAY_LOCALE"),
		RateLimit:      v.GetString("RATE_LIMIT"),
		PosthogAPIKey:  v.GetString("POSTHOG_API_KEY"),
		BackupS3Bucket: v.GetString("BACKUP_S3_BUCKET"),
		BackupS3Region: v.GetString("BACKUP_S3_REGION"),
		BillFrom: domain.Address{
			Name:          v.GetString("BILL_FROM_NAME"),
			Email:         v.GetString("BILL_FROM_EMAIL"),
			StreetAddress: v.GetString("BILL_FROM_STREET_ADDRESS"),
			City:          v.GetString("BILL_FROM_CITY"),
			PostCode:      v.GetString("BILL_FROM_POST_CODE"),
			Country:       v.GetString("BILL_FROM_COUNTRY"),
			GSTIN:         v.GetString("BILL_FROM_GSTIN"),
		},
	}

	switch cfg.StorageDriver {
	case StorageDriverPostgres:
		if cfg.DatabaseURL == "" {
			log.Println("Warning: PGSQL_URL environment variable not set.")
		}
	case StorageDriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q, expected %q or %q", cfg.StorageDriver, StorageDriverPostgres, StorageDriverSQLite)
	}

	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	if cfg.OrgPrefix == "" || strings.Contains(cfg.OrgPrefix, "/") {
		return nil, fmt.Errorf("ORG_PREFIX must be non-empty and must not contain '/', got %q", cfg.OrgPrefix)
	}

	month := v.GetInt("FINANCIAL_YEAR_START_MONTH")
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("FINANCIAL_YEAR_START_MONTH must be between 1 and 12, got %d", month)
	}
	cfg.FinancialYearStartMonth = time.Month(month)

	cfg.StatementPageSize = v.GetInt("STATEMENT_PAGE_SIZE")
	if cfg.StatementPageSize <= 0 {
		log.Printf("Warning: invalid STATEMENT_PAGE_SIZE (%d). Defaulting to 20.\n", cfg.StatementPageSize)
		cfg.StatementPageSize = 20
	}

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	if cfg.BillFrom.Name == "" {
		log.Println("Warning: BILL_FROM_NAME not set. Statements will carry no business header.")
	}

	return cfg, nil
}
