package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultBaseURL        = "https://api.airvisual.com"
	defaultCity           = "Mexico City"
	defaultState          = "Mexico City"
	defaultCountry        = "Mexico"
	defaultRawDir         = "data/raw"
	defaultProcessedDir   = "data/processed"
	defaultExportPrefix   = "calidad_aire"
	defaultTableName      = "calidad_aire"
	defaultRequestTimeout = 30 * time.Second
)

// Config holds runtime configuration for the ETL binary. Values are
// resolved once at startup and passed into components explicitly; nothing
// reads the environment after Load returns.
type Config struct {
	DatabaseURL    string
	APIKey         string
	BaseURL        string
	City           string
	State          string
	Country        string
	RawDir         string
	ProcessedDir   string
	ExportPrefix   string
	TableName      string
	RequestTimeout time.Duration
	DryRun         bool
}

// Load reads ETL configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load(".env")

	cfg := Config{
		BaseURL:        getEnv("AQ_BASE_URL", defaultBaseURL),
		City:           getEnv("AQ_CITY", defaultCity),
		State:          getEnv("AQ_STATE", defaultState),
		Country:        getEnv("AQ_COUNTRY", defaultCountry),
		RawDir:         getEnv("RAW_DIR", defaultRawDir),
		ProcessedDir:   getEnv("PROCESSED_DIR", defaultProcessedDir),
		ExportPrefix:   getEnv("EXPORT_PREFIX", defaultExportPrefix),
		TableName:      getEnv("TABLE_NAME", defaultTableName),
		RequestTimeout: defaultRequestTimeout,
	}

	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL is required")
	}

	cfg.APIKey = strings.TrimSpace(os.Getenv("API_KEY"))
	if cfg.APIKey == "" {
		return cfg, errors.New("API_KEY is required")
	}

	if v := strings.TrimSpace(os.Getenv("REQUEST_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = d
	}

	dryRun := strings.TrimSpace(os.Getenv("DRY_RUN"))
	cfg.DryRun = dryRun == "1" || strings.EqualFold(dryRun, "true")

	return cfg, nil
}

// API holds configuration for the read-only HTTP API binary.
type API struct {
	DatabaseURL  string
	TableName    string
	Port         int
	DefaultLimit int
}

// LoadAPI reads API configuration from environment variables (optionally .env).
func LoadAPI() (API, error) {
	_ = godotenv.Load(".env")

	cfg := API{
		TableName:    getEnv("TABLE_NAME", defaultTableName),
		Port:         8080,
		DefaultLimit: 200,
	}

	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL is required")
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil || port <= 0 {
			return cfg, fmt.Errorf("invalid PORT: %s", portStr)
		}
		cfg.Port = port
	}

	if limitStr := os.Getenv("API_DEFAULT_LIMIT"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			return cfg, fmt.Errorf("invalid API_DEFAULT_LIMIT: %s", limitStr)
		}
		cfg.DefaultLimit = limit
	}

	return cfg, nil
}

// ListenAddr returns the host:port string for the HTTP server.
func (c API) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
