package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/luisaqm/calidad-aire/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/ambiente")
	t.Setenv("API_KEY", "secret")
	t.Setenv("AQ_BASE_URL", "")
	t.Setenv("RAW_DIR", "")
	t.Setenv("PROCESSED_DIR", "")
	t.Setenv("REQUEST_TIMEOUT", "")
	t.Setenv("DRY_RUN", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, "postgres://localhost/ambiente", cfg.DatabaseURL)
	require.Equal(t, "secret", cfg.APIKey)
	require.Equal(t, "https://api.airvisual.com", cfg.BaseURL)
	require.Equal(t, "Mexico City", cfg.City)
	require.Equal(t, "Mexico", cfg.Country)
	require.Equal(t, "data/raw", cfg.RawDir)
	require.Equal(t, "data/processed", cfg.ProcessedDir)
	require.Equal(t, "calidad_aire", cfg.ExportPrefix)
	require.Equal(t, "calidad_aire", cfg.TableName)
	require.Equal(t, 30*time.Second, cfg.RequestTimeout)
	require.False(t, cfg.DryRun)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://db/air")
	t.Setenv("API_KEY", "k")
	t.Setenv("AQ_BASE_URL", "http://localhost:9999")
	t.Setenv("AQ_CITY", "Guadalajara")
	t.Setenv("AQ_STATE", "Jalisco")
	t.Setenv("RAW_DIR", "/tmp/raw")
	t.Setenv("PROCESSED_DIR", "/tmp/processed")
	t.Setenv("EXPORT_PREFIX", "aire")
	t.Setenv("TABLE_NAME", "aire_gdl")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("DRY_RUN", "true")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, "http://localhost:9999", cfg.BaseURL)
	require.Equal(t, "Guadalajara", cfg.City)
	require.Equal(t, "Jalisco", cfg.State)
	require.Equal(t, "/tmp/raw", cfg.RawDir)
	require.Equal(t, "/tmp/processed", cfg.ProcessedDir)
	require.Equal(t, "aire", cfg.ExportPrefix)
	require.Equal(t, "aire_gdl", cfg.TableName)
	require.Equal(t, 5*time.Second, cfg.RequestTimeout)
	require.True(t, cfg.DryRun)
}

func TestLoadRequiredVars(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("API_KEY", "secret")

	_, err := config.Load()
	require.ErrorContains(t, err, "DATABASE_URL")

	t.Setenv("DATABASE_URL", "postgres://localhost/ambiente")
	t.Setenv("API_KEY", "")

	_, err = config.Load()
	require.ErrorContains(t, err, "API_KEY")
}

func TestLoadInvalidTimeout(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/ambiente")
	t.Setenv("API_KEY", "secret")
	t.Setenv("REQUEST_TIMEOUT", "soon")

	_, err := config.Load()
	require.ErrorContains(t, err, "REQUEST_TIMEOUT")
}

func TestLoadAPI(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/ambiente")
	t.Setenv("PORT", "9090")
	t.Setenv("API_DEFAULT_LIMIT", "50")

	cfg, err := config.LoadAPI()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.ListenAddr())
	require.Equal(t, 50, cfg.DefaultLimit)
	require.Equal(t, "calidad_aire", cfg.TableName)
}

func TestLoadAPIInvalidPort(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/ambiente")
	t.Setenv("PORT", "zero")

	_, err := config.LoadAPI()
	require.ErrorContains(t, err, "PORT")
}
