package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "deskhub.db", cfg.DB.Path)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, 15*time.Minute, cfg.Sweep.Interval)
	require.Equal(t, 12*time.Hour, cfg.Sweep.MaxSessionAge)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DESKHUB_SERVER_HOST", "127.0.0.1")
	t.Setenv("DESKHUB_SERVER_PORT", "9090")
	t.Setenv("DESKHUB_DB_PATH", "/tmp/test.db")
	t.Setenv("DESKHUB_LOG_LEVEL", "debug")
	t.Setenv("DESKHUB_SWEEP_INTERVAL", "5m")
	t.Setenv("DESKHUB_MAX_SESSION_AGE", "6h")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "127.0.0.1", cfg.Server.Host)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "/tmp/test.db", cfg.DB.Path)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, 5*time.Minute, cfg.Sweep.Interval)
	require.Equal(t, 6*time.Hour, cfg.Sweep.MaxSessionAge)
}

func TestLoadInvalidValues(t *testing.T) {
	t.Setenv("DESKHUB_SERVER_PORT", "not-a-port")
	_, err := Load()
	require.Error(t, err)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  host: 10.0.0.1
  port: 3000
log:
  level: warn
`), 0o644))
	t.Setenv("DESKHUB_CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "10.0.0.1", cfg.Server.Host)
	require.Equal(t, 3000, cfg.Server.Port)
	require.Equal(t, "warn", cfg.Log.Level)
	// File values not set keep their defaults
	require.Equal(t, "deskhub.db", cfg.DB.Path)

	// Environment wins over the file
	t.Setenv("DESKHUB_SERVER_PORT", "4000")
	cfg, err = Load()
	require.NoError(t, err)
	require.Equal(t, 4000, cfg.Server.Port)
}
