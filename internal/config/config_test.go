package config_test

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/Flaque/filet"
	"github.com/UnknownOlympus/atlas/internal/config"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_MustLoadFromEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("ATLAS_ENV", "local")
	t.Setenv("ATLAS_API_BASE_URL", "http://directory.local")
	t.Setenv("ATLAS_FETCH_MODE", "sequential")
	t.Setenv("DB_HOST", "testHost")
	t.Setenv("DB_PORT", "12345")
	t.Setenv("DB_USERNAME", "admin")
	t.Setenv("DB_PASSWORD", "adminpass")
	t.Setenv("DB_NAME", "testName")

	cfg := config.MustLoad()

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "http://directory.local", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, "sequential", cfg.API.FetchMode)
	assert.Equal(t, ":3000", cfg.Server.ListenAddr)
	assert.Equal(t, 8080, cfg.Server.MonitoringPort)
	assert.Equal(t, "testHost", cfg.Database.Host)
	assert.Equal(t, "12345", cfg.Database.Port)
	assert.Equal(t, "admin", cfg.Database.User)
	assert.Equal(t, "adminpass", cfg.Database.Password)
	assert.Equal(t, "testName", cfg.Database.Name)
}

func TestMustLoad_FileNotExist(t *testing.T) {
	t.Setenv("CONFIG_PATH", "./invalid/path.yaml")

	assert.PanicsWithValue(t, "config file does not exist: ./invalid/path.yaml", func() {
		config.MustLoad()
	})
}

func TestMustLoad_ReadError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	filet.File(t, path, "::::bad_yaml")
	defer filet.CleanUp(t)

	t.Setenv("CONFIG_PATH", path)

	vpr := viper.New()
	vpr.SetConfigFile(path)
	err := vpr.ReadInConfig()
	require.Error(t, err)

	assert.PanicsWithValue(t, fmt.Sprintf("config error: %v", err), func() {
		config.MustLoad()
	})
}

func TestMustLoad_FileWithEnvOverride(t *testing.T) {
	configContent := `
---
env: "development"
api:
  base_url: "http://from-file"
  timeout: 3s
server:
  listen_addr: ":9000"
  monitoring_port: 9100
postgres:
  host: "localhost"
  user: "pgUser"
  password: "pgPassword"
  db_name: "pgDatabase"
`
	path := filepath.Join(t.TempDir(), "atlas.yaml")
	filet.File(t, path, configContent)
	defer filet.CleanUp(t)

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("ATLAS_API_BASE_URL", "http://from-env")

	cfg := config.MustLoad()

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "http://from-env", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, "concurrent", cfg.API.FetchMode)
	assert.Equal(t, ":9000", cfg.Server.ListenAddr)
	assert.Equal(t, 9100, cfg.Server.MonitoringPort)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "pgUser", cfg.Database.User)
	assert.Equal(t, "pgDatabase", cfg.Database.Name)
}

func TestMustLoad_TimeoutError(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("ATLAS_HTTP_TIMEOUT", "error_value")

	assert.PanicsWithValue(t, "failed to parse http timeout from configuration", func() {
		config.MustLoad()
	})
}

func TestMustLoad_MonitoringPortError(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("ATLAS_MONITORING_PORT", "eighty")

	assert.PanicsWithValue(t, "failed to parse monitoring port from configuration", func() {
		config.MustLoad()
	})
}
