package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/natefinch/lumberjack.v2"
	"gopkg.in/yaml.v2"

	"github.com/charleshuang3/teamcrm/internal/filestore"
	"github.com/charleshuang3/teamcrm/internal/gormw"
	"github.com/charleshuang3/teamcrm/internal/handlers/api"
	"github.com/charleshuang3/teamcrm/internal/handlers/middleware"
	"github.com/charleshuang3/teamcrm/internal/logging"
	"github.com/charleshuang3/teamcrm/internal/proxy"
)

func TestLoadConfigSuccess(t *testing.T) {
	// Create a temporary directory
	tmpDir := t.TempDir()

	// Create a temporary config file path
	tmpConfigFile := filepath.Join(tmpDir, "config.yaml")

	// Sample valid configuration data
	sampleConfig := &Config{
		Port:    8080,
		GinMode: "debug",
		DB: gormw.Config{
			DSN:                  "testdsn",
			DisableAutomaticPing: false,
			MaxOpenConns:         10,
			MaxIdleConns:         5,
			LogLevel:             2, // gormlog.Error
		},
		RelationalDB: &gormw.Config{
			DSN:      "user:pass@tcp(127.0.0.1:3306)/crm",
			LogLevel: 2,
		},
		Backend: proxy.Config{
			BaseURL:        "http://localhost:4000/api",
			TimeoutSeconds: 10,
		},
		Auth: middleware.AuthConfig{
			Issuer: "http://localhost:8080",
		},
		Files: filestore.Config{
			Provider: filestore.ProviderLocal,
			Dir:      filepath.Join(tmpDir, "files"),
		},
		Invitation: api.InvitationConfig{
			TTLHours: 48,
			BaseURL:  "http://localhost:3000",
		},
		Log: LogConfig{
			Level:      "debug",
			File:       filepath.Join(tmpDir, "crm.log"),
			MaxSizeMB:  10,
			MaxBackups: 2,
			MaxAgeDays: 7,
		},
	}

	// Marshal the sample config to YAML
	configData, err := yaml.Marshal(&sampleConfig)
	assert.NoError(t, err)

	// Write the YAML data to the temporary file
	err = os.WriteFile(tmpConfigFile, configData, 0644)
	assert.NoError(t, err)

	// Load the config from the temporary file
	loadedConfig := LoadConfig(tmpConfigFile)

	// Assert that the loaded config matches the sample config
	assert.NotNil(t, loadedConfig)
	assert.Equal(t, sampleConfig, loadedConfig)
}

func TestLoadConfigDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	tmpConfigFile := filepath.Join(tmpDir, "config.yaml")

	data := []byte(`
port: 8080
gin_mode: release
backend:
  base_url: http://localhost:4000/api
files:
  dir: /tmp/files
`)
	require.NoError(t, os.WriteFile(tmpConfigFile, data, 0644))

	cfg := LoadConfig(tmpConfigFile)
	assert.Nil(t, cfg.RelationalDB)
	assert.False(t, cfg.Auth.Enabled())
	assert.Equal(t, filestore.ProviderLocal, cfg.Files.Provider)
	assert.Equal(t, uint(7*24), cfg.Invitation.TTLHours)
	assert.Equal(t, LogConfig{
		Level:      "info",
		MaxSizeMB:  defaultLogMaxSizeMB,
		MaxBackups: defaultLogMaxBackups,
		MaxAgeDays: defaultLogMaxAgeDays,
	}, cfg.Log)
}

func TestLoadAdminConfig(t *testing.T) {
	tmpConfigFile := filepath.Join(t.TempDir(), "config.yaml")

	// no port, backend or files section
	data := []byte(`
db:
  dsn: crm.db
invitation:
  base_url: http://localhost:3000
`)
	require.NoError(t, os.WriteFile(tmpConfigFile, data, 0644))

	cfg := LoadAdminConfig(tmpConfigFile)
	assert.Equal(t, "crm.db", cfg.DB.DSN)
	assert.Equal(t, "http://localhost:3000", cfg.Invitation.BaseURL)
	assert.Equal(t, uint(7*24), cfg.Invitation.TTLHours)
}

func TestLogConfigWriter(t *testing.T) {
	console := &LogConfig{}
	_, ok := console.writer().(zerolog.ConsoleWriter)
	assert.True(t, ok)

	file := &LogConfig{File: "/tmp/crm.log", MaxSizeMB: 1}
	w, ok := file.writer().(*lumberjack.Logger)
	require.True(t, ok)
	assert.Equal(t, "/tmp/crm.log", w.Filename)
	assert.Equal(t, 1, w.MaxSize)
}

func TestSetupLoggingToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "crm.log")
	cfg := &LogConfig{Level: "info", File: file}
	cfg.Validate()

	t.Cleanup(func() {
		logging.SetOutput(os.Stderr)
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	})
	cfg.SetupLogging()

	// created at package init, before SetupLogging
	logger.Info().Msg("line from the config logger")
	logger.Debug().Msg("below the level")

	b, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"component":"config"`)
	assert.Contains(t, string(b), "line from the config logger")
	assert.NotContains(t, string(b), "below the level")
}
