package config

import (
	"os"
	"path/filepath"
	"testing"

	"sheet-sync/core/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "queries/queries.json", cfg.Catalog.Path)
	assert.Equal(t, "queries", cfg.Catalog.SQLDir)
	assert.Equal(t, 1000, cfg.Sources.ChunkSize)
	assert.Equal(t, "https://api.smartsheet.com/2.0", cfg.Smartsheet.BaseURL)
	assert.Equal(t, 300, cfg.Smartsheet.RequestsPerMinute)
	assert.Equal(t, "@hourly", cfg.Schedule.Cron)
	assert.True(t, cfg.Schedule.RunOnStart)
	assert.Equal(t, "8080", cfg.Server.Port)

	require.Len(t, cfg.Databases, 2)
	assert.Equal(t, "dw", cfg.Databases[0].Name)
	assert.Equal(t, "qnxt", cfg.Databases[1].Name)
	assert.Equal(t, database.DriverSQLServer, cfg.Databases[0].Driver)
	assert.Equal(t, 30, cfg.Databases[0].TimeoutSeconds)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("SMARTSHEET_API_KEY", "token")
	t.Setenv("SOURCES_CHUNK_SIZE", "250")
	t.Setenv("DW_ADDRESS", "dw-host")
	t.Setenv("DW_DATABASE", "warehouse")
	t.Setenv("qnxt_ADDRESS", "qnxt-host")
	t.Setenv("qnxt_USERNAME", "svc")
	t.Setenv("qnxt_PASSWORD", "secret")
	t.Setenv("QNXT_DRIVER", "MySQL")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "token", cfg.Smartsheet.ApiKey)
	assert.Equal(t, 250, cfg.Sources.ChunkSize)

	require.Len(t, cfg.Databases, 2)
	assert.Equal(t, database.Config{
		Name:           "dw",
		Driver:         database.DriverSQLServer,
		Address:        "dw-host",
		Database:       "warehouse",
		TimeoutSeconds: 30,
	}, cfg.Databases[0])
	assert.Equal(t, "qnxt-host", cfg.Databases[1].Address)
	assert.Equal(t, "svc", cfg.Databases[1].Username)
	assert.Equal(t, "secret", cfg.Databases[1].Password)
	assert.Equal(t, database.DriverMySQL, cfg.Databases[1].Driver)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	env := "SOURCES_NAMES=reports\nREPORTS_DRIVER=sqlite\nREPORTS_DATABASE=reports.db\nLOG_FORMAT=console\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o644))
	t.Cleanup(func() {
		for _, k := range []string{"SOURCES_NAMES", "REPORTS_DRIVER", "REPORTS_DATABASE", "LOG_FORMAT"} {
			os.Unsetenv(k)
		}
	})

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "console", cfg.Log.Format)
	require.Len(t, cfg.Databases, 1)
	assert.Equal(t, "reports", cfg.Databases[0].Name)
	assert.Equal(t, database.DriverSQLite, cfg.Databases[0].Driver)
	assert.Equal(t, "reports.db", cfg.Databases[0].Database)
}

func TestLoadConfig_DuplicateSource(t *testing.T) {
	t.Setenv("SOURCES_NAMES", "dw, dw")

	_, err := LoadConfig(t.TempDir())
	assert.Error(t, err)
}
