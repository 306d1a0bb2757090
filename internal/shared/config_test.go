package shared

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, "sqlite", c.Database.Driver)
	assert.Equal(t, "./avcheck.db", c.Database.DSN)
	assert.Equal(t, "./reports", c.Reporting.OutDir)
	assert.Equal(t, "json", c.Logging.Format)
	assert.Equal(t, ":8080", c.API.Addr)
	assert.Equal(t, 12, c.API.SessionHours)
	assert.Equal(t, 1, c.Checks.Workers)
}

func TestLoadConfigFromYAML(t *testing.T) {
	p := filepath.Join(t.TempDir(), "avcheck.yaml")
	require.NoError(t, os.WriteFile(p, []byte(`
checks:
  categories: [maintenance, pilot-log]
  fail_on_violation: true
  workers: 4
database:
  dsn: /tmp/other.db
logging:
  format: text
  level: debug
`), 0o644))

	c, err := LoadConfig(p)
	require.NoError(t, err)
	assert.Equal(t, []string{"maintenance", "pilot-log"}, c.Checks.Categories)
	assert.True(t, c.Checks.FailOnViolation)
	assert.Equal(t, 4, c.Checks.Workers)
	assert.Equal(t, "/tmp/other.db", c.Database.DSN)
	assert.Equal(t, "text", c.Logging.Format)
	// Unset fields keep their defaults.
	assert.Equal(t, ":8080", c.API.Addr)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("AVCHECK_DB_DSN", "/tmp/env.db")
	t.Setenv("AVCHECK_CATEGORIES", "maintenance, weight-balance ,")
	t.Setenv("AVCHECK_FAIL_ON_VIOLATION", "true")
	t.Setenv("AVCHECK_WORKERS", "3")

	c, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/env.db", c.Database.DSN)
	assert.Equal(t, []string{"maintenance", "weight-balance"}, c.Checks.Categories)
	assert.True(t, c.Checks.FailOnViolation)
	assert.Equal(t, 3, c.Checks.Workers)
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	c, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Database.DSN, c.Database.DSN)
}

func TestInitLogger(t *testing.T) {
	for _, format := range []string{"json", "text"} {
		logger := InitLogger(format, "debug")
		require.NotNil(t, logger)
		assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
	}
	logger := InitLogger("json", "error")
	assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo), "info suppressed at error level")
}
