package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "workspace-migrator/internal/shared/errors"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "api", cfg.Source.Mode)
	assert.Equal(t, "2022-06-28", cfg.Source.APIVersion)
	assert.Equal(t, "http://localhost:8055", cfg.Target.APIURL)
	assert.Equal(t, 15*time.Minute, cfg.Target.JWTTTL)
	assert.Equal(t, 100, cfg.Engine.PageSize)
	assert.Equal(t, 50, cfg.Engine.BatchSize)
	assert.Equal(t, 350*time.Millisecond, cfg.Engine.BatchDelay)
	assert.Equal(t, 2*time.Second, cfg.Engine.JobDelay)
	assert.False(t, cfg.Engine.FailFast)
	assert.Equal(t, "reports", cfg.Engine.ReportDir)
	assert.Equal(t, "localhost", cfg.Serve.Host)
	assert.False(t, cfg.LedgerEnabled())
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("SOURCE_API_TOKEN", "src-token")
	t.Setenv("TARGET_API_URL", "https://target.example")
	t.Setenv("BATCH_SIZE", "25")
	t.Setenv("BATCH_DELAY", "1s")
	t.Setenv("FAIL_FAST", "true")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("SOURCE_DB_INVOICES", "db-inv-1")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "src-token", cfg.Source.Token)
	assert.Equal(t, "https://target.example", cfg.Target.APIURL)
	assert.Equal(t, 25, cfg.Engine.BatchSize)
	assert.Equal(t, time.Second, cfg.Engine.BatchDelay)
	assert.True(t, cfg.Engine.FailFast)
	assert.True(t, cfg.LedgerEnabled())
	assert.Equal(t, "db-inv-1", cfg.Databases.Invoices)
}

func TestLoadConfigMongoModeRequiresURI(t *testing.T) {
	t.Setenv("SOURCE_MODE", "mongo")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SOURCE_MONGODB_URI")

	t.Setenv("SOURCE_MONGODB_URI", "mongodb://localhost:27017")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "workspace_snapshot", cfg.Source.MongoDatabase)
}

func TestLoadConfigRejectsUnknownSourceMode(t *testing.T) {
	t.Setenv("SOURCE_MODE", "csv")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Contains(t, err.Error(), "SOURCE_MODE")
}

func TestLoadConfigCorrectsNonPositiveSizes(t *testing.T) {
	t.Setenv("PAGE_SIZE", "-5")
	t.Setenv("BATCH_SIZE", "0")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Engine.PageSize)
	assert.Equal(t, 50, cfg.Engine.BatchSize)
}
