package cmd_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"orderops/cmd"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBase(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "base.yaml"), []byte(content), 0o600))
	return dir
}

func TestLoadConfig_DefaultsAndFile(t *testing.T) {
	// Given
	dir := writeBase(t, `
postgres:
  dsn: "host=db dbname=orderops"
workflow:
  timezone: "Europe/Madrid"
  max_parallelism: 4
`)

	// When
	cfg, err := cmd.LoadConfig(dir)

	// Then
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.App.HTTPAddr)
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout)
	assert.Equal(t, "host=db dbname=orderops", cfg.Postgres.DSN)
	assert.Equal(t, 4, cfg.Workflow.MaxParallelism)
	assert.Equal(t, 3, cfg.Workflow.MaxConflictRetries)
	assert.Equal(t, 10*time.Second, cfg.Workflow.OrderTimeout)
	assert.Equal(t, 500, cfg.Workflow.MaxExportBatch)
	assert.Equal(t, 30*time.Second, cfg.Workflow.NotificationBaseBackoff)
	assert.Equal(t, 24*time.Hour, cfg.Idempotency.TTL)
	assert.Equal(t, "Europe/Madrid", cfg.Location().String())
}

func TestLoadConfig_EnvironmentOverridesFile(t *testing.T) {
	// Given
	dir := writeBase(t, `
postgres:
  dsn: "from-file"
`)
	t.Setenv("ORDEROPS_POSTGRES__DSN", "from-env")
	t.Setenv("ORDEROPS_WORKFLOW__MAX_EXPORT_BATCH", "50")
	t.Setenv("ORDEROPS_KAFKA__BROKERS", "k1:9092,k2:9092")

	// When
	cfg, err := cmd.LoadConfig(dir)

	// Then
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Postgres.DSN)
	assert.Equal(t, 50, cfg.Workflow.MaxExportBatch)
	assert.Equal(t, "k1:9092,k2:9092", cfg.Kafka.Brokers)
}

func TestLoadConfig_WithoutBaseFile(t *testing.T) {
	t.Setenv("ORDEROPS_POSTGRES__DSN", "from-env")

	cfg, err := cmd.LoadConfig(t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, "UTC", cfg.Workflow.Timezone)
}

func TestLoadConfig_RequiresDSN(t *testing.T) {
	dir := writeBase(t, "app:\n  http_addr: \":9000\"\n")

	_, err := cmd.LoadConfig(dir)

	require.ErrorContains(t, err, "postgres.dsn required")
}

func TestConfig_Validate(t *testing.T) {
	var cfg cmd.Config
	cfg.Postgres.DSN = "dsn"
	cfg.Workflow.Timezone = "UTC"
	require.ErrorContains(t, cfg.Validate(), "app.http_addr required")

	cfg.App.HTTPAddr = ":8080"
	require.NoError(t, cfg.Validate())

	cfg.Workflow.Timezone = "Mars/Olympus_Mons"
	require.ErrorContains(t, cfg.Validate(), "workflow.timezone")
}
