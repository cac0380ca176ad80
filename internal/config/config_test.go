package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv_AllVarsSet(t *testing.T) {
	t.Setenv("S3_KEY_ID", "testkey")
	t.Setenv("S3_SECRET", "testsecret")
	t.Setenv("S3_ENDPOINT", "s3.example.com")
	t.Setenv("S3_REGION", "us-east-1")
	t.Setenv("S3_BUCKET", "exports")
	t.Setenv("META_DB_PATH", "/tmp/test.sqlite")
	t.Setenv("WORKER_COUNT", "8")
	t.Setenv("BATCH_SIZE", "500")
	t.Setenv("RETRY_PASSES", "3")
	t.Setenv("SUGGESTION_TIMEOUT", "5s")
	t.Setenv("DEFAULT_COUNTRY_CODE", "44")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	require.NotNil(t, cfg.S3KeyID)
	assert.Equal(t, "testkey", *cfg.S3KeyID)
	require.NotNil(t, cfg.S3Bucket)
	assert.Equal(t, "exports", *cfg.S3Bucket)
	assert.True(t, cfg.HasS3Config())
	assert.Equal(t, "/tmp/test.sqlite", cfg.MetaDBPath)
	assert.Equal(t, 8, cfg.WorkerCount)
	assert.Equal(t, 500, cfg.BatchSize)
	assert.Equal(t, 3, cfg.RetryPasses)
	assert.Equal(t, 5*time.Second, cfg.SuggestionTimeout)
	assert.Equal(t, "44", cfg.DefaultCountryCode)
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	t.Setenv("S3_KEY_ID", "")
	t.Setenv("S3_SECRET", "")
	t.Setenv("S3_REGION", "")
	t.Setenv("S3_BUCKET", "")
	t.Setenv("META_DB_PATH", "")
	t.Setenv("WORKER_COUNT", "")
	t.Setenv("BATCH_SIZE", "")
	t.Setenv("RETRY_PASSES", "")
	t.Setenv("SUGGESTION_TIMEOUT", "")
	t.Setenv("DEFAULT_COUNTRY_CODE", "")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Nil(t, cfg.S3KeyID)
	assert.False(t, cfg.HasS3Config())
	assert.Equal(t, "fieldmigrate.sqlite", cfg.MetaDBPath)
	assert.Equal(t, 4, cfg.WorkerCount)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 2, cfg.RetryPasses)
	assert.Equal(t, 30*time.Second, cfg.SuggestionTimeout)
	assert.Equal(t, "1", cfg.DefaultCountryCode)
}

func TestLoadFromEnv_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"worker_count_not_a_number", "WORKER_COUNT", "four"},
		{"worker_count_zero", "WORKER_COUNT", "0"},
		{"batch_size_negative", "BATCH_SIZE", "-1"},
		{"retry_passes_negative", "RETRY_PASSES", "-2"},
		{"retry_passes_zero", "RETRY_PASSES", "0"},
		{"suggestion_timeout_garbage", "SUGGESTION_TIMEOUT", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := LoadFromEnv()
			assert.Error(t, err)
		})
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		cfg := &Config{LogLevel: tt.level}
		assert.Equal(t, tt.want, cfg.SlogLevel(), "level %q", tt.level)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := `# comment line
WORKER_COUNT=6
BATCH_SIZE="250"
DEFAULT_COUNTRY_CODE='44'

MALFORMED LINE
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("WORKER_COUNT", "")
	t.Setenv("BATCH_SIZE", "")
	t.Setenv("DEFAULT_COUNTRY_CODE", "2") // env wins over .env

	require.NoError(t, LoadDotEnv(path))

	assert.Equal(t, "6", os.Getenv("WORKER_COUNT"))
	assert.Equal(t, "250", os.Getenv("BATCH_SIZE"))
	assert.Equal(t, "2", os.Getenv("DEFAULT_COUNTRY_CODE"))
}

func TestLoadDotEnv_Missing(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "nope.env")))
}
