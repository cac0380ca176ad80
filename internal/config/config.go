// Package config handles application configuration and environment loading.
package config

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the configuration for the migration engine and optional S3 sources.
type Config struct {
	// S3 fields are optional — nil when not configured. Used by the S3
	// source reader when exports are staged in object storage.
	S3KeyID    *string
	S3Secret   *string
	S3Endpoint *string
	S3Region   *string
	S3Bucket   *string

	MetaDBPath string // path to the SQLite canonical store (default "fieldmigrate.sqlite")
	LogLevel   string // log level: debug, info, warn, error (default "info")

	// Batch orchestration knobs.
	WorkerCount int // bounded parallelism per entity-type pass (default 4)
	BatchSize   int // records per batch (default 100)
	RetryPasses int // deferred-queue replay passes (default 2)

	// SuggestionTimeout bounds the external suggestion source call; on
	// expiry the heuristic resolver takes over.
	SuggestionTimeout time.Duration

	// Repository write throttling, protecting the target store from a
	// full-speed migration. Zero RPS disables the limiter.
	WriteRateRPS   float64
	WriteRateBurst int

	// DefaultCountryCode is prefixed onto 10-digit phone numbers (default "1").
	DefaultCountryCode string
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// HasS3Config returns true if all required S3 fields are set.
func (c *Config) HasS3Config() bool {
	return c.S3KeyID != nil && c.S3Secret != nil &&
		c.S3Region != nil && c.S3Bucket != nil
}

// LoadFromEnv loads configuration from environment variables.
// S3 variables are optional — the engine can run without them.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		MetaDBPath: os.Getenv("META_DB_PATH"),
		LogLevel:   os.Getenv("LOG_LEVEL"),
	}

	if v := os.Getenv("WORKER_COUNT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("WORKER_COUNT must be a positive integer, got %q", v)
		}
		cfg.WorkerCount = n
	}
	if v := os.Getenv("BATCH_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("BATCH_SIZE must be a positive integer, got %q", v)
		}
		cfg.BatchSize = n
	}
	if v := os.Getenv("RETRY_PASSES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("RETRY_PASSES must be a positive integer, got %q", v)
		}
		cfg.RetryPasses = n
	}
	if v := os.Getenv("SUGGESTION_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("SUGGESTION_TIMEOUT: %w", err)
		}
		cfg.SuggestionTimeout = d
	}
	if v := os.Getenv("WRITE_RATE_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.WriteRateRPS = f
		}
	}
	if v := os.Getenv("WRITE_RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.WriteRateBurst = n
		}
	}
	if v := os.Getenv("DEFAULT_COUNTRY_CODE"); v != "" {
		cfg.DefaultCountryCode = v
	}

	// S3 fields are optional — only set if present
	if v := os.Getenv("S3_KEY_ID"); v != "" {
		cfg.S3KeyID = &v
	}
	if v := os.Getenv("S3_SECRET"); v != "" {
		cfg.S3Secret = &v
	}
	if v := os.Getenv("S3_ENDPOINT"); v != "" {
		cfg.S3Endpoint = &v
	}
	if v := os.Getenv("S3_REGION"); v != "" {
		cfg.S3Region = &v
	}
	if v := os.Getenv("S3_BUCKET"); v != "" {
		cfg.S3Bucket = &v
	}

	// Defaults
	if cfg.MetaDBPath == "" {
		cfg.MetaDBPath = "fieldmigrate.sqlite"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 4
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.RetryPasses == 0 {
		cfg.RetryPasses = 2
	}
	if cfg.SuggestionTimeout == 0 {
		cfg.SuggestionTimeout = 30 * time.Second
	}
	if cfg.WriteRateBurst == 0 {
		cfg.WriteRateBurst = 50
	}
	if cfg.DefaultCountryCode == "" {
		cfg.DefaultCountryCode = "1"
	}

	return cfg, nil
}

// LoadDotEnv reads a .env file and sets any variables not already in the environment.
// Lines must be in KEY=VALUE format. Comments (#) and blank lines are skipped.
func LoadDotEnv(path string) error {
	f, err := os.Open(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		if os.IsNotExist(err) {
			return nil // .env not found is not an error
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		value = stripQuotes(value)
		// Only set if not already in the environment (env vars take precedence)
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("setenv %s: %w", key, err)
			}
		}
	}
	return scanner.Err()
}

// stripQuotes removes surrounding double or single quotes from a value.
// Only strips if both the first and last characters are matching quotes.
func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
