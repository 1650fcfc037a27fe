package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 40, cfg.Matching.MinScore)
	assert.Equal(t, 5, cfg.Matching.DateThresholdDays)
	assert.Equal(t, 50, cfg.Matching.AllMatchesLimit)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.TokenTTL)
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "najdeno.yaml")
	data := `
server:
  addr: ":9090"
  log_level: debug
database:
  path: /var/lib/najdeno/najdeno.sqlite3
auth:
  token_ttl: 12h
matching:
  min_score: 55
  date_threshold_days: 10
  max_candidates: 5000
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "/var/lib/najdeno/najdeno.sqlite3", cfg.Database.Path)
	assert.Equal(t, 12*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 55, cfg.Matching.MinScore)
	assert.Equal(t, 10, cfg.Matching.DateThresholdDays)
	assert.Equal(t, 5000, cfg.Matching.MaxCandidates)
	// Untouched keys keep their defaults.
	assert.Equal(t, 50, cfg.Matching.AllMatchesLimit)
	assert.Equal(t, int64(5<<20), cfg.Upload.MaxBytes)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("matching: [1, 2"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("NAJDENO_MIN_SCORE", "70")
	t.Setenv("NAJDENO_DATE_THRESHOLD_DAYS", "3")
	t.Setenv("NAJDENO_DB", "env.sqlite3")
	t.Setenv("NAJDENO_TOKEN_TTL", "1h")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 70, cfg.Matching.MinScore)
	assert.Equal(t, 3, cfg.Matching.DateThresholdDays)
	assert.Equal(t, "env.sqlite3", cfg.Database.Path)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
}

func TestEnvOverrideParseError(t *testing.T) {
	t.Setenv("NAJDENO_MIN_SCORE", "high")

	_, err := Load("")
	assert.ErrorContains(t, err, "NAJDENO_MIN_SCORE")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"min score too high", func(c *Config) { c.Matching.MinScore = 101 }, "min_score"},
		{"min score negative", func(c *Config) { c.Matching.MinScore = -1 }, "min_score"},
		{"zero date window", func(c *Config) { c.Matching.DateThresholdDays = 0 }, "date_threshold_days"},
		{"bad log level", func(c *Config) { c.Server.LogLevel = "loud" }, "log_level"},
		{"empty db path", func(c *Config) { c.Database.Path = "" }, "database.path"},
		{"zero ttl", func(c *Config) { c.Auth.TokenTTL = 0 }, "token_ttl"},
		{"negative limit", func(c *Config) { c.Matching.AllMatchesLimit = -5 }, "all_matches_limit"},
		{"zero upload", func(c *Config) { c.Upload.MaxBytes = 0 }, "max_bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}
