// Package config loads najdeno settings from defaults, an optional YAML
// file and NAJDENO_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/erazemk/najdeno/internal/matching"
)

// Config is the full application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Matching MatchingConfig `yaml:"matching"`
	Upload   UploadConfig   `yaml:"upload"`
}

type ServerConfig struct {
	Addr     string `yaml:"addr"`
	LogPath  string `yaml:"log"`
	LogLevel string `yaml:"log_level"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type AuthConfig struct {
	// JWTSecret signs tokens. Empty means use the secret stored in the database.
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

type MatchingConfig struct {
	matching.Config `yaml:",inline"`

	// AllMatchesLimit caps the all-matches listing when no limit is requested.
	AllMatchesLimit int `yaml:"all_matches_limit"`

	// MaxCandidates caps how many reports of each kind are loaded per run.
	// Zero means no cap.
	MaxCandidates int `yaml:"max_candidates"`
}

type UploadConfig struct {
	MaxBytes int64 `yaml:"max_bytes"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:     ":8080",
			LogLevel: "info",
		},
		Database: DatabaseConfig{
			Path: "najdeno.sqlite3",
		},
		Auth: AuthConfig{
			TokenTTL: 7 * 24 * time.Hour,
		},
		Matching: MatchingConfig{
			Config:          matching.DefaultConfig(),
			AllMatchesLimit: 50,
		},
		Upload: UploadConfig{
			MaxBytes: 5 << 20,
		},
	}
}

// Load builds a configuration from defaults, the YAML file at path (skipped
// when path is empty) and environment overrides, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"NAJDENO_ADDR":       &c.Server.Addr,
		"NAJDENO_LOG":        &c.Server.LogPath,
		"NAJDENO_LOG_LEVEL":  &c.Server.LogLevel,
		"NAJDENO_DB":         &c.Database.Path,
		"NAJDENO_JWT_SECRET": &c.Auth.JWTSecret,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"NAJDENO_MIN_SCORE":           &c.Matching.MinScore,
		"NAJDENO_DATE_THRESHOLD_DAYS": &c.Matching.DateThresholdDays,
		"NAJDENO_ALL_MATCHES_LIMIT":   &c.Matching.AllMatchesLimit,
		"NAJDENO_MAX_CANDIDATES":      &c.Matching.MaxCandidates,
	}
	for key, dst := range ints {
		if v, ok := lookup(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("parsing %s: %w", key, err)
			}
			*dst = n
		}
	}

	if v, ok := lookup("NAJDENO_TOKEN_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parsing NAJDENO_TOKEN_TTL: %w", err)
		}
		c.Auth.TokenTTL = d
	}
	return nil
}

// Validate reports every out-of-range setting.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr must not be empty"))
	}
	switch c.Server.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("server.log_level %q is not one of debug, info, warn, error", c.Server.LogLevel))
	}
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path must not be empty"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("auth.token_ttl must be positive"))
	}
	if c.Matching.MinScore < 0 || c.Matching.MinScore > 100 {
		errs = append(errs, fmt.Errorf("matching.min_score must be within 0-100, got %d", c.Matching.MinScore))
	}
	if c.Matching.DateThresholdDays < 1 {
		errs = append(errs, fmt.Errorf("matching.date_threshold_days must be at least 1, got %d", c.Matching.DateThresholdDays))
	}
	if c.Matching.AllMatchesLimit < 0 {
		errs = append(errs, errors.New("matching.all_matches_limit must not be negative"))
	}
	if c.Matching.MaxCandidates < 0 {
		errs = append(errs, errors.New("matching.max_candidates must not be negative"))
	}
	if c.Upload.MaxBytes <= 0 {
		errs = append(errs, errors.New("upload.max_bytes must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
