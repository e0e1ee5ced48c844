// Package config defines the top-level configuration for the match insight
// engine and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by MATCHINSIGHT_* environment variables.
type Config struct {
	Database   DatabaseConfig   `toml:"database"`
	Redis      RedisConfig      `toml:"redis"`
	S3         S3Config         `toml:"s3"`
	Predictor  PredictorConfig  `toml:"predictor"`
	Evaluation EvaluationConfig `toml:"evaluation"`
	Server     ServerConfig     `toml:"server"`
	Notify     NotifyConfig     `toml:"notify"`
	Mode       string           `toml:"mode"`
	LogLevel   string           `toml:"log_level"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	PoolMinConns  int    `toml:"pool_min_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// RedisConfig holds Redis connection parameters. Redis is optional: when
// Enabled is false the engine runs without sweep locks, rate limiting, or
// event publishing.
type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// S3Config holds S3-compatible object storage parameters used to archive
// evaluation reports.
type S3Config struct {
	Enabled        bool   `toml:"enabled"`
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`
}

// PredictorConfig holds the outcome predictor constants.
type PredictorConfig struct {
	GoalScale       float64 `toml:"goal_scale"`
	DrawThreshold   float64 `toml:"draw_threshold"`
	BaseConfidence  float64 `toml:"base_confidence"`
	ConfidenceSlope float64 `toml:"confidence_slope"`
	MinConfidence   float64 `toml:"min_confidence"`
	MaxConfidence   float64 `toml:"max_confidence"`
	// Seed fixes the random source of the band estimator. Zero means seed
	// from the clock.
	Seed int64 `toml:"seed"`
	// HistoryLimit bounds how many finished matches the elo estimator reads.
	HistoryLimit int `toml:"history_limit"`
}

// EvaluationConfig holds evaluation sweep parameters.
type EvaluationConfig struct {
	// Cron is the schedule used by "scheduled" mode, in standard 5-field cron
	// syntax (e.g. "*/15 * * * *").
	Cron           string   `toml:"cron"`
	LockTTL        duration `toml:"lock_ttl"`
	ArchiveReports bool     `toml:"archive_reports"`
	Timeout        duration `toml:"timeout"`
}

// duration is a wrapper around time.Duration that supports TOML string decoding
// (e.g. "5m", "30s").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5m" or "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Port            int      `toml:"port"`
	CORSOrigins     []string `toml:"cors_origins"`
	APIKey          string   `toml:"api_key"`
	RateLimit       int      `toml:"rate_limit"`
	RateLimitWindow duration `toml:"rate_limit_window"`
}

// NotifyConfig holds notification channel credentials.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
}

// Defaults returns a Config populated with reasonable default values.
func Defaults() Config {
	return Config{
		Database: DatabaseConfig{
			Host:          "localhost",
			Port:          5432,
			Database:      "postgres",
			User:          "postgres",
			SSLMode:       "disable",
			PoolMaxConns:  10,
			PoolMinConns:  2,
			RunMigrations: true,
		},
		Redis: RedisConfig{
			Enabled:    false,
			Addr:       "localhost:6379",
			PoolSize:   10,
			MaxRetries: 3,
		},
		S3: S3Config{
			Enabled:        false,
			Endpoint:       "http://localhost:9000",
			Region:         "us-east-1",
			Bucket:         "matchinsight-reports",
			ForcePathStyle: true,
		},
		Predictor: PredictorConfig{
			GoalScale:       3.0,
			DrawThreshold:   0.3,
			BaseConfidence:  0.7,
			ConfidenceSlope: 0.2,
			MinConfidence:   0.5,
			MaxConfidence:   0.95,
			HistoryLimit:    500,
		},
		Evaluation: EvaluationConfig{
			Cron:           "*/15 * * * *",
			LockTTL:        duration{2 * time.Minute},
			ArchiveReports: true,
			Timeout:        duration{5 * time.Minute},
		},
		Server: ServerConfig{
			Port:            8000,
			CORSOrigins:     []string{"http://localhost:5173", "http://localhost:8080"},
			RateLimit:       60,
			RateLimitWindow: duration{time.Minute},
		},
		Notify: NotifyConfig{
			Events: []string{"evaluation_errors", "error"},
		},
		Mode:     "server",
		LogLevel: "info",
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"server":    true,
	"evaluate":  true,
	"generate":  true,
	"scheduled": true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and returns a
// combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: server, evaluate, generate, scheduled)", c.Mode))
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Database
	if strings.TrimSpace(c.Database.DSN) == "" {
		if c.Database.Host == "" {
			errs = append(errs, "database: host must not be empty (or set database.dsn)")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			errs = append(errs, fmt.Sprintf("database: port must be 1-65535, got %d", c.Database.Port))
		}
		if c.Database.Database == "" {
			errs = append(errs, "database: database must not be empty")
		}
	}
	if c.Database.PoolMaxConns < 1 {
		errs = append(errs, "database: pool_max_conns must be >= 1")
	}
	if c.Database.PoolMinConns < 0 {
		errs = append(errs, "database: pool_min_conns must be >= 0")
	}
	if c.Database.PoolMinConns > c.Database.PoolMaxConns {
		errs = append(errs, "database: pool_min_conns must not exceed pool_max_conns")
	}

	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			errs = append(errs, "redis: addr must not be empty")
		}
		if c.Redis.PoolSize < 1 {
			errs = append(errs, "redis: pool_size must be >= 1")
		}
	}

	if c.S3.Enabled {
		if c.S3.Endpoint == "" {
			errs = append(errs, "s3: endpoint must not be empty")
		}
		if c.S3.Bucket == "" {
			errs = append(errs, "s3: bucket must not be empty")
		}
	}

	// Predictor
	p := c.Predictor
	if p.GoalScale <= 0 {
		errs = append(errs, "predictor: goal_scale must be > 0")
	}
	if p.DrawThreshold < 0 {
		errs = append(errs, "predictor: draw_threshold must be >= 0")
	}
	if p.MinConfidence < 0 || p.MaxConfidence > 1 || p.MinConfidence > p.MaxConfidence {
		errs = append(errs, fmt.Sprintf("predictor: confidence bounds must satisfy 0 <= min <= max <= 1, got [%.2f, %.2f]", p.MinConfidence, p.MaxConfidence))
	}
	if p.HistoryLimit < 1 {
		errs = append(errs, "predictor: history_limit must be >= 1")
	}

	// Evaluation
	if c.Mode == "scheduled" {
		if _, err := cron.ParseStandard(c.Evaluation.Cron); err != nil {
			errs = append(errs, fmt.Sprintf("evaluation: invalid cron %q: %v", c.Evaluation.Cron, err))
		}
	}
	if c.Evaluation.LockTTL.Duration <= 0 {
		errs = append(errs, "evaluation: lock_ttl must be > 0")
	}
	if c.Evaluation.Timeout.Duration <= 0 {
		errs = append(errs, "evaluation: timeout must be > 0")
	}

	// Server
	if c.Mode == "server" || c.Mode == "scheduled" {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
		}
	}
	if c.Server.RateLimit < 0 {
		errs = append(errs, "server: rate_limit must be >= 0")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
