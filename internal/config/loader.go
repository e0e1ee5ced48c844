package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies MATCHINSIGHT_* environment variable overrides, and
// returns the final Config. A missing file is not an error: defaults plus
// environment are enough to run in a container. The returned Config has NOT
// been validated.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known MATCHINSIGHT_* environment variables and
// overwrites the corresponding Config fields when a variable is set.
func applyEnvOverrides(cfg *Config) {
	// ── Database ──
	setStr(&cfg.Database.DSN, "MATCHINSIGHT_DATABASE_DSN")
	setStr(&cfg.Database.DSN, "DATABASE_URL") // compatibility alias
	setStr(&cfg.Database.Host, "MATCHINSIGHT_DATABASE_HOST")
	setInt(&cfg.Database.Port, "MATCHINSIGHT_DATABASE_PORT")
	setStr(&cfg.Database.Database, "MATCHINSIGHT_DATABASE_NAME")
	setStr(&cfg.Database.User, "MATCHINSIGHT_DATABASE_USER")
	setStr(&cfg.Database.Password, "MATCHINSIGHT_DATABASE_PASSWORD")
	setStr(&cfg.Database.SSLMode, "MATCHINSIGHT_DATABASE_SSL_MODE")
	setInt(&cfg.Database.PoolMaxConns, "MATCHINSIGHT_DATABASE_POOL_MAX_CONNS")
	setInt(&cfg.Database.PoolMinConns, "MATCHINSIGHT_DATABASE_POOL_MIN_CONNS")
	setBool(&cfg.Database.RunMigrations, "MATCHINSIGHT_DATABASE_RUN_MIGRATIONS")

	// ── Redis ──
	setBool(&cfg.Redis.Enabled, "MATCHINSIGHT_REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "MATCHINSIGHT_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "MATCHINSIGHT_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "MATCHINSIGHT_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "MATCHINSIGHT_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "MATCHINSIGHT_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "MATCHINSIGHT_REDIS_TLS_ENABLED")

	// ── S3 ──
	setBool(&cfg.S3.Enabled, "MATCHINSIGHT_S3_ENABLED")
	setStr(&cfg.S3.Endpoint, "MATCHINSIGHT_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "MATCHINSIGHT_S3_REGION")
	setStr(&cfg.S3.Bucket, "MATCHINSIGHT_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "MATCHINSIGHT_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "MATCHINSIGHT_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "MATCHINSIGHT_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "MATCHINSIGHT_S3_FORCE_PATH_STYLE")

	// ── Predictor ──
	setFloat64(&cfg.Predictor.GoalScale, "MATCHINSIGHT_PREDICTOR_GOAL_SCALE")
	setFloat64(&cfg.Predictor.DrawThreshold, "MATCHINSIGHT_PREDICTOR_DRAW_THRESHOLD")
	setFloat64(&cfg.Predictor.BaseConfidence, "MATCHINSIGHT_PREDICTOR_BASE_CONFIDENCE")
	setFloat64(&cfg.Predictor.ConfidenceSlope, "MATCHINSIGHT_PREDICTOR_CONFIDENCE_SLOPE")
	setFloat64(&cfg.Predictor.MinConfidence, "MATCHINSIGHT_PREDICTOR_MIN_CONFIDENCE")
	setFloat64(&cfg.Predictor.MaxConfidence, "MATCHINSIGHT_PREDICTOR_MAX_CONFIDENCE")
	setInt64(&cfg.Predictor.Seed, "MATCHINSIGHT_PREDICTOR_SEED")
	setInt(&cfg.Predictor.HistoryLimit, "MATCHINSIGHT_PREDICTOR_HISTORY_LIMIT")

	// ── Evaluation ──
	setStr(&cfg.Evaluation.Cron, "MATCHINSIGHT_EVALUATION_CRON")
	setDuration(&cfg.Evaluation.LockTTL, "MATCHINSIGHT_EVALUATION_LOCK_TTL")
	setBool(&cfg.Evaluation.ArchiveReports, "MATCHINSIGHT_EVALUATION_ARCHIVE_REPORTS")
	setDuration(&cfg.Evaluation.Timeout, "MATCHINSIGHT_EVALUATION_TIMEOUT")

	// ── Server ──
	setInt(&cfg.Server.Port, "MATCHINSIGHT_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "MATCHINSIGHT_SERVER_CORS_ORIGINS")
	setStr(&cfg.Server.APIKey, "MATCHINSIGHT_SERVER_API_KEY")
	setInt(&cfg.Server.RateLimit, "MATCHINSIGHT_SERVER_RATE_LIMIT")
	setDuration(&cfg.Server.RateLimitWindow, "MATCHINSIGHT_SERVER_RATE_LIMIT_WINDOW")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "MATCHINSIGHT_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "MATCHINSIGHT_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "MATCHINSIGHT_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "MATCHINSIGHT_NOTIFY_EVENTS")

	// ── Top-level ──
	setStr(&cfg.Mode, "MATCHINSIGHT_MODE")
	setStr(&cfg.LogLevel, "MATCHINSIGHT_LOG_LEVEL")
}

// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and parses cleanly.

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
