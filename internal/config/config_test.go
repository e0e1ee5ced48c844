package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 3.0, cfg.Predictor.GoalScale)
	assert.Equal(t, 0.3, cfg.Predictor.DrawThreshold)
	assert.Equal(t, 0.5, cfg.Predictor.MinConfidence)
	assert.Equal(t, 0.95, cfg.Predictor.MaxConfidence)
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	cfg := Defaults()
	cfg.Mode = "trade"
	cfg.LogLevel = "loud"
	cfg.Predictor.GoalScale = 0
	cfg.Predictor.MinConfidence = 0.9
	cfg.Predictor.MaxConfidence = 0.6

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, `unknown mode "trade"`)
	assert.Contains(t, msg, `unknown log_level "loud"`)
	assert.Contains(t, msg, "goal_scale")
	assert.Contains(t, msg, "confidence bounds")
}

func TestValidateScheduledCron(t *testing.T) {
	cfg := Defaults()
	cfg.Mode = "scheduled"
	cfg.Evaluation.Cron = "not a cron"
	require.ErrorContains(t, cfg.Validate(), "invalid cron")

	cfg.Evaluation.Cron = "0 * * * *"
	require.NoError(t, cfg.Validate())
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
mode = "evaluate"
log_level = "debug"

[predictor]
draw_threshold = 0.25

[evaluation]
lock_ttl = "45s"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	t.Setenv("MATCHINSIGHT_SERVER_PORT", "9100")
	t.Setenv("MATCHINSIGHT_SERVER_CORS_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("MATCHINSIGHT_PREDICTOR_SEED", "42")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "evaluate", cfg.Mode)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 0.25, cfg.Predictor.DrawThreshold)
	assert.Equal(t, 3.0, cfg.Predictor.GoalScale, "unset keys keep defaults")
	assert.Equal(t, 45*time.Second, cfg.Evaluation.LockTTL.Duration)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.EqualValues(t, 42, cfg.Predictor.Seed)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, "server", cfg.Mode)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("mode = ["), 0o600))
	_, err := Load(path)
	require.Error(t, err)
}

func TestRedactedConfig(t *testing.T) {
	cfg := Defaults()
	cfg.Database.Password = "hunter2"
	cfg.Server.APIKey = "key"
	cfg.Notify.Events = []string{"error"}

	out := RedactedConfig(&cfg)
	assert.Equal(t, "***", out.Database.Password)
	assert.Equal(t, "***", out.Server.APIKey)
	assert.Equal(t, "", out.Redis.Password, "empty secrets stay empty")
	assert.Equal(t, "hunter2", cfg.Database.Password)

	out.Notify.Events[0] = "changed"
	assert.Equal(t, "error", cfg.Notify.Events[0])
}
