package config_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/tutor"
	"github.com/fwojciec/tutor/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) config.Env {
	return func(key string) string { return m[key] }
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tutor.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "gemini-2.0-flash", cfg.Model)
	assert.Equal(t, tutor.ModeHistory, cfg.ParsedMode())
	assert.Equal(t, 60*time.Second, cfg.Timeout)
	assert.Equal(t, tutor.DefaultGenerationConfig(), cfg.GenerationConfig())
}

func TestLoad_NoFileNoEnv(t *testing.T) {
	t.Parallel()
	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_TOMLOverridesDefaults(t *testing.T) {
	t.Parallel()
	path := writeFile(t, `
model = "gemini-1.5-pro"
mode = "history+image"
timeout = "30s"

[log]
level = "debug"

[generation]
temperature = 0.4
top_k = 20
`)
	cfg, err := config.Load(path, envMap(nil))
	require.NoError(t, err)
	assert.Equal(t, "gemini-1.5-pro", cfg.Model)
	assert.Equal(t, tutor.ModeHistoryImage, cfg.ParsedMode())
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.InDelta(t, 0.4, cfg.Generation.Temperature, 1e-9)
	assert.Equal(t, 20, cfg.Generation.TopK)
	// Keys absent from the file keep their defaults.
	assert.InDelta(t, 0.95, cfg.Generation.TopP, 1e-9)
	assert.Equal(t, 8192, cfg.Generation.MaxOutputTokens)
}

func TestLoad_EnvOverridesTOML(t *testing.T) {
	t.Parallel()
	path := writeFile(t, `model = "from-file"`)
	cfg, err := config.Load(path, envMap(map[string]string{
		"TUTOR_MODEL":     "from-env",
		"TUTOR_MODE":      "single-shot",
		"TUTOR_UI":        "web",
		"TUTOR_ADDR":      ":9090",
		"TUTOR_LOG_LEVEL": "warn",
		"TUTOR_LOG_FILE":  "/tmp/tutor.log",
		"TUTOR_TIMEOUT":   "5s",
	}))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Model)
	assert.Equal(t, tutor.ModeSingleShot, cfg.ParsedMode())
	assert.Equal(t, "web", cfg.UI)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "/tmp/tutor.log", cfg.Log.File)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}

func TestApplyEnv_IgnoresBadTimeout(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.ApplyEnv(envMap(map[string]string{"TUTOR_TIMEOUT": "soon"}))
	assert.Equal(t, 60*time.Second, cfg.Timeout)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"), nil)
	require.Error(t, err)
}

func TestLoad_UnknownKey(t *testing.T) {
	t.Parallel()
	path := writeFile(t, `modle = "typo"`)
	_, err := config.Load(path, nil)
	require.ErrorIs(t, err, tutor.ErrValidation)
	assert.Contains(t, err.Error(), "modle")
}

func TestValidate_Rejects(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"empty model", func(c *config.Config) { c.Model = "" }},
		{"unknown mode", func(c *config.Config) { c.Mode = "chat" }},
		{"unknown ui", func(c *config.Config) { c.UI = "gui" }},
		{"web without addr", func(c *config.Config) { c.UI = "web"; c.Addr = "" }},
		{"zero timeout", func(c *config.Config) { c.Timeout = 0 }},
		{"bad log level", func(c *config.Config) { c.Log.Level = "loud" }},
		{"temperature out of range", func(c *config.Config) { c.Generation.Temperature = 3 }},
		{"negative top_k", func(c *config.Config) { c.Generation.TopK = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := config.Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), tutor.ErrValidation)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := config.ParseLogLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	_, err := config.ParseLogLevel("trace")
	assert.ErrorIs(t, err, tutor.ErrValidation)
}

func TestRequireSecret(t *testing.T) {
	t.Parallel()

	t.Run("from env", func(t *testing.T) {
		t.Parallel()
		v, err := config.RequireSecret(envMap(map[string]string{config.APIKeyEnv: "gk-env"}), config.APIKeyEnv, "")
		require.NoError(t, err)
		assert.Equal(t, "gk-env", v)
	})

	t.Run("override wins", func(t *testing.T) {
		t.Parallel()
		v, err := config.RequireSecret(envMap(map[string]string{config.APIKeyEnv: "gk-env"}), config.APIKeyEnv, "gk-flag")
		require.NoError(t, err)
		assert.Equal(t, "gk-flag", v)
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()
		_, err := config.RequireSecret(envMap(nil), config.APIKeyEnv, "")
		require.ErrorIs(t, err, tutor.ErrConfigurationMissing)
		assert.Contains(t, err.Error(), config.APIKeyEnv)
	})

	t.Run("whitespace only", func(t *testing.T) {
		t.Parallel()
		_, err := config.RequireSecret(envMap(map[string]string{config.APIKeyEnv: "  "}), config.APIKeyEnv, "")
		assert.ErrorIs(t, err, tutor.ErrConfigurationMissing)
	})

	t.Run("nil env", func(t *testing.T) {
		t.Parallel()
		_, err := config.RequireSecret(nil, config.APIKeyEnv, "")
		assert.ErrorIs(t, err, tutor.ErrConfigurationMissing)
	})
}

func TestSetupLoggerWithWriters_FansOut(t *testing.T) {
	t.Parallel()
	var console, file bytes.Buffer
	logger := config.SetupLoggerWithWriters(&console, &file, slog.LevelInfo)

	logger.Debug("hidden")
	logger.Info("asked", "session", "abc")

	assert.NotContains(t, console.String(), "hidden")
	assert.Contains(t, console.String(), "msg=asked")
	assert.Contains(t, console.String(), "session=abc")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(file.Bytes()), &rec))
	assert.Equal(t, "asked", rec["msg"])
	assert.Equal(t, "abc", rec["session"])
}

func TestSetupLogger_WritesFile(t *testing.T) {
	t.Parallel()
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "tutor.log")

	logger, closeFn, err := config.SetupLogger(&console, path, slog.LevelDebug)
	require.NoError(t, err)
	logger.Debug("started")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"started"`)
	assert.Contains(t, console.String(), "started")
}

func TestSetupLogger_ConsoleOnly(t *testing.T) {
	t.Parallel()
	var console bytes.Buffer
	logger, closeFn, err := config.SetupLogger(&console, "", slog.LevelInfo)
	require.NoError(t, err)
	logger.Info("ready")
	require.NoError(t, closeFn())
	assert.True(t, strings.Contains(console.String(), "ready"))
}

func TestSetupLogger_BadPath(t *testing.T) {
	t.Parallel()
	_, _, err := config.SetupLogger(&bytes.Buffer{}, filepath.Join(t.TempDir(), "missing", "tutor.log"), slog.LevelInfo)
	require.Error(t, err)
}

func TestStepTimeout(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	// Three generations, two attempts each, plus slack.
	assert.Equal(t, 7*time.Minute, cfg.StepTimeout())
	assert.Greater(t, cfg.StepTimeout(), time.Duration(tutor.MaxGenerationsPerStep*2)*cfg.Timeout)

	cfg.Retry = false
	cfg.Timeout = 10 * time.Second
	assert.Equal(t, 90*time.Second, cfg.StepTimeout())
}
