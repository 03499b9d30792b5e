// Package config loads the tutor's settings from an optional TOML file and
// the environment, and sets up structured logging.
//
// The environment is never read here directly: callers pass a lookup
// function (os.Getenv in main) so tests can supply their own values.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/fwojciec/tutor"
)

// APIKeyEnv names the environment variable holding the Gemini credential.
const APIKeyEnv = "GEMINI_API_KEY"

// Env looks up an environment variable, returning "" when unset.
type Env func(key string) string

// Config holds the tutor's settings.
type Config struct {
	Model        string        `toml:"model"`
	Mode         string        `toml:"mode"`
	UI           string        `toml:"ui"`
	Addr         string        `toml:"addr"`
	SystemPrompt string        `toml:"system_prompt"`
	Timeout      time.Duration `toml:"timeout"`
	Retry        bool          `toml:"retry"`
	IdleTimeout  time.Duration `toml:"idle_timeout"`

	Log        LogConfig        `toml:"log"`
	Generation GenerationConfig `toml:"generation"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// GenerationConfig holds the sampling parameters.
type GenerationConfig struct {
	Temperature     float64 `toml:"temperature"`
	TopP            float64 `toml:"top_p"`
	TopK            int     `toml:"top_k"`
	MaxOutputTokens int     `toml:"max_output_tokens"`
}

// Default returns the built-in settings.
func Default() Config {
	g := tutor.DefaultGenerationConfig()
	return Config{
		Model:       tutor.DefaultModel,
		Mode:        string(tutor.ModeHistory),
		UI:          "tui",
		Addr:        ":8080",
		Timeout:     60 * time.Second,
		Retry:       true,
		IdleTimeout: 2 * time.Hour,
		Log: LogConfig{
			Level: "info",
		},
		Generation: GenerationConfig{
			Temperature:     g.Temperature,
			TopP:            g.TopP,
			TopK:            g.TopK,
			MaxOutputTokens: g.MaxOutputTokens,
		},
	}
}

// Load builds the configuration: defaults, then the TOML file at path (if
// path is non-empty), then environment overrides. The result is validated.
func Load(path string, env Env) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := LoadTOML(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if env != nil {
		cfg.ApplyEnv(env)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadTOML decodes the file at path over cfg. Keys absent from the file keep
// their current values; unknown keys are rejected.
func LoadTOML(path string, cfg *Config) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("config %s: unknown keys %s: %w", path, strings.Join(keys, ", "), tutor.ErrValidation)
	}
	return nil
}

// ApplyEnv overrides settings from TUTOR_* variables. Unparseable timeouts
// are ignored.
func (c *Config) ApplyEnv(env Env) {
	if v := env("TUTOR_MODEL"); v != "" {
		c.Model = v
	}
	if v := env("TUTOR_MODE"); v != "" {
		c.Mode = v
	}
	if v := env("TUTOR_UI"); v != "" {
		c.UI = v
	}
	if v := env("TUTOR_ADDR"); v != "" {
		c.Addr = v
	}
	if v := env("TUTOR_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := env("TUTOR_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	if v := env("TUTOR_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Timeout = d
		}
	}
}

// Validate checks that the settings can build a working tutor.
func (c Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("model is required: %w", tutor.ErrValidation)
	}
	if _, err := tutor.ParseMode(c.Mode); err != nil {
		return err
	}
	switch c.UI {
	case "tui", "web":
	default:
		return fmt.Errorf("unknown ui %q: must be \"tui\" or \"web\": %w", c.UI, tutor.ErrValidation)
	}
	if c.UI == "web" && c.Addr == "" {
		return fmt.Errorf("addr is required for the web ui: %w", tutor.ErrValidation)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s: %w", c.Timeout, tutor.ErrValidation)
	}
	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		return err
	}
	return c.GenerationConfig().Validate()
}

// StepTimeout bounds one user action: every generation a step can make,
// each with its retry, plus a minute of slack for the host.
func (c Config) StepTimeout() time.Duration {
	attempts := 1
	if c.Retry {
		attempts = 2
	}
	return time.Duration(tutor.MaxGenerationsPerStep*attempts)*c.Timeout + time.Minute
}

// ParsedMode returns the request mode. Call Validate first.
func (c Config) ParsedMode() tutor.Mode { return tutor.Mode(c.Mode) }

// GenerationConfig converts the sampling parameters for the pipeline.
func (c Config) GenerationConfig() tutor.GenerationConfig {
	return tutor.GenerationConfig{
		Temperature:     c.Generation.Temperature,
		TopP:            c.Generation.TopP,
		TopK:            c.Generation.TopK,
		MaxOutputTokens: c.Generation.MaxOutputTokens,
	}
}

// ParseLogLevel converts a level name to a slog.Level. The empty string
// means info.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q: %w", s, tutor.ErrValidation)
	}
}

// RequireSecret returns the value of key, or ErrConfigurationMissing when it
// is empty. An explicit override (such as a flag) takes precedence.
func RequireSecret(env Env, key, override string) (string, error) {
	if override != "" {
		return override, nil
	}
	var v string
	if env != nil {
		v = strings.TrimSpace(env(key))
	}
	if v == "" {
		return "", fmt.Errorf("%s not set (use -api-key flag or environment variable): %w", key, tutor.ErrConfigurationMissing)
	}
	return v, nil
}
