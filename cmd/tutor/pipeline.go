package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fwojciec/tutor"
	"github.com/fwojciec/tutor/config"
	"github.com/fwojciec/tutor/gemini"
)

// overrides holds command-line values. Empty fields leave the loaded
// configuration unchanged.
type overrides struct {
	ui           string
	mode         string
	model        string
	addr         string
	systemPrompt string
	timeout      time.Duration
}

func (o overrides) apply(cfg *config.Config) {
	if o.ui != "" {
		cfg.UI = o.ui
	}
	if o.mode != "" {
		cfg.Mode = o.mode
	}
	if o.model != "" {
		cfg.Model = o.model
	}
	if o.addr != "" {
		cfg.Addr = o.addr
	}
	if o.systemPrompt != "" {
		cfg.SystemPrompt = o.systemPrompt
	}
	if o.timeout > 0 {
		cfg.Timeout = o.timeout
	}
}

// resolveConfig layers flags over the file and environment settings.
func resolveConfig(path string, flags overrides, env config.Env) (config.Config, error) {
	cfg := config.Default()
	if path != "" {
		if err := config.LoadTOML(path, &cfg); err != nil {
			return config.Config{}, err
		}
	}
	cfg.ApplyEnv(env)
	flags.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newPipeline constructs the Gemini client and the pipeline around it. The
// key is passed in as a value; env is only read in main().
func newPipeline(ctx context.Context, cfg config.Config, apiKey string, logger *slog.Logger) (*tutor.Pipeline, error) {
	instruction, err := readSystemPrompt(cfg.SystemPrompt)
	if err != nil {
		return nil, err
	}
	client, err := gemini.New(ctx, apiKey,
		gemini.WithModel(cfg.Model),
		gemini.WithTimeout(cfg.Timeout),
		gemini.WithRetry(cfg.Retry),
		gemini.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	return tutor.NewPipeline(client,
		tutor.WithMode(cfg.ParsedMode()),
		tutor.WithSystemInstruction(instruction),
		tutor.WithGenerationConfig(cfg.GenerationConfig()),
		tutor.WithLogger(logger),
	)
}

// readSystemPrompt returns the tutoring policy, or the contents of path when
// one is given.
func readSystemPrompt(path string) (string, error) {
	if path == "" {
		return tutor.DefaultSystemInstruction, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read system prompt: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", fmt.Errorf("system prompt %s is empty: %w", path, tutor.ErrValidation)
	}
	return string(data), nil
}
