// Command tutor is a Socratic math tutor backed by Gemini.
//
// Usage:
//
//	GEMINI_API_KEY=gk-... tutor [flags]
//
// Flags:
//
//	-config string        Path to a TOML settings file
//	-ui string            Front-end: tui, web (default: tui)
//	-mode string          Request mode: single-shot, history, history+image
//	-model string         Gemini model ID (default: gemini-2.0-flash)
//	-addr string          Listen address for the web front-end (default: :8080)
//	-system-prompt string Path to a file replacing the tutoring policy
//	-timeout duration     Per-attempt generation timeout (default: 60s)
//	-api-key string       API key (overrides GEMINI_API_KEY)
//
// A .env file in the working directory is loaded before the environment is
// read.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/fwojciec/tutor"
	bt "github.com/fwojciec/tutor/bubbletea"
	tutorchi "github.com/fwojciec/tutor/chi"
	"github.com/fwojciec/tutor/config"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "tutor: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", "", "Path to a TOML settings file")
		apiKey     = flag.String("api-key", "", "API key (overrides GEMINI_API_KEY)")
		flags      overrides
	)
	flag.StringVar(&flags.ui, "ui", "", "Front-end: tui, web")
	flag.StringVar(&flags.mode, "mode", "", "Request mode: single-shot, history, history+image")
	flag.StringVar(&flags.model, "model", "", "Gemini model ID")
	flag.StringVar(&flags.addr, "addr", "", "Listen address for the web front-end")
	flag.StringVar(&flags.systemPrompt, "system-prompt", "", "Path to a file replacing the tutoring policy")
	flag.DurationVar(&flags.timeout, "timeout", 0, "Per-attempt generation timeout")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Env is read here and passed down as values.
	cfg, err := resolveConfig(*configPath, flags, os.Getenv)
	if err != nil {
		return err
	}
	key, err := config.RequireSecret(os.Getenv, config.APIKeyEnv, *apiKey)
	if err != nil {
		return err
	}

	// The terminal UI owns the screen, so logs only go to the file.
	var console io.Writer = os.Stderr
	if cfg.UI == "tui" {
		console = io.Discard
	}
	level, err := config.ParseLogLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logger, closeLog, err := config.SetupLogger(console, cfg.Log.File, level)
	if err != nil {
		return err
	}
	defer closeLog()

	pipeline, err := newPipeline(ctx, cfg, key, logger)
	if err != nil {
		return err
	}

	switch cfg.UI {
	case "web":
		srv := tutorchi.NewServer(pipeline,
			tutorchi.WithLogger(logger),
			tutorchi.WithIdleTimeout(cfg.IdleTimeout),
			tutorchi.WithWriteTimeout(cfg.StepTimeout()),
		)
		return srv.Run(ctx, cfg.Addr)
	default:
		m := bt.New(pipeline.Step, pipeline.NewSession(), tutor.DefaultTheme(),
			bt.WithImages(pipeline.Mode().AcceptsImages()),
		)
		if err := bt.Run(ctx, m); err != nil {
			return fmt.Errorf("TUI: %w", err)
		}
		return nil
	}
}
