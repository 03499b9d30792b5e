package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// SetupLogger creates a logger that writes text to console and, when
// logFile is set, JSON to that file. The terminal UI passes io.Discard as
// console since it owns the screen. The returned function closes the file.
func SetupLogger(console io.Writer, logFile string, level slog.Level) (*slog.Logger, func() error, error) {
	if logFile == "" {
		h := slog.NewTextHandler(console, &slog.HandlerOptions{Level: level})
		return slog.New(h), func() error { return nil }, nil
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return SetupLoggerWithWriters(console, f, level), f.Close, nil
}

// SetupLoggerWithWriters fans out text to console and JSON to file.
func SetupLoggerWithWriters(console, file io.Writer, level slog.Level) *slog.Logger {
	consoleHandler := slog.NewTextHandler(console, &slog.HandlerOptions{Level: level})
	fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level})
	return slog.New(slogmulti.Fanout(consoleHandler, fileHandler))
}
