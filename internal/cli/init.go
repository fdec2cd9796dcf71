// Package cli holds the start-up steps shared by cmd/finances and
// cmd/finances-worker.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"finances/internal/config"
	"finances/internal/log"
)

// SetupLogger builds the process logger for level and installs it as the
// slog default. LOG_FORMAT=json switches to the JSON handler.
func SetupLogger(level string) (*log.Logger, error) {
	cfg := log.DefaultConfig()

	lvl, err := config.ParseLogLevel(level)
	if err != nil {
		return nil, err
	}
	cfg.Level = lvl
	cfg.JSON = strings.EqualFold(os.Getenv("LOG_FORMAT"), "json")

	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger, nil
}

// LoadEnvFile loads .env files for local development. A missing file is not
// an error.
func LoadEnvFile(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	if err := godotenv.Load(present...); err != nil {
		return fmt.Errorf("load env: %w", err)
	}
	return nil
}

// LoadAndValidateConfig reads configuration from the environment.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SignalContext is cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// Fatal logs err and exits. It is meant for main only.
func Fatal(logger *log.Logger, msg string, err error) {
	if logger == nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	} else {
		logger.Error(msg, log.FieldError, err.Error())
	}
	os.Exit(1)
}
