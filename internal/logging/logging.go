// Package logging builds the zap loggers used by the bot and the CLI.
package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// New returns a JSON production logger at level (debug, info, warn, error).
func New(level string) (*zap.Logger, error) {
	return build(zap.NewProductionConfig(), level)
}

// NewConsole returns a human-readable logger writing to stderr.
func NewConsole(level string) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	return build(cfg, level)
}

func build(cfg zap.Config, level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg.Level = lvl
	return cfg.Build()
}
