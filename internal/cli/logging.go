// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jeranaias/gemchat-tui/internal/config"
)

// LogOptions selects where and how verbosely gemchat logs.
type LogOptions struct {
	// Path overrides the configured log file.
	Path string
	// Verbose forces debug level.
	Verbose bool
}

// NewLogger builds the file logger. The screen belongs to the UI, so logs
// never go to stdout or stderr. When logging is disabled a no-op logger is
// returned.
func NewLogger(cfg config.LoggingConfig, opts LogOptions) (*zap.Logger, error) {
	if !cfg.Enabled && opts.Path == "" {
		return zap.NewNop(), nil
	}

	path := opts.Path
	if path == "" {
		path = cfg.Path
	}
	if path == "" {
		var err error
		path, err = config.DefaultLogPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve log path: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(strings.ToLower(cfg.Level))); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
	}
	if opts.Verbose {
		level = zapcore.DebugLevel
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{path}
	zc.ErrorOutputPaths = []string{path}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.Named("gemchat"), nil
}
