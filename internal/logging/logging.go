// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging sets up the optional debug logger.
//
// The TUI owns the terminal, so logs never go to stdout or stderr. When a
// debug log file is configured the logger writes structured JSON lines
// there; otherwise every log call is a no-op.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// New returns a logger writing to the given file, or a no-op logger when
// path is empty. The caller owns the returned closer.
func New(path string) (zerolog.Logger, io.Closer, error) {
	if path == "" {
		return zerolog.Nop(), nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := zerolog.New(file).With().Timestamp().Logger().Level(zerolog.DebugLevel)
	return logger, file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
