// SPDX-License-Identifier: MIT

package mat

import (
	"log/slog"
	"os"
)

// NewTextLogger creates a logger that writes human-readable text to stderr.
// level sets the minimum level (e.g., slog.LevelDebug shows reduction decisions).
func NewTextLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewJSONLogger creates a logger that writes JSON lines to stderr.
func NewJSONLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger returns a logger that discards all output. It is the default.
func NoopLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
