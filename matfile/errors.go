// SPDX-License-Identifier: MIT
// Package matfile: sentinel error set.
//
// Every failure of this package is returned, never panicked, and logged at
// Error level through the configured logger:
//   - ErrIO wraps failures of the underlying reader, writer or file system.
//   - ErrMalformed signals input that does not follow the file format
//     (missing guide, bad header line, inconsistent dims, short payload).

package matfile

import (
	"errors"
	"fmt"
	"log/slog"
)

var (
	// ErrIO signals a failure of the underlying stream or file.
	ErrIO = errors.New("matfile: i/o failure")

	// ErrMalformed signals input that does not follow the file format.
	ErrMalformed = errors.New("matfile: malformed input")
)

// Operation name constants for unified error wrapping.
const (
	opWrite = "Write"
	opRead  = "Read"
	opLoad  = "Load"
)

// fileErrorf wraps err with an operation tag, preserving the original error via %w.
func fileErrorf(op string, err error) error {
	return fmt.Errorf("matfile: %s: %w", op, err)
}

// ioError wraps a stream failure under ErrIO.
func ioError(err error) error {
	return fmt.Errorf("%w: %w", ErrIO, err)
}

// malformed builds an ErrMalformed error with a formatted detail.
func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
}

// fail logs err at Error level and returns it wrapped with op.
func fail(l *slog.Logger, op string, err error, attrs ...any) error {
	err = fileErrorf(op, err)
	l.Error("matfile failure", append([]any{"op", op, "err", err}, attrs...)...)

	return err
}
