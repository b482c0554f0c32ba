// SPDX-License-Identifier: MIT

// Package matfile: functional configuration for Write, Read and Load.
// Writer options: WithPrecision, WithBinary, WithCompression, WithGuide.
// Reader options: WithLabel, WithShapeOnly. Both: WithLogger.
// Options a call does not use are ignored.

package matfile

import (
	"log/slog"

	"github.com/katalvlaran/bmat/mat"
)

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultPrecision is the number of digits after the decimal point of
	// text values; 16 reproduces every float64 exactly.
	DefaultPrecision = 16

	// MaxPrecision bounds WithPrecision.
	MaxPrecision = 32
)

const (
	panicPrecisionInvalid = "matfile: WithPrecision: precision must be in [0, MaxPrecision]"
	panicCodecInvalid     = "matfile: WithCompression: unknown codec"
)

// Codec selects the stream compression of written files.
type Codec uint8

const (
	// CodecNone writes the stream as is.
	CodecNone Codec = iota
	// CodecZstd wraps the stream in a zstd frame.
	CodecZstd
	// CodecLZ4 wraps the stream in an lz4 frame.
	CodecLZ4
)

// String returns the codec name.
func (c Codec) String() string {
	switch c {
	case CodecNone:
		return "none"
	case CodecZstd:
		return "zstd"
	case CodecLZ4:
		return "lz4"
	default:
		return "unknown"
	}
}

// Option mutates internal options. Safe to apply repeatedly.
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
type Options struct {
	precision int
	binary    bool
	codec     Codec
	guide     []string
	label     string
	labeled   bool
	shapeOnly bool
	logger    *slog.Logger
}

// WithPrecision sets the digits after the decimal point of text values.
// Panics outside [0, MaxPrecision].
func WithPrecision(p int) Option {
	if p < 0 || p > MaxPrecision {
		panic(panicPrecisionInvalid)
	}

	return func(o *Options) { o.precision = p }
}

// WithBinary writes the payload as little-endian float64 values.
func WithBinary() Option {
	return func(o *Options) { o.binary = true }
}

// WithCompression wraps the written stream with codec c.
// Readers detect the codec from the frame magic.
func WithCompression(c Codec) Option {
	if c > CodecLZ4 {
		panic(panicCodecInvalid)
	}

	return func(o *Options) { o.codec = c }
}

// WithGuide replaces the free-text lines of the guide block.
func WithGuide(lines ...string) Option {
	return func(o *Options) { o.guide = append([]string(nil), lines...) }
}

// WithLabel makes Read materialize only subtrees labeled label; every other
// top-level matrix is returned as a Null placeholder of its full dims.
func WithLabel(label string) Option {
	return func(o *Options) {
		o.label = label
		o.labeled = true
	}
}

// WithShapeOnly makes Read build the shapes without loading values.
// Every leaf comes back as a Null placeholder of its dims that carries its
// Source, so no payload is allocated until Load fills it.
func WithShapeOnly() Option {
	return func(o *Options) { o.shapeOnly = true }
}

// WithLogger routes info/error diagnostics to l. nil restores the no-op logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l == nil {
			l = mat.NoopLogger()
		}
		o.logger = l
	}
}

func gatherOptions(user ...Option) Options {
	o := Options{
		precision: DefaultPrecision,
		codec:     CodecNone,
		guide:     defaultGuide,
		logger:    mat.NoopLogger(),
	}
	for _, set := range user {
		set(&o)
	}

	return o
}

// defaultGuide documents the format inside every written file.
var defaultGuide = []string{
	"* Structured block-matrix file.",
	"*",
	"* Header lines (one per matrix, depth-first, four spaces of indent per level):",
	"*   (block )?matrix at (line|byte) <offset> : <label|-->, <kind>, (<rows>, <cols>), (<depth>, <index>)",
	"* kind is one of null, f (full), d (diagonal), s (symmetric), ut, lt (triangular).",
	"* Block lines give grid dims; leaf lines give element dims.",
	"* index is the position in the file for depth 0, else the stored-cell offset in the parent grid.",
	"* offset is the 0-based line (text) or byte (binary) where the payload starts.",
	"*",
	"* Text payload: one line per row holding the stored entries of that row,",
	"* a blank line after each matrix. Binary payload: little-endian float64.",
}
