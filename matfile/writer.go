// SPDX-License-Identifier: MIT

// Package matfile - writer.
//
// Implementation:
//   - Stage 1: walk every matrix depth-first (pre-order) and record one
//     header per matrix or sub-matrix. Transforms are baked: headers carry the
//     effective kind and dims, payloads the effective values.
//   - Stage 2: assign payload offsets. The header describes its own length
//     (offsets are absolute), so the offsets are iterated to a fixed point:
//     render, measure, shift, repeat until the measured length is stable.
//   - Stage 3: stream guide, headers, end rule and payload through an
//     optional zstd/lz4 encoder.
//
// Complexity: O(total stored entries) time; headers are held in memory.

package matfile

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/katalvlaran/bmat/layout"
	"github.com/katalvlaran/bmat/mat"
)

// entry is one header plus the payload it describes.
type entry struct {
	header
	values []float64 // effective payload; nil for blocks and Null leaves
}

// size returns the payload length of e in lines (text) or bytes (binary).
func (e *entry) size() int64 {
	if e.block || e.kind == layout.Null {
		return 0
	}
	if e.binary {
		return 8 * int64(len(e.values))
	}

	return int64(e.dims[0]) + 1
}

// WriteFile writes c to path. See Write.
func WriteFile(path string, c *mat.Collection, opts ...Option) error {
	o := gatherOptions(opts...)
	f, err := os.Create(path)
	if err != nil {
		return fail(o.logger, opWrite, ioError(err), "file", path)
	}
	if err = write(f, c, o); err != nil {
		_ = f.Close()
		return fail(o.logger, opWrite, err, "file", path)
	}
	if err = f.Close(); err != nil {
		return fail(o.logger, opWrite, ioError(err), "file", path)
	}
	o.logger.Info("matrices written", "file", path, "count", c.Len(), "binary", o.binary, "codec", o.codec.String())

	return nil
}

// Write serializes every matrix of c to w.
// Labels must not contain line breaks (ErrMalformed). Failures of w are
// returned wrapped in ErrIO.
func Write(w io.Writer, c *mat.Collection, opts ...Option) error {
	o := gatherOptions(opts...)
	if err := write(w, c, o); err != nil {
		return fail(o.logger, opWrite, err)
	}

	return nil
}

func write(w io.Writer, c *mat.Collection, o Options) error {
	entries, err := walkCollection(c, o.binary)
	if err != nil {
		return err
	}
	head := renderHead(entries, o)

	var sink io.Writer = w
	var closer io.Closer
	switch o.codec {
	case CodecZstd:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return ioError(err)
		}
		sink, closer = enc, enc
	case CodecLZ4:
		enc := lz4.NewWriter(w)
		sink, closer = enc, enc
	}

	bw := bufio.NewWriter(sink)
	if _, err = bw.Write(head); err != nil {
		return ioError(err)
	}
	var line []byte
	for i := range entries {
		e := &entries[i]
		if e.values == nil {
			continue
		}
		if o.binary {
			line = line[:0]
			for _, v := range e.values {
				line = binary.LittleEndian.AppendUint64(line, math.Float64bits(v))
			}
			if _, err = bw.Write(line); err != nil {
				return ioError(err)
			}
			continue
		}
		at := 0
		for _, n := range rowCounts(e.kind, e.dims) {
			line = line[:0]
			for k, v := range e.values[at : at+n] {
				if k > 0 {
					line = append(line, ' ')
				}
				line = strconv.AppendFloat(line, v, 'e', o.precision, 64)
			}
			line = append(line, '\n')
			at += n
			if _, err = bw.Write(line); err != nil {
				return ioError(err)
			}
		}
		if err = bw.WriteByte('\n'); err != nil {
			return ioError(err)
		}
	}
	if err = bw.Flush(); err != nil {
		return ioError(err)
	}
	if closer != nil {
		if err = closer.Close(); err != nil {
			return ioError(err)
		}
	}

	return nil
}

// walkCollection flattens c into depth-first entries.
func walkCollection(c *mat.Collection, bin bool) ([]entry, error) {
	var out []entry
	for i, m := range c.All() {
		if m == nil {
			return nil, malformed("matrix %d is nil", i)
		}
		if err := walk(m, 0, i, bin, &out); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func walk(m *mat.Matrix, depth, index int, bin bool, out *[]entry) error {
	if strings.ContainsAny(m.Label(), "\r\n") {
		return malformed("label %q contains a line break", m.Label())
	}
	e := entry{header: header{
		block:  m.IsBlock(),
		binary: bin,
		label:  m.Label(),
		kind:   m.Kind(),
		dims:   m.Dims(),
		depth:  depth,
		index:  index,
	}}
	if !m.IsBlock() {
		if !m.IsNull() {
			e.values = mat.Materialize(m).Payload()
			if e.values == nil {
				e.values = []float64{}
			}
		}
		*out = append(*out, e)
		return nil
	}
	*out = append(*out, e)
	var err error
	e.kind.Each(e.dims, func(off, i, j int) {
		if err == nil {
			err = walk(m.GetBlock(i, j), depth+1, off, bin, out)
		}
	})

	return err
}

// renderHead assigns payload offsets and renders everything up to the
// payload: guide, headers, end rule and the blank line after it.
func renderHead(entries []entry, o Options) []byte {
	var base int64
	for {
		cursor := base
		for i := range entries {
			entries[i].offset = cursor
			cursor += entries[i].size()
		}
		head := renderLines(entries, o.guide)
		next := int64(len(head))
		if !o.binary {
			next = int64(strings.Count(string(head), "\n"))
		}
		if next == base {
			return head
		}
		base = next
	}
}

func renderLines(entries []entry, guide []string) []byte {
	var b []byte
	b = append(b, guideRule...)
	b = append(b, '\n')
	for _, g := range guide {
		b = append(b, g...)
		b = append(b, '\n')
	}
	b = append(b, guideRule...)
	b = append(b, "\n\n"...)
	for i := range entries {
		b = entries[i].appendTo(b)
	}
	b = append(b, endRule...)
	b = append(b, "\n\n"...)

	return b
}
