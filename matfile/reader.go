// SPDX-License-Identifier: MIT

// Package matfile - reader.
//
// Implementation:
//   - Stage 1: read the whole stream, sniff the zstd/lz4 frame magic and
//     decompress when present. Offsets address the decompressed stream.
//   - Stage 2: skip the guide block, parse header lines up to the end rule
//     and rebuild the depth-first tree.
//   - Stage 3: derive block dims from the children, build the shapes and
//     fill the payloads of the leaves that are materialized.
//
// Behavior highlights:
//   - WithLabel(l): a subtree is materialized when its root or an ancestor
//     is labeled l. Top-level matrices outside the selection come back as
//     Null placeholders of their full dims, keeping their labels.
//   - WithShapeOnly(): shapes only; leaves carry a Source for Load.
//   - Null cells of a block, and cells outside the selection, are left empty.

package matfile

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/katalvlaran/bmat/layout"
	"github.com/katalvlaran/bmat/mat"
)

var (
	zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}
	lz4Magic  = []byte{0x04, 0x22, 0x4D, 0x18}
)

// node is a header with its children and derived full dims.
type node struct {
	header
	children []*node
	rows     []int // block dims; nil for leaves
	cols     []int
	full     layout.Dims
	selected bool // subtree root or ancestor carries the requested label
	wanted   bool // node or a descendant is selected
}

// document is a parsed stream.
type document struct {
	data   []byte
	lines  [][]byte // text payload lines, indexed like header offsets
	binary bool
	roots  []*node
}

// ReadFile reads the matrices stored at path. See Read.
func ReadFile(path string, opts ...Option) (*mat.Collection, error) {
	o := gatherOptions(opts...)
	f, err := os.Open(path)
	if err != nil {
		return nil, fail(o.logger, opRead, ioError(err), "file", path)
	}
	defer f.Close()

	c, err := read(f, path, o)
	if err != nil {
		return nil, fail(o.logger, opRead, err, "file", path)
	}
	o.logger.Info("matrices read", "file", path, "count", c.Len(), "label", o.label)

	return c, nil
}

// Read parses a stream written by Write into a collection.
func Read(r io.Reader, opts ...Option) (*mat.Collection, error) {
	o := gatherOptions(opts...)
	c, err := read(r, "", o)
	if err != nil {
		return nil, fail(o.logger, opRead, err)
	}

	return c, nil
}

func read(r io.Reader, file string, o Options) (*mat.Collection, error) {
	doc, err := parse(r)
	if err != nil {
		return nil, err
	}
	out := mat.NewCollection()
	for _, root := range doc.roots {
		if err = derive(root); err != nil {
			return nil, err
		}
		mark(root, o, false)
		m, err := doc.build(root, file, o)
		if err != nil {
			return nil, err
		}
		out.Append(m)
	}

	return out, nil
}

// decompress returns data unchanged unless it starts with a zstd or lz4
// frame magic.
func decompress(data []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(data, zstdMagic):
		dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, ioError(err)
		}
		defer dec.Close()
		out, err := dec.DecodeAll(data, nil)
		if err != nil {
			return nil, ioError(err)
		}
		return out, nil
	case bytes.HasPrefix(data, lz4Magic):
		out, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
		if err != nil {
			return nil, ioError(err)
		}
		return out, nil
	default:
		return data, nil
	}
}

// parse reads, decompresses and parses the header section of r.
func parse(r io.Reader) (*document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, ioError(err)
	}
	data, err := decompress(raw)
	if err != nil {
		return nil, err
	}
	doc := &document{data: data}

	pos, lineNo := 0, 0
	next := func() (string, bool) {
		if pos >= len(data) {
			return "", false
		}
		end := bytes.IndexByte(data[pos:], '\n')
		var line []byte
		if end < 0 {
			line, pos = data[pos:], len(data)
		} else {
			line, pos = data[pos:pos+end], pos+end+1
		}
		lineNo++
		return string(bytes.TrimSuffix(line, []byte{'\r'})), true
	}

	if line, ok := next(); !ok || line != guideRule {
		return nil, malformed("missing guide block")
	}
	for {
		line, ok := next()
		if !ok {
			return nil, malformed("unterminated guide block")
		}
		if line == guideRule {
			break
		}
	}
	if line, ok := next(); !ok || line != "" {
		return nil, malformed("line %d: blank line expected after the guide block", lineNo)
	}

	var stack []*node
	first := true
	for {
		line, ok := next()
		if !ok {
			return nil, malformed("missing end rule")
		}
		if line == endRule {
			break
		}
		h, err := parseHeader(line)
		if err != nil {
			return nil, malformed("line %d: %v", lineNo, err)
		}
		if first {
			doc.binary, first = h.binary, false
		} else if h.binary != doc.binary {
			return nil, malformed("line %d: mixed line and byte offsets", lineNo)
		}
		n := &node{header: h}
		for len(stack) > h.depth {
			stack = stack[:len(stack)-1]
		}
		if len(stack) != h.depth {
			return nil, malformed("line %d: depth %d skips a level", lineNo, h.depth)
		}
		if h.depth == 0 {
			if h.index != len(doc.roots) {
				return nil, malformed("line %d: top-level index %d, want %d", lineNo, h.index, len(doc.roots))
			}
			doc.roots = append(doc.roots, n)
		} else {
			parent := stack[len(stack)-1]
			if !parent.block {
				return nil, malformed("line %d: parent of depth %d is not a block", lineNo, h.depth)
			}
			parent.children = append(parent.children, n)
		}
		stack = append(stack, n)
	}
	if line, ok := next(); ok && line != "" {
		return nil, malformed("line %d: blank line expected after the end rule", lineNo)
	}
	if !doc.binary {
		doc.lines = bytes.Split(data, []byte{'\n'})
	}

	return doc, nil
}

// derive checks a subtree and computes block dims and full dims bottom-up.
func derive(n *node) error {
	if n.dims[0] < 0 || n.dims[1] < 0 {
		return malformed("negative dims %s", n.dims)
	}
	if n.kind.Square() && !n.dims.Square() {
		return malformed("%s with dims %s", n.kind, n.dims)
	}
	if !n.block {
		n.full = n.dims
		return nil
	}
	if n.kind == layout.Null {
		return malformed("null block at offset %d", n.offset)
	}
	n.rows, n.cols = make([]int, n.dims[0]), make([]int, n.dims[1])
	size := n.kind.Size(n.dims)
	for _, c := range n.children {
		if err := derive(c); err != nil {
			return err
		}
		if c.index < 0 || c.index >= size {
			return malformed("cell index %d outside %s grid %s", c.index, n.kind, n.dims)
		}
		i, j := n.kind.Locate(n.dims, c.index)
		if err := merge(&n.rows[i], c.full[0]); err != nil {
			return err
		}
		if err := merge(&n.cols[j], c.full[1]); err != nil {
			return err
		}
	}
	if n.kind.Category() == 1 {
		for i := range n.rows {
			if err := merge(&n.rows[i], n.cols[i]); err != nil {
				return err
			}
			n.cols[i] = n.rows[i]
		}
	}
	for _, r := range n.rows {
		n.full[0] += r
	}
	for _, c := range n.cols {
		n.full[1] += c
	}

	return nil
}

// merge records a block dim; 0 is unknown.
func merge(dst *int, v int) error {
	switch {
	case v == 0 || *dst == v:
	case *dst == 0:
		*dst = v
	default:
		return malformed("block dim %d conflicts with %d", v, *dst)
	}

	return nil
}

// mark sets the selection flags of a subtree; it reports whether anything
// below n is selected.
func mark(n *node, o Options, inherited bool) bool {
	n.selected = inherited || !o.labeled || n.label == o.label
	n.wanted = n.selected
	for _, c := range n.children {
		if mark(c, o, n.selected) {
			n.wanted = true
		}
	}

	return n.wanted
}

// build creates the matrix of n.
func (d *document) build(n *node, file string, o Options) (*mat.Matrix, error) {
	if !n.wanted || n.kind == layout.Null {
		m := mat.NewNull(n.full)
		m.SetLabel(n.label)
		return m, nil
	}
	if !n.block {
		src := &mat.Source{File: file, Offset: n.offset, Kind: n.kind, Binary: d.binary}
		if o.shapeOnly {
			// no payload until Load
			m := mat.NewNull(n.dims)
			m.SetLabel(n.label)
			m.SetSource(src)
			return m, nil
		}
		m := mat.New(n.kind, n.dims, false)
		m.SetLabel(n.label)
		m.SetSource(src)
		if err := d.fill(m.Payload(), n); err != nil {
			return nil, err
		}
		return m, nil
	}
	m := mat.NewBlock(n.kind, n.rows, n.cols)
	m.SetLabel(n.label)
	for _, c := range n.children {
		if !c.wanted || (c.kind == layout.Null && !c.block) {
			continue
		}
		sub, err := d.build(c, file, o)
		if err != nil {
			return nil, err
		}
		i, j := n.kind.Locate(n.dims, c.index)
		m.AdoptBlock(i, j, sub)
	}

	return m, nil
}

// fill decodes the payload of leaf n into dst.
func (d *document) fill(dst []float64, n *node) error {
	if d.binary {
		start, end := n.offset, n.offset+8*int64(len(dst))
		if start < 0 || end > int64(len(d.data)) {
			return malformed("payload of %s %s at byte %d exceeds the stream", n.kind, n.dims, n.offset)
		}
		buf := d.data[start:end]
		for i := range dst {
			dst[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[8*i:]))
		}
		return nil
	}

	at := 0
	for r, want := range rowCounts(n.kind, n.dims) {
		ln := n.offset + int64(r)
		if ln < 0 || ln >= int64(len(d.lines)) {
			return malformed("payload of %s %s at line %d exceeds the stream", n.kind, n.dims, n.offset)
		}
		fields := bytes.Fields(d.lines[ln])
		if len(fields) != want {
			return malformed("line %d: %d values, want %d", ln, len(fields), want)
		}
		for _, f := range fields {
			v, err := strconv.ParseFloat(string(f), 64)
			if err != nil {
				return malformed("line %d: %v", ln, err)
			}
			dst[at] = v
			at++
		}
	}

	return nil
}
