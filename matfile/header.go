// SPDX-License-Identifier: MIT

// Package matfile - header lines.
//
// A header describes one matrix of the depth-first walk:
//
//	<indent>(block )?matrix at (line|byte) <offset> : <label|-->, <kind>, (<rows>, <cols>), (<depth>, <index>)
//
// The guide block is bracketed by two rule lines of 128 '#', the header list
// is closed by a rule line of 128 '=' and one blank line.

package matfile

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/katalvlaran/bmat/layout"
)

const (
	ruleWidth   = 128
	indentWidth = 4
	noLabel     = "--"
)

var (
	guideRule = strings.Repeat("#", ruleWidth)
	endRule   = strings.Repeat("=", ruleWidth)

	headerRE = regexp.MustCompile(`^(\s*)(block )?matrix at (line|byte) (\d+) : (.+), (null|f|d|s|ut|lt), \((\d+), (\d+)\), \((\d+), (\d+)\)$`)
)

// header is one parsed or to-be-written header line.
type header struct {
	block  bool
	binary bool
	offset int64
	label  string
	kind   layout.Kind
	dims   layout.Dims // grid dims for blocks, element dims for leaves
	depth  int
	index  int
}

// appendTo renders h as one line (with trailing newline).
func (h *header) appendTo(b []byte) []byte {
	b = append(b, strings.Repeat(" ", indentWidth*h.depth)...)
	if h.block {
		b = append(b, "block "...)
	}
	b = append(b, "matrix at "...)
	if h.binary {
		b = append(b, "byte "...)
	} else {
		b = append(b, "line "...)
	}
	b = strconv.AppendInt(b, h.offset, 10)
	b = append(b, " : "...)
	if h.label == "" {
		b = append(b, noLabel...)
	} else {
		b = append(b, h.label...)
	}
	b = append(b, ", "...)
	b = append(b, h.kind.String()...)
	b = append(b, ", ("...)
	b = strconv.AppendInt(b, int64(h.dims[0]), 10)
	b = append(b, ", "...)
	b = strconv.AppendInt(b, int64(h.dims[1]), 10)
	b = append(b, "), ("...)
	b = strconv.AppendInt(b, int64(h.depth), 10)
	b = append(b, ", "...)
	b = strconv.AppendInt(b, int64(h.index), 10)
	b = append(b, ")\n"...)

	return b
}

// parseHeader parses one header line.
func parseHeader(line string) (header, error) {
	sub := headerRE.FindStringSubmatch(line)
	if sub == nil {
		return header{}, malformed("bad header line %q", line)
	}
	var h header
	h.block = sub[2] != ""
	h.binary = sub[3] == "byte"
	off, err := strconv.ParseInt(sub[4], 10, 64)
	if err != nil {
		return header{}, malformed("offset %q: %v", sub[4], err)
	}
	h.offset = off
	if sub[5] != noLabel {
		h.label = sub[5]
	}
	if h.kind, err = layout.ParseKind(sub[6]); err != nil {
		return header{}, malformed("kind %q: %v", sub[6], err)
	}
	nums := make([]int, 4)
	for i, s := range sub[7:11] {
		if nums[i], err = strconv.Atoi(s); err != nil {
			return header{}, malformed("number %q: %v", s, err)
		}
	}
	h.dims = layout.Dims{nums[0], nums[1]}
	h.depth, h.index = nums[2], nums[3]
	if len(sub[1]) != indentWidth*h.depth {
		return header{}, malformed("indent of %q does not match depth %d", line, h.depth)
	}

	return h, nil
}

// rowCounts returns the number of stored entries of every row of a leaf of
// the given kind and dims. Stored entries of a row are contiguous in the
// payload for every kind.
func rowCounts(k layout.Kind, d layout.Dims) []int {
	out := make([]int, d[0])
	if k == layout.Null {
		return out
	}
	k.Each(d, func(_, r, _ int) { out[r]++ })

	return out
}
