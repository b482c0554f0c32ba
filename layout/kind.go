// SPDX-License-Identifier: MIT

// Package layout - storage kinds (type registry).
//
// Purpose:
//   - Describe every supported storage layout by a closed enum (Kind) with an
//     exhaustive switch per operation instead of per-kind function tables.
//   - Map logical (row,col) locations to payload offsets and back.
//   - Answer "could this kind omit that entry?" for structural reduction.
//   - Report potentially occupied ranges so kernels can skip known-empty regions.
//
// Payload layouts (single source of truth):
//   - Full:            row-major, r*c entries.
//   - Diagonal:        [d0 .. dn-1], n entries.
//   - Symmetric, UT:   packed upper triangle, row-major (row i holds cols i..n-1).
//   - LT:              packed lower triangle, row-major (row i holds cols 0..i).
//   - Null:            no payload.
//
// AI-Hints:
//   - Index panics on out-of-bounds (programmer error) but returns ok=false for
//     structurally omitted entries; callers treat ok=false as "absent", not as failure.
//   - Locate is the exact left-inverse of Index on stored entries.

package layout

import (
	"fmt"
	"math"
	"strings"
)

// Dims holds (rows, cols).
type Dims [2]int

// Rows returns d[0].
func (d Dims) Rows() int { return d[0] }

// Cols returns d[1].
func (d Dims) Cols() int { return d[1] }

// Square reports rows == cols.
func (d Dims) Square() bool { return d[0] == d[1] }

// T returns the swapped dimensions.
func (d Dims) T() Dims { return Dims{d[1], d[0]} }

// Len returns rows*cols.
func (d Dims) Len() int { return d[0] * d[1] }

// String renders "(rows, cols)" exactly as it appears in file headers.
func (d Dims) String() string { return fmt.Sprintf("(%d, %d)", d[0], d[1]) }

// Loc is a (row, col) location.
type Loc struct {
	Row, Col int
}

// Kind enumerates the storage layouts.
type Kind uint8

const (
	// Null stores nothing; every entry reads as zero.
	Null Kind = iota
	// Full stores every entry.
	Full
	// Diagonal stores the main diagonal.
	Diagonal
	// Symmetric stores the upper triangle; lower entries mirror it.
	Symmetric
	// UpperTriangular stores the upper triangle; lower entries are zero.
	UpperTriangular
	// LowerTriangular stores the lower triangle; upper entries are zero.
	LowerTriangular
)

// kindIDs are the on-disk identifiers, indexed by Kind.
var kindIDs = [...]string{
	Null:            "null",
	Full:            "f",
	Diagonal:        "d",
	Symmetric:       "s",
	UpperTriangular: "ut",
	LowerTriangular: "lt",
}

// ReduceOrder is the candidate order scanned by structural reduction:
// the first kind whose membership test holds wins.
var ReduceOrder = [...]Kind{Null, Diagonal, Symmetric, UpperTriangular, LowerTriangular, Full}

// Kinds lists every kind in declaration order.
var Kinds = [...]Kind{Null, Full, Diagonal, Symmetric, UpperTriangular, LowerTriangular}

// String returns the on-disk identifier.
func (k Kind) String() string {
	if int(k) < len(kindIDs) {
		return kindIDs[k]
	}

	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind maps an identifier (null|f|d|s|ut|lt) back to a Kind.
// Matching is case-insensitive and ignores surrounding spaces.
func ParseKind(id string) (Kind, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	for k, s := range kindIDs {
		if s == id {
			return Kind(k), nil
		}
	}

	return Null, fmt.Errorf("ParseKind(%q): %w", id, ErrUnknownKind)
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool { return int(k) < len(kindIDs) }

// Category returns 1 when omitted entries mirror a stored entry, 0 when they are zero.
func (k Kind) Category() int {
	if k == Symmetric {
		return 1
	}

	return 0
}

// Square reports whether the kind requires rows == cols.
func (k Kind) Square() bool {
	switch k {
	case Diagonal, Symmetric, UpperTriangular, LowerTriangular:
		return true
	case Null, Full:
		return false
	}
	panic(fmt.Errorf("Square: %w", ErrUnknownKind))
}

// Size returns the payload length for dims d.
// Complexity: O(1).
func (k Kind) Size(d Dims) int {
	n := d[0]
	switch k {
	case Null:
		return 0
	case Full:
		return d[0] * d[1]
	case Diagonal:
		return n
	case Symmetric, UpperTriangular, LowerTriangular:
		return n * (n + 1) / 2
	}
	panic(fmt.Errorf("Size: %w", ErrUnknownKind))
}

// upperStart returns the packed offset of row i of an upper triangle of order n.
func upperStart(n, i int) int { return i*n - i*(i-1)/2 }

// lowerStart returns the packed offset of row i of a lower triangle.
func lowerStart(i int) int { return i * (i + 1) / 2 }

// Index maps (row,col) to a payload offset.
// MAIN DESCRIPTION:
//   - Returns (offset, true) for stored entries and (0, false) for entries the
//     kind omits structurally (zero or mirrored, see Category).
//
// Behavior highlights:
//   - Panics with ErrOutOfRange when (row,col) lies outside d: indices are
//     produced by the engine itself, so a bad one is a programmer error.
//
// Complexity:
//   - Time O(1), Space O(1).
func (k Kind) Index(d Dims, row, col int) (int, bool) {
	if row < 0 || row >= d[0] || col < 0 || col >= d[1] {
		panic(fmt.Errorf("Index(%d,%d) in %s %s: %w", row, col, k, d, ErrOutOfRange))
	}
	switch k {
	case Null:
		return 0, false
	case Full:
		return row*d[1] + col, true
	case Diagonal:
		if row != col {
			return 0, false
		}
		return row, true
	case Symmetric, UpperTriangular:
		if col < row {
			return 0, false
		}
		return upperStart(d[0], row) + col - row, true
	case LowerTriangular:
		if col > row {
			return 0, false
		}
		return lowerStart(row) + col, true
	}
	panic(fmt.Errorf("Index: %w", ErrUnknownKind))
}

// Locate is the inverse of Index: it maps a payload offset back to (row,col).
// Panics with ErrOutOfRange when off >= Size(d) and for Null (no payload).
// Complexity: O(1) for Full/Diagonal, O(n) row walk for packed triangles.
func (k Kind) Locate(d Dims, off int) (row, col int) {
	if k == Null || off < 0 || off >= k.Size(d) {
		panic(fmt.Errorf("Locate(%d) in %s %s: %w", off, k, d, ErrOutOfRange))
	}
	n := d[0]
	switch k {
	case Full:
		return off / d[1], off % d[1]
	case Diagonal:
		return off, off
	case Symmetric, UpperTriangular:
		// walk rows of decreasing length n, n-1, ...
		for off >= n-row {
			off -= n - row
			row++
		}
		return row, row + off
	case LowerTriangular:
		for off >= row+1 {
			off -= row + 1
			row++
		}
		return row, off
	}
	panic(fmt.Errorf("Locate: %w", ErrUnknownKind))
}

// Each calls fn for every stored entry in payload order (off = 0, 1, ...).
// Complexity: O(Size(d)).
func (k Kind) Each(d Dims, fn func(off, row, col int)) {
	n := d[0]
	off := 0
	switch k {
	case Null:
	case Full:
		for r := 0; r < d[0]; r++ {
			for c := 0; c < d[1]; c++ {
				fn(off, r, c)
				off++
			}
		}
	case Diagonal:
		for i := 0; i < n; i++ {
			fn(i, i, i)
		}
	case Symmetric, UpperTriangular:
		for r := 0; r < n; r++ {
			for c := r; c < n; c++ {
				fn(off, r, c)
				off++
			}
		}
	case LowerTriangular:
		for r := 0; r < n; r++ {
			for c := 0; c <= r; c++ {
				fn(off, r, c)
				off++
			}
		}
	default:
		panic(fmt.Errorf("Each: %w", ErrUnknownKind))
	}
}

// Omits reports whether the kind leaves (row,col) out of its payload.
func (k Kind) Omits(d Dims, row, col int) bool {
	_, ok := k.Index(d, row, col)
	return !ok
}

// RowBounds returns the half-open range of rows that may be non-zero in column col.
// Mirrored entries of Symmetric count as occupied.
func (k Kind) RowBounds(d Dims, col int) (lo, hi int) {
	if col < 0 || col >= d[1] {
		panic(fmt.Errorf("RowBounds(%d) in %s %s: %w", col, k, d, ErrOutOfRange))
	}
	switch k {
	case Null:
		return 0, 0
	case Full, Symmetric:
		return 0, d[0]
	case Diagonal:
		return col, col + 1
	case UpperTriangular:
		return 0, col + 1
	case LowerTriangular:
		return col, d[0]
	}
	panic(fmt.Errorf("RowBounds: %w", ErrUnknownKind))
}

// ColBounds returns the half-open range of columns that may be non-zero in row row.
func (k Kind) ColBounds(d Dims, row int) (lo, hi int) {
	if row < 0 || row >= d[0] {
		panic(fmt.Errorf("ColBounds(%d) in %s %s: %w", row, k, d, ErrOutOfRange))
	}
	switch k {
	case Null:
		return 0, 0
	case Full, Symmetric:
		return 0, d[1]
	case Diagonal:
		return row, row + 1
	case UpperTriangular:
		return row, d[1]
	case LowerTriangular:
		return 0, row + 1
	}
	panic(fmt.Errorf("ColBounds: %w", ErrUnknownKind))
}

// Transposed returns the kind of the transposed matrix.
func (k Kind) Transposed() Kind {
	switch k {
	case UpperTriangular:
		return LowerTriangular
	case LowerTriangular:
		return UpperTriangular
	default:
		return k
	}
}

// Holds reports whether every matrix of kind cur already satisfies k,
// i.e. every entry k omits is omitted by cur with the same meaning.
//
//	Null      ⊂ everything
//	Diagonal  ⊂ Symmetric, UT, LT, Full
//	Symmetric, UT, LT ⊂ Full
func (k Kind) Holds(cur Kind) bool {
	if k == cur || cur == Null || k == Full {
		return true
	}
	switch k {
	case Symmetric, UpperTriangular, LowerTriangular:
		return cur == Diagonal
	default:
		return false
	}
}

// Entries is the read view CouldOmit needs from a matrix.
type Entries interface {
	Kind() Kind
	At(row, col int) float64
}

// CouldOmit tests membership of a matrix in kind k.
// MAIN DESCRIPTION:
//   - loc == nil: structural short-circuit, true when e's kind already satisfies k.
//   - loc != nil: true when k stores the entry, or when the entry k would omit
//     matches the implied value within tol (zero for category 0, the mirror for
//     category 1).
//
// Complexity:
//   - Time O(1) per call.
func (k Kind) CouldOmit(e Entries, d Dims, loc *Loc, tol float64) bool {
	if loc == nil {
		return k.Holds(e.Kind())
	}
	if k.Square() && !d.Square() {
		return false
	}
	if !k.Omits(d, loc.Row, loc.Col) {
		return true
	}
	v := e.At(loc.Row, loc.Col)
	if k.Category() == 1 {
		return math.Abs(v-e.At(loc.Col, loc.Row)) <= tol
	}

	return math.Abs(v) <= tol
}
