// SPDX-License-Identifier: MIT

package layout

import "fmt"

// Transform is a reversible metadata rewrite applied to locations and
// dimensions without touching the payload.
type Transform uint8

const (
	// Transpose swaps rows and columns.
	Transpose Transform = iota
)

var transformIDs = [...]string{
	Transpose: "tp",
}

// String returns the identifier of the transform.
func (t Transform) String() string {
	if int(t) < len(transformIDs) {
		return transformIDs[t]
	}

	return fmt.Sprintf("transform(%d)", uint8(t))
}

// ParseTransform maps an identifier back to a Transform.
func ParseTransform(id string) (Transform, error) {
	for t, s := range transformIDs {
		if s == id {
			return Transform(t), nil
		}
	}

	return 0, fmt.Errorf("ParseTransform(%q): %w", id, ErrUnknownTransform)
}

// Location rewrites (row,col). Involution.
func (t Transform) Location(row, col int) (int, int) {
	switch t {
	case Transpose:
		return col, row
	}
	panic(fmt.Errorf("Location: %w", ErrUnknownTransform))
}

// Dims rewrites dimensions. Involution.
func (t Transform) Dims(d Dims) Dims {
	switch t {
	case Transpose:
		return d.T()
	}
	panic(fmt.Errorf("Dims: %w", ErrUnknownTransform))
}

// Kind rewrites the storage kind seen through the transform.
func (t Transform) Kind(k Kind) Kind {
	switch t {
	case Transpose:
		return k.Transposed()
	}
	panic(fmt.Errorf("Kind: %w", ErrUnknownTransform))
}

// Involution reports whether applying t twice is the identity.
func (t Transform) Involution() bool {
	switch t {
	case Transpose:
		return true
	}
	return false
}

// Transforms is an ordered list of transforms, applied left to right
// when going from raw (stored) to effective (logical) coordinates.
type Transforms []Transform

// Append returns a new list with t appended.
// An involution appended right after itself cancels instead of composing,
// so fast-transposing twice leaves an empty list.
func (ts Transforms) Append(t Transform) Transforms {
	n := len(ts)
	if n > 0 && ts[n-1] == t && t.Involution() {
		out := make(Transforms, n-1)
		copy(out, ts[:n-1])
		return out
	}
	out := make(Transforms, n, n+1)
	copy(out, ts)

	return append(out, t)
}

// Concat appends every transform of other, in order.
func (ts Transforms) Concat(other Transforms) Transforms {
	out := ts.Clone()
	for _, t := range other {
		out = out.Append(t)
	}

	return out
}

// Clone returns an independent copy (nil stays nil).
func (ts Transforms) Clone() Transforms {
	if len(ts) == 0 {
		return nil
	}
	out := make(Transforms, len(ts))
	copy(out, ts)

	return out
}

// Inverse returns the list that undoes ts.
func (ts Transforms) Inverse() Transforms {
	if len(ts) == 0 {
		return nil
	}
	out := make(Transforms, 0, len(ts))
	for i := len(ts) - 1; i >= 0; i-- {
		if !ts[i].Involution() {
			panic(fmt.Errorf("Inverse(%s): %w", ts[i], ErrUnknownTransform))
		}
		out = out.Append(ts[i])
	}

	return out
}

// Location maps a raw location to the effective one.
func (ts Transforms) Location(row, col int) (int, int) {
	for _, t := range ts {
		row, col = t.Location(row, col)
	}

	return row, col
}

// Raw maps an effective location back to the raw one.
func (ts Transforms) Raw(row, col int) (int, int) {
	for i := len(ts) - 1; i >= 0; i-- {
		row, col = ts[i].Location(row, col)
	}

	return row, col
}

// Dims maps raw dims to effective dims.
func (ts Transforms) Dims(d Dims) Dims {
	for _, t := range ts {
		d = t.Dims(d)
	}

	return d
}

// Kind maps the raw kind to the effective kind.
func (ts Transforms) Kind(k Kind) Kind {
	for _, t := range ts {
		k = t.Kind(k)
	}

	return k
}

// String renders the list as "tp,tp".
func (ts Transforms) String() string {
	s := ""
	for i, t := range ts {
		if i > 0 {
			s += ","
		}
		s += t.String()
	}

	return s
}
