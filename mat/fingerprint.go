// SPDX-License-Identifier: MIT

package mat

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint returns a 64-bit xxhash of the logical content of m: the full
// dims followed by every element in row-major order, little-endian.
// Storage kind, blocking and pending transforms do not change the result,
// so equal matrices in different representations share a fingerprint
// (a stored -0 and an omitted 0 differ).
func Fingerprint(m *Matrix) uint64 {
	d := m.FullDims()
	h := xxhash.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(d[0]))
	_, _ = h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], uint64(d[1]))
	_, _ = h.Write(buf[:])
	if d.Len() == 0 {
		return h.Sum64()
	}
	vals := flat(m)
	row := make([]byte, 0, 8*d[1])
	for r := 0; r < d[0]; r++ {
		row = row[:0]
		for _, x := range vals[r*d[1] : (r+1)*d[1]] {
			row = binary.LittleEndian.AppendUint64(row, math.Float64bits(x))
		}
		_, _ = h.Write(row)
	}

	return h.Sum64()
}
