// SPDX-License-Identifier: MIT
// Package dense: central validators.
//
// Purpose:
//   - Keep shape and symmetry checks in one place so every kernel reports
//     the same sentinel for the same condition.

package dense

import (
	"fmt"
	"math"
)

// ValidateSquare returns ErrNonSquare unless m is n×n.
func ValidateSquare(m *Dense) error {
	if m.r != m.c {
		return fmt.Errorf("%dx%d: %w", m.r, m.c, ErrNonSquare)
	}

	return nil
}

// ValidateSymmetric returns ErrAsymmetry when |m[i,j]-m[j,i]| > tol for some i<j.
// Complexity: O(n²).
func ValidateSymmetric(m *Dense, tol float64) error {
	if err := ValidateSquare(m); err != nil {
		return err
	}
	n := m.r
	var i, j int
	for i = 0; i < n; i++ {
		for j = i + 1; j < n; j++ {
			if math.Abs(m.data[i*n+j]-m.data[j*n+i]) > tol {
				return fmt.Errorf("(%d,%d): %w", i, j, ErrAsymmetry)
			}
		}
	}

	return nil
}

// validateFlat checks that a has exactly n*n entries.
func validateFlat(n int, a []float64) error {
	if n <= 0 || len(a) != n*n {
		return fmt.Errorf("n=%d with %d values: %w", n, len(a), ErrBadShape)
	}

	return nil
}
