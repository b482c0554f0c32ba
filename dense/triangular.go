// SPDX-License-Identifier: MIT

package dense

import "fmt"

// BackSub solves U·X = B for X where U is n×n upper triangular (entries
// below the diagonal are ignored) and B is n×k.
// Implementation:
//   - Classic back-substitution per right-hand-side column, bottom row first.
//
// Errors:
//   - ErrNonSquare (U), ErrDimensionMismatch (B rows), ErrSingular (zero diagonal).
//
// Complexity:
//   - Time O(n²·k), Space O(n·k).
func BackSub(u, b *Dense) (*Dense, error) {
	if err := ValidateSquare(u); err != nil {
		return nil, denseErrorf(opBackSub, err)
	}
	n, k := u.r, b.c
	if b.r != n {
		return nil, denseErrorf(opBackSub, fmt.Errorf("%dx%d \\ %dx%d: %w", u.r, u.c, b.r, b.c, ErrDimensionMismatch))
	}
	for i := 0; i < n; i++ {
		if u.data[i*n+i] == 0 {
			return nil, denseErrorf(opBackSub, fmt.Errorf("diagonal %d: %w", i, ErrSingular))
		}
	}

	x := b.Clone()
	var i, j, col int
	var sum float64
	for col = 0; col < k; col++ {
		for i = n - 1; i >= 0; i-- {
			sum = x.data[i*k+col]
			for j = i + 1; j < n; j++ {
				sum -= u.data[i*n+j] * x.data[j*k+col]
			}
			x.data[i*k+col] = sum / u.data[i*n+i]
		}
	}

	return x, nil
}
