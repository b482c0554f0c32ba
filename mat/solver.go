// SPDX-License-Identifier: MIT

package mat

// DenseSolver is the numeric backend used once a structured value has been
// gathered into an n×n row-major array. Implementations must not retain a.
//
// solver.Gonum (default) and solver.Builtin satisfy it.
type DenseSolver interface {
	// SymEigen returns ascending eigenvalues and the row-major eigenvector
	// matrix (column i belongs to vals[i]) of the symmetric a. Only the upper
	// triangle of a is authoritative.
	SymEigen(n int, a []float64) (vals, vecs []float64, err error)

	// SymInverse inverts the symmetric a in place; the result is symmetric.
	SymInverse(n int, a []float64) error

	// Inverse inverts the general a in place.
	Inverse(n int, a []float64) error
}
