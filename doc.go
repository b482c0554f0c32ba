// Package bmat is a structured block-matrix algebra engine.
//
// Matrices carry a runtime storage kind (full, diagonal, symmetric, upper or
// lower triangular, null) and may be leaves holding a compact payload or
// blocks holding a grid of sub-matrices, nested to any depth. Transposition
// is a view: a matrix records location transforms instead of moving data.
//
// The module is organized in a handful of packages:
//
//	layout/            storage kinds, index mapping and location transforms
//	dense/             flat row-major kernels (Householder QR, LU, Jacobi eigen)
//	solver/            dense backends for eigen and inverse (gonum, builtin)
//	mat/               Matrix, Collection, structural ops and linear algebra
//	matfile/           text and binary file format, selective and lazy loads
//	internal/parallel  fork-join loops over errgroup
//	cmd/bmat           command line tool: inspect, convert, reduce, invert
//
// A typical round trip:
//
//	c, err := matfile.ReadFile("cov.txt", matfile.WithLabel("cov"))
//	if err != nil {
//		return err
//	}
//	cov, _ := c.ByLabel("cov")
//	fisher, err := mat.InvertCov(mat.InvertDirect, mat.Reduce(cov, mat.DefaultTolerance))
//	if err != nil {
//		return err
//	}
//	return matfile.WriteFile("fisher.txt", mat.NewCollection(fisher))
//
// Structural misuse (mismatched dimensions, non-square kinds, out of range
// locations) panics with a wrapped sentinel error. Numeric failures such as a
// singular matrix and every file I/O failure are returned as errors.
package bmat
