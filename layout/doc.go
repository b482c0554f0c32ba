// Package layout is the type registry of the block-matrix engine.
//
// It describes the six storage kinds (Null, Full, Diagonal, Symmetric,
// UpperTriangular, LowerTriangular) and the location transforms (currently
// Transpose) that rewrite coordinates without touching a payload.
//
// Nothing here allocates matrices; package mat builds values on top of these
// mappings and package matfile uses the on-disk identifiers (null|f|d|s|ut|lt).
package layout
