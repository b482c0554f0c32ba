// Package matfile reads and writes collections of block matrices in a
// self-describing text or binary format.
//
// A file starts with a guide block of free text, lists one header line per
// matrix and sub-matrix (depth-first) and ends with the payloads in the same
// order. Headers carry absolute payload offsets, which lets ReadFile load a
// single labeled subtree (WithLabel) or only the shapes (WithShapeOnly, then
// Load) without decoding the rest of the file.
//
// The whole stream may be wrapped in a zstd or lz4 frame (WithCompression);
// readers detect the codec from the frame magic.
//
// Quick example:
//
//	c := mat.NewCollection(cov, fisher)
//	if err := matfile.WriteFile("out.txt", c, matfile.WithPrecision(8)); err != nil {
//		return err
//	}
//	in, err := matfile.ReadFile("out.txt", matfile.WithLabel("fisher"))
package matfile
