// SPDX-License-Identifier: MIT

package matfile

import (
	"os"

	"github.com/katalvlaran/bmat/mat"
)

// Load fills every leaf of m that carries a file Source (as produced by
// ReadFile with WithShapeOnly) with its values from that file.
// MAIN DESCRIPTION:
//   - Each file is parsed once; leaves without a Source are left untouched.
//   - A leaf is replaced by a freshly allocated one of its on-disk kind:
//     cells are re-adopted by their block, m itself is swapped in place.
//
// Behavior highlights:
//   - Views of a leaf taken before Load keep reading the placeholder.
func Load(m *mat.Matrix, opts ...Option) error {
	o := gatherOptions(opts...)
	docs := make(map[string]*document)
	n := 0
	if err := load(m, docs, &n); err != nil {
		return fail(o.logger, opLoad, err)
	}
	o.logger.Info("matrices loaded", "leaves", n, "files", len(docs))

	return nil
}

func load(m *mat.Matrix, docs map[string]*document, n *int) error {
	if !m.IsBlock() {
		if !hasFile(m) {
			return nil
		}
		leaf, err := loadLeaf(m, docs)
		if err != nil {
			return err
		}
		mat.Swap(m, leaf)
		*n++
		return nil
	}
	k, g := m.Kind(), m.Dims()
	var err error
	k.Each(g, func(_, i, j int) {
		if err != nil {
			return
		}
		sub := m.GetBlock(i, j)
		if sub.IsBlock() {
			err = load(sub, docs, n)
			return
		}
		if !hasFile(sub) {
			return
		}
		var leaf *mat.Matrix
		if leaf, err = loadLeaf(sub, docs); err == nil {
			m.AdoptBlock(i, j, leaf)
			*n++
		}
	})

	return err
}

func hasFile(m *mat.Matrix) bool {
	src := m.Source()
	return src != nil && src.File != ""
}

// loadLeaf reads the values behind m's Source into a new leaf seen through
// m's transforms.
func loadLeaf(m *mat.Matrix, docs map[string]*document) (*mat.Matrix, error) {
	src := m.Source()
	doc, ok := docs[src.File]
	if !ok {
		f, err := os.Open(src.File)
		if err != nil {
			return nil, ioError(err)
		}
		doc, err = parse(f)
		_ = f.Close()
		if err != nil {
			return nil, err
		}
		docs[src.File] = doc
	}
	if doc.binary != src.Binary {
		return nil, malformed("%s: source expects binary=%t", src.File, src.Binary)
	}

	// the file holds the raw kind and dims; transforms map them to m
	ts := m.Transforms()
	raw := ts.Inverse().Dims(m.Dims())
	if !m.IsNull() && ts.Kind(src.Kind) != m.Kind() {
		return nil, malformed("%s: on-disk kind %s does not match %s", src.File, src.Kind, m)
	}
	if src.Kind.Square() && !raw.Square() {
		return nil, malformed("%s: on-disk kind %s does not fit %s", src.File, src.Kind, raw)
	}
	leaf := mat.New(src.Kind, raw, false)
	if err := doc.fill(leaf.Payload(), &node{header: header{offset: src.Offset, kind: src.Kind, dims: raw}}); err != nil {
		return nil, err
	}
	leaf.SetLabel(m.Label())
	leaf.SetSource(src)
	// Transpose is the only transform
	for range ts {
		leaf = mat.FastTranspose(leaf)
	}

	return leaf, nil
}
