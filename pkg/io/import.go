package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/forcelayout/pkg/errors"
	"github.com/matzehuels/forcelayout/pkg/graph"
)

// MaxMultiplicity bounds the multiplicity a file may declare for one edge.
// Each unit is replayed as an AddEdge call, so larger values are rejected.
const MaxMultiplicity = 10000

// ReadGraph decodes a JSON graph from r into a new graph built with opts.
//
// File ids are only used to resolve edge endpoints. The returned map gives
// the handle of every vertex keyed by its file id; the new graph issues its
// own ids in file order.
//
// ReadGraph returns an INVALID_FORMAT error if:
//   - The JSON is malformed
//   - Two vertices share a file id
//   - A label is too long or contains control characters
//   - An edge references an unknown vertex id
//   - An edge has a negative strength
//   - An edge multiplicity is negative or exceeds [MaxMultiplicity]
//
// ReadGraph does not close r.
func ReadGraph(r io.Reader, opts ...graph.Option) (*graph.Graph, map[uint64]graph.VertexHandle, error) {
	var data graphFile
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode graph")
	}

	g := graph.New(opts...)
	handles := make(map[uint64]graph.VertexHandle, len(data.Vertices))
	for _, v := range data.Vertices {
		if _, dup := handles[v.ID]; dup {
			return nil, nil, errors.New(errors.ErrCodeInvalidFormat, "duplicate vertex id %d", v.ID)
		}
		if err := errors.ValidateLabel(v.Label); err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "vertex %d", v.ID)
		}
		vo := graph.VertexOptions{Label: v.Label, Meta: v.Meta}
		if v.Position != nil {
			vo.Position = *v.Position
		}
		handles[v.ID] = g.AddVertex(vo)
	}

	for _, e := range data.Edges {
		src, ok := handles[e.Source]
		if !ok {
			return nil, nil, errors.New(errors.ErrCodeInvalidFormat, "edge %d->%d: unknown source vertex %d", e.Source, e.Target, e.Source)
		}
		dst, ok := handles[e.Target]
		if !ok {
			return nil, nil, errors.New(errors.ErrCodeInvalidFormat, "edge %d->%d: unknown target vertex %d", e.Source, e.Target, e.Target)
		}
		if e.Multiplicity < 0 {
			return nil, nil, errors.New(errors.ErrCodeInvalidFormat, "edge %d->%d: negative multiplicity %d", e.Source, e.Target, e.Multiplicity)
		}
		if e.Multiplicity > MaxMultiplicity {
			return nil, nil, errors.New(errors.ErrCodeInvalidFormat, "edge %d->%d: multiplicity %d exceeds %d", e.Source, e.Target, e.Multiplicity, MaxMultiplicity)
		}
		eo := graph.EdgeOptions{Strength: e.Strength, Directed: e.Directed, Gravity: e.Gravity, Meta: e.Meta}
		for range max(e.Multiplicity, 1) {
			if _, err := g.AddEdge(src, dst, eo); err != nil {
				return nil, nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "edge %d->%d", e.Source, e.Target)
			}
		}
	}

	return g, handles, nil
}

// ImportGraph reads a JSON graph file at path.
//
// A missing file is reported as FILE_NOT_FOUND; decoding failures as
// described for [ReadGraph].
func ImportGraph(path string, opts ...graph.Option) (*graph.Graph, map[uint64]graph.VertexHandle, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, nil, errors.Wrap(errors.ErrCodeInternal, err, "open %s", path)
	}
	defer f.Close()
	return ReadGraph(f, opts...)
}
