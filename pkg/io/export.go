package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/forcelayout/pkg/graph"
	"github.com/matzehuels/forcelayout/pkg/vec"
)

type graphFile struct {
	Vertices []vertexEntry `json:"vertices"`
	Edges    []edgeEntry   `json:"edges"`
}

type vertexEntry struct {
	ID       uint64         `json:"id"`
	Label    string         `json:"label,omitempty"`
	Position *vec.Vec3      `json:"position,omitempty"`
	Meta     graph.Metadata `json:"meta,omitempty"`
}

type edgeEntry struct {
	Source       uint64         `json:"source"`
	Target       uint64         `json:"target"`
	Strength     *float64       `json:"strength,omitempty"`
	Directed     bool           `json:"directed,omitempty"`
	Gravity      bool           `json:"gravity,omitempty"`
	Multiplicity int            `json:"multiplicity,omitempty"`
	Meta         graph.Metadata `json:"meta,omitempty"`
}

// WriteGraph encodes g with its current positions as JSON and writes it to w.
// Vertices and edges are written in id order. The output can be re-imported
// with [ReadGraph].
func WriteGraph(g *graph.Graph, w io.Writer) error {
	vertices := g.Vertices()
	edges := g.Edges()
	out := graphFile{
		Vertices: make([]vertexEntry, len(vertices)),
		Edges:    make([]edgeEntry, len(edges)),
	}

	for i, v := range vertices {
		pos := v.Position
		out.Vertices[i] = vertexEntry{ID: uint64(v.ID), Label: v.Label, Position: &pos, Meta: v.Meta}
	}
	for i, e := range edges {
		ent := edgeEntry{
			Source:   uint64(e.Source.ID),
			Target:   uint64(e.Target.ID),
			Directed: e.Directed,
			Gravity:  e.Gravity,
			Meta:     e.Meta,
		}
		if e.Strength != graph.DefaultStrength {
			s := e.Strength
			ent.Strength = &s
		}
		if m := e.Multiplicity(); m > 1 {
			ent.Multiplicity = m
		}
		out.Edges[i] = ent
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportGraph writes g to a JSON file at path.
// This is a convenience wrapper around [WriteGraph] for file-based output.
func ExportGraph(g *graph.Graph, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return WriteGraph(g, f)
}
