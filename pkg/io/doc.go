// Package io reads and writes graphs together with their layout positions.
//
// # JSON Format
//
// Graphs are stored as two arrays. Vertex ids are file-local: [ReadGraph]
// maps them to fresh handles of a new graph and returns the mapping.
//
//	{
//	  "vertices": [
//	    {"id": 1, "label": "app", "position": [0, 1.5, -2]},
//	    {"id": 2, "label": "lib"}
//	  ],
//	  "edges": [
//	    {"source": 1, "target": 2, "strength": 0.5, "directed": true, "gravity": true}
//	  ]
//	}
//
// Optional vertex fields: label, position (default origin), meta.
// Optional edge fields: strength (default 1), directed, gravity, multiplicity
// (default 1; the edge is added that many times), meta.
//
// [WriteGraph] emits the same format with current positions, vertices and
// edges sorted by id, so a written graph reads back with identical
// positions, flags and multiplicities.
//
// # Graphviz
//
// [ToDOT] projects the layout onto the x/y plane and pins every vertex with
// pos="x,y!". [RenderSVG] runs the neato engine over that DOT, which keeps
// the pinned coordinates, and returns SVG bytes.
//
//	dot := io.ToDOT(g, io.DOTOptions{Scale: 10, Labels: true})
//	svg, err := io.RenderSVG(ctx, dot)
package io
