// Package graph provides the mutable graph store simulated by the layout
// engine.
//
// # Overview
//
// A [Graph] owns its vertices and edges, issues their ids and keeps every
// vertex's incident-edge set consistent with the edge collection. Callers
// refer to members through [VertexHandle] and [EdgeHandle] values, which are
// tagged with the issuing graph so a handle from another graph is rejected
// at the API boundary rather than silently resolved.
//
// # Identifiers
//
// Vertex and edge ids come from two independent per-graph counters starting
// at [FirstID]. Ids are never reused while the graph lives; [Graph.Clear]
// resets both counters and invalidates every outstanding handle.
//
// # Edge Multiplicity
//
// Edges collapse by ordered endpoint pair. Adding the same (source, target)
// pair twice returns the same edge with [Edge.Multiplicity] 2, and the edge
// survives until [Graph.RemoveEdge] has been called as many times.
// Removing a vertex removes its incident edges outright.
//
//	g := graph.New()
//	a := g.AddVertex(graph.VertexOptions{Label: "a"})
//	b := g.AddVertex(graph.VertexOptions{Label: "b"})
//	e, _ := g.AddEdge(a, b, graph.EdgeOptions{})
//	_, _ = g.AddEdge(a, b, graph.EdgeOptions{})
//	g.Describe() // {VertexCount: 2, EdgeCount: 1}
//	_ = g.RemoveEdge(e) // multiplicity 1, edge still present
//
// # Render Hooks
//
// [RenderHooks] receives creation and removal events synchronously. During
// cascading removal edge events always precede the vertex event.
//
// # Errors
//
// Mutations report structured errors from pkg/errors: INVALID_ARGUMENT for a
// bad endpoint passed to [Graph.AddEdge], NOT_FOUND for a handle passed to
// [Graph.RemoveVertex] or [Graph.RemoveEdge] that is not a current member.
//
// # Concurrency
//
// A Graph is not safe for concurrent use and must not be mutated while a
// layout tick runs.
package graph
