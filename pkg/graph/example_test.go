package graph_test

import (
	"fmt"

	"github.com/matzehuels/forcelayout/pkg/errors"
	"github.com/matzehuels/forcelayout/pkg/graph"
	"github.com/matzehuels/forcelayout/pkg/vec"
)

func ExampleGraph_basic() {
	g := graph.New()
	a := g.AddVertex(graph.VertexOptions{Label: "a"})
	b := g.AddVertex(graph.VertexOptions{Label: "b", Position: vec.New(10, 0, 0)})
	_, _ = g.AddEdge(a, b, graph.EdgeOptions{Directed: true, Gravity: true})

	fmt.Println("Vertices:", g.Describe().VertexCount)
	fmt.Println("Edges:", g.Describe().EdgeCount)
	fmt.Println("First id:", a.ID())
	// Output:
	// Vertices: 2
	// Edges: 1
	// First id: 1
}

func ExampleGraph_AddEdge_collapsing() {
	g := graph.New()
	a := g.AddVertex(graph.VertexOptions{})
	b := g.AddVertex(graph.VertexOptions{})

	h, _ := g.AddEdge(a, b, graph.EdgeOptions{})
	_, _ = g.AddEdge(a, b, graph.EdgeOptions{})
	e, _ := g.Edge(h)

	fmt.Println("Edges:", g.Describe().EdgeCount)
	fmt.Println("Multiplicity:", e.Multiplicity())
	// Output:
	// Edges: 1
	// Multiplicity: 2
}

func ExampleGraph_RemoveVertex() {
	g := graph.New()
	hub := g.AddVertex(graph.VertexOptions{})
	for range 3 {
		leaf := g.AddVertex(graph.VertexOptions{})
		_, _ = g.AddEdge(hub, leaf, graph.EdgeOptions{})
	}

	_ = g.RemoveVertex(hub)
	fmt.Println("Edges after removal:", g.Describe().EdgeCount)

	err := g.RemoveVertex(hub)
	fmt.Println("Second removal:", errors.GetCode(err))
	// Output:
	// Edges after removal: 0
	// Second removal: NOT_FOUND
}
