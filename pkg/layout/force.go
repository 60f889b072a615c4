package layout

import (
	"github.com/matzehuels/forcelayout/pkg/config"
	"github.com/matzehuels/forcelayout/pkg/graph"
	"github.com/matzehuels/forcelayout/pkg/octree"
	"github.com/matzehuels/forcelayout/pkg/vec"
)

// applyRepulsion fills every vertex's repulsion accumulator from the tree.
// The tree is built from positions at the start of the tick, so the result
// does not depend on vertex order.
func applyRepulsion(tree *octree.Node, vertices []*graph.Vertex, cfg config.Config) {
	if cfg.Repulsion == 0 {
		return
	}
	law := octree.Repulsion(cfg.Repulsion, cfg.Epsilon)
	for _, v := range vertices {
		v.Repulsion = tree.Estimate(v, law)
	}
}

// applyAttraction adds the zero-rest-length spring of every edge to the
// attraction accumulators of its endpoints. The accumulator is subtracted
// by the integrator, so the pair is pulled together with a force
// proportional to attraction * strength * separation.
func applyAttraction(edges []*graph.Edge, cfg config.Config) {
	for _, e := range edges {
		s, t := e.Source, e.Target
		delta := s.Position.Sub(t.Position).Scale(-cfg.Attraction * e.Strength)
		s.Attraction = s.Attraction.Sub(delta)
		t.Attraction = t.Attraction.Add(delta)
	}
}

// applyGravity accelerates the target of every gravity-enabled edge along
// negative y. A target reached by several such edges is pulled once per edge.
func applyGravity(edges []*graph.Edge, cfg config.Config) {
	if cfg.Gravity == 0 {
		return
	}
	down := vec.New(0, -cfg.Gravity, 0)
	for _, e := range edges {
		if e.Gravity {
			e.Target.Acceleration = e.Target.Acceleration.Add(down)
		}
	}
}
