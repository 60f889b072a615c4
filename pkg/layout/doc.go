// Package layout runs the force-directed simulation over a graph.
//
// # Force Model
//
// Each tick combines three forces per vertex:
//
//   - Repulsion: a softened inverse-square law, constant / (epsilon + r)²,
//     estimated through an octree rebuilt from the current positions
//   - Attraction: a zero-rest-length spring along every edge, scaled by the
//     attraction constant and the edge strength
//   - Gravity: a constant pull along negative y on the target of every edge
//     whose Gravity flag is set
//
// # Integrator
//
// Vertices have unit mass. Per tick and per vertex, in this order:
//
//	friction = velocity * friction
//	acceleration += repulsion - attraction
//	acceleration -= friction
//	velocity += acceleration
//	position += velocity
//
// When [config.Config.SnapVelocity] is set, velocities shorter than
// MinimumVelocity are snapped to zero before the position update.
//
// # Usage
//
//	g := graph.New()
//	// ... add vertices and edges
//	layout.Scatter(g, 1, 5)
//	eng, err := layout.NewEngine(g, config.Default())
//	if err != nil {
//	    return err
//	}
//	stats, err := eng.Run(ctx, 300)
//
// The host calls [Engine.Step] once per frame, or [Engine.Run] for headless
// use. Topology changes happen between ticks only.
package layout
