package graph

// RenderHooks receives vertex and edge lifecycle events. It is the contract
// between the graph store and an external renderer, which creates and
// detaches visuals in response and reads positions between ticks.
//
// Hooks are called synchronously from the mutating call. They must not add
// or remove vertices or edges, and must not write Position or Velocity.
//
// On cascading removal the edge events are delivered before the vertex
// event, so a renderer never detaches an edge visual whose endpoint is gone.
type RenderHooks interface {
	OnVertexCreated(v *Vertex)
	OnVertexRemoved(v *Vertex)
	OnEdgeCreated(e *Edge)
	OnEdgeRemoved(e *Edge)
}

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnVertexCreated(*Vertex) {}
func (NoopRenderHooks) OnVertexRemoved(*Vertex) {}
func (NoopRenderHooks) OnEdgeCreated(*Edge)     {}
func (NoopRenderHooks) OnEdgeRemoved(*Edge)     {}
