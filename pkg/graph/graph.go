package graph

import (
	"maps"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/forcelayout/pkg/errors"
	"github.com/matzehuels/forcelayout/pkg/vec"
)

// pairKey identifies an ordered endpoint pair for multiplicity tracking.
type pairKey struct {
	source VertexID
	target VertexID
}

// Graph owns the vertices and edges of one simulation. It issues ids,
// tracks edge multiplicity and notifies render hooks of lifecycle events.
//
// Graph is not safe for concurrent use. Topology must not change while a
// layout tick is running; callers that share a graph across goroutines must
// serialise access themselves.
type Graph struct {
	id     uuid.UUID
	epoch  uint64
	ids    idAllocator
	hooks  RenderHooks
	logger *log.Logger

	vertices map[VertexID]*Vertex
	edges    map[EdgeID]*Edge
	pairs    map[pairKey]*Edge

	center vec.Vec3
}

// Option configures a Graph.
type Option func(*Graph)

// WithHooks installs render hooks. A nil value restores the no-op hooks.
func WithHooks(h RenderHooks) Option {
	return func(g *Graph) {
		if h == nil {
			h = NoopRenderHooks{}
		}
		g.hooks = h
	}
}

// WithLogger sets the logger used for debug output of mutations.
func WithLogger(l *log.Logger) Option {
	return func(g *Graph) {
		if l != nil {
			g.logger = l
		}
	}
}

// New creates an empty graph with its own id namespace.
func New(opts ...Option) *Graph {
	g := &Graph{
		id:       uuid.New(),
		ids:      newIDAllocator(),
		hooks:    NoopRenderHooks{},
		logger:   log.Default(),
		vertices: make(map[VertexID]*Vertex),
		edges:    make(map[EdgeID]*Edge),
		pairs:    make(map[pairKey]*Edge),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ID returns the graph instance id carried by every handle it issues.
func (g *Graph) ID() uuid.UUID { return g.id }

// =============================================================================
// Mutation
// =============================================================================

// AddVertex creates a vertex with zeroed kinematics at opts.Position and
// returns its handle. It never fails.
func (g *Graph) AddVertex(opts VertexOptions) VertexHandle {
	v := &Vertex{
		ID:       g.ids.vertex(),
		Label:    opts.Label,
		Meta:     opts.Meta,
		Position: opts.Position,
		incident: make(map[EdgeID]struct{}),
	}
	if v.Meta == nil {
		v.Meta = Metadata{}
	}
	g.vertices[v.ID] = v
	g.logger.Debug("vertex added", "id", v.ID, "label", v.Label)
	g.hooks.OnVertexCreated(v)
	return g.Handle(v)
}

// AddEdge connects two current members of the graph.
//
// Edges collapse by ordered endpoint pair: when an edge from src to dst
// already exists its multiplicity is incremented and its handle returned,
// and opts are ignored. Each such call must be matched by a RemoveEdge
// before the edge is destroyed. An edge from dst to src is a distinct edge.
//
// AddEdge fails with INVALID_ARGUMENT if either handle is zero, belongs to
// another graph or refers to a removed vertex, or if the strength is
// negative or not finite.
func (g *Graph) AddEdge(src, dst VertexHandle, opts EdgeOptions) (EdgeHandle, error) {
	s, err := g.member(src, "source")
	if err != nil {
		return EdgeHandle{}, err
	}
	t, err := g.member(dst, "target")
	if err != nil {
		return EdgeHandle{}, err
	}

	strength := DefaultStrength
	if opts.Strength != nil {
		strength = *opts.Strength
	}
	if err := errors.ValidateNonNegative("edge strength", strength); err != nil {
		return EdgeHandle{}, err
	}

	key := pairKey{source: s.ID, target: t.ID}
	if e, ok := g.pairs[key]; ok {
		e.multiplicity++
		g.logger.Debug("edge repeated", "id", e.ID, "source", s.ID, "target", t.ID, "multiplicity", e.multiplicity)
		return g.EdgeHandleOf(e), nil
	}

	e := &Edge{
		ID:           g.ids.edge(),
		Source:       s,
		Target:       t,
		Directed:     opts.Directed,
		Gravity:      opts.Gravity,
		Strength:     strength,
		Meta:         opts.Meta,
		multiplicity: 1,
	}
	if e.Meta == nil {
		e.Meta = Metadata{}
	}
	g.edges[e.ID] = e
	g.pairs[key] = e
	s.incident[e.ID] = struct{}{}
	t.incident[e.ID] = struct{}{}

	g.logger.Debug("edge added", "id", e.ID, "source", s.ID, "target", t.ID)
	g.hooks.OnEdgeCreated(e)
	return g.EdgeHandleOf(e), nil
}

// member resolves a vertex handle for AddEdge, reporting INVALID_ARGUMENT.
func (g *Graph) member(h VertexHandle, role string) (*Vertex, error) {
	if h.IsZero() {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "%s vertex handle is empty", role)
	}
	if h.graph != g.id {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "%s vertex %d belongs to another graph", role, h.id)
	}
	v, ok := g.Vertex(h)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "%s vertex %d is not in the graph", role, h.id)
	}
	return v, nil
}

// RemoveVertex removes a vertex and every edge incident to it, regardless of
// edge multiplicity. Render hooks see each edge removal, in ascending edge
// id order, before the vertex removal.
//
// It fails with NOT_FOUND if the handle is not a current member.
func (g *Graph) RemoveVertex(h VertexHandle) error {
	v, ok := g.Vertex(h)
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "vertex %d is not in the graph", h.id)
	}
	for _, id := range v.IncidentEdges() {
		g.destroyEdge(g.edges[id])
	}
	delete(g.vertices, v.ID)
	g.logger.Debug("vertex removed", "id", v.ID)
	g.hooks.OnVertexRemoved(v)
	return nil
}

// RemoveEdge undoes one AddEdge call. The edge is destroyed, and render
// hooks notified, only when its multiplicity reaches zero.
//
// It fails with NOT_FOUND if the handle is not a current member.
func (g *Graph) RemoveEdge(h EdgeHandle) error {
	e, ok := g.Edge(h)
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "edge %d is not in the graph", h.id)
	}
	e.multiplicity--
	if e.multiplicity > 0 {
		g.logger.Debug("edge released", "id", e.ID, "multiplicity", e.multiplicity)
		return nil
	}
	g.destroyEdge(e)
	return nil
}

func (g *Graph) destroyEdge(e *Edge) {
	g.hooks.OnEdgeRemoved(e)
	delete(e.Source.incident, e.ID)
	delete(e.Target.incident, e.ID)
	delete(g.edges, e.ID)
	delete(g.pairs, pairKey{source: e.Source.ID, target: e.Target.ID})
	e.multiplicity = 0
	g.logger.Debug("edge removed", "id", e.ID)
}

// Clear removes every edge and then every vertex, notifying render hooks in
// ascending id order, and resets both id counters and the multiplicity map.
// Handles issued before Clear are no longer members, even when a later
// AddVertex reissues the same id.
func (g *Graph) Clear() {
	for _, e := range g.Edges() {
		g.destroyEdge(e)
	}
	for _, v := range g.Vertices() {
		delete(g.vertices, v.ID)
		g.hooks.OnVertexRemoved(v)
	}
	clear(g.pairs)
	g.ids.reset()
	g.epoch++
	g.center = vec.Zero
	g.logger.Debug("graph cleared", "graph", g.id)
}

// =============================================================================
// Read side
// =============================================================================

// Describe returns the current vertex and edge counts.
func (g *Graph) Describe() Stats {
	return Stats{VertexCount: len(g.vertices), EdgeCount: len(g.edges)}
}

// Vertex resolves a handle. It reports false for zero, foreign, stale or
// removed handles.
func (g *Graph) Vertex(h VertexHandle) (*Vertex, bool) {
	if h.IsZero() || h.graph != g.id || h.epoch != g.epoch {
		return nil, false
	}
	v, ok := g.vertices[h.id]
	return v, ok
}

// Edge resolves a handle. It reports false for zero, foreign, stale or
// removed handles.
func (g *Graph) Edge(h EdgeHandle) (*Edge, bool) {
	if h.IsZero() || h.graph != g.id || h.epoch != g.epoch {
		return nil, false
	}
	e, ok := g.edges[h.id]
	return e, ok
}

// VertexByID looks up a current vertex by id.
func (g *Graph) VertexByID(id VertexID) (*Vertex, bool) {
	v, ok := g.vertices[id]
	return v, ok
}

// EdgeByID looks up a current edge by id.
func (g *Graph) EdgeByID(id EdgeID) (*Edge, bool) {
	e, ok := g.edges[id]
	return e, ok
}

// Handle returns a handle for v, which must belong to g.
func (g *Graph) Handle(v *Vertex) VertexHandle {
	return VertexHandle{graph: g.id, epoch: g.epoch, id: v.ID}
}

// EdgeHandleOf returns a handle for e, which must belong to g.
func (g *Graph) EdgeHandleOf(e *Edge) EdgeHandle {
	return EdgeHandle{graph: g.id, epoch: g.epoch, id: e.ID}
}

// Vertices returns all vertices sorted by id.
func (g *Graph) Vertices() []*Vertex {
	keys := slices.Sorted(maps.Keys(g.vertices))
	out := make([]*Vertex, len(keys))
	for i, id := range keys {
		out[i] = g.vertices[id]
	}
	return out
}

// Edges returns all edges sorted by id.
func (g *Graph) Edges() []*Edge {
	keys := slices.Sorted(maps.Keys(g.edges))
	out := make([]*Edge, len(keys))
	for i, id := range keys {
		out[i] = g.edges[id]
	}
	return out
}

// Center returns the centroid of the top-level octree built by the last
// layout tick. It is the zero vector before the first non-empty tick and
// after Clear.
func (g *Graph) Center() vec.Vec3 { return g.center }

// SetCenter records the top-level octree centroid. It is called by the
// layout engine once per tick.
func (g *Graph) SetCenter(c vec.Vec3) { g.center = c }

// =============================================================================
// Validation
// =============================================================================

// Validate checks the incidence invariant: every edge names two live
// vertices of this graph, every vertex's incident set is exactly the set of
// edges naming it, and the multiplicity map agrees with the edge set.
// A violation indicates corruption and is reported as INTERNAL_ERROR.
func (g *Graph) Validate() error {
	want := make(map[VertexID]map[EdgeID]struct{}, len(g.vertices))
	for id := range g.vertices {
		want[id] = make(map[EdgeID]struct{})
	}

	for _, e := range g.Edges() {
		for _, end := range []*Vertex{e.Source, e.Target} {
			if live, ok := g.vertices[end.ID]; !ok || live != end {
				return errors.New(errors.ErrCodeInternal, "edge %d references vertex %d which is not in the graph", e.ID, end.ID)
			}
			want[end.ID][e.ID] = struct{}{}
		}
		if e.multiplicity < 1 {
			return errors.New(errors.ErrCodeInternal, "edge %d has multiplicity %d", e.ID, e.multiplicity)
		}
		if g.pairs[pairKey{source: e.Source.ID, target: e.Target.ID}] != e {
			return errors.New(errors.ErrCodeInternal, "edge %d missing from multiplicity map", e.ID)
		}
	}
	if len(g.pairs) != len(g.edges) {
		return errors.New(errors.ErrCodeInternal, "multiplicity map has %d entries for %d edges", len(g.pairs), len(g.edges))
	}

	for id, v := range g.vertices {
		if !maps.Equal(v.incident, want[id]) {
			return errors.New(errors.ErrCodeInternal, "vertex %d incident edges %v, want %v", id, v.IncidentEdges(), slices.Sorted(maps.Keys(want[id])))
		}
	}
	return nil
}
