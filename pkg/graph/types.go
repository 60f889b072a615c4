package graph

import (
	"slices"

	"github.com/google/uuid"

	"github.com/matzehuels/forcelayout/pkg/vec"
)

// VertexID identifies a vertex within one graph. Zero is never issued.
type VertexID uint64

// EdgeID identifies an edge within one graph. Zero is never issued.
type EdgeID uint64

// Metadata stores arbitrary key-value pairs attached to vertices or edges.
// It is carried for render hooks (colour, texture, size) and is never read
// by the simulation.
type Metadata map[string]any

// =============================================================================
// Vertex
// =============================================================================

// Vertex is a simulated body. Its kinematic fields are rewritten on every
// tick by the layout engine; callers may read them between ticks and may
// move Position to pin or drag a vertex.
//
// The incident-edge set is owned by the graph and is only exposed through
// [Vertex.Degree] and [Vertex.IncidentEdges].
type Vertex struct {
	ID    VertexID
	Label string
	Meta  Metadata

	Position     vec.Vec3
	Velocity     vec.Vec3
	Acceleration vec.Vec3

	// Repulsion and Attraction are reset at the start of every tick and
	// written only during that tick.
	Repulsion  vec.Vec3
	Attraction vec.Vec3

	incident map[EdgeID]struct{}
}

// Pos returns the vertex position. It makes *Vertex usable as an octree body.
func (v *Vertex) Pos() vec.Vec3 { return v.Position }

// Degree returns the number of distinct edges incident to the vertex.
// A self-loop counts once.
func (v *Vertex) Degree() int { return len(v.incident) }

// IncidentEdges returns the ids of incident edges in ascending order.
func (v *Vertex) IncidentEdges() []EdgeID {
	ids := make([]EdgeID, 0, len(v.incident))
	for id := range v.incident {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// =============================================================================
// Edge
// =============================================================================

// Edge connects two live vertices of the same graph. Source and Target are
// non-owning references: removing either endpoint removes the edge.
type Edge struct {
	ID     EdgeID
	Source *Vertex
	Target *Vertex

	// Directed is a topology marker only. It has no physical effect.
	Directed bool
	// Gravity applies a constant downward acceleration to Target every tick.
	Gravity bool
	// Strength scales the spring attraction between the endpoints.
	Strength float64

	Meta Metadata

	multiplicity int
}

// Multiplicity returns how many AddEdge calls currently reference this
// edge's ordered endpoint pair.
func (e *Edge) Multiplicity() int { return e.multiplicity }

// IsSelfLoop reports whether both endpoints are the same vertex.
func (e *Edge) IsSelfLoop() bool { return e.Source == e.Target }

// =============================================================================
// Handles
// =============================================================================

// VertexHandle refers to a vertex of one specific graph. Handles are tagged
// with the graph instance and its clear epoch, so a handle from another
// graph, or from before a Clear, is never mistaken for a current member.
// The zero handle refers to nothing.
type VertexHandle struct {
	graph uuid.UUID
	epoch uint64
	id    VertexID
}

// ID returns the vertex id the handle refers to.
func (h VertexHandle) ID() VertexID { return h.id }

// Graph returns the instance id of the graph that issued the handle.
func (h VertexHandle) Graph() uuid.UUID { return h.graph }

// IsZero reports whether h is the zero handle.
func (h VertexHandle) IsZero() bool { return h.id == 0 }

// EdgeHandle refers to an edge of one specific graph.
type EdgeHandle struct {
	graph uuid.UUID
	epoch uint64
	id    EdgeID
}

// ID returns the edge id the handle refers to.
func (h EdgeHandle) ID() EdgeID { return h.id }

// Graph returns the instance id of the graph that issued the handle.
func (h EdgeHandle) Graph() uuid.UUID { return h.graph }

// IsZero reports whether h is the zero handle.
func (h EdgeHandle) IsZero() bool { return h.id == 0 }

// =============================================================================
// Options and Stats
// =============================================================================

// VertexOptions configures a new vertex.
type VertexOptions struct {
	Position vec.Vec3 // Initial position (default origin)
	Label    string
	Meta     Metadata
}

// EdgeOptions configures a new edge.
type EdgeOptions struct {
	// Strength scales the spring attraction. Nil means DefaultStrength.
	Strength *float64
	Directed bool
	Gravity  bool
	Meta     Metadata
}

// DefaultStrength is the spring multiplier used when EdgeOptions.Strength is nil.
const DefaultStrength = 1.0

// Strength is a convenience for filling EdgeOptions.Strength.
func Strength(s float64) *float64 { return &s }

// Stats is a read-only snapshot of the graph size.
type Stats struct {
	VertexCount int `json:"vertex_count"`
	EdgeCount   int `json:"edge_count"`
}
