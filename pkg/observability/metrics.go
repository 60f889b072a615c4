package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/forcelayout/pkg/graph"
	"github.com/matzehuels/forcelayout/pkg/layout"
)

// Metrics exports graph and simulation activity to Prometheus. It
// implements both graph.RenderHooks and layout.TickHooks.
type Metrics struct {
	Ticks         prometheus.Counter
	TickDuration  prometheus.Histogram
	KineticEnergy prometheus.Gauge
	OctreeDepth   prometheus.Gauge

	VerticesCreated prometheus.Counter
	VerticesRemoved prometheus.Counter
	EdgesCreated    prometheus.Counter
	EdgesRemoved    prometheus.Counter
	Vertices        prometheus.Gauge
	Edges           prometheus.Gauge
}

// NewMetrics creates and registers the collectors with reg. Pass
// prometheus.NewRegistry() in tests to avoid duplicate registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Ticks: f.NewCounter(prometheus.CounterOpts{
			Name: "forcelayout_ticks_total",
			Help: "Total number of simulation ticks executed.",
		}),
		TickDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "forcelayout_tick_duration_seconds",
			Help:    "Wall time of one simulation tick.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
		}),
		KineticEnergy: f.NewGauge(prometheus.GaugeOpts{
			Name: "forcelayout_kinetic_energy",
			Help: "Kinetic energy of the graph after the last tick.",
		}),
		OctreeDepth: f.NewGauge(prometheus.GaugeOpts{
			Name: "forcelayout_octree_depth",
			Help: "Depth of the octree built by the last tick.",
		}),
		VerticesCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "forcelayout_vertices_created_total",
			Help: "Total number of vertices created.",
		}),
		VerticesRemoved: f.NewCounter(prometheus.CounterOpts{
			Name: "forcelayout_vertices_removed_total",
			Help: "Total number of vertices removed, including by clear.",
		}),
		EdgesCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "forcelayout_edges_created_total",
			Help: "Total number of distinct edges created.",
		}),
		EdgesRemoved: f.NewCounter(prometheus.CounterOpts{
			Name: "forcelayout_edges_removed_total",
			Help: "Total number of edges destroyed, including by cascade.",
		}),
		Vertices: f.NewGauge(prometheus.GaugeOpts{
			Name: "forcelayout_vertices",
			Help: "Current number of vertices.",
		}),
		Edges: f.NewGauge(prometheus.GaugeOpts{
			Name: "forcelayout_edges",
			Help: "Current number of edges.",
		}),
	}
}

func (m *Metrics) OnVertexCreated(*graph.Vertex) {
	m.VerticesCreated.Inc()
	m.Vertices.Inc()
}

func (m *Metrics) OnVertexRemoved(*graph.Vertex) {
	m.VerticesRemoved.Inc()
	m.Vertices.Dec()
}

func (m *Metrics) OnEdgeCreated(*graph.Edge) {
	m.EdgesCreated.Inc()
	m.Edges.Inc()
}

func (m *Metrics) OnEdgeRemoved(*graph.Edge) {
	m.EdgesRemoved.Inc()
	m.Edges.Dec()
}

func (m *Metrics) OnTickStart(uint64, int, int) {}

func (m *Metrics) OnTickComplete(s layout.TickStats) {
	m.Ticks.Inc()
	m.TickDuration.Observe(s.Duration.Seconds())
	m.KineticEnergy.Set(s.KineticEnergy)
	m.OctreeDepth.Set(float64(s.OctreeDepth))
}
