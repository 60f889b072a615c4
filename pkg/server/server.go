// Package server exposes one simulated graph over HTTP.
//
// A [Server] owns a graph, its layout engine, an event [observability.Recorder]
// that renderers poll for lifecycle events, and a Prometheus registry. A
// single mutex serialises every request, so topology changes never overlap
// a tick.
//
// # Routes
//
//	GET    /graph              vertex/edge counts, centre and tick
//	GET    /graph/export       JSON graph with positions
//	POST   /graph/import       replace the graph with a JSON graph
//	GET    /graph/dot          Graphviz DOT of the x/y projection
//	GET    /graph/svg          SVG rendering of the DOT
//	GET    /graph/validate     incidence invariant check
//	DELETE /graph              clear
//	POST   /vertices           {label, position?} -> {id}
//	DELETE /vertices/{id}
//	POST   /edges              {source, target, strength?, directed?, gravity?} -> {id, multiplicity}
//	DELETE /edges/{id}
//	POST   /layout?ticks=n     run n ticks, return the last tick's stats
//	GET    /positions          [{id, position}]
//	GET    /events?since=seq   recorded lifecycle events after seq
//	GET    /config, PUT /config
//	GET    /metrics            Prometheus exposition
//	GET    /healthz
package server

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/forcelayout/pkg/config"
	"github.com/matzehuels/forcelayout/pkg/errors"
	"github.com/matzehuels/forcelayout/pkg/graph"
	fio "github.com/matzehuels/forcelayout/pkg/io"
	"github.com/matzehuels/forcelayout/pkg/layout"
	"github.com/matzehuels/forcelayout/pkg/observability"
)

// Default limits.
const (
	DefaultScatterRadius = 5.0
	DefaultMaxTicks      = 10000
)

// Options configures a Server.
type Options struct {
	// Config holds the initial physics constants. The zero value selects
	// config.Default().
	Config *config.Config
	// Logger receives request and lifecycle logs. Nil means log.Default().
	Logger *log.Logger
	// Seed and ScatterRadius place vertices created without a position.
	Seed          int64
	ScatterRadius float64
	// MaxTicks bounds the ticks one /layout request may run.
	MaxTicks int
	// Registry collects the server's metrics. Nil creates a private registry.
	Registry *prometheus.Registry
	// Events bounds the recorded lifecycle events. Zero selects the default.
	Events int
}

// Server serves one graph and its layout engine.
type Server struct {
	mu       sync.Mutex
	g        *graph.Graph
	eng      *layout.Engine
	events   *observability.Recorder
	metrics  *observability.Metrics
	registry *prometheus.Registry
	hooks    graph.RenderHooks
	ticks    layout.TickHooks
	placed   uint64
	logger   *log.Logger
	opts     Options
	router   chi.Router
}

// New creates a server with an empty graph.
func New(opts Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.ScatterRadius <= 0 {
		opts.ScatterRadius = DefaultScatterRadius
	}
	if opts.MaxTicks <= 0 {
		opts.MaxTicks = DefaultMaxTicks
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	cfg := config.Default()
	if opts.Config != nil {
		cfg = *opts.Config
	}

	s := &Server{
		events:   observability.NewRecorder(opts.Events),
		metrics:  observability.NewMetrics(opts.Registry),
		registry: opts.Registry,
		logger:   opts.Logger,
		opts:     opts,
	}
	s.hooks = observability.Fanout(s.events, s.metrics, observability.Render())
	s.ticks = observability.FanoutTicks(s.metrics, observability.Tick())

	g := s.newGraph()
	eng, err := s.newEngine(g, cfg)
	if err != nil {
		return nil, err
	}
	s.g, s.eng = g, eng
	s.router = s.routes()
	return s, nil
}

func (s *Server) newGraph(opts ...graph.Option) *graph.Graph {
	base := []graph.Option{graph.WithHooks(s.hooks), graph.WithLogger(s.logger)}
	return graph.New(append(base, opts...)...)
}

func (s *Server) newEngine(g *graph.Graph, cfg config.Config) (*layout.Engine, error) {
	return layout.NewEngine(g, cfg, layout.WithTickHooks(s.ticks), layout.WithLogger(s.logger))
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler { return s.router }

// SetConfig replaces the physics constants from the next tick on.
func (s *Server) SetConfig(cfg config.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.SetConfig(cfg)
}

// Config returns the current physics constants.
func (s *Server) Config() config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.Config()
}

// Import replaces the served graph with one decoded from r. The current
// graph is cleared first, so event consumers see its removal before the new
// graph's creation events. The tick counter restarts at zero.
func (s *Server) Import(r io.Reader) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.importLocked(r)
}

func (s *Server) importLocked(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "read graph")
	}
	// Validate with silent hooks so a bad document leaves the served graph
	// and the event log untouched.
	if _, _, err := fio.ReadGraph(bytes.NewReader(data), graph.WithLogger(s.logger)); err != nil {
		return err
	}

	s.g.Clear()
	g, _, err := fio.ReadGraph(bytes.NewReader(data), graph.WithHooks(s.hooks), graph.WithLogger(s.logger))
	if err != nil {
		return err
	}
	eng, err := s.newEngine(g, s.eng.Config())
	if err != nil {
		return err
	}
	s.g, s.eng = g, eng
	st := g.Describe()
	s.logger.Info("graph imported", "vertices", st.VertexCount, "edges", st.EdgeCount)
	return nil
}

// Run steps the layout once per interval until ctx is done, for hosts that
// want the server to animate the layout on its own.
func (s *Server) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.mu.Lock()
			s.eng.Step()
			s.mu.Unlock()
		}
	}
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(s.serialize)

		r.Route("/graph", func(r chi.Router) {
			r.Get("/", s.describe)
			r.Delete("/", s.clear)
			r.Get("/export", s.export)
			r.Post("/import", s.importGraph)
			r.Get("/dot", s.dot)
			r.Get("/svg", s.svg)
			r.Get("/validate", s.validate)
		})
		r.Post("/vertices", s.addVertex)
		r.Delete("/vertices/{id}", s.removeVertex)
		r.Post("/edges", s.addEdge)
		r.Delete("/edges/{id}", s.removeEdge)
		r.Post("/layout", s.layout)
		r.Get("/positions", s.positions)
		r.Get("/events", s.eventsSince)
		r.Get("/config", s.getConfig)
		r.Put("/config", s.putConfig)
	})
	return r
}
