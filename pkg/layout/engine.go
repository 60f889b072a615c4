package layout

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/forcelayout/pkg/config"
	"github.com/matzehuels/forcelayout/pkg/errors"
	"github.com/matzehuels/forcelayout/pkg/graph"
	"github.com/matzehuels/forcelayout/pkg/octree"
	"github.com/matzehuels/forcelayout/pkg/vec"
)

// TickStats summarises one simulation step.
type TickStats struct {
	Tick     uint64 `json:"tick"`
	Vertices int    `json:"vertices"`
	Edges    int    `json:"edges"`

	// KineticEnergy is the sum of |v|²/2 over all vertices after the step,
	// treating every vertex as unit mass.
	KineticEnergy float64 `json:"kinetic_energy"`
	// MaxDisplacement is the largest distance any vertex moved this step.
	MaxDisplacement float64 `json:"max_displacement"`

	Center      vec.Vec3      `json:"center"`
	OctreeNodes int           `json:"octree_nodes"`
	OctreeDepth int           `json:"octree_depth"`
	Duration    time.Duration `json:"duration_ns"`
}

// Engine advances the layout of one graph. It owns no goroutines: every
// call to Step runs one synchronous tick on the caller's goroutine.
//
// An Engine is not safe for concurrent use, and the graph must not be
// mutated while Step or Run is executing.
type Engine struct {
	g      *graph.Graph
	cfg    config.Config
	hooks  TickHooks
	logger *log.Logger
	tick   uint64
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for per-tick debug output.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithTickHooks installs tick hooks. A nil value restores the no-op hooks.
func WithTickHooks(h TickHooks) Option {
	return func(e *Engine) {
		if h == nil {
			h = NoopTickHooks{}
		}
		e.hooks = h
	}
}

// NewEngine returns an engine for g. It fails with INVALID_CONFIG if cfg
// does not validate, and with INVALID_ARGUMENT if g is nil.
func NewEngine(g *graph.Graph, cfg config.Config, opts ...Option) (*Engine, error) {
	if g == nil {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "graph is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		g:      g,
		cfg:    cfg,
		hooks:  NoopTickHooks{},
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Graph returns the simulated graph.
func (e *Engine) Graph() *graph.Graph { return e.g }

// Config returns the constants used by the next tick.
func (e *Engine) Config() config.Config { return e.cfg }

// SetConfig replaces the constants from the next tick on. An invalid
// configuration is rejected and the current one kept.
func (e *Engine) SetConfig(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	e.cfg = cfg
	e.logger.Debug("layout config updated", "config", cfg)
	return nil
}

// Ticks returns the number of completed ticks.
func (e *Engine) Ticks() uint64 { return e.tick }

// Step advances the simulation by exactly one tick:
//
//  1. reset every vertex's acceleration and force accumulators
//  2. build the octree from all vertices in id order
//  3. estimate repulsion for every vertex
//  4. apply spring attraction and gravity for every edge
//  5. integrate velocity and position
//  6. record the root centroid as the graph centre
func (e *Engine) Step() TickStats {
	start := time.Now()
	vertices := e.g.Vertices()
	edges := e.g.Edges()
	e.hooks.OnTickStart(e.tick+1, len(vertices), len(edges))

	for _, v := range vertices {
		v.Acceleration = vec.Zero
		v.Repulsion = vec.Zero
		v.Attraction = vec.Zero
	}

	bodies := make([]octree.Body, len(vertices))
	for i, v := range vertices {
		bodies[i] = v
	}
	tree := octree.Build(bodies, e.cfg.InnerDistance)

	applyRepulsion(tree, vertices, e.cfg)
	applyAttraction(edges, e.cfg)
	applyGravity(edges, e.cfg)

	energy, maxDisp := integrate(vertices, e.cfg)

	if !tree.Empty() {
		e.g.SetCenter(tree.Center())
	}
	e.tick++

	stats := TickStats{
		Tick:            e.tick,
		Vertices:        len(vertices),
		Edges:           len(edges),
		KineticEnergy:   energy,
		MaxDisplacement: maxDisp,
		Center:          e.g.Center(),
		OctreeNodes:     tree.NodeCount(),
		OctreeDepth:     tree.Depth(),
		Duration:        time.Since(start),
	}
	e.logger.Debug("tick",
		"tick", stats.Tick,
		"vertices", stats.Vertices,
		"edges", stats.Edges,
		"energy", stats.KineticEnergy,
		"octree_depth", stats.OctreeDepth,
	)
	e.hooks.OnTickComplete(stats)
	return stats
}

// Run performs up to n ticks and returns the stats of the last one.
//
// It stops early when ctx is done, checked between ticks only, or when the
// configured StopEnergy is positive and the kinetic energy falls below it.
// A cancelled context is reported as ctx.Err().
func (e *Engine) Run(ctx context.Context, n int) (TickStats, error) {
	var last TickStats
	for range n {
		if err := ctx.Err(); err != nil {
			return last, err
		}
		last = e.Step()
		if e.cfg.StopEnergy > 0 && last.KineticEnergy < e.cfg.StopEnergy {
			e.logger.Debug("layout settled", "tick", last.Tick, "energy", last.KineticEnergy)
			break
		}
	}
	return last, nil
}
