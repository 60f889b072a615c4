package layout

import (
	"context"
	"io"
	"math"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/forcelayout/pkg/config"
	"github.com/matzehuels/forcelayout/pkg/errors"
	"github.com/matzehuels/forcelayout/pkg/graph"
	"github.com/matzehuels/forcelayout/pkg/vec"
)

const tol = 1e-12

func newGraph() *graph.Graph {
	return graph.New(graph.WithLogger(log.New(io.Discard)))
}

func newEngine(t *testing.T, g *graph.Graph, cfg config.Config, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{WithLogger(log.New(io.Discard))}, opts...)
	e, err := NewEngine(g, cfg, opts...)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func vertex(t *testing.T, g *graph.Graph, h graph.VertexHandle) *graph.Vertex {
	t.Helper()
	v, ok := g.Vertex(h)
	if !ok {
		t.Fatalf("vertex %d not found", h.ID())
	}
	return v
}

// pair builds two vertices at the origin and at (10, 0, 0), optionally
// joined by an edge, runs one default tick, and returns their displacements.
func pair(t *testing.T, edge *graph.EdgeOptions) (da, db vec.Vec3) {
	t.Helper()
	g := newGraph()
	a := g.AddVertex(graph.VertexOptions{Position: vec.Zero})
	b := g.AddVertex(graph.VertexOptions{Position: vec.New(10, 0, 0)})
	if edge != nil {
		if _, err := g.AddEdge(a, b, *edge); err != nil {
			t.Fatal(err)
		}
	}
	newEngine(t, g, config.Default()).Step()
	return vertex(t, g, a).Position, vertex(t, g, b).Position.Sub(vec.New(10, 0, 0))
}

func TestTwoVerticesRepelSymmetrically(t *testing.T) {
	da, db := pair(t, nil)

	if da.X >= 0 || db.X <= 0 {
		t.Fatalf("displacements %v, %v: want a to move -x and b to move +x", da, db)
	}
	if !da.ApproxEqual(db.Neg(), tol) {
		t.Errorf("displacements not symmetric: %v vs %v", da, db)
	}
	if da.Y != 0 || da.Z != 0 || db.Y != 0 || db.Z != 0 {
		t.Errorf("displacement left the x axis: %v, %v", da, db)
	}
	want := config.DefaultRepulsion / (10.1 * 10.1)
	if math.Abs(db.X-want) > tol {
		t.Errorf("displacement = %v, want %v", db.X, want)
	}
}

func TestEdgeReducesDisplacement(t *testing.T) {
	free, _ := pair(t, nil)
	linked, _ := pair(t, &graph.EdgeOptions{Strength: graph.Strength(1)})

	if math.Abs(linked.X) >= math.Abs(free.X) {
		t.Errorf("|linked| = %v should be smaller than |free| = %v", math.Abs(linked.X), math.Abs(free.X))
	}
	pull := linked.X - free.X
	if want := config.DefaultAttraction * 10; math.Abs(pull-want) > tol {
		t.Errorf("attraction term = %v, want %v", pull, want)
	}
}

func TestGravityPullsTarget(t *testing.T) {
	g := newGraph()
	a := g.AddVertex(graph.VertexOptions{})
	b := g.AddVertex(graph.VertexOptions{Position: vec.New(10, 0, 0)})
	if _, err := g.AddEdge(a, b, graph.EdgeOptions{Directed: true, Gravity: true}); err != nil {
		t.Fatal(err)
	}
	newEngine(t, g, config.Default()).Step()

	if y := vertex(t, g, b).Position.Y; math.Abs(y+config.DefaultGravity) > tol {
		t.Errorf("target y = %v, want %v", y, -config.DefaultGravity)
	}
	if y := vertex(t, g, a).Position.Y; y != 0 {
		t.Errorf("source y = %v, want 0", y)
	}
}

func TestDirectedWithoutGravity(t *testing.T) {
	g := newGraph()
	a := g.AddVertex(graph.VertexOptions{})
	b := g.AddVertex(graph.VertexOptions{Position: vec.New(10, 0, 0)})
	if _, err := g.AddEdge(a, b, graph.EdgeOptions{Directed: true}); err != nil {
		t.Fatal(err)
	}
	newEngine(t, g, config.Default()).Step()

	if y := vertex(t, g, b).Position.Y; y != 0 {
		t.Errorf("directed edge without gravity moved target to y = %v", y)
	}
}

func TestSingleVertexNoOp(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
	}{
		{"zero forces", config.Config{}},
		{"defaults", config.Default()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGraph()
			start := vec.New(1, 2, 3)
			h := g.AddVertex(graph.VertexOptions{Position: start})
			newEngine(t, g, tt.cfg).Step()

			if got := vertex(t, g, h).Position; got != start {
				t.Errorf("position = %v, want %v", got, start)
			}
		})
	}
}

func TestIntegratorOrder(t *testing.T) {
	g := newGraph()
	h := g.AddVertex(graph.VertexOptions{})
	v := vertex(t, g, h)
	v.Velocity = vec.New(10, 0, 0)

	newEngine(t, g, config.Config{Friction: 0.5}).Step()

	// friction = 5, acc = -5, vel = 5, pos = 5
	if v.Acceleration != vec.New(-5, 0, 0) {
		t.Errorf("acceleration = %v, want (-5, 0, 0)", v.Acceleration)
	}
	if v.Velocity != vec.New(5, 0, 0) {
		t.Errorf("velocity = %v, want (5, 0, 0)", v.Velocity)
	}
	if v.Position != vec.New(5, 0, 0) {
		t.Errorf("position = %v, want (5, 0, 0)", v.Position)
	}
}

func TestSnapVelocity(t *testing.T) {
	tests := []struct {
		name string
		snap bool
		want vec.Vec3
	}{
		{"disabled", false, vec.New(0.5, 0, 0)},
		{"enabled", true, vec.Zero},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGraph()
			v := vertex(t, g, g.AddVertex(graph.VertexOptions{}))
			v.Velocity = vec.New(1, 0, 0)

			cfg := config.Config{Friction: 0.5, MinimumVelocity: 1, SnapVelocity: tt.snap}
			newEngine(t, g, cfg).Step()

			if v.Position != tt.want {
				t.Errorf("position = %v, want %v", v.Position, tt.want)
			}
		})
	}
}

func TestCenterFollowsRootCentroid(t *testing.T) {
	g := newGraph()
	g.AddVertex(graph.VertexOptions{Position: vec.Zero})
	g.AddVertex(graph.VertexOptions{Position: vec.New(0.01, 0, 0)})
	g.AddVertex(graph.VertexOptions{Position: vec.New(50, 50, 50)})

	stats := newEngine(t, g, config.Default()).Step()

	want := vec.New(0.005, 0, 0)
	if !g.Center().ApproxEqual(want, tol) {
		t.Errorf("Center() = %v, want %v", g.Center(), want)
	}
	if stats.Center != g.Center() {
		t.Errorf("stats.Center = %v, want %v", stats.Center, g.Center())
	}
	if stats.OctreeNodes != 2 || stats.OctreeDepth != 2 {
		t.Errorf("octree nodes/depth = %d/%d, want 2/2", stats.OctreeNodes, stats.OctreeDepth)
	}
}

func TestEmptyGraphStep(t *testing.T) {
	g := newGraph()
	e := newEngine(t, g, config.Default())
	stats := e.Step()
	if stats.Vertices != 0 || stats.KineticEnergy != 0 {
		t.Errorf("stats = %+v, want empty", stats)
	}
	if !g.Center().IsZero() {
		t.Errorf("Center() = %v, want origin", g.Center())
	}
	if e.Ticks() != 1 {
		t.Errorf("Ticks() = %d, want 1", e.Ticks())
	}
}

type tickLog struct {
	started   []uint64
	completed []TickStats
}

func (l *tickLog) OnTickStart(tick uint64, _, _ int) { l.started = append(l.started, tick) }
func (l *tickLog) OnTickComplete(s TickStats)        { l.completed = append(l.completed, s) }

func TestRun(t *testing.T) {
	g := newGraph()
	a := g.AddVertex(graph.VertexOptions{})
	b := g.AddVertex(graph.VertexOptions{Position: vec.New(1, 1, 0)})
	if _, err := g.AddEdge(a, b, graph.EdgeOptions{}); err != nil {
		t.Fatal(err)
	}

	hooks := &tickLog{}
	e := newEngine(t, g, config.Default(), WithTickHooks(hooks))
	last, err := e.Run(context.Background(), 5)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if last.Tick != 5 || e.Ticks() != 5 {
		t.Errorf("last tick = %d, Ticks() = %d, want 5", last.Tick, e.Ticks())
	}
	if len(hooks.started) != 5 || hooks.started[0] != 1 || hooks.started[4] != 5 {
		t.Errorf("OnTickStart ticks = %v, want 1..5", hooks.started)
	}
	if len(hooks.completed) != 5 || hooks.completed[4] != last {
		t.Errorf("OnTickComplete not called with final stats")
	}
}

func TestRunCancelled(t *testing.T) {
	g := newGraph()
	g.AddVertex(graph.VertexOptions{})
	e := newEngine(t, g, config.Default())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := e.Run(ctx, 10); err != context.Canceled {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if e.Ticks() != 0 {
		t.Errorf("Ticks() = %d, want 0", e.Ticks())
	}
}

func TestRunStopsWhenSettled(t *testing.T) {
	g := newGraph()
	g.AddVertex(graph.VertexOptions{})
	cfg := config.Default()
	cfg.StopEnergy = 1e-6

	e := newEngine(t, g, cfg)
	last, err := e.Run(context.Background(), 100)
	if err != nil {
		t.Fatal(err)
	}
	if last.Tick != 1 {
		t.Errorf("Run() stopped at tick %d, want 1 for a motionless graph", last.Tick)
	}
}

func TestLayoutSettles(t *testing.T) {
	g := newGraph()
	hs := make([]graph.VertexHandle, 6)
	for i := range hs {
		hs[i] = g.AddVertex(graph.VertexOptions{})
	}
	for i := range hs {
		if _, err := g.AddEdge(hs[i], hs[(i+1)%len(hs)], graph.EdgeOptions{}); err != nil {
			t.Fatal(err)
		}
	}
	Scatter(g, 7, 5)

	e := newEngine(t, g, config.Default())
	early, _ := e.Run(context.Background(), 10)
	late, _ := e.Run(context.Background(), 2000)

	if late.KineticEnergy >= early.KineticEnergy {
		t.Errorf("energy did not decrease: tick %d %v, tick %d %v",
			early.Tick, early.KineticEnergy, late.Tick, late.KineticEnergy)
	}
	for _, v := range g.Vertices() {
		if !v.Position.IsFinite() {
			t.Fatalf("vertex %d position %v is not finite", v.ID, v.Position)
		}
	}
}

func TestConfigValidation(t *testing.T) {
	g := newGraph()
	bad := config.Default()
	bad.Friction = -1

	if _, err := NewEngine(g, bad); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("NewEngine(bad) error = %v, want INVALID_CONFIG", err)
	}
	if _, err := NewEngine(nil, config.Default()); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("NewEngine(nil) error = %v, want INVALID_ARGUMENT", err)
	}

	e := newEngine(t, g, config.Default())
	if err := e.SetConfig(bad); err == nil {
		t.Error("SetConfig(bad) should fail")
	}
	if e.Config() != config.Default() {
		t.Error("rejected SetConfig changed the configuration")
	}
	next := config.Default()
	next.Gravity = 1
	if err := e.SetConfig(next); err != nil {
		t.Fatal(err)
	}
	if e.Config().Gravity != 1 {
		t.Errorf("Gravity = %v, want 1", e.Config().Gravity)
	}
}
