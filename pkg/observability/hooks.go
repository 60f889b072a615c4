// Package observability provides implementations of the render and tick
// hooks declared by pkg/graph and pkg/layout.
//
// The core packages only define the hook interfaces and call no-op defaults,
// so they stay free of any metrics or logging backend. This package supplies
// the backends:
//
//   - [Metrics]: Prometheus counters, gauges and a tick-duration histogram
//   - [Recorder]: an in-memory, ordered event log for renderers polling over HTTP
//   - [LogHooks]: structured debug logging through charmbracelet/log
//   - [Fanout], [FanoutTicks]: deliver each event to several hooks in order
//
// # Usage
//
// Register process-wide hooks at startup:
//
//	func main() {
//	    observability.SetRenderHooks(observability.NewLogHooks(logger))
//	    // ... run application
//	}
//
// Components that build graphs and engines pick them up:
//
//	g := graph.New(graph.WithHooks(observability.Render()))
//	eng, _ := layout.NewEngine(g, cfg, layout.WithTickHooks(observability.Tick()))
package observability

import (
	"sync"

	"github.com/matzehuels/forcelayout/pkg/graph"
	"github.com/matzehuels/forcelayout/pkg/layout"
)

// =============================================================================
// Fan-out
// =============================================================================

type renderFanout []graph.RenderHooks

// Fanout returns render hooks that forward every event to each of hooks in
// order. Nil entries are skipped.
func Fanout(hooks ...graph.RenderHooks) graph.RenderHooks {
	var out renderFanout
	for _, h := range hooks {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}

func (f renderFanout) OnVertexCreated(v *graph.Vertex) {
	for _, h := range f {
		h.OnVertexCreated(v)
	}
}

func (f renderFanout) OnVertexRemoved(v *graph.Vertex) {
	for _, h := range f {
		h.OnVertexRemoved(v)
	}
}

func (f renderFanout) OnEdgeCreated(e *graph.Edge) {
	for _, h := range f {
		h.OnEdgeCreated(e)
	}
}

func (f renderFanout) OnEdgeRemoved(e *graph.Edge) {
	for _, h := range f {
		h.OnEdgeRemoved(e)
	}
}

type tickFanout []layout.TickHooks

// FanoutTicks returns tick hooks that forward every event to each of hooks
// in order. Nil entries are skipped.
func FanoutTicks(hooks ...layout.TickHooks) layout.TickHooks {
	var out tickFanout
	for _, h := range hooks {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}

func (f tickFanout) OnTickStart(tick uint64, vertices, edges int) {
	for _, h := range f {
		h.OnTickStart(tick, vertices, edges)
	}
}

func (f tickFanout) OnTickComplete(stats layout.TickStats) {
	for _, h := range f {
		h.OnTickComplete(stats)
	}
}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	renderHooks graph.RenderHooks = graph.NoopRenderHooks{}
	tickHooks   layout.TickHooks  = layout.NoopTickHooks{}
	hooksMu     sync.RWMutex
)

// SetRenderHooks registers process-wide render hooks.
// This should be called once at application startup before any graph is built.
func SetRenderHooks(h graph.RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// SetTickHooks registers process-wide tick hooks.
// This should be called once at application startup before any engine is built.
func SetTickHooks(h layout.TickHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		tickHooks = h
	}
}

// Render returns the registered render hooks.
func Render() graph.RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// Tick returns the registered tick hooks.
func Tick() layout.TickHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return tickHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	renderHooks = graph.NoopRenderHooks{}
	tickHooks = layout.NoopTickHooks{}
}
