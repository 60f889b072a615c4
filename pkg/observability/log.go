package observability

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/forcelayout/pkg/graph"
	"github.com/matzehuels/forcelayout/pkg/layout"
)

// LogHooks writes lifecycle and tick events to a logger at debug level.
// It implements both graph.RenderHooks and layout.TickHooks.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks logging to l, or to log.Default() when l is nil.
func NewLogHooks(l *log.Logger) *LogHooks {
	if l == nil {
		l = log.Default()
	}
	return &LogHooks{logger: l.WithPrefix("hooks")}
}

func (h *LogHooks) OnVertexCreated(v *graph.Vertex) {
	h.logger.Debug("vertex created", "id", v.ID, "label", v.Label, "pos", v.Position)
}

func (h *LogHooks) OnVertexRemoved(v *graph.Vertex) {
	h.logger.Debug("vertex removed", "id", v.ID)
}

func (h *LogHooks) OnEdgeCreated(e *graph.Edge) {
	h.logger.Debug("edge created", "id", e.ID, "source", e.Source.ID, "target", e.Target.ID)
}

func (h *LogHooks) OnEdgeRemoved(e *graph.Edge) {
	h.logger.Debug("edge removed", "id", e.ID)
}

func (h *LogHooks) OnTickStart(tick uint64, vertices, edges int) {
	h.logger.Debug("tick start", "tick", tick, "vertices", vertices, "edges", edges)
}

func (h *LogHooks) OnTickComplete(s layout.TickStats) {
	h.logger.Debug("tick complete",
		"tick", s.Tick,
		"energy", s.KineticEnergy,
		"max_disp", s.MaxDisplacement,
		"center", s.Center,
		"took", s.Duration,
	)
}
