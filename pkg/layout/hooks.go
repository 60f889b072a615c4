package layout

// TickHooks observes simulation ticks. Hooks run synchronously inside Step
// and must not mutate the graph or vertex kinematics.
type TickHooks interface {
	// OnTickStart is called before any force is computed. tick is the
	// 1-based number of the tick about to run.
	OnTickStart(tick uint64, vertices, edges int)
	// OnTickComplete is called after positions have been updated.
	OnTickComplete(stats TickStats)
}

// NoopTickHooks is a no-op implementation of TickHooks.
type NoopTickHooks struct{}

func (NoopTickHooks) OnTickStart(uint64, int, int) {}
func (NoopTickHooks) OnTickComplete(TickStats)     {}
