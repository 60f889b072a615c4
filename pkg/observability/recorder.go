package observability

import (
	"sync"

	"github.com/matzehuels/forcelayout/pkg/graph"
	"github.com/matzehuels/forcelayout/pkg/vec"
)

// EventKind names a render lifecycle event.
type EventKind string

const (
	VertexCreated EventKind = "vertex_created"
	VertexRemoved EventKind = "vertex_removed"
	EdgeCreated   EventKind = "edge_created"
	EdgeRemoved   EventKind = "edge_removed"
)

// Event is one recorded lifecycle notification. Seq increases by one per
// event and is never reused, so a poller can resume with Since(lastSeq).
type Event struct {
	Seq      uint64         `json:"seq"`
	Kind     EventKind      `json:"kind"`
	Vertex   graph.VertexID `json:"vertex,omitempty"`
	Edge     graph.EdgeID   `json:"edge,omitempty"`
	Source   graph.VertexID `json:"source,omitempty"`
	Target   graph.VertexID `json:"target,omitempty"`
	Label    string         `json:"label,omitempty"`
	Position *vec.Vec3      `json:"position,omitempty"`
}

// DefaultRecorderCapacity bounds the events kept by NewRecorder(0).
const DefaultRecorderCapacity = 10000

// Recorder keeps the most recent lifecycle events in order. It implements
// graph.RenderHooks and is safe for concurrent readers.
//
// Events live in a fixed-size ring; once it is full each new event
// overwrites the oldest one.
type Recorder struct {
	mu       sync.Mutex
	capacity int
	next     uint64
	head     int // index of the oldest event once the ring is full
	events   []Event
}

// NewRecorder returns a recorder keeping at most capacity events; older
// events are discarded first. A capacity <= 0 selects the default.
func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = DefaultRecorderCapacity
	}
	return &Recorder{capacity: capacity, next: 1}
}

func (r *Recorder) add(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev.Seq = r.next
	r.next++
	if len(r.events) < r.capacity {
		r.events = append(r.events, ev)
		return
	}
	r.events[r.head] = ev
	r.head = (r.head + 1) % r.capacity
}

// oldest returns the seq of the oldest retained event. Callers hold r.mu.
func (r *Recorder) oldest() uint64 {
	return r.next - uint64(len(r.events))
}

func (r *Recorder) OnVertexCreated(v *graph.Vertex) {
	p := v.Position
	r.add(Event{Kind: VertexCreated, Vertex: v.ID, Label: v.Label, Position: &p})
}

func (r *Recorder) OnVertexRemoved(v *graph.Vertex) {
	r.add(Event{Kind: VertexRemoved, Vertex: v.ID})
}

func (r *Recorder) OnEdgeCreated(e *graph.Edge) {
	r.add(Event{Kind: EdgeCreated, Edge: e.ID, Source: e.Source.ID, Target: e.Target.ID})
}

func (r *Recorder) OnEdgeRemoved(e *graph.Edge) {
	r.add(Event{Kind: EdgeRemoved, Edge: e.ID, Source: e.Source.ID, Target: e.Target.ID})
}

// Since returns the retained events with Seq greater than seq, oldest first.
// Events older than [Recorder.FirstSeq] have been discarded and are not
// returned.
func (r *Recorder) Since(seq uint64) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.events)
	if n == 0 || seq >= r.next-1 {
		return nil
	}
	skip := 0
	if first := r.oldest(); seq >= first {
		skip = int(seq - first + 1)
	}
	out := make([]Event, n-skip)
	for i := range out {
		out[i] = r.events[(r.head+skip+i)%n]
	}
	return out
}

// Events returns every retained event, oldest first.
func (r *Recorder) Events() []Event { return r.Since(0) }

// LastSeq returns the sequence number of the newest event, or 0.
func (r *Recorder) LastSeq() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.next - 1
}

// FirstSeq returns the sequence number of the oldest retained event, or 0
// when nothing is retained. A poller resuming from a seq below FirstSeq()-1
// has missed events.
func (r *Recorder) FirstSeq() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return 0
	}
	return r.oldest()
}
