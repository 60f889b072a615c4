package graph

// FirstID is the first vertex and edge id issued by a graph, and the value
// both counters return to after Clear.
const FirstID = 1

// idAllocator issues vertex and edge ids for a single graph. The two
// counters are independent and ids are never recycled until reset.
type idAllocator struct {
	nextVertex VertexID
	nextEdge   EdgeID
}

func newIDAllocator() idAllocator {
	return idAllocator{nextVertex: FirstID, nextEdge: FirstID}
}

func (a *idAllocator) vertex() VertexID {
	id := a.nextVertex
	a.nextVertex++
	return id
}

func (a *idAllocator) edge() EdgeID {
	id := a.nextEdge
	a.nextEdge++
	return id
}

func (a *idAllocator) reset() { *a = newIDAllocator() }
