package octree

import "github.com/matzehuels/forcelayout/pkg/vec"

// Body is anything with a position that can be inserted into the tree.
// Bodies are compared by identity, so implementations should be pointers.
type Body interface {
	Pos() vec.Vec3
}

// Node is one octree cell. The zero value is an empty node ready for
// insertion.
type Node struct {
	innerDistance float64

	// sum is the running sum of inner positions; sum/weight is the centroid.
	sum    vec.Vec3
	weight int
	inner  []Body

	// children are indexed by octant code: bit 0 set when x is greater than
	// the centroid, bit 1 for y, bit 2 for z.
	children [8]*Node
}

// New returns an empty node that groups bodies within innerDistance of its
// centroid.
func New(innerDistance float64) *Node {
	return &Node{innerDistance: innerDistance}
}

// Build inserts bodies in order into a fresh tree and returns its root.
func Build(bodies []Body, innerDistance float64) *Node {
	root := New(innerDistance)
	for _, b := range bodies {
		root.Insert(b)
	}
	return root
}

// Insert places b in the tree:
//
//  1. An empty node takes b as its first inner body.
//  2. A body within the inner distance of the node centroid joins the
//     inner group and moves the centroid.
//  3. Any other body is routed to the child for its octant relative to the
//     centroid, which is created on first use.
func (n *Node) Insert(b Body) {
	for {
		p := b.Pos()
		if len(n.inner) == 0 || p.Dist(n.centroid()) <= n.innerDistance {
			n.inner = append(n.inner, b)
			n.sum = n.sum.Add(p)
			n.weight++
			return
		}
		i := octant(p, n.centroid())
		if n.children[i] == nil {
			n.children[i] = New(n.innerDistance)
		}
		n = n.children[i]
	}
}

func octant(p, c vec.Vec3) int {
	i := 0
	if p.X > c.X {
		i |= 1
	}
	if p.Y > c.Y {
		i |= 2
	}
	if p.Z > c.Z {
		i |= 4
	}
	return i
}

func (n *Node) centroid() vec.Vec3 {
	return n.sum.Scale(1 / float64(n.weight))
}

// Estimate returns the approximate force on b from every other body in the
// subtree rooted at n.
//
// If b is an inner body of a node the law is summed exactly over the other
// inner bodies. Otherwise the node acts as a point mass at its centroid,
// weighted by its inner count. Children are always visited.
func (n *Node) Estimate(b Body, law ForceLaw) vec.Vec3 {
	var acc vec.Vec3
	n.estimate(b, b.Pos(), law, &acc)
	return acc
}

func (n *Node) estimate(b Body, p vec.Vec3, law ForceLaw, acc *vec.Vec3) {
	if n.weight == 0 {
		return
	}
	if n.hasInner(b) {
		for _, u := range n.inner {
			if u != b {
				*acc = acc.Add(law(p, u.Pos()))
			}
		}
	} else {
		*acc = acc.Add(law(p, n.centroid()).Scale(float64(n.weight)))
	}
	for _, c := range n.children {
		if c != nil {
			c.estimate(b, p, law, acc)
		}
	}
}

func (n *Node) hasInner(b Body) bool {
	for _, u := range n.inner {
		if u == b {
			return true
		}
	}
	return false
}

// Center returns the centroid of the node's inner bodies. It panics on an
// empty node; use Empty to guard.
func (n *Node) Center() vec.Vec3 {
	if n.weight == 0 {
		panic("octree: Center called on empty node")
	}
	return n.centroid()
}

// Empty reports whether nothing has been inserted into the node.
func (n *Node) Empty() bool { return n.weight == 0 }

// NodeCount returns the number of non-nil nodes in the subtree, including n.
func (n *Node) NodeCount() int {
	total := 1
	for _, c := range n.children {
		if c != nil {
			total += c.NodeCount()
		}
	}
	return total
}

// Depth returns the height of the subtree; a lone root has depth 1.
func (n *Node) Depth() int {
	deepest := 0
	for _, c := range n.children {
		if c != nil {
			deepest = max(deepest, c.Depth())
		}
	}
	return deepest + 1
}
