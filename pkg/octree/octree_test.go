package octree

import (
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/forcelayout/pkg/vec"
)

type point struct{ p vec.Vec3 }

func (p *point) Pos() vec.Vec3 { return p.p }

// count returns the number of bodies in the subtree rooted at n.
func count(n *Node) int {
	total := n.weight
	for _, c := range n.children {
		if c != nil {
			total += count(c)
		}
	}
	return total
}

func randomBodies(r *rand.Rand, n int) []Body {
	bodies := make([]Body, n)
	for i := range bodies {
		bodies[i] = &point{vec.New(r.Float64()*20-10, r.Float64()*20-10, r.Float64()*20-10)}
	}
	return bodies
}

func exact(bodies []Body, b Body, law ForceLaw) vec.Vec3 {
	var acc vec.Vec3
	for _, u := range bodies {
		if u != b {
			acc = acc.Add(law(b.Pos(), u.Pos()))
		}
	}
	return acc
}

func TestRepulsion(t *testing.T) {
	law := Repulsion(100, 0.1)

	got := law(vec.New(10, 0, 0), vec.Zero)
	want := 100 / (10.1 * 10.1)
	if math.Abs(got.X-want) > 1e-12 || got.Y != 0 || got.Z != 0 {
		t.Errorf("law((10,0,0), origin) = %v, want (%v, 0, 0)", got, want)
	}
	if got.X <= 0 {
		t.Error("repulsion should push x1 away from x2")
	}
}

func TestRepulsionZeroDistance(t *testing.T) {
	tests := []struct {
		name    string
		epsilon float64
		p       vec.Vec3
	}{
		{"origin", 0.1, vec.Zero},
		{"offset", 0.1, vec.New(3, -2, 7)},
		{"zero epsilon", 0, vec.New(1, 1, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Repulsion(100, tt.epsilon)(tt.p, tt.p)
			if !got.IsZero() {
				t.Errorf("law(p, p) = %v, want zero", got)
			}
		})
	}
}

func TestRepulsionAntisymmetric(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	law := Repulsion(100, 0.1)
	for i := range 200 {
		a := vec.New(r.NormFloat64(), r.NormFloat64(), r.NormFloat64()).Scale(5)
		b := vec.New(r.NormFloat64(), r.NormFloat64(), r.NormFloat64()).Scale(5)
		if a == b {
			continue
		}
		ab, ba := law(a, b), law(b, a)
		if !ab.ApproxEqual(ba.Neg(), 1e-12) {
			t.Fatalf("case %d: law(a,b) = %v, -law(b,a) = %v", i, ab, ba.Neg())
		}
		if !ab.IsFinite() {
			t.Fatalf("case %d: non-finite force %v", i, ab)
		}
	}
}

func TestInsertRules(t *testing.T) {
	a := &point{vec.Zero}
	near := &point{vec.New(0.01, 0, 0)}
	far := &point{vec.New(5, 5, 5)}
	back := &point{vec.New(-5, 1, -5)}

	root := Build([]Body{a, near, far, back}, 0.036)

	if got := len(root.inner); got != 2 {
		t.Fatalf("root inner = %d, want 2", got)
	}
	if c := root.Center(); !c.ApproxEqual(vec.New(0.005, 0, 0), 1e-12) {
		t.Errorf("root centroid = %v, want (0.005, 0, 0)", c)
	}
	if c := root.children[7]; c == nil || c.inner[0] != far {
		t.Error("(+,+,+) body should be in octant 7")
	}
	if c := root.children[2]; c == nil || c.inner[0] != back {
		t.Error("(-,+,-) body should be in octant 2")
	}
	if got := count(root); got != 4 {
		t.Errorf("count() = %d, want 4", got)
	}
	if got := root.weight; got != 2 {
		t.Errorf("weight = %d, want 2", got)
	}
	if got := root.NodeCount(); got != 3 {
		t.Errorf("NodeCount() = %d, want 3", got)
	}
	if got := root.Depth(); got != 2 {
		t.Errorf("Depth() = %d, want 2", got)
	}
}

func TestCountMatchesInserted(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 7))
	for _, n := range []int{0, 1, 2, 17, 300} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			root := Build(randomBodies(r, n), 0.5)
			if got := count(root); got != n {
				t.Errorf("count() = %d, want %d", got, n)
			}
		})
	}
}

func TestCoincidentBodiesShareNode(t *testing.T) {
	bodies := []Body{&point{vec.Zero}, &point{vec.Zero}, &point{vec.Zero}}
	root := Build(bodies, 0)
	if root.NodeCount() != 1 || root.weight != 3 {
		t.Errorf("NodeCount/Weight = %d/%d, want 1/3", root.NodeCount(), root.weight)
	}
	if f := root.Estimate(bodies[0], Repulsion(100, 0.1)); !f.IsZero() {
		t.Errorf("Estimate() = %v, want zero for coincident bodies", f)
	}
}

// With a zero inner distance every distinct body gets its own node, and
// with an unbounded one every body is inner to the root. Both cases must
// reproduce the exact pairwise sum.
func TestEstimateMatchesExact(t *testing.T) {
	law := Repulsion(100, 0.1)
	for _, innerDistance := range []float64{0, math.Inf(1)} {
		t.Run(fmt.Sprint(innerDistance), func(t *testing.T) {
			r := rand.New(rand.NewPCG(3, 4))
			bodies := randomBodies(r, 60)
			root := Build(bodies, innerDistance)
			for i, b := range bodies {
				got := root.Estimate(b, law)
				want := exact(bodies, b, law)
				if !got.ApproxEqual(want, 1e-9) {
					t.Fatalf("body %d: Estimate() = %v, want %v", i, got, want)
				}
			}
		})
	}
}

func TestEstimateFarFieldWeight(t *testing.T) {
	// Two bodies group at the root; a distant body sees them as one point
	// mass of weight 2 at their centroid.
	a := &point{vec.New(0.01, 0, 0)}
	b := &point{vec.New(-0.01, 0, 0)}
	distant := &point{vec.New(10, 0, 0)}
	root := Build([]Body{a, b, distant}, 0.1)

	law := Repulsion(1, 0)
	got := root.Estimate(distant, law)
	want := law(distant.Pos(), vec.Zero).Scale(2)
	if !got.ApproxEqual(want, 1e-12) {
		t.Errorf("Estimate(distant) = %v, want %v", got, want)
	}
}

func TestCenterEmptyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Center() on empty node should panic")
		}
	}()
	root := New(1)
	if !root.Empty() {
		t.Fatal("new node should be empty")
	}
	root.Center()
}

func BenchmarkBuildEstimate(b *testing.B) {
	r := rand.New(rand.NewPCG(9, 9))
	bodies := randomBodies(r, 1000)
	law := Repulsion(100, 0.1)
	for b.Loop() {
		root := Build(bodies, 0.036)
		for _, body := range bodies {
			root.Estimate(body, law)
		}
	}
}
