package layout

import (
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/matzehuels/forcelayout/pkg/graph"
	"github.com/matzehuels/forcelayout/pkg/vec"
)

// Sample offsets keep the three axes on uncorrelated slices of the noise
// field and away from lattice points, where OpenSimplex evaluates to zero.
const (
	scatterStep = 0.61803398875
	scatterOffY = 37.1372
	scatterOffZ = 91.5813
)

// ScatterPosition returns a deterministic pseudo-random position for a
// vertex id, within [-radius, radius] on each axis. The same seed and id
// always give the same position.
//
// Vertices that share a position feel no repulsion from each other, so new
// vertices are spread out before they join the simulation.
func ScatterPosition(seed int64, id graph.VertexID, radius float64) vec.Vec3 {
	return scatterAt(opensimplex.New(seed), id, radius)
}

func scatterAt(noise opensimplex.Noise, id graph.VertexID, radius float64) vec.Vec3 {
	t := float64(id) * scatterStep
	return vec.New(
		noise.Eval3(t, 0.5, 0.25)*radius,
		noise.Eval3(t+scatterOffY, 0.25, 0.5)*radius,
		noise.Eval3(t+scatterOffZ, 0.75, 0.125)*radius,
	)
}

// Scatter moves every vertex still at the origin to its scatter position and
// returns how many vertices were moved. Vertices placed elsewhere are left
// alone.
func Scatter(g *graph.Graph, seed int64, radius float64) int {
	noise := opensimplex.New(seed)
	moved := 0
	for _, v := range g.Vertices() {
		if v.Position.IsZero() {
			v.Position = scatterAt(noise, v.ID, radius)
			moved++
		}
	}
	return moved
}
