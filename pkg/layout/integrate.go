package layout

import (
	"github.com/matzehuels/forcelayout/pkg/config"
	"github.com/matzehuels/forcelayout/pkg/graph"
	"github.com/matzehuels/forcelayout/pkg/vec"
)

// integrate advances every vertex by one step and returns the kinetic
// energy and the largest displacement. The order of operations is fixed:
// friction is taken from the velocity before this tick's update.
func integrate(vertices []*graph.Vertex, cfg config.Config) (energy, maxDisp float64) {
	snap := cfg.SnapVelocity && cfg.MinimumVelocity > 0
	for _, v := range vertices {
		friction := v.Velocity.Scale(cfg.Friction)
		v.Acceleration = v.Acceleration.Add(v.Repulsion.Sub(v.Attraction))
		v.Acceleration = v.Acceleration.Sub(friction)
		v.Velocity = v.Velocity.Add(v.Acceleration)
		if snap && v.Velocity.Len() < cfg.MinimumVelocity {
			v.Velocity = vec.Zero
		}
		v.Position = v.Position.Add(v.Velocity)

		energy += v.Velocity.LenSq() / 2
		maxDisp = max(maxDisp, v.Velocity.Len())
	}
	return energy, maxDisp
}
