package octree

import "github.com/matzehuels/forcelayout/pkg/vec"

// ForceLaw returns the force exerted on a body at x1 by a body at x2.
type ForceLaw func(x1, x2 vec.Vec3) vec.Vec3

// Repulsion returns the softened inverse-square law
//
//	constant / (epsilon + r)^2 * (x1 - x2) / r
//
// where r = |x1 - x2|. Coincident positions yield the zero vector. The law
// is antisymmetric: swapping x1 and x2 negates the result.
func Repulsion(constant, epsilon float64) ForceLaw {
	return func(x1, x2 vec.Vec3) vec.Vec3 {
		d := x1.Sub(x2)
		r := d.Len()
		if r == 0 {
			return vec.Zero
		}
		s := epsilon + r
		return d.Scale(constant / (s * s) / r)
	}
}
