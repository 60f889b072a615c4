// Package config holds the physical constants that drive the layout
// simulation and the loaders that read them from TOML or YAML files.
//
// # Constants
//
// Every field of [Config] maps to exactly one constant of the force model:
//
//	attraction        spring constant for edge attraction
//	repulsion         numerator of the softened inverse-square repulsion
//	epsilon           softening term added to the separation before squaring
//	friction          fraction of the previous velocity removed each tick
//	inner_distance    octree near-field grouping threshold
//	gravity           downward acceleration applied to gravity-enabled edge targets
//	minimum_velocity  snap-to-zero threshold (only with snap_velocity)
//
// [Default] returns the stock tuning. Configuration is
// supplied at construction and may be replaced at runtime; see [Watcher] for
// file-based hot reload.
package config

import (
	"github.com/matzehuels/forcelayout/pkg/errors"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	DefaultAttraction      = 0.0025
	DefaultRepulsion       = 100.0
	DefaultEpsilon         = 0.1
	DefaultFriction        = 0.60
	DefaultInnerDistance   = 0.036
	DefaultGravity         = 0.070
	DefaultMinimumVelocity = 0.001
)

// =============================================================================
// Config
// =============================================================================

// Config is the set of tunable constants of the force model and integrator.
// The zero value disables every force; use [Default] as a starting point.
type Config struct {
	Attraction    float64 `toml:"attraction" yaml:"attraction" json:"attraction"`
	Repulsion     float64 `toml:"repulsion" yaml:"repulsion" json:"repulsion"`
	Epsilon       float64 `toml:"epsilon" yaml:"epsilon" json:"epsilon"`
	Friction      float64 `toml:"friction" yaml:"friction" json:"friction"`
	InnerDistance float64 `toml:"inner_distance" yaml:"inner_distance" json:"inner_distance"`
	Gravity       float64 `toml:"gravity" yaml:"gravity" json:"gravity"`

	// MinimumVelocity is only applied when SnapVelocity is set: velocities
	// shorter than it are snapped to zero before the position update.
	MinimumVelocity float64 `toml:"minimum_velocity" yaml:"minimum_velocity" json:"minimum_velocity"`
	SnapVelocity    bool    `toml:"snap_velocity" yaml:"snap_velocity" json:"snap_velocity"`

	// StopEnergy ends a multi-tick run early once the kinetic energy of a
	// tick drops below it. Zero disables the check.
	StopEnergy float64 `toml:"stop_energy" yaml:"stop_energy" json:"stop_energy"`
}

// Default returns the stock constants, tuned for graphs of a few hundred vertices.
func Default() Config {
	return Config{
		Attraction:      DefaultAttraction,
		Repulsion:       DefaultRepulsion,
		Epsilon:         DefaultEpsilon,
		Friction:        DefaultFriction,
		InnerDistance:   DefaultInnerDistance,
		Gravity:         DefaultGravity,
		MinimumVelocity: DefaultMinimumVelocity,
	}
}

// Validate checks that every constant is usable by the integrator.
// All values must be finite and non-negative, friction must not exceed 1,
// and epsilon must be positive whenever repulsion is enabled (otherwise two
// vertices at a tiny separation would receive an unbounded force).
func (c Config) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"attraction", c.Attraction},
		{"repulsion", c.Repulsion},
		{"epsilon", c.Epsilon},
		{"friction", c.Friction},
		{"inner_distance", c.InnerDistance},
		{"gravity", c.Gravity},
		{"minimum_velocity", c.MinimumVelocity},
		{"stop_energy", c.StopEnergy},
	}
	for _, f := range fields {
		if err := errors.ValidateNonNegative(f.name, f.v); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid %s", f.name)
		}
	}
	if c.Friction > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "friction must be in [0, 1], got %v", c.Friction)
	}
	if c.Repulsion > 0 && c.Epsilon == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "epsilon must be positive when repulsion is enabled")
	}
	return nil
}
