package environment

import (
	"fmt"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distmv"
)

// UniformStarter samples starting poses uniformly from bounds on the
// x position, y position, and heading
type UniformStarter struct {
	seed uint64
	rand *distmv.Uniform
}

// NewUniformStarter returns a new UniformStarter. Bounds must hold an
// interval for each of x, y, and the heading in that order. Degenerate
// intervals give deterministic starts.
func NewUniformStarter(bounds []r1.Interval, seed uint64) (UniformStarter,
	error) {
	if len(bounds) != 3 {
		return UniformStarter{}, fmt.Errorf("newUniformStarter: bounds "+
			"should be 3-dimensional, have %d", len(bounds))
	}
	for i, b := range bounds {
		if b.Min > b.Max {
			return UniformStarter{}, fmt.Errorf("newUniformStarter: "+
				"interval %d is empty: %v", i, b)
		}
	}

	source := rand.NewSource(seed)
	rand := distmv.NewUniform(bounds, source)

	return UniformStarter{seed, rand}, nil
}

// Start returns a starting pose
func (u UniformStarter) Start() Pose {
	s := u.rand.Rand(nil)
	return Pose{X: s[0], Y: s[1], Angle: s[2]}
}
