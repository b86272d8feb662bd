package environment

import (
	"fmt"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// CategoricalStarter returns starting poses sampled uniformly from a
// fixed set of poses, e.g. the grid slots of a race track
type CategoricalStarter struct {
	poses []Pose
	seed  uint64
	rand  distuv.Categorical
}

// NewCategoricalStarter returns a new CategoricalStarter, sampling
// uniformly from poses
func NewCategoricalStarter(poses []Pose, seed uint64) (CategoricalStarter,
	error) {
	if len(poses) == 0 {
		return CategoricalStarter{}, fmt.Errorf("newCategoricalStarter: " +
			"at least one pose is required")
	}
	source := rand.NewSource(seed)

	// Create the weights for the uniform categorical distribution
	weights := make([]float64, len(poses))
	for j := range weights {
		weights[j] = 1.0 / float64(len(weights))
	}

	p := make([]Pose, len(poses))
	copy(p, poses)

	return CategoricalStarter{p, seed, distuv.NewCategorical(weights, source)},
		nil
}

// Start returns a starting pose
func (c CategoricalStarter) Start() Pose {
	return c.poses[int(c.rand.Rand())]
}
