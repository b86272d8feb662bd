package initwfn

import (
	"fmt"

	"github.com/samuelfneumann/qcontrol/utils/matutils/initializers/weights"
	G "gorgonia.org/gorgonia"
)

// UniformConfig implements a configuration of a weight initializer
// that draws weights uniformly from [Low, High)
type UniformConfig struct {
	Low, High float64
}

// NewUniform returns a new uniform weight initializer
func NewUniform(low, high float64) (*InitWFn, error) {
	return newInitWFn(UniformConfig{Low: low, High: high})
}

// Validate returns an error if the bounds are out of order
func (u UniformConfig) Validate() error {
	if u.Low > u.High {
		return fmt.Errorf("validate: uniform lower bound %v exceeds upper "+
			"bound %v", u.Low, u.High)
	}
	return nil
}

// Type returns the type of initialization algorithm described by
// the configuration.
func (u UniformConfig) Type() Type {
	return Uniform
}

// Create returns the weight initialization algorithm as a Gorgonia
// InitWFn
func (u UniformConfig) Create() G.InitWFn {
	return G.Uniform(u.Low, u.High)
}

// Initializer returns a uniform initializer drawing from a source
// seeded with seed
func (u UniformConfig) Initializer(seed uint64) weights.Initializer {
	return weights.NewUniform(u.Low, u.High, seed)
}

// GaussianConfig implements a configuration of a weight initializer
// that draws weights from a gaussian distribution
type GaussianConfig struct {
	Mean, StdDev float64
}

// NewGaussian returns a new gaussian weight initializer
func NewGaussian(mean, stddev float64) (*InitWFn, error) {
	return newInitWFn(GaussianConfig{Mean: mean, StdDev: stddev})
}

// Validate returns an error if the standard deviation is negative
func (g GaussianConfig) Validate() error {
	if g.StdDev < 0 {
		return fmt.Errorf("validate: standard deviation must be "+
			"non-negative, have %v", g.StdDev)
	}
	return nil
}

// Type returns the type of initialization algorithm described by
// the configuration.
func (g GaussianConfig) Type() Type {
	return Gaussian
}

// Create returns the weight initialization algorithm as a Gorgonia
// InitWFn
func (g GaussianConfig) Create() G.InitWFn {
	return G.Gaussian(g.Mean, g.StdDev)
}

// Initializer returns a gaussian initializer drawing from a source
// seeded with seed
func (g GaussianConfig) Initializer(seed uint64) weights.Initializer {
	return weights.NewGaussian(g.Mean, g.StdDev, seed)
}
