// Package weights defines interfaces and implementations for
// initializing tables of weights or values
package weights

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultNoise is the half-width of the symmetric interval that tables
// are initialized from by default. Small noise breaks ties between
// actions before any learning has happened.
const DefaultNoise float64 = 0.1

// Initializer initializes weights
type Initializer interface {
	Initialize(weights *mat.Dense)
}

// LinearUV initializes every element of a matrix of weights with a
// value drawn from a univariate distribution
type LinearUV struct {
	distuv.Rander
}

// NewLinearUV  creates and returns a new LinearUV
func NewLinearUV(rand distuv.Rander) LinearUV {
	if rand == nil {
		panic("newLinearUV: rand cannot be nil")
	}
	return LinearUV{rand}
}

// NewUniform returns a LinearUV which draws weights uniformly from
// [low, high) using a source seeded with seed
func NewUniform(low, high float64, seed uint64) LinearUV {
	source := rand.NewSource(seed)
	return NewLinearUV(distuv.Uniform{Min: low, Max: high, Src: source})
}

// NewGaussian returns a LinearUV which draws weights from a gaussian
// distribution using a source seeded with seed
func NewGaussian(mean, stddev float64, seed uint64) LinearUV {
	source := rand.NewSource(seed)
	return NewLinearUV(distuv.Normal{Mu: mean, Sigma: stddev, Src: source})
}

// NewNoise returns the default initializer, drawing weights uniformly
// from [-DefaultNoise, DefaultNoise)
func NewNoise(seed uint64) LinearUV {
	return NewUniform(-DefaultNoise, DefaultNoise, seed)
}

// NewZero returns a LinearUV which sets every weight to 0
func NewZero() LinearUV {
	return NewLinearUV(zeroUV{})
}

// NewConstant returns a LinearUV which sets every weight to value
func NewConstant(value float64) LinearUV {
	return NewLinearUV(constantUV(value))
}

// Initialize initializes a matrix of weights using values drawn from
// a univariate distribution
func (l LinearUV) Initialize(weights *mat.Dense) {
	if weights == nil {
		return
	}

	backingData := weights.RawMatrix().Data
	for i := range backingData {
		backingData[i] = l.Rand()
	}
}

// zeroUV implements the distuv.Rander interface, always drawing 0
type zeroUV struct{}

func (zeroUV) Rand() float64 { return 0.0 }

// constantUV implements the distuv.Rander interface, always drawing
// the same value
type constantUV float64

func (c constantUV) Rand() float64 { return float64(c) }
