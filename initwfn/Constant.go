package initwfn

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/qcontrol/utils/matutils/initializers/weights"
	G "gorgonia.org/gorgonia"
)

// ZeroesConfig implements a configuration of a zero weight initializer
type ZeroesConfig struct{}

// NewZeroes returns a new zeroes weight intializer
func NewZeroes() (*InitWFn, error) {
	return newInitWFn(ZeroesConfig{})
}

func (z ZeroesConfig) Validate() error { return nil }
func (z ZeroesConfig) Type() Type      { return Zeroes }

// Create creates the Gorgonia weight initializer from this
// initializer config
func (z ZeroesConfig) Create() G.InitWFn {
	return G.Zeroes()
}

func (z ZeroesConfig) Initializer(uint64) weights.Initializer {
	return weights.NewZero()
}

// OnesConfig implements a configuration of a weight initializer that
// initializes all weights to 1.
type OnesConfig struct{}

// NewOnes returns a new ones weight intializer
func NewOnes() (*InitWFn, error) {
	return newInitWFn(OnesConfig{})
}

func (o OnesConfig) Validate() error { return nil }
func (o OnesConfig) Type() Type      { return Ones }

// Create creates the Gorgonia weight initializer from this
// initializer config
func (o OnesConfig) Create() G.InitWFn {
	return G.Ones()
}

func (o OnesConfig) Initializer(uint64) weights.Initializer {
	return weights.NewConstant(1.0)
}

// ConstantConfig implements a configuration of a weight initializer
// that initializes all weights to a constant value.
type ConstantConfig struct {
	Value float64
}

// NewConstant returns a new constant weight intializer, useful for
// optimistic initialization of action values
func NewConstant(value float64) (*InitWFn, error) {
	return newInitWFn(ConstantConfig{value})
}

// Validate returns an error if the value is not finite
func (c ConstantConfig) Validate() error {
	if math.IsNaN(c.Value) || math.IsInf(c.Value, 0) {
		return fmt.Errorf("validate: constant must be finite, have %v",
			c.Value)
	}
	return nil
}

// Type returns the type of the weight initializer created using this
// config
func (c ConstantConfig) Type() Type {
	return Constant
}

// Create creates the Gorgonia weight initializer from this
// initializer config
func (c ConstantConfig) Create() G.InitWFn {
	return G.ValuesOf(c.Value)
}

// Initializer returns an initializer setting every value to the
// constant. The seed is unused.
func (c ConstantConfig) Initializer(uint64) weights.Initializer {
	return weights.NewConstant(c.Value)
}
