package perception

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/qcontrol/utils/intutils"
)

// DefaultMaxStates is the default upper bound on the number of states
// an Encoder may produce. Tables are dense, so the state count bounds
// memory usage.
const DefaultMaxStates int = 1 << 24

// Reading is the outcome of a single ray cast
type Reading struct {
	Hit bool
	Tag Tag
}

// Observation is a single tick of sensory input: one Reading per ray
// in canonical fan order, and one value per context dimension.
type Observation struct {
	Rays    []Reading
	Context []int
}

// Config describes the configuration of a Perception Encoder. Configs
// are JSON serializable.
type Config struct {
	RaySize   int     // number of rays, must be even
	HalfAngle float64 // angular spacing between rays of a pair, in degrees
	Range     float64 // cast distance of forward and side rays
	RearScale float64 // scale of Range for the rear ray

	Tags []string // ordered tag vocabulary

	// StateSize is the cardinality of the context block. If
	// ContextSizes is set, StateSize is the product of its entries and
	// may be left at 0.
	StateSize    int
	ContextSizes []int

	// MaxStates bounds the state count, DefaultMaxStates if 0
	MaxStates int
}

// contextSizes returns the per-dimension cardinalities of the context
func (c Config) contextSizes() []int {
	if len(c.ContextSizes) > 0 {
		return c.ContextSizes
	}
	return []int{c.StateSize}
}

// Validate returns an error describing whether or not the configuration
// is valid
func (c Config) Validate() error {
	if c.RaySize < 2 || c.RaySize%2 != 0 {
		return fmt.Errorf("validate: ray size must be even and at least 2, "+
			"have %d", c.RaySize)
	}
	if len(c.Tags) == 0 {
		return fmt.Errorf("validate: tag vocabulary is empty")
	}

	product := 1
	for i, size := range c.contextSizes() {
		if size <= 0 {
			return fmt.Errorf("validate: context dimension %d must have "+
				"positive size, have %d", i, size)
		}
		if size > math.MaxInt/product {
			return fmt.Errorf("validate: context sizes %v overflow the "+
				"state count", c.contextSizes())
		}
		product *= size
	}
	if len(c.ContextSizes) > 0 && c.StateSize != 0 && c.StateSize != product {
		return fmt.Errorf("validate: state size %d does not match context "+
			"sizes %v", c.StateSize, c.ContextSizes)
	}
	return nil
}

// Encoder converts Observations into state indices using a mixed-radix
// encoding. Ray i contributes the digit (tag index + 1) if it hit a
// surface with a tag in the vocabulary, and 0 otherwise, weighted by
// base^i where base = len(vocabulary) + 1. The context block is placed
// above all ray digits, so that different context values can never
// collide with different ray encodings:
//
//	state = sum_i digit_i * base^i + context * base^raySize
//
// An Encoder has no mutable state and is safe for concurrent use.
type Encoder struct {
	vocab        *Vocabulary
	fan          *Fan
	base         int
	raySize      int
	raySpan      int // base^raySize
	contextSizes []int
	stateSize    int
	stateCount   int
}

// NewEncoder returns a new Encoder described by the argument Config
func NewEncoder(c Config) (*Encoder, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("newEncoder: %v", err)
	}

	vocab, err := NewVocabulary(c.Tags)
	if err != nil {
		return nil, fmt.Errorf("newEncoder: %v", err)
	}

	var fan *Fan
	if c.Range > 0 && c.HalfAngle > 0 {
		fan, err = NewFan(c.RaySize, c.HalfAngle, c.Range, c.RearScale)
		if err != nil {
			return nil, fmt.Errorf("newEncoder: %v", err)
		}
	}

	maxStates := c.MaxStates
	if maxStates <= 0 {
		maxStates = DefaultMaxStates
	}

	base := vocab.Len() + 1
	if math.Pow(float64(base), float64(c.RaySize)) > float64(maxStates) {
		return nil, fmt.Errorf("newEncoder: state count exceeds maximum "+
			"of %d states", maxStates)
	}
	raySpan := intutils.Pow(base, c.RaySize)

	sizes := make([]int, len(c.contextSizes()))
	copy(sizes, c.contextSizes())
	stateSize := 1
	for _, size := range sizes {
		if size > maxStates/raySpan/stateSize {
			return nil, fmt.Errorf("newEncoder: context sizes %v exceed "+
				"maximum of %d states", sizes, maxStates)
		}
		stateSize *= size
	}

	if stateSize > maxStates/raySpan {
		return nil, fmt.Errorf("newEncoder: state count %d x %d exceeds "+
			"maximum of %d states", raySpan, stateSize, maxStates)
	}

	return &Encoder{
		vocab:        vocab,
		fan:          fan,
		base:         base,
		raySize:      c.RaySize,
		raySpan:      raySpan,
		contextSizes: sizes,
		stateSize:    stateSize,
		stateCount:   raySpan * stateSize,
	}, nil
}

// Encode returns the state index of an Observation. Encode never fails:
// readings with tags outside the vocabulary encode as misses, missing
// readings encode as misses, and context values are clamped to their
// configured bounds.
func (e *Encoder) Encode(obs Observation) int {
	state := 0
	weight := 1
	for i := 0; i < e.raySize; i++ {
		if i < len(obs.Rays) {
			state += e.digit(obs.Rays[i]) * weight
		}
		weight *= e.base
	}

	return state + e.ContextIndex(obs.Context)*e.raySpan
}

// ContextIndex returns the mixed-radix index of the context block in
// [0, StateSize())
func (e *Encoder) ContextIndex(context []int) int {
	index := 0
	weight := 1
	for i, size := range e.contextSizes {
		value := 0
		if i < len(context) {
			value = intutils.Clip(context[i], 0, size-1)
		}
		index += value * weight
		weight *= size
	}
	return index
}

// digit returns the digit a single reading contributes to the state
func (e *Encoder) digit(r Reading) int {
	if !r.Hit || !e.vocab.Contains(r.Tag) {
		return 0
	}
	return int(r.Tag)
}

// StateCount returns the total number of states the Encoder can
// produce. Tables indexed by the Encoder must have exactly this many
// states.
func (e *Encoder) StateCount() int {
	return e.stateCount
}

// StateSize returns the cardinality of the context block
func (e *Encoder) StateSize() int {
	return e.stateSize
}

// RaySize returns the number of rays encoded
func (e *Encoder) RaySize() int {
	return e.raySize
}

// Base returns the radix of each ray digit
func (e *Encoder) Base() int {
	return e.base
}

// Vocabulary returns the tag vocabulary of the Encoder
func (e *Encoder) Vocabulary() *Vocabulary {
	return e.vocab
}

// Fan returns the ray geometry of the Encoder, or nil if the Encoder
// was configured without a range and angle
func (e *Encoder) Fan() *Fan {
	return e.fan
}
