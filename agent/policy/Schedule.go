package policy

import (
	"fmt"
	"math"
)

// Schedule determines the exploration rate used in each episode
type Schedule interface {
	Epsilon(episode int) float64
}

// Constant is a Schedule that uses the same exploration rate in every
// episode
type Constant float64

// Epsilon returns the exploration rate
func (c Constant) Epsilon(int) float64 {
	return float64(c)
}

// ExponentialDecay is a Schedule that multiplies the exploration rate
// by Decay after each episode, down to a floor of Min
type ExponentialDecay struct {
	Start float64
	Min   float64
	Decay float64
}

// NewExponentialDecay returns a new ExponentialDecay schedule
func NewExponentialDecay(start, min, decay float64) (ExponentialDecay,
	error) {
	e := ExponentialDecay{Start: start, Min: min, Decay: decay}
	return e, e.Validate()
}

// Validate returns an error describing whether or not the schedule is
// valid
func (e ExponentialDecay) Validate() error {
	if e.Start < 0 || e.Start > 1 {
		return fmt.Errorf("validate: initial epsilon must be in [0, 1], "+
			"have %v", e.Start)
	}
	if e.Min < 0 || e.Min > e.Start {
		return fmt.Errorf("validate: minimum epsilon must be in [0, %v], "+
			"have %v", e.Start, e.Min)
	}
	if e.Decay <= 0 || e.Decay > 1 {
		return fmt.Errorf("validate: decay must be in (0, 1], have %v",
			e.Decay)
	}
	return nil
}

// Epsilon returns the exploration rate in episode
func (e ExponentialDecay) Epsilon(episode int) float64 {
	if episode < 0 {
		episode = 0
	}
	return math.Max(e.Min, e.Start*math.Pow(e.Decay, float64(episode)))
}
