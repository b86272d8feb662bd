// Package timestep implements timesteps of the agent-environment
// interaction
package timestep

import (
	"fmt"
)

// StepType denotes the type of step that a TimeStep can be, either a
// first step in an episode, a middle step, or a last step
type StepType int

const (
	First StepType = iota
	Mid
	Last
)

func (s StepType) String() string {
	switch s {
	case First:
		return "First"
	case Last:
		return "Last"
	default:
		return "Mid"
	}
}

// TimeStep packages together a single tick of a training episode. State
// is the encoded state index the agent observed after acting, Reward is
// the reward attributed to the tick.
type TimeStep struct {
	StepType StepType
	Reward   float64
	State    int
	Number   int
}

// New returns a new TimeStep
func New(t StepType, r float64, s, n int) TimeStep {
	return TimeStep{t, r, s, n}
}

// First returns whether a TimeStep is the first in an episode
func (t *TimeStep) First() bool {
	return t.StepType == First
}

// Mid returns whether a TimeStep is a middle step in an episode
func (t *TimeStep) Mid() bool {
	return t.StepType == Mid
}

// Last returns whether a TimeStep is the last step in an episode
func (t *TimeStep) Last() bool {
	return t.StepType == Last
}

func (t TimeStep) String() string {
	str := "TimeStep | Type: %v  |  Reward:  %.2f  |  State: %v  |  " +
		"Step Number:  %v"

	return fmt.Sprintf(str, t.StepType, t.Reward, t.State, t.Number)
}

// Transition is a single (s, a, r, s') tuple of the interaction
type Transition struct {
	State     int
	Action    int
	Reward    float64
	NextState int
}

// NewTransition returns the Transition from step to next when action
// was taken in step
func NewTransition(step TimeStep, action int, next TimeStep) Transition {
	return Transition{
		State:     step.State,
		Action:    action,
		Reward:    next.Reward,
		NextState: next.State,
	}
}

func (t Transition) String() string {
	return fmt.Sprintf("Transition | (%v, %v, %.2f, %v)", t.State, t.Action,
		t.Reward, t.NextState)
}
