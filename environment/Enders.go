package environment

import "github.com/samuelfneumann/qcontrol/timestep"

// StepLimit implements the Ender interface to end episodes after a
// fixed number of steps
type StepLimit int

// NewStepLimit creates and returns a new step limit
func NewStepLimit(episodeSteps int) StepLimit {
	return StepLimit(episodeSteps)
}

// End determines whether or not the current episode should be ended,
// returning a boolean to indicate episode termination. If the episode
// should be ended End() will modify the timestep so that its StepType
// field is timestep.Last
func (s StepLimit) End(t *timestep.TimeStep) bool {
	if t.Number >= int(s) {
		t.StepType = timestep.Last
		return true
	}
	return false
}

// FunctionEnder ends an episode whenever a function returns true,
// e.g. when an environment reports that its task is complete
type FunctionEnder func() bool

// NewFunctionEnder returns a new FunctionEnder which ends episodes
// when f returns true.
func NewFunctionEnder(f func() bool) Ender {
	return FunctionEnder(f)
}

// End determines whether or not the current episode should be ended.
// If so, the StepType of the timestep is set to timestep.Last.
func (f FunctionEnder) End(t *timestep.TimeStep) bool {
	if f() {
		t.StepType = timestep.Last
		return true
	}
	return false
}
