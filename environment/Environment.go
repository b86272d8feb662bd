// Package environment outlines the interfaces and structs needed to
// implement concrete environments that a tabular controller can be
// trained in
package environment

import (
	"github.com/samuelfneumann/qcontrol/perception"
	"github.com/samuelfneumann/qcontrol/timestep"
)

// Pose is the position and heading of an agent in the plane. Angle is
// measured in radians counter-clockwise from the positive x-axis.
type Pose struct {
	X, Y  float64
	Angle float64
}

// Starter implements a distribution of starting poses and samples
// starting poses for environments
type Starter interface {
	Start() Pose
}

// Ender determines when an episode should end
type Ender interface {
	// End returns whether the episode should end. If so, the StepType
	// of the argument TimeStep is set to timestep.Last.
	End(*timestep.TimeStep) bool
}

// Sensor casts the sensing rays of an agent and reports what they hit,
// along with the discrete context of the agent (e.g. the number of
// checkpoints passed so far)
type Sensor interface {
	Sense() perception.Observation
}

// Actuator applies discrete actions to an agent
type Actuator interface {
	// Act applies an action for a single tick and advances the world
	Act(action int)

	// Advance advances the world a single tick without applying any
	// action
	Advance()

	// Actions returns the number of discrete actions
	Actions() int
}

// Progress tracks the progress of an agent through an episode
type Progress interface {
	// ResetProgress restores all per-episode progress, e.g. re-arming
	// checkpoints
	ResetProgress()

	// ResetAgent restores the agent to a starting pose with no motion
	ResetAgent()

	// Done returns whether the agent completed its task, ending the
	// episode early
	Done() bool
}

// Environment implements a simulated environment that a tabular agent
// is trained in
type Environment interface {
	Sensor
	Actuator
	Progress
}
