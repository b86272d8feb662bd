// Package agent defines the interfaces of tabular agents
package agent

import (
	"github.com/samuelfneumann/qcontrol/timestep"
)

// Agent determines the implementation details of an agent or algorithm
//
// An Agent is composed of a Learner, which learns action values, and a
// Policy which chooses actions in each state. The Policy chooses which
// actions are taken, and the Learner uses these actions to update the
// Policy. Both share a pointer to the same Q-table, so that any update
// made by the Learner is immediately reflected in the actions the
// Policy chooses.
type Agent interface {
	Learner
	Policy

	// Epsilon returns the exploration rate to use in some episode
	Epsilon(episode int) float64
}

// Learner implements a learning algorithm that defines how action
// values are updated.
type Learner interface {
	// Step performs a single update to the learner using the last
	// observed transition
	Step() error

	// Observe records that an action lead to some timestep
	Observe(action int, nextStep timestep.TimeStep)

	// ObserveFirst records the first timestep in an episode
	ObserveFirst(timestep.TimeStep)

	// TdError returns the TD error on a transition
	TdError(t timestep.Transition) float64
}

// Policy represents a policy that an agent can have. Policies select
// discrete actions in discrete states.
type Policy interface {
	// SelectAction returns an action in state, where a uniform random
	// action is taken with probability epsilon
	SelectAction(state int, epsilon float64) int
}
