// Package qlearning implements the tabular Q-Learning algorithm with
// an ε-greedy behaviour policy.
package qlearning

import (
	"fmt"

	"github.com/samuelfneumann/qcontrol/agent/policy"
	"github.com/samuelfneumann/qcontrol/agent/qtable"
)

// QLearning implements the Q-Learning algorithm. The learner and the
// behaviour policy share the same table.
type QLearning struct {
	*QLearner
	*policy.EGreedy
	target   *policy.Greedy
	schedule policy.Schedule
	seed     uint64
}

// New creates a new QLearning struct which learns the values in table
func New(table *qtable.QTable, c Config, seed uint64) (*QLearning, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	behaviour, err := policy.NewEGreedy(table, seed)
	if err != nil {
		return nil, fmt.Errorf("new: could not create behaviour policy: %v",
			err)
	}

	learner, err := NewQLearner(table, c.LearningRate, c.Discount)
	if err != nil {
		return nil, fmt.Errorf("new: could not create learner: %v", err)
	}

	return &QLearning{
		QLearner: learner,
		EGreedy:  behaviour,
		target:   policy.NewGreedy(table),
		schedule: c.Schedule(),
		seed:     seed,
	}, nil
}

// Epsilon returns the exploration rate of the behaviour policy in
// episode
func (q *QLearning) Epsilon(episode int) float64 {
	return q.schedule.Epsilon(episode)
}

// TargetPolicy returns the greedy target policy of the agent
func (q *QLearning) TargetPolicy() *policy.Greedy {
	return q.target
}

// Table returns the table of action values learned by the agent
func (q *QLearning) Table() *qtable.QTable {
	return q.QLearner.Table()
}
