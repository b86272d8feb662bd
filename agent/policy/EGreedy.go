// Package policy implements action selection over tabular action
// values
package policy

import (
	"fmt"

	"github.com/samuelfneumann/qcontrol/agent/qtable"
	"golang.org/x/exp/rand"
)

// EGreedy implements an ε-greedy policy over a Q-table. With
// probability ε a uniformly random action is selected, otherwise the
// action of largest value is selected, with ties broken in favour of
// the lowest action index.
//
// EGreedy holds a pointer to the table, so that updates made to the
// table by a learner are immediately reflected in the actions chosen.
type EGreedy struct {
	table   *qtable.QTable
	actions int
	rng     *rand.Rand
}

// NewEGreedy constructs a new EGreedy policy over table
func NewEGreedy(table *qtable.QTable, seed uint64) (*EGreedy, error) {
	if table == nil {
		return nil, fmt.Errorf("newEGreedy: table cannot be nil")
	}
	actions, _ := table.Dims()

	return &EGreedy{
		table:   table,
		actions: actions,
		rng:     rand.New(rand.NewSource(seed)),
	}, nil
}

// SelectAction selects an action from an ε-greedy policy in state
func (p *EGreedy) SelectAction(state int, epsilon float64) int {
	if epsilon > 0 && p.rng.Float64() < epsilon {
		return p.rng.Intn(p.actions)
	}
	action, _ := p.table.BestAction(state)
	return action
}

// Table returns the table the policy selects actions from
func (p *EGreedy) Table() *qtable.QTable {
	return p.table
}
