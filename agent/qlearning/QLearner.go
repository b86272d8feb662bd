package qlearning

import (
	"fmt"
	"os"

	"github.com/samuelfneumann/qcontrol/agent/qtable"
	"github.com/samuelfneumann/qcontrol/timestep"
)

// QLearner implements the update functionality for the tabular
// Q-Learning algorithm. Every write to the table is a single call to
// QTable.Update with the TD target
//
//	Q(s, a) + α * (r + γ * max_a' Q(s', a') - Q(s, a))
type QLearner struct {
	table        *qtable.QTable
	step         timestep.TimeStep
	action       int
	nextStep     timestep.TimeStep
	learningRate float64
	discount     float64
	observed     bool
}

// NewQLearner creates a new QLearner struct
//
// table is the table of action values to learn
func NewQLearner(table *qtable.QTable, learningRate,
	discount float64) (*QLearner, error) {
	if table == nil {
		return nil, fmt.Errorf("newQLearner: table cannot be nil")
	}
	if learningRate < 0 || learningRate > 1 {
		return nil, fmt.Errorf("newQLearner: learning rate must be in "+
			"[0, 1], have %v", learningRate)
	}
	if discount < 0 || discount > 1 {
		return nil, fmt.Errorf("newQLearner: discount must be in [0, 1], "+
			"have %v", discount)
	}

	return &QLearner{
		table:        table,
		learningRate: learningRate,
		discount:     discount,
	}, nil
}

// ObserveFirst observes and records the first episodic timestep
func (q *QLearner) ObserveFirst(t timestep.TimeStep) {
	if !t.First() {
		fmt.Fprintf(os.Stderr, "Warning: ObserveFirst() should only be "+
			"called on the first timestep (current timestep = %d)\n",
			t.Number)
	}
	q.step = timestep.TimeStep{}
	q.nextStep = t
	q.observed = false
}

// Observe observes and records any timestep other than the first
// timestep
func (q *QLearner) Observe(action int, nextStep timestep.TimeStep) {
	q.step = q.nextStep
	q.action = action
	q.nextStep = nextStep
	q.observed = true
}

// Step updates the table using the last observed transition
func (q *QLearner) Step() error {
	if !q.observed {
		return fmt.Errorf("step: no transition observed")
	}

	tr := timestep.NewTransition(q.step, q.action, q.nextStep)
	current := q.table.Value(tr.State, tr.Action)
	q.table.Update(tr.State, tr.Action,
		current+q.learningRate*q.TdError(tr))

	return nil
}

// TdError returns the TD error on a transition
func (q *QLearner) TdError(t timestep.Transition) float64 {
	target := t.Reward + q.discount*q.table.MaxValue(t.NextState)
	return target - q.table.Value(t.State, t.Action)
}

// Table returns the table the learner updates
func (q *QLearner) Table() *qtable.QTable {
	return q.table
}
