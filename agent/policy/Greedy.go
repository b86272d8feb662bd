package policy

import "github.com/samuelfneumann/qcontrol/agent/qtable"

// Greedy is a policy that always selects the action of largest value.
// Greedy policies are used to evaluate learned tables.
type Greedy struct {
	table *qtable.QTable
}

// NewGreedy creates a new Greedy policy
func NewGreedy(table *qtable.QTable) *Greedy {
	return &Greedy{table}
}

// SelectAction returns the greedy action in state. The exploration
// rate is ignored.
func (g *Greedy) SelectAction(state int, _ float64) int {
	action, _ := g.table.BestAction(state)
	return action
}
