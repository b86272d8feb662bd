package policy

import (
	"math"
	"testing"

	"github.com/samuelfneumann/qcontrol/agent/qtable"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

func newTable(t *testing.T, actions, states int) *qtable.QTable {
	table, err := qtable.New(actions, states, nil)
	if err != nil {
		t.Fatal(err)
	}
	return table
}

func TestEGreedyZeroEpsilonIsGreedy(t *testing.T) {
	table := newTable(t, 4, 3)
	table.Update(1, 2, 5.0)
	table.Update(1, 3, -1.0)

	p, err := NewEGreedy(table, 1)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 1000; i++ {
		if a := p.SelectAction(1, 0.0); a != 2 {
			t.Fatalf("selectAction: want(2) have(%v)", a)
		}
	}
}

func TestEGreedyTieBreak(t *testing.T) {
	table := newTable(t, 4, 2)
	table.Update(0, 1, 3.0)
	table.Update(0, 3, 3.0)

	p, err := NewEGreedy(table, 7)
	if err != nil {
		t.Fatal(err)
	}
	g := NewGreedy(table)

	for i := 0; i < 100; i++ {
		if a := p.SelectAction(0, 0.0); a != 1 {
			t.Fatalf("egreedy: want(1) have(%v)", a)
		}
		if a := g.SelectAction(0, 1.0); a != 1 {
			t.Fatalf("greedy: want(1) have(%v)", a)
		}
	}

	// All values equal, the first action wins
	if a := g.SelectAction(1, 0.0); a != 0 {
		t.Errorf("greedy: want(0) have(%v)", a)
	}
}

// TestEGreedyUniformExploration checks with a chi-square goodness of
// fit test that actions are uniform when epsilon = 1
func TestEGreedyUniformExploration(t *testing.T) {
	const (
		actions = 4
		draws   = 20000
		alpha   = 0.001
	)

	table := newTable(t, actions, 1)
	table.Update(0, 2, 100.0)

	p, err := NewEGreedy(table, 12345)
	if err != nil {
		t.Fatal(err)
	}

	observed := make([]float64, actions)
	for i := 0; i < draws; i++ {
		observed[p.SelectAction(0, 1.0)]++
	}

	expected := make([]float64, actions)
	for i := range expected {
		expected[i] = draws / actions
	}

	chi2 := stat.ChiSquare(observed, expected)
	pValue := 1 - distuv.ChiSquared{K: actions - 1}.CDF(chi2)
	if pValue < alpha {
		t.Errorf("selectAction: actions not uniform: observed %v "+
			"(chi2 = %v, p = %v)", observed, chi2, pValue)
	}
}

func TestEGreedySeeded(t *testing.T) {
	table := newTable(t, 5, 1)

	p1, _ := NewEGreedy(table, 99)
	p2, _ := NewEGreedy(table, 99)

	for i := 0; i < 100; i++ {
		a1, a2 := p1.SelectAction(0, 0.5), p2.SelectAction(0, 0.5)
		if a1 != a2 {
			t.Fatalf("selectAction: identical seeds diverged at draw %d: "+
				"%v != %v", i, a1, a2)
		}
	}
}

func TestExponentialDecay(t *testing.T) {
	e, err := NewExponentialDecay(1.0, 0.05, 0.5)
	if err != nil {
		t.Fatal(err)
	}

	tests := map[int]float64{0: 1.0, 1: 0.5, 3: 0.125, 10: 0.05, -1: 1.0}
	for episode, want := range tests {
		if have := e.Epsilon(episode); math.Abs(have-want) > 1e-12 {
			t.Errorf("epsilon(%v): want(%v) have(%v)", episode, want, have)
		}
	}

	if c := Constant(0.2); c.Epsilon(1000) != 0.2 {
		t.Errorf("constant: want(0.2) have(%v)", c.Epsilon(1000))
	}
}

func TestExponentialDecayValidate(t *testing.T) {
	invalid := []ExponentialDecay{
		{Start: 1.5, Min: 0, Decay: 0.9},
		{Start: 0.5, Min: 0.6, Decay: 0.9},
		{Start: 0.5, Min: 0.1, Decay: 0},
		{Start: 0.5, Min: 0.1, Decay: 1.1},
	}
	for _, e := range invalid {
		if err := e.Validate(); err == nil {
			t.Errorf("validate: expected error for %+v", e)
		}
	}
}
