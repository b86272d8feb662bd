package qlearning

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/samuelfneumann/qcontrol/agent"
	"github.com/samuelfneumann/qcontrol/agent/qtable"
	"github.com/samuelfneumann/qcontrol/timestep"
)

func TestStepUpdate(t *testing.T) {
	table, err := qtable.New(2, 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	table.Update(1, 0, 2.0)
	table.Update(1, 1, 0.5)

	learner, err := NewQLearner(table, 0.5, 0.9)
	if err != nil {
		t.Fatal(err)
	}

	if err := learner.Step(); err == nil {
		t.Errorf("step: expected error before any transition is observed")
	}

	learner.ObserveFirst(timestep.New(timestep.First, 0, 0, 0))
	learner.Observe(0, timestep.New(timestep.Mid, 1.0, 1, 1))
	if err := learner.Step(); err != nil {
		t.Fatal(err)
	}

	// 0 + 0.5 * (1 + 0.9 * 2 - 0)
	if v := table.Value(0, 0); math.Abs(v-1.4) > 1e-12 {
		t.Errorf("value: want(1.4) have(%v)", v)
	}
	if v := table.Value(0, 1); v != 0 {
		t.Errorf("value: untouched action modified: have(%v)", v)
	}
}

func TestTdError(t *testing.T) {
	table, _ := qtable.New(2, 3, nil)
	table.Update(0, 1, 1.0)
	table.Update(2, 0, 4.0)

	learner, _ := NewQLearner(table, 0.1, 0.5)
	tr := timestep.Transition{State: 0, Action: 1, Reward: -1, NextState: 2}

	// -1 + 0.5 * 4 - 1
	if td := learner.TdError(tr); td != 0 {
		t.Errorf("tdError: want(0) have(%v)", td)
	}
}

// TestConvergence trains on a deterministic two state MDP. In state 0,
// action 1 earns a reward of 1 and moves to state 1, action 0 earns
// nothing and stays. From state 1 every action returns to state 0 for
// no reward.
func TestConvergence(t *testing.T) {
	const gamma = 0.9
	table, _ := qtable.New(2, 2, nil)

	q, err := New(table, Config{
		LearningRate: 0.1,
		Discount:     gamma,
		Epsilon:      0.2,
	}, 42)
	if err != nil {
		t.Fatal(err)
	}

	mdp := func(state, action int) (float64, int) {
		if state == 0 && action == 1 {
			return 1, 1
		}
		return 0, 0
	}

	state := 0
	q.ObserveFirst(timestep.New(timestep.First, 0, state, 0))
	for i := 1; i <= 20000; i++ {
		action := q.SelectAction(state, q.Epsilon(0))
		r, next := mdp(state, action)

		q.Observe(action, timestep.New(timestep.Mid, r, next, i))
		if err := q.Step(); err != nil {
			t.Fatal(err)
		}
		state = next
	}

	if a := q.TargetPolicy().SelectAction(0, 0); a != 1 {
		t.Errorf("greedy action: want(1) have(%v)", a)
	}

	v0 := 1 / (1 - gamma*gamma)
	want := map[[2]int]float64{
		{0, 1}: v0,
		{0, 0}: gamma * v0,
		{1, 0}: gamma * v0,
		{1, 1}: gamma * v0,
	}
	for sa, v := range want {
		if have := table.Value(sa[0], sa[1]); math.Abs(have-v) > 0.05 {
			t.Errorf("value%v: want(%v) have(%v)", sa, v, have)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	invalid := []Config{
		{LearningRate: -0.1, Discount: 0.9, Epsilon: 0.1},
		{LearningRate: 0.1, Discount: 1.1, Epsilon: 0.1},
		{LearningRate: 0.1, Discount: 0.9, Epsilon: 2},
		{LearningRate: 0.1, Discount: 0.9, Epsilon: 0.1, EpsilonMin: 0.5,
			EpsilonDecay: 0.9},
	}
	for _, c := range invalid {
		if err := c.Validate(); err == nil {
			t.Errorf("validate: expected error for %+v", c)
		}
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("validate: default config invalid: %v", err)
	}
}

func TestTypedConfig(t *testing.T) {
	data := []byte(`{"Type": "EGreedyQLearning", "Config": {
		"LearningRate": 0.2, "Discount": 0.95, "Epsilon": 1,
		"EpsilonMin": 0.05, "EpsilonDecay": 0.99}}`)

	var c agent.TypedConfig
	if err := json.Unmarshal(data, &c); err != nil {
		t.Fatal(err)
	}

	config, ok := c.Config.(Config)
	if !ok {
		t.Fatalf("unmarshal: want(Config) have(%T)", c.Config)
	}
	if config.LearningRate != 0.2 || config.EpsilonDecay != 0.99 {
		t.Errorf("unmarshal: unexpected config %+v", config)
	}

	table, _ := qtable.New(4, 8, nil)
	a, err := c.CreateAgent(table, 0)
	if err != nil {
		t.Fatal(err)
	}
	if e := a.Epsilon(1); math.Abs(e-0.99) > 1e-12 {
		t.Errorf("epsilon: want(0.99) have(%v)", e)
	}
}
