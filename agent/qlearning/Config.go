package qlearning

import (
	"fmt"

	"github.com/samuelfneumann/qcontrol/agent"
	"github.com/samuelfneumann/qcontrol/agent/policy"
	"github.com/samuelfneumann/qcontrol/agent/qtable"
)

func init() {
	// Register Config type so that it can be typed using
	// agent.TypedConfig to help with serialization/deserialization.
	agent.Register(agent.EGreedyQLearning, Config{})
}

// Config represents a configuration for the QLearning agent
type Config struct {
	LearningRate float64
	Discount     float64

	// Epsilon is the exploration rate of the behaviour policy in the
	// first episode. If EpsilonDecay is non-zero, the exploration rate
	// is multiplied by EpsilonDecay after each episode, down to a
	// minimum of EpsilonMin.
	Epsilon      float64
	EpsilonMin   float64
	EpsilonDecay float64
}

// DefaultConfig returns the default agent configuration
func DefaultConfig() Config {
	return Config{
		LearningRate: 0.1,
		Discount:     0.9,
		Epsilon:      0.1,
	}
}

// CreateAgent creates the agent from the Config
func (c Config) CreateAgent(table *qtable.QTable, seed uint64) (agent.Agent,
	error) {
	return New(table, c, seed)
}

// Schedule returns the exploration schedule described by the Config
func (c Config) Schedule() policy.Schedule {
	if c.EpsilonDecay == 0 {
		return policy.Constant(c.Epsilon)
	}
	return policy.ExponentialDecay{
		Start: c.Epsilon,
		Min:   c.EpsilonMin,
		Decay: c.EpsilonDecay,
	}
}

// Validate ensures that the Config is valid
func (c Config) Validate() error {
	if c.LearningRate < 0 || c.LearningRate > 1 {
		return fmt.Errorf("validate: learning rate must be in [0, 1], "+
			"have %v", c.LearningRate)
	}
	if c.Discount < 0 || c.Discount > 1 {
		return fmt.Errorf("validate: discount must be in [0, 1], have %v",
			c.Discount)
	}
	if c.Epsilon < 0 || c.Epsilon > 1 {
		return fmt.Errorf("validate: epsilon must be in [0, 1], have %v",
			c.Epsilon)
	}

	if s, ok := c.Schedule().(policy.ExponentialDecay); ok {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("validate: %v", err)
		}
	}
	return nil
}

// Type returns the type of the agent constructed by the Config
func (c Config) Type() agent.Type {
	return agent.EGreedyQLearning
}
