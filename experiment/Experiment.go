// Package experiment implements functionality for training tabular
// agents in an environment
package experiment

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/samuelfneumann/qcontrol/agent"
	"github.com/samuelfneumann/qcontrol/agent/qtable"
	"github.com/samuelfneumann/qcontrol/environment/envconfig"
	"github.com/samuelfneumann/qcontrol/initwfn"
	"github.com/samuelfneumann/qcontrol/perception"
	"github.com/samuelfneumann/qcontrol/reward"
	"github.com/samuelfneumann/qcontrol/utils/matutils/initializers/weights"
)

// Config represents a configuration of an experiment. Configs are
// JSON serializable.
type Config struct {
	Trainer   TrainerConfig
	Encoder   perception.Config
	Reward    reward.Config
	EnvConf   envconfig.Config
	AgentConf agent.TypedConfig

	// Init initializes the values of a new table. If nil, values are
	// initialized with small uniform noise.
	Init *initwfn.InitWFn `json:",omitempty"`

	// Table is the path of a previously saved table to continue
	// training from. If empty, a new table is created.
	Table string `json:",omitempty"`
}

// LoadConfig reads a Config from a JSON file
func LoadConfig(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("loadConfig: could not read config "+
			"file: %v", err)
	}

	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("loadConfig: could not unmarshal "+
			"config: %v", err)
	}
	return c, nil
}

// Validate returns an error describing whether or not the
// configuration is valid
func (c Config) Validate() error {
	if err := c.Trainer.Validate(); err != nil {
		return fmt.Errorf("validate: %v", err)
	}
	if err := c.EnvConf.Validate(); err != nil {
		return fmt.Errorf("validate: %v", err)
	}
	if c.AgentConf.Config == nil {
		return fmt.Errorf("validate: no agent configuration")
	}
	if err := c.AgentConf.Validate(); err != nil {
		return fmt.Errorf("validate: %v", err)
	}
	return nil
}

// Create creates the Trainer described by the Config. All sources of
// randomness are seeded with seed.
func (c Config) Create(seed uint64) (*Trainer, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}

	encoder, err := perception.NewEncoder(c.EnvConf.Encoder(c.Encoder))
	if err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}

	acc := reward.NewAccumulator()
	schedule, err := c.Reward.Create(acc)
	if err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}

	env, err := c.EnvConf.Create(encoder, schedule, seed)
	if err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}

	table, err := c.table(env.Actions(), encoder.StateCount(), seed)
	if err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}

	ag, err := c.AgentConf.CreateAgent(table, seed)
	if err != nil {
		return nil, fmt.Errorf("create: could not create agent: %v", err)
	}

	tc := c.Trainer
	tc.Schedule = ag
	return NewTrainer(env, encoder, table, ag, ag, acc, tc)
}

// table returns the table of action values to train
func (c Config) table(actions, states int, seed uint64) (*qtable.QTable,
	error) {
	if c.Table != "" {
		return qtable.Load(c.Table, actions, states)
	}

	var init weights.Initializer = weights.NewNoise(seed)
	if c.Init != nil {
		init = c.Init.Seeded(seed)
	}
	return qtable.New(actions, states, init)
}
