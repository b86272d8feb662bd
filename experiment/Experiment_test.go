package experiment

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/samuelfneumann/qcontrol/agent/qtable"
	"gonum.org/v1/gonum/mat"
)

const shortTrack = `{
	"Trainer": {"MaxStep": 20, "EpisodeCount": 2, "SettleDelay": 0.1},
	"Encoder": {"RaySize": 6, "HalfAngle": 30, "Range": 20},
	"EnvConf": {"Environment": "Track", "Track": {"Gates": 4}},
	"AgentConf": {
		"Type": "EGreedyQLearning",
		"Config": {"LearningRate": 0.1, "Discount": 0.9, "Epsilon": 0.5}
	},
	"Init": {"Type": "Constant", "Config": {"Value": 0.5}}
}`

func TestLoadConfig(t *testing.T) {
	for _, name := range []string{"track.json", "meadow.json"} {
		c, err := LoadConfig(filepath.Join("..", "configs", name))
		if err != nil {
			t.Fatalf("%v: %v", name, err)
		}
		if err := c.Validate(); err != nil {
			t.Errorf("%v: %v", name, err)
		}

		trainer, err := c.Create(1)
		if err != nil {
			t.Fatalf("%v: %v", name, err)
		}
		for i := 0; i < 10; i++ {
			if err := trainer.Tick(); err != nil {
				t.Fatalf("%v: %v", name, err)
			}
		}
		if trainer.CurrentStep() != 10 {
			t.Errorf("%v: step: want(10) have(%v)", name, trainer.CurrentStep())
		}
	}
}

func TestCreateAndRun(t *testing.T) {
	var c Config
	if err := json.Unmarshal([]byte(shortTrack), &c); err != nil {
		t.Fatal(err)
	}

	trainer, err := c.Create(7)
	if err != nil {
		t.Fatal(err)
	}

	actions, states := trainer.Table().Dims()
	if actions != 4 || states != 4096*5 {
		t.Errorf("dims: want(4, %v) have(%v, %v)", 4096*5, actions, states)
	}

	if err := trainer.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if trainer.State() != Finished {
		t.Errorf("state: want(%v) have(%v)", Finished, trainer.State())
	}

	// Continue training from a saved table
	filename := filepath.Join(t.TempDir(), "qtable.bin")
	if err := trainer.Table().Save(filename); err != nil {
		t.Fatal(err)
	}

	c.Table = filename
	resumed, err := c.Create(7)
	if err != nil {
		t.Fatal(err)
	}
	if v, want := resumed.Table().Value(0, 0), trainer.Table().Value(0, 0); v != want {
		t.Errorf("resume: want(%v) have(%v)", want, v)
	}

	// Tables of a different shape cannot be resumed from
	other, err := qtable.New(4, 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := other.Save(filename); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Create(7); err == nil {
		t.Errorf("create: expected error on incompatible table")
	}
}

// TestCreateSeeded checks that a seed reproduces a run, including a
// table initialized from the configuration
func TestCreateSeeded(t *testing.T) {
	c, err := LoadConfig(filepath.Join("..", "configs", "meadow.json"))
	if err != nil {
		t.Fatal(err)
	}
	if c.Init == nil {
		t.Fatal("meadow.json: want an initializer configuration")
	}

	run := func(seed uint64) *mat.Dense {
		trainer, err := c.Create(seed)
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 50; i++ {
			if err := trainer.Tick(); err != nil {
				t.Fatal(err)
			}
		}
		return trainer.Table().Matrix()
	}

	a, b := run(7), run(7)
	if !mat.Equal(a, b) {
		t.Errorf("create: same seed produced different tables")
	}
	if mat.Equal(a, run(8)) {
		t.Errorf("create: different seeds produced equal tables")
	}
}

func TestConfigErrors(t *testing.T) {
	var c Config
	if err := json.Unmarshal([]byte(shortTrack), &c); err != nil {
		t.Fatal(err)
	}

	noAgent := c
	noAgent.AgentConf.Config = nil

	badTrainer := c
	badTrainer.Trainer.MaxStep = 0

	badEnv := c
	badEnv.EnvConf.Environment = "Maze"

	badEncoder := c
	badEncoder.Encoder.RaySize = 5

	tests := map[string]Config{
		"agent":   noAgent,
		"trainer": badTrainer,
		"env":     badEnv,
		"encoder": badEncoder,
	}
	for name, config := range tests {
		if _, err := config.Create(1); err == nil {
			t.Errorf("%v: expected configuration error", name)
		}
	}
}
