package envconfig

import (
	"encoding/json"
	"testing"

	"github.com/samuelfneumann/qcontrol/environment/box2d/meadow"
	"github.com/samuelfneumann/qcontrol/environment/box2d/track"
	"github.com/samuelfneumann/qcontrol/perception"
	"github.com/samuelfneumann/qcontrol/reward"
	"gonum.org/v1/gonum/spatial/r1"
)

func TestCreate(t *testing.T) {
	data := []byte(`[
		{"Environment": "Track", "Track": {"Gates": 4}},
		{"Environment": "Meadow", "Meadow": {"Flowers": 3, "Buckets": 5},
		 "Start": [{"Min": 5, "Max": 10}, {"Min": 5, "Max": 10},
		           {"Min": 0, "Max": 0}]}
	]`)

	var configs []Config
	if err := json.Unmarshal(data, &configs); err != nil {
		t.Fatal(err)
	}

	for _, c := range configs {
		if err := c.Validate(); err != nil {
			t.Fatalf("%v: %v", c.Environment, err)
		}

		encConfig := c.Encoder(perception.Config{
			RaySize:   6,
			HalfAngle: 30,
			Range:     15,
		})
		if encConfig.ContextSizes[0] != 5 {
			t.Errorf("%v: context: want([5]) have(%v)", c.Environment,
				encConfig.ContextSizes)
		}

		encoder, err := perception.NewEncoder(encConfig)
		if err != nil {
			t.Fatal(err)
		}

		sink, err := reward.NewSchedule(reward.NewAccumulator(), nil)
		if err != nil {
			t.Fatal(err)
		}

		env, err := c.Create(encoder, sink, 1)
		if err != nil {
			t.Fatalf("%v: %v", c.Environment, err)
		}
		if env.Actions() != 4 {
			t.Errorf("%v: actions: want(4) have(%v)", c.Environment,
				env.Actions())
		}

		obs := env.Sense()
		if s := encoder.Encode(obs); s < 0 || s >= encoder.StateCount() {
			t.Errorf("%v: state %v out of range", c.Environment, s)
		}
	}
}

func TestValidate(t *testing.T) {
	invalid := []Config{
		{Environment: "Gridworld"},
		{Environment: Track, Track: track.Config{Gates: -2}},
		{Environment: Meadow, Meadow: meadow.Config{Buckets: -1}},
		{Environment: Meadow, Start: make([]r1.Interval, 2)},
	}
	for _, c := range invalid {
		if err := c.Validate(); err == nil {
			t.Errorf("validate: expected error for %+v", c)
		}
	}
}
