package environment

import (
	"math"
	"testing"

	"github.com/samuelfneumann/qcontrol/timestep"
	"gonum.org/v1/gonum/spatial/r1"
)

func TestUniformStarter(t *testing.T) {
	bounds := []r1.Interval{{Min: 1, Max: 2}, {Min: 5, Max: 5},
		{Min: -math.Pi, Max: math.Pi}}
	s, err := NewUniformStarter(bounds, 3)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 100; i++ {
		p := s.Start()
		if p.X < 1 || p.X > 2 || p.Y != 5 || math.Abs(p.Angle) > math.Pi {
			t.Fatalf("start: pose %+v outside bounds", p)
		}
	}

	if _, err := NewUniformStarter(bounds[:2], 3); err == nil {
		t.Errorf("newUniformStarter: expected error on 2 bounds")
	}
}

func TestCategoricalStarter(t *testing.T) {
	poses := []Pose{{X: 1}, {X: 2}, {X: 3}}
	s, err := NewCategoricalStarter(poses, 17)
	if err != nil {
		t.Fatal(err)
	}

	seen := make(map[float64]bool)
	for i := 0; i < 300; i++ {
		seen[s.Start().X] = true
	}
	if len(seen) != len(poses) {
		t.Errorf("start: want(%v) distinct poses have(%v)", len(poses),
			len(seen))
	}

	if _, err := NewCategoricalStarter(nil, 0); err == nil {
		t.Errorf("newCategoricalStarter: expected error on empty poses")
	}
}

func TestEnders(t *testing.T) {
	limit := NewStepLimit(3)
	step := timestep.New(timestep.Mid, 0, 0, 2)
	if limit.End(&step) || step.Last() {
		t.Errorf("stepLimit: ended before limit")
	}
	step.Number = 3
	if !limit.End(&step) || !step.Last() {
		t.Errorf("stepLimit: did not end at limit")
	}

	done := false
	ender := NewFunctionEnder(func() bool { return done })
	step = timestep.New(timestep.Mid, 0, 0, 1)
	if ender.End(&step) {
		t.Errorf("functionEnder: ended early")
	}
	done = true
	if !ender.End(&step) || !step.Last() {
		t.Errorf("functionEnder: did not end")
	}
}
