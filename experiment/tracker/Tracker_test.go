package tracker

import (
	"path/filepath"
	"testing"

	"github.com/samuelfneumann/qcontrol/timestep"
)

func episode(rewards []float64) []timestep.TimeStep {
	steps := []timestep.TimeStep{timestep.New(timestep.First, 0, 0, 0)}
	for i, r := range rewards {
		t := timestep.Mid
		if i == len(rewards)-1 {
			t = timestep.Last
		}
		steps = append(steps, timestep.New(t, r, 0, i+1))
	}
	return steps
}

func TestReturnAndLength(t *testing.T) {
	dir := t.TempDir()
	ret := NewReturn(filepath.Join(dir, "return.bin"))
	length := NewEpisodeLength(filepath.Join(dir, "length.bin"))

	for _, rewards := range [][]float64{{1, 2, 3}, {-1, 0.5}} {
		for _, step := range episode(rewards) {
			ret.Track(step)
			length.Track(step)
		}
	}

	if err := ret.Save(); err != nil {
		t.Fatal(err)
	}
	if err := length.Save(); err != nil {
		t.Fatal(err)
	}

	returns, err := LoadData(filepath.Join(dir, "return.bin"))
	if err != nil {
		t.Fatal(err)
	}
	if len(returns) != 2 || returns[0] != 6 || returns[1] != -0.5 {
		t.Errorf("returns: want([6 -0.5]) have(%v)", returns)
	}

	lengths, err := LoadLengths(filepath.Join(dir, "length.bin"))
	if err != nil {
		t.Fatal(err)
	}
	if len(lengths) != 2 || lengths[0] != 3 || lengths[1] != 2 {
		t.Errorf("lengths: want([3 2]) have(%v)", lengths)
	}
}

func TestReturnNonSequential(t *testing.T) {
	ret := NewReturn("")
	ret.Track(timestep.New(timestep.First, 0, 0, 0))

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("track: expected panic on non-sequential timesteps")
		}
	}()
	ret.Track(timestep.New(timestep.Mid, 0, 0, 5))
}
