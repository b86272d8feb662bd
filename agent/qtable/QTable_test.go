package qtable

import (
	"path/filepath"
	"testing"

	"github.com/samuelfneumann/qcontrol/utils/matutils/initializers/weights"
	"gonum.org/v1/gonum/mat"
)

func TestNewDims(t *testing.T) {
	q, err := New(4, 32768, nil)
	if err != nil {
		t.Fatal(err)
	}

	if a, s := q.Dims(); a != 4 || s != 32768 {
		t.Errorf("dims: want(4, 32768) have(%v, %v)", a, s)
	}

	for _, dims := range [][2]int{{0, 5}, {5, 0}, {-1, 3}} {
		if _, err := New(dims[0], dims[1], nil); err == nil {
			t.Errorf("new: expected error for dims %v", dims)
		}
	}
}

func TestNoiseInitialization(t *testing.T) {
	q, err := New(4, 100, weights.NewNoise(3))
	if err != nil {
		t.Fatal(err)
	}

	nonZero := false
	for s := 0; s < 100; s++ {
		for a := 0; a < 4; a++ {
			v := q.Value(s, a)
			if v < -weights.DefaultNoise || v > weights.DefaultNoise {
				t.Fatalf("value(%v, %v): %v outside [-%v, %v]", s, a, v,
					weights.DefaultNoise, weights.DefaultNoise)
			}
			nonZero = nonZero || v != 0
		}
	}
	if !nonZero {
		t.Errorf("new: noise initialization produced an all-zero table")
	}
}

func TestUpdate(t *testing.T) {
	q, _ := New(3, 5, nil)
	q.Update(4, 2, 1.5)

	if v := q.Value(4, 2); v != 1.5 {
		t.Errorf("value: want(1.5) have(%v)", v)
	}
	if v := q.Value(4, 1); v != 0 {
		t.Errorf("value: unrelated cell modified: have(%v)", v)
	}
}

func TestBestActionTies(t *testing.T) {
	q, _ := New(4, 2, nil)

	// All equal
	if a, v := q.BestAction(0); a != 0 || v != 0 {
		t.Errorf("bestAction: want(0, 0) have(%v, %v)", a, v)
	}

	q.Update(1, 2, 0.7)
	q.Update(1, 3, 0.7)
	if a, v := q.BestAction(1); a != 2 || v != 0.7 {
		t.Errorf("bestAction: want(2, 0.7) have(%v, %v)", a, v)
	}

	q.Update(1, 0, -3)
	q.Update(1, 3, 0.8)
	if a := q.MaxValue(1); a != 0.8 {
		t.Errorf("maxValue: want(0.8) have(%v)", a)
	}
}

func TestSaveLoad(t *testing.T) {
	q, err := New(4, 64, weights.NewNoise(11))
	if err != nil {
		t.Fatal(err)
	}
	q.Update(17, 3, 42)

	filename := filepath.Join(t.TempDir(), "table.bin")
	if err := q.Save(filename); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(filename, 4, 64)
	if err != nil {
		t.Fatal(err)
	}

	if !mat.Equal(q.Matrix(), loaded.Matrix()) {
		t.Errorf("load: loaded table differs from saved table")
	}
	if v := loaded.Value(17, 3); v != 42 {
		t.Errorf("value: want(42) have(%v)", v)
	}
}

func TestLoadIncompatible(t *testing.T) {
	q, _ := New(4, 64, nil)

	filename := filepath.Join(t.TempDir(), "table.bin")
	if err := q.Save(filename); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(filename, 4, 128); err == nil {
		t.Errorf("load: expected error on state count mismatch")
	}
	if _, err := Load(filename, 3, 64); err == nil {
		t.Errorf("load: expected error on action count mismatch")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing"), 4, 64); err == nil {
		t.Errorf("load: expected error on missing file")
	}
}

func BenchmarkBestAction(b *testing.B) {
	q, _ := New(4, 32768, weights.NewNoise(1))
	for i := 0; i < b.N; i++ {
		q.BestAction(i % 32768)
	}
}
