package intutils

import "testing"

func TestClip(t *testing.T) {
	tests := []struct {
		value, min, max, want int
	}{
		{5, 0, 7, 5},
		{-3, 0, 7, 0},
		{12, 0, 7, 7},
		{0, 0, 0, 0},
	}

	for _, test := range tests {
		if have := Clip(test.value, test.min, test.max); have != test.want {
			t.Errorf("clip(%v, %v, %v): want(%v) have(%v)", test.value,
				test.min, test.max, test.want, have)
		}
	}
}

func TestPow(t *testing.T) {
	if p := Pow(4, 6); p != 4096 {
		t.Errorf("pow: want(4096) have(%v)", p)
	}
	if p := Pow(9, 0); p != 1 {
		t.Errorf("pow: want(1) have(%v)", p)
	}
}
