// Package reward implements the accumulation of shaped rewards between
// learning updates.
//
// Environments report reward-bearing events (passing a checkpoint,
// touching a boundary, drinking nectar) to a Sink as they happen. The
// Accumulator collects these events and the training loop drains it
// once per tick, so that every event is attributed to exactly one
// update.
package reward

import (
	"fmt"
	"sync"
)

// Accumulator is a running sum of rewards. Callbacks may Add from any
// goroutine; SnapshotAndReset reads and clears the sum as a single
// step, so that no reward is lost or counted twice.
type Accumulator struct {
	mu    sync.Mutex
	value float64
}

// NewAccumulator returns a new, empty Accumulator
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Add adds delta to the running sum
func (a *Accumulator) Add(delta float64) {
	a.mu.Lock()
	a.value += delta
	a.mu.Unlock()
}

// SnapshotAndReset returns the running sum and resets it to 0
func (a *Accumulator) SnapshotAndReset() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	v := a.value
	a.value = 0
	return v
}

// Value returns the running sum without resetting it
func (a *Accumulator) Value() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.value
}

// Reset discards the running sum
func (a *Accumulator) Reset() {
	a.mu.Lock()
	a.value = 0
	a.mu.Unlock()
}

// String implements the fmt.Stringer interface
func (a *Accumulator) String() string {
	return fmt.Sprintf("Accumulator | Value: %.4f", a.Value())
}
