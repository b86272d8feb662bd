package track

import (
	"math"
	"testing"

	"github.com/samuelfneumann/qcontrol/environment"
	"github.com/samuelfneumann/qcontrol/perception"
	"github.com/samuelfneumann/qcontrol/reward"
	"gonum.org/v1/gonum/spatial/r1"
)

type recorder struct {
	events []reward.Event
}

func (r *recorder) Handle(e reward.Event) {
	r.events = append(r.events, e)
}

func (r *recorder) count(k reward.Kind) int {
	n := 0
	for _, e := range r.events {
		if e.Kind == k {
			n++
		}
	}
	return n
}

func newTrack(t *testing.T) (*Track, *perception.Encoder, *recorder) {
	encoder, err := perception.NewEncoder(perception.Config{
		RaySize:      6,
		HalfAngle:    30,
		Range:        20,
		Tags:         Tags(),
		ContextSizes: []int{DefaultGates + 1},
	})
	if err != nil {
		t.Fatal(err)
	}

	starter, err := environment.NewUniformStarter([]r1.Interval{
		{Min: 36, Max: 36},
		{Min: 7, Max: 7},
		{Min: 0, Max: 0},
	}, 0)
	if err != nil {
		t.Fatal(err)
	}

	sink := &recorder{}
	track, err := New(Config{}, encoder, sink, starter, 0)
	if err != nil {
		t.Fatal(err)
	}
	return track, encoder, sink
}

func TestSense(t *testing.T) {
	track, encoder, _ := newTrack(t)
	vocab := encoder.Vocabulary()

	obs := track.Sense()
	if len(obs.Rays) != 6 {
		t.Fatalf("sense: want(6) rays have(%v)", len(obs.Rays))
	}
	if len(obs.Context) != 1 || obs.Context[0] != 0 {
		t.Errorf("sense: want(context [0]) have(%v)", obs.Context)
	}

	if tag := obs.Rays[0].Tag; !obs.Rays[0].Hit || tag != vocab.Resolve(CheckPoint) {
		t.Errorf("forward ray: want(%v) have(%v)", CheckPoint, vocab.Name(tag))
	}
	for _, i := range []int{2, 3} {
		if tag := obs.Rays[i].Tag; tag != vocab.Resolve(Lawn) {
			t.Errorf("ray %d: want(%v) have(%v)", i, Lawn, vocab.Name(tag))
		}
	}

	if s := encoder.Encode(obs); s < 0 || s >= encoder.StateCount() {
		t.Errorf("encode: state %v out of range", s)
	}
	if len(track.Hits()) != 6 {
		t.Errorf("hits: want(6) have(%v)", len(track.Hits()))
	}
}

func TestGatePassedOnce(t *testing.T) {
	track, _, sink := newTrack(t)

	for i := 0; i < 150; i++ {
		track.Act(Accelerate)
	}

	if track.Passes() != 1 {
		t.Fatalf("passes: want(1) have(%v)", track.Passes())
	}
	if n := sink.count(reward.ProgressGate); n != 1 {
		t.Errorf("progress events: want(1) have(%v)", n)
	}
	if ctx := track.Sense().Context[0]; ctx != 1 {
		t.Errorf("context: want(1) have(%v)", ctx)
	}
	if track.Done() {
		t.Errorf("done: track should not end before a full lap")
	}

	track.ResetProgress()
	track.ResetAgent()
	if track.Passes() != 0 {
		t.Errorf("resetProgress: want(0) passes have(%v)", track.Passes())
	}

	pos := track.Agent().GetPosition()
	vel := track.Agent().GetLinearVelocity()
	if pos.X != 36 || pos.Y != 7 || math.Hypot(vel.X, vel.Y) != 0 {
		t.Errorf("resetAgent: want(36, 7) at rest have(%v, %v) moving at "+
			"%v", pos.X, pos.Y, vel)
	}

	// Gates are re-armed after a reset
	for i := 0; i < 150; i++ {
		track.Act(Accelerate)
	}
	if n := sink.count(reward.ProgressGate); n != 2 {
		t.Errorf("progress events: want(2) have(%v)", n)
	}
}

func TestAdvanceWithoutControl(t *testing.T) {
	track, _, _ := newTrack(t)
	for i := 0; i < 50; i++ {
		track.Advance()
	}

	pos := track.Agent().GetPosition()
	if pos.X != 36 || pos.Y != 7 {
		t.Errorf("advance: car at rest moved to (%v, %v)", pos.X, pos.Y)
	}
}

func TestIllegalAction(t *testing.T) {
	track, _, _ := newTrack(t)

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("act: expected panic on illegal action")
		}
	}()
	track.Act(NumActions)
}

func TestNewErrors(t *testing.T) {
	noFan, err := perception.NewEncoder(perception.Config{
		RaySize:   2,
		Tags:      Tags(),
		StateSize: 1,
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := New(Config{}, noFan, &recorder{}, nil, 0); err == nil {
		t.Errorf("new: expected error for encoder without fan")
	}
	if _, err := New(Config{Gates: -1}, noFan, &recorder{}, nil, 0); err == nil {
		t.Errorf("new: expected error for negative gates")
	}
}
