package reward

import (
	"fmt"
)

// Kind is a kind of reward-bearing event
type Kind int

const (
	// ProgressGate is fired when the agent passes a checkpoint for the
	// first time in an episode
	ProgressGate Kind = iota

	// OffTrack is fired on every tick the agent spends off the track
	OffTrack

	// Boundary is fired when the agent touches a boundary or fence
	Boundary

	// Goal is fired when the agent completes the task
	Goal

	// Nectar is fired for each unit of nectar the agent drinks
	Nectar

	// Alignment is fired with each sip of nectar, weighted by how well
	// the agent faces into the nearest flower
	Alignment
)

var kindNames = map[Kind]string{
	ProgressGate: "ProgressGate",
	OffTrack:     "OffTrack",
	Boundary:     "Boundary",
	Goal:         "Goal",
	Nectar:       "Nectar",
	Alignment:    "Alignment",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText implements the encoding.TextMarshaler interface
func (k Kind) MarshalText() ([]byte, error) {
	name, ok := kindNames[k]
	if !ok {
		return nil, fmt.Errorf("marshalText: unknown event kind %d", int(k))
	}
	return []byte(name), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface
func (k *Kind) UnmarshalText(text []byte) error {
	for kind, name := range kindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unmarshalText: unknown event kind %q", text)
}

// Event is a single reward-bearing event. The reward of the event is
// the magnitude of its Kind scaled by Weight, e.g. the amount of nectar
// drunk.
type Event struct {
	Kind   Kind
	Weight float64
}

// Sink receives reward-bearing events from an environment
type Sink interface {
	Handle(Event)
}

// Schedule maps event kinds to reward magnitudes and adds the reward of
// each handled event to an Accumulator. Schedule implements Sink.
type Schedule struct {
	magnitudes map[Kind]float64
	acc        *Accumulator
}

// DefaultMagnitudes returns the default reward magnitude of each event
// kind
func DefaultMagnitudes() map[Kind]float64 {
	return map[Kind]float64{
		ProgressGate: 10,
		OffTrack:     -0.5,
		Boundary:     -2,
		Goal:         100,
		Nectar:       0.01,
		Alignment:    0.02,
	}
}

// NewSchedule returns a new Schedule which adds rewards to acc.
// Magnitudes override the defaults of DefaultMagnitudes.
func NewSchedule(acc *Accumulator, magnitudes map[Kind]float64) (*Schedule,
	error) {
	if acc == nil {
		return nil, fmt.Errorf("newSchedule: accumulator cannot be nil")
	}

	m := DefaultMagnitudes()
	for kind, magnitude := range magnitudes {
		if _, ok := kindNames[kind]; !ok {
			return nil, fmt.Errorf("newSchedule: unknown event kind %v", kind)
		}
		m[kind] = magnitude
	}

	return &Schedule{magnitudes: m, acc: acc}, nil
}

// Handle adds the reward of an event to the accumulator
func (s *Schedule) Handle(e Event) {
	s.acc.Add(s.magnitudes[e.Kind] * e.Weight)
}

// Magnitude returns the reward magnitude of an event kind
func (s *Schedule) Magnitude(k Kind) float64 {
	return s.magnitudes[k]
}

// Accumulator returns the accumulator that rewards are added to
func (s *Schedule) Accumulator() *Accumulator {
	return s.acc
}

// Config is a JSON serializable reward configuration. Magnitudes are
// keyed by event kind name, e.g. {"Boundary": -2}.
type Config struct {
	Magnitudes map[Kind]float64
}

// Create returns the Schedule described by the Config
func (c Config) Create(acc *Accumulator) (*Schedule, error) {
	return NewSchedule(acc, c.Magnitudes)
}
