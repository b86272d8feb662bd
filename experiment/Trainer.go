package experiment

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/samuelfneumann/qcontrol/agent"
	"github.com/samuelfneumann/qcontrol/agent/policy"
	"github.com/samuelfneumann/qcontrol/agent/qtable"
	"github.com/samuelfneumann/qcontrol/environment"
	"github.com/samuelfneumann/qcontrol/experiment/checkpointer"
	"github.com/samuelfneumann/qcontrol/experiment/tracker"
	"github.com/samuelfneumann/qcontrol/perception"
	"github.com/samuelfneumann/qcontrol/reward"
	ts "github.com/samuelfneumann/qcontrol/timestep"
)

const (
	DefaultTickInterval float64 = 1.0 / 50.0 // seconds
	DefaultSettleDelay  float64 = 1.0        // seconds

	// NoSettle disables settling when used as a SettleDelay
	NoSettle float64 = -1
)

// State is the lifecycle state of a Trainer
type State int

const (
	Idle State = iota
	Running
	Terminal
	Finished
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Running:
		return "Running"
	case Terminal:
		return "Terminal"
	case Finished:
		return "Finished"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// TrainerConfig configures the episode structure of a Trainer
type TrainerConfig struct {
	MaxStep int // steps per episode

	// EpisodeCount is the number of episodes to train for. If 0, the
	// Trainer never finishes and must be cancelled.
	EpisodeCount int

	// TickInterval is the simulated duration of a tick and SettleDelay
	// the duration the world is left to settle after an episode, both
	// in seconds. Defaults are used if 0. A negative SettleDelay, e.g.
	// NoSettle, resets the world on the tick after an episode ends
	// without advancing it.
	TickInterval float64
	SettleDelay  float64

	// RealTime paces Run at one tick per TickInterval of wall time,
	// otherwise Run ticks as fast as possible
	RealTime bool

	// Schedule gives the exploration rate of each episode
	Schedule policy.Schedule `json:"-"`
}

// Validate returns an error describing whether or not the
// configuration is valid
func (c TrainerConfig) Validate() error {
	if c.MaxStep <= 0 {
		return fmt.Errorf("validate: max step must be positive, have %d",
			c.MaxStep)
	}
	if c.EpisodeCount < 0 {
		return fmt.Errorf("validate: episode count must be non-negative, "+
			"have %d", c.EpisodeCount)
	}
	if c.TickInterval < 0 {
		return fmt.Errorf("validate: tick interval must be non-negative, "+
			"have %v", c.TickInterval)
	}
	return nil
}

// SettleTicks returns the number of ticks spent settling after each
// episode
func (c TrainerConfig) SettleTicks() int {
	interval, delay := c.TickInterval, c.SettleDelay
	if interval == 0 {
		interval = DefaultTickInterval
	}
	if delay < 0 {
		return 0
	} else if delay == 0 {
		delay = DefaultSettleDelay
	}

	// Tolerate representation error, e.g. 1.0 / 0.02
	return int(math.Ceil(delay/interval - 1e-9))
}

// Interval returns the wall time duration of a tick
func (c TrainerConfig) Interval() time.Duration {
	interval := c.TickInterval
	if interval == 0 {
		interval = DefaultTickInterval
	}
	return time.Duration(interval * float64(time.Second))
}

// EpisodeSummary summarizes a finished episode
type EpisodeSummary struct {
	Episode int
	Steps   int
	Return  float64
	Done    bool // whether the environment ended the episode early
}

// Trainer drives the interaction between a tabular agent and an
// environment. Each call to Tick advances the Trainer by one tick:
// while Running, the agent acts and learns from the reward its action
// produced. When an episode ends, the Trainer
// spends a number of Terminal ticks letting the world settle before
// resetting it and starting the next episode.
//
// A Trainer is not safe for concurrent use. Independent Trainers
// should each own their own table and accumulator.
type Trainer struct {
	env      environment.Environment
	encoder  *perception.Encoder
	table    *qtable.QTable
	learner  agent.Learner
	policy   agent.Policy
	acc      *reward.Accumulator
	schedule policy.Schedule

	stepLimit     environment.Ender
	doneEnder     environment.Ender
	trackers      []tracker.Tracker
	checkpointers []checkpointer.Checkpointer
	onEpisode     []func(EpisodeSummary)

	maxStep      int
	episodeCount int
	settleTicks  int
	interval     time.Duration
	realTime     bool

	state    State
	step     int
	episode  int
	settle   int
	current  int // encoded state the agent acts from
	ret      float64
	lastDone bool
}

// NewTrainer returns a new Trainer. The table must be indexed by the
// encoder's states and the environment's actions, and the learner and
// policy must both operate on it. Rewards are drained from acc, which
// the environment's events should be reported to.
func NewTrainer(env environment.Environment, encoder *perception.Encoder,
	table *qtable.QTable, learner agent.Learner, pol agent.Policy,
	acc *reward.Accumulator, c TrainerConfig) (*Trainer, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("newTrainer: %v", err)
	}
	if env == nil || encoder == nil || table == nil || learner == nil ||
		pol == nil || acc == nil {
		return nil, fmt.Errorf("newTrainer: all collaborators must be non-nil")
	}

	actions, states := table.Dims()
	if states != encoder.StateCount() {
		return nil, fmt.Errorf("newTrainer: table has %d states but encoder "+
			"produces %d", states, encoder.StateCount())
	}
	if actions != env.Actions() {
		return nil, fmt.Errorf("newTrainer: table has %d actions but "+
			"environment has %d", actions, env.Actions())
	}

	schedule := c.Schedule
	if schedule == nil {
		return nil, fmt.Errorf("newTrainer: no exploration schedule")
	}

	return &Trainer{
		env:          env,
		encoder:      encoder,
		table:        table,
		learner:      learner,
		policy:       pol,
		acc:          acc,
		schedule:     schedule,
		stepLimit:    environment.NewStepLimit(c.MaxStep),
		doneEnder:    environment.NewFunctionEnder(env.Done),
		maxStep:      c.MaxStep,
		episodeCount: c.EpisodeCount,
		settleTicks:  c.SettleTicks(),
		interval:     c.Interval(),
		realTime:     c.RealTime,
		state:        Idle,
	}, nil
}

// Register adds a new tracker.Tracker to the (possibly already
// running) Trainer
func (t *Trainer) Register(tr tracker.Tracker) {
	t.trackers = append(t.trackers, tr)
}

// RegisterCheckpointer adds a new checkpointer.Checkpointer to the
// Trainer
func (t *Trainer) RegisterCheckpointer(c checkpointer.Checkpointer) {
	t.checkpointers = append(t.checkpointers, c)
}

// OnEpisode registers a function called with the summary of each
// finished episode
func (t *Trainer) OnEpisode(f func(EpisodeSummary)) {
	t.onEpisode = append(t.onEpisode, f)
}

// Tick advances the Trainer by a single tick. Ticking a Finished
// Trainer does nothing.
func (t *Trainer) Tick() error {
	switch t.state {
	case Idle:
		t.begin()
		t.state = Running
		return t.run()

	case Running:
		return t.run()

	case Terminal:
		return t.terminal()
	}
	return nil
}

// begin starts a new episode from the current pose of the agent
func (t *Trainer) begin() {
	t.current = t.encoder.Encode(t.env.Sense())
	t.ret = 0

	first := ts.New(ts.First, 0, t.current, 0)
	t.learner.ObserveFirst(first)
	t.track(first)
}

// run performs a single learning step
func (t *Trainer) run() error {
	epsilon := t.schedule.Epsilon(t.episode)
	action := t.policy.SelectAction(t.current, epsilon)

	// Act steps the world synchronously, so the events it fires belong
	// to this transition. The tick boundary is the end of Act.
	t.env.Act(action)
	r := t.acc.SnapshotAndReset()
	next := t.encoder.Encode(t.env.Sense())

	t.step++
	step := ts.New(ts.Mid, r, next, t.step)
	t.lastDone = t.doneEnder.End(&step)
	t.stepLimit.End(&step)

	t.learner.Observe(action, step)
	if err := t.learner.Step(); err != nil {
		return fmt.Errorf("tick: could not update learner: %v", err)
	}

	t.ret += r
	t.current = next
	t.track(step)

	if step.Last() {
		if err := t.checkpoint(step); err != nil {
			return fmt.Errorf("tick: %v", err)
		}
		t.state = Terminal
		t.settle = t.settleTicks
	}
	return nil
}

// terminal performs a single settling tick, resetting the environment
// and episode once settling is complete
func (t *Trainer) terminal() error {
	if t.settle > 0 {
		t.env.Advance()
		t.settle--
		if t.settle > 0 {
			return nil
		}
	}

	summary := EpisodeSummary{
		Episode: t.episode,
		Steps:   t.step,
		Return:  t.ret,
		Done:    t.lastDone,
	}

	t.env.ResetAgent()
	t.env.ResetProgress()
	t.acc.Reset()
	t.step = 0
	t.episode++

	for _, f := range t.onEpisode {
		f(summary)
	}

	if t.episodeCount > 0 && t.episode >= t.episodeCount {
		t.state = Finished
		return nil
	}

	t.begin()
	t.state = Running
	return nil
}

// Run ticks the Trainer until it is Finished or ctx is cancelled. If
// the Trainer was configured to run in real time, ticks are paced at
// the tick interval.
func (t *Trainer) Run(ctx context.Context) error {
	var pace <-chan time.Time
	if t.realTime {
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()
		pace = ticker.C
	}

	for t.state != Finished {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := t.Tick(); err != nil {
			return fmt.Errorf("run: %v", err)
		}

		if pace != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-pace:
			}
		}
	}
	return nil
}

// track sends a TimeStep to all registered Trackers
func (t *Trainer) track(step ts.TimeStep) {
	for _, tr := range t.trackers {
		tr.Track(step)
	}
}

// checkpoint sends a TimeStep to all registered Checkpointers
func (t *Trainer) checkpoint(step ts.TimeStep) error {
	for _, c := range t.checkpointers {
		if err := c.Checkpoint(step); err != nil {
			return fmt.Errorf("checkpoint: %v", err)
		}
	}
	return nil
}

// Save saves all tracked data to disk
func (t *Trainer) Save() error {
	for _, tr := range t.trackers {
		if err := tr.Save(); err != nil {
			return fmt.Errorf("save: %v", err)
		}
	}
	return nil
}

// State returns the lifecycle state of the Trainer
func (t *Trainer) State() State {
	return t.state
}

// CurrentStep returns the number of steps taken in the current episode
func (t *Trainer) CurrentStep() int {
	return t.step
}

// CurrentEpisode returns the index of the current episode, or the
// number of finished episodes once the Trainer is Finished
func (t *Trainer) CurrentEpisode() int {
	return t.episode
}

// Table returns the table of action values being learned
func (t *Trainer) Table() *qtable.QTable {
	return t.table
}

// Environment returns the environment the agent is trained in
func (t *Trainer) Environment() environment.Environment {
	return t.env
}
