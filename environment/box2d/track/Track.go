// Package track provides a top-down racing track environment simulated
// with Box2D.
//
// The track is an oval corridor between an outer fence and an infield
// fence. Lawn strips line both fences, and driving on the lawn is
// penalized on every tick. Checkpoint gates span the corridor; each
// gate rewards the car the first time it is passed in an episode.
package track

import (
	"fmt"
	"math"

	"github.com/ByteArena/box2d"
	"github.com/samuelfneumann/qcontrol/environment"
	"github.com/samuelfneumann/qcontrol/environment/box2d/box2dutils"
	"github.com/samuelfneumann/qcontrol/perception"
	"github.com/samuelfneumann/qcontrol/reward"
	"github.com/samuelfneumann/qcontrol/utils/floatutils"
)

const (
	FPS float64 = 50

	// Dimensions of the world in Box2D units
	Width  float64 = 80.0
	Height float64 = 50.0

	// Half-widths of the infield fence and the width of the corridor
	// between the infield fence and the outer fence
	InfieldW float64 = 26.0
	InfieldH float64 = 11.0
	LawnW    float64 = 3.0

	CarHalfLength float64 = 1.2
	CarHalfWidth  float64 = 0.6

	// Car handling
	MaxSpeed     float64 = 15.0
	AngularSpeed float64 = 3.0
	Acceleration float64 = 8.0
	Deceleration float64 = 0.5

	DefaultGates int = 8

	velocityIterations int = 6
	positionIterations int = 2
)

// Actions
const (
	Accelerate int = iota
	Reverse
	TurnLeft
	TurnRight
	NumActions
)

// Surface names
const (
	Fence      string = "Fence"
	Lawn       string = "Lawn"
	CheckPoint string = "CheckPoint"
)

// Tags returns the default tag vocabulary of the track, in the order
// used by the default encoder configuration
func Tags() []string {
	return []string{CheckPoint, Lawn, Fence}
}

// Config describes the configuration of a track
type Config struct {
	// Gates is the number of checkpoint gates, DefaultGates if 0
	Gates int

	// EndOnLap ends the episode once every gate has been passed
	EndOnLap bool
}

// Validate returns an error describing whether or not the
// configuration is valid
func (c Config) Validate() error {
	if c.Gates < 0 {
		return fmt.Errorf("validate: number of gates must be non-negative, "+
			"have %d", c.Gates)
	}
	return nil
}

func (c Config) gates() int {
	if c.Gates == 0 {
		return DefaultGates
	}
	return c.Gates
}

// Track is a Box2D racing track. Track implements the
// environment.Environment interface.
type Track struct {
	world box2d.B2World
	car   *box2d.B2Body
	sink  reward.Sink

	vocab   *perception.Vocabulary
	fan     *perception.Fan
	starter environment.Starter

	fences []*box2d.B2Body
	lawns  []*box2d.B2Body
	gates  []*box2d.B2Body

	passed   []bool
	passes   int
	onLawn   int
	endOnLap bool
	hits     []box2dutils.Hit
}

// New returns a new Track. Rays are cast and surfaces are tagged
// according to encoder. Reward-bearing events are reported to sink.
// If starter is nil, the car starts in one of three grid slots on the
// bottom straight.
func New(c Config, encoder *perception.Encoder, sink reward.Sink,
	starter environment.Starter, seed uint64) (*Track, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}
	if encoder == nil || encoder.Fan() == nil {
		return nil, fmt.Errorf("new: encoder must have a ray fan")
	}
	if sink == nil {
		return nil, fmt.Errorf("new: reward sink cannot be nil")
	}

	if starter == nil {
		var err error
		starter, err = environment.NewCategoricalStarter(GridSlots(), seed)
		if err != nil {
			return nil, fmt.Errorf("new: %v", err)
		}
	}

	t := &Track{
		world:    box2d.MakeB2World(box2d.B2Vec2{X: 0, Y: 0}),
		sink:     sink,
		vocab:    encoder.Vocabulary(),
		fan:      encoder.Fan(),
		starter:  starter,
		endOnLap: c.EndOnLap,
	}
	t.world.SetContactListener(newContactDetector(t))

	t.buildFences()
	t.buildLawns()
	t.buildGates(c.gates())
	t.buildCar()

	t.ResetAgent()
	return t, nil
}

// GridSlots returns the starting grid of the track
func GridSlots() []environment.Pose {
	y := Height/2 - InfieldH - (Height/2-InfieldH)/2
	return []environment.Pose{
		{X: Width/2 - 8, Y: y, Angle: 0},
		{X: Width/2 - 4, Y: y, Angle: 0},
		{X: Width / 2, Y: y, Angle: 0},
	}
}

// rectangle returns the corners of an axis-aligned rectangle centred
// in the world, in counter-clockwise order
func rectangle(hw, hh float64) []box2d.B2Vec2 {
	cx, cy := Width/2, Height/2
	return []box2d.B2Vec2{
		box2d.MakeB2Vec2(cx-hw, cy-hh),
		box2d.MakeB2Vec2(cx+hw, cy-hh),
		box2d.MakeB2Vec2(cx+hw, cy+hh),
		box2d.MakeB2Vec2(cx-hw, cy+hh),
	}
}

func (t *Track) buildFences() {
	for _, corners := range [][]box2d.B2Vec2{
		rectangle(Width/2, Height/2),
		rectangle(InfieldW, InfieldH),
	} {
		for i := range corners {
			v1, v2 := corners[i], corners[(i+1)%len(corners)]
			surface := box2dutils.NewSurface(Fence, len(t.fences), t.vocab)
			t.fences = append(t.fences,
				box2dutils.NewEdge(&t.world, v1, v2, surface, false))
		}
	}
}

func (t *Track) buildLawns() {
	type strip struct{ x, y, hx, hy float64 }
	strips := []strip{
		// Outer strips
		{Width / 2, LawnW / 2, Width / 2, LawnW / 2},
		{Width / 2, Height - LawnW/2, Width / 2, LawnW / 2},
		{LawnW / 2, Height / 2, LawnW / 2, Height/2 - LawnW},
		{Width - LawnW/2, Height / 2, LawnW / 2, Height/2 - LawnW},

		// Infield lawn, enclosing the infield fence
		{Width / 2, Height / 2, InfieldW + LawnW, InfieldH + LawnW},
	}

	for i, s := range strips {
		surface := box2dutils.NewSurface(Lawn, i, t.vocab)
		t.lawns = append(t.lawns, box2dutils.NewBox(&t.world,
			box2d.MakeB2Vec2(s.x, s.y), s.hx, s.hy, surface, true))
	}
}

// buildGates places gates at equal angular intervals around the centre
// of the track, each spanning the corridor from the infield fence to
// the outer fence. The first gate lies half an interval ahead of the
// starting grid.
func (t *Track) buildGates(n int) {
	t.passed = make([]bool, n)
	for k := 0; k < n; k++ {
		theta := -math.Pi/2 + 2*math.Pi*(float64(k)+0.5)/float64(n)
		inner := rayToRectangle(theta, InfieldW, InfieldH)
		outer := rayToRectangle(theta, Width/2, Height/2)

		surface := box2dutils.NewSurface(CheckPoint, k, t.vocab)
		t.gates = append(t.gates,
			box2dutils.NewEdge(&t.world, inner, outer, surface, true))
	}
}

// rayToRectangle returns the point at which a ray from the centre of
// the world at angle theta leaves the centred rectangle of half-widths
// hw and hh
func rayToRectangle(theta, hw, hh float64) box2d.B2Vec2 {
	dx, dy := math.Cos(theta), math.Sin(theta)
	dist := math.Inf(1)
	if math.Abs(dx) > 1e-12 {
		dist = hw / math.Abs(dx)
	}
	if math.Abs(dy) > 1e-12 {
		dist = math.Min(dist, hh/math.Abs(dy))
	}
	return box2d.MakeB2Vec2(Width/2+dx*dist, Height/2+dy*dist)
}

func (t *Track) buildCar() {
	def := box2d.MakeB2BodyDef()
	def.Type = box2dutils.DynamicBody
	def.AngularDamping = 2.0
	t.car = t.world.CreateBody(&def)

	shape := box2d.NewB2PolygonShape()
	shape.SetAsBox(CarHalfLength, CarHalfWidth)

	fix := box2d.MakeB2FixtureDef()
	fix.Shape = shape
	fix.Density = 1.0
	fix.Friction = 0.1
	fix.Restitution = 0.1
	t.car.CreateFixtureFromDef(&fix)
}

// Sense casts the ray fan from the car. The context of the observation
// is the number of gates passed in the current episode.
func (t *Track) Sense() perception.Observation {
	t.hits = box2dutils.CastFan(&t.world, t.car, t.fan)
	return perception.Observation{
		Rays:    box2dutils.Readings(t.hits),
		Context: []int{t.passes},
	}
}

// Act applies an action for a single tick and advances the world
func (t *Track) Act(action int) {
	switch action {
	case Accelerate:
		t.accelerate(1.0)
	case Reverse:
		t.accelerate(-1.0)
	case TurnLeft:
		t.accelerate(0.0)
		t.turn(1.0)
	case TurnRight:
		t.accelerate(0.0)
		t.turn(-1.0)
	default:
		panic(fmt.Sprintf("act: illegal action %d", action))
	}
	t.step()
}

// Advance advances the world a single tick without applying any
// action
func (t *Track) Advance() {
	t.step()
}

func (t *Track) step() {
	t.world.Step(1.0/FPS, velocityIterations, positionIterations)

	if t.onLawn > 0 {
		t.sink.Handle(reward.Event{Kind: reward.OffTrack, Weight: 1})
	}
}

// forward returns the unit heading of the car
func (t *Track) forward() box2d.B2Vec2 {
	angle := t.car.GetAngle()
	return box2d.MakeB2Vec2(math.Cos(angle), math.Sin(angle))
}

// accelerate applies a driving force of rate * Acceleration along the
// heading of the car. Velocity is kept aligned with the heading, and
// the car slows down when no force is applied.
func (t *Track) accelerate(rate float64) {
	f := t.forward()
	vel := t.car.GetLinearVelocity()
	along := vel.X*f.X + vel.Y*f.Y
	speed := math.Hypot(vel.X, vel.Y)
	dir := floatutils.Sign(along)

	t.car.SetLinearVelocity(box2d.MakeB2Vec2(dir*speed*f.X, dir*speed*f.Y))

	mass := t.car.GetMass()
	force := Acceleration * rate * mass
	t.car.ApplyForceToCenter(box2d.MakeB2Vec2(force*f.X, force*f.Y), true)

	if speed > MaxSpeed {
		t.car.SetLinearVelocity(box2d.MakeB2Vec2(dir*MaxSpeed*f.X,
			dir*MaxSpeed*f.Y))
	} else if math.Abs(rate) < 1e-12 {
		brake := -dir * (speed / MaxSpeed) * Acceleration * Deceleration * mass
		t.car.ApplyForceToCenter(box2d.MakeB2Vec2(brake*f.X, brake*f.Y), true)
	}
}

// turn rotates the car at rate * AngularSpeed, provided the car is
// moving
func (t *Track) turn(rate float64) {
	f := t.forward()
	vel := t.car.GetLinearVelocity()
	if math.Abs(vel.X*f.X+vel.Y*f.Y) > 1e-9 {
		t.car.SetAngularVelocity(rate * AngularSpeed)
	}
}

// Actions returns the number of discrete actions
func (t *Track) Actions() int {
	return NumActions
}

// ResetProgress re-arms every checkpoint gate
func (t *Track) ResetProgress() {
	for i := range t.passed {
		t.passed[i] = false
	}
	t.passes = 0
}

// ResetAgent moves the car to a starting pose and stops it
func (t *Track) ResetAgent() {
	pose := t.starter.Start()
	t.car.SetTransform(box2d.MakeB2Vec2(pose.X, pose.Y), pose.Angle)
	t.car.SetLinearVelocity(box2d.MakeB2Vec2(0, 0))
	t.car.SetAngularVelocity(0)
	t.car.SetAwake(true)
	t.hits = nil
}

// Done returns whether a full lap has been completed, if the track
// ends episodes on laps
func (t *Track) Done() bool {
	return t.endOnLap && t.passes == len(t.passed)
}

// passGate records that the car passed gate id
func (t *Track) passGate(id int) {
	if id < 0 || id >= len(t.passed) || t.passed[id] {
		return
	}
	t.passed[id] = true
	t.passes++
	t.sink.Handle(reward.Event{Kind: reward.ProgressGate, Weight: 1})

	if t.passes == len(t.passed) {
		t.sink.Handle(reward.Event{Kind: reward.Goal, Weight: 1})
	}
}

// Passes returns the number of gates passed in the current episode
func (t *Track) Passes() int {
	return t.passes
}

// Gates returns the number of checkpoint gates
func (t *Track) Gates() int {
	return len(t.passed)
}

// World returns the Box2D world of the track
func (t *Track) World() *box2d.B2World {
	return &t.world
}

// Agent returns the body of the car
func (t *Track) Agent() *box2d.B2Body {
	return t.car
}

// Hits returns the rays cast by the last call to Sense
func (t *Track) Hits() []box2dutils.Hit {
	return t.hits
}

// Size returns the width and height of the world
func (t *Track) Size() (float64, float64) {
	return Width, Height
}

func (t *Track) String() string {
	return fmt.Sprintf("Track | Gates: %d  |  Passed: %d", len(t.passed),
		t.passes)
}

type contactDetector struct {
	env *Track
}

func newContactDetector(t *Track) *contactDetector {
	return &contactDetector{t}
}

func (c *contactDetector) BeginContact(contact box2d.B2ContactInterface) {
	surface, ok := box2dutils.SurfaceOf(box2dutils.Other(contact, c.env.car))
	if !ok {
		return
	}

	switch surface.Name {
	case Fence:
		c.env.sink.Handle(reward.Event{Kind: reward.Boundary, Weight: 1})
	case Lawn:
		c.env.onLawn++
	case CheckPoint:
		c.env.passGate(surface.ID)
	}
}

func (c *contactDetector) EndContact(contact box2d.B2ContactInterface) {
	surface, ok := box2dutils.SurfaceOf(box2dutils.Other(contact, c.env.car))
	if ok && surface.Name == Lawn && c.env.onLawn > 0 {
		c.env.onLawn--
	}
}

func (c *contactDetector) PreSolve(contact box2d.B2ContactInterface,
	oldManifold box2d.B2Manifold) {
}

func (c *contactDetector) PostSolve(contact box2d.B2ContactInterface,
	impulse *box2d.B2ContactImpulse) {
}
