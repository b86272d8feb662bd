// Package meadow provides a top-down foraging environment simulated
// with Box2D.
//
// A bird flies inside a walled meadow scattered with flowers. Each
// flower holds one unit of nectar, which the bird drinks a little at a
// time while hovering inside the flower. Touching the walls is
// penalized. The episode is complete once every flower is empty.
//
// Each flower opens in a fixed direction. Sips taken while facing into
// the opening of the nearest flower earn an alignment bonus, and the
// bird often starts an episode hovering just outside an opening.
package meadow

import (
	"fmt"
	"math"

	"github.com/ByteArena/box2d"
	"github.com/samuelfneumann/qcontrol/environment"
	"github.com/samuelfneumann/qcontrol/environment/box2d/box2dutils"
	"github.com/samuelfneumann/qcontrol/perception"
	"github.com/samuelfneumann/qcontrol/reward"
	"github.com/samuelfneumann/qcontrol/utils/floatutils"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	FPS float64 = 50

	// Side length of the square meadow in Box2D units
	Size float64 = 40.0

	BirdRadius   float64 = 0.5
	FlowerRadius float64 = 1.0

	// Bird handling
	Thrust       float64 = 12.0
	YawSpeed     float64 = 3.0
	BrakeFactor  float64 = 0.5
	MaxSpeed     float64 = 8.0
	LinearDrag   float64 = 1.0
	AngularDrag  float64 = 3.0
	NectarPerSip float64 = 0.01

	DefaultFlowers     int     = 12
	DefaultBuckets     int     = 8
	DefaultFrontChance float64 = 0.5
	NoFront            float64 = -1

	// Range of distances from the edge of a flower at which the bird
	// starts in front of it
	frontMin float64 = 0.5
	frontMax float64 = 2.0

	// Number of attempts to find a starting pose clear of every flower
	startAttempts int = 100

	velocityIterations int = 6
	positionIterations int = 2
)

// Actions
const (
	Forward int = iota
	YawLeft
	YawRight
	Brake
	NumActions
)

// Surface names
const (
	Boundary string = "boundary"
	Nectar   string = "nectar"
	Flower   string = "flower"
)

// Tags returns the default tag vocabulary of the meadow
func Tags() []string {
	return []string{Nectar, Flower, Boundary}
}

// Config describes the configuration of a meadow
type Config struct {
	// Flowers is the number of flowers, DefaultFlowers if 0
	Flowers int

	// Buckets is the number of discrete levels of nectar obtained
	// reported as context, DefaultBuckets if 0
	Buckets int

	// FrontChance is the probability of starting an episode in front
	// of a flower, DefaultFrontChance if 0. Negative values, e.g.
	// NoFront, disable starting in front of flowers.
	FrontChance float64
}

// Validate returns an error describing whether or not the
// configuration is valid
func (c Config) Validate() error {
	if c.Flowers < 0 {
		return fmt.Errorf("validate: number of flowers must be "+
			"non-negative, have %d", c.Flowers)
	}
	if c.Buckets < 0 {
		return fmt.Errorf("validate: number of buckets must be "+
			"non-negative, have %d", c.Buckets)
	}
	if c.FrontChance > 1 {
		return fmt.Errorf("validate: front chance must be at most 1, "+
			"have %v", c.FrontChance)
	}
	return nil
}

func (c Config) flowers() int {
	if c.Flowers == 0 {
		return DefaultFlowers
	}
	return c.Flowers
}

func (c Config) buckets() int {
	if c.Buckets == 0 {
		return DefaultBuckets
	}
	return c.Buckets
}

func (c Config) frontChance() float64 {
	if c.FrontChance == 0 {
		return DefaultFrontChance
	} else if c.FrontChance < 0 {
		return 0
	}
	return c.FrontChance
}

// flower is a single flower of the meadow
type flower struct {
	body    *box2d.B2Body
	surface *box2dutils.Surface
	nectar  float64
	inside  int // number of bird contacts

	// opening is the direction the flower faces, in radians
	opening float64
}

// up returns the unit vector pointing out of the opening of the flower
func (f *flower) up() (float64, float64) {
	return math.Cos(f.opening), math.Sin(f.opening)
}

// Meadow is a Box2D foraging environment. Meadow implements the
// environment.Environment interface.
type Meadow struct {
	world box2d.B2World
	bird  *box2d.B2Body
	sink  reward.Sink

	vocab   *perception.Vocabulary
	fan     *perception.Fan
	starter environment.Starter
	rng     *rand.Rand
	front   float64

	walls   []*box2d.B2Body
	flowers []*flower

	obtained float64
	buckets  int
	hits     []box2dutils.Hit
}

// New returns a new Meadow. Flowers are planted at positions drawn
// using seed. If starter is nil, the bird starts at a uniformly random
// pose whenever it does not start in front of a flower.
func New(c Config, encoder *perception.Encoder, sink reward.Sink,
	starter environment.Starter, seed uint64) (*Meadow, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}
	if encoder == nil || encoder.Fan() == nil {
		return nil, fmt.Errorf("new: encoder must have a ray fan")
	}
	if sink == nil {
		return nil, fmt.Errorf("new: reward sink cannot be nil")
	}

	// Each source of randomness gets its own stream
	seeds := rand.NewSource(seed)
	plantSeed, startSeed, frontSeed := seeds.Uint64(), seeds.Uint64(),
		seeds.Uint64()

	if starter == nil {
		var err error
		margin := 2 * BirdRadius
		starter, err = environment.NewUniformStarter([]r1.Interval{
			{Min: margin, Max: Size - margin},
			{Min: margin, Max: Size - margin},
			{Min: -math.Pi, Max: math.Pi},
		}, startSeed)
		if err != nil {
			return nil, fmt.Errorf("new: %v", err)
		}
	}

	m := &Meadow{
		world:   box2d.MakeB2World(box2d.B2Vec2{X: 0, Y: 0}),
		sink:    sink,
		vocab:   encoder.Vocabulary(),
		fan:     encoder.Fan(),
		starter: starter,
		rng:     rand.New(rand.NewSource(frontSeed)),
		front:   c.frontChance(),
		buckets: c.buckets(),
	}
	m.world.SetContactListener(newContactDetector(m))

	m.buildWalls()
	m.plantFlowers(c.flowers(), plantSeed)
	m.buildBird()

	m.ResetAgent()
	return m, nil
}

func (m *Meadow) buildWalls() {
	corners := []box2d.B2Vec2{
		box2d.MakeB2Vec2(0, 0),
		box2d.MakeB2Vec2(Size, 0),
		box2d.MakeB2Vec2(Size, Size),
		box2d.MakeB2Vec2(0, Size),
	}
	for i := range corners {
		surface := box2dutils.NewSurface(Boundary, i, m.vocab)
		m.walls = append(m.walls, box2dutils.NewEdge(&m.world, corners[i],
			corners[(i+1)%len(corners)], surface, false))
	}
}

// plantFlowers places n flowers on a jittered grid so that no two
// flowers overlap. Each flower opens in a uniformly random direction.
func (m *Meadow) plantFlowers(n int, seed uint64) {
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	cell := Size / float64(cols)
	src := rand.NewSource(seed)
	jitter := distuv.Uniform{
		Min: -(cell/2 - FlowerRadius),
		Max: cell/2 - FlowerRadius,
		Src: src,
	}
	opening := distuv.Uniform{Min: -math.Pi, Max: math.Pi, Src: src}
	if jitter.Max <= 0 {
		jitter.Min, jitter.Max = 0, 0
	}

	for i := 0; i < n; i++ {
		cx := (float64(i%cols) + 0.5) * cell
		cy := (float64(i/cols) + 0.5) * cell
		if jitter.Max > 0 {
			cx += jitter.Rand()
			cy += jitter.Rand()
		}

		surface := box2dutils.NewSurface(Nectar, i, m.vocab)
		body := box2dutils.NewCircle(&m.world, box2d.MakeB2Vec2(cx, cy),
			FlowerRadius, surface, true)
		m.flowers = append(m.flowers, &flower{
			body:    body,
			surface: surface,
			nectar:  1.0,
			opening: opening.Rand(),
		})
	}
}

func (m *Meadow) buildBird() {
	def := box2d.MakeB2BodyDef()
	def.Type = box2dutils.DynamicBody
	def.LinearDamping = LinearDrag
	def.AngularDamping = AngularDrag
	m.bird = m.world.CreateBody(&def)

	shape := box2d.NewB2CircleShape()
	shape.M_radius = BirdRadius

	fix := box2d.MakeB2FixtureDef()
	fix.Shape = shape
	fix.Density = 1.0
	fix.Restitution = 0.2
	m.bird.CreateFixtureFromDef(&fix)
}

// Sense casts the ray fan from the bird. The context of the
// observation is the bucketed amount of nectar obtained in the current
// episode.
func (m *Meadow) Sense() perception.Observation {
	m.hits = box2dutils.CastFan(&m.world, m.bird, m.fan)
	return perception.Observation{
		Rays:    box2dutils.Readings(m.hits),
		Context: []int{m.context()},
	}
}

func (m *Meadow) context() int {
	total := r1.Interval{Min: 0, Max: float64(len(m.flowers))}
	return floatutils.Bucket(m.obtained, total, m.buckets)
}

// Act applies an action for a single tick and advances the world
func (m *Meadow) Act(action int) {
	angle := m.bird.GetAngle()
	switch action {
	case Forward:
		force := Thrust * m.bird.GetMass()
		m.bird.ApplyForceToCenter(box2d.MakeB2Vec2(force*math.Cos(angle),
			force*math.Sin(angle)), true)
	case YawLeft:
		m.bird.SetAngularVelocity(YawSpeed)
	case YawRight:
		m.bird.SetAngularVelocity(-YawSpeed)
	case Brake:
		vel := m.bird.GetLinearVelocity()
		m.bird.SetLinearVelocity(box2d.MakeB2Vec2(vel.X*BrakeFactor,
			vel.Y*BrakeFactor))
		m.bird.SetAngularVelocity(0)
	default:
		panic(fmt.Sprintf("act: illegal action %d", action))
	}

	vel := m.bird.GetLinearVelocity()
	if speed := math.Hypot(vel.X, vel.Y); speed > MaxSpeed {
		scale := MaxSpeed / speed
		m.bird.SetLinearVelocity(box2d.MakeB2Vec2(vel.X*scale, vel.Y*scale))
	}

	m.step()
}

// Advance advances the world a single tick without applying any
// action
func (m *Meadow) Advance() {
	m.step()
}

func (m *Meadow) step() {
	m.world.Step(1.0/FPS, velocityIterations, positionIterations)

	for _, f := range m.flowers {
		if f.inside > 0 && f.nectar > 0 {
			m.feed(f)
		}
	}
}

// feed drains a single sip of nectar from a flower
func (m *Meadow) feed(f *flower) {
	// Alignment is judged before the sip may empty the flower
	alignment := m.alignment()

	sip := math.Min(NectarPerSip, f.nectar)
	f.nectar -= sip
	m.obtained += sip

	if f.nectar <= 1e-9 {
		f.nectar = 0
		f.surface.Retag(Flower, m.vocab)
	}
	m.sink.Handle(reward.Event{Kind: reward.Nectar, Weight: sip / NectarPerSip})
	m.sink.Handle(reward.Event{Kind: reward.Alignment, Weight: alignment})

	if m.Done() {
		m.sink.Handle(reward.Event{Kind: reward.Goal, Weight: 1})
	}
}

// nearest returns the flower holding nectar closest to the bird, or
// nil if every flower is empty
func (m *Meadow) nearest() *flower {
	pos := m.bird.GetPosition()

	var best *flower
	dist := math.Inf(1)
	for _, f := range m.flowers {
		if f.nectar <= 0 {
			continue
		}
		c := f.body.GetPosition()
		if d := math.Hypot(pos.X-c.X, pos.Y-c.Y); d < dist {
			best, dist = f, d
		}
	}
	return best
}

// alignment returns how well the bird faces into the opening of the
// nearest flower holding nectar, in [0, 1]
func (m *Meadow) alignment() float64 {
	f := m.nearest()
	if f == nil {
		return 0
	}

	angle := m.bird.GetAngle()
	ux, uy := f.up()
	dot := -(math.Cos(angle)*ux + math.Sin(angle)*uy)
	return floatutils.Clip(dot, 0, 1)
}

// Actions returns the number of discrete actions
func (m *Meadow) Actions() int {
	return NumActions
}

// ResetProgress refills every flower
func (m *Meadow) ResetProgress() {
	for _, f := range m.flowers {
		f.nectar = 1.0
		f.surface.Retag(Nectar, m.vocab)
	}
	m.obtained = 0
}

// ResetAgent moves the bird to a starting pose clear of every flower
// and stops it. With the configured chance, the bird starts just
// outside the opening of a random flower, facing into it. Otherwise,
// or if no such pose is found, the pose is drawn from the starter. If
// no clear pose is found, the last pose sampled is used.
func (m *Meadow) ResetAgent() {
	pose, ok := environment.Pose{}, false
	if m.rng.Float64() < m.front {
		pose, ok = m.frontPose()
	}

	if !ok {
		pose = m.starter.Start()
		for i := 1; i < startAttempts && !m.clear(pose); i++ {
			pose = m.starter.Start()
		}
	}

	m.bird.SetTransform(box2d.MakeB2Vec2(pose.X, pose.Y), pose.Angle)
	m.bird.SetLinearVelocity(box2d.MakeB2Vec2(0, 0))
	m.bird.SetAngularVelocity(0)
	m.bird.SetAwake(true)
	m.hits = nil
}

// frontPose returns a pose in front of the opening of a random flower,
// facing the flower
func (m *Meadow) frontPose() (environment.Pose, bool) {
	if len(m.flowers) == 0 {
		return environment.Pose{}, false
	}

	for i := 0; i < startAttempts; i++ {
		f := m.flowers[m.rng.Intn(len(m.flowers))]
		c := f.body.GetPosition()
		ux, uy := f.up()
		dist := FlowerRadius + 2*BirdRadius + frontMin +
			m.rng.Float64()*(frontMax-frontMin)

		pose := environment.Pose{
			X:     c.X + ux*dist,
			Y:     c.Y + uy*dist,
			Angle: f.opening + math.Pi,
		}
		if m.inside(pose) && m.clear(pose) {
			return pose, true
		}
	}
	return environment.Pose{}, false
}

// inside returns whether the bird fits inside the walls at a pose
func (m *Meadow) inside(p environment.Pose) bool {
	margin := 2 * BirdRadius
	return p.X >= margin && p.X <= Size-margin && p.Y >= margin &&
		p.Y <= Size-margin
}

// clear returns whether a pose is clear of every flower
func (m *Meadow) clear(p environment.Pose) bool {
	for _, f := range m.flowers {
		c := f.body.GetPosition()
		if math.Hypot(p.X-c.X, p.Y-c.Y) < FlowerRadius+2*BirdRadius {
			return false
		}
	}
	return true
}

// Done returns whether every flower is empty
func (m *Meadow) Done() bool {
	for _, f := range m.flowers {
		if f.nectar > 0 {
			return false
		}
	}
	return true
}

// Obtained returns the nectar obtained in the current episode
func (m *Meadow) Obtained() float64 {
	return m.obtained
}

// NectarOf returns the nectar remaining in flower i
func (m *Meadow) NectarOf(i int) float64 {
	return m.flowers[i].nectar
}

// FlowerAt returns the position of flower i
func (m *Meadow) FlowerAt(i int) box2d.B2Vec2 {
	return m.flowers[i].body.GetPosition()
}

// Flowers returns the number of flowers
func (m *Meadow) Flowers() int {
	return len(m.flowers)
}

// World returns the Box2D world of the meadow
func (m *Meadow) World() *box2d.B2World {
	return &m.world
}

// Agent returns the body of the bird
func (m *Meadow) Agent() *box2d.B2Body {
	return m.bird
}

// Hits returns the rays cast by the last call to Sense
func (m *Meadow) Hits() []box2dutils.Hit {
	return m.hits
}

// Size returns the width and height of the world
func (m *Meadow) Size() (float64, float64) {
	return Size, Size
}

func (m *Meadow) String() string {
	return fmt.Sprintf("Meadow | Flowers: %d  |  Nectar Obtained: %.2f",
		len(m.flowers), m.obtained)
}

type contactDetector struct {
	env *Meadow
}

func newContactDetector(m *Meadow) *contactDetector {
	return &contactDetector{m}
}

func (c *contactDetector) BeginContact(contact box2d.B2ContactInterface) {
	surface, ok := box2dutils.SurfaceOf(box2dutils.Other(contact, c.env.bird))
	if !ok {
		return
	}

	switch surface.Name {
	case Boundary:
		c.env.sink.Handle(reward.Event{Kind: reward.Boundary, Weight: 1})
	case Nectar, Flower:
		c.env.flowers[surface.ID].inside++
	}
}

func (c *contactDetector) EndContact(contact box2d.B2ContactInterface) {
	surface, ok := box2dutils.SurfaceOf(box2dutils.Other(contact, c.env.bird))
	if !ok {
		return
	}

	switch surface.Name {
	case Nectar, Flower:
		if f := c.env.flowers[surface.ID]; f.inside > 0 {
			f.inside--
		}
	}
}

func (c *contactDetector) PreSolve(contact box2d.B2ContactInterface,
	oldManifold box2d.B2Manifold) {
}

func (c *contactDetector) PostSolve(contact box2d.B2ContactInterface,
	impulse *box2d.B2ContactImpulse) {
}
