// Package box2dutils provides utilities shared by environments that
// are simulated with Box2D: tagged surfaces, ray fan casting, and
// contact bookkeeping.
package box2dutils

import (
	"github.com/ByteArena/box2d"
	"github.com/samuelfneumann/qcontrol/perception"
)

// Body types of Box2D bodies
const (
	StaticBody    = 0
	KinematicBody = 1
	DynamicBody   = 2
)

// Surface is the user data attached to every fixture that sensing rays
// can hit. The name of a surface is resolved against a Vocabulary once,
// when the surface is created.
type Surface struct {
	Name string
	Tag  perception.Tag

	// ID distinguishes surfaces with the same name, e.g. checkpoint
	// gates or flowers
	ID int
}

// NewSurface returns a new Surface with the argument name, resolved in
// vocab. Names outside the vocabulary resolve to perception.NoHit.
func NewSurface(name string, id int, vocab *perception.Vocabulary) *Surface {
	return &Surface{Name: name, Tag: vocab.Resolve(name), ID: id}
}

// Retag changes the name of a surface, e.g. when a flower is emptied
func (s *Surface) Retag(name string, vocab *perception.Vocabulary) {
	s.Name = name
	s.Tag = vocab.Resolve(name)
}

// SurfaceOf returns the Surface attached to a fixture, if any
func SurfaceOf(f *box2d.B2Fixture) (*Surface, bool) {
	if f == nil {
		return nil, false
	}
	s, ok := f.GetUserData().(*Surface)
	return s, ok
}

// Other returns the fixture of a contact that does not belong to body,
// or nil if body is not part of the contact
func Other(contact box2d.B2ContactInterface, body *box2d.B2Body) *box2d.B2Fixture {
	a, b := contact.GetFixtureA(), contact.GetFixtureB()
	switch body {
	case a.GetBody():
		return b
	case b.GetBody():
		return a
	default:
		return nil
	}
}

// NewEdge creates a static edge from v1 to v2 carrying surface
func NewEdge(world *box2d.B2World, v1, v2 box2d.B2Vec2, surface *Surface,
	sensor bool) *box2d.B2Body {
	def := box2d.NewB2BodyDef()
	def.Type = StaticBody
	body := world.CreateBody(def)

	shape := box2d.NewB2EdgeShape()
	shape.Set(v1, v2)

	fix := box2d.MakeB2FixtureDef()
	fix.Shape = shape
	fix.Friction = 0.1
	fix.IsSensor = sensor
	fix.UserData = surface
	body.CreateFixtureFromDef(&fix)

	return body
}

// NewBox creates a static axis-aligned box with half-widths hx and hy
// centred at center, carrying surface
func NewBox(world *box2d.B2World, center box2d.B2Vec2, hx, hy float64,
	surface *Surface, sensor bool) *box2d.B2Body {
	def := box2d.NewB2BodyDef()
	def.Type = StaticBody
	def.Position = center
	body := world.CreateBody(def)

	shape := box2d.NewB2PolygonShape()
	shape.SetAsBox(hx, hy)

	fix := box2d.MakeB2FixtureDef()
	fix.Shape = shape
	fix.IsSensor = sensor
	fix.UserData = surface
	body.CreateFixtureFromDef(&fix)

	return body
}

// NewCircle creates a static circle of radius r centred at center,
// carrying surface
func NewCircle(world *box2d.B2World, center box2d.B2Vec2, r float64,
	surface *Surface, sensor bool) *box2d.B2Body {
	def := box2d.NewB2BodyDef()
	def.Type = StaticBody
	def.Position = center
	body := world.CreateBody(def)

	shape := box2d.NewB2CircleShape()
	shape.M_radius = r

	fix := box2d.MakeB2FixtureDef()
	fix.Shape = shape
	fix.IsSensor = sensor
	fix.UserData = surface
	body.CreateFixtureFromDef(&fix)

	return body
}
