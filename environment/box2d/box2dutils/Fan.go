package box2dutils

import (
	"github.com/ByteArena/box2d"
	"github.com/samuelfneumann/qcontrol/perception"
)

// Hit is the result of casting a single ray of a fan
type Hit struct {
	perception.Reading

	// Start and End are the endpoints of the cast segment in world
	// coordinates. If the ray hit a surface, End is the hit point.
	Start, End box2d.B2Vec2
}

// CastFan casts each ray of fan from the position of body in the
// direction given by the heading of body. The closest tagged fixture
// along each ray is reported. Fixtures of body itself and fixtures
// without a Surface are ignored.
func CastFan(world *box2d.B2World, body *box2d.B2Body,
	fan *perception.Fan) []Hit {
	origin := body.GetPosition()
	heading := body.GetAngle()

	hits := make([]Hit, fan.Len())
	for i, ray := range fan.Rays() {
		dx, dy := ray.Direction(heading)
		end := box2d.MakeB2Vec2(origin.X+dx*ray.Range, origin.Y+dy*ray.Range)

		hits[i] = castRay(world, body, origin, end)
	}
	return hits
}

// castRay returns the closest surface hit on the segment from start to
// end
func castRay(world *box2d.B2World, body *box2d.B2Body, start,
	end box2d.B2Vec2) Hit {
	hit := Hit{Start: start, End: end}
	closest := 1.0

	world.RayCast(func(fixture *box2d.B2Fixture, point, normal box2d.B2Vec2,
		fraction float64) float64 {
		if fixture.GetBody() == body {
			return -1
		}
		surface, ok := SurfaceOf(fixture)
		if !ok {
			return -1
		}

		if fraction <= closest {
			closest = fraction
			hit.Reading = perception.Reading{Hit: true, Tag: surface.Tag}
			hit.End = point
		}

		// Clip the ray so that only closer fixtures are reported
		return fraction
	}, start, end)

	return hit
}

// Readings returns the perception readings of a slice of hits
func Readings(hits []Hit) []perception.Reading {
	r := make([]perception.Reading, len(hits))
	for i := range hits {
		r[i] = hits[i].Reading
	}
	return r
}
