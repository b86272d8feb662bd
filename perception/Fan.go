package perception

import (
	"fmt"
	"math"
)

// DefaultRearScale is the default fraction of the forward range used
// for the rearward ray
const DefaultRearScale float64 = 0.5

// Ray is a single ray of a Fan, described relative to the heading of
// the agent casting it
type Ray struct {
	// Angle is the offset from the heading, in radians. Positive
	// angles are counter-clockwise (to the left).
	Angle float64

	// Range is the maximum cast distance of the ray
	Range float64
}

// Direction returns the unit direction of the ray in world
// coordinates, given the heading of the agent in radians
func (r Ray) Direction(heading float64) (x, y float64) {
	theta := heading + r.Angle
	return math.Cos(theta), math.Sin(theta)
}

// Fan describes the geometry of a symmetric fan of rays. Rays are
// ordered canonically: forward, rear, and then left/right pairs at
// increasing angular offsets. The i-th ray of the fan always
// contributes the i-th digit of the state index.
type Fan struct {
	rays []Ray
}

// NewFan returns a new Fan of raySize rays. The forward ray and each
// pair have range rng, the rear ray has range rng * rearScale. Pair k
// (starting at 1) is cast at +/- k * halfAngle degrees from the
// heading.
func NewFan(raySize int, halfAngle, rng, rearScale float64) (*Fan, error) {
	if raySize < 2 {
		return nil, fmt.Errorf("newFan: at least 2 rays are needed, have %d",
			raySize)
	}
	if raySize%2 != 0 {
		return nil, fmt.Errorf("newFan: ray size must be even for symmetric "+
			"casting, have %d", raySize)
	}
	if rng <= 0 {
		return nil, fmt.Errorf("newFan: range must be positive, have %v", rng)
	}
	if halfAngle <= 0 || halfAngle > 90 {
		return nil, fmt.Errorf("newFan: half angle must be in (0, 90], "+
			"have %v", halfAngle)
	}
	if pairs := (raySize - 2) / 2; float64(pairs)*halfAngle >= 180 {
		return nil, fmt.Errorf("newFan: %d pairs at %v degrees reach the "+
			"rear ray", pairs, halfAngle)
	}
	if rearScale <= 0 {
		rearScale = DefaultRearScale
	}

	rad := halfAngle * math.Pi / 180.0
	rays := make([]Ray, 0, raySize)
	rays = append(rays, Ray{Angle: 0, Range: rng})
	rays = append(rays, Ray{Angle: math.Pi, Range: rng * rearScale})
	for k := 1; len(rays) < raySize; k++ {
		rays = append(rays, Ray{Angle: float64(k) * rad, Range: rng})
		rays = append(rays, Ray{Angle: -float64(k) * rad, Range: rng})
	}

	return &Fan{rays}, nil
}

// Rays returns the rays of the fan in canonical order
func (f *Fan) Rays() []Ray {
	r := make([]Ray, len(f.rays))
	copy(r, f.rays)
	return r
}

// Len returns the number of rays in the fan
func (f *Fan) Len() int {
	return len(f.rays)
}

// At returns the i-th ray of the fan
func (f *Fan) At(i int) Ray {
	return f.rays[i]
}
