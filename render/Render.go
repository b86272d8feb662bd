// Package render draws snapshots of Box2D environments and the sensing
// rays of their agents, which is useful for debugging environments and
// encoder configurations.
package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/ByteArena/box2d"
	"github.com/fogleman/gg"
	"github.com/samuelfneumann/qcontrol/environment/box2d/box2dutils"
	"github.com/samuelfneumann/qcontrol/perception"
)

// DefaultScale is the default number of pixels per world unit
const DefaultScale float64 = 10

// Scene is a Box2D environment that can be rendered
type Scene interface {
	World() *box2d.B2World
	Agent() *box2d.B2Body
	Hits() []box2dutils.Hit
	Size() (width, height float64)
}

var (
	background = color.RGBA{245, 245, 240, 255}
	untagged   = color.RGBA{120, 120, 120, 255}
	agentColor = color.RGBA{200, 40, 40, 255}
	hitColor   = color.RGBA{230, 120, 20, 255}
	missColor  = color.RGBA{160, 160, 160, 255}

	// palette colours surfaces by the index of their tag
	palette = []color.Color{
		color.RGBA{40, 110, 200, 255},
		color.RGBA{60, 160, 60, 255},
		color.RGBA{90, 60, 40, 255},
		color.RGBA{190, 60, 170, 255},
		color.RGBA{30, 170, 170, 255},
	}
)

// Renderer draws a Scene
type Renderer struct {
	scene  Scene
	scale  float64
	width  float64
	height float64
}

// New returns a new Renderer of scene. If scale is not positive,
// DefaultScale is used.
func New(scene Scene, scale float64) *Renderer {
	if scale <= 0 {
		scale = DefaultScale
	}
	w, h := scene.Size()

	return &Renderer{scene: scene, scale: scale, width: w, height: h}
}

// Dims returns the dimensions of rendered images in pixels
func (r *Renderer) Dims() (int, int) {
	return int(r.width * r.scale), int(r.height * r.scale)
}

// WorldToPixelCoord converts world coordinates to pixel coordinates.
// The world y-axis points up, the pixel y-axis points down.
func (r *Renderer) WorldToPixelCoord(v box2d.B2Vec2) (float64, float64) {
	return r.scale * v.X, r.scale * (r.height - v.Y)
}

// Render draws the current state of the scene
func (r *Renderer) Render() image.Image {
	w, h := r.Dims()
	dc := gg.NewContext(w, h)
	dc.SetColor(background)
	dc.Clear()

	agent := r.scene.Agent()
	for body := r.scene.World().GetBodyList(); body != nil; body = body.M_next {
		if body == agent {
			continue
		}
		for fix := body.GetFixtureList(); fix != nil; fix = fix.M_next {
			r.drawFixture(dc, body, fix, surfaceColor(fix))
		}
	}

	// Rays are drawn beneath the agent
	dc.SetLineWidth(1)
	for _, hit := range r.scene.Hits() {
		x1, y1 := r.WorldToPixelCoord(hit.Start)
		x2, y2 := r.WorldToPixelCoord(hit.End)
		dc.DrawLine(x1, y1, x2, y2)
		if hit.Hit {
			dc.SetColor(hitColor)
			dc.Stroke()
			dc.DrawCircle(x2, y2, 2)
			dc.Fill()
		} else {
			dc.SetColor(missColor)
			dc.Stroke()
		}
	}

	if agent != nil {
		for fix := agent.GetFixtureList(); fix != nil; fix = fix.M_next {
			r.drawFixture(dc, agent, fix, agentColor)
		}
	}

	return dc.Image()
}

// SavePNG renders the scene and saves it as a PNG image
func (r *Renderer) SavePNG(filename string) error {
	w, h := r.Dims()
	dc := gg.NewContext(w, h)
	dc.DrawImage(r.Render(), 0, 0)

	if err := dc.SavePNG(filename); err != nil {
		return fmt.Errorf("savePNG: could not save image: %v", err)
	}
	return nil
}

// drawFixture draws a single fixture of body. Sensors are outlined,
// solid fixtures are filled.
func (r *Renderer) drawFixture(dc *gg.Context, body *box2d.B2Body,
	fix *box2d.B2Fixture, c color.Color) {
	trans := body.M_xf
	dc.ClearPath()
	dc.SetColor(c)

	switch shape := fix.M_shape.(type) {
	case *box2d.B2EdgeShape:
		x1, y1 := r.WorldToPixelCoord(box2d.B2TransformVec2Mul(trans,
			shape.M_vertex1))
		x2, y2 := r.WorldToPixelCoord(box2d.B2TransformVec2Mul(trans,
			shape.M_vertex2))
		dc.SetLineWidth(3)
		dc.DrawLine(x1, y1, x2, y2)
		dc.Stroke()
		return

	case *box2d.B2PolygonShape:
		for i, vertex := range shape.M_vertices {
			if i >= shape.M_count {
				break
			}
			x, y := r.WorldToPixelCoord(box2d.B2TransformVec2Mul(trans, vertex))
			dc.LineTo(x, y)
		}
		dc.ClosePath()

	case *box2d.B2CircleShape:
		x, y := r.WorldToPixelCoord(box2d.B2TransformVec2Mul(trans,
			shape.M_p))
		dc.DrawCircle(x, y, shape.M_radius*r.scale)

	default:
		return
	}

	if fix.IsSensor() {
		dc.SetLineWidth(2)
		dc.Stroke()
	} else {
		dc.Fill()
	}
}

// surfaceColor returns the colour a fixture is drawn with
func surfaceColor(fix *box2d.B2Fixture) color.Color {
	s, ok := box2dutils.SurfaceOf(fix)
	if !ok || s.Tag == perception.NoHit {
		return untagged
	}
	return palette[(int(s.Tag)-1)%len(palette)]
}
