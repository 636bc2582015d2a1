package viz

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gravsim/internal/sim"
)

const (
	nearPlane = 0.1
	maxPitch  = math.Pi/2 - 0.01
)

var worldUp = mgl64.Vec3{0, 1, 0}

// Camera is a first-person camera. Yaw 0 and pitch 0 look down -Z.
type Camera struct {
	Position   mgl64.Vec3
	Yaw, Pitch float64
	FOV        float64 // vertical, radians
}

// NewCamera places a camera at pos looking at target.
func NewCamera(pos, target mgl64.Vec3) *Camera {
	c := &Camera{Position: pos, FOV: math.Pi / 3}
	c.LookAt(target)
	return c
}

func (c *Camera) Forward() mgl64.Vec3 {
	sy, cy := math.Sincos(c.Yaw)
	sp, cp := math.Sincos(c.Pitch)
	return mgl64.Vec3{-sy * cp, sp, -cy * cp}
}

func (c *Camera) Right() mgl64.Vec3 {
	sy, cy := math.Sincos(c.Yaw)
	return mgl64.Vec3{cy, 0, -sy}
}

func (c *Camera) Up() mgl64.Vec3 {
	return c.Right().Cross(c.Forward())
}

// LookAt turns the camera toward target. A target at the camera's own
// position leaves the orientation unchanged.
func (c *Camera) LookAt(target mgl64.Vec3) {
	d := target.Sub(c.Position)
	l := d.Len()
	if l == 0 {
		return
	}
	d = d.Mul(1 / l)
	c.Pitch = clampPitch(math.Asin(d[1]))
	c.Yaw = math.Atan2(-d[0], -d[2])
}

// Rotate turns the camera. Positive yaw turns left, positive pitch looks up.
func (c *Camera) Rotate(yaw, pitch float64) {
	c.Yaw = math.Mod(c.Yaw+yaw, 2*math.Pi)
	c.Pitch = clampPitch(c.Pitch + pitch)
}

// Move translates the camera along its forward and right axes and the world
// up axis.
func (c *Camera) Move(forward, right, up float64) {
	c.Position = c.Position.
		Add(c.Forward().Mul(forward)).
		Add(c.Right().Mul(right)).
		Add(worldUp.Mul(up))
}

// Project maps a world point onto a sw x sh pixel screen. scale is the
// number of pixels per world unit at the point's depth. ok is false for
// points behind the near plane.
func (c *Camera) Project(p mgl64.Vec3, sw, sh int) (x, y int, scale, depth float64, ok bool) {
	rel := p.Sub(c.Position)
	depth = rel.Dot(c.Forward())
	if depth < nearPlane {
		return 0, 0, 0, depth, false
	}

	focal := float64(sh) / 2 / math.Tan(c.FOV/2)
	scale = focal / depth
	x = sw/2 + int(math.Round(rel.Dot(c.Right())*scale))
	y = sh/2 - int(math.Round(rel.Dot(c.Up())*scale))
	return x, y, scale, depth, true
}

type projected struct {
	x, y, r int
	depth   float64
}

// Render draws every sprite in front of the camera as a filled disc, far to
// near, and returns how many were drawn.
func Render(c *Canvas, cam *Camera, sprites []sim.Sprite) int {
	if c == nil || cam == nil {
		return 0
	}
	sw, sh := c.PixelSize()
	limit := maxInt(sw, sh)

	proj := make([]projected, 0, len(sprites))
	for _, s := range sprites {
		x, y, scale, depth, ok := cam.Project(s.Position, sw, sh)
		if !ok {
			continue
		}
		r := int(math.Round(s.Radius * scale))
		if x+r < 0 || x-r >= sw || y+r < 0 || y-r >= sh {
			continue
		}
		proj = append(proj, projected{x, y, minInt(r, limit), depth})
	}

	sort.Slice(proj, func(i, j int) bool { return proj[i].depth > proj[j].depth })
	for _, p := range proj {
		c.FillCircle(p.x, p.y, p.r)
	}
	return len(proj)
}

// RenderAxes draws the world axes from the origin, each length long.
func RenderAxes(c *Canvas, cam *Camera, length float64) {
	sw, sh := c.PixelSize()
	ox, oy, _, _, ok := cam.Project(mgl64.Vec3{}, sw, sh)
	if !ok {
		return
	}
	for _, axis := range []mgl64.Vec3{{length, 0, 0}, {0, length, 0}, {0, 0, length}} {
		x, y, _, _, ok := cam.Project(axis, sw, sh)
		if ok {
			c.DrawLine(ox, oy, x, y)
		}
	}
}

func clampPitch(p float64) float64 {
	return math.Max(-maxPitch, math.Min(maxPitch, p))
}
