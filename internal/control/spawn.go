package control

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/sim"
)

// SpawnGap is the clearance between the camera and a new body's surface.
const SpawnGap = 1.01

// SpawnMode selects what scroll input adjusts.
type SpawnMode int

const (
	ModeNone SpawnMode = iota
	ModeSize
	ModeSpeed
	ModeFire
)

func (m SpawnMode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeSize:
		return "size"
	case ModeSpeed:
		return "speed"
	case ModeFire:
		return "fire"
	default:
		return "unknown"
	}
}

// SpawnOptions holds the size and speed the next fired body gets.
type SpawnOptions struct {
	Mode   SpawnMode
	Radius float64
	Speed  float64

	sizeSensitivity  float64
	speedSensitivity float64
	minRadius        float64
	maxRadius        float64
	maxSpeed         float64
}

// NewSpawnOptions starts from the configured radius and speed. The smallest
// radius is one size step at the finest modifier.
func NewSpawnOptions(cfg config.SpawnConfig, modifierFactor float64) *SpawnOptions {
	o := &SpawnOptions{
		Radius:           cfg.Radius,
		Speed:            cfg.Speed,
		sizeSensitivity:  cfg.SizeSensitivity,
		speedSensitivity: cfg.SpeedSensitivity,
		minRadius:        cfg.SizeSensitivity / modifierFactor,
		maxRadius:        cfg.MaxRadius,
		maxSpeed:         cfg.MaxSpeed,
	}
	o.clamp()
	return o
}

// Select switches the active mode. Selecting the active mode again keeps it.
func (o *SpawnOptions) Select(m SpawnMode) {
	o.Mode = m
}

// Scroll adjusts the option of the active mode by delta wheel steps.
func (o *SpawnOptions) Scroll(delta, modifier float64) {
	switch o.Mode {
	case ModeSize:
		o.Radius += delta * o.sizeSensitivity * modifier
	case ModeSpeed:
		o.Speed += delta * o.speedSensitivity * modifier
	default:
		return
	}
	o.clamp()
}

// Mass returns the mass of a body with the current radius.
func (o *SpawnOptions) Mass(baseRadius float64) float64 {
	return dynamo.MassForRadius(o.Radius, baseRadius)
}

// Fire builds a spawn command for a body launched along forward from origin,
// placed just clear of the origin. The mode returns to none. It reports false
// when forward has no direction.
func (o *SpawnOptions) Fire(origin, forward mgl64.Vec3, baseRadius float64) (sim.Spawn, bool) {
	o.Mode = ModeNone

	l := forward.Len()
	if !(l > 0) || math.IsInf(l, 0) || !(o.Radius > 0) {
		return sim.Spawn{}, false
	}
	f := forward.Mul(1 / l)

	return sim.Spawn{
		Mass:     o.Mass(baseRadius),
		Position: origin.Add(f.Mul(o.Radius + SpawnGap)),
		Velocity: f.Mul(o.Speed),
	}, true
}

func (o *SpawnOptions) clamp() {
	o.Radius = math.Max(o.minRadius, math.Min(o.maxRadius, o.Radius))
	o.Speed = math.Max(0, math.Min(o.maxSpeed, o.Speed))
}
