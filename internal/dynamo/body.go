package dynamo

import (
	"math"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"
)

// ID identifies a body for its whole lifetime. IDs are never reused.
type ID uint64

func (id ID) String() string { return strconv.FormatUint(uint64(id), 10) }

// Body is a point mass. Mass zero marks a tombstone.
type Body struct {
	ID       ID
	Mass     float64
	Position mgl64.Vec3
	Velocity mgl64.Vec3
}

// Alive reports whether the body takes part in physics.
func (b Body) Alive() bool { return b.Mass > 0 }

// Radius returns the body's sphere radius for the given unit-mass radius.
func (b Body) Radius(baseRadius float64) float64 { return Radius(b.Mass, baseRadius) }

// Momentum returns m*v.
func (b Body) Momentum() mgl64.Vec3 { return b.Velocity.Mul(b.Mass) }

// Radius maps mass to radius: cbrt(mass) * baseRadius.
func Radius(mass, baseRadius float64) float64 {
	return math.Cbrt(mass) * baseRadius
}

// MassForRadius is the inverse of Radius: (radius / baseRadius)^3.
func MassForRadius(radius, baseRadius float64) float64 {
	r := radius / baseRadius
	return r * r * r
}

// ValidVector reports whether every component of v is finite.
func ValidVector(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func validMass(m float64) bool {
	return !math.IsNaN(m) && !math.IsInf(m, 0) && m >= 0
}
