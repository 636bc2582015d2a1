package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gravsim/internal/dynamo"
)

// TotalMass sums the mass of the live bodies.
func TotalMass(bodies []dynamo.Body) float64 {
	m := 0.0
	for _, b := range bodies {
		if b.Alive() {
			m += b.Mass
		}
	}
	return m
}

// Momentum returns the total linear momentum.
func Momentum(bodies []dynamo.Body) mgl64.Vec3 {
	var p mgl64.Vec3
	for _, b := range bodies {
		if b.Alive() {
			p = p.Add(b.Momentum())
		}
	}
	return p
}

// AngularMomentum returns the total angular momentum about the origin.
func AngularMomentum(bodies []dynamo.Body) mgl64.Vec3 {
	var l mgl64.Vec3
	for _, b := range bodies {
		if b.Alive() {
			l = l.Add(b.Position.Cross(b.Momentum()))
		}
	}
	return l
}

// CenterOfMass returns the mass-weighted mean position, or the zero vector
// when there is no live mass.
func CenterOfMass(bodies []dynamo.Body) mgl64.Vec3 {
	var sum mgl64.Vec3
	m := 0.0
	for _, b := range bodies {
		if b.Alive() {
			sum = sum.Add(b.Position.Mul(b.Mass))
			m += b.Mass
		}
	}
	if m == 0 {
		return mgl64.Vec3{}
	}
	return sum.Mul(1 / m)
}

// KineticEnergy returns the sum of 0.5*m*v^2.
func KineticEnergy(bodies []dynamo.Body) float64 {
	ke := 0.0
	for _, b := range bodies {
		if b.Alive() {
			ke += 0.5 * b.Mass * b.Velocity.Dot(b.Velocity)
		}
	}
	return ke
}

// PotentialEnergy returns the pairwise gravitational potential energy.
// Coincident pairs are skipped, matching the engine.
func PotentialEnergy(bodies []dynamo.Body, g float64) float64 {
	pe := 0.0
	for i := range bodies {
		if !bodies[i].Alive() {
			continue
		}
		for j := i + 1; j < len(bodies); j++ {
			if !bodies[j].Alive() {
				continue
			}
			r := bodies[j].Position.Sub(bodies[i].Position).Len()
			if r == 0 {
				continue
			}
			pe -= g * bodies[i].Mass * bodies[j].Mass / r
		}
	}
	return pe
}

// Energy returns kinetic plus potential energy.
func Energy(bodies []dynamo.Body, g float64) float64 {
	return KineticEnergy(bodies) + PotentialEnergy(bodies, g)
}

// Finite reports whether every live body has finite position and velocity.
func Finite(bodies []dynamo.Body) bool {
	for _, b := range bodies {
		if math.IsNaN(b.Mass) || !dynamo.ValidVector(b.Position) || !dynamo.ValidVector(b.Velocity) {
			return false
		}
	}
	return true
}
