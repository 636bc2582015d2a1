package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gravsim/internal/dynamo"
)

// Engine advances velocities and positions under mutual gravity.
type Engine struct {
	G   float64
	acc []mgl64.Vec3
}

// NewEngine creates an Engine with gravitational constant g.
func NewEngine(g float64) *Engine {
	return &Engine{G: g}
}

// Step advances every live body by dt. All velocities are updated from the
// start-of-step positions before any position moves (semi-implicit Euler).
// A zero dt leaves every body untouched.
func (e *Engine) Step(bodies []dynamo.Body, dt float64) {
	if dt == 0 {
		return
	}

	acc := e.Accelerations(bodies)

	for i := range bodies {
		if !bodies[i].Alive() {
			continue
		}
		bodies[i].Velocity = bodies[i].Velocity.Add(acc[i].Mul(dt))
	}

	for i := range bodies {
		if !bodies[i].Alive() {
			continue
		}
		bodies[i].Position = bodies[i].Position.Add(bodies[i].Velocity.Mul(dt))
	}
}

// Accelerations returns the gravitational acceleration of every body, indexed
// like bodies. Tombstones get zero. Coincident pairs contribute nothing. The
// returned slice is reused by the next call.
func (e *Engine) Accelerations(bodies []dynamo.Body) []mgl64.Vec3 {
	n := len(bodies)
	if cap(e.acc) < n {
		e.acc = make([]mgl64.Vec3, n)
	}
	e.acc = e.acc[:n]
	for i := range e.acc {
		e.acc[i] = mgl64.Vec3{}
	}

	for i := 0; i < n; i++ {
		bi := &bodies[i]
		if !bi.Alive() {
			continue
		}

		for j := i + 1; j < n; j++ {
			bj := &bodies[j]
			if !bj.Alive() {
				continue
			}

			r := bj.Position.Sub(bi.Position)
			d2 := r.Dot(r)
			d3 := d2 * math.Sqrt(d2)
			if d3 == 0 {
				continue
			}

			// G*m/d^3 along r, equal and opposite
			k := e.G / d3
			e.acc[i] = e.acc[i].Add(r.Mul(k * bj.Mass))
			e.acc[j] = e.acc[j].Sub(r.Mul(k * bi.Mass))
		}
	}

	return e.acc
}
