package metrics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/sim"
)

// MassDrift reports the largest relative change in total live mass since the
// first observed frame. Spawns and despawns count as drift.
type MassDrift struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
}

func NewMassDrift() *MassDrift {
	return &MassDrift{name: "mass_drift"}
}

func (m *MassDrift) Name() string { return m.name }

func (m *MassDrift) Observe(f sim.Frame) {
	mass := physics.TotalMass(f.Bodies)
	if m.samples == 0 {
		m.initial = mass
	}
	m.samples++

	if m.initial != 0 {
		m.maxDrift = math.Max(m.maxDrift, math.Abs(mass-m.initial)/m.initial)
	}
}

func (m *MassDrift) Value() float64 { return m.maxDrift }

func (m *MassDrift) Reset() {
	m.initial = 0
	m.maxDrift = 0
	m.samples = 0
}

// MomentumDrift reports the largest distance between the total momentum and
// its value at the first observed frame.
type MomentumDrift struct {
	name     string
	initial  mgl64.Vec3
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(f sim.Frame) {
	p := physics.Momentum(f.Bodies)
	if m.samples == 0 {
		m.initial = p
	}
	m.samples++

	m.maxDrift = math.Max(m.maxDrift, p.Sub(m.initial).Len())
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = mgl64.Vec3{}
	m.maxDrift = 0
	m.samples = 0
}
