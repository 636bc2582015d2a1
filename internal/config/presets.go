package config

import (
	"math"
	"sort"
)

// DefaultPreset is the two-body system used when nothing else is chosen.
const DefaultPreset = "binary"

var Presets = map[string][]BodyConfig{
	"binary": {
		{Mass: 1, Position: Vec{0, 0, 2}, Velocity: Vec{0, 1, 0}},
		{Mass: 1, Position: Vec{0, 0, -2}, Velocity: Vec{0, -1, 0}},
	},
	"head-on": {
		{Mass: 1, Position: Vec{-5, 0, 0}, Velocity: Vec{1, 0, 0}},
		{Mass: 2, Position: Vec{5, 0, 0}, Velocity: Vec{-0.5, 0, 0}},
	},
	"triple": Ring(3, 3, 1, 0, DefaultGravityConstant),
	"ring":   Ring(8, 6, 0.5, 8, DefaultGravityConstant),
}

// Ring places n bodies of mass m evenly on a circle of the given radius in
// the x-z plane, around an optional central mass, with the tangential speed
// of a circular orbit under gravity constant g.
func Ring(n int, radius, m, central, g float64) []BodyConfig {
	// sum of 1/sin(pi k/n) gives the ring's self-attraction
	self := 0.0
	for k := 1; k < n; k++ {
		self += 1 / math.Sin(math.Pi*float64(k)/float64(n))
	}
	speed := math.Sqrt(g / radius * (central + m*self/4))

	bodies := make([]BodyConfig, 0, n+1)
	if central > 0 {
		bodies = append(bodies, BodyConfig{Mass: central})
	}
	for k := 0; k < n; k++ {
		a := 2 * math.Pi * float64(k) / float64(n)
		sin, cos := math.Sincos(a)
		bodies = append(bodies, BodyConfig{
			Mass:     m,
			Position: Vec{radius * cos, 0, radius * sin},
			Velocity: Vec{-speed * sin, 0, speed * cos},
		})
	}
	return bodies
}

// GetPreset returns a copy of the named preset's bodies.
func GetPreset(name string) ([]BodyConfig, bool) {
	bodies, ok := Presets[name]
	if !ok {
		return nil, false
	}
	return append([]BodyConfig(nil), bodies...), true
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
