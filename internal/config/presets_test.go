package config

import (
	"math"
	"testing"
)

func TestGetPreset(t *testing.T) {
	bodies, ok := GetPreset("binary")
	if !ok {
		t.Fatal("expected binary preset")
	}
	if bodies[0].Position != (Vec{0, 0, 2}) || bodies[1].Velocity != (Vec{0, -1, 0}) {
		t.Errorf("unexpected binary seed %+v", bodies)
	}

	if _, ok := GetPreset("nonexistent"); ok {
		t.Error("expected no preset for unknown name")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	want := []string{"binary", "head-on", "ring", "triple"}
	if len(names) != len(want) {
		t.Fatalf("ListPresets() = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("ListPresets()[%d] = %s, want %s", i, names[i], want[i])
		}
	}
}

func TestRingHasZeroMomentum(t *testing.T) {
	for _, name := range []string{"triple", "ring"} {
		bodies, _ := GetPreset(name)
		var p Vec
		for _, b := range bodies {
			for i := range p {
				p[i] += b.Mass * b.Velocity[i]
			}
		}
		for i := range p {
			if math.Abs(p[i]) > 1e-12 {
				t.Errorf("%s: momentum %v", name, p)
			}
		}
	}
}

func TestRingCircularSpeed(t *testing.T) {
	bodies := Ring(2, 2, 1, 0, 8)

	// two unit masses 4 apart orbit at speed 1 under G = 8
	for _, b := range bodies {
		v := math.Sqrt(b.Velocity[0]*b.Velocity[0] + b.Velocity[2]*b.Velocity[2])
		if math.Abs(v-1) > 1e-12 {
			t.Errorf("speed = %v, want 1", v)
		}
	}
}
