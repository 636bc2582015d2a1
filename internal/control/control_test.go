package control

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gravsim/internal/config"
)

func TestModifier(t *testing.T) {
	tests := []struct {
		coarse, fine bool
		want         float64
	}{
		{false, false, 1},
		{true, false, 5},
		{false, true, 0.2},
		{true, true, 1},
	}

	for _, tt := range tests {
		if got := Modifier(tt.coarse, tt.fine, 5); math.Abs(got-tt.want) > 1e-15 {
			t.Errorf("Modifier(%v, %v) = %v, want %v", tt.coarse, tt.fine, got, tt.want)
		}
	}
}

func TestRateDelta(t *testing.T) {
	if got := RateDelta(1, 0.1, 5); math.Abs(got-0.5) > 1e-15 {
		t.Errorf("up = %v", got)
	}
	if got := RateDelta(-1, 0.1, 0.2); math.Abs(got+0.02) > 1e-15 {
		t.Errorf("down = %v", got)
	}
	if RateDelta(0, 0.1, 1) != 0 {
		t.Error("zero direction should not change the rate")
	}
}

func newOptions() *SpawnOptions {
	return NewSpawnOptions(config.DefaultConfig().Spawn, config.DefaultSpeedModifierFactor)
}

func TestSpawnOptionsDefaults(t *testing.T) {
	o := newOptions()

	if o.Mode != ModeNone || o.Radius != 0.5 || o.Speed != 1 {
		t.Errorf("unexpected defaults %+v", o)
	}
	if o.Mass(0.5) != 1 {
		t.Errorf("default body should have unit mass, got %v", o.Mass(0.5))
	}
}

func TestSpawnOptionsSelect(t *testing.T) {
	o := newOptions()

	o.Select(ModeSize)
	if o.Mode != ModeSize {
		t.Fatalf("mode = %v", o.Mode)
	}
	o.Select(ModeSpeed)
	if o.Mode != ModeSpeed {
		t.Fatalf("mode = %v", o.Mode)
	}
	o.Select(ModeSpeed)
	if o.Mode != ModeSpeed {
		t.Errorf("reselecting should keep the mode, got %v", o.Mode)
	}
}

func TestSpawnOptionsScroll(t *testing.T) {
	tests := []struct {
		name       string
		mode       SpawnMode
		delta      float64
		modifier   float64
		wantRadius float64
		wantSpeed  float64
	}{
		{"no mode", ModeNone, 10, 1, 0.5, 1},
		{"grow", ModeSize, 2, 1, 0.6, 1},
		{"grow coarse", ModeSize, 2, 5, 1.0, 1},
		{"shrink to floor", ModeSize, -100, 1, 0.01, 1},
		{"grow to ceiling", ModeSize, 1000, 5, 5, 1},
		{"faster", ModeSpeed, 4, 1, 0.5, 1.2},
		{"speed floor", ModeSpeed, -100, 5, 0.5, 0},
		{"speed ceiling", ModeSpeed, 1000, 5, 0.5, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := newOptions()
			o.Mode = tt.mode
			o.Scroll(tt.delta, tt.modifier)

			if math.Abs(o.Radius-tt.wantRadius) > 1e-12 {
				t.Errorf("radius = %v, want %v", o.Radius, tt.wantRadius)
			}
			if math.Abs(o.Speed-tt.wantSpeed) > 1e-12 {
				t.Errorf("speed = %v, want %v", o.Speed, tt.wantSpeed)
			}
		})
	}
}

func TestSpawnOptionsFire(t *testing.T) {
	o := newOptions()
	o.Radius = 1
	o.Speed = 3
	o.Mode = ModeFire

	cmd, ok := o.Fire(mgl64.Vec3{1, 2, 3}, mgl64.Vec3{0, 0, -2}, 0.5)
	if !ok {
		t.Fatal("expected a spawn")
	}

	if cmd.Mass != 8 {
		t.Errorf("mass = %v, want 8", cmd.Mass)
	}
	want := mgl64.Vec3{1, 2, 3 - 2.01}
	for i := range want {
		if math.Abs(cmd.Position[i]-want[i]) > 1e-12 {
			t.Errorf("position = %v, want %v", cmd.Position, want)
		}
	}
	if cmd.Velocity != (mgl64.Vec3{0, 0, -3}) {
		t.Errorf("velocity = %v", cmd.Velocity)
	}
	if o.Mode != ModeNone {
		t.Errorf("mode after fire = %v", o.Mode)
	}
}

func TestSpawnOptionsFireWithoutDirection(t *testing.T) {
	o := newOptions()

	if _, ok := o.Fire(mgl64.Vec3{}, mgl64.Vec3{}, 0.5); ok {
		t.Error("zero forward should not spawn")
	}
	if _, ok := o.Fire(mgl64.Vec3{}, mgl64.Vec3{math.NaN(), 0, 0}, 0.5); ok {
		t.Error("NaN forward should not spawn")
	}
}

func TestSpawnModeString(t *testing.T) {
	for mode, want := range map[SpawnMode]string{ModeNone: "none", ModeSize: "size", ModeSpeed: "speed", ModeFire: "fire", SpawnMode(9): "unknown"} {
		if got := mode.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", mode, got, want)
		}
	}
}
