package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.GravityConstant != 8 {
		t.Errorf("expected G 8, got %v", cfg.GravityConstant)
	}
	if cfg.MinRate != 0.02 || cfg.MaxRate != 10 {
		t.Errorf("expected rate bounds 0.02..10, got %v..%v", cfg.MinRate, cfg.MaxRate)
	}
	if len(cfg.Bodies) != 2 {
		t.Errorf("expected the binary seed, got %d bodies", len(cfg.Bodies))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestDefaultConfigDoesNotAliasPresets(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bodies[0].Mass = 99

	if Presets[DefaultPreset][0].Mass == 99 {
		t.Error("editing the config changed the preset")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero G", func(c *Config) { c.GravityConstant = 0 }, "gravity_constant"},
		{"NaN G", func(c *Config) { c.GravityConstant = math.NaN() }, "gravity_constant"},
		{"negative radius", func(c *Config) { c.BaseSphereRadius = -1 }, "base_sphere_radius"},
		{"zero min rate", func(c *Config) { c.MinRate = 0 }, "min_rate"},
		{"inverted rates", func(c *Config) { c.MaxRate = 0.01 }, "max_rate"},
		{"small modifier", func(c *Config) { c.SpeedModifierFactor = 0.5 }, "speed_modifier_factor"},
		{"spawn radius above max", func(c *Config) { c.Spawn.MaxRadius = 0.1 }, "spawn.max_radius"},
		{"negative spawn speed", func(c *Config) { c.Spawn.Speed = -1 }, "spawn.speed"},
		{"zero camera speed", func(c *Config) { c.Camera.Speed = 0 }, "camera.speed"},
		{"zero dt", func(c *Config) { c.Run.Dt = 0 }, "run.dt"},
		{"negative mass", func(c *Config) { c.Bodies[1].Mass = -2 }, "bodies[1].mass"},
		{"infinite position", func(c *Config) { c.Bodies[0].Position[2] = math.Inf(1) }, "bodies[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not mention %s", err, tt.field)
			}
		})
	}
}

func TestValidateReportsEveryField(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GravityConstant = -1
	cfg.Run.Duration = 0
	cfg.Camera.Sensitivity = 0

	err := cfg.Validate()
	for _, field := range []string{"gravity_constant", "run.duration", "camera.sensitivity"} {
		if err == nil || !strings.Contains(err.Error(), field) {
			t.Errorf("expected %s in %v", field, err)
		}
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gravsim.yaml")
	data := `
gravity_constant: 2
spawn:
  speed: 3
bodies:
  - mass: 4
    position: [1, 2, 3]
    velocity: [0, 0, -1]
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.GravityConstant != 2 {
		t.Errorf("G = %v, want 2", cfg.GravityConstant)
	}
	if cfg.Spawn.Speed != 3 || cfg.Spawn.MaxSpeed != DefaultMaxSpawnSpeed {
		t.Errorf("spawn = %+v", cfg.Spawn)
	}
	if cfg.BaseSphereRadius != DefaultBaseSphereRadius {
		t.Errorf("base radius lost its default: %v", cfg.BaseSphereRadius)
	}
	if len(cfg.Bodies) != 1 || cfg.Bodies[0].Position != (Vec{1, 2, 3}) || cfg.Bodies[0].Velocity.Vec3()[2] != -1 {
		t.Errorf("bodies = %+v", cfg.Bodies)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("max_rate: 0.001\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := DefaultConfig()
	cfg.Bodies, _ = GetPreset("ring")

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Bodies) != len(cfg.Bodies) {
		t.Errorf("expected %d bodies, got %d", len(cfg.Bodies), len(loaded.Bodies))
	}
}
