package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

const (
	DefaultGravityConstant     = 8.0
	DefaultBaseSphereRadius    = 0.5
	DefaultMinRate             = 0.02
	DefaultMaxRate             = 10.0
	DefaultRateSensitivity     = 0.1
	DefaultSpeedModifierFactor = 5.0

	DefaultSpawnRadius      = DefaultBaseSphereRadius
	DefaultSpawnSpeed       = 1.0
	DefaultSizeSensitivity  = 0.05
	DefaultSpeedSensitivity = 0.05
	DefaultMaxSpawnRadius   = 5.0
	DefaultMaxSpawnSpeed    = 20.0

	DefaultCameraSpeed       = 5.0
	DefaultCameraSensitivity = 0.002

	DefaultDt       = 0.01
	DefaultDuration = 10.0
)

var ErrInvalidConfig = errors.New("config: invalid value")

type Config struct {
	GravityConstant     float64      `yaml:"gravity_constant"`
	BaseSphereRadius    float64      `yaml:"base_sphere_radius"`
	MinRate             float64      `yaml:"min_rate"`
	MaxRate             float64      `yaml:"max_rate"`
	RateSensitivity     float64      `yaml:"rate_sensitivity"`
	SpeedModifierFactor float64      `yaml:"speed_modifier_factor"`
	Spawn               SpawnConfig  `yaml:"spawn"`
	Camera              CameraConfig `yaml:"camera"`
	Run                 RunConfig    `yaml:"run"`
	Bodies              []BodyConfig `yaml:"bodies"`
}

type SpawnConfig struct {
	Radius           float64 `yaml:"radius"`
	Speed            float64 `yaml:"speed"`
	SizeSensitivity  float64 `yaml:"size_sensitivity"`
	SpeedSensitivity float64 `yaml:"speed_sensitivity"`
	MaxRadius        float64 `yaml:"max_radius"`
	MaxSpeed         float64 `yaml:"max_speed"`
}

type CameraConfig struct {
	Speed       float64 `yaml:"speed"`
	Sensitivity float64 `yaml:"sensitivity"`
}

type RunConfig struct {
	Dt       float64 `yaml:"dt"`
	Duration float64 `yaml:"duration"`
}

// Vec is a 3-vector written as a YAML flow sequence.
type Vec [3]float64

func (v Vec) Vec3() mgl64.Vec3 { return mgl64.Vec3(v) }

type BodyConfig struct {
	Mass     float64 `yaml:"mass"`
	Position Vec     `yaml:"position,flow"`
	Velocity Vec     `yaml:"velocity,flow"`
}

func DefaultConfig() *Config {
	bodies, _ := GetPreset(DefaultPreset)
	return &Config{
		GravityConstant:     DefaultGravityConstant,
		BaseSphereRadius:    DefaultBaseSphereRadius,
		MinRate:             DefaultMinRate,
		MaxRate:             DefaultMaxRate,
		RateSensitivity:     DefaultRateSensitivity,
		SpeedModifierFactor: DefaultSpeedModifierFactor,
		Spawn: SpawnConfig{
			Radius:           DefaultSpawnRadius,
			Speed:            DefaultSpawnSpeed,
			SizeSensitivity:  DefaultSizeSensitivity,
			SpeedSensitivity: DefaultSpeedSensitivity,
			MaxRadius:        DefaultMaxSpawnRadius,
			MaxSpeed:         DefaultMaxSpawnSpeed,
		},
		Camera: CameraConfig{
			Speed:       DefaultCameraSpeed,
			Sensitivity: DefaultCameraSensitivity,
		},
		Run: RunConfig{
			Dt:       DefaultDt,
			Duration: DefaultDuration,
		},
		Bodies: bodies,
	}
}

// Load reads a YAML file over DefaultConfig and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports every invalid field, each wrapping ErrInvalidConfig.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, field string, v float64, want string) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s must be %s, got %g", ErrInvalidConfig, field, want, v))
		}
	}

	check(positive(c.GravityConstant), "gravity_constant", c.GravityConstant, "positive")
	check(positive(c.BaseSphereRadius), "base_sphere_radius", c.BaseSphereRadius, "positive")
	check(positive(c.MinRate), "min_rate", c.MinRate, "positive")
	check(finite(c.MaxRate) && c.MaxRate >= c.MinRate, "max_rate", c.MaxRate, "at least min_rate")
	check(positive(c.RateSensitivity), "rate_sensitivity", c.RateSensitivity, "positive")
	check(finite(c.SpeedModifierFactor) && c.SpeedModifierFactor >= 1, "speed_modifier_factor", c.SpeedModifierFactor, "at least 1")

	s := c.Spawn
	check(positive(s.Radius), "spawn.radius", s.Radius, "positive")
	check(finite(s.Speed) && s.Speed >= 0, "spawn.speed", s.Speed, "non-negative")
	check(positive(s.SizeSensitivity), "spawn.size_sensitivity", s.SizeSensitivity, "positive")
	check(positive(s.SpeedSensitivity), "spawn.speed_sensitivity", s.SpeedSensitivity, "positive")
	check(finite(s.MaxRadius) && s.MaxRadius >= s.Radius, "spawn.max_radius", s.MaxRadius, "at least spawn.radius")
	check(finite(s.MaxSpeed) && s.MaxSpeed >= s.Speed, "spawn.max_speed", s.MaxSpeed, "at least spawn.speed")

	check(positive(c.Camera.Speed), "camera.speed", c.Camera.Speed, "positive")
	check(positive(c.Camera.Sensitivity), "camera.sensitivity", c.Camera.Sensitivity, "positive")

	check(positive(c.Run.Dt), "run.dt", c.Run.Dt, "positive")
	check(positive(c.Run.Duration), "run.duration", c.Run.Duration, "positive")

	for i, b := range c.Bodies {
		check(finite(b.Mass) && b.Mass >= 0, fmt.Sprintf("bodies[%d].mass", i), b.Mass, "non-negative")
		if !b.Position.finite() || !b.Velocity.finite() {
			errs = append(errs, fmt.Errorf("%w: bodies[%d] has a non-finite vector", ErrInvalidConfig, i))
		}
	}

	return errors.Join(errs...)
}

func (v Vec) finite() bool {
	for _, c := range v {
		if !finite(c) {
			return false
		}
	}
	return true
}

func finite(v float64) bool   { return !math.IsNaN(v) && !math.IsInf(v, 0) }
func positive(v float64) bool { return finite(v) && v > 0 }
