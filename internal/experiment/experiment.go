package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/sim"
)

// Experiment is a simulator built from a validated configuration.
type Experiment struct {
	cfg       *config.Config
	simulator *sim.Simulator
}

func New(cfg *config.Config) (*Experiment, error) {
	s, err := Build(cfg)
	if err != nil {
		return nil, err
	}
	return &Experiment{cfg: cfg, simulator: s}, nil
}

// Build validates cfg and wires a store, clock, engine and resolver into a
// simulator seeded with cfg.Bodies.
func Build(cfg *config.Config) (*sim.Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s, err := sim.New(
		dynamo.NewStore(),
		sim.NewClock(cfg.MinRate, cfg.MaxRate),
		physics.NewEngine(cfg.GravityConstant),
		physics.NewResolver(cfg.BaseSphereRadius),
		Seed(cfg.Bodies),
	)
	if err != nil {
		return nil, fmt.Errorf("build simulator: %w", err)
	}
	return s, nil
}

// Seed converts configured bodies into spawn commands.
func Seed(bodies []config.BodyConfig) []sim.Spawn {
	spawns := make([]sim.Spawn, len(bodies))
	for i, b := range bodies {
		spawns[i] = sim.Spawn{Mass: b.Mass, Position: b.Position.Vec3(), Velocity: b.Velocity.Vec3()}
	}
	return spawns
}

func (e *Experiment) Setup(metrics []sim.Metric) {
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}
}

// Run runs the simulator headless with the configured step and duration.
func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	return e.simulator.Run(ctx, e.RunConfig())
}

func (e *Experiment) RunConfig() sim.RunConfig {
	return sim.RunConfig{
		Dt:            e.cfg.Run.Dt,
		Duration:      e.cfg.Run.Duration,
		ValidateState: true,
	}
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// Simulator returns the underlying simulator for adding observers.
func (e *Experiment) Simulator() *sim.Simulator {
	return e.simulator
}
