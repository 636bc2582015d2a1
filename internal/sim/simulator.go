package sim

import (
	"context"
	"fmt"
	"log"
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
)

// Simulator owns the body store and runs the per-tick pipeline:
// queued commands, clock, gravity, merges, purge.
//
// A Simulator is not safe for concurrent use. Requests from input or
// scripting go through Enqueue and take effect on the next Tick.
type Simulator struct {
	store    *dynamo.Store
	clock    *Clock
	engine   *physics.Engine
	resolver *physics.Resolver
	seed     []Spawn

	pending []Command
	tick    uint64
	time    float64

	metrics   []Metric
	observers []Observer
}

// New builds a Simulator and populates store with seed.
func New(store *dynamo.Store, clock *Clock, engine *physics.Engine, resolver *physics.Resolver, seed []Spawn) (*Simulator, error) {
	s := &Simulator{
		store:     store,
		clock:     clock,
		engine:    engine,
		resolver:  resolver,
		seed:      append([]Spawn(nil), seed...),
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
	if err := s.populate(s.seed); err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	return s, nil
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Clock() *Clock        { return s.clock }
func (s *Simulator) Store() *dynamo.Store { return s.store }
func (s *Simulator) Time() float64        { return s.time }
func (s *Simulator) BaseRadius() float64  { return s.resolver.BaseRadius }
func (s *Simulator) G() float64           { return s.engine.G }

// Enqueue schedules cmd for the next Tick.
func (s *Simulator) Enqueue(cmd Command) {
	s.pending = append(s.pending, cmd)
}

// Tick advances the world by realDt seconds of wall time scaled by the clock.
// While paused the bodies are left exactly as they are.
func (s *Simulator) Tick(realDt float64) Frame {
	errs := s.drain()

	dt := s.clock.Tick(realDt)
	var merges []physics.Merge
	if dt > 0 {
		bodies := s.store.Arena()
		s.engine.Step(bodies, dt)
		merges = s.resolver.Resolve(bodies)
	}
	s.store.Purge()

	s.time += dt
	s.tick++

	f := Frame{
		Tick:   s.tick,
		Time:   s.time,
		Dt:     dt,
		Bodies: s.store.Live(),
		Merges: merges,
		Errors: errs,
	}

	for _, m := range s.metrics {
		m.Observe(f)
	}
	for _, obs := range s.observers {
		obs.OnTick(f)
	}

	return f
}

// Snapshot returns the render view of every live body.
func (s *Simulator) Snapshot() []Sprite {
	live := s.store.Live()
	sprites := make([]Sprite, len(live))
	for i, b := range live {
		sprites[i] = Sprite{ID: b.ID, Position: b.Position, Radius: b.Radius(s.resolver.BaseRadius)}
	}
	return sprites
}

// Sample measures the conserved quantities of the current bodies.
func (s *Simulator) Sample() Sample {
	live := s.store.Live()
	return Sample{
		Time:     s.time,
		Live:     len(live),
		Mass:     physics.TotalMass(live),
		Momentum: physics.Momentum(live),
		Energy:   physics.Energy(live, s.engine.G),
	}
}

// Run ticks the simulator at a fixed step until cfg.Duration of real time has
// been fed to the clock.
func (s *Simulator) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	steps := stepCount(cfg)
	result := &Result{
		Times:   make([]float64, 0, steps+1),
		Samples: make([]Sample, 0, steps+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result.Times = append(result.Times, s.time)
	result.Samples = append(result.Samples, s.Sample())

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.collect(result)
			return result, ctx.Err()
		default:
		}

		f := s.Tick(cfg.Dt)
		result.StepsTaken++
		result.Merges += len(f.Merges)
		result.Errors = append(result.Errors, f.Errors...)

		if cfg.ValidateState && !physics.Finite(f.Bodies) {
			result.Errors = append(result.Errors, SimError{Time: f.Time, Step: i, Message: "invalid state (NaN/Inf)"})
			break
		}

		result.Times = append(result.Times, f.Time)
		result.Samples = append(result.Samples, s.Sample())
	}

	s.collect(result)
	return result, nil
}

// RunWithCallback ticks like Run and hands every frame to callback, stopping
// early when it returns false. Commands enqueued by callback apply on the
// following tick.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg RunConfig, callback func(Frame) bool) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	steps := stepCount(cfg)
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		f := s.Tick(cfg.Dt)

		if cfg.ValidateState && !physics.Finite(f.Bodies) {
			return SimError{Time: f.Time, Step: i, Message: "invalid state (NaN/Inf)"}
		}

		if !callback(f) {
			return nil
		}
	}

	return nil
}

func (s *Simulator) collect(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (s *Simulator) drain() []error {
	if len(s.pending) == 0 {
		return nil
	}

	cmds := s.pending
	s.pending = nil

	var errs []error
	for _, cmd := range cmds {
		if err := cmd.apply(s); err != nil {
			log.Printf("sim: rejected %T: %v", cmd, err)
			errs = append(errs, err)
		}
	}
	return errs
}

func (s *Simulator) populate(bodies []Spawn) error {
	for i, b := range bodies {
		if _, err := s.store.Create(b.Mass, b.Position, b.Velocity); err != nil {
			return fmt.Errorf("body %d: %w", i, err)
		}
	}
	return nil
}

func (c Spawn) apply(s *Simulator) error {
	_, err := s.store.Create(c.Mass, c.Position, c.Velocity)
	return err
}

func (c Despawn) apply(s *Simulator) error {
	return s.store.Destroy(c.ID)
}

func (c Reset) apply(s *Simulator) error {
	bodies := c.Bodies
	if len(bodies) == 0 {
		bodies = s.seed
	}
	s.store.Reset()
	log.Printf("sim: reset with %d bodies", len(bodies))
	return s.populate(bodies)
}

func stepCount(cfg RunConfig) int {
	return int(math.Floor(cfg.Duration/cfg.Dt + 1e-9))
}
