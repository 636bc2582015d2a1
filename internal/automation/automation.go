package automation

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/sim"
	"gopkg.in/yaml.v3"
)

// Event actions.
const (
	ActionSpawn   = "spawn"
	ActionDespawn = "despawn"
	ActionReset   = "reset"
	ActionPause   = "pause"
	ActionResume  = "resume"
	ActionRate    = "rate"
)

// Scenario defines a scripted simulation run
type Scenario struct {
	Name        string              `yaml:"name"`
	Description string              `yaml:"description"`
	Preset      string              `yaml:"preset"`
	Bodies      []config.BodyConfig `yaml:"bodies"`
	Dt          float64             `yaml:"dt"`
	Duration    float64             `yaml:"duration"`
	Events      []Event             `yaml:"events"`
	SaveAs      string              `yaml:"save_as"`
}

// Event is a request issued once the run has been going for At seconds of
// wall time. Wall time keeps counting while the clock is paused.
type Event struct {
	At       float64    `yaml:"at"`
	Action   string     `yaml:"action"`
	Mass     float64    `yaml:"mass,omitempty"`
	Position config.Vec `yaml:"position,flow,omitempty"`
	Velocity config.Vec `yaml:"velocity,flow,omitempty"`
	ID       uint64     `yaml:"id,omitempty"`
	Rate     float64    `yaml:"rate,omitempty"`
	Preset   string     `yaml:"preset,omitempty"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}

	return &scenario, nil
}

// Config applies the scenario's overrides to a copy of base.
func (sc *Scenario) Config(base *config.Config) (*config.Config, error) {
	cfg := clone(base)

	if sc.Preset != "" {
		bodies, ok := config.GetPreset(sc.Preset)
		if !ok {
			return nil, fmt.Errorf("unknown preset: %s", sc.Preset)
		}
		cfg.Bodies = bodies
	}
	if len(sc.Bodies) > 0 {
		cfg.Bodies = append([]config.BodyConfig(nil), sc.Bodies...)
	}
	if sc.Dt > 0 {
		cfg.Run.Dt = sc.Dt
	}
	if sc.Duration > 0 {
		cfg.Run.Duration = sc.Duration
	}

	for i, ev := range sc.Events {
		if err := ev.validate(); err != nil {
			return nil, fmt.Errorf("event %d: %w", i+1, err)
		}
	}

	return cfg, cfg.Validate()
}

// RunScenario executes the scenario against base and returns the run result.
func RunScenario(ctx context.Context, scenario *Scenario, base *config.Config, registry *experiment.Registry) (*sim.Result, error) {
	cfg, err := scenario.Config(base)
	if err != nil {
		return nil, err
	}

	exp, err := experiment.New(cfg)
	if err != nil {
		return nil, err
	}
	exp.Setup(registry.DefaultMetrics(cfg))

	sched := newScheduler(exp.Simulator(), scenario.Events, cfg.Run.Dt)
	exp.Simulator().AddObserver(sched)
	sched.fire(0)

	log.Printf("automation: running %q with %d events", scenario.Name, len(scenario.Events))
	result, err := exp.Run(ctx)
	if err != nil {
		return result, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	return result, nil
}

func (ev Event) validate() error {
	switch ev.Action {
	case ActionSpawn:
		if math.IsNaN(ev.Mass) || ev.Mass < 0 {
			return fmt.Errorf("spawn mass must be non-negative, got %g", ev.Mass)
		}
	case ActionDespawn:
		if ev.ID == 0 {
			return fmt.Errorf("despawn needs an id")
		}
	case ActionReset:
		if ev.Preset != "" {
			if _, ok := config.GetPreset(ev.Preset); !ok {
				return fmt.Errorf("unknown preset: %s", ev.Preset)
			}
		}
	case ActionPause, ActionResume:
	case ActionRate:
		if !(ev.Rate > 0) {
			return fmt.Errorf("rate must be positive, got %g", ev.Rate)
		}
	default:
		return fmt.Errorf("unknown action: %q", ev.Action)
	}
	if ev.At < 0 || math.IsNaN(ev.At) {
		return fmt.Errorf("time must be non-negative, got %g", ev.At)
	}
	return nil
}

// scheduler issues events as the run's wall time passes them. Body commands
// are queued and take effect on the following tick; clock actions apply at
// once.
type scheduler struct {
	sim    *sim.Simulator
	events []Event
	next   int
	dt     float64
	ticks  int
}

func newScheduler(s *sim.Simulator, events []Event, dt float64) *scheduler {
	sorted := append([]Event(nil), events...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].At < sorted[j].At })
	return &scheduler{sim: s, events: sorted, dt: dt}
}

func (s *scheduler) OnTick(f sim.Frame) {
	s.ticks++
	s.fire(float64(s.ticks) * s.dt)
}

func (s *scheduler) fire(now float64) {
	for s.next < len(s.events) && s.events[s.next].At <= now+1e-9 {
		ev := s.events[s.next]
		s.next++
		log.Printf("automation: t=%.3f %s", now, ev.Action)

		switch ev.Action {
		case ActionSpawn:
			s.sim.Enqueue(sim.Spawn{Mass: ev.Mass, Position: ev.Position.Vec3(), Velocity: ev.Velocity.Vec3()})
		case ActionDespawn:
			s.sim.Enqueue(sim.Despawn{ID: dynamo.ID(ev.ID)})
		case ActionReset:
			var bodies []sim.Spawn
			if ev.Preset != "" {
				preset, _ := config.GetPreset(ev.Preset)
				bodies = experiment.Seed(preset)
			}
			s.sim.Enqueue(sim.Reset{Bodies: bodies})
		case ActionPause:
			s.sim.Clock().Pause()
		case ActionResume:
			s.sim.Clock().Resume()
		case ActionRate:
			s.sim.Clock().SetRate(ev.Rate)
		}
	}
}

// ParameterSweep runs the same configuration across a range of values of one
// physical parameter.
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

// SweepResult holds results from one sweep point
type SweepResult struct {
	ParamValue  float64
	FinalLive   int
	Merges      int
	EnergyDrift float64
}

// Sweepable lists the parameters RunSweep accepts.
var Sweepable = []string{"gravity_constant", "base_sphere_radius"}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry) ([]SweepResult, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sweep.NumSteps)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	paramStep := (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		cfg := clone(sweep.Base)
		switch sweep.ParamName {
		case "gravity_constant":
			cfg.GravityConstant = paramVal
		case "base_sphere_radius":
			cfg.BaseSphereRadius = paramVal
		default:
			return nil, fmt.Errorf("parameter %s cannot be swept", sweep.ParamName)
		}

		exp, err := experiment.New(cfg)
		if err != nil {
			return results, fmt.Errorf("%s=%g: %w", sweep.ParamName, paramVal, err)
		}
		drift, err := registry.GetMetric("energy_drift", cfg)
		if err != nil {
			return results, err
		}
		exp.Setup([]sim.Metric{drift})

		result, err := exp.Run(ctx)
		if err != nil {
			return results, err
		}

		results = append(results, SweepResult{
			ParamValue:  paramVal,
			FinalLive:   result.Samples[len(result.Samples)-1].Live,
			Merges:      result.Merges,
			EnergyDrift: result.Metrics["energy_drift"],
		})

		log.Printf("automation: sweep %d/%d: %s=%.4f", i+1, sweep.NumSteps, sweep.ParamName, paramVal)
	}

	return results, nil
}

// MonteCarloConfig defines Monte Carlo simulation parameters
type MonteCarloConfig struct {
	Base         *config.Config
	Perturbation float64
	NumTrials    int
	Seed         int64
}

// MonteCarloResult holds the outcome of one perturbed trial
type MonteCarloResult struct {
	TrialID   int
	Bodies    []config.BodyConfig
	FinalLive int
	Merges    int
	Stable    bool // every body stayed near the centre of mass
}

// RunMonteCarlo runs trials with randomly perturbed seed positions and
// velocities. Trials run concurrently.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, registry *experiment.Registry) ([]MonteCarloResult, error) {
	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	trials := make([]*config.Config, cfg.NumTrials)
	sims := make([]*sim.Simulator, cfg.NumTrials)
	for trial := range trials {
		tc := clone(cfg.Base)
		for i := range tc.Bodies {
			for k := 0; k < 3; k++ {
				tc.Bodies[i].Position[k] += (rng.Float64() - 0.5) * 2 * cfg.Perturbation
				tc.Bodies[i].Velocity[k] += (rng.Float64() - 0.5) * 2 * cfg.Perturbation
			}
		}

		s, err := experiment.Build(tc)
		if err != nil {
			return nil, fmt.Errorf("trial %d: %w", trial, err)
		}
		stability, err := registry.GetMetric("stability", tc)
		if err != nil {
			return nil, err
		}
		s.AddMetric(stability)

		trials[trial] = tc
		sims[trial] = s
	}

	runCfg := sim.RunConfig{Dt: cfg.Base.Run.Dt, Duration: cfg.Base.Run.Duration, ValidateState: true}
	runs, err := sim.NewEnsemble(sims...).Run(ctx, runCfg)
	if err != nil {
		return nil, err
	}

	results := make([]MonteCarloResult, 0, cfg.NumTrials)
	for trial, r := range runs {
		results = append(results, MonteCarloResult{
			TrialID:   trial,
			Bodies:    trials[trial].Bodies,
			FinalLive: r.Samples[len(r.Samples)-1].Live,
			Merges:    r.Merges,
			Stable:    len(r.Errors) == 0 && r.Metrics["stability"] == 1,
		})
	}
	log.Printf("automation: monte carlo: %d trials complete", cfg.NumTrials)

	return results, nil
}

// MonteCarloStats computes summary statistics from Monte Carlo results
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}

func clone(cfg *config.Config) *config.Config {
	c := *cfg
	c.Bodies = append([]config.BodyConfig(nil), cfg.Bodies...)
	return &c
}
