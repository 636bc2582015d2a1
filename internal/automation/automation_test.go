package automation

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/experiment"
)

const script = `
name: collide
description: drop a heavy body between the pair
preset: binary
dt: 0.01
duration: 2
events:
  - at: 0.5
    action: pause
  - at: 0
    action: spawn
    mass: 8
    position: [0, 0, 0]
  - at: 1.0
    action: resume
  - at: 1.0
    action: rate
    rate: 2
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, script))
	if err != nil {
		t.Fatalf("LoadScenario: %v", err)
	}

	if sc.Name != "collide" || sc.Preset != "binary" || len(sc.Events) != 4 {
		t.Errorf("unexpected scenario %+v", sc)
	}
	if sc.Events[1].Mass != 8 || sc.Events[3].Rate != 2 {
		t.Errorf("event fields not decoded: %+v", sc.Events)
	}
}

func TestRunScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, script))
	if err != nil {
		t.Fatal(err)
	}

	result, err := RunScenario(context.Background(), sc, config.DefaultConfig(), experiment.NewRegistry())
	if err != nil {
		t.Fatalf("RunScenario: %v", err)
	}

	if result.StepsTaken != 200 {
		t.Errorf("expected 200 steps, got %d", result.StepsTaken)
	}
	if result.Samples[1].Live != 3 {
		t.Errorf("spawn at t=0 should land on the first tick, got %d bodies", result.Samples[1].Live)
	}

	// paused from wall time 0.5 to 1.0, then double rate for 1.0
	final := result.Times[len(result.Times)-1]
	if final < 2.49 || final > 2.51 {
		t.Errorf("expected about 2.5 simulated seconds, got %v", final)
	}
	if result.Metrics["mass_drift"] > 1e-12 {
		t.Errorf("mass drifted: %v", result.Metrics["mass_drift"])
	}
}

func TestScenarioConfigRejectsBadEvents(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		want  string
	}{
		{"unknown action", Event{Action: "explode"}, "unknown action"},
		{"negative mass", Event{Action: ActionSpawn, Mass: -1}, "mass"},
		{"despawn without id", Event{Action: ActionDespawn}, "id"},
		{"zero rate", Event{Action: ActionRate}, "rate"},
		{"negative time", Event{At: -1, Action: ActionPause}, "time"},
		{"unknown preset", Event{Action: ActionReset, Preset: "nope"}, "preset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := &Scenario{Events: []Event{tt.event}}
			_, err := sc.Config(config.DefaultConfig())
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestScenarioConfigDoesNotMutateBase(t *testing.T) {
	base := config.DefaultConfig()
	sc := &Scenario{Preset: "ring", Dt: 0.005}

	cfg, err := sc.Config(base)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Run.Dt != 0.005 || len(cfg.Bodies) != 9 {
		t.Errorf("overrides not applied: dt=%v bodies=%d", cfg.Run.Dt, len(cfg.Bodies))
	}
	if base.Run.Dt != config.DefaultDt || len(base.Bodies) != 2 {
		t.Error("base config was modified")
	}
}

func TestResetEventUsesPreset(t *testing.T) {
	sc := &Scenario{
		Preset:   "binary",
		Dt:       0.01,
		Duration: 0.1,
		Events:   []Event{{At: 0.05, Action: ActionReset, Preset: "triple"}},
	}

	result, err := RunScenario(context.Background(), sc, config.DefaultConfig(), experiment.NewRegistry())
	if err != nil {
		t.Fatal(err)
	}

	if got := result.Samples[len(result.Samples)-1].Live; got != 3 {
		t.Errorf("expected the triple preset after reset, got %d bodies", got)
	}
}

func TestRunSweep(t *testing.T) {
	base := config.DefaultConfig()
	base.Run.Duration = 0.5

	results, err := RunSweep(context.Background(), &ParameterSweep{
		Base:      base,
		ParamName: "gravity_constant",
		ParamMin:  4,
		ParamMax:  8,
		NumSteps:  3,
	}, experiment.NewRegistry())
	if err != nil {
		t.Fatalf("RunSweep: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[1].ParamValue != 6 {
		t.Errorf("expected midpoint 6, got %v", results[1].ParamValue)
	}
	if base.GravityConstant != config.DefaultGravityConstant {
		t.Error("sweep modified the base config")
	}

	if _, err := RunSweep(context.Background(), &ParameterSweep{Base: base, ParamName: "max_rate", NumSteps: 2}, experiment.NewRegistry()); err == nil {
		t.Error("expected error for unsweepable parameter")
	}
}

func TestRunMonteCarlo(t *testing.T) {
	base := config.DefaultConfig()
	base.Run.Duration = 0.5

	results, err := RunMonteCarlo(context.Background(), &MonteCarloConfig{
		Base:         base,
		Perturbation: 0.01,
		NumTrials:    4,
		Seed:         7,
	}, experiment.NewRegistry())
	if err != nil {
		t.Fatalf("RunMonteCarlo: %v", err)
	}

	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	stable, unstable := MonteCarloStats(results)
	if stable != 4 || unstable != 0 {
		t.Errorf("small perturbations of the binary should stay bound: %d stable, %d unstable", stable, unstable)
	}
	if results[0].Bodies[0].Position == base.Bodies[0].Position {
		t.Error("trial bodies were not perturbed")
	}
}
