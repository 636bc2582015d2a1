package sim

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
)

// Command is a state change requested from outside the tick. Commands are
// queued and applied at the start of the next Tick.
type Command interface {
	apply(s *Simulator) error
}

// Spawn creates a body.
type Spawn struct {
	Mass     float64
	Position mgl64.Vec3
	Velocity mgl64.Vec3
}

// Despawn removes a body.
type Despawn struct {
	ID dynamo.ID
}

// Reset replaces every body. An empty Bodies restores the simulator's seed.
type Reset struct {
	Bodies []Spawn
}

// Frame describes the world after one tick.
type Frame struct {
	Tick   uint64
	Time   float64
	Dt     float64
	Bodies []dynamo.Body
	Merges []physics.Merge
	Errors []error
}

// Sprite is the render view of a body.
type Sprite struct {
	ID       dynamo.ID
	Position mgl64.Vec3
	Radius   float64
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnTick(f Frame)
}

// RunConfig drives a headless fixed-step run. Each tick feeds Dt seconds of
// real time to the clock.
type RunConfig struct {
	Dt            float64
	Duration      float64
	ValidateState bool
}

func DefaultRunConfig() RunConfig {
	return RunConfig{Dt: 0.01, Duration: 10, ValidateState: true}
}

// Validate reports every problem with the configuration.
func (c RunConfig) Validate() error {
	var errs []error
	if !(c.Dt > 0) {
		errs = append(errs, fmt.Errorf("dt must be positive, got %g", c.Dt))
	}
	if !(c.Duration > 0) {
		errs = append(errs, fmt.Errorf("duration must be positive, got %g", c.Duration))
	}
	return errors.Join(errs...)
}

// Sample is a diagnostics snapshot of the conserved quantities.
type Sample struct {
	Time     float64
	Live     int
	Mass     float64
	Momentum mgl64.Vec3
	Energy   float64
}

type Result struct {
	Times      []float64
	Samples    []Sample
	Metrics    map[string]float64
	Merges     int
	StepsTaken int
	Errors     []error
}

// SimError reports a fault detected during a run.
type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}
