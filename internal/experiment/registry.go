package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/sim"
)

// StabilityRadius is the distance from the centre of mass beyond which a
// body counts as escaping.
const StabilityRadius = 50.0

// Registry maps metric names to constructors.
type Registry struct {
	metrics map[string]func(cfg *config.Config) sim.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		metrics: make(map[string]func(cfg *config.Config) sim.Metric),
	}

	r.metrics["energy"] = func(cfg *config.Config) sim.Metric { return metrics.NewEnergy(cfg.GravityConstant) }
	r.metrics["energy_drift"] = func(cfg *config.Config) sim.Metric { return metrics.NewEnergyDrift(cfg.GravityConstant) }
	r.metrics["mass_drift"] = func(*config.Config) sim.Metric { return metrics.NewMassDrift() }
	r.metrics["momentum_drift"] = func(*config.Config) sim.Metric { return metrics.NewMomentumDrift() }
	r.metrics["merges"] = func(*config.Config) sim.Metric { return metrics.NewMergeCount() }
	r.metrics["stability"] = func(*config.Config) sim.Metric { return metrics.NewStability(StabilityRadius) }

	return r
}

func (r *Registry) GetMetric(name string, cfg *config.Config) (sim.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(cfg), nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns a fresh instance of every registered metric.
func (r *Registry) DefaultMetrics(cfg *config.Config) []sim.Metric {
	names := r.ListMetrics()
	ms := make([]sim.Metric, 0, len(names))
	for _, name := range names {
		ms = append(ms, r.metrics[name](cfg))
	}
	return ms
}
