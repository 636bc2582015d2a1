package sim

import (
	"context"
	"sync"
)

// Ensemble runs independent simulators side by side, one goroutine each.
// The simulators must not share a store, clock or metrics.
type Ensemble struct {
	sims []*Simulator
}

func NewEnsemble(sims ...*Simulator) *Ensemble {
	return &Ensemble{sims: sims}
}

// Run runs every member with cfg and returns the results in member order.
// The first member error is returned after all members finish.
func (e *Ensemble) Run(ctx context.Context, cfg RunConfig) ([]*Result, error) {
	results := make([]*Result, len(e.sims))
	errs := make([]error, len(e.sims))

	var wg sync.WaitGroup
	for i, s := range e.sims {
		wg.Add(1)
		go func(idx int, s *Simulator) {
			defer wg.Done()
			results[idx], errs[idx] = s.Run(ctx, cfg)
		}(i, s)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}

	return results, nil
}
