package sim

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/eulerode/internal/ode"
)

// Factory builds the stepper for run i of an ensemble.
type Factory func(i int) (ode.Stepper, error)

// Ensemble runs independent problems concurrently, one stepper per goroutine.
type Ensemble struct {
	factory Factory
	numRuns int
	limit   int
	metrics func(i int) []Metric
}

func NewEnsemble(factory Factory, numRuns int) *Ensemble {
	return &Ensemble{factory: factory, numRuns: numRuns}
}

// SetLimit bounds the number of runs in flight. Zero or less means no limit.
func (e *Ensemble) SetLimit(n int) { e.limit = n }

// SetMetrics installs fresh metrics for each run.
func (e *Ensemble) SetMetrics(fn func(i int) []Metric) { e.metrics = fn }

// Run returns results in run order. The first construction or driver error
// cancels the remaining runs.
func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	if e.limit > 0 {
		g.SetLimit(e.limit)
	}

	for i := 0; i < e.numRuns; i++ {
		g.Go(func() error {
			stepper, err := e.factory(i)
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}

			s := New(stepper)
			if e.metrics != nil {
				for _, m := range e.metrics(i) {
					s.AddMetric(m)
				}
			}

			res, err := s.Run(ctx, cfg)
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
