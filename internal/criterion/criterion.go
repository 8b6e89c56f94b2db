// Package criterion computes the indirect-inference Wald distance between the
// observed auxiliary fit and the average auxiliary fit on simulated data.
package criterion

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/tensorplex-labs/indirect/internal/dataset"
	"github.com/tensorplex-labs/indirect/internal/noise"
	"github.com/tensorplex-labs/indirect/internal/regression"
	"github.com/tensorplex-labs/indirect/internal/structural"
)

type Evaluator struct {
	sample   *dataset.Sample
	draws    *noise.Draws
	observed []float64 // beta-hat, fixed for the run
	workers  int

	evaluations atomic.Int64
	overflows   atomic.Int64
}

type EvaluatorOption func(*Evaluator)

// WithWorkers bounds the number of concurrent simulate+fit tasks. Values < 1
// fall back to GOMAXPROCS.
func WithWorkers(workers int) EvaluatorOption {
	return func(e *Evaluator) {
		e.workers = workers
	}
}

// NewEvaluator fits the auxiliary model to the observed sample once and
// returns an evaluator bound to the sample and the frozen draws.
func NewEvaluator(sample *dataset.Sample, draws *noise.Draws, opts ...EvaluatorOption) (*Evaluator, error) {
	if sample == nil || draws == nil {
		return nil, fmt.Errorf("sample and draws are required")
	}

	rows, _ := draws.Dims()
	if rows != sample.Len() {
		return nil, fmt.Errorf("draws have %d rows, sample has %d observations", rows, sample.Len())
	}

	observed, err := regression.Fit(sample.X, sample.Y, true)
	if err != nil {
		return nil, fmt.Errorf("observed auxiliary fit: %w", err)
	}
	for i, v := range observed {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("observed auxiliary fit: coefficient %d is %g", i, v)
		}
	}

	e := &Evaluator{
		sample:   sample,
		draws:    draws,
		observed: observed,
		workers:  runtime.GOMAXPROCS(0),
	}

	for _, opt := range opts {
		opt(e)
	}
	if e.workers < 1 {
		e.workers = runtime.GOMAXPROCS(0)
	}

	log.Debug().
		Int("observations", sample.Len()).
		Int("simulations", draws.Simulations()).
		Int("workers", e.workers).
		Floats64("observed_aux", observed).
		Msg("criterion evaluator ready")

	return e, nil
}

// Observed returns a copy of the observed auxiliary estimate.
func (e *Evaluator) Observed() []float64 {
	return append([]float64(nil), e.observed...)
}

// Dim returns the length of the parameter vector.
func (e *Evaluator) Dim() int {
	return len(e.observed)
}

// Evaluations returns the number of Evaluate calls so far.
func (e *Evaluator) Evaluations() int64 {
	return e.evaluations.Load()
}

// Overflows returns the number of evaluations mapped to +Inf by overflow.
func (e *Evaluator) Overflows() int64 {
	return e.overflows.Load()
}

// AuxiliaryAverage simulates M responses at theta, fits the auxiliary model
// to each and returns the element-wise mean.
func (e *Evaluator) AuxiliaryAverage(ctx context.Context, theta []float64) ([]float64, error) {
	if len(theta) != len(e.observed) {
		return nil, fmt.Errorf("theta has %d components, want %d", len(theta), len(e.observed))
	}

	simulations := e.draws.Simulations()
	estimates := make([][]float64, simulations)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for m := range simulations {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			simulated, err := structural.Simulate(e.sample.X, e.draws.Column(m), theta)
			if err != nil {
				return fmt.Errorf("simulation %d: %w", m, err)
			}

			coef, err := regression.Fit(e.sample.X, simulated, true)
			if err != nil {
				return fmt.Errorf("simulation %d auxiliary fit: %w", m, err)
			}

			estimates[m] = coef
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// reduce in column order so the sum does not depend on scheduling
	average := make([]float64, len(e.observed))
	for _, coef := range estimates {
		floats.Add(average, coef)
	}
	floats.Scale(1.0/float64(simulations), average)

	return average, nil
}

// Evaluate returns the Wald distance at theta. Overflow in the structural
// model and non-finite parameters map to +Inf with a nil error; a singular
// auxiliary fit is returned as an error.
func (e *Evaluator) Evaluate(ctx context.Context, theta []float64) (float64, error) {
	e.evaluations.Add(1)

	for _, v := range theta {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return math.Inf(1), nil
		}
	}

	average, err := e.AuxiliaryAverage(ctx, theta)
	if err != nil {
		if errors.Is(err, structural.ErrNumericOverflow) {
			e.overflows.Add(1)
			log.Trace().Err(err).Floats64("theta", theta).Msg("structural overflow, criterion set to +Inf")
			return math.Inf(1), nil
		}
		return 0, err
	}

	distance := Wald(e.observed, average)
	if math.IsNaN(distance) || math.IsInf(distance, 0) {
		e.overflows.Add(1)
		return math.Inf(1), nil
	}

	log.Trace().Floats64("theta", theta).Float64("criterion", distance).Msg("criterion evaluated")

	return distance, nil
}

// Wald returns the identity-weighted squared distance sum_i (a_i - b_i)^2.
func Wald(a, b []float64) float64 {
	diff := make([]float64, len(a))
	floats.SubTo(diff, a, b)
	return floats.Dot(diff, diff)
}
