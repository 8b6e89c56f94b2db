// Package optimizer drives a derivative-free Nelder-Mead search over an objective
package optimizer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/optimize"
)

const progressEvery = 100

// ErrNonFiniteStart is returned when the objective is +Inf or NaN at x0.
var ErrNonFiniteStart = errors.New("objective is not finite at the starting point")

type firstError struct {
	mu  sync.Mutex
	err error
}

func (f *firstError) set(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err == nil {
		f.err = err
	}
}

func (f *firstError) get() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// recorder collects the best objective per major iteration and stops the
// search between iterations on cancellation or objective failure.
type recorder struct {
	ctx    context.Context
	failed *firstError
	trace  []float64
}

func (r *recorder) Init() error {
	r.trace = r.trace[:0]
	return nil
}

func (r *recorder) Record(loc *optimize.Location, op optimize.Operation, stats *optimize.Stats) error {
	if err := r.failed.get(); err != nil {
		return err
	}
	if op != optimize.MajorIteration {
		return nil
	}

	best := loc.F
	if n := len(r.trace); n > 0 && r.trace[n-1] < best {
		best = r.trace[n-1]
	}
	r.trace = append(r.trace, best)
	if stats.MajorIterations%progressEvery == 0 {
		log.Debug().
			Int("iteration", stats.MajorIterations).
			Int("evaluations", stats.FuncEvaluations).
			Float64("objective", loc.F).
			Msg("nelder-mead progress")
	}

	return r.ctx.Err()
}

// Minimize searches for the minimizer of obj starting at x0. Exhausting the
// iteration or evaluation budget is not an error: the best point found is
// returned with Success=false.
func Minimize(ctx context.Context, obj Objective, x0 []float64, settings Settings) (*Result, error) {
	if len(x0) == 0 {
		return nil, fmt.Errorf("starting point must be non-empty")
	}
	if settings.Tolerance <= 0 {
		return nil, fmt.Errorf("tolerance must be > 0, got %g", settings.Tolerance)
	}
	if settings.StallIterations < 1 {
		settings.StallIterations = DefaultSettings().StallIterations
	}
	if settings.SimplexSize <= 0 {
		settings.SimplexSize = DefaultSettings().SimplexSize
	}

	f0, err := obj(ctx, x0)
	if err != nil {
		return nil, fmt.Errorf("objective at start: %w", err)
	}
	if math.IsInf(f0, 0) || math.IsNaN(f0) {
		return nil, fmt.Errorf("%w: f(%v) = %g", ErrNonFiniteStart, x0, f0)
	}

	failed := &firstError{}
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			v, err := obj(ctx, x)
			if err != nil {
				failed.set(err)
				return math.Inf(1)
			}
			return v
		},
	}

	rec := &recorder{ctx: ctx, failed: failed}
	s := &optimize.Settings{
		Converger: &optimize.FunctionConverge{
			Absolute:   settings.Tolerance,
			Iterations: settings.StallIterations,
		},
		MajorIterations: settings.MaxIterations,
		FuncEvaluations: settings.MaxEvaluations,
		Recorder:        rec,
	}
	method := &optimize.NelderMead{SimplexSize: settings.SimplexSize}

	start := time.Now()
	res, err := optimize.Minimize(problem, append([]float64(nil), x0...), s, method)

	if objErr := failed.get(); objErr != nil {
		return nil, fmt.Errorf("objective: %w", objErr)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("nelder-mead interrupted: %w", ctxErr)
	}
	if res == nil {
		return nil, fmt.Errorf("nelder-mead: %w", err)
	}
	if err != nil && !budgetExhausted(res.Status) {
		return nil, fmt.Errorf("nelder-mead (%s): %w", res.Status, err)
	}

	result := &Result{
		Theta:       append([]float64(nil), res.X...),
		Objective:   res.F,
		Iterations:  res.MajorIterations,
		Evaluations: res.FuncEvaluations,
		Success:     converged(res.Status),
		Status:      res.Status.String(),
		Trace:       append([]float64(nil), rec.trace...),
		Runtime:     time.Since(start),
	}

	event := log.Info()
	if !result.Success {
		event = log.Warn()
	}
	event.
		Str("status", result.Status).
		Int("iterations", result.Iterations).
		Int("evaluations", result.Evaluations).
		Float64("objective", result.Objective).
		Msg("nelder-mead finished")

	return result, nil
}

func budgetExhausted(status optimize.Status) bool {
	switch status {
	case optimize.IterationLimit, optimize.FunctionEvaluationLimit, optimize.RuntimeLimit:
		return true
	}
	return false
}

func converged(status optimize.Status) bool {
	switch status {
	case optimize.Success, optimize.FunctionConvergence, optimize.MethodConverge,
		optimize.FunctionThreshold, optimize.StepConvergence:
		return true
	}
	return false
}
