// Package estimation owns the state of one indirect-inference run: the observed
// sample, the frozen noise draws and the criterion built on them.
package estimation

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tensorplex-labs/indirect/internal/config"
	"github.com/tensorplex-labs/indirect/internal/criterion"
	"github.com/tensorplex-labs/indirect/internal/dataset"
	"github.com/tensorplex-labs/indirect/internal/noise"
	"github.com/tensorplex-labs/indirect/internal/optimizer"
	"github.com/tensorplex-labs/indirect/internal/structural"
	"github.com/tensorplex-labs/indirect/internal/utils/logger"
)

type Run struct {
	ID        string
	sample    *dataset.Sample
	draws     *noise.Draws
	evaluator *criterion.Evaluator
	estimator config.EstimatorEnvConfig
	settings  optimizer.Settings
	log       zerolog.Logger
}

// NewRun generates the frozen draws for the sample and fits the observed
// auxiliary model.
func NewRun(cfg *config.AppConfig, sample *dataset.Sample) (*Run, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if sample == nil {
		return nil, fmt.Errorf("sample is required")
	}

	id := uuid.NewString()
	runLog := log.With().Str("run_id", id).Logger()

	draws, err := noise.Generate(sample.Len(), cfg.Simulations, cfg.NoiseStd, cfg.RandomSeed)
	if err != nil {
		return nil, errors.WithStack(fmt.Errorf("noise draws: %w", err))
	}

	evaluator, err := criterion.NewEvaluator(sample, draws, criterion.WithWorkers(cfg.Workers))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	runLog.Info().
		Int("observations", sample.Len()).
		Strs("parameters", sample.ParameterNames()).
		Int("simulations", cfg.Simulations).
		Float64("noise_std", cfg.NoiseStd).
		Uint64("seed", cfg.RandomSeed).
		Msg("estimation run prepared")

	return &Run{
		ID:        id,
		sample:    sample,
		draws:     draws,
		evaluator: evaluator,
		estimator: cfg.EstimatorEnvConfig,
		settings: optimizer.Settings{
			Tolerance:       cfg.Tolerance,
			StallIterations: cfg.StallIterations,
			MaxIterations:   cfg.MaxIterations,
			MaxEvaluations:  cfg.MaxEvaluations,
			SimplexSize:     cfg.SimplexSize,
		},
		log: runLog,
	}, nil
}

// Evaluator exposes the criterion bound to this run.
func (r *Run) Evaluator() *criterion.Evaluator {
	return r.evaluator
}

// Estimate minimizes the criterion starting from the observed auxiliary fit.
func (r *Run) Estimate(ctx context.Context) (*Report, error) {
	start := r.evaluator.Observed()

	logger.Sugar().Infow("Estimating with optimizer settings", "run_id", r.ID, "settings", r.settings, "start", start)

	res, err := optimizer.Minimize(ctx, r.evaluator.Evaluate, start, r.settings)
	if errors.Is(err, optimizer.ErrNonFiniteStart) {
		return nil, errors.WithStack(fmt.Errorf("start point: %w: %w (%d overflows)",
			structural.ErrNumericOverflow, err, r.evaluator.Overflows()))
	}
	if err != nil {
		return nil, errors.WithStack(fmt.Errorf("optimizer: %w", err))
	}
	if err := checkObjective(res, r.evaluator.Overflows()); err != nil {
		return nil, errors.WithStack(err)
	}

	simulated, err := r.evaluator.AuxiliaryAverage(ctx, res.Theta)
	if err != nil {
		return nil, errors.WithStack(fmt.Errorf("auxiliary average at estimate: %w", err))
	}

	report := &Report{
		RunID:          r.ID,
		CreatedAt:      time.Now().UTC(),
		ParameterNames: r.sample.ParameterNames(),
		Theta:          res.Theta,
		ObservedAux:    start,
		SimulatedAux:   simulated,
		StartTheta:     start,
		Objective:      res.Objective,
		Iterations:     res.Iterations,
		Evaluations:    res.Evaluations,
		Overflows:      r.evaluator.Overflows(),
		Success:        res.Success,
		Status:         res.Status,
		Trace:          finiteTrace(res.Trace),
		Runtime:        res.Runtime,
		Observations:   r.sample.Len(),
		Simulations:    r.estimator.Simulations,
		NoiseStd:       r.estimator.NoiseStd,
		RandomSeed:     r.estimator.RandomSeed,
	}

	event := r.log.Info()
	if !report.Success {
		event = r.log.Warn()
	}
	event.
		Floats64("theta", report.Theta).
		Float64("objective", report.Objective).
		Bool("success", report.Success).
		Msg("estimation finished")

	return report, nil
}

// checkObjective fails with ErrNumericOverflow when the best objective the
// search found is still not finite.
func checkObjective(res *optimizer.Result, overflows int64) error {
	if math.IsInf(res.Objective, 0) || math.IsNaN(res.Objective) {
		return fmt.Errorf("optimizer: %w: objective is %g after %d evaluations (%d overflows)",
			structural.ErrNumericOverflow, res.Objective, res.Evaluations, overflows)
	}
	return nil
}

// finiteTrace replaces +Inf entries (iterations whose best point overflowed)
// with math.MaxFloat64 so the trace stays serializable.
func finiteTrace(trace []float64) []float64 {
	out := make([]float64, len(trace))
	for i, v := range trace {
		if math.IsInf(v, 1) || math.IsNaN(v) {
			v = math.MaxFloat64
		}
		out[i] = v
	}
	return out
}
