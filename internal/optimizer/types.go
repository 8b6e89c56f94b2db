package optimizer

import (
	"context"
	"time"
)

// Objective is the function minimized by Minimize. A non-nil error aborts the search.
type Objective func(ctx context.Context, x []float64) (float64, error)

type Settings struct {
	Tolerance       float64 // absolute function-value improvement that resets the stall counter
	StallIterations int     // major iterations without improvement before convergence
	MaxIterations   int     // 0 means no limit
	MaxEvaluations  int     // 0 means no limit
	SimplexSize     float64 // edge length of the initial simplex around x0
}

func DefaultSettings() Settings {
	return Settings{
		Tolerance:       1e-8,
		StallIterations: 100,
		MaxIterations:   5000,
		MaxEvaluations:  0,
		SimplexSize:     0.05,
	}
}

type Result struct {
	Theta       []float64
	Objective   float64
	Iterations  int
	Evaluations int
	Success     bool
	Status      string
	Trace       []float64 // best objective after each major iteration
	Runtime     time.Duration
}
