package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/tensorplex-labs/indirect/internal/estimation"
)

// Print writes a human readable summary of r.
func Print(w io.Writer, r *estimation.Report) error {
	if r == nil {
		return fmt.Errorf("report is nil")
	}

	p := &printer{w: w}
	p.printf("\nIndirect inference estimate (run %s)\n", r.RunID)
	p.printf("Observations: %d | Simulations: %d | Noise std: %.6f | Seed: %d\n",
		r.Observations, r.Simulations, r.NoiseStd, r.RandomSeed)

	p.printf("\nParameter |      Theta |   Observed β |  Simulated β\n")
	p.printf("----------|------------|--------------|-------------\n")
	for i, name := range r.ParameterNames {
		p.printf("%-9s | %10.6f | %12.6f | %12.6f\n",
			name, at(r.Theta, i), at(r.ObservedAux, i), at(r.SimulatedAux, i))
	}

	status := "converged"
	if !r.Success {
		status = "not converged"
	}
	p.printf("\nObjective: %.6e (%s, %s)\n", r.Objective, status, r.Status)
	p.printf("Iterations: %d | Evaluations: %d | Overflows: %d | Runtime: %s\n",
		r.Iterations, r.Evaluations, r.Overflows, r.Runtime)
	p.printf("Start: [%s]\n", joinFloats(r.StartTheta))

	return p.err
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func at(v []float64, i int) float64 {
	if i < len(v) {
		return v[i]
	}
	return 0
}

func joinFloats(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = fmt.Sprintf("%.6f", x)
	}
	return strings.Join(parts, ", ")
}
