package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

const (
	maxBarWidth = 50
	// objective values are clamped to this floor before taking log10
	plotFloor = 1e-300
)

// PlotConvergenceTerminal renders the objective trace as horizontal bars on a
// log10 scale. Long traces are subsampled to at most maxRows rows.
func PlotConvergenceTerminal(w io.Writer, trace []float64, title string) error {
	if len(trace) == 0 {
		_, err := fmt.Fprintf(w, "\n%s: empty trace\n", title)
		return err
	}

	rows := sampleIterations(len(trace), maxRows)
	logs := make([]float64, len(rows))
	for i, it := range rows {
		logs[i] = math.Log10(math.Max(trace[it], plotFloor))
	}

	minLog := floats.Min(logs)
	maxLog := floats.Max(logs)
	scaled := minMaxScale(logs)

	p := &printer{w: w}
	p.printf("\n%s (Terminal Plot - log10 objective):\n", title)
	p.printf("Iteration | Objective    | Bar Chart\n")
	p.printf("----------|--------------|%s\n", strings.Repeat("-", maxBarWidth))

	for i, it := range rows {
		barWidth := maxBarWidth / 2
		if maxLog != minLog {
			barWidth = int(scaled[i] * float64(maxBarWidth))
		}

		bar := strings.Repeat("█", barWidth)
		if barWidth == 0 {
			bar = "▏"
		}

		p.printf("%9d | %.6e | %s (%.2f)\n", it+1, trace[it], bar, logs[i])
	}

	p.printf("\nScale: log10 Min=%.2f, Max=%.2f\n", minLog, maxLog)
	p.printf("Bar width represents relative log10 objective (0 to %d chars)\n", maxBarWidth)
	return p.err
}

const maxRows = 40

// sampleIterations picks up to limit evenly spaced indices in [0, n), always
// keeping the first and last.
func sampleIterations(n, limit int) []int {
	if n <= limit {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}

	out := make([]int, 0, limit)
	step := float64(n-1) / float64(limit-1)
	for i := range limit {
		idx := int(math.Round(float64(i) * step))
		if len(out) > 0 && out[len(out)-1] == idx {
			continue
		}
		out = append(out, idx)
	}
	return out
}

// minMaxScale maps values onto [0, 1]; a constant input maps to zeros.
func minMaxScale(values []float64) []float64 {
	result := make([]float64, len(values))
	copy(result, values)

	lo := floats.Min(result)
	hi := floats.Max(result)

	if hi != lo {
		floats.AddConst(-lo, result)
		floats.Scale(1.0/(hi-lo), result)
	} else {
		floats.Scale(0, result)
	}

	return result
}
