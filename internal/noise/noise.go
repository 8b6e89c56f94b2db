// Package noise generates the frozen simulation draws shared by every criterion evaluation
package noise

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Draws is an n x M matrix of additive noise, one column per simulation.
// It is read-only once generated.
type Draws struct {
	m *mat.Dense
}

// Generate draws n x simulations i.i.d. N(0, std^2) values from a PCG stream
// seeded with seed. Columns are filled in order, so column j only depends on
// (seed, n, j).
func Generate(n, simulations int, std float64, seed uint64) (*Draws, error) {
	if n <= 0 {
		return nil, fmt.Errorf("observations must be > 0, got %d", n)
	}
	if simulations < 1 {
		return nil, fmt.Errorf("simulations must be >= 1, got %d", simulations)
	}
	if !(std >= 0) {
		return nil, fmt.Errorf("noise std must be >= 0, got %g", std)
	}

	dist := distuv.Normal{
		Mu:    0,
		Sigma: std,
		Src:   rand.NewPCG(seed, seed^0x9e3779b97f4a7c15),
	}

	m := mat.NewDense(n, simulations, nil)
	for colIdx := range simulations {
		for rowIdx := range n {
			m.Set(rowIdx, colIdx, dist.Rand())
		}
	}

	return &Draws{m: m}, nil
}

// FromMatrix wraps an existing n x M matrix. The matrix is copied.
func FromMatrix(m mat.Matrix) (*Draws, error) {
	rows, cols := m.Dims()
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("draws matrix must be non-empty, got %dx%d", rows, cols)
	}
	return &Draws{m: mat.DenseCopyOf(m)}, nil
}

// Dims returns the number of observations and simulations.
func (d *Draws) Dims() (int, int) {
	return d.m.Dims()
}

// Simulations returns M.
func (d *Draws) Simulations() int {
	_, cols := d.m.Dims()
	return cols
}

// Column returns a read-only view of the noise for simulation j.
func (d *Draws) Column(j int) mat.Vector {
	return d.m.ColView(j)
}
