package estimation

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/tensorplex-labs/indirect/internal/dataset"
	"github.com/tensorplex-labs/indirect/internal/structural"
)

// Generate draws a sample from the structural model with standard normal
// covariates. Covariates and noise use independent streams derived from Seed.
func Generate(p GenerateParams) (*dataset.Sample, error) {
	if p.Observations < 1 {
		return nil, fmt.Errorf("observations must be >= 1, got %d", p.Observations)
	}
	if len(p.Theta) < 2 {
		return nil, fmt.Errorf("theta needs an intercept and at least one slope, got %d components", len(p.Theta))
	}

	k := len(p.Theta) - 1
	names := p.Covariates
	if len(names) == 0 {
		names = make([]string, k)
		for i := range names {
			names[i] = fmt.Sprintf("x%d", i+1)
		}
	}
	if len(names) != k {
		return nil, fmt.Errorf("%d covariate names for %d slopes", len(names), k)
	}
	response := p.Response
	if response == "" {
		response = "y"
	}

	dist := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewPCG(p.Seed, p.Seed+1)}
	X := mat.NewDense(p.Observations, k, nil)
	for rowIdx := range p.Observations {
		for colIdx := range k {
			X.Set(rowIdx, colIdx, dist.Rand())
		}
	}

	if !(p.NoiseStd >= 0) {
		return nil, fmt.Errorf("noise std must be >= 0, got %g", p.NoiseStd)
	}
	// a separate stream from noise.Generate, so a run seeded like the
	// generator does not reuse the observed errors as simulation draws
	e := mat.NewVecDense(p.Observations, nil)
	errDist := distuv.Normal{Mu: 0, Sigma: p.NoiseStd, Src: rand.NewPCG(p.Seed+2, p.Seed+3)}
	for rowIdx := range p.Observations {
		e.SetVec(rowIdx, errDist.Rand())
	}

	y, err := structural.Simulate(X, e, p.Theta)
	if err != nil {
		return nil, fmt.Errorf("simulate response: %w", err)
	}

	return dataset.NewSample(X, y, names, response)
}
