package dataset

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Sample is an observed (or generated) data set. It is never mutated after
// construction.
type Sample struct {
	X          *mat.Dense    // n x k covariates
	Y          *mat.VecDense // n responses
	Covariates []string      // k covariate names
	Response   string
}

// NewSample validates dimensions and copies X and y.
func NewSample(X mat.Matrix, y mat.Vector, covariates []string, response string) (*Sample, error) {
	rows, cols := X.Dims()
	if rows == 0 {
		return nil, fmt.Errorf("sample has no observations")
	}
	if y.Len() != rows {
		return nil, fmt.Errorf("response length %d does not match %d observations", y.Len(), rows)
	}
	if len(covariates) != cols {
		return nil, fmt.Errorf("%d covariate names for %d columns", len(covariates), cols)
	}

	for rowIdx := range rows {
		for colIdx := range cols {
			if v := X.At(rowIdx, colIdx); !finite(v) {
				return nil, fmt.Errorf("non-finite value %g at observation %d covariate %q", v, rowIdx, covariates[colIdx])
			}
		}
		if v := y.AtVec(rowIdx); !finite(v) {
			return nil, fmt.Errorf("non-finite value %g at observation %d response %q", v, rowIdx, response)
		}
	}

	yCopy := mat.NewVecDense(rows, nil)
	yCopy.CopyVec(y)

	names := make([]string, len(covariates))
	copy(names, covariates)

	return &Sample{
		X:          mat.DenseCopyOf(X),
		Y:          yCopy,
		Covariates: names,
		Response:   response,
	}, nil
}

// Len returns the number of observations.
func (s *Sample) Len() int {
	rows, _ := s.X.Dims()
	return rows
}

// ParameterNames returns the auxiliary/structural coefficient labels:
// "const" followed by the covariate names.
func (s *Sample) ParameterNames() []string {
	return append([]string{"const"}, s.Covariates...)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
