// Package regression implements the closed-form least-squares auxiliary model
package regression

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// RankTolerance is the relative singular value threshold below which a design
// column is treated as linearly dependent.
const RankTolerance = 1e-12

// ErrSingularDesign is returned when X'X is not invertible.
var ErrSingularDesign = errors.New("singular design matrix")

// AddIntercept returns a copy of X with a leading column of ones.
func AddIntercept(X mat.Matrix) *mat.Dense {
	rows, cols := X.Dims()

	design := mat.NewDense(rows, cols+1, nil)
	for rowIdx := range rows {
		design.Set(rowIdx, 0, 1.0)
		for colIdx := range cols {
			design.Set(rowIdx, colIdx+1, X.At(rowIdx, colIdx))
		}
	}

	return design
}

// Fit estimates coefficients minimising ||y - Xc||^2. When addIntercept is
// true the first coefficient is the intercept.
func Fit(X mat.Matrix, y mat.Vector, addIntercept bool) ([]float64, error) {
	var design mat.Matrix = X
	if addIntercept {
		design = AddIntercept(X)
	}

	return solve(design, y)
}

func solve(design mat.Matrix, y mat.Vector) ([]float64, error) {
	rows, cols := design.Dims()
	if y.Len() != rows {
		return nil, fmt.Errorf("response length %d does not match %d design rows", y.Len(), rows)
	}
	if cols == 0 {
		return []float64{}, nil
	}
	if rows < cols {
		return nil, fmt.Errorf("%w: %d observations for %d coefficients", ErrSingularDesign, rows, cols)
	}

	var svd mat.SVD
	if ok := svd.Factorize(design, mat.SVDThin); !ok {
		return nil, fmt.Errorf("%w: svd factorization failed", ErrSingularDesign)
	}

	rank := svd.Rank(RankTolerance)
	if rank < cols {
		return nil, fmt.Errorf("%w: rank %d for %d columns", ErrSingularDesign, rank, cols)
	}

	var coef mat.VecDense
	svd.SolveVecTo(&coef, y, rank)

	out := make([]float64, cols)
	for i := range cols {
		out[i] = coef.AtVec(i)
	}

	return out, nil
}
