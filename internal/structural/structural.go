// Package structural simulates responses from the exponential-index structural model
// y = exp(theta_0 + X theta_1..k) + noise.
package structural

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// MaxExpArg bounds the index; math.Exp may already round to +Inf at it.
var MaxExpArg = math.Log(math.MaxFloat64)

// ErrNumericOverflow is returned when the exponential index cannot be represented.
var ErrNumericOverflow = errors.New("numeric overflow in structural index")

// Index returns theta_0 + X theta_1..k for every observation.
func Index(X mat.Matrix, theta []float64) (*mat.VecDense, error) {
	rows, cols := X.Dims()
	if len(theta) != cols+1 {
		return nil, fmt.Errorf("theta has %d components, want %d", len(theta), cols+1)
	}

	index := mat.NewVecDense(rows, nil)
	for rowIdx := range rows {
		v := theta[0]
		for colIdx := range cols {
			v += X.At(rowIdx, colIdx) * theta[colIdx+1]
		}
		index.SetVec(rowIdx, v)
	}

	return index, nil
}

// Simulate returns exp(index) + noise. It never returns infinities: a
// non-finite index, or a response that is not representable, yields
// ErrNumericOverflow.
func Simulate(X mat.Matrix, noise mat.Vector, theta []float64) (*mat.VecDense, error) {
	rows, _ := X.Dims()
	if noise.Len() != rows {
		return nil, fmt.Errorf("noise length %d does not match %d observations", noise.Len(), rows)
	}

	response, err := Index(X, theta)
	if err != nil {
		return nil, err
	}

	for rowIdx := range rows {
		v := response.AtVec(rowIdx)
		if math.IsNaN(v) || v > MaxExpArg {
			return nil, fmt.Errorf("%w: row %d index %g", ErrNumericOverflow, rowIdx, v)
		}
		r := math.Exp(v) + noise.AtVec(rowIdx)
		if math.IsInf(r, 0) || math.IsNaN(r) {
			return nil, fmt.Errorf("%w: row %d index %g noise %g", ErrNumericOverflow, rowIdx, v, noise.AtVec(rowIdx))
		}
		response.SetVec(rowIdx, r)
	}

	return response, nil
}
