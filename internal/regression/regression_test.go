package regression

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func syntheticDesign(rows, cols int, seed uint64) *mat.Dense {
	rng := rand.New(rand.NewPCG(seed, seed))
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = rng.NormFloat64()
	}
	return mat.NewDense(rows, cols, data)
}

func TestAddIntercept(t *testing.T) {
	X := mat.NewDense(2, 2, []float64{3, 4, 5, 6})

	design := AddIntercept(X)

	rows, cols := design.Dims()
	require.Equal(t, 2, rows)
	require.Equal(t, 3, cols)
	assert.Equal(t, []float64{1, 3, 4}, mat.Row(nil, 0, design))
	assert.Equal(t, []float64{1, 5, 6}, mat.Row(nil, 1, design))
	assert.Equal(t, 3.0, X.At(0, 0), "input must not be modified")
}

func TestFitRecoversNoiselessCoefficients(t *testing.T) {
	X := syntheticDesign(50, 3, 7)
	truth := []float64{0.5, -1.25, 2.0, 3.5}

	y := mat.NewVecDense(50, nil)
	y.MulVec(AddIntercept(X), mat.NewVecDense(4, truth))

	coef, err := Fit(X, y, true)
	require.NoError(t, err)
	require.Len(t, coef, len(truth))
	assert.InDeltaSlice(t, truth, coef, 1e-10)
}

func TestFitWithoutIntercept(t *testing.T) {
	X := syntheticDesign(20, 2, 11)
	truth := []float64{-0.75, 1.5}

	y := mat.NewVecDense(20, nil)
	y.MulVec(X, mat.NewVecDense(2, truth))

	coef, err := Fit(X, y, false)
	require.NoError(t, err)
	assert.InDeltaSlice(t, truth, coef, 1e-10)
}

func TestFitDuplicatedColumnIsSingular(t *testing.T) {
	base := syntheticDesign(30, 1, 3)
	X := mat.NewDense(30, 2, nil)
	for i := range 30 {
		X.Set(i, 0, base.At(i, 0))
		X.Set(i, 1, base.At(i, 0))
	}
	y := mat.NewVecDense(30, mat.Col(nil, 0, base))

	_, err := Fit(X, y, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSingularDesign)
}

func TestFitConstantColumnCollinearWithIntercept(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{2, 2, 2, 2})
	y := mat.NewVecDense(4, []float64{1, 2, 3, 4})

	_, err := Fit(X, y, true)
	assert.ErrorIs(t, err, ErrSingularDesign)
}

func TestFitTooFewObservations(t *testing.T) {
	X := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	y := mat.NewVecDense(2, []float64{1, 2})

	_, err := Fit(X, y, true)
	assert.ErrorIs(t, err, ErrSingularDesign)
}

func TestFitLengthMismatch(t *testing.T) {
	X := syntheticDesign(5, 1, 1)
	y := mat.NewVecDense(4, nil)

	_, err := Fit(X, y, true)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSingularDesign)
}

func BenchmarkFit(b *testing.B) {
	X := syntheticDesign(2000, 2, 5)
	y := mat.NewVecDense(2000, mat.Col(nil, 0, X))

	for b.Loop() {
		_, _ = Fit(X, y, true)
	}
}
