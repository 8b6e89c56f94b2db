package noise

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

func TestGenerateDims(t *testing.T) {
	d, err := Generate(100, 10, math.Sqrt(1.5), 42)
	require.NoError(t, err)

	rows, cols := d.Dims()
	assert.Equal(t, 100, rows)
	assert.Equal(t, 10, cols)
	assert.Equal(t, 10, d.Simulations())
	assert.Equal(t, 100, d.Column(3).Len())
}

func TestGenerateIsReproducible(t *testing.T) {
	a, err := Generate(50, 4, 1.0, 7)
	require.NoError(t, err)
	b, err := Generate(50, 4, 1.0, 7)
	require.NoError(t, err)
	c, err := Generate(50, 4, 1.0, 8)
	require.NoError(t, err)

	assert.True(t, mat.Equal(a.m, b.m))
	assert.False(t, mat.Equal(a.m, c.m))
}

func TestGenerateLeadingColumnsIndependentOfM(t *testing.T) {
	small, err := Generate(30, 2, 1.0, 99)
	require.NoError(t, err)
	large, err := Generate(30, 6, 1.0, 99)
	require.NoError(t, err)

	for j := range 2 {
		assert.True(t, mat.Equal(small.Column(j), large.Column(j)), "column %d", j)
	}
}

func TestGenerateMoments(t *testing.T) {
	std := math.Sqrt(1.5)
	d, err := Generate(20000, 1, std, 2024)
	require.NoError(t, err)

	col := mat.Col(nil, 0, d.m)
	mean, sd := stat.MeanStdDev(col, nil)

	assert.InDelta(t, 0, mean, 0.05)
	assert.InDelta(t, std, sd, 0.05)
}

func TestGenerateZeroStd(t *testing.T) {
	d, err := Generate(10, 3, 0, 1)
	require.NoError(t, err)

	for j := range 3 {
		for i := range 10 {
			assert.Zero(t, d.Column(j).AtVec(i))
		}
	}
}

func TestGenerateRejectsInvalidArguments(t *testing.T) {
	_, err := Generate(0, 1, 1, 1)
	assert.Error(t, err)
	_, err = Generate(10, 0, 1, 1)
	assert.Error(t, err)
	_, err = Generate(10, 1, -1, 1)
	assert.Error(t, err)
	_, err = Generate(10, 1, math.NaN(), 1)
	assert.Error(t, err)
}

func TestFromMatrixCopies(t *testing.T) {
	src := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	d, err := FromMatrix(src)
	require.NoError(t, err)

	src.Set(0, 0, 100)
	assert.Equal(t, 1.0, d.Column(0).AtVec(0))

	_, err = FromMatrix(&mat.Dense{})
	assert.Error(t, err)
}
