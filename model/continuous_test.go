package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestDiscretize(t *testing.T) {
	assert := assert.New(t)

	ts := 0.1
	for _, test := range []struct {
		A  *mat.Dense
		B  *mat.Dense
		Ad *mat.Dense
		Bd *mat.Dense
	}{
		{
			// invertible A
			A:  mat.NewDense(1, 1, []float64{-1}),
			B:  mat.NewDense(1, 1, []float64{2}),
			Ad: mat.NewDense(1, 1, []float64{math.Exp(-ts)}),
			Bd: mat.NewDense(1, 1, []float64{2 * (1 - math.Exp(-ts))}),
		},
		{
			// double integrator: singular A
			A:  mat.NewDense(2, 2, []float64{0, 1, 0, 0}),
			B:  mat.NewDense(2, 1, []float64{0, 1}),
			Ad: mat.NewDense(2, 2, []float64{1, ts, 0, 1}),
			Bd: mat.NewDense(2, 1, []float64{ts * ts / 2, ts}),
		},
		{
			// zero A
			A:  mat.NewDense(2, 2, nil),
			B:  mat.NewDense(2, 1, []float64{1, 1}),
			Ad: mat.NewDense(2, 2, []float64{1, 0, 0, 1}),
			Bd: mat.NewDense(2, 1, []float64{ts, ts}),
		},
	} {
		Ad, Bd, err := Discretize(test.A, test.B, ts)
		assert.NoError(err)
		assert.True(mat.EqualApprox(test.Ad, Ad, 1e-9))
		assert.True(mat.EqualApprox(test.Bd, Bd, 1e-9))
	}
}

func TestDiscretizeErrors(t *testing.T) {
	assert := assert.New(t)

	A := mat.NewDense(2, 2, nil)
	B := mat.NewDense(2, 1, nil)

	_, _, err := Discretize(A, B, 0)
	assert.Error(err)

	_, _, err = Discretize(nil, B, 0.1)
	assert.Error(err)

	_, _, err = Discretize(A, nil, 0.1)
	assert.Error(err)

	_, _, err = Discretize(mat.NewDense(2, 3, nil), B, 0.1)
	assert.Error(err)

	_, _, err = Discretize(A, mat.NewDense(3, 1, nil), 0.1)
	assert.Error(err)

	_, _, err = Discretize(&mat.Dense{}, B, 0.1)
	assert.Error(err)
}
