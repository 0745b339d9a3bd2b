package model

import (
	"fmt"

	lqg "github.com/milosgajdos/go-lqg"
	"github.com/milosgajdos/go-lqg/matrix"
	"gonum.org/v1/gonum/mat"
)

// zohSteps is the number of integration steps used when A is singular
const zohSteps = 100

// Discretize converts continuous-time system matrices A and B into
// discrete-time matrices sampled with sampling time ts using zero order hold:
//
//	Ad = exp(A*ts)
//	Bd = integrate(exp(A*t), 0, ts) * B
//
// When A is invertible Bd is computed in closed form as (Ad - I)*inv(A)*B,
// otherwise the integral is approximated numerically using the midpoint rule.
// See Discrete-Time Control Systems by Katsuhiko Ogata, Eq. (5-73) and (5-74).
//
// It returns error if ts is not positive or the matrices are not conformable.
func Discretize(A, B mat.Matrix, ts float64) (*mat.Dense, *mat.Dense, error) {
	if ts <= 0 {
		return nil, nil, fmt.Errorf("invalid sampling time: %v", ts)
	}

	if A == nil {
		return nil, nil, lqg.NewShapeError("A", lqg.NoStep, "matrix not defined")
	}

	nx, _ := A.Dims()
	if nx == 0 {
		return nil, nil, lqg.NewShapeError("A", lqg.NoStep, "invalid dimensions: [0 x 0]")
	}

	if err := lqg.CheckDims(A, "A", lqg.NoStep, nx, nx); err != nil {
		return nil, nil, err
	}

	if B == nil {
		return nil, nil, lqg.NewShapeError("B", lqg.NoStep, "matrix not defined")
	}

	_, nu := B.Dims()
	if err := lqg.CheckDims(B, "B", lqg.NoStep, nx, nu); err != nil {
		return nil, nil, err
	}

	Ad := &mat.Dense{}
	Ad.Scale(ts, A)
	Ad.Exp(Ad)

	Bd := &mat.Dense{}

	Ainv := &mat.Dense{}
	if err := Ainv.Inverse(A); err == nil {
		eye, err := matrix.Identity(nx)
		if err != nil {
			return nil, nil, err
		}
		aux := &mat.Dense{}
		aux.Sub(Ad, eye)
		aux.Mul(aux, Ainv)
		Bd.Mul(aux, B)

		return Ad, Bd, nil
	}

	// A is singular: integrate exp(A*t) from 0 to ts
	sum := mat.NewDense(nx, nx, nil)
	aux := &mat.Dense{}
	dt := ts / zohSteps
	for i := 0; i < zohSteps; i++ {
		aux.Scale(dt*(float64(i)+0.5), A)
		aux.Exp(aux)
		sum.Add(sum, aux)
	}
	sum.Scale(dt, sum)
	Bd.Mul(sum, B)

	return Ad, Bd, nil
}
