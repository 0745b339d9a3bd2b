package sim

import (
	lqg "github.com/milosgajdos/go-lqg"
	"github.com/milosgajdos/go-lqg/kalman"
	"gonum.org/v1/gonum/mat"
)

// system defines a time-varying linear plant of an LQG system
// used to propagate batches of sample states.
//
// Every state, input and noise passed to system stores one sample per column.
// Process and measurement noise are scaled by the covariance form of the
// shaping matrices owned by the solved Kalman filter.
type system struct {
	// m is the system model
	m lqg.System
	// k is Kalman filter solved for m
	k kalman.Kalman
}

func newSystem(m lqg.System, k kalman.Kalman) *system {
	return &system{m: m, k: k}
}

// dims returns internal state length (nx), input vector length (nu)
// and output state length (ny).
func (s *system) dims() (nx, nu, ny int) {
	return s.m.SystemDims()
}

// propagate propagates internal state x to the next step given
// an input u and a process noise draw v at step t:
//
//	x[t+1] = A[t]*x + B[t]*u + V[t]*V[t]'*v
//
// u and v are ignored when nil.
func (s *system) propagate(t int, x, u, v mat.Matrix) *mat.Dense {
	out := &mat.Dense{}
	out.Mul(s.m.SystemMatrix(t), x)

	if u != nil {
		outU := &mat.Dense{}
		outU.Mul(s.m.ControlMatrix(t), u)
		out.Add(out, outU)
	}

	if v != nil {
		outV := &mat.Dense{}
		outV.Mul(s.k.ProcessCov(t), v)
		out.Add(out, outV)
	}

	return out
}

// observe returns output state given internal state x and
// a measurement noise draw w at step t:
//
//	y[t] = C[t]*x + W[t]*W[t]'*w
//
// w is ignored when nil.
func (s *system) observe(t int, x, w mat.Matrix) *mat.Dense {
	out := &mat.Dense{}
	out.Mul(s.m.OutputMatrix(t), x)

	if w != nil {
		outW := &mat.Dense{}
		outW.Mul(s.k.OutputCov(t), w)
		out.Add(out, outW)
	}

	return out
}
