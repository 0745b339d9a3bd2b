package lqr

import (
	"fmt"

	lqg "github.com/milosgajdos/go-lqg"
	"github.com/milosgajdos/go-lqg/matrix"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

// Option configures LQR
type Option func(*LQR)

// WithLogger sets LQR logger
func WithLogger(l logrus.FieldLogger) Option {
	return func(r *LQR) {
		r.log = l
	}
}

// LQR is finite horizon Linear Quadratic Regulator
type LQR struct {
	// l is feedback gain
	l []*mat.Dense
	// p is cost-to-go
	p []*mat.Dense
	// warnings stores pseudoinverse substitutions
	warnings []*lqg.SingularWarning
	// log is LQR logger
	log logrus.FieldLogger
}

// New creates new LQR for the system m and returns it.
// It computes feedback gains and cost-to-go matrices by backward recursion
// starting from the terminal cost P[H-1] = Q[H-1]:
//
//	L[t]   = -pinv(R[t] + B[t]'*P[t]*B[t])*B[t]'*P[t]*A[t]
//	P[t-1] = A[t]'*P[t]*(A[t] + B[t]*L[t]) + Q[t]
//
// P[t] is the cost-to-go used by the feedback gain at step t.
// Singular matrices are inverted using pseudoinverse: the substitution is
// logged and recorded in Warnings, but it is not an error.
// It returns error if either of the following conditions is met:
//   - invalid model is given: model dimensions and horizon must be positive integers
//   - any of the model matrices is not conformable
func New(m lqg.System, opts ...Option) (*LQR, error) {
	if m == nil {
		return nil, fmt.Errorf("invalid model: %v", m)
	}

	h := m.Horizon()
	if h <= 0 {
		return nil, fmt.Errorf("invalid model horizon: %d", h)
	}

	nx, nu, _ := m.SystemDims()
	if nx <= 0 || nu <= 0 {
		return nil, fmt.Errorf("invalid model dimensions: [%d x %d]", nx, nu)
	}

	r := &LQR{
		l:   make([]*mat.Dense, h),
		p:   make([]*mat.Dense, h),
		log: logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(r)
	}

	Q := m.StateCost(h - 1)
	if err := lqg.CheckDims(Q, "Q", h-1, nx, nx); err != nil {
		return nil, err
	}
	r.p[h-1] = mat.DenseCopyOf(Q)

	for t := h - 1; t >= 0; t-- {
		A, B := m.SystemMatrix(t), m.ControlMatrix(t)
		Q, R := m.StateCost(t), m.ControlCost(t)

		if err := checkDims(t, nx, nu, A, B, Q, R); err != nil {
			return nil, err
		}

		gain, err := r.gain(t, A, B, R)
		if err != nil {
			return nil, err
		}
		r.l[t] = gain

		if t > 0 {
			r.p[t-1] = costToGo(A, B, gain, r.p[t], Q)
		}
	}

	r.log.WithFields(logrus.Fields{
		"horizon":  h,
		"warnings": len(r.warnings),
	}).Debug("regulator solved")

	return r, nil
}

func checkDims(t, nx, nu int, A, B, Q, R mat.Matrix) error {
	if err := lqg.CheckDims(A, "A", t, nx, nx); err != nil {
		return err
	}

	if err := lqg.CheckDims(B, "B", t, nx, nu); err != nil {
		return err
	}

	if err := lqg.CheckDims(Q, "Q", t, nx, nx); err != nil {
		return err
	}

	return lqg.CheckDims(R, "R", t, nu, nu)
}

// gain computes feedback gain at step t from the cost-to-go P[t].
func (r *LQR) gain(t int, A, B, R mat.Matrix) (*mat.Dense, error) {
	nx, nu := B.Dims()

	// B'*P
	bp := mat.NewDense(nu, nx, nil)
	bp.Mul(B.T(), r.p[t])

	// R + B'*P*B
	s := mat.NewDense(nu, nu, nil)
	s.Mul(bp, B)
	s.Add(s, R)

	sInv, rank, err := matrix.Pinv(s)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate control cost pseudoinverse at step %d: %v", t, err)
	}

	if rank < nu {
		w := &lqg.SingularWarning{Op: "control cost", Step: t, Rank: rank, Dim: nu}
		r.warnings = append(r.warnings, w)
		r.log.WithFields(logrus.Fields{
			"step": t,
			"rank": rank,
			"dim":  nu,
		}).Warn("singular control cost, using pseudoinverse")
	}

	gain := mat.NewDense(nu, nx, nil)
	gain.Mul(sInv, bp)
	gain.Mul(gain, A)
	gain.Scale(-1, gain)

	return gain, nil
}

// costToGo returns A'*P*(A + B*L) + Q
func costToGo(A, B, L, P, Q mat.Matrix) *mat.Dense {
	cl := &mat.Dense{}
	cl.Mul(B, L)
	cl.Add(A, cl)

	cost := &mat.Dense{}
	cost.Mul(A.T(), P)
	cost.Mul(cost, cl)
	cost.Add(cost, Q)

	return cost
}

// Horizon returns the number of time steps
func (r *LQR) Horizon() int {
	return len(r.l)
}

// Gain returns feedback gain at step t
func (r *LQR) Gain(t int) mat.Matrix {
	return mat.DenseCopyOf(r.l[t])
}

// CostToGo returns cost-to-go matrix at step t
func (r *LQR) CostToGo(t int) mat.Matrix {
	return mat.DenseCopyOf(r.p[t])
}

// Control returns control input L[t]*x for state x at step t.
// x can store a batch of states in its columns.
// It returns error if x is not conformable with the feedback gain.
func (r *LQR) Control(t int, x mat.Matrix) (*mat.Dense, error) {
	if t < 0 || t >= len(r.l) {
		return nil, fmt.Errorf("invalid step: %d", t)
	}

	nu, nx := r.l[t].Dims()
	if x == nil {
		return nil, lqg.NewShapeError("x", t, "matrix not defined")
	}

	rows, cols := x.Dims()
	if rows != nx {
		return nil, lqg.NewShapeError("x", t, "invalid dimensions: [%d x %d], expected: [%d x %d]", rows, cols, nx, cols)
	}

	u := mat.NewDense(nu, cols, nil)
	u.Mul(r.l[t], x)

	return u, nil
}

// Warnings returns pseudoinverse substitutions made while solving the regulator
func (r *LQR) Warnings() []*lqg.SingularWarning {
	warnings := make([]*lqg.SingularWarning, len(r.warnings))
	copy(warnings, r.warnings)

	return warnings
}
