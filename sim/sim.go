package sim

import (
	"fmt"

	lqg "github.com/milosgajdos/go-lqg"
	"github.com/milosgajdos/go-lqg/control"
	"github.com/milosgajdos/go-lqg/control/lqr"
	"github.com/milosgajdos/go-lqg/kalman"
	"github.com/milosgajdos/go-lqg/kalman/kf"
	"github.com/milosgajdos/go-lqg/matrix"
	"github.com/milosgajdos/go-lqg/noise"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

// Option configures Sim
type Option func(*Sim)

// WithLogger sets Sim logger. The logger is passed down to the solvers.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Sim) {
		s.log = l
	}
}

// Sim simulates LQG closed loop trajectories
type Sim struct {
	// sys propagates sample batches
	sys *system
	// k is Kalman filter
	k kalman.Kalman
	// c is state feedback controller
	c control.Controller
	// src is noise source
	src lqg.Noise
	// log is Sim logger
	log logrus.FieldLogger
}

// New solves Kalman filter and LQR regulator for the system m and returns
// a new Sim which samples trajectories from it. If src is nil, noise is
// drawn from standard normal noise seeded with current time.
// Sim is not safe for concurrent use: it owns its noise source.
// It returns error if either of the solvers fails.
func New(m lqg.System, src lqg.Noise, opts ...Option) (*Sim, error) {
	if m == nil {
		return nil, fmt.Errorf("invalid model: %v", m)
	}

	s := &Sim{
		src: src,
		log: logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.src == nil {
		s.src = noise.NewGaussian()
	}

	k, err := kf.New(m, kf.WithLogger(s.log))
	if err != nil {
		return nil, fmt.Errorf("failed to solve kalman filter: %w", err)
	}

	c, err := lqr.New(m, lqr.WithLogger(s.log))
	if err != nil {
		return nil, fmt.Errorf("failed to solve regulator: %w", err)
	}

	s.sys = newSystem(m, k)
	s.k = k
	s.c = c

	return s, nil
}

// Horizon returns the number of time steps
func (s *Sim) Horizon() int {
	return s.k.Horizon()
}

// Estimator returns the solved Kalman filter
func (s *Sim) Estimator() kalman.Kalman {
	return s.k
}

// Controller returns the solved state feedback controller
func (s *Sim) Controller() control.Controller {
	return s.c
}

// Sample simulates n independent closed loop trajectories and returns them.
// Every trajectory matrix stores one sample per column.
// At every step t the system is observed, the state estimate is updated
// and the control is applied:
//
//	y[t]    = C[t]*x[t] + W[t]*W[t]'*w[t]
//	x1[t]   = x0[t] + K[t]*(y[t] - C[t]*x0[t])
//	u[t]    = L[t]*x1[t]
//	x0[t+1] = A[t]*x1[t] + B[t]*u[t]
//	x[t+1]  = A[t]*x[t] + B[t]*u[t] + V[t]*V[t]'*v[t]
//
// where x0[0] is the initial state mean. When in.X is nil the initial state is
// sampled as x[0] = x0[0] + X*X'*e, otherwise e is recovered from in.X by pseudoinverse.
// Noise draws are scaled by the covariance forms W*W' and V*V' owned by the
// solved Kalman filter rather than by the shaping matrices W and V.
// Control inputs prescribed in in.U are used verbatim.
// It returns error if n is not positive or in is not conformable with the system.
func (s *Sim) Sample(n int, in *Input) (*Trajectory, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid number of samples: %d", n)
	}

	if in == nil {
		in = &Input{}
	}

	h := s.Horizon()
	nx, nu, ny := s.sys.dims()

	x0, err := in.Mean.resolve(nx, n)
	if err != nil {
		return nil, err
	}

	if in.X != nil {
		if err := lqg.CheckDims(in.X, "x", lqg.NoStep, nx, n); err != nil {
			return nil, err
		}
	}

	if err := checkSeq(in.U, "u", h, nu, n, true); err != nil {
		return nil, err
	}

	if err := checkSeq(in.V, "v", h, nx, n, false); err != nil {
		return nil, err
	}

	if err := checkSeq(in.W, "w", h, ny, n, false); err != nil {
		return nil, err
	}

	tr := newTrajectory(h)

	x, e, err := s.initState(x0, in.X)
	if err != nil {
		return nil, err
	}
	tr.Noise.E = e

	tr.Noise.V = s.noiseSeq(in.V, h, nx, n)
	tr.Noise.W = s.noiseSeq(in.W, h, ny, n)

	for t := 0; t < h; t++ {
		tr.X[t] = x
		tr.Filter.X0[t] = x0

		y := s.sys.observe(t, x, tr.Noise.W[t])
		tr.Y[t] = y

		// x0 + K*(y - C*x0)
		innov := s.sys.observe(t, x0, nil)
		innov.Sub(y, innov)
		x1 := &mat.Dense{}
		x1.Mul(s.k.Gain(t), innov)
		x1.Add(x0, x1)
		tr.Filter.X1[t] = x1
		tr.cov[t] = mat.DenseCopyOf(s.k.PostCov(t))

		var u *mat.Dense
		if t < len(in.U) && in.U[t] != nil {
			u = mat.DenseCopyOf(in.U[t])
		} else {
			if u, err = s.c.Control(t, x1); err != nil {
				return nil, err
			}
		}
		tr.U[t] = u

		if t < h-1 {
			x0 = s.sys.propagate(t, x1, u, nil)
			x = s.sys.propagate(t, x, u, tr.Noise.V[t])
		}
	}

	s.log.WithFields(logrus.Fields{
		"horizon": h,
		"samples": n,
	}).Debug("trajectories sampled")

	return tr, nil
}

// initState returns initial state batch and the noise draw e it was sampled with.
func (s *Sim) initState(x0, x *mat.Dense) (*mat.Dense, *mat.Dense, error) {
	nx, n := x0.Dims()
	cov := s.k.PriorCov(0)

	if x == nil {
		e := s.src.Sample(nx, n)
		state := &mat.Dense{}
		state.Mul(cov, e)
		state.Add(x0, state)

		return state, e, nil
	}

	covInv, rank, err := matrix.Pinv(cov)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to calculate initial covariance pseudoinverse: %v", err)
	}

	if rank < nx {
		s.log.WithFields(logrus.Fields{
			"rank": rank,
			"dim":  nx,
		}).Debug("singular initial covariance, using pseudoinverse")
	}

	// pinv(X*X')*(x - x0)
	diff := &mat.Dense{}
	diff.Sub(x, x0)
	e := &mat.Dense{}
	e.Mul(covInv, diff)

	return mat.DenseCopyOf(x), e, nil
}

// noiseSeq returns noise sequence of h rows x cols matrices.
// It copies seq if it is not empty, otherwise it draws the noise from the noise source.
func (s *Sim) noiseSeq(seq []*mat.Dense, h, rows, cols int) []*mat.Dense {
	out := make([]*mat.Dense, h)
	for t := range out {
		if len(seq) > 0 {
			out[t] = mat.DenseCopyOf(seq[t])
			continue
		}
		out[t] = s.src.Sample(rows, cols)
	}

	return out
}
