package kf

import (
	"fmt"

	lqg "github.com/milosgajdos/go-lqg"
	"github.com/milosgajdos/go-lqg/matrix"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

// Option configures KF
type Option func(*KF)

// WithLogger sets KF logger
func WithLogger(l logrus.FieldLogger) Option {
	return func(k *KF) {
		k.log = l
	}
}

// KF is finite horizon Kalman Filter
type KF struct {
	// k is Kalman gain
	k []*mat.Dense
	// x0 is predicted error covariance
	x0 []*mat.Dense
	// x1 is filtered error covariance
	x1 []*mat.Dense
	// v is process noise covariance
	v []*mat.Dense
	// w is measurement noise covariance
	w []*mat.Dense
	// warnings stores pseudoinverse substitutions
	warnings []*lqg.SingularWarning
	// log is KF logger
	log logrus.FieldLogger
}

// New creates new KF for the system m and returns it.
// It computes Kalman gains and error covariances for every step of the horizon:
//
//	K[t]    = X0[t]*C[t]'*pinv(C[t]*X0[t]*C[t]' + W[t])
//	X1[t]   = X0[t] - K[t]*C[t]*X0[t]
//	X0[t+1] = A[t]*X1[t]*A[t]' + V[t]
//
// where X0[0], V and W are covariances computed from the system shaping matrices.
// The system matrices are never modified: covariances are computed into new matrices.
// Singular innovation covariance is inverted using pseudoinverse: the substitution is
// logged and recorded in Warnings, but it is not an error.
// It returns error if either of the following conditions is met:
//   - invalid model is given: model dimensions and horizon must be positive integers
//   - any of the model matrices is not conformable
func New(m lqg.System, opts ...Option) (*KF, error) {
	if m == nil {
		return nil, fmt.Errorf("invalid model: %v", m)
	}

	h := m.Horizon()
	if h <= 0 {
		return nil, fmt.Errorf("invalid model horizon: %d", h)
	}

	nx, _, ny := m.SystemDims()
	if nx <= 0 || ny <= 0 {
		return nil, fmt.Errorf("invalid model dimensions: [%d x %d]", nx, ny)
	}

	k := &KF{
		k:   make([]*mat.Dense, h),
		x0:  make([]*mat.Dense, h),
		x1:  make([]*mat.Dense, h),
		v:   make([]*mat.Dense, h),
		w:   make([]*mat.Dense, h),
		log: logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(k)
	}

	x := m.InitCov()
	if err := lqg.CheckDims(x, "X", lqg.NoStep, nx, nx); err != nil {
		return nil, err
	}
	k.x0[0] = matrix.Square(x)

	for t := 0; t < h; t++ {
		A, C := m.SystemMatrix(t), m.OutputMatrix(t)
		V, W := m.StateNoise(t), m.OutputNoise(t)

		if err := checkDims(t, nx, ny, A, C, V, W); err != nil {
			return nil, err
		}

		k.v[t] = matrix.Square(V)
		k.w[t] = matrix.Square(W)

		if err := k.update(t, C); err != nil {
			return nil, err
		}

		if t < h-1 {
			k.x0[t+1] = predict(A, k.x1[t], k.v[t])
		}
	}

	k.log.WithFields(logrus.Fields{
		"horizon":  h,
		"warnings": len(k.warnings),
	}).Debug("kalman filter solved")

	return k, nil
}

func checkDims(t, nx, ny int, A, C, V, W mat.Matrix) error {
	if err := lqg.CheckDims(A, "A", t, nx, nx); err != nil {
		return err
	}

	if err := lqg.CheckDims(C, "C", t, ny, nx); err != nil {
		return err
	}

	if err := lqg.CheckDims(V, "V", t, nx, nx); err != nil {
		return err
	}

	return lqg.CheckDims(W, "W", t, ny, ny)
}

// update computes Kalman gain and filtered covariance at step t.
func (k *KF) update(t int, C mat.Matrix) error {
	ny, nx := C.Dims()

	// X0*C'
	pxy := mat.NewDense(nx, ny, nil)
	pxy.Mul(k.x0[t], C.T())

	// Note: pxy = X0*C' so we reuse the result here
	// C*X0*C' + W
	pyy := mat.NewDense(ny, ny, nil)
	pyy.Mul(C, pxy)
	pyy.Add(pyy, k.w[t])

	pyyInv, rank, err := matrix.Pinv(pyy)
	if err != nil {
		return fmt.Errorf("failed to calculate innovation covariance pseudoinverse at step %d: %v", t, err)
	}

	if rank < ny {
		w := &lqg.SingularWarning{Op: "innovation covariance", Step: t, Rank: rank, Dim: ny}
		k.warnings = append(k.warnings, w)
		k.log.WithFields(logrus.Fields{
			"step": t,
			"rank": rank,
			"dim":  ny,
		}).Warn("singular innovation covariance, using pseudoinverse")
	}

	gain := mat.NewDense(nx, ny, nil)
	gain.Mul(pxy, pyyInv)

	// X0 - K*C*X0
	kcx := mat.NewDense(nx, nx, nil)
	kcx.Mul(gain, C)
	kcx.Mul(kcx, k.x0[t])

	x1 := mat.NewDense(nx, nx, nil)
	x1.Sub(k.x0[t], kcx)

	k.k[t] = gain
	k.x1[t] = x1

	return nil
}

// predict returns A*X1*A' + V
func predict(A, x1, V mat.Matrix) *mat.Dense {
	cov := &mat.Dense{}
	cov.Mul(A, x1)
	cov.Mul(cov, A.T())
	cov.Add(cov, V)

	return cov
}

// Horizon returns the number of time steps
func (k *KF) Horizon() int {
	return len(k.k)
}

// Gain returns Kalman gain at step t
func (k *KF) Gain(t int) mat.Matrix {
	return mat.DenseCopyOf(k.k[t])
}

// PriorCov returns predicted error covariance at step t
func (k *KF) PriorCov(t int) mat.Matrix {
	return mat.DenseCopyOf(k.x0[t])
}

// PostCov returns filtered error covariance at step t
func (k *KF) PostCov(t int) mat.Matrix {
	return mat.DenseCopyOf(k.x1[t])
}

// ProcessCov returns process noise covariance V*V' at step t
func (k *KF) ProcessCov(t int) mat.Matrix {
	return mat.DenseCopyOf(k.v[t])
}

// OutputCov returns measurement noise covariance W*W' at step t
func (k *KF) OutputCov(t int) mat.Matrix {
	return mat.DenseCopyOf(k.w[t])
}

// Warnings returns pseudoinverse substitutions made while solving the filter
func (k *KF) Warnings() []*lqg.SingularWarning {
	warnings := make([]*lqg.SingularWarning, len(k.warnings))
	copy(warnings, k.warnings)

	return warnings
}
