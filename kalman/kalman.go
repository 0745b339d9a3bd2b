package kalman

import (
	lqg "github.com/milosgajdos/go-lqg"
	"gonum.org/v1/gonum/mat"
)

// Kalman is a solved finite horizon Kalman filter
type Kalman interface {
	// lqg.Estimator is finite horizon state estimator
	lqg.Estimator
	// ProcessCov returns process noise covariance at step t
	ProcessCov(t int) mat.Matrix
	// OutputCov returns measurement noise covariance at step t
	OutputCov(t int) mat.Matrix
}
