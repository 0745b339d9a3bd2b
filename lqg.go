package lqg

import "gonum.org/v1/gonum/mat"

// System is a finite horizon, discrete-time, linear-Gaussian system.
//
// All the matrices are indexed by the time step t in [0, Horizon()).
// Noise matrices and the initial covariance are returned in their
// shaping form M i.e. the covariance they describe is M*M'.
type System interface {
	// Horizon returns the number of time steps
	Horizon() int
	// SystemDims returns state (nx), input (nu) and output (ny) dimensions
	SystemDims() (nx, nu, ny int)
	// SystemMatrix returns state propagation matrix A at step t
	SystemMatrix(t int) mat.Matrix
	// ControlMatrix returns control input matrix B at step t
	ControlMatrix(t int) mat.Matrix
	// OutputMatrix returns observation matrix C at step t
	OutputMatrix(t int) mat.Matrix
	// StateNoise returns process noise shaping matrix V at step t
	StateNoise(t int) mat.Matrix
	// OutputNoise returns measurement noise shaping matrix W at step t
	OutputNoise(t int) mat.Matrix
	// StateCost returns state cost matrix Q at step t
	StateCost(t int) mat.Matrix
	// ControlCost returns control cost matrix R at step t
	ControlCost(t int) mat.Matrix
	// InitCov returns the shaping matrix of the initial state covariance
	InitCov() mat.Matrix
}

// Estimator is a solved finite horizon state estimator.
type Estimator interface {
	// Horizon returns the number of time steps
	Horizon() int
	// Gain returns estimator gain at step t
	Gain(t int) mat.Matrix
	// PriorCov returns predicted error covariance at step t
	PriorCov(t int) mat.Matrix
	// PostCov returns filtered error covariance at step t
	PostCov(t int) mat.Matrix
}

// Regulator is a solved finite horizon state feedback regulator.
type Regulator interface {
	// Horizon returns the number of time steps
	Horizon() int
	// Gain returns feedback gain at step t
	Gain(t int) mat.Matrix
	// CostToGo returns cost-to-go matrix at step t
	CostToGo(t int) mat.Matrix
}

// Noise generates standard normal noise.
type Noise interface {
	// Sample returns rows x cols matrix of independent noise draws
	Sample(rows, cols int) *mat.Dense
	// Reset resets the noise source
	Reset()
}
