package sim

import (
	"fmt"

	"github.com/milosgajdos/go-lqg/estimate"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Filter stores Kalman filter state estimates
type Filter struct {
	// X0 is predicted state estimate
	X0 []*mat.Dense
	// X1 is filtered state estimate
	X1 []*mat.Dense
}

// Noise stores noise draws used to sample trajectories
type Noise struct {
	// E is initial state noise
	E *mat.Dense
	// V is process noise
	V []*mat.Dense
	// W is measurement noise
	W []*mat.Dense
}

// Trajectory is a batch of sampled LQG trajectories.
// Every matrix stores one sample per column.
type Trajectory struct {
	// X is true state
	X []*mat.Dense
	// Y is measured output
	Y []*mat.Dense
	// U is control input
	U []*mat.Dense
	// Filter stores state estimates
	Filter Filter
	// Noise stores noise draws
	Noise Noise
	// Cost is reserved for accumulated costs; it is never populated by Sample
	Cost map[string][]float64
	// cov is filtered error covariance
	cov []*mat.Dense
}

func newTrajectory(h int) *Trajectory {
	return &Trajectory{
		X: make([]*mat.Dense, h),
		Y: make([]*mat.Dense, h),
		U: make([]*mat.Dense, h),
		Filter: Filter{
			X0: make([]*mat.Dense, h),
			X1: make([]*mat.Dense, h),
		},
		Cost: make(map[string][]float64),
		cov:  make([]*mat.Dense, h),
	}
}

// Len returns the number of time steps
func (tr *Trajectory) Len() int {
	return len(tr.X)
}

// Estimate returns batch state estimate at step t: sample mean of the filtered
// state estimates with the filtered error covariance computed by Kalman filter.
// It returns error if t is out of range.
func (tr *Trajectory) Estimate(t int) (*estimate.Base, error) {
	if t < 0 || t >= len(tr.X) {
		return nil, fmt.Errorf("invalid step: %d", t)
	}

	return estimate.NewBatch(tr.Filter.X1[t], tr.cov[t])
}

// BatchMean returns sample mean of every row of every matrix in s.
func BatchMean(s []*mat.Dense) []*mat.VecDense {
	out := make([]*mat.VecDense, len(s))
	for t, m := range s {
		rows, _ := m.Dims()
		mean := mat.NewVecDense(rows, nil)
		for i := 0; i < rows; i++ {
			mean.SetVec(i, stat.Mean(m.RawRowView(i), nil))
		}
		out[t] = mean
	}

	return out
}

// BatchStdDev returns sample standard deviation of every row of every matrix in s.
// Standard deviation of a single sample batch is NaN.
func BatchStdDev(s []*mat.Dense) []*mat.VecDense {
	out := make([]*mat.VecDense, len(s))
	for t, m := range s {
		rows, _ := m.Dims()
		std := mat.NewVecDense(rows, nil)
		for i := 0; i < rows; i++ {
			_, sd := stat.MeanStdDev(m.RawRowView(i), nil)
			std.SetVec(i, sd)
		}
		out[t] = std
	}

	return out
}
