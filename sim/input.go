package sim

import (
	"fmt"

	lqg "github.com/milosgajdos/go-lqg"
	"gonum.org/v1/gonum/mat"
)

type meanKind int

const (
	zeroMean meanKind = iota
	vecMean
	fullMean
)

// Mean is the mean of the initial state of a sample batch.
// The zero value is a zero mean.
type Mean struct {
	kind meanKind
	val  *mat.Dense
}

// ZeroMean returns zero initial state mean
func ZeroMean() Mean {
	return Mean{kind: zeroMean}
}

// VecMean returns initial state mean v shared by all the samples in the batch
func VecMean(v mat.Vector) Mean {
	m := Mean{kind: vecMean}
	if v != nil {
		m.val = mat.DenseCopyOf(v)
	}

	return m
}

// FullMean returns initial state mean m which stores one mean per sample column
func FullMean(m mat.Matrix) Mean {
	mean := Mean{kind: fullMean}
	if m != nil {
		mean.val = mat.DenseCopyOf(m)
	}

	return mean
}

// resolve returns nx x n initial state mean matrix.
// It returns error if the mean is not conformable with nx x n batch.
func (m Mean) resolve(nx, n int) (*mat.Dense, error) {
	out := mat.NewDense(nx, n, nil)

	switch m.kind {
	case zeroMean:
		return out, nil
	case vecMean:
		if m.val == nil {
			return nil, lqg.NewShapeError("x0", lqg.NoStep, "vector not defined")
		}
		rows, cols := m.val.Dims()
		if rows != nx || cols != 1 {
			return nil, lqg.NewShapeError("x0", lqg.NoStep, "invalid vector length: %d, expected: %d", rows*cols, nx)
		}
		for j := 0; j < n; j++ {
			out.Slice(0, nx, j, j+1).(*mat.Dense).Copy(m.val)
		}
		return out, nil
	case fullMean:
		if m.val == nil {
			return nil, lqg.NewShapeError("x0", lqg.NoStep, "matrix not defined")
		}
		if err := lqg.CheckDims(m.val, "x0", lqg.NoStep, nx, n); err != nil {
			return nil, err
		}
		out.Copy(m.val)
		return out, nil
	}

	return nil, fmt.Errorf("unknown mean kind: %d", m.kind)
}

// Input configures a sample batch.
// The zero value samples the initial state around zero mean and draws all the noise.
type Input struct {
	// Mean is the initial state mean
	Mean Mean
	// X is the initial state [nx x n]; sampled around Mean when nil
	X *mat.Dense
	// U is a prescribed control input prefix [nu x n]; nil elements are computed
	U []*mat.Dense
	// V is process noise [nx x n] for every step; drawn when nil
	V []*mat.Dense
	// W is measurement noise [ny x n] for every step; drawn when nil
	W []*mat.Dense
}

// checkSeq checks that s is either empty or holds h matrices of rows x cols.
// nil elements are accepted only if allowNil is true.
func checkSeq(s []*mat.Dense, name string, h, rows, cols int, allowNil bool) error {
	if len(s) == 0 {
		return nil
	}

	if !allowNil && len(s) != h {
		return lqg.NewShapeError(name, lqg.NoStep, "invalid sequence length: %d, expected: %d", len(s), h)
	}

	if len(s) > h {
		return lqg.NewShapeError(name, lqg.NoStep, "sequence too long: %d, horizon: %d", len(s), h)
	}

	for t, m := range s {
		if m == nil {
			if allowNil {
				continue
			}
			return lqg.NewShapeError(name, t, "matrix not defined")
		}
		if err := lqg.CheckDims(m, name, t, rows, cols); err != nil {
			return err
		}
	}

	return nil
}
