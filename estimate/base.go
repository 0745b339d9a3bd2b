package estimate

import (
	"fmt"

	"github.com/milosgajdos/go-lqg/matrix"
	"gonum.org/v1/gonum/mat"
)

// Base is base state estimate
type Base struct {
	// val is estimated value
	val *mat.VecDense
	// cov is estimated covariance
	cov *mat.SymDense
}

// NewBase returns base estimate given val and covariance cov.
// It returns error if cov is not conformable with val.
func NewBase(val mat.Vector, cov mat.Symmetric) (*Base, error) {
	if val == nil || cov == nil {
		return nil, fmt.Errorf("invalid estimate: val: %v, cov: %v", val, cov)
	}

	rv, rc := val.Len(), cov.SymmetricDim()
	if rv != rc {
		return nil, fmt.Errorf("invalid dimensions. Val: %d, Cov: %d x %d", rv, rc, rc)
	}

	v := &mat.VecDense{}
	v.CloneFromVec(val)

	c := mat.NewSymDense(rc, nil)
	c.CopySym(cov)

	return &Base{
		val: v,
		cov: c,
	}, nil
}

// NewBatch returns estimate whose value is the sample mean of the columns of x.
// cov must be a square matrix; it is symmetrized before it is stored.
// It returns error if x has no columns or cov is not conformable with x.
func NewBatch(x *mat.Dense, cov mat.Matrix) (*Base, error) {
	if x == nil || cov == nil {
		return nil, fmt.Errorf("invalid batch: x: %v, cov: %v", x, cov)
	}

	rows, cols := x.Dims()
	if cols == 0 {
		return nil, fmt.Errorf("empty batch")
	}

	cr, cc := cov.Dims()
	if cr != rows || cc != rows {
		return nil, fmt.Errorf("invalid dimensions. Val: %d, Cov: %d x %d", rows, cr, cc)
	}

	mean := mat.NewVecDense(rows, matrix.RowSums(x))
	mean.ScaleVec(1/float64(cols), mean)

	return &Base{
		val: mean,
		cov: matrix.Symmetrize(cov),
	}, nil
}

// Val returns estimated value
func (b *Base) Val() mat.Vector {
	v := &mat.VecDense{}
	v.CloneFromVec(b.val)

	return v
}

// Cov returns covariance estimate
func (b *Base) Cov() mat.Symmetric {
	cov := mat.NewSymDense(b.cov.SymmetricDim(), nil)
	cov.CopySym(b.cov)

	return cov
}

// String implements the Stringer interface.
func (b *Base) String() string {
	return fmt.Sprintf("Estimate{\nVal=%s\nCov=%s\n}", matrix.Format(b.val), matrix.Format(b.cov))
}
