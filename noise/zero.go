package noise

import "gonum.org/v1/gonum/mat"

// Zero is zero noise i.e. no noise
type Zero struct{}

// NewZero creates new zero noise and returns it.
func NewZero() *Zero {
	return &Zero{}
}

// Sample returns rows x cols zero matrix.
func (e *Zero) Sample(rows, cols int) *mat.Dense {
	return mat.NewDense(rows, cols, nil)
}

// Reset does nothing: it's here to implement lqg.Noise interface
func (e *Zero) Reset() {}

// String implements the Stringer interface.
func (e *Zero) String() string {
	return "Zero{}"
}
