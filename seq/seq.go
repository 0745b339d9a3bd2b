// Package seq expands time-invariant matrices into per-step matrix sequences.
package seq

import (
	"fmt"

	lqg "github.com/milosgajdos/go-lqg"
	"gonum.org/v1/gonum/mat"
)

// Seq is a sequence of equally shaped matrices indexed by time step.
type Seq []*mat.Dense

// Broadcast returns a sequence of horizon independent copies of m.
// It returns error if horizon is not positive, m is nil or m has a zero dimension.
func Broadcast(m mat.Matrix, horizon int) (Seq, error) {
	if horizon <= 0 {
		return nil, fmt.Errorf("invalid horizon: %d", horizon)
	}

	if err := checkSize(m, "matrix", lqg.NoStep); err != nil {
		return nil, err
	}

	s := make(Seq, horizon)
	for t := range s {
		s[t] = mat.DenseCopyOf(m)
	}

	return s, nil
}

// Terminal returns a sequence of horizon zero matrices shaped like m
// except the matrix at idx which is a copy of m.
// Negative idx counts from the end of the sequence: -1 is the last step.
// It returns error if horizon is not positive, m is nil or empty, or idx is out of range.
func Terminal(m mat.Matrix, horizon, idx int) (Seq, error) {
	if horizon <= 0 {
		return nil, fmt.Errorf("invalid horizon: %d", horizon)
	}

	if err := checkSize(m, "matrix", lqg.NoStep); err != nil {
		return nil, err
	}

	if idx < 0 {
		idx += horizon
	}

	if idx < 0 || idx >= horizon {
		return nil, lqg.NewShapeError("matrix", idx, "index out of range: horizon %d", horizon)
	}

	rows, cols := m.Dims()
	s := make(Seq, horizon)
	for t := range s {
		if t == idx {
			s[t] = mat.DenseCopyOf(m)
			continue
		}
		s[t] = mat.NewDense(rows, cols, nil)
	}

	return s, nil
}

// Of copies matrices in ms into a new sequence.
// It returns ShapeError if the number of matrices does not match horizon,
// any of the matrices is nil or empty or the matrices are not of the same shape.
func Of(ms []mat.Matrix, horizon int) (Seq, error) {
	if horizon <= 0 {
		return nil, fmt.Errorf("invalid horizon: %d", horizon)
	}

	if len(ms) != horizon {
		return nil, lqg.NewShapeError("sequence", lqg.NoStep, "invalid length: %d, expected: %d", len(ms), horizon)
	}

	if err := checkSize(ms[0], "sequence", 0); err != nil {
		return nil, err
	}
	rows, cols := ms[0].Dims()

	s := make(Seq, horizon)
	for t, m := range ms {
		if err := lqg.CheckDims(m, "sequence", t, rows, cols); err != nil {
			return nil, err
		}
		s[t] = mat.DenseCopyOf(m)
	}

	return s, nil
}

// Len returns the number of steps in the sequence.
func (s Seq) Len() int {
	return len(s)
}

// Dims returns the dimensions of the sequence matrices.
// It returns zero dimensions for an empty sequence.
func (s Seq) Dims() (rows, cols int) {
	if len(s) == 0 {
		return 0, 0
	}

	return s[0].Dims()
}

// At returns the matrix at step t.
func (s Seq) At(t int) *mat.Dense {
	return s[t]
}

// Clone returns a deep copy of the sequence.
func (s Seq) Clone() Seq {
	c := make(Seq, len(s))
	for t := range s {
		c[t] = mat.DenseCopyOf(s[t])
	}

	return c
}

// checkSize returns ShapeError if m is nil or has a zero dimension.
func checkSize(m mat.Matrix, name string, step int) error {
	if m == nil {
		return lqg.NewShapeError(name, step, "matrix not defined")
	}

	if r, c := m.Dims(); r == 0 || c == 0 {
		return lqg.NewShapeError(name, step, "invalid dimensions: [%d x %d]", r, c)
	}

	return nil
}
