package model

import (
	"fmt"

	lqg "github.com/milosgajdos/go-lqg"
	"github.com/milosgajdos/go-lqg/seq"
	"gonum.org/v1/gonum/mat"
)

// Config configures LQG model matrices.
// Every matrix family is set independently either as a constant or as a sequence.
// Only A is required; absent families default to zero matrices.
type Config struct {
	// Horizon is the number of time steps
	Horizon int
	// A is state propagation matrix [nx x nx]
	A Param
	// B is control input matrix [nx x nu]
	B Param
	// C is observation matrix [ny x nx]
	C Param
	// Q is state cost matrix [nx x nx]; Q at the last step is the terminal cost
	Q Param
	// R is control cost matrix [nu x nu]
	R Param
	// V is process noise shaping matrix [nx x nx]
	V Param
	// W is measurement noise shaping matrix [ny x ny]
	W Param
	// X is initial state covariance shaping matrix [nx x nx]
	X mat.Matrix
}

// Model is a finite horizon linear-Gaussian system with quadratic costs.
// Model is immutable: it copies all the configured matrices on creation
// and its accessors return copies.
type Model struct {
	horizon int
	nx      int
	nu      int
	ny      int

	a seq.Seq
	b seq.Seq
	c seq.Seq
	q seq.Seq
	r seq.Seq
	v seq.Seq
	w seq.Seq
	x *mat.Dense
}

// New creates new Model from the given configuration and returns it.
// It returns error if either of the following conditions is met:
//   - horizon is not positive
//   - A is not configured
//   - any configured matrix is not conformable with the others
//   - any configured sequence length differs from horizon
func New(c Config) (*Model, error) {
	h := c.Horizon
	if h <= 0 {
		return nil, fmt.Errorf("invalid horizon: %d", h)
	}

	if !c.A.IsSet() {
		return nil, lqg.NewShapeError("A", lqg.NoStep, "matrix not defined")
	}

	a, err := c.A.Expand("A", h)
	if err != nil {
		return nil, err
	}

	nx, _ := a.Dims()
	if err := lqg.CheckDims(a.At(0), "A", 0, nx, nx); err != nil {
		return nil, err
	}

	m := &Model{horizon: h, nx: nx, a: a}

	if m.b, m.nu, err = expandCols(c.B, "B", h, nx, 1); err != nil {
		return nil, err
	}

	// output dimension comes from C, then from W and falls back to nx
	m.ny = nx
	switch {
	case c.C.IsSet():
		if m.c, err = c.C.Expand("C", h); err != nil {
			return nil, err
		}
		m.ny, _ = m.c.Dims()
		if err := checkSeq(m.c, "C", m.ny, nx); err != nil {
			return nil, err
		}
	case c.W.IsSet():
		if rows, _, ok := c.W.dims(); ok {
			m.ny = rows
		}
	}

	if !c.C.IsSet() {
		if m.c, err = seq.Broadcast(mat.NewDense(m.ny, nx, nil), h); err != nil {
			return nil, err
		}
	}

	if m.w, err = expandSquare(c.W, "W", h, m.ny); err != nil {
		return nil, err
	}

	if m.v, err = expandSquare(c.V, "V", h, nx); err != nil {
		return nil, err
	}

	if m.q, err = expandSquare(c.Q, "Q", h, nx); err != nil {
		return nil, err
	}

	if m.r, err = expandSquare(c.R, "R", h, m.nu); err != nil {
		return nil, err
	}

	m.x = mat.NewDense(nx, nx, nil)
	if c.X != nil {
		if err := lqg.CheckDims(c.X, "X", lqg.NoStep, nx, nx); err != nil {
			return nil, err
		}
		m.x.Copy(c.X)
	}

	return m, nil
}

// expandCols expands p whose matrices must have rows rows and returns its column count.
// Absent p is expanded into zero [rows x defCols] matrices.
func expandCols(p Param, name string, h, rows, defCols int) (seq.Seq, int, error) {
	if !p.IsSet() {
		s, err := seq.Broadcast(mat.NewDense(rows, defCols, nil), h)
		return s, defCols, err
	}

	s, err := p.Expand(name, h)
	if err != nil {
		return nil, 0, err
	}

	_, cols := s.Dims()
	if err := checkSeq(s, name, rows, cols); err != nil {
		return nil, 0, err
	}

	return s, cols, nil
}

// expandSquare expands p whose matrices must be [n x n].
// Absent p is expanded into zero matrices.
func expandSquare(p Param, name string, h, n int) (seq.Seq, error) {
	if !p.IsSet() {
		return seq.Broadcast(mat.NewDense(n, n, nil), h)
	}

	s, err := p.Expand(name, h)
	if err != nil {
		return nil, err
	}

	if err := checkSeq(s, name, n, n); err != nil {
		return nil, err
	}

	return s, nil
}

func checkSeq(s seq.Seq, name string, rows, cols int) error {
	for t := range s {
		if err := lqg.CheckDims(s.At(t), name, t, rows, cols); err != nil {
			return err
		}
	}

	return nil
}

// Horizon returns the number of time steps.
func (m *Model) Horizon() int {
	return m.horizon
}

// SystemDims returns state (nx), input (nu) and output (ny) dimensions.
func (m *Model) SystemDims() (nx, nu, ny int) {
	return m.nx, m.nu, m.ny
}

// SystemMatrix returns state propagation matrix A at step t.
func (m *Model) SystemMatrix(t int) mat.Matrix {
	return mat.DenseCopyOf(m.a.At(t))
}

// ControlMatrix returns control input matrix B at step t.
func (m *Model) ControlMatrix(t int) mat.Matrix {
	return mat.DenseCopyOf(m.b.At(t))
}

// OutputMatrix returns observation matrix C at step t.
func (m *Model) OutputMatrix(t int) mat.Matrix {
	return mat.DenseCopyOf(m.c.At(t))
}

// StateNoise returns process noise shaping matrix V at step t.
func (m *Model) StateNoise(t int) mat.Matrix {
	return mat.DenseCopyOf(m.v.At(t))
}

// OutputNoise returns measurement noise shaping matrix W at step t.
func (m *Model) OutputNoise(t int) mat.Matrix {
	return mat.DenseCopyOf(m.w.At(t))
}

// StateCost returns state cost matrix Q at step t.
func (m *Model) StateCost(t int) mat.Matrix {
	return mat.DenseCopyOf(m.q.At(t))
}

// ControlCost returns control cost matrix R at step t.
func (m *Model) ControlCost(t int) mat.Matrix {
	return mat.DenseCopyOf(m.r.At(t))
}

// InitCov returns initial state covariance shaping matrix.
func (m *Model) InitCov() mat.Matrix {
	return mat.DenseCopyOf(m.x)
}
