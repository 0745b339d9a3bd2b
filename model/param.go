package model

import (
	"errors"

	lqg "github.com/milosgajdos/go-lqg"
	"github.com/milosgajdos/go-lqg/seq"
	"gonum.org/v1/gonum/mat"
)

type paramKind int

const (
	absent paramKind = iota
	constant
	steps
	terminal
)

// Param is a matrix family value: either a single time-invariant matrix
// or an explicit sequence of per-step matrices.
// The zero value of Param is an absent value.
type Param struct {
	kind paramKind
	m    mat.Matrix
	ms   []mat.Matrix
}

// Const returns Param which sets m at every time step.
func Const(m mat.Matrix) Param {
	return Param{kind: constant, m: m}
}

// Steps returns Param which sets ms[t] at time step t.
func Steps(ms ...mat.Matrix) Param {
	return Param{kind: steps, ms: ms}
}

// Terminal returns Param which sets m at the last time step and zero matrices elsewhere.
func Terminal(m mat.Matrix) Param {
	return Param{kind: terminal, m: m}
}

// IsSet returns true if p has been set.
func (p Param) IsSet() bool {
	return p.kind != absent
}

// Expand expands p into a sequence of horizon matrices.
// Returned ShapeError carries name of the matrix family.
func (p Param) Expand(name string, horizon int) (seq.Seq, error) {
	var s seq.Seq
	var err error

	switch p.kind {
	case constant:
		s, err = seq.Broadcast(p.m, horizon)
	case steps:
		s, err = seq.Of(p.ms, horizon)
	case terminal:
		s, err = seq.Terminal(p.m, horizon, -1)
	default:
		return nil, lqg.NewShapeError(name, lqg.NoStep, "matrix not defined")
	}

	if err != nil {
		var shapeErr *lqg.ShapeError
		if errors.As(err, &shapeErr) {
			shapeErr.Name = name
		}
		return nil, err
	}

	return s, nil
}

// dims returns dimensions of the first configured matrix.
func (p Param) dims() (rows, cols int, ok bool) {
	m := p.m
	if p.kind == steps {
		if len(p.ms) == 0 {
			return 0, 0, false
		}
		m = p.ms[0]
	}

	if m == nil {
		return 0, 0, false
	}
	rows, cols = m.Dims()

	return rows, cols, true
}
