package lqg

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// NoStep marks errors that do not refer to a particular time step.
const NoStep = -1

// ShapeError is returned when supplied matrices are not conformable.
type ShapeError struct {
	// Name is the name of the offending matrix or sequence
	Name string
	// Step is the offending time step or NoStep
	Step int
	// Msg describes the mismatch
	Msg string
}

// NewShapeError creates new ShapeError and returns it.
func NewShapeError(name string, step int, format string, args ...interface{}) *ShapeError {
	return &ShapeError{
		Name: name,
		Step: step,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// Error implements error interface.
func (e *ShapeError) Error() string {
	if e.Step == NoStep {
		return fmt.Sprintf("shape error: %s: %s", e.Name, e.Msg)
	}
	return fmt.Sprintf("shape error: %s[%d]: %s", e.Name, e.Step, e.Msg)
}

// CheckDims returns ShapeError if m is nil or its dimensions are not [rows x cols].
func CheckDims(m mat.Matrix, name string, step, rows, cols int) error {
	if m == nil {
		return NewShapeError(name, step, "matrix not defined")
	}

	r, c := m.Dims()
	if r != rows || c != cols {
		return NewShapeError(name, step, "invalid dimensions: [%d x %d], expected: [%d x %d]", r, c, rows, cols)
	}

	return nil
}

// SingularWarning reports that a pseudoinverse was substituted for a singular
// or ill-conditioned matrix inverse. It is never returned as a fatal error.
type SingularWarning struct {
	// Op is the name of the inverted operand
	Op string
	// Step is the time step at which the operand was inverted
	Step int
	// Rank is the numerical rank of the operand
	Rank int
	// Dim is the smaller dimension of the operand
	Dim int
}

// Error implements error interface.
func (w *SingularWarning) Error() string {
	return fmt.Sprintf("singular %s at step %d: rank %d < %d, using pseudoinverse", w.Op, w.Step, w.Rank, w.Dim)
}
