package control

import (
	lqg "github.com/milosgajdos/go-lqg"
	"gonum.org/v1/gonum/mat"
)

// Controller is a solved finite horizon state feedback controller
type Controller interface {
	// lqg.Regulator is finite horizon regulator
	lqg.Regulator
	// Control returns control input L[t]*x for state x at step t
	Control(t int, x mat.Matrix) (*mat.Dense, error)
}
