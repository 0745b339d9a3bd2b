package model

import (
	"errors"
	"testing"

	lqg "github.com/milosgajdos/go-lqg"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

var _ lqg.System = (*Model)(nil)

func eye(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1.0)
	}
	return m
}

func TestNew(t *testing.T) {
	assert := assert.New(t)

	A := mat.NewDense(2, 2, []float64{1.0, 1.0, 0.0, 1.0})
	B := mat.NewDense(2, 1, []float64{0.5, 1.0})
	C := mat.NewDense(1, 2, []float64{1.0, 0.0})

	m, err := New(Config{
		Horizon: 4,
		A:       Const(A),
		B:       Const(B),
		C:       Const(C),
		Q:       Terminal(eye(2)),
		R:       Const(eye(1)),
		V:       Const(eye(2)),
		W:       Const(eye(1)),
		X:       eye(2),
	})
	assert.NoError(err)
	assert.NotNil(m)

	nx, nu, ny := m.SystemDims()
	assert.Equal(2, nx)
	assert.Equal(1, nu)
	assert.Equal(1, ny)
	assert.Equal(4, m.Horizon())

	for t := 0; t < m.Horizon(); t++ {
		assert.True(mat.Equal(A, m.SystemMatrix(t)))
		assert.True(mat.Equal(B, m.ControlMatrix(t)))
		assert.True(mat.Equal(C, m.OutputMatrix(t)))
	}

	// Q is only set at the terminal step
	assert.True(mat.Equal(mat.NewDense(2, 2, nil), m.StateCost(0)))
	assert.True(mat.Equal(eye(2), m.StateCost(3)))
	assert.True(mat.Equal(eye(2), m.InitCov()))
}

func TestNewCopies(t *testing.T) {
	assert := assert.New(t)

	A := eye(2)
	m, err := New(Config{Horizon: 2, A: Const(A)})
	assert.NoError(err)

	// caller matrices are copied in
	A.Set(0, 0, 10)
	assert.Equal(1.0, m.SystemMatrix(0).At(0, 0))

	// accessors return copies
	a := m.SystemMatrix(1).(*mat.Dense)
	a.Set(0, 0, 20)
	assert.Equal(1.0, m.SystemMatrix(1).At(0, 0))
}

func TestNewDefaults(t *testing.T) {
	assert := assert.New(t)

	// no control: B, Q, R absent
	m, err := New(Config{
		Horizon: 3,
		A:       Const(eye(2)),
		C:       Const(eye(2)),
		V:       Const(eye(2)),
		W:       Const(eye(2)),
		X:       eye(2),
	})
	assert.NoError(err)
	nx, nu, ny := m.SystemDims()
	assert.Equal(2, nx)
	assert.Equal(1, nu)
	assert.Equal(2, ny)
	assert.True(mat.Equal(mat.NewDense(2, 1, nil), m.ControlMatrix(0)))
	assert.True(mat.Equal(mat.NewDense(1, 1, nil), m.ControlCost(0)))
	assert.True(mat.Equal(mat.NewDense(2, 2, nil), m.StateCost(2)))

	// no feedback: C, W absent
	m, err = New(Config{
		Horizon: 3,
		A:       Const(eye(2)),
		B:       Const(eye(2)),
		Q:       Const(eye(2)),
		R:       Const(eye(2)),
		V:       Const(eye(2)),
		X:       eye(2),
	})
	assert.NoError(err)
	_, _, ny = m.SystemDims()
	assert.Equal(2, ny)
	assert.True(mat.Equal(mat.NewDense(2, 2, nil), m.OutputMatrix(1)))
	assert.True(mat.Equal(mat.NewDense(2, 2, nil), m.OutputNoise(1)))

	// W without C drives output dimension
	m, err = New(Config{
		Horizon: 1,
		A:       Const(eye(3)),
		W:       Const(eye(1)),
	})
	assert.NoError(err)
	_, _, ny = m.SystemDims()
	assert.Equal(1, ny)
	r, c := m.OutputMatrix(0).Dims()
	assert.Equal(1, r)
	assert.Equal(3, c)
	assert.True(mat.Equal(mat.NewDense(3, 3, nil), m.InitCov()))
}

func TestNewSteps(t *testing.T) {
	assert := assert.New(t)

	A0 := mat.NewDense(1, 1, []float64{1})
	A1 := mat.NewDense(1, 1, []float64{2})

	m, err := New(Config{Horizon: 2, A: Steps(A0, A1)})
	assert.NoError(err)
	assert.Equal(1.0, m.SystemMatrix(0).At(0, 0))
	assert.Equal(2.0, m.SystemMatrix(1).At(0, 0))

	// sequence length must match horizon
	m, err = New(Config{Horizon: 3, A: Steps(A0, A1)})
	assert.Nil(m)
	var shapeErr *lqg.ShapeError
	assert.True(errors.As(err, &shapeErr))
	assert.Equal("A", shapeErr.Name)
}

func TestNewErrors(t *testing.T) {
	assert := assert.New(t)

	for _, test := range []struct {
		name string
		cfg  Config
	}{
		{
			name: "A",
			cfg:  Config{Horizon: 2},
		},
		{
			name: "A",
			cfg:  Config{Horizon: 2, A: Const(mat.NewDense(2, 3, nil))},
		},
		{
			name: "B",
			cfg:  Config{Horizon: 2, A: Const(eye(2)), B: Const(mat.NewDense(3, 1, nil))},
		},
		{
			name: "C",
			cfg:  Config{Horizon: 2, A: Const(eye(2)), C: Const(mat.NewDense(1, 3, nil))},
		},
		{
			name: "W",
			cfg:  Config{Horizon: 2, A: Const(eye(2)), C: Const(mat.NewDense(1, 2, nil)), W: Const(eye(2))},
		},
		{
			name: "W",
			cfg:  Config{Horizon: 2, A: Const(eye(2)), W: Const(mat.NewDense(1, 2, nil))},
		},
		{
			name: "V",
			cfg:  Config{Horizon: 2, A: Const(eye(2)), V: Const(eye(3))},
		},
		{
			name: "Q",
			cfg:  Config{Horizon: 2, A: Const(eye(2)), Q: Terminal(eye(1))},
		},
		{
			name: "R",
			cfg:  Config{Horizon: 2, A: Const(eye(2)), B: Const(mat.NewDense(2, 1, nil)), R: Const(eye(2))},
		},
		{
			name: "X",
			cfg:  Config{Horizon: 2, A: Const(eye(2)), X: eye(3)},
		},
		{
			name: "A",
			cfg:  Config{Horizon: 2, A: Steps(eye(2), eye(3))},
		},
		{
			name: "A",
			cfg:  Config{Horizon: 2, A: Const(&mat.Dense{})},
		},
		{
			name: "B",
			cfg:  Config{Horizon: 2, A: Const(eye(2)), B: Const(&mat.Dense{})},
		},
	} {
		m, err := New(test.cfg)
		assert.Nil(m)
		var shapeErr *lqg.ShapeError
		if assert.True(errors.As(err, &shapeErr), "%v", err) {
			assert.Equal(test.name, shapeErr.Name)
		}
	}

	// invalid horizon
	m, err := New(Config{Horizon: 0, A: Const(eye(2))})
	assert.Nil(m)
	assert.Error(err)
}

func TestParam(t *testing.T) {
	assert := assert.New(t)

	var p Param
	assert.False(p.IsSet())
	s, err := p.Expand("Q", 2)
	assert.Nil(s)
	assert.Error(err)

	assert.True(Const(eye(1)).IsSet())
	assert.True(Steps(eye(1)).IsSet())
	assert.True(Terminal(eye(1)).IsSet())

	s, err = Terminal(eye(2)).Expand("Q", 3)
	assert.NoError(err)
	assert.Equal(3, s.Len())
	assert.True(mat.Equal(eye(2), s.At(2)))
}
