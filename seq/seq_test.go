package seq

import (
	"errors"
	"testing"

	lqg "github.com/milosgajdos/go-lqg"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestBroadcast(t *testing.T) {
	assert := assert.New(t)

	m := mat.NewDense(2, 2, []float64{1, 2, 3, 4})

	s, err := Broadcast(m, 3)
	assert.NoError(err)
	assert.Equal(3, s.Len())
	for i := 0; i < s.Len(); i++ {
		assert.True(mat.Equal(m, s.At(i)))
	}

	// slots are independent copies
	s.At(0).Scale(2, s.At(0))
	assert.Equal(2.0, s.At(0).At(0, 0))
	assert.Equal(1.0, s.At(1).At(0, 0))
	assert.Equal(1.0, s.At(2).At(0, 0))
	assert.Equal(1.0, m.At(0, 0))

	r, c := s.Dims()
	assert.Equal(2, r)
	assert.Equal(2, c)

	s, err = Broadcast(m, 0)
	assert.Nil(s)
	assert.Error(err)

	s, err = Broadcast(nil, 2)
	assert.Nil(s)
	assert.Error(err)

	// empty matrix
	s, err = Broadcast(&mat.Dense{}, 2)
	assert.Nil(s)
	var shapeErr *lqg.ShapeError
	assert.True(errors.As(err, &shapeErr))
}

func TestTerminal(t *testing.T) {
	assert := assert.New(t)

	m := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})

	for _, test := range []struct {
		idx    int
		expIdx int
	}{
		{idx: -1, expIdx: 3},
		{idx: 0, expIdx: 0},
		{idx: 2, expIdx: 2},
		{idx: -4, expIdx: 0},
	} {
		s, err := Terminal(m, 4, test.idx)
		assert.NoError(err)
		assert.Equal(4, s.Len())
		for i := 0; i < s.Len(); i++ {
			r, c := s.At(i).Dims()
			assert.Equal(2, r)
			assert.Equal(3, c)
			if i == test.expIdx {
				assert.True(mat.Equal(m, s.At(i)))
				continue
			}
			assert.True(mat.Equal(mat.NewDense(2, 3, nil), s.At(i)))
		}
	}

	for _, idx := range []int{4, -5} {
		s, err := Terminal(m, 4, idx)
		assert.Nil(s)
		assert.Error(err)
		var shapeErr *lqg.ShapeError
		assert.True(errors.As(err, &shapeErr))
	}

	s, err := Terminal(m, -1, -1)
	assert.Nil(s)
	assert.Error(err)

	s, err = Terminal(&mat.Dense{}, 4, -1)
	assert.Nil(s)
	var shapeErr *lqg.ShapeError
	assert.True(errors.As(err, &shapeErr))
}

func TestOf(t *testing.T) {
	assert := assert.New(t)

	ms := []mat.Matrix{
		mat.NewDense(1, 2, []float64{1, 2}),
		mat.NewDense(1, 2, []float64{3, 4}),
	}

	s, err := Of(ms, 2)
	assert.NoError(err)
	assert.Equal(2, s.Len())
	assert.Equal(3.0, s.At(1).At(0, 0))

	// copied on the way in
	ms[0].(*mat.Dense).Set(0, 0, 10)
	assert.Equal(1.0, s.At(0).At(0, 0))

	// length mismatch
	s, err = Of(ms, 3)
	assert.Nil(s)
	var shapeErr *lqg.ShapeError
	assert.True(errors.As(err, &shapeErr))

	// shape mismatch
	s, err = Of([]mat.Matrix{mat.NewDense(1, 2, nil), mat.NewDense(2, 2, nil)}, 2)
	assert.Nil(s)
	assert.True(errors.As(err, &shapeErr))
	assert.Equal(1, shapeErr.Step)

	// nil matrix
	s, err = Of([]mat.Matrix{mat.NewDense(1, 2, nil), nil}, 2)
	assert.Nil(s)
	assert.Error(err)

	// empty matrix
	s, err = Of([]mat.Matrix{&mat.Dense{}, &mat.Dense{}}, 2)
	assert.Nil(s)
	assert.True(errors.As(err, &shapeErr))
	assert.Equal(0, shapeErr.Step)
}

func TestClone(t *testing.T) {
	assert := assert.New(t)

	s, err := Broadcast(mat.NewDense(1, 1, []float64{1}), 2)
	assert.NoError(err)

	c := s.Clone()
	c.At(0).Set(0, 0, 5)
	assert.Equal(1.0, s.At(0).At(0, 0))
	assert.Equal(5.0, c.At(0).At(0, 0))

	var empty Seq
	r, cols := empty.Dims()
	assert.Zero(r)
	assert.Zero(cols)
}
