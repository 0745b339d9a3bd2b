package noise

import (
	"fmt"
	"time"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
)

// Gaussian is standard normal noise i.e. zero mean, identity covariance noise
type Gaussian struct {
	// seed seeds the noise source
	seed uint64
	// src is the noise source shared by all distributions
	src rand.Source
	// dists caches multivariate normal distributions by dimension
	dists map[int]*distmv.Normal
}

// NewGaussian creates new Gaussian noise seeded with current time and returns it.
func NewGaussian() *Gaussian {
	return NewGaussianWithSeed(uint64(time.Now().UnixNano()))
}

// NewGaussianWithSeed creates new Gaussian noise seeded with seed and returns it.
// Two Gaussian noises created with the same seed generate the same samples.
func NewGaussianWithSeed(seed uint64) *Gaussian {
	return &Gaussian{
		seed:  seed,
		src:   rand.NewSource(seed),
		dists: make(map[int]*distmv.Normal),
	}
}

// Sample returns rows x cols matrix of standard normal draws.
// Every column is an independent draw from rows-dimensional standard normal distribution.
func (g *Gaussian) Sample(rows, cols int) *mat.Dense {
	dist := g.dist(rows)

	sample := mat.NewDense(rows, cols, nil)
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		dist.Rand(col)
		sample.SetCol(j, col)
	}

	return sample
}

func (g *Gaussian) dist(dim int) *distmv.Normal {
	if d, ok := g.dists[dim]; ok {
		return d
	}

	cov := mat.NewSymDense(dim, nil)
	for i := 0; i < dim; i++ {
		cov.SetSym(i, i, 1.0)
	}

	// identity covariance is always positive definite
	d, _ := distmv.NewNormal(make([]float64, dim), cov, g.src)
	g.dists[dim] = d

	return d
}

// Reset resets Gaussian noise to its initial seed.
func (g *Gaussian) Reset() {
	g.src = rand.NewSource(g.seed)
	g.dists = make(map[int]*distmv.Normal)
}

// Seed returns the noise seed.
func (g *Gaussian) Seed() uint64 {
	return g.seed
}

// String implements the Stringer interface.
func (g *Gaussian) String() string {
	return fmt.Sprintf("Gaussian{\nMean=%v\nSigma=%v\nSeed=%d\n}", 0, 1, g.seed)
}
