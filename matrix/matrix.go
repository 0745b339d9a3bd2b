package matrix

import (
	"fmt"

	gomatrix "github.com/milosgajdos/matrix"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Rcond is the relative cutoff for small singular values: singular values
// smaller than or equal to Rcond times the largest singular value are treated as zero.
const Rcond = 1e-15

// Pinv returns the Moore-Penrose pseudoinverse of a together with the numerical rank of a.
// The pseudoinverse is computed from the thin SVD of a: pinv(a) = V*inv(S)*U'
// where the reciprocals of singular values below the cutoff are replaced with zeros,
// so the result is the least-norm solution for singular a.
// It returns error if the SVD factorization fails.
func Pinv(a mat.Matrix) (*mat.Dense, int, error) {
	rows, cols := a.Dims()

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, 0, fmt.Errorf("SVD factorization failed")
	}

	U := new(mat.Dense)
	svd.UTo(U)
	V := new(mat.Dense)
	svd.VTo(V)

	vals := svd.Values(nil)
	tol := Rcond * vals[0]

	rank := 0
	for i := range vals {
		if vals[i] > tol {
			vals[i] = 1 / vals[i]
			rank++
			continue
		}
		vals[i] = 0
	}
	V.Mul(V, mat.NewDiagDense(len(vals), vals))

	pinv := mat.NewDense(cols, rows, nil)
	pinv.Mul(V, U.T())

	return pinv, rank, nil
}

// Square returns m*m' i.e. turns a shaping matrix m into the covariance it describes.
func Square(m mat.Matrix) *mat.Dense {
	rows, _ := m.Dims()
	sq := mat.NewDense(rows, rows, nil)
	sq.Mul(m, m.T())

	return sq
}

// Symmetrize returns symmetric matrix (m + m')/2.
// It panics if m is not square.
func Symmetrize(m mat.Matrix) *mat.SymDense {
	rows, cols := m.Dims()
	if rows != cols {
		panic(mat.ErrSquare)
	}

	sym := mat.NewSymDense(rows, nil)
	for i := 0; i < rows; i++ {
		for j := i; j < rows; j++ {
			sym.SetSym(i, j, (m.At(i, j)+m.At(j, i))/2)
		}
	}

	return sym
}

// Identity returns n x n identity matrix.
// It returns error if n is not positive.
func Identity(n int) (*mat.Dense, error) {
	return gomatrix.NewDenseValIdentity(n, 1.0)
}

// IsZero returns true if all elements of m are zero.
func IsZero(m mat.Matrix) bool {
	rows, cols := m.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if m.At(i, j) != 0 {
				return false
			}
		}
	}

	return true
}

// Format returns compact string representation of m.
func Format(m mat.Matrix) string {
	return fmt.Sprintf("%v", gomatrix.Format(m))
}

// RowSums returns a slice containing m row sums.
// It panics if m is nil.
func RowSums(m *mat.Dense) []float64 {
	rows, _ := m.Dims()
	sum := make([]float64, rows)

	for i := 0; i < rows; i++ {
		sum[i] = floats.Sum(m.RawRowView(i))
	}

	return sum
}
