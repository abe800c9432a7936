package intrinsics

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// nullSpaceTolerance is the singular value, relative to the largest one, below which a
// direction is considered part of the null space.
const nullSpaceTolerance = 1e-10

// SolveHomogeneous returns the unit vector b minimizing ||v*b||, which is the right singular
// vector of v for its smallest singular value, along with all singular values of v.
// The solution is unique only up to sign, and only when the smallest singular value is simple.
func SolveHomogeneous(v mat.Matrix) (*mat.VecDense, []float64, error) {
	rows, cols := v.Dims()
	if rows < cols {
		return nil, nil, newInsufficientViewsError(rows / 2)
	}

	var svd mat.SVD
	if ok := svd.Factorize(v, mat.SVDThin); !ok {
		return nil, nil, newDegenerateError("singular value decomposition failed")
	}
	values := svd.Values(nil)

	largest := floats.Max(values)
	if largest == 0 {
		return nil, values, newDegenerateError("constraint matrix is zero")
	}
	smallest := floats.MinIdx(values)
	for i, s := range values {
		if i != smallest && s <= nullSpaceTolerance*largest {
			return nil, values, newDegenerateError(
				"constraint null space is not one-dimensional (singular values %v)", values)
		}
	}

	var rightVecs mat.Dense
	svd.VTo(&rightVecs)

	b := mat.NewVecDense(cols, nil)
	b.CopyVec(rightVecs.ColView(smallest))
	return b, values, nil
}
