package intrinsics

import (
	"gonum.org/v1/gonum/mat"
)

// ConstraintRows returns an len(hs)x6 matrix whose row m holds the coefficients of
// hs[m][:,i]^T * B * hs[m][:,j] as a linear function of the six independent entries of the
// symmetric matrix B. hs must not be empty and i, j must be column indices in [0, 2].
func ConstraintRows(hs []Homography, i, j int) *mat.Dense {
	v := mat.NewDense(len(hs), 6, nil)
	for m, h := range hs {
		v.SetRow(m, []float64{
			h.At(0, i) * h.At(0, j),
			h.At(0, i)*h.At(1, j) + h.At(1, i)*h.At(0, j),
			h.At(1, i) * h.At(1, j),
			h.At(2, i)*h.At(0, j) + h.At(0, i)*h.At(2, j),
			h.At(2, i)*h.At(1, j) + h.At(1, i)*h.At(2, j),
			h.At(2, i) * h.At(2, j),
		})
	}
	return v
}

// ConstraintMatrix stacks the two per-view constraints of every homography into a 2Mx6 matrix.
// The first M rows say the images of the pattern's x and y axes are orthogonal, the last M say
// they have equal norm.
func ConstraintMatrix(hs []Homography) *mat.Dense {
	v01 := ConstraintRows(hs, 0, 1)
	v00 := ConstraintRows(hs, 0, 0)
	v11 := ConstraintRows(hs, 1, 1)

	var diff mat.Dense
	diff.Sub(v00, v11)

	var v mat.Dense
	v.Stack(v01, &diff)
	return &v
}
