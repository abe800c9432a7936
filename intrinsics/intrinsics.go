package intrinsics

import (
	"math"

	"go.viam.com/rdk/rimage/transform"
	"gonum.org/v1/gonum/mat"
)

// Intrinsics are the five parameters of an upper-triangular camera matrix
//
//	[[alpha, gamma, u0],
//	 [    0,  beta, v0],
//	 [    0,     0,  1]]
type Intrinsics struct {
	Alpha float64 `json:"fx"`
	Beta  float64 `json:"fy"`
	Gamma float64 `json:"skew"`
	U0    float64 `json:"ppx"`
	V0    float64 `json:"ppy"`
}

// Matrix returns K.
func (k Intrinsics) Matrix() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		k.Alpha, k.Gamma, k.U0,
		0, k.Beta, k.V0,
		0, 0, 1,
	})
}

// Rows returns K as three rows of three values.
func (k Intrinsics) Rows() [][]float64 {
	return [][]float64{
		{k.Alpha, k.Gamma, k.U0},
		{0, k.Beta, k.V0},
		{0, 0, 1},
	}
}

// PinholeCameraIntrinsics converts k to rdk's pinhole model for an image of the given size.
// The pinhole model has no skew term, so Gamma is dropped.
func (k Intrinsics) PinholeCameraIntrinsics(width, height int) *transform.PinholeCameraIntrinsics {
	return &transform.PinholeCameraIntrinsics{
		Width:  width,
		Height: height,
		Fx:     k.Alpha,
		Fy:     k.Beta,
		Ppx:    k.U0,
		Ppy:    k.V0,
	}
}

func (k Intrinsics) finite() bool {
	for _, v := range []float64{k.Alpha, k.Beta, k.Gamma, k.U0, k.V0} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
