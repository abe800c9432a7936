package intrinsics

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Conic is the symmetric matrix B = K^-T K^-1 (the image of the absolute conic), known up to a
// positive scale. It is built from the six independent entries
//
//	[[b0, b1, b3],
//	 [b1, b2, b4],
//	 [b3, b4, b5]]
type Conic struct {
	b [6]float64
}

// NewConic unpacks a 6-vector into a Conic. The vector is only defined up to sign, so it is
// flipped when needed to make B00 non-negative.
func NewConic(b mat.Vector) (Conic, error) {
	var c Conic
	if b.Len() != 6 {
		return c, newMalformedError("conic needs 6 entries, got %d", b.Len())
	}
	sign := 1.0
	if b.AtVec(0) < 0 {
		sign = -1
	}
	for i := range c.b {
		c.b[i] = sign * b.AtVec(i)
	}
	return c, nil
}

// B00 returns B[0,0].
func (c Conic) B00() float64 { return c.b[0] }

// B01 returns B[0,1].
func (c Conic) B01() float64 { return c.b[1] }

// B02 returns B[0,2].
func (c Conic) B02() float64 { return c.b[3] }

// B11 returns B[1,1].
func (c Conic) B11() float64 { return c.b[2] }

// B12 returns B[1,2].
func (c Conic) B12() float64 { return c.b[4] }

// B22 returns B[2,2].
func (c Conic) B22() float64 { return c.b[5] }

// Sym returns B as a gonum symmetric matrix.
func (c Conic) Sym() *mat.SymDense {
	return mat.NewSymDense(3, []float64{
		c.B00(), c.B01(), c.B02(),
		c.B01(), c.B11(), c.B12(),
		c.B02(), c.B12(), c.B22(),
	})
}

// Intrinsics extracts the camera parameters from B in closed form (Zhang, appendix B).
//
// B is a positive multiple of K^-T K^-1, which is positive definite for any camera with positive
// focal lengths, so its leading principal minors B00 = 1/alpha^2 and
// B00*B11 - B01^2 = 1/(alpha*beta)^2 must be positive, and so must the recovered scale lambda.
// A violation of any of these means the views did not determine a real camera.
func (c Conic) Intrinsics() (Intrinsics, error) {
	b00, b01, b02 := c.B00(), c.B01(), c.B02()
	b11, b12, b22 := c.B11(), c.B12(), c.B22()

	if !(b00 > 0) {
		return Intrinsics{}, newDegenerateError("B00 = %v is not positive", b00)
	}
	minor := b00*b11 - b01*b01
	if !(minor > 0) {
		return Intrinsics{}, newDegenerateError("B00*B11 - B01^2 = %v is not positive", minor)
	}

	v0 := (b01*b02 - b00*b12) / minor
	lambda := b22 - (b02*b02+v0*(b01*b02-b00*b12))/b00
	if !(lambda > 0) {
		return Intrinsics{}, newDegenerateError("scale lambda = %v is not positive", lambda)
	}

	alpha := math.Sqrt(lambda / b00)
	beta := math.Sqrt(lambda * b00 / minor)
	gamma := -b01 * alpha * alpha * beta / lambda
	u0 := gamma*v0/beta - b02*alpha*alpha/lambda

	k := Intrinsics{Alpha: alpha, Beta: beta, Gamma: gamma, U0: u0, V0: v0}
	if !k.finite() {
		return Intrinsics{}, newDegenerateError("non-finite intrinsics %+v", k)
	}
	return k, nil
}
