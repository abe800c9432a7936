// Package intrinsics recovers a pinhole camera's intrinsic matrix from homographies between a
// planar calibration pattern and its images, using Zhang's closed-form solution.
package intrinsics

import (
	"math"

	"github.com/golang/geo/r2"
)

// Homography is a 3x3 projective transform from pattern plane coordinates to image pixels,
// stored row-major. It is only defined up to scale.
type Homography [9]float64

// NewHomographyFromRows creates a Homography from three rows of three values.
func NewHomographyFromRows(rows [][]float64) (Homography, error) {
	var h Homography
	if len(rows) != 3 {
		return h, newMalformedError("need 3 rows, got %d", len(rows))
	}
	for r, row := range rows {
		if len(row) != 3 {
			return h, newMalformedError("row %d has %d columns, need 3", r, len(row))
		}
		copy(h[r*3:r*3+3], row)
	}
	return h, h.Validate()
}

// Validate checks that every entry is finite and that the matrix is not zero.
func (h Homography) Validate() error {
	nonZero := false
	for i, v := range h {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return newMalformedError("entry (%d,%d) is not finite: %v", i/3, i%3, v)
		}
		if v != 0 {
			nonZero = true
		}
	}
	if !nonZero {
		return newMalformedError("all entries are zero")
	}
	return nil
}

// At returns the entry at row, col.
func (h Homography) At(row, col int) float64 {
	return h[row*3+col]
}

// Scale returns h multiplied by s. The result represents the same projective transform when s != 0.
func (h Homography) Scale(s float64) Homography {
	for i := range h {
		h[i] *= s
	}
	return h
}

// Apply maps a pattern plane point into the image. A point on the vanishing line of the plane
// (zero homogeneous coordinate) maps to infinite or NaN coordinates.
func (h Homography) Apply(p r2.Point) r2.Point {
	w := h[6]*p.X + h[7]*p.Y + h[8]
	return r2.Point{
		X: (h[0]*p.X + h[1]*p.Y + h[2]) / w,
		Y: (h[3]*p.X + h[4]*p.Y + h[5]) / w,
	}
}

// Rows returns h as three rows of three values.
func (h Homography) Rows() [][]float64 {
	return [][]float64{
		{h[0], h[1], h[2]},
		{h[3], h[4], h[5]},
		{h[6], h[7], h[8]},
	}
}
