package intrinsics

import (
	"github.com/pkg/errors"
)

var (
	// ErrInsufficientViews is returned when there are too few homographies to constrain all five
	// intrinsic parameters.
	ErrInsufficientViews = errors.New("not enough homographies to recover intrinsics")

	// ErrDegenerateGeometry is returned when the homographies do not determine a unique,
	// physically realizable intrinsic matrix.
	ErrDegenerateGeometry = errors.New("degenerate homography geometry")

	// ErrMalformedInput is returned when a homography is not a finite 3x3 matrix.
	ErrMalformedInput = errors.New("malformed homography")
)

func newInsufficientViewsError(have int) error {
	return errors.Wrapf(ErrInsufficientViews, "have %d, need at least %d", have, MinViews)
}

func newDegenerateError(format string, args ...interface{}) error {
	return errors.Wrapf(ErrDegenerateGeometry, format, args...)
}

func newMalformedError(format string, args ...interface{}) error {
	return errors.Wrapf(ErrMalformedInput, format, args...)
}
