package intrinsics

import (
	"github.com/pkg/errors"
	"go.viam.com/rdk/logging"
	"gonum.org/v1/gonum/mat"
)

// MinViews is the number of homographies needed to determine all five intrinsic parameters.
// Each view contributes two equations and B has six entries up to scale.
const MinViews = 3

// Result holds recovered intrinsics and the intermediate values they came from.
type Result struct {
	Intrinsics Intrinsics

	// Constraints is the 2Mx6 matrix V of Vb = 0.
	Constraints *mat.Dense
	// Solution is the unit vector b, sign-normalized so B00 >= 0.
	Solution *mat.VecDense
	// SingularValues are those of Constraints.
	SingularValues []float64
}

// K returns the recovered intrinsic matrix.
func (r *Result) K() *mat.Dense {
	return r.Intrinsics.Matrix()
}

// Recover estimates camera intrinsics from homographies of a planar pattern seen from at least
// MinViews different poses. Errors wrap ErrInsufficientViews, ErrMalformedInput or
// ErrDegenerateGeometry. Intermediate matrices are logged at debug level.
func Recover(hs []Homography, logger logging.Logger) (*Result, error) {
	if logger == nil {
		logger = logging.NewBlankLogger("intrinsics")
	}
	if len(hs) < MinViews {
		return nil, newInsufficientViewsError(len(hs))
	}
	for i, h := range hs {
		if err := h.Validate(); err != nil {
			return nil, errors.Wrapf(err, "homography %d", i)
		}
	}

	v := ConstraintMatrix(hs)
	logger.Debugf("V\n%v", mat.Formatted(v, mat.Squeeze()))

	b, values, err := SolveHomogeneous(v)
	if err != nil {
		return nil, err
	}
	logger.Debugf("singular values %v", values)

	conic, err := NewConic(b)
	if err != nil {
		return nil, err
	}
	for i := range 6 {
		b.SetVec(i, conic.b[i])
	}
	logger.Debugf("B\n%v", mat.Formatted(conic.Sym(), mat.Squeeze()))

	k, err := conic.Intrinsics()
	if err != nil {
		return nil, err
	}

	return &Result{
		Intrinsics:     k,
		Constraints:    v,
		Solution:       b,
		SingularValues: values,
	}, nil
}
