package intrinsics

import (
	"go.viam.com/rdk/spatialmath"
)

// HomographyFromPose returns the homography K [r1 r2 t] that maps points (x, y) of the z = 0
// pattern plane into the image of a camera with intrinsics k, where pose takes pattern
// coordinates into camera coordinates. The result is scaled so H[2,2] = 1 when possible.
func HomographyFromPose(k Intrinsics, pose spatialmath.Pose) Homography {
	rot := pose.Orientation().RotationMatrix()
	t := pose.Point()

	// columns r1, r2, t
	rt := [3][3]float64{
		{rot.At(0, 0), rot.At(0, 1), t.X},
		{rot.At(1, 0), rot.At(1, 1), t.Y},
		{rot.At(2, 0), rot.At(2, 1), t.Z},
	}

	var h Homography
	for col := 0; col < 3; col++ {
		h[0*3+col] = k.Alpha*rt[0][col] + k.Gamma*rt[1][col] + k.U0*rt[2][col]
		h[1*3+col] = k.Beta*rt[1][col] + k.V0*rt[2][col]
		h[2*3+col] = rt[2][col]
	}
	if h[8] != 0 {
		h = h.Scale(1 / h[8])
	}
	return h
}
