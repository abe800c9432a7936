package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/rdk/components/camera"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/spatialmath"

	"github.com/erh/vmodutils"

	"zhangcalib"
	"zhangcalib/intrinsics"
)

func main() {
	err := realMain()
	if err != nil {
		panic(err)
	}
}

func realMain() error {
	ctx := context.Background()
	logger := logging.NewLogger("cli")

	file := flag.String("file", "intrinsics/testdata/sample_homographies.json", "json file with a list of 3x3 homographies")
	synthetic := flag.Int("synthetic", 0, "calibrate n synthetic views of a known camera instead of reading a file")
	host := flag.String("host", "", "host, to wrap a camera on a machine")
	cameraName := flag.String("camera", "", "camera on host")
	debug := flag.Bool("debug", false, "")

	flag.Parse()

	if *debug {
		logger.SetLevel(logging.DEBUG)
	}

	if *host != "" {
		return wrapCamera(ctx, *host, *cameraName, *file, logger)
	}

	var hs []intrinsics.Homography
	var err error
	if *synthetic > 0 {
		hs = syntheticViews(*synthetic)
	} else {
		hs, err = intrinsics.ReadHomographiesFile(*file)
		if err != nil {
			return err
		}
	}

	res, err := intrinsics.Recover(hs, logger)
	if err != nil {
		return err
	}

	logger.Infof("K from %d views:\n%v", len(hs), mat.Formatted(res.K(), mat.Squeeze()))
	if *synthetic > 0 {
		logger.Infof("expected %+v", syntheticCamera)
	}

	out, err := json.MarshalIndent(res.Intrinsics, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func wrapCamera(ctx context.Context, host, cameraName, file string, logger logging.Logger) error {
	if cameraName == "" {
		return fmt.Errorf("need a camera")
	}

	cfg := zhangcalib.CalibratedCameraConfig{
		Camera:           cameraName,
		HomographiesFile: file,
	}
	_, _, err := cfg.Validate("")
	if err != nil {
		return err
	}

	machine, err := vmodutils.ConnectToHostFromCLIToken(ctx, host, logger)
	if err != nil {
		return err
	}
	defer machine.Close(ctx)

	deps, err := vmodutils.MachineToDependencies(machine)
	if err != nil {
		return err
	}

	cam, err := zhangcalib.NewCalibratedCamera(ctx, deps, camera.Named("calibrated"), &cfg, logger)
	if err != nil {
		return err
	}
	defer cam.Close(ctx)

	props, err := cam.Properties(ctx)
	if err != nil {
		return err
	}
	logger.Infof("intrinsics: %+v", props.IntrinsicParams)
	return nil
}

var syntheticCamera = intrinsics.Intrinsics{Alpha: 1250, Beta: 900, Gamma: 1.09083, U0: 255, V0: 255}

// syntheticViews looks at a pattern 500mm away from n directions tilted 20 degrees off axis.
func syntheticViews(n int) []intrinsics.Homography {
	hs := make([]intrinsics.Homography, 0, n)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		pose := spatialmath.NewPose(
			r3.Vector{X: -90, Y: -120, Z: 500 + 20*float64(i)},
			&spatialmath.R4AA{Theta: 20 * math.Pi / 180, RX: math.Cos(a), RY: math.Sin(a)},
		)
		hs = append(hs, intrinsics.HomographyFromPose(syntheticCamera, pose))
	}
	return hs
}
