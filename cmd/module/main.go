package main

import (
	"go.viam.com/rdk/components/camera"
	"go.viam.com/rdk/module"
	"go.viam.com/rdk/resource"
	generic "go.viam.com/rdk/services/generic"

	"zhangcalib"
)

func main() {
	zhangcalib.EnableTracing()

	module.ModularMain(
		resource.APIModel{API: camera.API, Model: zhangcalib.CalibratedCameraModel},
		resource.APIModel{API: generic.API, Model: zhangcalib.IntrinsicsCalibratorModel},
	)
}
