package zhangcalib

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	otelresource "go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"

	"go.viam.com/rdk/resource"
	"go.viam.com/utils/trace"
	"gonum.org/v1/gonum/mat"

	"zhangcalib/intrinsics"
)

var family = resource.ModelNamespace("erh").WithFamily("camera-calibration")

// EnableTracing exports spans over OTLP when OTEL_SERVICE_NAME is set.
func EnableTracing() {
	serviceName := os.Getenv("OTEL_SERVICE_NAME")
	if serviceName == "" {
		fmt.Println("no OTEL_SERVICE_NAME, not enabling tracing")
		return
	}
	exporter, err := otlptracegrpc.New(context.Background())
	if err != nil {
		fmt.Printf("can't enable tracing: %v\n", err)
		return
	}
	trace.SetTracerWithExporters(
		otelresource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			semconv.ServiceNamespace("viam.com"),
		),
		exporter,
	)
}

// loadHomographies reads the homographies_file, if any, followed by the inline homographies.
func loadHomographies(inline [][][]float64, file string) ([]intrinsics.Homography, error) {
	var hs []intrinsics.Homography
	if file != "" {
		fromFile, err := intrinsics.ReadHomographiesFile(file)
		if err != nil {
			return nil, err
		}
		hs = append(hs, fromFile...)
	}
	fromConfig, err := intrinsics.HomographiesFromRows(inline)
	if err != nil {
		return nil, err
	}
	return append(hs, fromConfig...), nil
}

// resultMap is the DoCommand representation of a calibration.
func resultMap(res *intrinsics.Result, width, height int, debug bool) map[string]interface{} {
	k := res.Intrinsics
	m := map[string]interface{}{
		"fx":        k.Alpha,
		"fy":        k.Beta,
		"skew":      k.Gamma,
		"ppx":       k.U0,
		"ppy":       k.V0,
		"k":         k.Rows(),
		"width_px":  width,
		"height_px": height,
	}
	if debug {
		rows, _ := res.Constraints.Dims()
		constraints := make([][]float64, rows)
		for i := range constraints {
			constraints[i] = mat.Row(nil, i, res.Constraints)
		}
		m["constraints"] = constraints
		m["solution"] = mat.Col(nil, 0, res.Solution)
		m["singular_values"] = res.SingularValues
	}
	return m
}
