package zhangcalib

import (
	"context"
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/multierr"

	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/resource"
	generic "go.viam.com/rdk/services/generic"
	"go.viam.com/utils/trace"

	"zhangcalib/intrinsics"
)

var IntrinsicsCalibratorModel = family.WithModel("intrinsics-calibrator")

func init() {
	resource.RegisterService(generic.API, IntrinsicsCalibratorModel,
		resource.Registration[resource.Resource, *CalibratorConfig]{
			Constructor: newCalibrator,
		},
	)
}

type CalibratorConfig struct {
	Homographies     [][][]float64 `json:"homographies"`
	HomographiesFile string        `json:"homographies_file"`

	WidthPx  int `json:"width_px"`
	HeightPx int `json:"height_px"`
}

func (cfg *CalibratorConfig) Validate(path string) ([]string, []string, error) {
	if len(cfg.Homographies) == 0 && cfg.HomographiesFile == "" {
		return nil, nil, fmt.Errorf("need homographies or a homographies_file")
	}

	var err error
	for i, rows := range cfg.Homographies {
		if _, herr := intrinsics.NewHomographyFromRows(rows); herr != nil {
			err = multierr.Append(err, fmt.Errorf("homographies.%d: %w", i, herr))
		}
	}
	if cfg.WidthPx < 0 || cfg.HeightPx < 0 {
		err = multierr.Append(err, fmt.Errorf("bad image size %dx%d", cfg.WidthPx, cfg.HeightPx))
	}
	return nil, nil, err
}

func newCalibrator(ctx context.Context, deps resource.Dependencies, rawConf resource.Config, logger logging.Logger) (resource.Resource, error) {
	conf, err := resource.NativeConfig[*CalibratorConfig](rawConf)
	if err != nil {
		return nil, err
	}

	return NewCalibrator(ctx, deps, rawConf.ResourceName(), conf, logger)
}

// NewCalibrator recovers intrinsics from the configured homographies and serves them over DoCommand.
func NewCalibrator(ctx context.Context, deps resource.Dependencies, name resource.Name, conf *CalibratorConfig, logger logging.Logger) (*Calibrator, error) {
	hs, err := loadHomographies(conf.Homographies, conf.HomographiesFile)
	if err != nil {
		return nil, err
	}

	res, err := intrinsics.Recover(hs, logger)
	if err != nil {
		return nil, fmt.Errorf("can't calibrate from %d homographies: %w", len(hs), err)
	}
	logger.Infof("recovered intrinsics from %d views: %+v", len(hs), res.Intrinsics)

	return &Calibrator{
		name:         name,
		conf:         conf,
		logger:       logger,
		homographies: hs,
		result:       res,
	}, nil
}

type Calibrator struct {
	resource.AlwaysRebuild
	resource.TriviallyCloseable

	name   resource.Name
	conf   *CalibratorConfig
	logger logging.Logger

	homographies []intrinsics.Homography
	result       *intrinsics.Result
}

func (c *Calibrator) Name() resource.Name {
	return c.name
}

// Result returns the calibration of the configured homographies.
func (c *Calibrator) Result() *intrinsics.Result {
	return c.result
}

type calibratorCmd struct {
	Intrinsics bool
	Calibrate  [][][]float64
	Debug      bool

	Project [][]float64 // pattern plane points (x, y)
	View    int
}

func (c *Calibrator) DoCommand(ctx context.Context, cmdMap map[string]interface{}) (map[string]interface{}, error) {
	_, span := trace.StartSpan(ctx, "calibrator::DoCommand")
	defer span.End()

	var cmd calibratorCmd
	err := mapstructure.Decode(cmdMap, &cmd)
	if err != nil {
		return nil, err
	}

	if _, ok := cmdMap["calibrate"]; ok {
		hs, err := intrinsics.HomographiesFromRows(cmd.Calibrate)
		if err != nil {
			return nil, err
		}
		res, err := intrinsics.Recover(hs, c.logger)
		if err != nil {
			return nil, err
		}
		c.logger.Debugf("calibrate: %+v", res.Intrinsics)
		return resultMap(res, c.conf.WidthPx, c.conf.HeightPx, cmd.Debug), nil
	}

	if _, ok := cmdMap["project"]; ok {
		pixels, err := c.project(cmd.View, cmd.Project)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"pixels": pixels}, nil
	}

	if cmd.Intrinsics {
		return resultMap(c.result, c.conf.WidthPx, c.conf.HeightPx, cmd.Debug), nil
	}

	return nil, fmt.Errorf("bad cmd %v", cmdMap)
}

// project maps pattern plane points into the image of one of the configured views.
func (c *Calibrator) project(view int, points [][]float64) ([][]float64, error) {
	if view < 0 || view >= len(c.homographies) {
		return nil, fmt.Errorf("no view %d, have %d", view, len(c.homographies))
	}
	h := c.homographies[view]

	pixels := make([][]float64, 0, len(points))
	for i, pt := range points {
		if len(pt) != 2 {
			return nil, fmt.Errorf("point %d needs 2 coordinates, got %d", i, len(pt))
		}
		p := h.Apply(r2.Point{X: pt[0], Y: pt[1]})
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return nil, fmt.Errorf("point %d is on the vanishing line of view %d", i, view)
		}
		pixels = append(pixels, []float64{p.X, p.Y})
	}
	return pixels, nil
}
