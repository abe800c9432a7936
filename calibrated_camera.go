package zhangcalib

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mitchellh/mapstructure"

	"go.viam.com/rdk/components/camera"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/pointcloud"
	"go.viam.com/rdk/resource"
	"go.viam.com/rdk/spatialmath"
	"go.viam.com/rdk/utils"

	"zhangcalib/intrinsics"
)

var CalibratedCameraModel = family.WithModel("calibrated-camera")

const defaultOverlayHue = 120.0

func init() {
	resource.RegisterComponent(camera.API, CalibratedCameraModel,
		resource.Registration[camera.Camera, *CalibratedCameraConfig]{
			Constructor: newCalibratedCamera,
		},
	)
}

type CalibratedCameraConfig struct {
	Camera string `json:"camera"`

	Homographies     [][][]float64 `json:"homographies"`
	HomographiesFile string        `json:"homographies_file"`

	Overlay    bool     `json:"overlay"`
	OverlayHue *float64 `json:"overlay_hue,omitempty"` // degrees, default 120 (green)
}

func (cfg *CalibratedCameraConfig) Validate(path string) ([]string, []string, error) {
	if cfg.Camera == "" {
		return nil, nil, fmt.Errorf("need a camera")
	}
	if len(cfg.Homographies) == 0 && cfg.HomographiesFile == "" {
		return nil, nil, fmt.Errorf("need homographies or a homographies_file")
	}
	for i, rows := range cfg.Homographies {
		if _, err := intrinsics.NewHomographyFromRows(rows); err != nil {
			return nil, nil, fmt.Errorf("homographies.%d: %w", i, err)
		}
	}
	return []string{cfg.Camera}, nil, nil
}

func (cfg *CalibratedCameraConfig) overlayHue() float64 {
	if cfg.OverlayHue == nil {
		return defaultOverlayHue
	}
	return *cfg.OverlayHue
}

func newCalibratedCamera(ctx context.Context, deps resource.Dependencies, rawConf resource.Config, logger logging.Logger) (camera.Camera, error) {
	conf, err := resource.NativeConfig[*CalibratedCameraConfig](rawConf)
	if err != nil {
		return nil, err
	}

	return NewCalibratedCamera(ctx, deps, rawConf.ResourceName(), conf, logger)
}

// NewCalibratedCamera wraps a camera so its properties report intrinsics recovered from the
// configured homographies.
func NewCalibratedCamera(ctx context.Context, deps resource.Dependencies, name resource.Name, conf *CalibratedCameraConfig, logger logging.Logger) (*CalibratedCamera, error) {
	cam, err := camera.FromProvider(deps, conf.Camera)
	if err != nil {
		return nil, err
	}

	hs, err := loadHomographies(conf.Homographies, conf.HomographiesFile)
	if err != nil {
		return nil, err
	}

	res, err := intrinsics.Recover(hs, logger)
	if err != nil {
		return nil, fmt.Errorf("can't calibrate %s from %d homographies: %w", conf.Camera, len(hs), err)
	}
	logger.Infof("%s intrinsics: %+v", conf.Camera, res.Intrinsics)

	return &CalibratedCamera{
		name:         name,
		conf:         conf,
		logger:       logger,
		source:       cam,
		result:       res,
		overlayColor: colorful.Hsv(conf.overlayHue(), 1, 1),
	}, nil
}

type CalibratedCamera struct {
	resource.AlwaysRebuild
	resource.TriviallyCloseable

	name   resource.Name
	conf   *CalibratedCameraConfig
	logger logging.Logger
	source camera.Camera

	result       *intrinsics.Result
	overlayColor colorful.Color
}

func (c *CalibratedCamera) Name() resource.Name {
	return c.name
}

type calibratedCameraCmd struct {
	Intrinsics bool
	Debug      bool
}

func (c *CalibratedCamera) DoCommand(ctx context.Context, cmdMap map[string]interface{}) (map[string]interface{}, error) {
	var cmd calibratedCameraCmd
	err := mapstructure.Decode(cmdMap, &cmd)
	if err != nil {
		return nil, err
	}

	if cmd.Intrinsics {
		props, err := c.Properties(ctx)
		if err != nil {
			return nil, err
		}
		return resultMap(c.result, props.IntrinsicParams.Width, props.IntrinsicParams.Height, cmd.Debug), nil
	}

	return nil, fmt.Errorf("bad cmd %v", cmdMap)
}

func (c *CalibratedCamera) Geometries(ctx context.Context, extra map[string]interface{}) ([]spatialmath.Geometry, error) {
	return c.source.Geometries(ctx, extra)
}

func (c *CalibratedCamera) Image(ctx context.Context, mimeType string, extra map[string]interface{}) ([]byte, camera.ImageMetadata, error) {
	if !c.conf.Overlay {
		return c.source.Image(ctx, mimeType, extra)
	}

	img, err := camera.DecodeImageFromCamera(ctx, mimeType, extra, c.source)
	if err != nil {
		return nil, camera.ImageMetadata{}, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, c.drawOverlay(img), &jpeg.Options{Quality: 90}); err != nil {
		return nil, camera.ImageMetadata{}, err
	}

	return buf.Bytes(), camera.ImageMetadata{MimeType: utils.MimeTypeJPEG}, nil
}

func (c *CalibratedCamera) Images(ctx context.Context, filterSourceNames []string, extra map[string]interface{}) ([]camera.NamedImage, resource.ResponseMetadata, error) {
	imgs, rm, err := c.source.Images(ctx, filterSourceNames, extra)
	if err != nil {
		return nil, rm, err
	}
	if !c.conf.Overlay {
		return imgs, rm, nil
	}

	out := make([]camera.NamedImage, 0, len(imgs))
	for _, ni := range imgs {
		img, err := ni.Image(ctx)
		if err != nil {
			return nil, rm, fmt.Errorf("failed to decode image from %s: %w", ni.SourceName, err)
		}
		named, err := camera.NamedImageFromImage(c.drawOverlay(img), ni.SourceName, ni.MimeType(), ni.Annotations())
		if err != nil {
			return nil, rm, err
		}
		out = append(out, named)
	}
	return out, rm, nil
}

func (c *CalibratedCamera) NextPointCloud(ctx context.Context, extra map[string]interface{}) (pointcloud.PointCloud, error) {
	return c.source.NextPointCloud(ctx, extra)
}

// Properties are the source camera's, with the recovered intrinsics. The closed-form calibration
// has no distortion model, so distortion is cleared.
func (c *CalibratedCamera) Properties(ctx context.Context) (camera.Properties, error) {
	props, err := c.source.Properties(ctx)
	if err != nil {
		return camera.Properties{}, fmt.Errorf("failed to get properties from %s: %w", c.conf.Camera, err)
	}

	width, height, err := c.imageSize(ctx, props)
	if err != nil {
		return camera.Properties{}, err
	}

	props.IntrinsicParams = c.result.Intrinsics.PinholeCameraIntrinsics(width, height)
	props.DistortionParams = nil
	return props, nil
}

// Result returns the calibration backing this camera's intrinsics.
func (c *CalibratedCamera) Result() *intrinsics.Result {
	return c.result
}

func (c *CalibratedCamera) imageSize(ctx context.Context, props camera.Properties) (int, int, error) {
	if props.IntrinsicParams != nil && props.IntrinsicParams.Width > 0 && props.IntrinsicParams.Height > 0 {
		return props.IntrinsicParams.Width, props.IntrinsicParams.Height, nil
	}

	img, err := camera.DecodeImageFromCamera(ctx, "", nil, c.source)
	if err != nil {
		return 0, 0, fmt.Errorf("can't determine image size of %s: %w", c.conf.Camera, err)
	}
	return img.Bounds().Dx(), img.Bounds().Dy(), nil
}

func (c *CalibratedCamera) drawOverlay(img image.Image) image.Image {
	return intrinsicsOverlay(img, c.result.Intrinsics, c.overlayColor)
}

var _ camera.Camera = (*CalibratedCamera)(nil)
