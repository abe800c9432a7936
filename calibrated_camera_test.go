package zhangcalib

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"testing"

	"go.viam.com/rdk/components/camera"
	"go.viam.com/rdk/data"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/resource"
	"go.viam.com/rdk/rimage/transform"
	"go.viam.com/rdk/utils"
	"go.viam.com/test"
)

var gray = color.RGBA{90, 90, 90, 255}

type fakeCamera struct {
	camera.Camera

	name  resource.Name
	props camera.Properties
	img   image.Image
}

func newFakeCamera(props camera.Properties) *fakeCamera {
	img := image.NewRGBA(image.Rect(0, 0, 100, 120))
	draw.Draw(img, img.Bounds(), image.NewUniform(gray), image.Point{}, draw.Src)
	return &fakeCamera{name: camera.Named("src"), props: props, img: img}
}

func (f *fakeCamera) Name() resource.Name {
	return f.name
}

func (f *fakeCamera) Properties(ctx context.Context) (camera.Properties, error) {
	return f.props, nil
}

func (f *fakeCamera) Image(ctx context.Context, mimeType string, extra map[string]interface{}) ([]byte, camera.ImageMetadata, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, f.img); err != nil {
		return nil, camera.ImageMetadata{}, err
	}
	return buf.Bytes(), camera.ImageMetadata{MimeType: utils.MimeTypePNG}, nil
}

func (f *fakeCamera) Images(ctx context.Context, filterSourceNames []string, extra map[string]interface{}) ([]camera.NamedImage, resource.ResponseMetadata, error) {
	ni, err := camera.NamedImageFromImage(f.img, "color", utils.MimeTypePNG, data.Annotations{})
	if err != nil {
		return nil, resource.ResponseMetadata{}, err
	}
	return []camera.NamedImage{ni}, resource.ResponseMetadata{}, nil
}

func newTestCalibratedCamera(t *testing.T, src *fakeCamera, conf *CalibratedCameraConfig) *CalibratedCamera {
	t.Helper()
	deps := resource.Dependencies{camera.Named("src"): src}
	c, err := NewCalibratedCamera(context.Background(), deps, camera.Named("calibrated"), conf, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	return c
}

func firstImage(t *testing.T, c camera.Camera) image.Image {
	t.Helper()
	ctx := context.Background()
	imgs, _, err := c.Images(ctx, nil, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, imgs, test.ShouldHaveLength, 1)
	img, err := imgs[0].Image(ctx)
	test.That(t, err, test.ShouldBeNil)
	return img
}

func TestCalibratedCameraConfigValidate(t *testing.T) {
	cfg := CalibratedCameraConfig{HomographiesFile: sampleFile}
	_, _, err := cfg.Validate("")
	test.That(t, err, test.ShouldNotBeNil)

	cfg = CalibratedCameraConfig{Camera: "src"}
	_, _, err = cfg.Validate("")
	test.That(t, err, test.ShouldNotBeNil)

	cfg = CalibratedCameraConfig{Camera: "src", Homographies: [][][]float64{{{1, 2, 3}}}}
	_, _, err = cfg.Validate("")
	test.That(t, err, test.ShouldNotBeNil)

	cfg = CalibratedCameraConfig{Camera: "src", HomographiesFile: sampleFile}
	deps, _, err := cfg.Validate("")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, deps, test.ShouldResemble, []string{"src"})
	test.That(t, cfg.overlayHue(), test.ShouldEqual, defaultOverlayHue)
}

func TestCalibratedCameraProperties(t *testing.T) {
	ctx := context.Background()

	t.Run("size from source intrinsics", func(t *testing.T) {
		src := newFakeCamera(camera.Properties{
			SupportsPCD:     true,
			IntrinsicParams: &transform.PinholeCameraIntrinsics{Width: 640, Height: 480, Fx: 1, Fy: 1},
			MimeTypes:       []string{utils.MimeTypeJPEG},
		})
		c := newTestCalibratedCamera(t, src, &CalibratedCameraConfig{Camera: "src", HomographiesFile: sampleFile})

		props, err := c.Properties(ctx)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, props.SupportsPCD, test.ShouldBeTrue)
		test.That(t, props.MimeTypes, test.ShouldResemble, []string{utils.MimeTypeJPEG})
		test.That(t, props.DistortionParams, test.ShouldBeNil)
		test.That(t, props.IntrinsicParams.Width, test.ShouldEqual, 640)
		test.That(t, props.IntrinsicParams.Height, test.ShouldEqual, 480)
		test.That(t, props.IntrinsicParams.Fx, test.ShouldAlmostEqual, 59.6381, 1e-3)
		test.That(t, props.IntrinsicParams.Fy, test.ShouldAlmostEqual, 62.8990, 1e-3)
		test.That(t, props.IntrinsicParams.Ppx, test.ShouldAlmostEqual, 50.8892, 1e-3)
		test.That(t, props.IntrinsicParams.Ppy, test.ShouldAlmostEqual, 67.5619, 1e-3)
	})

	t.Run("size from image", func(t *testing.T) {
		src := newFakeCamera(camera.Properties{})
		c := newTestCalibratedCamera(t, src, &CalibratedCameraConfig{Camera: "src", HomographiesFile: sampleFile})

		props, err := c.Properties(ctx)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, props.IntrinsicParams.Width, test.ShouldEqual, 100)
		test.That(t, props.IntrinsicParams.Height, test.ShouldEqual, 120)
		test.That(t, props.IntrinsicParams.Fx, test.ShouldAlmostEqual, 59.6381, 1e-3)

		res, err := c.DoCommand(ctx, map[string]interface{}{"intrinsics": true})
		test.That(t, err, test.ShouldBeNil)
		test.That(t, res["width_px"], test.ShouldEqual, 100)
		test.That(t, res["skew"], test.ShouldAlmostEqual, -0.1933, 1e-3)

		_, err = c.DoCommand(ctx, map[string]interface{}{"foo": true})
		test.That(t, err, test.ShouldNotBeNil)
	})
}

func TestCalibratedCameraImages(t *testing.T) {
	t.Run("pass through", func(t *testing.T) {
		src := newFakeCamera(camera.Properties{})
		c := newTestCalibratedCamera(t, src, &CalibratedCameraConfig{Camera: "src", HomographiesFile: sampleFile})

		img := firstImage(t, c)
		test.That(t, img, test.ShouldEqual, src.img)
	})

	t.Run("overlay", func(t *testing.T) {
		src := newFakeCamera(camera.Properties{})
		c := newTestCalibratedCamera(t, src, &CalibratedCameraConfig{
			Camera:           "src",
			HomographiesFile: sampleFile,
			Overlay:          true,
		})

		img := firstImage(t, c)
		test.That(t, img.Bounds(), test.ShouldResemble, src.img.Bounds())

		green := color.RGBA{0, 255, 0, 255}
		// principal point is (50.89, 67.56)
		test.That(t, img.At(51, 68), test.ShouldResemble, green)
		test.That(t, img.At(51+crosshairRadius, 68), test.ShouldResemble, green)
		test.That(t, img.At(51, 68-crosshairRadius), test.ShouldResemble, green)
		test.That(t, img.At(51+crosshairRadius+1, 68), test.ShouldResemble, gray)
		test.That(t, img.At(90, 110), test.ShouldResemble, gray)

		// the source image is left alone
		test.That(t, src.img.At(51, 68), test.ShouldResemble, gray)
	})

	t.Run("overlay jpeg", func(t *testing.T) {
		src := newFakeCamera(camera.Properties{})
		c := newTestCalibratedCamera(t, src, &CalibratedCameraConfig{
			Camera:           "src",
			HomographiesFile: sampleFile,
			Overlay:          true,
		})

		raw, md, err := c.Image(context.Background(), utils.MimeTypeJPEG, nil)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, md.MimeType, test.ShouldEqual, utils.MimeTypeJPEG)

		img, err := jpeg.Decode(bytes.NewReader(raw))
		test.That(t, err, test.ShouldBeNil)
		test.That(t, img.Bounds(), test.ShouldResemble, src.img.Bounds())

		// jpeg blurs the one pixel crosshair, but it stays clearly green
		r, g, b, _ := img.At(51, 68).RGBA()
		test.That(t, int(g>>8)-int(r>>8), test.ShouldBeGreaterThan, 80)
		test.That(t, int(g>>8)-int(b>>8), test.ShouldBeGreaterThan, 80)
	})

	t.Run("overlay hue", func(t *testing.T) {
		hue := 0.0
		src := newFakeCamera(camera.Properties{})
		c := newTestCalibratedCamera(t, src, &CalibratedCameraConfig{
			Camera:           "src",
			HomographiesFile: sampleFile,
			Overlay:          true,
			OverlayHue:       &hue,
		})

		img := firstImage(t, c)
		test.That(t, img.At(51, 68), test.ShouldResemble, color.RGBA{255, 0, 0, 255})
	})
}
