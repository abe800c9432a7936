package zhangcalib

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"zhangcalib/intrinsics"
)

const crosshairRadius = 12

// intrinsicsOverlay copies img and marks the principal point with a crosshair and the recovered
// focal lengths as text.
func intrinsicsOverlay(img image.Image, k intrinsics.Intrinsics, c color.Color) image.Image {
	bounds := img.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, img, bounds.Min, draw.Src)

	// convert to a fixed RGBA so the overlay pixels are exact
	r, g, b, _ := c.RGBA()
	col := color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), 255}

	px := bounds.Min.X + int(math.Round(k.U0))
	py := bounds.Min.Y + int(math.Round(k.V0))
	for d := -crosshairRadius; d <= crosshairRadius; d++ {
		setIfInside(dst, px+d, py, col)
		setIfInside(dst, px, py+d, col)
	}

	drawString(dst, bounds.Min.X+5, bounds.Min.Y+15, fmt.Sprintf("fx %.2f fy %.2f", k.Alpha, k.Beta), col)
	drawString(dst, bounds.Min.X+5, bounds.Min.Y+30, fmt.Sprintf("pp (%.1f, %.1f) skew %.3f", k.U0, k.V0, k.Gamma), col)

	return dst
}

func setIfInside(dst *image.RGBA, x, y int, c color.RGBA) {
	if (image.Point{x, y}).In(dst.Bounds()) {
		dst.SetRGBA(x, y, c)
	}
}

func drawString(dst *image.RGBA, x, y int, s string, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(s)
}
