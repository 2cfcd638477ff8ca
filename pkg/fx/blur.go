package fx

import (
	"math"

	"github.com/anthonynsimon/bild/blur"
)

// BlurRadiusFromPercent maps a 1-100 strength to a blur radius in pixels,
// 0.5 to 20.
func BlurRadiusFromPercent(pct float64) float64 {
	return math.Max(0.5, math.Round(pct/100*20))
}

// GaussianBlur blurs all four channels with a Gaussian of the given radius.
// The kernel spans ceil(2*radius+1) taps and samples past the edge repeat
// the nearest edge pixel.
func GaussianBlur(buf *PixelBuffer, radius float64) *PixelBuffer {
	if buf.Width == 0 || buf.Height == 0 {
		return NewPixelBuffer(buf.Width, buf.Height)
	}
	return FromImage(blur.Gaussian(buf.Image(), radius))
}
