package fx

import "math"

const (
	minPosterizeLevels = 2
	maxPosterizeLevels = 64
)

// PosterizeLevels maps a strength percentage to a level count. Higher
// percentages give fewer levels: 0% keeps 64, 100% leaves 2.
func PosterizeLevels(pct float64) int {
	if math.IsNaN(pct) {
		return maxPosterizeLevels
	}
	levels := int(roundHalfUp(2 + ((100-pct)/100)*62))
	return clamp(levels, minPosterizeLevels, maxPosterizeLevels)
}

// Posterize quantizes R, G and B independently to levels evenly spaced
// values in [0,255]. Alpha is left untouched.
func Posterize(buf *PixelBuffer, levels int) *PixelBuffer {
	levels = clamp(levels, minPosterizeLevels, maxPosterizeLevels)
	step := 255.0 / float64(levels-1)

	var lut [256]uint8
	for v := range lut {
		lut[v] = clampStore(roundHalfUp(float64(v)/step) * step)
	}

	out := buf.Clone()
	for i := 0; i+3 < len(out.Pix); i += 4 {
		out.Pix[i+0] = lut[out.Pix[i+0]]
		out.Pix[i+1] = lut[out.Pix[i+1]]
		out.Pix[i+2] = lut[out.Pix[i+2]]
	}
	return out
}
