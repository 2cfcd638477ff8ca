package fx

import "math"

// Sepia blends every pixel towards its warm sepia tone. intensity is clamped
// to [0,1]: 0 returns a copy of buf, 1 the full sepia transform. Alpha is
// left untouched.
func Sepia(buf *PixelBuffer, intensity float64) *PixelBuffer {
	intensity = clamp(intensity, 0, 1)
	out := buf.Clone()
	if intensity == 0 {
		return out
	}
	for i := 0; i+3 < len(out.Pix); i += 4 {
		r := float64(buf.Pix[i+0])
		g := float64(buf.Pix[i+1])
		b := float64(buf.Pix[i+2])

		sr := math.Min(1.18*(0.393*r+0.769*g+0.189*b), 255)
		sg := math.Min(1.05*(0.349*r+0.686*g+0.168*b), 255)
		sb := math.Min(0.88*(0.272*r+0.534*g+0.131*b), 255)

		out.Pix[i+0] = clampStore(r + (sr-r)*intensity)
		out.Pix[i+1] = clampStore(g + (sg-g)*intensity)
		out.Pix[i+2] = clampStore(b + (sb-b)*intensity)
	}
	return out
}
