package fx

import "math"

// Abs returns |v| for every value of f.
func Abs(f ScalarField) ScalarField {
	out := NewScalarField(f.Width, f.Height)
	for i, v := range f.Values {
		out.Values[i] = float32(math.Abs(float64(v)))
	}
	return out
}

// SumAbs combines two gradient fields as |gx| + |gy|.
func SumAbs(gx, gy ScalarField) ScalarField {
	out := NewScalarField(gx.Width, gx.Height)
	for i := range out.Values {
		out.Values[i] = float32(math.Abs(float64(gx.Values[i])) + math.Abs(float64(gy.Values[i])))
	}
	return out
}

// Normalize rescales f so that its largest absolute value becomes 255.
// An all-zero field is returned unchanged.
func Normalize(f ScalarField) ScalarField {
	var peak float32
	for _, v := range f.Values {
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	scale := float32(1)
	if peak > 0 {
		scale = 255 / peak
	}
	out := NewScalarField(f.Width, f.Height)
	for i, v := range f.Values {
		out.Values[i] = v * scale
	}
	return out
}

// FieldToPixels writes f as an opaque gray image: every value is clamped to
// [0,255] and rounded, then copied into R, G and B with A = 255.
func FieldToPixels(f ScalarField) *PixelBuffer {
	out := NewPixelBuffer(f.Width, f.Height)
	for j, v := range f.Values {
		g := uint8(roundHalfUp(clamp(float64(v), 0, 255)))
		i := j * 4
		out.Pix[i+0] = g
		out.Pix[i+1] = g
		out.Pix[i+2] = g
		out.Pix[i+3] = 255
	}
	return out
}

// roundHalfUp rounds x to the nearest integer, ties towards +Inf.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}
