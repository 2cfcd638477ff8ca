package fx

// Grayscale desaturates buf by amount in [0,1] using the sRGB grayscale
// colour matrix: 0 is a copy, 1 is Rec. 709 luminance in every channel.
// Alpha is left untouched.
func Grayscale(buf *PixelBuffer, amount float64) *PixelBuffer {
	a := 1 - clamp(amount, 0, 1)
	m := [9]float64{
		0.2126 + 0.7874*a, 0.7152 - 0.7152*a, 0.0722 - 0.0722*a,
		0.2126 - 0.2126*a, 0.7152 + 0.2848*a, 0.0722 - 0.0722*a,
		0.2126 - 0.2126*a, 0.7152 - 0.7152*a, 0.0722 + 0.9278*a,
	}
	out := buf.Clone()
	for i := 0; i+3 < len(out.Pix); i += 4 {
		r := float64(buf.Pix[i+0])
		g := float64(buf.Pix[i+1])
		b := float64(buf.Pix[i+2])
		out.Pix[i+0] = clampStore(m[0]*r + m[1]*g + m[2]*b)
		out.Pix[i+1] = clampStore(m[3]*r + m[4]*g + m[5]*b)
		out.Pix[i+2] = clampStore(m[6]*r + m[7]*g + m[8]*b)
	}
	return out
}
