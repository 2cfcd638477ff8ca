package fx

// BT.601 luma weights.
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// RGBAToGray extracts BT.601 luminance from buf, ignoring alpha.
func RGBAToGray(buf *PixelBuffer) ScalarField {
	gray := NewScalarField(buf.Width, buf.Height)
	for i, j := 0, 0; j < len(gray.Values); i, j = i+4, j+1 {
		gray.Values[j] = lumaR*float32(buf.Pix[i]) + lumaG*float32(buf.Pix[i+1]) + lumaB*float32(buf.Pix[i+2])
	}
	return gray
}
