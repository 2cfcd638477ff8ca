package fx

// Sharpen convolves R, G and B with sharpen_unit scaled by intensity.
// Border pixels use only their in-range neighbours. The result is opaque.
func Sharpen(buf *PixelBuffer, intensity float64) *PixelBuffer {
	k := SharpenUnit.Scaled(float32(intensity))
	out := NewPixelBuffer(buf.Width, buf.Height)
	for c := 0; c < 3; c++ {
		storeChannel(out, c, ConvolveBorder(ChannelField(buf, c), k, BorderPartial))
	}
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = 255
	}
	return out
}
