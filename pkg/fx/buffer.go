package fx

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// PixelBuffer holds interleaved, non-premultiplied R,G,B,A samples.
// len(Pix) is always Width*Height*4 for a valid buffer.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewPixelBuffer allocates a zeroed (transparent black) buffer.
func NewPixelBuffer(width, height int) *PixelBuffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &PixelBuffer{Width: width, Height: height, Pix: make([]uint8, width*height*4)}
}

// WrapPixelBuffer wraps decoded samples without copying them. It fails with
// ErrInvalidBuffer if the sample count does not match the dimensions.
func WrapPixelBuffer(width, height int, pix []uint8) (*PixelBuffer, error) {
	b := &PixelBuffer{Width: width, Height: height, Pix: pix}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate checks the length invariant.
func (b *PixelBuffer) Validate() error {
	if b == nil {
		return fmt.Errorf("%w: nil buffer", ErrInvalidBuffer)
	}
	if b.Width < 0 || b.Height < 0 {
		return fmt.Errorf("%w: negative dimensions %dx%d", ErrInvalidBuffer, b.Width, b.Height)
	}
	if b.Width != 0 && b.Height > math.MaxInt/4/b.Width {
		return fmt.Errorf("%w: dimensions %dx%d too large", ErrInvalidBuffer, b.Width, b.Height)
	}
	if want := b.Width * b.Height * 4; len(b.Pix) != want {
		return fmt.Errorf("%w: have %d samples, want %d for %dx%d", ErrInvalidBuffer, len(b.Pix), want, b.Width, b.Height)
	}
	return nil
}

// PixOffset returns the index of the R sample of pixel (x, y).
func (b *PixelBuffer) PixOffset(x, y int) int {
	return (y*b.Width + x) * 4
}

// Clone returns a deep copy of b.
func (b *PixelBuffer) Clone() *PixelBuffer {
	out := &PixelBuffer{Width: b.Width, Height: b.Height, Pix: make([]uint8, len(b.Pix))}
	copy(out.Pix, b.Pix)
	return out
}

// Image exposes the buffer as an *image.NRGBA for encoders. The pixel data is
// copied so later writes to the image do not reach b.
func (b *PixelBuffer) Image() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	copy(out.Pix, b.Pix)
	return out
}

// FromImage converts any image.Image into a PixelBuffer anchored at (0,0).
func FromImage(src image.Image) *PixelBuffer {
	if src == nil {
		return nil
	}
	bounds := src.Bounds()
	out := NewPixelBuffer(bounds.Dx(), bounds.Dy())
	if n, ok := src.(*image.NRGBA); ok {
		for y := 0; y < out.Height; y++ {
			i := n.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(out.Pix[y*out.Width*4:(y+1)*out.Width*4], n.Pix[i:i+out.Width*4])
		}
		return out
	}
	idx := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			out.Pix[idx+0] = c.R
			out.Pix[idx+1] = c.G
			out.Pix[idx+2] = c.B
			out.Pix[idx+3] = c.A
			idx += 4
		}
	}
	return out
}

// ScalarField is a single float plane, one value per pixel, row-major.
type ScalarField struct {
	Width  int
	Height int
	Values []float32
}

// NewScalarField allocates a zeroed field.
func NewScalarField(width, height int) ScalarField {
	return ScalarField{Width: width, Height: height, Values: make([]float32, width*height)}
}

// At returns the value at (x, y).
func (f ScalarField) At(x, y int) float32 {
	return f.Values[y*f.Width+x]
}

// ChannelField copies channel c (0=R, 1=G, 2=B, 3=A) of buf into a field.
func ChannelField(buf *PixelBuffer, c int) ScalarField {
	f := NewScalarField(buf.Width, buf.Height)
	for i, j := c, 0; j < len(f.Values); i, j = i+4, j+1 {
		f.Values[j] = float32(buf.Pix[i])
	}
	return f
}

// storeChannel writes f into channel c of dst using the clamped 8-bit store.
func storeChannel(dst *PixelBuffer, c int, f ScalarField) {
	for i, j := c, 0; j < len(f.Values); i, j = i+4, j+1 {
		dst.Pix[i] = clampStore(float64(f.Values[j]))
	}
}
