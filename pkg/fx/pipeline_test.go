package fx

import (
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allRequests() []EffectRequest {
	return []EffectRequest{
		{Effect: EffectEdge1D},
		{Effect: EffectEdgeSobel},
		{Effect: EffectEdgeLaplacian},
		{Effect: EffectEmboss, Direction: TopLeft},
		{Effect: EffectEmboss, Direction: BottomRight},
		{Effect: EffectSharpen, Percent: 75},
		{Effect: EffectSepia, Percent: 40},
		{Effect: EffectPosterize, Percent: 90},
		{Effect: EffectBlur, Percent: 10},
		{Effect: EffectBlur, Radius: 1.5},
		{Effect: EffectGrayscale, Percent: 100},
	}
}

func TestApplyPreservesDimensionsAndInput(t *testing.T) {
	for _, sz := range [][2]int{{1, 1}, {2, 2}, {3, 3}, {8, 5}, {0, 0}} {
		src := makeRampBuffer(sz[0], sz[1])
		orig := src.Clone()
		for _, req := range allRequests() {
			out, err := Apply(src, req)
			require.NoError(t, err, "%v on %dx%d", req.Effect, sz[0], sz[1])
			assert.Equal(t, src.Width, out.Width)
			assert.Equal(t, src.Height, out.Height)
			assert.NoError(t, out.Validate())
			assert.Equal(t, orig.Pix, src.Pix, "%v mutated its input", req.Effect)
		}
	}
}

func TestSobelOnUniformGrayIsBlack(t *testing.T) {
	src := makeSolidBuffer(3, 3, color.NRGBA{R: 128, G: 128, B: 128, A: 255})
	out, err := Apply(src, EffectRequest{Effect: EffectEdgeSobel})
	require.NoError(t, err)
	for i := 0; i < len(out.Pix); i += 4 {
		assert.Equal(t, []uint8{0, 0, 0, 255}, out.Pix[i:i+4])
	}
}

func TestEdgeOutputsAreOpaqueGray(t *testing.T) {
	src := makeRampBuffer(10, 10)
	for _, e := range []Effect{EffectEdge1D, EffectEdgeSobel, EffectEdgeLaplacian, EffectEmboss} {
		out, err := Apply(src, EffectRequest{Effect: e})
		require.NoError(t, err)
		var peak uint8
		for i := 0; i < len(out.Pix); i += 4 {
			assert.Equal(t, out.Pix[i], out.Pix[i+1])
			assert.Equal(t, out.Pix[i], out.Pix[i+2])
			assert.Equal(t, uint8(255), out.Pix[i+3])
			if out.Pix[i] > peak {
				peak = out.Pix[i]
			}
		}
		if e != EffectEmboss {
			// magnitudes are non-negative, so the brightest pixel hits 255
			assert.Equal(t, uint8(255), peak, "%v should stretch to full range", e)
		}
	}
}

func TestEmbossScalesByLargestMagnitude(t *testing.T) {
	// (0,0) is 100 and (3,2) is 40; only (1,1) and (2,1) are interior.
	src := makeSolidBuffer(4, 3, color.NRGBA{A: 255})
	for _, p := range []struct {
		x, y int
		v    uint8
	}{{0, 0, 100}, {3, 2, 40}} {
		i := src.PixOffset(p.x, p.y)
		src.Pix[i], src.Pix[i+1], src.Pix[i+2] = p.v, p.v, p.v
	}
	cases := []struct {
		dir  Direction
		want []uint8
	}{
		// responses -200 and +80: the negative peak sets the scale and clamps to 0
		{TopLeft, []uint8{0, 0, 0, 0, 0, 0, 102, 0, 0, 0, 0, 0}},
		// responses +200 and -80
		{BottomRight, []uint8{0, 0, 0, 0, 0, 255, 0, 0, 0, 0, 0, 0}},
	}
	for _, tc := range cases {
		out, err := Apply(src, EffectRequest{Effect: EffectEmboss, Direction: tc.dir})
		require.NoError(t, err)
		got := make([]uint8, 0, 12)
		for i := 0; i < len(out.Pix); i += 4 {
			got = append(got, out.Pix[i])
			assert.Equal(t, uint8(255), out.Pix[i+3])
		}
		assert.Equal(t, tc.want, got, "%v", tc.dir)
	}
}

func TestEdge1DSingleRow(t *testing.T) {
	src := NewPixelBuffer(3, 1)
	src.Pix[8], src.Pix[9], src.Pix[10] = 100, 100, 100
	out, err := Apply(src, EffectRequest{Effect: EffectEdge1D})
	require.NoError(t, err)
	assert.Equal(t, []uint8{0, 255, 0}, []uint8{out.Pix[0], out.Pix[4], out.Pix[8]})
}

func TestApplyRejects(t *testing.T) {
	good := makeRampBuffer(4, 4)
	cases := []struct {
		name string
		buf  *PixelBuffer
		req  EffectRequest
		want error
	}{
		{"bad buffer", &PixelBuffer{Width: 4, Height: 4, Pix: make([]uint8, 3)}, EffectRequest{Effect: EffectSepia}, ErrInvalidBuffer},
		{"huge dimensions", &PixelBuffer{Width: math.MaxInt/4 + 1, Height: 1}, EffectRequest{Effect: EffectEdgeSobel}, ErrInvalidBuffer},
		{"zero effect", good, EffectRequest{}, ErrUnknownEffect},
		{"unknown effect", good, EffectRequest{Effect: Effect(42)}, ErrUnknownEffect},
		{"bad direction", good, EffectRequest{Effect: EffectEmboss, Direction: Direction(9)}, ErrUnknownEffect},
		{"percent high", good, EffectRequest{Effect: EffectSepia, Percent: 101}, ErrInvalidParameter},
		{"percent negative", good, EffectRequest{Effect: EffectPosterize, Percent: -1}, ErrInvalidParameter},
		{"percent nan", good, EffectRequest{Effect: EffectSharpen, Percent: math.NaN()}, ErrInvalidParameter},
		{"radius negative", good, EffectRequest{Effect: EffectBlur, Radius: -2}, ErrInvalidParameter},
		{"radius inf", good, EffectRequest{Effect: EffectBlur, Radius: math.Inf(1)}, ErrInvalidParameter},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := Apply(tc.buf, tc.req)
			assert.Nil(t, out)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestParseEffect(t *testing.T) {
	for _, e := range Effects() {
		got, err := ParseEffect(e.String())
		require.NoError(t, err)
		assert.Equal(t, e, got)
	}
	for in, want := range map[string]Effect{
		"1d-horizontal": EffectEdge1D,
		"2D-Sobel":      EffectEdgeSobel,
		"2d-laplacian":  EffectEdgeLaplacian,
		"Greyscale":     EffectGrayscale,
	} {
		got, err := ParseEffect(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseEffect("vignette")
	assert.ErrorIs(t, err, ErrUnknownEffect)
}

func TestParseDirection(t *testing.T) {
	for in, want := range map[string]Direction{
		"top_left":           TopLeft,
		"top-right light":    TopRight,
		"Bottom-Left":        BottomLeft,
		"bottom right light": BottomRight,
	} {
		got, err := ParseDirection(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseDirection("north")
	assert.ErrorIs(t, err, ErrUnknownEffect)
}

func TestClampPercent(t *testing.T) {
	assert.Equal(t, 1.0, ClampPercent(math.NaN()))
	assert.Equal(t, 1.0, ClampPercent(-4))
	assert.Equal(t, 1.0, ClampPercent(0.2))
	assert.Equal(t, 42.0, ClampPercent(42))
	assert.Equal(t, 100.0, ClampPercent(1000))
}
