package cli

import (
	"bufio"
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fepozopo/pixfx/pkg/fx"
)

func makeSolidNRGBA(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestSaveLoadRoundTrip(t *testing.T) {
	src := makeSolidNRGBA(7, 5, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	dir := t.TempDir()
	for _, tc := range []struct{ file, format string }{
		{"a.png", "png"},
		{"a.bmp", "bmp"},
		{"a.tiff", "tiff"},
		{"a.gif", "gif"},
		{"a.jpg", "jpeg"},
		{"a.unknown", "png"},
	} {
		path := filepath.Join(dir, tc.file)
		require.NoError(t, SaveImage(path, src), tc.file)
		img, format, err := LoadImage(path)
		require.NoError(t, err, tc.file)
		assert.Equal(t, tc.format, format, tc.file)
		assert.Equal(t, src.Bounds().Size(), img.Bounds().Size(), tc.file)
	}

	buf, _, err := LoadBuffer(filepath.Join(dir, "a.png"))
	require.NoError(t, err)
	assert.Equal(t, []uint8{200, 100, 50, 255}, buf.Pix[:4])
}

func TestLoadImageErrors(t *testing.T) {
	_, _, err := LoadImage(filepath.Join(t.TempDir(), "nope.png"))
	assert.Error(t, err)
}

func TestSniffFormat(t *testing.T) {
	assert.Equal(t, "webp", sniffFormat([]byte("RIFF\x00\x00\x00\x00WEBPVP8 ")))
	assert.Equal(t, "tiff", sniffFormat([]byte("II*\x00rest")))
	assert.Equal(t, "", sniffFormat([]byte("hello")))
}

func TestFitToViewport(t *testing.T) {
	cases := []struct {
		w, h, maxW, maxH int
		wantW, wantH     int
	}{
		{400, 300, 800, 600, 400, 300},
		{1600, 1200, 800, 600, 800, 600},
		{1000, 250, 800, 600, 800, 200},
		{300, 1200, 800, 600, 150, 600},
		{1001, 3, 800, 600, 800, 2},
	}
	for _, tc := range cases {
		src := makeSolidNRGBA(tc.w, tc.h, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
		got := FitToViewport(src, tc.maxW, tc.maxH)
		assert.Equal(t, image.Pt(tc.wantW, tc.wantH), got.Bounds().Size(), "%dx%d", tc.w, tc.h)
	}

	small := makeSolidNRGBA(4, 4, color.NRGBA{A: 255})
	assert.Same(t, small, FitToViewport(small, 800, 600).(*image.NRGBA))
}

func TestDefaultOutputName(t *testing.T) {
	assert.Equal(t, "edge-detected-image.png", DefaultOutputName(fx.EffectEdgeSobel))
	assert.Equal(t, "embossed-image.png", DefaultOutputName(fx.EffectEmboss))
	assert.Equal(t, "greyscaled-image.png", DefaultOutputName(fx.EffectGrayscale))
	assert.Equal(t, "blurred-image.png", DefaultOutputName(fx.EffectBlur))
}

func TestPromptWithPicker(t *testing.T) {
	picked := func() (string, error) { return "shots/cat.png", nil }
	failed := func() (string, error) { return "", errors.New("fzf not installed") }
	unused := func() (string, error) {
		t.Fatal("picker should not run for typed paths")
		return "", nil
	}

	cases := []struct {
		name  string
		input string
		pick  func() (string, error)
		want  string
	}{
		{"typed path", "  dog.jpg \n", unused, "dog.jpg"},
		{"picker", "/\n", picked, "shots/cat.png"},
		{"picker fails, retype", "/\nbird.gif\n", failed, "bird.gif"},
		{"empty cancels", "\n", unused, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := promptWithPicker(bufio.NewReader(strings.NewReader(tc.input)), "> ", tc.pick)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := promptWithPicker(bufio.NewReader(strings.NewReader("")), "> ", unused)
	assert.Error(t, err, "EOF is reported")
}
