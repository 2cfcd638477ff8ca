package cli

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/Fepozopo/pixfx/pkg/fx"
)

// PromptLine displays a prompt and reads a full line of input from the user.
// The returned string is trimmed of surrounding whitespace (including the newline).
func PromptLine(prompt string) (string, error) {
	return promptFrom(stdin, prompt)
}

var stdin = bufio.NewReader(os.Stdin)

func promptFrom(r *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// PromptLineWithFzf reads a line and treats a lone "/" as a request to pick a
// file with fzf. When fzf is missing or cancelled it falls back to a typed
// prompt.
func PromptLineWithFzf(prompt string) (string, error) {
	return promptWithPicker(stdin, prompt, func() (string, error) { return SelectFileWithFzf(".") })
}

func promptWithPicker(r *bufio.Reader, prompt string, pick func() (string, error)) (string, error) {
	input, err := promptFrom(r, prompt)
	if err != nil || input != "/" {
		return input, err
	}
	sel, selErr := pick()
	if selErr == nil && sel != "" {
		fmt.Printf(" [fzf] %s\n", sel)
		return sel, nil
	}
	debugf("file picker unavailable: %v", selErr)
	return promptFrom(r, prompt)
}

// sniffFormat identifies the container from its magic bytes.
func sniffFormat(b []byte) string {
	switch {
	case len(b) >= 3 && bytes.Equal(b[:3], []byte{0xFF, 0xD8, 0xFF}):
		return "jpeg"
	case len(b) >= 8 && bytes.Equal(b[:8], []byte("\x89PNG\r\n\x1a\n")):
		return "png"
	case len(b) >= 6 && (bytes.Equal(b[:6], []byte("GIF87a")) || bytes.Equal(b[:6], []byte("GIF89a"))):
		return "gif"
	case len(b) >= 12 && bytes.Equal(b[:4], []byte("RIFF")) && bytes.Equal(b[8:12], []byte("WEBP")):
		return "webp"
	case len(b) >= 2 && bytes.Equal(b[:2], []byte("BM")):
		return "bmp"
	case len(b) >= 4 && (bytes.Equal(b[:4], []byte("II*\x00")) || bytes.Equal(b[:4], []byte("MM\x00*"))):
		return "tiff"
	}
	return ""
}

// LoadImage decodes a PNG, JPEG, GIF, WebP, BMP or TIFF file. The returned
// format is the detected container name.
func LoadImage(path string) (image.Image, string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	format := sniffFormat(b)
	img, decoded, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", path, err)
	}
	if format == "" {
		format = decoded
	}
	return img, format, nil
}

// LoadBuffer decodes path straight into an engine buffer.
func LoadBuffer(path string) (*fx.PixelBuffer, string, error) {
	img, format, err := LoadImage(path)
	if err != nil {
		return nil, "", err
	}
	return fx.FromImage(img), format, nil
}

// SaveImage saves an image.Image to disk using format inferred from the filename extension.
// Supports .png, .jpg/.jpeg, .gif, .bmp, .tif/.tiff; anything else is written as PNG.
func SaveImage(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return jpeg.Encode(f, img, &jpeg.Options{Quality: 92})
	case ".gif":
		return gif.Encode(f, img, nil)
	case ".bmp":
		return bmp.Encode(f, img)
	case ".tif", ".tiff":
		return tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return png.Encode(f, img)
	}
}

// FitToViewport scales img down so it fits inside maxW x maxH, keeping its
// aspect ratio. Images that already fit are returned as is.
func FitToViewport(img image.Image, maxW, maxH int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 || maxW <= 0 || maxH <= 0 {
		return img
	}
	scale := math.Min(math.Min(float64(maxW)/float64(w), float64(maxH)/float64(h)), 1)
	if scale >= 1 {
		return img
	}
	nw := max(1, int(math.Round(float64(w)*scale)))
	nh := max(1, int(math.Round(float64(h)*scale)))
	dst := image.NewNRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// DefaultOutputName is the download name used for results of e.
func DefaultOutputName(e fx.Effect) string {
	if c, ok := fx.CommandFor(e); ok && c.OutputName != "" {
		return c.OutputName
	}
	return e.String() + "-image.png"
}

// GetImageInfoImage returns a short info string for an image.Image
func GetImageInfoImage(img image.Image, format string) (string, error) {
	if img == nil {
		return "", fmt.Errorf("nil image")
	}
	if format == "" {
		format = "unknown"
	}
	b := img.Bounds()
	return fmt.Sprintf("Format: %s, Width: %d, Height: %d", strings.ToUpper(format), b.Dx(), b.Dy()), nil
}
