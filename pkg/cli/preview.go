package cli

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"os/exec"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Terminal preview of the current image. Backends, in default order:
// inline OSC 1337 (iTerm2, WezTerm, VSCode ...), kitty graphics, sixel via
// img2sixel, and chafa as a block-character fallback. PREVIEW_BACKEND forces
// one backend first.

var (
	previewDebug   bool
	previewBackend string
	previewOut     io.Writer = os.Stdout
)

// ConfigurePreview applies the preview settings of cfg.
func ConfigurePreview(cfg Config) {
	previewDebug = cfg.PreviewDebug
	previewBackend = cfg.PreviewBackend
}

func debugf(format string, args ...interface{}) {
	if previewDebug {
		log.WithField("component", "preview").Debugf(format, args...)
	}
}

func isKitty() bool {
	if os.Getenv("KITTY_WINDOW_ID") != "" || os.Getenv("KONSOLE_VERSION") != "" {
		return true
	}
	term := strings.ToLower(os.Getenv("TERM"))
	return strings.Contains(term, "kitty") || strings.Contains(term, "ghost")
}

func isInlineImageCapable() bool {
	switch os.Getenv("TERM_PROGRAM") {
	case "iTerm.app", "WezTerm", "Warp", "Hyper", "vscode", "VSCode", "Tabby", "Bobcat":
		debugf("TERM_PROGRAM indicates inline-capable: %s", os.Getenv("TERM_PROGRAM"))
		return true
	}
	if os.Getenv("ITERM_SESSION_ID") != "" {
		return true
	}
	term := strings.ToLower(os.Getenv("TERM"))
	for _, t := range []string{"wez", "warp", "tabby", "vscode"} {
		if strings.Contains(term, t) {
			return true
		}
	}
	return false
}

func isSixelCapable() bool {
	if os.Getenv("SIXEL_PREVIEW") == "1" || os.Getenv("WT_SESSION") != "" {
		return true
	}
	term := strings.ToLower(os.Getenv("TERM"))
	return strings.Contains(term, "foot") || strings.Contains(term, "mlterm")
}

func hasChafa() bool {
	if os.Getenv("NO_CHAFA") == "1" {
		return false
	}
	_, err := exec.LookPath("chafa")
	return err == nil
}

// PreviewSupported reports whether any preview backend is likely to work.
func PreviewSupported() bool {
	return isKitty() || isInlineImageCapable() || isSixelCapable() || hasChafa()
}

// PreviewSize is the placement of a preview in terminal cells.
type PreviewSize struct {
	Cols        int
	Rows        int
	PixelWidth  int
	PixelHeight int
}

// computePreviewSize fits the image into at most 80x40 cells of 8x16
// pixels without upscaling.
func computePreviewSize(img image.Image) PreviewSize {
	const (
		charW, charH     = 8, 16
		minCols, minRows = 6, 3
		maxCols, maxRows = 80, 40
	)
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	scale := 1.0
	if w > 0 && h > 0 {
		scale = math.Min(1, math.Min(float64(maxCols*charW)/float64(w), float64(maxRows*charH)/float64(h)))
	}
	cols := int(math.Round(float64(w) * scale / charW))
	rows := int(math.Round(float64(h) * scale / charH))
	cols = min(max(cols, minCols), maxCols)
	rows = min(max(rows, minRows), maxRows)
	return PreviewSize{Cols: cols, Rows: rows, PixelWidth: cols * charW, PixelHeight: rows * charH}
}

// PreviewImage encodes img and draws it in the terminal. format is a hint
// ("png" or "jpeg"); kitty always receives PNG.
func PreviewImage(img image.Image, format string) error {
	if img == nil {
		return fmt.Errorf("nil image")
	}
	f := strings.ToLower(format)
	if previewBackend == "kitty" || (previewBackend == "" && isKitty()) {
		f = "png"
	}
	var buf bytes.Buffer
	if f == "jpeg" || f == "jpg" {
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 92}); err != nil {
			return fmt.Errorf("jpeg encode failed: %w", err)
		}
	} else {
		if err := png.Encode(&buf, img); err != nil {
			return fmt.Errorf("png encode failed: %w", err)
		}
		f = "png"
	}
	return previewBytes(buf.Bytes(), f, computePreviewSize(img))
}

type previewSender func(blob []byte, format string, size PreviewSize) error

func previewBytes(blob []byte, format string, size PreviewSize) error {
	if len(blob) == 0 {
		return fmt.Errorf("empty image blob")
	}
	backends := map[string]previewSender{
		"inline": sendInlineImage,
		"iterm":  sendInlineImage,
		"kitty":  sendKittyImage,
		"sixel":  sendSixelImage,
		"chafa":  sendChafaImage,
	}

	var order []previewSender
	if b, ok := backends[previewBackend]; ok {
		order = append(order, b)
	} else if previewBackend != "" {
		debugf("unknown PREVIEW_BACKEND value: %s", previewBackend)
	}
	if isInlineImageCapable() {
		order = append(order, sendInlineImage)
	}
	if isKitty() {
		order = append(order, sendKittyImage)
	}
	if isSixelCapable() {
		order = append(order, sendSixelImage)
	}
	if hasChafa() {
		order = append(order, sendChafaImage)
	}

	var lastErr error
	for _, send := range order {
		if lastErr = send(blob, format, size); lastErr == nil {
			return nil
		}
		debugf("preview backend failed: %v", lastErr)
	}
	if lastErr != nil {
		return fmt.Errorf("terminal preview failed: %w", lastErr)
	}
	return fmt.Errorf("no preview protocol matched")
}

// postImageNewlines keeps the prompt just below the rendered image.
func postImageNewlines(rows int) {
	n := 1
	switch {
	case rows > 20:
		n = 4
	case rows > 6:
		n = 3
	case rows > 2:
		n = 2
	}
	fmt.Fprint(previewOut, strings.Repeat("\n", n))
}

// sendKittyImage uses the kitty graphics protocol: base64 payload in chunks
// of at most 4096 bytes, placement on the first chunk.
func sendKittyImage(data []byte, _ string, size PreviewSize) error {
	enc := base64.StdEncoding.EncodeToString(data)
	const chunkSize = 4096
	debugf("kitty: %d bytes, placement %dx%d", len(data), size.Cols, size.Rows)
	for pos := 0; pos < len(enc); pos += chunkSize {
		end := min(pos+chunkSize, len(enc))
		more := 0
		if end < len(enc) {
			more = 1
		}
		var seq string
		if pos == 0 {
			seq = fmt.Sprintf("\x1b_Ga=T,f=100,t=d,q=2,c=%d,r=%d,m=%d;%s\x1b\\", size.Cols, size.Rows, more, enc[pos:end])
		} else {
			seq = fmt.Sprintf("\x1b_Gm=%d;%s\x1b\\", more, enc[pos:end])
		}
		if _, err := io.WriteString(previewOut, seq); err != nil {
			return err
		}
	}
	postImageNewlines(size.Rows)
	return nil
}

// sendInlineImage emits the iTerm2-style OSC 1337 inline file sequence.
func sendInlineImage(data []byte, format string, size PreviewSize) error {
	name := "preview.png"
	if strings.HasPrefix(format, "j") {
		name = "preview.jpg"
	}
	meta := fmt.Sprintf("size=%d;", len(data))
	if size.PixelWidth > 0 && size.PixelHeight > 0 {
		meta += fmt.Sprintf("width=%dpx;height=%dpx;", size.PixelWidth, size.PixelHeight)
	}
	seq := "\x1b]1337;File=name=" + name + ";inline=1;" + meta + ":" + base64.StdEncoding.EncodeToString(data) + "\a"
	if _, err := io.WriteString(previewOut, seq); err != nil {
		return err
	}
	postImageNewlines(0)
	return nil
}

func runRenderer(data []byte, name string, args ...string) error {
	if _, err := exec.LookPath(name); err != nil {
		return fmt.Errorf("%s not found in PATH: %w", name, err)
	}
	cmd := exec.Command(name, args...)
	cmd.Stdin = bytes.NewReader(data)
	cmd.Stdout = previewOut
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", name, err)
	}
	return nil
}

func sendSixelImage(data []byte, _ string, size PreviewSize) error {
	if err := runRenderer(data, "img2sixel", "-"); err != nil {
		return err
	}
	postImageNewlines(size.Rows)
	return nil
}

func sendChafaImage(data []byte, _ string, size PreviewSize) error {
	if os.Getenv("NO_CHAFA") == "1" {
		return fmt.Errorf("chafa usage disabled via NO_CHAFA=1")
	}
	fill, symbols := "block", "block"
	if v := os.Getenv("CHAFA_FILL"); v != "" {
		fill = v
	}
	if v := os.Getenv("CHAFA_SYMBOLS"); v != "" {
		symbols = v
	}
	err := runRenderer(data, "chafa", "--fill="+fill, "--symbols="+symbols, "-s", fmt.Sprintf("%dx%d", size.Cols, size.Rows), "-")
	if err != nil {
		return err
	}
	postImageNewlines(size.Rows)
	return nil
}
