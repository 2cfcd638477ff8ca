package fx

import (
	"fmt"
	"math"
	"strings"
)

// Effect identifies one transform the pipeline knows how to run.
type Effect int

const (
	EffectEdge1D Effect = iota + 1
	EffectEdgeSobel
	EffectEdgeLaplacian
	EffectEmboss
	EffectSharpen
	EffectSepia
	EffectPosterize
	EffectBlur
	EffectGrayscale
)

var effectNames = map[Effect]string{
	EffectEdge1D:        "edge_1d",
	EffectEdgeSobel:     "edge_sobel",
	EffectEdgeLaplacian: "edge_laplacian",
	EffectEmboss:        "emboss",
	EffectSharpen:       "sharpen",
	EffectSepia:         "sepia",
	EffectPosterize:     "posterize",
	EffectBlur:          "blur",
	EffectGrayscale:     "grayscale",
}

// aliases accepted by ParseEffect besides the canonical names.
var effectAliases = map[string]Effect{
	"1d_horizontal":  EffectEdge1D,
	"edge_1d":        EffectEdge1D,
	"2d_sobel":       EffectEdgeSobel,
	"sobel":          EffectEdgeSobel,
	"2d_laplacian":   EffectEdgeLaplacian,
	"laplacian":      EffectEdgeLaplacian,
	"greyscale":      EffectGrayscale,
	"gray":           EffectGrayscale,
	"gaussian_blur":  EffectBlur,
	"edge_detection": EffectEdgeSobel,
}

func (e Effect) String() string {
	if n, ok := effectNames[e]; ok {
		return n
	}
	return fmt.Sprintf("Effect(%d)", int(e))
}

// Effects lists every effect in declaration order.
func Effects() []Effect {
	return []Effect{
		EffectEdge1D, EffectEdgeSobel, EffectEdgeLaplacian, EffectEmboss,
		EffectSharpen, EffectSepia, EffectPosterize, EffectBlur, EffectGrayscale,
	}
}

func canonicalName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "_", " ", "_").Replace(s)
}

// ParseEffect resolves an effect name. Hyphens, spaces and case are ignored.
func ParseEffect(name string) (Effect, error) {
	n := canonicalName(name)
	for e, s := range effectNames {
		if s == n {
			return e, nil
		}
	}
	if e, ok := effectAliases[n]; ok {
		return e, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEffect, name)
}

// Direction is the light direction of an emboss.
type Direction int

const (
	TopLeft Direction = iota
	TopRight
	BottomLeft
	BottomRight
)

var directionNames = [...]string{"top_left", "top_right", "bottom_left", "bottom_right"}

func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionNames) {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// ParseDirection accepts "top_left", "top-left" or "top-left light" style
// names.
func ParseDirection(name string) (Direction, error) {
	n := strings.TrimSuffix(canonicalName(name), "_light")
	for i, s := range directionNames {
		if s == n {
			return Direction(i), nil
		}
	}
	return 0, fmt.Errorf("%w: emboss direction %q", ErrUnknownEffect, name)
}

// EffectRequest fully describes one pipeline run.
//
// Percent (0-100) drives sharpen, sepia, posterize and grayscale, and blur
// when Radius is zero. Direction is only read by emboss. Radius, when
// positive, is the blur standard deviation in pixels.
type EffectRequest struct {
	Effect    Effect
	Percent   float64
	Direction Direction
	Radius    float64
}

func (r EffectRequest) usesPercent() bool {
	switch r.Effect {
	case EffectSharpen, EffectSepia, EffectPosterize, EffectGrayscale:
		return true
	case EffectBlur:
		return r.Radius == 0
	}
	return false
}

// Validate rejects unknown effects and out-of-range parameters.
func (r EffectRequest) Validate() error {
	if _, ok := effectNames[r.Effect]; !ok {
		return fmt.Errorf("%w: %v", ErrUnknownEffect, r.Effect)
	}
	if r.usesPercent() && (math.IsNaN(r.Percent) || r.Percent < 0 || r.Percent > 100) {
		return fmt.Errorf("%w: %s percent %v outside 0..100", ErrInvalidParameter, r.Effect, r.Percent)
	}
	if r.Effect == EffectEmboss {
		if _, err := EmbossKernel(r.Direction); err != nil {
			return err
		}
	}
	if r.Effect == EffectBlur && (math.IsNaN(r.Radius) || math.IsInf(r.Radius, 0) || r.Radius < 0) {
		return fmt.Errorf("%w: blur radius %v", ErrInvalidParameter, r.Radius)
	}
	return nil
}

// BlurRadius is the standard deviation Apply will use for a blur request.
func (r EffectRequest) BlurRadius() float64 {
	if r.Radius > 0 {
		return r.Radius
	}
	return BlurRadiusFromPercent(r.Percent)
}

// Apply runs req against buf and returns a new buffer of the same size.
// buf is never modified; nothing is computed unless both buf and req are
// valid.
func Apply(buf *PixelBuffer, req EffectRequest) (*PixelBuffer, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	switch req.Effect {
	case EffectEdge1D:
		return FieldToPixels(Normalize(Abs(Convolve1DHorizontal(RGBAToGray(buf))))), nil
	case EffectEdgeSobel:
		gray := RGBAToGray(buf)
		return FieldToPixels(Normalize(SumAbs(Convolve(gray, SobelX), Convolve(gray, SobelY)))), nil
	case EffectEdgeLaplacian:
		return FieldToPixels(Normalize(Abs(Convolve(RGBAToGray(buf), Laplacian)))), nil
	case EffectEmboss:
		k, _ := EmbossKernel(req.Direction)
		return FieldToPixels(Normalize(Convolve(RGBAToGray(buf), k))), nil
	case EffectSharpen:
		return Sharpen(buf, req.Percent/50), nil
	case EffectSepia:
		return Sepia(buf, req.Percent/100), nil
	case EffectPosterize:
		return Posterize(buf, PosterizeLevels(req.Percent)), nil
	case EffectBlur:
		return GaussianBlur(buf, req.BlurRadius()), nil
	case EffectGrayscale:
		return Grayscale(buf, req.Percent/100), nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownEffect, req.Effect)
}

// ClampPercent maps raw user input into 1..100 the way the interactive
// controls do: NaN and anything below 1 become 1.
func ClampPercent(v float64) float64 {
	if math.IsNaN(v) || v < 1 {
		return 1
	}
	if v > 100 {
		return 100
	}
	return v
}
