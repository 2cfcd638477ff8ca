package fx

import (
	"errors"
	"math"

	"golang.org/x/exp/constraints"
)

var (
	// ErrInvalidBuffer reports a PixelBuffer whose sample count does not
	// match width*height*4.
	ErrInvalidBuffer = errors.New("invalid pixel buffer")
	// ErrUnknownEffect reports an effect, direction or kernel name that is
	// not in the catalogue.
	ErrUnknownEffect = errors.New("unknown effect")
	// ErrInvalidParameter reports an out-of-range request parameter.
	ErrInvalidParameter = errors.New("invalid effect parameter")
)

func clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampStore converts a float sample to 8 bits the way a clamped byte
// store does: NaN becomes 0, values are clamped to [0,255] and rounded
// half to even.
func clampStore(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	return uint8(math.RoundToEven(clamp(v, 0, 255)))
}
