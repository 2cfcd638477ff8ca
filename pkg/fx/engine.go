package fx

import (
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

const defaultPercent = 50

// ParsePercent accepts "50%" or "50". The number is always a percentage, so
// "0.5" is half a percent.
func ParsePercent(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "%") {
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid percent %q: %w", s, err)
		}
		return v, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid percent %q: %w", s, err)
	}
	return v, nil
}

// BuildRequest turns a command name and its textual arguments into an
// EffectRequest. Missing optional arguments take their defaults.
func BuildRequest(commandName string, args []string) (EffectRequest, error) {
	e, err := ParseEffect(commandName)
	if err != nil {
		return EffectRequest{}, err
	}
	req := EffectRequest{Effect: e, Percent: defaultPercent}
	arg := func(i int) string {
		if i < len(args) {
			return strings.TrimSpace(args[i])
		}
		return ""
	}

	switch e {
	case EffectEdge1D, EffectEdgeSobel, EffectEdgeLaplacian:
		if len(args) > 0 {
			return req, fmt.Errorf("%w: %s takes no arguments", ErrInvalidParameter, e)
		}
	case EffectEmboss:
		if s := arg(0); s != "" {
			d, err := ParseDirection(s)
			if err != nil {
				return req, err
			}
			req.Direction = d
		}
	case EffectBlur:
		if s := arg(1); s != "" {
			r, err := strconv.ParseFloat(strings.TrimSuffix(s, "px"), 64)
			if err != nil {
				return req, fmt.Errorf("invalid radius: %w", err)
			}
			if r <= 0 {
				return req, fmt.Errorf("%w: blur radius %v", ErrInvalidParameter, r)
			}
			req.Radius = r
		}
		fallthrough
	default:
		if s := arg(0); s != "" {
			p, err := ParsePercent(s)
			if err != nil {
				return req, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
			}
			req.Percent = p
		}
	}
	return req, req.Validate()
}

// ApplyCommand parses a textual command and runs it against buf.
func ApplyCommand(buf *PixelBuffer, commandName string, args []string) (*PixelBuffer, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	req, err := BuildRequest(commandName, args)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"effect":    req.Effect.String(),
		"percent":   req.Percent,
		"direction": req.Direction.String(),
		"radius":    req.Radius,
		"width":     buf.Width,
		"height":    buf.Height,
	}).Debug("applying effect")
	return Apply(buf, req)
}
