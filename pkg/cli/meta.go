package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Fepozopo/pixfx/pkg/fx"
)

// ParamType is a small enum for parameter types used in metadata.
type ParamType string

const (
	ParamTypeFloat     ParamType = "float"
	ParamTypePercent   ParamType = "percent"
	ParamTypeDirection ParamType = "direction"
	ParamTypeString    ParamType = "string"
)

// ValidationRule is a machine-friendly representation of the constraints
// that a UI or client can use to validate input before invoking a command.
type ValidationRule struct {
	Type        ParamType `json:"type"`
	Required    bool      `json:"required"`
	Min         *float64  `json:"min,omitempty"`
	Max         *float64  `json:"max,omitempty"`
	EnumOptions []string  `json:"enumOptions,omitempty"`
	Example     string    `json:"example,omitempty"`
	Hint        string    `json:"hint,omitempty"`
}

func floatPtr(v float64) *float64 { return &v }

// parsePercentValue parses "30%" or "30" into a percentage clamped to 1..100,
// the range the interactive controls accept.
func parsePercentValue(s string) (float64, error) {
	v, err := fx.ParsePercent(s)
	if err != nil {
		return 0, err
	}
	return fx.ClampPercent(v), nil
}

// GenerateTooltip produces help text for a command.
func GenerateTooltip(c fx.CommandSpec) string {
	var sb strings.Builder
	if c.Description != "" {
		sb.WriteString(c.Description)
	} else {
		sb.WriteString("No description")
	}
	if len(c.Args) == 0 {
		sb.WriteString(" (no parameters)")
		return sb.String()
	}
	sb.WriteString("\nparameters:\n")
	for _, a := range c.Args {
		req := "optional"
		if a.Required {
			req = "required"
		}
		fmt.Fprintf(&sb, "- %s (%s, %s)", a.Name, a.Type, req)
		if a.Description != "" {
			sb.WriteString(": " + a.Description)
		}
		if a.Default != "" {
			sb.WriteString(" (default: " + a.Default + ")")
		}
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}

// GenerateValidationRules creates ValidationRule entries from a command spec.
func GenerateValidationRules(c fx.CommandSpec) map[string]ValidationRule {
	rules := make(map[string]ValidationRule, len(c.Args))
	for _, a := range c.Args {
		r := ValidationRule{Required: a.Required, Hint: a.Description, Example: a.Default}
		switch strings.ToLower(a.Type) {
		case "percent":
			r.Type = ParamTypePercent
			r.Min, r.Max = floatPtr(1), floatPtr(100)
		case "float":
			r.Type = ParamTypeFloat
			r.Min = floatPtr(0)
		case "direction":
			r.Type = ParamTypeDirection
			for d := fx.TopLeft; d <= fx.BottomRight; d++ {
				r.EnumOptions = append(r.EnumOptions, d.String())
			}
		default:
			r.Type = ParamTypeString
		}
		rules[a.Name] = r
	}
	return rules
}

// MetaStore indexes the command registry by name.
type MetaStore struct {
	Commands []fx.CommandSpec
	byName   map[string]fx.CommandSpec
}

// NewMetaStore creates a MetaStore from a command list.
func NewMetaStore(cmds []fx.CommandSpec) *MetaStore {
	m := &MetaStore{Commands: cmds, byName: make(map[string]fx.CommandSpec, len(cmds))}
	for _, c := range cmds {
		m.byName[c.Name] = c
	}
	return m
}

// Lookup resolves a command by name or effect alias.
func (m *MetaStore) Lookup(name string) (fx.CommandSpec, bool) {
	if c, ok := m.byName[name]; ok {
		return c, true
	}
	e, err := fx.ParseEffect(name)
	if err != nil {
		return fx.CommandSpec{}, false
	}
	c, ok := m.byName[e.String()]
	return c, ok
}

// GetCommandHelp returns both tooltip and validation rules for a command.
func (m *MetaStore) GetCommandHelp(name string) (string, map[string]ValidationRule, error) {
	c, ok := m.Lookup(name)
	if !ok {
		return "", nil, fmt.Errorf("unknown command: %s", name)
	}
	return GenerateTooltip(c), GenerateValidationRules(c), nil
}

// NormalizeArgs checks raw user input against the command metadata and
// returns canonical argument strings for fx.ApplyCommand. Empty optional
// values stay empty so the engine default applies; percentages are clamped
// into 1..100.
func NormalizeArgs(store *MetaStore, cmdName string, args []string) ([]string, error) {
	if store == nil {
		return nil, fmt.Errorf("metadata store is nil")
	}
	c, ok := store.Lookup(cmdName)
	if !ok {
		return nil, fmt.Errorf("unknown command: %s", cmdName)
	}
	if len(args) > len(c.Args) {
		return nil, fmt.Errorf("%s takes at most %d parameters, got %d", c.Name, len(c.Args), len(args))
	}
	rules := GenerateValidationRules(c)
	out := make([]string, len(c.Args))
	for i, a := range c.Args {
		var raw string
		if i < len(args) {
			raw = strings.TrimSpace(args[i])
		}
		if raw == "" {
			if a.Required {
				return nil, fmt.Errorf("missing required parameter: %s", a.Name)
			}
			continue
		}
		vr := rules[a.Name]
		switch vr.Type {
		case ParamTypePercent:
			p, err := parsePercentValue(raw)
			if err != nil {
				return nil, fmt.Errorf("parameter %s: %w", a.Name, err)
			}
			out[i] = strconv.FormatFloat(p, 'f', -1, 64)
		case ParamTypeFloat:
			f, err := strconv.ParseFloat(strings.TrimSuffix(raw, "px"), 64)
			if err != nil {
				return nil, fmt.Errorf("parameter %s: expected float, got %q", a.Name, raw)
			}
			if vr.Min != nil && f <= *vr.Min {
				return nil, fmt.Errorf("parameter %s: %v must be greater than %v", a.Name, f, *vr.Min)
			}
			out[i] = strconv.FormatFloat(f, 'f', -1, 64)
		case ParamTypeDirection:
			d, err := fx.ParseDirection(raw)
			if err != nil {
				return nil, fmt.Errorf("parameter %s: %w", a.Name, err)
			}
			out[i] = d.String()
		default:
			out[i] = raw
		}
	}
	return out, nil
}
