package fx

import (
	"fmt"
	"sort"
)

// Kernel is an immutable named weight table, either 3x3 or 1x3, stored
// row-major starting top-left.
type Kernel struct {
	name    string
	rows    int
	cols    int
	weights [9]float32
}

func newKernel3x3(name string, w ...float32) Kernel {
	k := Kernel{name: name, rows: 3, cols: 3}
	copy(k.weights[:], w)
	return k
}

func newKernel1x3(name string, w ...float32) Kernel {
	k := Kernel{name: name, rows: 1, cols: 3}
	copy(k.weights[:3], w)
	return k
}

func (k Kernel) Name() string { return k.name }
func (k Kernel) Rows() int    { return k.rows }
func (k Kernel) Cols() int    { return k.cols }

// At returns the weight at row r, column c.
func (k Kernel) At(r, c int) float32 {
	return k.weights[r*k.cols+c]
}

// Weights returns a copy of the row-major weights.
func (k Kernel) Weights() []float32 {
	out := make([]float32, k.rows*k.cols)
	copy(out, k.weights[:])
	return out
}

// Scaled returns a new kernel with every weight multiplied by f.
func (k Kernel) Scaled(f float32) Kernel {
	out := k
	for i := range out.weights {
		out.weights[i] *= f
	}
	return out
}

var (
	SobelX            = newKernel3x3("sobel_x", -1, 0, 1, -2, 0, 2, -1, 0, 1)
	SobelY            = newKernel3x3("sobel_y", -1, -2, -1, 0, 0, 0, 1, 2, 1)
	Laplacian         = newKernel3x3("laplacian", 0, -1, 0, -1, 4, -1, 0, -1, 0)
	EmbossTopLeft     = newKernel3x3("emboss_top_left", -2, -1, 0, -1, 1, 1, 0, 1, 2)
	EmbossTopRight    = newKernel3x3("emboss_top_right", 0, -1, -2, 1, 1, -1, 2, 1, 0)
	EmbossBottomLeft  = newKernel3x3("emboss_bottom_left", 0, 1, 2, -1, 1, 1, -2, -1, 0)
	EmbossBottomRight = newKernel3x3("emboss_bottom_right", 2, 1, 0, 1, 1, -1, 0, -1, -2)
	SharpenUnit       = newKernel3x3("sharpen_unit", 0, -1, 0, -1, 5, -1, 0, -1, 0)
	HorizontalEdge    = newKernel1x3("horizontal_edge", -1, 0, 1)
)

var catalogue = map[string]Kernel{}

func init() {
	for _, k := range []Kernel{
		SobelX, SobelY, Laplacian,
		EmbossTopLeft, EmbossTopRight, EmbossBottomLeft, EmbossBottomRight,
		SharpenUnit, HorizontalEdge,
	} {
		catalogue[k.name] = k
	}
}

// LookupKernel returns the catalogue entry for name.
func LookupKernel(name string) (Kernel, error) {
	k, ok := catalogue[name]
	if !ok {
		return Kernel{}, fmt.Errorf("%w: no kernel named %q", ErrUnknownEffect, name)
	}
	return k, nil
}

// KernelNames lists the catalogue in sorted order.
func KernelNames() []string {
	names := make([]string, 0, len(catalogue))
	for n := range catalogue {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// EmbossKernel returns the directional emboss kernel for d.
func EmbossKernel(d Direction) (Kernel, error) {
	switch d {
	case TopLeft:
		return EmbossTopLeft, nil
	case TopRight:
		return EmbossTopRight, nil
	case BottomLeft:
		return EmbossBottomLeft, nil
	case BottomRight:
		return EmbossBottomRight, nil
	}
	return Kernel{}, fmt.Errorf("%w: emboss direction %d", ErrUnknownEffect, int(d))
}
