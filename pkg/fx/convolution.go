package fx

// BorderPolicy selects how Convolve treats pixels whose neighbourhood
// leaves the field.
type BorderPolicy int

const (
	// BorderZero leaves the one-pixel border at 0 and only computes pixels
	// whose whole neighbourhood is in range.
	BorderZero BorderPolicy = iota
	// BorderPartial computes every pixel; out-of-range neighbours
	// contribute nothing to the sum.
	BorderPartial
)

// Convolve applies k to f with the BorderZero policy.
func Convolve(f ScalarField, k Kernel) ScalarField {
	return ConvolveBorder(f, k, BorderZero)
}

// Convolve1DHorizontal applies the fixed [-1, 0, 1] kernel along each row.
// The result is the signed response; the first and last column stay 0.
func Convolve1DHorizontal(f ScalarField) ScalarField {
	return Convolve(f, HorizontalEdge)
}

// ConvolveBorder applies a 3x3 or 1x3 kernel to f. The output always has
// the dimensions of f.
func ConvolveBorder(f ScalarField, k Kernel, policy BorderPolicy) ScalarField {
	out := NewScalarField(f.Width, f.Height)
	if policy == BorderPartial {
		convolvePartial(f, k, out)
		return out
	}
	w, h := f.Width, f.Height
	if w < 3 || (k.rows == 3 && h < 3) {
		return out
	}
	v := f.Values
	if k.rows == 1 {
		k0, k1, k2 := k.weights[0], k.weights[1], k.weights[2]
		for y := 0; y < h; y++ {
			row := y * w
			for x := 1; x < w-1; x++ {
				i := row + x
				out.Values[i] = v[i-1]*k0 + v[i]*k1 + v[i+1]*k2
			}
		}
		return out
	}
	kw := k.weights
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			out.Values[i] = v[i-w-1]*kw[0] + v[i-w]*kw[1] + v[i-w+1]*kw[2] +
				v[i-1]*kw[3] + v[i]*kw[4] + v[i+1]*kw[5] +
				v[i+w-1]*kw[6] + v[i+w]*kw[7] + v[i+w+1]*kw[8]
		}
	}
	return out
}

func convolvePartial(f ScalarField, k Kernel, out ScalarField) {
	w, h := f.Width, f.Height
	halfR, halfC := k.rows/2, k.cols/2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float32
			for ky := 0; ky < k.rows; ky++ {
				py := y + ky - halfR
				if py < 0 || py >= h {
					continue
				}
				for kx := 0; kx < k.cols; kx++ {
					px := x + kx - halfC
					if px < 0 || px >= w {
						continue
					}
					sum += f.Values[py*w+px] * k.weights[ky*k.cols+kx]
				}
			}
			out.Values[y*w+x] = sum
		}
	}
}
