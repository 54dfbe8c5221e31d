package annot

import (
	"fmt"
	"math"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// ColorSpace identifies the device colour space of an annotation colour.
// The numeric value equals the number of components.
type ColorSpace int

const (
	ColorTransparent ColorSpace = 0
	ColorGray        ColorSpace = 1
	ColorRGB         ColorSpace = 3
	ColorCMYK        ColorSpace = 4
)

// String returns the name of the colour space.
func (cs ColorSpace) String() string {
	switch cs {
	case ColorTransparent:
		return "Transparent"
	case ColorGray:
		return "DeviceGray"
	case ColorRGB:
		return "DeviceRGB"
	case ColorCMYK:
		return "DeviceCMYK"
	default:
		return "Unknown"
	}
}

// Color is a colour-space-tagged tuple as stored in an annotation's C or
// MK/BG/BC arrays.
type Color struct {
	values []float64
}

// NewColor builds a colour from its components. Sequences whose length is not
// 0, 1, 3 or 4 are clamped to Transparent.
func NewColor(values []float64) Color {
	switch len(values) {
	case 1, 3, 4:
		v := make([]float64, len(values))
		copy(v, values)
		return Color{values: v}
	}
	return Color{}
}

// ColorFromArray parses a PDF colour array. Non-numeric entries count as zero.
func ColorFromArray(r Resolver, a types.Array) Color {
	return NewColor(numbers(r, a))
}

// Space reports the colour space, a pure function of the component count.
func (c Color) Space() ColorSpace {
	return ColorSpace(len(c.values))
}

// Len returns the number of components.
func (c Color) Len() int {
	return len(c.values)
}

// Value returns component i. Callers must check Space first; an index outside
// the active space panics.
func (c Color) Value(i int) float64 {
	return c.values[i]
}

// Values returns a copy of the components.
func (c Color) Values() []float64 {
	v := make([]float64, len(c.values))
	copy(v, c.values)
	return v
}

// IsTransparent reports whether the colour has no components.
func (c Color) IsTransparent() bool {
	return len(c.values) == 0
}

// RGB converts the colour to device RGB.
func (c Color) RGB() (r, g, b float64) {
	v := c.values
	switch c.Space() {
	case ColorGray:
		return v[0], v[0], v[0]
	case ColorRGB:
		return v[0], v[1], v[2]
	case ColorCMYK:
		return 1 - math.Min(1, v[0]+v[3]),
			1 - math.Min(1, v[1]+v[3]),
			1 - math.Min(1, v[2]+v[3])
	}
	return 0, 0, 0
}

// adjusted lightens (adjust > 0) or darkens (adjust < 0) the colour. For CMYK
// the direction is inverted so that "lighter" still means closer to white.
func (c Color) adjusted(adjust int) []float64 {
	v := c.Values()
	if c.Space() == ColorCMYK {
		adjust = -adjust
	}
	for i := range v {
		switch {
		case adjust > 0:
			v[i] = 0.5*v[i] + 0.5
		case adjust < 0:
			v[i] = 0.5 * v[i]
		}
	}
	return v
}

// operator renders the colour-setting operator, fill selects the non-stroking
// variant. Transparent colours produce an empty string.
func (c Color) operator(fill bool, adjust int) string {
	v := c.adjusted(adjust)
	var op string
	switch c.Space() {
	case ColorGray:
		op = "G"
	case ColorRGB:
		op = "RG"
	case ColorCMYK:
		op = "K"
	default:
		return ""
	}
	if fill {
		op = strings.ToLower(op)
	}
	var sb strings.Builder
	for _, x := range v {
		fmt.Fprintf(&sb, "%.2f ", x)
	}
	sb.WriteString(op)
	sb.WriteByte('\n')
	return sb.String()
}
