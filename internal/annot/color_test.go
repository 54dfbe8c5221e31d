package annot

import (
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/stretchr/testify/assert"
)

func TestNewColor(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		space  ColorSpace
	}{
		{"empty", nil, ColorTransparent},
		{"gray", []float64{0.5}, ColorGray},
		{"two components", []float64{0.1, 0.2}, ColorTransparent},
		{"rgb", []float64{1, 0, 0}, ColorRGB},
		{"cmyk", []float64{0, 0, 0, 1}, ColorCMYK},
		{"five components", []float64{1, 1, 1, 1, 1}, ColorTransparent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewColor(tt.values)
			assert.Equal(t, tt.space, c.Space())
			assert.Equal(t, int(tt.space), c.Len())
		})
	}
}

func TestColorValuePanicsOutOfRange(t *testing.T) {
	c := NewColor([]float64{0.5})
	assert.Equal(t, 0.5, c.Value(0))
	assert.Panics(t, func() { c.Value(1) })
}

func TestColorFromArray(t *testing.T) {
	c := ColorFromArray(memStore{}, types.Array{types.Integer(1), types.Float(0.5), types.Name("x")})
	assert.Equal(t, []float64{1, 0.5, 0}, c.Values())
}

func TestColorRGB(t *testing.T) {
	r, g, b := NewColor([]float64{0.25}).RGB()
	assert.Equal(t, []float64{0.25, 0.25, 0.25}, []float64{r, g, b})

	r, g, b = NewColor([]float64{1, 0, 0, 0.5}).RGB()
	assert.InDelta(t, 0, r, 1e-9)
	assert.InDelta(t, 0.5, g, 1e-9)
	assert.InDelta(t, 0.5, b, 1e-9)

	r, g, b = Color{}.RGB()
	assert.Zero(t, r+g+b)
}

func TestColorOperator(t *testing.T) {
	tests := []struct {
		name   string
		color  Color
		fill   bool
		adjust int
		want   string
	}{
		{"gray fill", NewColor([]float64{0.5}), true, 0, "0.50 g\n"},
		{"rgb stroke", NewColor([]float64{1, 0, 0}), false, 0, "1.00 0.00 0.00 RG\n"},
		{"rgb lighter", NewColor([]float64{1, 0, 0}), true, 1, "1.00 0.50 0.50 rg\n"},
		{"rgb darker", NewColor([]float64{1, 0, 0}), true, -1, "0.50 0.00 0.00 rg\n"},
		{"cmyk lighter moves toward white", NewColor([]float64{1, 0, 0, 0}), false, 1, "0.50 0.00 0.00 0.00 K\n"},
		{"transparent", Color{}, true, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.color.operator(tt.fill, tt.adjust))
		})
	}
}
