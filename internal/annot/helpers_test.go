package annot

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// memStore is an in-memory object table keyed by object number.
type memStore map[int]types.Object

func (s memStore) Dereference(o types.Object) (types.Object, error) {
	ref, ok := RefOf(o)
	if !ok {
		return o, nil
	}
	v, ok := s[ref.Num]
	if !ok {
		return nil, fmt.Errorf("object %d not found", ref.Num)
	}
	return v, nil
}

func iref(num, gen int) types.IndirectRef {
	return types.IndirectRef{ObjectNumber: types.Integer(num), GenerationNumber: types.Integer(gen)}
}

func nums(v ...float64) types.Array {
	a := make(types.Array, len(v))
	for i, x := range v {
		a[i] = types.Float(x)
	}
	return a
}

func str(s string) types.StringLiteral { return types.StringLiteral(s) }

// monoFont gives every ASCII character the same advance.
type monoFont float64

func (f monoFont) Width(byte) float64 { return float64(f) }

func (f monoFont) Encode(r rune) (byte, bool) {
	if r < 0x80 {
		return byte(r), true
	}
	return 0, false
}

type fontMap map[string]Font

func (m fontMap) Lookup(tag string) (Font, bool) {
	f, ok := m[tag]
	return f, ok
}

var testFonts = fontMap{"Helv": monoFont(0.5), "ZaDb": monoFont(0.8)}

type drawCall struct {
	appearance *types.StreamDict
	border     *BorderStyle
	rect       Rectangle
}

type recorder struct {
	calls []drawCall
	err   error
}

func (r *recorder) DrawAnnotation(ap *types.StreamDict, border *BorderStyle, rect Rectangle) error {
	r.calls = append(r.calls, drawCall{appearance: ap, border: border, rect: rect})
	return r.err
}

// widget returns a widget annotation dictionary with the given rectangle.
func widget(x1, y1, x2, y2 float64) types.Dict {
	return types.Dict{
		"Type":    types.Name("Annot"),
		"Subtype": types.Name("Widget"),
		"Rect":    nums(x1, y1, x2, y2),
	}
}
