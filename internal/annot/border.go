package annot

import (
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// DashLimit is the maximum number of dash array entries honoured; further
// entries are dropped (PDF Reference, implementation note 82).
const DashLimit = 10

// BorderStyleKind is the line style of an annotation border.
type BorderStyleKind int

const (
	BorderSolid BorderStyleKind = iota
	BorderDashed
	BorderBeveled
	BorderInset
	BorderUnderlined
)

// String returns the single-letter BS code of the style.
func (k BorderStyleKind) String() string {
	switch k {
	case BorderDashed:
		return "D"
	case BorderBeveled:
		return "B"
	case BorderInset:
		return "I"
	case BorderUnderlined:
		return "U"
	default:
		return "S"
	}
}

// ParseBorderStyleKind maps a BS/S code to a style. Unknown codes are Solid.
func ParseBorderStyleKind(code string) BorderStyleKind {
	switch code {
	case "D":
		return BorderDashed
	case "B":
		return BorderBeveled
	case "I":
		return BorderInset
	case "U":
		return BorderUnderlined
	default:
		return BorderSolid
	}
}

// BorderOrigin records which encoding a Border was parsed from.
type BorderOrigin int

const (
	// BorderFromArray is the legacy Border array [h v w dash...].
	BorderFromArray BorderOrigin = iota
	// BorderFromDict is the BS border style dictionary.
	BorderFromDict
)

// Border is the normalized border of an annotation regardless of whether it
// was encoded as a Border array or a BS dictionary. Corner radii are only
// ever non-zero for the array form.
type Border struct {
	Origin  BorderOrigin
	Width   float64
	Style   BorderStyleKind
	Dash    []float64
	HRadius float64
	VRadius float64
}

// HasRoundedCorners reports whether either corner radius is non-zero.
func (b *Border) HasRoundedCorners() bool {
	return b.HRadius > 0 || b.VRadius > 0
}

// ParseBorderArray parses the legacy Border entry. Element 3 may be a nested
// dash array or the first of a trailing run of dash numbers.
func ParseBorderArray(r Resolver, a types.Array) *Border {
	b := &Border{Origin: BorderFromArray, Width: 1, Style: BorderSolid}
	if len(a) < 3 {
		return b
	}
	b.HRadius, _ = getNumber(r, a[0])
	b.VRadius, _ = getNumber(r, a[1])
	if w, ok := getNumber(r, a[2]); ok {
		b.Width = max(w, 0)
	}
	if len(a) > 3 {
		if nested, ok := getArray(r, a[3]); ok {
			b.Dash = dashArray(r, nested)
		} else {
			b.Dash = dashArray(r, a[3:])
		}
	}
	if len(b.Dash) > 0 {
		b.Style = BorderDashed
	}
	return b
}

// ParseBorderDict parses a BS border style dictionary.
func ParseBorderDict(r Resolver, d types.Dict) *Border {
	b := &Border{Origin: BorderFromDict, Width: 1, Style: BorderSolid, Dash: []float64{3}}
	if w, ok := getNumber(r, d["W"]); ok && w >= 0 {
		b.Width = w
	}
	if s, ok := getName(r, d["S"]); ok {
		b.Style = ParseBorderStyleKind(s)
	}
	if a, ok := getArray(r, d["D"]); ok && len(a) > 0 {
		b.Dash = dashArray(r, a)
	}
	return b
}

func dashArray(r Resolver, a types.Array) []float64 {
	if len(a) > DashLimit {
		a = a[:DashLimit]
	}
	dash := make([]float64, 0, len(a))
	for _, o := range a {
		if n, ok := getNumber(r, o); ok {
			dash = append(dash, n)
		}
	}
	return dash
}

// parseBorder reads Border and BS from an annotation dictionary. BS wins when
// both are present.
func parseBorder(r Resolver, dict types.Dict) *Border {
	if bs, ok := getDict(r, dict["BS"]); ok {
		return ParseBorderDict(r, bs)
	}
	if a, ok := getArray(r, dict["Border"]); ok {
		return ParseBorderArray(r, a)
	}
	return nil
}
