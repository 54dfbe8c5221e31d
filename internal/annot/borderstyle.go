package annot

// BorderStyle is a flattened, read-only snapshot of a border and its colour,
// handed to the renderer together with link appearances.
type BorderStyle struct {
	kind    BorderStyleKind
	width   float64
	dash    []float64
	r, g, b float64
}

// NewBorderStyle derives a BorderStyle from a border and colour. A nil border
// yields a zero-width solid style.
func NewBorderStyle(border *Border, c Color) *BorderStyle {
	bs := &BorderStyle{kind: BorderSolid}
	if border != nil {
		bs.kind = border.Style
		bs.width = border.Width
		if bs.kind == BorderDashed && len(border.Dash) > 0 {
			bs.dash = append([]float64(nil), border.Dash...)
		}
	}
	bs.r, bs.g, bs.b = c.RGB()
	return bs
}

func (s *BorderStyle) Type() BorderStyleKind { return s.kind }
func (s *BorderStyle) Width() float64        { return s.width }

// Dash returns a copy of the dash pattern and its length.
func (s *BorderStyle) Dash() ([]float64, int) {
	return append([]float64(nil), s.dash...), len(s.dash)
}

// Color returns the border colour as device RGB.
func (s *BorderStyle) Color() (r, g, b float64) {
	return s.r, s.g, s.b
}
