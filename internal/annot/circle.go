package annot

import "math"

// bezierCircle is the control point distance of a quarter circle
// approximated by one cubic Bézier segment.
const bezierCircle = 0.55228475

// drawCircle draws a circle of radius r around (cx, cy), filled or stroked.
func (b *builder) drawCircle(cx, cy, r float64, fill bool) {
	k := bezierCircle * r
	b.appendf("%.2f %.2f m\n", cx+r, cy)
	b.appendf("%.2f %.2f %.2f %.2f %.2f %.2f c\n", cx+r, cy+k, cx+k, cy+r, cx, cy+r)
	b.appendf("%.2f %.2f %.2f %.2f %.2f %.2f c\n", cx-k, cy+r, cx-r, cy+k, cx-r, cy)
	b.appendf("%.2f %.2f %.2f %.2f %.2f %.2f c\n", cx-r, cy-k, cx-k, cy-r, cx, cy-r)
	b.appendf("%.2f %.2f %.2f %.2f %.2f %.2f c\n", cx+k, cy-r, cx+r, cy-k, cx+r, cy)
	if fill {
		b.append("f\n")
	} else {
		b.append("s\n")
	}
}

// drawCircleTopLeft strokes the top-left half of a circle, from the
// upper-right to the lower-left diagonal point.
func (b *builder) drawCircleTopLeft(cx, cy, r float64) {
	r2 := r / math.Sqrt2
	b.appendf("%.2f %.2f m\n", cx+r2, cy+r2)
	b.appendf("%.2f %.2f %.2f %.2f %.2f %.2f c\n",
		cx+(1-bezierCircle)*r2, cy+(1+bezierCircle)*r2,
		cx-(1-bezierCircle)*r2, cy+(1+bezierCircle)*r2,
		cx-r2, cy+r2)
	b.appendf("%.2f %.2f %.2f %.2f %.2f %.2f c\n",
		cx-(1+bezierCircle)*r2, cy+(1-bezierCircle)*r2,
		cx-(1+bezierCircle)*r2, cy-(1-bezierCircle)*r2,
		cx-r2, cy-r2)
	b.append("S\n")
}

// drawCircleBottomRight strokes the remaining half of drawCircleTopLeft.
func (b *builder) drawCircleBottomRight(cx, cy, r float64) {
	r2 := r / math.Sqrt2
	b.appendf("%.2f %.2f m\n", cx-r2, cy-r2)
	b.appendf("%.2f %.2f %.2f %.2f %.2f %.2f c\n",
		cx-(1-bezierCircle)*r2, cy-(1+bezierCircle)*r2,
		cx+(1-bezierCircle)*r2, cy-(1+bezierCircle)*r2,
		cx+r2, cy-r2)
	b.appendf("%.2f %.2f %.2f %.2f %.2f %.2f c\n",
		cx+(1+bezierCircle)*r2, cy-(1-bezierCircle)*r2,
		cx+(1+bezierCircle)*r2, cy+(1-bezierCircle)*r2,
		cx+r2, cy+r2)
	b.append("S\n")
}

// drawRoundedRect strokes a rectangle whose corners are elliptical arcs with
// radii rx and ry, clamped to half the side lengths.
func (b *builder) drawRoundedRect(x, y, w, h, rx, ry float64) {
	rx = math.Min(rx, w/2)
	ry = math.Min(ry, h/2)
	kx, ky := bezierCircle*rx, bezierCircle*ry
	x2, y2 := x+w, y+h
	b.appendf("%.2f %.2f m\n", x+rx, y)
	b.appendf("%.2f %.2f l\n", x2-rx, y)
	b.appendf("%.2f %.2f %.2f %.2f %.2f %.2f c\n", x2-rx+kx, y, x2, y+ry-ky, x2, y+ry)
	b.appendf("%.2f %.2f l\n", x2, y2-ry)
	b.appendf("%.2f %.2f %.2f %.2f %.2f %.2f c\n", x2, y2-ry+ky, x2-rx+kx, y2, x2-rx, y2)
	b.appendf("%.2f %.2f l\n", x+rx, y2)
	b.appendf("%.2f %.2f %.2f %.2f %.2f %.2f c\n", x+rx-kx, y2, x, y2-ry+ky, x, y2-ry)
	b.appendf("%.2f %.2f l\n", x, y+ry)
	b.appendf("%.2f %.2f %.2f %.2f %.2f %.2f c\n", x, y+ry-ky, x+rx-kx, y, x+rx, y)
	b.append("s\n")
}
