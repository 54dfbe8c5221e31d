package annot

import (
	"math"
	"strings"
)

// passwordGlyph replaces every character of a password field before layout.
const passwordGlyph = '*'

type textOptions struct {
	multiline bool
	comb      int
	quadding  Quadding
	txField   bool
	// forceZapfDingbats selects the ZaDb font regardless of the DA font.
	forceZapfDingbats bool
	password          bool
}

// maskPassword substitutes one passwordGlyph per character of s.
func maskPassword(s string) string {
	return strings.Repeat(string(passwordGlyph), len([]rune(s)))
}

// drawText lays out text according to da and opts into the builder.
func (b *builder) drawText(text, da string, opts textOptions) {
	d := parseDA(da)
	if opts.forceZapfDingbats {
		d.setFontTag("ZaDb")
	}
	f, ok := b.lookupFont(d)
	if !ok {
		return
	}
	fontSize := d.fontSize()
	if opts.password {
		text = maskPassword(text)
	}
	codes := encodeText(f, text)
	bw := b.borderWidth

	if opts.txField {
		b.append("/Tx BMC\n")
	}
	b.append("q\n")
	b.append("BT\n")

	switch {
	case opts.multiline:
		// the comb flag is ignored in multiline mode
		b.drawMultiline(codes, d, f, fontSize, opts.quadding)
	case opts.comb > 0:
		b.drawComb(codes, d, f, fontSize, opts.comb, opts.quadding)
	default:
		w := textWidth(f, codes)
		if fontSize == 0 {
			fontSize = b.height - 2*bw
			if w > 0 {
				fontSize = math.Min(fontSize, (b.width-4-2*bw)/w)
			}
			fontSize = math.Floor(fontSize)
			d.setFontSize(fontSize)
		}
		w *= fontSize
		x := b.quadX(w, opts.quadding)
		y := 0.5*b.height - 0.4*fontSize
		b.writeDA(d, x, y)
		b.append("(")
		b.writeTextString(codes)
		b.append(") Tj\n")
	}

	b.append("ET\n")
	b.append("Q\n")
	if opts.txField {
		b.append("EMC\n")
	}
}

func (b *builder) drawMultiline(codes []byte, d *defaultAppearance, f Font, fontSize float64, quad Quadding) {
	bw := b.borderWidth
	wMax := b.width - 2*bw - 4

	if fontSize == 0 {
		for fontSize = 20; fontSize > 1; fontSize-- {
			y := b.height
			for i := 0; i < len(codes); {
				_, _, next := nextLine(codes, i, f, fontSize, wMax)
				i = next
				y -= fontSize
			}
			// approximate the descender of the last line
			if y >= 0.33*fontSize {
				break
			}
		}
		d.setFontSize(fontSize)
	}

	// each line starts with a Td that moves down one line
	y := b.height
	b.writeDA(d, 0, y)

	xPrev := 0.0
	for i := 0; i < len(codes); {
		end, w, next := nextLine(codes, i, f, fontSize, wMax)
		x := b.quadX(w, quad)
		b.appendf("%.2f %.2f Td\n", x-xPrev, -fontSize)
		b.append("(")
		b.writeTextString(codes[i:end])
		b.append(") Tj\n")
		i = next
		xPrev = x
	}
}

// drawComb places character i in the centre of cell i of a field divided into
// comb equal cells, independent of the glyph advances.
func (b *builder) drawComb(codes []byte, d *defaultAppearance, f Font, fontSize float64, comb int, quad Quadding) {
	bw := b.borderWidth
	cell := (b.width - 2*bw) / float64(comb)

	if fontSize == 0 {
		fontSize = math.Floor(math.Min(b.height-2*bw, cell))
		d.setFontSize(fontSize)
	}
	if len(codes) > comb {
		codes = codes[:comb]
	}

	var offset float64
	switch quad {
	case QuadCenter:
		offset = 0.5 * float64(comb-len(codes)) * cell
	case QuadRight:
		offset = float64(comb-len(codes)) * cell
	}
	y := 0.5*b.height - 0.4*fontSize

	xs := make([]float64, len(codes))
	for i, c := range codes {
		xs[i] = bw + offset + float64(i)*cell + 0.5*(cell-f.Width(c)*fontSize)
	}
	x0 := bw + offset
	if len(xs) > 0 {
		x0 = xs[0]
	}
	b.writeDA(d, x0, y)
	for i := range codes {
		if i > 0 {
			b.appendf("%.2f 0 Td\n", xs[i]-xs[i-1])
		}
		b.append("(")
		b.writeTextString(codes[i : i+1])
		b.append(") Tj\n")
	}
}

// writeDA emits the DA directives with the text origin at (x, y).
func (b *builder) writeDA(d *defaultAppearance, x, y float64) {
	hasTm := d.setOrigin(x, y)
	d.write(&b.buf)
	if !hasTm {
		b.appendf("1 0 0 1 %.2f %.2f Tm\n", x, y)
	}
}

// quadX returns the start of a line of width w for the alignment.
func (b *builder) quadX(w float64, quad Quadding) float64 {
	switch quad {
	case QuadCenter:
		return (b.width - w) / 2
	case QuadRight:
		return b.width - b.borderWidth - 2 - w
	default:
		return b.borderWidth + 2
	}
}

// nextLine finds the line of text starting at start that fits into wMax.
//
// It returns the end of the line (exclusive, trailing blanks removed), the
// width of text[start:end] and the start of the following line. The line
// breaks after the last blank that keeps it within wMax; a word that does
// not fit by itself is broken at the last fitting character, and at least
// one character is always consumed.
func nextLine(text []byte, start int, f Font, fontSize, wMax float64) (end int, width float64, next int) {
	j := start
	w := 0.0
	for ; j < len(text); j++ {
		c := text[j]
		if c == '\n' || c == '\r' {
			break
		}
		dw := f.Width(c) * fontSize
		if w+dw > wMax {
			break
		}
		w += dw
	}

	end, next = j, j
	if j < len(text) && text[j] != '\n' && text[j] != '\r' {
		// overflow: back up to the start of the word that did not fit
		k := j
		if text[k] != ' ' {
			for k > start && text[k-1] != ' ' {
				k--
			}
		}
		e := k
		for e > start && text[e-1] == ' ' {
			e--
		}
		if e > start {
			end, next = e, k
		} else if j == start {
			end, next = start+1, start+1
		}
	} else {
		for end > start && text[end-1] == ' ' {
			end--
		}
	}

	for k := start; k < end; k++ {
		width += f.Width(text[k]) * fontSize
	}

	for next < len(text) && text[next] == ' ' {
		next++
	}
	if next < len(text) && text[next] == '\r' {
		next++
	}
	if next < len(text) && text[next] == '\n' {
		next++
	}
	return end, width, next
}
