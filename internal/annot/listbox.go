package annot

import "math"

// lineSpacing is the list box line height relative to the font size.
const lineSpacing = 1.1

// drawListBox renders options from topIdx downwards, highlighting selected
// entries, until the field rectangle is full.
func (b *builder) drawListBox(options []string, selection []bool, topIdx int, da string, quad Quadding) {
	d := parseDA(da)
	f, ok := b.lookupFont(d)
	if !ok {
		return
	}
	bw := b.borderWidth

	codes := make([][]byte, len(options))
	for i, opt := range options {
		codes[i] = encodeText(f, opt)
	}

	fontSize := d.fontSize()
	if fontSize == 0 {
		wMax := 0.0
		for _, c := range codes {
			wMax = math.Max(wMax, textWidth(f, c))
		}
		fontSize = b.height - 2*bw
		if wMax > 0 {
			fontSize = math.Min(fontSize, (b.width-4-2*bw)/wMax)
		}
		fontSize = math.Floor(fontSize)
		d.setFontSize(fontSize)
	}
	if fontSize <= 0 {
		b.logger.Printf("annot: list box too small for its options")
		return
	}
	if topIdx < 0 || topIdx >= len(options) {
		topIdx = 0
	}
	rows := int(math.Floor(b.height / (lineSpacing * fontSize)))

	b.append("q\n")
	b.appendf("%.2f %.2f %.2f %.2f re W n\n", bw, bw, b.width-2*bw, b.height-2*bw)

	y := b.height - lineSpacing*fontSize
	for i := topIdx; i < len(options) && i-topIdx < rows; i++ {
		selected := i < len(selection) && selection[i]

		b.append("q\n")
		if selected {
			b.append("0 g f\n")
			b.appendf("%.2f %.2f %.2f %.2f re f\n",
				bw, y-0.2*fontSize, b.width-2*bw, lineSpacing*fontSize)
		}
		b.append("BT\n")

		x := b.quadX(textWidth(f, codes[i])*fontSize, quad)
		line := d.clone()
		b.writeDA(line, x, y)
		if selected {
			b.append("1 g\n")
		}
		b.append("(")
		b.writeTextString(codes[i])
		b.append(") Tj\n")

		b.append("ET\n")
		b.append("Q\n")

		y -= lineSpacing * fontSize
	}
	b.append("Q\n")
}
