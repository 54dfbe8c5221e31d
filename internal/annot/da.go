package annot

import (
	"fmt"
	"strconv"
	"strings"
)

// defaultAppearance is a tokenized DA string with the positions of the Tf
// and Tm operands, so that layout can rewrite font, size and origin before
// re-emitting the directives.
type defaultAppearance struct {
	toks  []string
	tfPos int // index of the font tag operand of Tf, or -1
	tmPos int // index of the first operand of Tm, or -1
}

func parseDA(da string) *defaultAppearance {
	d := &defaultAppearance{toks: strings.Fields(da), tfPos: -1, tmPos: -1}
	for i, tok := range d.toks {
		switch {
		case tok == "Tf" && i >= 2:
			d.tfPos = i - 2
		case tok == "Tm" && i >= 6:
			d.tmPos = i - 6
		}
	}
	return d
}

// fontTag returns the resource name of the Tf font without its slash.
func (d *defaultAppearance) fontTag() (string, error) {
	if d.tfPos < 0 {
		return "", fmt.Errorf("missing 'Tf' operator in DA string")
	}
	tok := d.toks[d.tfPos]
	if len(tok) < 2 || tok[0] != '/' {
		return "", fmt.Errorf("invalid font name %q in 'Tf' operator", tok)
	}
	return tok[1:], nil
}

func (d *defaultAppearance) setFontTag(tag string) {
	if d.tfPos >= 0 {
		d.toks[d.tfPos] = "/" + tag
	}
}

// fontSize returns the Tf size operand, 0 meaning auto-size.
func (d *defaultAppearance) fontSize() float64 {
	if d.tfPos < 0 {
		return 0
	}
	size, err := strconv.ParseFloat(d.toks[d.tfPos+1], 64)
	if err != nil || size < 0 {
		return 0
	}
	return size
}

func (d *defaultAppearance) setFontSize(size float64) {
	if d.tfPos >= 0 {
		d.toks[d.tfPos+1] = formatNum(size)
	}
}

// setOrigin rewrites the translation of an explicit Tm. It reports false when
// the DA carries no Tm and the caller has to emit one.
func (d *defaultAppearance) setOrigin(x, y float64) bool {
	if d.tmPos < 0 {
		return false
	}
	d.toks[d.tmPos+4] = formatNum(x)
	d.toks[d.tmPos+5] = formatNum(y)
	return true
}

func (d *defaultAppearance) write(sb *strings.Builder) {
	for _, tok := range d.toks {
		sb.WriteString(tok)
		sb.WriteByte(' ')
	}
}

func (d *defaultAppearance) clone() *defaultAppearance {
	c := *d
	c.toks = append([]string(nil), d.toks...)
	return &c
}

func formatNum(x float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64)
}

// daFontSize extracts the Tf size of a DA string, 0 when absent.
func daFontSize(da string) float64 {
	return parseDA(da).fontSize()
}
