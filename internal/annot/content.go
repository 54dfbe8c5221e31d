package annot

import (
	"fmt"
	"io"
	"log"
	"strings"
)

// builder accumulates the content stream of one widget appearance.
type builder struct {
	buf         strings.Builder
	width       float64
	height      float64
	borderWidth float64
	fonts       FontDict
	logger      *log.Logger

	// usedFonts lists each font tag selected by a Tf, in first-use order.
	usedFonts []string
}

func newBuilder(rect Rectangle, border *Border, fonts FontDict, logger *log.Logger) *builder {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	b := &builder{
		width:  rect.Width(),
		height: rect.Height(),
		fonts:  fonts,
		logger: logger,
	}
	if border != nil {
		b.borderWidth = border.Width
	}
	return b
}

func (b *builder) appendf(format string, args ...any) {
	fmt.Fprintf(&b.buf, format, args...)
}

func (b *builder) append(s string) {
	b.buf.WriteString(s)
}

func (b *builder) bytes() []byte {
	return []byte(b.buf.String())
}

func (b *builder) setColor(c Color, fill bool, adjust int) {
	b.append(c.operator(fill, adjust))
}

func (b *builder) useFont(tag string) {
	for _, t := range b.usedFonts {
		if t == tag {
			return
		}
	}
	b.usedFonts = append(b.usedFonts, tag)
}

// lookupFont resolves the DA font tag, logging why text cannot be drawn.
func (b *builder) lookupFont(da *defaultAppearance) (Font, bool) {
	tag, err := da.fontTag()
	if err != nil {
		b.logger.Printf("annot: %v", err)
		return nil, false
	}
	if b.fonts == nil {
		b.logger.Printf("annot: unknown font %q in DA string", tag)
		return nil, false
	}
	f, ok := b.fonts.Lookup(tag)
	if !ok {
		b.logger.Printf("annot: unknown font %q in DA string", tag)
		return nil, false
	}
	b.useFont(tag)
	return f, true
}

// writeTextString emits codes as the body of a literal string, escaping
// delimiters and non-printable bytes.
func (b *builder) writeTextString(codes []byte) {
	for _, c := range codes {
		switch {
		case c == '(' || c == ')' || c == '\\':
			b.buf.WriteByte('\\')
			b.buf.WriteByte(c)
		case c < 0x20 || c >= 0x7f:
			b.appendf("\\%03o", c)
		default:
			b.buf.WriteByte(c)
		}
	}
}

func textWidth(f Font, codes []byte) float64 {
	w := 0.0
	for _, c := range codes {
		w += f.Width(c)
	}
	return w
}
