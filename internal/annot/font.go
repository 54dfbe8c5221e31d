package annot

import (
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/font"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"golang.org/x/text/encoding/charmap"
)

// Font supplies the metrics and encoding layout needs for one font resource.
type Font interface {
	// Width returns the advance of code in text space for a font size of 1.
	Width(code byte) float64
	// Encode maps r to the font's single-byte character code.
	Encode(r rune) (byte, bool)
}

// FontDict looks fonts up by their resource tag, e.g. "Helv".
type FontDict interface {
	Lookup(tag string) (Font, bool)
}

// crudeWidth is the advance assumed for glyphs without metrics.
const crudeWidth = 0.5

// coreAliases are the resource names Acrobat uses for standard fonts in the
// AcroForm default resources.
var coreAliases = map[string]string{
	"Helv": "Helvetica",
	"HeBo": "Helvetica-Bold",
	"HeOb": "Helvetica-Oblique",
	"TiRo": "Times-Roman",
	"TiBo": "Times-Bold",
	"TiIt": "Times-Italic",
	"Cour": "Courier",
	"CoBo": "Courier-Bold",
	"Symb": "Symbol",
	"ZaDb": "ZapfDingbats",
}

type simpleFont struct {
	baseFont  string
	firstChar int
	widths    []float64
	enc       *charmap.Charmap // nil for symbolic fonts
	core      bool
}

func (f *simpleFont) Width(code byte) float64 {
	if i := int(code) - f.firstChar; len(f.widths) > 0 && i >= 0 && i < len(f.widths) {
		return f.widths[i] / 1000
	}
	if f.core {
		r := rune(code)
		if f.enc != nil {
			r = f.enc.DecodeByte(code)
		}
		if w := font.CharWidth(f.baseFont, r); w > 0 {
			return float64(w) / 1000
		}
	}
	return crudeWidth
}

func (f *simpleFont) Encode(r rune) (byte, bool) {
	if f.enc == nil {
		if r < 0 || r > 0xff {
			return 0, false
		}
		return byte(r), true
	}
	return f.enc.EncodeRune(r)
}

func isSymbolic(baseFont string) bool {
	return baseFont == "Symbol" || baseFont == "ZapfDingbats"
}

// coreFont builds a standard-14 font with pdfcpu's built-in metrics.
func coreFont(baseFont string) *simpleFont {
	f := &simpleFont{baseFont: baseFont, core: font.IsCoreFont(baseFont)}
	if !isSymbolic(baseFont) {
		f.enc = charmap.Windows1252
	}
	return f
}

// DocumentFonts is the FontDict built from an AcroForm DR/Font dictionary.
type DocumentFonts struct {
	r     Resolver
	dict  types.Dict
	cache map[string]Font
}

// NewDocumentFonts wraps a font resource dictionary. dict may be nil, in which
// case only the standard-font aliases resolve.
func NewDocumentFonts(r Resolver, dict types.Dict) *DocumentFonts {
	return &DocumentFonts{r: r, dict: dict, cache: make(map[string]Font)}
}

// Lookup resolves tag in the resource dictionary, falling back to the
// standard-font aliases.
func (d *DocumentFonts) Lookup(tag string) (Font, bool) {
	if f, ok := d.cache[tag]; ok {
		return f, f != nil
	}
	var f Font
	if fd, ok := getDict(d.r, d.dict[tag]); ok {
		f = d.load(fd)
	} else if base, ok := coreAliases[tag]; ok {
		f = coreFont(base)
	}
	d.cache[tag] = f
	return f, f != nil
}

// Defines reports whether the resource dictionary itself carries tag.
func (d *DocumentFonts) Defines(tag string) bool {
	_, ok := d.dict[tag]
	return ok
}

func (d *DocumentFonts) load(fd types.Dict) Font {
	base, _ := getName(d.r, fd["BaseFont"])
	if i := strings.IndexByte(base, '+'); i == 6 {
		base = base[i+1:]
	}
	f := coreFont(base)
	if enc, ok := getName(d.r, fd["Encoding"]); ok {
		f.enc = encodingByName(enc, f.enc)
	} else if ed, ok := getDict(d.r, fd["Encoding"]); ok {
		if enc, ok := getName(d.r, ed["BaseEncoding"]); ok {
			f.enc = encodingByName(enc, f.enc)
		}
	}
	if widths, ok := getArray(d.r, fd["Widths"]); ok {
		f.firstChar, _ = getInt(d.r, fd["FirstChar"])
		f.widths = numbers(d.r, widths)
	}
	return f
}

func encodingByName(name string, fallback *charmap.Charmap) *charmap.Charmap {
	switch name {
	case "WinAnsiEncoding":
		return charmap.Windows1252
	case "MacRomanEncoding":
		return charmap.Macintosh
	}
	return fallback
}

// encodeText converts s to the font's codes, substituting '?' for runes the
// font cannot encode.
func encodeText(f Font, s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		c, ok := f.Encode(r)
		if !ok {
			c, _ = f.Encode('?')
		}
		out = append(out, c)
	}
	return out
}
