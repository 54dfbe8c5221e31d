package annot

import (
	"math"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// fieldAttrs are the field attributes an appearance is generated from. The
// inheritable ones come from the nearest field node defining them.
type fieldAttrs struct {
	ft     string
	ff     int
	da     string
	hasDA  bool
	q      Quadding
	hasQ   bool
	v      types.Object
	maxLen int
	opt    types.Object
	ti     int
}

// merge overrides a with the entries node defines itself.
func (a fieldAttrs) merge(r Resolver, node types.Dict) fieldAttrs {
	if ft, ok := getName(r, node["FT"]); ok {
		a.ft = ft
	}
	if ff, ok := getInt(r, node["Ff"]); ok {
		a.ff = ff
	}
	if da, ok := getText(r, node["DA"]); ok {
		a.da, a.hasDA = da, true
	}
	if q, ok := getInt(r, node["Q"]); ok {
		a.q, a.hasQ = Quadding(q), true
	}
	if v, ok := node["V"]; ok {
		a.v = v
	}
	if n, ok := getInt(r, node["MaxLen"]); ok {
		a.maxLen = n
	}
	if opt, ok := node["Opt"]; ok {
		a.opt = opt
	}
	if ti, ok := getInt(r, node["TI"]); ok {
		a.ti = ti
	}
	return a
}

// withFormDefaults fills DA and Q from the AcroForm dictionary.
func (a fieldAttrs) withFormDefaults(r Resolver, form types.Dict) fieldAttrs {
	if !a.hasDA {
		a.da, _ = getText(r, form["DA"])
	}
	if !a.hasQ {
		if q, ok := getInt(r, form["Q"]); ok {
			a.q = Quadding(q)
		}
	}
	return a
}

// attrsOf collects the attributes of field, inheriting along its Parent
// chain.
func attrsOf(r Resolver, field types.Dict) fieldAttrs {
	var chain []types.Dict
	seen := make(map[Ref]bool)
	for d := field; d != nil && len(chain) < maxFieldDepth; {
		chain = append(chain, d)
		parent := d["Parent"]
		if ref, ok := RefOf(parent); ok {
			if seen[ref] {
				break
			}
			seen[ref] = true
		}
		d, _ = getDict(r, parent)
	}
	var a fieldAttrs
	for i := len(chain) - 1; i >= 0; i-- {
		a = a.merge(r, chain[i])
	}
	return a
}

// GenerateFieldAppearance synthesizes the normal appearance of the widget
// from the field's type, flags and value, replacing the current one.
//
// field is the terminal field dictionary, which may be the widget dictionary
// itself; inheritable attributes are looked up along its Parent chain and
// fall back to form. Generation is a pure function of these inputs.
func (a *Annotation) GenerateFieldAppearance(field, annotDict, form types.Dict) error {
	if field == nil {
		field = annotDict
	}
	return a.generate(attrsOf(a.r, field), annotDict, form)
}

func (a *Annotation) generate(attrs fieldAttrs, annotDict, form types.Dict) error {
	if !a.ok {
		return a.err
	}
	if a.subtype != "Widget" {
		return ErrNotWidget
	}
	if annotDict == nil {
		annotDict = a.dict
	}
	r := a.r
	attrs = attrs.withFormDefaults(r, form)

	dr, _ := getDict(r, form["DR"])
	fontRes, _ := getDict(r, dr["Font"])
	var docFonts *DocumentFonts
	fonts := a.opts.fonts
	if fonts == nil {
		docFonts = NewDocumentFonts(r, fontRes)
		fonts = docFonts
	}

	b := newBuilder(a.rect, a.border, fonts, a.opts.logger)
	mk, _ := getDict(r, annotDict["MK"])
	caption, hasCaption := getText(r, mk["CA"])

	if bg, ok := mkColor(r, mk, "BG"); ok {
		b.setColor(bg, true, 0)
		b.appendf("0 0 %.2f %.2f re f\n", b.width, b.height)
	}
	radio := attrs.ft == "Btn" && attrs.ff&fieldFlagRadio != 0
	b.drawBorder(r, mk, a.border, radio && !hasCaption)

	switch attrs.ft {
	case "Btn":
		a.drawButton(b, attrs, mk, caption, hasCaption)
	case "Tx":
		if text, ok := getText(r, attrs.v); ok {
			comb := 0
			if attrs.ff&fieldFlagComb != 0 && attrs.maxLen > 0 {
				comb = attrs.maxLen
			}
			b.drawText(text, attrs.da, textOptions{
				multiline: attrs.ff&fieldFlagMultiline != 0,
				comb:      comb,
				quadding:  attrs.q,
				txField:   true,
				password:  attrs.ff&fieldFlagPassword != 0,
			})
		}
	case "Ch":
		if attrs.ff&fieldFlagCombo != 0 {
			if text, ok := getText(r, attrs.v); ok {
				b.drawText(text, attrs.da, textOptions{quadding: attrs.q, txField: true})
			}
		} else if opt, ok := getArray(r, attrs.opt); ok {
			options, selection := choiceOptions(r, opt, attrs.v)
			b.drawListBox(options, selection, attrs.ti, attrs.da, attrs.q)
		}
	default:
		a.opts.logger.Printf("annot: unknown field type %q", attrs.ft)
	}

	a.appearance = b.stream(resourcesFor(dr, fontRes, docFonts, b.usedFonts))
	a.regen = RegenClean
	a.generated = true
	return nil
}

func (a *Annotation) drawButton(b *builder, attrs fieldAttrs, mk types.Dict, caption string, hasCaption bool) {
	r := a.r
	value, _ := getName(r, attrs.v)
	switch {
	case attrs.ff&fieldFlagRadio != 0:
		if value == "" || value == "Off" || value != a.appearState {
			return
		}
		if hasCaption {
			b.drawText(caption, attrs.da, textOptions{quadding: QuadCenter, forceZapfDingbats: true})
		} else if bc, ok := mkColor(r, mk, "BC"); ok {
			b.setColor(bc, true, 0)
			b.drawCircle(0.5*b.width, 0.5*b.height, 0.2*math.Min(b.width, b.height), true)
		}
	case attrs.ff&fieldFlagPushbutton != 0:
		if hasCaption {
			b.drawText(caption, attrs.da, textOptions{quadding: QuadCenter})
		}
	default:
		on := value == "Yes" || (value != "" && value != "Off" && value == a.appearState)
		if !on {
			return
		}
		if !hasCaption {
			// ZapfDingbats check mark
			caption = "3"
		}
		b.drawText(caption, attrs.da, textOptions{quadding: QuadCenter, forceZapfDingbats: true})
	}
}

// choiceOptions returns the display texts of a list box Opt array and which
// of them the value selects. Entries are either text strings or
// [export display] pairs; a value may name either text.
func choiceOptions(r Resolver, opt types.Array, value types.Object) ([]string, []bool) {
	options := make([]string, len(opt))
	exports := make([]string, len(opt))
	for i, o := range opt {
		if pair, ok := getArray(r, o); ok && len(pair) == 2 {
			exports[i], _ = getText(r, pair[0])
			options[i], _ = getText(r, pair[1])
			continue
		}
		options[i], _ = getText(r, o)
		exports[i] = options[i]
	}

	var selected []string
	if s, ok := getText(r, value); ok {
		selected = append(selected, s)
	} else if arr, ok := getArray(r, value); ok {
		for _, o := range arr {
			if s, ok := getText(r, o); ok {
				selected = append(selected, s)
			}
		}
	}

	selection := make([]bool, len(opt))
	for i := range options {
		for _, s := range selected {
			if s == options[i] || s == exports[i] {
				selection[i] = true
			}
		}
	}
	return options, selection
}

func mkColor(r Resolver, mk types.Dict, key string) (Color, bool) {
	a, ok := getArray(r, mk[key])
	if !ok || len(a) == 0 {
		return Color{}, false
	}
	c := ColorFromArray(r, a)
	return c, !c.IsTransparent()
}

// drawBorder paints the MK border with the BC colour, or BG when BC is
// missing. Rectangular borders are followed by a clip to the interior.
func (b *builder) drawBorder(r Resolver, mk types.Dict, border *Border, round bool) {
	if mk == nil || border == nil || border.Width <= 0 {
		return
	}
	c, ok := mkColor(r, mk, "BC")
	if !ok {
		c, ok = mkColor(r, mk, "BG")
	}
	if !ok {
		return
	}
	w := border.Width
	dx, dy := b.width, b.height
	bevel := 1
	if border.Style == BorderInset {
		bevel = -1
	}

	if round {
		rad := 0.5 * math.Min(dx, dy)
		cx, cy := 0.5*dx, 0.5*dy
		switch border.Style {
		case BorderDashed:
			b.writeDash(border.Dash)
			fallthrough
		case BorderSolid, BorderUnderlined:
			b.appendf("%.2f w\n", w)
			b.setColor(c, false, 0)
			b.drawCircle(cx, cy, rad-0.5*w, false)
		case BorderBeveled, BorderInset:
			b.appendf("%.2f w\n", 0.5*w)
			b.setColor(c, false, 0)
			b.drawCircle(cx, cy, rad-0.25*w, false)
			b.setColor(c, false, bevel)
			b.drawCircleTopLeft(cx, cy, rad-0.75*w)
			b.setColor(c, false, -bevel)
			b.drawCircleBottomRight(cx, cy, rad-0.75*w)
		}
		return
	}

	switch border.Style {
	case BorderDashed:
		b.writeDash(border.Dash)
		fallthrough
	case BorderSolid:
		b.appendf("%.2f w\n", w)
		b.setColor(c, false, 0)
		if border.HasRoundedCorners() {
			b.drawRoundedRect(0.5*w, 0.5*w, dx-w, dy-w, border.HRadius, border.VRadius)
		} else {
			b.appendf("%.2f %.2f %.2f %.2f re s\n", 0.5*w, 0.5*w, dx-w, dy-w)
		}
	case BorderBeveled, BorderInset:
		b.setColor(c, true, bevel)
		b.append("0 0 m\n")
		b.appendf("0 %.2f l\n", dy)
		b.appendf("%.2f %.2f l\n", dx, dy)
		b.appendf("%.2f %.2f l\n", dx-w, dy-w)
		b.appendf("%.2f %.2f l\n", w, dy-w)
		b.appendf("%.2f %.2f l\n", w, w)
		b.append("f\n")
		b.setColor(c, true, -bevel)
		b.appendf("%.2f %.2f m\n", dx, dy)
		b.appendf("%.2f 0 l\n", dx)
		b.append("0 0 l\n")
		b.appendf("%.2f %.2f l\n", w, w)
		b.appendf("%.2f %.2f l\n", dx-w, w)
		b.appendf("%.2f %.2f l\n", dx-w, dy-w)
		b.append("f\n")
	case BorderUnderlined:
		b.appendf("%.2f w\n", w)
		b.setColor(c, false, 0)
		b.appendf("0 0 m %.2f 0 l s\n", dx)
	}
	b.appendf("%.2f %.2f %.2f %.2f re W n\n", w, w, dx-2*w, dy-2*w)
}

func (b *builder) writeDash(dash []float64) {
	b.append("[")
	for _, d := range dash {
		b.appendf(" %.2f", d)
	}
	b.append(" ] 0 d\n")
}

// stream wraps the accumulated content as a form XObject.
func (b *builder) stream(resources types.Dict) *types.StreamDict {
	content := b.bytes()
	length := int64(len(content))
	d := types.Dict{
		"Type":    types.Name("XObject"),
		"Subtype": types.Name("Form"),
		"BBox": types.Array{
			types.Float(0), types.Float(0),
			types.Float(b.width), types.Float(b.height),
		},
		"Length": types.Integer(length),
	}
	if resources != nil {
		d["Resources"] = resources
	}
	return &types.StreamDict{Dict: d, Content: content, Raw: content, StreamLength: &length}
}

// resourcesFor returns the DR dictionary as appearance resources, adding a
// standard font entry for every used alias that DR does not define.
func resourcesFor(dr, fontRes types.Dict, fonts *DocumentFonts, used []string) types.Dict {
	var missing []string
	if fonts != nil {
		for _, tag := range used {
			if _, ok := coreAliases[tag]; ok && !fonts.Defines(tag) {
				missing = append(missing, tag)
			}
		}
	}
	if len(missing) == 0 {
		return dr
	}

	res := types.Dict{}
	for k, v := range dr {
		res[k] = v
	}
	fd := types.Dict{}
	for k, v := range fontRes {
		fd[k] = v
	}
	for _, tag := range missing {
		fd[tag] = coreFontDict(coreAliases[tag])
	}
	res["Font"] = fd
	return res
}

func coreFontDict(baseFont string) types.Dict {
	d := types.Dict{
		"Type":     types.Name("Font"),
		"Subtype":  types.Name("Type1"),
		"BaseFont": types.Name(baseFont),
	}
	if !isSymbolic(baseFont) {
		d["Encoding"] = types.Name("WinAnsiEncoding")
	}
	return d
}

// Content returns the decoded content of the current appearance stream.
func (a *Annotation) Content() string {
	sd, ok := a.Appearance()
	if !ok {
		return ""
	}
	content, err := StreamContent(sd)
	if err != nil {
		a.opts.logger.Printf("annot: decode appearance: %v", err)
		return ""
	}
	return string(content)
}

// StreamContent returns the decoded bytes of a content stream, decoding it
// through its filter pipeline if needed.
func StreamContent(sd *types.StreamDict) ([]byte, error) {
	if sd.Content != nil {
		return sd.Content, nil
	}
	if len(sd.FilterPipeline) == 0 {
		return sd.Raw, nil
	}
	if err := sd.Decode(); err != nil {
		return nil, err
	}
	return sd.Content, nil
}
