// Package annot parses page annotations from a PDF object graph and
// synthesizes the appearance streams of form-field widgets.
//
// The object store is pdfcpu's: dictionaries, arrays and references are
// pdfcpu types and any Resolver (usually *model.Context) dereferences them.
// Rendering the produced streams is left to a Renderer.
package annot

import (
	"errors"
	"io"
	"log"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	pdferrors "github.com/a3tai/mcp-pdf-annot/internal/pdf/errors"
)

// ErrNotWidget is returned when appearance generation is requested for an
// annotation that is not a form-field widget.
var ErrNotWidget = errors.New("annotation is not a widget")

// maxFieldDepth bounds every walk up or down the field tree.
const maxFieldDepth = 64

// Rectangle is an annotation rectangle. The stored corners may be in any
// order; the accessors normalize.
type Rectangle struct {
	X1, Y1, X2, Y2 float64
}

func (r Rectangle) XMin() float64 { return min(r.X1, r.X2) }
func (r Rectangle) XMax() float64 { return max(r.X1, r.X2) }
func (r Rectangle) YMin() float64 { return min(r.Y1, r.Y2) }
func (r Rectangle) YMax() float64 { return max(r.Y1, r.Y2) }

// Width returns the horizontal extent.
func (r Rectangle) Width() float64 { return r.XMax() - r.XMin() }

// Height returns the vertical extent.
func (r Rectangle) Height() float64 { return r.YMax() - r.YMin() }

// Renderer draws annotation appearances. It is the content-stream execution
// engine; this package never rasterizes.
type Renderer interface {
	// DrawAnnotation executes appearance within rect. border is non-nil
	// only for link annotations, whose border the renderer paints itself.
	DrawAnnotation(appearance *types.StreamDict, border *BorderStyle, rect Rectangle) error
}

// Option configures annotations and collections.
type Option func(*options)

type options struct {
	logger    *log.Logger
	fonts     FontDict
	dirtyOnly bool
}

// WithLogger sets the logger used for recoverable problems.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithFonts replaces the fonts derived from the form's DR dictionary.
func WithFonts(f FontDict) Option {
	return func(o *options) { o.fonts = f }
}

// WithDirtyOnly restricts Collection.GenerateAppearances to annotations
// whose appearance is stale.
func WithDirtyOnly() Option {
	return func(o *options) { o.dirtyOnly = true }
}

func buildOptions(opts []Option) options {
	o := options{logger: log.New(io.Discard, "", 0)}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Annotation is one entry of a page's Annots array.
type Annotation struct {
	r      Resolver
	dict   types.Dict
	opts   options
	ref    Ref
	hasRef bool

	subtype string
	rect    Rectangle
	ok      bool
	err     error

	contents        string
	page            types.Object
	name            string
	modified        string
	flags           Flags
	appearance      types.Object
	appearState     string
	structParent    int
	hasStructParent bool
	optionalContent types.Object
	border          *Border
	color           Color
	hasColor        bool
	fontSize        float64

	regen       RegenState
	generated   bool
	fieldType   string
	isTextField bool
	isMultiline bool
	isListBox   bool
}

// NewAnnotation parses an annotation that has no object identity, e.g. a
// direct dictionary in the Annots array. It never matches a field node.
func NewAnnotation(r Resolver, form, dict types.Dict, opts ...Option) *Annotation {
	a := &Annotation{r: r, dict: dict, opts: buildOptions(opts)}
	a.initialize(form)
	return a
}

// NewAnnotationWithRef parses the annotation stored as object ref.
func NewAnnotationWithRef(r Resolver, form, dict types.Dict, ref Ref, opts ...Option) *Annotation {
	a := &Annotation{r: r, dict: dict, opts: buildOptions(opts), ref: ref, hasRef: true}
	a.initialize(form)
	return a
}

func (a *Annotation) initialize(form types.Dict) {
	r, dict := a.r, a.dict
	a.subtype, _ = getName(r, dict["Subtype"])

	rect, ok := getArray(r, dict["Rect"])
	if !ok || len(rect) != 4 {
		a.invalidate("bad bounding box for annotation")
		return
	}
	var v [4]float64
	for i, o := range rect {
		n, ok := getNumber(r, o)
		if !ok {
			a.invalidate("non-numeric annotation rectangle")
			return
		}
		v[i] = n
	}
	a.rect = Rectangle{X1: v[0], Y1: v[1], X2: v[2], Y2: v[3]}
	a.ok = true

	a.contents, _ = getText(r, dict["Contents"])
	a.page = dict["P"]
	a.name, _ = getText(r, dict["NM"])
	a.modified, _ = getText(r, dict["M"])
	if f, ok := getInt(r, dict["F"]); ok {
		a.flags = Flags(uint32(f))
	}
	a.appearance, a.appearState = selectAppearance(r, dict)
	a.structParent, a.hasStructParent = getInt(r, dict["StructParent"])
	a.optionalContent = dict["OC"]
	a.border = parseBorder(r, dict)
	if c, ok := getArray(r, dict["C"]); ok {
		a.color, a.hasColor = ColorFromArray(r, c), true
	}

	if da, ok := getText(r, fieldLookup(r, dict, "DA")); ok {
		a.fontSize = daFontSize(da)
	} else if da, ok := getText(r, form["DA"]); ok {
		a.fontSize = daFontSize(da)
	}

	a.fieldType, _ = getName(r, fieldLookup(r, dict, "FT"))
	ff, _ := getInt(r, fieldLookup(r, dict, "Ff"))
	switch a.fieldType {
	case "Tx":
		a.isTextField = true
		a.isMultiline = ff&fieldFlagMultiline != 0
	case "Ch":
		a.isListBox = ff&fieldFlagCombo == 0
	}

	if a.subtype == "Widget" && a.fieldType != "" {
		needAppearances, _ := getBool(r, form["NeedAppearances"])
		variableText := a.fieldType == "Tx" || a.fieldType == "Ch"
		if (needAppearances && variableText) || a.appearance == nil {
			a.regen = RegenDirty
		}
	}
}

func (a *Annotation) invalidate(msg string) {
	a.ok = false
	a.rect = Rectangle{X2: 1, Y2: 1}
	e := pdferrors.NewPDFError(pdferrors.ErrorTypeInvalidAnnotation, msg)
	if a.hasRef {
		e = e.WithObject(a.ref.Num, a.ref.Gen)
	}
	a.err = e
	a.opts.logger.Printf("annot: %v", e)
}

// selectAppearance picks the normal appearance: the AS state's stream when
// N is a state dictionary (falling back to Off), else N itself.
func selectAppearance(r Resolver, dict types.Dict) (types.Object, string) {
	ap, ok := getDict(r, dict["AP"])
	if !ok {
		return nil, ""
	}
	state, hasState := getName(r, dict["AS"])
	n := ap["N"]
	if states, ok := resolve(r, n).(types.Dict); ok && hasState {
		if s, ok := states[state]; ok {
			return s, state
		}
		if s, ok := states["Off"]; ok {
			return s, state
		}
		return nil, state
	}
	if _, isStates := resolve(r, n).(types.Dict); isStates {
		return nil, state
	}
	return n, state
}

// fieldLookup returns key from dict or the nearest ancestor along the
// Parent chain that defines it.
func fieldLookup(r Resolver, dict types.Dict, key string) types.Object {
	seen := make(map[Ref]bool)
	for depth := 0; dict != nil && depth < maxFieldDepth; depth++ {
		if v, ok := dict[key]; ok {
			return v
		}
		parent := dict["Parent"]
		if ref, ok := RefOf(parent); ok {
			if seen[ref] {
				return nil
			}
			seen[ref] = true
		}
		dict, _ = getDict(r, parent)
	}
	return nil
}

// IsOk reports whether the required data parsed. Invalid annotations are
// never drawn or regenerated.
func (a *Annotation) IsOk() bool { return a.ok }

// Err returns the construction failure of an invalid annotation.
func (a *Annotation) Err() error { return a.err }

// Match reports whether the annotation is the object ref; both the object
// and generation numbers must be equal.
func (a *Annotation) Match(ref Ref) bool {
	return a.hasRef && a.ref.Num == ref.Num && a.ref.Gen == ref.Gen
}

// Ref returns the object identity, if the annotation has one.
func (a *Annotation) Ref() (Ref, bool) { return a.ref, a.hasRef }

// Dict returns the annotation dictionary.
func (a *Annotation) Dict() types.Dict { return a.dict }

// Type returns the Subtype name, e.g. "Widget" or "Link".
func (a *Annotation) Type() string { return a.subtype }

func (a *Annotation) Rect() Rectangle    { return a.rect }
func (a *Annotation) XMin() float64      { return a.rect.XMin() }
func (a *Annotation) YMin() float64      { return a.rect.YMin() }
func (a *Annotation) Contents() string   { return a.contents }
func (a *Annotation) Name() string       { return a.name }
func (a *Annotation) Modified() string   { return a.modified }
func (a *Annotation) Flags() Flags       { return a.flags }
func (a *Annotation) Page() types.Object { return a.page }

// ModifiedTime parses the M entry as a PDF date.
func (a *Annotation) ModifiedTime() (time.Time, bool) {
	if a.modified == "" {
		return time.Time{}, false
	}
	return types.DateTime(a.modified, true)
}

// AppearanceState returns the AS entry.
func (a *Annotation) AppearanceState() string { return a.appearState }

// StructParent returns the structural parent tree key.
func (a *Annotation) StructParent() (int, bool) { return a.structParent, a.hasStructParent }

// OptionalContent returns the OC entry, usually a reference.
func (a *Annotation) OptionalContent() types.Object { return a.optionalContent }

// Border returns the parsed border, nil when the annotation has none.
func (a *Annotation) Border() *Border { return a.border }

// Color returns the C colour.
func (a *Annotation) Color() Color { return a.color }

// FontSize returns the DA font size; 0 means auto-sized.
func (a *Annotation) FontSize() float64 { return a.fontSize }

// FieldType returns the inherited FT of a widget, "" for other annotations.
func (a *Annotation) FieldType() string { return a.fieldType }

func (a *Annotation) IsTextField() bool { return a.isTextField }
func (a *Annotation) IsMultiline() bool { return a.isMultiline }
func (a *Annotation) IsListBox() bool   { return a.isListBox }

// Regen returns the regeneration state.
func (a *Annotation) Regen() RegenState { return a.regen }

// Generated reports whether the current appearance was synthesized rather
// than read from the document.
func (a *Annotation) Generated() bool { return a.generated }

// MarkDirty records that the field value changed and the appearance is
// stale.
func (a *Annotation) MarkDirty() {
	if a.ok {
		a.regen = RegenDirty
	}
}

// Appearance resolves the current normal appearance stream. It reports false
// when there is none or it cannot be resolved.
func (a *Annotation) Appearance() (*types.StreamDict, bool) {
	switch sd := resolve(a.r, a.appearance).(type) {
	case types.StreamDict:
		return &sd, true
	case *types.StreamDict:
		return sd, sd != nil
	}
	return nil, false
}

// BorderStyle returns the border snapshot handed to renderers. Links without
// a C entry are blue.
func (a *Annotation) BorderStyle() *BorderStyle {
	c := a.color
	if !a.hasColor {
		c = NewColor([]float64{0, 0, 1})
	}
	return NewBorderStyle(a.border, c)
}

// visible applies the Hidden, Print and NoView flags.
func (a *Annotation) visible(printing bool) bool {
	switch {
	case a.flags.Has(FlagHidden):
		return false
	case printing && !a.flags.Has(FlagPrint):
		return false
	case !printing && a.flags.Has(FlagNoView):
		return false
	}
	return true
}

// Draw hands the current appearance to target. Invalid, hidden and
// appearance-less annotations draw nothing.
func (a *Annotation) Draw(target Renderer, printing bool) error {
	if !a.ok || !a.visible(printing) {
		return nil
	}
	ap, ok := a.Appearance()
	if !ok {
		return nil
	}
	var border *BorderStyle
	if a.subtype == "Link" {
		border = a.BorderStyle()
	}
	return target.DrawAnnotation(ap, border, a.rect)
}
