package annot

import (
	"errors"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Collection is the ordered list of annotations of one page.
type Collection struct {
	r     Resolver
	opts  options
	items []*Annotation
	byRef map[Ref]int
}

// NewCollection parses a page's Annots array. Entries that are not
// dictionaries and repeated references are skipped; invalid annotations are kept so that indices
// follow the source array, but they never draw.
func NewCollection(r Resolver, form types.Dict, annots types.Object, opts ...Option) *Collection {
	c := &Collection{r: r, opts: buildOptions(opts), byRef: make(map[Ref]int)}
	arr, ok := getArray(r, annots)
	if !ok {
		return c
	}
	for i, entry := range arr {
		dict, ok := getDict(r, entry)
		if !ok {
			c.opts.logger.Printf("annot: Annots[%d] is not a dictionary", i)
			continue
		}
		var a *Annotation
		if ref, ok := RefOf(entry); ok {
			if _, dup := c.byRef[ref]; dup {
				c.opts.logger.Printf("annot: Annots[%d] repeats %s", i, ref)
				continue
			}
			c.byRef[ref] = len(c.items)
			a = NewAnnotationWithRef(r, form, dict, ref, opts...)
		} else {
			a = NewAnnotation(r, form, dict, opts...)
		}
		c.items = append(c.items, a)
	}
	return c
}

// Len returns the number of annotations.
func (c *Collection) Len() int { return len(c.items) }

// At returns the i-th annotation in Annots order.
func (c *Collection) At(i int) *Annotation { return c.items[i] }

// Annotations returns the annotations in Annots order.
func (c *Collection) Annotations() []*Annotation { return c.items }

// FindAnnotation returns the annotation stored as ref.
func (c *Collection) FindAnnotation(ref Ref) (*Annotation, bool) {
	i, ok := c.byRef[ref]
	if !ok {
		return nil, false
	}
	return c.items[i], true
}

// Draw draws every visible annotation in order. A failing annotation does not
// stop the others; their errors are joined.
func (c *Collection) Draw(target Renderer, printing bool) error {
	var errs []error
	for i, a := range c.items {
		if err := a.Draw(target, printing); err != nil {
			errs = append(errs, fmt.Errorf("annotation %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

type fieldNode struct {
	obj   types.Object
	attrs fieldAttrs
	depth int
}

// GenerateAppearances walks the AcroForm field tree and regenerates the
// appearance of every widget of this page. Widgets on other pages are
// skipped. It returns the number of appearances generated and the number
// of matched widgets that could not be regenerated.
//
// Failures are scoped to one node: a field reached twice, nested deeper than
// the depth bound or matching an invalid annotation is skipped with a log
// line and the walk continues.
func (c *Collection) GenerateAppearances(form types.Dict) (generated, skipped int) {
	fields, ok := getArray(c.r, form["Fields"])
	if !ok {
		return 0, 0
	}

	stack := make([]fieldNode, 0, len(fields))
	for i := len(fields) - 1; i >= 0; i-- {
		stack = append(stack, fieldNode{obj: fields[i]})
	}

	visited := make(map[Ref]bool)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		ref, hasRef := RefOf(n.obj)
		if hasRef {
			if visited[ref] {
				c.opts.logger.Printf("annot: field %s reached twice, skipping", ref)
				continue
			}
			visited[ref] = true
		}
		if n.depth >= maxFieldDepth {
			c.opts.logger.Printf("annot: field tree deeper than %d, skipping", maxFieldDepth)
			continue
		}
		node, ok := getDict(c.r, n.obj)
		if !ok {
			continue
		}
		attrs := n.attrs.merge(c.r, node)

		if kids, ok := getArray(c.r, node["Kids"]); ok {
			for i := len(kids) - 1; i >= 0; i-- {
				stack = append(stack, fieldNode{obj: kids[i], attrs: attrs, depth: n.depth + 1})
			}
		}
		if !hasRef {
			continue
		}
		a, ok := c.FindAnnotation(ref)
		if !ok {
			continue
		}
		if c.opts.dirtyOnly && a.Regen() == RegenClean {
			continue
		}
		err := a.generate(attrs, node, form)
		switch {
		case err == nil:
			generated++
		case errors.Is(err, ErrNotWidget):
		default:
			skipped++
			c.opts.logger.Printf("annot: field %s: %v", ref, err)
		}
	}
	return generated, skipped
}
