package pdf

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/a3tai/mcp-pdf-annot/internal/annot"
	pdferrors "github.com/a3tai/mcp-pdf-annot/internal/pdf/errors"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Document is a PDF file loaded into a pdfcpu context for annotation work.
type Document struct {
	path   string
	ctx    *model.Context
	form   types.Dict
	logger *log.Logger
}

// OpenDocument reads path with relaxed validation. A nil logger discards.
func OpenDocument(path string, logger *log.Logger) (*Document, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF file: %w", err)
	}
	defer file.Close()

	return readDocument(path, file, logger)
}

func readDocument(path string, rs io.ReadSeeker, logger *log.Logger) (*Document, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(rs, conf)
	if err != nil {
		return nil, pdferrors.WrapError(pdferrors.ErrorTypeCorruptedData, err).WithFile(path)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, pdferrors.WrapError(pdferrors.ErrorTypeMalformedPage, err).WithFile(path)
	}

	d := &Document{path: path, ctx: ctx, logger: logger}
	d.form = d.loadForm()
	return d, nil
}

// loadForm returns the interactive form dictionary, or nil for documents
// without one.
func (d *Document) loadForm() types.Dict {
	catalog, err := d.ctx.Catalog()
	if err != nil {
		d.logger.Printf("pdf: %s: catalog: %v", d.path, err)
		return nil
	}
	obj, found := catalog.Find("AcroForm")
	if !found {
		return nil
	}
	form, err := d.ctx.DereferenceDict(obj)
	if err != nil {
		d.logger.Printf("pdf: %s: AcroForm: %v", d.path, err)
		return nil
	}
	return form
}

// Path returns the file the document was read from.
func (d *Document) Path() string { return d.path }

// PageCount returns the number of pages.
func (d *Document) PageCount() int { return d.ctx.PageCount }

// Form returns the AcroForm dictionary, nil when the document has none.
func (d *Document) Form() types.Dict { return d.form }

// Annotations parses the Annots array of a 1-based page.
func (d *Document) Annotations(page int, opts ...annot.Option) (*annot.Collection, error) {
	if page < 1 || page > d.ctx.PageCount {
		return nil, fmt.Errorf("page %d out of range (document has %d pages)", page, d.ctx.PageCount)
	}
	pageDict, _, _, err := d.ctx.PageDict(page, false)
	if err != nil {
		return nil, pdferrors.WrapError(pdferrors.ErrorTypeMalformedPage, err).
			WithFile(d.path).WithPage(page)
	}
	if pageDict == nil {
		return nil, pdferrors.NewPDFError(pdferrors.ErrorTypeMissingObject, "page dictionary not found").
			WithFile(d.path).WithPage(page)
	}
	annots, _ := pageDict.Find("Annots")
	return annot.NewCollection(d.ctx, d.form, annots, opts...), nil
}

// StoreAppearance writes the synthesized normal appearance of a back into
// the document. For a dictionary of appearance states the stream replaces
// the entry of the current state. An existing indirect stream is replaced in
// place; otherwise a new object is allocated.
func (d *Document) StoreAppearance(a *annot.Annotation) error {
	sd, ok := a.Appearance()
	if !ok || !a.Generated() {
		return fmt.Errorf("annotation has no generated appearance")
	}

	dict := a.Dict()
	ap, err := d.ctx.DereferenceDict(dict["AP"])
	if err != nil || ap == nil {
		ap = types.Dict{}
		dict["AP"] = ap
	}

	target, key := ap, "N"
	// DereferenceDict rejects streams, so only a states dictionary matches.
	if states, err := d.ctx.DereferenceDict(ap["N"]); err == nil && states != nil && a.AppearanceState() != "" {
		target, key = states, a.AppearanceState()
	}

	if ir, ok := target[key].(types.IndirectRef); ok {
		if entry, found := d.ctx.FindTableEntryForIndRef(&ir); found && entry != nil {
			entry.Object = *sd
			return nil
		}
	}

	ir, err := d.ctx.IndRefForNewObject(*sd)
	if err != nil {
		return pdferrors.WrapError(pdferrors.ErrorTypeInvalidAnnotation, err).WithFile(d.path)
	}
	target[key] = *ir
	return nil
}

// Write saves the document to out.
func (d *Document) Write(out string) error {
	if err := api.WriteContextFile(d.ctx, out); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	return nil
}
