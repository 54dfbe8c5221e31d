package pdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/a3tai/mcp-pdf-annot/internal/annot"
	pdferrors "github.com/a3tai/mcp-pdf-annot/internal/pdf/errors"
	"github.com/a3tai/mcp-pdf-annot/internal/pdf/security"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Service runs annotation operations on documents inside the configured
// directory.
type Service struct {
	maxFileSize   int64
	validator     *Validator
	pathValidator *security.PathValidator
	serverInfo    *PDFServerInfo
	logger        *log.Logger
}

// NewService creates a PDF service. A nil logger discards.
func NewService(maxFileSize int64, configuredDirectory string, logger *log.Logger) (*Service, error) {
	pathValidator, err := security.NewPathValidator(configuredDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	s := &Service{
		maxFileSize:   maxFileSize,
		validator:     NewValidator(maxFileSize),
		pathValidator: pathValidator,
		logger:        logger,
	}
	s.serverInfo = NewPDFServerInfo(s)
	return s, nil
}

// GetMaxFileSize returns the maximum file size limit
func (s *Service) GetMaxFileSize() int64 {
	return s.maxFileSize
}

// Directory returns the configured directory.
func (s *Service) Directory() string {
	return s.pathValidator.Directory()
}

// PDFValidateFile performs validation on a PDF file
func (s *Service) PDFValidateFile(req PDFValidateFileRequest) (*PDFValidateFileResult, error) {
	path, err := s.pathValidator.ValidateInput(req.Path)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	req.Path = path
	return s.validator.ValidateFile(req)
}

// PDFServerInfo returns server information and usage guidance.
func (s *Service) PDFServerInfo(ctx context.Context, serverName, version string) (*PDFServerInfoResult, error) {
	return s.serverInfo.GetServerInfo(ctx, serverName, version)
}

// open validates path and loads the document.
func (s *Service) open(path string) (*Document, error) {
	abs, err := s.pathValidator.ValidateInput(path)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}
	if err := s.validator.ValidateFileInfo(abs, info); err != nil {
		return nil, err
	}
	return OpenDocument(abs, s.logger)
}

// pages returns the 1-based pages a request covers; zero means all.
func pages(doc *Document, page int) ([]int, error) {
	n := doc.PageCount()
	if page < 0 || page > n {
		return nil, fmt.Errorf("page %d out of range (document has %d pages)", page, n)
	}
	if page > 0 {
		return []int{page}, nil
	}
	all := make([]int, n)
	for i := range all {
		all[i] = i + 1
	}
	return all, nil
}

func (s *Service) options(dirtyOnly bool) []annot.Option {
	opts := []annot.Option{annot.WithLogger(s.logger)}
	if dirtyOnly {
		opts = append(opts, annot.WithDirtyOnly())
	}
	return opts
}

// ListAnnotations parses the annotations of the requested pages.
func (s *Service) ListAnnotations(req AnnotationsRequest) (*ListAnnotationsResult, error) {
	doc, err := s.open(req.Path)
	if err != nil {
		return nil, err
	}
	pageList, err := pages(doc, req.Page)
	if err != nil {
		return nil, err
	}

	result := &ListAnnotationsResult{
		Path:        doc.Path(),
		Pages:       doc.PageCount(),
		HasForm:     doc.Form() != nil,
		Annotations: []AnnotationInfo{},
		Problems:    pdferrors.NewErrorCollection(doc.Path()),
	}
	for _, page := range pageList {
		coll, err := doc.Annotations(page, s.options(false)...)
		if err != nil {
			result.Problems.Add(asPDFError(err, page))
			continue
		}
		for i, a := range coll.Annotations() {
			result.Annotations = append(result.Annotations, describe(page, i, a))
			addAnnotationProblem(result.Problems, a, page)
		}
	}
	return result, nil
}

// RegenerateAppearances synthesizes form field appearances. With an output
// path the streams are stored in the document, which is then written there.
func (s *Service) RegenerateAppearances(req GenerateAppearancesRequest) (*GenerateAppearancesResult, error) {
	doc, err := s.open(req.Path)
	if err != nil {
		return nil, err
	}
	pageList, err := pages(doc, req.Page)
	if err != nil {
		return nil, err
	}
	output := ""
	if req.Output != "" {
		if output, err = s.pathValidator.ValidateOutput(req.Output); err != nil {
			return nil, fmt.Errorf("security validation failed: %w", err)
		}
		if output == doc.Path() {
			return nil, fmt.Errorf("output must differ from the source file: %s", req.Output)
		}
	}

	result := &GenerateAppearancesResult{
		Path:     doc.Path(),
		Output:   output,
		Fields:   []AnnotationInfo{},
		Problems: pdferrors.NewErrorCollection(doc.Path()),
	}
	form := doc.Form()
	if form == nil {
		result.Problems.Add(pdferrors.NewPDFError(pdferrors.ErrorTypeInvalidForm,
			"document has no interactive form"))
	}

	for _, page := range pageList {
		if form == nil {
			break
		}
		coll, err := doc.Annotations(page, s.options(req.DirtyOnly)...)
		if err != nil {
			result.Problems.Add(asPDFError(err, page))
			continue
		}
		generated, skipped := coll.GenerateAppearances(form)
		result.Generated += generated
		result.Skipped += skipped

		for i, a := range coll.Annotations() {
			addAnnotationProblem(result.Problems, a, page)
			if !a.Generated() {
				continue
			}
			result.Fields = append(result.Fields, describe(page, i, a))
			if output == "" {
				continue
			}
			if err := doc.StoreAppearance(a); err != nil {
				result.Problems.Add(asPDFError(err, page))
				continue
			}
			result.Stored++
		}
	}

	if output != "" {
		if err := doc.Write(output); err != nil {
			return nil, err
		}
		s.logger.Printf("pdf: wrote %d appearance(s) to %s", result.Stored, output)
	}
	return result, nil
}

// DumpAppearances returns the appearance streams drawn for the requested
// pages, regenerating form appearances first when asked to.
func (s *Service) DumpAppearances(req DumpAppearancesRequest) (*DumpAppearancesResult, error) {
	doc, err := s.open(req.Path)
	if err != nil {
		return nil, err
	}
	pageList, err := pages(doc, req.Page)
	if err != nil {
		return nil, err
	}

	result := &DumpAppearancesResult{
		Path:        doc.Path(),
		Printing:    req.Printing,
		Appearances: []AppearanceDump{},
		Problems:    pdferrors.NewErrorCollection(doc.Path()),
	}
	for _, page := range pageList {
		coll, err := doc.Annotations(page, s.options(false)...)
		if err != nil {
			result.Problems.Add(asPDFError(err, page))
			continue
		}
		if req.Regenerate && doc.Form() != nil {
			coll.GenerateAppearances(doc.Form())
		}

		for i, a := range coll.Annotations() {
			addAnnotationProblem(result.Problems, a, page)
			rec := &appearanceRecorder{}
			if err := a.Draw(rec, req.Printing); err != nil {
				result.Problems.Add(asPDFError(fmt.Errorf("annotation %d: %w", i, err), page))
				continue
			}
			if !rec.drawn {
				continue
			}
			dump := rec.dump
			dump.Page = page
			dump.Index = i
			dump.Subtype = a.Type()
			dump.Generated = a.Generated()
			if ref, ok := a.Ref(); ok {
				dump.Ref = ref.String()
			}
			result.Appearances = append(result.Appearances, dump)
		}
	}
	return result, nil
}

// appearanceRecorder is a Renderer that keeps what it is asked to draw.
type appearanceRecorder struct {
	drawn bool
	dump  AppearanceDump
}

func (r *appearanceRecorder) DrawAnnotation(ap *types.StreamDict, border *annot.BorderStyle, rect annot.Rectangle) error {
	content, err := annot.StreamContent(ap)
	if err != nil {
		return pdferrors.WrapError(pdferrors.ErrorTypeCorruptedData, err)
	}
	r.drawn = true
	r.dump = AppearanceDump{
		Rect:    [4]float64{rect.X1, rect.Y1, rect.X2, rect.Y2},
		BBox:    directNumbers(ap.Dict["BBox"]),
		Content: string(content),
	}
	if border != nil {
		dash, _ := border.Dash()
		r.dump.Border = &BorderInfo{Style: border.Type().String(), Width: border.Width(), Dash: dash}
	}
	return nil
}

func directNumbers(obj types.Object) []float64 {
	arr, ok := obj.(types.Array)
	if !ok {
		return nil
	}
	var out []float64
	for _, o := range arr {
		switch v := o.(type) {
		case types.Integer:
			out = append(out, float64(v))
		case types.Float:
			out = append(out, float64(v))
		}
	}
	return out
}

func describe(page, index int, a *annot.Annotation) AnnotationInfo {
	rect := a.Rect()
	_, hasAP := a.Appearance()
	info := AnnotationInfo{
		Page:            page,
		Index:           index,
		Subtype:         a.Type(),
		Valid:           a.IsOk(),
		Rect:            [4]float64{rect.X1, rect.Y1, rect.X2, rect.Y2},
		Contents:        a.Contents(),
		Name:            a.Name(),
		Modified:        a.Modified(),
		Flags:           uint32(a.Flags()),
		FieldType:       a.FieldType(),
		FontSize:        a.FontSize(),
		AppearanceState: a.AppearanceState(),
		HasAppearance:   hasAP,
		Regen:           a.Regen().String(),
		Color:           a.Color().Values(),
	}
	if ref, ok := a.Ref(); ok {
		info.Ref = ref.String()
	}
	if err := a.Err(); err != nil {
		info.Error = err.Error()
	}
	if b := a.Border(); b != nil {
		info.Border = &BorderInfo{Style: b.Style.String(), Width: b.Width, Dash: b.Dash}
	}
	return info
}

func addAnnotationProblem(problems *pdferrors.ErrorCollection, a *annot.Annotation, page int) {
	if a.IsOk() || a.Err() == nil {
		return
	}
	problems.Add(asPDFError(a.Err(), page))
}

// asPDFError categorizes err for an ErrorCollection.
func asPDFError(err error, page int) *pdferrors.PDFError {
	var pe *pdferrors.PDFError
	if errors.As(err, &pe) {
		if pe.PageNumber == 0 {
			pe.WithPage(page)
		}
		return pe
	}
	return pdferrors.WrapError(pdferrors.ErrorTypeMalformedPage, err).WithPage(page)
}
