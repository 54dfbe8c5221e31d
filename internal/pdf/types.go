package pdf

import (
	pdferrors "github.com/a3tai/mcp-pdf-annot/internal/pdf/errors"
)

// FileInfo represents information about a PDF file
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// Request Types

// AnnotationsRequest selects the annotations of one page, or of every page
// when Page is zero.
type AnnotationsRequest struct {
	Path string `json:"path"`
	Page int    `json:"page,omitempty"`
}

// GenerateAppearancesRequest asks for form field appearances to be
// synthesized and, when Output is set, written to a new file.
type GenerateAppearancesRequest struct {
	Path      string `json:"path"`
	Page      int    `json:"page,omitempty"`
	Output    string `json:"output,omitempty"`
	DirtyOnly bool   `json:"dirty_only,omitempty"`
}

// DumpAppearancesRequest asks for the content streams that would be drawn
// for the annotations of a page.
type DumpAppearancesRequest struct {
	Path       string `json:"path"`
	Page       int    `json:"page,omitempty"`
	Printing   bool   `json:"printing,omitempty"`
	Regenerate bool   `json:"regenerate,omitempty"`
}

// PDFValidateFileRequest represents a request to validate a PDF file
type PDFValidateFileRequest struct {
	Path string `json:"path"`
}

// PDFServerInfoRequest represents a request to get server information and capabilities
type PDFServerInfoRequest struct {
	// No parameters needed for server info
}

// Response Types

// BorderInfo describes the effective border of an annotation.
type BorderInfo struct {
	Style string    `json:"style"`
	Width float64   `json:"width"`
	Dash  []float64 `json:"dash,omitempty"`
}

// AnnotationInfo is the parsed view of one annotation.
type AnnotationInfo struct {
	Page            int         `json:"page"`
	Index           int         `json:"index"`
	Ref             string      `json:"ref,omitempty"`
	Subtype         string      `json:"subtype"`
	Valid           bool        `json:"valid"`
	Error           string      `json:"error,omitempty"`
	Rect            [4]float64  `json:"rect"`
	Contents        string      `json:"contents,omitempty"`
	Name            string      `json:"name,omitempty"`
	Modified        string      `json:"modified,omitempty"`
	Flags           uint32      `json:"flags"`
	FieldType       string      `json:"field_type,omitempty"`
	FontSize        float64     `json:"font_size,omitempty"`
	AppearanceState string      `json:"appearance_state,omitempty"`
	HasAppearance   bool        `json:"has_appearance"`
	Regen           string      `json:"regen"`
	Color           []float64   `json:"color,omitempty"`
	Border          *BorderInfo `json:"border,omitempty"`
}

// ListAnnotationsResult lists the annotations of the requested pages.
type ListAnnotationsResult struct {
	Path        string                     `json:"path"`
	Pages       int                        `json:"pages"`
	HasForm     bool                       `json:"has_form"`
	Annotations []AnnotationInfo           `json:"annotations"`
	Problems    *pdferrors.ErrorCollection `json:"problems"`
}

// GenerateAppearancesResult reports the outcome of a regeneration pass.
type GenerateAppearancesResult struct {
	Path      string                     `json:"path"`
	Output    string                     `json:"output,omitempty"`
	Generated int                        `json:"generated"`
	Skipped   int                        `json:"skipped"`
	Stored    int                        `json:"stored"`
	Fields    []AnnotationInfo           `json:"fields"`
	Problems  *pdferrors.ErrorCollection `json:"problems"`
}

// AppearanceDump is one drawn appearance stream.
type AppearanceDump struct {
	Page      int         `json:"page"`
	Index     int         `json:"index"`
	Ref       string      `json:"ref,omitempty"`
	Subtype   string      `json:"subtype"`
	Rect      [4]float64  `json:"rect"`
	BBox      []float64   `json:"bbox,omitempty"`
	Generated bool        `json:"generated"`
	Content   string      `json:"content"`
	Border    *BorderInfo `json:"border,omitempty"`
}

// DumpAppearancesResult holds the appearances a renderer would receive.
type DumpAppearancesResult struct {
	Path        string                     `json:"path"`
	Printing    bool                       `json:"printing"`
	Appearances []AppearanceDump           `json:"appearances"`
	Problems    *pdferrors.ErrorCollection `json:"problems"`
}

// PDFValidateFileResult represents the result of a PDF validation operation
type PDFValidateFileResult struct {
	Valid   bool   `json:"valid"`
	Path    string `json:"path"`
	Pages   int    `json:"pages,omitempty"`
	Message string `json:"message,omitempty"`
}

// PDFServerInfoResult represents server information and usage guidance
type PDFServerInfoResult struct {
	ServerName        string     `json:"server_name"`
	Version           string     `json:"version"`
	DefaultDirectory  string     `json:"default_directory"`
	MaxFileSize       int64      `json:"max_file_size"`
	AvailableTools    []ToolInfo `json:"available_tools"`
	DirectoryContents []FileInfo `json:"directory_contents"`
	UsageGuidance     string     `json:"usage_guidance"`
}

// ToolInfo represents information about an available tool
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Usage       string `json:"usage"`
	Parameters  string `json:"parameters"`
}
