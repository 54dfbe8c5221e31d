package errors

import (
	"fmt"
	"time"
)

// PDFError is a categorized problem found while reading annotations or
// synthesizing their appearances.
type PDFError struct {
	Type        ErrorType `json:"type"`
	Message     string    `json:"message"`
	Context     string    `json:"context,omitempty"`
	ObjectNum   int       `json:"object_num,omitempty"`
	GenNum      int       `json:"generation_num,omitempty"`
	Recoverable bool      `json:"recoverable"`
	Timestamp   time.Time `json:"timestamp"`
	FilePath    string    `json:"file_path,omitempty"`
	PageNumber  int       `json:"page_number,omitempty"`

	err error
}

// ErrorType represents different categories of PDF errors
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeCorruptedData
	ErrorTypeMissingObject
	ErrorTypeCircularReference
	ErrorTypeInvalidEncoding
	ErrorTypeSecurityRestriction
	ErrorTypeInvalidFont
	ErrorTypeInvalidForm
	ErrorTypeMalformedPage
	ErrorTypeInvalidAnnotation
	ErrorTypeResourceNotFound
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity int

const (
	SeverityInfo ErrorSeverity = iota
	SeverityWarning
	SeverityError
	SeverityCritical
)

// Error implements the error interface
func (e *PDFError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Type, e.Message)
	if e.ObjectNum > 0 {
		msg += fmt.Sprintf(" (object %d %d R)", e.ObjectNum, e.GenNum)
	}
	if e.Context != "" {
		msg += ": " + e.Context
	}
	return msg
}

// Unwrap returns the wrapped error, if any.
func (e *PDFError) Unwrap() error {
	return e.err
}

// String returns a string representation of the ErrorType
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeCorruptedData:
		return "CORRUPTED_DATA"
	case ErrorTypeMissingObject:
		return "MISSING_OBJECT"
	case ErrorTypeCircularReference:
		return "CIRCULAR_REFERENCE"
	case ErrorTypeInvalidEncoding:
		return "INVALID_ENCODING"
	case ErrorTypeSecurityRestriction:
		return "SECURITY_RESTRICTION"
	case ErrorTypeInvalidFont:
		return "INVALID_FONT"
	case ErrorTypeInvalidForm:
		return "INVALID_FORM"
	case ErrorTypeMalformedPage:
		return "MALFORMED_PAGE"
	case ErrorTypeInvalidAnnotation:
		return "INVALID_ANNOTATION"
	case ErrorTypeResourceNotFound:
		return "RESOURCE_NOT_FOUND"
	default:
		return "UNKNOWN"
	}
}

// GetSeverity returns the severity level for a given error type
func (et ErrorType) GetSeverity() ErrorSeverity {
	switch et {
	case ErrorTypeCorruptedData:
		return SeverityCritical
	case ErrorTypeMissingObject, ErrorTypeCircularReference, ErrorTypeSecurityRestriction:
		return SeverityError
	case ErrorTypeInvalidEncoding, ErrorTypeInvalidFont, ErrorTypeInvalidForm:
		return SeverityWarning
	case ErrorTypeMalformedPage, ErrorTypeInvalidAnnotation, ErrorTypeResourceNotFound:
		return SeverityWarning
	default:
		return SeverityError
	}
}

// IsRecoverable reports whether processing can continue past the error. Only
// a document that cannot be read at all stops the pipeline.
func (et ErrorType) IsRecoverable() bool {
	switch et {
	case ErrorTypeCorruptedData, ErrorTypeSecurityRestriction, ErrorTypeUnknown:
		return false
	default:
		return true
	}
}

// NewPDFError creates a new PDFError
func NewPDFError(errorType ErrorType, message string) *PDFError {
	return &PDFError{
		Type:        errorType,
		Message:     message,
		Recoverable: errorType.IsRecoverable(),
		Timestamp:   time.Now(),
	}
}

// NewPDFErrorWithContext creates a new PDFError with additional context
func NewPDFErrorWithContext(errorType ErrorType, message, context string) *PDFError {
	e := NewPDFError(errorType, message)
	e.Context = context
	return e
}

// WrapError wraps a standard error as a PDFError. errors.Is and errors.As
// see through to err.
func WrapError(errorType ErrorType, err error) *PDFError {
	e := NewPDFError(errorType, err.Error())
	e.err = err
	return e
}

// WithContext adds context to an existing PDFError
func (e *PDFError) WithContext(context string) *PDFError {
	e.Context = context
	return e
}

// WithObject records the indirect object the error belongs to.
func (e *PDFError) WithObject(objNum, genNum int) *PDFError {
	e.ObjectNum = objNum
	e.GenNum = genNum
	return e
}

// WithFile adds file path information to an existing PDFError
func (e *PDFError) WithFile(filePath string) *PDFError {
	e.FilePath = filePath
	return e
}

// WithPage adds page number information to an existing PDFError
func (e *PDFError) WithPage(pageNumber int) *PDFError {
	e.PageNumber = pageNumber
	return e
}

// GetSeverity returns the severity of this specific error
func (e *PDFError) GetSeverity() ErrorSeverity {
	return e.Type.GetSeverity()
}

// IsCritical returns true if this error is critical
func (e *PDFError) IsCritical() bool {
	return e.GetSeverity() == SeverityCritical
}

// ErrorCollection gathers the problems of one document.
type ErrorCollection struct {
	Errors   []*PDFError `json:"errors"`
	Warnings []*PDFError `json:"warnings"`
	FilePath string      `json:"file_path,omitempty"`
}

// NewErrorCollection creates a new error collection
func NewErrorCollection(filePath string) *ErrorCollection {
	return &ErrorCollection{
		Errors:   make([]*PDFError, 0),
		Warnings: make([]*PDFError, 0),
		FilePath: filePath,
	}
}

// Add adds an error to the appropriate list based on severity
func (ec *ErrorCollection) Add(err *PDFError) {
	if err.FilePath == "" && ec.FilePath != "" {
		err.FilePath = ec.FilePath
	}

	severity := err.GetSeverity()
	if severity == SeverityWarning || severity == SeverityInfo {
		ec.Warnings = append(ec.Warnings, err)
	} else {
		ec.Errors = append(ec.Errors, err)
	}
}

// HasCriticalErrors returns true if any critical errors exist
func (ec *ErrorCollection) HasCriticalErrors() bool {
	for _, err := range ec.Errors {
		if err.IsCritical() {
			return true
		}
	}
	return false
}

// Count returns the total number of errors and warnings
func (ec *ErrorCollection) Count() (errors, warnings int) {
	return len(ec.Errors), len(ec.Warnings)
}

// Summary returns a text summary of all errors and warnings
func (ec *ErrorCollection) Summary() string {
	errorCount, warningCount := ec.Count()
	if errorCount == 0 && warningCount == 0 {
		return "No errors or warnings"
	}

	summary := fmt.Sprintf("Found %d error(s) and %d warning(s)", errorCount, warningCount)
	if ec.HasCriticalErrors() {
		summary += " (including critical errors)"
	}
	return summary
}
