package ingestion

import "fmt"

// UnsupportedFormatError is returned for documents that are neither PDF nor DOCX.
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Ext == "" {
		return "unsupported file format: file has no extension (expected .pdf or .docx)"
	}
	return fmt.Sprintf("unsupported file format %q (expected .pdf or .docx)", e.Ext)
}

// ExtractionError wraps failures reading a supported document.
type ExtractionError struct {
	Path    string
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Message, e.Path, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Message, e.Path)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
