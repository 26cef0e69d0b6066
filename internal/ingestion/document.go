// Package ingestion turns resume documents into plain text for the extraction prompt.
package ingestion

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
	"github.com/ledongthuc/pdf"
)

// Supported document extensions.
const (
	ExtPDF  = ".pdf"
	ExtDOCX = ".docx"
)

// Ext returns the lower-cased extension of name.
func Ext(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

// IsSupported reports whether name has an extension ExtractText accepts.
func IsSupported(name string) bool {
	switch Ext(name) {
	case ExtPDF, ExtDOCX:
		return true
	default:
		return false
	}
}

// ExtractText returns the plain text of a PDF or DOCX document. PDF pages are
// joined with a single newline and pages without extractable text are skipped.
// Any other extension yields *UnsupportedFormatError.
func ExtractText(path string) (string, error) {
	switch ext := Ext(path); ext {
	case ExtPDF:
		return extractPDF(path)
	case ExtDOCX:
		return extractDOCX(path)
	default:
		return "", &UnsupportedFormatError{Ext: ext}
	}
}

func extractPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", &ExtractionError{Path: path, Message: "failed to open PDF", Cause: err}
	}
	defer func() { _ = f.Close() }()

	fonts := make(map[string]*pdf.Font)
	var pages []string

	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}

		for _, name := range p.Fonts() {
			if _, ok := fonts[name]; !ok {
				font := p.Font(name)
				fonts[name] = &font
			}
		}

		text, err := p.GetPlainText(fonts)
		if err != nil {
			return "", &ExtractionError{Path: path, Message: fmt.Sprintf("failed to read PDF page %d", i), Cause: err}
		}
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			pages = append(pages, trimmed)
		}
	}

	return strings.Join(pages, "\n"), nil
}

func extractDOCX(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", &ExtractionError{Path: path, Message: "failed to open DOCX", Cause: err}
	}
	defer func() { _ = f.Close() }()

	text, _, err := docconv.ConvertDocx(f)
	if err != nil {
		return "", &ExtractionError{Path: path, Message: "failed to read DOCX", Cause: err}
	}

	return strings.TrimSpace(text), nil
}
