package rendering

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/resume-parser/internal/types"
)

// Format is an output document format.
type Format string

// Supported output formats.
const (
	TXT  Format = "txt"
	DOCX Format = "docx"
)

// ParseFormat parses a format name such as "docx" or ".DOCX". Anything that
// is not DOCX renders as plain text.
func ParseFormat(name string) Format {
	if strings.EqualFold(strings.TrimPrefix(name, "."), string(DOCX)) {
		return DOCX
	}
	return TXT
}

// FormatFromPath selects the output format from a file extension.
func FormatFromPath(path string) Format {
	return ParseFormat(filepath.Ext(path))
}

// ContentType returns the MIME type of documents in format f.
func (f Format) ContentType() string {
	if f == DOCX {
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	return "text/plain; charset=utf-8"
}

// RenderOptions configures a render.
type RenderOptions struct {
	// Output is the destination file; its extension selects the format.
	Output string
	// TextTemplate is the plain-text template path.
	TextTemplate string
	// DocxTemplate is the DOCX template path.
	DocxTemplate string
	// Logo is an optional image stamped into DOCX headers and footers.
	Logo string
}

// Render writes record in format f to w.
func Render(w io.Writer, record *types.ResumeRecord, f Format, opts RenderOptions) error {
	if f == DOCX {
		return FormatDOCX(record, opts.DocxTemplate, opts.Logo, w)
	}

	text, err := FormatText(record, opts.TextTemplate)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, text); err != nil {
		return &RenderError{Message: "failed to write text output", Cause: err}
	}
	return nil
}

// RenderFile renders record to opts.Output. The output file is only created
// once rendering has succeeded.
func RenderFile(record *types.ResumeRecord, opts RenderOptions) error {
	if opts.Output == "" {
		return &RenderError{Message: "output path is required"}
	}

	var buf bytes.Buffer
	if err := Render(&buf, record, FormatFromPath(opts.Output), opts); err != nil {
		return err
	}

	if dir := filepath.Dir(opts.Output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &RenderError{Message: fmt.Sprintf("failed to create output directory %s", dir), Cause: err}
		}
	}
	if err := os.WriteFile(opts.Output, buf.Bytes(), 0o644); err != nil {
		return &RenderError{Message: "failed to write " + opts.Output, Cause: err}
	}
	return nil
}
