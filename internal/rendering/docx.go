package rendering

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/nguyenthenguyen/docx"

	"github.com/jonathan/resume-parser/internal/types"
)

// FormatDOCX renders record into the DOCX template at templatePath and writes
// the resulting document to w. Placeholders are replaced in the body, headers
// and footers. When logoPath names an existing image it is added, right-aligned
// and one inch wide, to the default header and footer; a missing logo is
// skipped. The template file itself is never modified.
func FormatDOCX(record *types.ResumeRecord, templatePath, logoPath string, w io.Writer) error {
	if _, err := os.Stat(templatePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &TemplateNotFoundError{Path: templatePath}
		}
		return &TemplateError{Message: "failed to stat template " + templatePath, Cause: err}
	}

	l, err := loadLogo(logoPath)
	if err != nil {
		return err
	}

	tmpl, err := docx.ReadDocxFile(templatePath)
	if err != nil {
		return &TemplateError{Message: "failed to open DOCX template " + templatePath, Cause: err}
	}
	defer func() { _ = tmpl.Close() }()

	repl := newReplacer(BuildReplacements(record))

	doc := tmpl.Editable()
	doc.SetContent(substituteXML(doc.GetContent(), repl))

	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		return &RenderError{Message: "failed to write DOCX document", Cause: err}
	}

	pkg, err := readPackage(buf.Bytes())
	if err != nil {
		return &RenderError{Message: "failed to reopen DOCX document", Cause: err}
	}
	pkg.substituteHeadersFooters(repl)
	if l != nil {
		if err := stampLogo(pkg, l); err != nil {
			return err
		}
	}

	out, err := pkg.bytes()
	if err != nil {
		return &RenderError{Message: "failed to package DOCX document", Cause: err}
	}
	if _, err := w.Write(out); err != nil {
		return &RenderError{Message: "failed to write DOCX output", Cause: err}
	}
	return nil
}
