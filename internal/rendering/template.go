package rendering

import (
	"fmt"
	"io"
	"strings"
)

// defaultSections is the section layout of the starter DOCX template.
var defaultSections = []struct {
	heading     string
	placeholder string
}{
	{"Summary", PlaceholderSummary},
	{"Skills", PlaceholderPrimarySkills},
	{"Work Experience", PlaceholderWorkExperience},
	{"Projects", PlaceholderProjects},
	{"Education", PlaceholderEducation},
	{"Certifications", PlaceholderCertifications},
	{"Awards", PlaceholderAwards},
}

const (
	runFont     = `<w:rFonts w:ascii="Arial" w:hAnsi="Arial" w:eastAsia="Arial" w:cs="Arial"/>`
	bodySize    = 22 // half-points
	headingSize = 32
	titleSize   = 48
)

func templateParagraph(text string, bold bool, size int) string {
	var rPr strings.Builder
	rPr.WriteString(runFont)
	if bold {
		rPr.WriteString("<w:b/>")
	}
	fmt.Fprintf(&rPr, `<w:sz w:val="%d"/>`, size)
	return fmt.Sprintf(`<w:p><w:r><w:rPr>%s</w:rPr><w:t xml:space="preserve">%s</w:t></w:r></w:p>`,
		rPr.String(), EscapeXML(text))
}

// WriteDefaultDOCXTemplate writes a starter DOCX template that uses every
// placeholder, in Arial with bold section headings. It has no header or
// footer; FormatDOCX creates them when a logo is stamped.
func WriteDefaultDOCXTemplate(w io.Writer) error {
	var body strings.Builder
	body.WriteString(templateParagraph(PlaceholderName, true, titleSize))
	body.WriteString(templateParagraph(PlaceholderDesignation, false, bodySize))
	body.WriteString(templateParagraph("Email: "+PlaceholderEmail, true, bodySize))
	body.WriteString(templateParagraph("Phone: "+PlaceholderPhone, true, bodySize))
	body.WriteString(templateParagraph("LinkedIn: "+PlaceholderLinkedIn, false, bodySize))
	body.WriteString(templateParagraph("GitHub: "+PlaceholderGitHub, false, bodySize))
	for _, s := range defaultSections {
		body.WriteString(templateParagraph(s.heading+":", true, headingSize))
		body.WriteString(templateParagraph(s.placeholder, false, bodySize))
	}

	pkg := &docxPackage{parts: map[string][]byte{}}
	pkg.setText(contentTypesPart, xmlDeclaration+
		`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`+
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`+
		`<Default Extension="xml" ContentType="application/xml"/>`+
		`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>`+
		`</Types>`)
	pkg.setText("_rels/.rels", xmlDeclaration+
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`+
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>`+
		`</Relationships>`)
	pkg.setText(documentPart, xmlDeclaration+
		`<w:document `+wordNamespaces+`><w:body>`+body.String()+
		`<w:sectPr><w:pgSz w:w="12240" w:h="15840"/>`+
		`<w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="720" w:footer="720" w:gutter="0"/>`+
		`</w:sectPr></w:body></w:document>`)
	pkg.setText(relsPath(documentPart), xmlDeclaration+
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`)

	out, err := pkg.bytes()
	if err != nil {
		return &RenderError{Message: "failed to build DOCX template", Cause: err}
	}
	if _, err := w.Write(out); err != nil {
		return &RenderError{Message: "failed to write DOCX template", Cause: err}
	}
	return nil
}
