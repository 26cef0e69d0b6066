// Package testutil builds small PDF, DOCX and image fixtures for tests.
package testutil

import (
	"archive/zip"
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WritePDF writes a minimal PDF with one page per entry of pages. Each page
// shows its text in Helvetica; an empty entry produces a page with an empty
// content stream.
func WritePDF(t testing.TB, path string, pages []string) {
	t.Helper()

	var buf bytes.Buffer
	var offsets []int
	writeObj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")

	// 1: catalog, 2: pages, 3: font, then page/content pairs.
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+i*2)
	}
	writeObj("<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))
	writeObj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	for i, text := range pages {
		contentRef := 5 + i*2
		writeObj(fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
			contentRef,
		))
		stream := ""
		if text != "" {
			stream = fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", escapePDFString(text))
		}
		writeObj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)

	writeFile(t, path, buf.Bytes())
}

func escapePDFString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}

// DOCXParts describes the parts of a generated DOCX package. Body, Header and
// Footer hold raw WordprocessingML paragraph markup (<w:p> elements).
type DOCXParts struct {
	Body   string
	Header string
	Footer string
}

// Paragraph returns a <w:p> with one run per text argument.
func Paragraph(runs ...string) string {
	var sb strings.Builder
	sb.WriteString("<w:p>")
	for _, r := range runs {
		fmt.Fprintf(&sb, `<w:r><w:rPr><w:b/></w:rPr><w:t xml:space="preserve">%s</w:t></w:r>`, r)
	}
	sb.WriteString("</w:p>")
	return sb.String()
}

const (
	wordNS    = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"`
	relsNS    = `xmlns="http://schemas.openxmlformats.org/package/2006/relationships"`
	relBase   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/"
	typeMain  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	typeHdr   = "application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"
	typeFtr   = "application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"
	xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"
)

// WriteDOCX writes a minimal but well-formed DOCX package.
func WriteDOCX(t testing.TB, path string, parts DOCXParts) {
	t.Helper()

	overrides := []string{fmt.Sprintf(`<Override PartName="/word/document.xml" ContentType="%s"/>`, typeMain)}
	rels := []string{}
	var sectRefs string
	files := map[string]string{}

	if parts.Header != "" {
		overrides = append(overrides, fmt.Sprintf(`<Override PartName="/word/header1.xml" ContentType="%s"/>`, typeHdr))
		rels = append(rels, fmt.Sprintf(`<Relationship Id="rIdHeader1" Type="%sheader" Target="header1.xml"/>`, relBase))
		sectRefs += `<w:headerReference w:type="default" r:id="rIdHeader1"/>`
		files["word/header1.xml"] = xmlHeader + fmt.Sprintf(`<w:hdr %s>%s</w:hdr>`, wordNS, parts.Header)
	}
	if parts.Footer != "" {
		overrides = append(overrides, fmt.Sprintf(`<Override PartName="/word/footer1.xml" ContentType="%s"/>`, typeFtr))
		rels = append(rels, fmt.Sprintf(`<Relationship Id="rIdFooter1" Type="%sfooter" Target="footer1.xml"/>`, relBase))
		sectRefs += `<w:footerReference w:type="default" r:id="rIdFooter1"/>`
		files["word/footer1.xml"] = xmlHeader + fmt.Sprintf(`<w:ftr %s>%s</w:ftr>`, wordNS, parts.Footer)
	}

	files["[Content_Types].xml"] = xmlHeader +
		`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
		`<Default Extension="xml" ContentType="application/xml"/>` +
		strings.Join(overrides, "") + `</Types>`
	files["_rels/.rels"] = xmlHeader + fmt.Sprintf(
		`<Relationships %s><Relationship Id="rId1" Type="%sofficeDocument" Target="word/document.xml"/></Relationships>`,
		relsNS, relBase)
	files["word/_rels/document.xml.rels"] = xmlHeader + fmt.Sprintf(`<Relationships %s>%s</Relationships>`, relsNS, strings.Join(rels, ""))
	files["word/document.xml"] = xmlHeader + fmt.Sprintf(
		`<w:document %s><w:body>%s<w:sectPr>%s<w:pgSz w:w="12240" w:h="15840"/></w:sectPr></w:body></w:document>`,
		wordNS, parts.Body, sectRefs)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	// [Content_Types].xml first, as Word writes it
	order := []string{"[Content_Types].xml", "_rels/.rels", "word/document.xml", "word/_rels/document.xml.rels", "word/header1.xml", "word/footer1.xml"}
	for _, name := range order {
		content, ok := files[name]
		if !ok {
			continue
		}
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close docx: %v", err)
	}

	writeFile(t, path, buf.Bytes())
}

// ReadZipEntry returns the content of one entry of a zip archive.
func ReadZipEntry(t testing.TB, data []byte, name string) (string, bool) {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		defer func() { _ = rc.Close() }()
		var out bytes.Buffer
		if _, err := out.ReadFrom(rc); err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		return out.String(), true
	}
	return "", false
}

// WritePNG writes a solid-colour PNG of the given size.
func WritePNG(t testing.TB, path string, width, height int) {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	writeFile(t, path, buf.Bytes())
}

func writeFile(t testing.TB, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
