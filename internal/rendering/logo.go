package rendering

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF logos
	_ "image/jpeg" // register JPEG logos
	_ "image/png"  // register PNG logos
	"io/fs"
	"os"
	"regexp"
	"strings"
)

// LogoWidthEMU is the rendered logo width: one inch in English Metric Units.
const LogoWidthEMU = 914400

const (
	relTypeHeader = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/header"
	relTypeFooter = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer"
	relTypeImage  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"

	documentPart     = "word/document.xml"
	contentTypesPart = "[Content_Types].xml"
	wordNamespaces   = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" ` +
		`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"`
)

// logo is a decoded logo image ready to embed.
type logo struct {
	data        []byte
	ext         string
	contentType string
	width       int64
	height      int64
}

// loadLogo reads the logo at path. An empty path or a missing file yields nil
// without error; a file that is not a PNG, JPEG or GIF image is an error.
func loadLogo(path string) (*logo, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &RenderError{Message: "failed to read logo " + path, Cause: err}
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, &RenderError{Message: "unsupported logo image " + path, Cause: err}
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, &RenderError{Message: "logo image has no size: " + path}
	}

	return &logo{
		data:        data,
		ext:         format,
		contentType: "image/" + format,
		width:       LogoWidthEMU,
		height:      int64(LogoWidthEMU) * int64(cfg.Height) / int64(cfg.Width),
	}, nil
}

// hdrFtr describes the two part kinds a logo is stamped into.
type hdrFtr struct {
	reference   string // sectPr child element
	root        string // part root element
	prefix      string // part file name prefix
	relType     string
	contentType string
	docPrID     int
}

var logoParts = []hdrFtr{
	{
		reference:   "w:headerReference",
		root:        "w:hdr",
		prefix:      "header",
		relType:     relTypeHeader,
		contentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml",
		docPrID:     9001,
	},
	{
		reference:   "w:footerReference",
		root:        "w:ftr",
		prefix:      "footer",
		relType:     relTypeFooter,
		contentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml",
		docPrID:     9002,
	},
}

// stampLogo adds the logo, right-aligned, to the default header and footer of
// the body section, creating either part when the template lacks it.
func stampLogo(pkg *docxPackage, l *logo) error {
	if !pkg.has(documentPart) || !pkg.has(contentTypesPart) {
		return &RenderError{Message: "DOCX template has no main document part"}
	}

	media := uniqueMediaName(pkg, l.ext)
	pkg.set(media, l.data)
	ensureDefaultContentType(pkg, l.ext, l.contentType)

	for _, kind := range logoParts {
		part, err := ensureDefaultPart(pkg, kind)
		if err != nil {
			return err
		}

		partRels, _ := pkg.text(relsPath(part))
		partRels, imageID := addRelationship(partRels, "rIdResumeLogo", relTypeImage, relativeTarget(part, media))
		pkg.setText(relsPath(part), partRels)

		content, _ := pkg.text(part)
		content = insertBefore(content, "</"+kind.root+">", logoParagraph(l, imageID, kind.docPrID))
		pkg.setText(part, content)
	}
	return nil
}

func uniqueMediaName(pkg *docxPackage, ext string) string {
	name := "word/media/resume_logo." + ext
	for n := 2; pkg.has(name); n++ {
		name = fmt.Sprintf("word/media/resume_logo%d.%s", n, ext)
	}
	return name
}

// relativeTarget expresses target relative to the folder of source when it
// lives below it, and as a package-absolute name otherwise.
func relativeTarget(source, target string) string {
	dir := source[:strings.LastIndex(source, "/")+1]
	if dir != "" && strings.HasPrefix(target, dir) {
		return strings.TrimPrefix(target, dir)
	}
	return "/" + target
}

var defaultExtension = regexp.MustCompile(`(?i)<Default\b[^>]*Extension="([^"]*)"`)

func ensureDefaultContentType(pkg *docxPackage, ext, contentType string) {
	types, _ := pkg.text(contentTypesPart)
	for _, m := range defaultExtension.FindAllStringSubmatch(types, -1) {
		if strings.EqualFold(m[1], ext) {
			return
		}
	}
	entry := fmt.Sprintf(`<Default Extension="%s" ContentType="%s"/>`, ext, contentType)
	pkg.setText(contentTypesPart, insertBefore(types, "</Types>", entry))
}

var sectPrOpen = regexp.MustCompile(`<w:sectPr\b[^>]*?(/?)>`)

// ensureDefaultPart returns the default header or footer part of the body
// section, creating and referencing a new part when none exists.
func ensureDefaultPart(pkg *docxPackage, kind hdrFtr) (string, error) {
	doc, _ := pkg.text(documentPart)
	docRels, _ := pkg.text(relsPath(documentPart))

	if id := defaultReference(doc, kind.reference); id != "" {
		if target, ok := relationshipTarget(docRels, id); ok {
			part := resolveTarget(documentPart, target)
			if !pkg.has(part) {
				pkg.setText(part, emptyPart(kind.root))
				addOverride(pkg, part, kind.contentType)
			}
			return part, nil
		}
	}

	part := fmt.Sprintf("word/%s1.xml", kind.prefix)
	for n := 2; pkg.has(part); n++ {
		part = fmt.Sprintf("word/%s%d.xml", kind.prefix, n)
	}
	pkg.setText(part, emptyPart(kind.root))
	addOverride(pkg, part, kind.contentType)

	docRels, id := addRelationship(docRels, "rIdResume"+strings.ToUpper(kind.prefix[:1])+kind.prefix[1:], kind.relType, relativeTarget(documentPart, part))
	pkg.setText(relsPath(documentPart), docRels)

	ref := fmt.Sprintf(`<%s w:type="default" r:id="%s"/>`, kind.reference, id)
	updated, err := addSectionReference(doc, ref)
	if err != nil {
		return "", err
	}
	pkg.setText(documentPart, updated)
	return part, nil
}

// bodySection returns the range of the body-level sectPr start tag, which is
// the last sectPr in the document.
func bodySection(doc string) []int {
	all := sectPrOpen.FindAllStringSubmatchIndex(doc, -1)
	if len(all) == 0 {
		return nil
	}
	return all[len(all)-1]
}

var referencePattern = regexp.MustCompile(`<w:(?:header|footer)Reference\b[^>]*>`)

// defaultReference returns the r:id of the default reference of the given
// element in the body section, or "".
func defaultReference(doc, element string) string {
	loc := bodySection(doc)
	if loc == nil || loc[3] > loc[2] {
		return ""
	}
	section := doc[loc[1]:]
	if end := strings.Index(section, "</w:sectPr>"); end >= 0 {
		section = section[:end]
	}

	for _, tag := range referencePattern.FindAllString(section, -1) {
		if !strings.HasPrefix(tag, "<"+element) {
			continue
		}
		a := attrs(tag)
		if a["w:type"] == "default" {
			return a["r:id"]
		}
	}
	return ""
}

// addSectionReference adds ref as the first child of the body sectPr,
// creating the sectPr when the document has none.
func addSectionReference(doc, ref string) (string, error) {
	loc := bodySection(doc)
	switch {
	case loc == nil:
		if !strings.Contains(doc, "</w:body>") {
			return "", &RenderError{Message: "DOCX document has no body"}
		}
		return insertBefore(doc, "</w:body>", "<w:sectPr>"+ref+"</w:sectPr>"), nil
	case loc[3] > loc[2]:
		// self-closing <w:sectPr/>
		open := strings.TrimSuffix(strings.TrimSpace(strings.TrimSuffix(doc[loc[0]:loc[1]], ">")), "/") + ">"
		return doc[:loc[0]] + open + ref + "</w:sectPr>" + doc[loc[1]:], nil
	default:
		return doc[:loc[1]] + ref + doc[loc[1]:], nil
	}
}

func addOverride(pkg *docxPackage, part, contentType string) {
	types, _ := pkg.text(contentTypesPart)
	if strings.Contains(types, `PartName="/`+part+`"`) {
		return
	}
	entry := fmt.Sprintf(`<Override PartName="/%s" ContentType="%s"/>`, part, contentType)
	pkg.setText(contentTypesPart, insertBefore(types, "</Types>", entry))
}

func emptyPart(root string) string {
	return xmlDeclaration + "<" + root + " " + wordNamespaces + "></" + root + ">"
}

const logoDrawing = `<w:p><w:pPr><w:jc w:val="right"/></w:pPr><w:r><w:drawing>` +
	`<wp:inline distT="0" distB="0" distL="0" distR="0" xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing">` +
	`<wp:extent cx="%[1]d" cy="%[2]d"/><wp:docPr id="%[3]d" name="Logo %[3]d"/>` +
	`<wp:cNvGraphicFramePr><a:graphicFrameLocks xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" noChangeAspect="1"/></wp:cNvGraphicFramePr>` +
	`<a:graphic xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">` +
	`<a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">` +
	`<pic:pic xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">` +
	`<pic:nvPicPr><pic:cNvPr id="0" name="resume_logo"/><pic:cNvPicPr/></pic:nvPicPr>` +
	`<pic:blipFill><a:blip xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" r:embed="%[4]s"/>` +
	`<a:stretch><a:fillRect/></a:stretch></pic:blipFill>` +
	`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%[1]d" cy="%[2]d"/></a:xfrm>` +
	`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>` +
	`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing></w:r></w:p>`

func logoParagraph(l *logo, imageID string, docPrID int) string {
	return fmt.Sprintf(logoDrawing, l.width, l.height, docPrID, imageID)
}
