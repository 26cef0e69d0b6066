package rendering

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
)

// docxPackage is an in-memory DOCX (OPC zip) package that keeps entry order.
type docxPackage struct {
	names []string
	parts map[string][]byte
}

func readPackage(data []byte) (*docxPackage, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open DOCX package: %w", err)
	}

	pkg := &docxPackage{parts: make(map[string][]byte, len(zr.File))}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f.Name, err)
		}
		pkg.set(f.Name, content)
	}
	return pkg, nil
}

func (p *docxPackage) has(name string) bool {
	_, ok := p.parts[name]
	return ok
}

func (p *docxPackage) text(name string) (string, bool) {
	content, ok := p.parts[name]
	return string(content), ok
}

func (p *docxPackage) set(name string, content []byte) {
	if _, ok := p.parts[name]; !ok {
		p.names = append(p.names, name)
	}
	p.parts[name] = content
}

func (p *docxPackage) setText(name, content string) {
	p.set(name, []byte(content))
}

func (p *docxPackage) bytes() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range p.names {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
		if err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", name, err)
		}
		if _, err := w.Write(p.parts[name]); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish DOCX package: %w", err)
	}
	return buf.Bytes(), nil
}

var headerFooterPart = regexp.MustCompile(`^word/(header|footer)\d*\.xml$`)

// substituteHeadersFooters applies placeholder substitution to every header
// and footer part.
func (p *docxPackage) substituteHeadersFooters(r *strings.Replacer) {
	for _, name := range p.names {
		if !headerFooterPart.MatchString(name) {
			continue
		}
		content, _ := p.text(name)
		p.setText(name, substituteXML(content, r))
	}
}

// relsPath returns the relationships part that belongs to part.
func relsPath(part string) string {
	return path.Join(path.Dir(part), "_rels", path.Base(part)+".rels")
}

// resolveTarget resolves a relationship target relative to its source part.
func resolveTarget(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join(path.Dir(source), target)
}

var (
	relationshipPattern = regexp.MustCompile(`<Relationship\b[^>]*>`)
	attrPattern         = regexp.MustCompile(`([\w:]+)="([^"]*)"`)
)

// attrs parses the attributes of a single start tag.
func attrs(tag string) map[string]string {
	out := map[string]string{}
	for _, m := range attrPattern.FindAllStringSubmatch(tag, -1) {
		out[m[1]] = m[2]
	}
	return out
}

// relationshipTarget returns the Target of the relationship with the given Id.
func relationshipTarget(rels, id string) (string, bool) {
	for _, tag := range relationshipPattern.FindAllString(rels, -1) {
		a := attrs(tag)
		if a["Id"] == id {
			return a["Target"], true
		}
	}
	return "", false
}

// addRelationship appends a relationship with a fresh Id based on prefix and
// returns the updated part and the Id used.
func addRelationship(rels, prefix, relType, target string) (string, string) {
	if rels == "" {
		rels = xmlDeclaration + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`
	}
	id := uniqueID(rels, prefix)
	rel := fmt.Sprintf(`<Relationship Id="%s" Type="%s" Target="%s"/>`, id, relType, target)
	return insertBefore(rels, "</Relationships>", rel), id
}

// uniqueID returns prefix, or prefix with a numeric suffix, unused in content.
func uniqueID(content, prefix string) string {
	id := prefix
	for n := 2; strings.Contains(content, `"`+id+`"`); n++ {
		id = fmt.Sprintf("%s%d", prefix, n)
	}
	return id
}

// insertBefore inserts s before the last occurrence of marker, or appends it.
func insertBefore(content, marker, s string) string {
	idx := strings.LastIndex(content, marker)
	if idx < 0 {
		return content + s
	}
	return content[:idx] + s + content[idx:]
}

const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"
