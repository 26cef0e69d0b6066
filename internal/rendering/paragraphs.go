package rendering

import (
	"html"
	"regexp"
	"strings"
)

// textRunPattern matches a WordprocessingML text node: open tag, text, close tag.
// `<w:tab/>`, `<w:tbl>` and self-closing text nodes, with or without
// attributes, do not match: the open tag must not end in "/>".
var textRunPattern = regexp.MustCompile(`(?s)(<w:t(?:\s(?:[^>]*[^/>])?)?>)(.*?)(</w:t>)`)

const (
	paragraphClose = "</w:p>"
	lineBreak      = `</w:t><w:br/><w:t xml:space="preserve">`
)

type span struct {
	start, end int
}

// substituteXML replaces placeholders in every text node of a WordprocessingML
// part. Paragraphs are handled as a unit so a token that Word split across
// several runs is still found; everything outside text nodes is copied as is.
func substituteXML(xml string, r *strings.Replacer) string {
	var b strings.Builder
	b.Grow(len(xml))

	last := 0
	for _, p := range leafParagraphs(xml) {
		b.WriteString(substituteRuns(xml[last:p.start], r))
		b.WriteString(substituteParagraph(xml[p.start:p.end], r))
		last = p.end
	}
	b.WriteString(substituteRuns(xml[last:], r))
	return b.String()
}

// leafParagraphs returns the ranges of paragraphs that contain no nested
// paragraph (text boxes nest paragraphs inside paragraphs). Ranges are
// ordered and never overlap.
func leafParagraphs(xml string) []span {
	var (
		spans    []span
		starts   []int
		hasChild []bool
	)

	for i := 0; i < len(xml); {
		j := strings.IndexByte(xml[i:], '<')
		if j < 0 {
			break
		}
		i += j

		if strings.HasPrefix(xml[i:], paragraphClose) {
			end := i + len(paragraphClose)
			if n := len(starts); n > 0 {
				if !hasChild[n-1] {
					spans = append(spans, span{start: starts[n-1], end: end})
				}
				starts, hasChild = starts[:n-1], hasChild[:n-1]
			}
			i = end
			continue
		}

		if isParagraphOpen(xml[i:]) {
			gt := strings.IndexByte(xml[i:], '>')
			if gt < 0 {
				break
			}
			if xml[i+gt-1] != '/' {
				if n := len(hasChild); n > 0 {
					hasChild[n-1] = true
				}
				starts = append(starts, i)
				hasChild = append(hasChild, false)
			}
			i += gt + 1
			continue
		}
		i++
	}
	return spans
}

// isParagraphOpen reports whether s starts with a <w:p> tag, as opposed to
// <w:pPr>, <w:pStyle> and friends.
func isParagraphOpen(s string) bool {
	if len(s) < 5 || !strings.HasPrefix(s, "<w:p") {
		return false
	}
	switch s[4] {
	case '>', '/', ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

// substituteParagraph substitutes run by run. When a placeholder only appears
// in the concatenated paragraph text, the substituted paragraph text goes into
// the first text run and the remaining runs are emptied.
func substituteParagraph(p string, r *strings.Replacer) string {
	locs := textRunPattern.FindAllStringSubmatchIndex(p, -1)
	if len(locs) == 0 {
		return p
	}

	var joined, perRun strings.Builder
	for _, loc := range locs {
		text := html.UnescapeString(p[loc[4]:loc[5]])
		joined.WriteString(text)
		perRun.WriteString(r.Replace(text))
	}

	merged := r.Replace(joined.String())
	if merged == perRun.String() {
		return substituteRuns(p, r)
	}

	var b strings.Builder
	last := 0
	for i, loc := range locs {
		b.WriteString(p[last:loc[0]])
		text := ""
		if i == 0 {
			text = merged
		}
		b.WriteString(writeRun(p[loc[2]:loc[3]], text))
		last = loc[1]
	}
	b.WriteString(p[last:])
	return b.String()
}

// substituteRuns substitutes inside each text node independently.
func substituteRuns(segment string, r *strings.Replacer) string {
	return textRunPattern.ReplaceAllStringFunc(segment, func(run string) string {
		m := textRunPattern.FindStringSubmatch(run)
		text := html.UnescapeString(m[2])
		out := r.Replace(text)
		if out == text {
			return run
		}
		return writeRun(m[1], out)
	})
}

// writeRun serializes text into a text node opened by tag. Newlines become
// <w:br/> line breaks within the same run.
func writeRun(tag, text string) string {
	if !strings.Contains(tag, "xml:space=") {
		tag = `<w:t xml:space="preserve"` + strings.TrimPrefix(tag, "<w:t")
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = EscapeXML(line)
	}
	return tag + strings.Join(lines, lineBreak) + "</w:t>"
}
