package ingestion

import (
	"regexp"
	"strings"
)

var (
	innerSpace  = regexp.MustCompile(`\s+`)
	blankLines  = regexp.MustCompile(`\n\n\n+`)
	bulletMarks = []string{"- ", "* ", "• ", "· "}
)

// CleanText normalizes extracted resume text before it is embedded in a prompt.
// Line structure is preserved; runs of spaces collapse and blank lines are
// limited to one empty line between blocks.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.ReplaceAll(content, "\u00a0", " ")

	lines := strings.Split(content, "\n")
	cleanedLines := make([]string, 0, len(lines))
	for _, line := range lines {
		cleanedLines = append(cleanedLines, cleanLine(line))
	}

	result := strings.Join(cleanedLines, "\n")
	result = blankLines.ReplaceAllString(result, "\n\n")

	return strings.TrimSpace(result)
}

// cleanLine cleans a single line while preserving indentation and bullets
func cleanLine(line string) string {
	line = strings.TrimRight(line, " \t")
	if strings.TrimSpace(line) == "" {
		return ""
	}

	trimmed := strings.TrimLeft(line, " \t")
	indent := len(line) - len(trimmed)

	if isBulletLine(trimmed) {
		return strings.Repeat(" ", indent) + trimmed
	}

	content := innerSpace.ReplaceAllString(trimmed, " ")
	return strings.Repeat(" ", indent) + content
}

// isBulletLine checks if a line is a bullet list item
func isBulletLine(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	for _, mark := range bulletMarks {
		if strings.HasPrefix(trimmed, mark) {
			return true
		}
	}
	return false
}

// Ingest extracts and cleans a document, returning the prompt-ready text and
// its metadata.
func Ingest(path string) (string, *Metadata, error) {
	raw, err := ExtractText(path)
	if err != nil {
		return "", nil, err
	}

	cleaned := CleanText(raw)
	return cleaned, NewMetadata(cleaned, path), nil
}
