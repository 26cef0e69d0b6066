// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-parser/internal/ingestion"
	"github.com/jonathan/resume-parser/internal/rendering"
	"github.com/jonathan/resume-parser/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintDocument outputs statistics of the extracted document text.
func (p *Printer) PrintDocument(meta *ingestion.Metadata) {
	if meta == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Source:  %s\n", meta.Source))
	sb.WriteString(fmt.Sprintf("Format:  %s\n", meta.Format))
	sb.WriteString(fmt.Sprintf("Size:    %d chars, %d words, %d lines\n", meta.Chars, meta.Words, meta.Lines))
	sb.WriteString(fmt.Sprintf("SHA-256: %s", truncate(meta.Hash, 20)))

	p.printBox("EXTRACTED DOCUMENT", sb.String())
}

// PrintResumeRecord outputs a human-readable summary of a parsed resume.
func (p *Printer) PrintResumeRecord(record *types.ResumeRecord) {
	if record == nil {
		return
	}

	var sb strings.Builder
	field := func(label string, v types.Value) {
		if text := v.Text(); text != "" {
			sb.WriteString(fmt.Sprintf("%-10s%s\n", label+":", text))
		}
	}
	field("Name", record.FullName)
	field("Title", record.Designation)
	field("Email", record.Email)
	field("Phone", record.Phone)
	field("LinkedIn", record.LinkedIn)
	field("GitHub", record.GitHub)

	skills := rendering.NormalizeSkills(record.Skills)
	if len(skills) > 0 {
		sb.WriteString(fmt.Sprintf("\nSkills (%d):\n", len(skills)))
		count := min(len(skills), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", skills[i]))
		}
		if len(skills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(skills)-maxItemsToShow))
		}
	}

	sections := []struct {
		label string
		text  string
	}{
		{"Experience", rendering.NormalizeWorkExperience(record.WorkExperience)},
		{"Education", rendering.NormalizeEducation(record.Education)},
		{"Projects", rendering.NormalizeProjects(record.Projects)},
		{"Certifications", rendering.NormalizeCertifications(record.Certifications)},
		{"Awards", rendering.NormalizeAwards(record.Awards)},
	}
	for _, s := range sections {
		if s.text == "" {
			continue
		}
		lines := headLines(s.text)
		sb.WriteString(fmt.Sprintf("\n%s:\n", s.label))
		count := min(len(lines), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", lines[i]))
		}
		if len(lines) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(lines)-maxItemsToShow))
		}
	}

	p.printBox("PARSED RESUME", strings.TrimSuffix(sb.String(), "\n"))
}

// headLines returns the unindented lines of a normalized section, which are
// the entry headers.
func headLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line == "" || strings.HasPrefix(line, " ") {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// PrintFaceImages outputs the face crops written for a resume.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintFaceImages(paths []string) {
	if len(paths) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "NO FACE DETECTED")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Saved %d face image(s):\n", len(paths)))
	for _, path := range paths {
		sb.WriteString(fmt.Sprintf("  • %s\n", path))
	}
	p.printBox("FACE IMAGES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRendered outputs where a rendered document was written.
func (p *Printer) PrintRendered(output string, format rendering.Format) {
	p.printBox("RENDERED RESUME", fmt.Sprintf("Format:  %s\nOutput:  %s", format, output))
}
