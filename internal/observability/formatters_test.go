package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-parser/internal/ingestion"
	"github.com/jonathan/resume-parser/internal/rendering"
	"github.com/jonathan/resume-parser/internal/types"
)

func TestPrintResumeRecord(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	record := &types.ResumeRecord{
		FullName:    types.String("Jane Doe"),
		Designation: types.String("Senior Engineer"),
		Email:       types.String("jane@example.com"),
		Skills:      types.String("Go, SQL, Docker, Kubernetes, Terraform, Rust, Python"),
		WorkExperience: types.List(types.Mapping(
			types.Entry{Key: "title", Value: types.String("Engineer")},
			types.Entry{Key: "company", Value: types.String("Acme")},
			types.Entry{Key: "details", Value: types.Strings("Built X")},
		)),
		Education: types.Strings("BS CS"),
	}

	p.PrintResumeRecord(record)
	output := buf.String()

	assert.Contains(t, output, "PARSED RESUME")
	assert.Contains(t, output, "Jane Doe")
	assert.Contains(t, output, "Senior Engineer")
	assert.Contains(t, output, "Skills (7)")
	assert.Contains(t, output, "... and 2 more")
	assert.Contains(t, output, "Engineer at Acme")
	assert.NotContains(t, output, "Built X")
	assert.Contains(t, output, "BS CS")
	assert.NotContains(t, output, "Phone:")
}

func TestPrintResumeRecord_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintResumeRecord(nil)

	assert.Empty(t, buf.String())
}

func TestPrintDocument(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintDocument(ingestion.NewMetadata("Jane Doe\nGo engineer", "resume.pdf"))
	output := buf.String()

	assert.Contains(t, output, "EXTRACTED DOCUMENT")
	assert.Contains(t, output, "resume.pdf")
	assert.Contains(t, output, "4 words")
}

func TestPrintFaceImages(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintFaceImages([]string{"static/face_images/a_face1.png"})

	assert.Contains(t, buf.String(), "Saved 1 face image(s)")
	assert.Contains(t, buf.String(), "a_face1.png")
}

func TestPrintFaceImages_None(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintFaceImages(nil)

	assert.Contains(t, buf.String(), "NO FACE DETECTED")
}

func TestPrintRendered(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRendered("out/resume.docx", rendering.DOCX)

	assert.Contains(t, buf.String(), "docx")
	assert.Contains(t, buf.String(), "out/resume.docx")
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("é", 200))

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), boxWidth)
	}
	assert.Contains(t, buf.String(), "...")
}
