package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-parser/internal/ingestion"
	"github.com/jonathan/resume-parser/internal/parsing"
	"github.com/jonathan/resume-parser/internal/rendering"
	"github.com/jonathan/resume-parser/internal/testutil"
	"github.com/jonathan/resume-parser/internal/types"
)

type fakeParser struct {
	mu     sync.Mutex
	texts  []string
	record *types.ResumeRecord
	err    error
}

func (f *fakeParser) ParseResume(_ context.Context, text string) (*types.ResumeRecord, error) {
	f.mu.Lock()
	f.texts = append(f.texts, text)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	r := *f.record
	return &r, nil
}

type fakeFaces struct {
	mu    sync.Mutex
	calls []string
	paths []string
	err   error
}

func (f *fakeFaces) Extract(_ context.Context, pdfPath string) ([]string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, pdfPath)
	f.mu.Unlock()
	return f.paths, f.err
}

func newRecord() *types.ResumeRecord {
	return &types.ResumeRecord{
		FullName: types.String("Jane Doe"),
		Email:    types.String("jane@example.com"),
		Skills:   types.Strings("Go", "SQL"),
	}
}

func writePDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "resume.pdf")
	testutil.WritePDF(t, path, []string{"Jane Doe", "Go engineer"})
	return path
}

func TestParseResume_PDFMergesFaces(t *testing.T) {
	parser := &fakeParser{record: newRecord()}
	faces := &fakeFaces{paths: []string{"static/face_images/resume_face1.png"}}
	svc := NewService(parser, faces, Options{})
	path := writePDF(t)

	record, err := svc.ParseResume(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", record.FullName.Text())
	assert.Equal(t, []string{"static/face_images/resume_face1.png"}, record.FaceImages)
	assert.Equal(t, []string{path}, faces.calls)
	require.Len(t, parser.texts, 1)
	assert.Contains(t, parser.texts[0], "Jane Doe")
	assert.Contains(t, parser.texts[0], "Go engineer")
}

func TestParseResume_FaceFailureIsBestEffort(t *testing.T) {
	svc := NewService(&fakeParser{record: newRecord()}, &fakeFaces{err: errors.New("rasterizer crashed")}, Options{})

	record, err := svc.ParseResume(context.Background(), writePDF(t))
	require.NoError(t, err)
	assert.NotNil(t, record.FaceImages)
	assert.Empty(t, record.FaceImages)
}

func TestParseResume_NoFacesDetected(t *testing.T) {
	svc := NewService(&fakeParser{record: newRecord()}, &fakeFaces{paths: []string{}}, Options{})

	record, err := svc.ParseResume(context.Background(), writePDF(t))
	require.NoError(t, err)
	assert.Equal(t, []string{}, record.FaceImages)
}

func TestParseResume_DOCXSkipsFaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.docx")
	testutil.WriteDOCX(t, path, testutil.DOCXParts{Body: testutil.Paragraph("Jane Doe")})
	faces := &fakeFaces{paths: []string{"x.png"}}
	svc := NewService(&fakeParser{record: newRecord()}, faces, Options{})

	record, err := svc.ParseResume(context.Background(), path)
	require.NoError(t, err)

	assert.Empty(t, faces.calls)
	assert.Equal(t, []string{}, record.FaceImages)
}

func TestParseResume_ParserErrorFailsRequest(t *testing.T) {
	apiErr := &parsing.APICallError{Message: "model unavailable"}
	svc := NewService(&fakeParser{err: apiErr}, &fakeFaces{paths: []string{"x.png"}}, Options{})

	record, err := svc.ParseResume(context.Background(), writePDF(t))
	require.Error(t, err)
	assert.Nil(t, record)

	var target *parsing.APICallError
	assert.True(t, errors.As(err, &target))
}

func TestParseResume_ParserErrorRemovesCrops(t *testing.T) {
	dir := t.TempDir()
	crop := filepath.Join(dir, "resume_face1.png")
	placeholder := filepath.Join(dir, "default_face.jpg")
	for _, p := range []string{crop, placeholder} {
		require.NoError(t, os.WriteFile(p, []byte("png"), 0o644))
	}

	parseErr := &parsing.ParseError{Message: "bad json"}
	svc := NewService(&fakeParser{err: parseErr}, &fakeFaces{paths: []string{crop, placeholder}}, Options{})

	_, err := svc.ParseResume(context.Background(), writePDF(t))
	require.ErrorIs(t, err, parseErr)

	assert.NoFileExists(t, crop)
	assert.FileExists(t, placeholder)
}

func TestParseResume_UnsupportedFormat(t *testing.T) {
	parser := &fakeParser{record: newRecord()}
	svc := NewService(parser, nil, Options{})

	_, err := svc.ParseResume(context.Background(), filepath.Join(t.TempDir(), "resume.txt"))

	var unsupported *ingestion.UnsupportedFormatError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, ".txt", unsupported.Ext)
	assert.Empty(t, parser.texts)
}

func TestParseResume_ReportsProgress(t *testing.T) {
	var mu sync.Mutex
	var steps []string
	svc := NewService(&fakeParser{record: newRecord()}, &fakeFaces{paths: []string{"f.png"}}, Options{
		OnProgress: func(e ProgressEvent) {
			mu.Lock()
			steps = append(steps, e.Step)
			mu.Unlock()
		},
	})

	_, err := svc.ParseResume(context.Background(), writePDF(t))
	require.NoError(t, err)
	assert.Equal(t, []string{StepExtractText, StepParse, StepFaces}, steps)
}

func TestParseUpload_RemovesUploadOnSuccess(t *testing.T) {
	uploadDir := filepath.Join(t.TempDir(), "uploads")
	svc := NewService(&fakeParser{record: newRecord()}, nil, Options{UploadDir: uploadDir})

	var pdf bytes.Buffer
	src := writePDF(t)
	data, err := os.ReadFile(src)
	require.NoError(t, err)
	pdf.Write(data)

	record, err := svc.ParseUpload(context.Background(), "Resume.PDF", &pdf)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", record.FullName.Text())

	entries, err := os.ReadDir(uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestParseUpload_RemovesUploadOnFailure(t *testing.T) {
	uploadDir := filepath.Join(t.TempDir(), "uploads")
	svc := NewService(&fakeParser{err: &parsing.ParseError{Message: "bad json"}}, nil, Options{UploadDir: uploadDir})

	_, err := svc.ParseUpload(context.Background(), "resume.pdf", strings.NewReader("not really a pdf"))
	require.Error(t, err)

	entries, err := os.ReadDir(uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestParseUpload_RejectsUnsupportedBeforeWriting(t *testing.T) {
	uploadDir := filepath.Join(t.TempDir(), "uploads")
	svc := NewService(&fakeParser{record: newRecord()}, nil, Options{UploadDir: uploadDir})

	_, err := svc.ParseUpload(context.Background(), "resume.exe", strings.NewReader("MZ"))

	var unsupported *ingestion.UnsupportedFormatError
	require.True(t, errors.As(err, &unsupported))
	_, statErr := os.Stat(uploadDir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	tmpl := filepath.Join(dir, "template.txt")
	require.NoError(t, os.WriteFile(tmpl, []byte("{NAME} <{EMAIL}>\n{PRIMARY_SKILLS}"), 0o644))
	svc := NewService(&fakeParser{}, nil, Options{Render: rendering.RenderOptions{TextTemplate: tmpl}})

	var buf bytes.Buffer
	require.NoError(t, svc.Render(&buf, newRecord(), rendering.TXT))
	assert.Equal(t, "Jane Doe <jane@example.com>\nGo, SQL", buf.String())
}

func TestRenderFile_LogoOverride(t *testing.T) {
	dir := t.TempDir()
	tmpl := filepath.Join(dir, "template.docx")
	testutil.WriteDOCX(t, tmpl, testutil.DOCXParts{Body: testutil.Paragraph("{NAME}")})
	logo := filepath.Join(dir, "logo.png")
	testutil.WritePNG(t, logo, 40, 20)
	out := filepath.Join(dir, "out.docx")

	svc := NewService(&fakeParser{}, nil, Options{Render: rendering.RenderOptions{DocxTemplate: tmpl}})
	require.NoError(t, svc.RenderFile(newRecord(), out, logo))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	_, ok := testutil.ReadZipEntry(t, data, "word/media/resume_logo.png")
	assert.True(t, ok)
}
