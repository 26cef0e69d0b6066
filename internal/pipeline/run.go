// Package pipeline provides the high-level orchestration for resume
// extraction and rendering.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-parser/internal/faces"
	"github.com/jonathan/resume-parser/internal/ingestion"
	"github.com/jonathan/resume-parser/internal/logger"
	"github.com/jonathan/resume-parser/internal/rendering"
	"github.com/jonathan/resume-parser/internal/types"
)

// Step names reported through ProgressEvent.
const (
	StepExtractText = "extract_text"
	StepParse       = "parse_resume"
	StepFaces       = "extract_faces"
	StepRender      = "render"
)

// Step categories reported through ProgressEvent.
const (
	CategoryIngestion = "ingestion"
	CategoryParsing   = "parsing"
	CategoryFaces     = "faces"
	CategoryRendering = "rendering"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// ResumeParser turns resume text into a record.
type ResumeParser interface {
	ParseResume(ctx context.Context, text string) (*types.ResumeRecord, error)
}

// FaceExtractor crops faces from the first page of a PDF.
type FaceExtractor interface {
	Extract(ctx context.Context, pdfPath string) ([]string, error)
}

// Options holds configuration for the pipeline
type Options struct {
	// UploadDir holds uploaded documents while they are processed.
	UploadDir string
	// Render holds template and logo paths; Output is set per call.
	Render     rendering.RenderOptions
	OnProgress ProgressCallback
}

// Service runs the extraction and rendering pipelines. It holds no
// per-request state and is safe for concurrent use.
type Service struct {
	parser ResumeParser
	faces  FaceExtractor
	opts   Options
}

// NewService creates a service. faces may be nil to skip face extraction.
func NewService(parser ResumeParser, faces FaceExtractor, opts Options) *Service {
	if opts.UploadDir == "" {
		opts.UploadDir = os.TempDir()
	}
	return &Service{parser: parser, faces: faces, opts: opts}
}

// emitProgress calls the progress callback if configured
func (s *Service) emitProgress(step, category, message string, content any) {
	if s.opts.OnProgress != nil {
		s.opts.OnProgress(ProgressEvent{
			Step:     step,
			Category: category,
			Message:  message,
			Content:  content,
		})
	}
}

// ParseResume extracts a record from the document at path. For PDFs, face
// extraction runs concurrently with the model call; its failures are logged
// and yield no face images. Any extraction or parsing failure fails the
// whole call and removes the crops written for it.
func (s *Service) ParseResume(ctx context.Context, path string) (*types.ResumeRecord, error) {
	log := logger.Ctx(ctx)
	start := time.Now()

	text, meta, err := ingestion.Ingest(path)
	if err != nil {
		return nil, err
	}
	log.Debug().
		Str("file", filepath.Base(path)).
		Int("chars", meta.Chars).
		Int("words", meta.Words).
		Msg("extracted resume text")
	s.emitProgress(StepExtractText, CategoryIngestion,
		fmt.Sprintf("Extracted %d characters from %s", meta.Chars, filepath.Base(path)), meta)

	var (
		record    *types.ResumeRecord
		facePaths = []string{}
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		r, err := s.parser.ParseResume(gCtx, text)
		if err != nil {
			return err
		}
		record = r
		return nil
	})

	if s.faces != nil && ingestion.Ext(path) == ingestion.ExtPDF {
		g.Go(func() error {
			paths, err := s.faces.Extract(gCtx, path)
			if err != nil {
				if ctx.Err() == nil && gCtx.Err() == nil {
					log.Warn().Err(err).Str("file", filepath.Base(path)).Msg("face extraction failed")
				}
				return nil
			}
			if paths != nil {
				facePaths = paths
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		removeFaces(ctx, facePaths)
		return nil, err
	}

	record.FaceImages = facePaths
	s.emitProgress(StepParse, CategoryParsing, "Parsed resume record", record)
	if len(facePaths) > 0 {
		s.emitProgress(StepFaces, CategoryFaces, fmt.Sprintf("Extracted %d face image(s)", len(facePaths)), facePaths)
	}

	log.Info().
		Str("file", filepath.Base(path)).
		Int("faces", len(facePaths)).
		Dur("elapsed", time.Since(start)).
		Msg("parsed resume")
	return record, nil
}

// removeFaces deletes crops written for a request that failed. The
// placeholder image is shared and never removed.
func removeFaces(ctx context.Context, paths []string) {
	for _, p := range paths {
		if filepath.Base(p) == faces.PlaceholderFace {
			continue
		}
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			logger.Ctx(ctx).Warn().Err(err).Str("path", p).Msg("failed to remove face image")
		}
	}
}

// ParseUpload stores an uploaded document under a fresh name in the upload
// directory, parses it and removes it again on every path. Unsupported
// extensions are rejected before anything is written.
func (s *Service) ParseUpload(ctx context.Context, filename string, body io.Reader) (*types.ResumeRecord, error) {
	if !ingestion.IsSupported(filename) {
		return nil, &ingestion.UnsupportedFormatError{Ext: ingestion.Ext(filename)}
	}

	if err := os.MkdirAll(s.opts.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	path := filepath.Join(s.opts.UploadDir, uuid.NewString()+ingestion.Ext(filename))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload file: %w", err)
	}
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Ctx(ctx).Warn().Err(err).Str("path", path).Msg("failed to remove upload")
		}
	}()

	_, copyErr := io.Copy(f, body)
	closeErr := f.Close()
	if copyErr != nil {
		return nil, fmt.Errorf("failed to store upload: %w", copyErr)
	}
	if closeErr != nil {
		return nil, fmt.Errorf("failed to store upload: %w", closeErr)
	}

	ctx = logger.WithFields(ctx, "upload", filename)
	return s.ParseResume(ctx, path)
}

// Render writes record in format f to w using the configured templates.
func (s *Service) Render(w io.Writer, record *types.ResumeRecord, f rendering.Format) error {
	if err := rendering.Render(w, record, f, s.opts.Render); err != nil {
		return err
	}
	s.emitProgress(StepRender, CategoryRendering, fmt.Sprintf("Rendered %s document", f), nil)
	return nil
}

// RenderFile renders record to output; the extension selects the format.
// A non-empty logo overrides the configured one.
func (s *Service) RenderFile(record *types.ResumeRecord, output, logo string) error {
	opts := s.opts.Render
	opts.Output = output
	if strings.TrimSpace(logo) != "" {
		opts.Logo = logo
	}
	if err := rendering.RenderFile(record, opts); err != nil {
		return err
	}
	s.emitProgress(StepRender, CategoryRendering, "Rendered "+output, nil)
	return nil
}
