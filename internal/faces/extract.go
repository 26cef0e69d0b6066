package faces

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/jonathan/resume-parser/internal/logger"
)

// PlaceholderFace is returned instead of crops when no detector is available.
const PlaceholderFace = "default_face.jpg"

// Options configures an Extractor.
type Options struct {
	// OutputDir receives the cropped PNG files.
	OutputDir string
	// Padding is the fraction of face height/width added on each side.
	Padding float64
}

// Extractor rasterizes the first page of a PDF, detects faces and writes one
// padded crop per face.
type Extractor struct {
	rasterizer Rasterizer
	detector   Detector
	opts       Options
}

// NewExtractor creates an extractor. detector may be nil, in which case every
// extraction returns the placeholder path.
func NewExtractor(rasterizer Rasterizer, detector Detector, opts Options) *Extractor {
	if opts.OutputDir == "" {
		opts.OutputDir = filepath.Join("static", "face_images")
	}
	return &Extractor{rasterizer: rasterizer, detector: detector, opts: opts}
}

// Available reports whether face detection can run.
func (e *Extractor) Available() bool {
	return e != nil && e.detector != nil
}

// Extract returns the paths of the saved face crops for the PDF at pdfPath,
// named <stem>_face<i>.png with i starting at 1. Zero detected faces is an
// empty result, not an error.
func (e *Extractor) Extract(ctx context.Context, pdfPath string) ([]string, error) {
	if !e.Available() {
		logger.Ctx(ctx).Warn().Msg("face detection unavailable, using placeholder image")
		return []string{PlaceholderFace}, nil
	}

	img, err := e.rasterizer.FirstPage(ctx, pdfPath)
	if err != nil {
		return nil, err
	}

	boxes, err := e.detector.Detect(img)
	if err != nil {
		return nil, fmt.Errorf("face detection failed: %w", err)
	}
	if len(boxes) == 0 {
		logger.Ctx(ctx).Debug().Str("file", filepath.Base(pdfPath)).Msg("no face detected")
		return []string{}, nil
	}

	if err := os.MkdirAll(e.opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create face output directory: %w", err)
	}

	stem := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	bounds := img.Bounds()
	paths := make([]string, 0, len(boxes))

	for i, box := range boxes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		padded := Pad(box, bounds, e.opts.Padding)
		if padded.Width() <= 0 || padded.Height() <= 0 {
			continue
		}

		out := filepath.Join(e.opts.OutputDir, fmt.Sprintf("%s_face%d.png", stem, i+1))
		if err := imaging.Save(imaging.Crop(img, padded.Rect()), out); err != nil {
			return nil, fmt.Errorf("failed to save face crop: %w", err)
		}
		paths = append(paths, out)
	}

	logger.Ctx(ctx).Debug().Int("faces", len(paths)).Str("file", filepath.Base(pdfPath)).Msg("face crops saved")
	return paths, nil
}
