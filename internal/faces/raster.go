package faces

import (
	"context"
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
)

// DefaultDPI is the resolution the first page is rendered at. Crop framing
// depends on it, so it is fixed rather than derived from the document.
const DefaultDPI = 300.0

// Rasterizer renders the first page of a document to an image.
type Rasterizer interface {
	FirstPage(ctx context.Context, path string) (image.Image, error)
}

// FitzRasterizer renders pages with MuPDF.
type FitzRasterizer struct {
	DPI float64
}

// NewFitzRasterizer returns a rasterizer at dpi, or DefaultDPI when dpi <= 0.
func NewFitzRasterizer(dpi float64) *FitzRasterizer {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &FitzRasterizer{DPI: dpi}
}

// FirstPage renders page 0 of the PDF at path.
func (r *FitzRasterizer) FirstPage(ctx context.Context, path string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF for rasterizing: %w", err)
	}
	defer func() { _ = doc.Close() }()

	if doc.NumPage() == 0 {
		return nil, fmt.Errorf("PDF has no pages: %s", path)
	}

	img, err := doc.ImageDPI(0, r.DPI)
	if err != nil {
		return nil, fmt.Errorf("failed to render first page: %w", err)
	}
	return img, nil
}
