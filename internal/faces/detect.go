package faces

import (
	_ "embed"
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
	pigo "github.com/esimov/pigo/core"
)

// facefinder is the frontal face cascade distributed with pigo (MIT, see
// cascade/LICENSE.pigo).
//
//go:embed cascade/facefinder
var facefinder []byte

// ErrDetectorUnavailable is returned when no face cascade can be loaded.
var ErrDetectorUnavailable = errors.New("face detector unavailable")

// Detector finds faces in an image.
type Detector interface {
	Detect(img image.Image) ([]Box, error)
}

// DetectorParams tunes the pigo cascade run.
type DetectorParams struct {
	MinSize     int
	MaxSize     int
	ShiftFactor float64
	ScaleFactor float64
	// IoUThreshold merges overlapping detections.
	IoUThreshold float64
	// MinQuality drops weak detections.
	MinQuality float32
}

// DefaultDetectorParams returns parameters suited to 300 DPI resume pages,
// where a portrait photo is typically 200-900 pixels tall.
func DefaultDetectorParams() DetectorParams {
	return DetectorParams{
		MinSize:      60,
		MaxSize:      1600,
		ShiftFactor:  0.1,
		ScaleFactor:  1.1,
		IoUThreshold: 0.2,
		MinQuality:   5.0,
	}
}

// PigoDetector detects frontal faces with a pigo cascade.
type PigoDetector struct {
	classifier *pigo.Pigo
	params     DetectorParams
}

// NewPigoDetector loads the cascade at cascadePath, or the bundled facefinder
// cascade when cascadePath is empty. A missing or malformed file yields
// ErrDetectorUnavailable so callers can fall back to the placeholder image.
func NewPigoDetector(cascadePath string, params DetectorParams) (*PigoDetector, error) {
	data := facefinder
	if cascadePath != "" {
		var err error
		data, err = os.ReadFile(cascadePath)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: cascade not found at %s", ErrDetectorUnavailable, cascadePath)
			}
			return nil, fmt.Errorf("failed to read face cascade: %w", err)
		}
	}

	classifier, err := unpack(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDetectorUnavailable, err)
	}

	return &PigoDetector{classifier: classifier, params: params}, nil
}

// unpack guards against malformed cascade files, which make pigo panic.
func unpack(data []byte) (classifier *pigo.Pigo, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed face cascade: %v", r)
		}
	}()
	return pigo.NewPigo().Unpack(data)
}

// Detect returns face boxes sorted as pigo reports them, in the coordinates
// of img.
func (d *PigoDetector) Detect(img image.Image) ([]Box, error) {
	// pigo indexes pixels from (0, 0).
	origin := img.Bounds().Min
	src := imaging.Clone(img)
	cols, rows := src.Bounds().Dx(), src.Bounds().Dy()

	params := pigo.CascadeParams{
		MinSize:     d.params.MinSize,
		MaxSize:     d.params.MaxSize,
		ShiftFactor: d.params.ShiftFactor,
		ScaleFactor: d.params.ScaleFactor,
		ImageParams: pigo.ImageParams{
			Pixels: pigo.RgbToGrayscale(src),
			Rows:   rows,
			Cols:   cols,
			Dim:    cols,
		},
	}

	dets := d.classifier.RunCascade(params, 0.0)
	dets = d.classifier.ClusterDetections(dets, d.params.IoUThreshold)

	boxes := make([]Box, 0, len(dets))
	for _, det := range dets {
		if det.Q < d.params.MinQuality {
			continue
		}
		half := det.Scale / 2
		boxes = append(boxes, Box{
			Top:    origin.Y + det.Row - half,
			Left:   origin.X + det.Col - half,
			Bottom: origin.Y + det.Row + half,
			Right:  origin.X + det.Col + half,
		})
	}
	return boxes, nil
}
