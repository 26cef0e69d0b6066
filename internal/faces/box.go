// Package faces finds face photographs on the first page of a PDF resume and
// saves padded crops of them.
package faces

import "image"

// DefaultPadding expands each detected face by half its height vertically
// and half its width horizontally, which keeps hair and chin in frame.
const DefaultPadding = 0.5

// Box is a face bounding box in pixel coordinates. Bottom and Right are
// exclusive.
type Box struct {
	Top    int
	Left   int
	Bottom int
	Right  int
}

// Width returns the horizontal extent of the box.
func (b Box) Width() int { return b.Right - b.Left }

// Height returns the vertical extent of the box.
func (b Box) Height() int { return b.Bottom - b.Top }

// Rect converts the box to an image.Rectangle.
func (b Box) Rect() image.Rectangle {
	return image.Rect(b.Left, b.Top, b.Right, b.Bottom)
}

// Pad grows box by padding×height above and below and padding×width left and
// right, then clamps the result to bounds. A negative padding is treated as 0.
func Pad(box Box, bounds image.Rectangle, padding float64) Box {
	if padding < 0 {
		padding = 0
	}
	padV := int(float64(box.Height()) * padding)
	padH := int(float64(box.Width()) * padding)

	return Box{
		Top:    max(box.Top-padV, bounds.Min.Y),
		Left:   max(box.Left-padH, bounds.Min.X),
		Bottom: min(box.Bottom+padV, bounds.Max.Y),
		Right:  min(box.Right+padH, bounds.Max.X),
	}
}
