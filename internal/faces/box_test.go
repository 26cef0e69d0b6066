package faces

import (
	"image"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPad(t *testing.T) {
	bounds := image.Rect(0, 0, 1000, 800)

	tests := []struct {
		name    string
		box     Box
		padding float64
		want    Box
	}{
		{
			name:    "half padding in the middle",
			box:     Box{Top: 200, Left: 300, Bottom: 400, Right: 400},
			padding: 0.5,
			want:    Box{Top: 100, Left: 250, Bottom: 500, Right: 450},
		},
		{
			name:    "no padding",
			box:     Box{Top: 10, Left: 20, Bottom: 30, Right: 40},
			padding: 0,
			want:    Box{Top: 10, Left: 20, Bottom: 30, Right: 40},
		},
		{
			name:    "clamped at top left",
			box:     Box{Top: 10, Left: 5, Bottom: 110, Right: 105},
			padding: 0.5,
			want:    Box{Top: 0, Left: 0, Bottom: 160, Right: 155},
		},
		{
			name:    "clamped at bottom right",
			box:     Box{Top: 700, Left: 900, Bottom: 790, Right: 990},
			padding: 0.5,
			want:    Box{Top: 655, Left: 855, Bottom: 800, Right: 1000},
		},
		{
			name:    "negative padding treated as zero",
			box:     Box{Top: 10, Left: 20, Bottom: 30, Right: 40},
			padding: -1,
			want:    Box{Top: 10, Left: 20, Bottom: 30, Right: 40},
		},
		{
			name:    "box already outside bounds",
			box:     Box{Top: -20, Left: -20, Bottom: 900, Right: 1100},
			padding: 0.5,
			want:    Box{Top: 0, Left: 0, Bottom: 800, Right: 1000},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Pad(tt.box, bounds, tt.padding))
		})
	}
}

func TestPad_NeverLeavesBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 1000; i++ {
		w, h := 50+rng.Intn(3000), 50+rng.Intn(3000)
		bounds := image.Rect(0, 0, w, h)

		top, left := rng.Intn(h), rng.Intn(w)
		box := Box{
			Top:    top,
			Left:   left,
			Bottom: top + 1 + rng.Intn(h-top),
			Right:  left + 1 + rng.Intn(w-left),
		}
		padding := rng.Float64() * 3

		got := Pad(box, bounds, padding)

		assert.GreaterOrEqual(t, got.Top, 0)
		assert.GreaterOrEqual(t, got.Left, 0)
		assert.LessOrEqual(t, got.Bottom, h)
		assert.LessOrEqual(t, got.Right, w)
		assert.LessOrEqual(t, got.Top, box.Top, "padding never shrinks the box")
		assert.GreaterOrEqual(t, got.Bottom, box.Bottom)
		if t.Failed() {
			t.Fatalf("box %+v bounds %v padding %.2f -> %+v", box, bounds, padding, got)
		}
	}
}

func TestBox_Dimensions(t *testing.T) {
	b := Box{Top: 10, Left: 20, Bottom: 110, Right: 70}

	assert.Equal(t, 50, b.Width())
	assert.Equal(t, 100, b.Height())
	assert.Equal(t, image.Rect(20, 10, 70, 110), b.Rect())
}
