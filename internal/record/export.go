// Package record turns preview snapshots into still images and short
// animated recordings, and keeps the open previews available for download.
package record

import (
	"image"
	"image/color"
	"io"
	"time"

	"github.com/disintegration/imaging"

	"monster-maker/internal/render"
	"monster-maker/internal/session"
	"monster-maker/internal/shape"
)

// MaxWidth caps the width of exported images.
const MaxWidth = 1600

// Still renders the snapshot at full canvas resolution at the given
// animation time, with edit affordances hidden.
func Still(snap session.Snapshot, elapsed time.Duration) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, shape.CanvasWidth, shape.CanvasHeight))
	render.NewRasterizer().DrawScene(img, render.Scene{
		Shapes:          snap.Shapes,
		Background:      snap.Background,
		Elapsed:         elapsed,
		HideAffordances: true,
	})
	return img
}

// fit resizes img to width, keeping the aspect ratio. Zero or the native
// width leaves the image alone.
func fit(img image.Image, width int) image.Image {
	if width <= 0 || width == img.Bounds().Dx() {
		return img
	}
	if width > MaxWidth {
		width = MaxWidth
	}
	return imaging.Resize(img, width, 0, imaging.Lanczos)
}

// EncodePNG writes a still of the snapshot as PNG, scaled to width and
// captioned when caption is not empty.
func EncodePNG(w io.Writer, snap session.Snapshot, width int, caption string) error {
	img := Still(snap, 0)
	if caption != "" {
		render.Caption(img, caption, color.Black)
	}
	return imaging.Encode(w, fit(img, width), imaging.PNG)
}
