package render

import "monster-maker/internal/shape"

// Layout places the canvas inside a terminal. Each cell holds two pixels
// stacked vertically.
type Layout struct {
	Scale      float64 // pixels per canvas unit
	PixW, PixH int     // rasterized canvas size in pixels
	Col, Row   int     // top-left cell of the canvas (0-based)
	Cols, Rows int     // cells covered by the canvas
}

// NewLayout fits the canvas into the terminal above the HUD, keeping its
// aspect ratio and centering it.
func NewLayout(termW, termH, hudRows int) Layout {
	availW := termW
	availH := (termH - hudRows) * 2
	if availW < 1 || availH < 1 {
		return Layout{}
	}

	scale := float64(availW) / shape.CanvasWidth
	if s := float64(availH) / shape.CanvasHeight; s < scale {
		scale = s
	}

	l := Layout{
		Scale: scale,
		PixW:  int(shape.CanvasWidth * scale),
		PixH:  int(shape.CanvasHeight * scale),
	}
	if l.PixW < 1 {
		l.PixW = 1
	}
	if l.PixH < 1 {
		l.PixH = 1
	}
	l.Cols = l.PixW
	l.Rows = (l.PixH + 1) / 2
	l.Col = (termW - l.Cols) / 2
	l.Row = (termH - hudRows - l.Rows) / 2
	if l.Row < 0 {
		l.Row = 0
	}
	return l
}

// CellToCanvas converts a 0-based terminal cell to canvas coordinates by
// subtracting the canvas origin and undoing the scale. ok is false when
// the cell is outside the canvas.
func (l Layout) CellToCanvas(col, row int) (x, y int, ok bool) {
	if l.Scale <= 0 {
		return 0, 0, false
	}
	px := col - l.Col
	py := (row - l.Row) * 2
	ok = px >= 0 && px < l.Cols && row-l.Row >= 0 && row-l.Row < l.Rows
	x = int((float64(px) + 0.5) / l.Scale)
	y = int((float64(py) + 1) / l.Scale)
	return x, y, ok
}

// CanvasToCell converts canvas coordinates to the 0-based cell showing them.
func (l Layout) CanvasToCell(x, y int) (col, row int) {
	return l.Col + int(float64(x)*l.Scale), l.Row + int(float64(y)*l.Scale)/2
}
