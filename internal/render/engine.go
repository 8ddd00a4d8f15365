package render

import (
	"image"
	"strings"
)

const HUDRows = 4

// Cell represents a single terminal cell with full RGB color.
type Cell struct {
	Ch            rune
	FgR, FgG, FgB uint8
	BgR, BgG, BgB uint8
	Bold          bool
}

var sentinel = Cell{Ch: '\x00', FgR: 255, BgB: 255, Bold: true}

// Frame is one screenful: the canvas scene plus HUD text.
type Frame struct {
	Scene Scene

	Title    string // left side of the first HUD row
	Status   string // right side of the first HUD row
	Detail   string // second HUD row
	Controls string // third HUD row

	// Notice is shown in a popup over the canvas until cleared.
	Notice string
	// Recording marks the HUD while a capture is running.
	Recording bool
}

// Engine is a per-session double-buffer diff renderer.
type Engine struct {
	width, height int
	current       [][]Cell
	next          [][]Cell
	firstFrame    bool

	layout Layout
	canvas *image.RGBA
	raster *Rasterizer
}

// NewEngine creates a renderer for the given terminal dimensions.
func NewEngine(width, height int) *Engine {
	e := &Engine{raster: NewRasterizer()}
	e.Resize(width, height)
	return e
}

// Resize adjusts the renderer for a new terminal size.
func (e *Engine) Resize(width, height int) {
	e.width = width
	e.height = height
	e.current = e.makeBuffer(sentinel)
	e.next = e.makeBuffer(Cell{})
	e.firstFrame = true
	e.layout = NewLayout(width, height, HUDRows)
	e.canvas = image.NewRGBA(image.Rect(0, 0, e.layout.PixW, e.layout.PixH))
}

// Layout returns where the canvas currently sits on screen.
func (e *Engine) Layout() Layout {
	return e.layout
}

func (e *Engine) makeBuffer(fill Cell) [][]Cell {
	buf := make([][]Cell, e.height)
	for y := 0; y < e.height; y++ {
		buf[y] = make([]Cell, e.width)
		for x := 0; x < e.width; x++ {
			buf[y][x] = fill
		}
	}
	return buf
}

// Render produces the ANSI byte output for the frame, emitting only the
// cells that changed since the previous call.
func (e *Engine) Render(f Frame, termW, termH int) string {
	if termW != e.width || termH != e.height {
		e.Resize(termW, termH)
	}

	bgCell := Cell{Ch: ' ', BgR: 10, BgG: 10, BgB: 15}
	for y := 0; y < e.height; y++ {
		for x := 0; x < e.width; x++ {
			e.next[y][x] = bgCell
		}
	}

	if e.layout.PixW > 0 && e.layout.PixH > 0 {
		e.raster.DrawScene(e.canvas, f.Scene)
		e.stampImage(e.canvas, e.layout.Col, e.layout.Row, [3]uint8{bgCell.BgR, bgCell.BgG, bgCell.BgB})
	}

	if f.Notice != "" {
		e.drawNotice(f.Notice)
	}
	e.drawHUD(f)

	return e.emitDiff()
}

// --- Notice popup ---

// drawNotice draws a boxed message centered over the canvas.
func (e *Engine) drawNotice(text string) {
	textRunes := []rune(text)
	popupW := len(textRunes) + 4 // "│ " + text + " │"
	popupH := 3                  // top border, text, bottom border

	popupX := e.layout.Col + (e.layout.Cols-popupW)/2
	if popupX < 0 {
		popupX = 0
	}
	if popupX+popupW > e.width {
		popupX = e.width - popupW
	}
	popupY := e.layout.Row + (e.layout.Rows-popupH)/2
	if popupY < 0 {
		popupY = 0
	}

	// Colors: warm border, dark bg, light text
	borderR, borderG, borderB := uint8(200), uint8(180), uint8(120)
	bgR, bgG, bgB := uint8(30), uint8(25), uint8(45)
	textR, textG, textB := uint8(240), uint8(230), uint8(200)

	setCell := func(sx, sy int, ch rune, fgR, fgG, fgB, bgR, bgG, bgB uint8) {
		if sx >= 0 && sx < e.width && sy >= 0 && sy < e.height {
			e.next[sy][sx] = Cell{Ch: ch, FgR: fgR, FgG: fgG, FgB: fgB, BgR: bgR, BgG: bgG, BgB: bgB}
		}
	}

	// Top border: ┌──...──┐
	setCell(popupX, popupY, '┌', borderR, borderG, borderB, bgR, bgG, bgB)
	for i := 1; i < popupW-1; i++ {
		setCell(popupX+i, popupY, '─', borderR, borderG, borderB, bgR, bgG, bgB)
	}
	setCell(popupX+popupW-1, popupY, '┐', borderR, borderG, borderB, bgR, bgG, bgB)

	// Middle row: │ text │
	midY := popupY + 1
	setCell(popupX, midY, '│', borderR, borderG, borderB, bgR, bgG, bgB)
	setCell(popupX+1, midY, ' ', textR, textG, textB, bgR, bgG, bgB)
	for i, r := range textRunes {
		setCell(popupX+2+i, midY, r, textR, textG, textB, bgR, bgG, bgB)
	}
	setCell(popupX+popupW-2, midY, ' ', textR, textG, textB, bgR, bgG, bgB)
	setCell(popupX+popupW-1, midY, '│', borderR, borderG, borderB, bgR, bgG, bgB)

	// Bottom border: └──...──┘
	botY := popupY + 2
	setCell(popupX, botY, '└', borderR, borderG, borderB, bgR, bgG, bgB)
	for i := 1; i < popupW-1; i++ {
		setCell(popupX+i, botY, '─', borderR, borderG, borderB, bgR, bgG, bgB)
	}
	setCell(popupX+popupW-1, botY, '┘', borderR, borderG, borderB, bgR, bgG, bgB)
}

// --- HUD ---

func (e *Engine) drawHUD(f Frame) {
	hudY := e.height - HUDRows
	if hudY < 0 {
		return
	}

	bgR, bgG, bgB := uint8(15), uint8(18), uint8(30)

	// Row 0: separator, thin gradient line
	for x := 0; x < e.width; x++ {
		t := uint8(60 - x*40/max(e.width, 1))
		e.next[hudY][x] = Cell{
			Ch: '━', FgR: 40 + t, FgG: 70 + t, FgB: 90 + t,
			BgR: bgR, BgG: bgG, BgB: bgB,
		}
	}

	for row := 1; row <= 3; row++ {
		y := hudY + row
		if y >= e.height {
			break
		}
		for x := 0; x < e.width; x++ {
			e.next[y][x] = Cell{Ch: ' ', BgR: bgR, BgG: bgG, BgB: bgB}
		}
	}

	// Row 1: title, recording badge, status
	row1 := hudY + 1
	col := e.writeText(row1, 1, e.width, f.Title, 255, 220, 100, bgR, bgG, bgB, true)
	if f.Recording {
		col = e.writeText(row1, col, e.width, "  ● REC", 240, 70, 60, bgR, bgG, bgB, true)
	}
	col = e.writeText(row1, col, e.width, "  │  ", 60, 65, 85, bgR, bgG, bgB, false)
	e.writeText(row1, col, e.width, f.Status, 180, 180, 195, bgR, bgG, bgB, false)

	// Row 2: selection or preview link
	e.writeText(hudY+2, 1, e.width, f.Detail, 100, 220, 220, bgR, bgG, bgB, false)

	// Row 3: controls
	e.writeText(hudY+3, 1, e.width, f.Controls, 130, 130, 145, bgR, bgG, bgB, false)
}

// writeText writes colored text into a bounded region [col, maxCol). Returns the next column position.
func (e *Engine) writeText(row, col, maxCol int, text string, fgR, fgG, fgB, bgR, bgG, bgB uint8, bold bool) int {
	for _, r := range text {
		if col >= maxCol || col >= e.width {
			break
		}
		if row >= 0 && row < e.height && col >= 0 {
			e.next[row][col] = Cell{Ch: r, FgR: fgR, FgG: fgG, FgB: fgB, BgR: bgR, BgG: bgG, BgB: bgB, Bold: bold}
		}
		col++
	}
	return col
}

// emitDiff performs the buffer diff and produces ANSI output.
func (e *Engine) emitDiff() string {
	var sb strings.Builder
	sb.Grow(16384)

	lastRow, lastCol := -1, -1
	for y := 0; y < e.height; y++ {
		for x := 0; x < e.width; x++ {
			nc := e.next[y][x]
			if e.firstFrame || nc != e.current[y][x] {
				// Only emit cursor position if not consecutive
				if y != lastRow || x != lastCol {
					sb.WriteString(MoveTo(y+1, x+1))
				}
				WriteCellSGR(&sb, nc)
				lastRow = y
				lastCol = x + 1
			}
		}
	}

	if sb.Len() > 0 {
		sb.WriteString(Reset)
	}

	// Swap buffers
	e.current, e.next = e.next, e.current
	e.firstFrame = false

	return sb.String()
}
