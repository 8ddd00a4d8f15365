package render

import (
	"image"
	"strings"
)

// HalfBlock packs two vertically stacked pixels into one cell.
func HalfBlock(top, bottom [3]uint8) Cell {
	return Cell{
		Ch:  UpperHalf,
		FgR: top[0], FgG: top[1], FgB: top[2],
		BgR: bottom[0], BgG: bottom[1], BgB: bottom[2],
	}
}

// pixelAt returns the RGB at (x, y), or fallback outside the image.
func pixelAt(img *image.RGBA, x, y int, fallback [3]uint8) [3]uint8 {
	if !image.Pt(x, y).In(img.Bounds()) {
		return fallback
	}
	c := img.RGBAAt(x, y)
	return [3]uint8{c.R, c.G, c.B}
}

// stampImage copies img into the cell buffer at (col, row), two pixel rows per cell.
func (e *Engine) stampImage(img *image.RGBA, col, row int, fallback [3]uint8) {
	b := img.Bounds()
	rows := (b.Dy() + 1) / 2
	for r := 0; r < rows; r++ {
		sy := row + r
		if sy < 0 || sy >= e.height {
			continue
		}
		for c := 0; c < b.Dx(); c++ {
			sx := col + c
			if sx < 0 || sx >= e.width {
				continue
			}
			top := pixelAt(img, b.Min.X+c, b.Min.Y+2*r, fallback)
			bottom := pixelAt(img, b.Min.X+c, b.Min.Y+2*r+1, fallback)
			e.next[sy][sx] = HalfBlock(top, bottom)
		}
	}
}

// HalfBlocks renders img as lines of half-block cells for printing
// straight to a terminal.
func HalfBlocks(img *image.RGBA) string {
	var sb strings.Builder
	b := img.Bounds()
	black := [3]uint8{}
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		for x := b.Min.X; x < b.Max.X; x++ {
			WriteCellSGR(&sb, HalfBlock(pixelAt(img, x, y, black), pixelAt(img, x, y+1, black)))
		}
		sb.WriteString(Reset)
		sb.WriteByte('\n')
	}
	return sb.String()
}
