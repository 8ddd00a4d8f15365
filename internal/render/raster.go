package render

import (
	"image"
	"image/color"
	"image/draw"
	"log"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"monster-maker/internal/background"
	"monster-maker/internal/shape"
)

// Paper is the color behind the background pattern's transparent gaps.
var Paper = color.RGBA{0xf0, 0xf0, 0xf0, 0xff}

// Selection outlines the selected shape when edit affordances are shown.
var Selection = color.RGBA{0x4c, 0xaf, 0x50, 0xff}

// kappa places cubic control points for a quarter circle.
const kappa = 0.5522847498

// Scene is everything the renderer needs for one frame of the canvas.
type Scene struct {
	Shapes     []shape.Shape
	Background background.Settings
	Elapsed    time.Duration

	// Selected is outlined unless HideAffordances is set.
	Selected        string
	HideAffordances bool
}

// Rasterizer draws scenes. It caches parsed outlines and reuses its
// path rasterizer across frames; it is not safe for concurrent use.
type Rasterizer struct {
	z        *vector.Rasterizer
	outlines map[shape.ClipPath]shape.Outline
}

// NewRasterizer returns an empty rasterizer.
func NewRasterizer() *Rasterizer {
	return &Rasterizer{
		z:        vector.NewRasterizer(1, 1),
		outlines: make(map[shape.ClipPath]shape.Outline),
	}
}

func (r *Rasterizer) outline(cp shape.ClipPath) (shape.Outline, bool) {
	if o, ok := r.outlines[cp]; ok {
		return o, true
	}
	o, err := shape.ParseClipPath(cp)
	if err != nil {
		log.Printf("render: %v", err)
		return shape.Outline{}, false
	}
	r.outlines[cp] = o
	return o, true
}

// DrawScene paints the scene scaled to fill dst: background first, then
// shapes in collection order so later shapes land on top.
func (r *Rasterizer) DrawScene(dst *image.RGBA, sc Scene) {
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return
	}
	sx := float64(w) / shape.CanvasWidth
	sy := float64(h) / shape.CanvasHeight

	r.drawBackground(dst, sc, sx, sy)

	for _, s := range sc.Shapes {
		o, ok := r.outline(s.ClipPath)
		if !ok {
			continue
		}
		r.z.Reset(w, h)
		x0, y0 := float64(s.X)*sx, float64(s.Y)*sy
		sw, sh := float64(s.Size)*sx, float64(s.Size)*sy
		pathOutline(r.z, o, x0, y0, sw, sh)
		r.z.Draw(dst, b, image.NewUniform(s.Color), image.Point{})
	}

	if !sc.HideAffordances && sc.Selected != "" {
		for _, s := range sc.Shapes {
			if s.ID == sc.Selected {
				strokeRect(dst, int(float64(s.X)*sx), int(float64(s.Y)*sy),
					int(float64(s.X+s.Size)*sx), int(float64(s.Y+s.Size)*sy), Selection)
			}
		}
	}
}

func (r *Rasterizer) drawBackground(dst *image.RGBA, sc Scene, sx, sy float64) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(Paper), image.Point{}, draw.Src)

	desc := sc.Background.Describe()
	tileW, tileH := sc.Background.Tile()
	phase := sc.Background.Phase(sc.Elapsed)
	c := color.RGBA{desc.Color.R, desc.Color.G, desc.Color.B, 0xff}

	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		cy := (float64(y-b.Min.Y) + 0.5) / sy
		for x := b.Min.X; x < b.Max.X; x++ {
			cx := (float64(x-b.Min.X) + 0.5) / sx
			if desc.Covers(cx, cy, tileW, tileH, phase) {
				dst.SetRGBA(x, y, c)
			}
		}
	}
}

// pathOutline adds the outline, mapped onto the box at (x0, y0) of size
// w x h, to z.
func pathOutline(z *vector.Rasterizer, o shape.Outline, x0, y0, w, h float64) {
	pt := func(u, v float64) (float32, float32) {
		return float32(x0 + u*w), float32(y0 + v*h)
	}

	if o.Circle {
		cx, cy := o.Center.X, o.Center.Y
		r, k := o.Radius, o.Radius*kappa
		z.MoveTo(pt(cx+r, cy))
		cubeTo(z, pt, cx+r, cy+k, cx+k, cy+r, cx, cy+r)
		cubeTo(z, pt, cx-k, cy+r, cx-r, cy+k, cx-r, cy)
		cubeTo(z, pt, cx-r, cy-k, cx-k, cy-r, cx, cy-r)
		cubeTo(z, pt, cx+k, cy-r, cx+r, cy-k, cx+r, cy)
		z.ClosePath()
		return
	}

	if len(o.Polygon) == 0 {
		return
	}
	z.MoveTo(pt(o.Polygon[0].X, o.Polygon[0].Y))
	for _, p := range o.Polygon[1:] {
		z.LineTo(pt(p.X, p.Y))
	}
	z.ClosePath()
}

func cubeTo(z *vector.Rasterizer, pt func(u, v float64) (float32, float32), u1, v1, u2, v2, u3, v3 float64) {
	ax, ay := pt(u1, v1)
	bx, by := pt(u2, v2)
	cx, cy := pt(u3, v3)
	z.CubeTo(ax, ay, bx, by, cx, cy)
}

// strokeRect draws a one-pixel rectangle outline with corners (x0,y0)
// and (x1-1,y1-1), clipped to dst.
func strokeRect(dst *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	b := dst.Bounds()
	set := func(x, y int) {
		if image.Pt(x, y).In(b) {
			dst.SetRGBA(x, y, c)
		}
	}
	for x := x0; x < x1; x++ {
		set(x, y0)
		set(x, y1-1)
	}
	for y := y0; y < y1; y++ {
		set(x0, y)
		set(x1-1, y)
	}
}

// Caption writes a single line of text at the bottom-left of dst.
func Caption(dst *image.RGBA, text string, c color.Color) {
	b := dst.Bounds()
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(b.Min.X+6, b.Max.Y-6),
	}
	d.DrawString(text)
}
