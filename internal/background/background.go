// Package background describes the animated patterns painted behind a monster.
package background

import (
	"math"
	"time"

	"monster-maker/internal/geom"
	"monster-maker/internal/shape"
)

const (
	DefaultPatternSize = 100
	MinPatternSize     = 50
	MaxPatternSize     = 200

	DefaultSpeed = 5
	MinSpeed     = 1
	MaxSpeed     = 10

	// TileAspect is the pattern tile's height relative to its width.
	TileAspect = 1.75
)

// DefaultColor is the background color of a fresh session.
var DefaultColor = shape.Color{R: 0xa5, G: 0xcf, B: 0xf9}

// LayerKind selects how a layer decides coverage.
type LayerKind int

const (
	// Dot is a filled circle placed in the tile.
	Dot LayerKind = iota
	// Stripe is a band perpendicular to an angle, repeating once per tile.
	Stripe
)

// Keyframe is an offset in tile fractions at a point in the cycle.
type Keyframe struct {
	At     float64 // cycle position in [0,1]
	DX, DY float64
}

// Layer is one gradient-like layer of a pattern.
type Layer struct {
	Kind LayerKind

	// Dot: center and radius in tile fractions.
	CX, CY, Radius float64

	// Stripe: band direction in degrees and the covered fraction at each
	// end of the repeat.
	Angle float64
	Edge  float64

	Frames []Keyframe
}

// Descriptor is a fully resolved pattern for one color.
type Descriptor struct {
	Name   string
	Color  shape.Color
	Layers []Layer
}

// Pattern is a named background. Describe is a pure function of the color.
type Pattern struct {
	Name     string
	Describe func(c shape.Color) Descriptor
}

// Patterns is the fixed, ordered list the selector cycles through.
var Patterns = []Pattern{
	{Name: "Bubbles", Describe: bubbles},
	{Name: "Waves", Describe: waves},
	{Name: "Confetti", Describe: confetti},
}

func bubbles(c shape.Color) Descriptor {
	type bubble struct{ x, r, midX, midY float64 }
	// Start positions, radii, and mid-cycle positions of the rising bubbles.
	list := []bubble{
		{0.05, 0.03, 0.00, 0.80},
		{0.10, 0.03, 0.00, 0.20},
		{0.10, 0.04, 0.10, 0.40},
		{0.15, 0.05, 0.20, 0.00},
		{0.25, 0.05, 0.30, 0.30},
		{0.25, 0.07, 0.22, 0.50},
		{0.40, 0.12, 0.50, 0.50},
		{0.55, 0.10, 0.65, 0.20},
		{0.70, 0.04, 0.90, 0.30},
	}
	d := Descriptor{Name: "Bubbles", Color: c}
	for _, b := range list {
		d.Layers = append(d.Layers, Layer{
			Kind: Dot, CX: b.x, CY: 0.9, Radius: b.r,
			Frames: []Keyframe{
				{At: 0},
				{At: 0.5, DX: b.midX - b.x, DY: b.midY - 0.9},
				{At: 1},
			},
		})
	}
	return d
}

func waves(c shape.Color) Descriptor {
	sway := []Keyframe{{At: 0}, {At: 0.5, DX: 1}, {At: 1}}
	d := Descriptor{Name: "Waves", Color: c}
	for _, l := range []struct{ angle, edge float64 }{
		{60, 0.06}, {-60, 0.06}, {60, 0.06}, {-60, 0.06}, {30, 0.125}, {30, 0.125},
	} {
		d.Layers = append(d.Layers, Layer{Kind: Stripe, Angle: l.angle, Edge: l.edge, Frames: sway})
	}
	return d
}

func confetti(c shape.Color) Descriptor {
	d := Descriptor{Name: "Confetti", Color: c}
	// End offsets in tile fractions for a 100px tile.
	for _, end := range []Keyframe{{At: 1, DX: 5, DY: 10}, {At: 1, DX: 4, DY: 4}, {At: 1, DX: 3, DY: 3}} {
		d.Layers = append(d.Layers, Layer{
			Kind: Stripe, Angle: 90, Edge: 0.1,
			Frames: []Keyframe{{At: 0}, end},
		})
	}
	return d
}

// offset interpolates the layer's keyframes at cycle position t.
func (l Layer) offset(t float64) (float64, float64) {
	if len(l.Frames) == 0 {
		return 0, 0
	}
	prev := l.Frames[0]
	for _, kf := range l.Frames[1:] {
		if t <= kf.At {
			span := kf.At - prev.At
			if span <= 0 {
				return kf.DX, kf.DY
			}
			f := (t - prev.At) / span
			return prev.DX + (kf.DX-prev.DX)*f, prev.DY + (kf.DY-prev.DY)*f
		}
		prev = kf
	}
	return prev.DX, prev.DY
}

// covers reports whether the layer paints the tile-space point (u, v) at
// cycle position t. u and v are in tile fractions and may exceed [0,1).
func (l Layer) covers(u, v, t float64) bool {
	dx, dy := l.offset(t)
	u, v = frac(u-dx), frac(v-dy)
	switch l.Kind {
	case Dot:
		ddx, ddy := u-l.CX, v-l.CY
		return ddx*ddx+ddy*ddy <= l.Radius*l.Radius
	case Stripe:
		rad := l.Angle * math.Pi / 180
		p := frac(u*math.Sin(rad) - v*math.Cos(rad))
		return p < l.Edge || p > 1-l.Edge
	}
	return false
}

// Covers reports whether the pattern color shows at canvas point (x, y)
// for a tile of the given pixel size at cycle position t.
func (d Descriptor) Covers(x, y float64, tileW, tileH float64, t float64) bool {
	if tileW <= 0 || tileH <= 0 {
		return false
	}
	u, v := x/tileW, y/tileH
	for _, l := range d.Layers {
		if l.covers(u, v, t) {
			return true
		}
	}
	return false
}

func frac(f float64) float64 {
	return f - math.Floor(f)
}

// Settings is the session's background configuration.
type Settings struct {
	Color       shape.Color
	Pattern     int
	PatternSize int
	Speed       int
}

// DefaultSettings returns the configuration of a fresh session.
func DefaultSettings() Settings {
	return Settings{
		Color:       DefaultColor,
		PatternSize: DefaultPatternSize,
		Speed:       DefaultSpeed,
	}
}

// Cycle selects the next pattern in the list.
func (s *Settings) Cycle() {
	s.Pattern = (s.Pattern + 1) % len(Patterns)
}

// SetPatternSize stores size bounded to the slider range.
func (s *Settings) SetPatternSize(size int) {
	s.PatternSize = geom.ClampValue(size, MinPatternSize, MaxPatternSize)
}

// SetSpeed stores speed bounded to the slider range.
func (s *Settings) SetSpeed(speed int) {
	s.Speed = geom.ClampValue(speed, MinSpeed, MaxSpeed)
}

// Selected returns the active pattern, tolerating out-of-range indexes.
func (s Settings) Selected() Pattern {
	i := s.Pattern % len(Patterns)
	if i < 0 {
		i += len(Patterns)
	}
	return Patterns[i]
}

// Describe resolves the active pattern for the current color.
func (s Settings) Describe() Descriptor {
	return s.Selected().Describe(s.Color)
}

// Tile returns the pattern tile size in canvas pixels.
func (s Settings) Tile() (float64, float64) {
	w := float64(s.PatternSize)
	return w, w * TileAspect
}

// CycleDuration is how long one animation loop takes: faster speed, shorter loop.
func (s Settings) CycleDuration() time.Duration {
	speed := geom.ClampValue(s.Speed, MinSpeed, MaxSpeed)
	return time.Duration(11-speed) * time.Second
}

// Phase maps elapsed time to a cycle position in [0,1).
func (s Settings) Phase(elapsed time.Duration) float64 {
	d := s.CycleDuration()
	return float64(elapsed%d) / float64(d)
}
