package shape

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"monster-maker/internal/geom"
)

// Color is an opaque RGB color.
type Color struct {
	R, G, B uint8
}

var (
	White = Color{255, 255, 255}
	Black = Color{0, 0, 0}
)

// Hex returns the #rrggbb form.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Color) String() string { return c.Hex() }

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}.RGBA()
}

// ParseColor accepts #rgb, #rrggbb, or a CSS color name.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) != 6 {
			return Color{}, fmt.Errorf("parse color %q: want #rgb or #rrggbb", s)
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return Color{}, fmt.Errorf("parse color %q: %w", s, err)
		}
		return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
	}
	if named, ok := colornames.Map[s]; ok {
		return Color{R: named.R, G: named.G, B: named.B}, nil
	}
	return Color{}, fmt.Errorf("parse color %q: unknown color", s)
}

// RandomColor picks a color the same way the web palette picker does:
// a uniform integer below 0xffffff.
func RandomColor(r geom.Rand) Color {
	v := r.IntN(0xffffff)
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
}
