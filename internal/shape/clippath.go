package shape

import (
	"fmt"
	"strconv"
	"strings"
)

// ClipPath is a declarative outline applied to a shape's bounding square,
// written in CSS clip-path syntax with percentage coordinates.
type ClipPath string

const (
	ClipCircle    ClipPath = "circle(50% at 50% 50%)"
	ClipSquare    ClipPath = "polygon(0% 0%, 100% 0%, 100% 100%, 0% 100%)"
	ClipTriangle  ClipPath = "polygon(50% 0%, 0% 100%, 100% 100%)"
	ClipPentagon  ClipPath = "polygon(50% 0%, 100% 38%, 82% 100%, 18% 100%, 0% 38%)"
	ClipHexagon   ClipPath = "polygon(25% 0%, 75% 0%, 100% 50%, 75% 100%, 25% 100%, 0% 50%)"
	ClipRectangle ClipPath = "polygon(25% 0%, 75% 0%, 75% 100%, 25% 100%)"
)

// Style is a named entry of a clip path palette.
type Style struct {
	Name     string
	ClipPath ClipPath
}

// BodyStyles is the palette for body shapes.
var BodyStyles = []Style{
	{"circle", ClipCircle},
	{"square", ClipSquare},
	{"triangle", ClipTriangle},
	{"pentagon", ClipPentagon},
	{"hexagon", ClipHexagon},
}

// ToothStyles is the palette for teeth.
var ToothStyles = []Style{
	{"triangle", ClipTriangle},
	{"square", ClipSquare},
	{"rectangle", ClipRectangle},
}

// Point is a position in unit coordinates of the bounding square.
type Point struct {
	X, Y float64
}

// Outline is a parsed clip path. Exactly one of Circle or Polygon is set.
type Outline struct {
	Circle  bool
	Center  Point
	Radius  float64
	Polygon []Point
}

// Contains reports whether the unit-space point lies inside the outline.
func (o Outline) Contains(p Point) bool {
	if o.Circle {
		dx, dy := p.X-o.Center.X, p.Y-o.Center.Y
		return dx*dx+dy*dy <= o.Radius*o.Radius
	}
	in := false
	n := len(o.Polygon)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := o.Polygon[i], o.Polygon[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			in = !in
		}
	}
	return in
}

// ParseClipPath parses the circle(...) and polygon(...) forms used by the palettes.
func ParseClipPath(cp ClipPath) (Outline, error) {
	s := strings.TrimSpace(string(cp))
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return Outline{}, fmt.Errorf("clip path %q: missing parentheses", s)
	}
	fn, body := s[:open], s[open+1:len(s)-1]

	switch fn {
	case "circle":
		// circle(R at CX CY)
		radius, at, ok := strings.Cut(body, " at ")
		if !ok {
			return Outline{}, fmt.Errorf("clip path %q: circle needs a center", s)
		}
		r, err := parsePercent(radius)
		if err != nil {
			return Outline{}, fmt.Errorf("clip path %q: %w", s, err)
		}
		c, err := parsePoint(at)
		if err != nil {
			return Outline{}, fmt.Errorf("clip path %q: %w", s, err)
		}
		return Outline{Circle: true, Center: c, Radius: r}, nil

	case "polygon":
		var pts []Point
		for _, part := range strings.Split(body, ",") {
			p, err := parsePoint(part)
			if err != nil {
				return Outline{}, fmt.Errorf("clip path %q: %w", s, err)
			}
			pts = append(pts, p)
		}
		if len(pts) < 3 {
			return Outline{}, fmt.Errorf("clip path %q: polygon needs at least 3 points", s)
		}
		return Outline{Polygon: pts}, nil
	}
	return Outline{}, fmt.Errorf("clip path %q: unsupported function %q", s, fn)
}

func parsePoint(s string) (Point, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return Point{}, fmt.Errorf("point %q: want two coordinates", strings.TrimSpace(s))
	}
	x, err := parsePercent(fields[0])
	if err != nil {
		return Point{}, err
	}
	y, err := parsePercent(fields[1])
	if err != nil {
		return Point{}, err
	}
	return Point{X: x, Y: y}, nil
}

func parsePercent(s string) (float64, error) {
	s = strings.TrimSpace(s)
	v, ok := strings.CutSuffix(s, "%")
	if !ok {
		return 0, fmt.Errorf("coordinate %q: want a percentage", s)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("coordinate %q: %w", s, err)
	}
	return f / 100, nil
}
