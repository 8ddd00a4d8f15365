// Package shape holds the monster's shape records and the repository that
// places and constrains them on the canvas.
package shape

import (
	"errors"
	"fmt"

	"monster-maker/internal/geom"
)

const (
	// CanvasWidth and CanvasHeight define the shared coordinate space.
	CanvasWidth  = 800
	CanvasHeight = 600

	// MaxShapes caps the collection size.
	MaxShapes = 30

	// MinEditSize and MaxEditSize bound sizes chosen from editor controls.
	MinEditSize = 10
	MaxEditSize = 300
)

var (
	ErrCapacityExceeded    = errors.New("maximum number of shapes reached")
	ErrMissingPrerequisite = errors.New("a body is required first")
	ErrInvalidSize         = errors.New("shape size must be positive")
)

// Kind identifies what part of the monster a shape is.
type Kind string

const (
	Body  Kind = "body"
	Eye   Kind = "eye"
	Pupil Kind = "pupil"
	Tooth Kind = "tooth"
)

// Kinds lists every known kind in display order.
var Kinds = []Kind{Body, Eye, Pupil, Tooth}

// Shape is a colored square clipped to an outline. It is a plain value;
// copies never share state.
type Shape struct {
	ID       string
	Kind     Kind
	ClipPath ClipPath
	Color    Color
	Size     int
	X, Y     int
}

// Bounds returns the shape's bounding square.
func (s Shape) Bounds() geom.Rect {
	return geom.Square(s.X, s.Y, s.Size)
}

func (s Shape) String() string {
	return fmt.Sprintf("%s %s size=%d at (%d,%d)", s.Kind, s.ID, s.Size, s.X, s.Y)
}

// Pos is an explicit top-left placement.
type Pos struct {
	X, Y int
}

// Descriptor describes a shape to add. A nil Pos asks the repository to
// choose a position.
type Descriptor struct {
	Kind     Kind
	ClipPath ClipPath
	Color    Color
	Size     int
	Pos      *Pos
}

// At is shorthand for an explicit placement.
func At(x, y int) *Pos {
	return &Pos{X: x, Y: y}
}

// Patch lists fields to merge into an existing shape. Nil fields are left alone.
type Patch struct {
	ClipPath *ClipPath
	Color    *Color
	Size     *int
	X, Y     *int
}

// Move returns a patch that sets the position.
func Move(x, y int) Patch {
	return Patch{X: &x, Y: &y}
}

// Resize returns a patch that sets the size.
func Resize(size int) Patch {
	return Patch{Size: &size}
}

// Recolor returns a patch that sets the color.
func Recolor(c Color) Patch {
	return Patch{Color: &c}
}

func (p Patch) apply(s Shape) Shape {
	if p.ClipPath != nil {
		s.ClipPath = *p.ClipPath
	}
	if p.Color != nil {
		s.Color = *p.Color
	}
	if p.Size != nil {
		s.Size = *p.Size
	}
	if p.X != nil {
		s.X = *p.X
	}
	if p.Y != nil {
		s.Y = *p.Y
	}
	return s
}
