package geom

import (
	"math/rand/v2"
	"time"

	"golang.org/x/exp/constraints"
)

// Rand is the random source used for placement and generation.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// NewRand returns a PCG-backed source. A zero seed picks one from the clock.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Clamp keeps a span of length size starting at pos inside the container
// span [containerPos, containerPos+containerSize). When size does not fit,
// the result is containerPos.
func Clamp(pos, size, containerPos, containerSize int) int {
	hi := containerPos + containerSize - size
	if pos > hi {
		pos = hi
	}
	if pos < containerPos {
		pos = containerPos
	}
	return pos
}

// RandomPointWithin picks a start position for a span of length size that
// fits inside the container span.
func RandomPointWithin(r Rand, containerPos, containerSize, size int) int {
	room := containerSize - size
	if room <= 0 {
		return containerPos
	}
	return containerPos + int(r.Float64()*float64(room))
}

// CenterWithin returns the offset that centers inner inside outer.
func CenterWithin(outerSize, innerSize int) int {
	return (outerSize - innerSize) / 2
}

// ClampValue bounds v to [lo, hi].
func ClampValue[T constraints.Integer | constraints.Float](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Rect is an axis-aligned square or rectangle in canvas coordinates.
type Rect struct {
	X, Y, W, H int
}

// Square returns the bounding square of side size at (x, y).
func Square(x, y, size int) Rect {
	return Rect{X: x, Y: y, W: size, H: size}
}

// Contains reports whether the point lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Inside reports whether r lies entirely within outer.
func (r Rect) Inside(outer Rect) bool {
	return r.X >= outer.X && r.Y >= outer.Y &&
		r.X+r.W <= outer.X+outer.W && r.Y+r.H <= outer.Y+outer.H
}
