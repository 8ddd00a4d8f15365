// Package monster builds whole monsters and single parts out of shapes.
package monster

import (
	"fmt"
	"math"

	"monster-maker/internal/geom"
	"monster-maker/internal/shape"
)

// Builder is the shape store a Generator populates.
type Builder interface {
	Clear()
	Add(d shape.Descriptor) (shape.Shape, error)
	Len() int
	Body() (shape.Shape, bool)
	SetBackgroundColor(c shape.Color)
}

// Generator draws every random choice from its own injected source.
type Generator struct {
	rng geom.Rand
}

// NewGenerator returns a generator drawing from rng.
func NewGenerator(rng geom.Rand) *Generator {
	return &Generator{rng: rng}
}

// between returns a uniform integer in [lo, hi).
func (g *Generator) between(lo, hi int) int {
	return lo + g.rng.IntN(hi-lo)
}

func pick[T any](g *Generator, list []T) T {
	return list[g.rng.IntN(len(list))]
}

// Generate replaces the builder's shapes with a new monster: one body,
// two eyes each with a pupil, and one to three teeth. It returns the new
// background color.
func (g *Generator) Generate(b Builder) (shape.Color, error) {
	b.Clear()
	bg := shape.RandomColor(g.rng)
	b.SetBackgroundColor(bg)

	bodySize := g.between(200, 400)
	style := pick(g, shape.BodyStyles)
	bodyX := geom.CenterWithin(shape.CanvasWidth, bodySize)
	bodyY := geom.CenterWithin(shape.CanvasHeight, bodySize)
	if _, err := b.Add(shape.Descriptor{
		Kind:     shape.Body,
		ClipPath: style.ClipPath,
		Color:    shape.RandomColor(g.rng),
		Size:     bodySize,
		Pos:      shape.At(bodyX, bodyY),
	}); err != nil {
		return bg, fmt.Errorf("generate body: %w", err)
	}

	eyeSize := g.between(20, 50)
	fs, fe := float64(bodySize), float64(eyeSize)
	eyeY := bodyY + round(fs/3-fe/2)
	for _, eyeX := range []int{
		bodyX + round(fs/4-fe/2),
		bodyX + round(3*fs/4-fe/2),
	} {
		if err := g.addEyeAt(b, eyeX, eyeY, eyeSize); err != nil {
			return bg, fmt.Errorf("generate eyes: %w", err)
		}
	}

	teeth := g.between(1, 4)
	for i := 0; i < teeth; i++ {
		tooth := pick(g, shape.ToothStyles)
		size := g.between(20, 50)
		x := geom.RandomPointWithin(g.rng, bodyX, bodySize, size)
		lower := bodyY + round(2*fs/3)
		y := geom.RandomPointWithin(g.rng, lower, bodyY+bodySize-lower, size)
		if _, err := b.Add(shape.Descriptor{
			Kind:     shape.Tooth,
			ClipPath: tooth.ClipPath,
			Color:    shape.White,
			Size:     size,
			Pos:      shape.At(x, y),
		}); err != nil {
			return bg, fmt.Errorf("generate teeth: %w", err)
		}
	}

	return bg, nil
}

// addEyeAt adds a white eye and a black pupil of half its size centered in it.
func (g *Generator) addEyeAt(b Builder, x, y, size int) error {
	if _, err := b.Add(shape.Descriptor{
		Kind:     shape.Eye,
		ClipPath: shape.ClipCircle,
		Color:    shape.White,
		Size:     size,
		Pos:      shape.At(x, y),
	}); err != nil {
		return err
	}
	pupil := size / 2
	off := round(float64(size-pupil) / 2)
	_, err := b.Add(shape.Descriptor{
		Kind:     shape.Pupil,
		ClipPath: shape.ClipCircle,
		Color:    shape.Black,
		Size:     pupil,
		Pos:      shape.At(x+off, y+off),
	})
	return err
}

// AddEye places an eye with its pupil somewhere inside the body.
func (g *Generator) AddEye(b Builder) error {
	if b.Len() >= shape.MaxShapes-1 {
		return fmt.Errorf("add eye and pupil: %w", shape.ErrCapacityExceeded)
	}
	body, ok := b.Body()
	if !ok {
		return fmt.Errorf("add eye: %w", shape.ErrMissingPrerequisite)
	}
	size := g.between(20, 50)
	x := geom.RandomPointWithin(g.rng, body.X, body.Size, size)
	y := geom.RandomPointWithin(g.rng, body.Y, body.Size, size)
	return g.addEyeAt(b, x, y, size)
}

// AddTooth adds a random tooth using the repository's default placement.
func (g *Generator) AddTooth(b Builder) (shape.Shape, error) {
	tooth := pick(g, shape.ToothStyles)
	return b.Add(shape.Descriptor{
		Kind:     shape.Tooth,
		ClipPath: tooth.ClipPath,
		Color:    shape.White,
		Size:     g.between(20, 50),
	})
}

// AddBodyPart adds a randomly styled, randomly colored body shape.
func (g *Generator) AddBodyPart(b Builder) (shape.Shape, error) {
	style := pick(g, shape.BodyStyles)
	return b.Add(shape.Descriptor{
		Kind:     shape.Body,
		ClipPath: style.ClipPath,
		Color:    shape.RandomColor(g.rng),
		Size:     g.between(50, 150),
	})
}

func round(f float64) int {
	return int(math.Round(f))
}
