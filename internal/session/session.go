// Package session is the single access point to a monster editing session:
// the shape collection, the background configuration, and the
// editing/preview mode.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"monster-maker/internal/background"
	"monster-maker/internal/geom"
	"monster-maker/internal/monster"
	"monster-maker/internal/shape"
)

// CloseRevealDelay is how long a preview stays up before it may be closed.
const CloseRevealDelay = 2500 * time.Millisecond

var (
	// ErrNotConfigured means a caller looked for a session where none was installed.
	ErrNotConfigured = errors.New("session used outside an initialized session context")
	// ErrInvalidTransition means the requested mode change is not allowed from the current mode.
	ErrInvalidTransition = errors.New("invalid mode transition")
)

// Mode is the editor view state.
type Mode int

const (
	Editing Mode = iota
	Previewing
)

func (m Mode) String() string {
	if m == Previewing {
		return "preview"
	}
	return "editing"
}

// Snapshot is an independent copy of the shapes and background.
type Snapshot struct {
	Shapes     []shape.Shape
	Background background.Settings
}

// Preview is the immutable record captured by "save and preview".
type Preview struct {
	ID        string
	Snapshot  Snapshot
	CreatedAt time.Time
}

// CloseReady reports whether the close control is revealed at now.
func (p *Preview) CloseReady(now time.Time) bool {
	return !now.Before(p.CreatedAt.Add(CloseRevealDelay))
}

// Session owns one monster. It is not safe for concurrent use: exactly
// one goroutine mutates it.
type Session struct {
	shapes   *shape.Repository
	gen      *monster.Generator
	rng      geom.Rand
	bg       background.Settings
	mode     Mode
	preview  *Preview
	revision uint64
}

// New returns an empty session in editing mode.
func New(rng geom.Rand, opts ...shape.Option) *Session {
	return &Session{
		shapes: shape.NewRepository(rng, opts...),
		gen:    monster.NewGenerator(rng),
		rng:    rng,
		bg:     background.DefaultSettings(),
	}
}

// Revision increases on every committed mutation.
func (s *Session) Revision() uint64 { return s.revision }

func (s *Session) commit() { s.revision++ }

// Shapes returns a copy of the shapes in draw order.
func (s *Session) Shapes() []shape.Shape { return s.shapes.Shapes() }

// Shape returns one shape by id.
func (s *Session) Shape(id string) (shape.Shape, bool) { return s.shapes.Get(id) }

// ShapeAt returns the topmost shape under a canvas point.
func (s *Session) ShapeAt(x, y int) (shape.Shape, bool) { return s.shapes.TopmostAt(x, y) }

// Len returns the number of shapes.
func (s *Session) Len() int { return s.shapes.Len() }

// Body returns the anchor body.
func (s *Session) Body() (shape.Shape, bool) { return s.shapes.Body() }

// Add implements monster.Builder.
func (s *Session) Add(d shape.Descriptor) (shape.Shape, error) {
	return s.AddShape(d)
}

// AddShape adds a shape; see shape.Repository.Add.
func (s *Session) AddShape(d shape.Descriptor) (shape.Shape, error) {
	sh, err := s.shapes.Add(d)
	if err != nil {
		return sh, err
	}
	s.commit()
	return sh, nil
}

// UpdateShape merges a patch; see shape.Repository.Update.
func (s *Session) UpdateShape(id string, p shape.Patch) (shape.Shape, bool, error) {
	sh, found, err := s.shapes.Update(id, p)
	if found && err == nil {
		s.commit()
	}
	return sh, found, err
}

// RecolorShape gives a shape a new random color.
func (s *Session) RecolorShape(id string) (shape.Shape, bool, error) {
	return s.UpdateShape(id, shape.Recolor(shape.RandomColor(s.rng)))
}

// RemoveShape deletes a shape if present.
func (s *Session) RemoveShape(id string) bool {
	if !s.shapes.Remove(id) {
		return false
	}
	s.commit()
	return true
}

// TranslateByKind nudges every shape of the given kinds.
func (s *Session) TranslateByKind(kinds []shape.Kind, dx, dy int) {
	if s.shapes.TranslateByKind(kinds, dx, dy) > 0 {
		s.commit()
	}
}

// Clear removes all shapes.
func (s *Session) Clear() {
	s.shapes.Clear()
	s.commit()
}

// Generate replaces the shapes with a fresh random monster and returns
// the new background color.
func (s *Session) Generate() (shape.Color, error) {
	return s.gen.Generate(s)
}

// AddEye adds an eye and pupil inside the body.
func (s *Session) AddEye() error { return s.gen.AddEye(s) }

// AddTooth adds a random tooth.
func (s *Session) AddTooth() (shape.Shape, error) { return s.gen.AddTooth(s) }

// AddBodyPart adds a random body shape.
func (s *Session) AddBodyPart() (shape.Shape, error) { return s.gen.AddBodyPart(s) }

// Background returns the background settings.
func (s *Session) Background() background.Settings { return s.bg }

// SetBackgroundColor implements monster.Builder.
func (s *Session) SetBackgroundColor(c shape.Color) {
	s.bg.Color = c
	s.commit()
}

// RandomizeBackgroundColor picks a new background color.
func (s *Session) RandomizeBackgroundColor() shape.Color {
	s.SetBackgroundColor(shape.RandomColor(s.rng))
	return s.bg.Color
}

// CycleBackground selects the next background pattern.
func (s *Session) CycleBackground() background.Pattern {
	s.bg.Cycle()
	s.commit()
	return s.bg.Selected()
}

// SetPatternSize sets the pattern tile width.
func (s *Session) SetPatternSize(size int) {
	s.bg.SetPatternSize(size)
	s.commit()
}

// SetSpeed sets the animation speed.
func (s *Session) SetSpeed(speed int) {
	s.bg.SetSpeed(speed)
	s.commit()
}

// Snapshot copies the current shapes and background.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{Shapes: s.shapes.Shapes(), Background: s.bg}
}

// Mode returns the current view state.
func (s *Session) Mode() Mode { return s.mode }

// Preview returns the open preview, or nil while editing.
func (s *Session) Preview() *Preview { return s.preview }

// SaveAndPreview captures a snapshot and switches to preview mode.
func (s *Session) SaveAndPreview(now time.Time) (*Preview, error) {
	if s.mode != Editing {
		return nil, fmt.Errorf("save and preview from %s: %w", s.mode, ErrInvalidTransition)
	}
	s.preview = &Preview{
		ID:        uuid.NewString(),
		Snapshot:  s.Snapshot(),
		CreatedAt: now,
	}
	s.mode = Previewing
	s.commit()
	return s.preview, nil
}

// ClosePreview discards the preview record and returns to editing.
func (s *Session) ClosePreview() (*Preview, error) {
	if s.mode != Previewing {
		return nil, fmt.Errorf("close preview from %s: %w", s.mode, ErrInvalidTransition)
	}
	p := s.preview
	s.preview = nil
	s.mode = Editing
	s.commit()
	return p, nil
}

type ctxKey struct{}

// NewContext returns a context carrying s.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session installed by NewContext.
func FromContext(ctx context.Context) (*Session, error) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	if !ok || s == nil {
		return nil, ErrNotConfigured
	}
	return s, nil
}

// MustFromContext is FromContext for code paths where a missing session
// is a programming error.
func MustFromContext(ctx context.Context) *Session {
	s, err := FromContext(ctx)
	if err != nil {
		panic(err)
	}
	return s
}
