package shape

import (
	"fmt"

	"github.com/google/uuid"

	"monster-maker/internal/geom"
)

// Repository is the authoritative ordered shape collection. Order is draw
// order: later shapes render on top. It is not safe for concurrent use;
// callers serialize access through a single owner.
type Repository struct {
	shapes []Shape
	rng    geom.Rand
	newID  func() string
}

// Option configures a Repository.
type Option func(*Repository)

// WithIDFunc overrides the id generator.
func WithIDFunc(fn func() string) Option {
	return func(r *Repository) { r.newID = fn }
}

// NewRepository returns an empty repository placing shapes with rng.
func NewRepository(rng geom.Rand, opts ...Option) *Repository {
	r := &Repository{
		rng:   rng,
		newID: uuid.NewString,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Add appends a new shape and returns a copy of it with its id and
// resolved position.
func (r *Repository) Add(d Descriptor) (Shape, error) {
	if len(r.shapes) >= MaxShapes {
		return Shape{}, ErrCapacityExceeded
	}
	if d.Size <= 0 {
		return Shape{}, fmt.Errorf("add %s: %w", d.Kind, ErrInvalidSize)
	}

	s := Shape{
		ID:       r.newID(),
		Kind:     d.Kind,
		ClipPath: d.ClipPath,
		Color:    d.Color,
		Size:     d.Size,
	}

	if d.Pos != nil {
		s.X, s.Y = d.Pos.X, d.Pos.Y
	} else {
		s.X, s.Y = r.place(d.Kind, d.Size)
	}

	r.shapes = append(r.shapes, s)
	return s, nil
}

func (r *Repository) place(kind Kind, size int) (int, int) {
	if kind == Body {
		return geom.CenterWithin(CanvasWidth, size), geom.CenterWithin(CanvasHeight, size)
	}
	if body, ok := r.Body(); ok {
		return geom.RandomPointWithin(r.rng, body.X, body.Size, size),
			geom.RandomPointWithin(r.rng, body.Y, body.Size, size)
	}
	return geom.RandomPointWithin(r.rng, 0, CanvasWidth, size),
		geom.RandomPointWithin(r.rng, 0, CanvasHeight, size)
}

// Update merges p into the shape with the given id. An unknown id is a
// silent no-op and reports found=false. Non-body shapes are reclamped to
// the body's bounds as they are at this moment.
func (r *Repository) Update(id string, p Patch) (s Shape, found bool, err error) {
	i := r.index(id)
	if i < 0 {
		return Shape{}, false, nil
	}
	if p.Size != nil && *p.Size <= 0 {
		return r.shapes[i], true, fmt.Errorf("update %s: %w", id, ErrInvalidSize)
	}

	old := r.shapes[i]
	s = p.apply(old)
	if body, ok := r.Body(); ok && old.Kind != Body {
		s.X = geom.Clamp(s.X, s.Size, body.X, body.Size)
		s.Y = geom.Clamp(s.Y, s.Size, body.Y, body.Size)
	}
	r.shapes[i] = s
	return s, true, nil
}

// Remove deletes the shape with the given id. Dependents of a removed
// body are left where they are.
func (r *Repository) Remove(id string) bool {
	i := r.index(id)
	if i < 0 {
		return false
	}
	r.shapes = append(r.shapes[:i], r.shapes[i+1:]...)
	return true
}

// TranslateByKind shifts every shape of the given kinds by (dx, dy),
// keeping each inside the canvas. It returns the number of shapes moved.
func (r *Repository) TranslateByKind(kinds []Kind, dx, dy int) int {
	n := 0
	for i, s := range r.shapes {
		if !containsKind(kinds, s.Kind) {
			continue
		}
		s.X = geom.Clamp(s.X+dx, s.Size, 0, CanvasWidth)
		s.Y = geom.Clamp(s.Y+dy, s.Size, 0, CanvasHeight)
		r.shapes[i] = s
		n++
	}
	return n
}

// Clear empties the collection.
func (r *Repository) Clear() {
	r.shapes = nil
}

// Shapes returns a copy of the collection in draw order.
func (r *Repository) Shapes() []Shape {
	out := make([]Shape, len(r.shapes))
	copy(out, r.shapes)
	return out
}

// Len returns the number of shapes.
func (r *Repository) Len() int {
	return len(r.shapes)
}

// Get returns the shape with the given id.
func (r *Repository) Get(id string) (Shape, bool) {
	if i := r.index(id); i >= 0 {
		return r.shapes[i], true
	}
	return Shape{}, false
}

// Body returns the anchor body: the first body in draw order.
func (r *Repository) Body() (Shape, bool) {
	for _, s := range r.shapes {
		if s.Kind == Body {
			return s, true
		}
	}
	return Shape{}, false
}

// TopmostAt returns the last-drawn shape whose bounding square contains
// the canvas point.
func (r *Repository) TopmostAt(x, y int) (Shape, bool) {
	for i := len(r.shapes) - 1; i >= 0; i-- {
		if r.shapes[i].Bounds().Contains(x, y) {
			return r.shapes[i], true
		}
	}
	return Shape{}, false
}

func (r *Repository) index(id string) int {
	for i, s := range r.shapes {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func containsKind(kinds []Kind, k Kind) bool {
	for _, kk := range kinds {
		if kk == k {
			return true
		}
	}
	return false
}
