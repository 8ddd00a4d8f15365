package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"monster-maker/internal/geom"
	"monster-maker/internal/shape"
)

func newSession(seed uint64) *Session {
	return New(geom.NewRand(seed))
}

func TestGenerateUpdatesBackground(t *testing.T) {
	s := newSession(11)
	bg, err := s.Generate()
	if err != nil {
		t.Fatal(err)
	}
	if s.Background().Color != bg {
		t.Errorf("background %v, generator returned %v", s.Background().Color, bg)
	}
	if s.Len() < 6 || s.Len() > 8 {
		t.Errorf("%d shapes", s.Len())
	}
}

func TestRevisionTracksCommits(t *testing.T) {
	s := newSession(1)
	r0 := s.Revision()
	b, _ := s.AddShape(shape.Descriptor{Kind: shape.Body, Size: 200})
	r1 := s.Revision()
	if r1 <= r0 {
		t.Fatal("add did not bump revision")
	}

	s.UpdateShape("missing", shape.Move(1, 1))
	s.RemoveShape("missing")
	if s.Revision() != r1 {
		t.Error("no-op mutations bumped revision")
	}

	s.UpdateShape(b.ID, shape.Move(10, 10))
	if s.Revision() == r1 {
		t.Error("update did not bump revision")
	}
}

func TestReadsSeeLatestMutation(t *testing.T) {
	s := newSession(1)
	b, _ := s.AddShape(shape.Descriptor{Kind: shape.Body, Size: 200})
	s.UpdateShape(b.ID, shape.Move(12, 34))
	got, _ := s.Shape(b.ID)
	if got.X != 12 || got.Y != 34 {
		t.Errorf("read (%d,%d) after update", got.X, got.Y)
	}
}

func TestSnapshotIndependence(t *testing.T) {
	s := newSession(2)
	if _, err := s.Generate(); err != nil {
		t.Fatal(err)
	}
	snap := s.Snapshot()
	first := snap.Shapes[0]
	n := len(snap.Shapes)
	bg := snap.Background

	s.UpdateShape(first.ID, shape.Move(0, 0))
	s.RemoveShape(snap.Shapes[1].ID)
	s.SetPatternSize(200)
	s.CycleBackground()
	s.Clear()

	if len(snap.Shapes) != n || snap.Shapes[0] != first || snap.Background != bg {
		t.Error("snapshot changed after live mutations")
	}
}

func TestPreviewStateMachine(t *testing.T) {
	s := newSession(3)
	s.Generate()
	now := time.Unix(1000, 0)

	if _, err := s.ClosePreview(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("close while editing: %v", err)
	}

	p, err := s.SaveAndPreview(now)
	if err != nil {
		t.Fatal(err)
	}
	if s.Mode() != Previewing || s.Preview() != p {
		t.Fatalf("mode %s", s.Mode())
	}
	if _, err := s.SaveAndPreview(now); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("double preview: %v", err)
	}

	if p.CloseReady(now.Add(time.Second)) {
		t.Error("close revealed too early")
	}
	if !p.CloseReady(now.Add(CloseRevealDelay)) {
		t.Error("close not revealed after delay")
	}

	live := s.Shapes()
	closed, err := s.ClosePreview()
	if err != nil || closed != p {
		t.Fatalf("close: %v", err)
	}
	if s.Mode() != Editing || s.Preview() != nil {
		t.Error("preview not discarded")
	}
	after := s.Shapes()
	if len(after) != len(live) {
		t.Error("closing preview changed live shapes")
	}
}

func TestPreviewIsolatedFromEdits(t *testing.T) {
	s := newSession(4)
	s.Generate()
	p, _ := s.SaveAndPreview(time.Now())
	s.ClosePreview()
	s.Clear()
	if len(p.Snapshot.Shapes) == 0 {
		t.Error("preview lost its shapes")
	}
}

func TestPartHelpers(t *testing.T) {
	s := newSession(5)
	if err := s.AddEye(); !errors.Is(err, shape.ErrMissingPrerequisite) {
		t.Fatalf("eye without body: %v", err)
	}
	if _, err := s.AddBodyPart(); err != nil {
		t.Fatal(err)
	}
	if err := s.AddEye(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddTooth(); err != nil {
		t.Fatal(err)
	}
	if s.Len() != 4 {
		t.Errorf("len %d, want 4", s.Len())
	}
}

func TestBackgroundControls(t *testing.T) {
	s := newSession(6)
	c := s.RandomizeBackgroundColor()
	if s.Background().Color != c {
		t.Error("random color not stored")
	}
	if p := s.CycleBackground(); p.Name != "Waves" {
		t.Errorf("cycled to %s", p.Name)
	}
	s.SetSpeed(0)
	if s.Background().Speed != 1 {
		t.Errorf("speed %d", s.Background().Speed)
	}
}

func TestContextAccess(t *testing.T) {
	if _, err := FromContext(context.Background()); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v", err)
	}
	s := newSession(1)
	ctx := NewContext(context.Background(), s)
	if got := MustFromContext(ctx); got != s {
		t.Error("wrong session")
	}

	defer func() {
		if recover() == nil {
			t.Error("MustFromContext did not panic")
		}
	}()
	MustFromContext(context.Background())
}

func TestRecolorShape(t *testing.T) {
	s := newSession(4)
	b, _ := s.AddShape(shape.Descriptor{Kind: shape.Body, Size: 100, Color: shape.Black})
	got, found, err := s.RecolorShape(b.ID)
	if err != nil || !found {
		t.Fatalf("found=%v err=%v", found, err)
	}
	if got.Color == shape.Black {
		t.Error("color unchanged")
	}
	if _, found, _ := s.RecolorShape("missing"); found {
		t.Error("recolored a missing shape")
	}
}
