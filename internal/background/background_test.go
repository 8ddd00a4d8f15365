package background

import (
	"testing"
	"time"

	"monster-maker/internal/shape"
)

func TestPatternsArePure(t *testing.T) {
	c := shape.Color{R: 10, G: 20, B: 30}
	for _, p := range Patterns {
		a, b := p.Describe(c), p.Describe(c)
		if a.Name != p.Name || a.Color != c {
			t.Errorf("%s: descriptor %s/%v", p.Name, a.Name, a.Color)
		}
		if len(a.Layers) == 0 || len(a.Layers) != len(b.Layers) {
			t.Errorf("%s: layers %d vs %d", p.Name, len(a.Layers), len(b.Layers))
		}
	}
}

func TestPatternsPaintSomethingButNotEverything(t *testing.T) {
	for _, p := range Patterns {
		d := p.Describe(shape.White)
		covered, total := 0, 0
		for y := 0.0; y < 175; y += 2 {
			for x := 0.0; x < 100; x += 2 {
				total++
				if d.Covers(x, y, 100, 175, 0.25) {
					covered++
				}
			}
		}
		if covered == 0 || covered == total {
			t.Errorf("%s covers %d of %d samples", p.Name, covered, total)
		}
	}
}

func TestLayerOffset(t *testing.T) {
	l := Layer{Frames: []Keyframe{{At: 0}, {At: 0.5, DX: 1, DY: -0.5}, {At: 1}}}
	tests := []struct {
		t, dx, dy float64
	}{
		{0, 0, 0},
		{0.25, 0.5, -0.25},
		{0.5, 1, -0.5},
		{0.75, 0.5, -0.25},
		{1, 0, 0},
	}
	for _, tt := range tests {
		dx, dy := l.offset(tt.t)
		if dx != tt.dx || dy != tt.dy {
			t.Errorf("offset(%v) = (%v,%v), want (%v,%v)", tt.t, dx, dy, tt.dx, tt.dy)
		}
	}
}

func TestSettings(t *testing.T) {
	s := DefaultSettings()
	if s.Color != DefaultColor || s.PatternSize != 100 || s.Speed != 5 || s.Pattern != 0 {
		t.Fatalf("defaults %+v", s)
	}
	for i := 0; i < len(Patterns); i++ {
		s.Cycle()
	}
	if s.Pattern != 0 {
		t.Errorf("cycle did not wrap: %d", s.Pattern)
	}
	s.Cycle()
	if s.Selected().Name != "Waves" {
		t.Errorf("selected %s", s.Selected().Name)
	}

	s.SetPatternSize(10)
	s.SetSpeed(99)
	if s.PatternSize != MinPatternSize || s.Speed != MaxSpeed {
		t.Errorf("clamping: %+v", s)
	}
	if s.CycleDuration() != time.Second {
		t.Errorf("speed 10 cycle %v", s.CycleDuration())
	}
	if w, h := s.Tile(); w != 50 || h != 87.5 {
		t.Errorf("tile %vx%v", w, h)
	}
	s.SetSpeed(1)
	if got := s.Phase(15 * time.Second); got != 0.5 {
		t.Errorf("phase = %v, want 0.5", got)
	}
}
