package geom

import "testing"

type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }
func (f fixedRand) IntN(n int) int   { return int(float64(f) * float64(n)) }

func TestClamp(t *testing.T) {
	tests := []struct {
		name                               string
		pos, size, containerPos, container int
		want                               int
	}{
		{"inside", 350, 30, 300, 200, 350},
		{"before start", 250, 30, 300, 200, 300},
		{"past end", 490, 30, 300, 200, 470},
		{"exact end", 470, 30, 300, 200, 470},
		{"too big", 320, 250, 300, 200, 300},
		{"same size", 310, 200, 300, 200, 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.pos, tt.size, tt.containerPos, tt.container)
			if got != tt.want {
				t.Errorf("Clamp(%d,%d,%d,%d) = %d, want %d",
					tt.pos, tt.size, tt.containerPos, tt.container, got, tt.want)
			}
		})
	}
}

func TestRandomPointWithin(t *testing.T) {
	if got := RandomPointWithin(fixedRand(0), 100, 200, 50); got != 100 {
		t.Errorf("low end = %d, want 100", got)
	}
	if got := RandomPointWithin(fixedRand(0.5), 100, 200, 50); got != 175 {
		t.Errorf("midpoint = %d, want 175", got)
	}
	if got := RandomPointWithin(fixedRand(0.999), 100, 200, 50); got != 249 {
		t.Errorf("high end = %d, want 249", got)
	}
	if got := RandomPointWithin(fixedRand(0.7), 100, 40, 50); got != 100 {
		t.Errorf("oversized = %d, want container start", got)
	}
}

func TestRandomPointWithinStaysInside(t *testing.T) {
	r := NewRand(42)
	for i := 0; i < 1000; i++ {
		size := 10 + r.IntN(100)
		p := RandomPointWithin(r, 50, 300, size)
		if p < 50 || p+size > 350 {
			t.Fatalf("iteration %d: pos %d size %d escapes [50,350)", i, p, size)
		}
	}
}

func TestCenterWithin(t *testing.T) {
	if got := CenterWithin(800, 200); got != 300 {
		t.Errorf("CenterWithin(800,200) = %d, want 300", got)
	}
	if got := CenterWithin(600, 200); got != 200 {
		t.Errorf("CenterWithin(600,200) = %d, want 200", got)
	}
	if got := CenterWithin(600, 333); got != 133 {
		t.Errorf("CenterWithin(600,333) = %d, want 133", got)
	}
}

func TestClampValue(t *testing.T) {
	if got := ClampValue(5, 10, 300); got != 10 {
		t.Errorf("got %d, want 10", got)
	}
	if got := ClampValue(0.5, 0.0, 0.25); got != 0.25 {
		t.Errorf("got %v, want 0.25", got)
	}
}

func TestRect(t *testing.T) {
	body := Square(300, 200, 200)
	if !Square(335, 252, 30).Inside(body) {
		t.Error("eye should be inside body")
	}
	if Square(480, 252, 30).Inside(body) {
		t.Error("overhanging square reported inside")
	}
	if !body.Contains(300, 200) || body.Contains(500, 200) {
		t.Error("Contains uses half-open bounds")
	}
}
