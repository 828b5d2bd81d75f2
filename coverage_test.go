package lines

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestCoverage(t *testing.T) {
	aa := mgl32.Vec2{2, 2}
	p := LineParams{Width: 10, HalfLength: 100}

	tests := []struct {
		name string
		u, v float32
		want float32
	}{
		{"center", 0, 0, 1},
		{"inside the solid core", 3, 40, 1},
		{"on the width edge", 10, 0, 0},
		{"on the length edge", 0, 100, 0},
		{"outside corner", 10, 100, 0},
		{"negative side matches positive", -3, -40, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := p
			q.U, q.V = tt.u, tt.v
			if got := Coverage(q, aa); !approx(got, tt.want) {
				t.Errorf("Coverage(u=%g, v=%g) = %g, want %g", tt.u, tt.v, got, tt.want)
			}
		})
	}
}

func TestCoverageMonotonicFalloff(t *testing.T) {
	// Moving outward across the AA band only ever lowers coverage.
	aa := mgl32.Vec2{2, 2}
	p := LineParams{V: 0, Width: 4, HalfLength: 100}

	prev := float32(2)
	for u := float32(0); u <= 4; u += 0.25 {
		p.U = u
		got := Coverage(p, aa)
		if got > prev {
			t.Fatalf("coverage rose from %g to %g at u=%g", prev, got, u)
		}
		prev = got
	}
	if prev != 0 {
		t.Errorf("coverage at the quad edge = %g, want 0", prev)
	}
}

func TestCoverageTakesNarrowerAxis(t *testing.T) {
	aa := mgl32.Vec2{2, 2}

	// Halfway through the width falloff but solid along the length: the
	// width axis must win.
	p := LineParams{U: 3, V: 0, Width: 4, HalfLength: 100}
	across := Coverage(p, aa)
	if across <= 0 || across >= 1 {
		t.Fatalf("coverage inside the falloff band = %g, want in (0, 1)", across)
	}

	p.V = 50
	if got := Coverage(p, aa); !approx(got, across) {
		t.Errorf("coverage with solid v = %g, want %g from the width axis", got, across)
	}
}
