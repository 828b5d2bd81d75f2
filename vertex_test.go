package lines

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func f32At(t *testing.T, buf []byte, off int) float32 {
	t.Helper()
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
}

func TestPackVertices(t *testing.T) {
	src := []Vertex{
		{Position: mgl32.Vec3{1, 2, 3}, Width: 4, Color: RGBA{R: 0.5, G: 0.25, B: 0.125, A: 1}},
		{Position: mgl32.Vec3{-1, -2, -3}, Width: 0.5, Color: RGB(0, 1, 0)},
	}
	buf := make([]byte, len(src)*VertexStride)
	if n := PackVertices(buf, src); n != len(buf) {
		t.Fatalf("PackVertices wrote %d bytes, want %d", n, len(buf))
	}

	// Record layout: position xyz, width, color rgba.
	if got := f32At(t, buf, 0); got != 1 {
		t.Errorf("x = %g, want 1", got)
	}
	if got := f32At(t, buf, 12); got != 4 {
		t.Errorf("width = %g, want 4", got)
	}
	if got := f32At(t, buf, 16); got != 0.5 {
		t.Errorf("r = %g, want 0.5", got)
	}
	if got := f32At(t, buf, VertexStride+4); got != -2 {
		t.Errorf("second vertex y = %g, want -2", got)
	}
	if got := f32At(t, buf, VertexStride+20); got != 1 {
		t.Errorf("second vertex g = %g, want 1", got)
	}
}

func TestPackExpandedVertices(t *testing.T) {
	src := []ExpandedVertex{{
		ClipPosition: mgl32.Vec4{1, 2, 3, 4},
		Color:        RGB(1, 0, 0),
		Params:       LineParams{U: -3, V: 100, Width: 3, HalfLength: 100},
	}}
	buf := make([]byte, ExpandedVertexStride)
	if n := PackExpandedVertices(buf, src); n != ExpandedVertexStride {
		t.Fatalf("PackExpandedVertices wrote %d bytes, want %d", n, ExpandedVertexStride)
	}

	// Record layout: clip xyzw, color rgba, params uv/width/halflength.
	if got := f32At(t, buf, 12); got != 4 {
		t.Errorf("w = %g, want 4", got)
	}
	if got := f32At(t, buf, 16); got != 1 {
		t.Errorf("r = %g, want 1", got)
	}
	if got := f32At(t, buf, 32); got != -3 {
		t.Errorf("u = %g, want -3", got)
	}
	if got := f32At(t, buf, 44); got != 100 {
		t.Errorf("half length = %g, want 100", got)
	}
}

func TestSegmentCount(t *testing.T) {
	tests := []struct {
		n, want int
	}{
		{0, 0}, {1, 0}, {2, 1}, {3, 1}, {8, 4},
	}
	for _, tt := range tests {
		if got := SegmentCount(tt.n); got != tt.want {
			t.Errorf("SegmentCount(%d) = %d, want %d", tt.n, got, tt.want)
		}
		if got := QuadVertexCount(tt.n); got != tt.want*VerticesPerSegment {
			t.Errorf("QuadVertexCount(%d) = %d, want %d", tt.n, got, tt.want*VerticesPerSegment)
		}
	}
}
