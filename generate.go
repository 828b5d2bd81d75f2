package lines

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// AppendBenchmarkLines appends the reference benchmark scene to dst and
// returns the extended slice. The scene is deterministic: a fan of vertical
// segments with widths stepping from half a pixel upward, and a ring of
// radial spokes between two concentric circles. Together they cover
// sub-pixel, single-pixel, and wide lines at many orientations.
func AppendBenchmarkLines(dst []Vertex) []Vertex {
	black := RGBA{R: 0, G: 0, B: 0, A: 1}

	width := float32(0.5)
	for f := float32(-7.2); f < 2.2; f += 0.6 {
		dst = append(dst,
			Vertex{Position: mgl32.Vec3{f - 0.4, -2, 0}, Width: width, Color: black},
			Vertex{Position: mgl32.Vec3{f + 0.4, 2, 0}, Width: width, Color: black},
		)
		width += 1
	}

	const spokes = 32
	const innerRadius, outerRadius = float32(0.4), float32(2.0)
	const cx, cy = float32(4.5), float32(0.0)
	dTheta := 2 * math32.Pi / spokes

	for i := 0; i < spokes; i++ {
		sin, cos := math32.Sincos(float32(i) * dTheta)
		dst = append(dst,
			Vertex{Position: mgl32.Vec3{cx + innerRadius*sin, cy + innerRadius*cos, 0}, Width: 1, Color: black},
			Vertex{Position: mgl32.Vec3{cx + outerRadius*sin, cy + outerRadius*cos, 0}, Width: 1, Color: black},
		)
	}

	return dst
}
