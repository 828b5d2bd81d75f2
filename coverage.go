package lines

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Coverage evaluates the anti-aliasing mask the fragment stage applies to an
// expanded quad. It is the executable contract for LineParams: a fragment's
// final alpha is its interpolated color alpha multiplied by this value.
//
// The mask is the product of two independent falloffs, one across the line
// width and one along its length. Each falloff is fully opaque inside the
// nominal edge and rolls off to zero over the aaRadius band via a smoothstep
// centered on that edge. The narrower of the two wins, so corners fade
// correctly.
//
// p carries the signed local coordinates and denominators produced by
// Expander.Expand; aaRadius must be the same value passed to Expand.
func Coverage(p LineParams, aaRadius mgl32.Vec2) float32 {
	au := 1 - smoothstep(1-(2*aaRadius[0])/p.Width, 1, math32.Abs(p.U/p.Width))
	av := 1 - smoothstep(1-(2*aaRadius[1])/p.HalfLength, 1, math32.Abs(p.V/p.HalfLength))
	return math32.Min(au, av)
}

// smoothstep is the GLSL smoothstep: 0 below edge0, 1 above edge1, cubic
// Hermite interpolation in between.
func smoothstep(edge0, edge1, x float32) float32 {
	t := (x - edge0) / (edge1 - edge0)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return t * t * (3 - 2*t)
}
