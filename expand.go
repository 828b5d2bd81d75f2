package lines

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrCapacityExceeded is returned when the destination buffer cannot hold the
// full expansion output. Nothing is written in that case.
var ErrCapacityExceeded = errors.New("lines: output buffer capacity exceeded")

// quadCorners drives the two-triangle emission per segment. The first
// component selects the endpoint (0 = A, 1 = B), the second the side of the
// line (+1 = normal direction, -1 = opposite). The order keeps both
// triangles wound consistently so back-face culling never drops one of them.
var quadCorners = [VerticesPerSegment][2]float32{
	{0, -1}, {0, 1}, {1, 1},
	{0, -1}, {1, 1}, {1, -1},
}

// Expander converts polyline segment buffers into screen-aligned quad vertex
// buffers. It holds no per-frame state; a single Expander may be reused for
// any number of Expand calls, one frame after another.
//
// Expander is not safe for concurrent use with a shared destination buffer;
// the caller must not let two goroutines expand into the same slice.
type Expander struct {
	opts expanderOptions
}

// NewExpander creates an Expander.
func NewExpander(opts ...Option) *Expander {
	e := &Expander{opts: defaultOptions()}
	for _, opt := range opts {
		opt(&e.opts)
	}
	return e
}

// logger returns the expander's logger, falling back to the package logger.
func (e *Expander) logger() *slog.Logger {
	if e.opts.logger != nil {
		return e.opts.logger
	}
	return Logger()
}

// Expand converts src, consumed in consecutive vertex pairs, into screen-space
// quads written to dst, and returns the number of vertices written.
//
// mvp is the column-major projection-view-model matrix mapping model space to
// clip space. viewport is the target size in pixels; its height must be
// positive, and the caller is responsible for that. aaRadius is the
// anti-aliasing falloff band in pixels: X across the line width, Y along the
// line at the caps.
//
// Each segment yields exactly 6 vertices (two triangles). If dst cannot hold
// the full output, Expand writes nothing and returns ErrCapacityExceeded.
// A trailing odd vertex in src is ignored. Zero-length segments are not
// detected; they produce an undefined expansion direction.
func (e *Expander) Expand(dst []ExpandedVertex, src []Vertex, mvp mgl32.Mat4, viewport, aaRadius mgl32.Vec2) (int, error) {
	segs := SegmentCount(len(src))
	needed := segs * VerticesPerSegment
	if needed > len(dst) {
		e.logger().Warn("lines: expansion output does not fit",
			"segments", segs, "needed", needed, "capacity", len(dst))
		return 0, fmt.Errorf("expand %d segments into %d-vertex buffer: %w", segs, len(dst), ErrCapacityExceeded)
	}

	width, height := viewport[0], viewport[1]
	aspect := height / width
	extension := aaRadius[1]

	out := 0
	for s := 0; s < segs; s++ {
		a, b := &src[2*s], &src[2*s+1]

		clipA := mvp.Mul4x1(a.Position.Vec4(1))
		clipB := mvp.Mul4x1(b.Position.Vec4(1))

		// Width expansion happens in NDC; Z and W are reapplied at the
		// end so depth and perspective interpolation stay correct.
		ndcA := mgl32.Vec2{clipA[0] / clipA[3], clipA[1] / clipA[3]}
		ndcB := mgl32.Vec2{clipB[0] / clipB[3], clipB[1] / clipB[3]}

		lineVec := ndcB.Sub(ndcA)

		// Pixel-space length needs the per-axis scale: NDC x and y only
		// have equal pixel density on a square viewport.
		pixelLen := math32.Hypot(lineVec[0]*width, lineVec[1]*height)

		dirLen := math32.Hypot(lineVec[0], lineVec[1]*aspect)
		dir := mgl32.Vec2{lineVec[0] / dirLen, lineVec[1] * aspect / dirLen}

		quadLen := pixelLen + 2*extension
		halfLen := 0.5 * quadLen

		// The one-pixel floor keeps sub-pixel widths rasterizable;
		// alpha attenuation below communicates the true thinness.
		widthA := math32.Max(a.Width, 1) + aaRadius[0]
		widthB := math32.Max(b.Width, 1) + aaRadius[0]

		normal := mgl32.Vec2{-dir[1], dir[0]}
		normalA := mgl32.Vec2{widthA / width * normal[0], widthA / height * normal[1]}
		normalB := mgl32.Vec2{widthB / width * normal[0], widthB / height * normal[1]}
		extVec := mgl32.Vec2{extension / width * dir[0], extension / height * dir[1]}

		colorA := attenuate(a.Color, a.Width)
		colorB := attenuate(b.Color, b.Width)

		for _, corner := range quadCorners {
			end, side := corner[0], corner[1]

			zwX := (1-end)*clipA[2] + end*clipB[2]
			zwW := (1-end)*clipA[3] + end*clipB[3]

			across := mgl32.Vec2{
				side * ((1-end)*normalA[0] + end*normalB[0]),
				side * ((1-end)*normalA[1] + end*normalB[1]),
			}
			along := mgl32.Vec2{
				end*lineVec[0] + (2*end-1)*extVec[0],
				end*lineVec[1] + (2*end-1)*extVec[1],
			}

			v := &dst[out]
			// Undo the perspective divide so the fixed-function
			// pipeline can redo it with the original depth.
			v.ClipPosition = mgl32.Vec4{
				(ndcA[0] + along[0] + across[0]) * zwW,
				(ndcA[1] + along[1] + across[1]) * zwW,
				zwX,
				zwW,
			}
			if end == 0 {
				v.Color = colorA
			} else {
				v.Color = colorB
			}
			v.Params = LineParams{
				U:          side * ((1-end)*widthA + end*widthB),
				V:          (2*end - 1) * halfLen,
				Width:      (1-end)*widthA + end*widthB,
				HalfLength: halfLen,
			}
			out++
		}
	}
	return out, nil
}

// attenuate scales alpha by the requested width for sub-pixel lines,
// simulating fractional pixel coverage. Widths of one pixel or more keep
// their alpha unchanged.
func attenuate(c RGBA, width float32) RGBA {
	c.A = math32.Min(width*c.A, 1)
	return c
}

// ExpandModelSpace is the simple expansion variant: the quad is built around
// the segment in model space with a uniform full width, before any
// projection. The resulting width is constant in world units, not in screen
// pixels, and there is no anti-aliasing band. It exists as the cheap baseline
// the screen-space algorithm is measured against.
//
// Output vertices keep the source colors and carry the given width; they are
// meant to be transformed by the MVP downstream. The capacity and pairing
// contract matches Expander.Expand: 6 vertices per segment, nothing written
// on overflow.
func ExpandModelSpace(dst []Vertex, src []Vertex, width float32) (int, error) {
	segs := SegmentCount(len(src))
	needed := segs * VerticesPerSegment
	if needed > len(dst) {
		return 0, fmt.Errorf("expand %d segments into %d-vertex buffer: %w", segs, len(dst), ErrCapacityExceeded)
	}

	offset := width / 2
	out := 0
	for s := 0; s < segs; s++ {
		a, b := &src[2*s], &src[2*s+1]

		dir := b.Position.Sub(a.Position).Normalize()
		normal := mgl32.Vec3{-dir[1], dir[0], dir[2]}
		l := normal.Mul(offset)

		aPlus := Vertex{Position: a.Position.Add(l), Width: width, Color: a.Color}
		aMinus := Vertex{Position: a.Position.Sub(l), Width: width, Color: a.Color}
		bPlus := Vertex{Position: b.Position.Add(l), Width: width, Color: b.Color}
		bMinus := Vertex{Position: b.Position.Sub(l), Width: width, Color: b.Color}

		dst[out+0] = aPlus
		dst[out+1] = aMinus
		dst[out+2] = bPlus
		dst[out+3] = aMinus
		dst[out+4] = bPlus
		dst[out+5] = bMinus
		out += VerticesPerSegment
	}
	return out, nil
}
