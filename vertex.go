package lines

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is one polyline endpoint. A flat []Vertex buffer is consumed in
// disjoint consecutive pairs: indices (0,1), (2,3), (4,5), ... each define one
// independent segment. A trailing odd vertex is ignored.
type Vertex struct {
	// Position is the endpoint in model space.
	Position mgl32.Vec3

	// Width is the desired on-screen line thickness at this endpoint,
	// in device pixels.
	Width float32

	// Color is the endpoint color. Alpha is attenuated during expansion
	// for widths below one device pixel.
	Color RGBA
}

// LineParams is the set of interpolants the expander hands to the coverage
// stage: signed local coordinates within the quad and the two normalization
// denominators the coverage mask divides by.
type LineParams struct {
	// U is the signed offset across the line, in pixels. Zero on the
	// segment axis, ±Width at the quad edges.
	U float32

	// V is the signed offset along the line, in pixels, measured from the
	// segment midpoint. ±HalfLength at the extended quad ends.
	V float32

	// Width is the effective half-width at this vertex (requested width
	// floored at one pixel, plus the across-width AA radius).
	Width float32

	// HalfLength is half the total quad length in pixels, including the
	// cap extension at both ends.
	HalfLength float32
}

// ExpandedVertex is one output vertex of quad expansion, ready for a
// triangle-list draw through the standard perspective pipeline.
type ExpandedVertex struct {
	// ClipPosition is the clip-space position before division by W.
	// The lateral and longitudinal extension is already baked in.
	ClipPosition mgl32.Vec4

	// Color is the vertex color with alpha pre-attenuated for sub-pixel
	// widths.
	Color RGBA

	// Params carries the local coordinates and denominators for the
	// coverage computation.
	Params LineParams
}

// Packed buffer layout sizes. These are the wire contract with GPU backends:
// vertices upload as tightly packed little-endian float32 records.
const (
	// VertexStride is the byte size of one packed Vertex:
	// position (3), width (1), color (4).
	VertexStride = 8 * 4

	// ExpandedVertexStride is the byte size of one packed ExpandedVertex:
	// clip position (4), color (4), line params (4).
	ExpandedVertexStride = 12 * 4

	// VerticesPerSegment is the number of output vertices per input
	// segment: two triangles forming one quad.
	VerticesPerSegment = 6
)

// SegmentCount returns the number of complete segments in a buffer of n
// vertices. A trailing odd vertex does not form a segment.
func SegmentCount(n int) int {
	return n / 2
}

// QuadVertexCount returns the output capacity required to expand a buffer of
// n input vertices: 6 per segment.
func QuadVertexCount(n int) int {
	return SegmentCount(n) * VerticesPerSegment
}

// PackVertices serializes vertices into dst as packed little-endian records
// of VertexStride bytes and returns the byte length written. The dst slice
// must hold at least len(src)*VertexStride bytes.
func PackVertices(dst []byte, src []Vertex) int {
	le := binary.LittleEndian
	off := 0
	for i := range src {
		v := &src[i]
		le.PutUint32(dst[off+0:], math.Float32bits(v.Position[0]))
		le.PutUint32(dst[off+4:], math.Float32bits(v.Position[1]))
		le.PutUint32(dst[off+8:], math.Float32bits(v.Position[2]))
		le.PutUint32(dst[off+12:], math.Float32bits(v.Width))
		le.PutUint32(dst[off+16:], math.Float32bits(v.Color.R))
		le.PutUint32(dst[off+20:], math.Float32bits(v.Color.G))
		le.PutUint32(dst[off+24:], math.Float32bits(v.Color.B))
		le.PutUint32(dst[off+28:], math.Float32bits(v.Color.A))
		off += VertexStride
	}
	return off
}

// PackExpandedVertices serializes expanded vertices into dst as packed
// little-endian records of ExpandedVertexStride bytes and returns the byte
// length written. The dst slice must hold at least
// len(src)*ExpandedVertexStride bytes.
func PackExpandedVertices(dst []byte, src []ExpandedVertex) int {
	le := binary.LittleEndian
	off := 0
	for i := range src {
		v := &src[i]
		le.PutUint32(dst[off+0:], math.Float32bits(v.ClipPosition[0]))
		le.PutUint32(dst[off+4:], math.Float32bits(v.ClipPosition[1]))
		le.PutUint32(dst[off+8:], math.Float32bits(v.ClipPosition[2]))
		le.PutUint32(dst[off+12:], math.Float32bits(v.ClipPosition[3]))
		le.PutUint32(dst[off+16:], math.Float32bits(v.Color.R))
		le.PutUint32(dst[off+20:], math.Float32bits(v.Color.G))
		le.PutUint32(dst[off+24:], math.Float32bits(v.Color.B))
		le.PutUint32(dst[off+28:], math.Float32bits(v.Color.A))
		le.PutUint32(dst[off+32:], math.Float32bits(v.Params.U))
		le.PutUint32(dst[off+36:], math.Float32bits(v.Params.V))
		le.PutUint32(dst[off+40:], math.Float32bits(v.Params.Width))
		le.PutUint32(dst[off+44:], math.Float32bits(v.Params.HalfLength))
		off += ExpandedVertexStride
	}
	return off
}
