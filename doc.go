// Package lines provides screen-space expansion of anti-aliased, variable-width
// 2D line segments for GPU rendering.
//
// # Overview
//
// GPU APIs rasterize native line primitives poorly: width support is limited,
// anti-aliasing is implementation-defined, and perspective projection distorts
// thickness. The standard fix is quad expansion: every segment becomes two
// triangles wide enough to cover the desired pixel footprint, and a fragment
// stage reconstructs a smooth coverage mask from interpolated local coordinates.
//
// The core of this module is Expander, which converts a flat buffer of
// width- and color-carrying polyline vertices into a clip-space quad vertex
// buffer. The expansion happens in normalized device coordinates with per-axis
// pixel-density correction, so a requested width is honored in device pixels
// regardless of viewport aspect ratio or perspective.
//
// # Quick Start
//
//	src := []lines.Vertex{
//	    {Position: mgl32.Vec3{-1, 0, 0}, Width: 2, Color: lines.RGB(1, 0, 0)},
//	    {Position: mgl32.Vec3{1, 0, 0}, Width: 2, Color: lines.RGB(1, 0, 0)},
//	}
//
//	dst := make([]lines.ExpandedVertex, lines.QuadVertexCount(len(src)))
//	exp := lines.NewExpander()
//	n, err := exp.Expand(dst, src, mgl32.Ident4(), mgl32.Vec2{800, 600}, mgl32.Vec2{2, 2})
//
// The resulting buffer is ready for a triangle-list draw of n vertices.
//
// # Pipelines
//
// The pipeline package enumerates five rendering strategies for the same
// segment data (native line primitives, CPU expansion, per-segment GPU
// expansion, pull-based vertex fetch, instanced quads) behind one interface,
// so their relative CPU and GPU cost can be compared on identical scenes.
//
// # Buffer Ownership
//
// Expand never allocates and never writes past the destination slice. Both
// buffers are caller-owned and rebuilt per frame; reusing an output buffer
// across frames is safe only once its previous consumer is done reading it.
//
// # Coordinate System
//
// Model-space positions are transformed by a column-major 4x4
// projection-view-model matrix into clip space. Widths and anti-aliasing
// radii are in device pixels. All arithmetic is single precision.
package lines
