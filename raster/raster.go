// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package raster is a reference software rasterizer for expanded line quads.
//
// It reproduces on the CPU what the GPU fragment stage does with the quad
// shader: screen-space interpolation of the line parameters, the smoothstep
// coverage mask, and source-over blending. It exists for headless output and
// for verifying pipeline results pixel by pixel without a device.
package raster

import (
	"image"
	"image/color"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/lines"
)

// point is a vertex mapped to screen space with its interpolants.
type point struct {
	x, y   float32
	color  lines.RGBA
	params lines.LineParams
}

// toScreen performs the perspective divide and viewport transform. Y flips:
// NDC +1 is the top of the image.
func toScreen(v lines.ExpandedVertex, w, h float32) point {
	invW := 1 / v.ClipPosition[3]
	ndcX := v.ClipPosition[0] * invW
	ndcY := v.ClipPosition[1] * invW
	return point{
		x:      (ndcX + 1) * 0.5 * w,
		y:      (1 - ndcY) * 0.5 * h,
		color:  v.Color,
		params: v.Params,
	}
}

// DrawQuads rasterizes expanded quad vertices as a triangle list into img,
// applying the anti-aliasing coverage mask. quads is consumed in consecutive
// triples; aaRadius must match the value used for expansion.
func DrawQuads(img *image.RGBA, quads []lines.ExpandedVertex, aaRadius mgl32.Vec2) {
	bounds := img.Bounds()
	w := float32(bounds.Dx())
	h := float32(bounds.Dy())

	for i := 0; i+2 < len(quads); i += 3 {
		a := toScreen(quads[i], w, h)
		b := toScreen(quads[i+1], w, h)
		c := toScreen(quads[i+2], w, h)
		fillTriangle(img, a, b, c, aaRadius)
	}
}

// edgeFn is the signed parallelogram area of (a, b, p). Positive on one side
// of ab, negative on the other.
func edgeFn(ax, ay, bx, by, px, py float32) float32 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// fillTriangle shades every pixel center inside the triangle abc. The
// interpolation is plain screen-space barycentric, matching the linear
// (non-perspective) interpolation the quad shader declares for the line
// parameters.
func fillTriangle(img *image.RGBA, a, b, c point, aaRadius mgl32.Vec2) {
	area := edgeFn(a.x, a.y, b.x, b.y, c.x, c.y)
	if area == 0 {
		return
	}

	bounds := img.Bounds()
	minX := maxInt(int(math32.Floor(min3(a.x, b.x, c.x))), bounds.Min.X)
	minY := maxInt(int(math32.Floor(min3(a.y, b.y, c.y))), bounds.Min.Y)
	maxX := minInt(int(math32.Ceil(max3(a.x, b.x, c.x))), bounds.Max.X-1)
	maxY := minInt(int(math32.Ceil(max3(a.y, b.y, c.y))), bounds.Max.Y-1)

	invArea := 1 / area
	for y := minY; y <= maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float32(x) + 0.5

			wa := edgeFn(b.x, b.y, c.x, c.y, px, py) * invArea
			wb := edgeFn(c.x, c.y, a.x, a.y, px, py) * invArea
			wc := edgeFn(a.x, a.y, b.x, b.y, px, py) * invArea
			if wa < 0 || wb < 0 || wc < 0 {
				continue
			}

			p := lines.LineParams{
				U:          wa*a.params.U + wb*b.params.U + wc*c.params.U,
				V:          wa*a.params.V + wb*b.params.V + wc*c.params.V,
				Width:      wa*a.params.Width + wb*b.params.Width + wc*c.params.Width,
				HalfLength: wa*a.params.HalfLength + wb*b.params.HalfLength + wc*c.params.HalfLength,
			}
			col := lines.RGBA{
				R: wa*a.color.R + wb*b.color.R + wc*c.color.R,
				G: wa*a.color.G + wb*b.color.G + wc*c.color.G,
				B: wa*a.color.B + wb*b.color.B + wc*c.color.B,
				A: wa*a.color.A + wb*b.color.A + wc*c.color.A,
			}

			alpha := col.A * lines.Coverage(p, aaRadius)
			if alpha <= 0 {
				continue
			}
			blend(img, x, y, col, alpha)
		}
	}
}

// DrawSegments rasterizes raw endpoint pairs as one-pixel lines with no
// anti-aliasing, the software analogue of the native-lines method. src is
// consumed in consecutive pairs after transformation by mvp.
func DrawSegments(img *image.RGBA, src []lines.Vertex, mvp mgl32.Mat4) {
	bounds := img.Bounds()
	w := float32(bounds.Dx())
	h := float32(bounds.Dy())

	for s := 0; s < lines.SegmentCount(len(src)); s++ {
		a, b := src[2*s], src[2*s+1]
		clipA := mvp.Mul4x1(a.Position.Vec4(1))
		clipB := mvp.Mul4x1(b.Position.Vec4(1))

		ax := (clipA[0]/clipA[3] + 1) * 0.5 * w
		ay := (1 - clipA[1]/clipA[3]) * 0.5 * h
		bx := (clipB[0]/clipB[3] + 1) * 0.5 * w
		by := (1 - clipB[1]/clipB[3]) * 0.5 * h

		steps := int(math32.Max(math32.Abs(bx-ax), math32.Abs(by-ay))) + 1
		for i := 0; i <= steps; i++ {
			t := float32(i) / float32(steps)
			x := int(ax + t*(bx-ax))
			y := int(ay + t*(by-ay))
			if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
				continue
			}
			col := a.Color
			if t > 0.5 {
				col = b.Color
			}
			blend(img, x, y, col, col.A)
		}
	}
}

// blend composites col over the pixel at (x, y) with the given alpha,
// non-premultiplied source over straight destination.
func blend(img *image.RGBA, x, y int, col lines.RGBA, alpha float32) {
	if alpha > 1 {
		alpha = 1
	}
	dst := img.RGBAAt(x, y)
	inv := 1 - alpha
	img.SetRGBA(x, y, color.RGBA{
		R: channel(col.R*alpha + float32(dst.R)/255*inv),
		G: channel(col.G*alpha + float32(dst.G)/255*inv),
		B: channel(col.B*alpha + float32(dst.B)/255*inv),
		A: channel(alpha + float32(dst.A)/255*inv),
	})
}

func channel(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

func min3(a, b, c float32) float32 { return math32.Min(a, math32.Min(b, c)) }
func max3(a, b, c float32) float32 { return math32.Max(a, math32.Max(b, c)) }

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
