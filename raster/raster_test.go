// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import (
	"image"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/lines"
)

func expandSegment(t *testing.T, src []lines.Vertex, viewport, aa mgl32.Vec2) []lines.ExpandedVertex {
	t.Helper()
	dst := make([]lines.ExpandedVertex, lines.QuadVertexCount(len(src)))
	n, err := lines.NewExpander().Expand(dst, src, mgl32.Ident4(), viewport, aa)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	return dst[:n]
}

func TestDrawQuadsHorizontalLine(t *testing.T) {
	const w, h = 64, 64
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	aa := mgl32.Vec2{2, 2}

	src := []lines.Vertex{
		{Position: mgl32.Vec3{-0.5, 0, 0}, Width: 6, Color: lines.RGB(1, 0, 0)},
		{Position: mgl32.Vec3{0.5, 0, 0}, Width: 6, Color: lines.RGB(1, 0, 0)},
	}
	quads := expandSegment(t, src, mgl32.Vec2{w, h}, aa)
	DrawQuads(img, quads, aa)

	// The segment axis crosses the image center; the core must be solid.
	center := img.RGBAAt(w/2, h/2)
	if center.R != 255 || center.A != 255 {
		t.Errorf("center pixel = %+v, want solid red", center)
	}

	// Pixels on the axis near the endpoints are inside the quad too.
	left := img.RGBAAt(w/4+1, h/2)
	if left.A == 0 {
		t.Errorf("on-axis pixel at x=%d untouched", w/4+1)
	}

	// Far corners stay untouched.
	corner := img.RGBAAt(1, 1)
	if corner.A != 0 {
		t.Errorf("corner pixel = %+v, want untouched", corner)
	}

	// Well off-axis, outside width plus AA band, stays untouched.
	off := img.RGBAAt(w/2, h/2-10)
	if off.A != 0 {
		t.Errorf("off-axis pixel = %+v, want untouched", off)
	}
}

func TestDrawQuadsEdgeFade(t *testing.T) {
	// Alpha must decrease monotonically across the AA band at the line
	// edge rather than cut off hard.
	const w, h = 64, 64
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	aa := mgl32.Vec2{3, 3}

	src := []lines.Vertex{
		{Position: mgl32.Vec3{-0.5, 0, 0}, Width: 8, Color: lines.RGB(0, 0, 1)},
		{Position: mgl32.Vec3{0.5, 0, 0}, Width: 8, Color: lines.RGB(0, 0, 1)},
	}
	DrawQuads(img, expandSegment(t, src, mgl32.Vec2{w, h}, aa), aa)

	prev := uint8(255)
	fading := false
	for dy := 0; dy < 12; dy++ {
		a := img.RGBAAt(w/2, h/2+dy).A
		if a > prev {
			t.Fatalf("alpha rose from %d to %d at dy=%d", prev, a, dy)
		}
		if a < prev {
			fading = true
		}
		prev = a
	}
	if !fading || prev != 0 {
		t.Errorf("no smooth falloff: final alpha %d, fading %v", prev, fading)
	}
}

func TestDrawQuadsSubPixelAlpha(t *testing.T) {
	const w, h = 64, 64
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	aa := mgl32.Vec2{2, 2}

	src := []lines.Vertex{
		{Position: mgl32.Vec3{-0.5, 0, 0}, Width: 0.25, Color: lines.RGB(0, 0, 0)},
		{Position: mgl32.Vec3{0.5, 0, 0}, Width: 0.25, Color: lines.RGB(0, 0, 0)},
	}
	DrawQuads(img, expandSegment(t, src, mgl32.Vec2{w, h}, aa), aa)

	// Sub-pixel width: attenuation caps the whole line at a quarter of
	// full alpha.
	maxAlpha := uint8(0)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			if a := img.RGBAAt(x, y).A; a > maxAlpha {
				maxAlpha = a
			}
		}
	}
	if maxAlpha == 0 {
		t.Fatal("sub-pixel line left no pixels")
	}
	if maxAlpha > 64 {
		t.Errorf("max alpha = %d, want at most 64 for a quarter-pixel width", maxAlpha)
	}
}

func TestDrawSegments(t *testing.T) {
	const w, h = 32, 32
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	src := []lines.Vertex{
		{Position: mgl32.Vec3{-0.5, -0.5, 0}, Width: 1, Color: lines.RGB(0, 1, 0)},
		{Position: mgl32.Vec3{0.5, 0.5, 0}, Width: 1, Color: lines.RGB(0, 1, 0)},
	}
	DrawSegments(img, src, mgl32.Ident4())

	touched := 0
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			if img.RGBAAt(x, y).A != 0 {
				touched++
			}
		}
	}
	if touched == 0 {
		t.Fatal("segment left no pixels")
	}
	// A diagonal across half the image touches roughly one pixel per row
	// it crosses, never the whole image.
	if touched > w*2 {
		t.Errorf("segment touched %d pixels, want a thin line", touched)
	}
}
