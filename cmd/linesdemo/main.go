// Command linesdemo renders the benchmark line scene with a chosen pipeline
// and writes the result to a PNG.
//
// The pipeline runs against a recording device, so no GPU is needed; the
// image itself comes from the software rasterizer. With -validate the
// pipeline's WGSL shaders are also compiled to SPIR-V as a consistency
// check.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log"
	"log/slog"
	"os"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/lines"
	"github.com/gogpu/lines/device"
	"github.com/gogpu/lines/pipeline"
	"github.com/gogpu/lines/raster"
)

func main() {
	var (
		method   = flag.String("method", "CPU", "pipeline method (Native, CPU, Geometry, TexBuffer, Instanced)")
		width    = flag.Int("width", 800, "image width")
		height   = flag.Int("height", 600, "image height")
		output   = flag.String("output", "lines.png", "output file")
		aa       = flag.Float64("aa", 2, "anti-aliasing radius in pixels")
		validate = flag.Bool("validate", false, "compile the method's shaders to SPIR-V")
		list     = flag.Bool("list", false, "list available methods and exit")
		verbose  = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	if *list {
		for _, m := range pipeline.Available() {
			fmt.Println(m)
		}
		return
	}

	if *verbose {
		lines.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	m, err := pipeline.ParseMethod(*method)
	if err != nil {
		log.Fatalf("Bad -method: %v", err)
	}

	if *validate {
		validateShaders(m)
	}

	scene := lines.AppendBenchmarkLines(nil)
	frame := pipeline.Frame{
		Vertices: scene,
		MVP:      mgl32.Ortho(-8.5, 7.5, -6, 6, -1, 1),
		Viewport: mgl32.Vec2{float32(*width), float32(*height)},
		AARadius: mgl32.Vec2{float32(*aa), float32(*aa)},
	}

	if err := runPipeline(m, frame); err != nil {
		log.Fatalf("Pipeline %s failed: %v", m, err)
	}

	img := renderImage(m, frame, *width, *height)
	if err := savePNG(*output, img); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}

	log.Printf("Scene with %d segments saved to %s (%dx%d, method %s)\n",
		lines.SegmentCount(len(scene)), *output, *width, *height, m)
}

// runPipeline drives a full Setup/Update/Render cycle against a recording
// device and logs what the device saw.
func runPipeline(m pipeline.Method, frame pipeline.Frame) error {
	p, err := pipeline.New(m, pipeline.DefaultConfig())
	if err != nil {
		return err
	}
	defer p.Close()

	dev := device.NewRecording()
	defer dev.Close()

	if err := p.Setup(dev); err != nil {
		return err
	}
	count, err := p.Update(frame)
	if err != nil {
		return err
	}
	if err := p.Render(count); err != nil {
		return err
	}

	if dc, ok := dev.LastDraw(); ok {
		log.Printf("Device draw: %d vertices x %d instances as %s",
			dc.Count, dc.Instances, dc.Topology)
	}
	if n := len(dev.Dispatches()); n > 0 {
		log.Printf("Device compute: %d dispatch(es)", n)
	}
	return nil
}

// renderImage produces the PNG content with the software rasterizer. Native
// draws thin unexpanded segments; every other method shows the quad
// expansion with anti-aliasing.
func renderImage(m pipeline.Method, frame pipeline.Frame, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	if m == pipeline.MethodNative {
		raster.DrawSegments(img, frame.Vertices, frame.MVP)
		return img
	}

	quads := make([]lines.ExpandedVertex, lines.QuadVertexCount(len(frame.Vertices)))
	n, err := lines.NewExpander().Expand(quads, frame.Vertices, frame.MVP, frame.Viewport, frame.AARadius)
	if err != nil {
		log.Fatalf("Expansion failed: %v", err)
	}
	raster.DrawQuads(img, quads[:n], frame.AARadius)
	return img
}

// validateShaders compiles the method's WGSL modules to SPIR-V and reports
// their sizes.
func validateShaders(m pipeline.Method) {
	for _, s := range pipeline.Shaders(m) {
		words, err := pipeline.CompileShader(s)
		if err != nil {
			log.Fatalf("Shader %s failed to compile: %v", s.Name, err)
		}
		log.Printf("Shader %s: %d SPIR-V words", s.Name, len(words))
	}
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
