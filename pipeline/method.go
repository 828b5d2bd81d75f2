package pipeline

import "fmt"

// Method selects the line-rendering pipeline.
type Method int

const (
	// MethodNative draws hardware line primitives with no expansion.
	// Width and anti-aliasing quality are rasterizer-defined; this is the
	// baseline the other methods are measured against.
	MethodNative Method = iota

	// MethodCPU expands segments to quads on the CPU each frame and
	// uploads the expanded buffer.
	MethodCPU

	// MethodGeometry expands segments on the GPU, one segment per compute
	// invocation, into a quad buffer that is then drawn.
	MethodGeometry

	// MethodTexBuffer keeps raw endpoints in a storage buffer; a
	// pull-based vertex shader derives each quad corner from the vertex
	// index.
	MethodTexBuffer

	// MethodInstanced draws a shared unit quad once per segment instance,
	// positioning it in the vertex shader.
	MethodInstanced

	methodCount // sentinel, keep last
)

// String returns the method name.
func (m Method) String() string {
	switch m {
	case MethodNative:
		return "Native"
	case MethodCPU:
		return "CPU"
	case MethodGeometry:
		return "Geometry"
	case MethodTexBuffer:
		return "TexBuffer"
	case MethodInstanced:
		return "Instanced"
	default:
		return "Unknown"
	}
}

// ParseMethod resolves a method by its String name. The match is exact.
func ParseMethod(name string) (Method, error) {
	for m := MethodNative; m < methodCount; m++ {
		if m.String() == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("pipeline: unknown method %q", name)
}

// Capabilities describes what the rendering sink supports, for method
// auto-selection.
type Capabilities struct {
	// Compute reports whether compute passes are available.
	Compute bool

	// StorageBuffers reports whether vertex-stage storage buffer reads
	// are available.
	StorageBuffers bool

	// Instancing reports whether instanced draws are available.
	Instancing bool
}

// SelectMethod chooses the best pipeline for the given capabilities.
//
// Heuristics, best first: pull-based vertex fetch needs no CPU expansion and
// no extra pass; instancing is nearly as good with a smaller shader;
// compute expansion costs a pass but keeps uploads minimal; CPU expansion
// works everywhere quads can be drawn; native lines are the last resort.
func SelectMethod(caps Capabilities) Method {
	if caps.StorageBuffers {
		return MethodTexBuffer
	}
	if caps.Instancing {
		return MethodInstanced
	}
	if caps.Compute {
		return MethodGeometry
	}
	return MethodCPU
}
