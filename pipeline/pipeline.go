package pipeline

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/lines"
	"github.com/gogpu/lines/device"
)

// Common pipeline errors.
var (
	// ErrNotSetup is returned when Update or Render is called before Setup.
	ErrNotSetup = errors.New("pipeline: not set up")

	// ErrNilDevice is returned when Setup is called with a nil device.
	ErrNilDevice = errors.New("pipeline: device is nil")
)

// Frame carries the per-frame inputs shared by every pipeline: the segment
// buffer and the uniform data that travels with it.
type Frame struct {
	// Vertices is the polyline buffer, consumed in consecutive pairs.
	Vertices []lines.Vertex

	// MVP is the column-major projection-view-model matrix.
	MVP mgl32.Mat4

	// Viewport is the target size in pixels.
	Viewport mgl32.Vec2

	// AARadius is the anti-aliasing band in pixels (across, along).
	AARadius mgl32.Vec2
}

// Pipeline is one line-rendering strategy. The lifecycle is
// Setup → (Update → Render)* → Close; Update returns the count to pass to
// Render, mirroring how the draw size depends on the method (vertices for
// expanded quads, endpoints for native lines, segments for instancing).
type Pipeline interface {
	// Method identifies the strategy.
	Method() Method

	// Setup binds the pipeline to its rendering sink and allocates device
	// buffers.
	Setup(dev device.Device) error

	// Update performs the CPU side of the frame (expansion if any) and
	// uploads vertex and uniform data. It returns the draw count.
	Update(frame Frame) (int, error)

	// Render issues the draw for a count previously returned by Update.
	Render(count int) error

	// Close releases device buffers. The pipeline may be Setup again.
	Close()
}

// Config holds construction parameters shared by all pipelines.
type Config struct {
	// MaxVertices is the segment-buffer capacity in input vertices.
	// Device buffers are sized from it once at Setup.
	MaxVertices int
}

// DefaultMaxVertices is the default segment-buffer capacity.
const DefaultMaxVertices = 1 << 20

// DefaultConfig returns the default pipeline configuration.
func DefaultConfig() Config {
	return Config{MaxVertices: DefaultMaxVertices}
}

// uniformSize is the byte size of the packed per-frame uniform block:
// MVP (16 floats), viewport (2), AA radius (2).
const uniformSize = 20 * 4

// packUniforms serializes the frame uniforms little-endian, matching the
// WGSL Uniforms struct layout.
func packUniforms(dst []byte, frame Frame) {
	le := binary.LittleEndian
	for i := 0; i < 16; i++ {
		le.PutUint32(dst[i*4:], math.Float32bits(frame.MVP[i]))
	}
	le.PutUint32(dst[64:], math.Float32bits(frame.Viewport[0]))
	le.PutUint32(dst[68:], math.Float32bits(frame.Viewport[1]))
	le.PutUint32(dst[72:], math.Float32bits(frame.AARadius[0]))
	le.PutUint32(dst[76:], math.Float32bits(frame.AARadius[1]))
}

// deviceBuffers groups the buffers every pipeline allocates: one vertex (or
// segment) buffer and one uniform block.
type deviceBuffers struct {
	dev      device.Device
	vertices device.BufferID
	uniforms device.BufferID
	scratch  []byte
}

// setupBuffers allocates the shared buffer pair on dev.
func (b *deviceBuffers) setup(dev device.Device, label string, vertexBytes uint64, vertexUsage gputypes.BufferUsage) error {
	if dev == nil {
		return ErrNilDevice
	}
	vID, err := dev.CreateBuffer(device.BufferDescriptor{
		Label: label + "-vertices",
		Size:  vertexBytes,
		Usage: vertexUsage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}
	uID, err := dev.CreateBuffer(device.BufferDescriptor{
		Label: label + "-uniforms",
		Size:  uniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		dev.DestroyBuffer(vID)
		return err
	}
	b.dev = dev
	b.vertices = vID
	b.uniforms = uID
	return nil
}

// writeUniforms uploads the packed frame uniforms.
func (b *deviceBuffers) writeUniforms(frame Frame) error {
	var block [uniformSize]byte
	packUniforms(block[:], frame)
	return b.dev.WriteBuffer(b.uniforms, 0, block[:])
}

// close releases the buffer pair.
func (b *deviceBuffers) close() {
	if b.dev == nil {
		return
	}
	b.dev.DestroyBuffer(b.vertices)
	b.dev.DestroyBuffer(b.uniforms)
	b.dev = nil
	b.vertices = device.InvalidBuffer
	b.uniforms = device.InvalidBuffer
}

// grow ensures the scratch slice holds at least n bytes.
func (b *deviceBuffers) grow(n int) []byte {
	if cap(b.scratch) < n {
		b.scratch = make([]byte, n)
	}
	return b.scratch[:n]
}
