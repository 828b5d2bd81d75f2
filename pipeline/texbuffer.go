package pipeline

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/lines"
	"github.com/gogpu/lines/device"
)

// TexBuffer uploads the raw endpoint buffer as storage and expands in the
// vertex shader: the draw covers six vertices per segment and each
// invocation fetches its segment by index and computes its own corner.
//
// No amplification pass and no CPU expansion makes this the preferred
// method when storage buffers are available.
type TexBuffer struct {
	cfg Config
	buf deviceBuffers
}

// NewTexBuffer creates the shader-fetch pipeline.
func NewTexBuffer(cfg Config) *TexBuffer {
	return &TexBuffer{cfg: cfg}
}

// Method identifies the strategy.
func (p *TexBuffer) Method() Method { return MethodTexBuffer }

// Setup allocates the segment and uniform buffers on dev.
func (p *TexBuffer) Setup(dev device.Device) error {
	size := uint64(p.cfg.MaxVertices) * lines.VertexStride
	return p.buf.setup(dev, "lines-texbuffer", size, gputypes.BufferUsageStorage)
}

// Update uploads the raw endpoints and frame uniforms. The returned count is
// six vertices per segment, the size of the expanding draw.
func (p *TexBuffer) Update(frame Frame) (int, error) {
	if p.buf.dev == nil {
		return 0, ErrNotSetup
	}
	segs := lines.SegmentCount(len(frame.Vertices))
	n := segs * 2
	data := p.buf.grow(n * lines.VertexStride)
	lines.PackVertices(data, frame.Vertices[:n])
	if err := p.buf.dev.WriteBuffer(p.buf.vertices, 0, data); err != nil {
		return 0, fmt.Errorf("texbuffer update: %w", err)
	}
	if err := p.buf.writeUniforms(frame); err != nil {
		return 0, fmt.Errorf("texbuffer update: %w", err)
	}
	return segs * lines.VerticesPerSegment, nil
}

// Render draws count vertices; the vertex shader expands them from the
// segment buffer.
func (p *TexBuffer) Render(count int) error {
	if p.buf.dev == nil {
		return ErrNotSetup
	}
	return p.buf.dev.Draw(p.buf.vertices, device.TopologyTriangles, count, 1)
}

// Close releases the device buffers.
func (p *TexBuffer) Close() { p.buf.close() }
