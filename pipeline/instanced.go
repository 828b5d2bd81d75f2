package pipeline

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/lines"
	"github.com/gogpu/lines/device"
)

// Instanced draws one six-vertex instance per segment. The vertex shader
// fetches the segment for its instance from the storage buffer and picks the
// quad corner from the vertex index, so the upload is the raw endpoint
// buffer, same as TexBuffer.
type Instanced struct {
	cfg Config
	buf deviceBuffers
}

// NewInstanced creates the instanced-quad pipeline.
func NewInstanced(cfg Config) *Instanced {
	return &Instanced{cfg: cfg}
}

// Method identifies the strategy.
func (p *Instanced) Method() Method { return MethodInstanced }

// Setup allocates the segment and uniform buffers on dev.
func (p *Instanced) Setup(dev device.Device) error {
	size := uint64(p.cfg.MaxVertices) * lines.VertexStride
	return p.buf.setup(dev, "lines-instanced", size, gputypes.BufferUsageStorage)
}

// Update uploads the raw endpoints and frame uniforms. The returned count is
// the segment count, one instance each.
func (p *Instanced) Update(frame Frame) (int, error) {
	if p.buf.dev == nil {
		return 0, ErrNotSetup
	}
	segs := lines.SegmentCount(len(frame.Vertices))
	n := segs * 2
	data := p.buf.grow(n * lines.VertexStride)
	lines.PackVertices(data, frame.Vertices[:n])
	if err := p.buf.dev.WriteBuffer(p.buf.vertices, 0, data); err != nil {
		return 0, fmt.Errorf("instanced update: %w", err)
	}
	if err := p.buf.writeUniforms(frame); err != nil {
		return 0, fmt.Errorf("instanced update: %w", err)
	}
	return segs, nil
}

// Render draws count instances of six vertices each.
func (p *Instanced) Render(count int) error {
	if p.buf.dev == nil {
		return ErrNotSetup
	}
	return p.buf.dev.Draw(p.buf.vertices, device.TopologyTriangles, lines.VerticesPerSegment, count)
}

// Close releases the device buffers.
func (p *Instanced) Close() { p.buf.close() }
