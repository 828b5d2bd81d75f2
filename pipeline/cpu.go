package pipeline

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/lines"
	"github.com/gogpu/lines/device"
)

// CPU expands segments to screen-space quads on the CPU each frame and
// uploads the expanded buffer. All the per-frame cost lands on the calling
// thread; the GPU sees plain pre-positioned triangles.
//
// The expansion scratch buffer is owned by the pipeline and reused across
// frames, so steady-state updates do not allocate.
type CPU struct {
	cfg      Config
	buf      deviceBuffers
	expander *lines.Expander
	quads    []lines.ExpandedVertex
}

// NewCPU creates the CPU-expansion pipeline.
func NewCPU(cfg Config) *CPU {
	return &CPU{
		cfg:      cfg,
		expander: lines.NewExpander(),
		quads:    make([]lines.ExpandedVertex, lines.QuadVertexCount(cfg.MaxVertices)),
	}
}

// Method identifies the strategy.
func (p *CPU) Method() Method { return MethodCPU }

// Setup allocates the quad and uniform buffers on dev.
func (p *CPU) Setup(dev device.Device) error {
	size := uint64(len(p.quads)) * lines.ExpandedVertexStride
	return p.buf.setup(dev, "lines-cpu", size, gputypes.BufferUsageVertex)
}

// Update expands the frame's segments into the scratch buffer and uploads
// the packed quads and frame uniforms. The returned count is the number of
// quad vertices to draw as a triangle list.
func (p *CPU) Update(frame Frame) (int, error) {
	if p.buf.dev == nil {
		return 0, ErrNotSetup
	}
	n, err := p.expander.Expand(p.quads, frame.Vertices, frame.MVP, frame.Viewport, frame.AARadius)
	if err != nil {
		return 0, fmt.Errorf("cpu update: %w", err)
	}
	data := p.buf.grow(n * lines.ExpandedVertexStride)
	lines.PackExpandedVertices(data, p.quads[:n])
	if err := p.buf.dev.WriteBuffer(p.buf.vertices, 0, data); err != nil {
		return 0, fmt.Errorf("cpu update: %w", err)
	}
	if err := p.buf.writeUniforms(frame); err != nil {
		return 0, fmt.Errorf("cpu update: %w", err)
	}
	return n, nil
}

// Render draws count quad vertices as triangles.
func (p *CPU) Render(count int) error {
	if p.buf.dev == nil {
		return ErrNotSetup
	}
	return p.buf.dev.Draw(p.buf.vertices, device.TopologyTriangles, count, 1)
}

// Close releases the device buffers. The scratch buffer survives for reuse
// after a renewed Setup.
func (p *CPU) Close() { p.buf.close() }

// Quads returns the most recently expanded vertices, valid until the next
// Update. The software rasterizer uses this to shade what was uploaded.
func (p *CPU) Quads() []lines.ExpandedVertex {
	return p.quads
}
