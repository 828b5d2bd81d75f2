package pipeline

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/lines"
	"github.com/gogpu/lines/device"
)

// Native draws hardware line primitives from the raw endpoint buffer.
// Cheapest CPU side of all methods and the weakest output: no width control
// beyond what the rasterizer offers, no anti-aliasing band.
type Native struct {
	cfg Config
	buf deviceBuffers
}

// NewNative creates the native-lines pipeline.
func NewNative(cfg Config) *Native {
	return &Native{cfg: cfg}
}

// Method identifies the strategy.
func (p *Native) Method() Method { return MethodNative }

// Setup allocates the endpoint and uniform buffers on dev.
func (p *Native) Setup(dev device.Device) error {
	size := uint64(p.cfg.MaxVertices) * lines.VertexStride
	return p.buf.setup(dev, "lines-native", size, gputypes.BufferUsageVertex)
}

// Update uploads the raw endpoints and frame uniforms. The returned count is
// the number of endpoints to draw as a line list.
func (p *Native) Update(frame Frame) (int, error) {
	if p.buf.dev == nil {
		return 0, ErrNotSetup
	}
	n := lines.SegmentCount(len(frame.Vertices)) * 2
	data := p.buf.grow(n * lines.VertexStride)
	lines.PackVertices(data, frame.Vertices[:n])
	if err := p.buf.dev.WriteBuffer(p.buf.vertices, 0, data); err != nil {
		return 0, fmt.Errorf("native update: %w", err)
	}
	if err := p.buf.writeUniforms(frame); err != nil {
		return 0, fmt.Errorf("native update: %w", err)
	}
	return n, nil
}

// Render draws count endpoints as independent line segments.
func (p *Native) Render(count int) error {
	if p.buf.dev == nil {
		return ErrNotSetup
	}
	return p.buf.dev.Draw(p.buf.vertices, device.TopologyLines, count, 1)
}

// Close releases the device buffers.
func (p *Native) Close() { p.buf.close() }
