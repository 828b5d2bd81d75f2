package pipeline

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/lines"
	"github.com/gogpu/lines/device"
)

// expandWorkgroupSize matches @workgroup_size in expand.wgsl.
const expandWorkgroupSize = 64

// Geometry expands segments on the GPU with a compute pass. The raw endpoint
// buffer is uploaded once per frame, a compute dispatch writes six quad
// vertices per segment into a storage buffer, and the render pass draws that
// buffer as triangles.
//
// A compute prepass is the portable way to amplify geometry under WebGPU,
// which has no geometry shaders.
type Geometry struct {
	cfg   Config
	buf   deviceBuffers
	quads device.BufferID
	cdev  device.ComputeDevice
}

// NewGeometry creates the compute-expansion pipeline.
func NewGeometry(cfg Config) *Geometry {
	return &Geometry{cfg: cfg}
}

// Method identifies the strategy.
func (p *Geometry) Method() Method { return MethodGeometry }

// Setup allocates the segment, quad and uniform buffers on dev. The device
// must implement device.ComputeDevice.
func (p *Geometry) Setup(dev device.Device) error {
	cdev, ok := dev.(device.ComputeDevice)
	if !ok {
		if dev == nil {
			return ErrNilDevice
		}
		return fmt.Errorf("geometry setup: %w", device.ErrComputeUnsupported)
	}
	size := uint64(p.cfg.MaxVertices) * lines.VertexStride
	if err := p.buf.setup(dev, "lines-geometry", size, gputypes.BufferUsageStorage); err != nil {
		return err
	}
	quads, err := dev.CreateBuffer(device.BufferDescriptor{
		Label: "lines-geometry-quads",
		Size:  uint64(lines.QuadVertexCount(p.cfg.MaxVertices)) * lines.ExpandedVertexStride,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageVertex,
	})
	if err != nil {
		p.buf.close()
		return err
	}
	p.quads = quads
	p.cdev = cdev
	return nil
}

// Update uploads the raw endpoints and frame uniforms, then dispatches one
// compute invocation per segment. The returned count is the number of quad
// vertices the compute pass produced.
func (p *Geometry) Update(frame Frame) (int, error) {
	if p.cdev == nil {
		return 0, ErrNotSetup
	}
	segs := lines.SegmentCount(len(frame.Vertices))
	n := segs * 2
	data := p.buf.grow(n * lines.VertexStride)
	lines.PackVertices(data, frame.Vertices[:n])
	if err := p.buf.dev.WriteBuffer(p.buf.vertices, 0, data); err != nil {
		return 0, fmt.Errorf("geometry update: %w", err)
	}
	if err := p.buf.writeUniforms(frame); err != nil {
		return 0, fmt.Errorf("geometry update: %w", err)
	}
	groups := (segs + expandWorkgroupSize - 1) / expandWorkgroupSize
	if groups > 0 {
		if err := p.cdev.Dispatch(groups, 1, 1); err != nil {
			return 0, fmt.Errorf("geometry update: %w", err)
		}
	}
	return segs * lines.VerticesPerSegment, nil
}

// Buffers exposes the device buffers the compute pass reads and writes, for
// hosts that bind the expansion stage on the device themselves. Valid after
// Setup.
func (p *Geometry) Buffers() (segments, quads, uniforms device.BufferID) {
	return p.buf.vertices, p.quads, p.buf.uniforms
}

// Render draws count expanded quad vertices as triangles.
func (p *Geometry) Render(count int) error {
	if p.cdev == nil {
		return ErrNotSetup
	}
	return p.buf.dev.Draw(p.quads, device.TopologyTriangles, count, 1)
}

// Close releases the device buffers.
func (p *Geometry) Close() {
	if p.cdev == nil {
		return
	}
	p.buf.dev.DestroyBuffer(p.quads)
	p.quads = device.InvalidBuffer
	p.buf.close()
	p.cdev = nil
}
