//go:build !nogpu

// Package gpu backs the device abstraction with a wgpu HAL device.
//
// It owns the instance, adapter, device, and queue, uploads vertex and
// uniform data through the queue, and runs the segment-expansion compute
// pass for the pipelines that need one. A device can also be constructed
// around an externally shared HAL device via NewShared.
package gpu

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/lines/device"
)

// Errors returned by the wgpu-backed device.
var (
	// ErrNoGPU is returned when no usable adapter is found.
	ErrNoGPU = errors.New("gpu: no GPU available")

	// ErrComputeNotBound is returned by Dispatch before BindExpand has
	// associated buffers with the expansion stage.
	ErrComputeNotBound = errors.New("gpu: compute stage not bound")
)

// fenceTimeout bounds how long a dispatch waits for the GPU.
const fenceTimeout = 5 * time.Second

// Device implements device.Device and device.ComputeDevice on a wgpu HAL
// device. It is safe for use from a single goroutine; guard it externally if
// shared.
type Device struct {
	mu sync.Mutex

	instance hal.Instance
	dev      hal.Device
	queue    hal.Queue
	owns     bool

	nextID  device.BufferID
	buffers map[device.BufferID]hal.Buffer

	expand expandStage
	closed bool
	draws  int
}

// expandStage holds the compute pipeline that mirrors the CPU expander on
// the GPU, plus the buffer bindings it reads and writes.
type expandStage struct {
	module   hal.ShaderModule
	bgLayout hal.BindGroupLayout
	layout   hal.PipelineLayout
	pipeline hal.ComputePipeline

	uniforms device.BufferID
	src      device.BufferID
	dst      device.BufferID
	bound    bool
}

// New creates a device on the best available adapter, preferring discrete
// and integrated GPUs over software implementations.
func New() (*Device, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("%w: vulkan backend not available", ErrNoGPU)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("gpu: create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("%w: no adapters found", ErrNoGPU)
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("gpu: open device: %w", err)
	}

	slogger().Info("gpu: device opened", "adapter", selected.Info.Name)

	return &Device{
		instance: instance,
		dev:      openDev.Device,
		queue:    openDev.Queue,
		owns:     true,
		nextID:   1,
		buffers:  make(map[device.BufferID]hal.Buffer),
	}, nil
}

// NewShared wraps an externally owned HAL device exposed by a provider, such
// as a windowing host that already initialized the GPU. The provider must
// additionally expose HalDevice() any and HalQueue() any returning the HAL
// types. Close on the returned device does not destroy the shared handles.
func NewShared(provider device.DeviceHandle) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("gpu: provider does not expose HAL types")
	}
	dev, ok := hp.HalDevice().(hal.Device)
	if !ok || dev == nil {
		return nil, fmt.Errorf("gpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("gpu: provider HalQueue is not hal.Queue")
	}

	slogger().Info("gpu: using shared device")

	return &Device{
		dev:     dev,
		queue:   queue,
		nextID:  1,
		buffers: make(map[device.BufferID]hal.Buffer),
	}, nil
}

// CreateBuffer allocates a GPU buffer.
func (d *Device) CreateBuffer(desc device.BufferDescriptor) (device.BufferID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return device.InvalidBuffer, device.ErrDeviceClosed
	}
	if desc.Size == 0 {
		return device.InvalidBuffer, device.ErrInvalidBufferSize
	}

	buf, err := d.dev.CreateBuffer(&hal.BufferDescriptor{
		Label: desc.Label,
		Size:  desc.Size,
		Usage: desc.Usage,
	})
	if err != nil {
		return device.InvalidBuffer, fmt.Errorf("gpu: create buffer %q: %w", desc.Label, err)
	}

	id := d.nextID
	d.nextID++
	d.buffers[id] = buf

	slogger().Debug("gpu: buffer created", "label", desc.Label, "size", desc.Size)
	return id, nil
}

// WriteBuffer uploads data through the queue.
func (d *Device) WriteBuffer(id device.BufferID, offset uint64, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return device.ErrDeviceClosed
	}
	buf, ok := d.buffers[id]
	if !ok {
		return fmt.Errorf("gpu: write buffer %d: %w", id, device.ErrBufferNotFound)
	}
	d.queue.WriteBuffer(buf, offset, data)
	return nil
}

// DestroyBuffer releases a buffer.
func (d *Device) DestroyBuffer(id device.BufferID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if buf, ok := d.buffers[id]; ok {
		d.dev.DestroyBuffer(buf)
		delete(d.buffers, id)
	}
}

// BindExpand wires the expansion compute stage to its three buffers: the
// frame uniforms, the raw segment buffer it reads, and the quad buffer it
// writes. wgsl is the stage source; it is compiled into a pipeline on first
// bind. Rebinding with different buffers reuses the compiled pipeline.
func (d *Device) BindExpand(wgsl string, uniforms, src, dst device.BufferID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return device.ErrDeviceClosed
	}
	for _, id := range []device.BufferID{uniforms, src, dst} {
		if _, ok := d.buffers[id]; !ok {
			return fmt.Errorf("gpu: bind expand buffer %d: %w", id, device.ErrBufferNotFound)
		}
	}

	if d.expand.pipeline == nil {
		if err := d.createExpandPipeline(wgsl); err != nil {
			return err
		}
	}

	d.expand.uniforms = uniforms
	d.expand.src = src
	d.expand.dst = dst
	d.expand.bound = true
	return nil
}

// createExpandPipeline compiles the expansion shader and builds its layout:
// binding 0 uniforms, binding 1 read-only segments, binding 2 read-write
// quads, matching the WGSL declarations.
func (d *Device) createExpandPipeline(wgsl string) error {
	module, err := d.dev.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "lines_expand",
		Source: hal.ShaderSource{WGSL: wgsl},
	})
	if err != nil {
		return fmt.Errorf("gpu: create expand shader: %w", err)
	}

	bgLayout, err := d.dev.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "lines_expand_bgl",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageCompute,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageCompute,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageCompute,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage},
			},
		},
	})
	if err != nil {
		d.dev.DestroyShaderModule(module)
		return fmt.Errorf("gpu: create expand bind group layout: %w", err)
	}

	layout, err := d.dev.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "lines_expand_pl",
		BindGroupLayouts: []hal.BindGroupLayout{bgLayout},
	})
	if err != nil {
		d.dev.DestroyBindGroupLayout(bgLayout)
		d.dev.DestroyShaderModule(module)
		return fmt.Errorf("gpu: create expand pipeline layout: %w", err)
	}

	pipeline, err := d.dev.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:  "lines_expand",
		Layout: layout,
		Compute: hal.ComputeState{
			Module:     module,
			EntryPoint: "cs_main",
		},
	})
	if err != nil {
		d.dev.DestroyPipelineLayout(layout)
		d.dev.DestroyBindGroupLayout(bgLayout)
		d.dev.DestroyShaderModule(module)
		return fmt.Errorf("gpu: create expand pipeline: %w", err)
	}

	d.expand.module = module
	d.expand.bgLayout = bgLayout
	d.expand.layout = layout
	d.expand.pipeline = pipeline

	slogger().Debug("gpu: expand pipeline created", "shader_bytes", len(wgsl))
	return nil
}

// Dispatch encodes and submits the expansion compute pass with the given
// workgroup counts, then waits for completion. BindExpand must have been
// called first.
func (d *Device) Dispatch(x, y, z int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return device.ErrDeviceClosed
	}
	if !d.expand.bound {
		return ErrComputeNotBound
	}

	entry := func(binding uint32, id device.BufferID) gputypes.BindGroupEntry {
		return gputypes.BindGroupEntry{
			Binding: binding,
			Resource: gputypes.BufferBinding{
				Buffer: d.buffers[id].NativeHandle(),
				Offset: 0,
				Size:   0, // entire buffer
			},
		}
	}
	bg, err := d.dev.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "lines_expand_bg",
		Layout: d.expand.bgLayout,
		Entries: []gputypes.BindGroupEntry{
			entry(0, d.expand.uniforms),
			entry(1, d.expand.src),
			entry(2, d.expand.dst),
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: create expand bind group: %w", err)
	}
	defer d.dev.DestroyBindGroup(bg)

	encoder, err := d.dev.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "lines_expand",
	})
	if err != nil {
		return fmt.Errorf("gpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("lines_expand"); err != nil {
		return fmt.Errorf("gpu: begin encoding: %w", err)
	}

	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "lines_expand"})
	pass.SetPipeline(d.expand.pipeline)
	pass.SetBindGroup(0, bg, nil)
	pass.Dispatch(uint32(x), uint32(y), uint32(z))
	pass.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("gpu: end encoding: %w", err)
	}
	defer d.dev.FreeCommandBuffer(cmdBuf)

	fence, err := d.dev.CreateFence()
	if err != nil {
		return fmt.Errorf("gpu: create fence: %w", err)
	}
	defer d.dev.DestroyFence(fence)

	if err := d.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("gpu: submit: %w", err)
	}
	ok, err := d.dev.Wait(fence, 1, fenceTimeout)
	if err != nil {
		return fmt.Errorf("gpu: wait for GPU: %w", err)
	}
	if !ok {
		return fmt.Errorf("gpu: dispatch timed out")
	}

	slogger().Debug("gpu: expand dispatched", "workgroups", x)
	return nil
}

// Draw validates the draw call and records it. Headless benchmark runs have
// no surface to present to, so the render pass itself is not encoded here.
// TODO: encode a render pass once a surface target is wired in.
func (d *Device) Draw(vertices device.BufferID, topology device.Topology, count, instances int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return device.ErrDeviceClosed
	}
	if _, ok := d.buffers[vertices]; !ok {
		return fmt.Errorf("gpu: draw from buffer %d: %w", vertices, device.ErrBufferNotFound)
	}
	d.draws++
	slogger().Debug("gpu: draw recorded",
		"topology", topology.String(), "count", count, "instances", instances)
	return nil
}

// Draws returns the number of draw calls issued since creation.
func (d *Device) Draws() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.draws
}

// Close releases all buffers, the compute pipeline, and, for owned devices,
// the device and instance.
func (d *Device) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}

	for id, buf := range d.buffers {
		d.dev.DestroyBuffer(buf)
		delete(d.buffers, id)
	}
	if d.expand.pipeline != nil {
		d.dev.DestroyComputePipeline(d.expand.pipeline)
		d.dev.DestroyPipelineLayout(d.expand.layout)
		d.dev.DestroyBindGroupLayout(d.expand.bgLayout)
		d.dev.DestroyShaderModule(d.expand.module)
		d.expand = expandStage{}
	}

	if d.owns {
		if d.dev != nil {
			d.dev.Destroy()
		}
		if d.instance != nil {
			d.instance.Destroy()
		}
	}
	d.dev = nil
	d.queue = nil
	d.instance = nil
	d.closed = true

	slogger().Info("gpu: device closed")
}

var (
	_ device.Device        = (*Device)(nil)
	_ device.ComputeDevice = (*Device)(nil)
)
