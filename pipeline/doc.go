// Package pipeline implements five interchangeable line-rendering pipelines
// over the same segment data.
//
// The five methods trade CPU work against GPU work differently:
//
//   - Native uploads raw endpoints and draws hardware line primitives.
//   - CPU expands segments to screen-space quads on the CPU every frame.
//   - Geometry expands per segment on the GPU in a compute pass.
//   - TexBuffer keeps endpoints in a storage buffer and lets a pull-based
//     vertex shader build each quad corner on the fly.
//   - Instanced draws one shared unit quad per segment instance.
//
// All methods implement the Pipeline interface and register themselves with
// the package registry, so callers select one by Method value or take the
// registry default. Every pipeline feeds a device.Device sink; which GPU (if
// any) sits behind the sink is the caller's choice.
package pipeline
