// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package device defines the rendering sink a line pipeline feeds.
//
// A pipeline's CPU side produces packed vertex buffers; allocating
// GPU-visible memory, uploading, and issuing the draw is the Device's job.
// The package ships a Recording implementation for tests and software
// rendering; the gpu package provides one backed by gogpu/wgpu.
package device

import (
	"errors"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// Common device errors.
var (
	// ErrDeviceClosed is returned when operating on a closed device.
	ErrDeviceClosed = errors.New("device: closed")

	// ErrBufferNotFound is returned when a buffer ID does not resolve.
	ErrBufferNotFound = errors.New("device: buffer not found")

	// ErrInvalidBufferSize is returned when a buffer is created with zero size.
	ErrInvalidBufferSize = errors.New("device: invalid buffer size")
)

// DeviceHandle provides GPU device access from a host application.
//
// Hosts built on the gogpu ecosystem already implement
// gpucontext.DeviceProvider; the alias lets them hand their device straight
// to a GPU-backed line pipeline without an adapter layer.
type DeviceHandle = gpucontext.DeviceProvider

// BufferID is an opaque handle to a device buffer.
type BufferID uint64

// InvalidBuffer is the zero value, representing no buffer.
const InvalidBuffer BufferID = 0

// BufferDescriptor describes parameters for creating a device buffer.
type BufferDescriptor struct {
	// Label is an optional debug label.
	Label string

	// Size is the buffer size in bytes. Must be positive.
	Size uint64

	// Usage specifies how the buffer will be used.
	Usage gputypes.BufferUsage
}

// Topology selects the primitive interpretation of a draw call.
type Topology int

const (
	// TopologyLines draws independent line segments from vertex pairs.
	TopologyLines Topology = iota

	// TopologyTriangles draws independent triangles from vertex triples.
	TopologyTriangles
)

// String returns the topology name.
func (t Topology) String() string {
	switch t {
	case TopologyLines:
		return "Lines"
	case TopologyTriangles:
		return "Triangles"
	default:
		return "Unknown"
	}
}

// Device is the rendering sink for line pipelines. Implementations own the
// GPU (or simulated) resources behind the returned buffer IDs.
//
// Implementations need not be safe for concurrent use; pipelines drive a
// Device from a single goroutine per frame.
type Device interface {
	// CreateBuffer allocates a buffer and returns its handle.
	CreateBuffer(desc BufferDescriptor) (BufferID, error)

	// WriteBuffer copies data into the buffer at the given byte offset.
	// Writes past the buffer size are an error.
	WriteBuffer(id BufferID, offset uint64, data []byte) error

	// DestroyBuffer releases a buffer. Destroying an unknown or already
	// destroyed buffer is a no-op.
	DestroyBuffer(id BufferID)

	// Draw issues a draw of count vertices from the bound vertex buffer,
	// repeated for instances instances. Use one instance for non-instanced
	// draws.
	Draw(vertices BufferID, topology Topology, count, instances int) error

	// Close releases all device resources. The device must not be used
	// afterwards.
	Close()
}
