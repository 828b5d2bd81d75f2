// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package device

import (
	"fmt"
)

// DrawCall records one Draw issued against a Recording device.
type DrawCall struct {
	// Vertices is the buffer the draw sourced from.
	Vertices BufferID

	// Topology is the primitive interpretation.
	Topology Topology

	// Count is the vertex count.
	Count int

	// Instances is the instance count.
	Instances int
}

// Recording is an in-memory Device. Buffer contents live in host memory and
// draws are appended to a list instead of being submitted anywhere.
//
// It serves two purposes: pipelines can be tested against it without a GPU,
// and the software rasterizer reads expanded vertex data back out of it.
type Recording struct {
	nextID     BufferID
	buffers    map[BufferID][]byte
	labels     map[BufferID]string
	draws      []DrawCall
	dispatches []DispatchCall
	closed     bool
}

// NewRecording creates an empty recording device.
func NewRecording() *Recording {
	return &Recording{
		nextID:  1,
		buffers: make(map[BufferID][]byte),
		labels:  make(map[BufferID]string),
	}
}

// CreateBuffer allocates a host-memory buffer.
func (r *Recording) CreateBuffer(desc BufferDescriptor) (BufferID, error) {
	if r.closed {
		return InvalidBuffer, ErrDeviceClosed
	}
	if desc.Size == 0 {
		return InvalidBuffer, ErrInvalidBufferSize
	}
	id := r.nextID
	r.nextID++
	r.buffers[id] = make([]byte, desc.Size)
	r.labels[id] = desc.Label
	return id, nil
}

// WriteBuffer copies data into the buffer at offset.
func (r *Recording) WriteBuffer(id BufferID, offset uint64, data []byte) error {
	if r.closed {
		return ErrDeviceClosed
	}
	buf, ok := r.buffers[id]
	if !ok {
		return fmt.Errorf("write buffer %d: %w", id, ErrBufferNotFound)
	}
	if offset+uint64(len(data)) > uint64(len(buf)) {
		return fmt.Errorf("write buffer %d: %d bytes at offset %d exceeds size %d",
			id, len(data), offset, len(buf))
	}
	copy(buf[offset:], data)
	return nil
}

// DestroyBuffer releases a buffer.
func (r *Recording) DestroyBuffer(id BufferID) {
	delete(r.buffers, id)
	delete(r.labels, id)
}

// Draw records a draw call.
func (r *Recording) Draw(vertices BufferID, topology Topology, count, instances int) error {
	if r.closed {
		return ErrDeviceClosed
	}
	if _, ok := r.buffers[vertices]; !ok {
		return fmt.Errorf("draw from buffer %d: %w", vertices, ErrBufferNotFound)
	}
	r.draws = append(r.draws, DrawCall{
		Vertices:  vertices,
		Topology:  topology,
		Count:     count,
		Instances: instances,
	})
	return nil
}

// Close releases all buffers and marks the device unusable.
func (r *Recording) Close() {
	r.buffers = nil
	r.labels = nil
	r.closed = true
}

// Draws returns the recorded draw calls in submission order.
func (r *Recording) Draws() []DrawCall {
	return r.draws
}

// LastDraw returns the most recent draw call, or false if none was recorded.
func (r *Recording) LastDraw() (DrawCall, bool) {
	if len(r.draws) == 0 {
		return DrawCall{}, false
	}
	return r.draws[len(r.draws)-1], true
}

// BufferData returns the current contents of a buffer, or nil if the buffer
// does not exist. The returned slice aliases the device's storage.
func (r *Recording) BufferData(id BufferID) []byte {
	return r.buffers[id]
}

// Reset clears recorded draws and dispatches but keeps buffers alive. Useful
// between frames in tests.
func (r *Recording) Reset() {
	r.draws = r.draws[:0]
	r.dispatches = r.dispatches[:0]
}
