// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package device

import "errors"

// ErrComputeUnsupported is returned when a pipeline needs a compute pass and
// the device cannot run one.
var ErrComputeUnsupported = errors.New("device: compute not supported")

// ComputeDevice is implemented by devices that can run a compute pass over
// previously written buffers. Pipelines that expand on the GPU require it;
// the others never ask.
type ComputeDevice interface {
	Device

	// Dispatch runs the device's bound compute stage with the given
	// workgroup counts.
	Dispatch(x, y, z int) error
}

// DispatchCall records one Dispatch issued against a Recording device.
type DispatchCall struct {
	X, Y, Z int
}

// Dispatch records a compute dispatch. Recording implements ComputeDevice so
// compute-based pipelines can be tested without a GPU.
func (r *Recording) Dispatch(x, y, z int) error {
	if r.closed {
		return ErrDeviceClosed
	}
	r.dispatches = append(r.dispatches, DispatchCall{X: x, Y: y, Z: z})
	return nil
}

// Dispatches returns the recorded compute dispatches in submission order.
func (r *Recording) Dispatches() []DispatchCall {
	return r.dispatches
}
