// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package device

import (
	"bytes"
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestRecordingBufferLifecycle(t *testing.T) {
	dev := NewRecording()
	defer dev.Close()

	id, err := dev.CreateBuffer(BufferDescriptor{
		Label: "test",
		Size:  16,
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		t.Fatalf("CreateBuffer: %v", err)
	}
	if id == InvalidBuffer {
		t.Fatal("CreateBuffer returned InvalidBuffer")
	}

	data := []byte{1, 2, 3, 4}
	if err := dev.WriteBuffer(id, 4, data); err != nil {
		t.Fatalf("WriteBuffer: %v", err)
	}
	got := dev.BufferData(id)
	if len(got) != 16 {
		t.Fatalf("buffer size = %d, want 16", len(got))
	}
	if !bytes.Equal(got[4:8], data) {
		t.Errorf("buffer contents at offset 4 = %v, want %v", got[4:8], data)
	}
	if got[0] != 0 || got[8] != 0 {
		t.Errorf("bytes outside the write were modified: %v", got)
	}

	dev.DestroyBuffer(id)
	if dev.BufferData(id) != nil {
		t.Error("buffer data survives DestroyBuffer")
	}
}

func TestRecordingErrors(t *testing.T) {
	dev := NewRecording()

	if _, err := dev.CreateBuffer(BufferDescriptor{Size: 0}); !errors.Is(err, ErrInvalidBufferSize) {
		t.Errorf("zero-size CreateBuffer error = %v, want ErrInvalidBufferSize", err)
	}
	if err := dev.WriteBuffer(42, 0, []byte{1}); !errors.Is(err, ErrBufferNotFound) {
		t.Errorf("WriteBuffer to missing buffer error = %v, want ErrBufferNotFound", err)
	}
	if err := dev.Draw(42, TopologyLines, 2, 1); !errors.Is(err, ErrBufferNotFound) {
		t.Errorf("Draw from missing buffer error = %v, want ErrBufferNotFound", err)
	}

	id, err := dev.CreateBuffer(BufferDescriptor{Size: 8})
	if err != nil {
		t.Fatalf("CreateBuffer: %v", err)
	}
	if err := dev.WriteBuffer(id, 4, make([]byte, 8)); err == nil {
		t.Error("out-of-bounds WriteBuffer succeeded")
	}

	dev.Close()
	if _, err := dev.CreateBuffer(BufferDescriptor{Size: 8}); !errors.Is(err, ErrDeviceClosed) {
		t.Errorf("CreateBuffer after Close error = %v, want ErrDeviceClosed", err)
	}
	if err := dev.WriteBuffer(id, 0, []byte{1}); !errors.Is(err, ErrDeviceClosed) {
		t.Errorf("WriteBuffer after Close error = %v, want ErrDeviceClosed", err)
	}
	if err := dev.Dispatch(1, 1, 1); !errors.Is(err, ErrDeviceClosed) {
		t.Errorf("Dispatch after Close error = %v, want ErrDeviceClosed", err)
	}
}

func TestRecordingDrawsAndDispatches(t *testing.T) {
	dev := NewRecording()
	defer dev.Close()

	id, err := dev.CreateBuffer(BufferDescriptor{Size: 64})
	if err != nil {
		t.Fatalf("CreateBuffer: %v", err)
	}

	if err := dev.Draw(id, TopologyTriangles, 12, 1); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if err := dev.Dispatch(3, 1, 1); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if err := dev.Draw(id, TopologyLines, 4, 2); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	draws := dev.Draws()
	if len(draws) != 2 {
		t.Fatalf("recorded %d draws, want 2", len(draws))
	}
	want := DrawCall{Vertices: id, Topology: TopologyTriangles, Count: 12, Instances: 1}
	if draws[0] != want {
		t.Errorf("first draw = %+v, want %+v", draws[0], want)
	}
	last, ok := dev.LastDraw()
	if !ok || last.Topology != TopologyLines || last.Instances != 2 {
		t.Errorf("LastDraw = %+v, %v", last, ok)
	}

	dispatches := dev.Dispatches()
	if len(dispatches) != 1 || dispatches[0] != (DispatchCall{X: 3, Y: 1, Z: 1}) {
		t.Errorf("Dispatches = %+v, want one (3,1,1) call", dispatches)
	}

	dev.Reset()
	if len(dev.Draws()) != 0 || len(dev.Dispatches()) != 0 {
		t.Error("Reset left recorded calls behind")
	}
	if dev.BufferData(id) == nil {
		t.Error("Reset destroyed buffers")
	}
}

func TestTopologyString(t *testing.T) {
	if got := TopologyLines.String(); got != "Lines" {
		t.Errorf("TopologyLines.String() = %q", got)
	}
	if got := TopologyTriangles.String(); got != "Triangles" {
		t.Errorf("TopologyTriangles.String() = %q", got)
	}
}

var _ ComputeDevice = (*Recording)(nil)
