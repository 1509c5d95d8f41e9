package renderer

import (
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// MatrixSize is the byte size of one mat4x4<f32> palette entry.
const MatrixSize = 64

// BufferWrite describes a single GPU buffer write operation at a given byte offset.
type BufferWrite struct {
	Buffer *wgpu.Buffer
	Offset uint64
	Data   []byte
}

// PaletteBufferDescriptor describes a storage buffer holding the palettes of several instances
// of one skeleton back to back.
//
// Parameters:
//   - label: the debug label
//   - joints: the joint count of the skeleton
//   - instances: the number of instances sharing the buffer
//
// Returns:
//   - *wgpu.BufferDescriptor: the descriptor for Device.CreateBuffer
func PaletteBufferDescriptor(label string, joints, instances int) *wgpu.BufferDescriptor {
	size := uint64(joints) * uint64(instances) * MatrixSize
	if size == 0 {
		size = MatrixSize
	}
	return &wgpu.BufferDescriptor{
		Label:            label + " Palette Buffer",
		Size:             size,
		Usage:            wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	}
}

// PaletteStager collects palette uploads for a frame. Palette bytes are copied into a staging
// slice that is reused across frames, so a palette may be updated again as soon as it is staged.
type PaletteStager struct {
	mu      sync.Mutex
	staging []byte
	writes  []BufferWrite
}

// Stage queues a palette for upload into the slot of one instance.
//
// Parameters:
//   - buffer: the destination storage buffer, see PaletteBufferDescriptor
//   - instance: the instance slot; the write lands at instance*Len()*MatrixSize
//   - p: the palette to copy
func (s *PaletteStager) Stage(buffer *wgpu.Buffer, instance int, p *Palette) {
	raw := p.Bytes()
	if len(raw) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	start := len(s.staging)
	s.staging = append(s.staging, raw...)
	s.writes = append(s.writes, BufferWrite{
		Buffer: buffer,
		Offset: uint64(instance) * uint64(len(raw)),
		Data:   s.staging[start:len(s.staging):len(s.staging)],
	})
}

// Writes returns the writes staged since the last Flush or Reset.
//
// Returns:
//   - []BufferWrite: the staged writes
func (s *PaletteStager) Writes() []BufferWrite {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// Reset drops the staged writes and keeps the staging memory.
func (s *PaletteStager) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staging = s.staging[:0]
	s.writes = s.writes[:0]
}

// Flush writes every staged palette to the GPU queue and resets the stager.
// wgpu's queue.WriteBuffer copies data internally before returning.
//
// Parameters:
//   - queue: the device queue
func (s *PaletteStager) Flush(queue *wgpu.Queue) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range s.writes {
		if w.Buffer == nil {
			continue
		}
		queue.WriteBuffer(w.Buffer, w.Offset, w.Data)
	}
	s.staging = s.staging[:0]
	s.writes = s.writes[:0]
}
