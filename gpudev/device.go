package gpudev

import (
	"errors"
	"math"
)

// Errors shared by device implementations.
var (
	// ErrDeviceDestroyed is returned when a resource operation reaches a
	// device after Destroy.
	ErrDeviceDestroyed = errors.New("gpudev: device destroyed")

	// ErrUnknownResource is returned when an ID does not resolve to a
	// live resource on this device.
	ErrUnknownResource = errors.New("gpudev: unknown resource ID")

	// ErrFramebufferIncomplete is returned when an off-screen target
	// fails the underlying API's completeness check after creation or
	// resize. The engine degrades to non-pickable rendering.
	ErrFramebufferIncomplete = errors.New("gpudev: framebuffer incomplete")

	// ErrReadbackUnavailable is returned by ReadPixels when the device
	// cannot map render targets for CPU access. Picking is an
	// enhancement; callers treat this as a degraded state, not a crash.
	ErrReadbackUnavailable = errors.New("gpudev: pixel readback not supported")
)

// Device is a rendering device. All methods are driven from a single
// goroutine (the frame loop); implementations need no internal locking
// beyond what their backing API requires.
type Device interface {
	// Name identifies the device implementation ("wgpu", "soft").
	Name() string

	// Init acquires the underlying resources (GPU adapter and device for
	// hardware backends). Must be called once before any other method.
	Init() error

	// Resize sets the presentation target size in device pixels.
	Resize(width, height int) error

	// CreateFramebuffer allocates an off-screen color+depth target.
	CreateFramebuffer(label string, width, height int) (FramebufferID, error)

	// ResizeFramebuffer reallocates the target's backing storage at the
	// new size. Contents are undefined afterwards.
	ResizeFramebuffer(id FramebufferID, width, height int) error

	// DestroyFramebuffer releases the target. Unknown IDs are ignored.
	DestroyFramebuffer(id FramebufferID)

	// CreateBuffer allocates a vertex buffer of byteSize bytes.
	CreateBuffer(label string, byteSize int) (BufferID, error)

	// WriteBuffer replaces the buffer contents from offset 0. Buffers
	// are fully overwritten on every data change, never patched.
	WriteBuffer(id BufferID, data []byte) error

	// DestroyBuffer releases the buffer. Unknown IDs are ignored.
	DestroyBuffer(id BufferID)

	// CreatePipeline compiles a render pipeline. Shader compilation
	// failures carry the compiler's diagnostic text.
	CreatePipeline(desc *PipelineDesc) (PipelineID, error)

	// BeginPass starts a render pass, clearing the target.
	BeginPass(desc *PassDesc) (PassEncoder, error)

	// ReadPixels reads an RGBA8 block from the target. The origin is
	// the bottom-left corner of the framebuffer (GPU row order); rows
	// are returned bottom-up, 4 bytes per pixel. Out-of-bounds reads
	// are an error.
	ReadPixels(target FramebufferID, x, y, width, height int) ([]byte, error)

	// Destroy releases every resource still held by the device.
	// Idempotent.
	Destroy()
}

// PassEncoder records draw commands for one render pass. End must be
// called exactly once; no method may be used afterwards.
type PassEncoder interface {
	// SetPipeline selects the pipeline for subsequent draws.
	SetPipeline(id PipelineID) error

	// SetUniforms uploads the uniform block for subsequent draws.
	SetUniforms(u *Uniforms) error

	// SetVertexBuffer binds the vertex source for subsequent draws.
	SetVertexBuffer(id BufferID) error

	// Draw renders count vertices starting at first. For point
	// pipelines each vertex is one sprite; for line pipelines vertices
	// pair into segments.
	Draw(first, count int) error

	// End submits the recorded pass.
	End() error
}

// Float32Bytes converts a float32 slice to its little-endian byte
// representation for buffer upload.
func Float32Bytes(data []float32) []byte {
	out := make([]byte, len(data)*4)
	for i, f := range data {
		bits := math.Float32bits(f)
		out[i*4] = byte(bits)
		out[i*4+1] = byte(bits >> 8)
		out[i*4+2] = byte(bits >> 16)
		out[i*4+3] = byte(bits >> 24)
	}
	return out
}

// Float32FromBytes is the inverse of Float32Bytes, used by CPU devices
// to interpret uploaded vertex data.
func Float32FromBytes(data []byte) []float32 {
	out := make([]float32, len(data)/4)
	for i := range out {
		bits := uint32(data[i*4]) |
			uint32(data[i*4+1])<<8 |
			uint32(data[i*4+2])<<16 |
			uint32(data[i*4+3])<<24
		out[i] = math.Float32frombits(bits)
	}
	return out
}
