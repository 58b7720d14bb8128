// Package soft provides a CPU reference device for the scatter engine.
// It rasterizes point sprites and lines into in-memory targets with the
// same semantics as the GPU backend: anti-aliased blended sprites for
// the main pass, exact flat identity colors for the picking pass, and
// synchronous pixel readback. It exists for tests, headless tools, and
// environments without a usable GPU.
package soft

import (
	"fmt"

	"github.com/gogpu/splot/backend"
	"github.com/gogpu/splot/gpudev"
)

func init() {
	backend.Register(backend.NameSoft, func() gpudev.Device { return New() })
}

// target is one render target: RGBA color rows stored top-down plus a
// depth plane.
type target struct {
	width, height int
	color         []uint8
	depth         []float32
}

func newTarget(width, height int) *target {
	t := &target{}
	t.alloc(width, height)
	return t
}

func (t *target) alloc(width, height int) {
	t.width = width
	t.height = height
	t.color = make([]uint8, width*height*4)
	t.depth = make([]float32, width*height)
}

func (t *target) clear(c [4]float32) {
	r := uint8(clamp01(c[0]) * 255)
	g := uint8(clamp01(c[1]) * 255)
	b := uint8(clamp01(c[2]) * 255)
	a := uint8(clamp01(c[3]) * 255)
	for i := 0; i < len(t.color); i += 4 {
		t.color[i] = r
		t.color[i+1] = g
		t.color[i+2] = b
		t.color[i+3] = a
	}
	for i := range t.depth {
		t.depth[i] = 1
	}
}

// Device is the CPU reference implementation of gpudev.Device.
type Device struct {
	initialized bool
	destroyed   bool

	nextID    uint64
	present   *target
	targets   map[gpudev.FramebufferID]*target
	buffers   map[gpudev.BufferID][]byte
	pipelines map[gpudev.PipelineID]gpudev.PipelineDesc
}

var _ gpudev.Device = (*Device)(nil)

// New creates an uninitialized device.
func New() *Device {
	return &Device{
		targets:   make(map[gpudev.FramebufferID]*target),
		buffers:   make(map[gpudev.BufferID][]byte),
		pipelines: make(map[gpudev.PipelineID]gpudev.PipelineDesc),
	}
}

// Name identifies the device implementation.
func (d *Device) Name() string { return backend.NameSoft }

// Init prepares the device. The CPU device has nothing to acquire and
// never fails.
func (d *Device) Init() error {
	if d.destroyed {
		return gpudev.ErrDeviceDestroyed
	}
	d.initialized = true
	return nil
}

// Resize sets the presentation target size.
func (d *Device) Resize(width, height int) error {
	if err := d.check(); err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("soft: invalid presentation size %dx%d", width, height)
	}
	if d.present == nil {
		d.present = newTarget(width, height)
	} else if d.present.width != width || d.present.height != height {
		d.present.alloc(width, height)
	}
	return nil
}

// CreateFramebuffer allocates an off-screen color+depth target.
func (d *Device) CreateFramebuffer(label string, width, height int) (gpudev.FramebufferID, error) {
	if err := d.check(); err != nil {
		return gpudev.InvalidID, err
	}
	if width <= 0 || height <= 0 {
		return gpudev.InvalidID, fmt.Errorf("%w: %q at %dx%d",
			gpudev.ErrFramebufferIncomplete, label, width, height)
	}
	d.nextID++
	id := gpudev.FramebufferID(d.nextID)
	d.targets[id] = newTarget(width, height)
	return id, nil
}

// ResizeFramebuffer reallocates a target's storage.
func (d *Device) ResizeFramebuffer(id gpudev.FramebufferID, width, height int) error {
	if err := d.check(); err != nil {
		return err
	}
	t, ok := d.targets[id]
	if !ok {
		return gpudev.ErrUnknownResource
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: resize to %dx%d", gpudev.ErrFramebufferIncomplete, width, height)
	}
	t.alloc(width, height)
	return nil
}

// DestroyFramebuffer releases a target.
func (d *Device) DestroyFramebuffer(id gpudev.FramebufferID) {
	delete(d.targets, id)
}

// CreateBuffer allocates a vertex buffer.
func (d *Device) CreateBuffer(label string, byteSize int) (gpudev.BufferID, error) {
	if err := d.check(); err != nil {
		return gpudev.InvalidID, err
	}
	if byteSize < 0 {
		return gpudev.InvalidID, fmt.Errorf("soft: negative buffer size for %q", label)
	}
	d.nextID++
	id := gpudev.BufferID(d.nextID)
	d.buffers[id] = make([]byte, byteSize)
	return id, nil
}

// WriteBuffer replaces buffer contents, growing the buffer if the data
// is larger than the allocation.
func (d *Device) WriteBuffer(id gpudev.BufferID, data []byte) error {
	if err := d.check(); err != nil {
		return err
	}
	buf, ok := d.buffers[id]
	if !ok {
		return gpudev.ErrUnknownResource
	}
	if len(data) > len(buf) {
		buf = make([]byte, len(data))
	}
	copy(buf, data)
	d.buffers[id] = buf[:len(data)]
	return nil
}

// DestroyBuffer releases a buffer.
func (d *Device) DestroyBuffer(id gpudev.BufferID) {
	delete(d.buffers, id)
}

// CreatePipeline records the pipeline descriptor. The CPU device
// rasterizes by Kind and does not consult the WGSL source.
func (d *Device) CreatePipeline(desc *gpudev.PipelineDesc) (gpudev.PipelineID, error) {
	if err := d.check(); err != nil {
		return gpudev.InvalidID, err
	}
	switch desc.Kind {
	case gpudev.KindPoints, gpudev.KindPickPoints, gpudev.KindLines:
	default:
		return gpudev.InvalidID, fmt.Errorf("soft: unknown pipeline kind %d in %q", desc.Kind, desc.Label)
	}
	d.nextID++
	id := gpudev.PipelineID(d.nextID)
	d.pipelines[id] = *desc
	return id, nil
}

// BeginPass starts a render pass over the target.
func (d *Device) BeginPass(desc *gpudev.PassDesc) (gpudev.PassEncoder, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	t, err := d.resolveTarget(desc.Target)
	if err != nil {
		return nil, err
	}
	t.clear(desc.ClearColor)
	return &passEncoder{dev: d, target: t}, nil
}

// ReadPixels reads an RGBA8 block in GPU row order (bottom-up).
func (d *Device) ReadPixels(id gpudev.FramebufferID, x, y, width, height int) ([]byte, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	t, err := d.resolveTarget(id)
	if err != nil {
		return nil, err
	}
	if x < 0 || y < 0 || width <= 0 || height <= 0 ||
		x+width > t.width || y+height > t.height {
		return nil, fmt.Errorf("soft: read %dx%d+%d+%d out of %dx%d target bounds",
			width, height, x, y, t.width, t.height)
	}

	out := make([]byte, width*height*4)
	for row := 0; row < height; row++ {
		// Bottom-up row order: row 0 is the bottom of the framebuffer.
		srcRow := t.height - 1 - (y + row)
		src := (srcRow*t.width + x) * 4
		copy(out[row*width*4:(row+1)*width*4], t.color[src:src+width*4])
	}
	return out, nil
}

// Destroy releases everything. Idempotent.
func (d *Device) Destroy() {
	if d.destroyed {
		return
	}
	d.destroyed = true
	d.present = nil
	d.targets = make(map[gpudev.FramebufferID]*target)
	d.buffers = make(map[gpudev.BufferID][]byte)
	d.pipelines = make(map[gpudev.PipelineID]gpudev.PipelineDesc)
}

func (d *Device) check() error {
	if d.destroyed {
		return gpudev.ErrDeviceDestroyed
	}
	if !d.initialized {
		return fmt.Errorf("soft: device not initialized")
	}
	return nil
}

func (d *Device) resolveTarget(id gpudev.FramebufferID) (*target, error) {
	if id == gpudev.DefaultTarget {
		if d.present == nil {
			return nil, fmt.Errorf("soft: presentation target not sized, call Resize first")
		}
		return d.present, nil
	}
	t, ok := d.targets[id]
	if !ok {
		return nil, gpudev.ErrUnknownResource
	}
	return t, nil
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
