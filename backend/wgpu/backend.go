// Package wgpu provides the GPU rendering device for the scatter engine,
// built on github.com/gogpu/wgpu. It renders into off-screen textures
// (picking buffer and presentation target) and reads pixels back through
// a staging buffer, so it works headless as well as embedded in a
// gogpu-hosted window via a shared device.
package wgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import the Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/splot/backend"
	"github.com/gogpu/splot/gpudev"
)

func init() {
	backend.Register(backend.NameWgpu, func() gpudev.Device { return New() })
}

// Errors returned by the wgpu device.
var (
	// ErrNoAdapter indicates that no GPU adapter was found.
	ErrNoAdapter = errors.New("wgpu: no GPU adapter available")

	// ErrNotInitialized is returned when the device is used before Init.
	ErrNotInitialized = errors.New("wgpu: device not initialized")
)

// Device is the GPU implementation of gpudev.Device.
type Device struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	// externalDevice is true when using a shared device from a
	// gpucontext provider; shared resources are not destroyed on
	// Destroy.
	externalDevice bool

	nextID    uint64
	present   *framebuffer
	targets   map[gpudev.FramebufferID]*framebuffer
	buffers   map[gpudev.BufferID]hal.Buffer
	pipelines map[gpudev.PipelineID]*pipeline

	initialized bool
	destroyed   bool
}

var _ gpudev.Device = (*Device)(nil)

// New creates an uninitialized device. Init acquires the GPU.
func New() *Device {
	return &Device{
		targets:   make(map[gpudev.FramebufferID]*framebuffer),
		buffers:   make(map[gpudev.BufferID]hal.Buffer),
		pipelines: make(map[gpudev.PipelineID]*pipeline),
	}
}

// Name returns the device identifier.
func (d *Device) Name() string { return backend.NameWgpu }

// Init acquires a GPU instance, adapter, and device. GPU unavailability
// is a hard failure: there is no way to render without a device.
func (d *Device) Init() error {
	if d.destroyed {
		return gpudev.ErrDeviceDestroyed
	}
	if d.initialized {
		return nil
	}
	if d.externalDevice {
		d.initialized = true
		return nil
	}

	hb, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("%w: vulkan backend not registered", ErrNoAdapter)
	}
	instance, err := hb.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("wgpu: create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return ErrNoAdapter
	}

	// Prefer a real GPU over software adapters.
	selected := &adapters[0]
	for i := range adapters {
		dt := adapters[i].Info.DeviceType
		if dt == gputypes.DeviceTypeDiscreteGPU || dt == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return fmt.Errorf("wgpu: open device: %w", err)
	}

	d.instance = instance
	d.device = openDev.Device
	d.queue = openDev.Queue
	d.initialized = true
	logger().Info("wgpu: device initialized", "adapter", selected.Info.Name)
	return nil
}

// SetDeviceProvider switches the device to a shared GPU device from a
// gpucontext provider (a gogpu-hosted application window). The provider
// must expose HAL handles via HalDevice() and HalQueue(). Must be called
// before Init.
func (d *Device) SetDeviceProvider(provider gpucontext.DeviceProvider) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return fmt.Errorf("wgpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("wgpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("wgpu: provider HalQueue is not hal.Queue")
	}

	d.device = device
	d.queue = queue
	d.externalDevice = true
	logger().Debug("wgpu: using shared GPU device")
	return nil
}

// Resize sets the presentation target size, reallocating its textures
// when the dimensions change.
func (d *Device) Resize(width, height int) error {
	if err := d.check(); err != nil {
		return err
	}
	if d.present == nil {
		d.present = &framebuffer{label: "splot_present"}
	}
	return d.present.ensure(d.device, width, height)
}

// CreateFramebuffer allocates an off-screen color+depth target.
func (d *Device) CreateFramebuffer(label string, width, height int) (gpudev.FramebufferID, error) {
	if err := d.check(); err != nil {
		return gpudev.InvalidID, err
	}
	fb := &framebuffer{label: label}
	if err := fb.ensure(d.device, width, height); err != nil {
		return gpudev.InvalidID, err
	}
	d.nextID++
	id := gpudev.FramebufferID(d.nextID)
	d.targets[id] = fb
	return id, nil
}

// ResizeFramebuffer reallocates the target's textures at the new size.
func (d *Device) ResizeFramebuffer(id gpudev.FramebufferID, width, height int) error {
	if err := d.check(); err != nil {
		return err
	}
	fb, ok := d.targets[id]
	if !ok {
		return gpudev.ErrUnknownResource
	}
	return fb.ensure(d.device, width, height)
}

// DestroyFramebuffer releases the target.
func (d *Device) DestroyFramebuffer(id gpudev.FramebufferID) {
	if fb, ok := d.targets[id]; ok {
		fb.destroy(d.device)
		delete(d.targets, id)
	}
}

// CreateBuffer allocates a vertex buffer.
func (d *Device) CreateBuffer(label string, byteSize int) (gpudev.BufferID, error) {
	if err := d.check(); err != nil {
		return gpudev.InvalidID, err
	}
	if byteSize < 4 {
		byteSize = 4
	}
	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(byteSize),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return gpudev.InvalidID, fmt.Errorf("wgpu: create buffer %q: %w", label, err)
	}
	d.nextID++
	id := gpudev.BufferID(d.nextID)
	d.buffers[id] = buf
	return id, nil
}

// WriteBuffer replaces the buffer contents.
func (d *Device) WriteBuffer(id gpudev.BufferID, data []byte) error {
	if err := d.check(); err != nil {
		return err
	}
	buf, ok := d.buffers[id]
	if !ok {
		return gpudev.ErrUnknownResource
	}
	d.queue.WriteBuffer(buf, 0, data)
	return nil
}

// DestroyBuffer releases the buffer.
func (d *Device) DestroyBuffer(id gpudev.BufferID) {
	if buf, ok := d.buffers[id]; ok {
		d.device.DestroyBuffer(buf)
		delete(d.buffers, id)
	}
}

// Destroy releases every resource still held by the device. Idempotent.
func (d *Device) Destroy() {
	if d.destroyed {
		return
	}
	d.destroyed = true

	for id, p := range d.pipelines {
		p.destroy(d.device)
		delete(d.pipelines, id)
	}
	for id, buf := range d.buffers {
		d.device.DestroyBuffer(buf)
		delete(d.buffers, id)
	}
	for id, fb := range d.targets {
		fb.destroy(d.device)
		delete(d.targets, id)
	}
	if d.present != nil {
		d.present.destroy(d.device)
		d.present = nil
	}

	if !d.externalDevice {
		if d.device != nil {
			d.device.Destroy()
		}
		if d.instance != nil {
			d.instance.Destroy()
		}
	}
	d.device = nil
	d.queue = nil
	d.instance = nil
	d.initialized = false
}

func (d *Device) check() error {
	if d.destroyed {
		return gpudev.ErrDeviceDestroyed
	}
	if !d.initialized {
		return ErrNotInitialized
	}
	return nil
}

func (d *Device) resolveTarget(id gpudev.FramebufferID) (*framebuffer, error) {
	if id == gpudev.DefaultTarget {
		if d.present == nil {
			return nil, fmt.Errorf("wgpu: presentation target not sized, call Resize first")
		}
		return d.present, nil
	}
	fb, ok := d.targets[id]
	if !ok {
		return nil, gpudev.ErrUnknownResource
	}
	return fb, nil
}
