package backend

import (
	"errors"
	"testing"

	"github.com/gogpu/splot/gpudev"
)

// fakeDevice is a minimal device for registry tests.
type fakeDevice struct {
	name    string
	initErr error
}

var _ gpudev.Device = (*fakeDevice)(nil)

func (d *fakeDevice) Name() string      { return d.name }
func (d *fakeDevice) Init() error       { return d.initErr }
func (d *fakeDevice) Resize(_, _ int) error { return nil }
func (d *fakeDevice) CreateFramebuffer(string, int, int) (gpudev.FramebufferID, error) {
	return gpudev.InvalidID, nil
}
func (d *fakeDevice) ResizeFramebuffer(gpudev.FramebufferID, int, int) error { return nil }
func (d *fakeDevice) DestroyFramebuffer(gpudev.FramebufferID)                {}
func (d *fakeDevice) CreateBuffer(string, int) (gpudev.BufferID, error) {
	return gpudev.InvalidID, nil
}
func (d *fakeDevice) WriteBuffer(gpudev.BufferID, []byte) error { return nil }
func (d *fakeDevice) DestroyBuffer(gpudev.BufferID)             {}
func (d *fakeDevice) CreatePipeline(*gpudev.PipelineDesc) (gpudev.PipelineID, error) {
	return gpudev.InvalidID, nil
}
func (d *fakeDevice) BeginPass(*gpudev.PassDesc) (gpudev.PassEncoder, error) { return nil, nil }
func (d *fakeDevice) ReadPixels(gpudev.FramebufferID, int, int, int, int) ([]byte, error) {
	return nil, nil
}
func (d *fakeDevice) Destroy() {}

func TestRegisterAndGet(t *testing.T) {
	Register("fake", func() gpudev.Device { return &fakeDevice{name: "fake"} })
	defer Unregister("fake")

	if !IsRegistered("fake") {
		t.Fatal("fake backend not registered")
	}
	dev := Get("fake")
	if dev == nil || dev.Name() != "fake" {
		t.Errorf("Get returned %v", dev)
	}
	if Get("missing") != nil {
		t.Error("Get for unknown name should return nil")
	}
}

func TestUnregister(t *testing.T) {
	Register("temp", func() gpudev.Device { return &fakeDevice{name: "temp"} })
	Unregister("temp")
	if IsRegistered("temp") {
		t.Error("temp backend still registered")
	}
}

func TestAvailable(t *testing.T) {
	Register("avail-a", func() gpudev.Device { return &fakeDevice{name: "avail-a"} })
	defer Unregister("avail-a")

	found := false
	for _, name := range Available() {
		if name == "avail-a" {
			found = true
		}
	}
	if !found {
		t.Errorf("Available() = %v, missing avail-a", Available())
	}
}

func TestDefaultPriority(t *testing.T) {
	Register(NameSoft, func() gpudev.Device { return &fakeDevice{name: NameSoft} })
	Register(NameWgpu, func() gpudev.Device { return &fakeDevice{name: NameWgpu} })
	defer Unregister(NameSoft)
	defer Unregister(NameWgpu)

	dev := Default()
	if dev == nil || dev.Name() != NameWgpu {
		t.Errorf("Default() picked %v, want the hardware backend first", dev)
	}
}

func TestInitDefaultFallsThrough(t *testing.T) {
	failErr := errors.New("no adapter")
	Register(NameWgpu, func() gpudev.Device { return &fakeDevice{name: NameWgpu, initErr: failErr} })
	Register(NameSoft, func() gpudev.Device { return &fakeDevice{name: NameSoft} })
	defer Unregister(NameWgpu)
	defer Unregister(NameSoft)

	dev, err := InitDefault()
	if err != nil {
		t.Fatalf("InitDefault: %v", err)
	}
	if dev.Name() != NameSoft {
		t.Errorf("InitDefault picked %q, want fallback after init failure", dev.Name())
	}
}

func TestInitDefaultAllFail(t *testing.T) {
	failErr := errors.New("boom")
	Register(NameWgpu, func() gpudev.Device { return &fakeDevice{name: NameWgpu, initErr: failErr} })
	Register(NameSoft, func() gpudev.Device { return &fakeDevice{name: NameSoft, initErr: failErr} })
	defer Unregister(NameWgpu)
	defer Unregister(NameSoft)

	if _, err := InitDefault(); !errors.Is(err, failErr) {
		t.Errorf("InitDefault error = %v, want the first init failure", err)
	}
}
