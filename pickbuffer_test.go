package splot

import (
	"testing"

	"github.com/gogpu/splot/backend/soft"
	"github.com/gogpu/splot/gpudev"
)

func newSoftDevice(t *testing.T) gpudev.Device {
	t.Helper()
	dev := soft.New()
	if err := dev.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(dev.Destroy)
	return dev
}

// renderPickPoints draws flat identity sprites into the buffer at the
// given screen positions (top-left origin, identity transform over
// clip space [-1, 1]).
func renderPickPoints(t *testing.T, dev gpudev.Device, pb *PickBuffer, points [][2]float32, size float32) {
	t.Helper()
	pipe, err := dev.CreatePipeline(&gpudev.PipelineDesc{
		Label: "test_pick",
		Kind:  gpudev.KindPickPoints,
	})
	if err != nil {
		t.Fatalf("CreatePipeline: %v", err)
	}

	verts := make([]float32, 0, len(points)*gpudev.PointVertexFloats)
	w, h := float32(pb.Width()), float32(pb.Height())
	for i, p := range points {
		// Screen pixel to clip space.
		cx := p[0]/w*2 - 1
		cy := 1 - p[1]/h*2
		pr, pg, pbb := EncodePickColor(i)
		verts = append(verts,
			cx, cy, 0,
			0, 0, 0, 1,
			float32(pr)/255, float32(pg)/255, float32(pbb)/255,
			size, 0,
		)
	}
	buf, err := dev.CreateBuffer("test_pick_verts", len(verts)*4)
	if err != nil {
		t.Fatalf("CreateBuffer: %v", err)
	}
	if err := dev.WriteBuffer(buf, gpudev.Float32Bytes(verts)); err != nil {
		t.Fatalf("WriteBuffer: %v", err)
	}

	pass, err := dev.BeginPass(&gpudev.PassDesc{
		Label:      "test_pick_pass",
		Target:     pb.Target(),
		ClearColor: [4]float32{0, 0, 0, 1},
	})
	if err != nil {
		t.Fatalf("BeginPass: %v", err)
	}
	u := gpudev.Uniforms{
		Transform:  Identity4(),
		PointScale: 1,
		ViewportW:  w,
		ViewportH:  h,
	}
	if err := pass.SetPipeline(pipe); err != nil {
		t.Fatal(err)
	}
	if err := pass.SetUniforms(&u); err != nil {
		t.Fatal(err)
	}
	if err := pass.SetVertexBuffer(buf); err != nil {
		t.Fatal(err)
	}
	if err := pass.Draw(0, len(points)); err != nil {
		t.Fatal(err)
	}
	if err := pass.End(); err != nil {
		t.Fatal(err)
	}
}

func TestPickBufferReadPoint(t *testing.T) {
	dev := newSoftDevice(t)
	pb, err := NewPickBuffer(dev, 200, 100)
	if err != nil {
		t.Fatalf("NewPickBuffer: %v", err)
	}
	defer pb.Destroy()

	renderPickPoints(t, dev, pb, [][2]float32{{50, 30}, {150, 80}}, 8)

	if got := pb.ReadPoint(50, 30); got != 0 {
		t.Errorf("ReadPoint at first point = %d, want 0", got)
	}
	if got := pb.ReadPoint(150, 80); got != 1 {
		t.Errorf("ReadPoint at second point = %d, want 1", got)
	}
	if got := pb.ReadPoint(100, 10); got != NoSample {
		t.Errorf("ReadPoint on background = %d, want NoSample", got)
	}
}

func TestPickBufferReadPointClamps(t *testing.T) {
	dev := newSoftDevice(t)
	pb, err := NewPickBuffer(dev, 50, 50)
	if err != nil {
		t.Fatal(err)
	}
	defer pb.Destroy()
	renderPickPoints(t, dev, pb, nil, 0)

	// Out-of-range coordinates clamp instead of failing.
	for _, at := range [][2]int{{-10, 25}, {500, 25}, {25, -3}, {25, 900}} {
		if got := pb.ReadPoint(at[0], at[1]); got != NoSample {
			t.Errorf("clamped read at %v = %d, want NoSample", at, got)
		}
	}
}

func TestPickBufferResize(t *testing.T) {
	dev := newSoftDevice(t)
	pb, err := NewPickBuffer(dev, 400, 300)
	if err != nil {
		t.Fatal(err)
	}
	defer pb.Destroy()

	if err := pb.Resize(400, 300); err != nil {
		t.Fatalf("same-size resize: %v", err)
	}
	if err := pb.Resize(800, 600); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if pb.Width() != 800 || pb.Height() != 600 {
		t.Errorf("size after resize = %dx%d", pb.Width(), pb.Height())
	}

	// A coordinate valid only at the new size reads without error.
	renderPickPoints(t, dev, pb, [][2]float32{{700, 500}}, 8)
	if got := pb.ReadPoint(700, 500); got != 0 {
		t.Errorf("ReadPoint at new-size coordinate = %d, want 0", got)
	}
}

func TestPickBufferReadRegionDedup(t *testing.T) {
	dev := newSoftDevice(t)
	pb, err := NewPickBuffer(dev, 120, 120)
	if err != nil {
		t.Fatal(err)
	}
	defer pb.Destroy()

	// Two large sprites: each covers many pixels, the set holds each
	// index once.
	renderPickPoints(t, dev, pb, [][2]float32{{40, 60}, {80, 60}}, 20)

	got := pb.ReadRegion(0, 0, 119, 119)
	if len(got) != 2 || !got.Has(0) || !got.Has(1) {
		t.Errorf("ReadRegion = %v, want {0, 1}", got.Indices())
	}

	// Corner order does not matter.
	swapped := pb.ReadRegion(119, 119, 0, 0)
	if !sameSet(got, swapped) {
		t.Error("ReadRegion depends on corner order")
	}

	// A region off every sprite is empty.
	if empty := pb.ReadRegion(0, 0, 10, 10); len(empty) != 0 {
		t.Errorf("background region = %v", empty.Indices())
	}
}

func TestPickBufferDestroyedReads(t *testing.T) {
	dev := newSoftDevice(t)
	pb, err := NewPickBuffer(dev, 100, 100)
	if err != nil {
		t.Fatal(err)
	}
	pb.Destroy()
	pb.Destroy()

	if got := pb.ReadPoint(50, 50); got != NoSample {
		t.Errorf("ReadPoint on destroyed buffer = %d, want NoSample", got)
	}
	if got := pb.ReadRegion(0, 0, 99, 99); len(got) != 0 {
		t.Errorf("ReadRegion on destroyed buffer = %v", got.Indices())
	}

	var nilBuf *PickBuffer
	if got := nilBuf.ReadPoint(0, 0); got != NoSample {
		t.Errorf("nil buffer ReadPoint = %d", got)
	}
}
