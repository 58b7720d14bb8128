package soft

import (
	"testing"

	"github.com/gogpu/splot/gpudev"
)

// identityUniforms maps clip space directly to the target.
func identityUniforms(w, h int) gpudev.Uniforms {
	return gpudev.Uniforms{
		Transform: [16]float32{
			1, 0, 0, 0,
			0, 1, 0, 0,
			0, 0, 1, 0,
			0, 0, 0, 1,
		},
		PointScale: 1,
		ViewportW:  float32(w),
		ViewportH:  float32(h),
	}
}

func pointVertex(cx, cy float32, color [4]float32, pick [3]float32, size, flags float32) []float32 {
	return []float32{
		cx, cy, 0,
		color[0], color[1], color[2], color[3],
		pick[0], pick[1], pick[2],
		size, flags,
	}
}

func runPointPass(t *testing.T, d *Device, target gpudev.FramebufferID, kind gpudev.PipelineKind, verts []float32, count int) {
	t.Helper()
	pipe, err := d.CreatePipeline(&gpudev.PipelineDesc{Label: "pipe", Kind: kind, Blend: kind == gpudev.KindPoints})
	if err != nil {
		t.Fatal(err)
	}
	buf, err := d.CreateBuffer("verts", len(verts)*4)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.WriteBuffer(buf, gpudev.Float32Bytes(verts)); err != nil {
		t.Fatal(err)
	}
	pass, err := d.BeginPass(&gpudev.PassDesc{Target: target})
	if err != nil {
		t.Fatal(err)
	}
	u := identityUniforms(16, 16)
	if err := pass.SetPipeline(pipe); err != nil {
		t.Fatal(err)
	}
	if err := pass.SetUniforms(&u); err != nil {
		t.Fatal(err)
	}
	if err := pass.SetVertexBuffer(buf); err != nil {
		t.Fatal(err)
	}
	if err := pass.Draw(0, count); err != nil {
		t.Fatal(err)
	}
	if err := pass.End(); err != nil {
		t.Fatal(err)
	}
}

func TestSplatPointCenterPixel(t *testing.T) {
	d := newDevice(t)
	fb, err := d.CreateFramebuffer("fb", 16, 16)
	if err != nil {
		t.Fatal(err)
	}

	// A white sprite at clip origin covers the target center.
	verts := pointVertex(0, 0, [4]float32{1, 1, 1, 1}, [3]float32{0, 0, 0}, 6, 0)
	runPointPass(t, d, fb, gpudev.KindPoints, verts, 1)

	pix, err := d.ReadPixels(fb, 8, 8, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if pix[0] < 200 || pix[1] < 200 || pix[2] < 200 {
		t.Errorf("center pixel = %v, want near-white", pix)
	}

	corner, err := d.ReadPixels(fb, 0, 0, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if corner[3] != 0 {
		t.Errorf("corner pixel = %v, want untouched transparent clear", corner)
	}
}

func TestSplatPickExactBytes(t *testing.T) {
	d := newDevice(t)
	fb, err := d.CreateFramebuffer("fb", 16, 16)
	if err != nil {
		t.Fatal(err)
	}

	// Identity color 0x0A141E must land byte-exact: any smoothing would
	// decode to a wrong index.
	pick := [3]float32{10.0 / 255, 20.0 / 255, 30.0 / 255}
	verts := pointVertex(0, 0, [4]float32{1, 1, 1, 1}, pick, 8, 0)
	runPointPass(t, d, fb, gpudev.KindPickPoints, verts, 1)

	pix, err := d.ReadPixels(fb, 8, 8, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if pix[0] != 10 || pix[1] != 20 || pix[2] != 30 || pix[3] != 255 {
		t.Errorf("pick pixel = %v, want [10 20 30 255] exactly", pix)
	}
}

func TestNonFiniteVertexSkipped(t *testing.T) {
	d := newDevice(t)
	fb, err := d.CreateFramebuffer("fb", 16, 16)
	if err != nil {
		t.Fatal(err)
	}

	nan := float32(0)
	nan /= nan
	verts := pointVertex(nan, 0, [4]float32{1, 1, 1, 1}, [3]float32{1, 1, 1}, 8, 0)
	runPointPass(t, d, fb, gpudev.KindPoints, verts, 1)

	pix, err := d.ReadPixels(fb, 0, 0, 16, 16)
	if err != nil {
		t.Fatal(err)
	}
	for i := 3; i < len(pix); i += 4 {
		if pix[i] != 0 {
			t.Fatal("non-finite vertex produced visible pixels")
		}
	}
}

func TestDrawLines(t *testing.T) {
	d := newDevice(t)
	fb, err := d.CreateFramebuffer("fb", 16, 16)
	if err != nil {
		t.Fatal(err)
	}

	pipe, err := d.CreatePipeline(&gpudev.PipelineDesc{Label: "lines", Kind: gpudev.KindLines})
	if err != nil {
		t.Fatal(err)
	}
	// A horizontal line across the middle.
	verts := []float32{
		-1, 0, 0, 0, 1, 0, 1,
		1, 0, 0, 0, 1, 0, 1,
	}
	buf, err := d.CreateBuffer("verts", len(verts)*4)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.WriteBuffer(buf, gpudev.Float32Bytes(verts)); err != nil {
		t.Fatal(err)
	}
	pass, err := d.BeginPass(&gpudev.PassDesc{Target: fb})
	if err != nil {
		t.Fatal(err)
	}
	u := identityUniforms(16, 16)
	if err := pass.SetPipeline(pipe); err != nil {
		t.Fatal(err)
	}
	if err := pass.SetUniforms(&u); err != nil {
		t.Fatal(err)
	}
	if err := pass.SetVertexBuffer(buf); err != nil {
		t.Fatal(err)
	}
	if err := pass.Draw(0, 2); err != nil {
		t.Fatal(err)
	}
	if err := pass.End(); err != nil {
		t.Fatal(err)
	}

	// The line lands on storage row 8; ReadPixels y is bottom-up.
	pix, err := d.ReadPixels(fb, 2, 7, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if pix[1] == 0 {
		t.Errorf("line pixel = %v, want green", pix)
	}
}

func TestDepthTestOccludes(t *testing.T) {
	d := newDevice(t)
	fb, err := d.CreateFramebuffer("fb", 16, 16)
	if err != nil {
		t.Fatal(err)
	}

	pipe, err := d.CreatePipeline(&gpudev.PipelineDesc{Label: "pick3d", Kind: gpudev.KindPickPoints, DepthTest: true})
	if err != nil {
		t.Fatal(err)
	}
	// Near red sprite first, far green sprite second; depth keeps red.
	verts := append(
		pointVertex(0, 0, [4]float32{1, 1, 1, 1}, [3]float32{1, 0, 0}, 8, 0),
		pointVertex(0, 0, [4]float32{1, 1, 1, 1}, [3]float32{0, 1, 0}, 8, 0)...,
	)
	verts[2] = 0.1 // near depth
	verts[14] = 0.9
	buf, err := d.CreateBuffer("verts", len(verts)*4)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.WriteBuffer(buf, gpudev.Float32Bytes(verts)); err != nil {
		t.Fatal(err)
	}
	pass, err := d.BeginPass(&gpudev.PassDesc{Target: fb})
	if err != nil {
		t.Fatal(err)
	}
	u := identityUniforms(16, 16)
	if err := pass.SetPipeline(pipe); err != nil {
		t.Fatal(err)
	}
	if err := pass.SetUniforms(&u); err != nil {
		t.Fatal(err)
	}
	if err := pass.SetVertexBuffer(buf); err != nil {
		t.Fatal(err)
	}
	if err := pass.Draw(0, 2); err != nil {
		t.Fatal(err)
	}
	if err := pass.End(); err != nil {
		t.Fatal(err)
	}

	pix, err := d.ReadPixels(fb, 8, 8, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if pix[0] != 255 || pix[1] != 0 {
		t.Errorf("center pixel = %v, want the nearer red sprite", pix)
	}
}
