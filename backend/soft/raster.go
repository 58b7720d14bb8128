package soft

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/gogpu/splot/gpudev"
)

// passEncoder rasterizes draw commands directly into the pass target.
type passEncoder struct {
	dev    *Device
	target *target

	pipeline gpudev.PipelineDesc
	hasPipe  bool
	uniforms gpudev.Uniforms
	verts    []float32
	ended    bool
}

var _ gpudev.PassEncoder = (*passEncoder)(nil)

func (p *passEncoder) SetPipeline(id gpudev.PipelineID) error {
	if p.ended {
		return fmt.Errorf("soft: pass already ended")
	}
	desc, ok := p.dev.pipelines[id]
	if !ok {
		return gpudev.ErrUnknownResource
	}
	p.pipeline = desc
	p.hasPipe = true
	return nil
}

func (p *passEncoder) SetUniforms(u *gpudev.Uniforms) error {
	if p.ended {
		return fmt.Errorf("soft: pass already ended")
	}
	p.uniforms = *u
	return nil
}

func (p *passEncoder) SetVertexBuffer(id gpudev.BufferID) error {
	if p.ended {
		return fmt.Errorf("soft: pass already ended")
	}
	buf, ok := p.dev.buffers[id]
	if !ok {
		return gpudev.ErrUnknownResource
	}
	p.verts = gpudev.Float32FromBytes(buf)
	return nil
}

func (p *passEncoder) Draw(first, count int) error {
	if p.ended {
		return fmt.Errorf("soft: pass already ended")
	}
	if !p.hasPipe {
		return fmt.Errorf("soft: draw without pipeline")
	}
	switch p.pipeline.Kind {
	case gpudev.KindPoints:
		p.drawPoints(first, count, false)
	case gpudev.KindPickPoints:
		p.drawPoints(first, count, true)
	case gpudev.KindLines:
		p.drawLines(first, count)
	}
	return nil
}

func (p *passEncoder) End() error {
	if p.ended {
		return fmt.Errorf("soft: pass already ended")
	}
	p.ended = true
	return nil
}

// project transforms a world position through the pass transform into
// pixel coordinates plus depth. ok is false for clipped or non-finite
// positions.
func (p *passEncoder) project(x, y, z float32) (px, py, depth float32, ok bool) {
	m := &p.uniforms.Transform
	cx := m[0]*x + m[4]*y + m[8]*z + m[12]
	cy := m[1]*x + m[5]*y + m[9]*z + m[13]
	cz := m[2]*x + m[6]*y + m[10]*z + m[14]
	cw := m[3]*x + m[7]*y + m[11]*z + m[15]
	if cw <= 0 || math32.IsNaN(cx) || math32.IsNaN(cy) || math32.IsNaN(cw) {
		return 0, 0, 0, false
	}
	nx, ny, nz := cx/cw, cy/cw, cz/cw
	if math32.IsNaN(nx) || math32.IsNaN(ny) || math32.IsInf(nx, 0) || math32.IsInf(ny, 0) {
		return 0, 0, 0, false
	}
	// NDC +Y is up; target rows are stored top-down.
	px = (nx + 1) / 2 * float32(p.target.width)
	py = (1 - ny) / 2 * float32(p.target.height)
	return px, py, nz, true
}

func (p *passEncoder) drawPoints(first, count int, picking bool) {
	stride := gpudev.PointVertexFloats
	for i := first; i < first+count; i++ {
		base := i * stride
		if base+stride > len(p.verts) {
			return
		}
		v := p.verts[base : base+stride]
		px, py, depth, ok := p.project(v[0], v[1], v[2])
		if !ok {
			continue
		}
		radius := v[10] * p.uniforms.PointScale / 2
		if radius <= 0 {
			continue
		}
		if picking {
			p.splatPick(px, py, depth, radius, v[7], v[8], v[9])
		} else {
			p.splatPoint(px, py, depth, radius, v)
		}
	}
}

// splatPoint rasterizes one anti-aliased sprite for the main pass.
// Vertex layout: pos[3] color[4] pick[3] size flags.
func (p *passEncoder) splatPoint(px, py, depth, radius float32, v []float32) {
	cr, cg, cb, ca := v[3], v[4], v[5], v[6]
	ring := v[11] >= gpudev.FlagRing

	x0 := int(math32.Floor(px - radius - 1))
	x1 := int(math32.Ceil(px + radius + 1))
	y0 := int(math32.Floor(py - radius - 1))
	y1 := int(math32.Ceil(py + radius + 1))

	for y := maxInt(y0, 0); y < minInt(y1, p.target.height); y++ {
		for x := maxInt(x0, 0); x < minInt(x1, p.target.width); x++ {
			dx := float32(x) + 0.5 - px
			dy := float32(y) + 0.5 - py
			dist := math32.Sqrt(dx*dx + dy*dy)

			// One-pixel smoothed edge.
			cov := clamp01(radius - dist + 0.5)
			if cov <= 0 {
				continue
			}

			idx := y*p.target.width + x
			if p.pipeline.DepthTest {
				if depth > p.target.depth[idx] {
					continue
				}
				if cov > 0.5 {
					p.target.depth[idx] = depth
				}
			}

			r, g, b := cr, cg, cb
			if ring && dist > radius*0.7 {
				// Darker outline for selected/pinned/hovered points.
				r *= 0.45
				g *= 0.45
				b *= 0.45
			}
			if p.uniforms.Shade > 0 {
				t := dist / radius
				lum := 0.6 + 0.4*(1-t*t)
				r *= lum
				g *= lum
				b *= lum
			}

			alpha := ca * cov
			if p.pipeline.Blend {
				blendPixel(p.target.color[idx*4:idx*4+4], r, g, b, alpha)
			} else {
				writePixel(p.target.color[idx*4:idx*4+4], r, g, b, alpha)
			}
		}
	}
}

// splatPick writes flat, exact identity colors. No anti-aliasing and no
// blending: a partially covered pixel would decode to a wrong index.
func (p *passEncoder) splatPick(px, py, depth, radius float32, cr, cg, cb float32) {
	x0 := int(math32.Floor(px - radius))
	x1 := int(math32.Ceil(px + radius))
	y0 := int(math32.Floor(py - radius))
	y1 := int(math32.Ceil(py + radius))

	rb := uint8(math32.Round(clamp01(cr) * 255))
	gb := uint8(math32.Round(clamp01(cg) * 255))
	bb := uint8(math32.Round(clamp01(cb) * 255))

	for y := maxInt(y0, 0); y < minInt(y1, p.target.height); y++ {
		for x := maxInt(x0, 0); x < minInt(x1, p.target.width); x++ {
			dx := float32(x) + 0.5 - px
			dy := float32(y) + 0.5 - py
			if dx*dx+dy*dy > radius*radius {
				continue
			}
			idx := y*p.target.width + x
			if p.pipeline.DepthTest {
				if depth > p.target.depth[idx] {
					continue
				}
				p.target.depth[idx] = depth
			}
			pix := p.target.color[idx*4 : idx*4+4]
			pix[0] = rb
			pix[1] = gb
			pix[2] = bb
			pix[3] = 255
		}
	}
}

func (p *passEncoder) drawLines(first, count int) {
	stride := gpudev.LineVertexFloats
	for i := first; i+1 < first+count; i += 2 {
		a := i * stride
		b := (i + 1) * stride
		if b+stride > len(p.verts) {
			return
		}
		va := p.verts[a : a+stride]
		vb := p.verts[b : b+stride]
		ax, ay, _, okA := p.project(va[0], va[1], va[2])
		bx, by, _, okB := p.project(vb[0], vb[1], vb[2])
		if !okA || !okB {
			continue
		}
		p.strokeLine(ax, ay, bx, by, va[3], va[4], va[5], va[6])
	}
}

// strokeLine draws a one-pixel DDA line.
func (p *passEncoder) strokeLine(ax, ay, bx, by, r, g, b, a float32) {
	dx := bx - ax
	dy := by - ay
	steps := int(math32.Max(math32.Abs(dx), math32.Abs(dy)))
	if steps == 0 {
		steps = 1
	}
	sx := dx / float32(steps)
	sy := dy / float32(steps)
	for i := 0; i <= steps; i++ {
		x := int(ax + sx*float32(i))
		y := int(ay + sy*float32(i))
		if x < 0 || y < 0 || x >= p.target.width || y >= p.target.height {
			continue
		}
		idx := (y*p.target.width + x) * 4
		if p.pipeline.Blend {
			blendPixel(p.target.color[idx:idx+4], r, g, b, a)
		} else {
			writePixel(p.target.color[idx:idx+4], r, g, b, a)
		}
	}
}

// blendPixel composites src over dst in place.
func blendPixel(dst []uint8, r, g, b, a float32) {
	a = clamp01(a)
	if a <= 0 {
		return
	}
	inv := 1 - a
	dst[0] = uint8(clamp01(r*a+float32(dst[0])/255*inv) * 255)
	dst[1] = uint8(clamp01(g*a+float32(dst[1])/255*inv) * 255)
	dst[2] = uint8(clamp01(b*a+float32(dst[2])/255*inv) * 255)
	dst[3] = uint8(clamp01(a+float32(dst[3])/255*inv) * 255)
}

func writePixel(dst []uint8, r, g, b, a float32) {
	dst[0] = uint8(clamp01(r) * 255)
	dst[1] = uint8(clamp01(g) * 255)
	dst[2] = uint8(clamp01(b) * 255)
	dst[3] = uint8(clamp01(a) * 255)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
