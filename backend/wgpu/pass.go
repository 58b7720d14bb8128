package wgpu

import (
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/splot/gpudev"
)

// gpuSubmitTimeout bounds the fence wait after each submitted pass.
const gpuSubmitTimeout = 5 * time.Second

// passEncoder records one render pass and submits it synchronously at
// End. Uniform buffers and bind groups created during the pass live
// until the fence signals, then are destroyed.
type passEncoder struct {
	dev      *Device
	target   *framebuffer
	encoder  hal.CommandEncoder
	rp       hal.RenderPassEncoder
	pipeline *pipeline

	uniformBufs []hal.Buffer
	bindGroups  []hal.BindGroup
	ended       bool
}

var _ gpudev.PassEncoder = (*passEncoder)(nil)

// BeginPass opens a render pass that clears the target's color and
// depth attachments.
func (d *Device) BeginPass(desc *gpudev.PassDesc) (gpudev.PassEncoder, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	fb, err := d.resolveTarget(desc.Target)
	if err != nil {
		return nil, err
	}
	if fb.colorView == nil || fb.depthView == nil {
		return nil, fmt.Errorf("%w: %q has no attachments", gpudev.ErrFramebufferIncomplete, fb.label)
	}

	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: desc.Label})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(desc.Label); err != nil {
		return nil, fmt.Errorf("wgpu: begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: desc.Label,
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:    fb.colorView,
				LoadOp:  gputypes.LoadOpClear,
				StoreOp: gputypes.StoreOpStore,
				ClearValue: gputypes.Color{
					R: float64(desc.ClearColor[0]),
					G: float64(desc.ClearColor[1]),
					B: float64(desc.ClearColor[2]),
					A: float64(desc.ClearColor[3]),
				},
			},
		},
		DepthStencilAttachment: &hal.RenderPassDepthStencilAttachment{
			View:              fb.depthView,
			DepthLoadOp:       gputypes.LoadOpClear,
			DepthStoreOp:      gputypes.StoreOpStore,
			DepthClearValue:   1,
			StencilLoadOp:     gputypes.LoadOpClear,
			StencilStoreOp:    gputypes.StoreOpStore,
			StencilClearValue: 0,
		},
	})
	return &passEncoder{dev: d, target: fb, encoder: encoder, rp: rp}, nil
}

func (p *passEncoder) SetPipeline(id gpudev.PipelineID) error {
	if p.ended {
		return fmt.Errorf("wgpu: pass already ended")
	}
	pl, ok := p.dev.pipelines[id]
	if !ok {
		return gpudev.ErrUnknownResource
	}
	p.pipeline = pl
	p.rp.SetPipeline(pl.rendering)
	return nil
}

// SetUniforms uploads the uniform block into a fresh buffer and binds
// it. Each call gets its own buffer so earlier draws in the pass keep
// their values.
func (p *passEncoder) SetUniforms(u *gpudev.Uniforms) error {
	if p.ended {
		return fmt.Errorf("wgpu: pass already ended")
	}
	if p.pipeline == nil {
		return fmt.Errorf("wgpu: uniforms set before pipeline")
	}

	buf, err := p.dev.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "splot_uniforms",
		Size:  gpudev.UniformsSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create uniform buffer: %w", err)
	}
	p.uniformBufs = append(p.uniformBufs, buf)
	p.dev.queue.WriteBuffer(buf, 0, u.Bytes())

	bg, err := p.dev.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "splot_uniform_bind",
		Layout: p.pipeline.bglayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: buf.NativeHandle(), Offset: 0, Size: gpudev.UniformsSize,
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create bind group: %w", err)
	}
	p.bindGroups = append(p.bindGroups, bg)
	p.rp.SetBindGroup(0, bg, nil)
	return nil
}

func (p *passEncoder) SetVertexBuffer(id gpudev.BufferID) error {
	if p.ended {
		return fmt.Errorf("wgpu: pass already ended")
	}
	buf, ok := p.dev.buffers[id]
	if !ok {
		return gpudev.ErrUnknownResource
	}
	p.rp.SetVertexBuffer(0, buf, 0)
	return nil
}

// Draw issues vertices [first, first+count). Point kinds expand each
// vertex to a six-vertex quad instance in the shader.
func (p *passEncoder) Draw(first, count int) error {
	if p.ended {
		return fmt.Errorf("wgpu: pass already ended")
	}
	if p.pipeline == nil {
		return fmt.Errorf("wgpu: draw without pipeline")
	}
	if count <= 0 {
		return nil
	}
	if p.pipeline.desc.Kind == gpudev.KindLines {
		p.rp.Draw(uint32(count), 1, uint32(first), 0)
	} else {
		p.rp.Draw(6, uint32(count), 0, uint32(first))
	}
	return nil
}

// End closes the pass, submits it, and blocks until the GPU finishes.
func (p *passEncoder) End() error {
	if p.ended {
		return fmt.Errorf("wgpu: pass already ended")
	}
	p.ended = true
	p.rp.End()

	cmdBuf, err := p.encoder.EndEncoding()
	if err != nil {
		p.cleanup()
		return fmt.Errorf("wgpu: end encoding: %w", err)
	}
	defer p.dev.device.FreeCommandBuffer(cmdBuf)
	defer p.cleanup()

	fence, err := p.dev.device.CreateFence()
	if err != nil {
		return fmt.Errorf("wgpu: create fence: %w", err)
	}
	defer p.dev.device.DestroyFence(fence)

	if err := p.dev.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("wgpu: submit: %w", err)
	}
	ok, err := p.dev.device.Wait(fence, 1, gpuSubmitTimeout)
	if err != nil || !ok {
		return fmt.Errorf("wgpu: wait for GPU: ok=%v err=%w", ok, err)
	}
	return nil
}

func (p *passEncoder) cleanup() {
	for _, bg := range p.bindGroups {
		p.dev.device.DestroyBindGroup(bg)
	}
	p.bindGroups = nil
	for _, buf := range p.uniformBufs {
		p.dev.device.DestroyBuffer(buf)
	}
	p.uniformBufs = nil
}
