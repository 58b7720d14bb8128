package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/splot/gpudev"
)

// pipeline bundles a compiled render pipeline with the layouts it owns.
type pipeline struct {
	desc gpudev.PipelineDesc

	shader    hal.ShaderModule
	bglayout  hal.BindGroupLayout
	layout    hal.PipelineLayout
	rendering hal.RenderPipeline
}

// pointVertexStride is the byte stride of one point instance.
const pointVertexStride = gpudev.PointVertexFloats * 4

// lineVertexStride is the byte stride of one line vertex.
const lineVertexStride = gpudev.LineVertexFloats * 4

// CreatePipeline validates the WGSL through naga, compiles the shader
// module, and builds a render pipeline for the descriptor's kind.
func (d *Device) CreatePipeline(desc *gpudev.PipelineDesc) (gpudev.PipelineID, error) {
	if err := d.check(); err != nil {
		return gpudev.InvalidID, err
	}

	// naga gives readable diagnostics before the driver sees the source.
	if _, err := naga.Compile(desc.ShaderWGSL); err != nil {
		return gpudev.InvalidID, fmt.Errorf("wgpu: shader %q: %w", desc.Label, err)
	}

	p := &pipeline{desc: *desc}
	if err := p.build(d.device); err != nil {
		p.destroy(d.device)
		return gpudev.InvalidID, err
	}
	d.nextID++
	id := gpudev.PipelineID(d.nextID)
	d.pipelines[id] = p
	logger().Debug("wgpu: pipeline created", "label", desc.Label, "kind", desc.Kind.String())
	return id, nil
}

func (p *pipeline) build(device hal.Device) error {
	shader, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  p.desc.Label + "_shader",
		Source: hal.ShaderSource{WGSL: p.desc.ShaderWGSL},
	})
	if err != nil {
		return fmt.Errorf("wgpu: compile shader %q: %w", p.desc.Label, err)
	}
	p.shader = shader

	bglayout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: p.desc.Label + "_bgl",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: bind group layout %q: %w", p.desc.Label, err)
	}
	p.bglayout = bglayout

	layout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            p.desc.Label + "_layout",
		BindGroupLayouts: []hal.BindGroupLayout{bglayout},
	})
	if err != nil {
		return fmt.Errorf("wgpu: pipeline layout %q: %w", p.desc.Label, err)
	}
	p.layout = layout

	var blend *gputypes.BlendState
	if p.desc.Blend {
		b := gputypes.BlendStatePremultiplied()
		blend = &b
	}
	depthCompare := gputypes.CompareFunctionAlways
	if p.desc.DepthTest {
		depthCompare = gputypes.CompareFunctionLessEqual
	}

	rp, err := device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  p.desc.Label,
		Layout: layout,
		Vertex: hal.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers:    vertexLayout(p.desc.Kind),
		},
		Fragment: &hal.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    colorFormat,
					Blend:     blend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		DepthStencil: &hal.DepthStencilState{
			Format:            depthFormat,
			DepthWriteEnabled: p.desc.DepthTest,
			DepthCompare:      depthCompare,
			StencilFront: hal.StencilFaceState{
				Compare:     gputypes.CompareFunctionAlways,
				FailOp:      hal.StencilOperationKeep,
				DepthFailOp: hal.StencilOperationKeep,
				PassOp:      hal.StencilOperationKeep,
			},
			StencilBack: hal.StencilFaceState{
				Compare:     gputypes.CompareFunctionAlways,
				FailOp:      hal.StencilOperationKeep,
				DepthFailOp: hal.StencilOperationKeep,
				PassOp:      hal.StencilOperationKeep,
			},
			StencilReadMask:  0xFF,
			StencilWriteMask: 0xFF,
		},
		Primitive: gputypes.PrimitiveState{
			Topology: topology(p.desc.Kind),
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: render pipeline %q: %w", p.desc.Label, err)
	}
	p.rendering = rp
	return nil
}

// vertexLayout returns the vertex buffer layout for the pipeline kind.
// Point kinds step per instance: each point expands to a six-vertex quad
// in the vertex shader.
func vertexLayout(kind gpudev.PipelineKind) []gputypes.VertexBufferLayout {
	if kind == gpudev.KindLines {
		return []gputypes.VertexBufferLayout{
			{
				ArrayStride: lineVertexStride,
				StepMode:    gputypes.VertexStepModeVertex,
				Attributes: []gputypes.VertexAttribute{
					{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
					{Format: gputypes.VertexFormatFloat32x4, Offset: 12, ShaderLocation: 1},
				},
			},
		}
	}
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: pointVertexStride,
			StepMode:    gputypes.VertexStepModeInstance,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
				{Format: gputypes.VertexFormatFloat32x4, Offset: 12, ShaderLocation: 1},
				{Format: gputypes.VertexFormatFloat32x3, Offset: 28, ShaderLocation: 2},
				{Format: gputypes.VertexFormatFloat32, Offset: 40, ShaderLocation: 3},
				{Format: gputypes.VertexFormatFloat32, Offset: 44, ShaderLocation: 4},
			},
		},
	}
}

func topology(kind gpudev.PipelineKind) gputypes.PrimitiveTopology {
	if kind == gpudev.KindLines {
		return gputypes.PrimitiveTopologyLineList
	}
	return gputypes.PrimitiveTopologyTriangleList
}

func (p *pipeline) destroy(device hal.Device) {
	if p.rendering != nil {
		device.DestroyRenderPipeline(p.rendering)
		p.rendering = nil
	}
	if p.layout != nil {
		device.DestroyPipelineLayout(p.layout)
		p.layout = nil
	}
	if p.bglayout != nil {
		device.DestroyBindGroupLayout(p.bglayout)
		p.bglayout = nil
	}
	if p.shader != nil {
		device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}
