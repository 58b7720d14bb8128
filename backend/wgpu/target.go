package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// colorFormat is the render target format. RGBA8 keeps the channel
// order of ReadPixels trivially aligned with pick color decoding.
const colorFormat = gputypes.TextureFormatRGBA8Unorm

// depthFormat matches the depth-stencil state attached to every
// pipeline, so any pipeline can render into any target.
const depthFormat = gputypes.TextureFormatDepth24PlusStencil8

// framebuffer is one off-screen render target: a color texture that can
// be copied out for readback, plus a depth texture.
type framebuffer struct {
	label  string
	width  int
	height int

	color     hal.Texture
	colorView hal.TextureView
	depth     hal.Texture
	depthView hal.TextureView
}

// ensure allocates textures at the given size, reallocating only when
// the dimensions change.
func (f *framebuffer) ensure(device hal.Device, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("wgpu: invalid target size %dx%d for %q", width, height, f.label)
	}
	if f.color != nil && f.width == width && f.height == height {
		return nil
	}
	f.destroy(device)

	color, err := device.CreateTexture(&hal.TextureDescriptor{
		Label: f.label + "_color",
		Size: hal.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        colorFormat,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create color texture for %q: %w", f.label, err)
	}
	colorView, err := device.CreateTextureView(color, &hal.TextureViewDescriptor{
		Label:         f.label + "_color_view",
		Format:        colorFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		device.DestroyTexture(color)
		return fmt.Errorf("wgpu: create color view for %q: %w", f.label, err)
	}

	depth, err := device.CreateTexture(&hal.TextureDescriptor{
		Label: f.label + "_depth",
		Size: hal.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        depthFormat,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		device.DestroyTextureView(colorView)
		device.DestroyTexture(color)
		return fmt.Errorf("wgpu: create depth texture for %q: %w", f.label, err)
	}
	depthView, err := device.CreateTextureView(depth, &hal.TextureViewDescriptor{
		Label:         f.label + "_depth_view",
		Format:        depthFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		device.DestroyTexture(depth)
		device.DestroyTextureView(colorView)
		device.DestroyTexture(color)
		return fmt.Errorf("wgpu: create depth view for %q: %w", f.label, err)
	}

	f.width = width
	f.height = height
	f.color = color
	f.colorView = colorView
	f.depth = depth
	f.depthView = depthView
	logger().Debug("wgpu: target allocated", "label", f.label, "width", width, "height", height)
	return nil
}

func (f *framebuffer) destroy(device hal.Device) {
	if device == nil {
		return
	}
	if f.colorView != nil {
		device.DestroyTextureView(f.colorView)
		f.colorView = nil
	}
	if f.color != nil {
		device.DestroyTexture(f.color)
		f.color = nil
	}
	if f.depthView != nil {
		device.DestroyTextureView(f.depthView)
		f.depthView = nil
	}
	if f.depth != nil {
		device.DestroyTexture(f.depth)
		f.depth = nil
	}
	f.width = 0
	f.height = 0
}
