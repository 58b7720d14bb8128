package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/splot/gpudev"
)

// ReadPixels copies the target's color texture to a staging buffer and
// returns the requested region as RGBA8 with bottom-up rows and a
// bottom-left origin. The whole texture is copied and the region
// extracted on the CPU; readbacks are picking-sized, so the extra copy
// is cheap next to the queue round trip.
func (d *Device) ReadPixels(id gpudev.FramebufferID, x, y, width, height int) ([]byte, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	fb, err := d.resolveTarget(id)
	if err != nil {
		return nil, err
	}
	if fb.color == nil {
		return nil, fmt.Errorf("%w: %q has no color attachment", gpudev.ErrFramebufferIncomplete, fb.label)
	}
	if x < 0 || y < 0 || width <= 0 || height <= 0 ||
		x+width > fb.width || y+height > fb.height {
		return nil, fmt.Errorf("wgpu: read %dx%d+%d+%d out of %dx%d target bounds",
			width, height, x, y, fb.width, fb.height)
	}

	full, err := d.readTexture(fb)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", gpudev.ErrReadbackUnavailable, err)
	}

	// Texture row 0 is the top; the contract's row 0 is the bottom.
	out := make([]byte, width*height*4)
	for row := 0; row < height; row++ {
		srcRow := fb.height - 1 - (y + row)
		src := (srcRow*fb.width + x) * 4
		copy(out[row*width*4:(row+1)*width*4], full[src:src+width*4])
	}
	return out, nil
}

// readTexture copies the target's full color texture into host memory.
func (d *Device) readTexture(fb *framebuffer) ([]byte, error) {
	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "splot_readback"})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("splot_readback"); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}

	// The texture sits in attachment layout after rendering; the copy
	// needs transfer-src. Transition back afterwards so the next pass
	// sees the layout it expects.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: fb.color,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})

	size := uint64(fb.width) * uint64(fb.height) * 4
	staging, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "splot_readback_staging",
		Size:  size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create staging buffer: %w", err)
	}
	defer d.device.DestroyBuffer(staging)

	encoder.CopyTextureToBuffer(fb.color, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(fb.width) * 4,
			RowsPerImage: uint32(fb.height),
		},
		TextureBase: hal.ImageCopyTexture{Texture: fb.color, MipLevel: 0},
		Size: hal.Extent3D{
			Width:              uint32(fb.width),
			Height:             uint32(fb.height),
			DepthOrArrayLayers: 1,
		},
	}})

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: fb.color,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("end encoding: %w", err)
	}
	defer d.device.FreeCommandBuffer(cmdBuf)

	fence, err := d.device.CreateFence()
	if err != nil {
		return nil, fmt.Errorf("create fence: %w", err)
	}
	defer d.device.DestroyFence(fence)

	if err := d.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}
	ok, err := d.device.Wait(fence, 1, gpuSubmitTimeout)
	if err != nil || !ok {
		return nil, fmt.Errorf("wait for GPU: ok=%v err=%v", ok, err)
	}

	out := make([]byte, size)
	if err := d.queue.ReadBuffer(staging, 0, out); err != nil {
		return nil, fmt.Errorf("read staging buffer: %w", err)
	}
	return out, nil
}
