package splot

import (
	"fmt"

	"github.com/gogpu/splot/gpudev"
)

// regionStrideDivisor derives the subsampling stride for region reads:
// stride = max(1, min(regionW, regionH) / regionStrideDivisor). Small
// regions are read exhaustively; a full-viewport lasso over a dense 3D
// scene is sampled on a grid, trading isolated single-pixel points for
// readback speed.
const regionStrideDivisor = 64

// PickBuffer is the off-screen target the picking pass renders identity
// colors into, with point and region readback. Coordinates are screen
// pixels with a top-left origin; the buffer flips to the device's
// bottom-up row order internally.
//
// Reads on a destroyed or never-allocated buffer report no point rather
// than failing: pointer handlers run async relative to teardown.
type PickBuffer struct {
	dev    gpudev.Device
	fb     gpudev.FramebufferID
	width  int
	height int
}

// NewPickBuffer allocates the picking target at device-pixel size.
func NewPickBuffer(dev gpudev.Device, width, height int) (*PickBuffer, error) {
	fb, err := dev.CreateFramebuffer("splot_pick", width, height)
	if err != nil {
		return nil, fmt.Errorf("splot: create pick buffer: %w", err)
	}
	return &PickBuffer{dev: dev, fb: fb, width: width, height: height}, nil
}

// Target returns the framebuffer the picking pass renders into.
func (pb *PickBuffer) Target() gpudev.FramebufferID { return pb.fb }

// Width returns the current buffer width in pixels.
func (pb *PickBuffer) Width() int { return pb.width }

// Height returns the current buffer height in pixels.
func (pb *PickBuffer) Height() int { return pb.height }

// Resize reallocates backing storage when the dimensions changed; a
// same-size call is a no-op so per-frame resize checks stay free.
func (pb *PickBuffer) Resize(width, height int) error {
	if pb.fb == gpudev.InvalidID {
		return fmt.Errorf("splot: resize destroyed pick buffer")
	}
	if width == pb.width && height == pb.height {
		return nil
	}
	if err := pb.dev.ResizeFramebuffer(pb.fb, width, height); err != nil {
		return fmt.Errorf("splot: resize pick buffer: %w", err)
	}
	pb.width = width
	pb.height = height
	return nil
}

// ReadPoint resolves the sample index under the given screen pixel, or
// NoSample for background, out-of-range coordinates, or a torn-down
// buffer.
func (pb *PickBuffer) ReadPoint(x, y int) int {
	if pb == nil || pb.fb == gpudev.InvalidID || pb.width == 0 || pb.height == 0 {
		return NoSample
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	if x >= pb.width {
		x = pb.width - 1
	}
	if y >= pb.height {
		y = pb.height - 1
	}

	// Screen y grows downward, device rows grow upward.
	pix, err := pb.dev.ReadPixels(pb.fb, x, pb.height-1-y, 1, 1)
	if err != nil {
		Logger().Warn("splot: pick readback failed", "error", err)
		return NoSample
	}
	idx, ok := DecodePickColor(pix[0], pix[1], pix[2])
	if !ok {
		return NoSample
	}
	return idx
}

// ReadRegion decodes every non-background pixel in the screen rectangle
// into a deduplicated sample index set. Corners may arrive in any order;
// the rectangle is clamped to the buffer. Large regions are subsampled
// on a stride grid.
func (pb *PickBuffer) ReadRegion(x1, y1, x2, y2 int) IndexSet {
	out := make(IndexSet)
	if pb == nil || pb.fb == gpudev.InvalidID || pb.width == 0 || pb.height == 0 {
		return out
	}
	if x2 < x1 {
		x1, x2 = x2, x1
	}
	if y2 < y1 {
		y1, y2 = y2, y1
	}
	if x1 < 0 {
		x1 = 0
	}
	if y1 < 0 {
		y1 = 0
	}
	if x2 >= pb.width {
		x2 = pb.width - 1
	}
	if y2 >= pb.height {
		y2 = pb.height - 1
	}
	if x1 > x2 || y1 > y2 {
		return out
	}

	w := x2 - x1 + 1
	h := y2 - y1 + 1
	pix, err := pb.dev.ReadPixels(pb.fb, x1, pb.height-1-y2, w, h)
	if err != nil {
		Logger().Warn("splot: region readback failed", "error", err)
		return out
	}

	stride := minDim(w, h) / regionStrideDivisor
	if stride < 1 {
		stride = 1
	}
	for row := 0; row < h; row += stride {
		for col := 0; col < w; col += stride {
			o := (row*w + col) * 4
			if idx, ok := DecodePickColor(pix[o], pix[o+1], pix[o+2]); ok {
				out[idx] = struct{}{}
			}
		}
	}
	return out
}

// Destroy releases the framebuffer. Subsequent reads return NoSample.
func (pb *PickBuffer) Destroy() {
	if pb == nil || pb.fb == gpudev.InvalidID {
		return
	}
	pb.dev.DestroyFramebuffer(pb.fb)
	pb.fb = gpudev.InvalidID
	pb.width = 0
	pb.height = 0
}

func minDim(a, b int) int {
	if a < b {
		return a
	}
	return b
}
