// Package gpudev defines the abstract draw-command contract between the
// scatter engine and a rendering device. The engine is written once
// against this interface; backend packages provide devices underneath
// (a real GPU via gogpu/wgpu, or a CPU reference rasterizer).
package gpudev

// Resource IDs
//
// These opaque IDs represent device resources. Each device
// implementation maintains a mapping between IDs and actual backend
// resources. IDs are uint64 to accommodate various backend handle sizes.

// BufferID is an opaque handle to a vertex buffer.
type BufferID uint64

// FramebufferID is an opaque handle to an off-screen render target
// (color plus depth). The zero value addresses the device's default
// presentation target.
type FramebufferID uint64

// PipelineID is an opaque handle to a compiled render pipeline.
type PipelineID uint64

// InvalidID is the zero value, representing an invalid/null resource.
const InvalidID = 0

// DefaultTarget addresses the device's on-screen (presentation) target
// in a PassDesc or ReadPixels call.
const DefaultTarget FramebufferID = 0

// PipelineKind tells the device what geometry a pipeline draws. A CPU
// device rasterizes each kind directly; a GPU device pairs the kind with
// the shader source in the descriptor.
type PipelineKind uint32

const (
	// KindPoints draws circular point sprites with anti-aliased edges,
	// alpha blending, and selection rings.
	KindPoints PipelineKind = iota + 1

	// KindPickPoints draws point sprites as flat, unblended identity
	// colors for the picking pass. No anti-aliasing: a blended edge
	// pixel would decode to a wrong index.
	KindPickPoints

	// KindLines draws line segments (grid, axes) from vertex pairs.
	KindLines
)

// String returns the kind name for logs.
func (k PipelineKind) String() string {
	switch k {
	case KindPoints:
		return "points"
	case KindPickPoints:
		return "pick-points"
	case KindLines:
		return "lines"
	default:
		return "unknown"
	}
}

// PipelineDesc describes a render pipeline.
type PipelineDesc struct {
	// Label is an optional debug label.
	Label string

	// Kind selects the geometry semantics.
	Kind PipelineKind

	// ShaderWGSL is the WGSL source with vs_main and fs_main entry
	// points. GPU devices compile and validate it; CPU devices ignore it
	// and rasterize per Kind.
	ShaderWGSL string

	// Blend enables alpha blending over the target.
	Blend bool

	// DepthTest enables depth testing (3D passes only).
	DepthTest bool
}

// PassDesc describes one render pass.
type PassDesc struct {
	// Label is an optional debug label.
	Label string

	// Target is the framebuffer to render into. DefaultTarget renders
	// to the presentation target.
	Target FramebufferID

	// ClearColor fills the target before drawing, RGBA in [0, 1].
	ClearColor [4]float32
}

// Vertex layouts
//
// These structures match the WGSL vertex inputs and are uploaded as-is;
// field order and size must stay in sync with the shader sources.

// PointVertex is one scatter point instance.
type PointVertex struct {
	Pos   [3]float32 // world position; 2D sets Z to 0
	Color [4]float32 // resolved display color
	Pick  [3]float32 // pick identity color, [0,1] channels
	Size  float32    // point diameter in device pixels
	Flags float32    // FlagRing bit as a float for attribute transport
}

// PointVertexFloats is the number of float32 values per point vertex.
const PointVertexFloats = 12

// FlagRing marks a point that renders a darker outline ring
// (selected/pinned/hovered highlighting).
const FlagRing = 1.0

// LineVertex is one endpoint of a grid or axis line segment.
type LineVertex struct {
	Pos   [3]float32
	Color [4]float32
}

// LineVertexFloats is the number of float32 values per line vertex.
const LineVertexFloats = 7

// Uniforms is the per-pass uniform block. Must match the Uniforms struct
// in the WGSL sources; the layout is a 16-byte multiple for GPU upload.
type Uniforms struct {
	Transform  [16]float32 // column-major combined projection*view
	PointScale float32     // global point size multiplier
	Shade      float32     // 1 enables the 3D sphere shading term
	ViewportW  float32     // target width in device pixels
	ViewportH  float32     // target height in device pixels
}

// UniformsSize is the byte size of the uniform block.
const UniformsSize = 80

// Bytes serializes the block in the little-endian layout the shaders
// read.
func (u *Uniforms) Bytes() []byte {
	vals := make([]float32, 0, 20)
	vals = append(vals, u.Transform[:]...)
	vals = append(vals, u.PointScale, u.Shade, u.ViewportW, u.ViewportH)
	return Float32Bytes(vals)
}
