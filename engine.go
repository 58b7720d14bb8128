package splot

import (
	"context"
	"fmt"
	"time"

	"github.com/chewxy/math32"

	"github.com/gogpu/splot/backend"
	"github.com/gogpu/splot/gpudev"
)

// pickSizeScale enlarges points in the picking pass relative to their
// visual size so small points are easier to hit.
const pickSizeScale = 1.3

// fovY is the 3D vertical field of view in radians.
const fovY = math32.Pi / 4

// Stats reports per-engine frame statistics.
type Stats struct {
	// PointCount is the number of points in the current set.
	PointCount int
	// Frames is the number of frames rendered since construction.
	Frames uint64
	// LastFrame is the wall-clock duration of the last Frame call.
	LastFrame time.Duration
	// Pickable is false while the engine runs degraded without a usable
	// picking buffer.
	Pickable bool
	// Backend is the rendering device name.
	Backend string
}

// Engine renders a 2D or 3D scatter plot and resolves pointer
// interaction against it. It owns its device resources explicitly:
// construct with New, drive with SetPoints/Frame (or Run), feed pointer
// events through PointerMove/Click/Drag/Wheel, and release everything
// with Dispose.
//
// All methods must be called from a single goroutine; the engine takes
// no locks, matching the one-UI-thread model it is designed for.
type Engine struct {
	cfg        config
	dev        gpudev.Device
	ownsDevice bool

	width, height int
	newW, newH    int

	points *PointSet
	bounds Bounds
	colors []RGBA

	camera *OrbitCamera
	store  Store
	pick   *PickBuffer

	point2D gpudev.PipelineID
	point3D gpudev.PipelineID
	pick2D  gpudev.PipelineID
	pick3D  gpudev.PipelineID
	lines   gpudev.PipelineID

	pointBuf  gpudev.BufferID
	lineBuf   gpudev.BufferID
	lineCount int

	// Selection snapshot from the last vertex build; when the store
	// diverges the vertex buffer is rewritten with updated highlights.
	lastSelected IndexSet
	lastPinned   IndexSet
	lastHovered  int
	vertsDirty   bool

	// staticHovered tracks the last hover notification in static mode,
	// where the store is never written.
	staticHovered int

	pickable bool
	frames   uint64
	lastDur  time.Duration
	disposed bool
}

// New creates an engine rendering at the given device-pixel size. The
// rendering device comes from WithDevice, WithBackend, or the registry
// priority default; a device that cannot be obtained or initialized is a
// hard failure.
func New(width, height int, opts ...Option) (*Engine, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("splot: invalid engine size %dx%d", width, height)
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	e := &Engine{
		cfg:           cfg,
		width:         width,
		height:        height,
		newW:          width,
		newH:          height,
		camera:        NewOrbitCamera(cfg.camera),
		lastHovered:   NoSample,
		staticHovered: NoSample,
	}

	switch {
	case cfg.device != nil:
		e.dev = cfg.device
	case cfg.backendName != "":
		dev := backend.Get(cfg.backendName)
		if dev == nil {
			return nil, fmt.Errorf("%w: backend %q not registered", ErrNoDevice, cfg.backendName)
		}
		if err := dev.Init(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoDevice, err)
		}
		e.dev = dev
		e.ownsDevice = true
	default:
		dev, err := backend.InitDefault()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoDevice, err)
		}
		e.dev = dev
		e.ownsDevice = true
	}

	if cfg.staticMode {
		local := NewLocalStore()
		local.Select(cfg.staticSelected, SelectReplace)
		local.SetPinned(cfg.staticPinned)
		e.store = local
	} else if cfg.store != nil {
		e.store = cfg.store
	} else {
		e.store = NewLocalStore()
	}

	if err := e.dev.Resize(width, height); err != nil {
		e.teardown()
		return nil, fmt.Errorf("splot: size presentation target: %w", err)
	}
	if err := e.createPipelines(); err != nil {
		e.teardown()
		return nil, err
	}
	if err := e.createBuffers(); err != nil {
		e.teardown()
		return nil, err
	}

	pick, err := NewPickBuffer(e.dev, width, height)
	if err != nil {
		e.teardown()
		return nil, err
	}
	e.pick = pick
	e.pickable = true

	Logger().Info("splot: engine created",
		"backend", e.dev.Name(), "width", width, "height", height)
	return e, nil
}

func (e *Engine) createPipelines() error {
	type spec struct {
		id     *gpudev.PipelineID
		label  string
		kind   gpudev.PipelineKind
		shader string
		blend  bool
		depth  bool
	}
	for _, s := range []spec{
		{&e.point2D, "splot_points_2d", gpudev.KindPoints, pointShaderWGSL, true, false},
		{&e.point3D, "splot_points_3d", gpudev.KindPoints, pointShaderWGSL, true, true},
		{&e.pick2D, "splot_pick_2d", gpudev.KindPickPoints, pickShaderWGSL, false, false},
		{&e.pick3D, "splot_pick_3d", gpudev.KindPickPoints, pickShaderWGSL, false, true},
		{&e.lines, "splot_lines", gpudev.KindLines, lineShaderWGSL, true, false},
	} {
		id, err := e.dev.CreatePipeline(&gpudev.PipelineDesc{
			Label:      s.label,
			Kind:       s.kind,
			ShaderWGSL: s.shader,
			Blend:      s.blend,
			DepthTest:  s.depth,
		})
		if err != nil {
			return fmt.Errorf("%w: %v", ErrShaderCompile, err)
		}
		*s.id = id
	}
	return nil
}

func (e *Engine) createBuffers() error {
	pointBuf, err := e.dev.CreateBuffer("splot_points", 4)
	if err != nil {
		return fmt.Errorf("splot: create point buffer: %w", err)
	}
	e.pointBuf = pointBuf
	lineBuf, err := e.dev.CreateBuffer("splot_lines", 4)
	if err != nil {
		return fmt.Errorf("splot: create line buffer: %w", err)
	}
	e.lineBuf = lineBuf
	return nil
}

// SetPoints replaces the rendered point set. The engine never mutates
// the set; pass it again (or a fresh one) whenever the data changes.
func (e *Engine) SetPoints(ps *PointSet) error {
	if e.disposed {
		return ErrEngineDisposed
	}
	if ps == nil {
		ps = &PointSet{Dims: 2}
	}
	if err := ps.Validate(); err != nil {
		return err
	}
	e.points = ps
	e.bounds = ComputeBounds(ps.Coords, ps.Dims)
	e.colors = ps.ResolveColors(e.cfg.palette, e.cfg.categorical)
	e.vertsDirty = true

	if ps.Dims == 3 {
		r := e.bounds.Radius()
		if r > 0 {
			e.camera.SetTarget(e.bounds.Center())
			e.camera.SetDistanceRange(r*0.1, r*20)
		}
	}
	Logger().Debug("splot: points set", "count", ps.Len(), "dims", ps.Dims)
	return nil
}

// Resize records a new device-pixel size, applied at the start of the
// next frame.
func (e *Engine) Resize(width, height int) {
	if width > 0 && height > 0 {
		e.newW = width
		e.newH = height
	}
}

// Frame renders one frame: apply any pending resize, advance the camera
// by dt seconds, render the picking pass off-screen, then the main pass.
// Zero points renders an empty (cleared) frame.
func (e *Engine) Frame(dt float32) error {
	if e.disposed {
		return ErrEngineDisposed
	}
	start := time.Now()

	if e.newW != e.width || e.newH != e.height {
		e.width = e.newW
		e.height = e.newH
		if err := e.dev.Resize(e.width, e.height); err != nil {
			return fmt.Errorf("splot: resize: %w", err)
		}
		if err := e.pick.Resize(e.width, e.height); err != nil {
			// Picking is an enhancement; keep rendering without it.
			Logger().Warn("splot: picking degraded", "error", err)
			e.pickable = false
		} else {
			e.pickable = true
		}
	}

	transform := e.transform(dt)
	e.syncVertices()

	n := 0
	dims := 2
	if e.points != nil {
		n = e.points.Len()
		dims = e.points.Dims
	}

	if e.pickable {
		if err := e.renderPickPass(transform, n, dims); err != nil {
			Logger().Warn("splot: pick pass failed", "error", err)
			e.pickable = false
		}
	}
	if err := e.renderMainPass(transform, n, dims); err != nil {
		return err
	}

	e.frames++
	e.lastDur = time.Since(start)
	return nil
}

// transform computes the frame's combined projection (and view, in 3D)
// matrix. The camera advances its inertia here, once per frame.
func (e *Engine) transform(dt float32) Mat4 {
	dims := 2
	if e.points != nil {
		dims = e.points.Dims
	}
	if dims == 3 {
		r := e.bounds.Radius()
		if r <= 0 {
			r = 1
		}
		proj := Perspective(fovY, float32(e.width)/float32(e.height), r/100, r*100)
		return proj.Mul(e.camera.Update(dt))
	}

	left, right := e.bounds.Min.X, e.bounds.Max.X
	bottom, top := e.bounds.Min.Y, e.bounds.Max.Y
	if e.cfg.preserveAspect {
		left, right, bottom, top = fitAspect(left, right, bottom, top,
			float32(e.width)/float32(e.height))
	}
	return Ortho2D(left, right, bottom, top).Mat4()
}

// fitAspect widens the shorter data axis so one world unit measures the
// same on both screen axes.
func fitAspect(left, right, bottom, top, viewAspect float32) (float32, float32, float32, float32) {
	w := right - left
	h := top - bottom
	if w <= 0 || h <= 0 || viewAspect <= 0 {
		return left, right, bottom, top
	}
	dataAspect := w / h
	if dataAspect < viewAspect {
		extra := (h*viewAspect - w) / 2
		left -= extra
		right += extra
	} else if dataAspect > viewAspect {
		extra := (w/viewAspect - h) / 2
		bottom -= extra
		top += extra
	}
	return left, right, bottom, top
}

// syncVertices rewrites the GPU buffers when the point data or the
// highlight state changed. Buffers are fully overwritten, never patched.
func (e *Engine) syncVertices() {
	selected := e.store.Selected()
	pinned := e.store.Pinned()
	hovered := e.hovered()
	if !e.vertsDirty &&
		sameSet(selected, e.lastSelected) &&
		sameSet(pinned, e.lastPinned) &&
		hovered == e.lastHovered {
		return
	}

	verts := e.buildPointVertices(selected, pinned, hovered)
	if err := e.dev.WriteBuffer(e.pointBuf, gpudev.Float32Bytes(verts)); err != nil {
		Logger().Warn("splot: point upload failed", "error", err)
	}

	if e.vertsDirty {
		dims := 2
		if e.points != nil {
			dims = e.points.Dims
		}
		lineVerts := buildGridVertices(e.bounds, dims)
		e.lineCount = len(lineVerts) / gpudev.LineVertexFloats
		if err := e.dev.WriteBuffer(e.lineBuf, gpudev.Float32Bytes(lineVerts)); err != nil {
			Logger().Warn("splot: grid upload failed", "error", err)
		}
	}

	e.lastSelected = copySet(selected)
	e.lastPinned = copySet(pinned)
	e.lastHovered = hovered
	e.vertsDirty = false
}

// buildPointVertices flattens the point set into the instance stream.
// Non-finite points keep their slot with zero size so sample indices
// stay aligned.
func (e *Engine) buildPointVertices(selected, pinned IndexSet, hovered int) []float32 {
	if e.points == nil {
		return nil
	}
	n := e.points.Len()
	dims := e.points.Dims
	verts := make([]float32, 0, n*gpudev.PointVertexFloats)

	for i := 0; i < n; i++ {
		base := i * dims
		x, y := e.points.Coords[base], e.points.Coords[base+1]
		var z float32
		if dims == 3 {
			z = e.points.Coords[base+2]
		}

		size := e.cfg.pointSize
		flags := float32(0)
		if !finiteAt(e.points.Coords, base, dims) {
			x, y, z = 0, 0, 0
			size = 0
		} else {
			sample := e.points.SampleIndex(i)
			if selected.Has(sample) || pinned.Has(sample) || sample == hovered {
				size *= e.cfg.selectedScale
				flags = gpudev.FlagRing
			}
		}

		c := e.colors[i].Vec4()
		pr, pg, pb := EncodePickColor(e.points.SampleIndex(i))
		verts = append(verts,
			x, y, z,
			c[0], c[1], c[2], c[3],
			float32(pr)/255, float32(pg)/255, float32(pb)/255,
			size, flags,
		)
	}
	return verts
}

// renderPickPass draws identity colors into the picking buffer. The
// background clears to the reserved black; grid geometry never enters
// this pass.
func (e *Engine) renderPickPass(transform Mat4, n, dims int) error {
	pass, err := e.dev.BeginPass(&gpudev.PassDesc{
		Label:      "splot_pick_pass",
		Target:     e.pick.Target(),
		ClearColor: [4]float32{0, 0, 0, 1},
	})
	if err != nil {
		return err
	}
	pipe := e.pick2D
	if dims == 3 {
		pipe = e.pick3D
	}
	if err := pass.SetPipeline(pipe); err != nil {
		return err
	}
	u := gpudev.Uniforms{
		Transform:  transform,
		PointScale: pickSizeScale,
		ViewportW:  float32(e.pick.Width()),
		ViewportH:  float32(e.pick.Height()),
	}
	if err := pass.SetUniforms(&u); err != nil {
		return err
	}
	if n > 0 {
		if err := pass.SetVertexBuffer(e.pointBuf); err != nil {
			return err
		}
		if err := pass.Draw(0, n); err != nil {
			return err
		}
	}
	return pass.End()
}

// renderMainPass draws the visible frame: grid lines behind blended
// points, depth testing in 3D only.
func (e *Engine) renderMainPass(transform Mat4, n, dims int) error {
	pass, err := e.dev.BeginPass(&gpudev.PassDesc{
		Label:      "splot_main_pass",
		Target:     gpudev.DefaultTarget,
		ClearColor: [4]float32{0, 0, 0, 0},
	})
	if err != nil {
		return err
	}

	u := gpudev.Uniforms{
		Transform:  transform,
		PointScale: 1,
		ViewportW:  float32(e.width),
		ViewportH:  float32(e.height),
	}
	if dims == 3 {
		u.Shade = 1
	}

	if e.cfg.showGrid && e.lineCount > 0 {
		if err := pass.SetPipeline(e.lines); err != nil {
			return err
		}
		if err := pass.SetUniforms(&u); err != nil {
			return err
		}
		if err := pass.SetVertexBuffer(e.lineBuf); err != nil {
			return err
		}
		if err := pass.Draw(0, e.lineCount); err != nil {
			return err
		}
	}

	if n > 0 {
		pipe := e.point2D
		if dims == 3 {
			pipe = e.point3D
		}
		if err := pass.SetPipeline(pipe); err != nil {
			return err
		}
		if err := pass.SetUniforms(&u); err != nil {
			return err
		}
		if err := pass.SetVertexBuffer(e.pointBuf); err != nil {
			return err
		}
		if err := pass.Draw(0, n); err != nil {
			return err
		}
	}
	return pass.End()
}

// Run drives Frame at the given rate until the context is cancelled or
// a frame fails. Dispose is not called; the owner still tears down.
func (e *Engine) Run(ctx context.Context, fps int) error {
	if fps <= 0 {
		fps = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			dt := float32(now.Sub(last).Seconds())
			last = now
			if err := e.Frame(dt); err != nil {
				return err
			}
		}
	}
}

// PointerMove resolves the point under the cursor and updates hover
// state when it changed. Screen pixels, top-left origin.
func (e *Engine) PointerMove(x, y int) {
	if e.disposed {
		return
	}
	idx := NoSample
	if e.pickable {
		idx = e.pick.ReadPoint(x, y)
	}
	if idx == e.hovered() {
		return
	}
	e.setHovered(idx)
	if e.cfg.onHover != nil {
		e.cfg.onHover(idx)
	}
}

// PointerLeave clears hover state.
func (e *Engine) PointerLeave() {
	if e.disposed {
		return
	}
	if e.hovered() == NoSample {
		return
	}
	e.setHovered(NoSample)
	if e.cfg.onHover != nil {
		e.cfg.onHover(NoSample)
	}
}

func (e *Engine) hovered() int {
	if e.cfg.staticMode {
		return e.staticHovered
	}
	return e.store.Hovered()
}

func (e *Engine) setHovered(idx int) {
	if e.cfg.staticMode {
		e.staticHovered = idx
		return
	}
	e.store.SetHovered(idx)
}

// Click resolves the point under the click and applies selection
// semantics: shift adds, ctrl toggles, a plain click replaces the
// selection (or clears it when re-clicking the single selected point).
// A plain background click clears the selection when background
// clearing is enabled; modifier clicks on background do nothing, so
// multi-select flows survive stray clicks.
func (e *Engine) Click(x, y int, mods Modifiers) {
	if e.disposed {
		return
	}
	idx := NoSample
	if e.pickable {
		idx = e.pick.ReadPoint(x, y)
	}

	if idx == NoSample {
		if mods == 0 && e.cfg.backgroundClear && !e.cfg.staticMode {
			e.store.Clear()
			e.selectionChanged()
		}
		return
	}

	if !e.cfg.staticMode {
		switch {
		case mods&ModShift != 0:
			e.store.Select([]int{idx}, SelectAdd)
		case mods&ModCtrl != 0:
			e.store.Toggle([]int{idx})
		default:
			sel := e.store.Selected()
			if len(sel) == 1 && sel.Has(idx) {
				e.store.Clear()
			} else {
				e.store.Select([]int{idx}, SelectReplace)
			}
		}
		e.selectionChanged()
	}
	if e.cfg.onClick != nil {
		e.cfg.onClick(idx, mods)
	}
}

func (e *Engine) selectionChanged() {
	if e.cfg.onSelectionChange != nil {
		e.cfg.onSelectionChange(e.store.Selected().Indices())
	}
}

// DragStart begins a drag gesture. Secondary-button drags rotate the 3D
// camera; the primary button stays free for selection gestures.
func (e *Engine) DragStart(button Button) {
	if e.disposed {
		return
	}
	if button == ButtonSecondary {
		e.camera.BeginDrag()
	}
}

// Drag applies a pointer drag delta in pixels.
func (e *Engine) Drag(dx, dy float32, button Button) {
	if e.disposed || !e.is3D() {
		return
	}
	switch button {
	case ButtonSecondary:
		e.camera.Rotate(dx, dy)
	case ButtonMiddle:
		e.camera.Pan(dx, dy)
	}
}

// DragEnd ends a drag gesture, releasing rotation into inertia.
func (e *Engine) DragEnd(button Button) {
	if e.disposed {
		return
	}
	if button == ButtonSecondary {
		e.camera.EndDrag()
	}
}

// Wheel zooms the 3D camera. Positive delta zooms out.
func (e *Engine) Wheel(delta float32) {
	if e.disposed || !e.is3D() {
		return
	}
	e.camera.Zoom(delta)
}

// PointsInScreenRect returns the sample indices visible inside the
// screen rectangle, for box/lasso selection controllers built on top.
func (e *Engine) PointsInScreenRect(x1, y1, x2, y2 int) []int {
	if e.disposed || !e.pickable {
		return nil
	}
	return e.pick.ReadRegion(x1, y1, x2, y2).Indices()
}

// Camera returns the orbit camera for direct manipulation (reset,
// retargeting).
func (e *Engine) Camera() *OrbitCamera { return e.camera }

// Store returns the selection store the engine reads and mutates.
func (e *Engine) Store() Store { return e.store }

// Bounds returns the padded data bounds of the current point set.
func (e *Engine) Bounds() Bounds { return e.bounds }

// Stats returns frame statistics.
func (e *Engine) Stats() Stats {
	n := 0
	if e.points != nil {
		n = e.points.Len()
	}
	name := ""
	if e.dev != nil {
		name = e.dev.Name()
	}
	return Stats{
		PointCount: n,
		Frames:     e.frames,
		LastFrame:  e.lastDur,
		Pickable:   e.pickable,
		Backend:    name,
	}
}

// Dispose synchronously releases all device resources. Idempotent;
// every other method fails or no-ops afterwards.
func (e *Engine) Dispose() {
	if e.disposed {
		return
	}
	e.disposed = true
	e.teardown()
	Logger().Info("splot: engine disposed")
}

func (e *Engine) teardown() {
	if e.pick != nil {
		e.pick.Destroy()
		e.pick = nil
	}
	e.pickable = false
	if e.dev == nil {
		return
	}
	if e.pointBuf != gpudev.InvalidID {
		e.dev.DestroyBuffer(e.pointBuf)
		e.pointBuf = gpudev.InvalidID
	}
	if e.lineBuf != gpudev.InvalidID {
		e.dev.DestroyBuffer(e.lineBuf)
		e.lineBuf = gpudev.InvalidID
	}
	if e.ownsDevice {
		e.dev.Destroy()
	}
	e.dev = nil
}

func (e *Engine) is3D() bool {
	return e.points != nil && e.points.Dims == 3
}

func sameSet(a, b IndexSet) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !b.Has(i) {
			return false
		}
	}
	return true
}

func copySet(s IndexSet) IndexSet {
	out := make(IndexSet, len(s))
	for i := range s {
		out[i] = struct{}{}
	}
	return out
}
