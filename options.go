package splot

import "github.com/gogpu/splot/gpudev"

// Modifiers is a bitmask of modifier keys held during a click.
type Modifiers uint32

const (
	// ModShift adds the clicked point to the selection.
	ModShift Modifiers = 1 << iota
	// ModCtrl toggles the clicked point's selection membership. Hosts
	// should map the platform command key here as well.
	ModCtrl
)

// Button identifies the pointer button driving a drag gesture.
type Button int

const (
	// ButtonPrimary is reserved for selection gestures (box/lasso drawn
	// by the host); the engine ignores primary drags.
	ButtonPrimary Button = iota
	// ButtonSecondary rotates the 3D camera.
	ButtonSecondary
	// ButtonMiddle pans the 3D camera.
	ButtonMiddle
)

// config collects engine construction options.
type config struct {
	device      gpudev.Device
	backendName string

	store          Store
	staticSelected []int
	staticPinned   []int
	staticMode     bool

	backgroundClear bool
	pointSize       float32
	selectedScale   float32
	showGrid        bool
	preserveAspect  bool
	camera          CameraConfig
	palette         *Colormap
	categorical     *Colormap

	onHover           func(index int)
	onClick           func(index int, mods Modifiers)
	onSelectionChange func(indices []int)
}

func defaultConfig() config {
	return config{
		backgroundClear: true,
		pointSize:       8,
		selectedScale:   1.5,
		showGrid:        true,
		camera:          DefaultCameraConfig(),
		palette:         Viridis,
		categorical:     Tab10,
	}
}

// Option configures an Engine at construction.
type Option func(*config)

// WithDevice supplies an already-initialized rendering device. The
// engine does not destroy a supplied device on Dispose.
func WithDevice(dev gpudev.Device) Option {
	return func(c *config) { c.device = dev }
}

// WithBackend selects a registered backend by name instead of the
// priority default.
func WithBackend(name string) Option {
	return func(c *config) { c.backendName = name }
}

// WithSelectionStore wires a shared selection store so several mounted
// charts highlight the same samples.
func WithSelectionStore(s Store) Option {
	return func(c *config) { c.store = s }
}

// WithStaticSelection opts out of interactive selection: the given
// selected and pinned sample indices are rendered highlighted, and
// clicks fire callbacks without mutating any store.
func WithStaticSelection(selected, pinned []int) Option {
	return func(c *config) {
		c.staticMode = true
		c.staticSelected = selected
		c.staticPinned = pinned
	}
}

// WithBackgroundClear controls whether an unmodified click on the
// background clears the selection. Hosts running box/lasso selection
// disable this so a drag-release over background keeps the selection.
func WithBackgroundClear(clear bool) Option {
	return func(c *config) { c.backgroundClear = clear }
}

// WithPointSize sets the base point diameter in device pixels.
func WithPointSize(size float32) Option {
	return func(c *config) {
		if size > 0 {
			c.pointSize = size
		}
	}
}

// WithSelectedScale sets the size multiplier for selected, pinned, and
// hovered points.
func WithSelectedScale(scale float32) Option {
	return func(c *config) {
		if scale > 0 {
			c.selectedScale = scale
		}
	}
}

// WithGrid toggles grid and axis rendering.
func WithGrid(show bool) Option {
	return func(c *config) { c.showGrid = show }
}

// WithPreserveAspect keeps the 2D projection isotropic by widening the
// shorter data axis instead of stretching points.
func WithPreserveAspect(preserve bool) Option {
	return func(c *config) { c.preserveAspect = preserve }
}

// WithCamera overrides the 3D orbit camera tuning.
func WithCamera(cfg CameraConfig) Option {
	return func(c *config) { c.camera = cfg }
}

// WithPalette sets the continuous-value palette.
func WithPalette(cm *Colormap) Option {
	return func(c *config) {
		if cm != nil {
			c.palette = cm
		}
	}
}

// WithCategoricalPalette sets the categorical-label palette.
func WithCategoricalPalette(cm *Colormap) Option {
	return func(c *config) {
		if cm != nil {
			c.categorical = cm
		}
	}
}

// WithOnHover registers a callback invoked whenever the hovered sample
// changes. NoSample reports the cursor leaving all points.
func WithOnHover(fn func(index int)) Option {
	return func(c *config) { c.onHover = fn }
}

// WithOnClick registers a callback invoked when a point is clicked.
func WithOnClick(fn func(index int, mods Modifiers)) Option {
	return func(c *config) { c.onClick = fn }
}

// WithOnSelectionChange registers a callback invoked after a click
// mutates the selection.
func WithOnSelectionChange(fn func(indices []int)) Option {
	return func(c *config) { c.onSelectionChange = fn }
}
