package splot

import "github.com/chewxy/math32"

// CameraConfig tunes the orbit camera. Zero values are replaced by the
// corresponding DefaultCameraConfig fields on NewOrbitCamera.
type CameraConfig struct {
	RotateSpeed float32 // radians per pointer pixel
	PanSpeed    float32 // world units per pixel at distance 1
	ZoomSpeed   float32 // fractional distance change per wheel unit

	MinPolar    float32 // radians, > 0 to prevent pole flipping
	MaxPolar    float32 // radians, < pi
	MinDistance float32
	MaxDistance float32

	// Damping is the per-frame velocity decay fraction at the 60 Hz
	// reference rate. 0 disables inertia.
	Damping float32

	InitialAzimuth  float32
	InitialPolar    float32
	InitialDistance float32
	InitialTarget   Vec3
}

// DefaultCameraConfig returns the standard orbit tuning.
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		RotateSpeed:     0.008,
		PanSpeed:        0.002,
		ZoomSpeed:       0.1,
		MinPolar:        0.05,
		MaxPolar:        math32.Pi - 0.05,
		MinDistance:     0.5,
		MaxDistance:     50,
		Damping:         0.12,
		InitialAzimuth:  math32.Pi / 4,
		InitialPolar:    math32.Pi / 3,
		InitialDistance: 4,
	}
}

// OrbitCamera is a spherical-coordinate camera orbiting a pan target.
// Azimuth rotates around the vertical axis, polar tilts between the
// clamped interior range, distance zooms multiplicatively.
//
// After the pointer releases a rotation drag the last angular velocity
// keeps the camera turning, decaying toward rest. The decay is scaled by
// elapsed time rather than frame count so inertia feels the same at 30
// and 144 Hz.
type OrbitCamera struct {
	cfg CameraConfig

	azimuth  float32
	polar    float32
	distance float32
	target   Vec3

	velAzimuth float32
	velPolar   float32
	dragging   bool
}

// NewOrbitCamera creates a camera at the configured initial pose.
func NewOrbitCamera(cfg CameraConfig) *OrbitCamera {
	def := DefaultCameraConfig()
	if cfg.RotateSpeed == 0 {
		cfg.RotateSpeed = def.RotateSpeed
	}
	if cfg.PanSpeed == 0 {
		cfg.PanSpeed = def.PanSpeed
	}
	if cfg.ZoomSpeed == 0 {
		cfg.ZoomSpeed = def.ZoomSpeed
	}
	if cfg.MinPolar == 0 {
		cfg.MinPolar = def.MinPolar
	}
	if cfg.MaxPolar == 0 {
		cfg.MaxPolar = def.MaxPolar
	}
	if cfg.MinDistance == 0 {
		cfg.MinDistance = def.MinDistance
	}
	if cfg.MaxDistance == 0 {
		cfg.MaxDistance = def.MaxDistance
	}
	if cfg.InitialPolar == 0 {
		cfg.InitialPolar = def.InitialPolar
	}
	if cfg.InitialDistance == 0 {
		cfg.InitialDistance = def.InitialDistance
	}

	c := &OrbitCamera{cfg: cfg}
	c.Reset()
	return c
}

// Reset restores the configured initial pose and zeroes velocity.
func (c *OrbitCamera) Reset() {
	c.azimuth = c.cfg.InitialAzimuth
	c.polar = clampf(c.cfg.InitialPolar, c.cfg.MinPolar, c.cfg.MaxPolar)
	c.distance = clampf(c.cfg.InitialDistance, c.cfg.MinDistance, c.cfg.MaxDistance)
	c.target = c.cfg.InitialTarget
	c.velAzimuth = 0
	c.velPolar = 0
}

// BeginDrag marks the start of a rotation drag, suspending inertia.
func (c *OrbitCamera) BeginDrag() {
	c.dragging = true
	c.velAzimuth = 0
	c.velPolar = 0
}

// EndDrag ends a rotation drag; the last recorded velocity carries on
// as inertia.
func (c *OrbitCamera) EndDrag() {
	c.dragging = false
}

// Rotate applies a pointer drag delta in pixels.
func (c *OrbitCamera) Rotate(dx, dy float32) {
	dAz := -dx * c.cfg.RotateSpeed
	dPol := -dy * c.cfg.RotateSpeed
	c.azimuth += dAz
	c.polar = clampf(c.polar+dPol, c.cfg.MinPolar, c.cfg.MaxPolar)
	c.velAzimuth = dAz
	c.velPolar = dPol
}

// Pan displaces the pan target in view-aligned screen space. The step is
// scaled by the current distance so panning covers the same fraction of
// the view regardless of zoom.
func (c *OrbitCamera) Pan(dx, dy float32) {
	right, up := c.viewAxes()
	step := c.cfg.PanSpeed * c.distance
	c.target = c.target.Add(right.Scale(-dx * step)).Add(up.Scale(dy * step))
}

// Zoom scales the distance multiplicatively so zooming feels uniform at
// every scale. Positive delta zooms out.
func (c *OrbitCamera) Zoom(delta float32) {
	c.distance = clampf(c.distance*(1+delta*c.cfg.ZoomSpeed),
		c.cfg.MinDistance, c.cfg.MaxDistance)
}

// SetTarget moves the pan target.
func (c *OrbitCamera) SetTarget(t Vec3) {
	c.target = t
}

// SetDistanceRange reclamps the zoom range, keeping the current distance
// inside it. Used when data bounds change scale.
func (c *OrbitCamera) SetDistanceRange(min, max float32) {
	c.cfg.MinDistance = min
	c.cfg.MaxDistance = max
	c.distance = clampf(c.distance, min, max)
}

// Distance returns the current camera distance.
func (c *OrbitCamera) Distance() float32 { return c.distance }

// Polar returns the current polar angle in radians.
func (c *OrbitCamera) Polar() float32 { return c.polar }

// Azimuth returns the current azimuth angle in radians.
func (c *OrbitCamera) Azimuth() float32 { return c.azimuth }

// Update advances inertia by dt seconds and returns the current view
// matrix. Call exactly once per frame.
func (c *OrbitCamera) Update(dt float32) Mat4 {
	if !c.dragging && c.cfg.Damping > 0 {
		c.azimuth += c.velAzimuth
		c.polar = clampf(c.polar+c.velPolar, c.cfg.MinPolar, c.cfg.MaxPolar)

		// Exponential decay normalized to a 60 Hz reference frame.
		decay := math32.Pow(1-c.cfg.Damping, dt*60)
		c.velAzimuth *= decay
		c.velPolar *= decay
		const rest = 1e-5
		if math32.Abs(c.velAzimuth) < rest {
			c.velAzimuth = 0
		}
		if math32.Abs(c.velPolar) < rest {
			c.velPolar = 0
		}
	}
	return c.View()
}

// View returns the view matrix for the current pose without advancing
// inertia.
func (c *OrbitCamera) View() Mat4 {
	return LookAt(c.Eye(), c.target, Vec3{Y: 1})
}

// Eye returns the camera position in world space.
func (c *OrbitCamera) Eye() Vec3 {
	sp := math32.Sin(c.polar)
	return c.target.Add(Vec3{
		X: c.distance * sp * math32.Sin(c.azimuth),
		Y: c.distance * math32.Cos(c.polar),
		Z: c.distance * sp * math32.Cos(c.azimuth),
	})
}

// viewAxes returns the camera's right and up directions in world space.
func (c *OrbitCamera) viewAxes() (right, up Vec3) {
	forward := c.target.Sub(c.Eye()).Normalize()
	right = forward.Cross(Vec3{Y: 1}).Normalize()
	up = right.Cross(forward)
	return right, up
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
