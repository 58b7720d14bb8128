package splot

import "github.com/chewxy/math32"

// boundsPadFraction is the fraction of each axis range added on both
// sides so points never touch the viewport edge.
const boundsPadFraction = 0.05

// boundsPadEpsilon pads an axis whose range is zero (all points
// collinear on that axis) so the projection stays non-degenerate.
const boundsPadEpsilon = 0.5

// Bounds is an axis-aligned box enclosing the finite points of a set,
// padded per axis. For 2D point sets the Z extent is [0, 0] before
// padding.
type Bounds struct {
	Min, Max Vec3
}

// Center returns the box midpoint.
func (b Bounds) Center() Vec3 {
	return Vec3{
		(b.Min.X + b.Max.X) / 2,
		(b.Min.Y + b.Max.Y) / 2,
		(b.Min.Z + b.Max.Z) / 2,
	}
}

// Size returns the box extent per axis.
func (b Bounds) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// Radius returns half the diagonal length, a scale estimate used to
// place the default 3D camera.
func (b Bounds) Radius() float32 {
	return b.Size().Length() / 2
}

// ComputeBounds computes padded data bounds from flat coordinates with
// dims values per point. Non-finite coordinates are skipped: a point
// with any NaN or infinite component contributes nothing to the bounds
// but still occupies its slot in the point set.
//
// Each axis is padded by 5% of its range, or by a fixed epsilon when the
// range is zero, so padding is strictly positive whenever at least one
// finite point exists. An empty or fully non-finite set yields the unit
// box around the origin.
func ComputeBounds(coords []float32, dims int) Bounds {
	lo := Vec3{math32.Inf(1), math32.Inf(1), math32.Inf(1)}
	hi := Vec3{math32.Inf(-1), math32.Inf(-1), math32.Inf(-1)}
	if dims == 2 {
		lo.Z, hi.Z = 0, 0
	}

	any := false
	for i := 0; i+dims <= len(coords); i += dims {
		if !finiteAt(coords, i, dims) {
			continue
		}
		any = true
		lo.X = math32.Min(lo.X, coords[i])
		hi.X = math32.Max(hi.X, coords[i])
		lo.Y = math32.Min(lo.Y, coords[i+1])
		hi.Y = math32.Max(hi.Y, coords[i+1])
		if dims == 3 {
			lo.Z = math32.Min(lo.Z, coords[i+2])
			hi.Z = math32.Max(hi.Z, coords[i+2])
		}
	}
	if !any {
		return Bounds{Min: Vec3{-1, -1, -1}, Max: Vec3{1, 1, 1}}
	}

	lo.X, hi.X = padAxis(lo.X, hi.X)
	lo.Y, hi.Y = padAxis(lo.Y, hi.Y)
	lo.Z, hi.Z = padAxis(lo.Z, hi.Z)
	return Bounds{Min: lo, Max: hi}
}

// finiteAt reports whether all dims coordinates starting at i are finite.
func finiteAt(coords []float32, i, dims int) bool {
	for d := 0; d < dims; d++ {
		v := coords[i+d]
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func padAxis(lo, hi float32) (float32, float32) {
	pad := (hi - lo) * boundsPadFraction
	if pad == 0 {
		pad = boundsPadEpsilon
	}
	return lo - pad, hi + pad
}
