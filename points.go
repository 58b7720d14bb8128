package splot

import (
	"fmt"
	"math"
)

// PointSet is the caller-supplied point data for one render batch. The
// engine never mutates it; supply a fresh set (or the same one) through
// Engine.SetPoints whenever the data changes.
//
// All per-point slices are optional and, when present, must have one
// entry per point.
type PointSet struct {
	// Coords holds dims values per point, row-major. Non-finite
	// coordinates are allowed: such points keep their slot (so sample
	// indices stay aligned) but render invisible and are excluded from
	// bounds computation.
	Coords []float32

	// Dims is 2 or 3.
	Dims int

	// Indices maps each point's position to a stable sample index used
	// for selection and picking identity. Nil means the identity
	// mapping. Values must be unique and non-negative.
	Indices []int

	// Colors holds per-point CSS color strings. A recognized color takes
	// precedence over Values and Labels. Unrecognized strings fall
	// through to the next encoding.
	Colors []string

	// Values holds per-point continuous values, normalized against the
	// batch's finite min/max and mapped through the engine's palette.
	Values []float64

	// Labels holds per-point categorical labels, cycled through the
	// categorical palette in order of first appearance.
	Labels []string
}

// Len returns the number of points.
func (ps *PointSet) Len() int {
	if ps == nil || ps.Dims == 0 {
		return 0
	}
	return len(ps.Coords) / ps.Dims
}

// SampleIndex returns the sample index for the point at position i.
func (ps *PointSet) SampleIndex(i int) int {
	if ps.Indices == nil {
		return i
	}
	return ps.Indices[i]
}

// Validate checks structural invariants: dims is 2 or 3, coords length
// is a multiple of dims, and the index map (when present) covers every
// point with unique, non-negative, encodable sample indices.
func (ps *PointSet) Validate() error {
	if ps.Dims != 2 && ps.Dims != 3 {
		return fmt.Errorf("%w: got %d", ErrInvalidDims, ps.Dims)
	}
	if len(ps.Coords)%ps.Dims != 0 {
		return fmt.Errorf("%w: len %d, dims %d", ErrCoordsLength, len(ps.Coords), ps.Dims)
	}
	n := ps.Len()
	if ps.Indices != nil {
		if len(ps.Indices) < n {
			return fmt.Errorf("%w: %d entries for %d points", ErrIndexMap, len(ps.Indices), n)
		}
		seen := make(map[int]struct{}, n)
		for _, idx := range ps.Indices[:n] {
			if idx < 0 || idx > MaxPickIndex {
				return fmt.Errorf("%w: sample index %d out of range", ErrIndexMap, idx)
			}
			if _, dup := seen[idx]; dup {
				return fmt.Errorf("%w: duplicate sample index %d", ErrIndexMap, idx)
			}
			seen[idx] = struct{}{}
		}
	} else if n > MaxPickIndex+1 {
		return fmt.Errorf("%w: %d points exceed pick encoding capacity", ErrIndexMap, n)
	}
	return nil
}

// ResolveColors computes one RGBA per point with strict precedence:
// explicit CSS color, then continuous value through palette, then
// categorical label through categorical, then the default color. Colors
// are opaque unless a CSS color specifies alpha.
func (ps *PointSet) ResolveColors(palette, categorical *Colormap) []RGBA {
	n := ps.Len()
	out := make([]RGBA, n)
	if n == 0 {
		return out
	}
	if palette == nil {
		palette = Viridis
	}
	if categorical == nil {
		categorical = Tab10
	}

	min, max := finiteValueRange(ps.Values)
	labelIdx := labelIndices(ps.Labels)

	for i := 0; i < n; i++ {
		if i < len(ps.Colors) {
			if c, ok := ParseColor(ps.Colors[i]); ok {
				out[i] = c
				continue
			}
		}
		if i < len(ps.Values) && !math.IsNaN(ps.Values[i]) {
			out[i] = palette.At(NormalizeValue(ps.Values[i], min, max))
			continue
		}
		if i < len(ps.Labels) {
			out[i] = categorical.AtIndex(labelIdx[i])
			continue
		}
		out[i] = DefaultPointColor
	}
	return out
}

// finiteValueRange returns the min and max over finite values. A slice
// with no finite values yields (0, 0) so normalization lands on the
// palette midpoint.
func finiteValueRange(values []float64) (float64, float64) {
	min, max := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if min > max {
		return 0, 0
	}
	return min, max
}

// labelIndices assigns each label an index in order of first appearance.
func labelIndices(labels []string) []int {
	if len(labels) == 0 {
		return nil
	}
	idx := make([]int, len(labels))
	order := make(map[string]int, 16)
	for i, l := range labels {
		j, ok := order[l]
		if !ok {
			j = len(order)
			order[l] = j
		}
		idx[i] = j
	}
	return idx
}
