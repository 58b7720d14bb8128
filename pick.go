package splot

// Picking identity encoding.
//
// The picking pass renders each point with a flat color that encodes its
// sample index. Index i is stored as the 24-bit integer i+1 so that pure
// black (0) is reserved for "background, no point". Readback decodes the
// pixel back to the index, giving pixel-exact hit testing for up to
// MaxPickIndex+1 points.

// MaxPickIndex is the largest sample index that can be encoded. One value
// is lost to the background reservation and one to the +1 offset.
const MaxPickIndex = 1<<24 - 2

// NoSample marks the absence of a sample index (background pixel, no
// hovered point).
const NoSample = -1

// EncodePickColor packs sampleIndex+1 into an RGB byte triple, red
// holding the most significant byte. Indexes outside [0, MaxPickIndex]
// are a programming error; they are clamped into range and logged rather
// than silently corrupting picking.
func EncodePickColor(sampleIndex int) (r, g, b uint8) {
	if sampleIndex < 0 || sampleIndex > MaxPickIndex {
		Logger().Warn("splot: pick index out of range, clamping",
			"index", sampleIndex, "max", MaxPickIndex)
		if sampleIndex < 0 {
			sampleIndex = 0
		} else {
			sampleIndex = MaxPickIndex
		}
	}
	v := uint32(sampleIndex + 1)
	return uint8(v >> 16), uint8(v >> 8), uint8(v)
}

// DecodePickColor is the inverse of EncodePickColor. The boolean result
// is false iff the triple is the reserved background black.
func DecodePickColor(r, g, b uint8) (int, bool) {
	v := uint32(r)<<16 | uint32(g)<<8 | uint32(b)
	if v == 0 {
		return NoSample, false
	}
	return int(v - 1), true
}
