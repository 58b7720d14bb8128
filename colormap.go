package splot

// Colormap maps a normalized value in [0, 1] to a color by linear
// interpolation between ordered stops.
type Colormap struct {
	stops []RGBA
}

// NewColormap builds a colormap from ordered stops. At least two stops
// are required for interpolation; a single stop yields a constant map.
func NewColormap(stops ...RGBA) *Colormap {
	return &Colormap{stops: stops}
}

// At returns the interpolated color at position t. Values outside [0, 1]
// clamp to the end stops.
func (c *Colormap) At(t float64) RGBA {
	if len(c.stops) == 0 {
		return DefaultPointColor
	}
	if t <= 0 || len(c.stops) == 1 {
		return c.stops[0]
	}
	if t >= 1 {
		return c.stops[len(c.stops)-1]
	}

	pos := t * float64(len(c.stops)-1)
	lower := int(pos)
	upper := lower + 1
	if upper >= len(c.stops) {
		upper = len(c.stops) - 1
	}
	return c.stops[lower].Lerp(c.stops[upper], pos-float64(lower))
}

// AtIndex returns the stop at index i, wrapping around. Used for
// categorical coloring where i is a label index.
func (c *Colormap) AtIndex(i int) RGBA {
	if len(c.stops) == 0 {
		return DefaultPointColor
	}
	if i < 0 {
		i = -i
	}
	return c.stops[i%len(c.stops)]
}

// NormalizeValue maps v into [0, 1] relative to [min, max], clamping out
// of range values. When max == min every value maps to 0.5 so a constant
// batch renders at the palette midpoint instead of an extreme.
func NormalizeValue(v, min, max float64) float64 {
	if max == min {
		return 0.5
	}
	return clamp01((v - min) / (max - min))
}

func rgb8(r, g, b uint8) RGBA {
	return RGBA{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255, A: 1}
}

// Sequential palettes (matplotlib-standard stop sets).
var (
	Viridis = NewColormap(
		rgb8(68, 1, 84),
		rgb8(72, 35, 116),
		rgb8(64, 67, 135),
		rgb8(52, 94, 141),
		rgb8(41, 120, 142),
		rgb8(32, 144, 140),
		rgb8(34, 167, 132),
		rgb8(68, 190, 112),
		rgb8(121, 209, 81),
		rgb8(189, 222, 38),
		rgb8(253, 231, 37),
	)

	Plasma = NewColormap(
		rgb8(13, 8, 135),
		rgb8(75, 3, 161),
		rgb8(125, 3, 168),
		rgb8(168, 34, 150),
		rgb8(203, 70, 121),
		rgb8(229, 107, 93),
		rgb8(248, 148, 65),
		rgb8(253, 195, 40),
		rgb8(240, 249, 33),
	)

	Inferno = NewColormap(
		rgb8(0, 0, 4),
		rgb8(40, 11, 84),
		rgb8(101, 21, 110),
		rgb8(159, 42, 99),
		rgb8(212, 72, 66),
		rgb8(245, 125, 21),
		rgb8(250, 193, 39),
		rgb8(252, 255, 164),
	)

	Magma = NewColormap(
		rgb8(0, 0, 4),
		rgb8(28, 16, 68),
		rgb8(79, 18, 123),
		rgb8(129, 37, 129),
		rgb8(181, 54, 122),
		rgb8(229, 80, 100),
		rgb8(251, 135, 97),
		rgb8(254, 194, 135),
	)
)

// Diverging palettes.
var (
	// CoolWarm is a 5-stop blue to red diverging ramp through a neutral
	// midpoint, suited to signed values (SHAP contributions, residuals).
	CoolWarm = NewColormap(
		rgb8(59, 76, 192),
		rgb8(144, 178, 254),
		rgb8(221, 221, 221),
		rgb8(245, 156, 125),
		rgb8(180, 4, 38),
	)

	// BlueRed is a minimal 3-stop diverging ramp.
	BlueRed = NewColormap(
		rgb8(33, 102, 172),
		rgb8(247, 247, 247),
		rgb8(178, 24, 43),
	)
)

// Tab10 is a 10-color qualitative cycle for categorical labels, keyed by
// label index modulo palette size via AtIndex.
var Tab10 = NewColormap(
	rgb8(31, 119, 180),
	rgb8(255, 127, 14),
	rgb8(44, 160, 44),
	rgb8(214, 39, 40),
	rgb8(148, 103, 189),
	rgb8(140, 86, 75),
	rgb8(227, 119, 194),
	rgb8(127, 127, 127),
	rgb8(188, 189, 34),
	rgb8(23, 190, 207),
)

// palettes indexes the named palettes for PaletteByName.
var palettes = map[string]*Colormap{
	"viridis":  Viridis,
	"plasma":   Plasma,
	"inferno":  Inferno,
	"magma":    Magma,
	"coolwarm": CoolWarm,
	"bluered":  BlueRed,
	"tab10":    Tab10,
}

// PaletteByName returns the named palette, or Viridis when the name is
// unknown or empty.
func PaletteByName(name string) *Colormap {
	if p, ok := palettes[name]; ok {
		return p
	}
	return Viridis
}
