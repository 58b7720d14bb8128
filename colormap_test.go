package splot

import (
	"math"
	"testing"
)

func TestNormalizeValue(t *testing.T) {
	tests := []struct {
		name        string
		v, min, max float64
		want        float64
	}{
		{"min", 0, 0, 10, 0},
		{"max", 10, 0, 10, 1},
		{"mid", 5, 0, 10, 0.5},
		{"below clamps", -5, 0, 10, 0},
		{"above clamps", 15, 0, 10, 1},
		{"degenerate range", 7, 7, 7, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeValue(tt.v, tt.min, tt.max)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("NormalizeValue(%g, %g, %g) = %g, want %g", tt.v, tt.min, tt.max, got, tt.want)
			}
		})
	}
}

func TestNormalizeValueInRange(t *testing.T) {
	for _, v := range []float64{-3, -1.5, 0, 0.1, 2.9, 3} {
		got := NormalizeValue(v, -3, 3)
		if got < 0 || got > 1 {
			t.Errorf("NormalizeValue(%g, -3, 3) = %g outside [0, 1]", v, got)
		}
	}
}

func TestColormapAtEndpoints(t *testing.T) {
	for _, cm := range []*Colormap{Viridis, Plasma, Inferno, Magma, CoolWarm, BlueRed, Tab10} {
		first := cm.At(0)
		last := cm.At(1)
		if first != cm.At(-5) {
			t.Errorf("At below 0 did not clamp to first stop")
		}
		if last != cm.At(5) {
			t.Errorf("At above 1 did not clamp to last stop")
		}
	}
}

func TestColormapAtInterpolates(t *testing.T) {
	cm := NewColormap(RGB(0, 0, 0), RGB(1, 1, 1))
	got := cm.At(0.5)
	if absDiff(got.R, 0.5) > 1e-6 || absDiff(got.G, 0.5) > 1e-6 || absDiff(got.B, 0.5) > 1e-6 {
		t.Errorf("midpoint of black→white = %+v, want gray", got)
	}
}

func TestColormapAtIndexWraps(t *testing.T) {
	if Tab10.AtIndex(0) != Tab10.AtIndex(10) {
		t.Error("AtIndex(10) did not wrap to AtIndex(0) on a 10-color cycle")
	}
	if Tab10.AtIndex(3) == Tab10.AtIndex(4) {
		t.Error("adjacent categorical indices produced the same color")
	}
}

func TestPaletteByName(t *testing.T) {
	tests := []struct {
		name string
		want *Colormap
	}{
		{"viridis", Viridis},
		{"plasma", Plasma},
		{"coolwarm", CoolWarm},
		{"tab10", Tab10},
		{"no-such-palette", Viridis},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PaletteByName(tt.name); got != tt.want {
				t.Errorf("PaletteByName(%q) returned wrong palette", tt.name)
			}
		})
	}
}

func absDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
