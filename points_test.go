package splot

import (
	"errors"
	"math"
	"testing"
)

func TestPointSetValidate(t *testing.T) {
	tests := []struct {
		name    string
		ps      PointSet
		wantErr error
	}{
		{"valid 2d", PointSet{Coords: []float32{1, 2, 3, 4}, Dims: 2}, nil},
		{"valid 3d", PointSet{Coords: []float32{1, 2, 3}, Dims: 3}, nil},
		{"empty", PointSet{Dims: 2}, nil},
		{"bad dims", PointSet{Coords: []float32{1}, Dims: 1}, ErrInvalidDims},
		{"ragged coords", PointSet{Coords: []float32{1, 2, 3}, Dims: 2}, ErrCoordsLength},
		{"short index map", PointSet{Coords: []float32{1, 2, 3, 4}, Dims: 2, Indices: []int{7}}, ErrIndexMap},
		{"negative index", PointSet{Coords: []float32{1, 2}, Dims: 2, Indices: []int{-1}}, ErrIndexMap},
		{"duplicate index", PointSet{Coords: []float32{1, 2, 3, 4}, Dims: 2, Indices: []int{3, 3}}, ErrIndexMap},
		{"index map ok", PointSet{Coords: []float32{1, 2, 3, 4}, Dims: 2, Indices: []int{9, 4}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ps.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSampleIndexDefaultsToIdentity(t *testing.T) {
	ps := PointSet{Coords: []float32{0, 0, 1, 1}, Dims: 2}
	if ps.SampleIndex(1) != 1 {
		t.Error("identity mapping broken")
	}
	ps.Indices = []int{10, 20}
	if ps.SampleIndex(1) != 20 {
		t.Error("index map not applied")
	}
}

func TestResolveColorsPrecedence(t *testing.T) {
	ps := PointSet{
		Coords: []float32{0, 0, 1, 1, 2, 2, 3, 3},
		Dims:   2,
		Colors: []string{"#ff0000", "", "", ""},
		Values: []float64{9, 0.5, math.NaN(), math.NaN()},
		Labels: []string{"a", "b", "c", ""},
	}
	got := ps.ResolveColors(Viridis, Tab10)

	// Explicit CSS color wins over the value encoding.
	if !colorsClose(got[0], RGBA{R: 1, A: 1}) {
		t.Errorf("point 0 = %+v, want CSS red", got[0])
	}
	// A finite value wins over the label.
	want1 := Viridis.At(NormalizeValue(0.5, 0.5, 9))
	if got[1] != want1 {
		t.Errorf("point 1 = %+v, want palette color %+v", got[1], want1)
	}
	// NaN value falls through to the label cycle.
	if got[2] != Tab10.AtIndex(2) {
		t.Errorf("point 2 = %+v, want third categorical color", got[2])
	}
	// Empty label is still a label (a real category key).
	if got[3] != Tab10.AtIndex(3) {
		t.Errorf("point 3 = %+v, want fourth categorical color", got[3])
	}
}

func TestResolveColorsDefault(t *testing.T) {
	ps := PointSet{Coords: []float32{0, 0}, Dims: 2}
	got := ps.ResolveColors(nil, nil)
	if got[0] != DefaultPointColor {
		t.Errorf("bare point = %+v, want default color", got[0])
	}
}

func TestResolveColorsConstantValues(t *testing.T) {
	// All values equal: everything lands at the palette midpoint.
	ps := PointSet{
		Coords: []float32{0, 0, 1, 1},
		Dims:   2,
		Values: []float64{3, 3},
	}
	got := ps.ResolveColors(Viridis, nil)
	want := Viridis.At(0.5)
	if got[0] != want || got[1] != want {
		t.Errorf("constant batch = %+v, %+v, want midpoint %+v", got[0], got[1], want)
	}
}

func TestLabelIndicesFirstAppearance(t *testing.T) {
	idx := labelIndices([]string{"b", "a", "b", "c", "a"})
	want := []int{0, 1, 0, 2, 1}
	for i := range want {
		if idx[i] != want[i] {
			t.Fatalf("labelIndices = %v, want %v", idx, want)
		}
	}
}
