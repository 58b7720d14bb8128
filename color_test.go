package splot

import "testing"

func TestHex(t *testing.T) {
	tests := []struct {
		name string
		hex  string
		want RGBA
	}{
		{"six digit", "#ff0000", RGBA{R: 1, A: 1}},
		{"three digit", "#f00", RGBA{R: 1, A: 1}},
		{"no hash", "00ff00", RGBA{G: 1, A: 1}},
		{"eight digit alpha", "#0000ff80", RGBA{B: 1, A: float64(0x80) / 255}},
		{"white", "#fff", RGBA{R: 1, G: 1, B: 1, A: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Hex(tt.hex)
			if !colorsClose(got, tt.want) {
				t.Errorf("Hex(%q) = %+v, want %+v", tt.hex, got, tt.want)
			}
		})
	}
}

func TestHexMalformed(t *testing.T) {
	for _, s := range []string{"", "#", "#gggggg", "#12345"} {
		got := Hex(s)
		if got != Black {
			t.Errorf("Hex(%q) = %+v, want opaque black", s, got)
		}
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  RGBA
		ok    bool
	}{
		{"hex long", "#4878cf", Hex("#4878cf"), true},
		{"hex short", "#abc", Hex("#abc"), true},
		{"named", "red", RGBA{R: 1, A: 1}, true},
		{"named mixed case", "SteelBlue", mustNamed(t, "steelblue"), true},
		{"rgb func", "rgb(255, 0, 0)", RGBA{R: 1, A: 1}, true},
		{"rgba func", "rgba(0, 0, 255, 0.5)", RGBA{B: 1, A: 0.5}, true},
		{"empty", "", RGBA{}, false},
		{"garbage", "not-a-color", RGBA{}, false},
		{"bare hex not accepted", "4878cf", RGBA{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseColor(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseColor(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && !colorsClose(got, tt.want) {
				t.Errorf("ParseColor(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLerp(t *testing.T) {
	a := RGBA{A: 1}
	b := RGBA{R: 1, G: 1, B: 1, A: 1}
	mid := a.Lerp(b, 0.5)
	want := RGBA{R: 0.5, G: 0.5, B: 0.5, A: 1}
	if !colorsClose(mid, want) {
		t.Errorf("Lerp midpoint = %+v, want %+v", mid, want)
	}
	if a.Lerp(b, 0) != a || a.Lerp(b, 1) != b {
		t.Error("Lerp endpoints do not return the inputs")
	}
}

func TestVec4(t *testing.T) {
	v := RGBA{R: 1, G: 0.5, B: 0, A: 1}.Vec4()
	if v[0] != 1 || v[3] != 1 {
		t.Errorf("Vec4 = %v", v)
	}
	if v[1] < 0.49 || v[1] > 0.51 {
		t.Errorf("Vec4 green = %g, want 0.5", v[1])
	}
}

func mustNamed(t *testing.T, name string) RGBA {
	t.Helper()
	c, ok := ParseColor(name)
	if !ok {
		t.Fatalf("named color %q not recognized", name)
	}
	return c
}

func colorsClose(a, b RGBA) bool {
	const eps = 1.0 / 255
	return absDiff(a.R, b.R) <= eps &&
		absDiff(a.G, b.G) <= eps &&
		absDiff(a.B, b.B) <= eps &&
		absDiff(a.A, b.A) <= eps
}
