package splot

import (
	"testing"

	"github.com/chewxy/math32"
)

func closef(a, b float32) bool {
	return math32.Abs(a-b) < 1e-4
}

func TestOrtho2DMapsCorners(t *testing.T) {
	m := Ortho2D(-10, 10, -5, 5).Mat4()
	tests := []struct {
		name string
		in   Vec3
		want Vec3
	}{
		{"bottom left", Vec3{-10, -5, 0}, Vec3{-1, -1, 0}},
		{"top right", Vec3{10, 5, 0}, Vec3{1, 1, 0}},
		{"center", Vec3{0, 0, 0}, Vec3{0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, w := m.TransformPoint(tt.in)
			if !closef(got.X, tt.want.X) || !closef(got.Y, tt.want.Y) {
				t.Errorf("TransformPoint(%+v) = %+v, want %+v", tt.in, got, tt.want)
			}
			if !closef(w, 1) {
				t.Errorf("orthographic w = %g, want 1", w)
			}
		})
	}
}

func TestPerspectiveDepthOrdering(t *testing.T) {
	m := Perspective(math32.Pi/4, 1, 0.1, 100)
	near, _ := m.TransformPoint(Vec3{0, 0, -1})
	far, _ := m.TransformPoint(Vec3{0, 0, -50})
	if near.Z >= far.Z {
		t.Errorf("nearer point has depth %g, farther %g; want increasing", near.Z, far.Z)
	}
	// A centered point stays centered.
	if !closef(near.X, 0) || !closef(near.Y, 0) {
		t.Errorf("centered point projected to (%g, %g)", near.X, near.Y)
	}
}

func TestLookAtEyeMapsToOrigin(t *testing.T) {
	eye := Vec3{3, 4, 5}
	m := LookAt(eye, Vec3{}, Vec3{Y: 1})
	got, _ := m.TransformPoint(eye)
	if !closef(got.X, 0) || !closef(got.Y, 0) || !closef(got.Z, 0) {
		t.Errorf("eye transformed to %+v, want origin", got)
	}

	// The target sits straight ahead on the negative view Z axis.
	tgt, _ := m.TransformPoint(Vec3{})
	if !closef(tgt.X, 0) || !closef(tgt.Y, 0) {
		t.Errorf("target off axis: %+v", tgt)
	}
	if tgt.Z >= 0 {
		t.Errorf("target Z = %g, want negative (in front of camera)", tgt.Z)
	}
}

func TestMat4MulIdentity(t *testing.T) {
	m := Perspective(1, 1.5, 0.1, 10)
	if got := m.Mul(Identity4()); got != m {
		t.Error("M * I != M")
	}
	if got := Identity4().Mul(m); got != m {
		t.Error("I * M != M")
	}
}

func TestMat4MulComposes(t *testing.T) {
	view := LookAt(Vec3{0, 0, 5}, Vec3{}, Vec3{Y: 1})
	proj := Perspective(math32.Pi/3, 1, 0.1, 100)
	combined := proj.Mul(view)

	p := Vec3{1, 2, 0}
	viewed, _ := view.TransformPoint(p)
	want, _ := proj.TransformPoint(viewed)
	got, _ := combined.TransformPoint(p)
	if !closef(got.X, want.X) || !closef(got.Y, want.Y) || !closef(got.Z, want.Z) {
		t.Errorf("composed transform %+v, stepwise %+v", got, want)
	}
}

func TestVec3Ops(t *testing.T) {
	v := Vec3{3, 0, 4}
	if !closef(v.Length(), 5) {
		t.Errorf("Length = %g, want 5", v.Length())
	}
	n := v.Normalize()
	if !closef(n.Length(), 1) {
		t.Errorf("normalized length = %g", n.Length())
	}
	if (Vec3{}).Normalize() != (Vec3{}) {
		t.Error("zero vector normalize should stay zero")
	}
	cross := Vec3{1, 0, 0}.Cross(Vec3{0, 1, 0})
	if cross != (Vec3{0, 0, 1}) {
		t.Errorf("X cross Y = %+v, want Z", cross)
	}
}
