package splot

import "github.com/chewxy/math32"

// Vec3 is a 3D vector of float32, the precision GPU vertex data uses.
type Vec3 struct {
	X, Y, Z float32
}

// Add returns the sum of two vectors.
func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{v.X + w.X, v.Y + w.Y, v.Z + w.Z}
}

// Sub returns the difference of two vectors.
func (v Vec3) Sub(w Vec3) Vec3 {
	return Vec3{v.X - w.X, v.Y - w.Y, v.Z - w.Z}
}

// Scale returns the vector scaled by s.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product of two vectors.
func (v Vec3) Dot(w Vec3) float32 {
	return v.X*w.X + v.Y*w.Y + v.Z*w.Z
}

// Cross returns the cross product of two vectors.
func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{
		v.Y*w.Z - v.Z*w.Y,
		v.Z*w.X - v.X*w.Z,
		v.X*w.Y - v.Y*w.X,
	}
}

// Length returns the vector magnitude.
func (v Vec3) Length() float32 {
	return math32.Sqrt(v.Dot(v))
}

// Normalize returns a unit vector in the same direction, or the zero
// vector when the input has zero length.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Mat3 is a 3x3 matrix in column-major order, used for 2D orthographic
// transforms over homogeneous (x, y, 1) coordinates.
type Mat3 [9]float32

// Mat4 is a 4x4 matrix in column-major order, matching the memory layout
// GPU uniform buffers expect.
type Mat4 [16]float32

// Identity4 returns the 4x4 identity matrix.
func Identity4() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Ortho2D builds a 3x3 orthographic transform mapping the rectangle
// [left,right]x[bottom,top] onto clip space [-1,1]^2.
func Ortho2D(left, right, bottom, top float32) Mat3 {
	sx := 2 / (right - left)
	sy := 2 / (top - bottom)
	return Mat3{
		sx, 0, 0,
		0, sy, 0,
		-(right + left) / (right - left), -(top + bottom) / (top - bottom), 1,
	}
}

// Mat4 widens a 2D transform into a 4x4 matrix with identity depth.
func (m Mat3) Mat4() Mat4 {
	return Mat4{
		m[0], m[1], 0, m[2],
		m[3], m[4], 0, m[5],
		0, 0, 1, 0,
		m[6], m[7], 0, m[8],
	}
}

// Ortho builds a 4x4 orthographic projection over the given box.
func Ortho(left, right, bottom, top, near, far float32) Mat4 {
	return Mat4{
		2 / (right - left), 0, 0, 0,
		0, 2 / (top - bottom), 0, 0,
		0, 0, -2 / (far - near), 0,
		-(right + left) / (right - left),
		-(top + bottom) / (top - bottom),
		-(far + near) / (far - near),
		1,
	}
}

// Perspective builds a 4x4 perspective projection. fovY is the vertical
// field of view in radians; near must be > 0 and far > near.
func Perspective(fovY, aspect, near, far float32) Mat4 {
	f := 1 / math32.Tan(fovY/2)
	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) / (near - far), -1,
		0, 0, 2 * far * near / (near - far), 0,
	}
}

// LookAt builds a view matrix positioning the camera at eye, looking at
// target, with the given up direction. up must not be parallel to the
// view direction.
func LookAt(eye, target, up Vec3) Mat4 {
	f := target.Sub(eye).Normalize()
	s := f.Cross(up).Normalize()
	u := s.Cross(f)
	return Mat4{
		s.X, u.X, -f.X, 0,
		s.Y, u.Y, -f.Y, 0,
		s.Z, u.Z, -f.Z, 0,
		-s.Dot(eye), -u.Dot(eye), f.Dot(eye), 1,
	}
}

// Mul composes two matrices; the result applies b first, then a.
func (a Mat4) Mul(b Mat4) Mat4 {
	var out Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[k*4+row] * b[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}

// TransformPoint applies the matrix to a point with perspective divide.
// The second result is the clip-space w component, negative or zero when
// the point is behind the camera.
func (a Mat4) TransformPoint(p Vec3) (Vec3, float32) {
	x := a[0]*p.X + a[4]*p.Y + a[8]*p.Z + a[12]
	y := a[1]*p.X + a[5]*p.Y + a[9]*p.Z + a[13]
	z := a[2]*p.X + a[6]*p.Y + a[10]*p.Z + a[14]
	w := a[3]*p.X + a[7]*p.Y + a[11]*p.Z + a[15]
	if w != 0 && w != 1 {
		return Vec3{x / w, y / w, z / w}, w
	}
	return Vec3{x, y, z}, w
}
