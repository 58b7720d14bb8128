package splot

import "github.com/gogpu/splot/gpudev"

// gridDivisions is the number of cells per grid axis.
const gridDivisions = 10

var (
	gridLineColor = RGBA{R: 0.5, G: 0.5, B: 0.5, A: 0.22}
	axisXColor    = RGBA{R: 0.78, G: 0.32, B: 0.32, A: 0.8}
	axisYColor    = RGBA{R: 0.36, G: 0.72, B: 0.36, A: 0.8}
	axisZColor    = RGBA{R: 0.36, G: 0.47, B: 0.82, A: 0.8}
)

// buildGridVertices generates the line vertex stream for the background
// grid: in 2D, evenly spaced vertical and horizontal lines across the
// padded bounds; in 3D, a ground-plane grid at the bottom of the bounds
// plus three colored axis lines through the box center. Grid geometry is
// drawn behind points in the main pass only; it never enters the picking
// pass.
func buildGridVertices(b Bounds, dims int) []float32 {
	if dims == 3 {
		return grid3D(b)
	}
	return grid2D(b)
}

func grid2D(b Bounds) []float32 {
	verts := make([]float32, 0, 2*(gridDivisions+1)*2*gpudev.LineVertexFloats)
	size := b.Size()
	for i := 0; i <= gridDivisions; i++ {
		t := float32(i) / gridDivisions
		x := b.Min.X + size.X*t
		y := b.Min.Y + size.Y*t
		verts = appendLine(verts, Vec3{x, b.Min.Y, 0}, Vec3{x, b.Max.Y, 0}, gridLineColor)
		verts = appendLine(verts, Vec3{b.Min.X, y, 0}, Vec3{b.Max.X, y, 0}, gridLineColor)
	}
	return verts
}

func grid3D(b Bounds) []float32 {
	verts := make([]float32, 0, (2*(gridDivisions+1)+3)*2*gpudev.LineVertexFloats)
	size := b.Size()
	ground := b.Min.Y
	for i := 0; i <= gridDivisions; i++ {
		t := float32(i) / gridDivisions
		x := b.Min.X + size.X*t
		z := b.Min.Z + size.Z*t
		verts = appendLine(verts, Vec3{x, ground, b.Min.Z}, Vec3{x, ground, b.Max.Z}, gridLineColor)
		verts = appendLine(verts, Vec3{b.Min.X, ground, z}, Vec3{b.Max.X, ground, z}, gridLineColor)
	}

	c := b.Center()
	verts = appendLine(verts, Vec3{b.Min.X, c.Y, c.Z}, Vec3{b.Max.X, c.Y, c.Z}, axisXColor)
	verts = appendLine(verts, Vec3{c.X, b.Min.Y, c.Z}, Vec3{c.X, b.Max.Y, c.Z}, axisYColor)
	verts = appendLine(verts, Vec3{c.X, c.Y, b.Min.Z}, Vec3{c.X, c.Y, b.Max.Z}, axisZColor)
	return verts
}

func appendLine(verts []float32, a, b Vec3, c RGBA) []float32 {
	col := c.Vec4()
	for _, p := range [2]Vec3{a, b} {
		verts = append(verts, p.X, p.Y, p.Z, col[0], col[1], col[2], col[3])
	}
	return verts
}
