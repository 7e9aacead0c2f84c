package models

import (
	"github.com/taigrr/scenecull/pkg/math3d"
)

// cubeFaces lists the 6 faces of a cube as quads over the 8 corner
// vertices, wound to match the rasterizer's front-face convention.
var cubeFaces = [6][4]int{
	{0, 1, 2, 3}, // Back  (-Z)
	{5, 4, 7, 6}, // Front (+Z)
	{4, 0, 3, 7}, // Left  (-X)
	{1, 5, 6, 2}, // Right (+X)
	{3, 2, 6, 7}, // Top   (+Y)
	{4, 5, 1, 0}, // Bottom(-Y)
}

// NewCube creates an axis-aligned cube mesh centered at the origin with
// the given half extent. Every triangle carries flat face normals.
func NewCube(halfExtent float64) *Mesh {
	h := halfExtent
	corners := [8]math3d.Vec3{
		{X: -h, Y: -h, Z: -h},
		{X: h, Y: -h, Z: -h},
		{X: h, Y: h, Z: -h},
		{X: -h, Y: h, Z: -h},
		{X: -h, Y: -h, Z: h},
		{X: h, Y: -h, Z: h},
		{X: h, Y: h, Z: h},
		{X: -h, Y: h, Z: h},
	}

	mesh := NewMesh("cube")

	// Duplicate corner vertices per face so flat normals do not bleed
	// across edges.
	for _, f := range cubeFaces {
		base := len(mesh.Vertices)
		for _, ci := range f {
			mesh.Vertices = append(mesh.Vertices, MeshVertex{Position: corners[ci]})
		}
		mesh.Faces = append(mesh.Faces,
			Face{V: [3]int{base, base + 1, base + 2}},
			Face{V: [3]int{base, base + 2, base + 3}},
		)
	}

	mesh.CalculateNormals()
	mesh.CalculateBounds()
	return mesh
}
