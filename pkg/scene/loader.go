package scene

import (
	"fmt"

	"github.com/qmuntal/gltf"

	"github.com/taigrr/scenecull/pkg/math3d"
	"github.com/taigrr/scenecull/pkg/models"
)

// LoadGLB reads a glTF binary file and builds a scene graph from its
// default scene, preserving the file's node hierarchy and per-node
// transforms. Every mesh-bearing node gets a drawable with bounds
// attached.
func LoadGLB(path string) (*Graph, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open glTF file: %w", err)
	}
	return FromDocument(doc)
}

// FromDocument builds a scene graph from an already-parsed glTF
// document.
func FromDocument(doc *gltf.Document) (*Graph, error) {
	graph := NewGraph()

	meshes := make([]*models.Mesh, len(doc.Meshes))
	loader := models.NewGLTFLoader()
	for i, gm := range doc.Meshes {
		mesh, err := loader.FromDocument(doc, gm)
		if err != nil {
			return nil, fmt.Errorf("failed to load mesh %d: %w", i, err)
		}
		meshes[i] = mesh
	}

	roots, err := sceneRoots(doc)
	if err != nil {
		return nil, err
	}
	for _, idx := range roots {
		if err := buildNode(doc, idx, graph, graph.Root(), meshes, make(map[int]bool)); err != nil {
			return nil, err
		}
	}
	return graph, nil
}

func sceneRoots(doc *gltf.Document) ([]int, error) {
	if len(doc.Scenes) == 0 {
		// No scene: treat every node without a parent as a root.
		children := make(map[int]bool)
		for _, n := range doc.Nodes {
			for _, c := range n.Children {
				children[c] = true
			}
		}
		var roots []int
		for i := range doc.Nodes {
			if !children[i] {
				roots = append(roots, i)
			}
		}
		return roots, nil
	}

	idx := 0
	if doc.Scene != nil {
		idx = *doc.Scene
	}
	if idx < 0 || idx >= len(doc.Scenes) {
		return nil, fmt.Errorf("default scene index %d out of range", idx)
	}
	return doc.Scenes[idx].Nodes, nil
}

func buildNode(doc *gltf.Document, idx int, graph *Graph, parent *Node, meshes []*models.Mesh, visited map[int]bool) error {
	if idx < 0 || idx >= len(doc.Nodes) {
		return fmt.Errorf("node index %d out of range", idx)
	}
	if visited[idx] {
		return fmt.Errorf("node %d appears more than once in hierarchy", idx)
	}
	visited[idx] = true

	src := doc.Nodes[idx]
	node := parent.CreateChild()
	node.SetLocalTransform(nodeTransform(src))

	if src.Mesh != nil {
		mi := *src.Mesh
		if mi < 0 || mi >= len(meshes) {
			return fmt.Errorf("node %d references mesh %d out of range", idx, mi)
		}
		mesh := meshes[mi]
		min, max := mesh.GetBounds()
		node.SetBounds(min, max)
		graph.Drawables().Add(mesh, node)
	}

	for _, c := range src.Children {
		if err := buildNode(doc, c, graph, node, meshes, visited); err != nil {
			return err
		}
	}
	return nil
}

// nodeTransform returns the node's local matrix, favoring an explicit
// matrix over TRS when one is present. Zero-valued rotation and scale
// fields fall back to identity and unit scale.
func nodeTransform(n *gltf.Node) math3d.Mat4 {
	if m := n.Matrix; m != zeroMatrix && m != identityMatrix {
		var out math3d.Mat4
		for i := range m {
			out[i] = m[i]
		}
		return out
	}

	t := math3d.V3(n.Translation[0], n.Translation[1], n.Translation[2])

	r := n.Rotation
	if r == [4]float64{} {
		r = [4]float64{0, 0, 0, 1}
	}

	s := math3d.V3(n.Scale[0], n.Scale[1], n.Scale[2])
	if s == math3d.Zero3() {
		s = math3d.V3(1, 1, 1)
	}

	return math3d.Translate(t).Mul(quatMat4(r)).Mul(math3d.Scale(s))
}

var (
	zeroMatrix     [16]float64
	identityMatrix = [16]float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
)

// quatMat4 converts a unit quaternion (x, y, z, w) to a rotation
// matrix.
func quatMat4(q [4]float64) math3d.Mat4 {
	x, y, z, w := q[0], q[1], q[2], q[3]

	xx := x * x
	yy := y * y
	zz := z * z
	xy := x * y
	xz := x * z
	yz := y * z
	wx := w * x
	wy := w * y
	wz := w * z

	m := math3d.Identity()
	m.Set(0, 0, 1-2*(yy+zz))
	m.Set(0, 1, 2*(xy-wz))
	m.Set(0, 2, 2*(xz+wy))
	m.Set(1, 0, 2*(xy+wz))
	m.Set(1, 1, 1-2*(xx+zz))
	m.Set(1, 2, 2*(yz-wx))
	m.Set(2, 0, 2*(xz-wy))
	m.Set(2, 1, 2*(yz+wx))
	m.Set(2, 2, 1-2*(xx+yy))
	return m
}
