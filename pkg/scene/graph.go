package scene

import (
	"github.com/taigrr/scenecull/pkg/math3d"
	"github.com/taigrr/scenecull/pkg/models"
)

// Graph owns a scene's root node and the group of drawables hung off
// the hierarchy.
type Graph struct {
	root      *Node
	drawables *DrawableGroup
}

// NewGraph returns a graph with an empty root node and no drawables.
func NewGraph() *Graph {
	return &Graph{
		root:      NewNode(),
		drawables: NewDrawableGroup(),
	}
}

// Root returns the scene root node.
func (g *Graph) Root() *Node { return g.root }

// Drawables returns the scene's drawable group.
func (g *Graph) Drawables() *DrawableGroup { return g.drawables }

// AddMesh creates a child node under parent, attaches the mesh's
// bounds to it, and registers a drawable for it. parent may be nil to
// attach directly under the root.
func (g *Graph) AddMesh(mesh *models.Mesh, parent *Node) (*Drawable, *Node) {
	if parent == nil {
		parent = g.root
	}
	node := parent.CreateChild()
	min, max := mesh.GetBounds()
	node.SetBounds(min, max)
	return g.drawables.Add(mesh, node), node
}

// Bounds returns the world-space box enclosing every drawable in the
// scene. ok is false for a scene with no bounded nodes.
func (g *Graph) Bounds() (math3d.AABB, bool) {
	return g.root.SubtreeAABB()
}
