package scene

import (
	"github.com/taigrr/scenecull/pkg/math3d"
	"github.com/taigrr/scenecull/pkg/models"
)

// Drawable binds a mesh to a transform node. Its world placement and
// bounding box come from the node.
type Drawable struct {
	Mesh *models.Mesh
	Node *Node
}

// AbsoluteAABB returns the world-space box of the drawable's own node
// bounds. Children of the node do not widen it. ok is false when the
// node carries no bounds; such drawables are treated as always visible
// by culling.
func (d *Drawable) AbsoluteAABB() (math3d.AABB, bool) {
	return d.Node.AbsoluteAABB()
}

// DrawableGroup is an ordered collection of drawables. Culling
// partitions the slice in place; group order is otherwise preserved
// only within the visible and invisible runs, not across them.
type DrawableGroup struct {
	drawables []*Drawable
}

// NewDrawableGroup returns an empty group.
func NewDrawableGroup() *DrawableGroup {
	return &DrawableGroup{}
}

// Add appends a drawable to the group and returns it.
func (g *DrawableGroup) Add(mesh *models.Mesh, node *Node) *Drawable {
	d := &Drawable{Mesh: mesh, Node: node}
	g.drawables = append(g.drawables, d)
	return d
}

// Remove deletes the first occurrence of d from the group.
func (g *DrawableGroup) Remove(d *Drawable) bool {
	for i, cur := range g.drawables {
		if cur == d {
			g.drawables = append(g.drawables[:i], g.drawables[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of drawables in the group.
func (g *DrawableGroup) Len() int { return len(g.drawables) }

// At returns the drawable at index i.
func (g *DrawableGroup) At(i int) *Drawable { return g.drawables[i] }

// Slice returns the group's backing slice. Callers may reorder it in
// place (culling does) but must not grow it.
func (g *DrawableGroup) Slice() []*Drawable { return g.drawables }
