// Package scene provides a transform-node hierarchy with cached world
// transforms and world-space bounding boxes, plus drawable bookkeeping
// for rendering and culling.
package scene

import (
	"github.com/taigrr/scenecull/pkg/math3d"
)

// Node is a transform node in a scene hierarchy. Each node carries a
// local transform relative to its parent; world transforms and
// world-space bounding boxes are computed lazily and cached until a
// transform or bounds change invalidates them.
type Node struct {
	parent   *Node
	children []*Node

	local math3d.Mat4

	// Optional local-space bounds. A node with no bounds contributes
	// nothing of its own to world-space boxes.
	hasBounds bool
	bounds    math3d.AABB

	worldValid bool
	world      math3d.Mat4

	aabbValid bool
	aabbOK    bool
	aabb      math3d.AABB
}

// NewNode returns a root node with an identity local transform.
func NewNode() *Node {
	return &Node{local: math3d.Identity()}
}

// CreateChild creates a new child node with an identity local transform
// and attaches it to n.
func (n *Node) CreateChild() *Node {
	c := &Node{parent: n, local: math3d.Identity()}
	n.children = append(n.children, c)
	return c
}

// Parent returns the node's parent, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the node's direct children.
func (n *Node) Children() []*Node { return n.children }

// LocalTransform returns the node's transform relative to its parent.
func (n *Node) LocalTransform() math3d.Mat4 { return n.local }

// SetLocalTransform replaces the node's local transform.
func (n *Node) SetLocalTransform(m math3d.Mat4) {
	n.local = m
	n.invalidateTransform()
}

// Translate composes a translation into the node's local transform.
func (n *Node) Translate(v math3d.Vec3) {
	n.local = n.local.Mul(math3d.Translate(v))
	n.invalidateTransform()
}

// RotateAxis composes a rotation of angle radians about the given axis
// into the node's local transform. The axis need not be normalized.
func (n *Node) RotateAxis(axis math3d.Vec3, angle float64) {
	n.local = n.local.Mul(math3d.Rotate(axis, angle))
	n.invalidateTransform()
}

// Scale composes a non-uniform scale into the node's local transform.
func (n *Node) Scale(v math3d.Vec3) {
	n.local = n.local.Mul(math3d.Scale(v))
	n.invalidateTransform()
}

// WorldTransform returns the node's transform relative to the scene
// root, computed as the product of local transforms along the parent
// chain. The result is cached until a transform on the chain changes.
func (n *Node) WorldTransform() math3d.Mat4 {
	if n.worldValid {
		return n.world
	}
	if n.parent == nil {
		n.world = n.local
	} else {
		n.world = n.parent.WorldTransform().Mul(n.local)
	}
	n.worldValid = true
	return n.world
}

// SetBounds attaches a local-space axis-aligned box to the node.
func (n *Node) SetBounds(min, max math3d.Vec3) {
	n.hasBounds = true
	n.bounds = math3d.NewAABB(min, max)
	n.invalidateBounds()
}

// ClearBounds detaches the node's local-space box, if any.
func (n *Node) ClearBounds() {
	n.hasBounds = false
	n.invalidateBounds()
}

// HasBounds reports whether the node carries local-space bounds.
func (n *Node) HasBounds() bool { return n.hasBounds }

// AbsoluteAABB returns the world-space axis-aligned box of the node's
// own bounds: the local box's 8 corners through the world transform,
// re-bounded. Descendants do not contribute; a node is culled by what
// it draws, not by what hangs below it. ok is false when the node
// carries no bounds — the returned box is meaningless in that case.
// The result is cached until a transform on the parent chain or the
// node's bounds change.
func (n *Node) AbsoluteAABB() (aabb math3d.AABB, ok bool) {
	if n.aabbValid {
		return n.aabb, n.aabbOK
	}
	if n.hasBounds {
		n.aabb = n.bounds.Transform(n.WorldTransform())
		n.aabbOK = true
	} else {
		n.aabb = math3d.AABB{}
		n.aabbOK = false
	}
	n.aabbValid = true
	return n.aabb, n.aabbOK
}

// SubtreeAABB returns the world-space box enclosing the node's own
// bounds and those of all its descendants. ok is false when neither
// the node nor any descendant carries bounds — absence, never a zero
// box at the origin.
func (n *Node) SubtreeAABB() (math3d.AABB, bool) {
	out, any := n.AbsoluteAABB()
	for _, c := range n.children {
		box, ok := c.SubtreeAABB()
		if !ok {
			continue
		}
		if !any {
			out = box
			any = true
		} else {
			out = out.Union(box)
		}
	}
	return out, any
}

// invalidateTransform drops cached world transforms and boxes for the
// whole subtree (every descendant's world pose includes this node's
// local transform).
func (n *Node) invalidateTransform() {
	n.worldValid = false
	n.aabbValid = false
	for _, c := range n.children {
		c.invalidateTransform()
	}
}

// invalidateBounds drops the node's cached box. World transforms are
// unaffected.
func (n *Node) invalidateBounds() {
	n.aabbValid = false
}
