package render

import (
	"github.com/taigrr/scenecull/pkg/math3d"
	"github.com/taigrr/scenecull/pkg/scene"
)

// Candidate pairs a drawable with the world transform it will be drawn
// with this frame.
type Candidate struct {
	Drawable  *scene.Drawable
	Transform math3d.Mat4
}

// DrawableTransforms builds a fresh candidate list from the group's
// current drawables and their current world transforms. The list has
// frame lifetime; rebuild it after any scene mutation.
func DrawableTransforms(group *scene.DrawableGroup) []Candidate {
	out := make([]Candidate, 0, group.Len())
	for i := 0; i < group.Len(); i++ {
		d := group.At(i)
		out = append(out, Candidate{
			Drawable:  d,
			Transform: d.Node.WorldTransform(),
		})
	}
	return out
}

// Cull partitions candidates in place so every visible candidate
// precedes every invisible one, and returns the visible count. A
// candidate is visible when its node's world-space AABB intersects the
// view frustum; candidates without bounds are kept visible. Only set
// membership of the two partitions is guaranteed, not their order.
func (c *Camera) Cull(candidates []Candidate) int {
	frustum := c.GetFrustum()

	i, j := 0, len(candidates)
	for i < j {
		box, ok := candidates[i].Drawable.AbsoluteAABB()
		if !ok || frustum.IntersectAABB(box) {
			i++
			continue
		}
		j--
		candidates[i], candidates[j] = candidates[j], candidates[i]
	}

	c.lastVisible = i
	return i
}

// DrawFunc renders a single candidate.
type DrawFunc func(Candidate)

// Draw dispatches one draw call per visible candidate and returns the
// number drawn. With frustumCulling disabled every candidate is drawn.
func (c *Camera) Draw(group *scene.DrawableGroup, frustumCulling bool, draw DrawFunc) int {
	candidates := DrawableTransforms(group)

	n := len(candidates)
	if frustumCulling {
		n = c.Cull(candidates)
	}

	for _, cand := range candidates[:n] {
		draw(cand)
	}

	c.lastVisible = n
	return n
}
