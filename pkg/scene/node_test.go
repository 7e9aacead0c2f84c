package scene

import (
	"math"
	"testing"

	"github.com/taigrr/scenecull/pkg/math3d"
	"github.com/taigrr/scenecull/pkg/models"
)

const epsilon = 1e-6

func TestWorldTransformChain(t *testing.T) {
	root := NewNode()
	a := root.CreateChild()
	a.Translate(math3d.V3(1, 2, 3))
	b := a.CreateChild()
	b.Translate(math3d.V3(10, 0, 0))

	got := b.WorldTransform().Translation()
	want := math3d.V3(11, 2, 3)
	if !vecNear(got, want, epsilon) {
		t.Errorf("world translation = %v, want %v", got, want)
	}
}

func TestWorldTransformInvalidation(t *testing.T) {
	root := NewNode()
	a := root.CreateChild()
	b := a.CreateChild()
	b.Translate(math3d.V3(1, 0, 0))

	// Prime the cache, then move the ancestor.
	_ = b.WorldTransform()
	a.Translate(math3d.V3(0, 5, 0))

	got := b.WorldTransform().Translation()
	want := math3d.V3(1, 5, 0)
	if !vecNear(got, want, epsilon) {
		t.Errorf("world translation after ancestor move = %v, want %v", got, want)
	}
}

func TestAbsoluteAABBTranslationChain(t *testing.T) {
	root := NewNode()
	a := root.CreateChild()
	a.Translate(math3d.V3(0, -4, 0))
	b := a.CreateChild()
	b.Translate(math3d.V3(0, 0, 4))
	b.SetBounds(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))

	box, ok := b.AbsoluteAABB()
	if !ok {
		t.Fatal("expected bounds")
	}
	assertAABB(t, box, math3d.V3(-1, -5, 3), math3d.V3(1, -3, 5))
}

func TestAbsoluteAABBRotation(t *testing.T) {
	// A half-extent-1 cube rotated 45 degrees about z re-bounds to
	// half-extent sqrt(2) along x and y.
	root := NewNode()
	n := root.CreateChild()
	n.RotateAxis(math3d.V3(0, 0, 1), math.Pi/4)
	n.SetBounds(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))

	box, ok := n.AbsoluteAABB()
	if !ok {
		t.Fatal("expected bounds")
	}
	r := math.Sqrt2
	assertAABB(t, box, math3d.V3(-r, -r, -1), math3d.V3(r, r, 1))
}

func TestAbsoluteAABBAbsent(t *testing.T) {
	root := NewNode()
	empty := root.CreateChild()
	empty.Translate(math3d.V3(100, 0, 0))

	if _, ok := empty.AbsoluteAABB(); ok {
		t.Error("node without bounds should have no absolute AABB")
	}
	if _, ok := root.SubtreeAABB(); ok {
		t.Error("root of unbounded tree should have no subtree AABB")
	}
}

func TestAbsoluteAABBOwnBoxOnly(t *testing.T) {
	// A node's absolute AABB covers what the node itself draws; bounded
	// children widen only the subtree box.
	root := NewNode()
	parent := root.CreateChild()
	parent.SetBounds(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))
	child := parent.CreateChild()
	child.Translate(math3d.V3(0, -4, 0))
	child.SetBounds(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))

	box, ok := parent.AbsoluteAABB()
	if !ok {
		t.Fatal("expected bounds")
	}
	assertAABB(t, box, math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))

	sub, ok := parent.SubtreeAABB()
	if !ok {
		t.Fatal("expected subtree bounds")
	}
	assertAABB(t, sub, math3d.V3(-1, -5, -1), math3d.V3(1, 1, 1))
}

func TestSubtreeAABBChildContribution(t *testing.T) {
	// A boundless parent aggregates its children's boxes.
	root := NewNode()
	parent := root.CreateChild()
	left := parent.CreateChild()
	left.Translate(math3d.V3(-5, 0, 0))
	left.SetBounds(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))
	right := parent.CreateChild()
	right.Translate(math3d.V3(5, 0, 0))
	right.SetBounds(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))

	if _, ok := parent.AbsoluteAABB(); ok {
		t.Error("boundless parent should have no absolute AABB of its own")
	}
	box, ok := parent.SubtreeAABB()
	if !ok {
		t.Fatal("expected aggregated bounds")
	}
	assertAABB(t, box, math3d.V3(-6, -1, -1), math3d.V3(6, 1, 1))
}

func TestAbsoluteAABBCacheInvalidation(t *testing.T) {
	root := NewNode()
	a := root.CreateChild()
	n := a.CreateChild()
	n.SetBounds(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))

	box, _ := n.AbsoluteAABB()
	assertAABB(t, box, math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))

	// Ancestor move must invalidate the cached box.
	a.Translate(math3d.V3(0, 0, 10))
	box, _ = n.AbsoluteAABB()
	assertAABB(t, box, math3d.V3(-1, -1, 9), math3d.V3(1, 1, 11))

	// Bounds change must too.
	n.SetBounds(math3d.V3(-2, -2, -2), math3d.V3(2, 2, 2))
	box, _ = n.AbsoluteAABB()
	assertAABB(t, box, math3d.V3(-2, -2, 8), math3d.V3(2, 2, 12))

	// Clearing bounds empties the subtree.
	n.ClearBounds()
	if _, ok := root.SubtreeAABB(); ok {
		t.Error("cleared bounds should leave tree without a subtree AABB")
	}
}

func TestAbsoluteAABBIdempotent(t *testing.T) {
	root := NewNode()
	n := root.CreateChild()
	n.Translate(math3d.V3(3, 0, 0))
	n.SetBounds(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))

	first, ok1 := n.AbsoluteAABB()
	second, ok2 := n.AbsoluteAABB()
	if ok1 != ok2 || first != second {
		t.Errorf("repeated query changed result: %v/%v vs %v/%v", first, ok1, second, ok2)
	}
}

// buildFiveBoxScene constructs the five-cube benchmark scene: a unit
// cube at the origin, a chain of two translated cubes below it, and a
// rotated pair offset to the side. The returned graph's drawables are
// ordered box 0 through box 4.
func buildFiveBoxScene() *Graph {
	g := NewGraph()
	cube := models.NewCube(1.0)

	b0 := g.Root().CreateChild()
	attachCube(g, cube, b0)

	b1 := b0.CreateChild()
	b1.Translate(math3d.V3(0, -4, 0))
	attachCube(g, cube, b1)

	b2 := b1.CreateChild()
	b2.Translate(math3d.V3(0, 0, 4))
	attachCube(g, cube, b2)

	z := math3d.V3(0, 0, 1)

	b3t := b0.CreateChild()
	b3t.Translate(math3d.V3(-4, 0, 4))
	b3 := b3t.CreateChild()
	b3.RotateAxis(z, math.Pi/4)
	attachCube(g, cube, b3)

	b4t := b3t.CreateChild()
	b4t.Translate(math3d.V3(8, 0, 0))
	b4 := b4t.CreateChild()
	b4.RotateAxis(z, math.Pi/2)
	attachCube(g, cube, b4)

	return g
}

func attachCube(g *Graph, cube *models.Mesh, node *Node) {
	min, max := cube.GetBounds()
	node.SetBounds(min, max)
	g.Drawables().Add(cube, node)
}

func TestFiveBoxSceneAABBs(t *testing.T) {
	g := buildFiveBoxScene()

	r := math.Sqrt2
	want := []math3d.AABB{
		{Min: math3d.V3(-1, -1, -1), Max: math3d.V3(1, 1, 1)},
		{Min: math3d.V3(-1, -5, -1), Max: math3d.V3(1, -3, 1)},
		{Min: math3d.V3(-1, -5, 3), Max: math3d.V3(1, -3, 5)},
		{Min: math3d.V3(-4-r, -r, 3), Max: math3d.V3(-4+r, r, 5)},
		{Min: math3d.V3(3, -1, 3), Max: math3d.V3(5, 1, 5)},
	}

	if got := g.Drawables().Len(); got != len(want) {
		t.Fatalf("drawable count = %d, want %d", got, len(want))
	}
	for i := 0; i < g.Drawables().Len(); i++ {
		box, ok := g.Drawables().At(i).AbsoluteAABB()
		if !ok {
			t.Fatalf("box %d: no absolute AABB", i)
		}
		if !vecNear(box.Min, want[i].Min, epsilon) || !vecNear(box.Max, want[i].Max, epsilon) {
			t.Errorf("box %d = %v–%v, want %v–%v", i, box.Min, box.Max, want[i].Min, want[i].Max)
		}
	}
}

func TestGraphBounds(t *testing.T) {
	g := buildFiveBoxScene()
	box, ok := g.Bounds()
	if !ok {
		t.Fatal("expected scene bounds")
	}
	r := math.Sqrt2
	assertAABB(t, box, math3d.V3(-4-r, -5, -1), math3d.V3(5, r, 5))
}

func assertAABB(t *testing.T, got math3d.AABB, min, max math3d.Vec3) {
	t.Helper()
	if !vecNear(got.Min, min, epsilon) || !vecNear(got.Max, max, epsilon) {
		t.Errorf("AABB = %v–%v, want %v–%v", got.Min, got.Max, min, max)
	}
}

func vecNear(a, b math3d.Vec3, eps float64) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps && math.Abs(a.Z-b.Z) < eps
}
