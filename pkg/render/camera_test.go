package render

import (
	"math"
	"testing"

	"github.com/taigrr/scenecull/pkg/math3d"
	"github.com/taigrr/scenecull/pkg/scene"
)

func TestCameraLookAtPosition(t *testing.T) {
	root := scene.NewNode()
	cam := NewCamera(root.CreateChild())

	eye := math3d.V3(3, 4, 5)
	cam.LookAt(eye, math3d.Zero3(), math3d.V3(0, 1, 0))

	pos := cam.Position()
	if math.Abs(pos.X-eye.X) > 1e-9 || math.Abs(pos.Y-eye.Y) > 1e-9 || math.Abs(pos.Z-eye.Z) > 1e-9 {
		t.Errorf("Position() = %v, want %v", pos, eye)
	}
}

func TestViewMatrixInvertsWorldTransform(t *testing.T) {
	root := scene.NewNode()
	node := root.CreateChild()
	node.Translate(math3d.V3(2, -3, 7))
	node.RotateAxis(math3d.V3(0, 1, 0), 0.8)
	cam := NewCamera(node)

	product := cam.ViewMatrix().Mul(node.WorldTransform())
	identity := math3d.Identity()
	for row := range 4 {
		for col := range 4 {
			if math.Abs(product.Get(row, col)-identity.Get(row, col)) > 1e-9 {
				t.Fatalf("view * world differs from identity at (%d,%d): %v", row, col, product.Get(row, col))
			}
		}
	}
}

func TestViewMatrixFollowsParent(t *testing.T) {
	root := scene.NewNode()
	vehicle := root.CreateChild()
	cam := NewCamera(vehicle.CreateChild())

	before := cam.Position()
	vehicle.Translate(math3d.V3(10, 0, 0))
	after := cam.Position()

	if math.Abs(after.X-before.X-10) > 1e-9 {
		t.Errorf("camera did not inherit parent translation: before %v, after %v", before, after)
	}
}

func TestWorldToScreen(t *testing.T) {
	root := scene.NewNode()
	cam := NewCamera(root.CreateChild())
	cam.LookAt(math3d.V3(0, 0, 10), math3d.Zero3(), math3d.V3(0, 1, 0))
	if err := cam.SetProjection(800, 600, 0.1, 100, 60); err != nil {
		t.Fatal(err)
	}

	t.Run("center point", func(t *testing.T) {
		x, y, _, visible := cam.WorldToScreen(math3d.Zero3(), 800, 600)
		if !visible {
			t.Fatal("point on the view axis should be visible")
		}
		if math.Abs(x-400) > 1 || math.Abs(y-300) > 1 {
			t.Errorf("screen position = (%v, %v), want close to (400, 300)", x, y)
		}
	})

	t.Run("behind camera", func(t *testing.T) {
		if _, _, _, visible := cam.WorldToScreen(math3d.V3(0, 0, 20), 800, 600); visible {
			t.Error("point behind the camera should not be visible")
		}
	})

	t.Run("outside frustum", func(t *testing.T) {
		if _, _, _, visible := cam.WorldToScreen(math3d.V3(1000, 0, 0), 800, 600); visible {
			t.Error("point far off axis should not be visible")
		}
	})

	t.Run("depth ordering", func(t *testing.T) {
		_, _, near, ok1 := cam.WorldToScreen(math3d.V3(0, 0, 5), 800, 600)
		_, _, far, ok2 := cam.WorldToScreen(math3d.V3(0, 0, -5), 800, 600)
		if !ok1 || !ok2 {
			t.Fatal("both probe points should be visible")
		}
		if near >= far {
			t.Errorf("nearer point should have smaller depth: near=%v far=%v", near, far)
		}
	})
}

func TestProjectionMatrixCaching(t *testing.T) {
	root := scene.NewNode()
	cam := NewCamera(root.CreateChild())
	if err := cam.SetProjection(640, 480, 0.5, 200, 45); err != nil {
		t.Fatal(err)
	}

	first := cam.ProjectionMatrix()
	second := cam.ProjectionMatrix()
	if first != second {
		t.Error("repeated ProjectionMatrix calls should return the same matrix")
	}

	if err := cam.SetProjection(640, 480, 0.5, 200, 90); err != nil {
		t.Fatal(err)
	}
	if cam.ProjectionMatrix() == first {
		t.Error("changing the field of view should change the projection matrix")
	}
}
