package render

import (
	"fmt"
	"math"

	"github.com/taigrr/scenecull/pkg/math3d"
	"github.com/taigrr/scenecull/pkg/scene"
)

// Camera derives view and projection matrices for rendering and
// culling. Its pose lives on a scene node, so a camera can be parented
// anywhere in the hierarchy (an agent node, a vehicle, the root) and
// inherits transforms like any other node.
type Camera struct {
	node *scene.Node

	// Projection parameters
	width  int     // Viewport width in pixels
	height int     // Viewport height in pixels
	near   float64 // Near clipping plane distance
	far    float64 // Far clipping plane distance
	hfov   float64 // Horizontal field of view in degrees

	// Cached projection (view depends on the node and is not cached
	// here)
	projMatrix math3d.Mat4
	projDirty  bool

	lastVisible int
}

// NewCamera creates a camera posed by the given node, with a default
// projection. The node must not be nil.
func NewCamera(node *scene.Node) *Camera {
	return &Camera{
		node:      node,
		width:     800,
		height:    600,
		near:      0.1,
		far:       1000,
		hfov:      60,
		projDirty: true,
	}
}

// Node returns the node carrying the camera's pose. Move or rotate it
// to move the camera.
func (c *Camera) Node() *scene.Node { return c.node }

// SetProjection configures the perspective projection from viewport
// size in pixels, clip distances, and horizontal field of view in
// degrees. Degenerate inputs are rejected, never clamped.
func (c *Camera) SetProjection(width, height int, znear, zfar, hfov float64) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid viewport %dx%d: dimensions must be positive", width, height)
	}
	if znear <= 0 {
		return fmt.Errorf("invalid near plane %g: must be positive", znear)
	}
	if znear >= zfar {
		return fmt.Errorf("invalid clip planes near=%g far=%g: near must be less than far", znear, zfar)
	}
	if hfov <= 0 || hfov >= 180 {
		return fmt.Errorf("invalid field of view %g: must be in (0, 180) degrees", hfov)
	}

	c.width = width
	c.height = height
	c.near = znear
	c.far = zfar
	c.hfov = hfov
	c.projDirty = true
	return nil
}

// Width returns the viewport width in pixels.
func (c *Camera) Width() int { return c.width }

// Height returns the viewport height in pixels.
func (c *Camera) Height() int { return c.height }

// AspectRatio returns width over height.
func (c *Camera) AspectRatio() float64 {
	return float64(c.width) / float64(c.height)
}

// ViewMatrix returns the view matrix: the inverse of the camera node's
// world transform.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	return c.node.WorldTransform().Inverse()
}

// ProjectionMatrix returns the perspective projection matrix.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.projDirty {
		c.computeProjectionMatrix()
		c.projDirty = false
	}
	return c.projMatrix
}

// ViewProjectionMatrix returns the combined view-projection matrix.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	return c.ProjectionMatrix().Mul(c.ViewMatrix())
}

func (c *Camera) computeProjectionMatrix() {
	// The field of view is horizontal; derive the vertical angle from
	// the aspect ratio.
	aspect := c.AspectRatio()
	hfovRad := c.hfov * math.Pi / 180
	fovy := 2 * math.Atan(math.Tan(hfovRad/2)/aspect)
	c.projMatrix = math3d.Perspective(fovy, aspect, c.near, c.far)
}

// LookAt poses the camera node at eye, facing target. The node's local
// transform is replaced, so this is meant for cameras parented directly
// under the root.
func (c *Camera) LookAt(eye, target, up math3d.Vec3) {
	c.node.SetLocalTransform(math3d.LookAt(eye, target, up).Inverse())
}

// Position returns the camera's world position.
func (c *Camera) Position() math3d.Vec3 {
	return c.node.WorldTransform().Translation()
}

// PreviousNumVisibleDrawables returns the visible count from the most
// recent Cull or Draw call.
func (c *Camera) PreviousNumVisibleDrawables() int {
	return c.lastVisible
}

// WorldToScreen transforms a world point to screen coordinates.
// Returns (screenX, screenY, depth, visible).
func (c *Camera) WorldToScreen(worldPos math3d.Vec3, screenWidth, screenHeight int) (x, y, depth float64, visible bool) {
	// Transform to clip space
	clipPos := c.ViewProjectionMatrix().MulVec4(math3d.V4FromV3(worldPos, 1))

	// Check if behind camera
	if clipPos.W <= 0 {
		return 0, 0, 0, false
	}

	// Perspective divide to NDC (-1 to 1)
	ndc := clipPos.PerspectiveDivide()

	// Check if in view frustum
	if ndc.X < -1 || ndc.X > 1 || ndc.Y < -1 || ndc.Y > 1 || ndc.Z < -1 || ndc.Z > 1 {
		return 0, 0, 0, false
	}

	// Convert to screen coordinates
	x = (ndc.X + 1) * 0.5 * float64(screenWidth)
	y = (1 - ndc.Y) * 0.5 * float64(screenHeight) // Y is flipped
	depth = ndc.Z

	return x, y, depth, true
}
