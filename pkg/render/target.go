package render

import (
	"math"
)

// RenderTarget couples a color framebuffer with a depth buffer and a
// coverage counter. The counter tracks how many samples (pixels) passed
// the depth test since the last RenderEnter, which lets callers verify
// whether anything was actually drawn.
type RenderTarget struct {
	fb            *Framebuffer
	depth         []float64
	samplesPassed int

	// Background is the clear color used by RenderEnter.
	Background Color
}

// NewRenderTarget creates a render target with the given dimensions.
func NewRenderTarget(width, height int) *RenderTarget {
	t := &RenderTarget{
		fb:         NewFramebuffer(width, height),
		depth:      make([]float64, width*height),
		Background: ColorBlack,
	}
	t.ClearDepth()
	return t
}

// Framebuffer returns the target's color buffer.
func (t *RenderTarget) Framebuffer() *Framebuffer { return t.fb }

// Width returns the target width in pixels.
func (t *RenderTarget) Width() int { return t.fb.Width }

// Height returns the target height in pixels.
func (t *RenderTarget) Height() int { return t.fb.Height }

// RenderEnter prepares the target for a new frame: clears color and
// depth and resets the coverage counter.
func (t *RenderTarget) RenderEnter() {
	t.fb.Clear(t.Background)
	t.ClearDepth()
	t.samplesPassed = 0
}

// RenderExit completes the frame. Present the result via Framebuffer.
func (t *RenderTarget) RenderExit() {}

// SamplesPassed returns the number of pixels written since the last
// RenderEnter.
func (t *RenderTarget) SamplesPassed() int { return t.samplesPassed }

// AnySamplesPassed reports whether any pixel was written since the last
// RenderEnter.
func (t *RenderTarget) AnySamplesPassed() bool { return t.samplesPassed > 0 }

// ClearDepth clears the depth buffer.
func (t *RenderTarget) ClearDepth() {
	// Use copy-doubling for faster clearing
	n := len(t.depth)
	if n == 0 {
		return
	}
	t.depth[0] = math.MaxFloat64
	for i := 1; i < n; i *= 2 {
		copy(t.depth[i:], t.depth[:i])
	}
}

// depthAt returns the depth at (x, y).
func (t *RenderTarget) depthAt(x, y int) float64 {
	if x < 0 || x >= t.fb.Width || y < 0 || y >= t.fb.Height {
		return math.MaxFloat64
	}
	return t.depth[y*t.fb.Width+x]
}

// plot writes a depth-tested pixel and counts the covered sample.
// Returns false if the pixel failed the depth test or was out of
// bounds.
func (t *RenderTarget) plot(x, y int, z float64, c Color) bool {
	if x < 0 || x >= t.fb.Width || y < 0 || y >= t.fb.Height {
		return false
	}
	if z >= t.depth[y*t.fb.Width+x] {
		return false
	}
	t.depth[y*t.fb.Width+x] = z
	t.fb.SetPixel(x, y, c)
	t.samplesPassed++
	return true
}
