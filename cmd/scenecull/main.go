// scenecull - Terminal Scene Viewer
// Orbit a glTF scene (or the built-in demo) in your terminal, with
// hierarchical frustum culling.
//
// Controls:
//
//	Mouse drag  - Orbit camera (yaw/pitch)
//	Scroll      - Zoom in/out
//	W/S         - Pitch up/down
//	A/D         - Yaw left/right
//	+/-         - Adjust zoom
//	Space       - Apply random orbit impulse
//	R           - Reset camera
//	C           - Toggle frustum culling
//	B           - Toggle bounding box overlay
//	X           - Toggle wireframe mode
//	P           - Pause/resume scene animation
//	?           - Toggle HUD overlay (FPS, visible/total drawables)
//	Esc         - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/scenecull/pkg/math3d"
	"github.com/taigrr/scenecull/pkg/models"
	"github.com/taigrr/scenecull/pkg/render"
	"github.com/taigrr/scenecull/pkg/scene"
)

var (
	targetFPS = flag.Int("fps", 60, "Target FPS")
	bgColor   = flag.String("bg", "30,30,40", "Background color (R,G,B)")
	hfov      = flag.Float64("fov", 60, "Horizontal field of view in degrees")
	noCull    = flag.Bool("no-cull", false, "Start with frustum culling disabled")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "scenecull - Terminal Scene Viewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: scenecull [options] [scene.glb]\n\n")
		fmt.Fprintf(os.Stderr, "With no scene file a built-in demo scene is shown.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  Mouse drag  - Orbit camera\n")
		fmt.Fprintf(os.Stderr, "  Scroll      - Zoom in/out\n")
		fmt.Fprintf(os.Stderr, "  W/S/A/D     - Pitch and yaw\n")
		fmt.Fprintf(os.Stderr, "  Space       - Random orbit impulse\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset camera\n")
		fmt.Fprintf(os.Stderr, "  C           - Toggle frustum culling\n")
		fmt.Fprintf(os.Stderr, "  B           - Toggle bounding boxes\n")
		fmt.Fprintf(os.Stderr, "  X           - Toggle wireframe\n")
		fmt.Fprintf(os.Stderr, "  P           - Pause animation\n")
		fmt.Fprintf(os.Stderr, "  ?           - Toggle HUD overlay\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	flag.Parse()

	scenePath := ""
	if flag.NArg() > 0 {
		scenePath = flag.Arg(0)
	}

	if err := run(scenePath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// OrbitAxis tracks position and velocity for one orbit axis with spring decay
type OrbitAxis struct {
	Position  float64
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64 // internal spring velocity (for animating Velocity toward 0)
}

// NewOrbitAxis creates an axis with harmonica spring for smooth velocity decay
func NewOrbitAxis(fps int, start float64) OrbitAxis {
	return OrbitAxis{
		Position: start,
		// Frequency 4.0 = moderate speed, damping 1.0 = critically damped (no overshoot)
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update applies velocity to position and decays velocity toward 0 using spring
func (a *OrbitAxis) Update() {
	a.Position += a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
}

// OrbitState holds the camera orbit with harmonica spring physics
type OrbitState struct {
	Yaw, Pitch OrbitAxis
	Distance   float64
	fps        int
}

func NewOrbitState(fps int, distance float64) *OrbitState {
	return &OrbitState{
		Yaw:      NewOrbitAxis(fps, math.Pi/4),
		Pitch:    NewOrbitAxis(fps, 0.4),
		Distance: distance,
		fps:      fps,
	}
}

func (o *OrbitState) Update() {
	o.Yaw.Update()
	o.Pitch.Update()
	// Clamp pitch so the camera never flips over the pole
	const limit = math.Pi/2 - 0.05
	if o.Pitch.Position > limit {
		o.Pitch.Position = limit
		o.Pitch.Velocity = 0
	}
	if o.Pitch.Position < -limit {
		o.Pitch.Position = -limit
		o.Pitch.Velocity = 0
	}
}

func (o *OrbitState) ApplyImpulse(yaw, pitch float64) {
	o.Yaw.Velocity += yaw
	o.Pitch.Velocity += pitch
}

func (o *OrbitState) Reset(distance float64) {
	o.Yaw = NewOrbitAxis(o.fps, math.Pi/4)
	o.Pitch = NewOrbitAxis(o.fps, 0.4)
	o.Distance = distance
}

// Eye returns the camera position orbiting the given center.
func (o *OrbitState) Eye(center math3d.Vec3) math3d.Vec3 {
	cy, sy := math.Cos(o.Yaw.Position), math.Sin(o.Yaw.Position)
	cp, sp := math.Cos(o.Pitch.Position), math.Sin(o.Pitch.Position)
	return center.Add(math3d.V3(
		o.Distance*cp*sy,
		o.Distance*sp,
		o.Distance*cp*cy,
	))
}

// ViewState holds all view-related settings (UI state, not library code)
type ViewState struct {
	Culling   bool // Whether frustum culling is enabled
	ShowBoxes bool // Whether to overlay world-space bounding boxes
	Wireframe bool // Whether to draw meshes as wireframes
	Animate   bool // Whether the scene animates
	ShowHUD   bool // Whether to show the HUD overlay
	LightDir  math3d.Vec3
}

// NewViewState creates default view state
func NewViewState(culling bool) *ViewState {
	return &ViewState{
		Culling:  culling,
		Animate:  true,
		ShowHUD:  true,
		LightDir: math3d.V3(0.5, 1, 0.3).Normalize(),
	}
}

// HUD renders an overlay with scene info and culling stats
type HUD struct {
	filename  string
	total     int
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

// NewHUD creates a new HUD
func NewHUD(filename string, total int) *HUD {
	return &HUD{
		filename: filename,
		total:    total,
		fpsTime:  time.Now(),
	}
}

// UpdateFPS updates the FPS counter (call once per frame)
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// Render draws the HUD overlay directly to the terminal
func (h *HUD) Render(width, height, visible int, viewState *ViewState) {
	// ANSI escape codes for positioning and styling
	const (
		reset     = "\x1b[0m"
		bold      = "\x1b[1m"
		bgBlack   = "\x1b[40m"
		fgWhite   = "\x1b[97m"
		fgGreen   = "\x1b[92m"
		fgCyan    = "\x1b[96m"
		clearLine = "\x1b[2K"
	)

	// Helper to position cursor
	moveTo := func(row, col int) string {
		return fmt.Sprintf("\x1b[%d;%dH", row, col)
	}

	// Always clear the HUD rows (so toggling off works)
	fmt.Print(moveTo(1, 1) + clearLine)
	fmt.Print(moveTo(height, 1) + clearLine)

	if !viewState.ShowHUD {
		return
	}

	// Top left: FPS
	fmt.Printf("%s%s%s %.0f FPS %s", moveTo(1, 1), bgBlack, fgGreen, h.fps, reset)

	// Top middle: filename
	titleCol := max((width-len(h.filename)-2)/2, 1)
	fmt.Printf("%s%s%s%s %s %s", moveTo(1, titleCol), bold, bgBlack, fgWhite, h.filename, reset)

	// Top right: culling stats
	stats := fmt.Sprintf("%d/%d drawn", visible, h.total)
	statsCol := max(width-len(stats)-3, 1)
	fmt.Printf("%s%s%s%s %s %s", moveTo(1, statsCol), bgBlack, fgCyan, bold, stats, reset)

	// Bottom: mode checkboxes
	checkCull := "[ ]"
	if viewState.Culling {
		checkCull = "[✓]"
	}
	checkBoxes := "[ ]"
	if viewState.ShowBoxes {
		checkBoxes = "[✓]"
	}
	checkWire := "[ ]"
	if viewState.Wireframe {
		checkWire = "[✓]"
	}
	fmt.Printf("%s%s%s %s Culling  %s Boxes  %s Wireframe %s",
		moveTo(height, 1), bgBlack, fgWhite, checkCull, checkBoxes, checkWire, reset)
}

// demoScene builds a hierarchy of cube clusters around a slowly spinning
// hub, so a good share of the scene sits outside the frustum at any
// orbit angle.
func demoScene() (*scene.Graph, *scene.Node) {
	g := scene.NewGraph()
	hub := g.Root().CreateChild()

	const arms = 8
	for i := range arms {
		arm := hub.CreateChild()
		arm.RotateAxis(math3d.V3(0, 1, 0), float64(i)*2*math.Pi/arms)

		for j := 1; j <= 4; j++ {
			pod := arm.CreateChild()
			pod.Translate(math3d.V3(float64(j)*4, math.Sin(float64(i+j))*2, 0))

			cube := models.NewCube(0.5 + 0.2*float64(j%3))
			_, node := g.AddMesh(cube, pod)
			node.RotateAxis(math3d.V3(0, 0, 1), float64(i*j)*0.3)
		}
	}
	return g, hub
}

func run(scenePath string) error {
	// Parse background color
	var bgR, bgG, bgB uint8 = 30, 30, 40
	fmt.Sscanf(*bgColor, "%d,%d,%d", &bgR, &bgG, &bgB)

	// Load or build the scene
	var (
		graph *scene.Graph
		hub   *scene.Node
		title string
		err   error
	)
	if scenePath == "" {
		graph, hub = demoScene()
		title = "demo scene"
	} else {
		ext := strings.ToLower(filepath.Ext(scenePath))
		if ext != ".glb" && ext != ".gltf" {
			return fmt.Errorf("unsupported format: %s (use .glb or .gltf)", ext)
		}
		graph, err = scene.LoadGLB(scenePath)
		if err != nil {
			return fmt.Errorf("load scene: %w", err)
		}
		title = filepath.Base(scenePath)
	}
	if graph.Drawables().Len() == 0 {
		return fmt.Errorf("scene has no drawable meshes")
	}

	// Frame the scene
	center := math3d.Zero3()
	distance := 10.0
	if box, ok := graph.Bounds(); ok {
		center = box.Center()
		size := box.Size()
		distance = math.Max(size.X, math.Max(size.Y, size.Z)) * 1.2
		if distance < 4 {
			distance = 4
		}
	}

	// Create terminal
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Enable mouse mode
	fmt.Fprint(os.Stdout, "\x1b[?1003h") // Enable any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // Enable SGR extended mouse mode

	// Create renderer
	termRenderer := render.NewTerminalRenderer(term, width, height)
	fbWidth, fbHeight := termRenderer.FramebufferSize()
	target := render.NewRenderTarget(fbWidth, fbHeight)
	target.Background = render.RGB(bgR, bgG, bgB)

	// Create camera on its own node so it lives in the same hierarchy
	camera := render.NewCamera(graph.Root().CreateChild())
	if err := camera.SetProjection(fbWidth, fbHeight, 0.1, 500, *hfov); err != nil {
		cleanupTerminal(term)
		return fmt.Errorf("projection: %w", err)
	}

	rasterizer := render.NewRasterizer(camera, target)
	wire := render.NewWireframe(camera, target.Framebuffer())

	// Initialize orbit and view state
	orbit := NewOrbitState(*targetFPS, distance)
	viewState := NewViewState(!*noCull)
	hud := NewHUD(title, graph.Drawables().Len())

	// Context for clean shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Input state
	inputTorque := struct{ yaw, pitch float64 }{}
	const torqueStrength = 3.0

	// Mouse state
	var mouseDown bool
	var lastMouseX, lastMouseY int

	// Event handler
	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				width, height = ev.Width, ev.Height
				term.Erase()
				term.Resize(width, height)
				termRenderer = render.NewTerminalRenderer(term, width, height)
				fbWidth, fbHeight = termRenderer.FramebufferSize()
				target = render.NewRenderTarget(fbWidth, fbHeight)
				target.Background = render.RGB(bgR, bgG, bgB)
				rasterizer = render.NewRasterizer(camera, target)
				wire = render.NewWireframe(camera, target.Framebuffer())
				camera.SetProjection(fbWidth, fbHeight, 0.1, 500, *hfov)

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape"), ev.MatchString("ctrl+c"):
					cancel()
					return
				case ev.MatchString("r"):
					orbit.Reset(distance)
				case ev.MatchString("w", "up"):
					inputTorque.pitch = torqueStrength
				case ev.MatchString("s", "down"):
					inputTorque.pitch = -torqueStrength
				case ev.MatchString("a", "left"):
					inputTorque.yaw = -torqueStrength
				case ev.MatchString("d", "right"):
					inputTorque.yaw = torqueStrength
				case ev.MatchString("space"):
					orbit.ApplyImpulse(
						(rand.Float64()-0.5)*1.5,
						(rand.Float64()-0.5)*0.8,
					)
				case ev.MatchString("+", "="):
					orbit.Distance = math.Max(2, orbit.Distance-1)
				case ev.MatchString("-", "_"):
					orbit.Distance = math.Min(distance*4, orbit.Distance+1)
				case ev.MatchString("c"):
					viewState.Culling = !viewState.Culling
				case ev.MatchString("b"):
					viewState.ShowBoxes = !viewState.ShowBoxes
				case ev.MatchString("x"):
					viewState.Wireframe = !viewState.Wireframe
				case ev.MatchString("p"):
					viewState.Animate = !viewState.Animate
				case ev.MatchString("?"), ev.MatchString("shift+/"):
					viewState.ShowHUD = !viewState.ShowHUD
				}

			case uv.KeyReleaseEvent:
				switch {
				case ev.MatchString("w"), ev.MatchString("up"), ev.MatchString("s"), ev.MatchString("down"):
					inputTorque.pitch = 0
				case ev.MatchString("a"), ev.MatchString("left"), ev.MatchString("d"), ev.MatchString("right"):
					inputTorque.yaw = 0
				}

			case uv.MouseClickEvent:
				mouseDown = true
				lastMouseX, lastMouseY = ev.X, ev.Y

			case uv.MouseReleaseEvent:
				mouseDown = false

			case uv.MouseMotionEvent:
				if mouseDown {
					dx := ev.X - lastMouseX
					dy := ev.Y - lastMouseY
					orbit.ApplyImpulse(float64(dx)*0.03, -float64(dy)*0.03)
					lastMouseX, lastMouseY = ev.X, ev.Y
				}

			case uv.MouseWheelEvent:
				switch ev.Button {
				case uv.MouseWheelUp:
					orbit.Distance = math.Max(2, orbit.Distance-1)
				case uv.MouseWheelDown:
					orbit.Distance = math.Min(distance*4, orbit.Distance+1)
				}
			}
		}
	}()

	// Main loop
	targetDuration := time.Second / time.Duration(*targetFPS)
	lastFrame := time.Now()

	for {
		select {
		case <-ctx.Done():
			cleanupTerminal(term)
			return nil
		default:
		}

		now := time.Now()
		dt := now.Sub(lastFrame).Seconds()
		lastFrame = now

		if dt > 0.1 {
			dt = 0.1
		}

		// Apply input torque and decay it (key release events unreliable)
		orbit.ApplyImpulse(inputTorque.yaw*dt, inputTorque.pitch*dt)
		inputTorque.yaw *= 0.9
		inputTorque.pitch *= 0.9

		// Update springs (harmonica handles timing internally)
		orbit.Update()

		// Animate the scene hierarchy
		if hub != nil && viewState.Animate {
			hub.RotateAxis(math3d.V3(0, 1, 0), dt*0.4)
		}

		// Pose the camera
		camera.LookAt(orbit.Eye(center), center, math3d.V3(0, 1, 0))
		rasterizer.InvalidateFrustum()

		// Render
		target.RenderEnter()

		visible := camera.Draw(graph.Drawables(), viewState.Culling, func(c render.Candidate) {
			if viewState.Wireframe {
				rasterizer.DrawMeshWireframe(c.Drawable.Mesh, c.Transform, render.RGB(0, 255, 128))
			} else {
				rasterizer.DrawMeshGouraud(c.Drawable.Mesh, c.Transform, render.RGB(200, 200, 200), viewState.LightDir)
			}
		})

		if viewState.ShowBoxes {
			group := graph.Drawables()
			for i := 0; i < group.Len(); i++ {
				box, ok := group.At(i).AbsoluteAABB()
				if !ok {
					continue
				}
				boxColor := render.RGB(0, 200, 0)
				if !rasterizer.IsVisible(box) {
					boxColor = render.RGB(200, 40, 40)
				}
				wire.DrawAABB(box, boxColor)
			}
		}

		target.RenderExit()

		// Display
		termRenderer.Render(target.Framebuffer())
		if err := termRenderer.Flush(); err != nil {
			cleanupTerminal(term)
			return fmt.Errorf("flush: %w", err)
		}

		// HUD overlay (always update FPS, render clears lines when HUD off)
		hud.UpdateFPS()
		hud.Render(width, height, visible, viewState)

		// Frame timing
		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}

func cleanupTerminal(term *uv.Terminal) {
	fmt.Fprint(os.Stdout, "\x1b[?1003l")
	fmt.Fprint(os.Stdout, "\x1b[?1006l")
	term.ExitAltScreen()
	term.ShowCursor()
	term.Shutdown(context.Background())
}
