// Package gui is the windowed viewer: the body's edges drawn in 3D, shaded
// by the scene lights, under an orbiting camera.
package gui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/elastisim/internal/export"
	"github.com/san-kum/elastisim/internal/mesh"
	"github.com/san-kum/elastisim/internal/scene"
	"github.com/san-kum/elastisim/internal/viewer"
	"github.com/san-kum/elastisim/internal/viz"
)

const (
	screenWidth  = 1280
	screenHeight = 720
	fontPath     = "/usr/share/fonts/liberation/LiberationMono-Regular.ttf"
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColGrid    = rl.NewColor(30, 30, 30, 255)
)

type App struct {
	sim      viewer.Simulation
	settings viewer.Settings
	orbit    *viz.Camera
	log      *log.Logger

	camera  rl.Camera3D
	font    rl.Font
	running bool
	frames  int
}

func New(sim viewer.Simulation, logger *log.Logger) viewer.Viewer {
	return &App{
		sim:     sim,
		orbit:   viz.NewCamera(1),
		log:     logger,
		running: true,
	}
}

func (a *App) Settings() *viewer.Settings { return &a.settings }
func (a *App) SetZoom(z float64)           { a.orbit.Zoom = z }
func (a *App) Zoom() float64               { return a.orbit.Zoom }

func initWindow() {
	rl.InitWindow(screenWidth, screenHeight, "bunnyexpand")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

// loadFont uses Liberation Mono when installed and the raylib default otherwise.
func loadFont() rl.Font {
	if _, err := os.Stat(fontPath); err != nil {
		return rl.GetFontDefault()
	}
	font := rl.LoadFontEx(fontPath, 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// Display opens the window and runs one simulation step per frame until
// the window is closed, Q is pressed, or ctx is cancelled.
func (a *App) Display(ctx context.Context) error {
	initWindow()
	defer rl.CloseWindow()
	a.font = loadFont()
	a.camera = rl.NewCamera3D(
		rl.NewVector3(0, 0, float32(a.orbit.Zoom)),
		rl.NewVector3(0, 0, 0),
		rl.NewVector3(0, 1, 0),
		45.0,
		rl.CameraPerspective,
	)
	a.log.Info("window opened", "zoom", a.orbit.Zoom, "gamma", a.settings.GammaCorrection, "save_frames", a.settings.SaveFrames)

	for !rl.WindowShouldClose() && ctx.Err() == nil {
		if rl.IsKeyPressed(rl.KeyQ) {
			break
		}
		a.handleInput()
		if a.running {
			if err := a.sim.Step(ctx); err != nil {
				if ctx.Err() != nil {
					break
				}
				return err
			}
			a.frames++
		}
		a.Draw()
		if a.running && a.settings.SaveFrames {
			if err := a.saveFrame(); err != nil {
				return err
			}
		}
	}

	a.log.Info("window closed", "frames", a.frames, "time", a.sim.Time())
	return nil
}

func (a *App) handleInput() {
	if rl.IsKeyPressed(rl.KeySpace) {
		a.running = !a.running
	}
	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		delta := rl.GetMouseDelta()
		a.orbit.Orbit(float64(-delta.X)*0.01, float64(delta.Y)*0.01)
	}
	if rl.IsKeyDown(rl.KeyA) {
		a.orbit.Orbit(-0.03, 0)
	}
	if rl.IsKeyDown(rl.KeyD) {
		a.orbit.Orbit(0.03, 0)
	}
	if rl.IsKeyDown(rl.KeyW) {
		a.orbit.Orbit(0, 0.03)
	}
	if rl.IsKeyDown(rl.KeyS) {
		a.orbit.Orbit(0, -0.03)
	}
	if wheel := rl.GetMouseWheelMove(); wheel > 0 {
		a.orbit.ZoomIn()
	} else if wheel < 0 {
		a.orbit.ZoomOut()
	}

	eye := a.orbit.Eye()
	a.camera.Position = vec3(eye)
	a.camera.Target = vec3(a.orbit.Target)
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	rl.BeginMode3D(a.camera)
	a.drawGrid(20, 0.5)
	a.drawBody(a.sim.Scene())
	rl.EndMode3D()

	a.drawHUD()
	rl.EndDrawing()
}

func (a *App) drawBody(sc *scene.Scene) {
	m := sc.Mesh
	if a.settings.SubdivideMeshes {
		m = m.Subdivide()
	}
	normals := m.VertexNormals()
	shade := func(i int) mesh.Vec3 {
		c := sc.Shade(m.Vertex(i), normals[i])
		if a.settings.GammaCorrection {
			c = scene.GammaEncode(c)
		}
		return c
	}

	for _, e := range m.Edges() {
		rl.DrawLine3D(vec3(m.Vertex(e.A)), vec3(m.Vertex(e.B)), blend(shade(e.A), shade(e.B)))
	}
	for _, l := range sc.Lights {
		rl.DrawSphere(vec3(l.Position), 0.05, ColTextDim)
	}
}

func (a *App) drawGrid(slices int, spacing float32) {
	half := float32(slices) * spacing / 2
	y := float32(-a.orbit.Zoom / 2)
	for i := 0; i <= slices; i++ {
		pos := -half + float32(i)*spacing
		rl.DrawLine3D(rl.NewVector3(pos, y, -half), rl.NewVector3(pos, y, half), ColGrid)
		rl.DrawLine3D(rl.NewVector3(-half, y, pos), rl.NewVector3(half, y, pos), ColGrid)
	}
}

func (a *App) drawHUD() {
	sc := a.sim.Scene()
	a.drawText("bunnyexpand", 30, 30, 24, ColSelect)
	a.drawText(fmt.Sprintf(":: %s", sc.Name), 210, 34, 16, ColText)

	status := "RUNNING"
	col := ColSelect
	if !a.running {
		status = "PAUSED"
		col = ColTextDim
	}
	a.drawText(status, 1150, 30, 16, col)

	a.drawText(fmt.Sprintf("t %.2fs", a.sim.Time()), 30, 70, 14, ColAccent)
	a.drawText(fmt.Sprintf("energy %.4f", a.sim.Energy()), 30, 90, 14, ColAccent)
	a.drawText(fmt.Sprintf("radius %.3f", sc.Radius), 30, 110, 14, ColAccent)
	if a.settings.SaveFrames {
		a.drawText(fmt.Sprintf("REC %s", a.settings.FramesDir()), 30, 130, 14, rl.Red)
	}

	a.drawText("[SPACE] PAUSE  [DRAG/WASD] ORBIT  [WHEEL] ZOOM  [Q] QUIT", 700, 680, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), 30, 680, 14, ColTextDim)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

func (a *App) saveFrame() error {
	dir := a.settings.FramesDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	path := filepath.Join(dir, export.FrameName(a.frames, "png"))
	img := rl.LoadImageFromScreen()
	defer rl.UnloadImage(img)
	if !rl.ExportImage(*img, path) {
		return fmt.Errorf("save frame %s", path)
	}
	a.log.Debug("frame saved", "path", path)
	return nil
}

func vec3(v mesh.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}

// blend averages the endpoint colours of an edge.
func blend(a, b mesh.Vec3) rl.Color {
	c := a.Add(b).Scale(0.5)
	return rl.NewColor(uint8(c.X*255), uint8(c.Y*255), uint8(c.Z*255), 255)
}
