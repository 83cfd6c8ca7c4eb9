package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/elastisim/internal/dynamo"
	"github.com/san-kum/elastisim/internal/export"
	"github.com/san-kum/elastisim/internal/metrics"
	"github.com/san-kum/elastisim/internal/viewer"
	"github.com/san-kum/elastisim/internal/viz"
)

const (
	canvasWidth     = 72
	canvasHeight    = 22
	historyCapacity = 240
	frameRate       = 60
	orbitStep       = 0.1
	axesLength      = 1.5
	stiffnessStep   = 1.1
	svgDotScale     = 4.0
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// model is the bubbletea model: one simulation step per tick, then the
// mesh is redrawn onto the braille canvas.
type model struct {
	ctx      context.Context
	sim      viewer.Simulation
	settings *viewer.Settings
	camera   *viz.Camera
	theme    viz.Theme
	canvas   *viz.Canvas

	energy   *metrics.EnergyHistory
	frames   int
	paused   bool
	showAxes bool
	err      error
}

func newModel(ctx context.Context, sim viewer.Simulation, settings *viewer.Settings, camera *viz.Camera) model {
	return model{
		ctx:      ctx,
		sim:      sim,
		settings: settings,
		camera:   camera,
		theme:    viz.ThemeMinimal,
		canvas:   viz.NewCanvas(canvasWidth, canvasHeight),
		energy:   metrics.NewEnergyHistory(sim, historyCapacity),
	}
}

func (m model) Init() tea.Cmd { return tick() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "left", "h":
			m.camera.Orbit(-orbitStep, 0)
		case "right", "l":
			m.camera.Orbit(orbitStep, 0)
		case "up", "k":
			m.camera.Orbit(0, orbitStep)
		case "down", "j":
			m.camera.Orbit(0, -orbitStep)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "t":
			m.theme = viz.NextTheme(m.theme.Name)
		case "a":
			m.showAxes = !m.showAxes
		case "[":
			m.scaleStiffness(1 / stiffnessStep)
		case "]":
			m.scaleStiffness(stiffnessStep)
		}
		m.draw()
		return m, nil
	case tickMsg:
		if m.ctx.Err() != nil {
			return m, tea.Quit
		}
		if !m.paused {
			if err := m.advance(); err != nil {
				if m.ctx.Err() == nil {
					m.err = err
				}
				return m, tea.Quit
			}
		}
		if m.ctx.Err() != nil {
			return m, tea.Quit
		}
		return m, tick()
	}
	return m, nil
}

// advance steps the simulation once, records energy, redraws and saves
// the frame when enabled.
func (m *model) advance() error {
	if err := m.sim.Step(m.ctx); err != nil {
		return err
	}
	m.frames++
	m.energy.OnStep(dynamo.StepInfo{Step: m.frames, Time: m.sim.Time()})
	m.draw()

	if m.settings.SaveFrames {
		svg := export.CanvasToSVG(m.canvas, svgDotScale, m.theme)
		if _, err := export.WriteFrame(m.settings.FramesDir(), m.frames, svg); err != nil {
			return fmt.Errorf("save frame: %w", err)
		}
	}
	return nil
}

// scaleStiffness multiplies the body's spring stiffness when the
// simulation exposes its parameters.
func (m *model) scaleStiffness(factor float64) {
	c, ok := m.sim.(dynamo.Configurable)
	if !ok {
		return
	}
	k, ok := c.GetParams()["stiffness"]
	if !ok {
		return
	}
	if err := c.SetParam("stiffness", k*factor); err != nil {
		m.err = err
	}
}

func (m *model) draw() {
	m.canvas.Clear()
	mesh := m.sim.Scene().Mesh
	if m.settings.SubdivideMeshes {
		mesh = mesh.Subdivide()
	}
	viz.Render3D(m.canvas, viz.MeshWireframe(mesh), m.camera)
	if m.showAxes {
		viz.Render3D(m.canvas, viz.CreateAxesWireframe(axesLength), m.camera)
	}
}

func (m model) View() string {
	sc := m.sim.Scene()

	var b strings.Builder
	status := "running"
	if m.paused {
		status = "paused"
	}
	b.WriteString(headerStyle.Foreground(m.theme.Accent).Render(fmt.Sprintf("%s  %s", sc.Name, status)))
	b.WriteString("\n")

	canvas := lipgloss.NewStyle().Foreground(m.theme.Mesh).Render(m.canvas.String())

	stats := []string{
		stat("time", fmt.Sprintf("%.2fs", m.sim.Time())),
		stat("frame", fmt.Sprintf("%d", m.frames)),
		stat("energy", fmt.Sprintf("%.4f", m.sim.Energy())),
		stat("radius", fmt.Sprintf("%.3f", sc.Radius)),
		stat("zoom", fmt.Sprintf("%.2f", m.camera.Zoom)),
		stat("theme", m.theme.Name),
	}
	if c, ok := m.sim.(dynamo.Configurable); ok {
		if k, ok := c.GetParams()["stiffness"]; ok {
			stats = append(stats, stat("stiffness", fmt.Sprintf("%.1f", k)))
		}
	}
	if m.settings.SaveFrames {
		stats = append(stats, stat("saving", m.settings.FramesDir()))
	}
	side := lipgloss.NewStyle().PaddingLeft(2).Render(strings.Join(stats, "\n"))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, canvas, side))
	b.WriteString("\n")

	if m.energy.Len() > 1 {
		graph := asciigraph.Plot(m.energy.Values(),
			asciigraph.Height(6),
			asciigraph.Width(canvasWidth-10),
			asciigraph.Caption("energy"),
		)
		b.WriteString(graphStyle.Render(graph))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(errStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("space pause  ←→↑↓ orbit  +/- zoom  [/] stiffness  a axes  t theme  q quit"))
	return b.String()
}

func stat(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value)
}
