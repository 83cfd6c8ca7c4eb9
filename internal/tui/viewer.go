// Package tui is a terminal viewer: the mesh wireframe on a braille
// canvas next to live statistics and an energy chart.
package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/san-kum/elastisim/internal/viewer"
	"github.com/san-kum/elastisim/internal/viz"
)

type Viewer struct {
	sim      viewer.Simulation
	settings viewer.Settings
	camera   *viz.Camera
	log      *log.Logger
	opts     []tea.ProgramOption
}

func New(sim viewer.Simulation, logger *log.Logger) viewer.Viewer {
	return &Viewer{
		sim:    sim,
		camera: viz.NewCamera(1),
		log:    logger,
		opts:   []tea.ProgramOption{tea.WithAltScreen()},
	}
}

func (v *Viewer) Settings() *viewer.Settings { return &v.settings }
func (v *Viewer) SetZoom(z float64)           { v.camera.Zoom = z }
func (v *Viewer) Zoom() float64               { return v.camera.Zoom }

// Display runs the bubbletea program until the user quits, the simulation
// fails, or ctx is cancelled. Logging is silenced while the alt screen is up.
func (v *Viewer) Display(ctx context.Context) error {
	defer quiet(v.log)()

	opts := append([]tea.ProgramOption{tea.WithContext(ctx)}, v.opts...)
	p := tea.NewProgram(newModel(ctx, v.sim, &v.settings, v.camera), opts...)

	final, err := p.Run()
	if ctx.Err() != nil {
		return nil
	}
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	if m, ok := final.(model); ok && m.err != nil {
		return m.err
	}
	return nil
}

// quiet mutes logger below fatal and returns a func restoring its level.
// The writer is left alone so callers keep their own destination.
func quiet(logger *log.Logger) func() {
	prev := logger.GetLevel()
	logger.SetLevel(log.FatalLevel)
	return func() { logger.SetLevel(prev) }
}
