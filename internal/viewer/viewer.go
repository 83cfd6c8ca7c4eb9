// Package viewer defines what the scenario driver needs from a display:
// a few settings, a zoom, and a blocking Display loop that advances the
// simulation once per frame.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/san-kum/elastisim/internal/scene"
)

var ErrUnknownViewer = errors.New("viewer: unknown viewer")

type Settings struct {
	GammaCorrection bool
	SubdivideMeshes bool
	SaveFrames      bool
	// FrameDir receives saved frames; empty means "frames" in the working directory.
	FrameDir string
}

func (s Settings) FramesDir() string {
	if s.FrameDir == "" {
		return "frames"
	}
	return s.FrameDir
}

// Simulation is the part of the simulation context a viewer drives.
type Simulation interface {
	// Step advances one simulation step and refreshes the scene.
	Step(ctx context.Context) error
	Scene() *scene.Scene
	Time() float64
	Energy() float64
}

type Viewer interface {
	Settings() *Settings
	SetZoom(z float64)
	Zoom() float64
	// Display runs the render loop until the user closes the viewer or ctx
	// is cancelled. Cancellation is checked after every step.
	Display(ctx context.Context) error
}

type Factory func(sim Simulation, logger *log.Logger) Viewer

// Registry maps viewer names to constructors.
type Registry map[string]Factory

func (r Registry) New(name string, sim Simulation, logger *log.Logger) (Viewer, error) {
	f, ok := r[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %v)", ErrUnknownViewer, name, r.Names())
	}
	return f(sim, logger), nil
}

func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
