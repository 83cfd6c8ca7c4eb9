package viewer

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/san-kum/elastisim/internal/export"
	"github.com/san-kum/elastisim/internal/viz"
)

const (
	headlessFrameWidth  = 640
	headlessFrameHeight = 480
)

// Headless steps the simulation without a window. With a frame interval
// it paces steps on the clock's ticker; saved frames are SVG wireframes.
type Headless struct {
	sim      Simulation
	settings Settings
	camera   *viz.Camera
	theme    viz.Theme
	log      *log.Logger
	ticker   *quartz.Ticker
	frames   int
}

// NewHeadless builds an unpaced headless viewer on the real clock.
func NewHeadless(sim Simulation, logger *log.Logger) Viewer {
	return NewHeadlessWithClock(sim, logger, quartz.NewReal(), 0)
}

// NewHeadlessWithClock paces one step per interval of clock; interval 0 disables pacing.
func NewHeadlessWithClock(sim Simulation, logger *log.Logger, clock quartz.Clock, interval time.Duration) *Headless {
	h := &Headless{
		sim:    sim,
		camera: viz.NewCamera(1),
		theme:  viz.ThemeMinimal,
		log:    logger,
	}
	if interval > 0 {
		h.ticker = clock.NewTicker(interval, "headless", "frame")
	}
	return h
}

func (h *Headless) Settings() *Settings { return &h.settings }
func (h *Headless) SetZoom(z float64)    { h.camera.Zoom = z }
func (h *Headless) Zoom() float64        { return h.camera.Zoom }
func (h *Headless) Frames() int          { return h.frames }

func (h *Headless) Display(ctx context.Context) error {
	if h.ticker != nil {
		defer h.ticker.Stop()
	}
	h.log.Info("headless display started", "zoom", h.camera.Zoom, "save_frames", h.settings.SaveFrames)

	for {
		if h.ticker != nil {
			select {
			case <-ctx.Done():
				return h.finish()
			case <-h.ticker.C:
			}
		}
		if err := h.sim.Step(ctx); err != nil {
			if ctx.Err() != nil {
				return h.finish()
			}
			return err
		}
		if err := h.render(); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return h.finish()
		}
	}
}

func (h *Headless) render() error {
	h.frames++
	if !h.settings.SaveFrames {
		return nil
	}
	m := h.sim.Scene().Mesh
	if h.settings.SubdivideMeshes {
		m = m.Subdivide()
	}
	svg := export.MeshToSVG(m, h.camera, headlessFrameWidth, headlessFrameHeight, h.theme)
	path, err := export.WriteFrame(h.settings.FramesDir(), h.frames, svg)
	if err != nil {
		return err
	}
	h.log.Debug("frame saved", "path", path)
	return nil
}

func (h *Headless) finish() error {
	h.log.Info("headless display stopped", "frames", h.frames, "time", h.sim.Time(), "energy", h.sim.Energy())
	return nil
}

