// Package driver runs the bunnyexpand scenario: load the scene, scramble or
// collapse the body, and hand it to a viewer until the user closes it or a
// demo run times out.
package driver

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/san-kum/elastisim/internal/dynamo"
	"github.com/san-kum/elastisim/internal/initializer"
	"github.com/san-kum/elastisim/internal/mesh"
	"github.com/san-kum/elastisim/internal/metrics"
	"github.com/san-kum/elastisim/internal/scene"
	"github.com/san-kum/elastisim/internal/storage"
	"github.com/san-kum/elastisim/internal/viewer"
)

// Zoom is the camera distance used in both initialization modes.
const Zoom = 6.0

// ErrSceneLoad wraps any failure to load or initialize the scene.
var ErrSceneLoad = errors.New("driver: scene could not be loaded")

// ScenePath is where the scenario's scene file lives under root.
func ScenePath(root string) string {
	return filepath.Join(root, "samples", "bunnyexpand", "bunnyexpand.xml")
}

// SimContext is the simulation context the driver works through.
type SimContext interface {
	viewer.Simulation
	Load(path string) error
	Initialize() error
	Update(sc *scene.Scene) error
	Positions() dynamo.Positions
	Stepper() dynamo.Stepper
}

// RunConfig selects the initialization mode, the viewer and where output goes.
type RunConfig struct {
	Demo        bool
	SinglePoint bool
	Viewer      string
	// Seed for the scramble initializer; 0 picks one from the clock.
	Seed int64
	// DataDir receives a run record when set.
	DataDir  string
	FrameDir string
}

// Mode names the initialization strategy for logs and run records.
func (c RunConfig) Mode() string {
	if c.SinglePoint {
		return "collapse"
	}
	return "scramble"
}

// Result summarises a finished run.
type Result struct {
	Seed      int64
	Steps     int
	SimTime   float64
	Energy    float64
	Drift     float64
	Stability float64
	TimedOut  bool
	RunID     string
}

// Driver runs one scenario against a simulation context and a viewer registry.
type Driver struct {
	cfg     RunConfig
	sim     SimContext
	viewers viewer.Registry
	log     *log.Logger
}

func New(cfg RunConfig, sim SimContext, viewers viewer.Registry, logger *log.Logger) *Driver {
	return &Driver{cfg: cfg, sim: sim, viewers: viewers, log: logger}
}

// Run drives one scenario from the scene at scenePath. It blocks in the
// viewer's Display until the viewer returns; a demo run cancels the
// viewer's context once its time limit has passed.
func (d *Driver) Run(ctx context.Context, scenePath string) (*Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := d.sim.Load(scenePath); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSceneLoad, err)
	}
	if err := d.sim.Initialize(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSceneLoad, err)
	}

	stepper := d.sim.Stepper()
	timer := NewDemoTimer(d.cfg.Demo, DemoLimit, cancel)
	stepper.AddStepCallback(timer)
	drift := metrics.NewEnergyDrift(stepper)
	stepper.AddStepCallback(drift)
	// share of steps with every node inside the camera distance
	stability := metrics.NewStability(stepper, Zoom)
	stepper.AddStepCallback(stability)
	steps := 0
	stepper.AddStepCallback(dynamo.StepFunc(func(info dynamo.StepInfo) { steps = info.Step }))

	seed := d.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	strategy := initializer.Select(d.cfg.SinglePoint, seed)
	if err := initializer.Apply(d.sim.Positions(), strategy); err != nil {
		return nil, err
	}
	sc := d.sim.Scene()
	if err := d.sim.Update(sc); err != nil {
		return nil, err
	}
	d.log.Info("nodes initialized", "strategy", strategy.Name(), "nodes", d.sim.Positions().Len(), "radius", sc.Radius)

	v, err := d.viewers.New(d.cfg.Viewer, d.sim, d.log)
	if err != nil {
		return nil, err
	}
	settings := v.Settings()
	settings.GammaCorrection = false
	settings.SubdivideMeshes = true
	settings.SaveFrames = d.cfg.Demo
	settings.FrameDir = d.cfg.FrameDir

	v.SetZoom(Zoom)
	if d.cfg.SinglePoint {
		// the collapsed scene has zero radius, so its own lighting sits on the origin
		sc.MakeThreePointLighting(mesh.Vec3{}, v.Zoom())
	}

	d.log.Info("display starting", "viewer", d.cfg.Viewer, "demo", d.cfg.Demo, "timestep", stepper.Timestep())
	if err := v.Display(ctx); err != nil {
		return nil, err
	}

	res := &Result{
		Seed:      seed,
		Steps:     steps,
		SimTime:   d.sim.Time(),
		Energy:    d.sim.Energy(),
		Drift:     drift.Value(),
		Stability: stability.Value(),
		TimedOut:  timer.State() == TimerTerminated,
	}
	if res.TimedOut {
		d.log.Info("demo finished", "elapsed", timer.Elapsed())
	}

	if d.cfg.DataDir != "" {
		id, err := d.record(sc.Name, stepper.Timestep(), res)
		if err != nil {
			return res, fmt.Errorf("record run: %w", err)
		}
		res.RunID = id
	}
	return res, nil
}

func (d *Driver) record(sceneName string, dt float64, res *Result) (string, error) {
	st := storage.New(d.cfg.DataDir)
	if err := st.Init(); err != nil {
		return "", err
	}
	id, err := st.Save(storage.RunMetadata{
		Scene:       sceneName,
		Mode:        d.cfg.Mode(),
		Seed:        res.Seed,
		Dt:          dt,
		Steps:       res.Steps,
		SimTime:     res.SimTime,
		Viewer:      d.cfg.Viewer,
		FinalEnergy: res.Energy,
		Metrics: map[string]float64{
			"energy_drift": res.Drift,
			"stability":    res.Stability,
		},
	}, d.sim.Positions())
	if err != nil {
		return "", err
	}
	d.log.Info("run recorded", "id", id, "dir", d.cfg.DataDir)
	return id, nil
}
