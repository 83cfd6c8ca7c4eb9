package driver

import (
	"context"

	"github.com/san-kum/elastisim/internal/dynamo"
	"github.com/san-kum/elastisim/internal/mesh"
	"github.com/san-kum/elastisim/internal/scene"
	"github.com/san-kum/elastisim/internal/viewer"
)

type fakeStepper struct {
	dt        float64
	state     dynamo.State
	observers []dynamo.StepObserver
	steps     int
	t         float64
}

func (s *fakeStepper) Timestep() float64                     { return s.dt }
func (s *fakeStepper) AddStepCallback(o dynamo.StepObserver) { s.observers = append(s.observers, o) }
func (s *fakeStepper) State() dynamo.State                   { return s.state }
func (s *fakeStepper) Energy() float64                       { return 2.0 }

func (s *fakeStepper) step() {
	s.steps++
	s.t += s.dt
	for _, o := range s.observers {
		o.OnStep(dynamo.StepInfo{Step: s.steps, Time: s.t, Dt: s.dt})
	}
}

// fakeContext is an in-memory simulation context whose nodes never move.
type fakeContext struct {
	dt      float64
	loadErr error
	initErr error

	loadedPath string
	stepper    *fakeStepper
	sc         *scene.Scene
	updates    int
}

func (c *fakeContext) Load(path string) error {
	c.loadedPath = path
	return c.loadErr
}

func (c *fakeContext) Initialize() error {
	if c.initErr != nil {
		return c.initErr
	}
	m := mesh.Icosphere(1)
	x := dynamo.NewState(m.NumVertices())
	copy(x.Positions(), m.Vertices)
	c.stepper = &fakeStepper{dt: c.dt, state: x}
	c.sc = scene.New("bunny", m)
	return nil
}

func (c *fakeContext) Update(sc *scene.Scene) error {
	c.updates++
	return sc.Refresh(c.Positions())
}

func (c *fakeContext) Positions() dynamo.Positions { return c.stepper.state.Positions() }
func (c *fakeContext) Stepper() dynamo.Stepper     { return c.stepper }
func (c *fakeContext) Scene() *scene.Scene         { return c.sc }
func (c *fakeContext) Time() float64               { return c.stepper.t }
func (c *fakeContext) Energy() float64             { return c.stepper.Energy() }

func (c *fakeContext) Step(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.stepper.step()
	return c.Update(c.sc)
}

// recordingViewer snapshots what the driver set up, then runs a fixed
// number of steps or until cancelled.
type recordingViewer struct {
	sim      viewer.Simulation
	settings viewer.Settings
	zoom     float64
	maxSteps int

	displayed bool
	positions []float64
	lights    []scene.Light
	radius    float64
	steps     int
}

func (v *recordingViewer) Settings() *viewer.Settings { return &v.settings }
func (v *recordingViewer) SetZoom(z float64)           { v.zoom = z }
func (v *recordingViewer) Zoom() float64               { return v.zoom }

func (v *recordingViewer) Display(ctx context.Context) error {
	v.displayed = true
	sc := v.sim.Scene()
	v.positions = append([]float64(nil), sc.Mesh.Vertices...)
	v.lights = append([]scene.Light(nil), sc.Lights...)
	v.radius = sc.Radius
	for v.steps < v.maxSteps && ctx.Err() == nil {
		if err := v.sim.Step(ctx); err != nil {
			return nil
		}
		v.steps++
	}
	return nil
}

var _ SimContext = (*fakeContext)(nil)
