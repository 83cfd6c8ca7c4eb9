package sim

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/san-kum/elastisim/internal/config"
	"github.com/san-kum/elastisim/internal/dynamo"
	"github.com/san-kum/elastisim/internal/integrators"
	"github.com/san-kum/elastisim/internal/mesh"
	"github.com/san-kum/elastisim/internal/physics"
	"github.com/san-kum/elastisim/internal/scene"
)

var ErrNotInitialized = errors.New("sim: context not initialized")

// Context owns everything a run needs: the scene description, the rest
// mesh, the elastic body and the system stepping it.
type Context struct {
	log    *log.Logger
	path   string
	cfg    *config.SceneConfig
	rest   *mesh.Mesh
	body   *physics.ElasticBody
	scene  *scene.Scene
	system *System
}

func NewContext(logger *log.Logger) *Context {
	return &Context{log: logger}
}

// Load reads the scene file at path and builds the rest mesh it names.
func (c *Context) Load(path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	rest, err := scene.BuildMesh(cfg.Body, filepath.Dir(path))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	c.path, c.cfg, c.rest = path, cfg, rest
	c.log.Info("scene loaded", "path", path, "name", cfg.Name, "nodes", rest.NumVertices(), "faces", len(rest.Faces))
	return nil
}

// Initialize builds the body, the integrator and the system from the loaded
// scene. Nodes start at their rest positions with zero velocity.
func (c *Context) Initialize() error {
	if c.cfg == nil {
		return fmt.Errorf("initialize: no scene loaded")
	}
	integ, err := integrators.New(c.cfg.Solver.Integrator)
	if err != nil {
		return err
	}

	g := c.cfg.Solver.Gravity
	c.body = physics.NewElasticBody(c.rest, physics.Params{
		Stiffness:      c.cfg.Body.Stiffness,
		ShearStiffness: c.cfg.Body.Shear,
		Damping:        c.cfg.Solver.Damping,
		NodeMass:       c.cfg.Body.NodeMass,
		Gravity:        mesh.Vec3{X: g[0], Y: g[1], Z: g[2]},
	})

	x0 := dynamo.NewState(c.rest.NumVertices())
	copy(x0.Positions(), c.rest.Vertices)

	c.system, err = NewSystem(c.body, integ, x0, c.cfg.Solver.Timestep, c.cfg.Solver.Substeps, c.log)
	if err != nil {
		return err
	}
	c.scene = scene.New(c.cfg.Name, c.rest.Clone())
	c.log.Debug("context initialized", "springs", c.body.Springs(), "timestep", c.cfg.Solver.Timestep, "substep_dt", c.cfg.Dt())
	return nil
}

// Update pushes the current node positions into sc.
func (c *Context) Update(sc *scene.Scene) error {
	if c.system == nil {
		return ErrNotInitialized
	}
	return sc.Refresh(c.system.Positions())
}

// Positions returns the live node position buffer, or nil before Initialize.
func (c *Context) Positions() dynamo.Positions {
	if c.system == nil {
		return nil
	}
	return c.system.Positions()
}

// Stepper returns the system as a dynamo.Stepper, or nil before Initialize.
func (c *Context) Stepper() dynamo.Stepper {
	if c.system == nil {
		return nil
	}
	return c.system
}

func (c *Context) Scene() *scene.Scene         { return c.scene }
func (c *Context) System() *System             { return c.system }
func (c *Context) Body() *physics.ElasticBody  { return c.body }
func (c *Context) Config() *config.SceneConfig { return c.cfg }
func (c *Context) Path() string                { return c.path }

// Step advances the system by one step and refreshes the scene.
func (c *Context) Step(ctx context.Context) error {
	if c.system == nil {
		return ErrNotInitialized
	}
	if err := c.system.Step(ctx); err != nil {
		return err
	}
	return c.Update(c.scene)
}

// GetParams reports the body's tunable parameters, or nil before Initialize.
func (c *Context) GetParams() map[string]float64 {
	if c.body == nil {
		return nil
	}
	return c.body.GetParams()
}

func (c *Context) SetParam(name string, value float64) error {
	if c.body == nil {
		return ErrNotInitialized
	}
	if err := c.body.SetParam(name, value); err != nil {
		return err
	}
	c.log.Debug("parameter changed", "name", name, "value", value)
	return nil
}

func (c *Context) Time() float64 {
	if c.system == nil {
		return 0
	}
	return c.system.Time()
}

func (c *Context) Energy() float64 {
	if c.system == nil {
		return 0
	}
	return c.system.Energy()
}
