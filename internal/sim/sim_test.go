package sim

import (
	"context"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/san-kum/elastisim/internal/dynamo"
)

const testScene = `<scene name="test">
  <solver timestep="0.04" substeps="10" integrator="verlet" damping="1.5"/>
  <body name="ball" generator="icosphere" subdivisions="1" scale="1 1 1" stiffness="200" shear="50" mass="1"/>
</scene>`

func quietLogger() *log.Logger { return log.New(io.Discard) }

func loadedContext(t *testing.T) *Context {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.xml")
	if err := os.WriteFile(path, []byte(testScene), 0644); err != nil {
		t.Fatal(err)
	}
	c := NewContext(quietLogger())
	if err := c.Load(path); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if err := c.Initialize(); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	return c
}

func TestContextLoadInitialize(t *testing.T) {
	c := loadedContext(t)

	if got := c.Positions().Len(); got != 42 {
		t.Errorf("expected 42 nodes, got %d", got)
	}
	if err := c.Positions().Validate(); err != nil {
		t.Error(err)
	}
	if c.System().Timestep() != 0.04 {
		t.Errorf("timestep = %f", c.System().Timestep())
	}
	if c.Scene() == nil || c.Scene().Radius < 0.99 {
		t.Error("scene not built from rest mesh")
	}
}

func TestContextErrors(t *testing.T) {
	c := NewContext(quietLogger())
	if err := c.Load(filepath.Join(t.TempDir(), "missing.xml")); err == nil {
		t.Error("expected error for missing scene")
	}
	if err := c.Initialize(); err == nil {
		t.Error("expected error initializing without a scene")
	}
	if c.Positions() != nil {
		t.Error("expected nil positions before initialize")
	}
	if c.Stepper() != nil {
		t.Error("expected nil stepper before initialize")
	}
	if err := c.Update(nil); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
	if err := c.SetParam("stiffness", 1); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
}

func TestContextParams(t *testing.T) {
	c := loadedContext(t)
	var _ dynamo.Configurable = c

	if got := c.GetParams()["stiffness"]; got != 200 {
		t.Errorf("stiffness = %f, want 200", got)
	}
	if err := c.SetParam("stiffness", 50); err != nil {
		t.Fatal(err)
	}
	if got := c.Body().Params().Stiffness; got != 50 {
		t.Errorf("body stiffness = %f, want 50", got)
	}
	if err := c.SetParam("viscosity", 1); err == nil {
		t.Error("expected unknown parameter to be rejected")
	}
}

func TestContextUpdate(t *testing.T) {
	c := loadedContext(t)
	pos := c.Positions()
	for i := range pos {
		pos[i] = 0
	}

	if err := c.Update(c.Scene()); err != nil {
		t.Fatal(err)
	}
	if c.Scene().Radius != 0 {
		t.Errorf("radius after collapse = %f, want 0", c.Scene().Radius)
	}
	if c.Scene().Mesh.Vertices[0] != 0 {
		t.Error("scene mesh not synced with positions")
	}
}

func TestSystemStepNotifiesObservers(t *testing.T) {
	c := loadedContext(t)
	sys := c.System()

	var order []string
	var infos []dynamo.StepInfo
	sys.AddStepCallback(dynamo.StepFunc(func(info dynamo.StepInfo) {
		order = append(order, "first")
		infos = append(infos, info)
	}))
	sys.AddStepCallback(dynamo.StepFunc(func(dynamo.StepInfo) { order = append(order, "second") }))

	for i := 0; i < 3; i++ {
		if err := sys.Step(context.Background()); err != nil {
			t.Fatal(err)
		}
	}

	if len(infos) != 3 || len(order) != 6 {
		t.Fatalf("expected 3 notifications per observer, got %d / %d", len(infos), len(order))
	}
	if order[0] != "first" || order[1] != "second" {
		t.Errorf("observers called out of order: %v", order)
	}
	if infos[2].Step != 3 || infos[2].Dt != 0.04 || math.Abs(infos[2].Time-0.12) > 1e-12 {
		t.Errorf("unexpected step info: %+v", infos[2])
	}
	if sys.Steps() != 3 {
		t.Errorf("Steps() = %d", sys.Steps())
	}
}

func TestSystemPositionsStayLive(t *testing.T) {
	c := loadedContext(t)
	pos := c.Positions()
	for i := range pos {
		pos[i] = 0
	}
	if err := c.System().Step(context.Background()); err != nil {
		t.Fatal(err)
	}
	moved := false
	for _, v := range pos {
		if v != 0 {
			moved = true
			break
		}
	}
	if !moved {
		t.Error("position buffer held before Step did not see the update")
	}
}

func TestSystemStepCancelled(t *testing.T) {
	c := loadedContext(t)
	called := false
	c.System().AddStepCallback(dynamo.StepFunc(func(dynamo.StepInfo) { called = true }))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.System().Step(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if called || c.System().Steps() != 0 {
		t.Error("cancelled step should not advance or notify")
	}
}

func TestSystemStepInvalidState(t *testing.T) {
	c := loadedContext(t)
	c.Positions()[0] = math.NaN()

	err := c.System().Step(context.Background())
	var simErr *dynamo.SimError
	if !errors.As(err, &simErr) || !errors.Is(err, dynamo.ErrInvalidState) {
		t.Fatalf("expected SimError wrapping ErrInvalidState, got %v", err)
	}
}

func TestSystemRunStopsOnCancel(t *testing.T) {
	c := loadedContext(t)
	ctx, cancel := context.WithCancel(context.Background())
	c.System().AddStepCallback(dynamo.StepFunc(func(info dynamo.StepInfo) {
		if info.Step == 4 {
			cancel()
		}
	}))

	if err := c.System().Run(ctx, 0); err != nil {
		t.Fatal(err)
	}
	if c.System().Steps() != 4 {
		t.Errorf("expected 4 steps before stop, got %d", c.System().Steps())
	}
}

func TestNewSystemValidation(t *testing.T) {
	c := loadedContext(t)
	body := c.Body()
	x0 := c.System().State()

	if _, err := NewSystem(body, nil, x0, 0, 1, quietLogger()); err == nil {
		t.Error("expected error for zero timestep")
	}
	if _, err := NewSystem(body, nil, x0, 0.1, 0, quietLogger()); err == nil {
		t.Error("expected error for zero substeps")
	}
	if _, err := NewSystem(body, nil, x0[:3], 0.1, 1, quietLogger()); !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestContextStepRefreshesScene(t *testing.T) {
	c := loadedContext(t)
	pos := c.Positions()
	for i := range pos {
		pos[i] = 0
	}
	if err := c.Update(c.Scene()); err != nil {
		t.Fatal(err)
	}

	if err := c.Step(context.Background()); err != nil {
		t.Fatal(err)
	}
	if c.Scene().Radius == 0 {
		t.Error("scene radius not refreshed after step")
	}
	if c.Time() != 0.04 {
		t.Errorf("Time() = %f", c.Time())
	}
	if c.Energy() <= 0 {
		t.Errorf("expected positive energy while re-expanding, got %f", c.Energy())
	}
}
