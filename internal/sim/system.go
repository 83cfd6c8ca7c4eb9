package sim

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/san-kum/elastisim/internal/dynamo"
)

// System advances one elastic body in fixed steps. Each step is split
// into substeps for the integrator; observers are told about whole steps
// only, synchronously and in registration order.
type System struct {
	dyn       dynamo.System
	integ     dynamo.Integrator
	state     dynamo.State
	timestep  float64
	substeps  int
	t         float64
	steps     int
	observers []dynamo.StepObserver
	log       *log.Logger
}

func NewSystem(dyn dynamo.System, integ dynamo.Integrator, x0 dynamo.State, timestep float64, substeps int, logger *log.Logger) (*System, error) {
	if timestep <= 0 {
		return nil, fmt.Errorf("timestep must be positive, got %f", timestep)
	}
	if substeps < 1 {
		return nil, fmt.Errorf("substeps must be at least 1, got %d", substeps)
	}
	if len(x0) != dyn.StateDim() {
		return nil, fmt.Errorf("%w: state has %d values, system wants %d", dynamo.ErrDimensionMismatch, len(x0), dyn.StateDim())
	}
	return &System{
		dyn:       dyn,
		integ:     integ,
		state:     x0.Clone(),
		timestep:  timestep,
		substeps:  substeps,
		observers: make([]dynamo.StepObserver, 0),
		log:       logger,
	}, nil
}

// Timestep is the simulated duration of one step.
func (s *System) Timestep() float64 { return s.timestep }
func (s *System) Time() float64     { return s.t }
func (s *System) Steps() int        { return s.steps }

// State returns the live solver state. Its position half is the node
// position buffer; writes to it take effect on the next step.
func (s *System) State() dynamo.State { return s.state }

func (s *System) Positions() dynamo.Positions { return s.state.Positions() }

func (s *System) AddStepCallback(o dynamo.StepObserver) { s.observers = append(s.observers, o) }

func (s *System) Energy() float64 {
	if h, ok := s.dyn.(dynamo.Hamiltonian); ok {
		return h.Energy(s.state)
	}
	return 0
}

// Step advances the body by one timestep and then notifies observers.
// A cancelled ctx stops the step before any substep runs.
func (s *System) Step(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dt := s.timestep / float64(s.substeps)
	t := s.t
	x := s.state
	for i := 0; i < s.substeps; i++ {
		x = s.integ.Step(s.dyn, x, t, dt)
		t += dt
	}
	if !x.IsValid() {
		return &dynamo.SimError{Step: s.steps, Time: s.t, Wrapped: dynamo.ErrInvalidState}
	}

	// copy in place so Positions views handed out earlier stay live
	copy(s.state, x)
	s.t += s.timestep
	s.steps++

	info := dynamo.StepInfo{Step: s.steps, Time: s.t, Dt: s.timestep}
	for _, obs := range s.observers {
		obs.OnStep(info)
	}
	return nil
}

// Run steps until ctx is cancelled or n steps have run; n <= 0 means no limit.
func (s *System) Run(ctx context.Context, n int) error {
	for i := 0; n <= 0 || i < n; i++ {
		if err := s.Step(ctx); err != nil {
			return err
		}
		if ctx.Err() != nil {
			s.log.Debug("run cancelled", "steps", s.steps, "time", s.t)
			return nil
		}
	}
	return nil
}
