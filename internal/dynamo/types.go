package dynamo

import (
	"fmt"
	"math"
)

// State is the solver state: node positions followed by node velocities,
// each block holding 3 scalars per node.
type State []float64

func NewState(nodes int) State {
	return make(State, nodes*6)
}

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Positions returns the position half of the state. The returned buffer
// aliases s, so writes through it are seen by the solver.
func (s State) Positions() Positions {
	return Positions(s[:len(s)/2])
}

// Velocities returns the velocity half of the state, aliasing s.
func (s State) Velocities() []float64 {
	return s[len(s)/2:]
}

// Positions is the node position buffer: a flat sequence of scalars,
// logically grouped in (x, y, z) triples per mesh vertex.
type Positions []float64

// Validate reports ErrMalformedPositions when the buffer cannot be read as triples.
func (p Positions) Validate() error {
	if len(p)%3 != 0 {
		return fmt.Errorf("%w: length %d", ErrMalformedPositions, len(p))
	}
	return nil
}

func (p Positions) Len() int { return len(p) / 3 }

func (p Positions) Node(i int) (x, y, z float64) {
	return p[i*3], p[i*3+1], p[i*3+2]
}

func (p Positions) SetNode(i int, x, y, z float64) {
	p[i*3], p[i*3+1], p[i*3+2] = x, y, z
}

// System is a second-order system over a State. Derive returns dX/dt,
// i.e. [velocities..., accelerations...].
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

type Hamiltonian interface {
	Energy(x State) float64
}

type Integrator interface {
	Step(dyn System, x State, t float64, dt float64) State
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// StepInfo describes one completed simulation step.
type StepInfo struct {
	Step int
	Time float64
	Dt   float64
}

// StepObserver is notified synchronously after every completed step.
// Implementations run on the simulation loop and must not block.
type StepObserver interface {
	OnStep(info StepInfo)
}

// StepFunc adapts a plain function to StepObserver.
type StepFunc func(info StepInfo)

func (f StepFunc) OnStep(info StepInfo) { f(info) }

// Stepper is the step-driven side of a running system: its fixed step
// duration, observer registration, and the current state.
type Stepper interface {
	Timestep() float64
	AddStepCallback(o StepObserver)
	State() State
	Energy() float64
}
