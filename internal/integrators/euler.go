package integrators

import "github.com/san-kum/elastisim/internal/dynamo"

// SymplecticEuler updates velocities first and moves positions with the
// new velocities. One derivative evaluation per step.
type SymplecticEuler struct{}

func NewSymplecticEuler() *SymplecticEuler {
	return &SymplecticEuler{}
}

func (e *SymplecticEuler) Step(dyn dynamo.System, x dynamo.State, t float64, dt float64) dynamo.State {
	n := len(x)
	half := n / 2
	dx := dyn.Derive(x, t)
	result := make(dynamo.State, n)
	for i := 0; i < half; i++ {
		vel := x[half+i] + dt*dx[half+i]
		result[half+i] = vel
		result[i] = x[i] + dt*vel
	}
	return result
}
