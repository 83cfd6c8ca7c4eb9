package integrators

import (
	"fmt"

	"github.com/san-kum/elastisim/internal/dynamo"
)

// New returns the integrator registered under name. An empty name selects Verlet.
func New(name string) (dynamo.Integrator, error) {
	switch name {
	case "", "verlet":
		return NewVerlet(), nil
	case "euler":
		return NewSymplecticEuler(), nil
	case "rk4":
		return NewRK4(), nil
	default:
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
}
