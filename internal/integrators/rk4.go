package integrators

import "github.com/san-kum/elastisim/internal/dynamo"

// RK4 is the classic fourth-order Runge-Kutta method. It is not symplectic:
// undamped bodies slowly lose energy, which the damped scenes hide.
type RK4 struct {
	k1, k2, k3 dynamo.State
	scratch    dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(dynamo.State, n)
		r.k2 = make(dynamo.State, n)
		r.k3 = make(dynamo.State, n)
		r.scratch = make(dynamo.State, n)
	}
}

// stage returns x + h*k in the scratch state.
func (r *RK4) stage(x, k dynamo.State, h float64) dynamo.State {
	for i := range x {
		r.scratch[i] = x[i] + h*k[i]
	}
	return r.scratch
}

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	r.ensureScratch(len(x))
	h := dt / 2

	copy(r.k1, dyn.Derive(x, t))
	copy(r.k2, dyn.Derive(r.stage(x, r.k1, h), t+h))
	copy(r.k3, dyn.Derive(r.stage(x, r.k2, h), t+h))
	k4 := dyn.Derive(r.stage(x, r.k3, dt), t+dt)

	next := make(dynamo.State, len(x))
	for i := range next {
		next[i] = x[i] + dt/6*(r.k1[i]+2*(r.k2[i]+r.k3[i])+k4[i])
	}
	return next
}
