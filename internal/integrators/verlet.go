package integrators

import "github.com/san-kum/elastisim/internal/dynamo"

// Verlet is a velocity Verlet stepper for states laid out as
// [positions..., velocities...]. It keeps one scratch state between calls
// so repeated steps of the same size do not allocate it again.
type Verlet struct {
	scratch dynamo.State
}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) ensureScratch(n int) {
	if len(v.scratch) != n {
		v.scratch = make(dynamo.State, n)
	}
}

func (v *Verlet) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	v.ensureScratch(len(x))
	pos, vel := x.Positions(), x.Velocities()
	acc := dyn.Derive(x, t).Velocities()

	next := make(dynamo.State, len(x))
	nextPos, nextVel := next.Positions(), next.Velocities()
	for i := range pos {
		nextPos[i] = pos[i] + (vel[i]+0.5*acc[i]*dt)*dt
	}

	// spring forces at the new positions; the old velocities only feed damping
	copy(v.scratch.Positions(), nextPos)
	copy(v.scratch.Velocities(), vel)
	accNext := dyn.Derive(v.scratch, t+dt).Velocities()

	for i := range vel {
		nextVel[i] = vel[i] + 0.5*(acc[i]+accNext[i])*dt
	}
	return next
}
