// Package dynamo provides the core simulation primitives shared by the
// elastic solver, the initializers and the viewers.
//
//   - [State]: full solver state laid out as [positions..., velocities...]
//   - [Positions]: the node position buffer, grouped in (x, y, z) triples
//   - [System]: interface for second-order systems (dX/dt = f(X, t))
//   - [Integrator]: numerical stepper over a [System]
//   - [StepObserver]: notified once per completed simulation step
//
// # Example
//
//	body := physics.NewElasticBody(m, physics.DefaultParams())
//	integ := integrators.NewVerlet()
//	x = integ.Step(body, x, t, dt)
//
// # Thread Safety
//
// Nothing in this package synchronizes. A [State] is owned by one
// simulation loop and observers run on that loop's goroutine.
package dynamo
