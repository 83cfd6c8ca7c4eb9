// Package physics provides the elastic body model driven by the solver.
//
// [ElasticBody] implements [dynamo.System] over a [mesh.Mesh]: every node
// carries a position and a velocity, and springs pull the nodes back
// towards the rest lengths measured on the mesh the body was built from.
// A body whose nodes have been scrambled or collapsed onto one point
// therefore re-expands into its rest shape.
//
// The body also implements [dynamo.Hamiltonian] for energy monitoring and
// [dynamo.Configurable] for runtime parameter adjustment:
//
//	body := physics.NewElasticBody(mesh.Icosphere(2), physics.DefaultParams())
//	energy := body.Energy(state)
package physics
