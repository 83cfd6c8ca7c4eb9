// Package metrics collects per-step measurements of a running simulation.
// Every metric is a dynamo.StepObserver and reads what it needs from its source.
package metrics

import "github.com/san-kum/elastisim/internal/dynamo"

// EnergySource reports the current total energy.
type EnergySource interface {
	Energy() float64
}

// StateSource exposes the current solver state.
type StateSource interface {
	State() dynamo.State
}

type Metric interface {
	dynamo.StepObserver
	Name() string
	Value() float64
	Reset()
}
