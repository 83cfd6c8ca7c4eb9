package metrics

import (
	"math"

	"github.com/san-kum/elastisim/internal/dynamo"
)

// EnergyDrift tracks the largest relative deviation of total energy from
// its value at the first observed step.
type EnergyDrift struct {
	src           EnergySource
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(src EnergySource) *EnergyDrift {
	return &EnergyDrift{src: src}
}

func (e *EnergyDrift) Name() string { return "energy_drift" }

func (e *EnergyDrift) OnStep(dynamo.StepInfo) {
	energy := e.src.Energy()
	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64   { return e.maxDrift }
func (e *EnergyDrift) Current() float64 { return e.currentEnergy }

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

// EnergyHistory keeps the most recent energies in a fixed-size ring.
type EnergyHistory struct {
	src   EnergySource
	buf   []float64
	next  int
	count int
}

func NewEnergyHistory(src EnergySource, capacity int) *EnergyHistory {
	if capacity < 1 {
		capacity = 1
	}
	return &EnergyHistory{src: src, buf: make([]float64, capacity)}
}

func (h *EnergyHistory) Name() string { return "energy" }

func (h *EnergyHistory) OnStep(dynamo.StepInfo) {
	h.buf[h.next] = h.src.Energy()
	h.next = (h.next + 1) % len(h.buf)
	if h.count < len(h.buf) {
		h.count++
	}
}

// Value is the latest energy, or 0 before the first step.
func (h *EnergyHistory) Value() float64 {
	if h.count == 0 {
		return 0
	}
	return h.buf[(h.next-1+len(h.buf))%len(h.buf)]
}

// Values returns the retained energies, oldest first.
func (h *EnergyHistory) Values() []float64 {
	out := make([]float64, h.count)
	start := (h.next - h.count + len(h.buf)) % len(h.buf)
	for i := range out {
		out[i] = h.buf[(start+i)%len(h.buf)]
	}
	return out
}

func (h *EnergyHistory) Len() int { return h.count }

func (h *EnergyHistory) Reset() {
	h.next = 0
	h.count = 0
}
