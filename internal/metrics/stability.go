package metrics

import (
	"math"

	"github.com/san-kum/elastisim/internal/dynamo"
)

// Stability is the fraction of steps on which every node stayed within
// threshold of the origin.
type Stability struct {
	src        StateSource
	threshold  float64
	violations int
	samples    int
}

func NewStability(src StateSource, threshold float64) *Stability {
	return &Stability{src: src, threshold: threshold}
}

func (s *Stability) Name() string { return "stability" }

func (s *Stability) OnStep(dynamo.StepInfo) {
	s.samples++
	pos := s.src.State().Positions()
	for i := 0; i < pos.Len(); i++ {
		x, y, z := pos.Node(i)
		if math.Sqrt(x*x+y*y+z*z) > s.threshold {
			s.violations++
			return
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
