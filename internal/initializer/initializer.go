// Package initializer rewrites the node position buffer before the first
// simulation step.
package initializer

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/san-kum/elastisim/internal/dynamo"
)

// ScrambleExtent bounds every scrambled coordinate to [-ScrambleExtent, ScrambleExtent].
const ScrambleExtent = 0.75

var ErrMalformedBuffer = errors.New("initializer: node buffer length is not a multiple of 3")

// Strategy assigns every node of a valid buffer in place.
type Strategy interface {
	Name() string
	Assign(pos dynamo.Positions)
}

// Scramble draws every coordinate independently and uniformly from
// [-Extent, Extent].
type Scramble struct {
	Extent float64
	rng    *rand.Rand
}

// NewScramble seeds from seed, or from the clock when seed is 0.
func NewScramble(seed int64) *Scramble {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Scramble{Extent: ScrambleExtent, rng: rand.New(rand.NewSource(seed))}
}

func (s *Scramble) Name() string { return "scramble" }

func (s *Scramble) Assign(pos dynamo.Positions) {
	for i := range pos {
		pos[i] = (s.rng.Float64()*2 - 1) * s.Extent
	}
}

// Collapse puts every node on the origin.
type Collapse struct{}

func (Collapse) Name() string { return "collapse" }

func (Collapse) Assign(pos dynamo.Positions) {
	for i := 0; i < pos.Len(); i++ {
		pos.SetNode(i, 0, 0, 0)
	}
}

// Select returns Collapse for single-point runs and Scramble otherwise.
func Select(singlePoint bool, seed int64) Strategy {
	if singlePoint {
		return Collapse{}
	}
	return NewScramble(seed)
}

// Apply checks the buffer and runs s over it. Nothing is written when the
// buffer is malformed.
func Apply(pos dynamo.Positions, s Strategy) error {
	if err := pos.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedBuffer, err)
	}
	s.Assign(pos)
	return nil
}
