package driver

import (
	"context"

	"github.com/san-kum/elastisim/internal/dynamo"
)

// DemoLimit is the simulated time after which a demo run ends.
const DemoLimit = 5.0

type TimerState int

const (
	TimerIdle TimerState = iota
	TimerCounting
	TimerTerminated
)

func (s TimerState) String() string {
	switch s {
	case TimerIdle:
		return "idle"
	case TimerCounting:
		return "counting"
	case TimerTerminated:
		return "terminated"
	}
	return "unknown"
}

// DemoTimer ends a demo run once more than limit seconds of simulated time
// have accumulated. The limit is compared against the total from previous
// steps before the current step is added, so with a step of 1.0 and a limit
// of 5.0 the seventh call fires.
type DemoTimer struct {
	state   TimerState
	limit   float64
	elapsed float64
	cancel  context.CancelFunc
}

// NewDemoTimer returns an idle timer when enabled is false; every call is then a no-op.
func NewDemoTimer(enabled bool, limit float64, cancel context.CancelFunc) *DemoTimer {
	t := &DemoTimer{limit: limit, cancel: cancel}
	if enabled {
		t.state = TimerCounting
	}
	return t
}

func (t *DemoTimer) OnStep(info dynamo.StepInfo) {
	if t.state != TimerCounting {
		return
	}
	if t.elapsed > t.limit {
		t.state = TimerTerminated
		t.cancel()
		return
	}
	t.elapsed += info.Dt
}

func (t *DemoTimer) State() TimerState { return t.state }
func (t *DemoTimer) Elapsed() float64  { return t.elapsed }
