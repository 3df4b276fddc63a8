package monitor

import (
	"fmt"

	"emgcheck/internal/invariant"
	"emgcheck/internal/tracker"
)

// ProbeUnderflow fails once more resources were released than acquired.
type ProbeUnderflow struct {
	*BaseMonitor
}

func NewProbeUnderflow() *ProbeUnderflow {
	return &ProbeUnderflow{
		BaseMonitor: &BaseMonitor{
			name:      "probe-underflow",
			data:      invariant.DataMap[invariant.ProbeUnderflow],
			postHooks: []tracker.Op{tracker.OpProbeDown},
		},
	}
}

func (pu *ProbeUnderflow) Execute(ev *Event) error {
	return ev.Channel.Assert(ev.State.Probed >= 0, pu.violation(ev, fmt.Sprintf("probed=%d", ev.State.Probed)))
}

// ProbeLeak fails when callbacks are deregistered with resources still held.
type ProbeLeak struct {
	*BaseMonitor
}

func NewProbeLeak() *ProbeLeak {
	return &ProbeLeak{
		BaseMonitor: &BaseMonitor{
			name:     "probe-leak",
			data:     invariant.DataMap[invariant.ProbeLeaked],
			preHooks: []tracker.Op{tracker.OpDeregister},
		},
	}
}

func (pl *ProbeLeak) Execute(ev *Event) error {
	return ev.Channel.Assert(ev.State.Probed == 0, pl.violation(ev, fmt.Sprintf("probed=%d", ev.State.Probed)))
}
