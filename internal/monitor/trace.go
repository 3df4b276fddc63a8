package monitor

import (
	"fmt"

	"emgcheck/internal/tracker"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var allOps = []tracker.Op{
	tracker.OpRegister,
	tracker.OpDeregister,
	tracker.OpProbeUp,
	tracker.OpProbeDown,
	tracker.OpInvokeCallback,
}

// Trace logs every completed tracker operation and keeps the sequence.
type Trace struct {
	*BaseMonitor
	steps []string
}

func NewTrace() *Trace {
	return &Trace{
		BaseMonitor: &BaseMonitor{
			name:      "trace",
			postHooks: allOps,
		},
		steps: make([]string, 0),
	}
}

func (tr *Trace) Execute(ev *Event) error {
	step := fmt.Sprintf("%s.%s [%s]", ev.Tracker, ev.Op, ev.State)
	log.Debug(step)
	tr.steps = append(tr.steps, step)
	return nil
}

func (tr *Trace) Steps() []string {
	return tr.steps
}

var constructors = map[string]func() Monitor{
	"probe-underflow": func() Monitor { return NewProbeUnderflow() },
	"probe-leak":      func() Monitor { return NewProbeLeak() },
	"trace":           func() Monitor { return NewTrace() },
}

// New builds a monitor by name.
func New(name string) (Monitor, error) {
	ctor, ok := constructors[name]
	if !ok {
		return nil, errors.Errorf("unknown monitor %q", name)
	}
	return ctor(), nil
}

// Names returns every monitor name accepted by New.
func Names() []string {
	return []string{"probe-leak", "probe-underflow", "trace"}
}
