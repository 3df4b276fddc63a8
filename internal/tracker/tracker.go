// Package tracker 回调注册协议的不变量自动机
package tracker

import (
	"fmt"

	"emgcheck/internal/assertion"
	"emgcheck/internal/invariant"
)

type Op string

const (
	OpRegister       Op = "register"
	OpDeregister     Op = "deregister"
	OpProbeUp        Op = "probe_up"
	OpProbeDown      Op = "probe_down"
	OpInvokeCallback Op = "invoke_callback"
)

type RegistrationState int

const (
	Unregistered RegistrationState = iota
	Registered
)

func (s RegistrationState) String() string {
	if s == Registered {
		return "registered"
	}
	return "unregistered"
}

// State is a snapshot of the automaton.
type State struct {
	Registration RegistrationState
	Deregistered bool
	Probed       int
}

func (s State) String() string {
	return fmt.Sprintf("%s deregistered=%t probed=%d", s.Registration, s.Deregistered, s.Probed)
}

// Observer is notified around every tracker operation. A non-nil error
// aborts the operation and is returned to the caller.
type Observer interface {
	Before(tracker string, op Op, s State) error
	After(tracker string, op Op, s State) error
}

type Option func(*Tracker)

func WithPredicate(p ProbePredicate) Option {
	return func(t *Tracker) {
		t.predicate = p
	}
}

func WithObserver(o Observer) Option {
	return func(t *Tracker) {
		t.observer = o
	}
}

type Tracker struct {
	name      string
	channel   assertion.Channel
	predicate ProbePredicate
	observer  Observer
	state     State
}

// New returns an unregistered tracker. The default predicate is Zero.
func New(name string, channel assertion.Channel, opts ...Option) *Tracker {
	t := &Tracker{
		name:      name,
		channel:   channel,
		predicate: Zero,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tracker) Name() string {
	return t.name
}

func (t *Tracker) State() State {
	return t.state
}

func (t *Tracker) Predicate() ProbePredicate {
	return t.predicate
}

// Register is called once the callbacks registration function succeeded.
func (t *Tracker) Register() error {
	return t.apply(OpRegister, func() error {
		t.state.Registration = Registered
		return nil
	})
}

// Deregister is called once the callbacks deregistration function was invoked.
func (t *Tracker) Deregister() error {
	return t.apply(OpDeregister, func() error {
		if err := t.assert(t.state.Registration == Registered, invariant.DeregisterUnpaired, OpDeregister, ""); err != nil {
			return err
		}
		if err := t.assert(!t.state.Deregistered, invariant.DoubleDeregister, OpDeregister, ""); err != nil {
			return err
		}
		t.state.Deregistered = true
		return nil
	})
}

// ProbeUp records one more acquired resource.
func (t *Tracker) ProbeUp() error {
	return t.apply(OpProbeUp, func() error {
		t.state.Probed++
		return nil
	})
}

// ProbeDown records one released resource.
func (t *Tracker) ProbeDown() error {
	return t.apply(OpProbeDown, func() error {
		t.state.Probed--
		return nil
	})
}

// InvokeCallback checks that a callback may fire right now.
func (t *Tracker) InvokeCallback() error {
	return t.apply(OpInvokeCallback, func() error {
		inWindow := t.state.Registration == Registered && !t.state.Deregistered
		if err := t.assert(inWindow, invariant.CallbackOutsideWindow, OpInvokeCallback, t.state.String()); err != nil {
			return err
		}
		return t.assert(t.predicate.Holds(t.state.Probed), invariant.CallbackProbeState, OpInvokeCallback,
			fmt.Sprintf("probed=%d, want %s", t.state.Probed, t.predicate))
	})
}

func (t *Tracker) apply(op Op, transition func() error) error {
	if t.observer != nil {
		if err := t.observer.Before(t.name, op, t.state); err != nil {
			return err
		}
	}
	if err := transition(); err != nil {
		return err
	}
	if t.observer != nil {
		return t.observer.After(t.name, op, t.state)
	}
	return nil
}

func (t *Tracker) assert(cond bool, code invariant.Code, op Op, detail string) error {
	return t.channel.Assert(cond, &assertion.Violation{
		Code:    code,
		Tracker: t.name,
		Op:      string(op),
		Detail:  detail,
	})
}
