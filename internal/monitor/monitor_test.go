package monitor

import (
	"errors"
	"testing"

	"emgcheck/internal/assertion"
	"emgcheck/internal/invariant"
	"emgcheck/internal/tracker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTracked(t *testing.T, names ...string) (*tracker.Tracker, *assertion.Recorder, *Manager) {
	t.Helper()
	rec := assertion.NewRecorder()
	mm := NewManager(rec)
	for _, name := range names {
		m, err := New(name)
		require.Nil(t, err)
		mm.AddMonitor(m)
	}
	return tracker.New("class", rec, tracker.WithPredicate(tracker.Any), tracker.WithObserver(mm)), rec, mm
}

func Test_ProbeUnderflow(t *testing.T) {
	tr, rec, _ := newTracked(t, "probe-underflow")
	assert.Nil(t, tr.Register())
	assert.Nil(t, tr.ProbeUp())
	assert.Nil(t, tr.ProbeDown())

	err := tr.ProbeDown()
	var v *assertion.Violation
	require.True(t, errors.As(err, &v))
	assert.Equal(t, invariant.ProbeUnderflow, v.Code)
	assert.Equal(t, "probe_down", v.Op)
	assert.Equal(t, 1, len(rec.Violations()))
}

func Test_ProbeLeak(t *testing.T) {
	tr, _, _ := newTracked(t, "probe-leak")
	assert.Nil(t, tr.Register())
	assert.Nil(t, tr.ProbeUp())

	err := tr.Deregister()
	var v *assertion.Violation
	require.True(t, errors.As(err, &v))
	assert.Equal(t, invariant.ProbeLeaked, v.Code)
	// a pre hook failure leaves the flag untouched
	assert.False(t, tr.State().Deregistered)
}

func Test_Trace(t *testing.T) {
	tr, rec, mm := newTracked(t, "trace")
	assert.Nil(t, tr.Register())
	assert.Nil(t, tr.InvokeCallback())
	assert.Nil(t, tr.Deregister())
	assert.False(t, rec.Failed())

	require.Equal(t, 1, len(mm.Monitors))
	trace := mm.Monitors[0].(*Trace)
	assert.Equal(t, []string{
		"class.register [registered deregistered=false probed=0]",
		"class.invoke_callback [registered deregistered=false probed=0]",
		"class.deregister [registered deregistered=true probed=0]",
	}, trace.Steps())
}

func Test_ManagerHooks(t *testing.T) {
	mm := NewManager(assertion.NewRecorder())
	mm.AddMonitor(NewProbeLeak())
	mm.AddMonitor(NewProbeUnderflow())

	assert.Equal(t, 1, len(mm.PreHooks[tracker.OpDeregister]))
	assert.Equal(t, 1, len(mm.PostHooks[tracker.OpProbeDown]))
	assert.Equal(t, 0, len(mm.PreHooks[tracker.OpRegister]))
}

func Test_New(t *testing.T) {
	for _, name := range Names() {
		m, err := New(name)
		assert.Nil(t, err)
		assert.Equal(t, name, m.GetName())
	}
	_, err := New("nope")
	assert.NotNil(t, err)
}
