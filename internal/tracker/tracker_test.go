package tracker

import (
	"errors"
	"testing"

	"emgcheck/internal/assertion"
	"emgcheck/internal/invariant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func violationCode(t *testing.T, err error) invariant.Code {
	t.Helper()
	var v *assertion.Violation
	require.True(t, errors.As(err, &v), "expected a violation, got %v", err)
	return v.Code
}

func Test_HappyPath(t *testing.T) {
	rec := assertion.NewRecorder()
	tr := New("class", rec, WithPredicate(Nonnegative))

	assert.Nil(t, tr.Register())
	assert.Nil(t, tr.ProbeUp())
	assert.Nil(t, tr.InvokeCallback())
	assert.Equal(t, 1, tr.State().Probed)
	assert.Nil(t, tr.ProbeDown())
	assert.Nil(t, tr.Deregister())

	assert.False(t, rec.Failed())
	assert.Equal(t, State{Registration: Registered, Deregistered: true, Probed: 0}, tr.State())
}

func Test_CallbackBeforeRegister(t *testing.T) {
	rec := assertion.NewRecorder()
	tr := New("tty", rec)

	err := tr.InvokeCallback()
	assert.Equal(t, invariant.CallbackOutsideWindow, violationCode(t, err))
	assert.Equal(t, 1, len(rec.Violations()))
}

func Test_CallbackAfterDeregister(t *testing.T) {
	rec := assertion.NewRecorder()
	tr := New("workqueue", rec)

	assert.Nil(t, tr.Register())
	assert.Nil(t, tr.Deregister())
	err := tr.InvokeCallback()
	assert.Equal(t, invariant.CallbackOutsideWindow, violationCode(t, err))
}

func Test_CallbackProbePredicate(t *testing.T) {
	rec := assertion.NewRecorder()
	tr := New("target_backend", rec)
	assert.Equal(t, Zero, tr.Predicate())

	assert.Nil(t, tr.Register())
	assert.Nil(t, tr.InvokeCallback())
	assert.Nil(t, tr.ProbeUp())
	err := tr.InvokeCallback()
	assert.Equal(t, invariant.CallbackProbeState, violationCode(t, err))
}

func Test_Deregister(t *testing.T) {
	rec := assertion.NewRecorder()
	tr := New("md", rec)
	err := tr.Deregister()
	assert.Equal(t, invariant.DeregisterUnpaired, violationCode(t, err))
	assert.False(t, tr.State().Deregistered)

	tr = New("md", assertion.NewRecorder())
	assert.Nil(t, tr.Register())
	assert.Nil(t, tr.Deregister())
	err = tr.Deregister()
	assert.Equal(t, invariant.DoubleDeregister, violationCode(t, err))
}

func Test_ProbeCounterIsUnbounded(t *testing.T) {
	rec := assertion.NewRecorder()
	tr := New("class", rec, WithPredicate(Any))
	assert.Nil(t, tr.ProbeDown())
	assert.Nil(t, tr.ProbeDown())
	assert.Equal(t, -2, tr.State().Probed)
	assert.False(t, rec.Failed())
}

type recordingObserver struct {
	ops    []Op
	failOn Op
}

func (o *recordingObserver) Before(_ string, op Op, _ State) error {
	o.ops = append(o.ops, op)
	if op == o.failOn {
		return errors.New("rejected")
	}
	return nil
}

func (o *recordingObserver) After(_ string, _ Op, _ State) error {
	return nil
}

func Test_Observer(t *testing.T) {
	obs := &recordingObserver{failOn: OpProbeUp}
	tr := New("class", assertion.NewRecorder(), WithObserver(obs))

	assert.Nil(t, tr.Register())
	assert.NotNil(t, tr.ProbeUp())
	// the rejected operation does not change the state
	assert.Equal(t, 0, tr.State().Probed)
	assert.Equal(t, []Op{OpRegister, OpProbeUp}, obs.ops)
}

func Test_ParseProbePredicate(t *testing.T) {
	for _, s := range []string{"zero", "nonnegative", "any"} {
		p, err := ParseProbePredicate(s)
		assert.Nil(t, err)
		assert.Equal(t, ProbePredicate(s), p)
	}
	p, err := ParseProbePredicate("")
	assert.Nil(t, err)
	assert.Equal(t, Zero, p)

	_, err = ParseProbePredicate("positive")
	assert.NotNil(t, err)

	assert.True(t, Nonnegative.Holds(0))
	assert.False(t, Nonnegative.Holds(-1))
	assert.True(t, Any.Holds(-5))
	assert.False(t, Zero.Holds(1))
}
