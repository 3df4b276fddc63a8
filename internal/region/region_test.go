package region

import (
	"errors"
	"testing"

	"emgcheck/internal/assertion"
	"emgcheck/internal/invariant"
	"emgcheck/internal/oracle"
	"emgcheck/internal/tracker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decision indexes into oracle.NonpositiveDomain / oracle.IntDomain
const (
	success = 0
	failure = 1
	one     = 1
	zero    = 0
)

func violationCode(t *testing.T, err error) invariant.Code {
	t.Helper()
	var v *assertion.Violation
	require.True(t, errors.As(err, &v), "expected a violation, got %v", err)
	return v.Code
}

func Test_RegisterUnregister(t *testing.T) {
	rec := assertion.NewRecorder()
	rg := New("chrdev", oracle.NewReplay([]int{success}, 0), rec)

	status, err := rg.RegisterRegion(240)
	assert.Nil(t, err)
	assert.Equal(t, 0, status)
	assert.Equal(t, tracker.Registered, rg.State())

	assert.Nil(t, rg.UnregisterRegion())
	assert.Nil(t, rg.CheckFinalState())
	assert.False(t, rec.Failed())
}

func Test_RegisterFailureLeavesRegionFree(t *testing.T) {
	rec := assertion.NewRecorder()
	rg := New("chrdev", oracle.NewReplay([]int{failure}, 0), rec)

	status, err := rg.RegisterRegion(240)
	assert.Nil(t, err)
	assert.Equal(t, -oracle.ENOMEM, status)
	assert.Equal(t, tracker.Unregistered, rg.State())
	assert.Nil(t, rg.CheckFinalState())
}

func Test_AutoAssign(t *testing.T) {
	rg := New("chrdev", oracle.NewReplay([]int{success, one}, 0), assertion.NewRecorder())
	id, err := rg.RegisterRegion(AutoAssign)
	assert.Nil(t, err)
	assert.Greater(t, id, 0)

	tape := oracle.NewReplay([]int{success, zero}, 0)
	rg = New("chrdev", tape, assertion.NewRecorder())
	_, err = rg.RegisterRegion(AutoAssign)
	assert.ErrorIs(t, err, oracle.ErrInfeasible)
	assert.True(t, tape.Infeasible())
}

func Test_DoubleRegister(t *testing.T) {
	rec := assertion.NewRecorder()
	rg := New("chrdev", oracle.NewReplay([]int{success, success}, 0), rec)

	_, err := rg.RegisterFixedRegion()
	assert.Nil(t, err)
	_, err = rg.RegisterFixedRegion()
	assert.Equal(t, invariant.RegionDoubleRegister, violationCode(t, err))
	assert.Equal(t, 1, len(rec.Violations()))
}

func Test_UnregisterFreeRegion(t *testing.T) {
	rg := New("chrdev", oracle.NewReplay(nil, 0), assertion.NewRecorder())
	err := rg.UnregisterRegion()
	assert.Equal(t, invariant.RegionNotRegistered, violationCode(t, err))
}

func Test_LeakDetection(t *testing.T) {
	rg := New("chrdev", oracle.NewReplay([]int{success}, 0), assertion.NewRecorder())
	_, err := rg.RegisterFixedRegion()
	assert.Nil(t, err)
	err = rg.CheckFinalState()
	assert.Equal(t, invariant.RegionLeaked, violationCode(t, err))
}
