package assertion

import (
	"errors"
	"testing"

	"emgcheck/internal/invariant"

	"github.com/stretchr/testify/assert"
)

func Test_RecorderAssert(t *testing.T) {
	r := NewRecorder()

	err := r.Assert(true, &Violation{Code: invariant.RegionLeaked})
	assert.Nil(t, err)
	assert.False(t, r.Failed())

	v := &Violation{Code: invariant.RegionLeaked, Tracker: "chrdev", Op: "check_final_state"}
	err = r.Assert(false, v)
	assert.NotNil(t, err)
	assert.True(t, r.Failed())
	assert.Equal(t, []*Violation{v}, r.Violations())

	var got *Violation
	assert.True(t, errors.As(err, &got))
	assert.Equal(t, invariant.RegionLeaked, got.Code)

	r.Reset()
	assert.False(t, r.Failed())
}

func Test_ViolationError(t *testing.T) {
	v := &Violation{Code: invariant.DoubleDeregister, Tracker: "md", Op: "deregister"}
	assert.Equal(t, "EMG-104 Double Deregistration: md.deregister", v.Error())

	v.Detail = "second call"
	assert.Equal(t, "EMG-104 Double Deregistration: md.deregister: second call", v.Error())
}
