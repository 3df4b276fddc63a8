// Package assertion 断言通道：把不满足的协议性质记录为 Violation
package assertion

import (
	"fmt"

	"emgcheck/internal/invariant"

	log "github.com/sirupsen/logrus"
)

// Violation 一次不满足的断言
type Violation struct {
	Code    invariant.Code
	Tracker string
	Op      string
	Detail  string
}

func (v *Violation) Error() string {
	data := invariant.Lookup(v.Code)
	if v.Detail == "" {
		return fmt.Sprintf("%s %s: %s.%s", v.Code, data.Title, v.Tracker, v.Op)
	}
	return fmt.Sprintf("%s %s: %s.%s: %s", v.Code, data.Title, v.Tracker, v.Op, v.Detail)
}

type Channel interface {
	// Assert records v and returns it as an error when cond is false.
	Assert(cond bool, v *Violation) error
}

// Recorder collects every violation asserted on one explored path.
type Recorder struct {
	violations []*Violation
}

func NewRecorder() *Recorder {
	return &Recorder{
		violations: make([]*Violation, 0),
	}
}

func (r *Recorder) Assert(cond bool, v *Violation) error {
	if cond {
		return nil
	}
	log.Debugf("assertion failed: %v", v)
	r.violations = append(r.violations, v)
	return v
}

func (r *Recorder) Violations() []*Violation {
	return r.violations
}

func (r *Recorder) Failed() bool {
	return len(r.violations) > 0
}

func (r *Recorder) Reset() {
	r.violations = r.violations[:0]
}
