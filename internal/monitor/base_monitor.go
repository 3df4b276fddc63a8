package monitor

import (
	"emgcheck/internal/assertion"
	"emgcheck/internal/invariant"
	"emgcheck/internal/tracker"
)

// Event is what a hook sees about the tracker operation it is attached to.
type Event struct {
	Channel assertion.Channel
	Tracker string
	Op      tracker.Op
	State   tracker.State
	Post    bool
}

type BaseMonitor struct {
	name      string
	data      *invariant.Data // 违反时报告的性质, trace 为 nil
	preHooks  []tracker.Op    // 在这些操作执行前调用
	postHooks []tracker.Op    // 在这些操作执行后调用
}

func (bm *BaseMonitor) Execute(*Event) error {
	return nil
}

func (bm *BaseMonitor) GetName() string {
	return bm.name
}

func (bm *BaseMonitor) GetPreHooks() []tracker.Op {
	return bm.preHooks
}

func (bm *BaseMonitor) GetPostHooks() []tracker.Op {
	return bm.postHooks
}

func (bm *BaseMonitor) GetInvariant() *invariant.Data {
	return bm.data
}

func (bm *BaseMonitor) violation(ev *Event, detail string) *assertion.Violation {
	return &assertion.Violation{
		Code:    bm.data.ID,
		Tracker: ev.Tracker,
		Op:      string(ev.Op),
		Detail:  detail,
	}
}

type Monitor interface {
	Execute(*Event) error
	GetName() string
	GetPreHooks() []tracker.Op
	GetPostHooks() []tracker.Op
	GetInvariant() *invariant.Data
}
