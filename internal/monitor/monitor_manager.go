// Package monitor 在 tracker 操作前后挂载由模型作者选择的附加性质
package monitor

import (
	"emgcheck/internal/assertion"
	"emgcheck/internal/tracker"
)

type Hook func(*Event) error

// Manager dispatches tracker operations to the hooks registered for them.
// It implements tracker.Observer.
type Manager struct {
	channel   assertion.Channel
	Monitors  []Monitor
	PreHooks  map[tracker.Op][]Hook
	PostHooks map[tracker.Op][]Hook
}

func NewManager(channel assertion.Channel) *Manager {
	return &Manager{
		channel:   channel,
		Monitors:  make([]Monitor, 0),
		PreHooks:  make(map[tracker.Op][]Hook),
		PostHooks: make(map[tracker.Op][]Hook),
	}
}

func (mm *Manager) AddMonitor(m Monitor) {
	mm.Monitors = append(mm.Monitors, m)
	for _, op := range m.GetPreHooks() {
		mm.PreHooks[op] = append(mm.PreHooks[op], m.Execute)
	}
	for _, op := range m.GetPostHooks() {
		mm.PostHooks[op] = append(mm.PostHooks[op], m.Execute)
	}
}

func (mm *Manager) Before(name string, op tracker.Op, s tracker.State) error {
	return mm.dispatch(mm.PreHooks[op], &Event{Channel: mm.channel, Tracker: name, Op: op, State: s})
}

func (mm *Manager) After(name string, op tracker.Op, s tracker.State) error {
	return mm.dispatch(mm.PostHooks[op], &Event{Channel: mm.channel, Tracker: name, Op: op, State: s, Post: true})
}

func (mm *Manager) dispatch(hooks []Hook, ev *Event) error {
	for _, hook := range hooks {
		if err := hook(ev); err != nil {
			return err
		}
	}
	return nil
}
