// Package region models an exclusive single-slot resource such as a char
// device number range: at most one owner may hold it at a time, and it must
// be released before the module goes away.
package region

import (
	"emgcheck/internal/assertion"
	"emgcheck/internal/invariant"
	"emgcheck/internal/oracle"
	"emgcheck/internal/tracker"

	log "github.com/sirupsen/logrus"
)

// AutoAssign asks RegisterRegion to allocate an identifier.
const AutoAssign = 0

const (
	OpRegisterRegion   = "register_region"
	OpUnregisterRegion = "unregister_region"
	OpCheckFinalState  = "check_final_state"
)

type Tracker struct {
	name    string
	oracle  oracle.Oracle
	channel assertion.Channel
	state   tracker.RegistrationState
}

func New(name string, o oracle.Oracle, channel assertion.Channel) *Tracker {
	return &Tracker{
		name:    name,
		oracle:  o,
		channel: channel,
		state:   tracker.Unregistered,
	}
}

func (t *Tracker) Name() string {
	return t.name
}

func (t *Tracker) State() tracker.RegistrationState {
	return t.state
}

// RegisterRegion registers the region in the nondeterministic way. A zero
// status is success; on success with requestedID == AutoAssign the allocated
// positive identifier is returned instead.
func (t *Tracker) RegisterRegion(requestedID int) (int, error) {
	status, err := t.register()
	if err != nil || status != 0 {
		return status, err
	}
	if requestedID == AutoAssign {
		id := t.oracle.UndefInt()
		if err := t.oracle.Assume(id > 0); err != nil {
			return 0, err
		}
		log.Debugf("%s: allocated id %d", t.name, id)
		return id, nil
	}
	return status, nil
}

// RegisterFixedRegion registers a region whose bounds the caller already owns.
func (t *Tracker) RegisterFixedRegion() (int, error) {
	return t.register()
}

func (t *Tracker) register() (int, error) {
	status := t.oracle.UndefIntNonpositive()
	if status != 0 {
		log.Debugf("%s: registration failed with %d", t.name, status)
		return status, nil
	}
	err := t.assert(t.state == tracker.Unregistered, invariant.RegionDoubleRegister, OpRegisterRegion)
	if err != nil {
		return status, err
	}
	t.state = tracker.Registered
	return status, nil
}

func (t *Tracker) UnregisterRegion() error {
	if err := t.assert(t.state == tracker.Registered, invariant.RegionNotRegistered, OpUnregisterRegion); err != nil {
		return err
	}
	t.state = tracker.Unregistered
	return nil
}

// CheckFinalState is run once the module lifetime is over.
func (t *Tracker) CheckFinalState() error {
	return t.assert(t.state == tracker.Unregistered, invariant.RegionLeaked, OpCheckFinalState)
}

func (t *Tracker) assert(cond bool, code invariant.Code, op string) error {
	return t.channel.Assert(cond, &assertion.Violation{
		Code:    code,
		Tracker: t.name,
		Op:      op,
		Detail:  t.state.String(),
	})
}
