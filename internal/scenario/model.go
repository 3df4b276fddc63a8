package scenario

import (
	"emgcheck/internal/oracle"
)

// Module is what the load/unload harness needs from a scenario.
type Module interface {
	// Init runs at load time; a nonzero status means loading failed and
	// Exit will not be called.
	Init(env *Env) (int, error)
	Exit(env *Env) error
}

// Environment is implemented by modules whose callbacks fire between load
// and unload.
type Environment interface {
	Fire(env *Env) error
}

// Model is one instantiation of a Template for a single explored path.
type Model struct {
	tpl      *Template
	didSetup bool
	bound    int // devices still probed, released at teardown
}

func NewModel(tpl *Template) *Model {
	return &Model{tpl: tpl}
}

func (m *Model) DidSetup() bool {
	return m.didSetup
}

func (m *Model) Init(env *Env) (int, error) {
	if m.tpl.AllocCanFail && env.Oracle.UndefPtr().IsNull() {
		return -oracle.ENOMEM, nil
	}
	if m.tpl.Fault == FaultEarlyCallback {
		if err := env.Tracker.InvokeCallback(); err != nil {
			return 0, err
		}
	}

	// flip a coin
	if env.Oracle.UndefInt() == 0 {
		return 0, nil
	}
	status, err := m.setup(env)
	if err != nil || status < 0 {
		return status, err
	}
	m.didSetup = true

	if m.tpl.Setup == SetupInline {
		if err := m.cycles(env); err != nil {
			return 0, err
		}
		if err := m.teardown(env); err != nil {
			return 0, err
		}
	}
	return 0, nil
}

func (m *Model) Fire(env *Env) error {
	if !m.didSetup || m.tpl.Setup == SetupInline {
		return nil
	}
	return m.cycles(env)
}

func (m *Model) Exit(env *Env) error {
	if !m.didSetup || m.tpl.Setup == SetupInline {
		return nil
	}
	return m.teardown(env)
}

func (m *Model) setup(env *Env) (int, error) {
	if m.tpl.Flavor == FlavorRegion {
		status, err := m.registerRegion(env)
		if err != nil || status < 0 || m.tpl.Fault != FaultDoubleSetup {
			return status, err
		}
		return m.registerRegion(env)
	}

	if m.tpl.RegistrationCanFail {
		if status := env.Oracle.UndefIntNonpositive(); status != 0 {
			return status, nil
		}
	}
	if err := env.Tracker.Register(); err != nil {
		return 0, err
	}
	if m.tpl.Fault == FaultDoubleSetup {
		return 0, env.Tracker.Register()
	}
	return 0, nil
}

func (m *Model) registerRegion(env *Env) (int, error) {
	if m.tpl.FixedRegion {
		return env.Region.RegisterFixedRegion()
	}
	return env.Region.RegisterRegion(m.tpl.RequestedID)
}

// cycles lets the environment fire callbacks as long as the oracle wants.
func (m *Model) cycles(env *Env) error {
	if m.tpl.Flavor != FlavorCallback {
		return nil
	}
	for i := 0; i < m.tpl.MaxCycles; i++ {
		if m.bound > 0 && !m.tpl.Predicate.Holds(m.bound) {
			// a bound device blocks further probes until teardown
			return nil
		}
		if env.Oracle.UndefInt() == 0 {
			return nil
		}
		if err := m.cycle(env); err != nil {
			return err
		}
	}
	return nil
}

func (m *Model) cycle(env *Env) error {
	if m.tpl.Callback == CallbackPlain {
		return env.Tracker.InvokeCallback()
	}

	// add/alloc callback
	if err := env.Tracker.InvokeCallback(); err != nil {
		return err
	}
	if !m.probeSucceeded(env) {
		return nil
	}
	if err := env.Tracker.ProbeUp(); err != nil {
		return err
	}
	m.bound++

	// the device may stay bound until the driver goes away
	if env.Oracle.UndefInt() == 0 {
		return nil
	}
	return m.release(env)
}

func (m *Model) probeSucceeded(env *Env) bool {
	if m.tpl.Callback == CallbackProbePtr {
		return !env.Oracle.UndefPtr().IsNull()
	}
	return env.Oracle.UndefInt() == 0
}

// release is the remove/free callback of a probed device.
func (m *Model) release(env *Env) error {
	if err := env.Tracker.ProbeDown(); err != nil {
		return err
	}
	m.bound--
	return env.Tracker.InvokeCallback()
}

func (m *Model) teardown(env *Env) error {
	if m.tpl.Fault == FaultSkipTeardown {
		return nil
	}
	if m.tpl.Flavor == FlavorRegion {
		if err := env.Region.UnregisterRegion(); err != nil {
			return err
		}
		if m.tpl.Fault == FaultDoubleTeardown {
			return env.Region.UnregisterRegion()
		}
		return nil
	}

	for m.bound > 0 {
		if err := m.release(env); err != nil {
			return err
		}
	}
	if err := env.Tracker.Deregister(); err != nil {
		return err
	}
	switch m.tpl.Fault {
	case FaultDoubleTeardown:
		return env.Tracker.Deregister()
	case FaultLateCallback:
		return env.Tracker.InvokeCallback()
	}
	return nil
}

var _ Environment = (*Model)(nil)
