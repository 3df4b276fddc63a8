// Package scenario 环境模型模板：可能执行 setup，执行了就在之后 teardown，
// 每次回调和程序结束时检查协议
package scenario

import (
	"emgcheck/internal/invariant"
	"emgcheck/internal/monitor"
	"emgcheck/internal/tracker"

	"github.com/pkg/errors"
)

type Flavor string

const (
	FlavorCallback Flavor = "callback"
	FlavorRegion   Flavor = "region"
)

type SetupMode string

const (
	// SetupDeferred registers in init and tears down in exit.
	SetupDeferred SetupMode = "deferred"
	// SetupInline registers, runs callbacks and tears down inside init.
	SetupInline SetupMode = "inline"
)

type CallbackKind string

const (
	CallbackPlain    CallbackKind = "plain"
	CallbackProbeInt CallbackKind = "probe-int"
	CallbackProbePtr CallbackKind = "probe-ptr"
)

// Fault injects a driver bug so that defective presets can show each
// invariant being caught.
type Fault string

const (
	FaultNone           Fault = ""
	FaultSkipTeardown   Fault = "skip-teardown"
	FaultDoubleTeardown Fault = "double-teardown"
	FaultDoubleSetup    Fault = "double-setup"
	FaultEarlyCallback  Fault = "early-callback"
	FaultLateCallback   Fault = "late-callback"
)

type Template struct {
	Name                string                 `mapstructure:"name" yaml:"name"`
	Subsystem           string                 `mapstructure:"subsystem" yaml:"subsystem"`
	Flavor              Flavor                 `mapstructure:"flavor" yaml:"flavor"`
	Setup               SetupMode              `mapstructure:"setup" yaml:"setup"`
	AllocCanFail        bool                   `mapstructure:"alloc_can_fail" yaml:"alloc_can_fail"`
	RegistrationCanFail bool                   `mapstructure:"registration_can_fail" yaml:"registration_can_fail"`
	MaxCycles           int                    `mapstructure:"max_cycles" yaml:"max_cycles"`
	Callback            CallbackKind           `mapstructure:"callback" yaml:"callback"`
	Predicate           tracker.ProbePredicate `mapstructure:"predicate" yaml:"predicate"`
	RequestedID         int                    `mapstructure:"requested_id" yaml:"requested_id"`
	FixedRegion         bool                   `mapstructure:"fixed_region" yaml:"fixed_region"`
	Fault               Fault                  `mapstructure:"fault" yaml:"fault,omitempty"`
	Monitors            []string               `mapstructure:"monitors" yaml:"monitors,omitempty"`
	Expect              []invariant.Code       `mapstructure:"expect" yaml:"expect,omitempty"`
}

// TrackerName is the name violations are reported under.
func (tpl *Template) TrackerName() string {
	if tpl.Subsystem != "" {
		return tpl.Subsystem
	}
	return tpl.Name
}

// Normalize fills in defaults for fields left empty.
func (tpl *Template) Normalize() {
	if tpl.Flavor == "" {
		tpl.Flavor = FlavorCallback
	}
	if tpl.Setup == "" {
		tpl.Setup = SetupDeferred
	}
	if tpl.Callback == "" {
		tpl.Callback = CallbackPlain
	}
	if tpl.Predicate == "" {
		tpl.Predicate = tracker.Zero
	}
}

func (tpl *Template) Validate() error {
	if tpl.Name == "" {
		return errors.New("template without name")
	}
	switch tpl.Flavor {
	case FlavorCallback, FlavorRegion:
	default:
		return errors.Errorf("%s: unknown flavor %q", tpl.Name, tpl.Flavor)
	}
	switch tpl.Setup {
	case SetupDeferred, SetupInline:
	default:
		return errors.Errorf("%s: unknown setup mode %q", tpl.Name, tpl.Setup)
	}
	switch tpl.Callback {
	case CallbackPlain, CallbackProbeInt, CallbackProbePtr:
	default:
		return errors.Errorf("%s: unknown callback kind %q", tpl.Name, tpl.Callback)
	}
	if _, err := tracker.ParseProbePredicate(string(tpl.Predicate)); err != nil {
		return errors.Wrap(err, tpl.Name)
	}
	if tpl.MaxCycles < 0 {
		return errors.Errorf("%s: negative max_cycles", tpl.Name)
	}
	switch tpl.Fault {
	case FaultNone, FaultSkipTeardown, FaultDoubleTeardown, FaultDoubleSetup:
	case FaultEarlyCallback, FaultLateCallback:
		if tpl.Flavor != FlavorCallback {
			return errors.Errorf("%s: fault %q needs the callback flavor", tpl.Name, tpl.Fault)
		}
	default:
		return errors.Errorf("%s: unknown fault %q", tpl.Name, tpl.Fault)
	}
	for _, name := range tpl.Monitors {
		if _, err := monitor.New(name); err != nil {
			return errors.Wrap(err, tpl.Name)
		}
	}
	for _, code := range tpl.Expect {
		if _, ok := invariant.DataMap[code]; !ok {
			return errors.Errorf("%s: unknown invariant %q", tpl.Name, code)
		}
	}
	return nil
}

func (tpl *Template) Clone() *Template {
	clone := *tpl
	clone.Monitors = append([]string(nil), tpl.Monitors...)
	clone.Expect = append([]invariant.Code(nil), tpl.Expect...)
	return &clone
}
