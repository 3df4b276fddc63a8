package scenario

import (
	"sort"

	"emgcheck/internal/invariant"
	"emgcheck/internal/region"
	"emgcheck/internal/tracker"

	"github.com/pkg/errors"
)

var probeMonitors = []string{"probe-underflow", "probe-leak"}

// 每个子系统一个模型，后面几个故意带缺陷，用来确认对应的性质能被发现
var builtins = []*Template{
	{
		Name:                "tty",
		Subsystem:           "tty_driver",
		Flavor:              FlavorCallback,
		Setup:               SetupInline,
		AllocCanFail:        true,
		RegistrationCanFail: true,
		MaxCycles:           2,
		Callback:            CallbackPlain,
		Predicate:           tracker.Zero,
	},
	{
		Name:                "class",
		Subsystem:           "class_interface",
		Flavor:              FlavorCallback,
		Setup:               SetupDeferred,
		RegistrationCanFail: true,
		MaxCycles:           2,
		Callback:            CallbackProbeInt,
		Predicate:           tracker.Zero,
		Monitors:            probeMonitors,
	},
	{
		Name:         "workqueue",
		Subsystem:    "workqueue",
		Flavor:       FlavorCallback,
		Setup:        SetupDeferred,
		AllocCanFail: true,
		MaxCycles:    1,
		Callback:     CallbackPlain,
		Predicate:    tracker.Zero,
	},
	{
		Name:                "md_personality",
		Subsystem:           "md_personality",
		Flavor:              FlavorCallback,
		Setup:               SetupDeferred,
		RegistrationCanFail: true,
		MaxCycles:           2,
		Callback:            CallbackPlain,
		Predicate:           tracker.Zero,
	},
	{
		Name:                "target_backend",
		Subsystem:           "target_backend_ops",
		Flavor:              FlavorCallback,
		Setup:               SetupDeferred,
		RegistrationCanFail: true,
		MaxCycles:           2,
		Callback:            CallbackProbePtr,
		Predicate:           tracker.Zero,
		Monitors:            probeMonitors,
	},
	{
		Name:        "chrdev",
		Subsystem:   "usb_gadget_chrdev",
		Flavor:      FlavorRegion,
		Setup:       SetupDeferred,
		RequestedID: region.AutoAssign,
		Callback:    CallbackPlain,
		Predicate:   tracker.Zero,
	},
	{
		Name:        "chrdev_region",
		Subsystem:   "usb_gadget_chrdev",
		Flavor:      FlavorRegion,
		Setup:       SetupDeferred,
		FixedRegion: true,
		Callback:    CallbackPlain,
		Predicate:   tracker.Zero,
	},
	{
		Name:      "chrdev_leak",
		Subsystem: "usb_gadget_chrdev",
		Flavor:    FlavorRegion,
		Setup:     SetupDeferred,
		Callback:  CallbackPlain,
		Predicate: tracker.Zero,
		Fault:     FaultSkipTeardown,
		Expect:    []invariant.Code{invariant.RegionLeaked},
	},
	{
		Name:        "chrdev_double",
		Subsystem:   "usb_gadget_chrdev",
		Flavor:      FlavorRegion,
		Setup:       SetupDeferred,
		FixedRegion: true,
		Callback:    CallbackPlain,
		Predicate:   tracker.Zero,
		Fault:       FaultDoubleSetup,
		Expect:      []invariant.Code{invariant.RegionDoubleRegister, invariant.RegionLeaked},
	},
	{
		Name:      "class_early_callback",
		Subsystem: "class_interface",
		Flavor:    FlavorCallback,
		Setup:     SetupDeferred,
		MaxCycles: 1,
		Callback:  CallbackProbeInt,
		Predicate: tracker.Zero,
		Fault:     FaultEarlyCallback,
		Expect:    []invariant.Code{invariant.CallbackOutsideWindow},
	},
	{
		Name:      "md_double_deregister",
		Subsystem: "md_personality",
		Flavor:    FlavorCallback,
		Setup:     SetupDeferred,
		MaxCycles: 1,
		Callback:  CallbackPlain,
		Predicate: tracker.Zero,
		Fault:     FaultDoubleTeardown,
		Expect:    []invariant.Code{invariant.DoubleDeregister},
	},
	{
		Name:      "target_late_callback",
		Subsystem: "target_backend_ops",
		Flavor:    FlavorCallback,
		Setup:     SetupDeferred,
		MaxCycles: 1,
		Callback:  CallbackProbePtr,
		Predicate: tracker.Zero,
		Fault:     FaultLateCallback,
		Monitors:  probeMonitors,
		Expect:    []invariant.Code{invariant.CallbackOutsideWindow},
	},
}

// Builtins returns fresh copies of the built-in presets.
func Builtins() []*Template {
	result := make([]*Template, len(builtins))
	for i := range builtins {
		result[i] = builtins[i].Clone()
	}
	return result
}

// Catalog is a named set of templates.
type Catalog struct {
	templates map[string]*Template
}

// NewCatalog starts from the built-in presets and adds or replaces extra.
func NewCatalog(extra ...*Template) (*Catalog, error) {
	c := &Catalog{
		templates: make(map[string]*Template),
	}
	for _, tpl := range Builtins() {
		c.templates[tpl.Name] = tpl
	}
	for _, tpl := range extra {
		tpl = tpl.Clone()
		tpl.Normalize()
		if err := tpl.Validate(); err != nil {
			return nil, errors.Wrap(err, "Validate")
		}
		c.templates[tpl.Name] = tpl
	}
	return c, nil
}

func (c *Catalog) Get(name string) (*Template, error) {
	tpl, ok := c.templates[name]
	if !ok {
		return nil, errors.Errorf("unknown scenario %q", name)
	}
	return tpl.Clone(), nil
}

// Select returns the named templates, or all of them sorted by name when
// names is empty.
func (c *Catalog) Select(names ...string) ([]*Template, error) {
	if len(names) == 0 {
		names = c.Names()
	}
	result := make([]*Template, 0, len(names))
	for _, name := range names {
		tpl, err := c.Get(name)
		if err != nil {
			return nil, err
		}
		result = append(result, tpl)
	}
	return result, nil
}

func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.templates))
	for name := range c.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
