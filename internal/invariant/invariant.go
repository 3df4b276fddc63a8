// Package invariant 收录环境模型需要检查的协议性质
package invariant

type Code string

const (
	CallbackOutsideWindow Code = "EMG-101"
	CallbackProbeState    Code = "EMG-102"
	DeregisterUnpaired    Code = "EMG-103"
	DoubleDeregister      Code = "EMG-104"
	RegionDoubleRegister  Code = "EMG-201"
	RegionNotRegistered   Code = "EMG-202"
	RegionLeaked          Code = "EMG-203"
	ProbeUnderflow        Code = "EMG-301"
	ProbeLeaked           Code = "EMG-302"
)

type Data struct {
	ID          Code
	Title       string
	Description string
}

var DataMap = map[Code]*Data{
	CallbackOutsideWindow: {
		CallbackOutsideWindow,
		"Callback Outside Registration Window",
		"A callback was invoked while its callback structure was not registered, or after the deregistration function had already been called.",
	},
	CallbackProbeState: {
		CallbackProbeState,
		"Callback With Unexpected Resource Balance",
		"A callback was invoked while the number of acquired resources did not satisfy the predicate chosen by the model, e.g. a device was still probed when the callback fired.",
	},
	DeregisterUnpaired: {
		DeregisterUnpaired,
		"Deregistration Without Registration",
		"The deregistration function was called although the matching registration function was never called on the same tracker.",
	},
	DoubleDeregister: {
		DoubleDeregister,
		"Double Deregistration",
		"The deregistration function was called more than once for a single registration.",
	},
	RegionDoubleRegister: {
		RegionDoubleRegister,
		"Region Registered Twice",
		"An exclusive region was registered while it was already registered. Only a single owner may hold the region.",
	},
	RegionNotRegistered: {
		RegionNotRegistered,
		"Unregistering A Free Region",
		"An exclusive region was unregistered although it was not registered.",
	},
	RegionLeaked: {
		RegionLeaked,
		"Region Leaked At Module Exit",
		"An exclusive region was still registered when the module lifetime ended.",
	},
	ProbeUnderflow: {
		ProbeUnderflow,
		"Resource Released More Than Acquired",
		"More resources were released than were acquired by successful probes.",
	},
	ProbeLeaked: {
		ProbeLeaked,
		"Resource Outstanding At Deregistration",
		"Resources acquired by successful probes were not released before the callbacks were deregistered.",
	},
}

// Lookup returns the catalogue entry for code, or a placeholder for unknown codes.
func Lookup(code Code) *Data {
	if data, ok := DataMap[code]; ok {
		return data
	}
	return &Data{ID: code, Title: "Unknown Invariant"}
}
