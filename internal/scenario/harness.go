package scenario

import (
	"emgcheck/internal/assertion"
	"emgcheck/internal/monitor"
	"emgcheck/internal/oracle"
	"emgcheck/internal/region"
	"emgcheck/internal/tracker"

	"github.com/pkg/errors"
)

// Env holds the per-path state a model runs against. Nothing in it is
// shared between paths.
type Env struct {
	Oracle   oracle.Oracle
	Channel  assertion.Channel
	Tracker  *tracker.Tracker
	Region   *region.Tracker
	Monitors *monitor.Manager
}

func NewEnv(tpl *Template, o oracle.Oracle, channel assertion.Channel) (*Env, error) {
	env := &Env{
		Oracle:   o,
		Channel:  channel,
		Monitors: monitor.NewManager(channel),
	}
	for _, name := range tpl.Monitors {
		m, err := monitor.New(name)
		if err != nil {
			return nil, errors.Wrapf(err, "monitor.New")
		}
		env.Monitors.AddMonitor(m)
	}
	env.Tracker = tracker.New(tpl.TrackerName(), channel,
		tracker.WithPredicate(tpl.Predicate),
		tracker.WithObserver(env.Monitors))
	if tpl.Flavor == FlavorRegion {
		env.Region = region.New(tpl.TrackerName(), o, channel)
	}
	return env, nil
}

// Outcome is the result of running one path.
type Outcome struct {
	Status int
	Loaded bool
	Pruned bool
	// Err is the violation that ended the path, nil when it passed.
	Err error
}

func (o Outcome) Violation() *assertion.Violation {
	var v *assertion.Violation
	if errors.As(o.Err, &v) {
		return v
	}
	return nil
}

// Run drives mod through load, environment and unload, then performs the
// end-of-lifetime checks.
func Run(mod Module, env *Env) Outcome {
	var out Outcome
	status, err := mod.Init(env)
	out.Status = status
	if err == nil && status == 0 {
		out.Loaded = true
		if e, ok := mod.(Environment); ok {
			err = e.Fire(env)
		}
		if err == nil {
			err = mod.Exit(env)
		}
	}
	if err == nil && env.Region != nil {
		err = env.Region.CheckFinalState()
	}
	if errors.Is(err, oracle.ErrInfeasible) {
		out.Pruned = true
		return out
	}
	out.Err = err
	return out
}

// RunPath instantiates tpl and runs it once against o.
func RunPath(tpl *Template, o oracle.Oracle) (Outcome, *assertion.Recorder, error) {
	rec := assertion.NewRecorder()
	env, err := NewEnv(tpl, o, rec)
	if err != nil {
		return Outcome{}, nil, err
	}
	return Run(NewModel(tpl), env), rec, nil
}
