// Package explorer 穷举或随机地探索一个场景的所有非确定分支，收集违例
package explorer

import (
	"context"
	"fmt"
	"time"

	"emgcheck/internal/oracle"
	"emgcheck/internal/report"
	"emgcheck/internal/scenario"
	"emgcheck/internal/strategy"

	"github.com/pkg/errors"
	"github.com/segmentio/fasthash/fnv1a"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	ModeExhaustive = "exhaustive"
	ModeRandom     = "random"
)

type Options struct {
	Mode     string `mapstructure:"mode"`
	Strategy string `mapstructure:"strategy"`
	MaxDepth int    `mapstructure:"max_depth"`
	MaxPaths int    `mapstructure:"max_paths"`
	Samples  int    `mapstructure:"samples"`
	Seed     int64  `mapstructure:"seed"`
}

func DefaultOptions() Options {
	return Options{
		Mode:     ModeExhaustive,
		Strategy: "dfs",
		MaxDepth: 64,
		MaxPaths: 100000,
		Samples:  1000,
		Seed:     1,
	}
}

func (o Options) Validate() error {
	switch o.Mode {
	case ModeExhaustive, ModeRandom:
	default:
		return errors.Errorf("unknown mode %q", o.Mode)
	}
	if _, err := strategy.New(o.Strategy); err != nil {
		return err
	}
	if o.MaxDepth < 0 || o.MaxPaths < 0 || o.Samples < 0 {
		return errors.New("bounds must not be negative")
	}
	return nil
}

type Explorer struct {
	template *scenario.Template
	options  Options
	strategy strategy.Strategy
}

func NewExplorer(tpl *scenario.Template, options Options) (*Explorer, error) {
	if err := options.Validate(); err != nil {
		return nil, errors.Wrap(err, "Options.Validate")
	}
	if err := tpl.Validate(); err != nil {
		return nil, errors.Wrap(err, "Template.Validate")
	}
	s, err := strategy.New(options.Strategy)
	if err != nil {
		return nil, errors.Wrap(err, "strategy.New")
	}
	return &Explorer{
		template: tpl,
		options:  options,
		strategy: s,
	}, nil
}

// Fingerprint identifies a template together with the options it was checked with.
func Fingerprint(tpl *scenario.Template, options Options) uint64 {
	return fnv1a.HashString64(fmt.Sprintf("%+v|%+v", *tpl, options))
}

// Run explores the scenario and reports every violation found.
func (ex *Explorer) Run(ctx context.Context) (*report.Report, error) {
	log.Infof("exploring scenario %s (%s)", ex.template.Name, ex.options.Mode)
	defer log.Infof("exit scenario %s", ex.template.Name)

	r := report.New(ex.template.Name, ex.options.Mode)
	r.Expected = ex.template.Expect
	r.Config = Fingerprint(ex.template, ex.options)

	var err error
	if ex.options.Mode == ModeRandom {
		err = ex.sample(ctx, r)
	} else {
		r.Strategy = ex.options.Strategy
		err = ex.exhaust(ctx, r)
	}
	r.Duration = time.Since(r.Started)
	if err != nil {
		return r, err
	}
	log.Infof("scenario %s: %d paths, %d findings", r.Scenario, r.Paths, len(r.Findings))
	return r, nil
}

func (ex *Explorer) exhaust(ctx context.Context, r *report.Report) error {
	if err := ex.strategy.Push(strategy.Root()); err != nil {
		return errors.Wrap(err, "Push")
	}
	for ex.strategy.HasNext() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if ex.options.MaxPaths > 0 && r.Paths >= ex.options.MaxPaths {
			log.Warnf("scenario %s: path limit %d reached", r.Scenario, ex.options.MaxPaths)
			return nil
		}
		path, err := ex.strategy.Pop()
		if err != nil {
			return errors.Wrap(err, "Pop")
		}
		tape := oracle.NewReplay(path.Decisions(), ex.options.MaxDepth)
		if err := ex.runPath(tape, r); err != nil {
			return err
		}
		if err := ex.strategy.Push(siblings(path, tape.Trail())...); err != nil {
			return errors.Wrap(err, "Push")
		}
	}
	r.Complete = r.Truncated == 0
	return nil
}

// siblings returns the unexplored alternatives of every decision taken after
// the replayed prefix.
func siblings(path *strategy.Path, trail []oracle.Choice) []*strategy.Path {
	var (
		result = make([]*strategy.Path, 0)
		base   = path
	)
	for depth := path.Len(); depth < len(trail); depth++ {
		for alt := 1; alt < trail[depth].Arity; alt++ {
			result = append(result, base.Extend(alt))
		}
		base = base.Extend(trail[depth].Index)
	}
	return result
}

func (ex *Explorer) sample(ctx context.Context, r *report.Report) error {
	for i := 0; i < ex.options.Samples; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		tape := oracle.NewRandom(ex.options.Seed+int64(i), ex.options.MaxDepth)
		if err := ex.runPath(tape, r); err != nil {
			return err
		}
	}
	return nil
}

func (ex *Explorer) runPath(tape *oracle.Tape, r *report.Report) error {
	out, rec, err := scenario.RunPath(ex.template, tape)
	if err != nil {
		return errors.Wrapf(err, "RunPath")
	}
	r.Paths++
	if out.Pruned {
		r.Pruned++
	}
	if tape.Truncated() {
		r.Truncated++
	}
	for _, v := range rec.Violations() {
		r.Add(v, tape.Trail())
	}
	log.Debugf("%s path %d [%s]: status=%d pruned=%t err=%v",
		r.Scenario, r.Paths, oracle.FormatTrail(tape.Trail()), out.Status, out.Pruned, out.Err)
	return nil
}

// CheckAll explores every template, at most workers at a time. Reports are
// returned in template order.
func CheckAll(ctx context.Context, templates []*scenario.Template, options Options, workers int) ([]*report.Report, error) {
	reports := make([]*report.Report, len(templates))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i := range templates {
		i := i
		g.Go(func() error {
			ex, err := NewExplorer(templates[i], options)
			if err != nil {
				return errors.Wrapf(err, "NewExplorer %s", templates[i].Name)
			}
			r, err := ex.Run(ctx)
			if err != nil {
				return errors.Wrapf(err, "Run %s", templates[i].Name)
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}
