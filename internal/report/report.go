// Package report 汇总一个场景所有探索路径上的违例
package report

import (
	"fmt"
	"strings"
	"time"

	"emgcheck/internal/assertion"
	"emgcheck/internal/invariant"
	"emgcheck/internal/oracle"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

type Report struct {
	Scenario string           `yaml:"scenario"`
	Mode     string           `yaml:"mode"`
	Strategy string           `yaml:"strategy,omitempty"`
	Config   uint64           `yaml:"config"`
	Expected []invariant.Code `yaml:"expected,omitempty,flow"`

	Paths     int  `yaml:"paths"`
	Pruned    int  `yaml:"pruned"`
	Truncated int  `yaml:"truncated"`
	Failed    int  `yaml:"failed"`
	Complete  bool `yaml:"complete"`

	Findings []*Finding `yaml:"findings"`

	Started  time.Time     `yaml:"started"`
	Duration time.Duration `yaml:"duration"`

	index map[uint64]*Finding
}

func New(scenario, mode string) *Report {
	return &Report{
		Scenario: scenario,
		Mode:     mode,
		Findings: make([]*Finding, 0),
		Started:  time.Now(),
		index:    make(map[uint64]*Finding),
	}
}

// Add records v found on the path described by trail. Repeated violations
// keep the first witness and count hits.
func (r *Report) Add(v *assertion.Violation, trail []oracle.Choice) {
	r.Failed++
	if r.index == nil {
		r.index = make(map[uint64]*Finding)
	}
	key := Fingerprint(v)
	if f, ok := r.index[key]; ok {
		f.Hits++
		return
	}
	f := NewFinding(v, trail)
	r.index[key] = f
	r.Findings = append(r.Findings, f)
}

// Codes returns the distinct invariant codes found, in discovery order.
func (r *Report) Codes() []invariant.Code {
	seen := make(map[invariant.Code]bool)
	result := make([]invariant.Code, 0)
	for _, f := range r.Findings {
		if !seen[f.ID] {
			seen[f.ID] = true
			result = append(result, f.ID)
		}
	}
	return result
}

// Unexpected returns findings whose invariant is not listed in Expected.
func (r *Report) Unexpected() []*Finding {
	expected := make(map[invariant.Code]bool, len(r.Expected))
	for _, code := range r.Expected {
		expected[code] = true
	}
	result := make([]*Finding, 0)
	for _, f := range r.Findings {
		if !expected[f.ID] {
			result = append(result, f)
		}
	}
	return result
}

// Missing returns expected invariants that no path violated.
func (r *Report) Missing() []invariant.Code {
	found := make(map[invariant.Code]bool)
	for _, f := range r.Findings {
		found[f.ID] = true
	}
	result := make([]invariant.Code, 0)
	for _, code := range r.Expected {
		if !found[code] {
			result = append(result, code)
		}
	}
	return result
}

// Err is nil when the findings match the expectations exactly.
func (r *Report) Err() error {
	var err error
	for _, f := range r.Unexpected() {
		err = multierr.Append(err, errors.Wrap(f, r.Scenario))
	}
	for _, code := range r.Missing() {
		err = multierr.Append(err, errors.Errorf("%s: expected %s %s was not found", r.Scenario, code, invariant.Lookup(code).Title))
	}
	return err
}

func (r *Report) Summary() string {
	status := Colour(32, "PASS")
	if r.Err() != nil {
		status = Colour(31, "FAIL")
	}
	return fmt.Sprintf("%s %-22s %s paths=%d pruned=%d truncated=%d failed=%d findings=%d complete=%t %v",
		status, r.Scenario, r.Mode, r.Paths, r.Pruned, r.Truncated, r.Failed, len(r.Findings), r.Complete,
		r.Duration.Round(time.Microsecond))
}

func (r *Report) String() string {
	var sb strings.Builder
	sb.WriteString(r.Summary())
	sb.WriteString("\n")
	for _, f := range r.Findings {
		sb.WriteString(f.String())
	}
	return sb.String()
}

func (r *Report) YAML() ([]byte, error) {
	return yaml.Marshal(r)
}
