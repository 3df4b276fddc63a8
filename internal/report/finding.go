package report

import (
	"fmt"

	"emgcheck/internal/assertion"
	"emgcheck/internal/invariant"
	"emgcheck/internal/oracle"

	"github.com/segmentio/fasthash/fnv1a"
)

type Finding struct {
	ID          invariant.Code `yaml:"id"`
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`

	Tracker   string `yaml:"tracker"`
	Op        string `yaml:"op"`
	Detail    string `yaml:"detail,omitempty"`
	Path      string `yaml:"path"`
	Decisions []int  `yaml:"decisions,flow"`
	Hits      int    `yaml:"hits"`
}

func NewFinding(v *assertion.Violation, trail []oracle.Choice) *Finding {
	data := invariant.Lookup(v.Code)
	return &Finding{
		ID:          v.Code,
		Title:       data.Title,
		Description: data.Description,
		Tracker:     v.Tracker,
		Op:          v.Op,
		Detail:      v.Detail,
		Path:        oracle.FormatTrail(trail),
		Decisions:   oracle.Indexes(trail),
		Hits:        1,
	}
}

// Fingerprint identifies a violation independently of the path reaching it.
func Fingerprint(v *assertion.Violation) uint64 {
	h := fnv1a.Init64
	h = fnv1a.AddString64(h, string(v.Code))
	h = fnv1a.AddString64(h, v.Tracker)
	h = fnv1a.AddString64(h, v.Op)
	return h
}

func (f *Finding) Error() string {
	return fmt.Sprintf("%s %s at %s.%s", f.ID, f.Title, f.Tracker, f.Op)
}

func (f *Finding) String() string {
	description := fmt.Sprintf("ID: %s\nTitle: %s\nDescription: %s\n\n",
		f.ID, f.Title, f.Description)
	description = Colour(31, description)

	where := fmt.Sprintf("In %s.%s (%s), seen on %d path(s)\nWitness: %s\n", f.Tracker, f.Op, f.Detail, f.Hits, f.Path)
	where = Colour(33, where)

	return fmt.Sprintf("%s%s", description, where)
}

func Colour(color int, str string) string {
	return fmt.Sprintf("\033[%dm%s\033[0m", color, str)
}
