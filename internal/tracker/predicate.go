package tracker

import (
	"fmt"
)

// ProbePredicate is the condition over the probe counter that must hold
// whenever a callback fires. Which one applies depends on the subsystem.
type ProbePredicate string

const (
	Zero        ProbePredicate = "zero"
	Nonnegative ProbePredicate = "nonnegative"
	Any         ProbePredicate = "any"
)

func ParseProbePredicate(s string) (ProbePredicate, error) {
	switch p := ProbePredicate(s); p {
	case Zero, Nonnegative, Any:
		return p, nil
	case "":
		return Zero, nil
	}
	return "", fmt.Errorf("unknown probe predicate %q", s)
}

func (p ProbePredicate) Holds(probed int) bool {
	switch p {
	case Nonnegative:
		return probed >= 0
	case Any:
		return true
	}
	return probed == 0
}
