package oracle

import (
	"math/rand"
)

// Tape is an Oracle that records every decision it takes. How a decision is
// taken is left to the decide function: replaying a prefix or drawing from a
// seeded source.
type Tape struct {
	decide     func(depth, arity int) int
	trail      []Choice
	maxDepth   int
	truncated  bool
	infeasible bool
}

// NewReplay replays prefix and takes the first alternative at every decision
// point after it. Decisions beyond maxDepth (when > 0) are pinned to the
// first alternative and reported with arity 1, so they are never expanded.
func NewReplay(prefix []int, maxDepth int) *Tape {
	return &Tape{
		decide: func(depth, arity int) int {
			if depth < len(prefix) && prefix[depth] < arity {
				return prefix[depth]
			}
			return 0
		},
		trail:    make([]Choice, 0, len(prefix)),
		maxDepth: maxDepth,
	}
}

// NewRandom draws every decision from a source seeded with seed.
func NewRandom(seed int64, maxDepth int) *Tape {
	rnd := rand.New(rand.NewSource(seed))
	return &Tape{
		decide: func(_, arity int) int {
			return rnd.Intn(arity)
		},
		trail:    make([]Choice, 0),
		maxDepth: maxDepth,
	}
}

func (t *Tape) choose(kind Kind, arity int) int {
	depth := len(t.trail)
	if t.maxDepth > 0 && depth >= t.maxDepth {
		t.truncated = true
		t.trail = append(t.trail, Choice{Kind: kind, Index: 0, Arity: 1})
		return 0
	}
	index := t.decide(depth, arity)
	t.trail = append(t.trail, Choice{Kind: kind, Index: index, Arity: arity})
	return index
}

func (t *Tape) UndefInt() int {
	return IntDomain[t.choose(KindInt, len(IntDomain))]
}

func (t *Tape) UndefIntNonpositive() int {
	return NonpositiveDomain[t.choose(KindNonpositive, len(NonpositiveDomain))]
}

func (t *Tape) UndefPtr() Ptr {
	return PtrDomain[t.choose(KindPtr, len(PtrDomain))]
}

func (t *Tape) Assume(cond bool) error {
	if cond {
		return nil
	}
	t.infeasible = true
	return ErrInfeasible
}

func (t *Tape) Trail() []Choice {
	return t.trail
}

func (t *Tape) Truncated() bool {
	return t.truncated
}

func (t *Tape) Infeasible() bool {
	return t.infeasible
}
