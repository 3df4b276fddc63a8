// Package oracle 提供非确定值，驱动环境模型的分支选择
package oracle

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ENOMEM is the errno used as the representative failure code.
const ENOMEM = 12

// ErrInfeasible is returned by Assume when the current path contradicts an assumption.
var ErrInfeasible = errors.New("assumption does not hold on this path")

type Ptr uintptr

const Null Ptr = 0

func (p Ptr) IsNull() bool {
	return p == Null
}

type Oracle interface {
	// UndefInt returns an arbitrary integer.
	UndefInt() int
	// UndefIntNonpositive returns an arbitrary integer <= 0.
	UndefIntNonpositive() int
	// UndefPtr returns an arbitrary pointer or Null.
	UndefPtr() Ptr
	// Assume prunes the path when cond is false.
	Assume(cond bool) error
}

// 每种非确定值在穷举时使用的代表值
var (
	IntDomain         = []int{0, 1, -1}
	NonpositiveDomain = []int{0, -ENOMEM}
	PtrDomain         = []Ptr{Null, Ptr(0x1000)}
)

type Kind int

const (
	KindInt Kind = iota
	KindNonpositive
	KindPtr
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindNonpositive:
		return "nonpositive"
	case KindPtr:
		return "ptr"
	}
	return "unknown"
}

// Choice is one decision taken by the oracle on a path.
type Choice struct {
	Kind  Kind
	Index int
	Arity int
}

func (c Choice) Value() string {
	switch c.Kind {
	case KindInt:
		return fmt.Sprint(IntDomain[c.Index])
	case KindNonpositive:
		return fmt.Sprint(NonpositiveDomain[c.Index])
	case KindPtr:
		if PtrDomain[c.Index].IsNull() {
			return "NULL"
		}
		return fmt.Sprintf("%#x", uintptr(PtrDomain[c.Index]))
	}
	return "?"
}

func (c Choice) String() string {
	return fmt.Sprintf("%s=%s", c.Kind, c.Value())
}

// FormatTrail renders a decision trail, e.g. "int=1 -> nonpositive=0".
func FormatTrail(trail []Choice) string {
	if len(trail) == 0 {
		return "<no decisions>"
	}
	parts := make([]string, len(trail))
	for i := range trail {
		parts[i] = trail[i].String()
	}
	return strings.Join(parts, " -> ")
}

// Indexes returns the choice indexes of trail, usable as a replay prefix.
func Indexes(trail []Choice) []int {
	result := make([]int, len(trail))
	for i := range trail {
		result[i] = trail[i].Index
	}
	return result
}
