// Package strategy 实现路径前缀的处理策略
package strategy

import (
	"github.com/benbjohnson/immutable"
	"github.com/pkg/errors"
)

var ErrEmpty = errors.New("path queue is empty")

// Path is a decision prefix that still has to be explored. Extending a path
// shares the prefix with its parent.
type Path struct {
	decisions *immutable.List[int]
}

func Root() *Path {
	return &Path{
		decisions: immutable.NewList[int](),
	}
}

func (p *Path) Extend(choice int) *Path {
	return &Path{
		decisions: p.decisions.Append(choice),
	}
}

func (p *Path) Len() int {
	return p.decisions.Len()
}

func (p *Path) Decisions() []int {
	result := make([]int, 0, p.decisions.Len())
	itr := p.decisions.Iterator()
	for !itr.Done() {
		_, choice := itr.Next()
		result = append(result, choice)
	}
	return result
}

type Strategy interface {
	Size() int
	HasNext() bool
	Pop() (*Path, error)
	Push(...*Path) error
}

// New returns the strategy registered under name.
func New(name string) (Strategy, error) {
	switch name {
	case "", "dfs":
		return NewDFS(), nil
	case "bfs":
		return NewBFS(), nil
	}
	return nil, errors.Errorf("unknown strategy %q", name)
}
