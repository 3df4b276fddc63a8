package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_PathExtend(t *testing.T) {
	root := Root()
	a := root.Extend(1)
	b := a.Extend(0)
	c := a.Extend(2)

	assert.Equal(t, 0, root.Len())
	assert.Equal(t, []int{}, root.Decisions())
	assert.Equal(t, []int{1, 0}, b.Decisions())
	assert.Equal(t, []int{1, 2}, c.Decisions())
	// extending does not touch the parent
	assert.Equal(t, []int{1}, a.Decisions())
}

func Test_DFS(t *testing.T) {
	dfs := NewDFS()
	assert.False(t, dfs.HasNext())
	_, err := dfs.Pop()
	assert.ErrorIs(t, err, ErrEmpty)

	assert.Nil(t, dfs.Push(Root().Extend(1), Root().Extend(2)))
	assert.Equal(t, 2, dfs.Size())
	p, err := dfs.Pop()
	assert.Nil(t, err)
	assert.Equal(t, []int{2}, p.Decisions())
}

func Test_BFS(t *testing.T) {
	bfs := NewBFS()
	assert.Nil(t, bfs.Push(Root().Extend(1), Root().Extend(2)))
	p, err := bfs.Pop()
	assert.Nil(t, err)
	assert.Equal(t, []int{1}, p.Decisions())
	assert.Equal(t, 1, bfs.Size())

	_, _ = bfs.Pop()
	_, err = bfs.Pop()
	assert.ErrorIs(t, err, ErrEmpty)
}

func Test_New(t *testing.T) {
	s, err := New("")
	assert.Nil(t, err)
	assert.IsType(t, &DFS{}, s)

	s, err = New("bfs")
	assert.Nil(t, err)
	assert.IsType(t, &BFS{}, s)

	_, err = New("astar")
	assert.NotNil(t, err)
}
