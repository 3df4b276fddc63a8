package strategy

// BFS 广度优先搜索策略，先探索决策少的路径
type BFS struct {
	paths []*Path
}

func NewBFS() *BFS {
	return &BFS{
		paths: make([]*Path, 0),
	}
}

func (bfs *BFS) Size() int {
	return len(bfs.paths)
}

func (bfs *BFS) HasNext() bool {
	return len(bfs.paths) > 0
}

func (bfs *BFS) Pop() (*Path, error) {
	if len(bfs.paths) <= 0 {
		return nil, ErrEmpty
	}
	path := bfs.paths[0]
	bfs.paths[0] = nil
	bfs.paths = bfs.paths[1:]
	return path, nil
}

func (bfs *BFS) Push(paths ...*Path) error {
	bfs.paths = append(bfs.paths, paths...)
	return nil
}
