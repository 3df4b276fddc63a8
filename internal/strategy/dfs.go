package strategy

// DFS 深度优先搜索策略
type DFS struct {
	paths []*Path
}

func NewDFS() *DFS {
	return &DFS{
		paths: make([]*Path, 0),
	}
}

func (dfs *DFS) Size() int {
	return len(dfs.paths)
}

func (dfs *DFS) HasNext() bool {
	return len(dfs.paths) > 0
}

func (dfs *DFS) Pop() (*Path, error) {
	if len(dfs.paths) <= 0 {
		return nil, ErrEmpty
	}
	path := dfs.paths[len(dfs.paths)-1]
	dfs.paths = dfs.paths[:len(dfs.paths)-1]
	return path, nil
}

func (dfs *DFS) Push(paths ...*Path) error {
	dfs.paths = append(dfs.paths, paths...)
	return nil
}
