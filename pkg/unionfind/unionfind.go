package unionfind

import "errors"

// ErrInvalidSize 元素个数小于 1 时返回
var ErrInvalidSize = errors.New("unionfind: 元素个数必须 >= 1")

// UnionFind 是固定大小的并查集，元素编号范围为 [0, n)
// 查找时做路径减半，合并时按集合大小合并
// 注意: Find 会修改 parent，即使是只读的查询也不能跨 goroutine 共享
type UnionFind struct {
	parent []int
	size   []int // 只有根节点上的值有意义
	count  int   // 当前剩余的集合个数
}

// NewUnionFind 初始化并查集，每个元素自成一个集合
func NewUnionFind(n int) (*UnionFind, error) {
	if n < 1 {
		return nil, ErrInvalidSize
	}
	parent := make([]int, n)
	size := make([]int, n)
	for i := range parent {
		parent[i] = i
		size[i] = 1
	}
	return &UnionFind{parent: parent, size: size, count: n}, nil
}

// Find 查找元素所在集合的根节点
// 沿途把每个节点指向它的祖父节点(路径减半)，不需要第二遍回写
// 越界下标直接 panic，下标空间完全由调用方控制
func (uf *UnionFind) Find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

// Union 合并 x 和 y 所在的集合，已经连通时返回 false
// 小树挂到大树下面，大小相同时 y 的根挂到 x 的根下面
func (uf *UnionFind) Union(x, y int) bool {
	rootX := uf.Find(x)
	rootY := uf.Find(y)
	if rootX == rootY {
		return false
	}

	if uf.size[rootX] < uf.size[rootY] {
		uf.parent[rootX] = rootY
		uf.size[rootY] += uf.size[rootX]
	} else {
		uf.parent[rootY] = rootX
		uf.size[rootX] += uf.size[rootY]
	}
	uf.count--
	return true
}

// Connected 判断两个元素是否在同一个集合
func (uf *UnionFind) Connected(x, y int) bool {
	return uf.Find(x) == uf.Find(y)
}

// Size 返回某个元素所在集合的大小
func (uf *UnionFind) Size(x int) int {
	return uf.size[uf.Find(x)]
}

// Count 返回剩余的不相交集合个数
func (uf *UnionFind) Count() int {
	return uf.count
}

// Len 返回元素总数，构造后不变
func (uf *UnionFind) Len() int {
	return len(uf.parent)
}
