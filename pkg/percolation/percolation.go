// Package percolation 模拟 rows x cols 网格上的渗流
//
// 网格坐标从 1 开始，(r, c) 映射到一维下标 (r-1)*cols + (c-1)
// 内部维护两个独立的并查集:
//
//   - grid: 带虚拟顶部和虚拟底部，只用来回答 Percolates
//   - fullness: 只有虚拟顶部，只用来回答 IsFull
//
// fullness 中永远不会有节点和虚拟底部合并，否则底部连通会“回流”，
// 把只和底部相连的格子误判为 full
//
// Percolation 不是并发安全的
package percolation

import (
	"fmt"

	"percolation_tool/pkg/unionfind"

	"github.com/bits-and-blooms/bitset"
)

// Site 是一个 1 起始的网格坐标
type Site struct {
	Row int
	Col int
}

func (s Site) String() string {
	return fmt.Sprintf("(%d,%d)", s.Row, s.Col)
}

// 上下左右四个方向
var neighborOffsets = [4][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}

// Percolation 记录哪些格子是打开的，并维护连通关系
type Percolation struct {
	rows, cols int
	grid       *unionfind.UnionFind
	fullness   *unionfind.UnionFind
	open       *bitset.BitSet
	openCount  int
}

// MaxSites 是单个网格允许的最大格子数，rows*cols 超过它时 New 返回 ErrInvalidSize
const MaxSites = 1 << 26

// New 创建一个所有格子都关闭的网格
func New(rows, cols int) (*Percolation, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%w: rows=%d cols=%d", ErrInvalidSize, rows, cols)
	}
	// 先除后比，rows*cols 不会溢出
	if rows > MaxSites/cols {
		return nil, fmt.Errorf("%w: rows=%d cols=%d 超过最大格子数 %d", ErrInvalidSize, rows, cols, MaxSites)
	}
	p := &Percolation{rows: rows, cols: cols}
	if err := p.init(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Percolation) init() error {
	n := p.rows * p.cols
	// 多出来的两个元素是虚拟顶部 n 和虚拟底部 n+1
	grid, err := unionfind.NewUnionFind(n + 2)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSize, err)
	}
	// 没有虚拟底部
	fullness, err := unionfind.NewUnionFind(n + 1)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSize, err)
	}
	p.grid = grid
	p.fullness = fullness
	p.open = bitset.New(uint(n))
	p.openCount = 0
	return nil
}

// Rows 返回行数
func (p *Percolation) Rows() int { return p.rows }

// Cols 返回列数
func (p *Percolation) Cols() int { return p.cols }

// Reset 回到刚构造时的状态
func (p *Percolation) Reset() {
	// 尺寸在构造时已经校验过，这里不会失败
	_ = p.init()
}

func (p *Percolation) virtualTop() int    { return p.rows * p.cols }
func (p *Percolation) virtualBottom() int { return p.rows*p.cols + 1 }

func (p *Percolation) validate(row, col int) error {
	switch {
	case row > p.rows:
		return &RangeError{Axis: "row", Value: row, Limit: p.rows, TooLarge: true}
	case row < 1:
		return &RangeError{Axis: "row", Value: row, Limit: p.rows}
	case col > p.cols:
		return &RangeError{Axis: "col", Value: col, Limit: p.cols, TooLarge: true}
	case col < 1:
		return &RangeError{Axis: "col", Value: col, Limit: p.cols}
	}
	return nil
}

// index 不做校验，调用前必须先 validate
func (p *Percolation) index(row, col int) int {
	return (row-1)*p.cols + (col - 1)
}

func (p *Percolation) inBounds(row, col int) bool {
	return row >= 1 && row <= p.rows && col >= 1 && col <= p.cols
}

func (p *Percolation) isOpen(idx int) bool {
	return p.open.Test(uint(idx))
}

// Open 打开格子 (row, col)，已经打开时什么都不做
func (p *Percolation) Open(row, col int) error {
	if err := p.validate(row, col); err != nil {
		return err
	}
	idx := p.index(row, col)
	if p.isOpen(idx) {
		return nil
	}

	for _, d := range neighborOffsets {
		nr, nc := row+d[0], col+d[1]
		if !p.inBounds(nr, nc) {
			continue
		}
		nIdx := p.index(nr, nc)
		if !p.isOpen(nIdx) {
			continue
		}
		p.grid.Union(idx, nIdx)
		p.fullness.Union(idx, nIdx)
	}
	if row == 1 {
		p.grid.Union(p.virtualTop(), idx)
		p.fullness.Union(p.virtualTop(), idx)
	}
	// 只有 grid 连到虚拟底部
	if row == p.rows {
		p.grid.Union(p.virtualBottom(), idx)
	}

	// 打开标志最后写
	p.open.Set(uint(idx))
	p.openCount++
	return nil
}

// OpenSite 等价于 Open(s.Row, s.Col)
func (p *Percolation) OpenSite(s Site) error {
	return p.Open(s.Row, s.Col)
}

// IsOpen 判断格子是否已打开
func (p *Percolation) IsOpen(row, col int) (bool, error) {
	if err := p.validate(row, col); err != nil {
		return false, err
	}
	return p.isOpen(p.index(row, col)), nil
}

// IsFull 判断格子是否通过打开的格子连到了顶部
func (p *Percolation) IsFull(row, col int) (bool, error) {
	if err := p.validate(row, col); err != nil {
		return false, err
	}
	idx := p.index(row, col)
	if !p.isOpen(idx) {
		return false, nil
	}
	return p.fullness.Connected(idx, p.virtualTop()), nil
}

// NumberOfOpenSites 返回已打开的格子数
func (p *Percolation) NumberOfOpenSites() int {
	return p.openCount
}

// Percolates 判断顶部和底部是否已经连通
// 一旦返回 true 之后永远是 true
func (p *Percolation) Percolates() bool {
	return p.grid.Connected(p.virtualTop(), p.virtualBottom())
}
