package unionfind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUnionFindInvalidSize(t *testing.T) {
	for _, n := range []int{0, -1, -100} {
		uf, err := NewUnionFind(n)
		assert.ErrorIs(t, err, ErrInvalidSize, "n=%d", n)
		assert.Nil(t, uf)
	}
}

func TestUnionFind(t *testing.T) {
	uf, err := NewUnionFind(10)
	require.NoError(t, err)

	// 初始状态：每个元素独立
	assert.False(t, uf.Connected(1, 2), "Expected 1 and 2 not connected")
	assert.Equal(t, 10, uf.Count())
	assert.Equal(t, 10, uf.Len())

	// 合并 1 和 2
	assert.True(t, uf.Union(1, 2))
	assert.True(t, uf.Connected(1, 2), "Expected 1 and 2 connected")

	// 合并 2 和 3
	uf.Union(2, 3)
	assert.True(t, uf.Connected(1, 3), "Expected 1 and 3 connected")

	// 检查集合大小
	assert.Equal(t, 3, uf.Size(1))
	assert.Equal(t, 3, uf.Size(3))

	// 合并不同集合
	uf.Union(4, 5)
	assert.True(t, uf.Connected(4, 5))

	// 检查未合并的元素
	assert.False(t, uf.Connected(1, 4), "Expected 1 and 4 not connected")
	assert.Equal(t, 10-3, uf.Count())
	assert.Equal(t, 10, uf.Len())
}

func TestUnionAlreadyConnected(t *testing.T) {
	uf, err := NewUnionFind(4)
	require.NoError(t, err)

	require.True(t, uf.Union(0, 1))
	assert.False(t, uf.Union(1, 0))
	assert.False(t, uf.Union(0, 0))
	assert.Equal(t, 2, uf.Size(0))
	assert.Equal(t, 3, uf.Count())
}

func TestUnionBySizeTieBreak(t *testing.T) {
	uf, err := NewUnionFind(4)
	require.NoError(t, err)

	// 大小相同时第二个参数的根挂到第一个参数的根下面
	uf.Union(2, 3)
	assert.Equal(t, 2, uf.Find(3))
	assert.Equal(t, 2, uf.Find(2))

	// 小集合挂到大集合下面，无论参数顺序
	uf.Union(0, 2)
	assert.Equal(t, 2, uf.Find(0))
	assert.Equal(t, 3, uf.Size(0))
}

func TestSingleElement(t *testing.T) {
	uf, err := NewUnionFind(1)
	require.NoError(t, err)

	assert.Equal(t, 0, uf.Find(0))
	assert.True(t, uf.Connected(0, 0))
	assert.False(t, uf.Union(0, 0))
	assert.Equal(t, 1, uf.Count())
}

func TestFindOutOfRangePanics(t *testing.T) {
	uf, err := NewUnionFind(3)
	require.NoError(t, err)

	assert.Panics(t, func() { uf.Find(3) })
	assert.Panics(t, func() { uf.Find(-1) })
}

func TestPathHalving(t *testing.T) {
	uf, err := NewUnionFind(5)
	require.NoError(t, err)

	// 手工构造一条链 4 -> 3 -> 2 -> 1 -> 0
	for i := 1; i < 5; i++ {
		uf.parent[i] = i - 1
	}
	uf.size[0] = 5

	assert.Equal(t, 0, uf.Find(4))
	// 路径减半后 4 指向 2，2 指向 0
	assert.Equal(t, 2, uf.parent[4])
	assert.Equal(t, 0, uf.parent[2])
	// 3 和 1 不在减半路径上
	assert.Equal(t, 2, uf.parent[3])
	assert.Equal(t, 0, uf.parent[1])

	for i := 0; i < 5; i++ {
		assert.Equal(t, 0, uf.Find(i))
	}
}

func TestSizeMatchesMembers(t *testing.T) {
	const n = 64
	uf, err := NewUnionFind(n)
	require.NoError(t, err)

	// 按 i%4 分成 4 组
	for i := 4; i < n; i++ {
		uf.Union(i, i%4)
	}
	assert.Equal(t, 4, uf.Count())

	members := make(map[int]int)
	for i := 0; i < n; i++ {
		members[uf.Find(i)]++
	}
	require.Len(t, members, 4)
	for root, cnt := range members {
		assert.Equal(t, cnt, uf.Size(root))
		assert.Equal(t, root, uf.parent[root])
	}
}

func BenchmarkUnionFind(b *testing.B) {
	const n = 1 << 16
	for i := 0; i < b.N; i++ {
		uf, _ := NewUnionFind(n)
		for j := 1; j < n; j++ {
			uf.Union(j, j/2)
		}
		for j := 0; j < n; j++ {
			uf.Find(j)
		}
	}
}
