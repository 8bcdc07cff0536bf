package griddot

import (
	"fmt"

	"percolation_tool/pkg/gridfmt"

	"github.com/awalterschulze/gographviz"
)

const (
	GraphName  = "percolation"
	TopNode    = "top"
	BottomNode = "bottom"
)

// NodeName 返回格子 (row, col) 在图中的节点名
func NodeName(row, col int) string {
	return fmt.Sprintf("s_%d_%d", row, col)
}

// Build 把网格中打开的格子转换为无向图
// 每个打开的格子是一个节点，满的格子填充浅蓝色，其余填充白色
// 相邻的打开格子之间有一条边，第一行和最后一行的打开格子分别连到 top 和 bottom
func Build(g gridfmt.Grid) (*gographviz.Graph, error) {
	graph := gographviz.NewGraph()
	if err := graph.SetName(GraphName); err != nil {
		return nil, err
	}
	if err := graph.SetDir(false); err != nil {
		return nil, err
	}

	for _, name := range []string{TopNode, BottomNode} {
		if err := graph.AddNode(GraphName, name, map[string]string{"shape": "box"}); err != nil {
			return nil, err
		}
	}

	open := make(map[[2]int]bool)
	for r := 1; r <= g.Rows(); r++ {
		for c := 1; c <= g.Cols(); c++ {
			isOpen, err := g.IsOpen(r, c)
			if err != nil {
				return nil, err
			}
			if !isOpen {
				continue
			}
			isFull, err := g.IsFull(r, c)
			if err != nil {
				return nil, err
			}
			color := "white"
			if isFull {
				color = "lightblue"
			}
			attrs := map[string]string{
				"label":     fmt.Sprintf(`"%d,%d"`, r, c),
				"style":     "filled",
				"fillcolor": color,
			}
			if err := graph.AddNode(GraphName, NodeName(r, c), attrs); err != nil {
				return nil, err
			}
			open[[2]int{r, c}] = true
		}
	}

	addEdge := func(src, dst string) error {
		return graph.AddEdge(src, dst, false, nil)
	}
	// 只看右边和下边，每条边只加一次
	for r := 1; r <= g.Rows(); r++ {
		for c := 1; c <= g.Cols(); c++ {
			if !open[[2]int{r, c}] {
				continue
			}
			name := NodeName(r, c)
			if r == 1 {
				if err := addEdge(TopNode, name); err != nil {
					return nil, err
				}
			}
			if open[[2]int{r, c + 1}] {
				if err := addEdge(name, NodeName(r, c+1)); err != nil {
					return nil, err
				}
			}
			if open[[2]int{r + 1, c}] {
				if err := addEdge(name, NodeName(r+1, c)); err != nil {
					return nil, err
				}
			}
			if r == g.Rows() {
				if err := addEdge(name, BottomNode); err != nil {
					return nil, err
				}
			}
		}
	}
	return graph, nil
}

// ToDOT 返回网格的 DOT 文本
func ToDOT(g gridfmt.Grid) (string, error) {
	graph, err := Build(g)
	if err != nil {
		return "", err
	}
	return graph.String(), nil
}

// adjacency 把无向图转换为邻接表，邻居顺序和加边顺序一致
func adjacency(g *gographviz.Graph) map[string][]string {
	adj := make(map[string][]string)
	for _, e := range g.Edges.Edges {
		adj[e.Src] = append(adj[e.Src], e.Dst)
		adj[e.Dst] = append(adj[e.Dst], e.Src)
	}
	return adj
}

// WitnessPath 用 BFS 从 top 找一条到 bottom 的最短路径
// 返回路径上的格子节点名(不含 top 和 bottom)，不渗透时返回 nil
func WitnessPath(g *gographviz.Graph) []string {
	adj := adjacency(g)
	prev := map[string]string{TopNode: ""}
	queue := []string{TopNode}

	for qi := 0; qi < len(queue); qi++ {
		u := queue[qi]
		if u == BottomNode {
			break
		}
		for _, v := range adj[u] {
			if _, seen := prev[v]; seen {
				continue
			}
			prev[v] = u
			queue = append(queue, v)
		}
	}

	if _, ok := prev[BottomNode]; !ok {
		return nil
	}
	// 从 bottom 回溯到 top
	var path []string
	for n := prev[BottomNode]; n != TopNode; n = prev[n] {
		path = append([]string{n}, path...)
	}
	return path
}
